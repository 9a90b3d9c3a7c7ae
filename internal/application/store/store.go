package store

import (
	"context"

	appOrder "github.com/Zhima-Mochi/minishop-store/internal/application/order"
	appPayment "github.com/Zhima-Mochi/minishop-store/internal/application/payment"
	"github.com/Zhima-Mochi/minishop-store/internal/application/sales"
	domcustomer "github.com/Zhima-Mochi/minishop-store/internal/domain/customer"
	"github.com/Zhima-Mochi/minishop-store/internal/domain/event"
	domorder "github.com/Zhima-Mochi/minishop-store/internal/domain/order"
	"github.com/Zhima-Mochi/minishop-store/internal/infrastructure/eventbus"
	"github.com/Zhima-Mochi/minishop-store/internal/infrastructure/memory"
	"github.com/Zhima-Mochi/minishop-store/internal/observability"
)

var (
	// ErrNilOrder is returned by PlaceOrder when no order is given.
	ErrNilOrder = appOrder.ErrNilOrder
	// ErrReentrantPlacement is returned by PlaceOrder when called from a
	// payment listener with the listener's context.
	ErrReentrantPlacement = appOrder.ErrReentrantPlacement
)

// Store owns the placed orders, the customers who placed them (paired by
// position), one payment notifier and one sales aggregator.
type Store struct {
	orders    domorder.Repository
	customers domcustomer.Repository
	notifier  *appPayment.Notifier
	sales     *sales.Aggregator
	place     *appOrder.PlaceOrderUseCase
}

type config struct {
	salesOpts []sales.Option
	publisher event.Publisher
}

type Option func(*config)

// WithSalesSink forwards every sales report to s.
func WithSalesSink(s sales.Sink) Option {
	return func(c *config) { c.salesOpts = append(c.salesOpts, sales.WithSink(s)) }
}

// WithPlacedEvents publishes an order.placed event for every placement.
func WithPlacedEvents(p event.Publisher) Option {
	return func(c *config) { c.publisher = p }
}

// New builds a store backed by in-memory repositories and its own event bus.
func New(tel observability.Observability, opts ...Option) *Store {
	return NewWithRepositories(memory.NewOrderRepository(), memory.NewCustomerRepository(),
		eventbus.New(nil, tel), tel, opts...)
}

func NewWithRepositories(
	orders domorder.Repository,
	customers domcustomer.Repository,
	bus appPayment.EventBus,
	tel observability.Observability,
	opts ...Option,
) *Store {
	var cfg config
	for _, opt := range opts {
		opt(&cfg)
	}

	notifier := appPayment.NewNotifier(bus, tel)
	return &Store{
		orders:    orders,
		customers: customers,
		notifier:  notifier,
		sales:     sales.New(tel, cfg.salesOpts...),
		place:     appOrder.NewPlaceOrderUseCase(orders, customers, notifier, cfg.publisher, tel),
	}
}

// PlaceOrder assigns order.ID = number of placed orders + 1, records the order
// and the customer, calls onProcessed (if non-nil) and processes the payment,
// which synchronously notifies subscribed listeners.
//
// All of that runs under the store's placement lock, which is not reentrant:
// onProcessed and payment listeners must not call PlaceOrder. A listener that
// does so with the context it received gets ErrReentrantPlacement; a hook
// doing so blocks forever.
func (s *Store) PlaceOrder(ctx context.Context, o *domorder.Order, c domcustomer.Customer, onProcessed func(*domorder.Order)) error {
	_, err := s.place.Execute(ctx, appOrder.PlaceOrderInput{
		Order:       o,
		Customer:    c,
		OnProcessed: onProcessed,
	})
	return err
}

// Orders lists placed orders in placement order.
func (s *Store) Orders(ctx context.Context) ([]*domorder.Order, error) {
	return s.orders.List(ctx)
}

// Customers lists customers in placement order; Customers()[i] placed Orders()[i].
func (s *Store) Customers(ctx context.Context) ([]domcustomer.Customer, error) {
	return s.customers.List(ctx)
}

func (s *Store) PaymentNotifier() *appPayment.Notifier { return s.notifier }

func (s *Store) Sales() *sales.Aggregator { return s.sales }

// SubscribeSales registers the store's sales aggregator as a payment listener.
func (s *Store) SubscribeSales() event.Subscription {
	return s.notifier.Subscribe(s.sales.Listen)
}
