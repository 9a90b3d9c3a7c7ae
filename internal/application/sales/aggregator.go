package sales

import (
	"context"
	"sync/atomic"

	"github.com/Zhima-Mochi/minishop-store/internal/observability"
	"github.com/Zhima-Mochi/minishop-store/internal/observability/logctx"
	"github.com/shopspring/decimal"
)

const componentSales = "sales_aggregator"

// Report is what the aggregator publishes after counting a paid order.
type Report struct {
	OrderID     int
	TotalAmount decimal.Decimal
	TotalSales  int64
}

// Sink receives every Report, e.g. a console printer.
type Sink interface {
	SaleRecorded(ctx context.Context, r Report)
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(ctx context.Context, r Report)

func (f SinkFunc) SaleRecorded(ctx context.Context, r Report) { f(ctx, r) }

// Aggregator counts completed sales for one store.
type Aggregator struct {
	totalSales atomic.Int64
	sink       Sink
	log        observability.Logger
	completed  observability.BoundCounter
	amount     observability.BoundCounter
}

type Option func(*Aggregator)

// WithSink sets where reports are delivered in addition to the log.
func WithSink(s Sink) Option {
	return func(a *Aggregator) { a.sink = s }
}

func New(tel observability.Observability, opts ...Option) *Aggregator {
	metricsProvider := observability.MetricsOf(tel)
	a := &Aggregator{
		log:       observability.LoggerOf(tel).With(observability.F("component", componentSales)),
		completed: metricsProvider.Counter(observability.MSalesCompleted).Bind(),
		amount:    metricsProvider.Counter(observability.MSalesAmount).Bind(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// OnOrderPaid counts one sale and reports it. Amounts are not validated;
// zero and negative totals are counted like any other.
func (a *Aggregator) OnOrderPaid(ctx context.Context, orderID int, totalAmount decimal.Decimal) Report {
	r := Report{
		OrderID:     orderID,
		TotalAmount: totalAmount,
		TotalSales:  a.totalSales.Add(1),
	}

	a.completed.Add(1)
	// Prometheus counters reject negative deltas.
	if totalAmount.IsPositive() {
		a.amount.Add(totalAmount.InexactFloat64())
	}

	logctx.FromOr(ctx, a.log).Info("sale_recorded",
		observability.F("order_id", r.OrderID),
		observability.F("total_amount", r.TotalAmount.String()),
		observability.F("total_sales", r.TotalSales),
	)
	if a.sink != nil {
		a.sink.SaleRecorded(ctx, r)
	}
	return r
}

// Listen is OnOrderPaid shaped as a payment listener.
func (a *Aggregator) Listen(ctx context.Context, orderID int, totalAmount decimal.Decimal) error {
	a.OnOrderPaid(ctx, orderID, totalAmount)
	return nil
}

func (a *Aggregator) TotalSales() int64 {
	return a.totalSales.Load()
}
