package order

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/Zhima-Mochi/minishop-store/internal/application"
	domcustomer "github.com/Zhima-Mochi/minishop-store/internal/domain/customer"
	"github.com/Zhima-Mochi/minishop-store/internal/domain/event"
	domain "github.com/Zhima-Mochi/minishop-store/internal/domain/order"
	"github.com/Zhima-Mochi/minishop-store/internal/observability"
	"github.com/Zhima-Mochi/minishop-store/internal/observability/logctx"
	"github.com/shopspring/decimal"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

const (
	orderService      = "order-service"
	useCaseOrderPlace = "order.place"
)

var (
	ErrNilOrder   = errors.New("order: order is required")
	ErrConflict   = domain.ErrConflict
	ErrRepository = errors.New("order: repository failure")

	// ErrReentrantPlacement is returned when a payment listener places an order
	// with the context it was handed; the placement lock is not reentrant.
	ErrReentrantPlacement = errors.New("order: placement started from within a placement")
)

type placingKey struct{}

var _ application.UseCase[PlaceOrderInput, *PlaceOrderResult] = (*PlaceOrderUseCase)(nil)

// PlaceOrderUseCase assigns the next sequential id to an order, records it
// with its customer, runs the caller's hook and processes the payment.
type PlaceOrderUseCase struct {
	// mu makes each placement one atomic unit so ids are gapless and unique.
	mu        sync.Mutex
	orders    domain.Repository
	customers domcustomer.Repository
	payments  PaymentPort
	publisher event.Publisher
	now       func() time.Time

	tel          observability.Observability
	log          observability.Logger
	reqCounter   observability.Counter   // usecase_requests_total{use_case,outcome}
	durHistogram observability.Histogram // usecase_duration_seconds{use_case}
}

// NewPlaceOrderUseCase wires the dependencies required to execute the use case.
// publisher may be nil; when set it receives an order.placed event per placement.
func NewPlaceOrderUseCase(
	orders domain.Repository,
	customers domcustomer.Repository,
	payments PaymentPort,
	publisher event.Publisher,
	tel observability.Observability,
) *PlaceOrderUseCase {
	metricsProvider := observability.MetricsOf(tel)

	return &PlaceOrderUseCase{
		orders:       orders,
		customers:    customers,
		payments:     payments,
		publisher:    publisher,
		now:          time.Now,
		tel:          tel,
		log:          observability.LoggerOf(tel).With(observability.F("service", orderService)),
		reqCounter:   metricsProvider.Counter(observability.MUsecaseRequests),
		durHistogram: metricsProvider.Histogram(observability.MUsecaseDuration),
	}
}

type PlaceOrderInput struct {
	Order    *domain.Order
	Customer domcustomer.Customer
	// OnProcessed, if set, is called after the order is recorded and before payment.
	OnProcessed func(*domain.Order)
}

type PlaceOrderResult struct {
	OrderID     int
	Total       decimal.Decimal
	ListenerErr error
}

// Execute performs the placement flow. On success cmd.Order carries its new id.
func (uc *PlaceOrderUseCase) Execute(ctx context.Context, cmd PlaceOrderInput) (_ *PlaceOrderResult, err error) {
	logger := logctx.FromOr(ctx, uc.log).With(observability.F("use_case", useCaseOrderPlace))

	ctx, span := observability.TracerOf(uc.tel).Start(ctx, application.SpanPrefix+"PlaceOrder",
		attribute.String("use_case", useCaseOrderPlace),
		attribute.Int("order.customer_id", cmd.Customer.ID),
	)
	start := time.Now()
	outcome, statusText := application.OutcomeSuccess, "OK"
	var orderID int

	defer func() {
		lat := time.Since(start).Seconds()

		if span != nil {
			if err != nil {
				span.RecordError(err)
				span.SetStatus(codes.Error, statusText)
			} else {
				span.SetStatus(codes.Ok, statusText)
			}
			span.End()
		}

		uc.reqCounter.Add(1,
			observability.L("use_case", useCaseOrderPlace),
			observability.L("outcome", outcome),
		)
		uc.durHistogram.Observe(lat,
			observability.L("use_case", useCaseOrderPlace),
		)

		fields := []observability.Field{
			observability.F("outcome", outcome),
			observability.F("status", statusText),
			observability.F("latency_seconds", lat),
			observability.F("order_id", orderID),
		}
		fields = append(fields, logctx.SpanFields(ctx)...)
		if err != nil {
			fields = append(fields, observability.F("error", err.Error()))
		}

		logger.Info("use_case_done", fields...)
	}()

	if cmd.Order == nil {
		outcome, statusText = application.OutcomeError, "ORDER_REQUIRED"
		return nil, ErrNilOrder
	}

	if ctx.Value(placingKey{}) != nil {
		outcome, statusText = application.OutcomeError, "REENTRANT_PLACEMENT"
		return nil, ErrReentrantPlacement
	}

	uc.mu.Lock()
	defer uc.mu.Unlock()
	ctx = context.WithValue(ctx, placingKey{}, struct{}{})

	if err := ctx.Err(); err != nil {
		outcome, statusText = application.OutcomeError, "CONTEXT_CANCELED"
		return nil, err
	}

	count, err := uc.orders.Count(ctx)
	if err != nil {
		outcome, statusText = application.OutcomeError, "REPO_COUNT_FAILED"
		return nil, wrapRepositoryError(err)
	}

	orderID = count + 1
	cmd.Order.Place(orderID, cmd.Customer.ID, uc.now())
	if err := uc.orders.Insert(ctx, cmd.Order); err != nil {
		cmd.Order.Place(0, 0, time.Time{})
		outcome, statusText = application.OutcomeError, "REPO_INSERT_FAILED"
		return nil, wrapRepositoryError(err)
	}
	if err := uc.customers.Append(ctx, cmd.Customer); err != nil {
		// Orders()[i] and Customers()[i] must stay paired.
		if delErr := uc.orders.Delete(context.WithoutCancel(ctx), orderID); delErr != nil {
			logger.Error("order_rollback_failed",
				observability.F("order_id", orderID),
				observability.F("error", delErr),
			)
		}
		cmd.Order.Place(0, 0, time.Time{})
		orderID = 0
		outcome, statusText = application.OutcomeError, "CUSTOMER_APPEND_FAILED"
		return nil, wrapRepositoryError(err)
	}

	span.SetAttributes(attribute.Int("order.id", orderID))
	span.AddEvent("order.placed")
	ctx = logctx.Enrich(ctx, uc.log, observability.F("order_id", orderID))

	if cmd.OnProcessed != nil {
		cmd.OnProcessed(cmd.Order)
	}

	if uc.publisher != nil {
		if pubErr := uc.publisher.Publish(ctx, domain.NewPlacedEvent(cmd.Order)); pubErr != nil {
			logger.Warn("order_placed_event_publish_failed",
				observability.F("order_id", orderID),
				observability.F("error", pubErr),
			)
		}
	}

	result := &PlaceOrderResult{OrderID: orderID, Total: cmd.Order.Total()}
	if uc.payments != nil {
		paid := uc.payments.ProcessPayment(ctx, cmd.Order)
		result.Total = paid.Total
		result.ListenerErr = paid.ListenerErr
		if paid.ListenerErr != nil {
			statusText = "PAYMENT_LISTENER_FAILED"
		}
	}

	return result, nil
}

func wrapRepositoryError(err error) error {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return err
	case errors.Is(err, domain.ErrConflict):
		return ErrConflict
	default:
		return fmt.Errorf("%w: %w", ErrRepository, err)
	}
}
