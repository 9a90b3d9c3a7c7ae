package payment

import (
	"context"
	"fmt"
	"time"

	"github.com/Zhima-Mochi/minishop-store/internal/application"
	"github.com/Zhima-Mochi/minishop-store/internal/domain/event"
	domorder "github.com/Zhima-Mochi/minishop-store/internal/domain/order"
	"github.com/Zhima-Mochi/minishop-store/internal/observability"
	"github.com/Zhima-Mochi/minishop-store/internal/observability/logctx"
	"github.com/shopspring/decimal"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

const (
	paymentService        = "payment-service"
	useCasePaymentProcess = "payment.process"
	paymentSpanName       = "ProcessPayment"
)

// Listener is notified once per processed payment.
type Listener func(ctx context.Context, orderID int, total decimal.Decimal) error

type ProcessPaymentResult struct {
	OrderID int
	Total   decimal.Decimal
	// ListenerErr joins the failures of individual listeners. It is
	// informational: every listener was attempted regardless.
	ListenerErr error
}

// Notifier processes payments for placed orders and broadcasts an
// order.paid event to every registered listener.
type Notifier struct {
	bus        EventBus
	tel        observability.Observability
	log        observability.Logger
	reqCounter observability.Counter
	durHist    observability.Histogram
}

func NewNotifier(bus EventBus, tel observability.Observability) *Notifier {
	metricsProvider := observability.MetricsOf(tel)
	return &Notifier{
		bus: bus,
		tel: tel,
		log: observability.LoggerOf(tel).With(
			observability.F("service", paymentService),
		),
		reqCounter: metricsProvider.Counter(observability.MUsecaseRequests),
		durHist:    metricsProvider.Histogram(observability.MUsecaseDuration),
	}
}

// Subscribe registers l; listeners are invoked in registration order.
func (n *Notifier) Subscribe(l Listener) event.Subscription {
	if l == nil {
		return event.Subscription{}
	}
	return n.bus.Subscribe(domorder.EventPaid, func(ctx context.Context, e event.Event) error {
		evt, ok := e.(domorder.PaidEvent)
		if !ok {
			return fmt.Errorf("payment: unexpected event %T", e)
		}
		return l(ctx, evt.OrderID, evt.Total)
	})
}

func (n *Notifier) Unsubscribe(sub event.Subscription) bool {
	return n.bus.Unsubscribe(sub)
}

// ProcessPayment computes the order total and synchronously notifies every
// registered listener with (order id, total). With no listeners it does nothing.
// Listener failures are logged and reported in the result, never returned.
func (n *Notifier) ProcessPayment(ctx context.Context, o *domorder.Order) *ProcessPaymentResult {
	if o == nil {
		return &ProcessPaymentResult{Total: decimal.Zero}
	}

	paid := domorder.NewPaidEvent(o)
	result := &ProcessPaymentResult{OrderID: paid.OrderID, Total: paid.Total}

	logger := logctx.FromOr(ctx, n.log).With(
		observability.F("use_case", useCasePaymentProcess),
		observability.F("order_id", paid.OrderID),
	)

	ctx, span := observability.TracerOf(n.tel).Start(ctx, application.SpanPrefix+paymentSpanName,
		attribute.String("use_case", useCasePaymentProcess),
		attribute.Int("order.id", paid.OrderID),
		attribute.String("payment.total", paid.Total.String()),
	)
	start := time.Now()
	outcome, statusText := application.OutcomeSuccess, "OK"

	defer func() {
		latency := time.Since(start).Seconds()
		if span != nil {
			if result.ListenerErr != nil {
				span.RecordError(result.ListenerErr)
				span.SetStatus(codes.Error, statusText)
			} else {
				span.SetStatus(codes.Ok, statusText)
			}
			span.End()
		}

		n.reqCounter.Add(1,
			observability.L("use_case", useCasePaymentProcess),
			observability.L("outcome", outcome),
		)
		n.durHist.Observe(latency,
			observability.L("use_case", useCasePaymentProcess),
		)

		fields := []observability.Field{
			observability.F("outcome", outcome),
			observability.F("status", statusText),
			observability.F("latency_seconds", latency),
			observability.F("total", paid.Total.String()),
		}
		fields = append(fields, logctx.SpanFields(ctx)...)
		if result.ListenerErr != nil {
			fields = append(fields, observability.F("error", result.ListenerErr.Error()))
		}
		logger.Info("use_case_done", fields...)
	}()

	if err := n.bus.Publish(logctx.With(ctx, logger), paid); err != nil {
		outcome, statusText = application.OutcomePartial, "LISTENER_FAILED"
		result.ListenerErr = err
	}
	return result
}
