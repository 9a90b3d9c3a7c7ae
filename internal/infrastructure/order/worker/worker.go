package worker

import (
	"context"
	"fmt"

	"github.com/Zhima-Mochi/minishop-store/internal/domain/event"
	domorder "github.com/Zhima-Mochi/minishop-store/internal/domain/order"
	"github.com/Zhima-Mochi/minishop-store/internal/observability"
	"github.com/Zhima-Mochi/minishop-store/internal/observability/logctx"
)

const componentOrderWorker = "order_worker"

// Worker audits order.placed events against the order repository.
type Worker struct {
	repo       domorder.Repository
	subscriber event.Subscriber
	log        observability.Logger
	sub        event.Subscription
}

func New(repo domorder.Repository, subscriber event.Subscriber, logger observability.Logger) *Worker {
	if logger == nil {
		logger = observability.NopLogger()
	}
	return &Worker{
		repo:       repo,
		subscriber: subscriber,
		log:        logger.With(observability.F("component", componentOrderWorker)),
	}
}

func (w *Worker) Start() {
	if w.subscriber == nil || w.repo == nil {
		return
	}
	w.sub = w.subscriber.Subscribe(domorder.EventPlaced, w.handleOrderPlaced)
}

func (w *Worker) Stop() {
	if w.subscriber == nil || w.sub.ID == "" {
		return
	}
	w.subscriber.Unsubscribe(w.sub)
	w.sub = event.Subscription{}
}

func (w *Worker) handleOrderPlaced(ctx context.Context, e event.Event) error {
	evt, ok := e.(domorder.PlacedEvent)
	if !ok {
		return nil
	}
	logger := logctx.FromOr(ctx, w.log).With(observability.F("component", componentOrderWorker))

	o, err := w.repo.Get(ctx, evt.OrderID)
	if err != nil {
		logger.Error("order_load_failed",
			observability.F("order_id", evt.OrderID),
			observability.F("error", err),
		)
		return fmt.Errorf("order worker: find order: %w", err)
	}

	if total := o.Total(); !total.Equal(evt.Total) {
		logger.Error("order_total_mismatch",
			observability.F("order_id", evt.OrderID),
			observability.F("event_total", evt.Total),
			observability.F("stored_total", total),
		)
		return fmt.Errorf("order worker: order %d total %s, event carried %s", o.ID, total, evt.Total)
	}

	logger.Info("order_recorded",
		observability.F("order_id", o.ID),
		observability.F("customer_id", evt.CustomerID),
		observability.F("total", evt.Total),
		observability.F("items", len(o.Products)),
	)
	return nil
}
