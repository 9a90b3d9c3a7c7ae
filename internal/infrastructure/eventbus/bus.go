package eventbus

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"
	"sync"

	"github.com/Zhima-Mochi/minishop-store/internal/domain/event"
	"github.com/Zhima-Mochi/minishop-store/internal/observability"
	"github.com/Zhima-Mochi/minishop-store/internal/observability/logctx"
	"github.com/google/uuid"
)

// ErrHandlerPanic wraps a panic recovered from a handler.
var ErrHandlerPanic = errors.New("eventbus: handler panicked")

const componentEventBus = "event_bus"

type subscriber struct {
	id string
	h  event.Handler
}

// Bus is an in-process, synchronous event bus. Publish invokes every handler
// subscribed to the event name in registration order before returning. Each
// handler runs isolated: an error or panic is logged and counted, and the
// remaining handlers still run.
type Bus struct {
	mu       sync.RWMutex
	subs     map[string][]subscriber
	log      observability.Logger
	failures observability.Counter
}

func New(logger observability.Logger, tel observability.Observability) *Bus {
	if logger == nil {
		logger = observability.LoggerOf(tel)
	}
	return &Bus{
		subs:     make(map[string][]subscriber),
		log:      logger.With(observability.F("component", componentEventBus)),
		failures: observability.MetricsOf(tel).Counter(observability.MEventHandlerFailure),
	}
}

// Subscribe appends h to the handlers of eventName. A nil handler is ignored
// and yields a zero Subscription.
func (b *Bus) Subscribe(eventName string, h event.Handler) event.Subscription {
	if h == nil {
		return event.Subscription{}
	}
	sub := event.Subscription{ID: uuid.NewString(), EventName: eventName}

	b.mu.Lock()
	defer b.mu.Unlock()
	b.subs[eventName] = append(b.subs[eventName], subscriber{id: sub.ID, h: h})
	return sub
}

// Unsubscribe removes the handler behind sub, keeping the order of the rest.
// It reports whether a handler was removed.
func (b *Bus) Unsubscribe(sub event.Subscription) bool {
	if sub.ID == "" {
		return false
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	list := b.subs[sub.EventName]
	for i, s := range list {
		if s.id != sub.ID {
			continue
		}
		next := make([]subscriber, 0, len(list)-1)
		next = append(next, list[:i]...)
		next = append(next, list[i+1:]...)
		if len(next) == 0 {
			delete(b.subs, sub.EventName)
		} else {
			b.subs[sub.EventName] = next
		}
		return true
	}
	return false
}

// Subscribers returns how many handlers are registered for eventName.
func (b *Bus) Subscribers(eventName string) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs[eventName])
}

// Publish dispatches e synchronously. Handler failures never stop dispatch;
// they are returned joined once every handler has been attempted.
func (b *Bus) Publish(ctx context.Context, e event.Event) error {
	if e == nil {
		return nil
	}
	name := e.EventName()

	// Handlers run on a snapshot so they may (un)subscribe during dispatch.
	b.mu.RLock()
	handlers := append([]subscriber(nil), b.subs[name]...)
	b.mu.RUnlock()

	if len(handlers) == 0 {
		logctx.FromOr(ctx, b.log).Debug("event_dropped_no_subscriber",
			observability.F("event", name),
		)
		return nil
	}

	ctx = logctx.WithEvent(ctx, logctx.FromOr(ctx, b.log), map[string]string{"event": name})
	logger := logctx.FromOr(ctx, b.log)

	var errs []error
	for _, s := range handlers {
		if err := b.invoke(ctx, logger, e, s); err != nil {
			errs = append(errs, fmt.Errorf("handler %s: %w", s.id, err))
		}
	}

	logger.Debug("event_dispatched",
		observability.F("handlers", len(handlers)),
		observability.F("failed", len(errs)),
	)
	return errors.Join(errs...)
}

func (b *Bus) invoke(ctx context.Context, logger observability.Logger, e event.Event, s subscriber) (err error) {
	name := e.EventName()
	defer func() {
		r := recover()
		if r == nil {
			return
		}
		err = fmt.Errorf("%w: %v", ErrHandlerPanic, r)
		b.failures.Add(1, observability.L("event", name), observability.L("reason", "panic"))
		logger.Error("event_handler_panic",
			observability.F("subscription_id", s.id),
			observability.F("panic", fmt.Sprint(r)),
			observability.F("stack", string(debug.Stack())),
		)
	}()

	if err := s.h(ctx, e); err != nil {
		b.failures.Add(1, observability.L("event", name), observability.L("reason", "error"))
		logger.Warn("event_handler_error",
			observability.F("subscription_id", s.id),
			observability.F("error", err),
		)
		return err
	}
	return nil
}
