package payment

import "github.com/Zhima-Mochi/minishop-store/internal/domain/event"

// EventBus is the outbound port the notifier broadcasts through. It owns the
// listener list; the notifier only translates between listeners and events.
type EventBus interface {
	event.Publisher
	event.Subscriber
}
