package event

import "context"

// Event is any domain event with a name identifier.
type Event interface {
	EventName() string
}

// Handler processes a published event.
type Handler func(ctx context.Context, e Event) error

// Subscription identifies one registered handler so it can be removed later.
type Subscription struct {
	ID        string
	EventName string
}

// Publisher publishes events to interested subscribers.
type Publisher interface {
	Publish(ctx context.Context, e Event) error
}

// Subscriber registers and removes handlers for event names.
type Subscriber interface {
	Subscribe(eventName string, h Handler) Subscription
	Unsubscribe(sub Subscription) bool
}
