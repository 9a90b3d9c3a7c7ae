package order

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	EventPlaced = "order.placed"
	EventPaid   = "order.paid"
)

// PlacedEvent is emitted once a store has recorded an order.
type PlacedEvent struct {
	OrderID    int
	CustomerID int
	Total      decimal.Decimal
	OccurredAt time.Time
}

func (PlacedEvent) EventName() string { return EventPlaced }

func NewPlacedEvent(o *Order) PlacedEvent {
	return PlacedEvent{
		OrderID:    o.ID,
		CustomerID: o.CustomerID,
		Total:      o.Total(),
		OccurredAt: time.Now().UTC(),
	}
}

// PaidEvent is broadcast to payment listeners when an order's payment is processed.
type PaidEvent struct {
	OrderID    int
	Total      decimal.Decimal
	OccurredAt time.Time
}

func (PaidEvent) EventName() string { return EventPaid }

func NewPaidEvent(o *Order) PaidEvent {
	return PaidEvent{
		OrderID:    o.ID,
		Total:      o.Total(),
		OccurredAt: time.Now().UTC(),
	}
}
