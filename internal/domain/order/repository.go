package order

import "context"

type Repository interface {
	Insert(ctx context.Context, order *Order) error
	Get(ctx context.Context, id int) (*Order, error)
	List(ctx context.Context) ([]*Order, error)
	Count(ctx context.Context) (int, error)
	// Delete removes the order with id; it returns ErrNotFound if there is none.
	Delete(ctx context.Context, id int) error
}
