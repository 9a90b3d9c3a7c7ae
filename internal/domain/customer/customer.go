package customer

import "context"

// Customer is an inert value object; no field is validated.
type Customer struct {
	ID    int
	Name  string
	Email string
}

// Repository keeps customers in insertion order. The same customer may appear
// more than once, once per placed order.
type Repository interface {
	Append(ctx context.Context, c Customer) error
	List(ctx context.Context) ([]Customer, error)
}
