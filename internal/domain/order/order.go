package order

import (
	"errors"
	"time"

	"github.com/Zhima-Mochi/minishop-store/internal/domain/catalog"
	"github.com/shopspring/decimal"
)

var (
	ErrNotFound = errors.New("order: not found")
	ErrConflict = errors.New("order: id already exists")
)

// Order is a set of products placed by one customer. ID stays zero until a
// store places the order.
type Order struct {
	ID         int
	CustomerID int
	Products   []catalog.Product
	PlacedAt   time.Time
}

func New(products []catalog.Product) *Order {
	return &Order{Products: products}
}

// Total sums the product prices. It is recomputed on every call.
func (o *Order) Total() decimal.Decimal {
	total := decimal.Zero
	for _, p := range o.Products {
		total = total.Add(p.Price)
	}
	return total
}

// Place stamps the store-assigned identity onto the order.
func (o *Order) Place(id, customerID int, at time.Time) {
	o.ID = id
	o.CustomerID = customerID
	o.PlacedAt = at.UTC()
}

func (o *Order) Clone() *Order {
	if o == nil {
		return nil
	}
	clone := *o
	if o.Products != nil {
		clone.Products = make([]catalog.Product, len(o.Products))
		copy(clone.Products, o.Products)
	}
	return &clone
}
