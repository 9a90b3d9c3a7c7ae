package catalog

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Kind tags which variant payload a Product carries in Detail.
type Kind string

const (
	KindProduct   Kind = "product"
	KindSneakers  Kind = "sneakers"
	KindTracksuit Kind = "tracksuit"
	KindTShirt    Kind = "tshirt"
)

// Product is a catalog item. Sneakers, tracksuits and t-shirts share the base
// fields and differ only by the Detail payload selected by Kind:
// brand, size and colour respectively.
type Product struct {
	ID     int
	Name   string
	Price  decimal.Decimal
	Kind   Kind
	Detail string
}

func New(id int, name string, price decimal.Decimal) Product {
	return Product{ID: id, Name: name, Price: price, Kind: KindProduct}
}

func NewSneakers(id int, name string, price decimal.Decimal, brand string) Product {
	return Product{ID: id, Name: name, Price: price, Kind: KindSneakers, Detail: brand}
}

func NewTracksuit(id int, name string, price decimal.Decimal, size string) Product {
	return Product{ID: id, Name: name, Price: price, Kind: KindTracksuit, Detail: size}
}

func NewTShirt(id int, name string, price decimal.Decimal, color string) Product {
	return Product{ID: id, Name: name, Price: price, Kind: KindTShirt, Detail: color}
}

// Brand returns the sneaker brand, or "" for other kinds.
func (p Product) Brand() string { return p.detailFor(KindSneakers) }

// Size returns the tracksuit size, or "" for other kinds.
func (p Product) Size() string { return p.detailFor(KindTracksuit) }

// Color returns the t-shirt colour, or "" for other kinds.
func (p Product) Color() string { return p.detailFor(KindTShirt) }

func (p Product) detailFor(k Kind) string {
	if p.Kind != k {
		return ""
	}
	return p.Detail
}

// Describe renders the one-line description used by carts and console output.
func (p Product) Describe() string {
	base := fmt.Sprintf("%d: %s - $%s", p.ID, p.Name, FormatAmount(p.Price))
	switch p.Kind {
	case KindSneakers:
		return fmt.Sprintf("%s - %s Sneakers", base, p.Detail)
	case KindTracksuit:
		return fmt.Sprintf("%s - Size: %s", base, p.Detail)
	case KindTShirt:
		return fmt.Sprintf("%s - Color: %s", base, p.Detail)
	default:
		return base
	}
}

func (p Product) String() string { return p.Describe() }

// FormatAmount renders d with the scale it was written with, so 10.00 stays
// "10.00" where decimal.String would print "10".
func FormatAmount(d decimal.Decimal) string {
	if exp := d.Exponent(); exp < 0 {
		return d.StringFixed(-exp)
	}
	return d.String()
}
