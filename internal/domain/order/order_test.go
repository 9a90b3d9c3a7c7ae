package order

import (
	"testing"
	"time"

	"github.com/Zhima-Mochi/minishop-store/internal/domain/catalog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestTotal(t *testing.T) {
	tests := []struct {
		name   string
		prices []string
		want   string
	}{
		{"empty", nil, "0"},
		{"single", []string{"99.99"}, "99.99"},
		{"scenario", []string{"99.99", "49.99", "29.99"}, "179.97"},
		{"no float drift", []string{"0.1", "0.2"}, "0.3"},
		{"negative accepted", []string{"10", "-2.5"}, "7.5"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			products := make([]catalog.Product, 0, len(tt.prices))
			for i, p := range tt.prices {
				products = append(products, catalog.New(i+1, "p", d(p)))
			}
			o := New(products)
			assert.True(t, d(tt.want).Equal(o.Total()), "got %s want %s", o.Total(), tt.want)
		})
	}
}

func TestTotalReflectsMutation(t *testing.T) {
	o := New([]catalog.Product{catalog.New(1, "a", d("1.50"))})
	require.True(t, d("1.5").Equal(o.Total()))

	o.Products = append(o.Products, catalog.New(2, "b", d("2.25")))
	assert.True(t, d("3.75").Equal(o.Total()))

	o.Products[0].Price = d("0")
	assert.True(t, d("2.25").Equal(o.Total()))
}

func TestPlace(t *testing.T) {
	o := New(nil)
	assert.Zero(t, o.ID)

	at := time.Date(2026, 1, 2, 3, 4, 5, 0, time.FixedZone("x", 3600))
	o.Place(4, 11, at)

	assert.Equal(t, 4, o.ID)
	assert.Equal(t, 11, o.CustomerID)
	assert.Equal(t, time.UTC, o.PlacedAt.Location())
	assert.True(t, at.Equal(o.PlacedAt))
}

func TestCloneIsIndependent(t *testing.T) {
	o := New([]catalog.Product{catalog.New(1, "a", d("5"))})
	o.Place(1, 1, time.Now())

	c := o.Clone()
	c.Products[0].Name = "changed"
	c.ID = 99

	assert.Equal(t, "a", o.Products[0].Name)
	assert.Equal(t, 1, o.ID)
	assert.Nil(t, (*Order)(nil).Clone())
}

func TestEvents(t *testing.T) {
	o := New([]catalog.Product{catalog.New(1, "a", d("99.99"))})
	o.Place(3, 8, time.Now())

	paid := NewPaidEvent(o)
	assert.Equal(t, EventPaid, paid.EventName())
	assert.Equal(t, 3, paid.OrderID)
	assert.Equal(t, "99.99", paid.Total.String())

	placed := NewPlacedEvent(o)
	assert.Equal(t, EventPlaced, placed.EventName())
	assert.Equal(t, 8, placed.CustomerID)
}
