package cart

import (
	"strconv"
	"testing"

	"github.com/Zhima-Mochi/minishop-store/internal/domain/catalog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type label string

func (l label) Describe() string { return "item " + string(l) }

func TestCartPreservesInsertionOrder(t *testing.T) {
	c := New[label]()
	for i := 0; i < 5; i++ {
		c.Add(label(strconv.Itoa(i)))
	}

	items := c.Items()
	require.Len(t, items, 5)
	assert.Equal(t, 5, c.Len())
	for i, item := range items {
		assert.Equal(t, label(strconv.Itoa(i)), item)
	}
}

func TestCartItemsIsACopy(t *testing.T) {
	c := New[label]()
	c.Add("a")

	items := c.Items()
	items[0] = "mutated"

	assert.Equal(t, []label{"a"}, c.Items())
}

func TestCartEmpty(t *testing.T) {
	c := New[label]()
	assert.Empty(t, c.Items())
	assert.Empty(t, c.Lines())
	assert.Zero(t, c.Len())
}

func TestCartLinesWithProducts(t *testing.T) {
	c := New[catalog.Product]()
	c.Add(catalog.NewSneakers(1, "Running Shoes", decimal.RequireFromString("99.99"), "Nike"))
	c.Add(catalog.NewTracksuit(2, "Sports Tracksuit", decimal.RequireFromString("49.99"), "Medium"))
	c.Add(catalog.NewTShirt(3, "Athletic T-Shirt", decimal.RequireFromString("29.99"), "Blue"))

	assert.Equal(t, []string{
		"1: Running Shoes - $99.99 - Nike Sneakers",
		"2: Sports Tracksuit - $49.99 - Size: Medium",
		"3: Athletic T-Shirt - $29.99 - Color: Blue",
	}, c.Lines())
}
