package cart

// Describer is anything that can render itself as one human-readable line.
type Describer interface {
	Describe() string
}

// Cart is an ordered, append-only collection of items.
type Cart[T Describer] struct {
	items []T
}

func New[T Describer]() *Cart[T] {
	return &Cart[T]{}
}

func (c *Cart[T]) Add(item T) {
	c.items = append(c.items, item)
}

// Items returns the contents in insertion order. The returned slice is a copy.
func (c *Cart[T]) Items() []T {
	out := make([]T, len(c.items))
	copy(out, c.items)
	return out
}

func (c *Cart[T]) Len() int { return len(c.items) }

// Lines describes each item, one line per item.
func (c *Cart[T]) Lines() []string {
	lines := make([]string, 0, len(c.items))
	for _, item := range c.items {
		lines = append(lines, item.Describe())
	}
	return lines
}
