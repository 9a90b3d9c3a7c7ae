package memory

import (
	"context"
	"fmt"
	"sync"

	domain "github.com/Zhima-Mochi/minishop-store/internal/domain/order"
)

// OrderRepository keeps orders in placement order.
type OrderRepository struct {
	mu     sync.RWMutex
	orders []*domain.Order
	byID   map[int]int // id -> index in orders
}

func NewOrderRepository() *OrderRepository {
	return &OrderRepository{
		byID: make(map[int]int),
	}
}

func (r *OrderRepository) Insert(ctx context.Context, order *domain.Order) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if order == nil || order.ID == 0 {
		return fmt.Errorf("order repository: id is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byID[order.ID]; exists {
		return domain.ErrConflict
	}

	r.byID[order.ID] = len(r.orders)
	r.orders = append(r.orders, order.Clone())
	return nil
}

func (r *OrderRepository) Get(ctx context.Context, id int) (*domain.Order, error) {
	_ = ctx

	r.mu.RLock()
	defer r.mu.RUnlock()

	idx, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return r.orders[idx].Clone(), nil
}

func (r *OrderRepository) List(ctx context.Context) ([]*domain.Order, error) {
	_ = ctx

	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*domain.Order, 0, len(r.orders))
	for _, o := range r.orders {
		out = append(out, o.Clone())
	}
	return out, nil
}

func (r *OrderRepository) Count(ctx context.Context) (int, error) {
	_ = ctx

	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.orders), nil
}

// Delete removes the order with id and keeps the rest in placement order.
func (r *OrderRepository) Delete(ctx context.Context, id int) error {
	_ = ctx

	r.mu.Lock()
	defer r.mu.Unlock()

	idx, ok := r.byID[id]
	if !ok {
		return domain.ErrNotFound
	}
	r.orders = append(r.orders[:idx], r.orders[idx+1:]...)
	delete(r.byID, id)
	for i := idx; i < len(r.orders); i++ {
		r.byID[r.orders[i].ID] = i
	}
	return nil
}
