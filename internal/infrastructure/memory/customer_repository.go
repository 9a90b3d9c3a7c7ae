package memory

import (
	"context"
	"sync"

	domain "github.com/Zhima-Mochi/minishop-store/internal/domain/customer"
)

// CustomerRepository is an append-only list of customers, positionally paired
// with the orders they placed.
type CustomerRepository struct {
	mu        sync.RWMutex
	customers []domain.Customer
}

func NewCustomerRepository() *CustomerRepository {
	return &CustomerRepository{}
}

func (r *CustomerRepository) Append(ctx context.Context, c domain.Customer) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.customers = append(r.customers, c)
	return nil
}

func (r *CustomerRepository) List(ctx context.Context) ([]domain.Customer, error) {
	_ = ctx

	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]domain.Customer, len(r.customers))
	copy(out, r.customers)
	return out, nil
}
