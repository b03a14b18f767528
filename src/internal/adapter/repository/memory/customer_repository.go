package memory

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/api-sage/account-ledger/src/internal/domain"
)

// CustomerRepository keeps customers in process memory.
type CustomerRepository struct {
	mu        sync.RWMutex
	customers map[string]domain.Customer
}

func NewCustomerRepository() *CustomerRepository {
	return &CustomerRepository{customers: make(map[string]domain.Customer)}
}

func (r *CustomerRepository) Create(_ context.Context, customer domain.Customer) (domain.Customer, error) {
	id := strings.TrimSpace(customer.ID)
	if id == "" {
		return domain.Customer{}, fmt.Errorf("%w: customer id is required", domain.ErrInvalidArgument)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.customers[id]; exists {
		return domain.Customer{}, fmt.Errorf("%w: customer %s already exists", domain.ErrInvalidArgument, id)
	}
	customer.ID = id
	if customer.CreatedAt.IsZero() {
		customer.CreatedAt = time.Now().UTC()
	}
	r.customers[id] = customer
	return customer, nil
}

func (r *CustomerRepository) GetByID(_ context.Context, id string) (domain.Customer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	customer, ok := r.customers[strings.TrimSpace(id)]
	if !ok {
		return domain.Customer{}, domain.ErrRecordNotFound
	}
	return customer, nil
}

func (r *CustomerRepository) GetPinHash(ctx context.Context, id string) (string, error) {
	customer, err := r.GetByID(ctx, id)
	if err != nil {
		return "", err
	}
	return customer.PinHash, nil
}
