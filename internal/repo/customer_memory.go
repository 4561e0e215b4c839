package repo

import (
	"context"
	"sync"

	"github.com/rogerio-castellano/safekart/internal/models"
)

type InMemoryCustomerRepository struct {
	mu        sync.RWMutex
	customers map[string]models.Customer
}

func NewInMemoryCustomerRepository() *InMemoryCustomerRepository {
	return &InMemoryCustomerRepository{customers: map[string]models.Customer{}}
}

func (r *InMemoryCustomerRepository) Create(_ context.Context, c models.Customer) (models.Customer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.customers[c.ID]; ok {
		return models.Customer{}, ErrDuplicatedValueUnique
	}
	r.customers[c.ID] = c
	return c, nil
}

func (r *InMemoryCustomerRepository) GetByID(_ context.Context, id string) (models.Customer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.customers[id]
	if !ok {
		return models.Customer{}, ErrCustomerNotFound
	}
	return c, nil
}

func (r *InMemoryCustomerRepository) Count(_ context.Context) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.customers), nil
}

func (r *InMemoryCustomerRepository) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.customers = map[string]models.Customer{}
}
