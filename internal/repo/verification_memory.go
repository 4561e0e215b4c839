package repo

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/rogerio-castellano/safekart/internal/models"
)

type InMemoryVerificationRepository struct {
	mu            sync.Mutex
	verifications []models.Verification
	index         map[string]int
	customers     CustomerRepository
}

// NewInMemoryVerificationRepository keeps verifications in insertion order and
// resolves customers through the given repository when listing.
func NewInMemoryVerificationRepository(customers CustomerRepository) *InMemoryVerificationRepository {
	return &InMemoryVerificationRepository{
		index:     map[string]int{},
		customers: customers,
	}
}

func (r *InMemoryVerificationRepository) Create(_ context.Context, v models.Verification) (models.Verification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.index[v.ID]; ok {
		return models.Verification{}, ErrDuplicatedValueUnique
	}
	v.Customer = nil
	r.index[v.ID] = len(r.verifications)
	r.verifications = append(r.verifications, v)
	return v, nil
}

func (r *InMemoryVerificationRepository) GetByID(_ context.Context, id string) (models.Verification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	i, ok := r.index[id]
	if !ok {
		return models.Verification{}, ErrVerificationNotFound
	}
	return r.verifications[i], nil
}

func (r *InMemoryVerificationRepository) ListWithCustomers(ctx context.Context) ([]models.Verification, error) {
	r.mu.Lock()
	out := make([]models.Verification, 0, len(r.verifications))
	for i := len(r.verifications) - 1; i >= 0; i-- {
		out = append(out, r.verifications[i])
	}
	r.mu.Unlock()

	sort.SliceStable(out, func(i, j int) bool { return out[i].Timestamp.After(out[j].Timestamp) })

	for i := range out {
		if out[i].CustomerID == "" || r.customers == nil {
			continue
		}
		c, err := r.customers.GetByID(ctx, out[i].CustomerID)
		if errors.Is(err, ErrCustomerNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		out[i].Customer = &c
	}
	return out, nil
}

func (r *InMemoryVerificationRepository) Redeem(_ context.Context, id string, limit int) (models.Verification, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	i, ok := r.index[id]
	if !ok {
		return models.Verification{}, false, ErrVerificationNotFound
	}

	v := &r.verifications[i]
	if v.ScanCount >= limit {
		v.ExpiredScans++
		return *v, false, nil
	}
	v.ScanCount++
	return *v, true, nil
}

func (r *InMemoryVerificationRepository) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.verifications = nil
	r.index = map[string]int{}
}
