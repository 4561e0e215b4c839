package repo

import (
	"context"

	"github.com/rogerio-castellano/safekart/internal/models"
)

// CustomerRepository stores purchasers. Customers are never updated or deleted.
type CustomerRepository interface {
	Create(ctx context.Context, customer models.Customer) (models.Customer, error)
	GetByID(ctx context.Context, id string) (models.Customer, error)
	Count(ctx context.Context) (int, error)
}
