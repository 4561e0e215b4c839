package repo

import (
	"context"

	"github.com/rogerio-castellano/safekart/internal/models"
)

// ProductRepository defines the catalog operations. Products are keyed by barcode.
type ProductRepository interface {
	Create(ctx context.Context, product models.Product) (models.Product, error)
	Update(ctx context.Context, product models.Product) (models.Product, error)
	GetByBarcode(ctx context.Context, barcode string) (models.Product, error)
	GetAll(ctx context.Context) ([]models.Product, error)
	SearchByName(ctx context.Context, query string) ([]models.Product, error)
	Count(ctx context.Context) (int, error)
}
