package repo

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/rogerio-castellano/safekart/internal/models"
)

// InMemoryProductRepository is an in-memory implementation of ProductRepository.
type InMemoryProductRepository struct {
	mu       sync.RWMutex
	products map[string]models.Product
}

// NewInMemoryProductRepository creates a new instance of InMemoryProductRepository.
func NewInMemoryProductRepository() *InMemoryProductRepository {
	return &InMemoryProductRepository{
		products: map[string]models.Product{},
	}
}

// Create adds a new product. The barcode must not exist yet.
func (r *InMemoryProductRepository) Create(_ context.Context, product models.Product) (models.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.products[product.Barcode]; ok {
		return models.Product{}, ErrDuplicatedValueUnique
	}
	r.products[product.Barcode] = product
	return product, nil
}

// Update replaces the product with the same barcode.
func (r *InMemoryProductRepository) Update(_ context.Context, product models.Product) (models.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.products[product.Barcode]; !ok {
		return models.Product{}, ErrProductNotFound
	}
	r.products[product.Barcode] = product
	return product, nil
}

// GetByBarcode retrieves a product by its barcode.
func (r *InMemoryProductRepository) GetByBarcode(_ context.Context, barcode string) (models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.products[barcode]
	if !ok {
		return models.Product{}, ErrProductNotFound
	}
	return p, nil
}

// GetAll retrieves all products ordered by barcode.
func (r *InMemoryProductRepository) GetAll(_ context.Context) ([]models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	products := make([]models.Product, 0, len(r.products))
	for _, p := range r.products {
		products = append(products, p)
	}
	sort.Slice(products, func(i, j int) bool { return products[i].Barcode < products[j].Barcode })
	return products, nil
}

// SearchByName returns products whose name contains query, ignoring case.
func (r *InMemoryProductRepository) SearchByName(ctx context.Context, query string) ([]models.Product, error) {
	all, _ := r.GetAll(ctx)
	needle := strings.ToLower(query)

	matches := []models.Product{}
	for _, p := range all {
		if strings.Contains(strings.ToLower(p.Name), needle) {
			matches = append(matches, p)
		}
	}
	return matches, nil
}

func (r *InMemoryProductRepository) Count(_ context.Context) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.products), nil
}

func (r *InMemoryProductRepository) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.products = map[string]models.Product{}
}
