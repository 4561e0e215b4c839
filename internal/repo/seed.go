package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/rogerio-castellano/safekart/internal/models"
)

// SampleProducts is the demo catalog loaded into an empty store.
var SampleProducts = []models.Product{
	// Electronics
	{Barcode: "8900000000001", Name: "SmartLED Pro Laptop 14 inch", Weight: 1400, MRP: 89999.00},
	{Barcode: "8900000000002", Name: "AuraSound Wireless Headphones", Weight: 250, MRP: 7999.00},
	{Barcode: "8900000000003", Name: "PixelSnap 12 Smartphone", Weight: 180, MRP: 65000.00},
	// Groceries
	{Barcode: "8901234567890", Name: "Organic Green Tea", Weight: 250, MRP: 199.50},
	{Barcode: "8909876543210", Name: "Premium California Almonds", Weight: 500, MRP: 750.00},
	{Barcode: "8901122334455", Name: "Rich Aroma Instant Coffee", Weight: 100, MRP: 320.00},
	{Barcode: "8900000000004", Name: "Extra Virgin Olive Oil", Weight: 1000, MRP: 1250.00},
	// Apparel
	{Barcode: "8900000000005", Name: "Men's Cotton Crew T-Shirt (Blue)", Weight: 180, MRP: 899.00},
	{Barcode: "8900000000006", Name: "Women's Slim Fit Jeans", Weight: 450, MRP: 2499.00},
	// Home goods
	{Barcode: "8900000000007", Name: "EcoLight 9W LED Bulb Pack of 4", Weight: 200, MRP: 550.00},
	{Barcode: "8900000000008", Name: "DuraSteel Non-Stick Frying Pan", Weight: 700, MRP: 1800.00},
	// Books
	{Barcode: "8900000000009", Name: "The Midnight Library - Novel", Weight: 350, MRP: 450.00},
}

// SeedCatalog inserts products when the catalog is empty and returns how many
// were inserted. A non-empty catalog is left untouched.
func SeedCatalog(ctx context.Context, products ProductRepository, seed []models.Product) (int, error) {
	count, err := products.Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to count products: %w", err)
	}
	if count > 0 {
		return 0, nil
	}

	inserted := 0
	for _, p := range seed {
		if _, err := products.Create(ctx, p); err != nil {
			if errors.Is(err, ErrDuplicatedValueUnique) {
				continue
			}
			return inserted, fmt.Errorf("failed to seed product %s: %w", p.Barcode, err)
		}
		inserted++
	}
	return inserted, nil
}
