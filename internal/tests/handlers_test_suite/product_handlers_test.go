package handlers_test_suite

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/rogerio-castellano/safekart/internal/models"
	"github.com/rogerio-castellano/safekart/internal/repo"
)

func TestSearchProductsHandler(t *testing.T) {
	r := newRouter()

	tests := []struct {
		name      string
		query     string
		wantNames []string
	}{
		{name: "Exact word", query: "Tea", wantNames: []string{"Organic Green Tea"}},
		{name: "Case insensitive", query: "ALMONDS", wantNames: []string{"Premium California Almonds"}},
		{name: "Substring", query: "ee", wantNames: []string{"Organic Green Tea", "Rich Aroma Instant Coffee", "DuraSteel Non-Stick Frying Pan"}},
		{name: "No match", query: "bicycle", wantNames: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := get(r, "/search-products/"+tt.query, false)
			if w.Code != http.StatusOK {
				t.Fatalf("expected 200 OK, got %d", w.Code)
			}

			var products []models.Product
			if err := json.NewDecoder(w.Body).Decode(&products); err != nil {
				t.Fatalf("error decoding response: %v", err)
			}
			if products == nil {
				t.Fatal("expected a JSON array, got null")
			}
			if len(products) != len(tt.wantNames) {
				t.Fatalf("expected %d results, got %d: %+v", len(tt.wantNames), len(products), products)
			}

			got := map[string]bool{}
			for _, p := range products {
				got[p.Name] = true
			}
			for _, name := range tt.wantNames {
				if !got[name] {
					t.Errorf("expected %q in results", name)
				}
			}
		})
	}
}

func TestGetProductsHandler(t *testing.T) {
	r := newRouter()

	w := get(r, "/products", false)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 OK, got %d", w.Code)
	}

	var products []models.Product
	if err := json.NewDecoder(w.Body).Decode(&products); err != nil {
		t.Fatalf("error decoding response: %v", err)
	}
	if len(products) != len(repo.SampleProducts) {
		t.Errorf("expected %d products, got %d", len(repo.SampleProducts), len(products))
	}
}

func TestGetProductByBarcodeHandler(t *testing.T) {
	r := newRouter()

	w := get(r, "/products/"+greenTea, false)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 OK, got %d", w.Code)
	}

	var p models.Product
	if err := json.NewDecoder(w.Body).Decode(&p); err != nil {
		t.Fatalf("error decoding response: %v", err)
	}
	if p.Name != "Organic Green Tea" || p.Weight != 250 || p.MRP != 199.50 {
		t.Errorf("unexpected product %+v", p)
	}

	w = get(r, "/products/0000000000000", false)
	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404 Not Found, got %d", w.Code)
	}
}
