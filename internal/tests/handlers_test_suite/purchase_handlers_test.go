package handlers_test_suite

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	handler "github.com/rogerio-castellano/safekart/internal/http/handlers"
)

func TestPurchaseHandler_Valid(t *testing.T) {
	t.Cleanup(clearAllRecords)
	r := newRouter()

	w := purchase(r, handler.PurchaseRequest{
		CustomerName:   "Asha Verma",
		CustomerEmail:  "asha@example.com",
		CustomerMobile: "9876543210",
		ProductBarcode: greenTea,
	})

	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201 Created, got %d", w.Code)
	}

	var resp handler.PurchaseResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("error decoding response: %v", err)
	}
	if resp.Message != "Purchase recorded" {
		t.Errorf("expected message 'Purchase recorded', got %q", resp.Message)
	}
	if resp.Product.Barcode != greenTea || resp.Product.Name != "Organic Green Tea" {
		t.Errorf("unexpected product %+v", resp.Product)
	}

	c, err := customerRepo.GetByID(context.Background(), resp.CustomerID)
	if err != nil {
		t.Fatalf("expected customer to be stored: %v", err)
	}
	if c.Name != "Asha Verma" || c.Mobile != "9876543210" || c.PurchaseDate.IsZero() {
		t.Errorf("unexpected customer %+v", c)
	}
}

func TestPurchaseHandler_UnknownProduct(t *testing.T) {
	t.Cleanup(clearAllRecords)
	r := newRouter()

	w := purchase(r, handler.PurchaseRequest{
		CustomerName:   "Asha Verma",
		CustomerEmail:  "asha@example.com",
		ProductBarcode: "1111111111111",
	})

	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 Not Found, got %d", w.Code)
	}

	var resp handler.MessageResponse
	json.NewDecoder(w.Body).Decode(&resp)
	if resp.Message != "Product not found in master database." {
		t.Errorf("unexpected message %q", resp.Message)
	}

	if n, _ := customerRepo.Count(context.Background()); n != 0 {
		t.Errorf("expected no customer created, got %d", n)
	}
}

func TestPurchaseHandler_Invalid(t *testing.T) {
	t.Cleanup(clearAllRecords)
	r := newRouter()

	tests := []struct {
		name           string
		payload        handler.PurchaseRequest
		expectedErrors []string
	}{
		{
			name:           "Missing name and email",
			payload:        handler.PurchaseRequest{ProductBarcode: greenTea},
			expectedErrors: []string{"customerName", "customerEmail"},
		},
		{
			name:           "Missing name only",
			payload:        handler.PurchaseRequest{CustomerEmail: "a@example.com", ProductBarcode: greenTea},
			expectedErrors: []string{"customerName"},
		},
		{
			name:           "Invalid email",
			payload:        handler.PurchaseRequest{CustomerName: "A", CustomerEmail: "not-an-email", ProductBarcode: greenTea},
			expectedErrors: []string{"customerEmail"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := purchase(r, tt.payload)

			if w.Code != http.StatusBadRequest {
				t.Errorf("expected status 400, got %d", w.Code)
			}

			var resp handler.PurchaseValidationResponse
			if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
				t.Fatalf("error decoding response: %v", err)
			}

			for _, field := range tt.expectedErrors {
				found := false
				for _, err := range resp.Errors {
					if strings.EqualFold(err.Field, field) {
						found = true
						break
					}
				}
				if !found {
					t.Errorf("expected error for field %q, but not found", field)
				}
			}
		})
	}
}

func TestPurchaseHandler_MalformedJSON(t *testing.T) {
	r := newRouter()

	badJSON := `{customerName: "Asha" "}`
	req := httptest.NewRequest(http.MethodPost, "/purchase", bytes.NewBufferString(badJSON))
	w := httptest.NewRecorder()

	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected status 400 Bad Request, got %d", w.Code)
	}
}
