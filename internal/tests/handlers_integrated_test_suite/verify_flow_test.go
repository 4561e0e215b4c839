package handlers_integrated_test_suite

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"testing"

	handler "github.com/rogerio-castellano/safekart/internal/http/handlers"
	"github.com/rogerio-castellano/safekart/internal/models"
	"github.com/rogerio-castellano/safekart/internal/repo"
)

func TestPurchaseVerifyScan(t *testing.T) {
	r := setup(t)
	t.Cleanup(clearRecords)

	w := postJSON(r, "/purchase", handler.PurchaseRequest{
		CustomerName:   "Asha Verma",
		CustomerEmail:  "asha@example.com",
		ProductBarcode: greenTea,
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201 Created, got %d", w.Code)
	}
	var purchase handler.PurchaseResponse
	json.NewDecoder(w.Body).Decode(&purchase)

	w = postJSON(r, "/verify", handler.VerifyRequest{Barcode: greenTea, Weight: 250, MRP: 199.50, CustomerID: purchase.CustomerID})
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 OK, got %d: %s", w.Code, w.Body.String())
	}
	var pass handler.VerifyResponse
	json.NewDecoder(w.Body).Decode(&pass)

	for i := 1; i <= 3; i++ {
		w := get(r, "/scan/"+pass.Verification.ID, false)
		if w.Code != http.StatusOK {
			t.Fatalf("scan %d: expected 200, got %d", i, w.Code)
		}
		if !strings.Contains(w.Body.String(), fmt.Sprintf("Scan Count: %d of 3", i)) {
			t.Errorf("scan %d: unexpected body", i)
		}
	}
	if w := get(r, "/scan/"+pass.Verification.ID, false); w.Code != http.StatusForbidden {
		t.Errorf("expected 403 after limit, got %d", w.Code)
	}

	w = get(r, "/logs", false)
	var logs []models.Verification
	json.NewDecoder(w.Body).Decode(&logs)
	if len(logs) != 1 || logs[0].Customer == nil || logs[0].ScanCount != 3 || logs[0].ExpiredScans != 1 {
		t.Errorf("unexpected logs %+v", logs)
	}
}

func TestVerifyWeightMismatch(t *testing.T) {
	r := setup(t)
	t.Cleanup(clearRecords)

	w := postJSON(r, "/verify", handler.VerifyRequest{Barcode: greenTea, Weight: 300, MRP: 199.50})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
	var resp handler.VerifyResponse
	json.NewDecoder(w.Body).Decode(&resp)
	if resp.Reason != "Weight mismatch (Expected: 250g, Got: 300g)." {
		t.Errorf("unexpected reason %q", resp.Reason)
	}
}

func TestConcurrentScansNeverExceedLimit(t *testing.T) {
	r := setup(t)
	t.Cleanup(clearRecords)

	w := postJSON(r, "/verify", handler.VerifyRequest{Barcode: greenTea, Weight: 250, MRP: 199.50})
	var pass handler.VerifyResponse
	json.NewDecoder(w.Body).Decode(&pass)

	var wg sync.WaitGroup
	var mu sync.Mutex
	codes := map[int]int{}
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			w := get(r, "/scan/"+pass.Verification.ID, false)
			mu.Lock()
			codes[w.Code]++
			mu.Unlock()
		}()
	}
	wg.Wait()

	if codes[http.StatusOK] != 3 || codes[http.StatusForbidden] != 17 {
		t.Errorf("expected 3 accepted and 17 rejected scans, got %v", codes)
	}
}

func TestDashboardMetrics(t *testing.T) {
	r := setup(t)
	t.Cleanup(clearRecords)

	postJSON(r, "/verify", handler.VerifyRequest{Barcode: greenTea, Weight: 250, MRP: 199.50})
	postJSON(r, "/verify", handler.VerifyRequest{Barcode: greenTea, Weight: 1, MRP: 199.50})

	w := get(r, "/metrics/dashboard", true)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 OK, got %d", w.Code)
	}
	var m repo.Metrics
	json.NewDecoder(w.Body).Decode(&m)
	if m.TotalVerifications != 2 || m.Passed != 1 || m.SuccessRate != 50 {
		t.Errorf("unexpected metrics %+v", m)
	}
}

func TestSearchProducts(t *testing.T) {
	r := setup(t)

	w := get(r, "/search-products/green", false)
	var products []models.Product
	json.NewDecoder(w.Body).Decode(&products)
	if len(products) != 1 || products[0].Barcode != greenTea {
		t.Errorf("unexpected search results %+v", products)
	}
}
