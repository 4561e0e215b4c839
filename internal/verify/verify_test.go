package verify

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rogerio-castellano/safekart/internal/models"
	"github.com/rogerio-castellano/safekart/internal/qr"
	"github.com/rogerio-castellano/safekart/internal/repo"
)

var fixedNow = time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)

type recordedEvent struct {
	kind string
	v    models.Verification
}

type recorder struct {
	mu     sync.Mutex
	events []recordedEvent
}

func (r *recorder) Publish(kind string, v models.Verification) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, recordedEvent{kind, v})
}

type failingEncoder struct{}

func (failingEncoder) Encode(string) (string, error) { return "", errors.New("boom") }

type fixture struct {
	svc           *Service
	customers     *repo.InMemoryCustomerRepository
	verifications *repo.InMemoryVerificationRepository
	events        *recorder
}

func newFixture(t *testing.T, encoder Encoder) fixture {
	t.Helper()
	ctx := context.Background()

	products := repo.NewInMemoryProductRepository()
	if _, err := repo.SeedCatalog(ctx, products, repo.SampleProducts); err != nil {
		t.Fatalf("seed failed: %v", err)
	}
	customers := repo.NewInMemoryCustomerRepository()
	verifications := repo.NewInMemoryVerificationRepository(customers)
	events := &recorder{}

	svc := NewService(products, customers, verifications, encoder, Options{
		BaseURL:   "http://localhost:3000/",
		ScanLimit: 3,
		Publisher: events,
	})
	svc.now = func() time.Time { return fixedNow }
	n := 0
	svc.newID = func() string {
		n++
		return fmt.Sprintf("v-%d", n)
	}

	return fixture{svc: svc, customers: customers, verifications: verifications, events: events}
}

func TestVerify_Pass(t *testing.T) {
	f := newFixture(t, qr.NewEncoder())

	v, err := f.svc.Verify(context.Background(), Request{Barcode: "8901234567890", Weight: 250, MRP: 199.50})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v.Status != models.StatusPass {
		t.Fatalf("expected PASS, got %s (%s)", v.Status, v.Reason)
	}
	if !strings.HasPrefix(v.QRCodeData, "data:image/png;base64,") {
		t.Errorf("expected QR data url, got %q", v.QRCodeData)
	}
	if v.ScanCount != 0 || v.Reason != "" {
		t.Errorf("unexpected fresh record %+v", v)
	}
	if got := f.svc.ScanURL(v.ID); got != "http://localhost:3000/scan/v-1" {
		t.Errorf("unexpected scan url %q", got)
	}

	stored, err := f.verifications.GetByID(context.Background(), v.ID)
	if err != nil {
		t.Fatalf("expected record persisted: %v", err)
	}
	if stored.QRCodeData != v.QRCodeData {
		t.Error("expected persisted QR to match returned QR")
	}
}

func TestVerify_Fail(t *testing.T) {
	tests := []struct {
		name   string
		req    Request
		reason string
	}{
		{
			name:   "weight mismatch",
			req:    Request{Barcode: "8901234567890", Weight: 300, MRP: 199.50},
			reason: "Weight mismatch (Expected: 250g, Got: 300g).",
		},
		{
			name:   "mrp mismatch",
			req:    Request{Barcode: "8901234567890", Weight: 250, MRP: 210},
			reason: "MRP mismatch (Expected: ₹199.5, Got: ₹210).",
		},
		{
			name:   "both mismatched",
			req:    Request{Barcode: "8901234567890", Weight: 249.5, MRP: 1},
			reason: "Weight mismatch (Expected: 250g, Got: 249.5g). MRP mismatch (Expected: ₹199.5, Got: ₹1).",
		},
		{
			name:   "unknown barcode",
			req:    Request{Barcode: "0000000000000", Weight: 250, MRP: 199.50},
			reason: ReasonBarcodeNotFound,
		},
		{
			name:   "expired",
			req:    Request{Barcode: "8901234567890", Weight: 250, MRP: 199.50, Expiry: ptr(fixedNow.Add(-time.Hour))},
			reason: ReasonExpired,
		},
		{
			name:   "expired with mismatch",
			req:    Request{Barcode: "8901234567890", Weight: 300, MRP: 199.50, Expiry: ptr(fixedNow)},
			reason: "Weight mismatch (Expected: 250g, Got: 300g). Expired product.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, qr.NewEncoder())

			v, err := f.svc.Verify(context.Background(), tt.req)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if v.Status != models.StatusFail {
				t.Fatalf("expected FAIL, got %s", v.Status)
			}
			if v.Reason != tt.reason {
				t.Errorf("expected reason %q, got %q", tt.reason, v.Reason)
			}
			if v.QRCodeData != "" {
				t.Error("FAIL record must not carry QR data")
			}
			if _, err := f.verifications.GetByID(context.Background(), v.ID); err != nil {
				t.Errorf("expected FAIL record persisted: %v", err)
			}
		})
	}
}

func TestVerify_FutureExpiryPasses(t *testing.T) {
	f := newFixture(t, qr.NewEncoder())
	v, err := f.svc.Verify(context.Background(), Request{
		Barcode: "8901234567890", Weight: 250, MRP: 199.50, Expiry: ptr(fixedNow.Add(24 * time.Hour)),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v.Status != models.StatusPass {
		t.Errorf("expected PASS, got %s (%s)", v.Status, v.Reason)
	}
}

func TestVerify_OneRecordPerCall(t *testing.T) {
	f := newFixture(t, qr.NewEncoder())
	req := Request{Barcode: "8901234567890", Weight: 250, MRP: 199.50}

	a, _ := f.svc.Verify(context.Background(), req)
	b, _ := f.svc.Verify(context.Background(), req)
	if a.ID == b.ID {
		t.Error("expected distinct ids for repeated identical requests")
	}

	list, _ := f.verifications.ListWithCustomers(context.Background())
	if len(list) != 2 {
		t.Errorf("expected 2 records, got %d", len(list))
	}
	if len(f.events.events) != 2 || f.events.events[0].kind != EventVerification {
		t.Errorf("expected 2 verification events, got %+v", f.events.events)
	}
}

func TestVerify_UnknownCustomer(t *testing.T) {
	f := newFixture(t, qr.NewEncoder())
	_, err := f.svc.Verify(context.Background(), Request{Barcode: "8901234567890", Weight: 250, MRP: 199.50, CustomerID: "ghost"})
	if !errors.Is(err, repo.ErrCustomerNotFound) {
		t.Fatalf("expected ErrCustomerNotFound, got %v", err)
	}
	list, _ := f.verifications.ListWithCustomers(context.Background())
	if len(list) != 0 {
		t.Errorf("expected no record written, got %d", len(list))
	}
}

func TestVerify_EncoderFailure(t *testing.T) {
	f := newFixture(t, failingEncoder{})
	_, err := f.svc.Verify(context.Background(), Request{Barcode: "8901234567890", Weight: 250, MRP: 199.50})
	if err == nil {
		t.Fatal("expected encoder error to propagate")
	}
}

func TestRedeem_Lifecycle(t *testing.T) {
	f := newFixture(t, qr.NewEncoder())
	ctx := context.Background()

	c, _ := f.customers.Create(ctx, models.Customer{ID: "c-1", Name: "Ravi", Email: "ravi@example.com", PurchaseDate: fixedNow})
	v, err := f.svc.Verify(ctx, Request{Barcode: "8901234567890", Weight: 250, MRP: 199.50, CustomerID: c.ID})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for i := 1; i <= 3; i++ {
		res, err := f.svc.Redeem(ctx, v.ID)
		if err != nil {
			t.Fatalf("scan %d: unexpected error: %v", i, err)
		}
		if !res.Accepted || res.Verification.ScanCount != i {
			t.Fatalf("scan %d: expected accepted with count %d, got %+v", i, i, res)
		}
		if res.Product.Name != "Organic Green Tea" {
			t.Errorf("expected product resolved, got %+v", res.Product)
		}
		if res.Customer == nil || res.Customer.Name != "Ravi" {
			t.Errorf("expected customer resolved, got %+v", res.Customer)
		}
	}

	res, err := f.svc.Redeem(ctx, v.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Accepted {
		t.Error("expected 4th scan rejected")
	}
	if res.Verification.ScanCount != 3 || res.Limit != 3 {
		t.Errorf("expected frozen counter at limit 3, got %d/%d", res.Verification.ScanCount, res.Limit)
	}

	last := f.events.events[len(f.events.events)-1]
	if last.kind != EventScanExpired {
		t.Errorf("expected last event %q, got %q", EventScanExpired, last.kind)
	}
}

func TestRedeem_FailRecord(t *testing.T) {
	f := newFixture(t, qr.NewEncoder())
	ctx := context.Background()

	v, _ := f.svc.Verify(ctx, Request{Barcode: "8901234567890", Weight: 300, MRP: 199.50})
	if _, err := f.svc.Redeem(ctx, v.ID); !errors.Is(err, ErrNotRedeemable) {
		t.Fatalf("expected ErrNotRedeemable, got %v", err)
	}

	stored, _ := f.verifications.GetByID(ctx, v.ID)
	if stored.ScanCount != 0 || stored.ExpiredScans != 0 {
		t.Errorf("expected counters untouched, got %d/%d", stored.ScanCount, stored.ExpiredScans)
	}
}

func TestRedeem_NotFound(t *testing.T) {
	f := newFixture(t, qr.NewEncoder())
	if _, err := f.svc.Redeem(context.Background(), "missing"); !errors.Is(err, repo.ErrVerificationNotFound) {
		t.Fatalf("expected ErrVerificationNotFound, got %v", err)
	}
}

func TestRedeem_Concurrent(t *testing.T) {
	f := newFixture(t, qr.NewEncoder())
	ctx := context.Background()
	v, _ := f.svc.Verify(ctx, Request{Barcode: "8901234567890", Weight: 250, MRP: 199.50})

	var wg sync.WaitGroup
	var mu sync.Mutex
	accepted := 0
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			res, err := f.svc.Redeem(ctx, v.ID)
			if err == nil && res.Accepted {
				mu.Lock()
				accepted++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	if accepted != 3 {
		t.Errorf("expected exactly 3 accepted scans, got %d", accepted)
	}
}

func TestFormatNumber(t *testing.T) {
	cases := map[float64]string{250: "250", 199.5: "199.5", 0.25: "0.25", 89999: "89999"}
	for in, want := range cases {
		if got := formatNumber(in); got != want {
			t.Errorf("formatNumber(%v) = %q, want %q", in, got, want)
		}
	}
}

func ptr[T any](v T) *T { return &v }
