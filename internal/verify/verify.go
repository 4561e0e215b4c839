// Package verify checks submitted items against the reference catalog and
// redeems the QR codes issued for items that pass.
package verify

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rogerio-castellano/safekart/internal/models"
	"github.com/rogerio-castellano/safekart/internal/repo"
	"go.uber.org/zap"
)

const (
	DefaultScanLimit = 3

	ReasonBarcodeNotFound = "Barcode not found in company records."
	ReasonExpired         = "Expired product."
)

// Event kinds sent to the Publisher.
const (
	EventVerification = "verification"
	EventScan         = "scan"
	EventScanExpired  = "scan_expired"
)

// ErrNotRedeemable is returned when a scan targets a verification that did not pass.
var ErrNotRedeemable = errors.New("verification did not pass")

type Encoder interface {
	Encode(content string) (string, error)
}

// Publisher receives every persisted verification and every scan attempt.
type Publisher interface {
	Publish(kind string, v models.Verification)
}

type Request struct {
	Barcode    string
	Weight     float64
	MRP        float64
	CustomerID string
	Expiry     *time.Time
}

// Redemption is the outcome of one scan of an issued QR code.
type Redemption struct {
	Verification models.Verification
	Product      models.Product
	Customer     *models.Customer
	Accepted     bool
	Limit        int
}

type Options struct {
	BaseURL   string
	ScanLimit int
	Publisher Publisher
	Logger    *zap.Logger
}

type Service struct {
	products      repo.ProductRepository
	customers     repo.CustomerRepository
	verifications repo.VerificationRepository
	encoder       Encoder

	baseURL   string
	scanLimit int
	publisher Publisher
	logger    *zap.Logger

	now   func() time.Time
	newID func() string
}

func NewService(
	products repo.ProductRepository,
	customers repo.CustomerRepository,
	verifications repo.VerificationRepository,
	encoder Encoder,
	opts Options,
) *Service {
	s := &Service{
		products:      products,
		customers:     customers,
		verifications: verifications,
		encoder:       encoder,
		baseURL:       strings.TrimRight(opts.BaseURL, "/"),
		scanLimit:     opts.ScanLimit,
		publisher:     opts.Publisher,
		logger:        opts.Logger,
		now:           time.Now,
		newID:         uuid.NewString,
	}
	if s.scanLimit < 1 {
		s.scanLimit = DefaultScanLimit
	}
	if s.logger == nil {
		s.logger = zap.NewNop()
	}
	return s
}

func (s *Service) ScanLimit() int {
	return s.scanLimit
}

// ScanURL is the redemption address encoded into the QR of verification id.
func (s *Service) ScanURL(id string) string {
	return s.baseURL + "/scan/" + id
}

// Verify compares the request against the catalog and persists exactly one
// verification record for it, whatever the outcome. Only a failure to reach the
// stores or to render the QR code is returned as an error; mismatches are
// reported through a FAIL record.
func (s *Service) Verify(ctx context.Context, req Request) (models.Verification, error) {
	if req.CustomerID != "" {
		if _, err := s.customers.GetByID(ctx, req.CustomerID); err != nil {
			return models.Verification{}, fmt.Errorf("failed to load customer %s: %w", req.CustomerID, err)
		}
	}

	var reasons []string
	product, err := s.products.GetByBarcode(ctx, req.Barcode)
	switch {
	case errors.Is(err, repo.ErrProductNotFound):
		reasons = append(reasons, ReasonBarcodeNotFound)
	case err != nil:
		return models.Verification{}, fmt.Errorf("failed to load product %s: %w", req.Barcode, err)
	default:
		reasons = append(reasons, compare(product, req)...)
	}

	now := s.now()
	if req.Expiry != nil && !req.Expiry.After(now) {
		reasons = append(reasons, ReasonExpired)
	}

	v := models.Verification{
		ID:         s.newID(),
		Barcode:    req.Barcode,
		Status:     models.StatusPass,
		CustomerID: req.CustomerID,
		Timestamp:  now,
	}

	if len(reasons) > 0 {
		v.Status = models.StatusFail
		v.Reason = strings.Join(reasons, " ")
	} else {
		v.QRCodeData, err = s.encoder.Encode(s.ScanURL(v.ID))
		if err != nil {
			return models.Verification{}, fmt.Errorf("failed to issue QR code: %w", err)
		}
	}

	created, err := s.verifications.Create(ctx, v)
	if err != nil {
		return models.Verification{}, fmt.Errorf("failed to save verification: %w", err)
	}

	s.logger.Info("verification recorded",
		zap.String("id", created.ID),
		zap.String("barcode", created.Barcode),
		zap.String("status", string(created.Status)),
	)
	s.publish(EventVerification, created)
	return created, nil
}

// Redeem applies one scan to verification id. Accepted is false once the scan
// limit has been reached; the stored counter never goes past the limit.
func (s *Service) Redeem(ctx context.Context, id string) (Redemption, error) {
	res := Redemption{Limit: s.scanLimit}

	v, err := s.verifications.GetByID(ctx, id)
	if err != nil {
		return res, fmt.Errorf("failed to load verification %s: %w", id, err)
	}
	res.Verification = v
	if v.Status != models.StatusPass {
		return res, ErrNotRedeemable
	}

	v, accepted, err := s.verifications.Redeem(ctx, id, s.scanLimit)
	if err != nil {
		return res, fmt.Errorf("failed to redeem verification %s: %w", id, err)
	}
	res.Verification = v
	res.Accepted = accepted

	res.Product, err = s.products.GetByBarcode(ctx, v.Barcode)
	if errors.Is(err, repo.ErrProductNotFound) {
		res.Product = models.Product{Barcode: v.Barcode}
	} else if err != nil {
		return res, fmt.Errorf("failed to load product %s: %w", v.Barcode, err)
	}

	if v.CustomerID != "" {
		c, err := s.customers.GetByID(ctx, v.CustomerID)
		switch {
		case err == nil:
			res.Customer = &c
			res.Verification.Customer = &c
		case !errors.Is(err, repo.ErrCustomerNotFound):
			return res, fmt.Errorf("failed to load customer %s: %w", v.CustomerID, err)
		}
	}

	if accepted {
		s.logger.Info("qr scanned", zap.String("id", id), zap.Int("scan_count", v.ScanCount))
		s.publish(EventScan, res.Verification)
	} else {
		s.logger.Warn("qr scan over limit", zap.String("id", id), zap.Int("expired_scans", v.ExpiredScans))
		s.publish(EventScanExpired, res.Verification)
	}
	return res, nil
}

func (s *Service) publish(kind string, v models.Verification) {
	if s.publisher != nil {
		s.publisher.Publish(kind, v)
	}
}

func compare(p models.Product, req Request) []string {
	var reasons []string
	if req.Weight != p.Weight {
		reasons = append(reasons, fmt.Sprintf("Weight mismatch (Expected: %sg, Got: %sg).",
			formatNumber(p.Weight), formatNumber(req.Weight)))
	}
	if req.MRP != p.MRP {
		reasons = append(reasons, fmt.Sprintf("MRP mismatch (Expected: ₹%s, Got: ₹%s).",
			formatNumber(p.MRP), formatNumber(req.MRP)))
	}
	return reasons
}

// formatNumber prints v in its shortest form: 250, 199.5.
func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
