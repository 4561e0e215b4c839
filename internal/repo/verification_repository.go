package repo

import (
	"context"

	"github.com/rogerio-castellano/safekart/internal/models"
)

type VerificationRepository interface {
	Create(ctx context.Context, v models.Verification) (models.Verification, error)
	GetByID(ctx context.Context, id string) (models.Verification, error)
	// ListWithCustomers returns every verification, newest first, with Customer resolved.
	ListWithCustomers(ctx context.Context) ([]models.Verification, error)
	// Redeem increments the scan counter only while it is below limit, in a single
	// store operation. Once the limit is reached the counter stays put, the attempt
	// is added to ExpiredScans and redeemed is false.
	Redeem(ctx context.Context, id string, limit int) (v models.Verification, redeemed bool, err error)
}
