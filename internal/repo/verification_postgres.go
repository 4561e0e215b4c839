package repo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/rogerio-castellano/safekart/internal/models"
)

const verificationColumns = `id, barcode, status, reason, qr_code_data, customer_id, scan_count, expired_scans, created_at`

type PostgresVerificationRepository struct {
	db *sql.DB
}

func NewPostgresVerificationRepository(db *sql.DB) *PostgresVerificationRepository {
	return &PostgresVerificationRepository{db: db}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanVerification(row rowScanner, extra ...any) (models.Verification, error) {
	var v models.Verification
	var status string
	var reason, qr, customerID sql.NullString

	dest := append([]any{&v.ID, &v.Barcode, &status, &reason, &qr, &customerID, &v.ScanCount, &v.ExpiredScans, &v.Timestamp}, extra...)
	if err := row.Scan(dest...); err != nil {
		return models.Verification{}, err
	}
	v.Status = models.VerificationStatus(status)
	v.Reason = reason.String
	v.QRCodeData = qr.String
	v.CustomerID = customerID.String
	return v, nil
}

func (r *PostgresVerificationRepository) Create(ctx context.Context, v models.Verification) (models.Verification, error) {
	query := `INSERT INTO verifications (` + verificationColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	_, err := r.db.ExecContext(ctx, query,
		v.ID, v.Barcode, string(v.Status), nullString(v.Reason), nullString(v.QRCodeData),
		nullString(v.CustomerID), v.ScanCount, v.ExpiredScans, v.Timestamp)
	if err != nil {
		if isUniqueViolation(err) {
			return models.Verification{}, ErrDuplicatedValueUnique
		}
		return models.Verification{}, fmt.Errorf("failed to insert verification: %w", err)
	}
	v.Customer = nil
	return v, nil
}

func (r *PostgresVerificationRepository) GetByID(ctx context.Context, id string) (models.Verification, error) {
	if _, err := uuid.Parse(id); err != nil {
		return models.Verification{}, ErrVerificationNotFound
	}

	query := `SELECT ` + verificationColumns + ` FROM verifications WHERE id = $1`
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	v, err := scanVerification(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return models.Verification{}, ErrVerificationNotFound
	}
	return v, err
}

func (r *PostgresVerificationRepository) ListWithCustomers(ctx context.Context) ([]models.Verification, error) {
	query := `
		SELECT v.id, v.barcode, v.status, v.reason, v.qr_code_data, v.customer_id, v.scan_count, v.expired_scans, v.created_at,
		       c.id, c.name, c.email, c.mobile, c.purchase_date
		FROM verifications v
		LEFT JOIN customers c ON c.id = v.customer_id
		ORDER BY v.created_at DESC
	`
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	verifications := []models.Verification{}
	for rows.Next() {
		var cID, cName, cEmail, cMobile sql.NullString
		var cDate sql.NullTime

		v, err := scanVerification(rows, &cID, &cName, &cEmail, &cMobile, &cDate)
		if err != nil {
			return nil, err
		}
		if cID.Valid {
			v.Customer = &models.Customer{
				ID:           cID.String,
				Name:         cName.String,
				Email:        cEmail.String,
				Mobile:       cMobile.String,
				PurchaseDate: cDate.Time,
			}
		}
		verifications = append(verifications, v)
	}
	return verifications, rows.Err()
}

// Redeem increments scan_count only while it is below limit. A rejected scan
// bumps expired_scans instead.
func (r *PostgresVerificationRepository) Redeem(ctx context.Context, id string, limit int) (models.Verification, bool, error) {
	if _, err := uuid.Parse(id); err != nil {
		return models.Verification{}, false, ErrVerificationNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	redeem := `
		UPDATE verifications
		SET scan_count = scan_count + 1
		WHERE id = $1 AND scan_count < $2
		RETURNING ` + verificationColumns
	v, err := scanVerification(r.db.QueryRowContext(ctx, redeem, id, limit))
	if err == nil {
		return v, true, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return models.Verification{}, false, err
	}

	expired := `
		UPDATE verifications
		SET expired_scans = expired_scans + 1
		WHERE id = $1
		RETURNING ` + verificationColumns
	v, err = scanVerification(r.db.QueryRowContext(ctx, expired, id))
	if errors.Is(err, sql.ErrNoRows) {
		return models.Verification{}, false, ErrVerificationNotFound
	}
	if err != nil {
		return models.Verification{}, false, err
	}
	return v, false, nil
}
