package repo

import (
	"context"
	"database/sql"
	"fmt"
)

type PostgresMetricsRepository struct {
	db *sql.DB
}

func NewPostgresMetricsRepository(db *sql.DB) *PostgresMetricsRepository {
	return &PostgresMetricsRepository{db: db}
}

func (r *PostgresMetricsRepository) GetDashboardMetrics(ctx context.Context) (Metrics, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var m Metrics

	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM products`).Scan(&m.TotalProducts); err != nil {
		return m, fmt.Errorf("failed to count products: %w", err)
	}
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM customers`).Scan(&m.TotalCustomers); err != nil {
		return m, fmt.Errorf("failed to count customers: %w", err)
	}

	err := r.db.QueryRowContext(ctx, `
		SELECT COUNT(*),
		       COUNT(*) FILTER (WHERE status = 'PASS'),
		       COALESCE(SUM(scan_count), 0),
		       COALESCE(SUM(expired_scans), 0)
		FROM verifications
	`).Scan(&m.TotalVerifications, &m.Passed, &m.TotalScans, &m.ExpiredScans)
	if err != nil {
		return m, fmt.Errorf("failed to aggregate verifications: %w", err)
	}

	m.finalize()
	return m, nil
}
