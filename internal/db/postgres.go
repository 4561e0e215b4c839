package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
)

// Connect opens a pgx-backed *sql.DB and checks it answers within five seconds.
func Connect(dsn string) (*sql.DB, error) {
	if dsn == "" {
		return nil, errors.New("database url is empty")
	}

	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	return db, nil
}

var schema = []string{
	`CREATE TABLE IF NOT EXISTS products (
		barcode TEXT PRIMARY KEY,
		name    TEXT NOT NULL,
		weight  DOUBLE PRECISION NOT NULL,
		mrp     DOUBLE PRECISION NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS customers (
		id            UUID PRIMARY KEY,
		name          TEXT NOT NULL,
		email         TEXT NOT NULL,
		mobile        TEXT,
		purchase_date TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS verifications (
		id            UUID PRIMARY KEY,
		barcode       TEXT NOT NULL,
		status        TEXT NOT NULL CHECK (status IN ('PASS', 'FAIL')),
		reason        TEXT,
		qr_code_data  TEXT,
		customer_id   UUID REFERENCES customers(id),
		scan_count    INTEGER NOT NULL DEFAULT 0 CHECK (scan_count >= 0),
		expired_scans INTEGER NOT NULL DEFAULT 0,
		created_at    TIMESTAMPTZ NOT NULL DEFAULT now(),
		CHECK (status = 'PASS' OR qr_code_data IS NULL)
	)`,
	`CREATE INDEX IF NOT EXISTS verifications_created_at_idx ON verifications (created_at DESC)`,
}

// Migrate creates the tables the stores rely on. It is safe to run on every start.
func Migrate(ctx context.Context, db *sql.DB) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to apply schema: %w", err)
		}
	}
	return nil
}
