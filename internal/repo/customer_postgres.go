package repo

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/rogerio-castellano/safekart/internal/models"
)

type PostgresCustomerRepository struct {
	db *sql.DB
}

func NewPostgresCustomerRepository(db *sql.DB) *PostgresCustomerRepository {
	return &PostgresCustomerRepository{db: db}
}

func (r *PostgresCustomerRepository) Create(ctx context.Context, c models.Customer) (models.Customer, error) {
	query := `INSERT INTO customers (id, name, email, mobile, purchase_date) VALUES ($1, $2, $3, $4, $5)`
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	_, err := r.db.ExecContext(ctx, query, c.ID, c.Name, c.Email, nullString(c.Mobile), c.PurchaseDate)
	if err != nil {
		if isUniqueViolation(err) {
			return models.Customer{}, ErrDuplicatedValueUnique
		}
		return models.Customer{}, err
	}
	return c, nil
}

func (r *PostgresCustomerRepository) GetByID(ctx context.Context, id string) (models.Customer, error) {
	// customers.id is a UUID column; anything else can never match.
	if _, err := uuid.Parse(id); err != nil {
		return models.Customer{}, ErrCustomerNotFound
	}

	query := `SELECT id, name, email, mobile, purchase_date FROM customers WHERE id = $1`
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var c models.Customer
	var mobile sql.NullString
	err := r.db.QueryRowContext(ctx, query, id).Scan(&c.ID, &c.Name, &c.Email, &mobile, &c.PurchaseDate)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Customer{}, ErrCustomerNotFound
	}
	c.Mobile = mobile.String
	return c, err
}

func (r *PostgresCustomerRepository) Count(ctx context.Context) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var n int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM customers`).Scan(&n)
	return n, err
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
