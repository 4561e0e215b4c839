package repo

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/rogerio-castellano/safekart/internal/models"
)

const pgUniqueViolation = "23505"

type PostgresProductRepository struct {
	db *sql.DB
}

func NewPostgresProductRepository(db *sql.DB) *PostgresProductRepository {
	return &PostgresProductRepository{db: db}
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation
}

func (r *PostgresProductRepository) Create(ctx context.Context, p models.Product) (models.Product, error) {
	query := `INSERT INTO products (barcode, name, weight, mrp) VALUES ($1, $2, $3, $4)`
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	if _, err := r.db.ExecContext(ctx, query, p.Barcode, p.Name, p.Weight, p.MRP); err != nil {
		if isUniqueViolation(err) {
			return models.Product{}, ErrDuplicatedValueUnique
		}
		return models.Product{}, err
	}
	return p, nil
}

func (r *PostgresProductRepository) Update(ctx context.Context, p models.Product) (models.Product, error) {
	query := `UPDATE products SET name = $1, weight = $2, mrp = $3 WHERE barcode = $4`
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	res, err := r.db.ExecContext(ctx, query, p.Name, p.Weight, p.MRP, p.Barcode)
	if err != nil {
		return models.Product{}, err
	}
	rowsAffected, _ := res.RowsAffected()
	if rowsAffected == 0 {
		return models.Product{}, ErrProductNotFound
	}
	return p, nil
}

func (r *PostgresProductRepository) GetByBarcode(ctx context.Context, barcode string) (models.Product, error) {
	query := `SELECT barcode, name, weight, mrp FROM products WHERE barcode = $1`
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var p models.Product
	err := r.db.QueryRowContext(ctx, query, barcode).Scan(&p.Barcode, &p.Name, &p.Weight, &p.MRP)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Product{}, ErrProductNotFound
	}
	return p, err
}

func (r *PostgresProductRepository) GetAll(ctx context.Context) ([]models.Product, error) {
	return r.query(ctx, `SELECT barcode, name, weight, mrp FROM products ORDER BY barcode`)
}

// SearchByName matches query as a literal substring; LIKE wildcards in the input are escaped.
func (r *PostgresProductRepository) SearchByName(ctx context.Context, query string) ([]models.Product, error) {
	escaped := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(query)
	return r.query(ctx, `SELECT barcode, name, weight, mrp FROM products WHERE name ILIKE $1 ORDER BY barcode`, "%"+escaped+"%")
}

func (r *PostgresProductRepository) Count(ctx context.Context) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var n int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM products`).Scan(&n)
	return n, err
}

func (r *PostgresProductRepository) query(ctx context.Context, query string, args ...any) ([]models.Product, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	products := []models.Product{}
	for rows.Next() {
		var p models.Product
		if err := rows.Scan(&p.Barcode, &p.Name, &p.Weight, &p.MRP); err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	return products, rows.Err()
}
