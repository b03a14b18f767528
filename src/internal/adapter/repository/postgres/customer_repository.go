package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/api-sage/account-ledger/src/internal/domain"
	"github.com/lib/pq"
)

type CustomerRepository struct {
	db *sql.DB
}

type rowScanner interface {
	Scan(dest ...any) error
}

func NewCustomerRepository(db *sql.DB) *CustomerRepository {
	return &CustomerRepository{db: db}
}

func (r *CustomerRepository) Create(ctx context.Context, customer domain.Customer) (domain.Customer, error) {
	const query = `
INSERT INTO customers (id, name, address, pin_hash)
VALUES ($1, $2, $3, $4)
RETURNING id, name, address, pin_hash, created_at`

	var created domain.Customer
	err := scanCustomer(r.db.QueryRowContext(ctx, query, customer.ID, customer.Name, customer.Address, customer.PinHash), &created)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.Customer{}, fmt.Errorf("%w: customer %s already exists", domain.ErrInvalidArgument, customer.ID)
		}
		return domain.Customer{}, fmt.Errorf("create customer: %w", err)
	}

	return created, nil
}

func (r *CustomerRepository) GetByID(ctx context.Context, id string) (domain.Customer, error) {
	const query = `
SELECT id, name, address, pin_hash, created_at
FROM customers
WHERE id = $1`

	var customer domain.Customer
	if err := scanCustomer(r.db.QueryRowContext(ctx, query, id), &customer); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Customer{}, fmt.Errorf("customer %s: %w", id, domain.ErrRecordNotFound)
		}
		return domain.Customer{}, fmt.Errorf("get customer by id: %w", err)
	}

	return customer, nil
}

func (r *CustomerRepository) GetPinHash(ctx context.Context, id string) (string, error) {
	var hash string
	err := r.db.QueryRowContext(ctx, `SELECT pin_hash FROM customers WHERE id = $1`, id).Scan(&hash)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", fmt.Errorf("customer %s: %w", id, domain.ErrRecordNotFound)
		}
		return "", fmt.Errorf("get customer pin hash: %w", err)
	}
	return hash, nil
}

func scanCustomer(row rowScanner, customer *domain.Customer) error {
	return row.Scan(
		&customer.ID,
		&customer.Name,
		&customer.Address,
		&customer.PinHash,
		&customer.CreatedAt,
	)
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code) == "23505"
	}
	return false
}
