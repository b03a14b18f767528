package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/api-sage/account-ledger/src/internal/domain"
	"github.com/api-sage/account-ledger/src/internal/logger"
)

// RateRepository stores the currency table in currency_rates.
type RateRepository struct {
	db *sql.DB
}

func NewRateRepository(db *sql.DB) *RateRepository {
	return &RateRepository{db: db}
}

func (r *RateRepository) EnsureRates(ctx context.Context, rates []domain.Rate) error {
	logger.Info("rate repository ensure rates", logger.Fields{"count": len(rates)})

	const query = `
INSERT INTO currency_rates (code, rate)
VALUES ($1, $2)
ON CONFLICT (code) DO NOTHING`

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin rates tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, query)
	if err != nil {
		return fmt.Errorf("prepare rates insert: %w", err)
	}
	defer stmt.Close()

	for _, rate := range rates {
		if _, err := stmt.ExecContext(ctx, rate.Code, rate.Rate); err != nil {
			logger.Error("rate repository ensure rates failed", err, logger.Fields{"code": rate.Code})
			return fmt.Errorf("ensure rate %s: %w", rate.Code, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit rates tx: %w", err)
	}
	return nil
}

func (r *RateRepository) GetRates(ctx context.Context) ([]domain.Rate, error) {
	logger.Info("rate repository get rates", nil)

	const query = `
SELECT code, rate, updated_at
FROM currency_rates
ORDER BY code ASC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		logger.Error("rate repository get rates failed", err, nil)
		return nil, fmt.Errorf("get rates: %w", err)
	}
	defer rows.Close()

	rates := make([]domain.Rate, 0)
	for rows.Next() {
		var rate domain.Rate
		if err := rows.Scan(&rate.Code, &rate.Rate, &rate.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan rate: %w", err)
		}
		rates = append(rates, rate)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rates: %w", err)
	}

	logger.Info("rate repository get rates success", logger.Fields{"count": len(rates)})
	return rates, nil
}
