package repository

import (
	"context"
	"database/sql"
	"fmt"
)

// FundPriceRepository provides data access methods for the fund_price table,
// the persisted form of the manual price override map.
type FundPriceRepository struct {
	db *sql.DB
}

// NewFundPriceRepository creates a new FundPriceRepository with the provided database connection.
func NewFundPriceRepository(db *sql.DB) *FundPriceRepository {
	return &FundPriceRepository{db: db}
}

// GetAll returns the full override map.
func (r *FundPriceRepository) GetAll(ctx context.Context) (map[string]float64, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT fund_code, price FROM fund_price`)
	if err != nil {
		return nil, fmt.Errorf("failed to query fund_price table: %w", err)
	}
	defer rows.Close()

	prices := make(map[string]float64)
	for rows.Next() {
		var code string
		var price float64
		if err := rows.Scan(&code, &price); err != nil {
			return nil, fmt.Errorf("failed to scan fund_price results: %w", err)
		}
		prices[code] = price
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating fund_price table: %w", err)
	}

	return prices, nil
}

// Upsert sets the override price for a fund code.
func (r *FundPriceRepository) Upsert(ctx context.Context, fundCode string, price float64) error {
	query := `
		INSERT INTO fund_price (fund_code, price, updated_at)
		VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(fund_code) DO UPDATE SET price = excluded.price, updated_at = CURRENT_TIMESTAMP
	`
	if _, err := r.db.ExecContext(ctx, query, fundCode, price); err != nil {
		return fmt.Errorf("failed to upsert fund price: %w", err)
	}
	return nil
}

// ReplaceAll replaces the whole override map inside a single database
// transaction. Used by import and reset.
func (r *FundPriceRepository) ReplaceAll(ctx context.Context, prices map[string]float64) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM fund_price`); err != nil {
		return fmt.Errorf("failed to clear fund_price table: %w", err)
	}

	for code, price := range prices {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO fund_price (fund_code, price) VALUES (?, ?)`, code, price,
		); err != nil {
			return fmt.Errorf("failed to insert fund price %s: %w", code, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit fund price replacement: %w", err)
	}

	return nil
}
