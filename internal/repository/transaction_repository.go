package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/fundrecords/fund-records-backend/internal/apperrors"
	"github.com/fundrecords/fund-records-backend/internal/model"
)

// TransactionRepository provides data access methods for the ledger_transaction table.
// The table's autoincrement seq column preserves insertion order, which is the
// order the holdings recomputation consumes transactions in.
type TransactionRepository struct {
	db *sql.DB
}

// NewTransactionRepository creates a new TransactionRepository with the provided database connection.
func NewTransactionRepository(db *sql.DB) *TransactionRepository {
	return &TransactionRepository{db: db}
}

// GetAll retrieves the full transaction log in insertion order.
func (r *TransactionRepository) GetAll(ctx context.Context) ([]model.Transaction, error) {
	query := `
		SELECT id, fund_code, fund_name, type, date, amount, shares, unit_price, fee, created_at
		FROM ledger_transaction
		ORDER BY seq ASC
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query ledger_transaction table: %w", err)
	}
	defer rows.Close()

	transactions := []model.Transaction{}

	for rows.Next() {
		var t model.Transaction
		var createdAtStr string

		err := rows.Scan(
			&t.ID,
			&t.FundCode,
			&t.FundName,
			&t.Type,
			&t.Date,
			&t.Amount,
			&t.Shares,
			&t.UnitPrice,
			&t.Fee,
			&createdAtStr,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan ledger_transaction results: %w", err)
		}

		t.CreatedAt, err = ParseTime(createdAtStr)
		if err != nil {
			return nil, fmt.Errorf("failed to parse created_at: %w", err)
		}

		transactions = append(transactions, t)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating ledger_transaction table: %w", err)
	}

	return transactions, nil
}

// Insert appends a transaction to the log.
func (r *TransactionRepository) Insert(ctx context.Context, t *model.Transaction) error {
	query := `
		INSERT INTO ledger_transaction (id, fund_code, fund_name, type, date, amount, shares, unit_price, fee)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.db.ExecContext(ctx, query,
		t.ID, t.FundCode, t.FundName, t.Type, t.Date, t.Amount, t.Shares, t.UnitPrice, t.Fee,
	)
	if err != nil {
		return fmt.Errorf("failed to insert transaction: %w", err)
	}

	return nil
}

// Delete removes a transaction by id. Returns ErrTransactionNotFound if no
// row matched.
func (r *TransactionRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM ledger_transaction WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete transaction: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if affected == 0 {
		return apperrors.ErrTransactionNotFound
	}

	return nil
}

// UpdateFee replaces the fee on a transaction. Returns ErrTransactionNotFound
// if no row matched.
func (r *TransactionRepository) UpdateFee(ctx context.Context, id string, fee float64) error {
	result, err := r.db.ExecContext(ctx, `UPDATE ledger_transaction SET fee = ? WHERE id = ?`, fee, id)
	if err != nil {
		return fmt.Errorf("failed to update transaction fee: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if affected == 0 {
		return apperrors.ErrTransactionNotFound
	}

	return nil
}

// ReplaceAll replaces the entire transaction log inside a single database
// transaction. Used by import and reset; insertion order of the given slice
// becomes the new log order.
func (r *TransactionRepository) ReplaceAll(ctx context.Context, transactions []model.Transaction) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM ledger_transaction`); err != nil {
		return fmt.Errorf("failed to clear ledger_transaction table: %w", err)
	}

	insert := `
		INSERT INTO ledger_transaction (id, fund_code, fund_name, type, date, amount, shares, unit_price, fee)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	for _, t := range transactions {
		if _, err := tx.ExecContext(ctx, insert,
			t.ID, t.FundCode, t.FundName, t.Type, t.Date, t.Amount, t.Shares, t.UnitPrice, t.Fee,
		); err != nil {
			return fmt.Errorf("failed to insert transaction %s: %w", t.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction log replacement: %w", err)
	}

	return nil
}
