package testutil

import (
	"context"
	"database/sql"
	"testing"

	"github.com/fundrecords/fund-records-backend/internal/model"
	"github.com/fundrecords/fund-records-backend/internal/repository"
	"github.com/fundrecords/fund-records-backend/internal/service"
)

// NewTestLedgerService wires a LedgerService onto the given test database
// and loads it, so the returned service is ready for use.
func NewTestLedgerService(t *testing.T, db *sql.DB) *service.LedgerService {
	t.Helper()

	transactionRepo := repository.NewTransactionRepository(db)
	fundPriceRepo := repository.NewFundPriceRepository(db)

	ledgerService := service.NewLedgerService(transactionRepo, fundPriceRepo)
	if err := ledgerService.Load(context.Background()); err != nil {
		t.Fatalf("Failed to load ledger service: %v", err)
	}

	return ledgerService
}

// InsertTransactions writes transactions directly through the repository,
// bypassing service-level checks. Useful for seeding historical logs.
func InsertTransactions(t *testing.T, db *sql.DB, transactions ...model.Transaction) {
	t.Helper()

	repo := repository.NewTransactionRepository(db)
	for i := range transactions {
		if err := repo.Insert(context.Background(), &transactions[i]); err != nil {
			t.Fatalf("Failed to insert test transaction: %v", err)
		}
	}
}
