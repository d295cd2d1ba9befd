package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/fundrecords/fund-records-backend/internal/api/request"
	"github.com/fundrecords/fund-records-backend/internal/apperrors"
	"github.com/fundrecords/fund-records-backend/internal/ledger"
	"github.com/fundrecords/fund-records-backend/internal/model"
	"github.com/fundrecords/fund-records-backend/internal/repository"
)

// LedgerService owns the four pieces of ledger state: the transaction log,
// the price override map, and the derived holdings and summary. Every
// mutation persists first, then updates the in-memory log, then replaces
// the derived state wholesale via ledger.Recompute. There is deliberately
// no incremental update path.
//
// The service is safe for concurrent use; the HTTP layer serves requests
// from multiple goroutines but each mutation runs to completion under the
// lock before the next observable read.
type LedgerService struct {
	mu sync.RWMutex

	transactionRepo *repository.TransactionRepository
	fundPriceRepo   *repository.FundPriceRepository

	transactions []model.Transaction
	overrides    map[string]float64
	holdings     []model.Holding
	summary      model.AccountSummary
}

// NewLedgerService creates a new LedgerService with the provided repository dependencies.
func NewLedgerService(
	transactionRepo *repository.TransactionRepository,
	fundPriceRepo *repository.FundPriceRepository,
) *LedgerService {
	return &LedgerService{
		transactionRepo: transactionRepo,
		fundPriceRepo:   fundPriceRepo,
		overrides:       make(map[string]float64),
	}
}

// Load rehydrates the ledger from the database. Called once at startup;
// holdings and summary are recomputed from scratch, never read back from
// persisted derived state.
func (s *LedgerService) Load(ctx context.Context) error {
	transactions, err := s.transactionRepo.GetAll(ctx)
	if err != nil {
		return fmt.Errorf("failed to load transaction log: %w", err)
	}

	overrides, err := s.fundPriceRepo.GetAll(ctx)
	if err != nil {
		return fmt.Errorf("failed to load price overrides: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.transactions = transactions
	s.overrides = overrides
	s.recompute()

	return nil
}

// recompute replaces the derived state. Callers must hold s.mu.
func (s *LedgerService) recompute() {
	s.holdings, s.summary = ledger.Recompute(s.transactions, s.overrides)
}

// AddTransaction assigns a fresh id, appends the transaction to the log and
// recomputes holdings. A sell of more shares than the fund currently holds
// is rejected with ErrInsufficientShares.
func (s *LedgerService) AddTransaction(ctx context.Context, req request.CreateTransactionRequest) (*model.Transaction, error) {
	tx := &model.Transaction{
		ID:        uuid.New().String(),
		FundCode:  req.FundCode,
		FundName:  req.FundName,
		Type:      model.NormalizeTransactionType(req.Type),
		Date:      req.Date,
		Amount:    req.Amount,
		Shares:    req.Shares,
		UnitPrice: req.UnitPrice,
		Fee:       req.Fee,
		CreatedAt: time.Now().UTC(),
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if tx.IsSell() && tx.Shares > s.heldShares(tx.FundCode) {
		return nil, apperrors.ErrInsufficientShares
	}

	if err := s.transactionRepo.Insert(ctx, tx); err != nil {
		return nil, fmt.Errorf("failed to create transaction: %w", err)
	}

	s.transactions = append(s.transactions, *tx)
	s.recompute()

	return tx, nil
}

// heldShares returns the current position size for a fund. Callers must
// hold s.mu. Liquidated funds are absent from holdings and report zero.
func (s *LedgerService) heldShares(fundCode string) float64 {
	for _, h := range s.holdings {
		if h.FundCode == fundCode {
			return h.TotalShares
		}
	}
	return 0
}

// DeleteTransaction removes a transaction by id and recomputes holdings.
// Deleting an absent id is a no-op, making deletion idempotent.
func (s *LedgerService) DeleteTransaction(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := s.transactionRepo.Delete(ctx, id)
	if errors.Is(err, apperrors.ErrTransactionNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to delete transaction: %w", err)
	}

	kept := s.transactions[:0]
	for _, t := range s.transactions {
		if t.ID != id {
			kept = append(kept, t)
		}
	}
	s.transactions = kept
	s.recompute()

	return nil
}

// UpdateFee replaces the fee on a transaction and recomputes holdings.
// The fee is the only mutable field of a recorded transaction.
func (s *LedgerService) UpdateFee(ctx context.Context, id string, fee float64) (*model.Transaction, error) {
	if fee < 0 {
		return nil, apperrors.ErrNegativeFee
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.transactionRepo.UpdateFee(ctx, id, fee); err != nil {
		return nil, err
	}

	var updated *model.Transaction
	for i := range s.transactions {
		if s.transactions[i].ID == id {
			s.transactions[i].Fee = fee
			updated = &s.transactions[i]
			break
		}
	}
	if updated == nil {
		// Row existed in the database but not in memory; state is out of
		// sync, which Load would repair. Surface it instead of guessing.
		return nil, apperrors.ErrTransactionNotFound
	}
	s.recompute()

	result := *updated
	return &result, nil
}

// SetPriceOverride merges a manual current price into the override map and
// recomputes holdings. Positivity is enforced at the validation boundary.
func (s *LedgerService) SetPriceOverride(ctx context.Context, fundCode string, price float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.fundPriceRepo.Upsert(ctx, fundCode, price); err != nil {
		return fmt.Errorf("failed to set price override: %w", err)
	}

	s.overrides[fundCode] = price
	s.recompute()

	return nil
}

// ImportBundle replaces the transaction log and price overrides wholesale.
// Holdings and summary present in the bundle are discarded; they may have
// been computed under a different formula version and are recomputed here.
// Transactions without an id (e.g. from spreadsheet imports) get fresh ones.
func (s *LedgerService) ImportBundle(ctx context.Context, bundle model.DataBundle) error {
	transactions := make([]model.Transaction, len(bundle.Transactions))
	copy(transactions, bundle.Transactions)
	for i := range transactions {
		if transactions[i].ID == "" {
			transactions[i].ID = uuid.New().String()
		}
	}

	overrides := make(map[string]float64, len(bundle.FundPrices))
	for code, price := range bundle.FundPrices {
		overrides[code] = price
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.transactionRepo.ReplaceAll(ctx, transactions); err != nil {
		return fmt.Errorf("failed to import transactions: %w", err)
	}
	if err := s.fundPriceRepo.ReplaceAll(ctx, overrides); err != nil {
		return fmt.Errorf("failed to import price overrides: %w", err)
	}

	s.transactions = transactions
	s.overrides = overrides
	s.recompute()

	return nil
}

// Reset clears all ledger state.
func (s *LedgerService) Reset(ctx context.Context) error {
	return s.ImportBundle(ctx, model.DataBundle{FundPrices: map[string]float64{}})
}

// ExportBundle returns an immutable snapshot of the full dataset for
// serialization by a transfer adapter.
func (s *LedgerService) ExportBundle() model.DataBundle {
	s.mu.RLock()
	defer s.mu.RUnlock()

	bundle := model.DataBundle{
		Transactions:   make([]model.Transaction, len(s.transactions)),
		Holdings:       make([]model.Holding, len(s.holdings)),
		AccountSummary: s.summary,
		FundPrices:     make(map[string]float64, len(s.overrides)),
	}
	copy(bundle.Transactions, s.transactions)
	copy(bundle.Holdings, s.holdings)
	for code, price := range s.overrides {
		bundle.FundPrices[code] = price
	}

	return bundle
}

// Transactions returns a copy of the transaction log in log order.
func (s *LedgerService) Transactions() []model.Transaction {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]model.Transaction, len(s.transactions))
	copy(result, s.transactions)
	return result
}

// TransactionsByFund returns the transactions for one fund code, in log order.
func (s *LedgerService) TransactionsByFund(fundCode string) []model.Transaction {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := []model.Transaction{}
	for _, t := range s.transactions {
		if t.FundCode == fundCode {
			result = append(result, t)
		}
	}
	return result
}

// Holdings returns a copy of the current derived holdings.
func (s *LedgerService) Holdings() []model.Holding {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]model.Holding, len(s.holdings))
	copy(result, s.holdings)
	return result
}

// Summary returns the current derived account summary.
func (s *LedgerService) Summary() model.AccountSummary {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.summary
}
