package testutil

import (
	"time"

	"github.com/google/uuid"

	"github.com/fundrecords/fund-records-backend/internal/model"
)

// TransactionBuilder provides a fluent interface for creating test transactions.
//
// Example usage:
//
//	// Simple buy with defaults
//	tx := testutil.NewTransaction().Build()
//
//	// Customized sell
//	tx := testutil.NewTransaction().
//	    Sell().
//	    WithFund("000002", "Bond Fund").
//	    WithShares(500).
//	    WithAmount(600).
//	    Build()
type TransactionBuilder struct {
	tx model.Transaction
}

// NewTransaction creates a TransactionBuilder with sensible buy defaults:
// 1000 units at 1.0 for 1000 currency, no fee.
func NewTransaction() *TransactionBuilder {
	return &TransactionBuilder{
		tx: model.Transaction{
			ID:        MakeID(),
			FundCode:  "000001",
			FundName:  "Test Fund",
			Type:      model.TransactionTypeBuy,
			Date:      "2024-01-01",
			Amount:    1000,
			Shares:    1000,
			UnitPrice: 1.0,
			CreatedAt: time.Now().UTC(),
		},
	}
}

// WithID sets a custom ID.
func (b *TransactionBuilder) WithID(id string) *TransactionBuilder {
	b.tx.ID = id
	return b
}

// WithFund sets the fund code and display name.
func (b *TransactionBuilder) WithFund(code, name string) *TransactionBuilder {
	b.tx.FundCode = code
	b.tx.FundName = name
	return b
}

// WithDate sets the trade date.
func (b *TransactionBuilder) WithDate(date string) *TransactionBuilder {
	b.tx.Date = date
	return b
}

// WithAmount sets the currency amount.
func (b *TransactionBuilder) WithAmount(amount float64) *TransactionBuilder {
	b.tx.Amount = amount
	return b
}

// WithShares sets the transacted share count.
func (b *TransactionBuilder) WithShares(shares float64) *TransactionBuilder {
	b.tx.Shares = shares
	return b
}

// WithUnitPrice sets the trade price per unit.
func (b *TransactionBuilder) WithUnitPrice(price float64) *TransactionBuilder {
	b.tx.UnitPrice = price
	return b
}

// WithFee sets the transaction fee.
func (b *TransactionBuilder) WithFee(fee float64) *TransactionBuilder {
	b.tx.Fee = fee
	return b
}

// Sell marks the transaction as a sell.
func (b *TransactionBuilder) Sell() *TransactionBuilder {
	b.tx.Type = model.TransactionTypeSell
	return b
}

// Build returns the constructed transaction.
func (b *TransactionBuilder) Build() model.Transaction {
	return b.tx
}

// MakeID returns a fresh UUID string.
func MakeID() string {
	return uuid.New().String()
}
