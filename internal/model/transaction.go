package model

import "time"

// Transaction types. The source data uses localized labels (买入/卖出);
// those are accepted on import and normalized to these values.
const (
	TransactionTypeBuy  = "buy"
	TransactionTypeSell = "sell"
)

// Transaction represents a single fund trade in the ledger.
// Transactions are immutable once created except for the fee field,
// which can be corrected afterwards.
//
// Amount, Shares, UnitPrice and Fee are the canonical economic fields:
// Amount is the currency spent (buy) or received (sell), Shares the units
// transacted, UnitPrice the trade price per unit. The legacy price/quantity
// shape is converted to this shape at the import boundary (see LegacyTransaction).
type Transaction struct {
	ID        string    `json:"id"`
	FundCode  string    `json:"fundCode"`
	FundName  string    `json:"fundName"`
	Type      string    `json:"type"`
	Date      string    `json:"date"`
	Amount    float64   `json:"amount"`
	Shares    float64   `json:"shares"`
	UnitPrice float64   `json:"unitPrice"`
	Fee       float64   `json:"fee"`
	CreatedAt time.Time `json:"createdAt,omitempty"`
}

// IsBuy reports whether the transaction increases the position.
func (t Transaction) IsBuy() bool {
	return t.Type == TransactionTypeBuy
}

// IsSell reports whether the transaction decreases the position.
func (t Transaction) IsSell() bool {
	return t.Type == TransactionTypeSell
}

// NormalizeTransactionType maps localized and legacy type labels to the
// canonical buy/sell values. Unknown labels are returned unchanged so the
// caller can reject them with a descriptive error.
func NormalizeTransactionType(raw string) string {
	switch raw {
	case "买入", "BUY", "Buy", TransactionTypeBuy:
		return TransactionTypeBuy
	case "卖出", "SELL", "Sell", TransactionTypeSell:
		return TransactionTypeSell
	}
	return raw
}
