package model

// LegacyTransaction is the price/quantity record shape used by older
// exports. Amount was computed as price * quantity and a separately
// editable CurrentPrice could be present alongside the trade price.
// Only the fields the calculator needs survive the conversion.
type LegacyTransaction struct {
	ID           string  `json:"id"`
	FundCode     string  `json:"fundCode"`
	FundName     string  `json:"fundName"`
	Type         string  `json:"type"`
	Date         string  `json:"date"`
	Price        float64 `json:"price"`
	Quantity     float64 `json:"quantity"`
	Amount       float64 `json:"amount"`
	Fee          float64 `json:"fee"`
	CurrentPrice float64 `json:"currentPrice,omitempty"`
}

// Canonical converts a legacy record to the canonical shape. A missing
// amount is reconstructed as price * quantity. Negative or NaN-free
// coercion of malformed numerics happens before this point, at the
// decoding boundary.
func (l LegacyTransaction) Canonical() Transaction {
	amount := l.Amount
	if amount == 0 {
		amount = l.Price * l.Quantity
	}
	return Transaction{
		ID:        l.ID,
		FundCode:  l.FundCode,
		FundName:  l.FundName,
		Type:      NormalizeTransactionType(l.Type),
		Date:      l.Date,
		Amount:    amount,
		Shares:    l.Quantity,
		UnitPrice: l.Price,
		Fee:       l.Fee,
	}
}
