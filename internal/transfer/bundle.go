// Package transfer implements the file import/export codecs: the JSON
// bundle and the xlsx workbook. Both decode into the canonical data model
// and reject malformed payloads before any store state is touched.
package transfer

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/fundrecords/fund-records-backend/internal/apperrors"
	"github.com/fundrecords/fund-records-backend/internal/model"
)

// BundleVersion is the schema version written into exported bundles.
// Version 0 (absent) bundles are accepted as the legacy format.
const BundleVersion = 1

// requiredBundleFields are the top-level keys an import payload must carry.
// Mirrors the original file importer, which rejected files missing any of
// them with a message naming the missing piece.
var requiredBundleFields = []string{"transactions", "holdings", "accountSummary", "fundPrices"}

// EncodeBundle serializes a bundle as pretty-printed JSON.
func EncodeBundle(bundle model.DataBundle) ([]byte, error) {
	bundle.Version = BundleVersion

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(bundle); err != nil {
		return nil, fmt.Errorf("failed to encode data bundle: %w", err)
	}
	return buf.Bytes(), nil
}

// ExportFilename returns the conventional export filename for the given day.
func ExportFilename(now time.Time) string {
	return fmt.Sprintf("基金投资记录_%s.json", now.Format("2006-01-02"))
}

// DecodeBundle parses and validates an import payload. Transactions in the
// legacy price/quantity shape are converted to the canonical shape; any
// holdings and summary present are carried through verbatim for the caller
// to discard (the store always recomputes them).
func DecodeBundle(data []byte) (model.DataBundle, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return model.DataBundle{}, fmt.Errorf("%w: %v", apperrors.ErrInvalidBundle, err)
	}

	for _, field := range requiredBundleFields {
		if _, ok := raw[field]; !ok {
			return model.DataBundle{}, fmt.Errorf("%w: %s", apperrors.ErrMissingBundleField, field)
		}
	}

	var rawTransactions []json.RawMessage
	if err := json.Unmarshal(raw["transactions"], &rawTransactions); err != nil {
		return model.DataBundle{}, apperrors.ErrTransactionsNotArray
	}

	bundle := model.DataBundle{
		Transactions: make([]model.Transaction, 0, len(rawTransactions)),
		FundPrices:   make(map[string]float64),
	}

	for i, rawTx := range rawTransactions {
		tx, err := decodeTransaction(rawTx)
		if err != nil {
			return model.DataBundle{}, fmt.Errorf("transaction %d: %w", i, err)
		}
		bundle.Transactions = append(bundle.Transactions, tx)
	}

	if err := json.Unmarshal(raw["fundPrices"], &bundle.FundPrices); err != nil {
		return model.DataBundle{}, fmt.Errorf("%w: fundPrices must map fund codes to prices", apperrors.ErrInvalidBundle)
	}
	if bundle.FundPrices == nil {
		bundle.FundPrices = make(map[string]float64)
	}

	return bundle, nil
}

// rawTransaction carries both generations of the transaction format.
// looseFloat coerces malformed numerics to zero at this boundary, so the
// calculator downstream can assume clean input.
type rawTransaction struct {
	ID        string     `json:"id"`
	FundCode  string     `json:"fundCode"`
	FundName  string     `json:"fundName"`
	Type      string     `json:"type"`
	Date      string     `json:"date"`
	Amount    looseFloat `json:"amount"`
	Shares    looseFloat `json:"shares"`
	UnitPrice looseFloat `json:"unitPrice"`
	Fee       looseFloat `json:"fee"`
	Price     looseFloat `json:"price"`
	Quantity  looseFloat `json:"quantity"`
}

func decodeTransaction(data []byte) (model.Transaction, error) {
	var raw rawTransaction
	if err := json.Unmarshal(data, &raw); err != nil {
		return model.Transaction{}, fmt.Errorf("%w: %v", apperrors.ErrInvalidBundle, err)
	}

	txType := model.NormalizeTransactionType(raw.Type)
	if txType != model.TransactionTypeBuy && txType != model.TransactionTypeSell {
		return model.Transaction{}, fmt.Errorf("%w: %q", apperrors.ErrInvalidTransactionType, raw.Type)
	}

	// Legacy records carry price/quantity instead of unitPrice/shares.
	if raw.Shares == 0 && raw.UnitPrice == 0 && (raw.Price != 0 || raw.Quantity != 0) {
		legacy := model.LegacyTransaction{
			ID:       raw.ID,
			FundCode: raw.FundCode,
			FundName: raw.FundName,
			Type:     raw.Type,
			Date:     raw.Date,
			Price:    float64(raw.Price),
			Quantity: float64(raw.Quantity),
			Amount:   float64(raw.Amount),
			Fee:      float64(raw.Fee),
		}
		return legacy.Canonical(), nil
	}

	return model.Transaction{
		ID:        raw.ID,
		FundCode:  raw.FundCode,
		FundName:  raw.FundName,
		Type:      txType,
		Date:      raw.Date,
		Amount:    float64(raw.Amount),
		Shares:    float64(raw.Shares),
		UnitPrice: float64(raw.UnitPrice),
		Fee:       float64(raw.Fee),
	}, nil
}

// looseFloat decodes JSON numbers, numeric strings, null and absent values,
// coercing anything unusable to zero.
type looseFloat float64

func (f *looseFloat) UnmarshalJSON(data []byte) error {
	var v float64
	if err := json.Unmarshal(data, &v); err == nil {
		*f = looseFloat(v)
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		var parsed float64
		if _, scanErr := fmt.Sscanf(s, "%g", &parsed); scanErr == nil {
			*f = looseFloat(parsed)
			return nil
		}
	}

	*f = 0
	return nil
}
