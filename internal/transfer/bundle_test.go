package transfer_test

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/fundrecords/fund-records-backend/internal/apperrors"
	"github.com/fundrecords/fund-records-backend/internal/model"
	"github.com/fundrecords/fund-records-backend/internal/transfer"
)

// TestDecodeBundle_RoundTrip tests that an exported bundle imports cleanly.
//
// WHY: Export and import are the user's backup path. A file the application
// wrote must always be readable by the same application.
func TestDecodeBundle_RoundTrip(t *testing.T) {
	original := model.DataBundle{
		Transactions: []model.Transaction{
			{
				ID:        "a1",
				FundCode:  "000001",
				FundName:  "Growth Fund",
				Type:      model.TransactionTypeBuy,
				Date:      "2024-01-01",
				Amount:    1000,
				Shares:    1000,
				UnitPrice: 1.0,
				Fee:       10,
			},
		},
		Holdings:       []model.Holding{{FundCode: "000001", TotalShares: 1000}},
		AccountSummary: model.AccountSummary{TotalInvestment: 1010},
		FundPrices:     map[string]float64{"000001": 1.2},
	}

	payload, err := transfer.EncodeBundle(original)
	if err != nil {
		t.Fatalf("EncodeBundle() returned unexpected error: %v", err)
	}

	decoded, err := transfer.DecodeBundle(payload)
	if err != nil {
		t.Fatalf("DecodeBundle() returned unexpected error: %v", err)
	}

	if len(decoded.Transactions) != 1 {
		t.Fatalf("Expected 1 transaction, got %d", len(decoded.Transactions))
	}
	tx := decoded.Transactions[0]
	if tx.ID != "a1" || tx.FundCode != "000001" || tx.Amount != 1000 || tx.Fee != 10 {
		t.Errorf("Transaction did not survive round trip: %+v", tx)
	}
	if decoded.FundPrices["000001"] != 1.2 {
		t.Errorf("Expected fund price 1.2, got %f", decoded.FundPrices["000001"])
	}
}

// TestDecodeBundle_Validation tests rejection of malformed payloads.
//
// WHY: Imports replace all local data, so a bad file must be rejected with
// an error naming the problem before anything is touched.
func TestDecodeBundle_Validation(t *testing.T) {
	t.Run("rejects non-object payloads", func(t *testing.T) {
		_, err := transfer.DecodeBundle([]byte(`[1,2,3]`))
		if !errors.Is(err, apperrors.ErrInvalidBundle) {
			t.Errorf("Expected ErrInvalidBundle, got %v", err)
		}
	})

	t.Run("rejects payloads missing a required field", func(t *testing.T) {
		payload := `{"transactions": [], "holdings": [], "accountSummary": {}}`
		_, err := transfer.DecodeBundle([]byte(payload))
		if !errors.Is(err, apperrors.ErrMissingBundleField) {
			t.Fatalf("Expected ErrMissingBundleField, got %v", err)
		}
		if !strings.Contains(err.Error(), "fundPrices") {
			t.Errorf("Expected error to name the missing field, got %q", err.Error())
		}
	})

	t.Run("rejects non-array transactions", func(t *testing.T) {
		payload := `{"transactions": {}, "holdings": [], "accountSummary": {}, "fundPrices": {}}`
		_, err := transfer.DecodeBundle([]byte(payload))
		if !errors.Is(err, apperrors.ErrTransactionsNotArray) {
			t.Errorf("Expected ErrTransactionsNotArray, got %v", err)
		}
	})

	t.Run("rejects unknown transaction types", func(t *testing.T) {
		payload := `{
			"transactions": [{"fundCode": "000001", "type": "transfer", "shares": 1, "unitPrice": 1}],
			"holdings": [], "accountSummary": {}, "fundPrices": {}
		}`
		_, err := transfer.DecodeBundle([]byte(payload))
		if !errors.Is(err, apperrors.ErrInvalidTransactionType) {
			t.Errorf("Expected ErrInvalidTransactionType, got %v", err)
		}
	})
}

// TestDecodeBundle_LegacyShape tests conversion of price/quantity records.
//
// WHY: Files exported before the format change carry price/quantity instead
// of unitPrice/shares, with no amount field. Those backups must keep working.
func TestDecodeBundle_LegacyShape(t *testing.T) {
	payload := `{
		"transactions": [
			{"id": "l1", "fundCode": "000001", "fundName": "Legacy Fund", "type": "买入",
			 "date": "2023-05-01", "price": 1.5, "quantity": 200, "fee": 2}
		],
		"holdings": [], "accountSummary": {}, "fundPrices": {}
	}`

	bundle, err := transfer.DecodeBundle([]byte(payload))
	if err != nil {
		t.Fatalf("DecodeBundle() returned unexpected error: %v", err)
	}

	if len(bundle.Transactions) != 1 {
		t.Fatalf("Expected 1 transaction, got %d", len(bundle.Transactions))
	}
	tx := bundle.Transactions[0]
	if tx.Shares != 200 || tx.UnitPrice != 1.5 {
		t.Errorf("Expected shares 200 at unit price 1.5, got %+v", tx)
	}
	if tx.Amount != 300 {
		t.Errorf("Expected amount derived as price*quantity = 300, got %f", tx.Amount)
	}
	if tx.Type != model.TransactionTypeBuy {
		t.Errorf("Expected localized type normalized to buy, got %q", tx.Type)
	}
}

// TestDecodeBundle_MalformedNumerics tests the loose numeric coercion.
//
// WHY: Real exported files in the wild contain numeric strings and nulls in
// numeric fields. Those coerce to zero instead of failing the whole import.
func TestDecodeBundle_MalformedNumerics(t *testing.T) {
	payload := `{
		"transactions": [
			{"fundCode": "000001", "fundName": "F", "type": "buy", "date": "2024-01-01",
			 "amount": "1000", "shares": 1000, "unitPrice": null, "fee": "oops"}
		],
		"holdings": [], "accountSummary": {}, "fundPrices": {}
	}`

	bundle, err := transfer.DecodeBundle([]byte(payload))
	if err != nil {
		t.Fatalf("DecodeBundle() returned unexpected error: %v", err)
	}

	tx := bundle.Transactions[0]
	if tx.Amount != 1000 {
		t.Errorf("Expected numeric string amount parsed as 1000, got %f", tx.Amount)
	}
	if tx.UnitPrice != 0 || tx.Fee != 0 {
		t.Errorf("Expected null and garbage coerced to 0, got price=%f fee=%f", tx.UnitPrice, tx.Fee)
	}
}

// TestEncodeBundle_Version tests that exports carry the schema version.
func TestEncodeBundle_Version(t *testing.T) {
	payload, err := transfer.EncodeBundle(model.DataBundle{FundPrices: map[string]float64{}})
	if err != nil {
		t.Fatalf("EncodeBundle() returned unexpected error: %v", err)
	}
	if !strings.Contains(string(payload), `"version": 1`) {
		t.Error("Expected exported bundle to carry the schema version")
	}
}

// TestExportFilename tests the dated filename convention.
func TestExportFilename(t *testing.T) {
	name := transfer.ExportFilename(time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC))
	if name != "基金投资记录_2024-03-15.json" {
		t.Errorf("Unexpected export filename: %q", name)
	}
}
