package transfer_test

import (
	"bytes"
	"errors"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/fundrecords/fund-records-backend/internal/apperrors"
	"github.com/fundrecords/fund-records-backend/internal/model"
	"github.com/fundrecords/fund-records-backend/internal/transfer"
)

func sampleBundle() model.DataBundle {
	return model.DataBundle{
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
			{
				ID:        "a2",
				FundCode:  "000001",
				FundName:  "Growth Fund",
				Type:      model.TransactionTypeSell,
				Date:      "2024-02-01",
				Amount:    600,
				Shares:    500,
				UnitPrice: 1.2,
			},
		},
		Holdings: []model.Holding{
			{FundCode: "000001", FundName: "Growth Fund", TotalShares: 500, TotalCost: 505},
		},
		AccountSummary: model.AccountSummary{TotalInvestment: 505, TotalFees: 10},
		FundPrices:     map[string]float64{"000001": 1.3},
	}
}

// TestEncodeWorkbook_Sheets tests the workbook layout.
//
// WHY: The workbook is opened in spreadsheet apps by users; it must contain
// the four conventional sheets and no leftover default sheet.
func TestEncodeWorkbook_Sheets(t *testing.T) {
	payload, err := transfer.EncodeWorkbook(sampleBundle())
	if err != nil {
		t.Fatalf("EncodeWorkbook() returned unexpected error: %v", err)
	}

	f, err := excelize.OpenReader(bytes.NewReader(payload))
	if err != nil {
		t.Fatalf("Failed to reopen workbook: %v", err)
	}
	defer f.Close()

	want := []string{
		transfer.SheetTransactions,
		transfer.SheetHoldings,
		transfer.SheetSummary,
		transfer.SheetPrices,
	}
	sheets := f.GetSheetList()
	for _, name := range want {
		found := false
		for _, s := range sheets {
			if s == name {
				found = true
			}
		}
		if !found {
			t.Errorf("Expected sheet %q in workbook, got %v", name, sheets)
		}
	}
	for _, s := range sheets {
		if s == "Sheet1" {
			t.Error("Default sheet must be removed from the workbook")
		}
	}

	// Transaction types are written localized.
	cell, err := f.GetCellValue(transfer.SheetTransactions, "D2")
	if err != nil {
		t.Fatalf("Failed to read cell: %v", err)
	}
	if cell != "买入" {
		t.Errorf("Expected localized buy label, got %q", cell)
	}
}

// TestDecodeWorkbook_RoundTrip tests that an exported workbook imports back.
//
// WHY: Users edit trades in a spreadsheet and re-import the file. The
// transactions and prices must survive the trip; holdings and summary are
// recomputed and deliberately not read back.
func TestDecodeWorkbook_RoundTrip(t *testing.T) {
	payload, err := transfer.EncodeWorkbook(sampleBundle())
	if err != nil {
		t.Fatalf("EncodeWorkbook() returned unexpected error: %v", err)
	}

	bundle, err := transfer.DecodeWorkbook(payload)
	if err != nil {
		t.Fatalf("DecodeWorkbook() returned unexpected error: %v", err)
	}

	if len(bundle.Transactions) != 2 {
		t.Fatalf("Expected 2 transactions, got %d", len(bundle.Transactions))
	}

	buy := bundle.Transactions[0]
	if buy.Type != model.TransactionTypeBuy || buy.Amount != 1000 || buy.Shares != 1000 || buy.Fee != 10 {
		t.Errorf("Buy did not survive round trip: %+v", buy)
	}
	if buy.ID != "" {
		t.Error("Workbook rows carry no ids; the import path assigns fresh ones")
	}

	sell := bundle.Transactions[1]
	if sell.Type != model.TransactionTypeSell || sell.Shares != 500 || sell.UnitPrice != 1.2 {
		t.Errorf("Sell did not survive round trip: %+v", sell)
	}

	if bundle.FundPrices["000001"] != 1.3 {
		t.Errorf("Expected price 1.3 from price sheet, got %f", bundle.FundPrices["000001"])
	}
	if len(bundle.Holdings) != 0 {
		t.Error("Holdings must not be read back from the workbook")
	}
}

// TestDecodeWorkbook_Validation tests rejection of malformed workbooks.
//
// WHY: A workbook without the transactions sheet, or with rearranged
// columns, would otherwise import garbage silently.
func TestDecodeWorkbook_Validation(t *testing.T) {
	t.Run("rejects workbook without transactions sheet", func(t *testing.T) {
		f := excelize.NewFile()
		defer f.Close()
		buf, err := f.WriteToBuffer()
		if err != nil {
			t.Fatalf("Failed to build workbook: %v", err)
		}

		_, err = transfer.DecodeWorkbook(buf.Bytes())
		if !errors.Is(err, apperrors.ErrMissingWorksheet) {
			t.Errorf("Expected ErrMissingWorksheet, got %v", err)
		}
	})

	t.Run("rejects transactions sheet with wrong header", func(t *testing.T) {
		f := excelize.NewFile()
		defer f.Close()
		if _, err := f.NewSheet(transfer.SheetTransactions); err != nil {
			t.Fatalf("Failed to create sheet: %v", err)
		}
		if err := f.SetCellStr(transfer.SheetTransactions, "A1", "wrong"); err != nil {
			t.Fatalf("Failed to set cell: %v", err)
		}
		buf, err := f.WriteToBuffer()
		if err != nil {
			t.Fatalf("Failed to build workbook: %v", err)
		}

		_, err = transfer.DecodeWorkbook(buf.Bytes())
		if !errors.Is(err, apperrors.ErrInvalidWorksheetHeader) {
			t.Errorf("Expected ErrInvalidWorksheetHeader, got %v", err)
		}
	})

	t.Run("rejects rows with unknown transaction types", func(t *testing.T) {
		payload, err := transfer.EncodeWorkbook(sampleBundle())
		if err != nil {
			t.Fatalf("EncodeWorkbook() returned unexpected error: %v", err)
		}

		f, err := excelize.OpenReader(bytes.NewReader(payload))
		if err != nil {
			t.Fatalf("Failed to reopen workbook: %v", err)
		}
		defer f.Close()
		if err := f.SetCellStr(transfer.SheetTransactions, "D2", "分红"); err != nil {
			t.Fatalf("Failed to set cell: %v", err)
		}
		buf, err := f.WriteToBuffer()
		if err != nil {
			t.Fatalf("Failed to rewrite workbook: %v", err)
		}

		_, err = transfer.DecodeWorkbook(buf.Bytes())
		if !errors.Is(err, apperrors.ErrInvalidTransactionType) {
			t.Errorf("Expected ErrInvalidTransactionType, got %v", err)
		}
	})

	t.Run("not a workbook at all", func(t *testing.T) {
		if _, err := transfer.DecodeWorkbook([]byte("not an xlsx")); err == nil {
			t.Error("Expected error for non-xlsx payload")
		}
	})
}
