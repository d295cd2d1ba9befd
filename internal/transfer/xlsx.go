package transfer

import (
	"bytes"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/fundrecords/fund-records-backend/internal/apperrors"
	"github.com/fundrecords/fund-records-backend/internal/model"
)

// Worksheet names. The transactions and price sheets are authoritative on
// import; the holdings and summary sheets are written for readers only and
// never read back.
const (
	SheetTransactions = "交易记录"
	SheetHoldings     = "持仓详情"
	SheetSummary      = "账户概览"
	SheetPrices       = "基金净值"
)

var transactionHeader = []string{"日期", "基金代码", "基金名称", "交易类型", "交易金额", "成交份额", "单位净值", "手续费"}

// ExportWorkbookFilename returns the conventional xlsx export filename.
func ExportWorkbookFilename(now time.Time) string {
	return fmt.Sprintf("基金投资记录_%s.xlsx", now.Format("2006-01-02"))
}

// EncodeWorkbook renders the full dataset as an xlsx workbook.
func EncodeWorkbook(bundle model.DataBundle) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := writeTransactionSheet(f, bundle.Transactions); err != nil {
		return nil, err
	}
	if err := writeHoldingSheet(f, bundle.Holdings); err != nil {
		return nil, err
	}
	if err := writeSummarySheet(f, bundle.AccountSummary); err != nil {
		return nil, err
	}
	if err := writePriceSheet(f, bundle.FundPrices); err != nil {
		return nil, err
	}

	// The transactions sheet replaces the default sheet.
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, fmt.Errorf("failed to delete default sheet: %w", err)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func writeTransactionSheet(f *excelize.File, transactions []model.Transaction) error {
	if _, err := f.NewSheet(SheetTransactions); err != nil {
		return fmt.Errorf("failed to create sheet %s: %w", SheetTransactions, err)
	}

	for col, title := range transactionHeader {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		_ = f.SetCellStr(SheetTransactions, cell, title)
	}

	for i, t := range transactions {
		row := i + 2
		_ = f.SetCellStr(SheetTransactions, fmt.Sprintf("A%d", row), t.Date)
		_ = f.SetCellStr(SheetTransactions, fmt.Sprintf("B%d", row), t.FundCode)
		_ = f.SetCellStr(SheetTransactions, fmt.Sprintf("C%d", row), t.FundName)
		_ = f.SetCellStr(SheetTransactions, fmt.Sprintf("D%d", row), localizedType(t.Type))
		_ = f.SetCellValue(SheetTransactions, fmt.Sprintf("E%d", row), t.Amount)
		_ = f.SetCellValue(SheetTransactions, fmt.Sprintf("F%d", row), t.Shares)
		_ = f.SetCellValue(SheetTransactions, fmt.Sprintf("G%d", row), t.UnitPrice)
		_ = f.SetCellValue(SheetTransactions, fmt.Sprintf("H%d", row), t.Fee)
	}

	return nil
}

func writeHoldingSheet(f *excelize.File, holdings []model.Holding) error {
	if _, err := f.NewSheet(SheetHoldings); err != nil {
		return fmt.Errorf("failed to create sheet %s: %w", SheetHoldings, err)
	}

	header := []string{"基金代码", "基金名称", "持仓份额", "持仓成本", "平均成本", "当前净值", "当前市值", "盈亏金额", "收益率(%)"}
	for col, title := range header {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		_ = f.SetCellStr(SheetHoldings, cell, title)
	}

	for i, h := range holdings {
		row := i + 2
		_ = f.SetCellStr(SheetHoldings, fmt.Sprintf("A%d", row), h.FundCode)
		_ = f.SetCellStr(SheetHoldings, fmt.Sprintf("B%d", row), h.FundName)
		_ = f.SetCellValue(SheetHoldings, fmt.Sprintf("C%d", row), h.TotalShares)
		_ = f.SetCellValue(SheetHoldings, fmt.Sprintf("D%d", row), h.TotalCost)
		_ = f.SetCellValue(SheetHoldings, fmt.Sprintf("E%d", row), h.AverageCost)
		_ = f.SetCellValue(SheetHoldings, fmt.Sprintf("F%d", row), h.CurrentPrice)
		_ = f.SetCellValue(SheetHoldings, fmt.Sprintf("G%d", row), h.CurrentValue)
		_ = f.SetCellValue(SheetHoldings, fmt.Sprintf("H%d", row), h.TotalProfit)
		_ = f.SetCellValue(SheetHoldings, fmt.Sprintf("I%d", row), h.ProfitRate)
	}

	return nil
}

func writeSummarySheet(f *excelize.File, summary model.AccountSummary) error {
	if _, err := f.NewSheet(SheetSummary); err != nil {
		return fmt.Errorf("failed to create sheet %s: %w", SheetSummary, err)
	}

	rows := []struct {
		label string
		value float64
	}{
		{"总投入", summary.TotalInvestment},
		{"当前总市值", summary.TotalValue},
		{"总盈亏", summary.TotalProfit},
		{"总收益率(%)", summary.TotalProfitRate},
		{"总手续费", summary.TotalFees},
	}

	for i, r := range rows {
		_ = f.SetCellStr(SheetSummary, fmt.Sprintf("A%d", i+1), r.label)
		_ = f.SetCellValue(SheetSummary, fmt.Sprintf("B%d", i+1), r.value)
	}

	return nil
}

func writePriceSheet(f *excelize.File, prices map[string]float64) error {
	if _, err := f.NewSheet(SheetPrices); err != nil {
		return fmt.Errorf("failed to create sheet %s: %w", SheetPrices, err)
	}

	_ = f.SetCellStr(SheetPrices, "A1", "基金代码")
	_ = f.SetCellStr(SheetPrices, "B1", "当前净值")

	codes := make([]string, 0, len(prices))
	for code := range prices {
		codes = append(codes, code)
	}
	sort.Strings(codes)

	for i, code := range codes {
		row := i + 2
		_ = f.SetCellStr(SheetPrices, fmt.Sprintf("A%d", row), code)
		_ = f.SetCellValue(SheetPrices, fmt.Sprintf("B%d", row), prices[code])
	}

	return nil
}

// DecodeWorkbook parses an xlsx import. Only the transactions sheet and the
// optional price sheet are consumed; holdings and summary are always
// recomputed by the store.
func DecodeWorkbook(data []byte) (model.DataBundle, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return model.DataBundle{}, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	rows, err := f.GetRows(SheetTransactions)
	if err != nil {
		return model.DataBundle{}, fmt.Errorf("%w: %s", apperrors.ErrMissingWorksheet, SheetTransactions)
	}
	if len(rows) == 0 || !headerMatches(rows[0]) {
		return model.DataBundle{}, fmt.Errorf("%w: %s expects columns %s",
			apperrors.ErrInvalidWorksheetHeader, SheetTransactions, strings.Join(transactionHeader, ", "))
	}

	bundle := model.DataBundle{
		Transactions: make([]model.Transaction, 0, len(rows)-1),
		FundPrices:   make(map[string]float64),
	}

	for i, row := range rows[1:] {
		if isEmptyRow(row) {
			continue
		}
		tx, err := decodeTransactionRow(row)
		if err != nil {
			return model.DataBundle{}, fmt.Errorf("%s row %d: %w", SheetTransactions, i+2, err)
		}
		bundle.Transactions = append(bundle.Transactions, tx)
	}

	// The price sheet is optional.
	priceRows, err := f.GetRows(SheetPrices)
	if err == nil && len(priceRows) > 1 {
		for _, row := range priceRows[1:] {
			if len(row) < 2 || strings.TrimSpace(row[0]) == "" {
				continue
			}
			price := parseCellFloat(row[1])
			if price > 0 {
				bundle.FundPrices[strings.TrimSpace(row[0])] = price
			}
		}
	}

	return bundle, nil
}

func headerMatches(row []string) bool {
	if len(row) < len(transactionHeader) {
		return false
	}
	for i, want := range transactionHeader {
		if strings.TrimSpace(row[i]) != want {
			return false
		}
	}
	return true
}

func isEmptyRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

func decodeTransactionRow(row []string) (model.Transaction, error) {
	cell := func(i int) string {
		if i < len(row) {
			return strings.TrimSpace(row[i])
		}
		return ""
	}

	txType := model.NormalizeTransactionType(cell(3))
	if txType != model.TransactionTypeBuy && txType != model.TransactionTypeSell {
		return model.Transaction{}, fmt.Errorf("%w: %q", apperrors.ErrInvalidTransactionType, cell(3))
	}

	return model.Transaction{
		Date:      cell(0),
		FundCode:  cell(1),
		FundName:  cell(2),
		Type:      txType,
		Amount:    parseCellFloat(cell(4)),
		Shares:    parseCellFloat(cell(5)),
		UnitPrice: parseCellFloat(cell(6)),
		Fee:       parseCellFloat(cell(7)),
	}, nil
}

// parseCellFloat coerces a spreadsheet cell to a float, treating anything
// unparseable as zero, matching the JSON boundary behavior.
func parseCellFloat(s string) float64 {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}

func localizedType(txType string) string {
	if txType == model.TransactionTypeSell {
		return "卖出"
	}
	return "买入"
}
