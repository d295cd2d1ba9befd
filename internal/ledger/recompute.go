// Package ledger contains the holdings recomputation core. Everything in
// this package is pure: holdings and the account summary are a deterministic
// function of the transaction log and the price override map, and every
// store mutation re-derives them wholesale rather than patching increments.
package ledger

import (
	"sort"

	"github.com/fundrecords/fund-records-backend/internal/model"
)

// ShareEpsilon is the threshold below which a position counts as fully
// liquidated and is dropped from the holdings list.
const ShareEpsilon = 0.01

// accumulator carries the running per-fund state of the fold.
type accumulator struct {
	fundName     string
	totalShares  float64
	totalCost    float64
	currentPrice float64
}

// Recompute folds the transaction log into per-fund holdings and an
// account-level summary.
//
// Transactions are processed in log order (the order they appear in the
// slice), not chronological order; date sorting is a display concern.
// Cost accounting is weighted-average: a buy adds amount + fee to the cost
// basis, a sell removes the sold fraction of the basis regardless of the
// sale price, so realized gains are absorbed into the remaining position.
//
// The function is total. A sell against an empty position clamps shares
// and cost at zero instead of producing non-finite values; rejecting such
// transactions up front is the store's job, not the calculator's.
func Recompute(transactions []model.Transaction, overrides map[string]float64) ([]model.Holding, model.AccountSummary) {
	funds := make(map[string]*accumulator)
	var totalFees float64

	for _, tx := range transactions {
		acc, ok := funds[tx.FundCode]
		if !ok {
			acc = &accumulator{currentPrice: tx.UnitPrice}
			funds[tx.FundCode] = acc
		}

		// Display name follows the most recently processed transaction.
		acc.fundName = tx.FundName
		totalFees += tx.Fee

		switch {
		case tx.IsBuy():
			acc.totalShares += tx.Shares
			acc.totalCost += tx.Amount + tx.Fee
		case tx.IsSell():
			if acc.totalShares > 0 && tx.Shares < acc.totalShares {
				sellRatio := tx.Shares / acc.totalShares
				acc.totalCost -= acc.totalCost * sellRatio
				acc.totalShares -= tx.Shares
			} else {
				// Over-sell or sell against an empty position: close it out.
				acc.totalShares = 0
				acc.totalCost = 0
			}
		}

		if price, ok := overrides[tx.FundCode]; ok {
			acc.currentPrice = price
		} else {
			acc.currentPrice = tx.UnitPrice
		}
	}

	// Holdings are emitted sorted by fund code so the result is independent
	// of map iteration and of cross-fund transaction order.
	codes := make([]string, 0, len(funds))
	for code := range funds {
		codes = append(codes, code)
	}
	sort.Strings(codes)

	holdings := make([]model.Holding, 0, len(funds))
	for _, code := range codes {
		acc := funds[code]
		if acc.totalShares <= ShareEpsilon {
			continue
		}

		value := acc.totalShares * acc.currentPrice
		profit := value - acc.totalCost

		h := model.Holding{
			FundCode:     code,
			FundName:     acc.fundName,
			TotalShares:  acc.totalShares,
			TotalCost:    acc.totalCost,
			AverageCost:  acc.totalCost / acc.totalShares,
			CurrentPrice: acc.currentPrice,
			CurrentValue: value,
			TotalProfit:  profit,
		}
		if acc.totalCost > 0 {
			h.ProfitRate = profit / acc.totalCost * 100
		}
		holdings = append(holdings, h)
	}

	return holdings, summarize(holdings, totalFees)
}

// summarize aggregates surviving holdings into the account summary.
// Total investment counts only live positions; total fees were accumulated
// over the full log so liquidated funds keep contributing.
func summarize(holdings []model.Holding, totalFees float64) model.AccountSummary {
	var summary model.AccountSummary
	for _, h := range holdings {
		summary.TotalInvestment += h.TotalCost
		summary.TotalValue += h.CurrentValue
	}
	summary.TotalProfit = summary.TotalValue - summary.TotalInvestment
	if summary.TotalInvestment > 0 {
		summary.TotalProfitRate = summary.TotalProfit / summary.TotalInvestment * 100
	}
	summary.TotalFees = totalFees
	return summary
}
