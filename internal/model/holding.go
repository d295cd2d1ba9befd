package model

// Holding is the derived position of a single fund: the surviving share
// count and cost basis after folding the transaction log, valued at the
// current price. Holdings are never stored; they are recomputed from the
// log whenever it changes.
type Holding struct {
	FundCode     string  `json:"fundCode"`
	FundName     string  `json:"fundName"`
	TotalShares  float64 `json:"totalShares"`
	TotalCost    float64 `json:"totalCost"`
	AverageCost  float64 `json:"averageCost"`
	CurrentPrice float64 `json:"currentPrice"`
	CurrentValue float64 `json:"currentValue"`
	TotalProfit  float64 `json:"totalProfit"`
	ProfitRate   float64 `json:"profitRate"`
}

// AccountSummary aggregates the surviving holdings. TotalFees counts fees
// over the entire transaction log, including liquidated positions.
type AccountSummary struct {
	TotalInvestment float64 `json:"totalInvestment"`
	TotalValue      float64 `json:"totalValue"`
	TotalProfit     float64 `json:"totalProfit"`
	TotalProfitRate float64 `json:"totalProfitRate"`
	TotalFees       float64 `json:"totalFees"`
}
