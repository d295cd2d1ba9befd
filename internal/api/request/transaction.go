package request

type CreateTransactionRequest struct {
	FundCode  string  `json:"fundCode"`
	FundName  string  `json:"fundName"`
	Type      string  `json:"type"`
	Date      string  `json:"date"`
	Amount    float64 `json:"amount"`
	Shares    float64 `json:"shares"`
	UnitPrice float64 `json:"unitPrice"`
	Fee       float64 `json:"fee"`
}

type UpdateFeeRequest struct {
	Fee float64 `json:"fee"`
}
