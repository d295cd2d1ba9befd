package model

// DataBundle is the full-dataset exchange format used by file export,
// import and cloud sync. Holdings and AccountSummary are included for
// human inspection of exported files; imports discard them and recompute
// from the transaction log.
type DataBundle struct {
	Version        int                `json:"version,omitempty"`
	Transactions   []Transaction      `json:"transactions"`
	Holdings       []Holding          `json:"holdings"`
	AccountSummary AccountSummary     `json:"accountSummary"`
	FundPrices     map[string]float64 `json:"fundPrices"`
}
