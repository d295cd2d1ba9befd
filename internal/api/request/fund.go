package request

type SetFundPriceRequest struct {
	Price float64 `json:"price"`
}
