package request

type ConfigureSyncRequest struct {
	APIKey string `json:"apiKey"`
}
