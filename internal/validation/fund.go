package validation

import (
	"strings"

	"github.com/fundrecords/fund-records-backend/internal/api/request"
)

// ValidateSetFundPrice validates a price override request. The store itself
// does not re-check the price; this boundary is the guard.
func ValidateSetFundPrice(fundCode string, req request.SetFundPriceRequest) error {
	errors := make(map[string]string)

	if strings.TrimSpace(fundCode) == "" {
		errors["fundCode"] = "fundCode is required"
	}
	if req.Price <= 0.0 {
		errors["price"] = "price must be positive"
	}

	if len(errors) > 0 {
		return &Error{Fields: errors}
	}

	return nil
}

// ValidateConfigureSync validates a sync credential submission.
func ValidateConfigureSync(req request.ConfigureSyncRequest) error {
	if strings.TrimSpace(req.APIKey) == "" {
		return &Error{Fields: map[string]string{"apiKey": "apiKey is required"}}
	}
	return nil
}
