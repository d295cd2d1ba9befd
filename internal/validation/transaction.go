package validation

import (
	"fmt"
	"strings"
	"time"

	"github.com/fundrecords/fund-records-backend/internal/api/request"
	"github.com/fundrecords/fund-records-backend/internal/model"
)

// ValidateCreateTransaction validates a transaction creation request.
//
// Required fields:
//   - fundCode, fundName: non-empty
//   - date: YYYY-MM-DD
//   - type: buy or sell (localized labels are normalized before this check)
//   - amount, shares, unitPrice: positive
//   - fee: non-negative
//
// Returns a validation Error with field-specific messages if validation fails.
func ValidateCreateTransaction(req request.CreateTransactionRequest) error {
	errors := make(map[string]string)

	if strings.TrimSpace(req.FundCode) == "" {
		errors["fundCode"] = "fundCode is required"
	}
	if strings.TrimSpace(req.FundName) == "" {
		errors["fundName"] = "fundName is required"
	}

	if strings.TrimSpace(req.Date) == "" {
		errors["date"] = "date is required"
	} else if _, err := time.Parse("2006-01-02", req.Date); err != nil {
		errors["date"] = err.Error()
	}

	txType := model.NormalizeTransactionType(req.Type)
	if txType != model.TransactionTypeBuy && txType != model.TransactionTypeSell {
		errors["type"] = fmt.Sprintf("invalid type: %s", req.Type)
	}

	if req.Amount <= 0.0 {
		errors["amount"] = "amount must be positive"
	}
	if req.Shares <= 0.0 {
		errors["shares"] = "shares must be positive"
	}
	if req.UnitPrice <= 0.0 {
		errors["unitPrice"] = "unitPrice must be positive"
	}
	if req.Fee < 0.0 {
		errors["fee"] = "fee cannot be negative"
	}

	if len(errors) > 0 {
		return &Error{Fields: errors}
	}

	return nil
}

// ValidateUpdateFee validates a fee correction. Negative fees are rejected
// rather than clamped.
func ValidateUpdateFee(req request.UpdateFeeRequest) error {
	if req.Fee < 0.0 {
		return &Error{Fields: map[string]string{"fee": "fee cannot be negative"}}
	}
	return nil
}
