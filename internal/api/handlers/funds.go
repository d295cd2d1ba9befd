package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/fundrecords/fund-records-backend/internal/api/request"
	"github.com/fundrecords/fund-records-backend/internal/api/response"
	"github.com/fundrecords/fund-records-backend/internal/service"
	"github.com/fundrecords/fund-records-backend/internal/validation"
)

// FundHandler handles HTTP requests for derived fund state: holdings, the
// account summary, per-fund transaction history, and manual price overrides.
type FundHandler struct {
	ledgerService *service.LedgerService
}

// NewFundHandler creates a new FundHandler with the provided service dependency.
func NewFundHandler(ledgerService *service.LedgerService) *FundHandler {
	return &FundHandler{
		ledgerService: ledgerService,
	}
}

// Holdings handles GET requests to retrieve current holdings, ordered by
// fund code. Liquidated positions are not included.
//
// Endpoint: GET /api/fund/holdings
// Response: 200 OK with array of Holding
func (h *FundHandler) Holdings(w http.ResponseWriter, _ *http.Request) {
	response.RespondJSON(w, http.StatusOK, h.ledgerService.Holdings())
}

// Summary handles GET requests to retrieve the account-level summary.
//
// Endpoint: GET /api/fund/summary
// Response: 200 OK with AccountSummary
func (h *FundHandler) Summary(w http.ResponseWriter, _ *http.Request) {
	response.RespondJSON(w, http.StatusOK, h.ledgerService.Summary())
}

// FundTransactions handles GET requests to retrieve the transactions of a
// single fund, in recorded order.
//
// Endpoint: GET /api/fund/{code}/transactions
// Response: 200 OK with array of Transaction (empty array for unknown codes)
func (h *FundHandler) FundTransactions(w http.ResponseWriter, r *http.Request) {
	fundCode := chi.URLParam(r, "code")

	response.RespondJSON(w, http.StatusOK, h.ledgerService.TransactionsByFund(fundCode))
}

// SetPrice handles PUT requests to set a manual current price for a fund.
// The override takes precedence over prices derived from the transaction log.
//
// Endpoint: PUT /api/fund/{code}/price
// Request Body: SetFundPriceRequest (price)
// Response: 204 No Content
// Error: 400 Bad Request if the price is not positive or the code is empty
// Error: 500 Internal Server Error if persistence fails
func (h *FundHandler) SetPrice(w http.ResponseWriter, r *http.Request) {
	fundCode := chi.URLParam(r, "code")

	req, err := parseJSON[request.SetFundPriceRequest](r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := validation.ValidateSetFundPrice(fundCode, req); err != nil {
		response.RespondError(w, http.StatusBadRequest, "validation failed", err.Error())
		return
	}

	if err := h.ledgerService.SetPriceOverride(r.Context(), fundCode, req.Price); err != nil {
		response.RespondError(w, http.StatusInternalServerError, "failed to set fund price", err.Error())
		return
	}

	response.RespondJSON(w, http.StatusNoContent, nil)
}
