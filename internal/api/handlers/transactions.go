package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/fundrecords/fund-records-backend/internal/api/request"
	"github.com/fundrecords/fund-records-backend/internal/api/response"
	"github.com/fundrecords/fund-records-backend/internal/apperrors"
	"github.com/fundrecords/fund-records-backend/internal/service"
	"github.com/fundrecords/fund-records-backend/internal/validation"
)

// TransactionHandler handles HTTP requests for transaction endpoints.
// It serves as the HTTP layer adapter, parsing requests and delegating
// business logic to the ledgerService.
type TransactionHandler struct {
	ledgerService *service.LedgerService
}

// NewTransactionHandler creates a new TransactionHandler with the provided service dependency.
func NewTransactionHandler(ledgerService *service.LedgerService) *TransactionHandler {
	return &TransactionHandler{
		ledgerService: ledgerService,
	}
}

// AllTransactions handles GET requests to retrieve the full transaction log
// in recorded order.
//
// Endpoint: GET /api/transaction
// Response: 200 OK with array of Transaction
func (h *TransactionHandler) AllTransactions(w http.ResponseWriter, _ *http.Request) {
	response.RespondJSON(w, http.StatusOK, h.ledgerService.Transactions())
}

// CreateTransaction handles POST requests to record a new buy or sell.
// Validates the request body and appends the transaction to the log.
//
// Endpoint: POST /api/transaction
// Request Body: CreateTransactionRequest (fundCode, fundName, type, date, amount, shares, unitPrice, fee)
// Response: 201 Created with Transaction
// Error: 400 Bad Request if validation fails or the sell exceeds the held position
// Error: 500 Internal Server Error if creation fails
func (h *TransactionHandler) CreateTransaction(w http.ResponseWriter, r *http.Request) {
	req, err := parseJSON[request.CreateTransactionRequest](r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := validation.ValidateCreateTransaction(req); err != nil {
		response.RespondError(w, http.StatusBadRequest, "validation failed", err.Error())
		return
	}

	transaction, err := h.ledgerService.AddTransaction(r.Context(), req)
	if err != nil {
		if errors.Is(err, apperrors.ErrInsufficientShares) {
			response.RespondError(w, http.StatusBadRequest, apperrors.ErrInsufficientShares.Error(), "")
			return
		}
		response.RespondError(w, http.StatusInternalServerError, "failed to create transaction", err.Error())
		return
	}

	response.RespondJSON(w, http.StatusCreated, transaction)
}

// UpdateFee handles PUT requests to correct the fee on a recorded transaction.
// The fee is the only mutable field of a transaction.
//
// Endpoint: PUT /api/transaction/{uuid}/fee
// Request Body: UpdateFeeRequest (fee)
// Response: 200 OK with updated Transaction
// Error: 400 Bad Request if transaction ID is invalid (validated by middleware) or the fee is negative
// Error: 404 Not Found if transaction not found
// Error: 500 Internal Server Error if the update fails
func (h *TransactionHandler) UpdateFee(w http.ResponseWriter, r *http.Request) {
	transactionID := chi.URLParam(r, "uuid")

	req, err := parseJSON[request.UpdateFeeRequest](r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := validation.ValidateUpdateFee(req); err != nil {
		response.RespondError(w, http.StatusBadRequest, "validation failed", err.Error())
		return
	}

	transaction, err := h.ledgerService.UpdateFee(r.Context(), transactionID, req.Fee)
	if err != nil {
		if errors.Is(err, apperrors.ErrTransactionNotFound) {
			response.RespondError(w, http.StatusNotFound, apperrors.ErrTransactionNotFound.Error(), err.Error())
			return
		}
		if errors.Is(err, apperrors.ErrNegativeFee) {
			response.RespondError(w, http.StatusBadRequest, apperrors.ErrNegativeFee.Error(), "")
			return
		}
		response.RespondError(w, http.StatusInternalServerError, "failed to update fee", err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, transaction)
}

// DeleteTransaction handles DELETE requests to remove a transaction from the log.
// Deleting an id that no longer exists still succeeds, so retries are safe.
//
// Endpoint: DELETE /api/transaction/{uuid}
// Response: 204 No Content
// Error: 400 Bad Request if transaction ID is invalid (validated by middleware)
// Error: 500 Internal Server Error if deletion fails
func (h *TransactionHandler) DeleteTransaction(w http.ResponseWriter, r *http.Request) {
	transactionID := chi.URLParam(r, "uuid")

	if err := h.ledgerService.DeleteTransaction(r.Context(), transactionID); err != nil {
		response.RespondError(w, http.StatusInternalServerError, "failed to delete transaction", err.Error())
		return
	}

	response.RespondJSON(w, http.StatusNoContent, nil)
}
