package handlers

import (
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/fundrecords/fund-records-backend/internal/api/response"
	"github.com/fundrecords/fund-records-backend/internal/apperrors"
	"github.com/fundrecords/fund-records-backend/internal/service"
	"github.com/fundrecords/fund-records-backend/internal/transfer"
)

const (
	// maxImportSize caps import uploads at 32 MiB.
	maxImportSize = 32 << 20

	xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// DataHandler handles HTTP requests for local import and export of the full
// dataset, as JSON bundles or xlsx workbooks.
type DataHandler struct {
	ledgerService *service.LedgerService
}

// NewDataHandler creates a new DataHandler with the provided service dependency.
func NewDataHandler(ledgerService *service.LedgerService) *DataHandler {
	return &DataHandler{
		ledgerService: ledgerService,
	}
}

// ExportJSON handles GET requests to download the full dataset as a JSON bundle.
//
// Endpoint: GET /api/data/export
// Response: 200 OK, application/json attachment
// Error: 500 Internal Server Error if encoding fails
func (h *DataHandler) ExportJSON(w http.ResponseWriter, _ *http.Request) {
	payload, err := transfer.EncodeBundle(h.ledgerService.ExportBundle())
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToExportData.Error(), err.Error())
		return
	}

	respondAttachment(w, "application/json", transfer.ExportFilename(time.Now()), payload)
}

// ImportJSON handles POST requests to replace the dataset from a JSON bundle.
// The payload is validated in full before anything is replaced; a rejected
// bundle leaves existing data untouched.
//
// Endpoint: POST /api/data/import
// Request Body: JSON bundle, raw or as a multipart "file" part
// Response: 200 OK with {"imported": <transaction count>}
// Error: 400 Bad Request if the payload is not a valid bundle
// Error: 500 Internal Server Error if persistence fails
func (h *DataHandler) ImportJSON(w http.ResponseWriter, r *http.Request) {
	payload, err := readImportPayload(r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "failed to read upload", err.Error())
		return
	}

	bundle, err := transfer.DecodeBundle(payload)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, apperrors.ErrFailedToImportData.Error(), err.Error())
		return
	}

	if err := h.ledgerService.ImportBundle(r.Context(), bundle); err != nil {
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToImportData.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, map[string]int{"imported": len(bundle.Transactions)})
}

// ExportWorkbook handles GET requests to download the full dataset as an
// xlsx workbook with transaction, holdings, summary and price sheets.
//
// Endpoint: GET /api/data/export/xlsx
// Response: 200 OK, xlsx attachment
// Error: 500 Internal Server Error if encoding fails
func (h *DataHandler) ExportWorkbook(w http.ResponseWriter, _ *http.Request) {
	payload, err := transfer.EncodeWorkbook(h.ledgerService.ExportBundle())
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToExportData.Error(), err.Error())
		return
	}

	respondAttachment(w, xlsxContentType, transfer.ExportWorkbookFilename(time.Now()), payload)
}

// ImportWorkbook handles POST requests to replace the dataset from an xlsx
// workbook. Only the transaction sheet and the optional price sheet are
// consumed; holdings and summary are recomputed.
//
// Endpoint: POST /api/data/import/xlsx
// Request Body: xlsx file, raw or as a multipart "file" part
// Response: 200 OK with {"imported": <transaction count>}
// Error: 400 Bad Request if the workbook is missing or malformed
// Error: 500 Internal Server Error if persistence fails
func (h *DataHandler) ImportWorkbook(w http.ResponseWriter, r *http.Request) {
	payload, err := readImportPayload(r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "failed to read upload", err.Error())
		return
	}

	bundle, err := transfer.DecodeWorkbook(payload)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, apperrors.ErrFailedToImportData.Error(), err.Error())
		return
	}

	if err := h.ledgerService.ImportBundle(r.Context(), bundle); err != nil {
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToImportData.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, map[string]int{"imported": len(bundle.Transactions)})
}

// Reset handles POST requests to clear all transactions, overrides and
// derived state.
//
// Endpoint: POST /api/data/reset
// Response: 204 No Content
// Error: 500 Internal Server Error if persistence fails
func (h *DataHandler) Reset(w http.ResponseWriter, r *http.Request) {
	if err := h.ledgerService.Reset(r.Context()); err != nil {
		response.RespondError(w, http.StatusInternalServerError, "failed to reset data", err.Error())
		return
	}

	response.RespondJSON(w, http.StatusNoContent, nil)
}

// readImportPayload reads an upload either from a multipart "file" part or
// from the raw request body.
func readImportPayload(r *http.Request) ([]byte, error) {
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		if err := r.ParseMultipartForm(maxImportSize); err != nil {
			return nil, err
		}
		file, _, err := r.FormFile("file")
		if err != nil {
			return nil, err
		}
		defer file.Close()
		return io.ReadAll(io.LimitReader(file, maxImportSize))
	}

	return io.ReadAll(io.LimitReader(r.Body, maxImportSize))
}
