package handlers

import (
	"errors"
	"net/http"

	"github.com/fundrecords/fund-records-backend/internal/api/request"
	"github.com/fundrecords/fund-records-backend/internal/api/response"
	"github.com/fundrecords/fund-records-backend/internal/apperrors"
	"github.com/fundrecords/fund-records-backend/internal/service"
	"github.com/fundrecords/fund-records-backend/internal/validation"
)

// SyncHandler handles HTTP requests for the remote document-store backup:
// credential management plus manual upload and download.
type SyncHandler struct {
	syncService *service.SyncService
}

// NewSyncHandler creates a new SyncHandler with the provided service dependency.
func NewSyncHandler(syncService *service.SyncService) *SyncHandler {
	return &SyncHandler{
		syncService: syncService,
	}
}

// Configure handles POST requests to store the remote store credential.
// The key is encrypted before it is persisted and is never echoed back.
//
// Endpoint: POST /api/sync/config
// Request Body: ConfigureSyncRequest (apiKey)
// Response: 204 No Content
// Error: 400 Bad Request if the key is empty
// Error: 500 Internal Server Error if persistence fails
func (h *SyncHandler) Configure(w http.ResponseWriter, r *http.Request) {
	req, err := parseJSON[request.ConfigureSyncRequest](r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := validation.ValidateConfigureSync(req); err != nil {
		response.RespondError(w, http.StatusBadRequest, "validation failed", err.Error())
		return
	}

	if err := h.syncService.Configure(r.Context(), req.APIKey); err != nil {
		response.RespondError(w, http.StatusInternalServerError, "failed to store sync configuration", err.Error())
		return
	}

	response.RespondJSON(w, http.StatusNoContent, nil)
}

// Status handles GET requests to report whether sync is configured.
//
// Endpoint: GET /api/sync/config
// Response: 200 OK with SyncStatus
// Error: 500 Internal Server Error if the lookup fails
func (h *SyncHandler) Status(w http.ResponseWriter, r *http.Request) {
	status, err := h.syncService.Status(r.Context())
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, "failed to read sync configuration", err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, status)
}

// ClearConfig handles DELETE requests to remove the stored credential and
// document id. Local data is unaffected.
//
// Endpoint: DELETE /api/sync/config
// Response: 204 No Content
// Error: 500 Internal Server Error if deletion fails
func (h *SyncHandler) ClearConfig(w http.ResponseWriter, r *http.Request) {
	if err := h.syncService.ClearConfig(r.Context()); err != nil {
		response.RespondError(w, http.StatusInternalServerError, "failed to clear sync configuration", err.Error())
		return
	}

	response.RespondJSON(w, http.StatusNoContent, nil)
}

// Upload handles POST requests to push the current dataset to the remote store.
//
// Endpoint: POST /api/sync/upload
// Response: 204 No Content
// Error: 400 Bad Request if sync is not configured
// Error: 502 Bad Gateway if the remote store rejects the upload
func (h *SyncHandler) Upload(w http.ResponseWriter, r *http.Request) {
	if err := h.syncService.Upload(r.Context()); err != nil {
		respondSyncError(w, err, "failed to upload data")
		return
	}

	response.RespondJSON(w, http.StatusNoContent, nil)
}

// Download handles POST requests to fetch the remote dataset and replace
// local data with it. A failed download leaves local data untouched.
//
// Endpoint: POST /api/sync/download
// Response: 200 OK with {"status": "imported"}
// Error: 400 Bad Request if sync is not configured
// Error: 404 Not Found if no remote document exists yet
// Error: 502 Bad Gateway if the remote store cannot be read
func (h *SyncHandler) Download(w http.ResponseWriter, r *http.Request) {
	if err := h.syncService.Download(r.Context()); err != nil {
		respondSyncError(w, err, "failed to download data")
		return
	}

	response.RespondJSON(w, http.StatusOK, map[string]string{"status": "imported"})
}

// respondSyncError maps sync failures onto HTTP status codes.
func respondSyncError(w http.ResponseWriter, err error, fallback string) {
	switch {
	case errors.Is(err, apperrors.ErrSyncNotConfigured):
		response.RespondError(w, http.StatusBadRequest, apperrors.ErrSyncNotConfigured.Error(), "")
	case errors.Is(err, apperrors.ErrRemoteDocumentNotFound):
		response.RespondError(w, http.StatusNotFound, apperrors.ErrRemoteDocumentNotFound.Error(), "")
	case errors.Is(err, apperrors.ErrSyncUploadFailed), errors.Is(err, apperrors.ErrSyncDownloadFailed):
		response.RespondError(w, http.StatusBadGateway, fallback, err.Error())
	default:
		response.RespondError(w, http.StatusInternalServerError, fallback, err.Error())
	}
}
