// Package handlers contains the HTTP layer adapters. Handlers parse and
// validate requests, delegate to services, and translate domain errors to
// HTTP status codes.
package handlers

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
)

// parseJSON decodes a JSON request body into the given request type.
// Unknown fields are rejected so typos surface as 400s instead of being
// silently dropped.
func parseJSON[T any](r *http.Request) (T, error) {
	var req T

	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		return req, fmt.Errorf("invalid JSON body: %w", err)
	}

	return req, nil
}

// respondAttachment writes a file download response. The filename may
// contain non-ASCII characters, so it is sent RFC 5987 encoded.
func respondAttachment(w http.ResponseWriter, contentType, filename string, data []byte) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename*=UTF-8''%s", url.PathEscape(filename)))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(data); err != nil {
		log.Printf("Failed to write attachment: %v", err)
	}
}
