// Package docstore implements the client for the remote JSON-document
// store used for cloud backup. The API is a generic bin service: documents
// are created with POST, replaced with PUT, read with GET .../latest, and
// probed with HEAD. Authentication is a single master key sent as the
// X-Master-Key header and nowhere else.
package docstore

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-resty/resty/v2"

	"github.com/fundrecords/fund-records-backend/internal/apperrors"
)

// Client talks to the document store. Calls are strictly sequential from
// the caller's perspective; the client adds no retries and no timeouts
// beyond the transport's defaults.
type Client struct {
	client *resty.Client
}

// NewClient creates a document-store client for the given base URL
// (e.g. https://api.jsonbin.io/v3).
func NewClient(baseURL string) *Client {
	client := resty.New().
		SetBaseURL(baseURL).
		SetHeader("Content-Type", "application/json")
	return &Client{client: client}
}

// createResponse is the metadata envelope returned on document creation.
type createResponse struct {
	Metadata struct {
		ID string `json:"id"`
	} `json:"metadata"`
}

// readResponse wraps a stored document: the service nests the payload
// under "record" alongside its own metadata.
type readResponse struct {
	Record json.RawMessage `json:"record"`
}

// Exists probes whether the document is present (HEAD by id).
func (c *Client) Exists(ctx context.Context, apiKey, documentID string) (bool, error) {
	resp, err := c.client.R().
		SetContext(ctx).
		SetHeader("X-Master-Key", apiKey).
		Head("/b/" + documentID)
	if err != nil {
		return false, fmt.Errorf("failed to probe remote document: %w", err)
	}

	switch resp.StatusCode() {
	case http.StatusOK:
		return true, nil
	case http.StatusNotFound:
		return false, nil
	default:
		return false, fmt.Errorf("remote document probe returned status %d", resp.StatusCode())
	}
}

// Create stores a new document under the given name and returns the
// server-assigned document id.
func (c *Client) Create(ctx context.Context, apiKey, name string, payload []byte) (string, error) {
	resp, err := c.client.R().
		SetContext(ctx).
		SetHeader("X-Master-Key", apiKey).
		SetHeader("X-Bin-Name", name).
		SetBody(payload).
		Post("/b")
	if err != nil {
		return "", fmt.Errorf("failed to create remote document: %w", err)
	}
	if resp.IsError() {
		return "", fmt.Errorf("remote document creation returned status %d", resp.StatusCode())
	}

	var created createResponse
	if err := json.Unmarshal(resp.Body(), &created); err != nil {
		return "", fmt.Errorf("failed to decode creation response: %w", err)
	}
	if created.Metadata.ID == "" {
		return "", fmt.Errorf("remote document creation returned no id")
	}

	return created.Metadata.ID, nil
}

// Replace overwrites the document by id. The remote store keeps no
// versions the client cares about; last writer wins.
func (c *Client) Replace(ctx context.Context, apiKey, documentID string, payload []byte) error {
	resp, err := c.client.R().
		SetContext(ctx).
		SetHeader("X-Master-Key", apiKey).
		SetBody(payload).
		Put("/b/" + documentID)
	if err != nil {
		return fmt.Errorf("failed to replace remote document: %w", err)
	}
	if resp.StatusCode() == http.StatusNotFound {
		return apperrors.ErrRemoteDocumentNotFound
	}
	if resp.IsError() {
		return fmt.Errorf("remote document replacement returned status %d", resp.StatusCode())
	}

	return nil
}

// ReadLatest fetches the latest version of the document and returns the
// raw payload.
func (c *Client) ReadLatest(ctx context.Context, apiKey, documentID string) ([]byte, error) {
	resp, err := c.client.R().
		SetContext(ctx).
		SetHeader("X-Master-Key", apiKey).
		Get("/b/" + documentID + "/latest")
	if err != nil {
		return nil, fmt.Errorf("failed to read remote document: %w", err)
	}
	if resp.StatusCode() == http.StatusNotFound {
		return nil, apperrors.ErrRemoteDocumentNotFound
	}
	if resp.IsError() {
		return nil, fmt.Errorf("remote document read returned status %d", resp.StatusCode())
	}

	var wrapped readResponse
	if err := json.Unmarshal(resp.Body(), &wrapped); err != nil {
		return nil, fmt.Errorf("failed to decode document envelope: %w", err)
	}
	if len(wrapped.Record) == 0 {
		return nil, apperrors.ErrRemoteDocumentNotFound
	}

	return wrapped.Record, nil
}
