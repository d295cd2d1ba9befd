package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/fundrecords/fund-records-backend/internal/apperrors"
)

// SyncConfig is the persisted remote sync state: the encrypted API
// credential and, once known, the server-assigned document id.
type SyncConfig struct {
	APIKeyEncrypted string
	DocumentID      string
}

// SyncConfigRepository provides data access methods for the single-row
// sync_config table.
type SyncConfigRepository struct {
	db *sql.DB
}

// NewSyncConfigRepository creates a new SyncConfigRepository with the provided database connection.
func NewSyncConfigRepository(db *sql.DB) *SyncConfigRepository {
	return &SyncConfigRepository{db: db}
}

// Get returns the stored sync configuration, or ErrSyncNotConfigured if
// none has been saved.
func (r *SyncConfigRepository) Get(ctx context.Context) (SyncConfig, error) {
	var cfg SyncConfig
	var documentID sql.NullString

	err := r.db.QueryRowContext(ctx,
		`SELECT api_key_enc, document_id FROM sync_config WHERE id = 1`,
	).Scan(&cfg.APIKeyEncrypted, &documentID)
	if errors.Is(err, sql.ErrNoRows) {
		return SyncConfig{}, apperrors.ErrSyncNotConfigured
	}
	if err != nil {
		return SyncConfig{}, fmt.Errorf("failed to query sync_config table: %w", err)
	}

	if documentID.Valid {
		cfg.DocumentID = documentID.String
	}

	return cfg, nil
}

// Save stores the encrypted credential, replacing any previous configuration.
// The document id is preserved only if explicitly provided.
func (r *SyncConfigRepository) Save(ctx context.Context, cfg SyncConfig) error {
	query := `
		INSERT INTO sync_config (id, api_key_enc, document_id, updated_at)
		VALUES (1, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(id) DO UPDATE SET
			api_key_enc = excluded.api_key_enc,
			document_id = excluded.document_id,
			updated_at = CURRENT_TIMESTAMP
	`
	documentID := sql.NullString{String: cfg.DocumentID, Valid: cfg.DocumentID != ""}
	if _, err := r.db.ExecContext(ctx, query, cfg.APIKeyEncrypted, documentID); err != nil {
		return fmt.Errorf("failed to save sync config: %w", err)
	}
	return nil
}

// UpdateDocumentID records the server-assigned document id after the first
// successful upload.
func (r *SyncConfigRepository) UpdateDocumentID(ctx context.Context, documentID string) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE sync_config SET document_id = ?, updated_at = CURRENT_TIMESTAMP WHERE id = 1`,
		documentID,
	)
	if err != nil {
		return fmt.Errorf("failed to update sync document id: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if affected == 0 {
		return apperrors.ErrSyncNotConfigured
	}

	return nil
}

// Delete removes the stored configuration. Deleting a missing row is a no-op.
func (r *SyncConfigRepository) Delete(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM sync_config WHERE id = 1`); err != nil {
		return fmt.Errorf("failed to delete sync config: %w", err)
	}
	return nil
}
