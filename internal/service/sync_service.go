package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/fernet/fernet-go"

	"github.com/fundrecords/fund-records-backend/internal/apperrors"
	"github.com/fundrecords/fund-records-backend/internal/docstore"
	"github.com/fundrecords/fund-records-backend/internal/repository"
	"github.com/fundrecords/fund-records-backend/internal/transfer"
)

// SyncService implements cloud backup against the remote document store.
// Uploads push the exported bundle; downloads funnel through the ledger's
// import operation, so a failed or malformed download never touches local
// state. Nothing is retried automatically.
type SyncService struct {
	ledgerService  *LedgerService
	syncConfigRepo *repository.SyncConfigRepository
	client         *docstore.Client
	secretKey      *fernet.Key
}

// NewSyncService creates a new SyncService with the provided dependencies.
func NewSyncService(
	ledgerService *LedgerService,
	syncConfigRepo *repository.SyncConfigRepository,
	client *docstore.Client,
	secretKey *fernet.Key,
) *SyncService {
	return &SyncService{
		ledgerService:  ledgerService,
		syncConfigRepo: syncConfigRepo,
		client:         client,
		secretKey:      secretKey,
	}
}

// SyncStatus describes the stored sync configuration.
type SyncStatus struct {
	Configured  bool `json:"configured"`
	HasDocument bool `json:"hasDocument"`
}

// Configure stores a new master key (encrypted at rest). Any previously
// known document id is dropped: a different credential derives a different
// document name, so the old id no longer applies.
func (s *SyncService) Configure(ctx context.Context, apiKey string) error {
	sealed, err := docstore.SealCredential(s.secretKey, apiKey)
	if err != nil {
		return err
	}

	return s.syncConfigRepo.Save(ctx, repository.SyncConfig{APIKeyEncrypted: sealed})
}

// Status reports whether sync is configured and whether a remote document
// id is known.
func (s *SyncService) Status(ctx context.Context) (SyncStatus, error) {
	cfg, err := s.syncConfigRepo.Get(ctx)
	if errors.Is(err, apperrors.ErrSyncNotConfigured) {
		return SyncStatus{}, nil
	}
	if err != nil {
		return SyncStatus{}, err
	}

	return SyncStatus{Configured: true, HasDocument: cfg.DocumentID != ""}, nil
}

// ClearConfig removes the stored credential and document id.
func (s *SyncService) ClearConfig(ctx context.Context) error {
	return s.syncConfigRepo.Delete(ctx)
}

// Upload pushes the current dataset to the remote store. On first upload
// the document is created under a name derived from the credential and the
// server-assigned id is persisted; later uploads replace by id. If the
// remote document disappeared, a fresh one is created.
func (s *SyncService) Upload(ctx context.Context) error {
	cfg, apiKey, err := s.credential(ctx)
	if err != nil {
		return err
	}

	payload, err := transfer.EncodeBundle(s.ledgerService.ExportBundle())
	if err != nil {
		return err
	}

	if cfg.DocumentID == "" {
		return s.createDocument(ctx, apiKey, payload)
	}

	err = s.client.Replace(ctx, apiKey, cfg.DocumentID, payload)
	if errors.Is(err, apperrors.ErrRemoteDocumentNotFound) {
		return s.createDocument(ctx, apiKey, payload)
	}
	if err != nil {
		return fmt.Errorf("%w: %v", apperrors.ErrSyncUploadFailed, err)
	}

	return nil
}

func (s *SyncService) createDocument(ctx context.Context, apiKey string, payload []byte) error {
	documentID, err := s.client.Create(ctx, apiKey, docstore.DeriveDocumentName(apiKey), payload)
	if err != nil {
		return fmt.Errorf("%w: %v", apperrors.ErrSyncUploadFailed, err)
	}

	if err := s.syncConfigRepo.UpdateDocumentID(ctx, documentID); err != nil {
		return err
	}

	return nil
}

// Download fetches the remote dataset and imports it wholesale. The import
// path validates the payload and recomputes holdings, so remote derived
// state is never trusted.
func (s *SyncService) Download(ctx context.Context) error {
	cfg, apiKey, err := s.credential(ctx)
	if err != nil {
		return err
	}

	if cfg.DocumentID == "" {
		return apperrors.ErrRemoteDocumentNotFound
	}

	payload, err := s.client.ReadLatest(ctx, apiKey, cfg.DocumentID)
	if err != nil {
		if errors.Is(err, apperrors.ErrRemoteDocumentNotFound) {
			return err
		}
		return fmt.Errorf("%w: %v", apperrors.ErrSyncDownloadFailed, err)
	}

	bundle, err := transfer.DecodeBundle(payload)
	if err != nil {
		return fmt.Errorf("%w: %v", apperrors.ErrSyncDownloadFailed, err)
	}

	return s.ledgerService.ImportBundle(ctx, bundle)
}

// credential loads the stored config and decrypts the API key.
func (s *SyncService) credential(ctx context.Context) (repository.SyncConfig, string, error) {
	cfg, err := s.syncConfigRepo.Get(ctx)
	if err != nil {
		return repository.SyncConfig{}, "", err
	}

	apiKey, err := docstore.OpenCredential(s.secretKey, cfg.APIKeyEncrypted)
	if err != nil {
		return repository.SyncConfig{}, "", err
	}

	return cfg, apiKey, nil
}
