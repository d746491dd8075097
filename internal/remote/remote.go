// Package remote defines the blob-synchronization boundary: the vault travels
// to and from the remote endpoint as one opaque encrypted blob, last write
// wins. The cloud transport itself lives behind the BlobStore interface.
package remote

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/loxvault/lox/internal/model"
	"github.com/loxvault/lox/internal/vault"
)

// BlobStore is the collaborator surface for remote vault storage.
type BlobStore interface {
	// PutBlob uploads the entire encrypted vault.
	PutBlob(ctx context.Context, blob []byte) error
	// GetLatestBlob returns the most recently uploaded vault, or
	// errs.ErrNoRemoteVault when nothing was uploaded yet.
	GetLatestBlob(ctx context.Context) ([]byte, error)
}

// CredentialSource yields the bootstrap credentials required before any
// outbound call. Implemented by creds.Chain.
type CredentialSource interface {
	Retrieve() *model.StoredCredential
}

// Service moves the encrypted vault between the local file and a BlobStore.
// It never sees plaintext: both directions operate on the raw container bytes.
type Service struct {
	file   *vault.File
	store  BlobStore
	creds  CredentialSource
	logger *zap.Logger
}

// NewService constructs a sync service.
func NewService(file *vault.File, store BlobStore, creds CredentialSource, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{file: file, store: store, creds: creds, logger: logger}
}

// Push uploads the local encrypted vault.
func (s *Service) Push(ctx context.Context) error {
	if err := s.checkCredentials(); err != nil {
		return err
	}
	blob, err := s.file.ReadRaw()
	if err != nil {
		return err
	}
	if err := s.store.PutBlob(ctx, blob); err != nil {
		return fmt.Errorf("upload vault: %w", err)
	}
	s.logger.Info("vault pushed", zap.Int("bytes", len(blob)))
	return nil
}

// Pull downloads the latest remote vault and replaces the local file. The
// blob stays encrypted throughout; it is validated on the next load.
func (s *Service) Pull(ctx context.Context) error {
	if err := s.checkCredentials(); err != nil {
		return err
	}
	blob, err := s.store.GetLatestBlob(ctx)
	if err != nil {
		return fmt.Errorf("download vault: %w", err)
	}
	if err := s.file.WriteRaw(blob); err != nil {
		return err
	}
	s.logger.Info("vault pulled", zap.Int("bytes", len(blob)))
	return nil
}

// checkCredentials asks the backend chain for bootstrap credentials before
// any outbound call; the sync endpoint is unreachable without them.
func (s *Service) checkCredentials() error {
	rec := s.creds.Retrieve()
	if rec == nil {
		return errors.New("no sync credentials configured: run setup first")
	}
	if !rec.Complete() {
		return errors.New("stored sync credentials are incomplete: run setup again")
	}
	if rec.Expired(time.Now()) {
		return errors.New("stored sync credentials have expired: run setup again")
	}
	return nil
}
