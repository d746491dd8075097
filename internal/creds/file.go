package creds

import (
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/loxvault/lox/internal/model"
)

// FileBackend serializes the record as JSON under the per-user configuration
// directory with owner-only permissions.
type FileBackend struct {
	path   string
	logger *zap.Logger
}

// NewFileBackend constructs a file backend writing to path.
func NewFileBackend(path string, logger *zap.Logger) *FileBackend {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FileBackend{path: path, logger: logger}
}

func (b *FileBackend) ID() model.BackendID { return model.BackendFile }

func (b *FileBackend) Store(rec *model.StoredCredential) bool {
	data, err := encodeRecord(rec)
	if err != nil {
		b.logger.Warn("encode credential record", zap.Error(err))
		return false
	}
	if err := os.MkdirAll(filepath.Dir(b.path), 0o700); err != nil {
		b.logger.Debug("credential file storage failed", zap.Error(err))
		return false
	}
	if err := os.WriteFile(b.path, data, 0o600); err != nil {
		b.logger.Debug("credential file storage failed", zap.Error(err))
		return false
	}
	// WriteFile keeps pre-existing permissions; enforce owner-only.
	if err := os.Chmod(b.path, 0o600); err != nil {
		b.logger.Debug("credential file chmod failed", zap.Error(err))
		return false
	}
	return true
}

func (b *FileBackend) Retrieve() *model.StoredCredential {
	data, err := os.ReadFile(b.path)
	if err != nil {
		if !os.IsNotExist(err) {
			b.logger.Debug("credential file retrieval failed", zap.Error(err))
		}
		return nil
	}
	return decodeRecord(data, b.logger)
}

func (b *FileBackend) Delete() bool {
	if err := os.Remove(b.path); err != nil && !os.IsNotExist(err) {
		b.logger.Debug("credential file delete failed", zap.Error(err))
		return false
	}
	return true
}
