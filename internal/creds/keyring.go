package creds

import (
	"errors"

	"github.com/zalando/go-keyring"
	"go.uber.org/zap"

	"github.com/loxvault/lox/internal/model"
)

// keyringService is the fixed service identifier under which the record is
// stored in the platform secret store.
const keyringService = "lox-credentials"

// KeyringBackend stores the record in the platform's native secret facility
// (Keychain, libsecret, Credential Manager), keyed by service and OS user.
// Hosts without such a facility (headless servers, containers) simply report
// failure and the chain falls through.
type KeyringBackend struct {
	service string
	logger  *zap.Logger
}

// NewKeyringBackend constructs the OS secret-store backend.
func NewKeyringBackend(logger *zap.Logger) *KeyringBackend {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &KeyringBackend{service: keyringService, logger: logger}
}

func (b *KeyringBackend) ID() model.BackendID { return model.BackendKeyring }

func (b *KeyringBackend) Store(rec *model.StoredCredential) bool {
	data, err := encodeRecord(rec)
	if err != nil {
		b.logger.Warn("encode credential record", zap.Error(err))
		return false
	}
	if err := keyring.Set(b.service, currentUsername(), string(data)); err != nil {
		b.logger.Debug("keyring storage failed", zap.Error(err))
		return false
	}
	return true
}

func (b *KeyringBackend) Retrieve() *model.StoredCredential {
	data, err := keyring.Get(b.service, currentUsername())
	if err != nil {
		if !errors.Is(err, keyring.ErrNotFound) {
			b.logger.Debug("keyring retrieval failed", zap.Error(err))
		}
		return nil
	}
	return decodeRecord([]byte(data), b.logger)
}

func (b *KeyringBackend) Delete() bool {
	err := keyring.Delete(b.service, currentUsername())
	if err != nil && !errors.Is(err, keyring.ErrNotFound) {
		b.logger.Debug("keyring delete failed", zap.Error(err))
		return false
	}
	return true
}
