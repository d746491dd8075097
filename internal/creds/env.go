package creds

import (
	"os"

	"go.uber.org/zap"

	"github.com/loxvault/lox/internal/model"
)

// envVar holds the JSON-encoded record in the process environment.
const envVar = "LOX_CREDENTIALS"

// EnvBackend keeps the record in a process-scoped environment variable. It is
// the least durable tier, used only when no persistent secure backend is
// available; the record does not survive the process.
type EnvBackend struct {
	logger *zap.Logger
}

// NewEnvBackend constructs the environment-variable backend.
func NewEnvBackend(logger *zap.Logger) *EnvBackend {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EnvBackend{logger: logger}
}

func (b *EnvBackend) ID() model.BackendID { return model.BackendEnv }

func (b *EnvBackend) Store(rec *model.StoredCredential) bool {
	data, err := encodeRecord(rec)
	if err != nil {
		b.logger.Warn("encode credential record", zap.Error(err))
		return false
	}
	if err := os.Setenv(envVar, string(data)); err != nil {
		b.logger.Debug("env storage failed", zap.Error(err))
		return false
	}
	return true
}

func (b *EnvBackend) Retrieve() *model.StoredCredential {
	data := os.Getenv(envVar)
	if data == "" {
		return nil
	}
	return decodeRecord([]byte(data), b.logger)
}

func (b *EnvBackend) Delete() bool {
	if err := os.Unsetenv(envVar); err != nil {
		b.logger.Debug("env delete failed", zap.Error(err))
		return false
	}
	return true
}
