package creds

import (
	"go.uber.org/zap"

	"github.com/loxvault/lox/internal/config"
	"github.com/loxvault/lox/internal/errs"
	"github.com/loxvault/lox/internal/model"
)

// Chain orchestrates credential backends in fixed preference order, most
// secure first. It remembers which backend last held the authoritative record
// ("sticky affinity") so retrieval does not re-probe weaker tiers on every
// call; the affinity also self-heals across process restarts from the
// storage_backend field embedded in the record.
type Chain struct {
	backends []Backend
	used     Backend
	logger   *zap.Logger
}

// NewChain constructs a chain over the given backends, tried in argument order.
func NewChain(logger *zap.Logger, backends ...Backend) *Chain {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Chain{backends: backends, logger: logger}
}

// DefaultChain builds the standard preference order:
// OS secret store, then permissioned file, then process environment.
func DefaultChain(logger *zap.Logger) *Chain {
	return NewChain(logger,
		NewKeyringBackend(logger),
		NewFileBackend(config.CredentialsPath(), logger),
		NewEnvBackend(logger),
	)
}

// UsedBackend reports the current affinity, or "" when unset.
func (c *Chain) UsedBackend() model.BackendID {
	if c.used == nil {
		return ""
	}
	return c.used.ID()
}

// Store persists the record in the first backend that accepts it, stamps the
// record with that backend's identifier and re-stores it so the persisted copy
// is self-describing. Only total exhaustion of the chain is an error.
func (c *Chain) Store(rec *model.StoredCredential) error {
	for _, b := range c.backends {
		if !b.Store(rec) {
			c.logger.Warn("credential storage failed, trying next backend",
				zap.String("backend", string(b.ID())))
			continue
		}
		rec.StorageBackend = b.ID()
		if !b.Store(rec) {
			c.logger.Warn("re-store of stamped record failed",
				zap.String("backend", string(b.ID())))
		}
		c.used = b
		c.logger.Info("credentials stored", zap.String("backend", string(b.ID())))
		return nil
	}
	c.used = nil
	return errs.ErrCredentialStorage
}

// Retrieve returns the stored record, trying the sticky backend first and
// falling back to a full probe in preference order. A nil result means "not
// configured yet", an expected state rather than an error.
func (c *Chain) Retrieve() *model.StoredCredential {
	if c.used != nil {
		if rec := c.used.Retrieve(); rec != nil {
			return c.adopt(rec, c.used)
		}
	}
	for _, b := range c.backends {
		if rec := b.Retrieve(); rec != nil {
			return c.adopt(rec, b)
		}
	}
	return nil
}

// Clear removes the record from every backend regardless of affinity: an
// earlier, differently-configured run may have left copies behind. One
// backend's failure must not stop the others; the result is the AND of all
// outcomes. The affinity is always reset.
func (c *Chain) Clear() bool {
	ok := true
	for _, b := range c.backends {
		if !b.Delete() {
			c.logger.Warn("credential delete failed",
				zap.String("backend", string(b.ID())))
			ok = false
		}
	}
	c.used = nil
	return ok
}

// adopt updates the affinity from the record's embedded backend identifier
// when it names a known backend, otherwise from the backend the record was
// actually read from.
func (c *Chain) adopt(rec *model.StoredCredential, source Backend) *model.StoredCredential {
	c.used = source
	if rec.StorageBackend != "" {
		for _, b := range c.backends {
			if b.ID() == rec.StorageBackend {
				c.used = b
				break
			}
		}
	}
	return rec
}
