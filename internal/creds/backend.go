// Package creds persists bootstrap credentials across an ordered chain of
// storage backends, preferring the strongest facility available on the host.
package creds

import (
	"encoding/json"
	"os"
	"os/user"

	"go.uber.org/zap"

	"github.com/loxvault/lox/internal/model"
)

// Backend persists and retrieves one structured credential record. Backend
// failures are expected states, not errors: an unavailable facility reports
// false/nil so the chain can fall through to the next tier.
type Backend interface {
	// ID identifies the backend in preference listings and stored records.
	ID() model.BackendID
	// Store persists the record; false means this backend cannot hold it.
	Store(rec *model.StoredCredential) bool
	// Retrieve returns the stored record, or nil when none is readable.
	Retrieve() *model.StoredCredential
	// Delete removes any stored record; deleting nothing succeeds.
	Delete() bool
}

// encodeRecord serializes a credential record for backend storage.
func encodeRecord(rec *model.StoredCredential) ([]byte, error) {
	return json.Marshal(rec)
}

// decodeRecord parses a backend-persisted record, migrating the legacy
// role_arn key to role_identifier. Records from a different schema are
// skipped: the anomaly is logged and nil returned, never an error.
func decodeRecord(data []byte, logger *zap.Logger) *model.StoredCredential {
	var rec model.StoredCredential
	if err := json.Unmarshal(data, &rec); err != nil {
		logger.Warn("unparseable credential record", zap.Error(err))
		return nil
	}
	if rec.RoleIdentifier == "" {
		var legacy struct {
			RoleARN string `json:"role_arn"`
		}
		if err := json.Unmarshal(data, &legacy); err == nil && legacy.RoleARN != "" {
			rec.RoleIdentifier = legacy.RoleARN
		}
	}
	if rec.RoleIdentifier == "" {
		logger.Warn("credential record in unknown format, skipping")
		return nil
	}
	return &rec
}

// currentUsername keys OS secret-store entries to the invoking user.
func currentUsername() string {
	if u, err := user.Current(); err == nil && u.Username != "" {
		return u.Username
	}
	return os.Getenv("USER")
}
