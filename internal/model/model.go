// Package model defines domain entities shared by the vault and credential layers.
package model

import (
	"time"

	"github.com/gofrs/uuid/v5"
)

// SchemaVersion is the vault JSON schema version written into metadata.
const SchemaVersion = "1.0"

// Credential is a single stored record for a named service.
// Only the password is mandatory; timestamps are maintained by the manager.
type Credential struct {
	Password string    `json:"password"`
	Username string    `json:"username,omitempty"`
	URL      string    `json:"url,omitempty"`
	Notes    string    `json:"notes,omitempty"`
	Created  time.Time `json:"created,omitzero"`
	Updated  time.Time `json:"updated,omitzero"`
}

// Vault is the decrypted, in-memory secret collection. It exists only during a
// session; on disk it lives exclusively as an encrypted blob.
//
// Metadata is an open map so that fields written by other versions survive a
// load/save cycle.
type Vault struct {
	Services map[string]Credential `json:"services"`
	Metadata map[string]any        `json:"metadata"`
}

// NewVault returns an empty vault with fresh metadata.
func NewVault() *Vault {
	now := time.Now().UTC().Format(time.RFC3339)
	md := map[string]any{
		"version": SchemaVersion,
		"created": now,
		"updated": now,
	}
	if id, err := uuid.NewV4(); err == nil {
		md["vault_id"] = id.String()
	}
	return &Vault{
		Services: make(map[string]Credential),
		Metadata: md,
	}
}

// Touch records a modification time in the vault metadata.
func (v *Vault) Touch() {
	if v.Metadata == nil {
		v.Metadata = map[string]any{"version": SchemaVersion}
	}
	v.Metadata["updated"] = time.Now().UTC().Format(time.RFC3339)
}

// BackendID identifies a concrete credential storage backend.
type BackendID string

// Known backends in preference order: most secure first.
const (
	BackendKeyring BackendID = "keyring"
	BackendFile    BackendID = "file"
	BackendEnv     BackendID = "env"
)

// StoredCredential is the bootstrap credential record used to reach the remote
// synchronization endpoint. It is independent of the vault passphrase and is
// persisted by exactly one credential backend at a time; StorageBackend records
// which one, so the record is self-describing across process restarts.
type StoredCredential struct {
	RoleIdentifier string    `json:"role_identifier"`
	AccessKey      string    `json:"access_key"`
	SecretKey      string    `json:"secret_key"`
	Region         string    `json:"region"`
	StorageBackend BackendID `json:"storage_backend,omitempty"`
	Expiry         time.Time `json:"expiry,omitzero"`
}

// Complete reports whether the record carries everything the sync layer needs.
func (c *StoredCredential) Complete() bool {
	return c.RoleIdentifier != "" && c.AccessKey != "" && c.SecretKey != "" && c.Region != ""
}

// Expired reports whether the record's expiry has passed. Records without an
// expiry never expire.
func (c *StoredCredential) Expired(now time.Time) bool {
	return !c.Expiry.IsZero() && now.After(c.Expiry)
}
