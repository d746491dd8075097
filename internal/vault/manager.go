package vault

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/loxvault/lox/internal/errs"
	"github.com/loxvault/lox/internal/model"
)

// Manager implements CRUD over the decrypted secret collection and the
// load-mutate-save flows around it. Read misses are expected and reported via
// a boolean; write collisions are contract violations and reported via typed
// errors.
type Manager struct {
	file   *File
	logger *zap.Logger
}

// NewManager constructs a Manager over the given vault file.
func NewManager(file *File, logger *zap.Logger) *Manager {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Manager{file: file, logger: logger}
}

// File exposes the underlying vault file for raw sync operations.
func (m *Manager) File() *File { return m.file }

// Add inserts a new credential. Duplicate names are rejected, never
// overwritten.
func (m *Manager) Add(v *model.Vault, name string, cred model.Credential) error {
	if name == "" {
		return errors.New("validation: empty service name")
	}
	if _, ok := v.Services[name]; ok {
		return fmt.Errorf("service %q %w in vault", name, errs.ErrAlreadyExists)
	}
	now := time.Now().UTC()
	if cred.Created.IsZero() {
		cred.Created = now
	}
	cred.Updated = now
	v.Services[name] = cred
	v.Touch()
	return nil
}

// Update replaces an existing credential, preserving its creation time.
func (m *Manager) Update(v *model.Vault, name string, cred model.Credential) error {
	if name == "" {
		return errors.New("validation: empty service name")
	}
	old, ok := v.Services[name]
	if !ok {
		return fmt.Errorf("service %q %w in vault", name, errs.ErrNotFound)
	}
	cred.Created = old.Created
	cred.Updated = time.Now().UTC()
	v.Services[name] = cred
	v.Touch()
	return nil
}

// Delete removes a credential and reports whether one existed. Deleting an
// absent name is not an error.
func (m *Manager) Delete(v *model.Vault, name string) bool {
	if _, ok := v.Services[name]; !ok {
		return false
	}
	delete(v.Services, name)
	v.Touch()
	return true
}

// Names returns all service names, sorted for deterministic output. The order
// carries no meaning; consumers must treat the result as a set.
func (m *Manager) Names(v *model.Vault) []string {
	names := make([]string, 0, len(v.Services))
	for name := range v.Services {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Get returns the credential for a service, reporting absence via ok.
func (m *Manager) Get(v *model.Vault, name string) (model.Credential, bool) {
	cred, ok := v.Services[name]
	return cred, ok
}

// Password returns the stored password for a service, reporting absence via
// ok rather than an error.
func (m *Manager) Password(v *model.Vault, name string) (string, bool) {
	cred, ok := v.Services[name]
	if !ok {
		return "", false
	}
	return cred.Password, true
}

// Init creates a new empty vault; false means one already exists.
func (m *Manager) Init(passphrase string) (bool, error) {
	return m.file.Init(passphrase)
}

// Load decrypts the vault from disk.
func (m *Manager) Load(passphrase string) (*model.Vault, error) {
	return m.file.Load(passphrase)
}

// Save encrypts and persists the vault.
func (m *Manager) Save(v *model.Vault, passphrase string) error {
	return m.file.Save(v, passphrase)
}

// AddEntry loads the vault, adds a credential and saves.
func (m *Manager) AddEntry(passphrase, name string, cred model.Credential) error {
	v, err := m.file.Load(passphrase)
	if err != nil {
		return err
	}
	if err := m.Add(v, name, cred); err != nil {
		return err
	}
	return m.file.Save(v, passphrase)
}

// UpdateEntry loads the vault, replaces a credential and saves.
func (m *Manager) UpdateEntry(passphrase, name string, cred model.Credential) error {
	v, err := m.file.Load(passphrase)
	if err != nil {
		return err
	}
	if err := m.Update(v, name, cred); err != nil {
		return err
	}
	return m.file.Save(v, passphrase)
}

// DeleteEntry loads the vault, removes a credential and saves when something
// was removed.
func (m *Manager) DeleteEntry(passphrase, name string) (bool, error) {
	v, err := m.file.Load(passphrase)
	if err != nil {
		return false, err
	}
	if !m.Delete(v, name) {
		return false, nil
	}
	if err := m.file.Save(v, passphrase); err != nil {
		return false, err
	}
	return true, nil
}

// ListNames loads the vault and returns its sorted service names.
func (m *Manager) ListNames(passphrase string) ([]string, error) {
	v, err := m.file.Load(passphrase)
	if err != nil {
		return nil, err
	}
	return m.Names(v), nil
}

// GetPassword loads the vault and returns the password for a service.
func (m *Manager) GetPassword(passphrase, name string) (string, bool, error) {
	v, err := m.file.Load(passphrase)
	if err != nil {
		return "", false, err
	}
	pw, ok := m.Password(v, name)
	return pw, ok, nil
}
