// Package config resolves on-disk locations for the vault and credential files.
package config

import (
	"os"
	"path/filepath"
)

const appDir = "lox"

// Dir returns the per-user configuration directory.
// Precedence: LOX_CONFIG_DIR, then XDG_CONFIG_HOME, then ~/.config.
func Dir() string {
	if v := os.Getenv("LOX_CONFIG_DIR"); v != "" {
		return v
	}
	if v := os.Getenv("XDG_CONFIG_HOME"); v != "" {
		return filepath.Join(v, appDir)
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", appDir)
}

// VaultPath returns the encrypted vault file location, honoring LOX_VAULT_PATH.
func VaultPath() string {
	if v := os.Getenv("LOX_VAULT_PATH"); v != "" {
		return v
	}
	return filepath.Join(Dir(), "vault.enc")
}

// CredentialsPath returns the file-backend credential record location.
func CredentialsPath() string {
	return filepath.Join(Dir(), "credentials.json")
}
