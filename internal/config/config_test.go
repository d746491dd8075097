package config

import (
	"path/filepath"
	"testing"
)

func TestVaultPath_Override(t *testing.T) {
	t.Setenv("LOX_VAULT_PATH", "/tmp/custom/vault.enc")
	if got := VaultPath(); got != "/tmp/custom/vault.enc" {
		t.Fatalf("VaultPath=%q", got)
	}
}

func TestDir_Precedence(t *testing.T) {
	t.Setenv("LOX_CONFIG_DIR", "/tmp/loxdir")
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg")
	if got := Dir(); got != "/tmp/loxdir" {
		t.Fatalf("LOX_CONFIG_DIR must win, got %q", got)
	}

	t.Setenv("LOX_CONFIG_DIR", "")
	if got := Dir(); got != filepath.Join("/tmp/xdg", "lox") {
		t.Fatalf("XDG fallback: got %q", got)
	}
}

func TestPaths_UnderDir(t *testing.T) {
	t.Setenv("LOX_CONFIG_DIR", "/tmp/loxdir")
	t.Setenv("LOX_VAULT_PATH", "")
	if got := VaultPath(); got != filepath.Join("/tmp/loxdir", "vault.enc") {
		t.Fatalf("VaultPath=%q", got)
	}
	if got := CredentialsPath(); got != filepath.Join("/tmp/loxdir", "credentials.json") {
		t.Fatalf("CredentialsPath=%q", got)
	}
}
