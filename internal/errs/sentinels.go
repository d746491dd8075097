// Package errs contains sentinel errors used across layers for stable error mapping.
package errs

import "errors"

// Common sentinels across vault/credential layers.
var (
	// ErrVaultNotFound indicates no vault file exists at the expected path.
	// Recoverable by running initialization.
	ErrVaultNotFound = errors.New("vault not found")

	// ErrVaultOperation indicates a decryption, parsing or I/O failure on an
	// existing vault file. Authenticated-decryption failure and file corruption
	// are indistinguishable, so messages must not claim certainty about the cause.
	ErrVaultOperation = errors.New("vault operation failed")

	// ErrNotFound indicates the requested entry does not exist in the vault.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists indicates a uniqueness violation (service name taken).
	ErrAlreadyExists = errors.New("already exists")

	// ErrDecrypt indicates authenticated decryption failed (wrong key or
	// tampered ciphertext). Always rewrapped by the vault file layer, never
	// surfaced raw.
	ErrDecrypt = errors.New("decryption failed")

	// ErrCredentialStorage indicates every credential backend failed to store.
	ErrCredentialStorage = errors.New("all credential storage backends failed")

	// ErrNoRemoteVault indicates the remote blob store holds no vault yet.
	ErrNoRemoteVault = errors.New("no remote vault")

	// ErrPasswordGen indicates invalid password generation options.
	ErrPasswordGen = errors.New("password generation failed")
)
