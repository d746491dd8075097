// Package crypto implements passphrase key derivation and authenticated encryption.
package crypto

import (
	"crypto/rand"
	"crypto/sha256"

	"golang.org/x/crypto/pbkdf2"
)

// Params
const (
	KeyLen  = 32
	SaltLen = 16

	// pbkdf2Iterations is a fixed format constant: changing it breaks
	// decryption of existing vault files.
	pbkdf2Iterations = 100_000
)

// RandBytes returns n cryptographically secure random bytes.
func RandBytes(n int) ([]byte, error) {
	b := make([]byte, n)
	_, err := rand.Read(b)
	return b, err
}

// DeriveKey derives a 32-byte key from the passphrase and salt using
// PBKDF2-HMAC-SHA256. A nil salt generates a fresh random one. The result is a
// pure function of (passphrase, salt); round-trip decryption depends on that.
func DeriveKey(passphrase string, salt []byte) (key, usedSalt []byte, err error) {
	if salt == nil {
		salt, err = RandBytes(SaltLen)
		if err != nil {
			return nil, nil, err
		}
	}
	key = pbkdf2.Key([]byte(passphrase), salt, pbkdf2Iterations, KeyLen, sha256.New)
	return key, salt, nil
}
