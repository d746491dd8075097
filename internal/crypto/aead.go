package crypto

import (
	"fmt"

	"golang.org/x/crypto/chacha20poly1305"

	"github.com/loxvault/lox/internal/errs"
)

// Encrypt seals plaintext with XChaCha20-Poly1305 under a 32-byte key and a
// random nonce. The nonce is prepended to the ciphertext.
func Encrypt(plaintext, key []byte) ([]byte, error) {
	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		return nil, err
	}
	nonce, err := RandBytes(chacha20poly1305.NonceSizeX)
	if err != nil {
		return nil, err
	}
	out := make([]byte, 0, len(nonce)+len(plaintext)+aead.Overhead())
	out = append(out, nonce...)
	out = append(out, aead.Seal(nil, nonce, plaintext, nil)...)
	return out, nil
}

// Decrypt opens a nonce-prefixed ciphertext. Wrong keys, truncation and any
// bit corruption fail with errs.ErrDecrypt rather than producing garbage.
func Decrypt(ciphertext, key []byte) ([]byte, error) {
	if len(ciphertext) < chacha20poly1305.NonceSizeX {
		return nil, fmt.Errorf("%w: ciphertext too short", errs.ErrDecrypt)
	}
	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		return nil, err
	}
	nonce := ciphertext[:chacha20poly1305.NonceSizeX]
	ct := ciphertext[chacha20poly1305.NonceSizeX:]
	pt, err := aead.Open(nil, nonce, ct, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errs.ErrDecrypt, err)
	}
	return pt, nil
}
