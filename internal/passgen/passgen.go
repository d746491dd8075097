// Package passgen generates random passwords from configurable character sets.
package passgen

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"

	"github.com/loxvault/lox/internal/errs"
)

const (
	MinLength = 8
	MaxLength = 128

	lowercase = "abcdefghijklmnopqrstuvwxyz"
	uppercase = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	digits    = "0123456789"
	symbols   = "!@#$%^&*()_+-=[]{}|;:,.<>?"

	// similar are characters easily confused with each other when read back.
	similar = "0O1lI"
)

// Options controls password composition.
type Options struct {
	Length         int
	Lowercase      bool
	Uppercase      bool
	Digits         bool
	Symbols        bool
	ExcludeSimilar bool
}

// DefaultOptions mirrors the interactive default: 16 characters, every class
// enabled, similar characters excluded.
func DefaultOptions() Options {
	return Options{Length: 16, Lowercase: true, Uppercase: true, Digits: true, Symbols: true, ExcludeSimilar: true}
}

// Generate returns a random password built from the enabled character sets.
func Generate(opts Options) (string, error) {
	if opts.Length < MinLength {
		return "", fmt.Errorf("%w: length must be at least %d characters", errs.ErrPasswordGen, MinLength)
	}
	if opts.Length > MaxLength {
		return "", fmt.Errorf("%w: length cannot exceed %d characters", errs.ErrPasswordGen, MaxLength)
	}

	var charset string
	if opts.Lowercase {
		charset += lowercase
	}
	if opts.Uppercase {
		charset += uppercase
	}
	if opts.Digits {
		charset += digits
	}
	if opts.Symbols {
		charset += symbols
	}
	if opts.ExcludeSimilar {
		charset = strings.Map(func(r rune) rune {
			if strings.ContainsRune(similar, r) {
				return -1
			}
			return r
		}, charset)
	}
	if charset == "" {
		return "", fmt.Errorf("%w: no character sets enabled", errs.ErrPasswordGen)
	}

	var b strings.Builder
	b.Grow(opts.Length)
	max := big.NewInt(int64(len(charset)))
	for range opts.Length {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", fmt.Errorf("%w: %v", errs.ErrPasswordGen, err)
		}
		b.WriteByte(charset[n.Int64()])
	}
	return b.String(), nil
}
