// Package codegen produces short random coupon codes.
package codegen

import (
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
)

const (
	// DefaultLength is the length of coupon codes.
	DefaultLength = 8
	// Alphabet holds the characters a code is drawn from.
	Alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

	maxAttemptsPerCode = 16
)

var (
	// ErrExhausted is returned when GenerateUnique keeps hitting taken codes
	// or is asked for more codes than the length allows.
	ErrExhausted = errors.New("could not generate enough unique codes")
	// ErrNegativeCount is returned when GenerateUnique is asked for fewer than zero codes.
	ErrNegativeCount = errors.New("code count must not be negative")
)

var alphabetSize = big.NewInt(int64(len(Alphabet)))

// Generate returns a code of the given length drawn uniformly from Alphabet.
// A non-positive length falls back to DefaultLength.
func Generate(length int) (string, error) {
	if length <= 0 {
		length = DefaultLength
	}

	buf := make([]byte, length)
	for i := range buf {
		n, err := rand.Int(rand.Reader, alphabetSize)
		if err != nil {
			return "", fmt.Errorf("failed to read random source: %w", err)
		}
		buf[i] = Alphabet[n.Int64()]
	}

	return string(buf), nil
}

// GenerateUnique returns n codes that are pairwise distinct and for which
// taken (if not nil) reports false.
func GenerateUnique(n, length int, taken func(code string) bool) ([]string, error) {
	if n < 0 {
		return nil, ErrNegativeCount
	}
	if length <= 0 {
		length = DefaultLength
	}
	space := new(big.Int).Exp(alphabetSize, big.NewInt(int64(length)), nil)
	if space.Cmp(big.NewInt(int64(n))) < 0 {
		return nil, fmt.Errorf("%w: %d codes of length %d requested", ErrExhausted, n, length)
	}

	codes := make([]string, 0, n)
	seen := make(map[string]struct{}, n)

	for len(codes) < n {
		var code string
		for attempt := 0; ; attempt++ {
			if attempt == maxAttemptsPerCode {
				return nil, ErrExhausted
			}

			c, err := Generate(length)
			if err != nil {
				return nil, err
			}
			if _, dup := seen[c]; dup {
				continue
			}
			if taken != nil && taken(c) {
				continue
			}
			code = c
			break
		}

		seen[code] = struct{}{}
		codes = append(codes, code)
	}

	return codes, nil
}

// Valid reports whether code has the given length and only Alphabet characters.
func Valid(code string, length int) bool {
	if length <= 0 {
		length = DefaultLength
	}
	if len(code) != length {
		return false
	}
	for i := 0; i < len(code); i++ {
		c := code[i]
		if (c < 'A' || c > 'Z') && (c < '0' || c > '9') {
			return false
		}
	}
	return true
}
