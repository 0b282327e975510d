package ots

import (
	"context"
	"crypto/rand"
	"crypto/sha1"
	"crypto/sha256"
	"fmt"
	"io"

	"golang.org/x/crypto/ripemd160" //nolint:staticcheck // RIPEMD-160 is required by the OTS wire format, not chosen for new designs.
)

// DefaultHashOracle computes digests with the standard library plus
// golang.org/x/crypto/ripemd160 (RIPEMD-160 has no standard-library
// implementation). Keccak-256 is recognized by HashAlgorithm but not
// supported here: hash Operations reject it in Apply before reaching the
// oracle, and a direct Digest request for it (such as Verify hashing input
// data for a Keccak-256 file) returns an error.
type DefaultHashOracle struct{}

// Digest implements HashOracle.
func (DefaultHashOracle) Digest(_ context.Context, algo HashAlgorithm, data []byte) ([]byte, error) {
	switch algo {
	case Sha256:
		sum := sha256.Sum256(data)
		return sum[:], nil
	case Sha1:
		sum := sha1.Sum(data)
		return sum[:], nil
	case Ripemd160:
		h := ripemd160.New()
		if _, err := h.Write(data); err != nil {
			return nil, fmt.Errorf("ripemd160: %w", err)
		}
		return h.Sum(nil), nil
	default:
		return nil, fmt.Errorf("ots: hash oracle does not support %s", algo)
	}
}

// DefaultRandomSource draws from crypto/rand.
type DefaultRandomSource struct{}

// RandomBytes implements RandomSource.
func (DefaultRandomSource) RandomBytes(n int) ([]byte, error) {
	b := make([]byte, n)
	if _, err := io.ReadFull(rand.Reader, b); err != nil {
		return nil, fmt.Errorf("ots: reading random bytes: %w", err)
	}
	return b, nil
}
