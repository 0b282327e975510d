package ots

import "context"

// HashOracle computes digests on behalf of the operation engine and the
// top-level Stamp/Verify entry points. Kept behind an interface so callers
// can swap in hardware-backed or instrumented implementations; the default
// (DefaultHashOracle) uses crypto/sha256, crypto/sha1, and
// golang.org/x/crypto/ripemd160.
type HashOracle interface {
	Digest(ctx context.Context, algo HashAlgorithm, data []byte) ([]byte, error)
}

// RandomSource supplies cryptographically random bytes, used by Stamp to
// generate the 16-byte nonce that hides the file digest from calendar
// servers.
type RandomSource interface {
	RandomBytes(n int) ([]byte, error)
}

// BlockInfo is what a BlockLookup returns for a confirmed Bitcoin block.
type BlockInfo struct {
	Height     uint64
	BlockHash  string // display-order (big-endian) hex
	MerkleRoot string // display-order (big-endian) hex
	Timestamp  uint64 // unix seconds
}

// BlockLookup resolves a Bitcoin block height to its hash, merkle root, and
// timestamp. The default implementation (internal/blockexplorer) queries a
// primary and fallback public block explorer.
type BlockLookup interface {
	BlockByHeight(ctx context.Context, height uint64) (BlockInfo, error)
}

// CalendarServer is the pair of calendar-server operations Stamp and
// Upgrade need: submit a digest for timestamping, and poll for a completed
// proof. The default implementation (internal/calendarclient) talks REST
// to the URLs in Config.CalendarServers.
type CalendarServer interface {
	// Submit POSTs digest to {server}/digest and returns the serialized
	// Timestamp response body (at minimum a Pending attestation).
	Submit(ctx context.Context, server string, digest []byte) ([]byte, error)

	// Poll GETs {server}/timestamp/{hex(msg)}. It returns (nil, nil) when
	// the proof is still pending (HTTP 404 or an empty body), the
	// serialized Timestamp body on success, or an error for any other
	// failure.
	Poll(ctx context.Context, server string, msg []byte) ([]byte, error)
}
