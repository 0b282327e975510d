// Package testutil provides fixtures and mock collaborators shared by the
// package's own tests and by internal/ packages under test.
package testutil

import (
	ots "github.com/djkazic/ots-go"
)

// HelloWorldDigest is the SHA-256 digest of "Hello World!\n", the canonical
// end-to-end fixture.
const HelloWorldDigest = "03ba204e50d126e4674c005e04d82e84c21366780af1f43bd54a37816b6ab340"

// HelloWorldBitcoinHeight is the block height the hello-world fixture's
// Bitcoin attestation claims.
const HelloWorldBitcoinHeight = 358391

// HelloWorldOtsFile builds the golden fixture: a direct Bitcoin(358391)
// attestation against the SHA-256 digest of "Hello World!\n", with no
// operations between the file digest and the attestation.
func HelloWorldOtsFile() *ots.OtsFile {
	digest := MustDecodeHexString(HelloWorldDigest)
	ts := ots.NewTimestamp()
	ts.AddAttestation(ots.NewBitcoinAttestation(HelloWorldBitcoinHeight))
	return &ots.OtsFile{HashOp: ots.Sha256, FileDigest: digest, Timestamp: ts}
}

// HelloWorldOtsBytes serializes HelloWorldOtsFile, panicking on failure —
// the fixture is constructed from values this package controls, so a
// Write error here means the codec itself is broken.
func HelloWorldOtsBytes() []byte {
	b, err := ots.Write(HelloWorldOtsFile())
	if err != nil {
		panic("testutil: serializing hello-world fixture: " + err.Error())
	}
	return b
}

// PendingOtsFile builds a minimal proof with a single Pending attestation
// awaiting the given calendar URI.
func PendingOtsFile(digest []byte, uri string) *ots.OtsFile {
	ts := ots.NewTimestamp()
	ts.AddAttestation(ots.NewPendingAttestation(uri))
	return &ots.OtsFile{HashOp: ots.Sha256, FileDigest: digest, Timestamp: ts}
}

// FixedRandomSource returns a constant byte sequence instead of real
// randomness, so Stamp output is reproducible in tests.
type FixedRandomSource struct {
	Bytes []byte
}

// RandomBytes implements ots.RandomSource.
func (f FixedRandomSource) RandomBytes(n int) ([]byte, error) {
	out := make([]byte, n)
	copy(out, f.Bytes)
	return out, nil
}
