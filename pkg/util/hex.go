package util

import "encoding/hex"

// HexToBytes decodes a hex string to bytes, returning an error if invalid.
func HexToBytes(s string) ([]byte, error) {
	return hex.DecodeString(s)
}

// BytesToHex encodes bytes to a lowercase hex string.
func BytesToHex(b []byte) string {
	return hex.EncodeToString(b)
}

// ReverseBytes returns a new slice with bytes in reverse order. Used to
// convert between a block explorer's big-endian display hex and the
// little-endian byte form a Bitcoin merkle root takes inside a proof chain.
func ReverseBytes(b []byte) []byte {
	out := make([]byte, len(b))
	for i, v := range b {
		out[len(b)-1-i] = v
	}
	return out
}
