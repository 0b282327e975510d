package util

import (
	"bytes"
	"testing"
)

func TestHexConversion(t *testing.T) {
	original := []byte{0xde, 0xad, 0xbe, 0xef}
	hexStr := BytesToHex(original)
	if hexStr != "deadbeef" {
		t.Errorf("BytesToHex = %s, want deadbeef", hexStr)
	}

	decoded, err := HexToBytes(hexStr)
	if err != nil {
		t.Errorf("HexToBytes error: %v", err)
	}
	if !bytes.Equal(decoded, original) {
		t.Errorf("HexToBytes = %x, want %x", decoded, original)
	}

	if _, err := HexToBytes("zzzz"); err == nil {
		t.Error("HexToBytes should fail on invalid hex")
	}
}

func TestReverseBytes(t *testing.T) {
	in := []byte{1, 2, 3, 4}
	want := []byte{4, 3, 2, 1}
	got := ReverseBytes(in)
	if !bytes.Equal(got, want) {
		t.Errorf("ReverseBytes(%v) = %v, want %v", in, got, want)
	}
	// Input must not be mutated.
	if !bytes.Equal(in, []byte{1, 2, 3, 4}) {
		t.Errorf("ReverseBytes mutated input: %v", in)
	}
}
