package util

import (
	"bytes"
	"testing"
)

func TestVarUintRoundTrip(t *testing.T) {
	tests := []uint64{
		0, 1, 127, 128, 300, 16384,
		1 << 20, 1 << 32, 1<<49 - 1, 15 << 49,
	}

	for _, val := range tests {
		encoded := WriteVarUint(val)
		decoded, n, err := ReadVarUint(encoded)
		if err != nil {
			t.Errorf("ReadVarUint error for %d: %v", val, err)
			continue
		}
		if n != len(encoded) {
			t.Errorf("ReadVarUint bytes consumed = %d, want %d for value %d", n, len(encoded), val)
		}
		if decoded != val {
			t.Errorf("VarUint round-trip failed: %d -> %d", val, decoded)
		}
	}
}

func TestVarUintBoundaryEncodings(t *testing.T) {
	cases := []struct {
		val  uint64
		want []byte
	}{
		{0, []byte{0x00}},
		{128, []byte{0x80, 0x01}},
		{300, []byte{0xac, 0x02}},
	}
	for _, c := range cases {
		got := WriteVarUint(c.val)
		if !bytes.Equal(got, c.want) {
			t.Errorf("WriteVarUint(%d) = % x, want % x", c.val, got, c.want)
		}
	}
}

func TestVarUintEighthBytePayload15(t *testing.T) {
	// shift 49, payload 15: decodes to 15 * 2^49.
	data := append(bytes.Repeat([]byte{0x80}, 7), 0x0f)
	val, n, err := ReadVarUint(data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != 8 {
		t.Errorf("consumed %d bytes, want 8", n)
	}
	want := uint64(15) << 49
	if val != want {
		t.Errorf("value = %d, want %d", val, want)
	}
}

func TestVarUintEighthBytePayload16Overflows(t *testing.T) {
	data := append(bytes.Repeat([]byte{0x80}, 7), 0x10)
	if _, _, err := ReadVarUint(data); err != ErrVarUintOverflow {
		t.Errorf("expected overflow, got %v", err)
	}
}

func TestVarUintNinthByteOverflows(t *testing.T) {
	data := append(bytes.Repeat([]byte{0x80}, 8), 0x01)
	if _, _, err := ReadVarUint(data); err != ErrVarUintOverflow {
		t.Errorf("expected overflow, got %v", err)
	}
}

func TestVarUintTruncated(t *testing.T) {
	if _, _, err := ReadVarUint(nil); err != ErrVarUintTruncated {
		t.Errorf("expected truncated error, got %v", err)
	}
	if _, _, err := ReadVarUint([]byte{0x80}); err != ErrVarUintTruncated {
		t.Errorf("expected truncated error on dangling continuation, got %v", err)
	}
}

func FuzzReadVarUint(f *testing.F) {
	f.Add([]byte{0x00})
	f.Add([]byte{0x80, 0x01})
	f.Add([]byte{0xac, 0x02})
	f.Add(append(bytes.Repeat([]byte{0x80}, 7), 0x0f))

	f.Fuzz(func(t *testing.T, data []byte) {
		val, n, err := ReadVarUint(data)
		if err != nil {
			return
		}
		if n <= 0 || n > len(data) {
			t.Fatalf("ReadVarUint consumed %d bytes from input of length %d", n, len(data))
		}
		reencoded := WriteVarUint(val)
		if !bytes.Equal(reencoded, data[:n]) {
			// Non-minimal encodings are accepted on read but the writer
			// always produces the minimal form, so only minimal inputs
			// round-trip byte-for-byte; skip non-minimal ones.
			if _, n2, err2 := ReadVarUint(reencoded); err2 != nil || n2 != len(reencoded) {
				t.Fatalf("re-encoded varuint does not parse: %v", err2)
			}
		}
	})
}
