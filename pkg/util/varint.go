package util

import "errors"

// ErrVarUintOverflow is returned when a LEB128 varuint would exceed the
// 53-bit safe integer ceiling the codec enforces (guards memory, not just
// numeric range — see the 1 MiB varbytes-length cap that rides on this).
var ErrVarUintOverflow = errors.New("ots: varuint overflow")

// ErrVarUintTruncated is returned when data ends before a varuint is complete.
var ErrVarUintTruncated = errors.New("ots: truncated varuint")

// maxVarUintBytes is the most LEB128 bytes ReadVarUint will ever consume.
// The 8th byte carries bits 49-52 (shift 49, payload capped at 15), putting
// the ceiling at 2^53-1; a 9th byte is never valid.
const maxVarUintBytes = 8

// WriteVarUint encodes v as an unsigned LEB128 varint: 7 data bits per byte,
// high bit set on every byte but the last. Always emits the minimum number
// of bytes.
func WriteVarUint(v uint64) []byte {
	var out []byte
	for {
		b := byte(v & 0x7f)
		v >>= 7
		if v != 0 {
			out = append(out, b|0x80)
			continue
		}
		out = append(out, b)
		break
	}
	return out
}

// ReadVarUint decodes an unsigned LEB128 varint from the front of data,
// returning the value and the number of bytes consumed. Rejects values
// requiring more than 8 bytes, and rejects an 8th byte whose payload
// exceeds 15 (both guard the 2^53-1 safe ceiling).
func ReadVarUint(data []byte) (uint64, int, error) {
	var result uint64
	var shift uint

	for i := 0; i < maxVarUintBytes; i++ {
		if i >= len(data) {
			return 0, 0, ErrVarUintTruncated
		}
		b := data[i]
		payload := uint64(b & 0x7f)

		if i == maxVarUintBytes-1 {
			if payload > 15 || b&0x80 != 0 {
				return 0, 0, ErrVarUintOverflow
			}
			result |= payload << shift
			return result, i + 1, nil
		}

		result |= payload << shift
		shift += 7
		if b&0x80 == 0 {
			return result, i + 1, nil
		}
	}

	// Unreachable: the loop always returns on or before i == maxVarUintBytes-1.
	return 0, 0, ErrVarUintOverflow
}
