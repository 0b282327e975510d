package ots

import (
	"context"
	"fmt"
)

// UnsupportedOperationError is returned by Apply when the operation cannot
// be executed — currently only Keccak256, which the format can parse and
// preserve but never replay.
type UnsupportedOperationError struct {
	Op Operation
}

func (e *UnsupportedOperationError) Error() string {
	return fmt.Sprintf("ots: unsupported operation %s", e.Op.Name())
}

// Apply runs a single operation against msg, returning a freshly allocated
// result buffer. Hash operations call oracle.Digest; Keccak256 always
// fails with UnsupportedOperationError.
func Apply(ctx context.Context, oracle HashOracle, op Operation, msg []byte) ([]byte, error) {
	switch op.Kind {
	case OpAppend:
		out := make([]byte, 0, len(msg)+len(op.Payload))
		out = append(out, msg...)
		out = append(out, op.Payload...)
		return out, nil

	case OpPrepend:
		out := make([]byte, 0, len(msg)+len(op.Payload))
		out = append(out, op.Payload...)
		out = append(out, msg...)
		return out, nil

	case OpReverse:
		out := make([]byte, len(msg))
		for i, b := range msg {
			out[len(msg)-1-i] = b
		}
		return out, nil

	case OpHexlify:
		const hexDigits = "0123456789abcdef"
		out := make([]byte, len(msg)*2)
		for i, b := range msg {
			out[i*2] = hexDigits[b>>4]
			out[i*2+1] = hexDigits[b&0x0f]
		}
		return out, nil

	case OpSha256:
		return oracle.Digest(ctx, Sha256, msg)
	case OpSha1:
		return oracle.Digest(ctx, Sha1, msg)
	case OpRipemd160:
		return oracle.Digest(ctx, Ripemd160, msg)
	case OpKeccak256:
		return nil, &UnsupportedOperationError{Op: op}

	default:
		return nil, fmt.Errorf("ots: unknown operation kind %d", op.Kind)
	}
}
