package ots

import (
	"fmt"

	"github.com/djkazic/ots-go/pkg/util"
)

// OpKind tags the eight cases an Operation can take.
type OpKind byte

const (
	OpAppend OpKind = iota
	OpPrepend
	OpReverse
	OpHexlify
	OpSha256
	OpSha1
	OpRipemd160
	OpKeccak256
)

// wire tag bytes for each operation, per the binary grammar in §4.1.
const (
	tagAppend  byte = 0xf0
	tagPrepend byte = 0xf1
	tagReverse byte = 0xf2
	tagHexlify byte = 0xf3
)

// Operation is a single node-to-child transformation along a proof path.
// Append and Prepend carry a byte payload; the rest are parameterless.
type Operation struct {
	Kind    OpKind
	Payload []byte // only meaningful for OpAppend / OpPrepend
}

// NewAppend builds an Append(bytes) operation.
func NewAppend(b []byte) Operation { return Operation{Kind: OpAppend, Payload: b} }

// NewPrepend builds a Prepend(bytes) operation.
func NewPrepend(b []byte) Operation { return Operation{Kind: OpPrepend, Payload: b} }

// NewReverse builds a Reverse operation.
func NewReverse() Operation { return Operation{Kind: OpReverse} }

// NewHexlify builds a Hexlify operation.
func NewHexlify() Operation { return Operation{Kind: OpHexlify} }

// NewHashOp builds the hash operation corresponding to algo. Panics if algo
// is not one of the three executable hash algorithms plus Keccak-256 (which
// parses but fails at Apply time per §4.2).
func NewHashOp(algo HashAlgorithm) Operation {
	switch algo {
	case Sha256:
		return Operation{Kind: OpSha256}
	case Sha1:
		return Operation{Kind: OpSha1}
	case Ripemd160:
		return Operation{Kind: OpRipemd160}
	case Keccak256:
		return Operation{Kind: OpKeccak256}
	default:
		panic(fmt.Sprintf("ots: not a hash algorithm: %v", algo))
	}
}

// tag returns the operation's wire tag byte.
func (op Operation) tag() byte {
	switch op.Kind {
	case OpAppend:
		return tagAppend
	case OpPrepend:
		return tagPrepend
	case OpReverse:
		return tagReverse
	case OpHexlify:
		return tagHexlify
	case OpSha256:
		return byte(Sha256)
	case OpSha1:
		return byte(Sha1)
	case OpRipemd160:
		return byte(Ripemd160)
	case OpKeccak256:
		return byte(Keccak256)
	default:
		panic(fmt.Sprintf("ots: unknown operation kind %d", op.Kind))
	}
}

// Equal reports whether op and other are the same operation with the same
// payload (order-sensitive, byte-exact on Payload).
func (op Operation) Equal(other Operation) bool {
	if op.Kind != other.Kind {
		return false
	}
	if len(op.Payload) != len(other.Payload) {
		return false
	}
	for i := range op.Payload {
		if op.Payload[i] != other.Payload[i] {
			return false
		}
	}
	return true
}

// Name returns a human-readable name for the operation, used by the
// Formatter (e.g. "append(<hex>)", "SHA256", "reverse").
func (op Operation) Name() string {
	switch op.Kind {
	case OpAppend:
		return fmt.Sprintf("append(%s)", util.BytesToHex(op.Payload))
	case OpPrepend:
		return fmt.Sprintf("prepend(%s)", util.BytesToHex(op.Payload))
	case OpReverse:
		return "reverse"
	case OpHexlify:
		return "hexlify"
	case OpSha256:
		return Sha256.String()
	case OpSha1:
		return Sha1.String()
	case OpRipemd160:
		return Ripemd160.String()
	case OpKeccak256:
		return Keccak256.String()
	default:
		return fmt.Sprintf("unknown-op(%d)", op.Kind)
	}
}
