package ots

import "fmt"

// HashAlgorithm identifies one of the digest functions the format can name,
// either as the file-hash algorithm in an OtsFile header or as a hash
// Operation inside a proof chain. The tag byte is shared between the two
// roles by design: 0x08 always means SHA-256, whether it labels the file
// digest or a replay step.
type HashAlgorithm byte

const (
	Sha256    HashAlgorithm = 0x08
	Sha1      HashAlgorithm = 0x02
	Ripemd160 HashAlgorithm = 0x03
	Keccak256 HashAlgorithm = 0x67
)

// DigestLength returns the fixed output length of the algorithm in bytes.
func (a HashAlgorithm) DigestLength() int {
	switch a {
	case Sha256, Keccak256:
		return 32
	case Sha1, Ripemd160:
		return 20
	default:
		return 0
	}
}

// String returns the algorithm's display name, as used by the Formatter.
func (a HashAlgorithm) String() string {
	switch a {
	case Sha256:
		return "SHA256"
	case Sha1:
		return "SHA1"
	case Ripemd160:
		return "RIPEMD160"
	case Keccak256:
		return "KECCAK256"
	default:
		return fmt.Sprintf("unknown(0x%02x)", byte(a))
	}
}

// Valid reports whether a is one of the four recognized algorithm tags.
func (a HashAlgorithm) Valid() bool {
	switch a {
	case Sha256, Sha1, Ripemd160, Keccak256:
		return true
	default:
		return false
	}
}
