package ots

import (
	"bytes"

	"github.com/djkazic/ots-go/pkg/util"
)

// magic is the exact 31-byte constant every .ots file begins with.
var magic = []byte{
	0x00, 'O', 'p', 'e', 'n', 'T', 'i', 'm', 'e', 's', 't', 'a', 'm', 'p', 's', 0x00,
	0x00, 'P', 'r', 'o', 'o', 'f', 0x00,
	0xbf, 0x89, 0xe2, 0xe8, 0x84, 0xe8, 0x92, 0x94,
}

// currentVersion is the only OtsFile format version this codec supports.
const currentVersion = 1

const forkByte = 0xff
const attestationMarker = 0x00

// decoder walks a byte slice left to right, tracking traversal depth and
// enforcing the resource bounds from §5/§6.
type decoder struct {
	data  []byte
	pos   int
	depth int

	maxVarbytes int
	maxDepth    int
}

// Parse decodes an .ots byte string into an OtsFile using the format's
// default resource bounds (DefaultConfig).
func Parse(data []byte) (*OtsFile, error) {
	return ParseWithConfig(data, DefaultConfig())
}

// ParseWithConfig decodes an .ots byte string, enforcing cfg's MaxVarbytes
// and MaxDepth instead of the defaults.
func ParseWithConfig(data []byte, cfg Config) (*OtsFile, error) {
	d := &decoder{data: data, maxVarbytes: cfg.MaxVarbytes, maxDepth: cfg.MaxDepth}

	if len(data) < len(magic) {
		return nil, formatErrorf("input shorter than magic header (%d bytes)", len(data))
	}
	if !bytes.Equal(data[:len(magic)], magic) {
		return nil, formatErrorf("bad magic header")
	}
	d.pos = len(magic)

	version, err := d.readVarUint()
	if err != nil {
		return nil, formatErrorf("reading version: %v", err)
	}
	if version != currentVersion {
		return nil, formatErrorf("unsupported version %d", version)
	}

	algo, err := d.readByte()
	if err != nil {
		return nil, formatErrorf("reading hash tag: %v", err)
	}
	hashOp := HashAlgorithm(algo)
	if !hashOp.Valid() {
		return nil, formatErrorf("unknown hash tag 0x%02x", algo)
	}

	digest, err := d.readN(hashOp.DigestLength())
	if err != nil {
		return nil, formatErrorf("reading file digest: %v", err)
	}

	ts, err := d.readTimestamp()
	if err != nil {
		return nil, err
	}
	if d.pos != len(d.data) {
		return nil, formatErrorf("trailing data after timestamp (%d bytes)", len(d.data)-d.pos)
	}

	return &OtsFile{HashOp: hashOp, FileDigest: digest, Timestamp: ts}, nil
}

// ParseTimestamp decodes a standalone Timestamp (no magic/version/header),
// the shape a calendar server's HTTP response body takes in §4.4/§4.5.
func ParseTimestamp(data []byte) (*Timestamp, error) {
	return ParseTimestampWithConfig(data, DefaultConfig())
}

// ParseTimestampWithConfig is ParseTimestamp with explicit resource bounds.
func ParseTimestampWithConfig(data []byte, cfg Config) (*Timestamp, error) {
	d := &decoder{data: data, maxVarbytes: cfg.MaxVarbytes, maxDepth: cfg.MaxDepth}
	ts, err := d.readTimestamp()
	if err != nil {
		return nil, err
	}
	if d.pos != len(d.data) {
		return nil, formatErrorf("trailing data after timestamp (%d bytes)", len(d.data)-d.pos)
	}
	return ts, nil
}

func (d *decoder) readByte() (byte, error) {
	if d.pos >= len(d.data) {
		return 0, formatErrorf("unexpected end of data")
	}
	b := d.data[d.pos]
	d.pos++
	return b, nil
}

func (d *decoder) peekByte() (byte, error) {
	if d.pos >= len(d.data) {
		return 0, formatErrorf("unexpected end of data")
	}
	return d.data[d.pos], nil
}

func (d *decoder) readN(n int) ([]byte, error) {
	if n < 0 || d.pos+n > len(d.data) {
		return nil, formatErrorf("unexpected end of data")
	}
	out := make([]byte, n)
	copy(out, d.data[d.pos:d.pos+n])
	d.pos += n
	return out, nil
}

func (d *decoder) readVarUint() (uint64, error) {
	v, n, err := util.ReadVarUint(d.data[d.pos:])
	if err != nil {
		return 0, formatErrorf("varuint: %v", err)
	}
	d.pos += n
	return v, nil
}

// readVarBytes reads a length-prefixed byte field, rejecting lengths above
// maxVarbytes (the 1 MiB default cap in §4.1, bounding attacker-controlled
// memory from a single field).
func (d *decoder) readVarBytes() ([]byte, error) {
	length, err := d.readVarUint()
	if err != nil {
		return nil, err
	}
	if int64(length) > int64(d.maxVarbytes) {
		return nil, formatErrorf("varbytes length %d exceeds cap %d", length, d.maxVarbytes)
	}
	return d.readN(int(length))
}

// readTimestamp parses one node: a fork-delimited sequence of branches.
// Every leading 0xFF consumes exactly one sibling branch; the loop ends
// with one final branch with no preceding marker (§4.1's Fork parsing
// rule).
func (d *decoder) readTimestamp() (*Timestamp, error) {
	d.depth++
	defer func() { d.depth-- }()
	if d.depth > d.maxDepth {
		return nil, formatErrorf("traversal depth exceeds %d", d.maxDepth)
	}

	ts := NewTimestamp()
	for {
		b, err := d.peekByte()
		if err != nil {
			return nil, err
		}
		if b != forkByte {
			break
		}
		d.pos++ // consume the fork marker
		if err := d.readBranch(ts); err != nil {
			return nil, err
		}
	}
	if err := d.readBranch(ts); err != nil {
		return nil, err
	}
	return ts, nil
}

// readBranch parses exactly one branch (an attestation or a continuation)
// and attaches it to ts.
func (d *decoder) readBranch(ts *Timestamp) error {
	b, err := d.peekByte()
	if err != nil {
		return err
	}
	if b == attestationMarker {
		d.pos++
		att, err := d.readAttestation()
		if err != nil {
			return err
		}
		ts.AddAttestation(att)
		return nil
	}

	op, err := d.readOperation()
	if err != nil {
		return err
	}
	sub, err := d.readTimestamp()
	if err != nil {
		return err
	}
	ts.AddContinuation(op, sub)
	return nil
}

func (d *decoder) readOperation() (Operation, error) {
	b, err := d.readByte()
	if err != nil {
		return Operation{}, err
	}
	switch b {
	case tagAppend:
		payload, err := d.readVarBytes()
		if err != nil {
			return Operation{}, err
		}
		return NewAppend(payload), nil
	case tagPrepend:
		payload, err := d.readVarBytes()
		if err != nil {
			return Operation{}, err
		}
		return NewPrepend(payload), nil
	case tagReverse:
		return NewReverse(), nil
	case tagHexlify:
		return NewHexlify(), nil
	case byte(Sha256), byte(Sha1), byte(Ripemd160), byte(Keccak256):
		return NewHashOp(HashAlgorithm(b)), nil
	default:
		return Operation{}, formatErrorf("unknown operation tag 0x%02x", b)
	}
}

func (d *decoder) readAttestation() (Attestation, error) {
	tagBytes, err := d.readN(8)
	if err != nil {
		return Attestation{}, err
	}
	var tag [8]byte
	copy(tag[:], tagBytes)

	payload, err := d.readVarBytes()
	if err != nil {
		return Attestation{}, err
	}

	switch tag {
	case bitcoinTag, litecoinTag, ethereumTag:
		inner := &decoder{data: payload, maxVarbytes: d.maxVarbytes, maxDepth: d.maxDepth}
		height, err := inner.readVarUint()
		if err != nil {
			return Attestation{}, formatErrorf("attestation height: %v", err)
		}
		kind := AttBitcoin
		if tag == litecoinTag {
			kind = AttLitecoin
		} else if tag == ethereumTag {
			kind = AttEthereum
		}
		return Attestation{Kind: kind, Height: height}, nil

	case pendingTag:
		// The outer varbytes unwraps once to len||uri_bytes; an inner
		// read unwraps again to the raw URI bytes (§4.1).
		inner := &decoder{data: payload, maxVarbytes: d.maxVarbytes, maxDepth: d.maxDepth}
		uriBytes, err := inner.readVarBytes()
		if err != nil {
			return Attestation{}, formatErrorf("pending uri: %v", err)
		}
		return Attestation{Kind: AttPending, URI: string(uriBytes)}, nil

	default:
		return Attestation{Kind: AttUnknown, UnknownTag: tag, UnknownPayload: payload}, nil
	}
}
