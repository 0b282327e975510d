package ots

import (
	"bytes"

	"github.com/djkazic/ots-go/pkg/util"
)

// encoder accumulates a canonical .ots byte stream.
type encoder struct {
	buf bytes.Buffer
}

// Write serializes an OtsFile to its canonical binary form: the 31-byte
// magic, the version, the hash tag, the file digest, then the timestamp
// tree. Attestations are emitted before continuations at every node, and
// siblings are separated by a 0xFF fork marker before every branch but the
// last (§4.1's writer contract).
func Write(f *OtsFile) ([]byte, error) {
	if !f.HashOp.Valid() {
		return nil, formatErrorf("cannot write unknown hash algorithm 0x%02x", byte(f.HashOp))
	}
	if len(f.FileDigest) != f.HashOp.DigestLength() {
		return nil, formatErrorf("file digest length %d does not match %s (%d)",
			len(f.FileDigest), f.HashOp, f.HashOp.DigestLength())
	}

	e := &encoder{}
	e.buf.Write(magic)
	e.writeVarUint(currentVersion)
	e.buf.WriteByte(byte(f.HashOp))
	e.buf.Write(f.FileDigest)
	if err := e.writeTimestamp(f.Timestamp); err != nil {
		return nil, err
	}
	return e.buf.Bytes(), nil
}

// WriteTimestamp serializes a standalone Timestamp — the shape a calendar
// server's HTTP response body takes.
func WriteTimestamp(t *Timestamp) ([]byte, error) {
	e := &encoder{}
	if err := e.writeTimestamp(t); err != nil {
		return nil, err
	}
	return e.buf.Bytes(), nil
}

func (e *encoder) writeVarUint(v uint64) {
	e.buf.Write(util.WriteVarUint(v))
}

func (e *encoder) writeVarBytes(b []byte) {
	e.writeVarUint(uint64(len(b)))
	e.buf.Write(b)
}

// writeTimestamp emits a node's branches: all attestations, then all
// continuations, in the order they were stored, with a 0xFF marker before
// every branch but the final one.
func (e *encoder) writeTimestamp(t *Timestamp) error {
	if t == nil || t.BranchCount() == 0 {
		return formatErrorf("cannot write a timestamp node with no branches")
	}

	total := t.BranchCount()
	written := 0

	for _, a := range t.Attestations {
		if written < total-1 {
			e.buf.WriteByte(forkByte)
		}
		e.writeAttestation(a)
		written++
	}
	for _, c := range t.Ops {
		if written < total-1 {
			e.buf.WriteByte(forkByte)
		}
		if err := e.writeOperation(c.Op); err != nil {
			return err
		}
		if err := e.writeTimestamp(c.Sub); err != nil {
			return err
		}
		written++
	}
	return nil
}

func (e *encoder) writeAttestation(a Attestation) {
	e.buf.WriteByte(attestationMarker)
	tag := a.tag()
	e.buf.Write(tag[:])

	switch a.Kind {
	case AttBitcoin, AttLitecoin, AttEthereum:
		var inner encoder
		inner.writeVarUint(a.Height)
		e.writeVarBytes(inner.buf.Bytes())

	case AttPending:
		var inner encoder
		inner.writeVarBytes([]byte(a.URI))
		e.writeVarBytes(inner.buf.Bytes())

	case AttUnknown:
		e.writeVarBytes(a.UnknownPayload)
	}
}

func (e *encoder) writeOperation(op Operation) error {
	e.buf.WriteByte(op.tag())
	switch op.Kind {
	case OpAppend, OpPrepend:
		e.writeVarBytes(op.Payload)
	}
	return nil
}
