package ots

import (
	"fmt"

	"github.com/djkazic/ots-go/pkg/util"
)

// AttKind tags the five cases an Attestation can take.
type AttKind byte

const (
	AttBitcoin AttKind = iota
	AttLitecoin
	AttEthereum
	AttPending
	AttUnknown
)

// Attestation tag constants, the 8-byte identifiers that appear on the wire
// immediately after the 0x00 attestation marker (§4.1).
var (
	bitcoinTag  = [8]byte{0x05, 0x88, 0x96, 0x0d, 0x73, 0xd7, 0x19, 0x01}
	litecoinTag = [8]byte{0x06, 0x86, 0x9a, 0x0d, 0x73, 0xd7, 0x1b, 0x45}
	ethereumTag = [8]byte{0x30, 0xfe, 0x80, 0x87, 0xb5, 0xc7, 0xea, 0xd7}
	pendingTag  = [8]byte{0x83, 0xdf, 0xe3, 0x0d, 0x2e, 0xf9, 0x0c, 0x8e}
)

// Attestation is the terminal of a proof path: a claim that the current
// message equals something provable.
type Attestation struct {
	Kind   AttKind
	Height uint64 // Bitcoin / Litecoin / Ethereum
	URI    string // Pending

	// Unknown preserves an unrecognized attestation verbatim for roundtrip.
	UnknownTag     [8]byte
	UnknownPayload []byte
}

// NewBitcoinAttestation builds a Bitcoin(height) attestation.
func NewBitcoinAttestation(height uint64) Attestation {
	return Attestation{Kind: AttBitcoin, Height: height}
}

// NewPendingAttestation builds a Pending(uri) attestation.
func NewPendingAttestation(uri string) Attestation {
	return Attestation{Kind: AttPending, URI: uri}
}

func (a Attestation) tag() [8]byte {
	switch a.Kind {
	case AttBitcoin:
		return bitcoinTag
	case AttLitecoin:
		return litecoinTag
	case AttEthereum:
		return ethereumTag
	case AttPending:
		return pendingTag
	case AttUnknown:
		return a.UnknownTag
	default:
		panic(fmt.Sprintf("ots: unknown attestation kind %d", a.Kind))
	}
}

// Equal reports whether a and other are the same attestation.
func (a Attestation) Equal(other Attestation) bool {
	if a.Kind != other.Kind {
		return false
	}
	switch a.Kind {
	case AttBitcoin, AttLitecoin, AttEthereum:
		return a.Height == other.Height
	case AttPending:
		return a.URI == other.URI
	case AttUnknown:
		if a.UnknownTag != other.UnknownTag {
			return false
		}
		if len(a.UnknownPayload) != len(other.UnknownPayload) {
			return false
		}
		for i := range a.UnknownPayload {
			if a.UnknownPayload[i] != other.UnknownPayload[i] {
				return false
			}
		}
		return true
	default:
		return false
	}
}

// Name returns the Formatter's display string for the attestation, e.g.
// "Bitcoin block #358391" or "Pending (https://...)".
func (a Attestation) Name() string {
	switch a.Kind {
	case AttBitcoin:
		return fmt.Sprintf("Bitcoin block #%d", a.Height)
	case AttLitecoin:
		return fmt.Sprintf("Litecoin block #%d", a.Height)
	case AttEthereum:
		return fmt.Sprintf("Ethereum block #%d", a.Height)
	case AttPending:
		return fmt.Sprintf("Pending (%s)", a.URI)
	case AttUnknown:
		return fmt.Sprintf("Unknown (0x%s)", util.BytesToHex(a.UnknownTag[:]))
	default:
		return "unknown attestation"
	}
}
