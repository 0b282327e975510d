// Package discovery gossips calendar server URLs over a libp2p network so
// a fleet of OTS clients can grow its calendar list without a static
// config file on every host. It is additive: nothing in the core Stamp,
// Verify, or Upgrade paths depends on it.
package discovery

import (
	"fmt"

	"github.com/fxamacker/cbor/v2"
	"github.com/klauspost/compress/zstd"
)

const (
	// ProtocolVersion tags the gossip wire format.
	ProtocolVersion = "1.0.0"

	// RegistryTopicName is the GossipSub topic calendar announcements are
	// published to.
	RegistryTopicName = "/ots/calendar-registry/" + ProtocolVersion

	// maxServersPerAnnounce bounds a single announcement, guarding against
	// a peer flooding the registry with garbage entries.
	maxServersPerAnnounce = 64
)

var (
	zstdEncoder, _ = zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	zstdDecoder, _ = zstd.NewReader(nil, zstd.WithDecoderMaxMemory(1<<20))
)

// CalendarAnnounce is gossiped by a peer to advertise calendar servers it
// trusts or has successfully used.
type CalendarAnnounce struct {
	Servers []string `cbor:"1,keyasint"`
}

// Encode compresses and CBOR-encodes an announcement.
func Encode(a *CalendarAnnounce) ([]byte, error) {
	if len(a.Servers) > maxServersPerAnnounce {
		return nil, fmt.Errorf("discovery: announcement carries %d servers, max %d", len(a.Servers), maxServersPerAnnounce)
	}
	raw, err := cbor.Marshal(a)
	if err != nil {
		return nil, fmt.Errorf("discovery: encoding announcement: %w", err)
	}
	return zstdEncoder.EncodeAll(raw, nil), nil
}

// Decode decompresses and decodes an announcement received over the wire.
func Decode(data []byte) (*CalendarAnnounce, error) {
	raw, err := zstdDecoder.DecodeAll(data, nil)
	if err != nil {
		return nil, fmt.Errorf("discovery: decompressing announcement: %w", err)
	}
	var a CalendarAnnounce
	if err := cbor.Unmarshal(raw, &a); err != nil {
		return nil, fmt.Errorf("discovery: decoding announcement: %w", err)
	}
	if len(a.Servers) > maxServersPerAnnounce {
		return nil, fmt.Errorf("discovery: announcement carries %d servers, max %d", len(a.Servers), maxServersPerAnnounce)
	}
	return &a, nil
}
