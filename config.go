package ots

import "time"

// Config holds the recognized options from §6. Individual zero-value
// fields are not defaulted; Stamp, Upgrade and Verify replace the whole
// Config with DefaultConfig when MaxDepth is zero. Use DefaultConfig to
// start from the reference values and override individual fields.
type Config struct {
	CalendarServers []string
	BlockExplorers  []string

	RequestTimeout           time.Duration
	MaxVarbytes              int
	MaxDepth                 int
	MaxCalendarResponseBytes int

	// DiscoverCalendars is an opt-in flag for the internal/discovery
	// gossip layer. Off by default. Stamp, Upgrade and Verify do not read
	// it: Stamp submits only to StampOptions.Servers or CalendarServers.
	DiscoverCalendars bool
}

// DefaultConfig returns the reference configuration: Alice and Bob as
// calendar servers, blockstream.info with a mempool.space fallback, a
// 10-second request timeout, and the format's default resource bounds.
func DefaultConfig() Config {
	return Config{
		CalendarServers: []string{
			"https://alice.btc.calendar.opentimestamps.org",
			"https://bob.btc.calendar.opentimestamps.org",
		},
		BlockExplorers: []string{
			"https://blockstream.info/api",
			"https://mempool.space/api",
		},
		RequestTimeout:           10 * time.Second,
		MaxVarbytes:              1048576,
		MaxDepth:                 MaxDepth,
		MaxCalendarResponseBytes: 65536,
	}
}
