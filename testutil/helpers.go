package testutil

import (
	"context"
	"encoding/hex"
	"fmt"
	"sync"
	"testing"

	ots "github.com/djkazic/ots-go"
)

// MustDecodeHex decodes hex or fails the test.
func MustDecodeHex(t *testing.T, s string) []byte {
	t.Helper()
	b, err := hex.DecodeString(s)
	if err != nil {
		t.Fatalf("invalid hex %q: %v", s, err)
	}
	return b
}

// MustDecodeHexString decodes hex, panicking on failure. Used by fixture
// constructors that run outside a *testing.T context.
func MustDecodeHexString(s string) []byte {
	b, err := hex.DecodeString(s)
	if err != nil {
		panic("testutil: invalid hex " + s + ": " + err.Error())
	}
	return b
}

// MockBlockLookup implements ots.BlockLookup from an in-memory table of
// blocks keyed by height.
type MockBlockLookup struct {
	mu     sync.Mutex
	Blocks map[uint64]ots.BlockInfo
}

// NewMockBlockLookup returns an empty MockBlockLookup.
func NewMockBlockLookup() *MockBlockLookup {
	return &MockBlockLookup{Blocks: make(map[uint64]ots.BlockInfo)}
}

// Add registers a block for the given height.
func (m *MockBlockLookup) Add(height uint64, merkleRoot string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Blocks[height] = ots.BlockInfo{Height: height, MerkleRoot: merkleRoot}
}

// BlockByHeight implements ots.BlockLookup.
func (m *MockBlockLookup) BlockByHeight(_ context.Context, height uint64) (ots.BlockInfo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	info, ok := m.Blocks[height]
	if !ok {
		return ots.BlockInfo{}, fmt.Errorf("testutil: no mock block at height %d", height)
	}
	return info, nil
}

// MockCalendarServer implements ots.CalendarServer with canned Submit
// responses and a Pending/Poll table, keyed by server or URI.
type MockCalendarServer struct {
	mu sync.Mutex

	SubmitResponses map[string][]byte
	SubmitErrors    map[string]error
	PollResponses   map[string][]byte // nil entry means still pending
	PollErrors      map[string]error
}

// NewMockCalendarServer returns an empty MockCalendarServer.
func NewMockCalendarServer() *MockCalendarServer {
	return &MockCalendarServer{
		SubmitResponses: make(map[string][]byte),
		SubmitErrors:    make(map[string]error),
		PollResponses:   make(map[string][]byte),
		PollErrors:      make(map[string]error),
	}
}

// Submit implements ots.CalendarServer.
func (m *MockCalendarServer) Submit(_ context.Context, server string, _ []byte) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.SubmitErrors[server]; err != nil {
		return nil, err
	}
	return m.SubmitResponses[server], nil
}

// Poll implements ots.CalendarServer.
func (m *MockCalendarServer) Poll(_ context.Context, uri string, _ []byte) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.PollErrors[uri]; err != nil {
		return nil, err
	}
	body, ok := m.PollResponses[uri]
	if !ok {
		return nil, nil // still pending
	}
	return body, nil
}
