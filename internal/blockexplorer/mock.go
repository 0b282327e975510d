package blockexplorer

import (
	"context"
	"fmt"
	"sync"

	ots "github.com/djkazic/ots-go"
)

// Mock implements ots.BlockLookup for testing, keyed by block height.
type Mock struct {
	mu sync.Mutex

	Blocks map[uint64]ots.BlockInfo
	Err    error
}

// NewMock returns an empty Mock.
func NewMock() *Mock {
	return &Mock{Blocks: make(map[uint64]ots.BlockInfo)}
}

// Add registers a block to be returned for height.
func (m *Mock) Add(height uint64, info ots.BlockInfo) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Blocks[height] = info
}

// BlockByHeight implements ots.BlockLookup.
func (m *Mock) BlockByHeight(_ context.Context, height uint64) (ots.BlockInfo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return ots.BlockInfo{}, m.Err
	}
	info, ok := m.Blocks[height]
	if !ok {
		return ots.BlockInfo{}, &NotFoundError{Height: height}
	}
	return info, nil
}

// NotFoundError is returned by Mock when no block is registered for a
// requested height.
type NotFoundError struct {
	Height uint64
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("blockexplorer: no mock block registered for height %d", e.Height)
}
