package numerator

import (
	"context"
	"sync"
)

// MemorySequencer keeps counters in process memory.
type MemorySequencer struct {
	mu       sync.Mutex
	counters map[string]int64
}

var _ Sequencer = (*MemorySequencer)(nil)

// NewMemorySequencer creates an empty sequencer.
func NewMemorySequencer() *MemorySequencer {
	return &MemorySequencer{counters: make(map[string]int64)}
}

// Reserve implements Sequencer.
func (m *MemorySequencer) Reserve(ctx context.Context, key string, n int64) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.counters[key] += n
	return m.counters[key], nil
}

// Set implements Sequencer.
func (m *MemorySequencer) Set(ctx context.Context, key string, value int64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	m.counters[key] = value
	m.mu.Unlock()
	return nil
}

// Current returns the counter value for key.
func (m *MemorySequencer) Current(key string) int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.counters[key]
}
