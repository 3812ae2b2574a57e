// Package cache provides derived-value caching keyed by store version and
// cross-instance change notification over PostgreSQL LISTEN/NOTIFY.
package cache

import (
	"sync"

	"repairdesk/internal/domain"
)

// SnapshotMemo keeps the value computed for the most recent store version.
// A lookup for any other version recomputes. Concurrent misses for the same
// version may compute more than once; the last result wins.
type SnapshotMemo[V any] struct {
	mu      sync.RWMutex
	version uint64
	value   V
	valid   bool

	hits   uint64
	misses uint64
}

var _ domain.Memo[struct{}] = (*SnapshotMemo[struct{}])(nil)

// NewSnapshotMemo creates an empty memo.
func NewSnapshotMemo[V any]() *SnapshotMemo[V] {
	return &SnapshotMemo[V]{}
}

// Get implements domain.Memo. Errors are returned and never cached.
func (m *SnapshotMemo[V]) Get(version uint64, compute func() (V, error)) (V, error) {
	m.mu.RLock()
	if m.valid && m.version == version {
		v := m.value
		m.mu.RUnlock()
		m.count(true)
		return v, nil
	}
	m.mu.RUnlock()
	m.count(false)

	v, err := compute()
	if err != nil {
		var zero V
		return zero, err
	}

	m.mu.Lock()
	// Never replace a newer entry with an older one.
	if !m.valid || version >= m.version {
		m.version, m.value, m.valid = version, v, true
	}
	m.mu.Unlock()
	return v, nil
}

// Invalidate drops the cached value.
func (m *SnapshotMemo[V]) Invalidate() {
	m.mu.Lock()
	m.valid = false
	m.mu.Unlock()
}

// MemoStats reports memo effectiveness.
type MemoStats struct {
	Hits   uint64 `json:"hits"`
	Misses uint64 `json:"misses"`
}

// Stats returns hit/miss counters.
func (m *SnapshotMemo[V]) Stats() MemoStats {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return MemoStats{Hits: m.hits, Misses: m.misses}
}

func (m *SnapshotMemo[V]) count(hit bool) {
	m.mu.Lock()
	if hit {
		m.hits++
	} else {
		m.misses++
	}
	m.mu.Unlock()
}
