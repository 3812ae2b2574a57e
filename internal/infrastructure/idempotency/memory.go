package idempotency

import (
	"context"
	"sync"
	"time"
)

var _ Store = (*MemoryStore)(nil)

// MemoryStore keeps keys in process memory. Keys survive until expiry or restart.
type MemoryStore struct {
	ttl time.Duration
	now func() time.Time

	mu   sync.Mutex
	keys map[string]Record
}

// NewMemoryStore creates a store whose keys expire after ttl.
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{ttl: ttl, now: time.Now, keys: make(map[string]Record)}
}

// Acquire implements Store.
func (s *MemoryStore) Acquire(_ context.Context, key, operation, requestHash string) (*Replay, error) {
	now := s.now()

	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.keys[key]
	if ok && rec.ExpiresAt.After(now) {
		replay, stale, err := Resolve(key, rec, operation, requestHash, now)
		if err != nil || !stale {
			return replay, err
		}
	}

	s.keys[key] = Record{
		Operation:   operation,
		Status:      StatusPending,
		RequestHash: requestHash,
		UpdatedAt:   now,
		ExpiresAt:   now.Add(s.ttl),
	}
	return nil, nil
}

// Complete implements Store.
func (s *MemoryStore) Complete(_ context.Context, key string, status Status, resp Replay) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.keys[key]
	if !ok {
		return nil
	}
	rec.Status = status
	rec.StatusCode = resp.StatusCode
	rec.ContentType = resp.ContentType
	rec.Response = append([]byte(nil), resp.Body...)
	rec.UpdatedAt = s.now()
	s.keys[key] = rec
	return nil
}

// Release implements Store.
func (s *MemoryStore) Release(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if rec, ok := s.keys[key]; ok && rec.Status == StatusPending {
		delete(s.keys, key)
	}
	return nil
}

// PurgeExpired drops expired keys.
func (s *MemoryStore) PurgeExpired(_ context.Context) (int64, error) {
	now := s.now()

	s.mu.Lock()
	defer s.mu.Unlock()

	var n int64
	for k, rec := range s.keys {
		if !rec.ExpiresAt.After(now) {
			delete(s.keys, k)
			n++
		}
	}
	return n, nil
}
