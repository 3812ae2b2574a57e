// Package memory provides a RecordStore kept in process memory.
// Used for development, demos and as the fixture store in tests.
package memory

import (
	"context"
	"sync"

	"repairdesk/internal/core/apperror"
	"repairdesk/internal/core/entity"
	"repairdesk/internal/core/id"
	"repairdesk/internal/domain"
)

// Store is a slice-backed RecordStore preserving insertion order.
// Records are cloned on the way in and out.
type Store[T entity.Record[T]] struct {
	kind string

	mu      sync.RWMutex
	records []T
	index   map[id.ID]int
	version uint64
}

// New creates an empty store. kind names the entity in NotFound errors.
func New[T entity.Record[T]](kind string) *Store[T] {
	return &Store[T]{
		kind:  kind,
		index: make(map[id.ID]int),
	}
}

// NewWith creates a store holding records as given. Records without an id get one.
func NewWith[T entity.Record[T]](kind string, records ...T) *Store[T] {
	s := New[T](kind)
	for _, r := range records {
		if id.IsNil(r.GetID()) {
			r = r.WithID(id.New())
		}
		s.put(r.Clone())
	}
	return s
}

// GetAll implements domain.RecordStore.
func (s *Store[T]) GetAll(_ context.Context) ([]T, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]T, len(s.records))
	for i, r := range s.records {
		out[i] = r.Clone()
	}
	return out, nil
}

// Create implements domain.RecordStore.
func (s *Store[T]) Create(ctx context.Context, data T) (T, error) {
	if err := ctx.Err(); err != nil {
		var zero T
		return zero, err
	}

	record := data.WithID(id.New())

	s.mu.Lock()
	defer s.mu.Unlock()

	s.put(record)
	s.version++
	return record.Clone(), nil
}

// Update implements domain.RecordStore.
func (s *Store[T]) Update(ctx context.Context, recordID id.ID, patch domain.Patch[T]) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	i, ok := s.index[recordID]
	if !ok {
		return apperror.NewNotFound(s.kind, recordID)
	}

	next := s.records[i].Clone()
	patch(&next)
	s.records[i] = next.WithID(recordID)
	s.version++
	return nil
}

// Delete implements domain.RecordStore.
func (s *Store[T]) Delete(ctx context.Context, recordID id.ID) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	i, ok := s.index[recordID]
	if !ok {
		return apperror.NewNotFound(s.kind, recordID)
	}

	s.records = append(s.records[:i], s.records[i+1:]...)
	delete(s.index, recordID)
	for j := i; j < len(s.records); j++ {
		s.index[s.records[j].GetID()] = j
	}
	s.version++
	return nil
}

// Import implements domain.Importer. Records keep their ids; an existing
// id is overwritten.
func (s *Store[T]) Import(ctx context.Context, records []T) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, r := range records {
		if id.IsNil(r.GetID()) {
			r = r.WithID(id.New())
		}
		s.put(r.Clone())
	}
	s.version++
	return int64(len(records)), nil
}

// Version implements domain.Versioned.
func (s *Store[T]) Version() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.version
}

// Len returns the number of stored records.
func (s *Store[T]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

// put appends or replaces r. Caller holds the write lock.
func (s *Store[T]) put(r T) {
	if i, ok := s.index[r.GetID()]; ok {
		s.records[i] = r
		return
	}
	s.index[r.GetID()] = len(s.records)
	s.records = append(s.records, r)
}
