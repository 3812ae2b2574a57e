// Package domain provides the store contract shared by every record kind.
package domain

import (
	"context"

	"repairdesk/internal/core/entity"
	"repairdesk/internal/core/id"
)

// Patch mutates a copy of a stored record. The store keeps the id fixed.
type Patch[T any] func(record *T)

// RecordStore is the CRUD collection backing one entity kind.
//
// GetAll returns a snapshot taken at call time: later mutations are not
// visible through it and mutating it does not touch the store.
type RecordStore[T entity.Record[T]] interface {
	// GetAll returns every record in insertion order.
	GetAll(ctx context.Context) ([]T, error)

	// Create assigns a new id, stores the record and returns it.
	Create(ctx context.Context, data T) (T, error)

	// Update applies patch to the record with the given id.
	Update(ctx context.Context, recordID id.ID, patch Patch[T]) error

	// Delete removes the record with the given id.
	Delete(ctx context.Context, recordID id.ID) error
}

// Importer is implemented by stores that can bulk-load records keeping
// their ids. Used by the seeder so references between kinds survive.
type Importer[T entity.Record[T]] interface {
	Import(ctx context.Context, records []T) (int64, error)
}

// Versioned is implemented by stores that can report a monotonically
// increasing mutation counter. Used for snapshot memoization.
type Versioned interface {
	Version() uint64
}

// FindByID returns the record with the given id from a snapshot.
func FindByID[T entity.Record[T]](snapshot []T, recordID id.ID) (T, bool) {
	for _, r := range snapshot {
		if r.GetID() == recordID {
			return r, true
		}
	}
	var zero T
	return zero, false
}

// IndexByID builds an id lookup over a snapshot.
func IndexByID[T entity.Record[T]](snapshot []T) map[id.ID]T {
	out := make(map[id.ID]T, len(snapshot))
	for _, r := range snapshot {
		out[r.GetID()] = r
	}
	return out
}

// Memo caches one derived value per store version. A value computed for
// version v is never returned for any other version.
type Memo[V any] interface {
	Get(version uint64, compute func() (V, error)) (V, error)
}
