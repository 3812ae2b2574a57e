// Package id provides UUIDv7 identifiers for every record kind.
// UUIDv7 is time-ordered, so sorting by id follows creation order.
package id

import (
	"github.com/google/uuid"
)

// ID is the identifier type shared by all records.
type ID = uuid.UUID

// New generates a new UUIDv7.
func New() ID {
	v, err := uuid.NewV7()
	if err != nil {
		return uuid.New()
	}
	return v
}

// Parse converts string to ID with validation.
func Parse(s string) (ID, error) {
	return uuid.Parse(s)
}

// MustParse converts string to ID, panics on error.
// Use only for constants and tests.
func MustParse(s string) ID {
	return uuid.MustParse(s)
}

// Nil returns zero-value UUID.
func Nil() ID {
	return uuid.Nil
}

// IsNil checks if ID is zero-value.
func IsNil(v ID) bool {
	return v == uuid.Nil
}

// Ptr returns a pointer to a copy of v. Used for optional references.
func Ptr(v ID) *ID {
	return &v
}

// PtrEqual reports whether an optional reference points at v.
func PtrEqual(ref *ID, v ID) bool {
	return ref != nil && *ref == v
}

// IsUnset reports whether an optional reference is absent or nil-valued.
func IsUnset(ref *ID) bool {
	return ref == nil || *ref == uuid.Nil
}
