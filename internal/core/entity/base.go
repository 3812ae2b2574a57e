// Package entity provides contracts shared by every record kind.
package entity

import (
	"context"
	"strings"

	"repairdesk/internal/core/apperror"
	"repairdesk/internal/core/id"
)

// Validatable is implemented by records that support self-validation.
// Validation checks the record shape only (no store access).
type Validatable interface {
	// Validate checks record invariants.
	// Returns nil if valid, AppError with details otherwise.
	Validate(ctx context.Context) error
}

// Record is a value-typed entity persisted through a RecordStore.
// WithID and Clone return copies; a stored value is never shared with callers.
type Record[T any] interface {
	Validatable

	// GetID returns the record identifier.
	GetID() id.ID

	// WithID returns a copy carrying the given identifier.
	WithID(id.ID) T

	// Clone returns a deep copy (slices included).
	Clone() T
}

// RequireText fails when a mandatory text field is blank.
func RequireText(field, value string) error {
	if strings.TrimSpace(value) == "" {
		return apperror.NewFieldValidation(field, field+" is required")
	}
	return nil
}

// RequireID fails when a mandatory reference is missing.
func RequireID(field string, v id.ID) error {
	if id.IsNil(v) {
		return apperror.NewFieldValidation(field, field+" is required")
	}
	return nil
}

// RequireNonNegative fails when a numeric field is below zero.
func RequireNonNegative(field string, v int64) error {
	if v < 0 {
		return apperror.NewFieldValidation(field, field+" must not be negative").
			WithDetail("value", v)
	}
	return nil
}
