// Package dto provides Data Transfer Objects for API requests/responses.
package dto

import (
	"repairdesk/internal/core/apperror"
	"repairdesk/internal/core/id"
)

// ListResponse wraps list results.
type ListResponse[T any] struct {
	Items      []T `json:"items"`
	TotalCount int `json:"totalCount"`
}

// NewListResponse wraps items, never rendering null.
func NewListResponse[T any](items []T) ListResponse[T] {
	if items == nil {
		items = []T{}
	}
	return ListResponse[T]{Items: items, TotalCount: len(items)}
}

// IDResponse contains created entity ID.
type IDResponse struct {
	ID string `json:"id"`
}

// ParseID parses a mandatory id field of a request body.
func ParseID(field, s string) (id.ID, error) {
	v, err := id.Parse(s)
	if err != nil {
		return id.Nil(), apperror.NewFieldValidation(field, "invalid id format").
			WithDetail("value", s)
	}
	return v, nil
}

// ParseOptionalID parses an optional id field. Nil and "" mean unset.
func ParseOptionalID(field string, s *string) (*id.ID, error) {
	if s == nil || *s == "" {
		return nil, nil
	}
	v, err := ParseID(field, *s)
	if err != nil {
		return nil, err
	}
	return &v, nil
}
