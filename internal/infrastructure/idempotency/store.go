// Package idempotency remembers the outcome of mutating requests so that a
// retried request carrying the same key is answered from the record instead
// of being applied twice.
package idempotency

import (
	"context"
	"net/http"
	"time"

	"repairdesk/internal/core/apperror"
)

// Status is the state of a key.
type Status string

const (
	StatusPending Status = "pending"
	StatusSuccess Status = "success"
	StatusFailed  Status = "failed"
)

// PendingTimeout is how long a pending key blocks retries before it is
// treated as abandoned (crashed request) and reclaimed.
const PendingTimeout = time.Minute

// Replay is a stored HTTP response.
type Replay struct {
	StatusCode  int
	ContentType string
	Body        []byte
}

// Record is the stored state of one key.
type Record struct {
	Operation   string
	Status      Status
	RequestHash string
	Response    []byte
	StatusCode  int
	ContentType string
	UpdatedAt   time.Time
	ExpiresAt   time.Time
}

// Store persists idempotency keys.
type Store interface {
	// Acquire claims key for the request. It returns (nil, nil) when the
	// caller should proceed, a Replay when the request already finished,
	// or an error when the key is busy or was used for another request.
	Acquire(ctx context.Context, key, operation, requestHash string) (*Replay, error)

	// Complete stores the final response for key.
	Complete(ctx context.Context, key string, status Status, resp Replay) error

	// Release forgets a pending key so the request can be retried.
	Release(ctx context.Context, key string) error
}

// Resolve decides what to do with an existing, unexpired record.
// stale is true when a pending record was abandoned and may be reclaimed.
func Resolve(key string, rec Record, operation, requestHash string, now time.Time) (replay *Replay, stale bool, err error) {
	if rec.Operation != operation || rec.RequestHash != requestHash {
		return nil, false, apperror.NewIdempotencyMismatch(key).
			WithDetail("stored_operation", rec.Operation).
			WithDetail("request_operation", operation)
	}

	switch rec.Status {
	case StatusSuccess, StatusFailed:
		return &Replay{
			StatusCode:  normalizeStatus(rec.StatusCode),
			ContentType: normalizeContentType(rec.ContentType),
			Body:        rec.Response,
		}, false, nil
	case StatusPending:
		if now.Sub(rec.UpdatedAt) > PendingTimeout {
			return nil, true, nil
		}
	}
	return nil, false, apperror.NewIdempotencyConflict(key)
}

func normalizeStatus(code int) int {
	if code < 100 || code > 599 {
		return http.StatusOK
	}
	return code
}

func normalizeContentType(ct string) string {
	if ct == "" {
		return "application/json; charset=utf-8"
	}
	return ct
}
