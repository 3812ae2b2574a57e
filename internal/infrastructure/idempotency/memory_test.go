package idempotency

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"repairdesk/internal/core/apperror"
)

func newTestStore(at *time.Time) *MemoryStore {
	s := NewMemoryStore(time.Hour)
	s.now = func() time.Time { return *at }
	return s
}

func TestMemoryStore_ReplaysCompletedRequest(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 10, 14, 12, 0, 0, 0, time.UTC)
	s := newTestStore(&now)

	replay, err := s.Acquire(ctx, "k1", "POST /movements", "h1")
	require.NoError(t, err)
	assert.Nil(t, replay)

	require.NoError(t, s.Complete(ctx, "k1", StatusSuccess, Replay{
		StatusCode:  201,
		ContentType: "application/json",
		Body:        []byte(`{"ok":true}`),
	}))

	replay, err = s.Acquire(ctx, "k1", "POST /movements", "h1")
	require.NoError(t, err)
	require.NotNil(t, replay)
	assert.Equal(t, 201, replay.StatusCode)
	assert.JSONEq(t, `{"ok":true}`, string(replay.Body))
}

func TestMemoryStore_InFlightConflict(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 10, 14, 12, 0, 0, 0, time.UTC)
	s := newTestStore(&now)

	_, err := s.Acquire(ctx, "k1", "op", "h")
	require.NoError(t, err)

	_, err = s.Acquire(ctx, "k1", "op", "h")
	assert.True(t, apperror.HasCode(err, apperror.CodeIdempotencyConflict))

	now = now.Add(PendingTimeout + time.Second)
	replay, err := s.Acquire(ctx, "k1", "op", "h")
	require.NoError(t, err, "abandoned key is reclaimed")
	assert.Nil(t, replay)
}

func TestMemoryStore_Mismatch(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 10, 14, 12, 0, 0, 0, time.UTC)
	s := newTestStore(&now)

	_, err := s.Acquire(ctx, "k1", "op", "h1")
	require.NoError(t, err)

	_, err = s.Acquire(ctx, "k1", "op", "h2")
	assert.True(t, apperror.HasCode(err, apperror.CodeIdempotencyMismatch))
}

func TestMemoryStore_ReleaseAndExpiry(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 10, 14, 12, 0, 0, 0, time.UTC)
	s := newTestStore(&now)

	_, _ = s.Acquire(ctx, "k1", "op", "h")
	require.NoError(t, s.Release(ctx, "k1"))
	replay, err := s.Acquire(ctx, "k1", "op", "other")
	require.NoError(t, err)
	assert.Nil(t, replay)

	require.NoError(t, s.Complete(ctx, "k1", StatusFailed, Replay{StatusCode: 422}))
	now = now.Add(2 * time.Hour)

	n, err := s.PurgeExpired(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}
