package postgres

import (
	"context"
	"fmt"
	"time"

	"repairdesk/internal/core/apperror"
	"repairdesk/internal/infrastructure/idempotency"
)

var _ idempotency.Store = (*IdempotencyStore)(nil)

// IdempotencyStore keeps idempotency keys in sys_idempotency so retries
// are recognized across instances.
type IdempotencyStore struct {
	txManager *TxManager
	ttl       time.Duration
	now       func() time.Time
}

// NewIdempotencyStore creates a new idempotency store.
func NewIdempotencyStore(txManager *TxManager, ttl time.Duration) *IdempotencyStore {
	return &IdempotencyStore{txManager: txManager, ttl: ttl, now: time.Now}
}

// Acquire implements idempotency.Store.
func (s *IdempotencyStore) Acquire(ctx context.Context, key, operation, requestHash string) (*idempotency.Replay, error) {
	now := s.now().UTC()
	expiresAt := now.Add(s.ttl)
	q := s.txManager.GetQuerier(ctx)

	var (
		rec      idempotency.Record
		inserted bool
	)
	err := q.QueryRow(ctx, `
		INSERT INTO sys_idempotency (idempotency_key, operation, status, request_hash, created_at, updated_at, expires_at)
		VALUES ($1, $2, $3, $4, $5, $5, $6)
		ON CONFLICT (idempotency_key) DO UPDATE SET
			updated_at = sys_idempotency.updated_at
		RETURNING operation, status, request_hash, response, response_status, response_content_type, updated_at, expires_at, (xmax = 0)
	`, key, operation, idempotency.StatusPending, requestHash, now, expiresAt).Scan(
		&rec.Operation, &rec.Status, &rec.RequestHash,
		&rec.Response, &rec.StatusCode, &rec.ContentType,
		&rec.UpdatedAt, &rec.ExpiresAt, &inserted,
	)
	if err != nil {
		return nil, apperror.NewDatabase(fmt.Errorf("acquire idempotency key: %w", err))
	}
	if inserted {
		return nil, nil
	}

	if rec.ExpiresAt.Before(now) {
		return nil, s.reset(ctx, key, operation, requestHash, now, expiresAt)
	}

	replay, stale, err := idempotency.Resolve(key, rec, operation, requestHash, now)
	if err != nil {
		return nil, err
	}
	if stale {
		return nil, s.reset(ctx, key, operation, requestHash, now, expiresAt)
	}
	return replay, nil
}

// reset reclaims an expired or abandoned key for the current request.
func (s *IdempotencyStore) reset(ctx context.Context, key, operation, requestHash string, now, expiresAt time.Time) error {
	_, err := s.txManager.GetQuerier(ctx).Exec(ctx, `
		UPDATE sys_idempotency
		SET operation = $2, status = $3, request_hash = $4, response = NULL,
		    response_status = 0, response_content_type = '', updated_at = $5, expires_at = $6
		WHERE idempotency_key = $1
	`, key, operation, idempotency.StatusPending, requestHash, now, expiresAt)
	if err != nil {
		return apperror.NewDatabase(fmt.Errorf("reclaim idempotency key: %w", err))
	}
	return nil
}

// Complete implements idempotency.Store.
func (s *IdempotencyStore) Complete(ctx context.Context, key string, status idempotency.Status, resp idempotency.Replay) error {
	_, err := s.txManager.GetQuerier(ctx).Exec(ctx, `
		UPDATE sys_idempotency
		SET status = $2,
		    response = $3,
		    response_status = $4,
		    response_content_type = $5,
		    updated_at = $6
		WHERE idempotency_key = $1
	`, key, status, resp.Body, resp.StatusCode, resp.ContentType, s.now().UTC())
	if err != nil {
		return apperror.NewDatabase(fmt.Errorf("complete idempotency key: %w", err))
	}
	return nil
}

// Release implements idempotency.Store.
func (s *IdempotencyStore) Release(ctx context.Context, key string) error {
	_, err := s.txManager.GetQuerier(ctx).Exec(ctx,
		`DELETE FROM sys_idempotency WHERE idempotency_key = $1 AND status = $2`,
		key, idempotency.StatusPending)
	if err != nil {
		return apperror.NewDatabase(fmt.Errorf("release idempotency key: %w", err))
	}
	return nil
}

// PurgeExpired deletes keys past their expiry. Returns the number removed.
func (s *IdempotencyStore) PurgeExpired(ctx context.Context) (int64, error) {
	tag, err := s.txManager.GetQuerier(ctx).Exec(ctx,
		`DELETE FROM sys_idempotency WHERE expires_at < $1`, s.now().UTC())
	if err != nil {
		return 0, apperror.NewDatabase(fmt.Errorf("purge idempotency keys: %w", err))
	}
	return tag.RowsAffected(), nil
}
