package postgres

import (
	"context"
	"fmt"
)

// ChangeChannel is the NOTIFY channel written on every record mutation.
// The payload is the record kind.
const ChangeChannel = "records_changed"

const schemaSQL = `
CREATE TABLE IF NOT EXISTS records (
	kind       TEXT        NOT NULL,
	id         UUID        NOT NULL,
	data       JSONB       NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	PRIMARY KEY (kind, id)
);

CREATE TABLE IF NOT EXISTS sys_sequences (
	key           TEXT        PRIMARY KEY,
	current_value BIGINT      NOT NULL,
	updated_at    TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS sys_idempotency (
	idempotency_key       TEXT        PRIMARY KEY,
	operation             TEXT        NOT NULL,
	status                TEXT        NOT NULL,
	request_hash          TEXT        NOT NULL,
	response              BYTEA,
	response_status       INT         NOT NULL DEFAULT 0,
	response_content_type TEXT        NOT NULL DEFAULT '',
	created_at            TIMESTAMPTZ NOT NULL,
	updated_at            TIMESTAMPTZ NOT NULL,
	expires_at            TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_sys_idempotency_expires ON sys_idempotency (expires_at);
`

// EnsureSchema creates the tables used by this package when missing.
func EnsureSchema(ctx context.Context, pool *Pool) error {
	if _, err := pool.Exec(ctx, schemaSQL); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}
