package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"

	"repairdesk/internal/core/apperror"
	"repairdesk/internal/core/id"
)

// Import bulk-loads records with the COPY protocol, keeping their ids.
// Records without an id get a fresh one. Used by the seeder.
func (s *RecordStore[T]) Import(ctx context.Context, records []T) (int64, error) {
	ctx, span := s.span(ctx, "Import")
	defer span.End()

	rows := make([][]any, 0, len(records))
	for _, r := range records {
		if id.IsNil(r.GetID()) {
			r = r.WithID(id.New())
		}
		payload, err := json.Marshal(r)
		if err != nil {
			return 0, fmt.Errorf("marshal %s: %w", s.kind, err)
		}
		rows = append(rows, []any{s.kind, r.GetID(), payload})
	}

	var copied int64
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		tx := s.txManager.GetTx(ctx)
		if tx == nil {
			return fmt.Errorf("import requires transaction context")
		}

		n, err := tx.CopyFrom(ctx, pgx.Identifier{recordsTable}, []string{"kind", "id", "data"}, pgx.CopyFromRows(rows))
		if err != nil {
			return apperror.NewDatabase(fmt.Errorf("copy %s: %w", s.kind, err))
		}
		copied = n
		return s.notify(ctx, tx)
	})
	if err != nil {
		span.RecordError(err)
		return 0, err
	}

	s.version.Add(1)
	return copied, nil
}
