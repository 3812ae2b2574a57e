package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"sync/atomic"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"repairdesk/internal/core/apperror"
	"repairdesk/internal/core/entity"
	"repairdesk/internal/core/id"
	"repairdesk/internal/domain"
)

const recordsTable = "records"

// RecordStore keeps one entity kind in the shared records table.
// Rows are ordered by id; UUIDv7 ids make that insertion order.
type RecordStore[T entity.Record[T]] struct {
	kind      string
	txManager *TxManager

	// version counts writes seen by this process: its own and those
	// reported by a ChangeListener for the same kind.
	version atomic.Uint64
}

// NewRecordStore creates a store for kind.
func NewRecordStore[T entity.Record[T]](kind string, txManager *TxManager) *RecordStore[T] {
	return &RecordStore[T]{kind: kind, txManager: txManager}
}

type recordRow struct {
	ID   id.ID  `db:"id"`
	Data []byte `db:"data"`
}

func builder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

// GetAll implements domain.RecordStore.
func (s *RecordStore[T]) GetAll(ctx context.Context) ([]T, error) {
	ctx, span := s.span(ctx, "GetAll")
	defer span.End()

	sql, args, err := builder().
		Select("id", "data").
		From(recordsTable).
		Where(squirrel.Eq{"kind": s.kind}).
		OrderBy("id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select: %w", err)
	}

	var rows []recordRow
	if err := pgxscan.Select(ctx, s.txManager.GetQuerier(ctx), &rows, sql, args...); err != nil {
		span.RecordError(err)
		return nil, apperror.NewDatabase(fmt.Errorf("select %s: %w", s.kind, err))
	}

	out := make([]T, 0, len(rows))
	for _, row := range rows {
		record, err := s.decode(row)
		if err != nil {
			return nil, err
		}
		out = append(out, record)
	}
	span.SetAttributes(attribute.Int("records.count", len(out)))
	return out, nil
}

// Create implements domain.RecordStore.
func (s *RecordStore[T]) Create(ctx context.Context, data T) (T, error) {
	ctx, span := s.span(ctx, "Create")
	defer span.End()

	var zero T
	record := data.WithID(id.New())
	payload, err := json.Marshal(record)
	if err != nil {
		return zero, fmt.Errorf("marshal %s: %w", s.kind, err)
	}

	sql, args, err := builder().
		Insert(recordsTable).
		Columns("kind", "id", "data").
		Values(s.kind, record.GetID(), payload).
		ToSql()
	if err != nil {
		return zero, fmt.Errorf("build insert: %w", err)
	}

	err = s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		q := s.txManager.GetQuerier(ctx)
		if _, err := q.Exec(ctx, sql, args...); err != nil {
			return apperror.NewDatabase(fmt.Errorf("insert %s: %w", s.kind, err))
		}
		return s.notify(ctx, q)
	})
	if err != nil {
		span.RecordError(err)
		return zero, err
	}

	s.version.Add(1)
	return record, nil
}

// Update implements domain.RecordStore. The row is locked while patch runs.
func (s *RecordStore[T]) Update(ctx context.Context, recordID id.ID, patch domain.Patch[T]) error {
	ctx, span := s.span(ctx, "Update")
	defer span.End()

	selectSQL, selectArgs, err := builder().
		Select("id", "data").
		From(recordsTable).
		Where(squirrel.Eq{"kind": s.kind, "id": recordID}).
		Suffix("FOR UPDATE").
		ToSql()
	if err != nil {
		return fmt.Errorf("build select: %w", err)
	}

	err = s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		q := s.txManager.GetQuerier(ctx)

		var row recordRow
		if err := pgxscan.Get(ctx, q, &row, selectSQL, selectArgs...); err != nil {
			if pgxscan.NotFound(err) {
				return apperror.NewNotFound(s.kind, recordID)
			}
			return apperror.NewDatabase(fmt.Errorf("lock %s: %w", s.kind, err))
		}

		current, err := s.decode(row)
		if err != nil {
			return err
		}
		patch(&current)
		next := current.WithID(recordID)

		payload, err := json.Marshal(next)
		if err != nil {
			return fmt.Errorf("marshal %s: %w", s.kind, err)
		}

		updateSQL, updateArgs, err := builder().
			Update(recordsTable).
			Set("data", payload).
			Set("updated_at", squirrel.Expr("now()")).
			Where(squirrel.Eq{"kind": s.kind, "id": recordID}).
			ToSql()
		if err != nil {
			return fmt.Errorf("build update: %w", err)
		}
		if _, err := q.Exec(ctx, updateSQL, updateArgs...); err != nil {
			return apperror.NewDatabase(fmt.Errorf("update %s: %w", s.kind, err))
		}
		return s.notify(ctx, q)
	})
	if err != nil {
		span.RecordError(err)
		return err
	}

	s.version.Add(1)
	return nil
}

// Delete implements domain.RecordStore.
func (s *RecordStore[T]) Delete(ctx context.Context, recordID id.ID) error {
	ctx, span := s.span(ctx, "Delete")
	defer span.End()

	sql, args, err := builder().
		Delete(recordsTable).
		Where(squirrel.Eq{"kind": s.kind, "id": recordID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete: %w", err)
	}

	err = s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		q := s.txManager.GetQuerier(ctx)
		tag, err := q.Exec(ctx, sql, args...)
		if err != nil {
			return apperror.NewDatabase(fmt.Errorf("delete %s: %w", s.kind, err))
		}
		if tag.RowsAffected() == 0 {
			return apperror.NewNotFound(s.kind, recordID)
		}
		return s.notify(ctx, q)
	})
	if err != nil {
		span.RecordError(err)
		return err
	}

	s.version.Add(1)
	return nil
}

// Version implements domain.Versioned.
func (s *RecordStore[T]) Version() uint64 {
	return s.version.Load()
}

// Invalidate records a write made elsewhere. Wired to a ChangeListener.
func (s *RecordStore[T]) Invalidate() {
	s.version.Add(1)
}

func (s *RecordStore[T]) decode(row recordRow) (T, error) {
	var record T
	if err := json.Unmarshal(row.Data, &record); err != nil {
		return record, fmt.Errorf("decode %s %s: %w", s.kind, row.ID, err)
	}
	return record.WithID(row.ID), nil
}

func (s *RecordStore[T]) notify(ctx context.Context, q Querier) error {
	if _, err := q.Exec(ctx, "SELECT pg_notify($1, $2)", ChangeChannel, s.kind); err != nil {
		return apperror.NewDatabase(fmt.Errorf("notify %s: %w", s.kind, err))
	}
	return nil
}

func (s *RecordStore[T]) span(ctx context.Context, op string) (context.Context, trace.Span) {
	return tracer.Start(ctx, "records."+op,
		trace.WithAttributes(attribute.String("records.kind", s.kind)))
}
