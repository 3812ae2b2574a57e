package repairs

import (
	"context"
	"fmt"
	"time"

	"repairdesk/internal/core/apperror"
	"repairdesk/internal/core/id"
	"repairdesk/internal/domain"
	"repairdesk/internal/domain/timewindow"
	"repairdesk/pkg/logger"
)

// NameSource resolves the display name of a referenced record.
// A record that no longer exists is reported with found=false, not an error.
type NameSource interface {
	LookupName(ctx context.Context, recordID id.ID) (name string, found bool, err error)
}

// Service provides repair operations over an injected store.
// Every read works on a fresh snapshot.
type Service struct {
	store       domain.RecordStore[Repair]
	clients     NameSource
	technicians NameSource
	analytics   domain.Memo[Analytics] // Optional.
	now         func() time.Time
}

// Option configures a Service.
type Option func(*Service)

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithAnalyticsMemo caches lifetime analytics per store version.
// Ignored when the store does not implement domain.Versioned.
func WithAnalyticsMemo(m domain.Memo[Analytics]) Option {
	return func(s *Service) { s.analytics = m }
}

// NewService creates a repair service. clients and technicians may be nil,
// in which case names supplied by the caller are stored as is.
func NewService(store domain.RecordStore[Repair], clients, technicians NameSource, opts ...Option) *Service {
	s := &Service{
		store:       store,
		clients:     clients,
		technicians: technicians,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Snapshot returns every repair.
func (s *Service) Snapshot(ctx context.Context) ([]Repair, error) {
	snapshot, err := s.store.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list repairs: %w", err)
	}
	return snapshot, nil
}

// List returns the repairs matching q in q's order.
func (s *Service) List(ctx context.Context, q Query) ([]Repair, error) {
	snapshot, err := s.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return Apply(snapshot, q), nil
}

// Get returns a single repair.
func (s *Service) Get(ctx context.Context, repairID id.ID) (Repair, error) {
	snapshot, err := s.Snapshot(ctx)
	if err != nil {
		return Repair{}, err
	}
	r, ok := domain.FindByID(snapshot, repairID)
	if !ok {
		return Repair{}, apperror.NewNotFound("repair", repairID)
	}
	return r, nil
}

// Create stores a new repair with denormalized names resolved.
func (s *Service) Create(ctx context.Context, r Repair) (Repair, error) {
	names, err := s.resolveNames(ctx, r)
	if err != nil {
		return Repair{}, err
	}

	prepared := PrepareCreate(r, names, s.now())
	if err := prepared.Validate(ctx); err != nil {
		return Repair{}, err
	}

	created, err := s.store.Create(ctx, prepared)
	if err != nil {
		return Repair{}, fmt.Errorf("create repair: %w", err)
	}

	logger.Info(ctx, "repair created",
		"id", created.ID,
		"status", created.Status,
		"priority", created.Priority)

	return created, nil
}

// Update replaces the editable fields of a repair.
func (s *Service) Update(ctx context.Context, repairID id.ID, edit Repair) (Repair, error) {
	current, err := s.Get(ctx, repairID)
	if err != nil {
		return Repair{}, err
	}

	names, err := s.resolveNames(ctx, edit)
	if err != nil {
		return Repair{}, err
	}

	now := s.now()
	merged := ApplyEdit(current, edit, names, now)
	if err := merged.Validate(ctx); err != nil {
		return Repair{}, err
	}

	err = s.store.Update(ctx, repairID, func(stored *Repair) {
		*stored = ApplyEdit(*stored, edit, names, now)
	})
	if err != nil {
		return Repair{}, fmt.Errorf("update repair: %w", err)
	}

	logger.Info(ctx, "repair updated", "id", repairID, "status", merged.Status)
	return merged, nil
}

// ChangeStatus moves a repair to status.
func (s *Service) ChangeStatus(ctx context.Context, repairID id.ID, status Status) (Repair, error) {
	if !status.Valid() {
		return Repair{}, apperror.NewFieldValidation("status", "unknown status").
			WithDetail("value", status)
	}

	current, err := s.Get(ctx, repairID)
	if err != nil {
		return Repair{}, err
	}

	now := s.now()
	err = s.store.Update(ctx, repairID, func(stored *Repair) {
		*stored = ApplyStatusChange(*stored, status, now)
	})
	if err != nil {
		return Repair{}, fmt.Errorf("change repair status: %w", err)
	}

	logger.Info(ctx, "repair status changed",
		"id", repairID,
		"from", current.Status,
		"to", status)

	return ApplyStatusChange(current, status, now), nil
}

// Delete removes a repair.
func (s *Service) Delete(ctx context.Context, repairID id.ID) error {
	if err := s.store.Delete(ctx, repairID); err != nil {
		return fmt.Errorf("delete repair: %w", err)
	}
	logger.Info(ctx, "repair deleted", "id", repairID)
	return nil
}

// Stats computes windowed counters for range r.
func (s *Service) Stats(ctx context.Context, r timewindow.Range) (Stats, error) {
	w, err := timewindow.Resolve(r, s.now())
	if err != nil {
		return Stats{}, err
	}
	snapshot, err := s.Snapshot(ctx)
	if err != nil {
		return Stats{}, err
	}
	return ComputeStats(snapshot, w), nil
}

// Analytics computes the lifetime view, memoized by store version when possible.
func (s *Service) Analytics(ctx context.Context) (Analytics, error) {
	compute := func() (Analytics, error) {
		snapshot, err := s.Snapshot(ctx)
		if err != nil {
			return Analytics{}, err
		}
		return ComputeAnalytics(snapshot), nil
	}

	versioned, ok := s.store.(domain.Versioned)
	if s.analytics == nil || !ok {
		return compute()
	}
	// The version is read before the snapshot so a concurrent write can only
	// make the cached value newer than its key, never older.
	return s.analytics.Get(versioned.Version(), compute)
}

// Board groups the repairs matching q into kanban columns.
func (s *Service) Board(ctx context.Context, q Query) ([]Column, error) {
	repairs, err := s.List(ctx, q)
	if err != nil {
		return nil, err
	}
	return GroupByStatus(repairs), nil
}

// Timeline returns at most limit repairs matching f, newest first.
func (s *Service) Timeline(ctx context.Context, f Filter, limit int) ([]Repair, error) {
	repairs, err := s.List(ctx, Query{Filter: f})
	if err != nil {
		return nil, err
	}
	return Recent(repairs, limit), nil
}

// resolveNames looks up both names. Without a source the incoming names are kept.
func (s *Service) resolveNames(ctx context.Context, r Repair) (Names, error) {
	names := Names{Client: r.ClientName, Technician: r.TechnicianName}

	if s.clients != nil {
		names.Client = ""
		name, found, err := s.clients.LookupName(ctx, r.ClientID)
		if err != nil {
			return Names{}, fmt.Errorf("resolve client: %w", err)
		}
		if found {
			names.Client = name
		}
	}

	if s.technicians != nil {
		names.Technician = nil
		if r.Assigned() {
			name, found, err := s.technicians.LookupName(ctx, *r.TechnicianID)
			if err != nil {
				return Names{}, fmt.Errorf("resolve technician: %w", err)
			}
			if found {
				names.Technician = &name
			}
		}
	}

	return names, nil
}
