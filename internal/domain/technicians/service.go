package technicians

import (
	"context"
	"fmt"
	"strings"
	"time"

	"repairdesk/internal/core/apperror"
	"repairdesk/internal/core/id"
	"repairdesk/internal/domain"
	"repairdesk/internal/domain/repairs"
	"repairdesk/pkg/logger"
)

// RepairSource supplies repair snapshots. Implemented by *repairs.Service.
type RepairSource interface {
	Snapshot(ctx context.Context) ([]repairs.Repair, error)
}

// Service provides roster operations and workload views.
type Service struct {
	store   domain.RecordStore[Technician]
	repairs RepairSource
	now     func() time.Time
}

// NewService creates a technician service. now defaults to time.Now.
func NewService(store domain.RecordStore[Technician], repairSource RepairSource, now func() time.Time) *Service {
	if now == nil {
		now = time.Now
	}
	return &Service{store: store, repairs: repairSource, now: now}
}

// Roster returns every technician.
func (s *Service) Roster(ctx context.Context) ([]Technician, error) {
	roster, err := s.store.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list technicians: %w", err)
	}
	return roster, nil
}

// Workloads joins the roster with a fresh repair snapshot.
func (s *Service) Workloads(ctx context.Context) ([]Workload, error) {
	roster, err := s.Roster(ctx)
	if err != nil {
		return nil, err
	}
	snapshot, err := s.repairs.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return ComputeWorkloads(roster, snapshot, s.now()), nil
}

// List returns the workloads shown for view v.
func (s *Service) List(ctx context.Context, v View) ([]Workload, error) {
	workloads, err := s.Workloads(ctx)
	if err != nil {
		return nil, err
	}
	return Select(workloads, v), nil
}

// Stats summarizes the whole roster.
func (s *Service) Stats(ctx context.Context) (FleetStats, error) {
	workloads, err := s.Workloads(ctx)
	if err != nil {
		return FleetStats{}, err
	}
	return ComputeFleetStats(workloads), nil
}

// Get returns a single technician.
func (s *Service) Get(ctx context.Context, technicianID id.ID) (Technician, error) {
	roster, err := s.Roster(ctx)
	if err != nil {
		return Technician{}, err
	}
	t, ok := domain.FindByID(roster, technicianID)
	if !ok {
		return Technician{}, apperror.NewNotFound("technician", technicianID)
	}
	return t, nil
}

// LookupName implements repairs.NameSource.
func (s *Service) LookupName(ctx context.Context, technicianID id.ID) (string, bool, error) {
	t, err := s.Get(ctx, technicianID)
	if apperror.IsNotFound(err) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return t.Name, true, nil
}

// RecentRepairs returns the latest RecentRepairsLimit repairs of a technician.
func (s *Service) RecentRepairs(ctx context.Context, technicianID id.ID) ([]repairs.Repair, error) {
	if _, err := s.Get(ctx, technicianID); err != nil {
		return nil, err
	}
	snapshot, err := s.repairs.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return RecentRepairs(snapshot, technicianID, RecentRepairsLimit), nil
}

// Create adds a technician. Missing status, specialization and hire date
// get defaults.
func (s *Service) Create(ctx context.Context, t Technician) (Technician, error) {
	t = normalize(t)
	if t.Status == "" {
		t.Status = StatusAvailable
	}
	if len(t.Specialization) == 0 {
		t.Specialization = []string{DefaultSpecialization}
	}
	if t.HireDate.IsZero() {
		t.HireDate = s.now()
	}
	if err := t.Validate(ctx); err != nil {
		return Technician{}, err
	}

	created, err := s.store.Create(ctx, t)
	if err != nil {
		return Technician{}, fmt.Errorf("create technician: %w", err)
	}
	logger.Info(ctx, "technician created", "id", created.ID, "status", created.Status)
	return created, nil
}

// Update replaces the editable fields. The lifetime counter and rating are
// kept unless the edit sets them.
func (s *Service) Update(ctx context.Context, technicianID id.ID, edit Technician) (Technician, error) {
	current, err := s.Get(ctx, technicianID)
	if err != nil {
		return Technician{}, err
	}

	next := merge(current, normalize(edit))
	if err := next.Validate(ctx); err != nil {
		return Technician{}, err
	}

	err = s.store.Update(ctx, technicianID, func(stored *Technician) {
		*stored = merge(*stored, normalize(edit))
	})
	if err != nil {
		return Technician{}, fmt.Errorf("update technician: %w", err)
	}

	if current.Status != next.Status {
		logger.Info(ctx, "technician status changed",
			"id", technicianID, "from", current.Status, "to", next.Status)
	}
	return next, nil
}

// Delete removes a technician. Their repairs keep the stored name.
func (s *Service) Delete(ctx context.Context, technicianID id.ID) error {
	if err := s.store.Delete(ctx, technicianID); err != nil {
		return fmt.Errorf("delete technician: %w", err)
	}
	logger.Info(ctx, "technician deleted", "id", technicianID)
	return nil
}

func normalize(t Technician) Technician {
	t.Name = strings.TrimSpace(t.Name)
	specs := make([]string, 0, len(t.Specialization))
	for _, sp := range t.Specialization {
		if sp = strings.TrimSpace(sp); sp != "" {
			specs = append(specs, sp)
		}
	}
	t.Specialization = specs
	return t
}

func merge(current, edit Technician) Technician {
	next := current.Clone()
	next.Name = edit.Name
	next.Phone = edit.Phone
	next.Email = edit.Email
	next.Skills = edit.Skills
	next.Certifications = edit.Certifications
	next.Notes = edit.Notes
	next.HourlyRate = edit.HourlyRate
	if edit.Status != "" {
		next.Status = edit.Status
	}
	if len(edit.Specialization) > 0 {
		next.Specialization = append([]string(nil), edit.Specialization...)
	}
	if !edit.HireDate.IsZero() {
		next.HireDate = edit.HireDate
	}
	if edit.CompletedRepairs > 0 {
		next.CompletedRepairs = edit.CompletedRepairs
	}
	if edit.Rating > 0 {
		next.Rating = edit.Rating
	}
	return next
}

// RepairSourceFunc adapts a snapshot function, such as a repair store's
// GetAll, to RepairSource.
type RepairSourceFunc func(ctx context.Context) ([]repairs.Repair, error)

// Snapshot implements RepairSource.
func (f RepairSourceFunc) Snapshot(ctx context.Context) ([]repairs.Repair, error) { return f(ctx) }
