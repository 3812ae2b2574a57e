// Package technicians holds the technician roster and the workload
// projections joined from repair snapshots.
package technicians

import (
	"context"
	"slices"
	"time"

	"repairdesk/internal/core/apperror"
	"repairdesk/internal/core/entity"
	"repairdesk/internal/core/id"
	"repairdesk/internal/core/types"
)

// Kind names technician records in stores.
const Kind = "technician"

// Status is a technician's shift state.
type Status string

const (
	StatusAvailable Status = "available"
	StatusBusy      Status = "busy"
	StatusOnBreak   Status = "on_break"
	StatusOffDuty   Status = "off_duty"
)

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	switch s {
	case StatusAvailable, StatusBusy, StatusOnBreak, StatusOffDuty:
		return true
	}
	return false
}

// OnDuty reports available or busy.
func (s Status) OnDuty() bool {
	return s == StatusAvailable || s == StatusBusy
}

// DefaultSpecialization is assigned when a technician is created without one.
const DefaultSpecialization = "general repair"

// MaxRating is the top of the rating scale.
const MaxRating = 5.0

// Technician is a member of the repair staff.
type Technician struct {
	ID             id.ID       `json:"id"`
	Name           string      `json:"name"`
	Phone          string      `json:"phone"`
	Email          string      `json:"email"`
	Specialization []string    `json:"specialization"`
	Status         Status      `json:"status"`
	HourlyRate     types.Money `json:"hourlyRate"`
	HireDate       time.Time   `json:"hireDate"`

	// CompletedRepairs is the authoritative lifetime counter, kept
	// independently of the repairs currently stored.
	CompletedRepairs int64   `json:"completedRepairs"`
	Rating           float64 `json:"rating"`

	Skills         string `json:"skills,omitempty"`
	Certifications string `json:"certifications,omitempty"`
	Notes          string `json:"notes,omitempty"`
}

var _ entity.Record[Technician] = Technician{}

// GetID implements entity.Record.
func (t Technician) GetID() id.ID { return t.ID }

// WithID implements entity.Record.
func (t Technician) WithID(v id.ID) Technician {
	out := t.Clone()
	out.ID = v
	return out
}

// Clone implements entity.Record.
func (t Technician) Clone() Technician {
	t.Specialization = slices.Clone(t.Specialization)
	return t
}

// Validate implements entity.Validatable.
func (t Technician) Validate(ctx context.Context) error {
	if err := entity.RequireText("name", t.Name); err != nil {
		return err
	}
	if !t.Status.Valid() {
		return apperror.NewFieldValidation("status", "unknown status").
			WithDetail("value", t.Status)
	}
	if t.HourlyRate.IsNegative() {
		return apperror.NewFieldValidation("hourlyRate", "hourlyRate must not be negative")
	}
	if err := entity.RequireNonNegative("completedRepairs", t.CompletedRepairs); err != nil {
		return err
	}
	if t.Rating < 0 || t.Rating > MaxRating {
		return apperror.NewFieldValidation("rating", "rating must be between 0 and 5").
			WithDetail("value", t.Rating)
	}
	return nil
}
