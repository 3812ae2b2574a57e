// Package repairs holds the repair ticket model and every projection computed
// over repair snapshots: windowed stats, lifetime analytics, filter/sort and
// the kanban board.
package repairs

import (
	"context"
	"time"

	"repairdesk/internal/core/apperror"
	"repairdesk/internal/core/entity"
	"repairdesk/internal/core/id"
	"repairdesk/internal/core/types"
)

// Kind names repair records in stores.
const Kind = "repair"

// Status is the lifecycle state of a repair.
type Status string

const (
	StatusNew          Status = "new"
	StatusInProgress   Status = "in_progress"
	StatusWaitingParts Status = "waiting_parts"
	StatusCompleted    Status = "completed"
	StatusCancelled    Status = "cancelled"
)

// Statuses lists every status in display order.
var Statuses = []Status{StatusNew, StatusInProgress, StatusWaitingParts, StatusCompleted, StatusCancelled}

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	switch s {
	case StatusNew, StatusInProgress, StatusWaitingParts, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// Active reports whether work on the repair is still open.
func (s Status) Active() bool {
	return s == StatusNew || s == StatusInProgress || s == StatusWaitingParts
}

// Priority is the urgency of a repair.
type Priority string

const (
	PriorityUrgent Priority = "urgent"
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// Priorities lists every priority from most to least urgent.
var Priorities = []Priority{PriorityUrgent, PriorityHigh, PriorityMedium, PriorityLow}

// Valid reports whether p is a known priority.
func (p Priority) Valid() bool {
	return p.Rank() > 0
}

// Rank maps urgent=4, high=3, medium=2, low=1. Unknown priorities rank 0.
func (p Priority) Rank() int {
	switch p {
	case PriorityUrgent:
		return 4
	case PriorityHigh:
		return 3
	case PriorityMedium:
		return 2
	case PriorityLow:
		return 1
	}
	return 0
}

// Repair is a single repair ticket.
//
// ClientName and TechnicianName are copies taken when the ticket was written;
// renaming the client or technician does not touch existing tickets.
type Repair struct {
	ID             id.ID       `json:"id"`
	ClientID       id.ID       `json:"clientId"`
	ClientName     string      `json:"clientName"`
	TechnicianID   *id.ID      `json:"technicianId,omitempty"`
	TechnicianName *string     `json:"technicianName,omitempty"`
	DeviceType     string      `json:"deviceType"`
	DeviceModel    string      `json:"deviceModel"`
	SerialNumber   string      `json:"serialNumber,omitempty"`
	Problem        string      `json:"problem"`
	Diagnosis      string      `json:"diagnosis,omitempty"`
	Status         Status      `json:"status"`
	Priority       Priority    `json:"priority"`
	EstimatedCost  types.Money `json:"estimatedCost"`

	// FinalCost is only meaningful once the repair is completed.
	FinalCost     *types.Money `json:"finalCost,omitempty"`
	EstimatedDays int          `json:"estimatedDays"`
	CreatedAt     time.Time    `json:"createdAt"`

	// CompletedAt is stamped on the first transition into completed.
	CompletedAt *time.Time `json:"completedAt,omitempty"`
	Notes       string     `json:"notes,omitempty"`
	Accessories string     `json:"accessories,omitempty"`
}

var _ entity.Record[Repair] = Repair{}

// GetID implements entity.Record.
func (r Repair) GetID() id.ID { return r.ID }

// WithID implements entity.Record.
func (r Repair) WithID(v id.ID) Repair {
	out := r.Clone()
	out.ID = v
	return out
}

// Clone implements entity.Record.
func (r Repair) Clone() Repair {
	out := r
	if r.TechnicianID != nil {
		out.TechnicianID = id.Ptr(*r.TechnicianID)
	}
	if r.TechnicianName != nil {
		name := *r.TechnicianName
		out.TechnicianName = &name
	}
	if r.FinalCost != nil {
		out.FinalCost = types.MoneyPtr(*r.FinalCost)
	}
	if r.CompletedAt != nil {
		at := *r.CompletedAt
		out.CompletedAt = &at
	}
	return out
}

// Validate implements entity.Validatable.
func (r Repair) Validate(ctx context.Context) error {
	if err := entity.RequireID("clientId", r.ClientID); err != nil {
		return err
	}
	if err := entity.RequireText("deviceType", r.DeviceType); err != nil {
		return err
	}
	if err := entity.RequireText("problem", r.Problem); err != nil {
		return err
	}
	if !r.Status.Valid() {
		return apperror.NewFieldValidation("status", "unknown status").
			WithDetail("value", r.Status)
	}
	if !r.Priority.Valid() {
		return apperror.NewFieldValidation("priority", "unknown priority").
			WithDetail("value", r.Priority)
	}
	if r.EstimatedCost.IsNegative() {
		return apperror.NewFieldValidation("estimatedCost", "estimatedCost must not be negative")
	}
	if r.FinalCost != nil && r.FinalCost.IsNegative() {
		return apperror.NewFieldValidation("finalCost", "finalCost must not be negative")
	}
	if err := entity.RequireNonNegative("estimatedDays", int64(r.EstimatedDays)); err != nil {
		return err
	}
	if r.CreatedAt.IsZero() {
		return apperror.NewFieldValidation("createdAt", "createdAt is required")
	}
	if r.CompletedAt != nil && r.CompletedAt.Before(r.CreatedAt) {
		return apperror.NewFieldValidation("completedAt", "completedAt precedes createdAt")
	}
	return nil
}

// Cost is the amount used in monetary aggregates: finalCost when present,
// estimatedCost otherwise.
func (r Repair) Cost() types.Money {
	if r.FinalCost != nil {
		return *r.FinalCost
	}
	return r.EstimatedCost
}

// Assigned reports whether a technician is attached.
func (r Repair) Assigned() bool {
	return !id.IsUnset(r.TechnicianID)
}

// TechnicianDisplayName returns the technician name or "" when unassigned.
func (r Repair) TechnicianDisplayName() string {
	if r.TechnicianName == nil {
		return ""
	}
	return *r.TechnicianName
}

// Turnaround is completedAt - createdAt. ok is false until completion.
func (r Repair) Turnaround() (d time.Duration, ok bool) {
	if r.CompletedAt == nil {
		return 0, false
	}
	return r.CompletedAt.Sub(r.CreatedAt), true
}

// IsCompleted reports status == completed.
func (r Repair) IsCompleted() bool {
	return r.Status == StatusCompleted
}
