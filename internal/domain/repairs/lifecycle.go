package repairs

import (
	"time"
)

// Names carries the denormalized display names copied onto a repair.
// A missing client yields ""; a missing technician yields nil.
type Names struct {
	Client     string
	Technician *string
}

// PrepareCreate normalizes a repair about to be stored.
//
// Only completed repairs keep finalCost and completedAt; a completed repair
// without completedAt is stamped with now.
func PrepareCreate(r Repair, names Names, now time.Time) Repair {
	out := r.Clone()
	if out.Status == "" {
		out.Status = StatusNew
	}
	if out.Priority == "" {
		out.Priority = PriorityMedium
	}
	if out.CreatedAt.IsZero() {
		out.CreatedAt = now
	}

	applyNames(&out, names)

	if out.Status == StatusCompleted {
		if out.CompletedAt == nil {
			stamp := now
			out.CompletedAt = &stamp
		}
	} else {
		out.FinalCost = nil
		out.CompletedAt = nil
	}
	return out
}

// ApplyEdit merges a full edit into the stored repair and returns the value
// to persist. The id and creation instant never change.
func ApplyEdit(current, edit Repair, names Names, now time.Time) Repair {
	out := edit.Clone()
	out.ID = current.ID
	out.CreatedAt = current.CreatedAt
	if out.Priority == "" {
		out.Priority = current.Priority
	}
	if out.Status == "" {
		out.Status = current.Status
	}

	applyNames(&out, names)
	out.CompletedAt = completedAtAfter(current, out.Status, now)
	return out
}

// ApplyStatusChange moves a repair to status, stamping completedAt on the
// first transition into completed.
func ApplyStatusChange(current Repair, status Status, now time.Time) Repair {
	out := current.Clone()
	out.Status = status
	out.CompletedAt = completedAtAfter(current, status, now)
	return out
}

// completedAtAfter stamps now when entering completed and keeps the stored
// value for every other transition.
func completedAtAfter(current Repair, next Status, now time.Time) *time.Time {
	if next == StatusCompleted && current.Status != StatusCompleted {
		stamp := now
		return &stamp
	}
	if current.CompletedAt == nil {
		return nil
	}
	at := *current.CompletedAt
	return &at
}

func applyNames(r *Repair, names Names) {
	r.ClientName = names.Client
	if !r.Assigned() {
		r.TechnicianID = nil
		r.TechnicianName = nil
		return
	}
	if names.Technician == nil {
		r.TechnicianName = nil
		return
	}
	name := *names.Technician
	r.TechnicianName = &name
}
