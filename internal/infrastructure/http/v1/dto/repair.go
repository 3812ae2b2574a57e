package dto

import (
	"time"

	"repairdesk/internal/core/types"
	"repairdesk/internal/domain/repairs"
)

// RepairRequest is the body of repair create and update.
type RepairRequest struct {
	ClientID      string           `json:"clientId" binding:"required"`
	TechnicianID  *string          `json:"technicianId,omitempty"`
	DeviceType    string           `json:"deviceType" binding:"required"`
	DeviceModel   string           `json:"deviceModel"`
	SerialNumber  string           `json:"serialNumber,omitempty"`
	Problem       string           `json:"problem" binding:"required"`
	Diagnosis     string           `json:"diagnosis,omitempty"`
	Status        repairs.Status   `json:"status,omitempty"`
	Priority      repairs.Priority `json:"priority,omitempty"`
	EstimatedCost types.Money      `json:"estimatedCost"`
	FinalCost     *types.Money     `json:"finalCost,omitempty"`
	EstimatedDays int              `json:"estimatedDays"`
	CreatedAt     *time.Time       `json:"createdAt,omitempty"`
	Notes         string           `json:"notes,omitempty"`
	Accessories   string           `json:"accessories,omitempty"`
}

// ToEntity converts the request. Names are resolved by the service.
func (r *RepairRequest) ToEntity() (repairs.Repair, error) {
	clientID, err := ParseID("clientId", r.ClientID)
	if err != nil {
		return repairs.Repair{}, err
	}
	technicianID, err := ParseOptionalID("technicianId", r.TechnicianID)
	if err != nil {
		return repairs.Repair{}, err
	}

	out := repairs.Repair{
		ClientID:      clientID,
		TechnicianID:  technicianID,
		DeviceType:    r.DeviceType,
		DeviceModel:   r.DeviceModel,
		SerialNumber:  r.SerialNumber,
		Problem:       r.Problem,
		Diagnosis:     r.Diagnosis,
		Status:        r.Status,
		Priority:      r.Priority,
		EstimatedCost: r.EstimatedCost,
		FinalCost:     r.FinalCost,
		EstimatedDays: r.EstimatedDays,
		Notes:         r.Notes,
		Accessories:   r.Accessories,
	}
	if r.CreatedAt != nil {
		out.CreatedAt = *r.CreatedAt
	}
	return out, nil
}

// StatusChangeRequest is the body of PATCH /repairs/:id/status.
type StatusChangeRequest struct {
	Status repairs.Status `json:"status" binding:"required"`
}

// BoardResponse is the kanban view.
type BoardResponse struct {
	Columns []repairs.Column `json:"columns"`
}
