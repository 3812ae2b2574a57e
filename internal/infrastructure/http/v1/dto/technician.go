package dto

import (
	"time"

	"repairdesk/internal/core/types"
	"repairdesk/internal/domain/repairs"
	"repairdesk/internal/domain/technicians"
)

// TechnicianRequest is the body of technician create and update.
type TechnicianRequest struct {
	Name             string             `json:"name" binding:"required"`
	Phone            string             `json:"phone"`
	Email            string             `json:"email"`
	Specialization   []string           `json:"specialization"`
	Status           technicians.Status `json:"status,omitempty"`
	HourlyRate       types.Money        `json:"hourlyRate"`
	HireDate         *time.Time         `json:"hireDate,omitempty"`
	CompletedRepairs int64              `json:"completedRepairs"`
	Rating           float64            `json:"rating"`
	Skills           string             `json:"skills,omitempty"`
	Certifications   string             `json:"certifications,omitempty"`
	Notes            string             `json:"notes,omitempty"`
}

// ToEntity converts the request.
func (r *TechnicianRequest) ToEntity() technicians.Technician {
	out := technicians.Technician{
		Name:             r.Name,
		Phone:            r.Phone,
		Email:            r.Email,
		Specialization:   r.Specialization,
		Status:           r.Status,
		HourlyRate:       r.HourlyRate,
		CompletedRepairs: r.CompletedRepairs,
		Rating:           r.Rating,
		Skills:           r.Skills,
		Certifications:   r.Certifications,
		Notes:            r.Notes,
	}
	if r.HireDate != nil {
		out.HireDate = *r.HireDate
	}
	return out
}

// TechnicianRepairsResponse is a technician with their latest repairs.
type TechnicianRepairsResponse struct {
	Technician technicians.Technician `json:"technician"`
	Repairs    []repairs.Repair       `json:"repairs"`
}
