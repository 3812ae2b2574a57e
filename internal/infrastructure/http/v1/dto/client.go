package dto

import (
	"repairdesk/internal/domain/clients"
)

// ClientRequest is the body of POST /clients.
type ClientRequest struct {
	Name  string `json:"name" binding:"required"`
	Phone string `json:"phone" binding:"required"`
	Email string `json:"email,omitempty"`
	Notes string `json:"notes,omitempty"`
}

// ToEntity converts the request.
func (r *ClientRequest) ToEntity() clients.Client {
	return clients.Client{Name: r.Name, Phone: r.Phone, Email: r.Email, Notes: r.Notes}
}
