// Package clients holds repair-shop customers.
package clients

import (
	"context"
	"time"

	"repairdesk/internal/core/apperror"
	"repairdesk/internal/core/entity"
	"repairdesk/internal/core/id"
)

// Kind names client records in stores.
const Kind = "client"

// Client is a customer bringing devices in for repair.
type Client struct {
	ID        id.ID     `json:"id"`
	Name      string    `json:"name"`
	Phone     string    `json:"phone"`
	Email     string    `json:"email,omitempty"`
	Notes     string    `json:"notes,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

var _ entity.Record[Client] = Client{}

// GetID implements entity.Record.
func (c Client) GetID() id.ID { return c.ID }

// WithID implements entity.Record.
func (c Client) WithID(v id.ID) Client {
	c.ID = v
	return c
}

// Clone implements entity.Record.
func (c Client) Clone() Client { return c }

// Validate implements entity.Validatable.
func (c Client) Validate(ctx context.Context) error {
	if err := entity.RequireText("name", c.Name); err != nil {
		return err
	}
	if err := entity.RequireText("phone", c.Phone); err != nil {
		return err
	}
	if c.CreatedAt.IsZero() {
		return apperror.NewFieldValidation("createdAt", "createdAt is required")
	}
	return nil
}

// CreatedSince counts clients created at or after start.
func CreatedSince(snapshot []Client, start time.Time) int {
	n := 0
	for _, c := range snapshot {
		if !c.CreatedAt.Before(start) {
			n++
		}
	}
	return n
}
