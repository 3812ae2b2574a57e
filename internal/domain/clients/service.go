package clients

import (
	"context"
	"fmt"
	"strings"
	"time"

	"repairdesk/internal/core/apperror"
	"repairdesk/internal/core/id"
	"repairdesk/internal/domain"
	"repairdesk/pkg/logger"
)

// Service provides client operations over an injected store.
type Service struct {
	store domain.RecordStore[Client]
	now   func() time.Time
}

// NewService creates a client service. now defaults to time.Now.
func NewService(store domain.RecordStore[Client], now func() time.Time) *Service {
	if now == nil {
		now = time.Now
	}
	return &Service{store: store, now: now}
}

// List returns every client. A non-empty search keeps clients whose name
// or phone contains it, case-insensitively.
func (s *Service) List(ctx context.Context, search string) ([]Client, error) {
	snapshot, err := s.store.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list clients: %w", err)
	}
	if search == "" {
		return snapshot, nil
	}

	needle := strings.ToLower(search)
	out := make([]Client, 0, len(snapshot))
	for _, c := range snapshot {
		if strings.Contains(strings.ToLower(c.Name), needle) || strings.Contains(c.Phone, search) {
			out = append(out, c)
		}
	}
	return out, nil
}

// Get returns a single client.
func (s *Service) Get(ctx context.Context, clientID id.ID) (Client, error) {
	snapshot, err := s.List(ctx, "")
	if err != nil {
		return Client{}, err
	}
	c, ok := domain.FindByID(snapshot, clientID)
	if !ok {
		return Client{}, apperror.NewNotFound("client", clientID)
	}
	return c, nil
}

// LookupName implements repairs.NameSource.
func (s *Service) LookupName(ctx context.Context, clientID id.ID) (string, bool, error) {
	c, err := s.Get(ctx, clientID)
	if apperror.IsNotFound(err) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return c.Name, true, nil
}

// Create stores a new client, stamping createdAt when missing.
func (s *Service) Create(ctx context.Context, c Client) (Client, error) {
	if c.CreatedAt.IsZero() {
		c.CreatedAt = s.now()
	}
	c.Name = strings.TrimSpace(c.Name)
	if err := c.Validate(ctx); err != nil {
		return Client{}, err
	}

	created, err := s.store.Create(ctx, c)
	if err != nil {
		return Client{}, fmt.Errorf("create client: %w", err)
	}
	logger.Info(ctx, "client created", "id", created.ID)
	return created, nil
}

// Update replaces the contact fields of a client. Existing repairs keep the
// name they were written with.
func (s *Service) Update(ctx context.Context, clientID id.ID, edit Client) (Client, error) {
	current, err := s.Get(ctx, clientID)
	if err != nil {
		return Client{}, err
	}

	next := current
	next.Name = strings.TrimSpace(edit.Name)
	next.Phone = edit.Phone
	next.Email = edit.Email
	next.Notes = edit.Notes
	if err := next.Validate(ctx); err != nil {
		return Client{}, err
	}

	err = s.store.Update(ctx, clientID, func(stored *Client) {
		stored.Name, stored.Phone, stored.Email, stored.Notes = next.Name, next.Phone, next.Email, next.Notes
	})
	if err != nil {
		return Client{}, fmt.Errorf("update client: %w", err)
	}
	return next, nil
}

// Delete removes a client. Repairs referencing it are left untouched.
func (s *Service) Delete(ctx context.Context, clientID id.ID) error {
	if err := s.store.Delete(ctx, clientID); err != nil {
		return fmt.Errorf("delete client: %w", err)
	}
	logger.Info(ctx, "client deleted", "id", clientID)
	return nil
}
