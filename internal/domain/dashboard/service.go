package dashboard

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"repairdesk/internal/domain/clients"
	"repairdesk/internal/domain/repairs"
	"repairdesk/internal/domain/technicians"
	"repairdesk/internal/domain/timewindow"
	"repairdesk/internal/domain/warehouse"
)

// Sources fetches the snapshots the dashboard reads.
type Sources struct {
	Repairs     func(ctx context.Context) ([]repairs.Repair, error)
	Clients     func(ctx context.Context) ([]clients.Client, error)
	Technicians func(ctx context.Context) ([]technicians.Technician, error)
	Inventory   func(ctx context.Context) ([]warehouse.InventoryItem, error)
}

// Service computes the dashboard over fresh snapshots.
type Service struct {
	src Sources
	now func() time.Time
}

// NewService creates a dashboard service.
func NewService(src Sources, now func() time.Time) *Service {
	if now == nil {
		now = time.Now
	}
	return &Service{src: src, now: now}
}

// Summary loads every snapshot concurrently and computes the view for r.
func (s *Service) Summary(ctx context.Context, r timewindow.Range) (Summary, error) {
	w, err := timewindow.Resolve(r, s.now())
	if err != nil {
		return Summary{}, err
	}

	var in Input
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		in.Repairs, err = s.src.Repairs(gctx)
		return wrap("repairs", err)
	})
	g.Go(func() (err error) {
		in.Clients, err = s.src.Clients(gctx)
		return wrap("clients", err)
	})
	g.Go(func() (err error) {
		in.Technicians, err = s.src.Technicians(gctx)
		return wrap("technicians", err)
	})
	g.Go(func() (err error) {
		in.Inventory, err = s.src.Inventory(gctx)
		return wrap("inventory", err)
	})
	if err := g.Wait(); err != nil {
		return Summary{}, err
	}

	return Compute(in, w), nil
}

func wrap(what string, err error) error {
	if err != nil {
		return fmt.Errorf("load %s: %w", what, err)
	}
	return nil
}
