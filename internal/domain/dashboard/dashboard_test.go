package dashboard_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"repairdesk/internal/core/apperror"
	"repairdesk/internal/core/id"
	"repairdesk/internal/core/types"
	"repairdesk/internal/domain/clients"
	"repairdesk/internal/domain/dashboard"
	"repairdesk/internal/domain/repairs"
	"repairdesk/internal/domain/technicians"
	"repairdesk/internal/domain/timewindow"
	"repairdesk/internal/domain/warehouse"
)

var now = time.Date(2026, time.October, 14, 15, 0, 0, 0, time.UTC)

func repair(status repairs.Status, priority repairs.Priority, createdAt time.Time) repairs.Repair {
	return repairs.Repair{
		ID:            id.New(),
		ClientID:      id.New(),
		ClientName:    "Client",
		DeviceType:    "Phone",
		DeviceModel:   "Model",
		Problem:       "Broken screen",
		Status:        status,
		Priority:      priority,
		EstimatedCost: types.NewMoneyFromInt(100),
		CreatedAt:     createdAt,
	}
}

func tech(name string, status technicians.Status, completed int64) technicians.Technician {
	return technicians.Technician{ID: id.New(), Name: name, Status: status, CompletedRepairs: completed}
}

func fixture() dashboard.Input {
	return dashboard.Input{
		Repairs: []repairs.Repair{
			repair(repairs.StatusNew, repairs.PriorityUrgent, now.Add(-1*time.Hour)),
			repair(repairs.StatusInProgress, repairs.PriorityHigh, now.Add(-2*time.Hour)),
			repair(repairs.StatusWaitingParts, repairs.PriorityUrgent, now.AddDate(0, 0, -3)),
			repair(repairs.StatusCompleted, repairs.PriorityUrgent, now.AddDate(0, 0, -4)),
			repair(repairs.StatusCancelled, repairs.PriorityLow, now.AddDate(0, 0, -5)),
			repair(repairs.StatusNew, repairs.PriorityMedium, now.AddDate(0, 0, -6)),
			repair(repairs.StatusNew, repairs.PriorityMedium, now.AddDate(0, 0, -7)),
		},
		Clients: []clients.Client{
			{ID: id.New(), Name: "A", Phone: "1", CreatedAt: now.Add(-time.Hour)},
			{ID: id.New(), Name: "B", Phone: "2", CreatedAt: now.AddDate(0, -2, 0)},
		},
		Technicians: []technicians.Technician{
			tech("T1", technicians.StatusAvailable, 3),
			tech("T2", technicians.StatusBusy, 10),
			tech("T3", technicians.StatusOnBreak, 10),
			tech("T4", technicians.StatusOffDuty, 1),
			tech("T5", technicians.StatusAvailable, 7),
			tech("T6", technicians.StatusAvailable, 0),
		},
		Inventory: []warehouse.InventoryItem{
			{ID: id.New(), Name: "screen", Unit: "pcs", Quantity: 2, MinQuantity: 2},
			{ID: id.New(), Name: "battery", Unit: "pcs", Quantity: -1, MinQuantity: 0},
			{ID: id.New(), Name: "glue", Unit: "ml", Quantity: 50, MinQuantity: 10},
		},
	}
}

func TestCompute(t *testing.T) {
	in := fixture()
	s := dashboard.Compute(in, timewindow.MustResolve(timewindow.Today, now))

	assert.Equal(t, 4, s.OnDutyTechnicians)
	assert.Equal(t, 2, s.LowStockItems)
	assert.Equal(t, 2, s.TotalClients)
	assert.Equal(t, 1, s.NewClients)
	assert.Equal(t, 7, s.Stats.Total)

	require.Len(t, s.RecentRepairs, dashboard.RecentRepairsLimit)
	assert.Equal(t, in.Repairs[0].ID, s.RecentRepairs[0].ID)
	assert.Equal(t, in.Repairs[5].ID, s.RecentRepairs[5].ID)

	assert.Equal(t, []dashboard.StatusShare{
		{Status: repairs.StatusInProgress, Count: 1},
		{Status: repairs.StatusWaitingParts, Count: 1},
		{Status: repairs.StatusNew, Count: 3},
		{Status: repairs.StatusCompleted, Count: 1},
	}, s.StatusDistribution)

	assert.Equal(t, repairs.PriorityCounts{Urgent: 2, High: 1, Medium: 2, Low: 1}, s.OpenByPriority)

	names := make([]string, 0, len(s.TopTechnicians))
	for _, t := range s.TopTechnicians {
		names = append(names, t.Name)
	}
	assert.Equal(t, []string{"T2", "T3", "T5", "T1", "T4"}, names)
}

func TestCompute_Empty(t *testing.T) {
	s := dashboard.Compute(dashboard.Input{}, timewindow.MustResolve(timewindow.Week, now))
	assert.Zero(t, s.OnDutyTechnicians)
	assert.Zero(t, s.NewClients)
	assert.Empty(t, s.RecentRepairs)
	assert.NotNil(t, s.TopTechnicians)
	assert.Len(t, s.StatusDistribution, 4)
}

func sources(in dashboard.Input) dashboard.Sources {
	return dashboard.Sources{
		Repairs:     func(context.Context) ([]repairs.Repair, error) { return in.Repairs, nil },
		Clients:     func(context.Context) ([]clients.Client, error) { return in.Clients, nil },
		Technicians: func(context.Context) ([]technicians.Technician, error) { return in.Technicians, nil },
		Inventory:   func(context.Context) ([]warehouse.InventoryItem, error) { return in.Inventory, nil },
	}
}

func TestService_Summary(t *testing.T) {
	ctx := context.Background()
	svc := dashboard.NewService(sources(fixture()), func() time.Time { return now })

	s, err := svc.Summary(ctx, timewindow.Month)
	require.NoError(t, err)
	assert.Equal(t, timewindow.Month, s.Stats.Window.Range)
	assert.Equal(t, 1, s.NewClients)

	_, err = svc.Summary(ctx, "year")
	assert.True(t, apperror.HasCode(err, apperror.CodeInvalidInput))
}

func TestService_SummarySourceError(t *testing.T) {
	src := sources(fixture())
	src.Inventory = func(context.Context) ([]warehouse.InventoryItem, error) {
		return nil, errors.New("connection reset")
	}
	svc := dashboard.NewService(src, func() time.Time { return now })

	_, err := svc.Summary(context.Background(), timewindow.Today)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "load inventory")
}
