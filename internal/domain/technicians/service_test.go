package technicians_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"repairdesk/internal/core/apperror"
	"repairdesk/internal/core/id"
	"repairdesk/internal/domain/repairs"
	"repairdesk/internal/domain/technicians"
	"repairdesk/internal/infrastructure/storage/memory"
)

var now = time.Date(2026, time.October, 14, 10, 0, 0, 0, time.UTC)

type repairSnapshot []repairs.Repair

func (s repairSnapshot) Snapshot(context.Context) ([]repairs.Repair, error) {
	return []repairs.Repair(s), nil
}

func newService(snapshot ...repairs.Repair) *technicians.Service {
	return technicians.NewService(
		memory.New[technicians.Technician](technicians.Kind),
		repairSnapshot(snapshot),
		func() time.Time { return now },
	)
}

func TestService_CreateDefaults(t *testing.T) {
	ctx := context.Background()
	svc := newService()

	created, err := svc.Create(ctx, technicians.Technician{Name: " Anna Petrova ", Specialization: []string{" ", ""}})
	require.NoError(t, err)
	assert.Equal(t, "Anna Petrova", created.Name)
	assert.Equal(t, technicians.StatusAvailable, created.Status)
	assert.Equal(t, []string{technicians.DefaultSpecialization}, created.Specialization)
	assert.Equal(t, now, created.HireDate)

	name, found, err := svc.LookupName(ctx, created.ID)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "Anna Petrova", name)
}

func TestService_UpdateKeepsCounters(t *testing.T) {
	ctx := context.Background()
	svc := newService()

	created, err := svc.Create(ctx, technicians.Technician{
		Name: "Anna", CompletedRepairs: 42, Rating: 4.7, Specialization: []string{"laptops"},
	})
	require.NoError(t, err)

	updated, err := svc.Update(ctx, created.ID, technicians.Technician{Name: "Anna P.", Status: technicians.StatusOnBreak})
	require.NoError(t, err)
	assert.Equal(t, int64(42), updated.CompletedRepairs)
	assert.Equal(t, 4.7, updated.Rating)
	assert.Equal(t, []string{"laptops"}, updated.Specialization)
	assert.Equal(t, technicians.StatusOnBreak, updated.Status)

	got, err := svc.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, updated, got)

	_, err = svc.Update(ctx, created.ID, technicians.Technician{Name: "Anna", Status: "vacation"})
	assert.True(t, apperror.IsValidation(err))
}

func TestService_ListStatsAndHistory(t *testing.T) {
	ctx := context.Background()
	store := memory.New[technicians.Technician](technicians.Kind)
	var snapshot repairSnapshot
	svc := technicians.NewService(store, &snapshot, func() time.Time { return now })

	anna, err := svc.Create(ctx, technicians.Technician{Name: "Anna"})
	require.NoError(t, err)
	_, err = svc.Create(ctx, technicians.Technician{Name: "Oleg", Status: technicians.StatusOffDuty})
	require.NoError(t, err)

	name := anna.Name
	for i := 0; i < 3; i++ {
		snapshot = append(snapshot, repairs.Repair{
			ID: id.New(), TechnicianID: id.Ptr(anna.ID), TechnicianName: &name,
			Status: repairs.StatusInProgress, CreatedAt: now.Add(time.Duration(-i) * time.Hour),
		})
	}

	onDuty, err := svc.List(ctx, technicians.ViewOnDuty)
	require.NoError(t, err)
	require.Len(t, onDuty, 1)
	assert.Equal(t, 60, onDuty[0].Workload)

	stats, err := svc.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.Total)
	assert.Equal(t, 30, stats.AvgWorkload)

	history, err := svc.RecentRepairs(ctx, anna.ID)
	require.NoError(t, err)
	assert.Len(t, history, 3)

	_, err = svc.RecentRepairs(ctx, id.New())
	assert.True(t, apperror.IsNotFound(err))
}

func TestService_Delete(t *testing.T) {
	ctx := context.Background()
	svc := newService()

	created, err := svc.Create(ctx, technicians.Technician{Name: "Temp"})
	require.NoError(t, err)
	require.NoError(t, svc.Delete(ctx, created.ID))

	_, found, err := svc.LookupName(ctx, created.ID)
	require.NoError(t, err)
	assert.False(t, found)
}
