package repairs_test

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"repairdesk/internal/core/apperror"
	"repairdesk/internal/core/id"
	"repairdesk/internal/core/types"
	"repairdesk/internal/domain/repairs"
	"repairdesk/internal/domain/timewindow"
	"repairdesk/internal/infrastructure/cache"
	"repairdesk/internal/infrastructure/storage/memory"
)

type names map[id.ID]string

func (n names) LookupName(_ context.Context, recordID id.ID) (string, bool, error) {
	name, ok := n[recordID]
	return name, ok, nil
}

type fixedClock struct{ at atomic.Int64 }

func newClock(t time.Time) *fixedClock {
	c := &fixedClock{}
	c.set(t)
	return c
}

func (c *fixedClock) now() time.Time          { return time.Unix(0, c.at.Load()).UTC() }
func (c *fixedClock) set(t time.Time)         { c.at.Store(t.UnixNano()) }
func (c *fixedClock) advance(d time.Duration) { c.set(c.now().Add(d)) }

type serviceFixture struct {
	svc      *repairs.Service
	store    *memory.Store[repairs.Repair]
	clock    *fixedClock
	clientID id.ID
	techID   id.ID
}

func newFixture() serviceFixture {
	f := serviceFixture{
		store:    memory.New[repairs.Repair](repairs.Kind),
		clock:    newClock(time.Date(2026, time.October, 14, 10, 0, 0, 0, time.UTC)),
		clientID: id.New(),
		techID:   id.New(),
	}
	f.svc = repairs.NewService(f.store,
		names{f.clientID: "Ivan Sidorov"},
		names{f.techID: "Anna Petrova"},
		repairs.WithClock(f.clock.now),
		repairs.WithAnalyticsMemo(cache.NewSnapshotMemo[repairs.Analytics]()),
	)
	return f
}

func (f serviceFixture) draft() repairs.Repair {
	return repairs.Repair{
		ClientID:      f.clientID,
		TechnicianID:  id.Ptr(f.techID),
		DeviceType:    "Phone",
		DeviceModel:   "Pixel 8",
		Problem:       "Does not charge",
		Priority:      repairs.PriorityHigh,
		EstimatedCost: types.NewMoneyFromInt(1500),
	}
}

func TestService_CreateResolvesNames(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	created, err := f.svc.Create(ctx, f.draft())
	require.NoError(t, err)

	assert.False(t, id.IsNil(created.ID))
	assert.Equal(t, "Ivan Sidorov", created.ClientName)
	require.NotNil(t, created.TechnicianName)
	assert.Equal(t, "Anna Petrova", *created.TechnicianName)
	assert.Equal(t, repairs.StatusNew, created.Status)
	assert.Equal(t, f.clock.now(), created.CreatedAt)
}

func TestService_CreateWithDanglingReferences(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	d := f.draft()
	d.ClientID = id.New()
	d.TechnicianID = id.Ptr(id.New())

	created, err := f.svc.Create(ctx, d)
	require.NoError(t, err)
	assert.Empty(t, created.ClientName)
	assert.Nil(t, created.TechnicianName)
}

func TestService_CreateRejectsInvalid(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	d := f.draft()
	d.Problem = ""

	_, err := f.svc.Create(ctx, d)
	require.Error(t, err)
	assert.True(t, apperror.IsValidation(err))
	assert.Zero(t, f.store.Len())
}

func TestService_StatusLifecycle(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	created, err := f.svc.Create(ctx, f.draft())
	require.NoError(t, err)

	f.clock.advance(3 * time.Hour)
	done, err := f.svc.ChangeStatus(ctx, created.ID, repairs.StatusCompleted)
	require.NoError(t, err)
	require.NotNil(t, done.CompletedAt)
	stamp := *done.CompletedAt
	assert.Equal(t, f.clock.now(), stamp)

	f.clock.advance(time.Hour)
	edit := done.Clone()
	edit.FinalCost = types.MoneyPtr(types.NewMoneyFromInt(1800))
	edit.CompletedAt = nil
	_, err = f.svc.Update(ctx, created.ID, edit)
	require.NoError(t, err)

	stored, err := f.svc.Get(ctx, created.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.CompletedAt)
	assert.Equal(t, stamp, *stored.CompletedAt, "editing a completed repair keeps completedAt")
	assert.Equal(t, "1800", stored.FinalCost.String())

	stats, err := f.svc.Stats(ctx, timewindow.Today)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.CompletedInWindow)
	assert.Equal(t, 3.0, stats.AvgRepairTimeHours)
}

func TestService_UnknownIDs(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	_, err := f.svc.Get(ctx, id.New())
	assert.True(t, apperror.IsNotFound(err))

	_, err = f.svc.ChangeStatus(ctx, id.New(), repairs.StatusCompleted)
	assert.True(t, apperror.IsNotFound(err))

	_, err = f.svc.ChangeStatus(ctx, id.New(), repairs.Status("lost"))
	assert.True(t, apperror.IsValidation(err))

	err = f.svc.Delete(ctx, id.New())
	assert.True(t, apperror.IsNotFound(err))
}

func TestService_AnalyticsFollowsWrites(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	a, err := f.svc.Analytics(ctx)
	require.NoError(t, err)
	assert.Zero(t, a.Total)

	created, err := f.svc.Create(ctx, f.draft())
	require.NoError(t, err)

	a, err = f.svc.Analytics(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, a.Total)
	assert.Zero(t, a.CompletedCount)

	_, err = f.svc.ChangeStatus(ctx, created.ID, repairs.StatusCompleted)
	require.NoError(t, err)

	a, err = f.svc.Analytics(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, a.CompletedCount)
	assert.Equal(t, 100, a.SuccessRate)
}

func TestService_ListAndBoard(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	for _, p := range []repairs.Priority{repairs.PriorityLow, repairs.PriorityUrgent} {
		d := f.draft()
		d.Priority = p
		_, err := f.svc.Create(ctx, d)
		require.NoError(t, err)
		f.clock.advance(time.Minute)
	}

	list, err := f.svc.List(ctx, repairs.Query{Sort: repairs.ParseSort("priority-desc")})
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, repairs.PriorityUrgent, list[0].Priority)

	board, err := f.svc.Board(ctx, repairs.Query{})
	require.NoError(t, err)
	assert.Len(t, board[0].Repairs, 2)

	timeline, err := f.svc.Timeline(ctx, repairs.Filter{}, 1)
	require.NoError(t, err)
	require.Len(t, timeline, 1)
	assert.Equal(t, repairs.PriorityUrgent, timeline[0].Priority)
}
