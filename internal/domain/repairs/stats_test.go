package repairs

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"repairdesk/internal/core/types"
	"repairdesk/internal/domain/timewindow"
)

func TestCountTrend(t *testing.T) {
	tests := []struct {
		current, previous int
		want              Trend
	}{
		{0, 0, Trend{Change: TrendNoBaseline, Up: true}},
		{7, 0, Trend{Change: TrendNoBaseline, Up: true}},
		{5, 4, Trend{Change: "+25%", Up: true}},
		{2, 4, Trend{Change: "-50%", Up: false}},
		{4, 4, Trend{Change: "+0%", Up: true}},
		{1, 3, Trend{Change: "-67%", Up: false}},
		{3, 2, Trend{Change: "+50%", Up: true}},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, CountTrend(tt.current, tt.previous), "%d vs %d", tt.current, tt.previous)
	}
}

func TestMoneyTrend(t *testing.T) {
	m := types.NewMoneyFromInt

	assert.Equal(t, Trend{Change: TrendNoBaseline, Up: true}, MoneyTrend(m(0), m(0)))
	assert.Equal(t, Trend{Change: "-25%", Up: false}, MoneyTrend(m(150), m(200)))
	assert.Equal(t, Trend{Change: "+100%", Up: true}, MoneyTrend(m(400), m(200)))
	// halves round towards positive infinity
	assert.Equal(t, Trend{Change: "-87%", Up: false}, MoneyTrend(m(1), m(8)))
}

func TestComputeStats_EndToEnd(t *testing.T) {
	today := time.Date(2026, time.October, 14, 9, 0, 0, 0, time.UTC)
	snapshot := []Repair{
		completed(today, 1000, 2*time.Hour),
		completed(today.Add(time.Hour), 500, 3*time.Hour),
		repair(StatusInProgress, PriorityMedium, today.Add(2*time.Hour)),
		completed(today.AddDate(0, 0, -10), 2000, 24*time.Hour),
	}

	s := ComputeStats(snapshot, timewindow.MustResolve(timewindow.Today, testNow))

	assert.Equal(t, 1, s.Active)
	assert.Equal(t, "1500", s.Revenue.String())
	assert.Equal(t, 2, s.CompletedInWindow)
	assert.Equal(t, 0, s.CompletedPrev)
	assert.Equal(t, TrendNoBaseline, s.RevenueTrend.Change)
	assert.Equal(t, TrendNoBaseline, s.CompletedTrend.Change)
	assert.True(t, s.RevenueTrend.Up)
	assert.Equal(t, "3500", s.TotalRevenue.String())
	assert.Equal(t, 2.5, s.AvgRepairTimeHours)
	assert.Equal(t, 4, s.Total)
}

func TestComputeStats_AvgRepairTimeNotRounded(t *testing.T) {
	snapshot := []Repair{
		completed(testNow.Add(-3*time.Hour), 100, time.Hour),
		completed(testNow.Add(-4*time.Hour), 100, 2*time.Hour+20*time.Minute),
	}

	s := ComputeStats(snapshot, timewindow.MustResolve(timewindow.Today, testNow))
	assert.InDelta(t, 5.0/3.0, s.AvgRepairTimeHours, 1e-9)
}

func TestComputeStats_PreviousWindow(t *testing.T) {
	w := timewindow.MustResolve(timewindow.Week, testNow)
	snapshot := []Repair{
		completed(testNow.Add(-24*time.Hour), 300, time.Hour),
		completed(testNow.AddDate(0, 0, -9), 200, time.Hour),
		completed(testNow.AddDate(0, 0, -10), 200, time.Hour),
		completed(testNow.AddDate(0, 0, -20), 999, time.Hour),
	}

	s := ComputeStats(snapshot, w)
	assert.Equal(t, 1, s.CompletedInWindow)
	assert.Equal(t, 2, s.CompletedPrev)
	assert.Equal(t, "-50%", s.CompletedTrend.Change)
	assert.False(t, s.CompletedTrend.Up)
	assert.Equal(t, "300", s.Revenue.String())
	assert.Equal(t, "400", s.RevenuePrev.String())
	assert.Equal(t, "-25%", s.RevenueTrend.Change)
}

func TestComputeStats_UrgentAndNoFinalCost(t *testing.T) {
	noFinal := repair(StatusCompleted, PriorityUrgent, testNow.Add(-time.Hour))
	snapshot := []Repair{
		repair(StatusNew, PriorityUrgent, testNow),
		repair(StatusInProgress, PriorityUrgent, testNow),
		repair(StatusWaitingParts, PriorityUrgent, testNow),
		noFinal,
	}

	s := ComputeStats(snapshot, timewindow.MustResolve(timewindow.Today, testNow))
	assert.Equal(t, 2, s.Urgent)
	assert.Equal(t, 3, s.Active)
	assert.True(t, s.Revenue.IsZero())
	assert.Equal(t, 1, s.CompletedInWindow)
	assert.Zero(t, s.AvgRepairTimeHours, "completed without completedAt is not timed")
}

func TestComputeStats_EmptySnapshot(t *testing.T) {
	s := ComputeStats(nil, timewindow.MustResolve(timewindow.Month, testNow))
	assert.Zero(t, s.Total)
	assert.Zero(t, s.AvgRepairTimeHours)
	assert.Equal(t, TrendNoBaseline, s.CompletedTrend.Change)
	assert.True(t, s.Revenue.IsZero())
}

func TestComputeStats_StatusesPartitionSnapshot(t *testing.T) {
	var snapshot []Repair
	for i, st := range Statuses {
		for j := 0; j <= i; j++ {
			snapshot = append(snapshot, repair(st, PriorityLow, testNow.Add(-time.Duration(i*j)*time.Hour)))
		}
	}

	s := ComputeStats(snapshot, timewindow.MustResolve(timewindow.Week, testNow))

	assert.Equal(t, len(snapshot), s.ByStatus.Sum())
	for i, st := range Statuses {
		assert.Equal(t, i+1, s.ByStatus.Get(st))
	}
	assert.LessOrEqual(t, s.Active+s.ByStatus.Completed+s.ByStatus.Cancelled, s.Total)
	assert.Equal(t, s.ByStatus.New+s.ByStatus.InProgress+s.ByStatus.WaitingParts, s.Active)
}
