package repairs

import (
	"time"

	"repairdesk/internal/core/types"
	"repairdesk/internal/domain/timewindow"
)

// StatusCounts buckets a snapshot by status. Every repair lands in exactly one bucket.
type StatusCounts struct {
	New          int `json:"new"`
	InProgress   int `json:"inProgress"`
	WaitingParts int `json:"waitingParts"`
	Completed    int `json:"completed"`
	Cancelled    int `json:"cancelled"`
}

// Add counts one repair with status s. Unknown statuses are dropped.
func (c *StatusCounts) Add(s Status) {
	switch s {
	case StatusNew:
		c.New++
	case StatusInProgress:
		c.InProgress++
	case StatusWaitingParts:
		c.WaitingParts++
	case StatusCompleted:
		c.Completed++
	case StatusCancelled:
		c.Cancelled++
	}
}

// Get returns the bucket for s.
func (c StatusCounts) Get(s Status) int {
	switch s {
	case StatusNew:
		return c.New
	case StatusInProgress:
		return c.InProgress
	case StatusWaitingParts:
		return c.WaitingParts
	case StatusCompleted:
		return c.Completed
	case StatusCancelled:
		return c.Cancelled
	}
	return 0
}

// Sum is the number of repairs counted.
func (c StatusCounts) Sum() int {
	return c.New + c.InProgress + c.WaitingParts + c.Completed + c.Cancelled
}

// Stats are the windowed counters shown on the dashboard and repairs views.
type Stats struct {
	Window   timewindow.Window `json:"window"`
	Total    int               `json:"total"`
	ByStatus StatusCounts      `json:"byStatus"`

	// Active and Urgent are computed over the full snapshot.
	Active int `json:"activeRepairs"`
	Urgent int `json:"urgentRepairs"`

	CompletedInWindow int   `json:"completedInWindow"`
	CompletedPrev     int   `json:"completedPrev"`
	CompletedTrend    Trend `json:"completedTrend"`

	Revenue      types.Money `json:"revenue"`
	RevenuePrev  types.Money `json:"revenuePrev"`
	RevenueTrend Trend       `json:"revenueTrend"`

	// TotalRevenue sums finalCost over every completed repair.
	TotalRevenue types.Money `json:"totalRevenue"`

	// AvgRepairTimeHours is the unrounded mean turnaround of timed repairs.
	AvgRepairTimeHours float64 `json:"avgRepairTime"`
}

// ComputeStats derives Stats from a snapshot for window w.
func ComputeStats(snapshot []Repair, w timewindow.Window) Stats {
	s := Stats{
		Window:       w,
		Total:        len(snapshot),
		Revenue:      types.Zero(),
		RevenuePrev:  types.Zero(),
		TotalRevenue: types.Zero(),
	}

	var (
		turnaround time.Duration
		timed      int
	)

	for _, r := range snapshot {
		s.ByStatus.Add(r.Status)

		if r.Status.Active() {
			s.Active++
		}
		if r.Priority == PriorityUrgent && (r.Status == StatusNew || r.Status == StatusInProgress) {
			s.Urgent++
		}
		if !r.IsCompleted() {
			continue
		}

		final := types.OrZero(r.FinalCost)
		s.TotalRevenue = s.TotalRevenue.Add(final)

		switch {
		case w.InCurrent(r.CreatedAt):
			s.CompletedInWindow++
			s.Revenue = s.Revenue.Add(final)
			if d, ok := r.Turnaround(); ok {
				turnaround += d
				timed++
			}
		case w.InPrevious(r.CreatedAt):
			s.CompletedPrev++
			s.RevenuePrev = s.RevenuePrev.Add(final)
		}
	}

	s.CompletedTrend = CountTrend(s.CompletedInWindow, s.CompletedPrev)
	s.RevenueTrend = MoneyTrend(s.Revenue, s.RevenuePrev)
	s.AvgRepairTimeHours = types.MeanDuration(turnaround, timed).Hours()
	return s
}
