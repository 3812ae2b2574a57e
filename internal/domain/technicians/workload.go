package technicians

import (
	"time"

	"repairdesk/internal/core/id"
	"repairdesk/internal/core/types"
	"repairdesk/internal/domain/repairs"
)

// AssumedCapacity is the number of concurrent jobs that counts as a full load.
const AssumedCapacity = 5

// MaxWorkload is the workload ceiling in percent.
const MaxWorkload = 100

// Workload is a technician joined with figures derived from the repairs
// assigned to them.
type Workload struct {
	Technician

	ActiveRepairs      int         `json:"activeRepairs"`
	CompletedThisMonth int         `json:"completedThisMonth"`
	Revenue            types.Money `json:"revenue"`
	AvgRepairDays      float64     `json:"avgRepairTime"`
	Workload           int         `json:"workload"`
}

// WorkloadPercent maps an active job count onto [0, MaxWorkload].
func WorkloadPercent(active int) int {
	pct := int(types.RoundHalfUp(float64(active) / AssumedCapacity * 100))
	return min(max(pct, 0), MaxWorkload)
}

// ComputeWorkloads derives per-technician figures in roster order.
// Repairs whose technician is not on the roster are ignored.
func ComputeWorkloads(roster []Technician, snapshot []repairs.Repair, now time.Time) []Workload {
	byTech := make(map[id.ID][]repairs.Repair, len(roster))
	for _, r := range snapshot {
		if r.Assigned() {
			byTech[*r.TechnicianID] = append(byTech[*r.TechnicianID], r)
		}
	}

	out := make([]Workload, 0, len(roster))
	for _, t := range roster {
		out = append(out, computeWorkload(t, byTech[t.ID], now))
	}
	return out
}

func computeWorkload(t Technician, assigned []repairs.Repair, now time.Time) Workload {
	w := Workload{Technician: t, Revenue: types.Zero()}

	var turnaround time.Duration
	for _, r := range assigned {
		switch r.Status {
		case repairs.StatusInProgress, repairs.StatusWaitingParts:
			w.ActiveRepairs++
		case repairs.StatusCompleted:
			if r.FinalCost != nil {
				w.Revenue = w.Revenue.Add(*r.FinalCost)
			}
			if d, ok := r.Turnaround(); ok {
				turnaround += d
				if sameMonth(*r.CompletedAt, now) {
					w.CompletedThisMonth++
				}
			}
		}
	}

	// Divided by the lifetime counter, not by the repairs found here.
	if t.CompletedRepairs > 0 {
		days := types.Days(turnaround) / float64(t.CompletedRepairs)
		w.AvgRepairDays = types.RoundTo(days, 1)
	}
	w.Workload = WorkloadPercent(w.ActiveRepairs)
	return w
}

func sameMonth(t, now time.Time) bool {
	t = t.In(now.Location())
	return t.Year() == now.Year() && t.Month() == now.Month()
}

// FleetStats summarizes the whole roster.
type FleetStats struct {
	Total          int         `json:"total"`
	OnDuty         int         `json:"active"`
	Available      int         `json:"available"`
	Busy           int         `json:"busy"`
	OnBreak        int         `json:"onBreak"`
	OffDuty        int         `json:"offDuty"`
	TotalCompleted int64       `json:"totalCompleted"`
	AvgRating      float64     `json:"avgRating"`
	TotalRevenue   types.Money `json:"totalRevenue"`
	AvgWorkload    int         `json:"avgWorkload"`

	// TopPerformer has the most completions this month. Nil for an empty roster.
	TopPerformer *Workload `json:"topPerformer,omitempty"`
}

// ComputeFleetStats aggregates workloads computed by ComputeWorkloads.
func ComputeFleetStats(workloads []Workload) FleetStats {
	s := FleetStats{Total: len(workloads), TotalRevenue: types.Zero()}

	var ratingSum float64
	workloadSum := 0
	for i, w := range workloads {
		switch w.Status {
		case StatusAvailable:
			s.Available++
		case StatusBusy:
			s.Busy++
		case StatusOnBreak:
			s.OnBreak++
		case StatusOffDuty:
			s.OffDuty++
		}
		if w.Status.OnDuty() {
			s.OnDuty++
		}

		s.TotalCompleted += w.CompletedRepairs
		ratingSum += w.Rating
		s.TotalRevenue = s.TotalRevenue.Add(w.Revenue)
		workloadSum += w.Workload

		// Strictly greater keeps the earliest on ties.
		if s.TopPerformer == nil || w.CompletedThisMonth > s.TopPerformer.CompletedThisMonth {
			s.TopPerformer = &workloads[i]
		}
	}

	if s.Total > 0 {
		s.AvgRating = types.RoundTo(ratingSum/float64(s.Total), 1)
		s.AvgWorkload = int(types.RoundHalfUp(float64(workloadSum) / float64(s.Total)))
	}
	if s.TopPerformer != nil {
		top := *s.TopPerformer
		top.Specialization = append([]string(nil), top.Specialization...)
		s.TopPerformer = &top
	}
	return s
}

// View selects which technicians a listing shows.
type View string

const (
	ViewOnDuty View = "active"
	ViewAll    View = "all"
)

// ParseView maps "" to ViewOnDuty. Unknown views are rejected by the caller.
func ParseView(s string) (View, bool) {
	switch View(s) {
	case "", ViewOnDuty:
		return ViewOnDuty, true
	case ViewAll:
		return ViewAll, true
	}
	return "", false
}

// Select filters workloads for v, keeping order.
func Select(workloads []Workload, v View) []Workload {
	if v == ViewAll {
		return workloads
	}
	out := make([]Workload, 0, len(workloads))
	for _, w := range workloads {
		if w.Status.OnDuty() {
			out = append(out, w)
		}
	}
	return out
}

// RecentRepairsLimit is the size of a technician's repair history view.
const RecentRepairsLimit = 10

// RecentRepairs returns at most n repairs assigned to technicianID, newest first.
func RecentRepairs(snapshot []repairs.Repair, technicianID id.ID, n int) []repairs.Repair {
	mine := repairs.Apply(snapshot, repairs.Query{
		Filter: repairs.Filter{Technician: repairs.ExactTechnician(technicianID)},
	})
	return repairs.Recent(mine, n)
}
