package repairs

import (
	"slices"
	"time"

	"repairdesk/internal/core/id"
	"repairdesk/internal/core/types"
)

const (
	topDevicesLimit     = 5
	topTechniciansLimit = 5
	revenueMonthsKept   = 6

	monthKeyLayout = "2006-01"
)

// PriorityCounts holds a count per priority. Missing priorities stay 0.
type PriorityCounts struct {
	Urgent int `json:"urgent"`
	High   int `json:"high"`
	Medium int `json:"medium"`
	Low    int `json:"low"`
}

// Add counts one repair with priority p.
func (c *PriorityCounts) Add(p Priority) {
	switch p {
	case PriorityUrgent:
		c.Urgent++
	case PriorityHigh:
		c.High++
	case PriorityMedium:
		c.Medium++
	case PriorityLow:
		c.Low++
	}
}

// DeviceCount is one row of the device popularity table.
type DeviceCount struct {
	Device string `json:"device"`
	Count  int    `json:"count"`
}

// TechnicianRevenue ranks a technician by the completed work attributed to them.
type TechnicianRevenue struct {
	TechnicianID id.ID       `json:"technicianId"`
	Name         string      `json:"name"`
	Count        int         `json:"count"`
	Revenue      types.Money `json:"revenue"`
}

// MonthRevenue is the revenue of repairs completed in one month (YYYY-MM).
type MonthRevenue struct {
	Month   string      `json:"month"`
	Revenue types.Money `json:"revenue"`
}

// Analytics is the lifetime view over a repair snapshot.
type Analytics struct {
	Total                int                 `json:"total"`
	CompletedCount       int                 `json:"completedCount"`
	TopDevices           []DeviceCount       `json:"topDevices"`
	PriorityDistribution PriorityCounts      `json:"priorityDistribution"`
	TopTechnicians       []TechnicianRevenue `json:"topTechnicians"`
	MonthlyRevenue       []MonthRevenue      `json:"monthlyRevenue"`
	SuccessRate          int                 `json:"successRate"`
	TotalCost            types.Money         `json:"totalCost"`
	AvgCost              types.Money         `json:"avgCost"`
	AvgRepairTimeDays    float64             `json:"avgRepairTime"`
}

// ComputeAnalytics derives the lifetime view. Rankings break ties by the
// order keys were first seen in the snapshot.
func ComputeAnalytics(snapshot []Repair) Analytics {
	a := Analytics{
		Total:     len(snapshot),
		TotalCost: types.Zero(),
	}

	var (
		devices    []DeviceCount
		deviceIdx  = make(map[string]int)
		techs      []TechnicianRevenue
		techIdx    = make(map[id.ID]int)
		months     []MonthRevenue
		monthIdx   = make(map[string]int)
		turnaround time.Duration
	)

	for _, r := range snapshot {
		if i, ok := deviceIdx[r.DeviceType]; ok {
			devices[i].Count++
		} else {
			deviceIdx[r.DeviceType] = len(devices)
			devices = append(devices, DeviceCount{Device: r.DeviceType, Count: 1})
		}
		a.PriorityDistribution.Add(r.Priority)

		if !r.IsCompleted() {
			continue
		}

		a.CompletedCount++
		cost := r.Cost()
		a.TotalCost = a.TotalCost.Add(cost)

		if r.Assigned() && r.TechnicianDisplayName() != "" {
			techID := *r.TechnicianID
			i, ok := techIdx[techID]
			if !ok {
				i = len(techs)
				techIdx[techID] = i
				techs = append(techs, TechnicianRevenue{
					TechnicianID: techID,
					Name:         r.TechnicianDisplayName(),
					Revenue:      types.Zero(),
				})
			}
			techs[i].Count++
			techs[i].Revenue = techs[i].Revenue.Add(cost)
		}

		if r.CompletedAt != nil {
			key := r.CompletedAt.Format(monthKeyLayout)
			i, ok := monthIdx[key]
			if !ok {
				i = len(months)
				monthIdx[key] = i
				months = append(months, MonthRevenue{Month: key, Revenue: types.Zero()})
			}
			months[i].Revenue = months[i].Revenue.Add(cost)
			turnaround += r.CompletedAt.Sub(r.CreatedAt)
		}
	}

	slices.SortStableFunc(devices, func(x, y DeviceCount) int {
		return y.Count - x.Count
	})
	slices.SortStableFunc(techs, func(x, y TechnicianRevenue) int {
		return y.Revenue.Cmp(x.Revenue)
	})

	a.TopDevices = head(devices, topDevicesLimit)
	a.TopTechnicians = head(techs, topTechniciansLimit)
	a.MonthlyRevenue = tail(months, revenueMonthsKept)
	a.SuccessRate = types.Percent(float64(a.CompletedCount), float64(a.Total))
	a.AvgCost = types.RoundMoneyHalfUp(types.MeanMoney(a.TotalCost, a.CompletedCount))
	a.AvgRepairTimeDays = types.RoundTo(types.Days(types.MeanDuration(turnaround, a.CompletedCount)), 1)
	return a
}

func head[T any](s []T, n int) []T {
	if len(s) > n {
		s = s[:n]
	}
	return append([]T{}, s...)
}

func tail[T any](s []T, n int) []T {
	if len(s) > n {
		s = s[len(s)-n:]
	}
	return append([]T{}, s...)
}
