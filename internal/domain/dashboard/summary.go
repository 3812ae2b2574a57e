// Package dashboard joins the repair, technician, client and inventory
// engines into the landing view.
package dashboard

import (
	"slices"

	"repairdesk/internal/domain/clients"
	"repairdesk/internal/domain/repairs"
	"repairdesk/internal/domain/technicians"
	"repairdesk/internal/domain/timewindow"
	"repairdesk/internal/domain/warehouse"
)

const (
	RecentRepairsLimit  = 6
	TopTechniciansLimit = 5
)

// StatusShare is one bar of the status distribution.
type StatusShare struct {
	Status repairs.Status `json:"status"`
	Count  int            `json:"count"`
}

// distributionOrder is the bar order. Cancelled repairs are not charted.
var distributionOrder = []repairs.Status{
	repairs.StatusInProgress,
	repairs.StatusWaitingParts,
	repairs.StatusNew,
	repairs.StatusCompleted,
}

// Input is the set of snapshots the summary is computed from.
type Input struct {
	Repairs     []repairs.Repair
	Clients     []clients.Client
	Technicians []technicians.Technician
	Inventory   []warehouse.InventoryItem
}

// Summary is the landing view.
type Summary struct {
	Stats repairs.Stats `json:"stats"`

	OnDutyTechnicians int `json:"onDutyTechnicians"`
	LowStockItems     int `json:"lowStockItems"`
	TotalClients      int `json:"totalClients"`
	NewClients        int `json:"newClients"`

	RecentRepairs      []repairs.Repair         `json:"recentRepairs"`
	StatusDistribution []StatusShare            `json:"statusDistribution"`
	TopTechnicians     []technicians.Technician `json:"topTechnicians"`

	// OpenByPriority counts repairs not yet completed, per priority.
	OpenByPriority repairs.PriorityCounts `json:"openByPriority"`
}

// Compute derives the summary for window w.
func Compute(in Input, w timewindow.Window) Summary {
	stats := repairs.ComputeStats(in.Repairs, w)

	s := Summary{
		Stats:          stats,
		LowStockItems:  len(warehouse.LowStock(in.Inventory)),
		TotalClients:   len(in.Clients),
		NewClients:     clients.CreatedSince(in.Clients, w.Start),
		RecentRepairs:  repairs.Recent(in.Repairs, RecentRepairsLimit),
		TopTechnicians: TopTechnicians(in.Technicians, TopTechniciansLimit),
	}

	for _, t := range in.Technicians {
		if t.Status.OnDuty() {
			s.OnDutyTechnicians++
		}
	}

	s.StatusDistribution = make([]StatusShare, 0, len(distributionOrder))
	for _, st := range distributionOrder {
		s.StatusDistribution = append(s.StatusDistribution, StatusShare{Status: st, Count: stats.ByStatus.Get(st)})
	}

	for _, r := range in.Repairs {
		if r.Status != repairs.StatusCompleted {
			s.OpenByPriority.Add(r.Priority)
		}
	}
	return s
}

// TopTechnicians ranks by lifetime completed repairs. Ties keep roster order.
func TopTechnicians(roster []technicians.Technician, n int) []technicians.Technician {
	ranked := slices.Clone(roster)
	slices.SortStableFunc(ranked, func(a, b technicians.Technician) int {
		switch {
		case a.CompletedRepairs > b.CompletedRepairs:
			return -1
		case a.CompletedRepairs < b.CompletedRepairs:
			return 1
		}
		return 0
	})
	if len(ranked) > n {
		ranked = ranked[:n]
	}
	if ranked == nil {
		ranked = []technicians.Technician{}
	}
	return ranked
}
