package warehouse

import (
	"repairdesk/internal/core/types"
)

// Band is the health of a zone's utilization.
type Band string

const (
	BandHealthy  Band = "healthy"
	BandWarning  Band = "warning"
	BandCritical Band = "critical"
)

// Band thresholds in percent. A utilization above the threshold enters the band.
const (
	WarningAbove  = 60
	CriticalAbove = 80
)

// Utilization is round(load / capacity * 100), or 0 for a zero capacity.
// Over-capacity zones report more than 100.
func Utilization(z Zone) int {
	return utilization(z.CurrentLoad, z.Capacity)
}

func utilization(load, capacity int64) int {
	if capacity <= 0 {
		return 0
	}
	return int(types.RoundHalfUp(float64(load) / float64(capacity) * 100))
}

// BandFor maps a utilization percentage to its band.
func BandFor(u int) Band {
	switch {
	case u > CriticalAbove:
		return BandCritical
	case u > WarningAbove:
		return BandWarning
	default:
		return BandHealthy
	}
}

// ZoneStatus is a zone with its derived utilization.
type ZoneStatus struct {
	Zone
	Utilization int  `json:"utilization"`
	Band        Band `json:"band"`
}

// TrackZones derives utilization for every zone, keeping order.
func TrackZones(zones []Zone) []ZoneStatus {
	out := make([]ZoneStatus, 0, len(zones))
	for _, z := range zones {
		u := Utilization(z)
		out = append(out, ZoneStatus{Zone: z, Utilization: u, Band: BandFor(u)})
	}
	return out
}

// CapacitySummary totals every zone.
type CapacitySummary struct {
	Zones         int   `json:"zones"`
	TotalLoad     int64 `json:"totalLoad"`
	TotalCapacity int64 `json:"totalCapacity"`
	Utilization   int   `json:"utilization"`
	Band          Band  `json:"band"`
	Critical      int   `json:"critical"`
	Warning       int   `json:"warning"`
}

// SummarizeCapacity aggregates load and capacity over all zones.
func SummarizeCapacity(zones []Zone) CapacitySummary {
	s := CapacitySummary{Zones: len(zones)}
	for _, z := range zones {
		s.TotalLoad += z.CurrentLoad
		s.TotalCapacity += z.Capacity
		switch BandFor(Utilization(z)) {
		case BandCritical:
			s.Critical++
		case BandWarning:
			s.Warning++
		}
	}
	s.Utilization = utilization(s.TotalLoad, s.TotalCapacity)
	s.Band = BandFor(s.Utilization)
	return s
}
