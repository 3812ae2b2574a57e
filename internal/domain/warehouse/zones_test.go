package warehouse_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"repairdesk/internal/domain/warehouse"
)

func TestUtilization(t *testing.T) {
	tests := []struct {
		name           string
		load, capacity int64
		want           int
		band           warehouse.Band
	}{
		{"zero capacity", 10, 0, 0, warehouse.BandHealthy},
		{"empty", 0, 100, 0, warehouse.BandHealthy},
		{"at warning threshold", 60, 100, 60, warehouse.BandHealthy},
		{"warning", 61, 100, 61, warehouse.BandWarning},
		{"at critical threshold", 80, 100, 80, warehouse.BandWarning},
		{"critical", 81, 100, 81, warehouse.BandCritical},
		{"rounded half up", 1, 8, 13, warehouse.BandHealthy},
		{"over capacity", 150, 100, 150, warehouse.BandCritical},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u := warehouse.Utilization(warehouse.Zone{CurrentLoad: tt.load, Capacity: tt.capacity})
			assert.Equal(t, tt.want, u)
			assert.Equal(t, tt.band, warehouse.BandFor(u))
		})
	}
}

func TestSummarizeCapacity(t *testing.T) {
	s := warehouse.SummarizeCapacity([]warehouse.Zone{
		{Name: "A", Capacity: 100, CurrentLoad: 90},
		{Name: "B", Capacity: 100, CurrentLoad: 70},
		{Name: "C", Capacity: 200, CurrentLoad: 20},
		{Name: "D", Capacity: 0, CurrentLoad: 5},
	})
	assert.Equal(t, 4, s.Zones)
	assert.Equal(t, int64(185), s.TotalLoad)
	assert.Equal(t, int64(400), s.TotalCapacity)
	assert.Equal(t, 46, s.Utilization)
	assert.Equal(t, warehouse.BandHealthy, s.Band)
	assert.Equal(t, 1, s.Critical)
	assert.Equal(t, 1, s.Warning)

	empty := warehouse.SummarizeCapacity(nil)
	assert.Zero(t, empty.Utilization)
	assert.Equal(t, warehouse.BandHealthy, empty.Band)
}
