package repairs

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"repairdesk/internal/core/apperror"
	"repairdesk/internal/core/id"
	"repairdesk/internal/core/types"
)

func queryFixture() (snapshot []Repair, ann id.ID) {
	ann = id.New()

	a := assigned(repair(StatusNew, PriorityHigh, testNow.Add(-3*time.Hour)), ann, "Anna Petrova")
	a.ClientName, a.DeviceType, a.DeviceModel, a.Problem = "Ivan", "Phone", "iPhone 13", "Cracked screen"
	a.EstimatedCost = types.NewMoneyFromInt(300)
	a.EstimatedDays = 2

	b := repair(StatusInProgress, PriorityUrgent, testNow.Add(-2*time.Hour))
	b.ClientName, b.DeviceType, b.DeviceModel, b.Problem = "Olga", "Laptop", "ThinkPad", "No power"
	b.EstimatedCost = types.NewMoneyFromInt(900)
	b.EstimatedDays = 5

	c := assigned(repair(StatusCompleted, PriorityHigh, testNow.Add(-time.Hour)), id.New(), "Boris")
	c.ClientName, c.DeviceType, c.DeviceModel, c.Problem = "Petr", "Phone", "Pixel", "Battery"
	c.EstimatedCost = types.NewMoneyFromInt(100)
	c.FinalCost = money(1200)

	d := repair(StatusNew, PriorityLow, testNow)
	d.ClientName, d.DeviceType, d.DeviceModel, d.Problem = "Anna", "TV", "Bravia", "Flicker"

	return []Repair{a, b, c, d}, ann
}

func clientNames(rs []Repair) []string {
	out := make([]string, 0, len(rs))
	for _, r := range rs {
		out = append(out, r.ClientName)
	}
	return out
}

func TestApply_Filters(t *testing.T) {
	snapshot, ann := queryFixture()

	tests := []struct {
		name   string
		filter Filter
		want   []string
	}{
		{"zero filter matches all", Filter{}, []string{"Ivan", "Olga", "Petr", "Anna"}},
		{"search is case-insensitive", Filter{Search: "PHONE"}, []string{"Ivan", "Petr"}},
		{"search matches technician name", Filter{Search: "petrova"}, []string{"Ivan"}},
		{"search matches client name", Filter{Search: "anna"}, []string{"Ivan", "Anna"}},
		{"status", Filter{Status: StatusNew}, []string{"Ivan", "Anna"}},
		{"priority", Filter{Priority: PriorityHigh}, []string{"Ivan", "Petr"}},
		{"unassigned", Filter{Technician: Unassigned}, []string{"Olga", "Anna"}},
		{"exact technician", Filter{Technician: ExactTechnician(ann)}, []string{"Ivan"}},
		{"conjunctive", Filter{Status: StatusNew, Technician: Unassigned}, []string{"Anna"}},
		{"no match", Filter{Search: "fridge"}, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Apply(snapshot, Query{Filter: tt.filter})
			assert.Equal(t, tt.want, clientNames(got))
		})
	}
}

func TestApply_Sorts(t *testing.T) {
	snapshot, _ := queryFixture()

	tests := []struct {
		sort string
		want []string
	}{
		{"createdAt-desc", []string{"Anna", "Petr", "Olga", "Ivan"}},
		{"createdAt-asc", []string{"Ivan", "Olga", "Petr", "Anna"}},
		{"priority-desc", []string{"Olga", "Ivan", "Petr", "Anna"}},
		{"priority-asc", []string{"Anna", "Ivan", "Petr", "Olga"}},
		{"cost-desc", []string{"Petr", "Olga", "Ivan", "Anna"}},
		{"estimatedDays-asc", []string{"Petr", "Anna", "Ivan", "Olga"}},
		{"rating-desc", []string{"Ivan", "Olga", "Petr", "Anna"}},
	}

	for _, tt := range tests {
		t.Run(tt.sort, func(t *testing.T) {
			got := Apply(snapshot, Query{Sort: ParseSort(tt.sort)})
			assert.Equal(t, tt.want, clientNames(got))
		})
	}
}

func TestApply_IdempotentAndStable(t *testing.T) {
	snapshot, _ := queryFixture()
	q := Query{Filter: Filter{Search: "a"}, Sort: ParseSort("priority-desc")}

	once := Apply(snapshot, q)
	twice := Apply(once, q)
	assert.Equal(t, once, twice)

	// Ivan and Petr share priority high; their relative order is kept.
	assert.Equal(t, clientNames(once), clientNames(Apply(Apply(snapshot, q), q)))
}

func TestApply_DoesNotMutateInput(t *testing.T) {
	snapshot, _ := queryFixture()
	before := clientNames(snapshot)

	_ = Apply(snapshot, Query{Sort: ParseSort("cost-asc")})
	assert.Equal(t, before, clientNames(snapshot))
}

func TestParseSort(t *testing.T) {
	assert.Equal(t, DefaultSort, ParseSort(""))
	assert.Equal(t, Sort{Field: SortCost, Direction: Asc}, ParseSort("cost-asc"))
	assert.Equal(t, Sort{Field: SortPriority, Direction: Desc}, ParseSort("priority"))
	assert.Equal(t, "cost-asc", ParseSort("cost-asc").String())
}

func TestParseFilters(t *testing.T) {
	f, err := ParseTechnicianFilter("")
	require.NoError(t, err)
	assert.Equal(t, AnyTechnician, f)

	f, err = ParseTechnicianFilter(AllKeyword)
	require.NoError(t, err)
	assert.Equal(t, AnyTechnician, f)

	f, err = ParseTechnicianFilter(UnassignedKeyword)
	require.NoError(t, err)
	assert.Equal(t, Unassigned, f)

	techID := id.New()
	f, err = ParseTechnicianFilter(techID.String())
	require.NoError(t, err)
	assert.Equal(t, ExactTechnician(techID), f)
	assert.Equal(t, techID.String(), f.String())

	_, err = ParseTechnicianFilter("someone")
	assert.True(t, apperror.HasCode(err, apperror.CodeInvalidInput))

	st, err := ParseStatusFilter("all")
	require.NoError(t, err)
	assert.Equal(t, AnyStatus, st)
	_, err = ParseStatusFilter("done")
	assert.Error(t, err)

	p, err := ParsePriorityFilter("urgent")
	require.NoError(t, err)
	assert.Equal(t, PriorityUrgent, p)
	_, err = ParsePriorityFilter("asap")
	assert.Error(t, err)
}
