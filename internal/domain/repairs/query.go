package repairs

import (
	"slices"
	"strings"

	"repairdesk/internal/core/apperror"
	"repairdesk/internal/core/id"
)

// Keywords accepted by the parse helpers.
const (
	AllKeyword        = "all"
	UnassignedKeyword = "unassigned"
)

// AnyStatus and AnyPriority leave the respective criterion unconstrained.
const (
	AnyStatus   Status   = ""
	AnyPriority Priority = ""
)

type technicianMatch uint8

const (
	matchAnyTechnician technicianMatch = iota
	matchUnassigned
	matchTechnician
)

// TechnicianFilter constrains repairs by assignment.
type TechnicianFilter struct {
	match technicianMatch
	id    id.ID
}

var (
	// AnyTechnician matches every repair.
	AnyTechnician = TechnicianFilter{}

	// Unassigned matches repairs without a technician.
	Unassigned = TechnicianFilter{match: matchUnassigned}
)

// ExactTechnician matches repairs assigned to technicianID.
func ExactTechnician(technicianID id.ID) TechnicianFilter {
	return TechnicianFilter{match: matchTechnician, id: technicianID}
}

// Matches reports whether r satisfies the filter.
func (f TechnicianFilter) Matches(r Repair) bool {
	switch f.match {
	case matchUnassigned:
		return !r.Assigned()
	case matchTechnician:
		return id.PtrEqual(r.TechnicianID, f.id)
	}
	return true
}

// String renders the filter in its query-string form.
func (f TechnicianFilter) String() string {
	switch f.match {
	case matchUnassigned:
		return UnassignedKeyword
	case matchTechnician:
		return f.id.String()
	}
	return AllKeyword
}

// ParseTechnicianFilter accepts "", "all", "unassigned" or a technician id.
func ParseTechnicianFilter(s string) (TechnicianFilter, error) {
	switch s {
	case "", AllKeyword:
		return AnyTechnician, nil
	case UnassignedKeyword:
		return Unassigned, nil
	}
	v, err := id.Parse(s)
	if err != nil {
		return TechnicianFilter{}, apperror.NewInvalidInput("technician", s)
	}
	return ExactTechnician(v), nil
}

// ParseStatusFilter accepts "", "all" or a known status.
func ParseStatusFilter(s string) (Status, error) {
	if s == "" || s == AllKeyword {
		return AnyStatus, nil
	}
	if st := Status(s); st.Valid() {
		return st, nil
	}
	return AnyStatus, apperror.NewInvalidInput("status", s)
}

// ParsePriorityFilter accepts "", "all" or a known priority.
func ParsePriorityFilter(s string) (Priority, error) {
	if s == "" || s == AllKeyword {
		return AnyPriority, nil
	}
	if p := Priority(s); p.Valid() {
		return p, nil
	}
	return AnyPriority, apperror.NewInvalidInput("priority", s)
}

// Filter is a conjunction of criteria. The zero value matches everything.
type Filter struct {
	// Search is matched case-insensitively as a substring of the client
	// name, device type, device model, problem and technician name.
	Search     string
	Status     Status
	Priority   Priority
	Technician TechnicianFilter

	// Expression is an optional compiled CEL predicate.
	Expression *Expression
}

// Matches reports whether r satisfies every criterion.
func (f Filter) Matches(r Repair) bool {
	if f.Search != "" && !matchesSearch(r, strings.ToLower(f.Search)) {
		return false
	}
	if f.Status != AnyStatus && r.Status != f.Status {
		return false
	}
	if f.Priority != AnyPriority && r.Priority != f.Priority {
		return false
	}
	if !f.Technician.Matches(r) {
		return false
	}
	if f.Expression != nil && !f.Expression.Matches(r) {
		return false
	}
	return true
}

func matchesSearch(r Repair, needle string) bool {
	for _, field := range []string{r.ClientName, r.DeviceType, r.DeviceModel, r.Problem, r.TechnicianDisplayName()} {
		if strings.Contains(strings.ToLower(field), needle) {
			return true
		}
	}
	return false
}

// SortField names a sort key.
type SortField string

const (
	SortCreatedAt     SortField = "createdAt"
	SortPriority      SortField = "priority"
	SortCost          SortField = "cost"
	SortEstimatedDays SortField = "estimatedDays"
)

// Direction is the sort order.
type Direction string

const (
	Asc  Direction = "asc"
	Desc Direction = "desc"
)

// Sort orders a result set. Unknown fields keep the filtered order.
type Sort struct {
	Field     SortField
	Direction Direction
}

// DefaultSort lists the newest repairs first.
var DefaultSort = Sort{Field: SortCreatedAt, Direction: Desc}

// ParseSort reads the "field-direction" form, e.g. "cost-asc".
// Any direction other than asc sorts descending. An empty string is DefaultSort.
func ParseSort(s string) Sort {
	if s == "" {
		return DefaultSort
	}
	field, dir, _ := strings.Cut(s, "-")
	out := Sort{Field: SortField(field), Direction: Desc}
	if Direction(dir) == Asc {
		out.Direction = Asc
	}
	return out
}

// String renders the sort in its query-string form.
func (s Sort) String() string {
	return string(s.Field) + "-" + string(s.Direction)
}

func (s Sort) compare(a, b Repair) int {
	var c int
	switch s.Field {
	case SortCreatedAt:
		c = a.CreatedAt.Compare(b.CreatedAt)
	case SortPriority:
		c = a.Priority.Rank() - b.Priority.Rank()
	case SortCost:
		c = a.Cost().Cmp(b.Cost())
	case SortEstimatedDays:
		c = a.EstimatedDays - b.EstimatedDays
	default:
		return 0
	}
	if s.Direction == Asc {
		return c
	}
	return -c
}

// Query is a filter followed by a sort.
type Query struct {
	Filter Filter
	Sort   Sort
}

// Apply filters then stably sorts the snapshot into a new slice.
// The snapshot itself is left untouched.
func Apply(snapshot []Repair, q Query) []Repair {
	out := make([]Repair, 0, len(snapshot))
	for _, r := range snapshot {
		if q.Filter.Matches(r) {
			out = append(out, r)
		}
	}
	slices.SortStableFunc(out, q.Sort.compare)
	return out
}
