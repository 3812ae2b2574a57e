package repairs

import (
	"slices"
)

// BoardColumns are the kanban lanes. Cancelled repairs are not shown on the board.
var BoardColumns = []Status{StatusNew, StatusInProgress, StatusWaitingParts, StatusCompleted}

// Column is one kanban lane.
type Column struct {
	Status  Status   `json:"status"`
	Repairs []Repair `json:"repairs"`
}

// GroupByStatus splits repairs into BoardColumns, keeping their order.
func GroupByStatus(repairs []Repair) []Column {
	idx := make(map[Status]int, len(BoardColumns))
	cols := make([]Column, len(BoardColumns))
	for i, s := range BoardColumns {
		idx[s] = i
		cols[i] = Column{Status: s, Repairs: []Repair{}}
	}
	for _, r := range repairs {
		if i, ok := idx[r.Status]; ok {
			cols[i].Repairs = append(cols[i].Repairs, r)
		}
	}
	return cols
}

// SortByCreatedDesc returns a copy ordered newest first. Equal instants keep
// their relative order.
func SortByCreatedDesc(repairs []Repair) []Repair {
	out := slices.Clone(repairs)
	slices.SortStableFunc(out, func(a, b Repair) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})
	return out
}

// Recent returns at most n repairs, newest first.
func Recent(repairs []Repair, n int) []Repair {
	return head(SortByCreatedDesc(repairs), max(n, 0))
}
