package warehouse

import (
	"time"

	"repairdesk/internal/core/apperror"
	"repairdesk/internal/core/id"
	"repairdesk/internal/core/types"
)

// DateLayout is the calendar date format used by movement filters.
const DateLayout = "2006-01-02"

// MovementFilter narrows the movement journal. The zero value matches all.
type MovementFilter struct {
	// Date is a UTC calendar day in DateLayout, or "" for any day.
	Date string
	Type MovementType
}

// ParseMovementFilter validates query values.
func ParseMovementFilter(date, movementType string) (MovementFilter, error) {
	f := MovementFilter{Date: date, Type: MovementType(movementType)}
	if date != "" {
		if _, err := time.Parse(DateLayout, date); err != nil {
			return MovementFilter{}, apperror.NewInvalidInput("date", date)
		}
	}
	if f.Type != AnyMovementType && !f.Type.Valid() {
		return MovementFilter{}, apperror.NewInvalidInput("type", movementType)
	}
	return f, nil
}

// Matches reports whether m passes the filter.
func (f MovementFilter) Matches(m StockMovement) bool {
	if f.Date != "" && m.Date.UTC().Format(DateLayout) != f.Date {
		return false
	}
	return f.Type == AnyMovementType || m.Type == f.Type
}

// FilterMovements keeps the movements matching f in journal order.
func FilterMovements(movements []StockMovement, f MovementFilter) []StockMovement {
	out := make([]StockMovement, 0, len(movements))
	for _, m := range movements {
		if f.Matches(m) {
			out = append(out, m)
		}
	}
	return out
}

// TypeTotals aggregates one movement direction.
type TypeTotals struct {
	Count    int         `json:"count"`
	Quantity int64       `json:"quantity"`
	Value    types.Money `json:"value"`
}

func (t *TypeTotals) add(m StockMovement) {
	t.Count++
	t.Quantity += m.Quantity
	t.Value = t.Value.Add(m.Value())
}

// ItemActivity is the movement volume of one item.
type ItemActivity struct {
	ItemID   id.ID  `json:"itemId"`
	ItemName string `json:"itemName"`
	TotalIn  int64  `json:"totalIn"`
	TotalOut int64  `json:"totalOut"`
}

// Total is TotalIn + TotalOut.
func (a ItemActivity) Total() int64 { return a.TotalIn + a.TotalOut }

// MovementSummary aggregates the journal.
type MovementSummary struct {
	In  TypeTotals `json:"in"`
	Out TypeTotals `json:"out"`

	// Balance is In.Quantity - Out.Quantity.
	Balance int64 `json:"balance"`

	// MostActiveItem is taken over the whole journal, not the filtered part.
	// Nil when the journal is empty.
	MostActiveItem *ItemActivity `json:"mostActiveItem,omitempty"`
}

// Summarize totals the movements matching f and finds the most active item
// over all movements.
func Summarize(movements []StockMovement, f MovementFilter) MovementSummary {
	s := MovementSummary{
		In:  TypeTotals{Value: types.Zero()},
		Out: TypeTotals{Value: types.Zero()},
	}
	for _, m := range movements {
		if !f.Matches(m) {
			continue
		}
		switch m.Type {
		case MovementIn:
			s.In.add(m)
		case MovementOut:
			s.Out.add(m)
		}
	}
	s.Balance = s.In.Quantity - s.Out.Quantity
	s.MostActiveItem = MostActiveItem(movements)
	return s
}

// MostActiveItem returns the item with the largest in+out quantity.
// Ties go to the item seen first.
func MostActiveItem(movements []StockMovement) *ItemActivity {
	var order []id.ID
	byItem := make(map[id.ID]*ItemActivity)
	for _, m := range movements {
		a, ok := byItem[m.ItemID]
		if !ok {
			a = &ItemActivity{ItemID: m.ItemID, ItemName: m.ItemName}
			byItem[m.ItemID] = a
			order = append(order, m.ItemID)
		}
		switch m.Type {
		case MovementIn:
			a.TotalIn += m.Quantity
		case MovementOut:
			a.TotalOut += m.Quantity
		}
	}

	var best *ItemActivity
	for _, itemID := range order {
		if a := byItem[itemID]; best == nil || a.Total() > best.Total() {
			best = a
		}
	}
	if best == nil {
		return nil
	}
	out := *best
	return &out
}
