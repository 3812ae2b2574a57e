package repairs

import (
	"fmt"

	"github.com/shopspring/decimal"

	"repairdesk/internal/core/types"
)

// TrendNoBaseline is reported whenever the comparison window is empty,
// whatever the current value is.
const TrendNoBaseline = "+100%"

// Trend is a formatted percentage change between two windows.
type Trend struct {
	Change string `json:"change"`
	Up     bool   `json:"up"`
}

var hundred = decimal.NewFromInt(100)

// CountTrend compares two counts.
func CountTrend(current, previous int) Trend {
	t := Trend{Up: current >= previous, Change: TrendNoBaseline}
	if previous > 0 {
		pct := float64(current-previous) / float64(previous) * 100
		t.Change = formatChange(int64(types.RoundHalfUp(pct)))
	}
	return t
}

// MoneyTrend compares two amounts. A non-positive previous amount has no baseline.
func MoneyTrend(current, previous types.Money) Trend {
	t := Trend{Up: current.GreaterThanOrEqual(previous), Change: TrendNoBaseline}
	if previous.IsPositive() {
		pct := current.Sub(previous).Div(previous).Mul(hundred)
		t.Change = formatChange(types.RoundMoneyHalfUp(pct).IntPart())
	}
	return t
}

func formatChange(pct int64) string {
	return fmt.Sprintf("%+d%%", pct)
}
