// Package timewindow resolves named ranges into absolute instants for trend
// comparison.
//
// The comparison window is a symmetric lookback of the same duration as the
// current window, not the previous calendar period: for "month" on the 10th
// it spans the 9-10 days before the 1st.
package timewindow

import (
	"time"

	"repairdesk/internal/core/apperror"
)

// Range names a trend window.
type Range string

const (
	Today Range = "today"
	Week  Range = "week"
	Month Range = "month"
)

// DefaultRange is used when the caller does not pick one.
const DefaultRange = Today

// ParseRange validates a range keyword. An empty string yields DefaultRange.
func ParseRange(s string) (Range, error) {
	switch r := Range(s); r {
	case "":
		return DefaultRange, nil
	case Today, Week, Month:
		return r, nil
	}
	return "", apperror.NewInvalidInput("range", s).
		WithDetail("allowed", []Range{Today, Week, Month})
}

// Window is a resolved range.
type Window struct {
	Range         Range     `json:"range"`
	Now           time.Time `json:"now"`
	Start         time.Time `json:"start"`
	PreviousStart time.Time `json:"previousStart"`
}

// Resolve computes the window for r at instant now. Midnights use now's location.
func Resolve(r Range, now time.Time) (Window, error) {
	var start time.Time
	switch r {
	case Today:
		start = time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	case Week:
		start = now.Add(-7 * 24 * time.Hour)
	case Month:
		start = time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	default:
		return Window{}, apperror.NewInvalidInput("range", string(r))
	}

	return Window{
		Range:         r,
		Now:           now,
		Start:         start,
		PreviousStart: start.Add(-now.Sub(start)),
	}, nil
}

// MustResolve is Resolve for ranges known to be valid. Panics otherwise.
func MustResolve(r Range, now time.Time) Window {
	w, err := Resolve(r, now)
	if err != nil {
		panic(err)
	}
	return w
}

// InCurrent reports t >= Start. There is no upper bound.
func (w Window) InCurrent(t time.Time) bool {
	return !t.Before(w.Start)
}

// InPrevious reports PreviousStart <= t < Start.
func (w Window) InPrevious(t time.Time) bool {
	return !t.Before(w.PreviousStart) && t.Before(w.Start)
}
