package types

import (
	"math"
	"time"
)

// RoundHalfUp rounds x to the nearest integer, halves towards positive infinity.
func RoundHalfUp(x float64) float64 {
	return math.Floor(x + 0.5)
}

// RoundTo rounds x half-up to the given number of decimal places.
func RoundTo(x float64, places int) float64 {
	p := math.Pow10(places)
	return RoundHalfUp(x*p) / p
}

// Percent returns round(part / whole * 100), or 0 when whole is not positive.
func Percent(part, whole float64) int {
	if whole <= 0 {
		return 0
	}
	return int(RoundHalfUp(part / whole * 100))
}

// MeanDuration divides total by n, returning zero when n is not positive.
func MeanDuration(total time.Duration, n int) time.Duration {
	if n <= 0 {
		return 0
	}
	return total / time.Duration(n)
}

// Days converts d to fractional days.
func Days(d time.Duration) float64 {
	return d.Hours() / 24
}
