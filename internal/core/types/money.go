// Package types provides common value types and numeric helpers.
package types

import (
	"github.com/shopspring/decimal"
)

// Money represents a monetary value with full precision.
// Uses decimal.Decimal to avoid floating-point errors.
type Money = decimal.Decimal

// NewMoney creates a Money value from a float.
// WARNING: Use NewMoneyFromString for precise values.
func NewMoney(f float64) Money {
	return decimal.NewFromFloat(f)
}

// NewMoneyFromInt creates a Money value from a whole amount.
func NewMoneyFromInt(v int64) Money {
	return decimal.NewFromInt(v)
}

// NewMoneyFromString creates a Money value from a string.
func NewMoneyFromString(s string) (Money, error) {
	return decimal.NewFromString(s)
}

// MustMoney creates a Money value from a string, panics on error.
// Use only for constants and tests.
func MustMoney(s string) Money {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

// Zero returns zero Money value.
func Zero() Money {
	return decimal.Zero
}

// OrZero dereferences an optional amount.
func OrZero(m *Money) Money {
	if m == nil {
		return decimal.Zero
	}
	return *m
}

// MoneyPtr returns a pointer to a copy of m.
func MoneyPtr(m Money) *Money {
	return &m
}

// MeanMoney divides total by n, returning zero when n is not positive.
func MeanMoney(total Money, n int) Money {
	if n <= 0 {
		return decimal.Zero
	}
	return total.Div(decimal.NewFromInt(int64(n)))
}

// RoundMoneyHalfUp rounds to a whole amount with halves going towards
// positive infinity (-2.5 becomes -2, 2.5 becomes 3).
func RoundMoneyHalfUp(m Money) Money {
	return m.Add(decimal.NewFromFloat(0.5)).Floor()
}
