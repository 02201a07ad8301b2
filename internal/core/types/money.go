// Package types provides common type aliases and utilities.
package types

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Money represents a monetary value with full precision.
// Uses decimal.Decimal to avoid floating-point drift when multiplying
// amounts by tax rates.
type Money = decimal.Decimal

// MoneyScale is the display precision for monetary values.
const MoneyScale int32 = 2

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

// Round2 rounds to the display precision (2 decimal places).
func Round2(m Money) Money {
	return m.Round(MoneyScale)
}

// ParseLenient parses a legacy numeric string. Legacy dumps are dirty:
// thousands separators, stray spaces and garbage values all occur.
// Unparseable input yields 0.00 and ok=false so callers can log a warning
// instead of failing the row.
func ParseLenient(raw string) (Money, bool) {
	s := strings.TrimSpace(strings.ReplaceAll(raw, ",", ""))
	if s == "" || strings.EqualFold(s, "NULL") {
		return decimal.Zero, true
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}

// WithinTolerance reports whether a and b differ by at most 0.01.
// Monetary invariants in the pipeline are checked at rounding tolerance.
func WithinTolerance(a, b Money) bool {
	return a.Sub(b).Abs().LessThanOrEqual(decimal.New(1, -2))
}
