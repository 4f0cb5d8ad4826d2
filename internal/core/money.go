// Package core holds the ledger's domain logic: entry validation, calendar-day
// handling, date-window filtering, and balance aggregation.
//
// This file contains amount parsing. Amounts are decimals, never floats, so
// that summing many entries cannot accumulate binary floating-point error.
package core

import (
	"strings"

	"github.com/shopspring/decimal"
)

// ParseAmount converts a positive decimal string to a decimal amount.
//
// It accepts both dot (12.34) and comma (12,34) separators. Explicit signs are
// rejected: the direction of an amount's effect comes from the entry kind,
// never from the sign of the number.
func ParseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, ErrInvalidAmount
	}
	s = strings.ReplaceAll(s, ",", ".")
	if strings.HasPrefix(s, "+") || strings.HasPrefix(s, "-") {
		return decimal.Zero, ErrInvalidAmount
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, ErrInvalidAmount
	}
	if !d.IsPositive() {
		return decimal.Zero, ErrInvalidAmount
	}
	return d, nil
}

// ParseRate parses a user-supplied exchange rate (local units per 1 USD). The
// same rules as ParseAmount apply: a rate must be strictly positive.
func ParseRate(s string) (decimal.Decimal, error) {
	return ParseAmount(s)
}
