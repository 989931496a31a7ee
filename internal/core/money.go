// Package core provides the shared domain types of the projection engine.
//
// This file contains money parsing and conversion helpers. All money
// arithmetic in the engine runs on shopspring decimals rounded to the
// currency's minor unit; binary floating point never touches an amount.
package core

import (
	"strings"

	"github.com/shopspring/decimal"
)

// ParseAmount converts a positive decimal string to a currency amount.
//
// It accepts both dot (12.34) and comma (12,34) decimal separators and
// performs half-up rounding to the cent. Signed, zero, or malformed input
// is rejected.
//
// Examples:
//
//	ParseAmount("12.34")  -> 12.34, nil
//	ParseAmount("12,34")  -> 12.34, nil
//	ParseAmount("12.345") -> 12.35, nil (rounds up)
//	ParseAmount("-1")     -> error
func ParseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, ErrInvalidAmount
	}
	// Normalize decimal comma to dot
	s = strings.ReplaceAll(s, ",", ".")
	if strings.HasPrefix(s, "+") || strings.HasPrefix(s, "-") {
		// Only positive values allowed
		return decimal.Zero, ErrInvalidAmount
	}
	if strings.ContainsAny(s, "eE") {
		return decimal.Zero, ErrInvalidAmount
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, ErrInvalidAmount
	}
	d = RoundCurrency(d)
	if d.Sign() <= 0 {
		return decimal.Zero, ErrInvalidAmount
	}
	return d, nil
}

// RoundCurrency rounds to the currency's minor unit, half away from zero.
func RoundCurrency(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// FromCents converts an integer minor-unit amount to a decimal.
func FromCents(cents int64) decimal.Decimal {
	return decimal.New(cents, -2)
}

// Cents converts a decimal amount to integer minor units, rounding first.
func Cents(d decimal.Decimal) int64 {
	return RoundCurrency(d).Shift(2).IntPart()
}
