package domain

import "github.com/shopspring/decimal"

// Money is stored and computed in integer cents. Decimals only appear at the
// API boundary; they never participate in balance summation.

// ToCents converts a decimal dollar amount to integer cents, truncating any
// sub-cent fraction toward zero (10.999 -> 1099).
func ToCents(amount decimal.Decimal) int64 {
	return amount.Shift(2).Truncate(0).IntPart()
}

// CentsToDecimal converts integer cents to a dollar amount with exactly two
// fractional digits (1099 -> 10.99).
func CentsToDecimal(cents int64) decimal.Decimal {
	return decimal.New(cents, -2)
}
