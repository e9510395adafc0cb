package domain

import (
	"github.com/shopspring/decimal"
)

// DisplayPlaces is the number of fractional digits shown for balance amounts.
const DisplayPlaces = 2

// FormatAmount renders d with exactly two fractional digits.
// Exact halves round to the nearest even digit, so 0.125 becomes "0.12" and 0.135 becomes "0.14".
func FormatAmount(d decimal.Decimal) string {
	return d.StringFixedBank(DisplayPlaces)
}

// FormatFixed renders d with the given number of fractional digits using banker's rounding.
func FormatFixed(d decimal.Decimal, places int32) string {
	return d.StringFixedBank(places)
}

// USDValue multiplies an amount by its unit price.
func USDValue(amount, price decimal.Decimal) decimal.Decimal {
	return amount.Mul(price)
}
