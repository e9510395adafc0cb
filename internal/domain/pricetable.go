package domain

import "github.com/shopspring/decimal"

// PriceTable maps a currency identifier to its unit price in USD.
type PriceTable map[string]decimal.Decimal

// Lookup returns the USD price of currency and whether it is known.
func (t PriceTable) Lookup(currency string) (decimal.Decimal, bool) {
	p, ok := t[currency]
	return p, ok
}

// PriceOrZero returns the USD price of currency, or zero when it is not listed.
func (t PriceTable) PriceOrZero(currency string) decimal.Decimal {
	if p, ok := t[currency]; ok {
		return p
	}
	return decimal.Zero
}
