// Package prices fetches, stores and serves USD unit prices for currencies.
package prices

import (
	"slices"
	"time"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"

	"github.com/mtlprog/walletpage/internal/domain"
)

// Quote is a single price observation from the feed.
type Quote struct {
	Currency string          `json:"currency"`
	Date     time.Time       `json:"date"`
	Price    decimal.Decimal `json:"price"`
}

// BuildTable reduces quotes to one price per currency.
// The quote with the latest date wins; on equal dates the first one seen is kept.
func BuildTable(quotes []Quote) domain.PriceTable {
	latest := make(map[string]Quote, len(quotes))
	for _, q := range quotes {
		if q.Currency == "" {
			continue
		}
		cur, ok := latest[q.Currency]
		if !ok || q.Date.After(cur.Date) {
			latest[q.Currency] = q
		}
	}

	table := make(domain.PriceTable, len(latest))
	for currency, q := range latest {
		table[currency] = q.Price
	}
	return table
}

// Tokens returns the unique currencies of quotes in ascending order.
func Tokens(quotes []Quote) []string {
	currencies := lo.Uniq(lo.FilterMap(quotes, func(q Quote, _ int) (string, bool) {
		return q.Currency, q.Currency != ""
	}))
	slices.Sort(currencies)
	return currencies
}
