package wallet

import (
	"fmt"

	"github.com/Rhymond/go-money"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"

	"github.com/mtlprog/walletpage/internal/domain"
)

var hundred = decimal.NewFromInt(100)

// Row is the projection of a formatted balance consumed by renderers (JSON, tables, sheets).
type Row struct {
	Key             string          `json:"key"`
	Currency        string          `json:"currency"`
	Blockchain      string          `json:"blockchain"`
	Priority        int             `json:"priority"`
	Amount          decimal.Decimal `json:"amount"`
	FormattedAmount string          `json:"formattedAmount"`
	USDValue        decimal.Decimal `json:"usdValue"`
	USDDisplay      string          `json:"usdDisplay"`
}

// RowKey identifies a row by blockchain and currency, e.g. "Osmosis-OSMO".
func RowKey(b domain.Balance) string {
	return fmt.Sprintf("%s-%s", b.Blockchain, b.Currency)
}

// USDDisplay renders a USD amount with currency symbol and grouping, e.g. "$4,000.00".
func USDDisplay(usd decimal.Decimal) string {
	cents := usd.Mul(hundred).RoundBank(0).IntPart()
	return money.New(cents, money.USD).Display()
}

// Rows projects formatted balances into display rows.
func Rows(balances []domain.FormattedBalance) []Row {
	return lo.Map(balances, func(b domain.FormattedBalance, _ int) Row {
		return Row{
			Key:             RowKey(b.Balance),
			Currency:        b.Currency,
			Blockchain:      b.Blockchain,
			Priority:        b.Priority,
			Amount:          b.Amount,
			FormattedAmount: b.Formatted,
			USDValue:        b.USDValue,
			USDDisplay:      USDDisplay(b.USDValue),
		}
	})
}

// TotalUSD sums the USD value of all rows.
func TotalUSD(rows []Row) decimal.Decimal {
	return lo.Reduce(rows, func(acc decimal.Decimal, r Row, _ int) decimal.Decimal {
		return acc.Add(r.USDValue)
	}, decimal.Zero)
}
