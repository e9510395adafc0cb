package domain

import "github.com/shopspring/decimal"

// Balance is a holding of a currency on a specific blockchain.
type Balance struct {
	Currency   string          `json:"currency"`
	Amount     decimal.Decimal `json:"amount"`
	Blockchain string          `json:"blockchain"`
}

// AnnotatedBalance is a Balance with its blockchain priority attached.
type AnnotatedBalance struct {
	Balance
	Priority int `json:"priority"`
}

// FormattedBalance is an AnnotatedBalance ready for display.
type FormattedBalance struct {
	AnnotatedBalance
	Formatted string          `json:"formatted"`
	USDValue  decimal.Decimal `json:"usdValue"`
}

// NewBalance builds a Balance from a float amount. Intended for fixtures and CLI input.
func NewBalance(currency string, amount float64, blockchain string) Balance {
	return Balance{
		Currency:   currency,
		Amount:     decimal.NewFromFloat(amount),
		Blockchain: blockchain,
	}
}
