// Package swap quotes currency swaps using USD prices as the common denominator.
package swap

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/mtlprog/walletpage/internal/domain"
)

// DisplayPlaces is the number of fractional digits shown for swap rates and amounts.
const DisplayPlaces = 6

var (
	// ErrMissingToken indicates that the input or output token was not chosen.
	ErrMissingToken = errors.New("both input and output tokens are required")
	// ErrSameToken indicates that the input and output tokens are identical.
	ErrSameToken = errors.New("input and output tokens cannot be the same")
	// ErrInvalidAmount indicates a non-numeric, negative or zero amount.
	ErrInvalidAmount = errors.New("invalid amount")
	// ErrMissingPrice indicates that a token has no usable price.
	ErrMissingPrice = errors.New("price unavailable")
)

// Quote is the result of a swap calculation.
type Quote struct {
	From         string          `json:"from"`
	To           string          `json:"to"`
	InputAmount  decimal.Decimal `json:"inputAmount"`
	OutputAmount decimal.Decimal `json:"outputAmount"`
	Rate         decimal.Decimal `json:"rate"`
	InputPrice   decimal.Decimal `json:"inputPriceUSD"`
	OutputPrice  decimal.Decimal `json:"outputPriceUSD"`
	InputUSD     decimal.Decimal `json:"inputUSD"`
	OutputUSD    decimal.Decimal `json:"outputUSD"`
	RateDisplay  string          `json:"rateDisplay"`
	OutputText   string          `json:"outputDisplay"`
}

// ParseAmount parses user input. An empty string is zero; anything non-numeric
// or negative is ErrInvalidAmount.
func ParseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%q: %w", s, ErrInvalidAmount)
	}
	if d.IsNegative() {
		return decimal.Zero, fmt.Errorf("%q is negative: %w", s, ErrInvalidAmount)
	}
	return d, nil
}

// Rate returns how many output tokens one input token buys.
// Returns ErrMissingPrice when either price is not positive.
func Rate(inputPrice, outputPrice decimal.Decimal) (decimal.Decimal, error) {
	if !inputPrice.IsPositive() || !outputPrice.IsPositive() {
		return decimal.Zero, ErrMissingPrice
	}
	return inputPrice.Div(outputPrice), nil
}

// Calculate quotes swapping amount of from into to.
func Calculate(prices domain.PriceTable, from, to string, amount decimal.Decimal) (Quote, error) {
	if from == "" || to == "" {
		return Quote{}, ErrMissingToken
	}
	if !amount.IsPositive() {
		return Quote{}, fmt.Errorf("amount must be positive: %w", ErrInvalidAmount)
	}
	if from == to {
		return Quote{}, ErrSameToken
	}

	inputPrice, ok := prices.Lookup(from)
	if !ok {
		return Quote{}, fmt.Errorf("%s: %w", from, ErrMissingPrice)
	}
	outputPrice, ok := prices.Lookup(to)
	if !ok {
		return Quote{}, fmt.Errorf("%s: %w", to, ErrMissingPrice)
	}

	rate, err := Rate(inputPrice, outputPrice)
	if err != nil {
		return Quote{}, fmt.Errorf("%s/%s: %w", from, to, err)
	}

	output := amount.Mul(rate)
	return Quote{
		From:         from,
		To:           to,
		InputAmount:  amount,
		OutputAmount: output,
		Rate:         rate,
		InputPrice:   inputPrice,
		OutputPrice:  outputPrice,
		InputUSD:     amount.Mul(inputPrice),
		OutputUSD:    output.Mul(outputPrice),
		RateDisplay:  fmt.Sprintf("1 %s = %s %s", from, domain.FormatFixed(rate, DisplayPlaces), to),
		OutputText:   domain.FormatFixed(output, DisplayPlaces),
	}, nil
}
