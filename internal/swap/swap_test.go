package swap

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/mtlprog/walletpage/internal/domain"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestParseAmount(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{"empty is zero", "", "0", false},
		{"whitespace is zero", "  ", "0", false},
		{"integer", "10", "10", false},
		{"decimal", "0.25", "0.25", false},
		{"padded", " 1.5 ", "1.5", false},
		{"negative", "-1", "", true},
		{"not a number", "abc", "", true},
		{"mixed", "1.2.3", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseAmount(tt.input)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidAmount) {
					t.Errorf("ParseAmount(%q) error = %v, want ErrInvalidAmount", tt.input, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseAmount(%q) unexpected error: %v", tt.input, err)
			}
			if !got.Equal(dec(tt.want)) {
				t.Errorf("ParseAmount(%q) = %s, want %s", tt.input, got, tt.want)
			}
		})
	}
}

func TestRate(t *testing.T) {
	rate, err := Rate(dec("1645.93"), dec("0.99"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := domain.FormatFixed(rate, 2); got != "1662.56" {
		t.Errorf("Rate() = %s, want ~1662.56", rate)
	}

	if _, err := Rate(dec("1"), decimal.Zero); !errors.Is(err, ErrMissingPrice) {
		t.Errorf("Rate(1, 0) error = %v, want ErrMissingPrice", err)
	}
}

func TestCalculate(t *testing.T) {
	prices := domain.PriceTable{
		"ETH":  dec("1600"),
		"USDC": dec("1"),
		"OSMO": dec("0.5"),
		"FREE": decimal.Zero,
	}

	q, err := Calculate(prices, "ETH", "OSMO", dec("2"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !q.Rate.Equal(dec("3200")) {
		t.Errorf("Rate = %s, want 3200", q.Rate)
	}
	if !q.OutputAmount.Equal(dec("6400")) {
		t.Errorf("OutputAmount = %s, want 6400", q.OutputAmount)
	}
	if !q.InputUSD.Equal(dec("3200")) || !q.OutputUSD.Equal(dec("3200")) {
		t.Errorf("USD values = %s / %s, want 3200 / 3200", q.InputUSD, q.OutputUSD)
	}
	if q.RateDisplay != "1 ETH = 3200.000000 OSMO" {
		t.Errorf("RateDisplay = %q", q.RateDisplay)
	}
	if q.OutputText != "6400.000000" {
		t.Errorf("OutputText = %q, want 6400.000000", q.OutputText)
	}
}

func TestCalculateErrors(t *testing.T) {
	prices := domain.PriceTable{"ETH": dec("1600"), "USDC": dec("1"), "FREE": decimal.Zero}

	tests := []struct {
		name    string
		from    string
		to      string
		amount  string
		wantErr error
	}{
		{"missing from", "", "USDC", "1", ErrMissingToken},
		{"missing to", "ETH", "", "1", ErrMissingToken},
		{"zero amount", "ETH", "USDC", "0", ErrInvalidAmount},
		{"negative amount", "ETH", "USDC", "-1", ErrInvalidAmount},
		{"same token", "ETH", "ETH", "1", ErrSameToken},
		{"unknown input", "XX", "USDC", "1", ErrMissingPrice},
		{"unknown output", "ETH", "XX", "1", ErrMissingPrice},
		{"zero price", "ETH", "FREE", "1", ErrMissingPrice},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Calculate(prices, tt.from, tt.to, dec(tt.amount))
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Calculate() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}
