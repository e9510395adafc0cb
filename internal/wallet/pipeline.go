// Package wallet turns raw wallet balances into sorted, priced rows for display.
//
// The pipeline is pure: Render(balances, prices) = Format(Sort(Filter(Annotate(balances))), prices).
// No stage mutates its input.
package wallet

import (
	"cmp"
	"slices"

	"github.com/samber/lo"

	"github.com/mtlprog/walletpage/internal/domain"
)

// Annotate attaches the blockchain priority to every balance.
func Annotate(balances []domain.Balance) []domain.AnnotatedBalance {
	return lo.Map(balances, func(b domain.Balance, _ int) domain.AnnotatedBalance {
		return domain.AnnotatedBalance{Balance: b, Priority: domain.Priority(b.Blockchain)}
	})
}

// Keep reports whether a balance is shown: known blockchain and strictly positive amount.
func Keep(b domain.AnnotatedBalance) bool {
	return b.Priority > domain.SentinelPriority && b.Amount.IsPositive()
}

// Filter keeps displayable balances, preserving their relative order.
func Filter(balances []domain.AnnotatedBalance) []domain.AnnotatedBalance {
	return lo.Filter(balances, func(b domain.AnnotatedBalance, _ int) bool {
		return Keep(b)
	})
}

// Compare orders by priority descending, then by amount descending.
func Compare(a, b domain.AnnotatedBalance) int {
	if c := cmp.Compare(b.Priority, a.Priority); c != 0 {
		return c
	}
	return b.Amount.Cmp(a.Amount)
}

// Sort returns a sorted copy of balances. Entries equal on both keys keep their input order.
func Sort(balances []domain.AnnotatedBalance) []domain.AnnotatedBalance {
	sorted := slices.Clone(balances)
	slices.SortStableFunc(sorted, Compare)
	return sorted
}

// FormatOne renders a single balance against the price table.
func FormatOne(b domain.AnnotatedBalance, prices domain.PriceTable) domain.FormattedBalance {
	return domain.FormattedBalance{
		AnnotatedBalance: b,
		Formatted:        domain.FormatAmount(b.Amount),
		USDValue:         domain.USDValue(b.Amount, prices.PriceOrZero(b.Currency)),
	}
}

// Format renders every balance; the result has the same length and order as the input.
func Format(balances []domain.AnnotatedBalance, prices domain.PriceTable) []domain.FormattedBalance {
	return lo.Map(balances, func(b domain.AnnotatedBalance, _ int) domain.FormattedBalance {
		return FormatOne(b, prices)
	})
}

// Prepare runs the price-independent stages: annotate, filter and sort.
func Prepare(balances []domain.Balance) []domain.AnnotatedBalance {
	return Sort(Filter(Annotate(balances)))
}

// Render runs the whole pipeline.
func Render(balances []domain.Balance, prices domain.PriceTable) []domain.FormattedBalance {
	return Format(Prepare(balances), prices)
}
