// Package export writes rendered wallet pages to spreadsheets.
package export

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mtlprog/walletpage/internal/balance"
)

// balancesHeader lists the columns of the balances sheet.
var balancesHeader = []any{"Blockchain", "Currency", "Priority", "Amount", "USD Value", "USD"}

// PageSource renders wallet pages.
type PageSource interface {
	Page(ctx context.Context, address string) (balance.Page, error)
}

// Writer writes a wallet page to a spreadsheet destination.
type Writer interface {
	Write(ctx context.Context, page balance.Page) error
}

// Service renders a wallet and hands the page to every configured Writer.
type Service struct {
	pages   PageSource
	writers []Writer
}

// NewService creates a new export Service.
func NewService(pages PageSource, writers ...Writer) *Service {
	return &Service{pages: pages, writers: writers}
}

// Export renders the wallet and writes it to all writers.
// A failing writer does not stop the others; their errors are joined.
func (s *Service) Export(ctx context.Context, address string) error {
	if len(s.writers) == 0 {
		return errors.New("no export destinations configured")
	}

	page, err := s.pages.Page(ctx, address)
	if err != nil {
		return fmt.Errorf("rendering wallet %s: %w", address, err)
	}

	var errs []error
	for _, w := range s.writers {
		if err := w.Write(ctx, page); err != nil {
			slog.Warn("export: writer failed", "wallet", address, "error", err)
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	slog.Info("export: wallet exported", "wallet", address, "rows", len(page.Rows), "writers", len(s.writers))
	return nil
}

// buildBalances builds the balances sheet data: header, one row per balance
// in display order, then a total row.
// Columns: Blockchain | Currency | Priority | Amount | USD Value | USD
func buildBalances(page balance.Page) [][]any {
	data := make([][]any, 0, len(page.Rows)+2)
	data = append(data, balancesHeader)

	for _, row := range page.Rows {
		data = append(data, []any{
			row.Blockchain,
			row.Currency,
			row.Priority,
			row.FormattedAmount,
			toFloat(row.USDValue),
			row.USDDisplay,
		})
	}

	data = append(data, []any{"Total", "", "", "", toFloat(page.TotalUSD), page.TotalUSDDisplay})
	return data
}

// buildHistoryRow builds one dated row for the history sheet.
// Columns: Date | Wallet | Rows | Total USD
func buildHistoryRow(page balance.Page, at time.Time) []any {
	return []any{
		at.UTC().Format("2006-01-02 15:04"),
		page.Wallet,
		len(page.Rows),
		toFloat(page.TotalUSD),
	}
}

func toFloat(d decimal.Decimal) float64 {
	f, _ := d.Float64()
	return f
}
