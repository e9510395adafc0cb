package balance

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/mtlprog/walletpage/internal/domain"
	"github.com/mtlprog/walletpage/internal/metrics"
	"github.com/mtlprog/walletpage/internal/prices"
	"github.com/mtlprog/walletpage/internal/wallet"
)

// memoTTL bounds how long an idle wallet keeps its memoized render.
const memoTTL = 10 * time.Minute

// PriceSource provides consistent price snapshots.
type PriceSource interface {
	Snapshot(ctx context.Context) (prices.Snapshot, error)
}

// Page is a rendered wallet page.
type Page struct {
	Wallet          string          `json:"wallet"`
	Rows            []wallet.Row    `json:"rows"`
	TotalUSD        decimal.Decimal `json:"totalUSD"`
	TotalUSDDisplay string          `json:"totalUSDDisplay"`
	BalancesRev     uint64          `json:"balancesRevision"`
	PricesRev       uint64          `json:"pricesRevision"`
	PricesFetchedAt time.Time       `json:"pricesFetchedAt"`
}

// Service renders wallet pages from stored balances and current prices.
type Service struct {
	repo   Repository
	prices PriceSource
	memos  *cache.Cache
}

// NewService creates a new balance Service.
func NewService(repo Repository, prices PriceSource) *Service {
	return &Service{
		repo:   repo,
		prices: prices,
		memos:  cache.New(memoTTL, memoTTL),
	}
}

// Page loads the wallet's balances and the current prices concurrently and renders them.
func (s *Service) Page(ctx context.Context, address string) (Page, error) {
	var (
		snap   Snapshot
		priced prices.Snapshot
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		snap, err = s.repo.Balances(gctx, address)
		return err
	})
	g.Go(func() error {
		var err error
		priced, err = s.prices.Snapshot(gctx)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrPricesUnavailable, err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		metrics.Renders.WithLabelValues(outcome(err)).Inc()
		return Page{}, fmt.Errorf("loading wallet page for %s: %w", address, err)
	}

	reportDropped(address, snap.Balances)

	formatted := s.memo(address).Render(snap.Revision, snap.Balances, priced.Revision, priced.Table)
	rows := wallet.Rows(formatted)
	total := wallet.TotalUSD(rows)

	metrics.Renders.WithLabelValues("ok").Inc()
	metrics.RowsShown.Observe(float64(len(rows)))

	return Page{
		Wallet:          address,
		Rows:            rows,
		TotalUSD:        total,
		TotalUSDDisplay: wallet.USDDisplay(total),
		BalancesRev:     snap.Revision,
		PricesRev:       priced.Revision,
		PricesFetchedAt: priced.FetchedAt,
	}, nil
}

// Save stores a new set of balances for the wallet.
func (s *Service) Save(ctx context.Context, address string, balances []domain.Balance) error {
	if err := s.repo.Upsert(ctx, address, balances); err != nil {
		return fmt.Errorf("saving balances for %s: %w", address, err)
	}
	return nil
}

func (s *Service) memo(address string) *wallet.Memo {
	if m, ok := s.memos.Get(address); ok {
		return m.(*wallet.Memo)
	}
	m := wallet.NewMemo()
	if err := s.memos.Add(address, m, cache.DefaultExpiration); err != nil {
		// Another request created it first.
		if existing, ok := s.memos.Get(address); ok {
			return existing.(*wallet.Memo)
		}
	}
	return m
}

// reportDropped counts balances the filter will hide. Negative amounts are
// hidden like zero ones but are logged since they point at bad upstream data.
func reportDropped(address string, balances []domain.Balance) {
	for _, b := range balances {
		switch {
		case !domain.IsKnownBlockchain(b.Blockchain):
			metrics.BalancesDropped.WithLabelValues("unknown_chain").Inc()
		case b.Amount.IsNegative():
			metrics.BalancesDropped.WithLabelValues("negative_amount").Inc()
		case b.Amount.IsZero():
			metrics.BalancesDropped.WithLabelValues("zero_amount").Inc()
		}
	}

	negative := lo.Filter(balances, func(b domain.Balance, _ int) bool { return b.Amount.IsNegative() })
	if len(negative) > 0 {
		slog.Warn("wallet has negative balances", "wallet", address, "count", len(negative))
	}
}

func outcome(err error) string {
	if err == nil {
		return "ok"
	}
	if errors.Is(err, ErrNotFound) {
		return "not_found"
	}
	if errors.Is(err, ErrPricesUnavailable) {
		return "prices_unavailable"
	}
	return "error"
}
