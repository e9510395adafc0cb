package prices

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/shopspring/decimal"

	"github.com/mtlprog/walletpage/internal/domain"
	"github.com/mtlprog/walletpage/internal/metrics"
)

// ErrNoPrice indicates that no price is listed for a currency.
var ErrNoPrice = errors.New("no price available")

const snapshotKey = "prices"

// Feed is the subset of the price feed client used by Service.
type Feed interface {
	FetchQuotes(ctx context.Context) ([]Quote, error)
}

// Snapshot is a consistent view of the price table.
// Revision increases every time a new table is built.
type Snapshot struct {
	Table     domain.PriceTable `json:"prices"`
	Tokens    []string          `json:"tokens"`
	Revision  uint64            `json:"revision"`
	FetchedAt time.Time         `json:"fetchedAt"`
}

// Service serves cached price tables, refreshing them from the feed and
// falling back to the repository when the feed is unavailable.
type Service struct {
	feed     Feed
	repo     Repository // optional
	cache    *cache.Cache
	revision atomic.Uint64
}

// NewService creates a new price Service. repo may be nil.
func NewService(feed Feed, repo Repository, ttl time.Duration) *Service {
	return &Service{
		feed:  feed,
		repo:  repo,
		cache: cache.New(ttl, 2*ttl),
	}
}

// Refresh fetches the feed, persists the quotes and replaces the cached snapshot.
func (s *Service) Refresh(ctx context.Context) (Snapshot, error) {
	start := time.Now()
	defer func() { metrics.PriceRefreshDuration.Observe(time.Since(start).Seconds()) }()

	quotes, err := s.feed.FetchQuotes(ctx)
	if err != nil {
		metrics.PriceRefreshes.WithLabelValues("error").Inc()
		return Snapshot{}, fmt.Errorf("fetching prices: %w", err)
	}

	if s.repo != nil {
		if err := s.repo.SaveQuotes(ctx, quotes); err != nil {
			metrics.PriceRefreshes.WithLabelValues("error").Inc()
			return Snapshot{}, fmt.Errorf("storing prices: %w", err)
		}
	}

	snap := s.store(quotes)
	metrics.PriceRefreshes.WithLabelValues("ok").Inc()
	slog.Debug("prices refreshed", "currencies", len(snap.Table), "revision", snap.Revision)
	return snap, nil
}

// Snapshot returns the cached price table, refreshing it when expired.
func (s *Service) Snapshot(ctx context.Context) (Snapshot, error) {
	if cached, ok := s.cache.Get(snapshotKey); ok {
		return cached.(Snapshot), nil
	}

	snap, err := s.Refresh(ctx)
	if err == nil {
		return snap, nil
	}

	if s.repo == nil {
		return Snapshot{}, err
	}

	slog.Warn("price feed unavailable, using stored quotes", "error", err)
	quotes, repoErr := s.repo.LatestQuotes(ctx)
	if repoErr != nil {
		return Snapshot{}, fmt.Errorf("loading stored prices: %w (feed: %v)", repoErr, err)
	}
	if len(quotes) == 0 {
		return Snapshot{}, fmt.Errorf("no stored prices: %w", err)
	}
	return s.store(quotes), nil
}

// Price returns the USD price of currency.
func (s *Service) Price(ctx context.Context, currency string) (decimal.Decimal, error) {
	snap, err := s.Snapshot(ctx)
	if err != nil {
		return decimal.Zero, err
	}
	p, ok := snap.Table.Lookup(currency)
	if !ok {
		return decimal.Zero, fmt.Errorf("%s: %w", currency, ErrNoPrice)
	}
	return p, nil
}

// Tokens returns the sorted list of currencies with a price.
func (s *Service) Tokens(ctx context.Context) ([]string, error) {
	snap, err := s.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return snap.Tokens, nil
}

func (s *Service) store(quotes []Quote) Snapshot {
	snap := Snapshot{
		Table:     BuildTable(quotes),
		Tokens:    Tokens(quotes),
		Revision:  s.revision.Add(1),
		FetchedAt: time.Now().UTC(),
	}
	s.cache.Set(snapshotKey, snap, cache.DefaultExpiration)
	return snap
}
