package balance

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mtlprog/walletpage/internal/domain"
	"github.com/mtlprog/walletpage/internal/prices"
)

type mockRepo struct {
	mu        sync.Mutex
	snapshots map[string]Snapshot
	err       error
	upserted  map[string][]domain.Balance
}

func (m *mockRepo) Balances(_ context.Context, wallet string) (Snapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return Snapshot{}, m.err
	}
	s, ok := m.snapshots[wallet]
	if !ok {
		return Snapshot{}, ErrNotFound
	}
	return s, nil
}

func (m *mockRepo) Upsert(_ context.Context, wallet string, balances []domain.Balance) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.upserted == nil {
		m.upserted = make(map[string][]domain.Balance)
	}
	m.upserted[wallet] = balances
	return m.err
}

type mockPrices struct {
	snap prices.Snapshot
	err  error
}

func (m *mockPrices) Snapshot(_ context.Context) (prices.Snapshot, error) {
	return m.snap, m.err
}

func exampleRepo() *mockRepo {
	return &mockRepo{snapshots: map[string]Snapshot{
		"wallet-1": {
			Wallet: "wallet-1",
			Balances: []domain.Balance{
				domain.NewBalance("ETH", 2.5, "Ethereum"),
				domain.NewBalance("OSMO", 10, "Osmosis"),
				domain.NewBalance("ZERO", 0, "Osmosis"),
				domain.NewBalance("XX", 5, "UnknownChain"),
				domain.NewBalance("NEG", -1, "Neo"),
			},
			Revision: 1,
		},
	}}
}

func examplePrices() *mockPrices {
	return &mockPrices{snap: prices.Snapshot{
		Table: domain.PriceTable{
			"ETH":  decimal.NewFromInt(1600),
			"OSMO": decimal.RequireFromString("0.5"),
		},
		Revision:  3,
		FetchedAt: time.Date(2023, 8, 29, 7, 10, 0, 0, time.UTC),
	}}
}

func TestPage(t *testing.T) {
	svc := NewService(exampleRepo(), examplePrices())

	page, err := svc.Page(context.Background(), "wallet-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(page.Rows) != 2 {
		t.Fatalf("rows = %d, want 2", len(page.Rows))
	}
	if page.Rows[0].Key != "Osmosis-OSMO" || page.Rows[1].Key != "Ethereum-ETH" {
		t.Errorf("row keys = %q, %q, want Osmosis-OSMO, Ethereum-ETH", page.Rows[0].Key, page.Rows[1].Key)
	}
	if !page.TotalUSD.Equal(decimal.NewFromInt(4005)) {
		t.Errorf("TotalUSD = %s, want 4005", page.TotalUSD)
	}
	if page.TotalUSDDisplay != "$4,005.00" {
		t.Errorf("TotalUSDDisplay = %q, want $4,005.00", page.TotalUSDDisplay)
	}
	if page.BalancesRev != 1 || page.PricesRev != 3 {
		t.Errorf("revisions = %d/%d, want 1/3", page.BalancesRev, page.PricesRev)
	}
}

func TestPageReusesMemo(t *testing.T) {
	svc := NewService(exampleRepo(), examplePrices())

	for range 3 {
		if _, err := svc.Page(context.Background(), "wallet-1"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	hits, misses := svc.memo("wallet-1").Stats()
	if hits != 2 || misses != 1 {
		t.Errorf("memo stats = %d hits / %d misses, want 2 / 1", hits, misses)
	}
}

func TestPageWalletNotFound(t *testing.T) {
	svc := NewService(exampleRepo(), examplePrices())

	_, err := svc.Page(context.Background(), "missing")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("error = %v, want ErrNotFound", err)
	}
}

func TestPagePriceError(t *testing.T) {
	svc := NewService(exampleRepo(), &mockPrices{err: errors.New("feed down")})

	_, err := svc.Page(context.Background(), "wallet-1")
	if !errors.Is(err, ErrPricesUnavailable) {
		t.Fatalf("error = %v, want ErrPricesUnavailable", err)
	}
	if got := outcome(err); got != "prices_unavailable" {
		t.Errorf("outcome = %q, want prices_unavailable", got)
	}
}

func TestSave(t *testing.T) {
	repo := exampleRepo()
	svc := NewService(repo, examplePrices())

	balances := []domain.Balance{domain.NewBalance("ATOM", 3, "Osmosis")}
	if err := svc.Save(context.Background(), "wallet-2", balances); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(repo.upserted["wallet-2"]) != 1 {
		t.Errorf("upserted = %v, want 1 balance", repo.upserted["wallet-2"])
	}
}

func TestOutcome(t *testing.T) {
	if got := outcome(nil); got != "ok" {
		t.Errorf("outcome(nil) = %q, want ok", got)
	}
	if got := outcome(ErrNotFound); got != "not_found" {
		t.Errorf("outcome(ErrNotFound) = %q, want not_found", got)
	}
	if got := outcome(errors.New("boom")); got != "error" {
		t.Errorf("outcome(boom) = %q, want error", got)
	}
}
