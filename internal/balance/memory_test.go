package balance

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/mtlprog/walletpage/internal/domain"
)

func TestMemoryRepository(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()

	if _, err := repo.Balances(ctx, "w"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("empty repo error = %v, want ErrNotFound", err)
	}

	input := []domain.Balance{domain.NewBalance("ETH", 1, "Ethereum")}
	if err := repo.Upsert(ctx, "w", input); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	first, err := repo.Balances(ctx, "w")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Mutating the caller's slice must not leak into the repository.
	input[0].Currency = "CHANGED"
	again, _ := repo.Balances(ctx, "w")
	if again.Balances[0].Currency != "ETH" {
		t.Errorf("stored currency = %q, want ETH", again.Balances[0].Currency)
	}

	if err := repo.Upsert(ctx, "w", []domain.Balance{domain.NewBalance("ETH", 2, "Ethereum")}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, _ := repo.Balances(ctx, "w")
	if second.Revision <= first.Revision {
		t.Errorf("revision did not advance: %d -> %d", first.Revision, second.Revision)
	}
}

func TestLoadJSON(t *testing.T) {
	doc := `{
		"wallet-1": [
			{"currency": "ETH", "amount": "2.5", "blockchain": "Ethereum"},
			{"currency": "OSMO", "amount": 10, "blockchain": "Osmosis"}
		]
	}`

	repo, err := LoadJSON(strings.NewReader(doc))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	snap, err := repo.Balances(context.Background(), "wallet-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(snap.Balances) != 2 {
		t.Fatalf("balances = %d, want 2", len(snap.Balances))
	}
	if !snap.Balances[0].Amount.Equal(decimal.RequireFromString("2.5")) {
		t.Errorf("ETH amount = %s, want 2.5", snap.Balances[0].Amount)
	}
}

func TestLoadJSONRejectsNonNumericAmount(t *testing.T) {
	doc := `{"w": [{"currency": "ETH", "amount": "lots", "blockchain": "Ethereum"}]}`
	if _, err := LoadJSON(strings.NewReader(doc)); err == nil {
		t.Fatal("expected error for non-numeric amount")
	}
}
