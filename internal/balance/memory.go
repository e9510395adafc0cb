package balance

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"slices"
	"sync"
	"time"

	"github.com/mtlprog/walletpage/internal/domain"
)

// MemoryRepository implements Repository in memory. Used by the CLI when
// balances come from a file instead of the database.
type MemoryRepository struct {
	mu       sync.RWMutex
	wallets  map[string]Snapshot
	revision uint64
}

// NewMemoryRepository creates an empty in-memory repository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{wallets: make(map[string]Snapshot)}
}

// LoadJSON reads a {"<wallet>": [balances...]} document into a new repository.
func LoadJSON(r io.Reader) (*MemoryRepository, error) {
	var doc map[string][]domain.Balance
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decoding balances: %w", err)
	}

	repo := NewMemoryRepository()
	for wallet, balances := range doc {
		if err := repo.Upsert(context.Background(), wallet, balances); err != nil {
			return nil, err
		}
	}
	return repo, nil
}

func (r *MemoryRepository) Balances(_ context.Context, wallet string) (Snapshot, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.wallets[wallet]
	if !ok || len(s.Balances) == 0 {
		return Snapshot{}, ErrNotFound
	}
	s.Balances = slices.Clone(s.Balances)
	return s, nil
}

func (r *MemoryRepository) Upsert(_ context.Context, wallet string, balances []domain.Balance) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.revision++
	r.wallets[wallet] = Snapshot{
		Wallet:    wallet,
		Balances:  slices.Clone(balances),
		Revision:  r.revision,
		UpdatedAt: time.Now().UTC(),
	}
	return nil
}
