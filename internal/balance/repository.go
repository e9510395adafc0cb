// Package balance loads wallet balances and renders them into wallet pages.
package balance

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mtlprog/walletpage/internal/domain"
)

var (
	// ErrNotFound indicates that no balances are stored for the wallet.
	ErrNotFound = errors.New("wallet not found")
	// ErrPricesUnavailable indicates that the price source failed while rendering a page.
	ErrPricesUnavailable = errors.New("prices unavailable")
)

// Snapshot is the set of balances of a wallet at a given revision.
// Revision changes whenever any balance of the wallet is updated.
type Snapshot struct {
	Wallet    string           `json:"wallet"`
	Balances  []domain.Balance `json:"balances"`
	Revision  uint64           `json:"revision"`
	UpdatedAt time.Time        `json:"updatedAt"`
}

// Repository defines persistent storage for wallet balances.
type Repository interface {
	Balances(ctx context.Context, wallet string) (Snapshot, error)
	Upsert(ctx context.Context, wallet string, balances []domain.Balance) error
}

// PgRepository implements Repository with PostgreSQL.
type PgRepository struct {
	pool *pgxpool.Pool
}

// NewPgRepository creates a new PostgreSQL balance repository.
func NewPgRepository(pool *pgxpool.Pool) *PgRepository {
	return &PgRepository{pool: pool}
}

func (r *PgRepository) Balances(ctx context.Context, wallet string) (Snapshot, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT currency, blockchain, amount, updated_at
		 FROM wallet_balances
		 WHERE wallet = $1
		 ORDER BY id`, wallet)
	if err != nil {
		return Snapshot{}, fmt.Errorf("getting balances for %s: %w", wallet, err)
	}
	defer rows.Close()

	snap := Snapshot{Wallet: wallet}
	for rows.Next() {
		var b domain.Balance
		var updatedAt time.Time
		if err := rows.Scan(&b.Currency, &b.Blockchain, &b.Amount, &updatedAt); err != nil {
			return Snapshot{}, fmt.Errorf("scanning balance: %w", err)
		}
		if updatedAt.After(snap.UpdatedAt) {
			snap.UpdatedAt = updatedAt
		}
		snap.Balances = append(snap.Balances, b)
	}
	if err := rows.Err(); err != nil {
		return Snapshot{}, fmt.Errorf("iterating balances: %w", err)
	}

	if len(snap.Balances) == 0 {
		return Snapshot{}, ErrNotFound
	}
	snap.Revision = uint64(snap.UpdatedAt.UnixNano())
	return snap, nil
}

// Upsert replaces the wallet's balances in a single transaction.
func (r *PgRepository) Upsert(ctx context.Context, wallet string, balances []domain.Balance) error {
	return pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM wallet_balances WHERE wallet = $1`, wallet); err != nil {
			return fmt.Errorf("clearing balances for %s: %w", wallet, err)
		}
		for _, b := range balances {
			_, err := tx.Exec(ctx,
				`INSERT INTO wallet_balances (wallet, currency, blockchain, amount, updated_at)
				 VALUES ($1, $2, $3, $4, NOW())`,
				wallet, b.Currency, b.Blockchain, b.Amount)
			if err != nil {
				return fmt.Errorf("saving balance %s/%s: %w", b.Blockchain, b.Currency, err)
			}
		}
		return nil
	})
}
