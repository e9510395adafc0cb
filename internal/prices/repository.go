package prices

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository defines persistent storage for the latest quote of each currency.
type Repository interface {
	SaveQuotes(ctx context.Context, quotes []Quote) error
	LatestQuotes(ctx context.Context) ([]Quote, error)
}

// PgRepository implements Repository with PostgreSQL.
type PgRepository struct {
	pool *pgxpool.Pool
}

// NewPgRepository creates a new PostgreSQL quote repository.
func NewPgRepository(pool *pgxpool.Pool) *PgRepository {
	return &PgRepository{pool: pool}
}

// upsertQuoteSQL replaces a stored quote only with a strictly newer one, so on
// equal dates the first quote saved wins, as in BuildTable.
const upsertQuoteSQL = `INSERT INTO price_quotes (currency, price_usd, quoted_at, updated_at)
	 VALUES ($1, $2, $3, NOW())
	 ON CONFLICT (currency) DO UPDATE
	 SET price_usd = EXCLUDED.price_usd, quoted_at = EXCLUDED.quoted_at, updated_at = NOW()
	 WHERE price_quotes.quoted_at < EXCLUDED.quoted_at`

// SaveQuotes upserts quotes, never replacing a stored quote with an older or same-dated one.
func (r *PgRepository) SaveQuotes(ctx context.Context, quotes []Quote) error {
	batch := &pgx.Batch{}
	for _, q := range quotes {
		batch.Queue(upsertQuoteSQL, q.Currency, q.Price, q.Date)
	}

	results := r.pool.SendBatch(ctx, batch)
	defer results.Close()

	for _, q := range quotes {
		if _, err := results.Exec(); err != nil {
			return fmt.Errorf("saving quote for %s: %w", q.Currency, err)
		}
	}
	return nil
}

func (r *PgRepository) LatestQuotes(ctx context.Context) ([]Quote, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT currency, quoted_at, price_usd FROM price_quotes ORDER BY currency`)
	if err != nil {
		return nil, fmt.Errorf("getting latest quotes: %w", err)
	}
	defer rows.Close()

	var quotes []Quote
	for rows.Next() {
		var q Quote
		if err := rows.Scan(&q.Currency, &q.Date, &q.Price); err != nil {
			return nil, fmt.Errorf("scanning quote: %w", err)
		}
		quotes = append(quotes, q)
	}
	return quotes, rows.Err()
}
