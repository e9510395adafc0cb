package worker

import (
	"context"
	"log/slog"
	"time"

	"github.com/mtlprog/walletpage/internal/prices"
)

// PriceRefresher defines the interface for refreshing the cached price table.
type PriceRefresher interface {
	Refresh(ctx context.Context) (prices.Snapshot, error)
}

// PriceWorker periodically refreshes USD prices from the feed.
type PriceWorker struct {
	refresher PriceRefresher
	interval  time.Duration
}

// DefaultInterval is used when NewPriceWorker is given a non-positive interval.
const DefaultInterval = 5 * time.Minute

// NewPriceWorker creates a new PriceWorker.
func NewPriceWorker(refresher PriceRefresher, interval time.Duration) *PriceWorker {
	if interval <= 0 {
		slog.Warn("PriceWorker: non-positive interval, using default", "interval", interval, "default", DefaultInterval)
		interval = DefaultInterval
	}
	return &PriceWorker{
		refresher: refresher,
		interval:  interval,
	}
}

// Run starts the price worker loop. It blocks until the context is cancelled.
func (w *PriceWorker) Run(ctx context.Context) {
	slog.Info("PriceWorker: starting", "interval", w.interval)

	// Fetch immediately on startup
	w.refresh(ctx, "initial refresh")

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("PriceWorker: shutting down")
			return
		case <-ticker.C:
			w.refresh(ctx, "refresh")
		}
	}
}

func (w *PriceWorker) refresh(ctx context.Context, label string) {
	snap, err := w.refresher.Refresh(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return
		}
		slog.Error("PriceWorker: "+label+" failed", "error", err)
		return
	}
	slog.Info("PriceWorker: "+label+" completed",
		"currencies", len(snap.Table), "revision", snap.Revision)
}
