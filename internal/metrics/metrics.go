// Package metrics exposes Prometheus collectors for the wallet page services.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	// Renders counts wallet page renders by outcome (ok, not_found, error).
	Renders = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "walletpage_renders_total",
			Help: "Wallet page renders by outcome",
		},
		[]string{"outcome"},
	)

	// RowsShown observes how many balances survive filtering per render.
	RowsShown = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "walletpage_rows_shown",
			Help:    "Number of balance rows shown per render",
			Buckets: []float64{0, 1, 2, 5, 10, 25, 50, 100},
		},
	)

	// BalancesDropped counts balances excluded by the filter, by reason.
	BalancesDropped = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "walletpage_balances_dropped_total",
			Help: "Balances excluded from display by reason",
		},
		[]string{"reason"},
	)

	// PriceRefreshes counts price feed refreshes by outcome.
	PriceRefreshes = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "walletpage_price_refreshes_total",
			Help: "Price feed refreshes by outcome",
		},
		[]string{"outcome"},
	)

	// PriceRefreshDuration observes the latency of price feed refreshes.
	PriceRefreshDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "walletpage_price_refresh_duration_seconds",
			Help:    "Duration of price feed refreshes",
			Buckets: prometheus.DefBuckets,
		},
	)

	// IconDownloads counts token icon downloads by outcome.
	IconDownloads = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "walletpage_icon_downloads_total",
			Help: "Token icon downloads by outcome",
		},
		[]string{"outcome"},
	)
)

func init() {
	prometheus.MustRegister(
		Renders,
		RowsShown,
		BalancesDropped,
		PriceRefreshes,
		PriceRefreshDuration,
		IconDownloads,
	)
}
