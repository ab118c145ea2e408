// Package metrics defines all custom Prometheus metrics for the portfolio
// API. It is the single source of truth for metric names, labels, and help
// strings. Metrics register themselves with the default registry via
// promauto at package load.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "portfolio"

// ── Trade metrics ─────────────────────────────────────────────────────────────

// TradesTotal counts reconciliation operations that completed successfully.
// Label:
//   - operation: "buy_open", "buy_merge", "sell_partial", or "sell_full"
var TradesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "trades_total",
		Help:      "Total number of buy/sell operations applied, by operation kind.",
	},
	[]string{"operation"},
)

// TradeErrorsTotal counts reconciliation operations rejected or failed.
// Label:
//   - reason: "not_found", "insufficient", or "conflict"
var TradeErrorsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "trade_errors_total",
		Help:      "Total number of buy/sell operations that did not apply.",
	},
	[]string{"reason"},
)

// ── Market-data metrics ───────────────────────────────────────────────────────

// QuoteRequestsTotal counts quote lookups by the tier that answered.
// Label:
//   - source: "cache", "intraday", "daily", or "unavailable"
var QuoteRequestsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "quote_requests_total",
		Help:      "Total number of quote lookups, by answering source.",
	},
	[]string{"source"},
)

// SymbolSearchFallbackTotal counts searches served from the static list
// because the provider errored or matched nothing.
var SymbolSearchFallbackTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "symbol_search_fallback_total",
		Help:      "Total number of symbol searches answered by the static fallback list.",
	},
)

// ProviderRequestDuration measures the latency of each market-data provider
// call.
// Label:
//   - function: provider function name (e.g. "TIME_SERIES_INTRADAY")
var ProviderRequestDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "provider_request_duration_seconds",
		Help:      "Duration of upstream market-data provider requests.",
		Buckets:   prometheus.DefBuckets, // .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10
	},
	[]string{"function"},
)
