// Package observability provides Prometheus metrics for monitoring.
package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	// Pipeline metrics
	LogEventsReceived    *prometheus.CounterVec
	SwapsClassified      *prometheus.CounterVec
	SwapsParsed          prometheus.Counter
	RecordsPersisted     *prometheus.CounterVec
	DuplicatesSuppressed prometheus.Counter
	EventsDropped        *prometheus.CounterVec

	// Enrichment metrics
	PriceLookupFailures   prometheus.Counter
	BalanceLookupFailures prometheus.Counter

	// Latency metrics
	RPCCallLatency         *prometheus.HistogramVec
	EventProcessingLatency prometheus.Histogram

	// Subscription metrics
	ActiveSubscriptions prometheus.Gauge
	Reconnects          prometheus.Counter
}

// NewMetrics creates a new Metrics instance with all metrics registered.
func NewMetrics(namespace string) *Metrics {
	if namespace == "" {
		namespace = "wallet_monitor"
	}

	return &Metrics{
		LogEventsReceived: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "pipeline",
			Name:      "log_events_received_total",
			Help:      "Total number of log notifications received per wallet",
		}, []string{"wallet"}),
		SwapsClassified: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "pipeline",
			Name:      "swaps_classified_total",
			Help:      "Total number of log events matched to a DEX program",
		}, []string{"dex"}),
		SwapsParsed: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "pipeline",
			Name:      "swaps_parsed_total",
			Help:      "Total number of transactions parsed into swap records",
		}),
		RecordsPersisted: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "pipeline",
			Name:      "records_persisted_total",
			Help:      "Total number of ledger records persisted by type",
		}, []string{"type"}),
		DuplicatesSuppressed: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "pipeline",
			Name:      "duplicates_suppressed_total",
			Help:      "Total number of events skipped because the txhash was already recorded",
		}),
		EventsDropped: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "pipeline",
			Name:      "events_dropped_total",
			Help:      "Total number of events dropped by reason",
		}, []string{"reason"}),

		PriceLookupFailures: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "enrichment",
			Name:      "price_lookup_failures_total",
			Help:      "Total number of failed price lookups",
		}),
		BalanceLookupFailures: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "enrichment",
			Name:      "balance_lookup_failures_total",
			Help:      "Total number of failed balance lookups",
		}),

		RPCCallLatency: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "solana",
			Name:      "rpc_call_latency_seconds",
			Help:      "Solana RPC call latency in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method"}),
		EventProcessingLatency: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "pipeline",
			Name:      "event_processing_latency_seconds",
			Help:      "End-to-end latency from notification to persistence decision",
			Buckets:   prometheus.DefBuckets,
		}),

		ActiveSubscriptions: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "solana",
			Name:      "active_subscriptions",
			Help:      "Number of active wallet log subscriptions",
		}),
		Reconnects: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "solana",
			Name:      "ws_reconnects_total",
			Help:      "Total number of WebSocket reconnects",
		}),
	}
}

// Handler returns an HTTP handler for the /metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}

// DefaultMetrics is the default metrics instance.
var DefaultMetrics = NewMetrics("")

// RecordLogEvent increments the received counter for a wallet.
func RecordLogEvent(wallet string) {
	DefaultMetrics.LogEventsReceived.WithLabelValues(wallet).Inc()
}

// RecordClassified increments the classified counter for a DEX.
func RecordClassified(dex string) {
	DefaultMetrics.SwapsClassified.WithLabelValues(dex).Inc()
}

// RecordParsed increments the parsed swaps counter.
func RecordParsed() {
	DefaultMetrics.SwapsParsed.Inc()
}

// RecordPersisted increments the persisted counter for a record type.
func RecordPersisted(recordType string) {
	DefaultMetrics.RecordsPersisted.WithLabelValues(recordType).Inc()
}

// RecordDuplicate increments the duplicates suppressed counter.
func RecordDuplicate() {
	DefaultMetrics.DuplicatesSuppressed.Inc()
}

// RecordDropped increments the dropped counter for a reason.
func RecordDropped(reason string) {
	DefaultMetrics.EventsDropped.WithLabelValues(reason).Inc()
}

// RecordRPCLatency records RPC call latency.
func RecordRPCLatency(method string, seconds float64) {
	DefaultMetrics.RPCCallLatency.WithLabelValues(method).Observe(seconds)
}
