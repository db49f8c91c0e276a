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
	// Ingestion metrics
	SignaturesSeen      prometheus.Counter
	TransactionsFetched prometheus.Counter
	TransactionsCached  prometheus.Counter
	FetchErrors         *prometheus.CounterVec

	// Mapping metrics
	BatchesMapped       prometheus.Counter
	LegsEmitted         *prometheus.CounterVec
	TierHits            *prometheus.CounterVec
	RowsFiltered        *prometheus.CounterVec
	TransactionsSkipped *prometheus.CounterVec

	// Latency metrics
	HeliusCallLatency *prometheus.HistogramVec
	MapBatchDuration  prometheus.Histogram

	// Database metrics
	DBQueryDuration *prometheus.HistogramVec
	DBQueryErrors   *prometheus.CounterVec

	// Health metrics
	LastSuccessfulFetch prometheus.Gauge
	LastSuccessfulMap   prometheus.Gauge
}

// NewMetrics creates a new Metrics instance with all metrics registered.
func NewMetrics(namespace string) *Metrics {
	if namespace == "" {
		namespace = "wallet_lens"
	}

	return &Metrics{
		// Ingestion metrics
		SignaturesSeen: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ingestion",
			Name:      "signatures_seen_total",
			Help:      "Total number of wallet signatures seen during signature walks",
		}),
		TransactionsFetched: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ingestion",
			Name:      "transactions_fetched_total",
			Help:      "Total number of enriched transactions fetched from Helius",
		}),
		TransactionsCached: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ingestion",
			Name:      "transactions_cached_total",
			Help:      "Total number of transactions written to the cache",
		}),
		FetchErrors: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ingestion",
			Name:      "fetch_errors_total",
			Help:      "Total number of fetch errors by stage",
		}, []string{"stage"}),

		// Mapping metrics
		BatchesMapped: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "mapper",
			Name:      "batches_mapped_total",
			Help:      "Total number of transaction batches mapped",
		}),
		LegsEmitted: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "mapper",
			Name:      "legs_emitted_total",
			Help:      "Total number of attributed legs emitted by direction",
		}, []string{"direction"}),
		TierHits: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "mapper",
			Name:      "tier_hits_total",
			Help:      "Total number of token legs attributed by tier",
		}, []string{"tier"}),
		RowsFiltered: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "mapper",
			Name:      "rows_filtered_total",
			Help:      "Total number of legs dropped by post filter",
		}, []string{"filter"}),
		TransactionsSkipped: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "mapper",
			Name:      "transactions_skipped_total",
			Help:      "Total number of transactions skipped by reason",
		}, []string{"reason"}),

		// Latency metrics
		HeliusCallLatency: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "helius",
			Name:      "call_latency_seconds",
			Help:      "Helius API call latency in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"endpoint"}),
		MapBatchDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "mapper",
			Name:      "batch_duration_seconds",
			Help:      "MapBatch execution duration in seconds",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 10, 30},
		}),

		// Database metrics
		DBQueryDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "database",
			Name:      "query_duration_seconds",
			Help:      "Database query duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"database", "operation"}),
		DBQueryErrors: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "database",
			Name:      "query_errors_total",
			Help:      "Total number of database query errors",
		}, []string{"database", "operation"}),

		// Health metrics
		LastSuccessfulFetch: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "health",
			Name:      "last_successful_fetch_timestamp",
			Help:      "Unix timestamp of last successful ingestion run",
		}),
		LastSuccessfulMap: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "health",
			Name:      "last_successful_map_timestamp",
			Help:      "Unix timestamp of last successful mapping run",
		}),
	}
}

// Handler returns an HTTP handler for the /metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}

// DefaultMetrics is the default metrics instance.
var DefaultMetrics = NewMetrics("")

// RecordFetchError records a fetch error for the given stage.
func RecordFetchError(stage string) {
	DefaultMetrics.FetchErrors.WithLabelValues(stage).Inc()
}

// RecordHeliusLatency records Helius API call latency.
func RecordHeliusLatency(endpoint string, seconds float64) {
	DefaultMetrics.HeliusCallLatency.WithLabelValues(endpoint).Observe(seconds)
}

// RecordDBQuery records database query metrics.
func RecordDBQuery(database, operation string, seconds float64, err error) {
	DefaultMetrics.DBQueryDuration.WithLabelValues(database, operation).Observe(seconds)
	if err != nil {
		DefaultMetrics.DBQueryErrors.WithLabelValues(database, operation).Inc()
	}
}

// RecordTierHit increments the tier hit counter for the given tier.
func RecordTierHit(tier string) {
	DefaultMetrics.TierHits.WithLabelValues(tier).Inc()
}

// RecordLegEmitted increments the legs emitted counter for the direction.
func RecordLegEmitted(direction string) {
	DefaultMetrics.LegsEmitted.WithLabelValues(direction).Inc()
}
