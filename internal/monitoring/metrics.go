// internal/monitoring/metrics.go

// Package monitoring exposes Prometheus metrics and health endpoints for
// long-running worker processes.
package monitoring

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the run counters exported to Prometheus. Each Metrics owns
// its registry so tests and repeated runs never collide on registration.
type Metrics struct {
	registry *prometheus.Registry

	fetchTotal    *prometheus.CounterVec
	fetchDuration prometheus.Histogram
	softBlocks    prometheus.Counter
	retries       *prometheus.CounterVec
	items         *prometheus.CounterVec
	saved         prometheus.Counter
	inFlight      prometheus.Gauge
}

// NewMetrics builds a metric set on a fresh registry.
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()
	factory := promauto.With(registry)

	registry.MustRegister(collectors.NewGoCollector())

	return &Metrics{
		registry: registry,
		fetchTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "leadharvest",
			Name:      "fetch_total",
			Help:      "Fetch attempts by final status.",
		}, []string{"status"}),
		fetchDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: "leadharvest",
			Name:      "fetch_duration_seconds",
			Help:      "Wall time of fetches including retries.",
			Buckets:   prometheus.ExponentialBuckets(0.25, 2, 10),
		}),
		softBlocks: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "leadharvest",
			Name:      "soft_blocks_total",
			Help:      "Fetches that ended soft blocked.",
		}),
		retries: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "leadharvest",
			Name:      "fetch_retries_total",
			Help:      "Retried fetch attempts by the status that triggered them.",
		}, []string{"status"}),
		items: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "leadharvest",
			Name:      "items_total",
			Help:      "Work items by outcome.",
		}, []string{"outcome"}),
		saved: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "leadharvest",
			Name:      "records_saved_total",
			Help:      "Records upserted into the store.",
		}),
		inFlight: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: "leadharvest",
			Name:      "items_in_flight",
			Help:      "Work items currently being enriched.",
		}),
	}
}

// RecordFetch counts one finished fetch.
func (m *Metrics) RecordFetch(status string, elapsed time.Duration) {
	m.fetchTotal.WithLabelValues(status).Inc()
	m.fetchDuration.Observe(elapsed.Seconds())
	if status == "soft_blocked" {
		m.softBlocks.Inc()
	}
}

// RecordRetry counts one retried fetch attempt.
func (m *Metrics) RecordRetry(status string) {
	m.retries.WithLabelValues(status).Inc()
}

// RecordOutcome counts one item outcome: enriched, failed, or skipped.
func (m *Metrics) RecordOutcome(outcome string) {
	m.items.WithLabelValues(outcome).Inc()
}

// RecordSave counts one persisted record.
func (m *Metrics) RecordSave() {
	m.saved.Inc()
}

// ItemStarted and ItemFinished track the in-flight gauge.
func (m *Metrics) ItemStarted()  { m.inFlight.Inc() }
func (m *Metrics) ItemFinished() { m.inFlight.Dec() }

// Handler serves this metric set in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
