package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// PoolSize reports the number of handles currently held per resource kind.
	PoolSize = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "ingestflow_resource_pool_size",
			Help: "Number of credentialed handles currently cached, by resource kind",
		},
		[]string{"kind"},
	)

	// RefreshTotal counts refresh attempts by kind and outcome.
	RefreshTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ingestflow_resource_refresh_total",
			Help: "Refresh attempts, by refresh kind (resources/token) and outcome (success/failure/skipped)",
		},
		[]string{"refresh_kind", "outcome"},
	)

	// RefreshDuration tracks how long a refresh (including retries) took.
	RefreshDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "ingestflow_resource_refresh_duration_seconds",
			Help:    "Time spent performing a resource or token refresh, including retry backoff",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"refresh_kind"},
	)

	// IngestTotal counts façade ingest attempts by outcome.
	IngestTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ingestflow_ingest_total",
			Help: "Ingest operations performed by the façade, by source kind and outcome",
		},
		[]string{"source_kind", "outcome"},
	)

	// IngestDuration tracks the wall time of one façade ingest call.
	IngestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "ingestflow_ingest_duration_seconds",
			Help:    "Wall time of one Ingestor call, by source kind",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"source_kind"},
	)
)

func init() {
	prometheus.MustRegister(PoolSize)
	prometheus.MustRegister(RefreshTotal)
	prometheus.MustRegister(RefreshDuration)
	prometheus.MustRegister(IngestTotal)
	prometheus.MustRegister(IngestDuration)
}

// Handler returns the Prometheus HTTP handler for scraping.
func Handler() http.Handler {
	return promhttp.Handler()
}

// Timer is a helper for timing operations.
type Timer struct {
	start time.Time
}

// NewTimer creates a new timer.
func NewTimer() *Timer {
	return &Timer{start: time.Now()}
}

// ObserveDuration records the duration to a histogram.
func (t *Timer) ObserveDuration(histogram prometheus.Histogram) {
	histogram.Observe(time.Since(t.start).Seconds())
}

// ObserveDurationVec records the duration to a histogram vec with labels.
func (t *Timer) ObserveDurationVec(histogram prometheus.ObserverVec, labels ...string) {
	histogram.WithLabelValues(labels...).Observe(time.Since(t.start).Seconds())
}

// Duration returns the elapsed time since the timer started.
func (t *Timer) Duration() time.Duration {
	return time.Since(t.start)
}
