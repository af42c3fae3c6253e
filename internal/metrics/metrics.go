// Package metrics exposes the service's Prometheus instrumentation.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	RunsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "skimmer_runs_total",
		Help: "Completed pipeline runs by terminal status.",
	}, []string{"status"})

	RunDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "skimmer_run_duration_seconds",
		Help:    "Wall-clock duration of pipeline runs.",
		Buckets: prometheus.ExponentialBuckets(0.1, 2, 12),
	})

	ItemsProcessed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "skimmer_items_processed_total",
		Help: "Items successfully processed and persisted.",
	})

	ItemErrors = promauto.NewCounter(prometheus.CounterOpts{
		Name: "skimmer_item_errors_total",
		Help: "Items that failed during processing.",
	})

	SourceFetches = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "skimmer_source_fetches_total",
		Help: "Ingestion batches by the source that served them.",
	}, []string{"source"})

	AnalysisRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "skimmer_analysis_total",
		Help: "Analysis results by provider.",
	}, []string{"provider"})

	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "skimmer_http_requests_total",
		Help: "HTTP requests by path and status code.",
	}, []string{"path", "code"})
)

// Handler serves the Prometheus scrape endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}
