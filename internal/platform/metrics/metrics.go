package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	RequestsTotal      *prometheus.CounterVec
	RequestDuration    *prometheus.HistogramVec
	EnrichmentFailures *prometheus.CounterVec
	UpstreamDegraded   *prometheus.CounterVec
}

// New creates and registers all metrics against the given registerer. Tests
// pass a fresh prometheus.NewRegistry so repeated construction never panics
// on duplicate registration.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		RequestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "almanac_http_requests_total",
			Help: "Total number of HTTP requests served, by route and status.",
		}, []string{"route", "status"}),
		RequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "almanac_http_request_duration_seconds",
			Help:    "HTTP request latency, by route.",
			Buckets: prometheus.DefBuckets,
		}, []string{"route"}),
		EnrichmentFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "almanac_enrichment_failures_total",
			Help: "Total number of enricher invocations that errored, by field path.",
		}, []string{"field"}),
		UpstreamDegraded: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "almanac_upstream_degraded_total",
			Help: "Total number of upstream calls that degraded to a minimal result, by service.",
		}, []string{"service"}),
	}
}
