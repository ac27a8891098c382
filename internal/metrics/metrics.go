// Package metrics provides Prometheus metrics for the query cache and the API client.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "factdash"

// Metrics holds every collector; it satisfies both api.Recorder and query.Recorder.
type Metrics struct {
	registry *prometheus.Registry

	// CacheLookups counts query reads by outcome (hit, stale, miss, disabled).
	CacheLookups *prometheus.CounterVec

	// Fetches counts completed query fetches by outcome (success, error, discarded).
	Fetches *prometheus.CounterVec

	// FetchDuration measures query fetch duration, retries included.
	FetchDuration *prometheus.HistogramVec

	// Observers tracks live watchers per resource.
	Observers *prometheus.GaugeVec

	// APIRequests counts backend requests by status code.
	APIRequests *prometheus.CounterVec

	// APIRequestDuration measures backend request duration.
	APIRequestDuration *prometheus.HistogramVec
}

// New creates the collectors on a fresh registry that also carries the Go and process collectors.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return NewWithRegistry(reg)
}

// NewWithRegistry creates the collectors on reg.
func NewWithRegistry(reg *prometheus.Registry) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		CacheLookups: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "query",
				Name:      "cache_lookups_total",
				Help:      "Total number of query cache reads by outcome",
			},
			[]string{"resource", "outcome"},
		),
		Fetches: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "query",
				Name:      "fetches_total",
				Help:      "Total number of completed query fetches by outcome",
			},
			[]string{"resource", "outcome"},
		),
		FetchDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "query",
				Name:      "fetch_duration_seconds",
				Help:      "Duration of query fetches in seconds, including retries",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"resource"},
		),
		Observers: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: "query",
				Name:      "observers",
				Help:      "Number of live query observers",
			},
			[]string{"resource"},
		),
		APIRequests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "api",
				Name:      "requests_total",
				Help:      "Total number of backend API requests by status code (0 = transport failure)",
			},
			[]string{"resource", "code"},
		),
		APIRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "api",
				Name:      "request_duration_seconds",
				Help:      "Duration of backend API requests in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"resource"},
		),
	}
}

// Registry returns the registry holding the collectors.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// CacheLookup records a query cache read.
func (m *Metrics) CacheLookup(resource, outcome string) {
	m.CacheLookups.WithLabelValues(resource, outcome).Inc()
}

// FetchCompleted records a settled query fetch.
func (m *Metrics) FetchCompleted(resource, outcome string, duration time.Duration) {
	m.Fetches.WithLabelValues(resource, outcome).Inc()
	m.FetchDuration.WithLabelValues(resource).Observe(duration.Seconds())
}

// ObserversChanged adjusts the live observer gauge.
func (m *Metrics) ObserversChanged(resource string, delta int) {
	m.Observers.WithLabelValues(resource).Add(float64(delta))
}

// ObserveRequest records a backend API request.
func (m *Metrics) ObserveRequest(resource string, statusCode int, duration time.Duration) {
	m.APIRequests.WithLabelValues(resource, strconv.Itoa(statusCode)).Inc()
	m.APIRequestDuration.WithLabelValues(resource).Observe(duration.Seconds())
}
