// Package metrics tracks operational metrics for the calendar cache and
// exposes them in the Prometheus text format.
//
// All methods are safe to call on a nil *Metrics, so components can take
// metrics as an optional dependency.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Outcome labels how a fetch request was answered
type Outcome string

const (
	OutcomeFresh  Outcome = "fresh"  // fetched from the network
	OutcomeCached Outcome = "cached" // served from a fresh cache
	OutcomeStale  Outcome = "stale"  // network failed, stale cache served
	OutcomeError  Outcome = "error"  // failure surfaced to the caller
)

// Metrics holds the collectors for one calendar service
type Metrics struct {
	registry      *prometheus.Registry
	fetches       *prometheus.CounterVec
	fetchDuration prometheus.Histogram
	cachedEvents  prometheus.Gauge
	parseErrors   prometheus.Counter
}

// New creates a metrics set registered on its own registry, together with
// the standard Go runtime and process collectors.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		fetches: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "pupcal_fetch_total",
			Help: "Calendar fetch requests by outcome",
		}, []string{"outcome"}),
		fetchDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "pupcal_fetch_duration_seconds",
			Help:    "Time spent fetching and parsing the calendar page",
			Buckets: prometheus.DefBuckets,
		}),
		cachedEvents: factory.NewGauge(prometheus.GaugeOpts{
			Name: "pupcal_cached_events",
			Help: "Number of events currently held in the cache",
		}),
		parseErrors: factory.NewCounter(prometheus.CounterOpts{
			Name: "pupcal_parse_errors_total",
			Help: "Calendar pages that could not be parsed",
		}),
	}
}

// ObserveFetch counts one fetch request answered with the given outcome
func (m *Metrics) ObserveFetch(outcome Outcome) {
	if m == nil {
		return
	}
	m.fetches.WithLabelValues(string(outcome)).Inc()
}

// ObserveFetchDuration records how long a network fetch took
func (m *Metrics) ObserveFetchDuration(d time.Duration) {
	if m == nil {
		return
	}
	m.fetchDuration.Observe(d.Seconds())
}

// SetCachedEvents records the size of the cache
func (m *Metrics) SetCachedEvents(n int) {
	if m == nil {
		return
	}
	m.cachedEvents.Set(float64(n))
}

// IncParseErrors counts a page that failed to parse
func (m *Metrics) IncParseErrors() {
	if m == nil {
		return
	}
	m.parseErrors.Inc()
}

// Handler serves the registry in the Prometheus exposition format. Scrapes
// of the handler are themselves counted on the same registry.
func (m *Metrics) Handler() http.Handler {
	return promhttp.InstrumentMetricHandler(
		m.registry,
		promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{}),
	)
}
