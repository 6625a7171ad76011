// ABOUTME: Prometheus metrics for the viewer server on a per-server registry.
// ABOUTME: Counts refreshes, exports, render cache lookups, and HTTP requests; gauges live sessions.
package viewer

import (
	"errors"
	"net/http"
	"time"

	"github.com/2389-research/automatizer/automaton"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics groups the viewer's collectors. A nil *Metrics records nothing.
type Metrics struct {
	registry        *prometheus.Registry
	refreshes       *prometheus.CounterVec
	refreshDuration prometheus.Histogram
	exports         *prometheus.CounterVec
	cacheLookups    *prometheus.CounterVec
	requests        *prometheus.CounterVec
}

// NewMetrics registers the viewer collectors plus a live-session gauge for store.
func NewMetrics(store *Store) *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		refreshes: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "automatizer_refreshes_total",
				Help: "Source refreshes by result and error kind.",
			},
			[]string{"result", "kind"},
		),
		refreshDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "automatizer_refresh_duration_seconds",
			Help:    "Time spent building a view from source text.",
			Buckets: prometheus.DefBuckets,
		}),
		exports: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "automatizer_exports_total",
				Help: "Exports by output format.",
			},
			[]string{"format"},
		),
		cacheLookups: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "automatizer_render_cache_lookups_total",
				Help: "Render cache lookups by result.",
			},
			[]string{"result"},
		),
		requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "automatizer_http_requests_total",
				Help: "HTTP requests by route pattern and status class.",
			},
			[]string{"route", "status"},
		),
	}
	m.registry.MustRegister(m.refreshes, m.refreshDuration, m.exports, m.cacheLookups, m.requests)
	if store != nil {
		m.registry.MustRegister(prometheus.NewGaugeFunc(
			prometheus.GaugeOpts{
				Name: "automatizer_sessions",
				Help: "Live viewer sessions.",
			},
			func() float64 { return float64(store.Len()) },
		))
	}
	return m
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// ObserveRefresh records one refresh attempt.
func (m *Metrics) ObserveRefresh(d time.Duration, err error) {
	if m == nil {
		return
	}
	m.refreshDuration.Observe(d.Seconds())
	if err == nil {
		m.refreshes.WithLabelValues("ok", "").Inc()
		return
	}
	kind := "other"
	var pe *automaton.ParseError
	if errors.As(err, &pe) {
		kind = pe.Kind.String()
	} else if errors.Is(err, ErrBuilderUnavailable) {
		kind = "BuilderUnavailable"
	}
	m.refreshes.WithLabelValues("error", kind).Inc()
}

// ObserveExport records one export.
func (m *Metrics) ObserveExport(format string) {
	if m == nil {
		return
	}
	m.exports.WithLabelValues(format).Inc()
}

// ObserveCacheLookup records a render cache hit or miss.
func (m *Metrics) ObserveCacheLookup(hit bool) {
	if m == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	m.cacheLookups.WithLabelValues(result).Inc()
}

// ObserveRequest records one served HTTP request.
func (m *Metrics) ObserveRequest(route string, status int) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(route, statusClass(status)).Inc()
}
