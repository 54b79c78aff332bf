// Package metrics exposes Prometheus collectors for lookups and ephemeris
// requests.
package metrics

import (
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Result label values.
const (
	ResultOK       = "ok"
	ResultError    = "error"
	ResultNotFound = "not_found"
	ResultCached   = "cached"
)

// Metrics holds the collectors on a private registry. A nil *Metrics is
// valid and records nothing.
type Metrics struct {
	registry *prometheus.Registry

	lookupsTotal         *prometheus.CounterVec
	ephemRequestsTotal   *prometheus.CounterVec
	ephemDurationSeconds *prometheus.HistogramVec
}

// New creates and registers the collectors.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		lookupsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "astral_lookups_total",
				Help: "Total number of body position lookups.",
			},
			[]string{"kind", "result"},
		),
		ephemRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "astral_ephemeris_requests_total",
				Help: "Total number of heliocentric ephemeris requests.",
			},
			[]string{"provider", "result"},
		),
		ephemDurationSeconds: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "astral_ephemeris_request_duration_seconds",
				Help:    "Ephemeris request duration in seconds.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"provider"},
		),
	}

	m.registry.MustRegister(
		m.lookupsTotal,
		m.ephemRequestsTotal,
		m.ephemDurationSeconds,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Registry returns the private registry.
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// Handler returns the Prometheus metrics HTTP handler for the registry.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// ObserveLookup counts a position lookup for a body kind. result is one of
// the Result constants, usually from Result.
func (m *Metrics) ObserveLookup(kind, result string) {
	if m == nil {
		return
	}
	m.lookupsTotal.WithLabelValues(kind, result).Inc()
}

// ObserveEphemeris counts and times one provider request.
func (m *Metrics) ObserveEphemeris(provider string, d time.Duration, err error) {
	if m == nil {
		return
	}
	m.ephemRequestsTotal.WithLabelValues(provider, Result(err)).Inc()
	m.ephemDurationSeconds.WithLabelValues(provider).Observe(d.Seconds())
}

// ObserveCacheHit counts a request served from a provider cache.
func (m *Metrics) ObserveCacheHit(provider string) {
	if m == nil {
		return
	}
	m.ephemRequestsTotal.WithLabelValues(provider, ResultCached).Inc()
}

// Lookups returns the lookup counter, for tests and status views. It is
// nil for a nil *Metrics.
func (m *Metrics) Lookups() *prometheus.CounterVec {
	if m == nil {
		return nil
	}
	return m.lookupsTotal
}

// EphemerisRequests returns the ephemeris request counter, or nil.
func (m *Metrics) EphemerisRequests() *prometheus.CounterVec {
	if m == nil {
		return nil
	}
	return m.ephemRequestsTotal
}

// Result maps an error to a result label. Errors matching any of notFound
// are reported as ResultNotFound.
func Result(err error, notFound ...error) string {
	if err == nil {
		return ResultOK
	}
	for _, target := range notFound {
		if errors.Is(err, target) {
			return ResultNotFound
		}
	}
	return ResultError
}
