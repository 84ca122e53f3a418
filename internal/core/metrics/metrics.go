package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the Prometheus instruments for the tracking subsystem.
// A private registry keeps test instances isolated from each other.
type Metrics struct {
	registry *prometheus.Registry

	// CourierFetches counts tracking fetches against the courier API by result
	// (success, auth_error, courier_error, transport_error, malformed).
	CourierFetches *prometheus.CounterVec
	// FetchRetries counts retry attempts beyond the first fetch attempt.
	FetchRetries prometheus.Counter
	// CacheLookups counts snapshot cache lookups by outcome (hit, stale, miss).
	CacheLookups *prometheus.CounterVec
	// PollTicks counts poll ticks fired by the scheduler.
	PollTicks prometheus.Counter
	// ActivePolls tracks the number of active poll subscriptions.
	ActivePolls prometheus.Gauge
	// BreakerState reports the courier circuit breaker state (0 closed, 1 half-open, 2 open).
	BreakerState prometheus.Gauge
}

// New creates a Metrics instance with its own registry.
func New() *Metrics {
	registry := prometheus.NewRegistry()
	registry.MustRegister(prometheus.NewGoCollector())
	registry.MustRegister(prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}))

	m := &Metrics{
		registry: registry,
		CourierFetches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "shipment_tracker",
			Name:      "courier_fetches_total",
			Help:      "Tracking fetches against the courier API by result.",
		}, []string{"result"}),
		FetchRetries: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "shipment_tracker",
			Name:      "fetch_retries_total",
			Help:      "Retry attempts beyond the first fetch attempt.",
		}),
		CacheLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "shipment_tracker",
			Name:      "cache_lookups_total",
			Help:      "Snapshot cache lookups by outcome.",
		}, []string{"outcome"}),
		PollTicks: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "shipment_tracker",
			Name:      "poll_ticks_total",
			Help:      "Poll ticks fired by the scheduler.",
		}),
		ActivePolls: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "shipment_tracker",
			Name:      "active_polls",
			Help:      "Active poll subscriptions.",
		}),
		BreakerState: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "shipment_tracker",
			Name:      "courier_breaker_state",
			Help:      "Courier circuit breaker state (0 closed, 1 half-open, 2 open).",
		}),
	}

	registry.MustRegister(
		m.CourierFetches,
		m.FetchRetries,
		m.CacheLookups,
		m.PollTicks,
		m.ActivePolls,
		m.BreakerState,
	)

	return m
}

// Handler returns the HTTP handler serving the registry in Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
