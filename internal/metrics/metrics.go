// internal/metrics/metrics.go

// Package metrics registers the process-wide Prometheus collectors.
// Everything lives on the default registry so promhttp can serve it
// without extra wiring.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// PollCycles counts completed poll cycles.
	PollCycles = promauto.NewCounter(prometheus.CounterOpts{
		Name: "farmwatch_poll_cycles_total",
		Help: "Completed poll cycles.",
	})

	// CycleDuration observes wall-clock time per cycle.
	CycleDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "farmwatch_poll_cycle_duration_seconds",
		Help:    "Wall-clock duration of one full poll cycle.",
		Buckets: prometheus.DefBuckets,
	})

	// FetchResults counts feed fetches by classification.
	FetchResults = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "farmwatch_fetch_results_total",
		Help: "Feed fetch outcomes by server and classification.",
	}, []string{"server", "kind"})

	// Events counts emitted lifecycle events by type.
	Events = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "farmwatch_events_total",
		Help: "Lifecycle events emitted by the diff, by type.",
	}, []string{"type"})

	// DispatchFailures counts notification deliveries that errored.
	DispatchFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "farmwatch_dispatch_failures_total",
		Help: "Notification deliveries that returned an error.",
	}, []string{"server"})

	// ServersTracked is the current registry size.
	ServersTracked = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "farmwatch_servers_tracked",
		Help: "Servers currently registered for polling.",
	})

	// ConsecutiveTransients reports the per-server transient streak. A
	// sustained non-zero value means the feed host is unreachable.
	ConsecutiveTransients = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "farmwatch_consecutive_transient_fetches",
		Help: "Consecutive transient fetch failures per server.",
	}, []string{"server"})

	// HTTPRequests counts admin API requests.
	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "farmwatch_http_requests_total",
		Help: "Admin API requests by method, path and status.",
	}, []string{"method", "path", "status"})
)
