// Package telemetry exposes prometheus metrics for the content service.
package telemetry

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// SubscriberCount tracks currently open stream connections.
	SubscriberCount = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "verdant_stream_subscribers",
		Help: "Number of currently connected stream subscribers",
	})

	// EventsBroadcast counts change events fanned out, by content kind.
	EventsBroadcast = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "verdant_events_broadcast_total",
		Help: "Total change events broadcast to subscribers",
	}, []string{"kind"})

	// SendFailures counts subscriber writes that failed and led to
	// the subscriber being dropped.
	SendFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "verdant_stream_send_failures_total",
		Help: "Total subscriber send failures",
	})

	// PrefetchRuns counts snapshot regeneration runs by outcome.
	PrefetchRuns = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "verdant_prefetch_runs_total",
		Help: "Total prefetch command runs",
	}, []string{"status"})

	// HTTPRequests counts API requests by path and status.
	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "verdant_http_requests_total",
		Help: "Total HTTP requests served",
	}, []string{"path", "status"})
)

// Handler returns the /metrics endpoint handler.
func Handler() http.Handler {
	return promhttp.Handler()
}
