// Package metrics exports remote call counters and latencies for the
// console's section adapters.
package metrics

import (
	"context"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Recorder collects per-section remote call results on its own registry.
type Recorder struct {
	registry *prometheus.Registry
	calls    *prometheus.CounterVec
	latency  *prometheus.HistogramVec
}

// New creates a Recorder and registers its collectors on a fresh registry.
func New() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		calls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "scriptdesk",
			Name:      "remote_calls_total",
			Help:      "Remote calls issued by section adapters.",
		}, []string{"section", "op", "outcome"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "scriptdesk",
			Name:      "remote_call_duration_seconds",
			Help:      "Latency of remote calls issued by section adapters.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"section", "op"}),
	}
	r.registry.MustRegister(r.calls, r.latency)
	return r
}

// Observe records one remote call.
func (r *Recorder) Observe(_ context.Context, section, op string, success bool, duration time.Duration) {
	outcome := "success"
	if !success {
		outcome = "error"
	}
	r.calls.WithLabelValues(section, op, outcome).Inc()
	r.latency.WithLabelValues(section, op).Observe(duration.Seconds())
}

// Registry returns the registry holding the recorder's collectors.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}
