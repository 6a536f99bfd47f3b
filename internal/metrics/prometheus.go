// Package metrics exposes service operation metrics through Prometheus.
package metrics

import (
	"context"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// PrometheusRecorder records per-operation counts and latencies on its own
// registry so multiple instances never collide on metric names.
type PrometheusRecorder struct {
	registry  *prometheus.Registry
	opsTotal  *prometheus.CounterVec
	opSeconds *prometheus.HistogramVec
}

// NewPrometheusRecorder builds a recorder with a fresh registry.
func NewPrometheusRecorder() *PrometheusRecorder {
	registry := prometheus.NewRegistry()
	factory := promauto.With(registry)
	return &PrometheusRecorder{
		registry: registry,
		opsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "katalog_operations_total",
			Help: "Total service operations by name and outcome",
		}, []string{"operation", "outcome"}),
		opSeconds: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "katalog_operation_duration_seconds",
			Help:    "Service operation duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.0001, 2, 14), // 0.1ms to ~1.6s
		}, []string{"operation"}),
	}
}

// Observe records one completed operation.
func (r *PrometheusRecorder) Observe(_ context.Context, operation string, success bool, duration time.Duration) {
	outcome := "success"
	if !success {
		outcome = "failure"
	}
	r.opsTotal.WithLabelValues(operation, outcome).Inc()
	r.opSeconds.WithLabelValues(operation).Observe(duration.Seconds())
}

// Handler serves the recorder's registry in the Prometheus text format.
func (r *PrometheusRecorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}

// Registry exposes the underlying registry for tests.
func (r *PrometheusRecorder) Registry() *prometheus.Registry { return r.registry }
