// Package observability provides Prometheus metrics and OpenTelemetry
// tracing for the session client. Everything here is optional; the
// client runs without it.
package observability

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsConfig configures the metrics provider.
type MetricsConfig struct {
	// Namespace is the Prometheus namespace (default: mcp_client).
	Namespace string
	// Subsystem is the Prometheus subsystem.
	Subsystem string
	// ConstLabels are added to every metric.
	ConstLabels prometheus.Labels
	// Registry lets the caller supply a registry; nil creates one.
	Registry *prometheus.Registry
	// HistogramBuckets overrides the latency buckets.
	HistogramBuckets []float64
}

// Metrics records what the session client does: requests issued, tool
// calls, process launches and their outcomes.
type Metrics struct {
	registry *prometheus.Registry

	callsTotal   *prometheus.CounterVec
	callDuration *prometheus.HistogramVec
	toolCalls    *prometheus.CounterVec
	launches     *prometheus.CounterVec
	failures     *prometheus.CounterVec
}

// NewMetrics creates and registers the client metric set.
func NewMetrics(config MetricsConfig) (*Metrics, error) {
	if config.Namespace == "" {
		config.Namespace = "mcp_client"
	}
	if config.Registry == nil {
		config.Registry = prometheus.NewRegistry()
	}
	if config.HistogramBuckets == nil {
		config.HistogramBuckets = []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10}
	}

	m := &Metrics{
		registry: config.Registry,
		callsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "requests_total",
			Help:        "JSON-RPC requests issued, by method and outcome.",
			ConstLabels: config.ConstLabels,
		}, []string{"method", "status"}),
		callDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "request_duration_seconds",
			Help:        "Round-trip latency of JSON-RPC requests.",
			Buckets:     config.HistogramBuckets,
			ConstLabels: config.ConstLabels,
		}, []string{"method"}),
		toolCalls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "tool_calls_total",
			Help:        "tools/call invocations, by tool name and outcome.",
			ConstLabels: config.ConstLabels,
		}, []string{"tool", "status"}),
		launches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "server_launches_total",
			Help:        "Server process launches, by outcome.",
			ConstLabels: config.ConstLabels,
		}, []string{"status"}),
		failures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "failures_total",
			Help:        "Channel failures, by error category.",
			ConstLabels: config.ConstLabels,
		}, []string{"category"}),
	}

	for _, c := range []prometheus.Collector{
		m.callsTotal, m.callDuration, m.toolCalls, m.launches, m.failures,
	} {
		if err := config.Registry.Register(c); err != nil {
			return nil, fmt.Errorf("failed to register collector: %w", err)
		}
	}
	return m, nil
}

// RecordCall records one JSON-RPC round trip.
func (m *Metrics) RecordCall(ctx context.Context, method, status string, duration time.Duration) {
	m.callsTotal.WithLabelValues(method, status).Inc()
	m.callDuration.WithLabelValues(method).Observe(duration.Seconds())
}

// RecordToolCall records one tools/call invocation by tool name.
func (m *Metrics) RecordToolCall(tool, status string) {
	m.toolCalls.WithLabelValues(tool, status).Inc()
}

// RecordLaunch records a server process launch attempt.
func (m *Metrics) RecordLaunch(status string) {
	m.launches.WithLabelValues(status).Inc()
}

// RecordFailure records a channel failure by error category.
func (m *Metrics) RecordFailure(category string) {
	m.failures.WithLabelValues(category).Inc()
}

// Handler returns an HTTP handler serving the metric set, for drivers
// that stay up long enough to be scraped.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
