// ABOUTME: Metrics interface with no-op and Prometheus implementations.
// ABOUTME: Records upstream HTTP calls and MCP tool/resource/prompt invocations.

package telemetry

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Outcome labels. Failures use the apperr kind string.
const OutcomeSuccess = "success"

type Metrics interface {
	ObserveUpstream(method, endpoint, outcome string, status int, d time.Duration)
	ObserveOperation(surface, name, outcome string, d time.Duration)
}

type NoopMetrics struct{}

func NewNoopMetrics() *NoopMetrics {
	return &NoopMetrics{}
}

func (n *NoopMetrics) ObserveUpstream(_, _, _ string, _ int, _ time.Duration) {}

func (n *NoopMetrics) ObserveOperation(_, _, _ string, _ time.Duration) {}

var _ Metrics = (*NoopMetrics)(nil)

type PrometheusMetrics struct {
	upstreamRequests  *prometheus.CounterVec
	upstreamDuration  *prometheus.HistogramVec
	operationRequests *prometheus.CounterVec
	operationDuration *prometheus.HistogramVec
}

func NewPrometheusMetrics(registerer prometheus.Registerer) *PrometheusMetrics {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}
	factory := promauto.With(registerer)

	return &PrometheusMetrics{
		upstreamRequests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "memos_mcp_upstream_requests_total",
				Help: "Total number of HTTP requests sent to the Memos API",
			},
			[]string{"method", "endpoint", "outcome", "status"},
		),
		upstreamDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "memos_mcp_upstream_duration_seconds",
				Help:    "Duration of Memos API requests in seconds",
				Buckets: []float64{.01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10, 30},
			},
			[]string{"method", "endpoint"},
		),
		operationRequests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "memos_mcp_operations_total",
				Help: "Total number of MCP tool, resource, and prompt invocations",
			},
			[]string{"surface", "name", "outcome"},
		),
		operationDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "memos_mcp_operation_duration_seconds",
				Help:    "Duration of MCP invocations in seconds",
				Buckets: []float64{.01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10, 30},
			},
			[]string{"surface", "name"},
		),
	}
}

func (p *PrometheusMetrics) ObserveUpstream(method, endpoint, outcome string, status int, d time.Duration) {
	statusLabel := "none"
	if status != 0 {
		statusLabel = strconv.Itoa(status)
	}
	p.upstreamRequests.WithLabelValues(method, endpoint, outcome, statusLabel).Inc()
	p.upstreamDuration.WithLabelValues(method, endpoint).Observe(d.Seconds())
}

func (p *PrometheusMetrics) ObserveOperation(surface, name, outcome string, d time.Duration) {
	p.operationRequests.WithLabelValues(surface, name, outcome).Inc()
	p.operationDuration.WithLabelValues(surface, name).Observe(d.Seconds())
}

var _ Metrics = (*PrometheusMetrics)(nil)

