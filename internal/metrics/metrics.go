// Package metrics holds the prometheus collectors of the server
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/AltairaLabs/docspace-mcp/internal/errtrace"
)

const namespace = "docspace_mcp"

// Tool call outcomes
const (
	OutcomeSuccess  = "success"
	OutcomeError    = "error"
	OutcomeCanceled = "canceled"
)

// Metrics owns a registry and the collectors registered on it
type Metrics struct {
	registry *prometheus.Registry

	toolCalls     *prometheus.CounterVec
	toolDuration  *prometheus.HistogramVec
	resolverPolls prometheus.Counter
	sessions      *prometheus.GaugeVec
}

// New creates the collectors on a fresh registry, along with the Go runtime
// and process collectors
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	f := promauto.With(reg)

	return &Metrics{
		registry: reg,
		toolCalls: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tool_calls_total",
			Help:      "Total number of tool calls by tool and outcome",
		}, []string{"tool", "outcome"}),
		toolDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "tool_call_duration_seconds",
			Help:      "Tool call latency",
			Buckets:   prometheus.DefBuckets,
		}, []string{"tool"}),
		resolverPolls: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "resolver_polls_total",
			Help:      "Total number of operation status polls",
		}),
		sessions: f.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "sessions_active",
			Help:      "Number of live transport sessions",
		}, []string{"transport"}),
	}
}

// ObserveToolCall records the outcome and latency of one tool call
func (m *Metrics) ObserveToolCall(tool string, err error, elapsed time.Duration) {
	outcome := OutcomeSuccess
	switch {
	case errtrace.IsCanceled(err):
		outcome = OutcomeCanceled
	case err != nil:
		outcome = OutcomeError
	}
	m.toolCalls.WithLabelValues(tool, outcome).Inc()
	m.toolDuration.WithLabelValues(tool).Observe(elapsed.Seconds())
}

// ResolverPolls counts operation status polls
func (m *Metrics) ResolverPolls() prometheus.Counter {
	return m.resolverPolls
}

// Sessions returns the live session gauge of a transport
func (m *Metrics) Sessions(transport string) prometheus.Gauge {
	return m.sessions.WithLabelValues(transport)
}

// Registry returns the registry the collectors live on
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the prometheus exposition format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
