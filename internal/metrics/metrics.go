// Package metrics holds the Prometheus collectors for the fetch client, the
// report orchestrator and the tool server.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics owns a private registry so tests can build as many as they like.
type Metrics struct {
	Registry *prometheus.Registry

	UpstreamRequests  *prometheus.CounterVec
	UpstreamLatency   *prometheus.HistogramVec
	ComponentFailures *prometheus.CounterVec
	ReportDuration    prometheus.Histogram
	ToolCalls         *prometheus.CounterVec
}

func New() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		UpstreamRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "fplmate_upstream_requests_total",
			Help: "Upstream FPL API requests by endpoint and HTTP status (0 = transport error).",
		}, []string{"endpoint", "status"}),
		UpstreamLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "fplmate_upstream_request_seconds",
			Help:    "Upstream request latency.",
			Buckets: prometheus.DefBuckets,
		}, []string{"endpoint"}),
		ComponentFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "fplmate_component_failures_total",
			Help: "Report components that returned an error or panicked.",
		}, []string{"component"}),
		ReportDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "fplmate_report_build_seconds",
			Help:    "Time to build one report.",
			Buckets: []float64{.001, .005, .01, .05, .1, .5, 1},
		}),
		ToolCalls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "fplmate_tool_calls_total",
			Help: "MCP tool calls by tool and outcome.",
		}, []string{"tool", "outcome"}),
	}
	m.Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.UpstreamRequests,
		m.UpstreamLatency,
		m.ComponentFailures,
		m.ReportDuration,
		m.ToolCalls,
	)
	return m
}

// ObserveUpstream records one upstream attempt. status 0 is a transport error.
func (m *Metrics) ObserveUpstream(endpoint string, status int, d time.Duration) {
	if m == nil {
		return
	}
	m.UpstreamRequests.WithLabelValues(endpoint, strconv.Itoa(status)).Inc()
	m.UpstreamLatency.WithLabelValues(endpoint).Observe(d.Seconds())
}

func (m *Metrics) ComponentFailed(component string) {
	if m == nil {
		return
	}
	m.ComponentFailures.WithLabelValues(component).Inc()
}

func (m *Metrics) ObserveReport(d time.Duration) {
	if m == nil {
		return
	}
	m.ReportDuration.Observe(d.Seconds())
}

func (m *Metrics) ToolCalled(tool string, failed bool) {
	if m == nil {
		return
	}
	outcome := "ok"
	if failed {
		outcome = "error"
	}
	m.ToolCalls.WithLabelValues(tool, outcome).Inc()
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{})
}
