// Package metrics exports SDK telemetry as Prometheus collectors.
package metrics

import (
	"context"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/hirelane/hirelane/sdk/go/telemetry"
)

// Metrics holds the Prometheus collectors fed by the SDK's telemetry hooks.
type Metrics struct {
	HTTPRequests       *prometheus.CounterVec
	HTTPLatency        *prometheus.HistogramVec
	Refreshes          *prometheus.CounterVec
	Retries            prometheus.Counter
	CoalescedRefreshes prometheus.Counter
	SessionsTerminated prometheus.Counter
}

// New registers the SDK collectors with reg. A nil reg uses the default registerer.
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)
	return &Metrics{
		HTTPRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "hirelane_sdk_http_requests_total",
			Help: "Total number of API requests by method and status class",
		}, []string{"method", "status"}),
		HTTPLatency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "hirelane_sdk_http_request_duration_seconds",
			Help:    "API request latency",
			Buckets: prometheus.DefBuckets,
		}, []string{"method"}),
		Refreshes: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "hirelane_sdk_session_refreshes_total",
			Help: "Access-token refresh attempts by outcome (success, failure, missing)",
		}, []string{"outcome"}),
		Retries: factory.NewCounter(prometheus.CounterOpts{
			Name: "hirelane_sdk_session_retries_total",
			Help: "Protected requests resubmitted after a refresh",
		}),
		CoalescedRefreshes: factory.NewCounter(prometheus.CounterOpts{
			Name: "hirelane_sdk_session_refresh_waiters_total",
			Help: "Callers that shared an in-flight refresh",
		}),
		SessionsTerminated: factory.NewCounter(prometheus.CounterOpts{
			Name: "hirelane_sdk_sessions_terminated_total",
			Help: "Sessions destroyed by an unrecoverable refresh failure",
		}),
	}
}

// Hooks returns telemetry hooks feeding these collectors.
func (m *Metrics) Hooks() telemetry.Hooks {
	return telemetry.Hooks{
		OnHTTPResponse: m.observeResponse,
		OnMetric:       m.observe,
	}
}

func (m *Metrics) observeResponse(ctx context.Context, req *http.Request, resp *http.Response, err error, latency time.Duration) {
	status := "error"
	if err == nil && resp != nil {
		status = statusClass(resp.StatusCode)
	}
	m.HTTPRequests.WithLabelValues(req.Method, status).Inc()
	m.HTTPLatency.WithLabelValues(req.Method).Observe(latency.Seconds())
}

func (m *Metrics) observe(ctx context.Context, metric telemetry.Metric) {
	switch metric.Name {
	case telemetry.MetricRefresh:
		outcome := metric.Labels["outcome"]
		if outcome == "" {
			outcome = "unknown"
		}
		m.Refreshes.WithLabelValues(outcome).Add(metric.Value)
	case telemetry.MetricRetry:
		m.Retries.Add(metric.Value)
	case telemetry.MetricRefreshCoalesce:
		m.CoalescedRefreshes.Add(metric.Value)
	case telemetry.MetricTerminated:
		m.SessionsTerminated.Add(metric.Value)
	}
}

func statusClass(code int) string {
	switch {
	case code >= 500:
		return "5xx"
	case code >= 400:
		return "4xx"
	case code >= 300:
		return "3xx"
	default:
		return "2xx"
	}
}
