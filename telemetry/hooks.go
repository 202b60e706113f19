// Package telemetry carries the SDK's observability callbacks so callers can
// plug in logging and metrics without the SDK forcing a backend on them.
package telemetry

import (
	"context"
	"net/http"
	"time"
)

// Hooks expose observability callbacks without forcing dependencies on the caller.
type Hooks struct {
	// OnHTTPRequest fires before the HTTP request is sent.
	OnHTTPRequest func(ctx context.Context, req *http.Request)
	// OnHTTPResponse fires after the request completes (even when err != nil).
	OnHTTPResponse func(ctx context.Context, req *http.Request, resp *http.Response, err error, latency time.Duration)
	// OnLogEntry allows callers to capture SDK log events.
	OnLogEntry func(ctx context.Context, entry LogEntry)
	// OnMetric records lightweight counters/histogram samples.
	OnMetric func(ctx context.Context, metric Metric)
}

// LogLevel encodes the severity for log hooks.
type LogLevel string

const (
	LogLevelDebug LogLevel = "debug"
	LogLevelInfo  LogLevel = "info"
	LogLevelWarn  LogLevel = "warn"
	LogLevelError LogLevel = "error"
)

// LogEntry captures structured log details for SDK consumers.
type LogEntry struct {
	Level   LogLevel
	Message string
	Fields  map[string]any
}

// Metric represents a single observability datapoint.
type Metric struct {
	Name   string
	Value  float64
	Labels map[string]string
}

// Metric names emitted by the SDK.
const (
	MetricHTTPLatency     = "sdk_http_request_latency_ms"
	MetricRefresh         = "session_refresh_total"
	MetricRetry           = "session_retry_total"
	MetricTerminated      = "session_terminated_total"
	MetricRefreshCoalesce = "session_refresh_coalesced_total"
)

// Log forwards an entry to OnLogEntry when set.
func (h Hooks) Log(ctx context.Context, level LogLevel, msg string, fields map[string]any) {
	if h.OnLogEntry == nil {
		return
	}
	h.OnLogEntry(ctx, LogEntry{Level: level, Message: msg, Fields: fields})
}

// Count records a metric datapoint when OnMetric is set.
func (h Hooks) Count(ctx context.Context, name string, value float64, labels map[string]string) {
	if h.OnMetric == nil {
		return
	}
	h.OnMetric(ctx, Metric{Name: name, Value: value, Labels: labels})
}

// Combine fans every callback out to all non-nil hooks in order.
func Combine(all ...Hooks) Hooks {
	var out Hooks
	for _, h := range all {
		if h.OnHTTPRequest != nil {
			prev := out.OnHTTPRequest
			out.OnHTTPRequest = func(ctx context.Context, req *http.Request) {
				if prev != nil {
					prev(ctx, req)
				}
				h.OnHTTPRequest(ctx, req)
			}
		}
		if h.OnHTTPResponse != nil {
			prev := out.OnHTTPResponse
			out.OnHTTPResponse = func(ctx context.Context, req *http.Request, resp *http.Response, err error, latency time.Duration) {
				if prev != nil {
					prev(ctx, req, resp, err, latency)
				}
				h.OnHTTPResponse(ctx, req, resp, err, latency)
			}
		}
		if h.OnLogEntry != nil {
			prev := out.OnLogEntry
			out.OnLogEntry = func(ctx context.Context, entry LogEntry) {
				if prev != nil {
					prev(ctx, entry)
				}
				h.OnLogEntry(ctx, entry)
			}
		}
		if h.OnMetric != nil {
			prev := out.OnMetric
			out.OnMetric = func(ctx context.Context, m Metric) {
				if prev != nil {
					prev(ctx, m)
				}
				h.OnMetric(ctx, m)
			}
		}
	}
	return out
}
