package metrics

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"github.com/hirelane/hirelane/sdk/go/telemetry"
)

func TestHooksFeedCollectors(t *testing.T) {
	m := New(prometheus.NewRegistry())
	h := m.Hooks()
	ctx := context.Background()

	h.Count(ctx, telemetry.MetricRefresh, 1, map[string]string{"outcome": "success"})
	h.Count(ctx, telemetry.MetricRefresh, 1, map[string]string{"outcome": "failure"})
	h.Count(ctx, telemetry.MetricRefresh, 1, nil)
	h.Count(ctx, telemetry.MetricRetry, 1, nil)
	h.Count(ctx, telemetry.MetricRefreshCoalesce, 3, nil)
	h.Count(ctx, telemetry.MetricTerminated, 1, nil)
	h.Count(ctx, "something_else", 1, nil)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.Refreshes.WithLabelValues("success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Refreshes.WithLabelValues("failure")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Refreshes.WithLabelValues("unknown")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Retries))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.CoalescedRefreshes))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.SessionsTerminated))
}

func TestResponseHookCountsByStatusClass(t *testing.T) {
	m := New(prometheus.NewRegistry())
	h := m.Hooks()
	req, _ := http.NewRequest(http.MethodGet, "http://example.test/access/jobs/", nil)

	h.OnHTTPResponse(context.Background(), req, &http.Response{StatusCode: 200}, nil, 10*time.Millisecond)
	h.OnHTTPResponse(context.Background(), req, &http.Response{StatusCode: 401}, nil, 10*time.Millisecond)
	h.OnHTTPResponse(context.Background(), req, nil, errors.New("dial"), time.Millisecond)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.HTTPRequests.WithLabelValues("GET", "2xx")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.HTTPRequests.WithLabelValues("GET", "4xx")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.HTTPRequests.WithLabelValues("GET", "error")))
	assert.Equal(t, 1, testutil.CollectAndCount(m.HTTPLatency))
}
