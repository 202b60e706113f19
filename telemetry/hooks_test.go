package telemetry

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCombineCallsEveryHookInOrder(t *testing.T) {
	var order []string
	a := Hooks{OnMetric: func(ctx context.Context, m Metric) { order = append(order, "a:"+m.Name) }}
	b := Hooks{
		OnMetric:   func(ctx context.Context, m Metric) { order = append(order, "b:"+m.Name) },
		OnLogEntry: func(ctx context.Context, e LogEntry) { order = append(order, "b:log") },
	}

	h := Combine(a, Hooks{}, b)
	h.Count(context.Background(), MetricRetry, 1, nil)
	h.Log(context.Background(), LogLevelInfo, "hi", nil)

	assert.Equal(t, []string{"a:" + MetricRetry, "b:" + MetricRetry, "b:log"}, order)
}

func TestZeroHooksAreNoops(t *testing.T) {
	var h Hooks
	h.Log(context.Background(), LogLevelError, "ignored", nil)
	h.Count(context.Background(), MetricRefresh, 1, nil)
}

func TestZerologWritesLevelAndFields(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf)

	Zerolog(logger).Log(context.Background(), LogLevelWarn, "session_terminated", map[string]any{"reason": "refresh_failed"})

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "warn", line["level"])
	assert.Equal(t, "session_terminated", line["message"])
	assert.Equal(t, "refresh_failed", line["reason"])
}
