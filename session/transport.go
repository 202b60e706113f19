package session

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/hirelane/hirelane/sdk/go/headers"
	"github.com/hirelane/hirelane/sdk/go/telemetry"
)

type retriedKey struct{}

// WithRetried marks ctx as belonging to a request that was already
// resubmitted after a refresh. Transports never retry such requests again.
func WithRetried(ctx context.Context) context.Context {
	return context.WithValue(ctx, retriedKey{}, true)
}

// IsRetried reports whether ctx carries the retried mark.
func IsRetried(ctx context.Context) bool {
	v, _ := ctx.Value(retriedKey{}).(bool)
	return v
}

// Transport attaches session credentials to protected requests and, on a
// 401, refreshes once and resubmits once. A second 401 is returned to the
// caller as-is.
type Transport struct {
	// Base performs the actual round trips. Defaults to http.DefaultTransport.
	Base    http.RoundTripper
	Manager *Manager
}

func (t *Transport) base() http.RoundTripper {
	if t.Base != nil {
		return t.Base
	}
	return http.DefaultTransport
}

// RoundTrip implements http.RoundTripper.
func (t *Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	if t.Manager == nil {
		return nil, errors.New("session: transport has no manager")
	}
	if t.Manager.Classify(req.Method, req.URL.Path) == Public {
		return t.base().RoundTrip(req)
	}

	replay, err := replayableBody(req)
	if err != nil {
		return nil, err
	}

	first := req.Clone(req.Context())
	if replay != nil {
		if first.Body, err = replay(); err != nil {
			return nil, err
		}
	}
	first.Header.Del(headers.Authorization)
	sentToken, _ := t.Manager.Attach(first)

	resp, err := t.base().RoundTrip(first)
	if err != nil || resp.StatusCode != http.StatusUnauthorized || IsRetried(req.Context()) {
		return resp, err
	}
	drainAndClose(resp)

	token, err := t.Manager.HandleUnauthorized(req.Context(), sentToken)
	if err != nil {
		return nil, err
	}

	retry := req.Clone(WithRetried(req.Context()))
	if replay != nil {
		if retry.Body, err = replay(); err != nil {
			return nil, err
		}
	}
	retry.Header.Set(headers.Authorization, "Bearer "+token)
	t.Manager.hooks.Count(req.Context(), telemetry.MetricRetry, 1, nil)
	return t.base().RoundTrip(retry)
}

// replayableBody returns a factory yielding fresh copies of the request body,
// or nil when there is no body. The original body is consumed and closed.
func replayableBody(req *http.Request) (func() (io.ReadCloser, error), error) {
	if req.Body == nil || req.Body == http.NoBody {
		return nil, nil
	}
	data, err := io.ReadAll(req.Body)
	//nolint:errcheck // the body is fully buffered; close errors carry no data
	_ = req.Body.Close()
	if err != nil {
		return nil, err
	}
	return func() (io.ReadCloser, error) {
		return io.NopCloser(bytes.NewReader(data)), nil
	}, nil
}

func drainAndClose(resp *http.Response) {
	if resp == nil || resp.Body == nil {
		return
	}
	//nolint:errcheck // draining lets the connection be reused
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))
	_ = resp.Body.Close()
}
