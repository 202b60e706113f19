package sdk

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/hirelane/hirelane/sdk/go/auth"
	"github.com/hirelane/hirelane/sdk/go/headers"
	"github.com/hirelane/hirelane/sdk/go/session"
	"github.com/hirelane/hirelane/sdk/go/telemetry"
)

const defaultBaseURL = "http://localhost:8000"

// Config wires the base URL, session storage and telemetry for the API client.
type Config struct {
	BaseURL    string
	HTTPClient *http.Client
	// Persistent stores "remember me" sessions (file or redis). Optional.
	Persistent session.Store
	// Ephemeral stores session-scoped sessions. Defaults to memory.
	Ephemeral session.Store
	// PublicRules replaces the default public endpoint set when non-empty.
	PublicRules []session.Rule
	Telemetry   telemetry.Hooks
	UserAgent   string
	// OnSessionTerminated runs after a failed refresh destroyed the session.
	OnSessionTerminated func(err error)
}

// Client provides high-level helpers for interacting with the recruitment API.
type Client struct {
	baseURL    string
	httpClient *http.Client
	session    *session.Manager
	telemetry  telemetry.Hooks
	userAgent  string

	// Grouped service clients.
	Auth         *AuthClient
	Jobs         *JobsClient
	Applications *ApplicationsClient
	Profiles     *ProfilesClient
	Calendar     *CalendarClient
}

// NewClient validates the configuration and returns a ready-to-use Client.
// The client starts anonymous; call Session().Restore to pick up a stored
// session or Auth.Login to sign in.
func NewClient(cfg Config) (*Client, error) {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	normalized, basePath, err := normalizeBaseURL(baseURL)
	if err != nil {
		return nil, err
	}
	raw := cfg.HTTPClient
	if raw == nil {
		raw = &http.Client{}
	}
	ua := cfg.UserAgent
	if ua == "" {
		ua = defaultUserAgent
	}

	authClient, err := auth.NewClient(auth.Config{
		BaseURL:    normalized,
		HTTPClient: raw,
		UserAgent:  ua,
	})
	if err != nil {
		return nil, ConfigError{Reason: err.Error()}
	}
	mgr, err := session.NewManager(session.Config{
		Auth:       authClient,
		Persistent: cfg.Persistent,
		Ephemeral:  cfg.Ephemeral,
		Classifier: session.NewClassifier(basePath, cfg.PublicRules...),
		Telemetry:  cfg.Telemetry,
	})
	if err != nil {
		return nil, ConfigError{Reason: err.Error()}
	}
	if cfg.OnSessionTerminated != nil {
		mgr.OnTerminate(cfg.OnSessionTerminated)
	}

	wrapped := &http.Client{
		Transport:     &session.Transport{Base: raw.Transport, Manager: mgr},
		CheckRedirect: raw.CheckRedirect,
		Jar:           raw.Jar,
		Timeout:       raw.Timeout,
	}
	client := &Client{
		baseURL:    normalized,
		httpClient: wrapped,
		session:    mgr,
		telemetry:  cfg.Telemetry,
		userAgent:  ua,
	}
	client.Auth = &AuthClient{client: client}
	client.Jobs = &JobsClient{client: client}
	client.Applications = &ApplicationsClient{client: client}
	client.Profiles = &ProfilesClient{client: client}
	client.Calendar = &CalendarClient{client: client}
	return client, nil
}

// Session exposes the session manager behind the client.
func (c *Client) Session() *session.Manager {
	return c.session
}

// HTTPClient returns the credential-injecting http.Client the service
// clients use. It is safe to share with code issuing its own API calls.
func (c *Client) HTTPClient() *http.Client {
	return c.httpClient
}

func normalizeBaseURL(raw string) (string, string, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", "", ConfigError{Reason: "base URL required"}
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return "", "", ConfigError{Reason: fmt.Sprintf("invalid base URL: %v", err)}
	}
	if u.Scheme == "" {
		return "", "", ConfigError{Reason: "base URL missing scheme (http/https)"}
	}
	if u.Host == "" {
		return "", "", ConfigError{Reason: "base URL missing host"}
	}
	u.Path = strings.TrimSuffix(u.Path, "/")
	return strings.TrimSuffix(u.String(), "/"), u.Path, nil
}

func (c *Client) newJSONRequest(ctx context.Context, method, path string, payload any) (*http.Request, error) {
	var body io.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			return nil, err
		}
		body = bytes.NewReader(encoded)
	}
	req, err := c.newRequest(ctx, method, path, body)
	if err != nil {
		return nil, err
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return req, nil
}

func (c *Client) newRequest(ctx context.Context, method, path string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.buildURL(path), body)
	if err != nil {
		return nil, err
	}
	if req.Header.Get("Accept") == "" {
		req.Header.Set("Accept", "application/json")
	}
	injectTraceparent(ctx, req)
	return req, nil
}

func (c *Client) prepare(req *http.Request) {
	if c.userAgent != "" {
		req.Header.Set(headers.UserAgent, c.userAgent)
	}
	if req.Header.Get(headers.RequestID) == "" {
		req.Header.Set(headers.RequestID, uuid.NewString())
	}
}

func (c *Client) send(req *http.Request) (*http.Response, error) {
	c.prepare(req)
	if c.telemetry.OnHTTPRequest != nil {
		c.telemetry.OnHTTPRequest(req.Context(), req)
	}
	c.telemetry.Log(req.Context(), telemetry.LogLevelDebug, "http_request", map[string]any{
		"method":     req.Method,
		"url":        req.URL.String(),
		"request_id": req.Header.Get(headers.RequestID),
	})
	start := time.Now()
	resp, err := c.httpClient.Do(req)
	latency := time.Since(start)
	if c.telemetry.OnHTTPResponse != nil {
		c.telemetry.OnHTTPResponse(req.Context(), req, resp, err, latency)
	}
	c.telemetry.Count(req.Context(), telemetry.MetricHTTPLatency, float64(latency.Milliseconds()), map[string]string{
		"path": req.URL.Path,
	})
	if err != nil {
		var terminated *session.TerminatedError
		if errors.As(err, &terminated) {
			return nil, terminated
		}
		if ctxErr := req.Context().Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, TransportError{Op: req.Method + " " + req.URL.Path, Cause: err}
	}
	if resp.StatusCode >= 400 {
		defer resp.Body.Close()
		apiErr := decodeAPIError(resp)
		apiErr.RequestID = req.Header.Get(headers.RequestID)
		return nil, apiErr
	}
	return resp, nil
}

// do sends req and decodes a JSON response body into out when out is non-nil.
func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.send(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if out == nil || resp.StatusCode == http.StatusNoContent {
		//nolint:errcheck // draining lets the connection be reused
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("sdk: decode %s %s: %w", req.Method, req.URL.Path, err)
	}
	return nil
}

func (c *Client) buildURL(path string) string {
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return c.baseURL + path
}

// resourcePath fills the {id} placeholder of a route template.
func resourcePath(template string, id int64) string {
	return strings.Replace(template, "{id}", fmt.Sprint(id), 1)
}
