package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/hirelane/hirelane/sdk/go/headers"
	"github.com/hirelane/hirelane/sdk/go/routes"
)

const defaultUserAgent = "HirelaneSDK/1"

// Config controls how the auth client talks to the API.
type Config struct {
	BaseURL    string
	HTTPClient *http.Client
	UserAgent  string
}

// Client issues login, refresh and logout requests. It talks to the network
// directly and never goes through the refreshing transport, so a failing
// refresh cannot recurse into another refresh.
type Client struct {
	baseURL    string
	httpClient *http.Client
	userAgent  string
}

// Credentials encapsulates email/password inputs for login.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// User is the profile summary returned alongside a fresh login.
type User struct {
	Email           string `json:"email"`
	FirstName       string `json:"first_name"`
	LastName        string `json:"last_name"`
	Role            string `json:"role"`
	IsEmailVerified bool   `json:"is_email_verified"`
}

// TokenPair mirrors the login and refresh response bodies. Refresh is empty
// when the server does not rotate refresh tokens.
type TokenPair struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh,omitempty"`
	User    *User  `json:"user_data,omitempty"`
}

// NewClient constructs a Client with sane defaults.
func NewClient(cfg Config) (*Client, error) {
	base := strings.TrimSpace(cfg.BaseURL)
	if base == "" {
		return nil, errors.New("sdk/auth: base url required")
	}
	client := cfg.HTTPClient
	if client == nil {
		client = http.DefaultClient
	}
	ua := cfg.UserAgent
	if ua == "" {
		ua = defaultUserAgent
	}
	return &Client{
		baseURL:    strings.TrimSuffix(base, "/"),
		httpClient: client,
		userAgent:  ua,
	}, nil
}

// Login exchanges user credentials for access/refresh tokens.
func (c *Client) Login(ctx context.Context, creds Credentials) (TokenPair, error) {
	if strings.TrimSpace(creds.Email) == "" || strings.TrimSpace(creds.Password) == "" {
		return TokenPair{}, errors.New("sdk/auth: email and password required")
	}
	tokens, err := c.post(ctx, routes.AuthLogin, "", creds)
	if err != nil {
		return TokenPair{}, classifyLoginError(err)
	}
	if tokens.Access == "" || tokens.Refresh == "" {
		return TokenPair{}, errors.New("sdk/auth: login response missing tokens")
	}
	return tokens, nil
}

// Refresh swaps a refresh token for a new access token.
func (c *Client) Refresh(ctx context.Context, refreshToken string) (TokenPair, error) {
	if strings.TrimSpace(refreshToken) == "" {
		return TokenPair{}, errors.New("sdk/auth: refresh token required")
	}
	tokens, err := c.post(ctx, routes.AuthTokenRefresh, "", map[string]string{"refresh": refreshToken})
	if err != nil {
		return TokenPair{}, err
	}
	if tokens.Access == "" {
		return TokenPair{}, errors.New("sdk/auth: refresh response missing access token")
	}
	return tokens, nil
}

// Logout asks the server to blacklist the refresh token. The endpoint is
// protected, so the current access token is sent along.
func (c *Client) Logout(ctx context.Context, accessToken, refreshToken string) error {
	if strings.TrimSpace(refreshToken) == "" {
		return errors.New("sdk/auth: refresh token required")
	}
	_, err := c.post(ctx, routes.AuthLogout, accessToken, map[string]string{"refresh": refreshToken})
	return err
}

func (c *Client) post(ctx context.Context, path, bearer string, payload any) (TokenPair, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return TokenPair{}, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(data))
	if err != nil {
		return TokenPair{}, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set(headers.UserAgent, c.userAgent)
	if bearer != "" {
		req.Header.Set(headers.Authorization, "Bearer "+bearer)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return TokenPair{}, NetworkError{Op: "POST " + path, Cause: err}
	}
	//nolint:errcheck // best-effort cleanup on return
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return TokenPair{}, NetworkError{Op: "read " + path, Cause: err}
	}
	if resp.StatusCode >= 400 {
		return TokenPair{}, Error{Status: resp.StatusCode, Message: messageFromBody(body), Body: string(body)}
	}

	var tokens TokenPair
	if len(bytes.TrimSpace(body)) == 0 {
		return tokens, nil
	}
	if err := json.Unmarshal(body, &tokens); err != nil {
		return TokenPair{}, err
	}
	return tokens, nil
}

func classifyLoginError(err error) error {
	var apiErr Error
	if !errors.As(err, &apiErr) {
		return err
	}
	switch apiErr.Status {
	case http.StatusBadRequest, http.StatusUnauthorized:
		apiErr.kind = ErrInvalidCredentials
	case http.StatusLocked:
		apiErr.kind = ErrAccountLocked
	case http.StatusTooManyRequests:
		apiErr.kind = ErrRateLimited
	}
	return apiErr
}
