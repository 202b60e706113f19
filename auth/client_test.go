package auth

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func TestClientLogin(t *testing.T) {
	var captured struct {
		Path string
		Body map[string]string
		Ua   string
	}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured.Path = r.URL.Path
		captured.Ua = r.Header.Get("User-Agent")
		if err := json.NewDecoder(r.Body).Decode(&captured.Body); err != nil {
			t.Errorf("decode body: %v", err)
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"access":    "a1",
			"refresh":   "r1",
			"user_data": map[string]any{"email": "me@example.com", "role": "recruiter"},
		})
	}))
	defer server.Close()

	client, err := NewClient(Config{BaseURL: server.URL + "/"})
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	tokens, err := client.Login(context.Background(), Credentials{
		Email:    "me@example.com",
		Password: "secret",
	})
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if tokens.Access != "a1" || tokens.Refresh != "r1" {
		t.Fatalf("unexpected tokens: %+v", tokens)
	}
	if tokens.User == nil || tokens.User.Role != "recruiter" {
		t.Fatalf("expected user data, got %+v", tokens.User)
	}
	if captured.Path != "/auth/login/" {
		t.Fatalf("expected /auth/login/, got %s", captured.Path)
	}
	if captured.Body["email"] != "me@example.com" || captured.Body["password"] != "secret" {
		t.Fatalf("unexpected payload: %+v", captured.Body)
	}
	if !strings.Contains(captured.Ua, "HirelaneSDK") {
		t.Fatalf("expected default user agent, got %s", captured.Ua)
	}
}

func TestLoginClassifiesRejections(t *testing.T) {
	cases := []struct {
		status int
		want   error
	}{
		{http.StatusBadRequest, ErrInvalidCredentials},
		{http.StatusUnauthorized, ErrInvalidCredentials},
		{http.StatusLocked, ErrAccountLocked},
		{http.StatusTooManyRequests, ErrRateLimited},
	}
	for _, tc := range cases {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(tc.status)
			_, _ = w.Write([]byte(`{"error":"Invalid password!"}`))
		}))
		client, err := NewClient(Config{BaseURL: server.URL})
		if err != nil {
			t.Fatalf("new client: %v", err)
		}
		_, err = client.Login(context.Background(), Credentials{Email: "a@b.c", Password: "x"})
		server.Close()
		if !errors.Is(err, tc.want) {
			t.Fatalf("status %d: expected %v, got %v", tc.status, tc.want, err)
		}
		var apiErr Error
		if !errors.As(err, &apiErr) || apiErr.Message != "Invalid password!" {
			t.Fatalf("status %d: expected message from body, got %v", tc.status, err)
		}
	}
}

func TestLoginRequiresCredentials(t *testing.T) {
	client, err := NewClient(Config{BaseURL: "http://127.0.0.1:0"})
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	if _, err := client.Login(context.Background(), Credentials{Email: " "}); err == nil {
		t.Fatalf("expected validation error")
	}
}

func TestRefreshSendsRefreshToken(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/auth/token/refresh/" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		var body map[string]string
		_ = json.NewDecoder(r.Body).Decode(&body)
		if body["refresh"] != "r1" {
			t.Errorf("unexpected refresh %q", body["refresh"])
		}
		_, _ = w.Write([]byte(`{"access":"a2"}`))
	}))
	defer server.Close()

	client, err := NewClient(Config{BaseURL: server.URL})
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	tokens, err := client.Refresh(context.Background(), "r1")
	if err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if tokens.Access != "a2" || tokens.Refresh != "" {
		t.Fatalf("unexpected tokens %+v", tokens)
	}
}

func TestRefreshErrorPropagation(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"detail":"Token is invalid or expired"}`, http.StatusUnauthorized)
	}))
	defer server.Close()

	client, err := NewClient(Config{BaseURL: server.URL})
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	_, err = client.Refresh(context.Background(), "bad")
	if err == nil {
		t.Fatalf("expected error")
	}
	var apiErr Error
	if !(errors.As(err, &apiErr) && apiErr.Status == http.StatusUnauthorized) {
		t.Fatalf("expected Error, got %v", err)
	}
	if apiErr.Message != "Token is invalid or expired" {
		t.Fatalf("unexpected message %q", apiErr.Message)
	}
}

func TestRefreshNetworkError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	client, err := NewClient(Config{BaseURL: url})
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	_, err = client.Refresh(context.Background(), "r1")
	var netErr NetworkError
	if !errors.As(err, &netErr) {
		t.Fatalf("expected NetworkError, got %T %v", err, err)
	}
}

func TestLogoutSendsBearer(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer a1" {
			t.Errorf("expected bearer, got %q", got)
		}
		w.WriteHeader(http.StatusResetContent)
	}))
	defer server.Close()

	client, err := NewClient(Config{BaseURL: server.URL})
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	if err := client.Logout(context.Background(), "a1", "r1"); err != nil {
		t.Fatalf("logout: %v", err)
	}
}

func TestParseClaims(t *testing.T) {
	exp := time.Now().Add(5 * time.Minute).Truncate(time.Second)
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"token_type": "access",
		"user_id":    42,
		"email":      "rec@example.com",
		"role":       "recruiter",
		"exp":        exp.Unix(),
	})
	signed, err := token.SignedString([]byte("k"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	claims, err := ParseClaims(signed)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if id, ok := claims.UserID.Int(); !ok || id != 42 {
		t.Fatalf("unexpected user id %q", claims.UserID)
	}
	if claims.Role != "recruiter" || claims.Email != "rec@example.com" {
		t.Fatalf("unexpected claims %+v", claims)
	}
	if !ExpiresAt(signed).Equal(exp) {
		t.Fatalf("expected exp %v, got %v", exp, ExpiresAt(signed))
	}
	if !ExpiresAt("a1").IsZero() {
		t.Fatalf("expected zero expiry for opaque token")
	}
}
