package auth

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInvalidCredentials is returned when the server rejects an email/password pair.
	ErrInvalidCredentials = errors.New("sdk/auth: invalid credentials")
	// ErrAccountLocked is returned when too many failed attempts locked the account.
	ErrAccountLocked = errors.New("sdk/auth: account locked")
	// ErrRateLimited is returned when the server throttles login attempts.
	ErrRateLimited = errors.New("sdk/auth: rate limited")
)

// Error conveys HTTP failures from the auth endpoints.
type Error struct {
	Status  int
	Message string
	Body    string

	kind error
}

func (e Error) Error() string {
	msg := e.Message
	if msg == "" {
		msg = strings.TrimSpace(e.Body)
	}
	return fmt.Sprintf("sdk/auth: http %d: %s", e.Status, msg)
}

// Unwrap exposes the classified sentinel (e.g. ErrInvalidCredentials), if any.
func (e Error) Unwrap() error { return e.kind }

// NetworkError reports a transport failure talking to the auth endpoints.
type NetworkError struct {
	Op    string
	Cause error
}

func (e NetworkError) Error() string {
	return fmt.Sprintf("sdk/auth: %s: %v", e.Op, e.Cause)
}

func (e NetworkError) Unwrap() error { return e.Cause }

// messageFromBody pulls the human-readable message out of the backend's
// {"detail": ...} or {"error": ...} envelopes.
func messageFromBody(body []byte) string {
	var payload struct {
		Detail string `json:"detail"`
		Error  string `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return ""
	}
	if payload.Detail != "" {
		return payload.Detail
	}
	return payload.Error
}
