package sdk

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"

	"github.com/hirelane/hirelane/sdk/go/session"
)

// APIError captures a non-2xx API response.
type APIError struct {
	Status    int
	Message   string
	RequestID string
	// Fields holds per-field validation messages, passed through verbatim.
	Fields []FieldError
	Body   string
}

// FieldError represents a validation failure for a single field.
// Non-field errors use the field name "non_field_errors".
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Error implements the error interface.
func (e APIError) Error() string {
	msg := e.Message
	if msg == "" && len(e.Fields) > 0 {
		parts := make([]string, 0, len(e.Fields))
		for _, f := range e.Fields {
			parts = append(parts, f.Field+": "+f.Message)
		}
		msg = strings.Join(parts, "; ")
	}
	if msg == "" {
		msg = http.StatusText(e.Status)
	}
	return fmt.Sprintf("sdk: http %d: %s", e.Status, msg)
}

// FieldMessages returns the messages reported for field.
func (e APIError) FieldMessages(field string) []string {
	var out []string
	for _, f := range e.Fields {
		if f.Field == field {
			out = append(out, f.Message)
		}
	}
	return out
}

// TransportError reports a failure to reach the API. It is never retried.
type TransportError struct {
	Op    string
	Cause error
}

func (e TransportError) Error() string {
	return fmt.Sprintf("sdk: %s: %v", e.Op, e.Cause)
}

func (e TransportError) Unwrap() error { return e.Cause }

// ConfigError reports an invalid client configuration or argument.
type ConfigError struct {
	Reason string
}

func (e ConfigError) Error() string { return "sdk: " + e.Reason }

// IsValidation reports whether err is a 400 response, typically carrying Fields.
func IsValidation(err error) bool { return hasStatus(err, http.StatusBadRequest) }

// IsUnauthorized reports whether err is a 401 that survived the refresh retry.
func IsUnauthorized(err error) bool { return hasStatus(err, http.StatusUnauthorized) }

// IsForbidden reports whether err is a 403 response.
func IsForbidden(err error) bool { return hasStatus(err, http.StatusForbidden) }

// IsNotFound reports whether err is a 404 response.
func IsNotFound(err error) bool { return hasStatus(err, http.StatusNotFound) }

// IsSessionTerminated reports whether the session was destroyed and the user
// has to sign in again.
func IsSessionTerminated(err error) bool {
	return errors.Is(err, session.ErrSessionTerminated)
}

func hasStatus(err error, status int) bool {
	var apiErr APIError
	if errors.As(err, &apiErr) {
		return apiErr.Status == status
	}
	return false
}

func decodeAPIError(resp *http.Response) APIError {
	data, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	apiErr := APIError{Status: resp.StatusCode, Body: string(data)}
	if len(data) == 0 {
		apiErr.Message = resp.Status
		return apiErr
	}

	var payload any
	if err := json.Unmarshal(data, &payload); err != nil {
		apiErr.Message = strings.TrimSpace(string(data))
		return apiErr
	}
	switch v := payload.(type) {
	case map[string]any:
		// {"detail": "..."} and {"error": "..."} carry a single message; any
		// other key is a field name.
		for _, key := range []string{"detail", "error", "message"} {
			if s, ok := v[key].(string); ok && s != "" {
				apiErr.Message = s
				delete(v, key)
				break
			}
		}
		apiErr.Fields = fieldErrors(v)
	case []any:
		apiErr.Fields = fieldErrors(map[string]any{"non_field_errors": v})
	case string:
		apiErr.Message = v
	}
	if apiErr.Message == "" && len(apiErr.Fields) == 0 {
		apiErr.Message = resp.Status
	}
	return apiErr
}

func fieldErrors(m map[string]any) []FieldError {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	var out []FieldError
	for _, field := range keys {
		switch v := m[field].(type) {
		case string:
			out = append(out, FieldError{Field: field, Message: v})
		case []any:
			for _, item := range v {
				if s, ok := item.(string); ok {
					out = append(out, FieldError{Field: field, Message: s})
				}
			}
		}
	}
	return out
}
