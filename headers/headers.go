// Package headers defines HTTP header constants used by the SDK.
package headers

const (
	// RequestID is the header for request correlation.
	// The SDK generates one per logical call; retries reuse it.
	RequestID = "X-Request-Id"

	// Authorization carries the bearer access token on protected calls.
	Authorization = "Authorization"

	// Traceparent propagates the W3C trace context of the caller's span.
	Traceparent = "Traceparent"

	// UserAgent identifies the SDK build.
	UserAgent = "User-Agent"
)
