package session

import (
	"context"
	"errors"
	"time"

	"github.com/hirelane/hirelane/sdk/go/telemetry"
)

// DefaultKeepAliveInterval sits well inside the backend's access-token lifetime.
const DefaultKeepAliveInterval = 4 * time.Minute

// KeepAlive refreshes the access token every interval while a session is
// present, so expiry during active use is rare rather than exceptional. It
// blocks until ctx is done and returns ctx.Err(), or returns the
// *TerminatedError when one of its refreshes ends the session.
func (m *Manager) KeepAlive(ctx context.Context, interval time.Duration) error {
	if interval <= 0 {
		interval = DefaultKeepAliveInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if m.State() != StateAuthenticated {
				continue
			}
			_, err := m.Refresh(ctx)
			switch {
			case err == nil, errors.Is(err, context.Canceled):
			case errors.Is(err, ErrSessionTerminated):
				return err
			default:
				m.hooks.Log(ctx, telemetry.LogLevelWarn, "session_keepalive_failed", map[string]any{"error": err.Error()})
			}
		}
	}
}
