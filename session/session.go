// Package session owns the access/refresh token lifecycle for the SDK.
//
// A Manager is the single source of truth for the signed-in session. It
// classifies outgoing requests as public or protected, attaches the bearer
// credential to protected ones, and transparently refreshes the access token
// when the API answers 401. Concurrent 401s share one refresh call. A failed
// refresh clears every stored copy of the session and notifies the
// OnTerminate callbacks so the application can send the user back to login.
//
// Transport wires a Manager into any http.Client:
//
//	mgr, _ := session.NewManager(session.Config{Auth: authClient, Persistent: fileStore})
//	httpClient := &http.Client{Transport: &session.Transport{Manager: mgr}}
package session

import (
	"time"

	"github.com/hirelane/hirelane/sdk/go/auth"
)

// StorageKey is the fixed name sessions are persisted under.
const StorageKey = "hirelane.session"

// Session is the signed-in credential pair plus what was learned about the user.
type Session struct {
	AccessToken  string `json:"access"`
	RefreshToken string `json:"refresh"`
	// ExpiresAt comes from the access token's exp claim. Zero means unknown.
	ExpiresAt time.Time  `json:"expires_at"`
	User      *auth.User `json:"user,omitempty"`
	// Remember selects the persistent storage scope over the ephemeral one.
	Remember bool `json:"remember"`
}

func newSession(tokens auth.TokenPair, remember bool) *Session {
	s := &Session{
		AccessToken:  tokens.Access,
		RefreshToken: tokens.Refresh,
		Remember:     remember,
	}
	if tokens.User != nil {
		u := *tokens.User
		s.User = &u
	}
	s.applyClaims()
	return s
}

func (s *Session) applyClaims() {
	claims, err := auth.ParseClaims(s.AccessToken)
	if err != nil {
		s.ExpiresAt = time.Time{}
		return
	}
	if claims.ExpiresAt != nil {
		s.ExpiresAt = claims.ExpiresAt.Time
	} else {
		s.ExpiresAt = time.Time{}
	}
	if s.User == nil && claims.Email != "" {
		s.User = &auth.User{
			Email:     claims.Email,
			FirstName: claims.FirstName,
			LastName:  claims.LastName,
			Role:      claims.Role,
		}
	}
}

// Expired reports whether the access token expires within skew of now.
// Tokens without a known expiry never count as expired.
func (s Session) Expired(now time.Time, skew time.Duration) bool {
	if s.ExpiresAt.IsZero() {
		return false
	}
	return !now.Add(skew).Before(s.ExpiresAt)
}

func (s *Session) clone() *Session {
	if s == nil {
		return nil
	}
	out := *s
	if s.User != nil {
		u := *s.User
		out.User = &u
	}
	return &out
}

// State is the observable lifecycle position of a Manager.
type State int

const (
	StateAnonymous State = iota
	StateAuthenticating
	StateAuthenticated
	StateRefreshPending
)

func (s State) String() string {
	switch s {
	case StateAnonymous:
		return "anonymous"
	case StateAuthenticating:
		return "authenticating"
	case StateAuthenticated:
		return "authenticated"
	case StateRefreshPending:
		return "refresh_pending"
	default:
		return "unknown"
	}
}
