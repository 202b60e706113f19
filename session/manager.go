package session

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/hirelane/hirelane/sdk/go/auth"
	"github.com/hirelane/hirelane/sdk/go/headers"
	"github.com/hirelane/hirelane/sdk/go/telemetry"
)

const refreshFlightKey = "refresh"

// Authenticator is the remote side of the session: the credential endpoints.
// *auth.Client implements it.
type Authenticator interface {
	Login(ctx context.Context, creds auth.Credentials) (auth.TokenPair, error)
	Refresh(ctx context.Context, refreshToken string) (auth.TokenPair, error)
	Logout(ctx context.Context, accessToken, refreshToken string) error
}

// Config wires a Manager.
type Config struct {
	Auth Authenticator
	// Persistent holds "remember me" sessions. Optional.
	Persistent Store
	// Ephemeral holds session-scoped sessions. Defaults to a MemoryStore.
	Ephemeral Store
	// Classifier decides which requests are public. Defaults to DefaultRules.
	Classifier *Classifier
	Telemetry  telemetry.Hooks
	// Now is overridable for tests.
	Now func() time.Time
}

// Manager owns the session. All methods are safe for concurrent use.
type Manager struct {
	auth       Authenticator
	persistent Store
	ephemeral  Store
	classifier *Classifier
	hooks      telemetry.Hooks
	now        func() time.Time

	// writeMu serializes commits (memory + stores) so readers never see a
	// half-written session and stores never diverge from memory.
	writeMu sync.Mutex

	mu      sync.RWMutex
	current *Session
	state   State
	// gen changes whenever the owning session is replaced or destroyed; a
	// refresh started under an older gen must not commit.
	gen uint64

	flight singleflight.Group

	termMu      sync.Mutex
	onTerminate []func(error)
}

// NewManager validates cfg and returns an anonymous Manager. Call Restore to
// pick up a persisted session.
func NewManager(cfg Config) (*Manager, error) {
	if cfg.Auth == nil {
		return nil, errors.New("session: authenticator required")
	}
	ephemeral := cfg.Ephemeral
	if ephemeral == nil {
		ephemeral = NewMemoryStore()
	}
	classifier := cfg.Classifier
	if classifier == nil {
		classifier = NewClassifier("")
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	return &Manager{
		auth:       cfg.Auth,
		persistent: cfg.Persistent,
		ephemeral:  ephemeral,
		classifier: classifier,
		hooks:      cfg.Telemetry,
		now:        now,
		state:      StateAnonymous,
	}, nil
}

// Classify reports whether a request needs a credential.
func (m *Manager) Classify(method, path string) Visibility {
	return m.classifier.Classify(method, path)
}

// State returns the current lifecycle state.
func (m *Manager) State() State {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state
}

// Current returns a copy of the signed-in session, or nil when anonymous.
func (m *Manager) Current() *Session {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current.clone()
}

// AccessToken returns the current access token, or "" when anonymous.
func (m *Manager) AccessToken() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.current == nil {
		return ""
	}
	return m.current.AccessToken
}

// OnTerminate registers fn to run after a failed refresh destroyed the
// session. It runs synchronously on the goroutine that observed the failure.
func (m *Manager) OnTerminate(fn func(err error)) {
	if fn == nil {
		return
	}
	m.termMu.Lock()
	defer m.termMu.Unlock()
	m.onTerminate = append(m.onTerminate, fn)
}

// Attach sets the bearer credential on protected requests and returns the
// token it attached. Public requests are left untouched.
func (m *Manager) Attach(req *http.Request) (string, bool) {
	if m.Classify(req.Method, req.URL.Path) == Public {
		return "", false
	}
	token := m.AccessToken()
	if token != "" {
		req.Header.Set(headers.Authorization, "Bearer "+token)
	}
	return token, true
}

// Restore loads a persisted session, checking the persistent scope before
// the ephemeral one. It reports whether a session was found.
func (m *Manager) Restore(ctx context.Context) (bool, error) {
	stored, err := m.loadStored(ctx)
	if err != nil {
		return false, err
	}
	if stored == nil {
		return false, nil
	}
	stored.applyClaims()

	m.writeMu.Lock()
	defer m.writeMu.Unlock()
	m.mu.Lock()
	m.gen++
	m.current = stored
	m.state = StateAuthenticated
	m.mu.Unlock()
	m.hooks.Log(ctx, telemetry.LogLevelDebug, "session_restored", map[string]any{"remember": stored.Remember})
	return true, nil
}

// Login exchanges credentials for a new session and persists it in the
// scope selected by remember.
func (m *Manager) Login(ctx context.Context, creds auth.Credentials, remember bool) (*Session, error) {
	m.mu.Lock()
	m.state = StateAuthenticating
	m.mu.Unlock()

	tokens, err := m.auth.Login(ctx, creds)
	if err != nil {
		m.mu.Lock()
		if m.state == StateAuthenticating {
			m.state = m.steadyStateLocked()
		}
		m.mu.Unlock()
		m.hooks.Log(ctx, telemetry.LogLevelWarn, "session_login_failed", map[string]any{"error": err.Error()})
		return nil, err
	}

	s := newSession(tokens, remember)
	m.writeMu.Lock()
	defer m.writeMu.Unlock()
	m.mu.Lock()
	m.gen++
	m.current = s
	m.state = StateAuthenticated
	m.mu.Unlock()

	if err := m.persist(ctx, s); err != nil {
		return s.clone(), fmt.Errorf("session: persist login: %w", err)
	}
	m.hooks.Log(ctx, telemetry.LogLevelInfo, "session_login", map[string]any{"remember": remember})
	return s.clone(), nil
}

// Logout destroys the session locally and asks the server to revoke the
// refresh token. Revocation is best-effort; Logout is idempotent.
func (m *Manager) Logout(ctx context.Context) error {
	old, err := m.drop(ctx)
	if old != nil && old.RefreshToken != "" {
		if revokeErr := m.auth.Logout(ctx, old.AccessToken, old.RefreshToken); revokeErr != nil {
			m.hooks.Log(ctx, telemetry.LogLevelDebug, "session_revoke_failed", map[string]any{"error": revokeErr.Error()})
		}
	}
	if old != nil {
		m.hooks.Log(ctx, telemetry.LogLevelInfo, "session_logout", nil)
	}
	return err
}

// Discard destroys the session locally without contacting the server, for
// example after the account itself was deleted.
func (m *Manager) Discard(ctx context.Context) error {
	_, err := m.drop(ctx)
	return err
}

func (m *Manager) drop(ctx context.Context) (*Session, error) {
	m.writeMu.Lock()
	defer m.writeMu.Unlock()
	m.mu.Lock()
	old := m.current
	m.gen++
	m.current = nil
	m.state = StateAnonymous
	m.mu.Unlock()
	return old, m.clearStores(ctx)
}

// HandleUnauthorized recovers from a 401 on a protected request sent with
// failedToken. It returns the access token to resubmit with. When another
// caller already rotated the token it is returned without a network call;
// otherwise one coalesced refresh runs. A terminal failure returns a
// *TerminatedError after the session has been destroyed.
func (m *Manager) HandleUnauthorized(ctx context.Context, failedToken string) (string, error) {
	m.mu.RLock()
	cur := m.current
	m.mu.RUnlock()
	if cur != nil && cur.AccessToken != "" && cur.AccessToken != failedToken {
		return cur.AccessToken, nil
	}
	return m.refresh(ctx)
}

// Refresh proactively swaps the refresh token for a new access token. It
// shares an in-flight refresh if there is one.
func (m *Manager) Refresh(ctx context.Context) (*Session, error) {
	if m.Current() == nil {
		return nil, ErrNoSession
	}
	if _, err := m.refresh(ctx); err != nil {
		return nil, err
	}
	s := m.Current()
	if s == nil {
		return nil, ErrNoSession
	}
	return s, nil
}

func (m *Manager) refresh(ctx context.Context) (string, error) {
	// The shared flight must not die with whichever caller started it.
	flightCtx := context.WithoutCancel(ctx)
	ch := m.flight.DoChan(refreshFlightKey, func() (any, error) {
		return m.doRefresh(flightCtx)
	})
	select {
	case res := <-ch:
		if res.Shared {
			m.hooks.Count(ctx, telemetry.MetricRefreshCoalesce, 1, nil)
		}
		if res.Err != nil {
			return "", res.Err
		}
		return res.Val.(string), nil
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

func (m *Manager) doRefresh(ctx context.Context) (string, error) {
	m.mu.Lock()
	cur := m.current.clone()
	gen := m.gen
	if cur != nil {
		m.state = StateRefreshPending
	}
	m.mu.Unlock()

	if cur == nil {
		stored, err := m.loadStored(ctx)
		if err != nil {
			m.hooks.Log(ctx, telemetry.LogLevelWarn, "session_load_failed", map[string]any{"error": err.Error()})
		}
		cur = stored
	}
	if cur == nil {
		// Nothing to destroy: either never signed in, or a sibling request
		// already ended this session.
		m.hooks.Count(ctx, telemetry.MetricRefresh, 1, map[string]string{"outcome": "missing"})
		return "", &TerminatedError{Cause: ErrNoRefreshToken}
	}
	if strings.TrimSpace(cur.RefreshToken) == "" {
		m.hooks.Count(ctx, telemetry.MetricRefresh, 1, map[string]string{"outcome": "missing"})
		return "", m.terminate(ctx, gen, ErrNoRefreshToken)
	}

	tokens, err := m.auth.Refresh(ctx, cur.RefreshToken)
	if err != nil {
		m.hooks.Count(ctx, telemetry.MetricRefresh, 1, map[string]string{"outcome": "failure"})
		return "", m.terminate(ctx, gen, err)
	}
	m.hooks.Count(ctx, telemetry.MetricRefresh, 1, map[string]string{"outcome": "success"})

	next := cur.clone()
	next.AccessToken = tokens.Access
	if tokens.Refresh != "" {
		next.RefreshToken = tokens.Refresh
	}
	next.applyClaims()
	return m.commitRefresh(ctx, gen, next)
}

func (m *Manager) commitRefresh(ctx context.Context, gen uint64, next *Session) (string, error) {
	m.writeMu.Lock()
	defer m.writeMu.Unlock()
	m.mu.Lock()
	if gen != m.gen {
		// Logged out or replaced while the refresh was in flight.
		replaced := m.current
		m.mu.Unlock()
		if replaced == nil {
			return "", ErrNoSession
		}
		return replaced.AccessToken, nil
	}
	m.current = next
	m.state = StateAuthenticated
	m.mu.Unlock()

	if err := m.persist(ctx, next); err != nil {
		// Memory stays authoritative; the next write retries persistence.
		m.hooks.Log(ctx, telemetry.LogLevelError, "session_persist_failed", map[string]any{"error": err.Error()})
	}
	m.hooks.Log(ctx, telemetry.LogLevelDebug, "session_refreshed", nil)
	return next.AccessToken, nil
}

// terminate destroys the session unless it was replaced since gen, then
// fires the OnTerminate callbacks.
func (m *Manager) terminate(ctx context.Context, gen uint64, cause error) error {
	termErr := &TerminatedError{Cause: cause}

	m.writeMu.Lock()
	m.mu.Lock()
	if gen != m.gen {
		m.state = m.steadyStateLocked()
		m.mu.Unlock()
		m.writeMu.Unlock()
		return termErr
	}
	m.gen++
	m.current = nil
	m.state = StateAnonymous
	m.mu.Unlock()
	if err := m.clearStores(ctx); err != nil {
		m.hooks.Log(ctx, telemetry.LogLevelError, "session_clear_failed", map[string]any{"error": err.Error()})
	}
	m.writeMu.Unlock()

	m.hooks.Count(ctx, telemetry.MetricTerminated, 1, nil)
	m.hooks.Log(ctx, telemetry.LogLevelWarn, "session_terminated", map[string]any{"cause": cause.Error()})

	m.termMu.Lock()
	callbacks := append([]func(error){}, m.onTerminate...)
	m.termMu.Unlock()
	for _, fn := range callbacks {
		fn(termErr)
	}
	return termErr
}

func (m *Manager) steadyStateLocked() State {
	if m.current != nil {
		return StateAuthenticated
	}
	return StateAnonymous
}

func (m *Manager) loadStored(ctx context.Context) (*Session, error) {
	var errs []error
	for _, st := range []Store{m.persistent, m.ephemeral} {
		if st == nil {
			continue
		}
		s, err := st.Load(ctx)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if s != nil {
			return s, nil
		}
	}
	return nil, errors.Join(errs...)
}

// persist writes s to exactly one scope and clears the other. Callers hold writeMu.
func (m *Manager) persist(ctx context.Context, s *Session) error {
	target, other := m.ephemeral, m.persistent
	if s.Remember && m.persistent != nil {
		target, other = m.persistent, m.ephemeral
	}
	if err := target.Save(ctx, *s); err != nil {
		return err
	}
	if other != nil {
		return other.Clear(ctx)
	}
	return nil
}

func (m *Manager) clearStores(ctx context.Context) error {
	var errs []error
	for _, st := range []Store{m.persistent, m.ephemeral} {
		if st == nil {
			continue
		}
		if err := st.Clear(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
