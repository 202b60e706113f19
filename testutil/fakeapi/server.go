// Package fakeapi is an in-memory implementation of the recruitment API
// contract for tests and examples. It issues HS256 JWTs and exposes knobs
// to expire access tokens, fail refreshes and count credential calls.
package fakeapi

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

const (
	defaultAccessTTL  = 5 * time.Minute
	defaultPageSize   = 10
	defaultSigningKey = "fakeapi-signing-key"
	maxFailedLogins   = 5
)

// Config tunes the fake.
type Config struct {
	// BasePath mounts the API below a prefix such as "/api".
	BasePath   string
	AccessTTL  time.Duration
	SigningKey string
	PageSize   int
	// RotateRefresh issues a new refresh token on every refresh and
	// revokes the old one.
	RotateRefresh bool
	Now           func() time.Time
}

// API holds the fake's state. All methods are safe for concurrent use.
type API struct {
	cfg Config
	key []byte

	mu           sync.Mutex
	nextID       int64
	users        map[string]*user
	access       map[string]int64
	refresh      map[string]int64
	jobs         map[int64]*job
	applications map[int64]*application
	seekers      map[int64]*seekerProfile
	recruiters   map[int64]*recruiterProfile
	events       map[int64]*event
	otps         map[string]string
	lastHeaders  http.Header

	failRefresh  atomic.Bool
	refreshDelay atomic.Int64

	loginCalls   atomic.Int64
	refreshCalls atomic.Int64
	logoutCalls  atomic.Int64
	unauthorized atomic.Int64
}

// New returns an empty API.
func New(cfg Config) *API {
	if cfg.AccessTTL <= 0 {
		cfg.AccessTTL = defaultAccessTTL
	}
	if cfg.SigningKey == "" {
		cfg.SigningKey = defaultSigningKey
	}
	if cfg.PageSize <= 0 {
		cfg.PageSize = defaultPageSize
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	cfg.BasePath = strings.TrimSuffix(cfg.BasePath, "/")
	return &API{
		cfg:          cfg,
		key:          []byte(cfg.SigningKey),
		users:        map[string]*user{},
		access:       map[string]int64{},
		refresh:      map[string]int64{},
		jobs:         map[int64]*job{},
		applications: map[int64]*application{},
		seekers:      map[int64]*seekerProfile{},
		recruiters:   map[int64]*recruiterProfile{},
		events:       map[int64]*event{},
		otps:         map[string]string{},
	}
}

// NewServer starts an httptest server for a new API. Callers close it.
func NewServer(cfg Config) (*API, *httptest.Server) {
	api := New(cfg)
	return api, httptest.NewServer(api.Handler())
}

// Handler returns the chi router serving the contract.
func (a *API) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(a.recordHeaders)

	r.Route("/auth", func(r chi.Router) {
		r.Post("/register/", a.handleRegister)
		r.Post("/login/", a.handleLogin)
		r.Post("/token/refresh/", a.handleRefresh)
		r.Post("/otp/request/", a.handleOTPRequest)
		r.Post("/otp/verify/", a.handleOTPVerify)
		r.Post("/password/reset/", a.handlePasswordReset)
		r.Group(func(r chi.Router) {
			r.Use(a.requireAuth)
			r.Post("/logout/", a.handleLogout)
			r.Put("/update/", a.handleUpdateUser)
			r.Delete("/delete/", a.handleDeleteUser)
		})
	})

	r.Route("/access", func(r chi.Router) {
		r.Get("/jobs/", a.handleListJobs)
		r.Get("/jobs/statistics/", a.handleJobStatistics)
		r.Get("/jobs/{id}/", a.handleGetJob)
		r.Group(func(r chi.Router) {
			r.Use(a.requireAuth)
			r.Post("/jobs/", a.handleCreateJob)
			r.Get("/jobs/dashboard_stats/", a.handleDashboardStats)
			r.Put("/jobs/{id}/", a.handleUpdateJob)
			r.Patch("/jobs/{id}/", a.handleUpdateJob)
			r.Delete("/jobs/{id}/", a.handleDeleteJob)

			r.Get("/applications/", a.handleListApplications)
			r.Post("/applications/", a.handleApply)
			r.Get("/applications/{id}/", a.handleGetApplication)
			r.Put("/applications/{id}/", a.handleUpdateApplication)
			r.Patch("/applications/{id}/", a.handleUpdateApplication)
			r.Delete("/applications/{id}/", a.handleDeleteApplication)

			r.Get("/job-seeker-profile/", a.handleGetSeekerProfile)
			r.Post("/job-seeker-profile/", a.handleSaveSeekerProfile)
			r.Put("/job-seeker-profile/{id}/", a.handleSaveSeekerProfile)
			r.Patch("/job-seeker-profile/{id}/", a.handleSaveSeekerProfile)

			r.Get("/recruiter-profile/", a.handleGetRecruiterProfile)
			r.Post("/recruiter-profile/", a.handleSaveRecruiterProfile)
			r.Put("/recruiter-profile/{id}/", a.handleSaveRecruiterProfile)
			r.Patch("/recruiter-profile/{id}/", a.handleSaveRecruiterProfile)

			r.Get("/calendar/", a.handleListEvents)
			r.Post("/calendar/", a.handleCreateEvent)
			r.Get("/calendar/upcoming/", a.handleUpcomingEvents)
			r.Get("/calendar/{id}/", a.handleGetEvent)
			r.Put("/calendar/{id}/", a.handleUpdateEvent)
			r.Patch("/calendar/{id}/", a.handleUpdateEvent)
			r.Delete("/calendar/{id}/", a.handleDeleteEvent)
		})
	})

	if a.cfg.BasePath == "" {
		return r
	}
	root := chi.NewRouter()
	root.Mount(a.cfg.BasePath, r)
	return root
}

// ExpireAccessTokens invalidates every access token issued so far, as if
// they had all reached their expiry. Refresh tokens stay valid.
func (a *API) ExpireAccessTokens() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.access = map[string]int64{}
}

// RevokeRefreshTokens invalidates every refresh token issued so far.
func (a *API) RevokeRefreshTokens() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.refresh = map[string]int64{}
}

// FailRefresh makes the refresh endpoint reject every token while on.
func (a *API) FailRefresh(on bool) { a.failRefresh.Store(on) }

// SetRefreshDelay delays refresh responses, widening the window in which
// concurrent requests pile up behind one refresh.
func (a *API) SetRefreshDelay(d time.Duration) { a.refreshDelay.Store(int64(d)) }

// LoginCalls returns how many login requests were served.
func (a *API) LoginCalls() int64 { return a.loginCalls.Load() }

// RefreshCalls returns how many refresh requests were served.
func (a *API) RefreshCalls() int64 { return a.refreshCalls.Load() }

// LogoutCalls returns how many logout requests were served.
func (a *API) LogoutCalls() int64 { return a.logoutCalls.Load() }

// UnauthorizedResponses returns how many 401s protected routes answered.
func (a *API) UnauthorizedResponses() int64 { return a.unauthorized.Load() }

// LastHeaders returns the headers of the most recent request.
func (a *API) LastHeaders() http.Header {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.lastHeaders.Clone()
}

func (a *API) recordHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		a.mu.Lock()
		a.lastHeaders = r.Header.Clone()
		a.mu.Unlock()
		next.ServeHTTP(w, r)
	})
}

func (a *API) now() time.Time { return a.cfg.Now() }

// id returns the next identifier. Callers hold a.mu.
func (a *API) id() int64 {
	a.nextID++
	return a.nextID
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v == nil {
		return
	}
	//nolint:errcheck // the client may have gone away
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func writeDetail(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"detail": msg})
}

// writeFieldErrors answers 400 with DRF's {"field": ["message"]} shape.
func writeFieldErrors(w http.ResponseWriter, fields map[string]string) {
	out := make(map[string][]string, len(fields))
	for k, v := range fields {
		out[k] = []string{v}
	}
	writeJSON(w, http.StatusBadRequest, out)
}
