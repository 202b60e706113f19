package fakeapi

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand/v2"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

type user struct {
	ID           int64
	Email        string
	Password     string
	FirstName    string
	LastName     string
	Role         string
	Verified     bool
	FailedLogins int
}

func (u *user) data() map[string]any {
	return map[string]any{
		"email":             u.Email,
		"first_name":        u.FirstName,
		"last_name":         u.LastName,
		"role":              u.Role,
		"is_email_verified": u.Verified,
	}
}

// User seeds an account.
type User struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
	// Role is "job_seeker" or "recruiter".
	Role string
	// Unverified accounts can log in but are flagged in user_data.
	Unverified bool
}

// AddUser seeds an account and returns its id. A recruiter also gets a
// recruiter profile so it can post jobs straight away.
func (a *API) AddUser(u User) int64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	if u.Role == "" {
		u.Role = "job_seeker"
	}
	acct := &user{
		ID:        a.id(),
		Email:     strings.ToLower(u.Email),
		Password:  u.Password,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Role:      u.Role,
		Verified:  !u.Unverified,
	}
	a.users[acct.Email] = acct
	if acct.Role == "recruiter" {
		id := a.id()
		now := a.now()
		a.recruiters[id] = &recruiterProfile{
			ID:          id,
			User:        acct.ID,
			CompanyName: acct.FirstName + " Inc",
			CreatedAt:   now,
			UpdatedAt:   now,
		}
	}
	return acct.ID
}

// IssueTokens signs an access/refresh pair for a seeded user, bypassing login.
func (a *API) IssueTokens(email string) (access, refresh string, err error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	u, ok := a.users[strings.ToLower(email)]
	if !ok {
		return "", "", fmt.Errorf("fakeapi: unknown user %s", email)
	}
	return a.issueLocked(u, true)
}

type tokenClaims struct {
	TokenType string `json:"token_type"`
	UserID    int64  `json:"user_id"`
	Email     string `json:"email,omitempty"`
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
	Role      string `json:"role,omitempty"`
	jwt.RegisteredClaims
}

// issueLocked signs a new access token and, when withRefresh is set, a new
// refresh token. Callers hold a.mu.
func (a *API) issueLocked(u *user, withRefresh bool) (string, string, error) {
	now := a.now()
	access, err := a.sign(tokenClaims{
		TokenType: "access",
		UserID:    u.ID,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Role:      u.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(a.cfg.AccessTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
			ID:        uuid.NewString(),
		},
	})
	if err != nil {
		return "", "", err
	}
	a.access[access] = u.ID
	if !withRefresh {
		return access, "", nil
	}
	refresh, err := a.sign(tokenClaims{
		TokenType: "refresh",
		UserID:    u.ID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(7 * 24 * time.Hour)),
			IssuedAt:  jwt.NewNumericDate(now),
			ID:        uuid.NewString(),
		},
	})
	if err != nil {
		return "", "", err
	}
	a.refresh[refresh] = u.ID
	return access, refresh, nil
}

func (a *API) sign(claims tokenClaims) (string, error) {
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(a.key)
}

func (a *API) verify(token string) bool {
	parsed, err := jwt.ParseWithClaims(token, &tokenClaims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrTokenUnverifiable
		}
		return a.key, nil
	}, jwt.WithTimeFunc(a.now))
	return err == nil && parsed.Valid
}

type userKey struct{}

func currentUser(ctx context.Context) *user {
	u, _ := ctx.Value(userKey{}).(*user)
	return u
}

// requireAuth answers 401 unless the bearer token is a live access token.
func (a *API) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
		if !ok || token == "" {
			a.unauthorized.Add(1)
			writeDetail(w, http.StatusUnauthorized, "Authentication credentials were not provided.")
			return
		}
		a.mu.Lock()
		uid, live := a.access[token]
		var u *user
		for _, candidate := range a.users {
			if candidate.ID == uid {
				u = candidate
				break
			}
		}
		a.mu.Unlock()
		if !live || u == nil || !a.verify(token) {
			a.unauthorized.Add(1)
			writeJSON(w, http.StatusUnauthorized, map[string]string{
				"detail": "Given token not valid for any token type",
				"code":   "token_not_valid",
			})
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), userKey{}, u)))
	})
}

func decodeBody(r *http.Request, v any) error {
	return json.NewDecoder(r.Body).Decode(v)
}

func (a *API) handleRegister(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Email           string `json:"email"`
		Password        string `json:"password"`
		PasswordConfirm string `json:"password_confirm"`
		FirstName       string `json:"first_name"`
		LastName        string `json:"last_name"`
		Role            string `json:"role"`
	}
	if err := decodeBody(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid body")
		return
	}
	fields := map[string]string{}
	if in.Email == "" {
		fields["email"] = "This field is required."
	}
	if len(in.Password) < 8 {
		fields["password"] = "Ensure this field has at least 8 characters."
	}
	if in.PasswordConfirm != "" && in.PasswordConfirm != in.Password {
		fields["password_confirm"] = "Passwords do not match."
	}
	if in.Role != "job_seeker" && in.Role != "recruiter" {
		fields["role"] = fmt.Sprintf("%q is not a valid choice.", in.Role)
	}
	a.mu.Lock()
	if _, exists := a.users[strings.ToLower(in.Email)]; exists {
		fields["email"] = "user with this email already exists."
	}
	a.mu.Unlock()
	if len(fields) > 0 {
		writeFieldErrors(w, fields)
		return
	}
	a.AddUser(User{
		Email:      in.Email,
		Password:   in.Password,
		FirstName:  in.FirstName,
		LastName:   in.LastName,
		Role:       in.Role,
		Unverified: true,
	})
	code := a.newOTP(in.Email, "email_verification")
	writeJSON(w, http.StatusCreated, map[string]any{
		"message":  "User registered successfully. Please verify your email.",
		"email":    strings.ToLower(in.Email),
		"otp_code": code,
	})
}

func (a *API) handleLogin(w http.ResponseWriter, r *http.Request) {
	a.loginCalls.Add(1)
	var in struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := decodeBody(r, &in); err != nil || in.Email == "" || in.Password == "" {
		writeError(w, http.StatusBadRequest, "Invalid email or password format")
		return
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	u, ok := a.users[strings.ToLower(in.Email)]
	if !ok {
		writeError(w, http.StatusBadRequest, "Invalid email!")
		return
	}
	if u.FailedLogins >= maxFailedLogins {
		writeError(w, http.StatusLocked, "Account is temporarily locked. Please try again later.")
		return
	}
	if u.Password != in.Password {
		u.FailedLogins++
		if u.FailedLogins >= maxFailedLogins {
			writeError(w, http.StatusLocked, "Account locked due to too many failed attempts. Try again in 30 minutes.")
			return
		}
		writeError(w, http.StatusBadRequest, "Invalid password!")
		return
	}
	u.FailedLogins = 0
	access, refresh, err := a.issueLocked(u, true)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Login failed. Please try again later.")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"user_data": u.data(),
		"access":    access,
		"refresh":   refresh,
	})
}

func (a *API) handleRefresh(w http.ResponseWriter, r *http.Request) {
	a.refreshCalls.Add(1)
	if d := time.Duration(a.refreshDelay.Load()); d > 0 {
		select {
		case <-time.After(d):
		case <-r.Context().Done():
			return
		}
	}
	var in struct {
		Refresh string `json:"refresh"`
	}
	if err := decodeBody(r, &in); err != nil || in.Refresh == "" {
		writeFieldErrors(w, map[string]string{"refresh": "This field is required."})
		return
	}
	if a.failRefresh.Load() {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"detail": "Token is invalid or expired", "code": "token_not_valid"})
		return
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	uid, ok := a.refresh[in.Refresh]
	var u *user
	for _, candidate := range a.users {
		if candidate.ID == uid {
			u = candidate
		}
	}
	if !ok || u == nil || !a.verify(in.Refresh) {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"detail": "Token is invalid or expired", "code": "token_not_valid"})
		return
	}
	access, refresh, err := a.issueLocked(u, a.cfg.RotateRefresh)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "refresh failed")
		return
	}
	out := map[string]string{"access": access}
	if a.cfg.RotateRefresh {
		delete(a.refresh, in.Refresh)
		out["refresh"] = refresh
	}
	writeJSON(w, http.StatusOK, out)
}

func (a *API) handleLogout(w http.ResponseWriter, r *http.Request) {
	a.logoutCalls.Add(1)
	var in struct {
		Refresh string `json:"refresh"`
	}
	if err := decodeBody(r, &in); err != nil || in.Refresh == "" {
		writeFieldErrors(w, map[string]string{"refresh": "This field is required."})
		return
	}
	a.mu.Lock()
	_, ok := a.refresh[in.Refresh]
	delete(a.refresh, in.Refresh)
	a.mu.Unlock()
	if !ok {
		writeError(w, http.StatusBadRequest, "Invalid token or token already blacklisted")
		return
	}
	writeJSON(w, http.StatusResetContent, map[string]string{"message": "Successfully logged out."})
}

func (a *API) handleUpdateUser(w http.ResponseWriter, r *http.Request) {
	var in struct {
		FirstName       string `json:"first_name"`
		LastName        string `json:"last_name"`
		Password        string `json:"password"`
		PasswordConfirm string `json:"password_confirm"`
	}
	if err := decodeBody(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid body")
		return
	}
	if in.Password != "" && in.PasswordConfirm != "" && in.Password != in.PasswordConfirm {
		writeFieldErrors(w, map[string]string{"password_confirm": "Passwords do not match."})
		return
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	u := currentUser(r.Context())
	if in.FirstName != "" {
		u.FirstName = in.FirstName
	}
	if in.LastName != "" {
		u.LastName = in.LastName
	}
	if in.Password != "" {
		u.Password = in.Password
	}
	writeJSON(w, http.StatusOK, u.data())
}

func (a *API) handleDeleteUser(w http.ResponseWriter, r *http.Request) {
	u := currentUser(r.Context())
	a.mu.Lock()
	delete(a.users, u.Email)
	for tok, uid := range a.access {
		if uid == u.ID {
			delete(a.access, tok)
		}
	}
	for tok, uid := range a.refresh {
		if uid == u.ID {
			delete(a.refresh, tok)
		}
	}
	a.mu.Unlock()
	w.WriteHeader(http.StatusNoContent)
}

// OTP returns the last one-time code issued to email for purpose.
func (a *API) OTP(email, purpose string) string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.otps[strings.ToLower(email)+"|"+purpose]
}

func (a *API) newOTP(email, purpose string) string {
	code := fmt.Sprintf("%06d", rand.IntN(1_000_000))
	a.mu.Lock()
	a.otps[strings.ToLower(email)+"|"+purpose] = code
	a.mu.Unlock()
	return code
}

func (a *API) handleOTPRequest(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Email   string `json:"email"`
		Purpose string `json:"purpose"`
	}
	if err := decodeBody(r, &in); err != nil || in.Email == "" {
		writeFieldErrors(w, map[string]string{"email": "This field is required."})
		return
	}
	if in.Purpose != "email_verification" && in.Purpose != "password_reset" {
		writeFieldErrors(w, map[string]string{"purpose": fmt.Sprintf("%q is not a valid choice.", in.Purpose)})
		return
	}
	a.mu.Lock()
	_, known := a.users[strings.ToLower(in.Email)]
	a.mu.Unlock()
	if known {
		a.newOTP(in.Email, in.Purpose)
	}
	// Unknown addresses get the same answer so accounts cannot be probed.
	writeJSON(w, http.StatusOK, map[string]string{"message": "If the email exists, an OTP has been sent."})
}

func (a *API) handleOTPVerify(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Email   string `json:"email"`
		OTPCode string `json:"otp_code"`
		Purpose string `json:"purpose"`
	}
	if err := decodeBody(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid body")
		return
	}
	key := strings.ToLower(in.Email) + "|" + in.Purpose
	a.mu.Lock()
	defer a.mu.Unlock()
	if code, ok := a.otps[key]; !ok || code != in.OTPCode {
		writeError(w, http.StatusBadRequest, "Invalid or expired OTP")
		return
	}
	verified := false
	if in.Purpose == "email_verification" {
		delete(a.otps, key)
		if u, ok := a.users[strings.ToLower(in.Email)]; ok {
			u.Verified = true
			verified = true
		}
	}
	writeJSON(w, http.StatusOK, map[string]any{"message": "OTP verified successfully", "email_verified": verified})
}

func (a *API) handlePasswordReset(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Email           string `json:"email"`
		OTPCode         string `json:"otp_code"`
		NewPassword     string `json:"new_password"`
		PasswordConfirm string `json:"password_confirm"`
	}
	if err := decodeBody(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid body")
		return
	}
	if in.NewPassword != in.PasswordConfirm {
		writeFieldErrors(w, map[string]string{"password_confirm": "Passwords do not match."})
		return
	}
	key := strings.ToLower(in.Email) + "|password_reset"
	a.mu.Lock()
	defer a.mu.Unlock()
	u, ok := a.users[strings.ToLower(in.Email)]
	if code, issued := a.otps[key]; !ok || !issued || code != in.OTPCode {
		writeError(w, http.StatusBadRequest, "Invalid or expired OTP")
		return
	}
	delete(a.otps, key)
	u.Password = in.NewPassword
	u.FailedLogins = 0
	writeJSON(w, http.StatusOK, map[string]string{"message": "Password reset successfully"})
}
