// Package sdk provides the Hirelane Go SDK for the recruitment platform API.
//
// A Client owns one signed-in session. Protected calls carry its bearer
// token; when the API answers 401 the token is refreshed once and the call
// is resubmitted, so callers only see failures the session cannot recover
// from.
package sdk

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/hirelane/hirelane/sdk/go/auth"
	"github.com/hirelane/hirelane/sdk/go/routes"
	"github.com/hirelane/hirelane/sdk/go/session"
)

// AuthClient wraps authentication and account endpoints.
type AuthClient struct {
	client *Client
}

// LoginRequest signs a user in. Remember keeps the session across restarts
// when the client has a persistent store.
type LoginRequest struct {
	Email    string
	Password string
	Remember bool
}

// RegisterRequest creates a job seeker or recruiter account.
type RegisterRequest struct {
	Email           string `json:"email"`
	Password        string `json:"password"`
	PasswordConfirm string `json:"password_confirm,omitempty"`
	FirstName       string `json:"first_name"`
	LastName        string `json:"last_name"`
	Role            Role   `json:"role"`
}

// Validate checks that required fields are set.
func (r RegisterRequest) Validate() error {
	if strings.TrimSpace(r.Email) == "" {
		return fmt.Errorf("email is required")
	}
	if r.Password == "" {
		return fmt.Errorf("password is required")
	}
	if r.PasswordConfirm != "" && r.PasswordConfirm != r.Password {
		return fmt.Errorf("passwords do not match")
	}
	if r.Role != RoleJobSeeker && r.Role != RoleRecruiter {
		return fmt.Errorf("role must be %q or %q", RoleJobSeeker, RoleRecruiter)
	}
	return nil
}

// RegisterResponse acknowledges a registration. OTPCode is only echoed by
// development servers.
type RegisterResponse struct {
	Message string `json:"message"`
	Email   string `json:"email"`
	OTPCode string `json:"otp_code,omitempty"`
}

// OTPVerifyResponse reports the outcome of a code verification.
type OTPVerifyResponse struct {
	Message       string `json:"message"`
	EmailVerified bool   `json:"email_verified"`
}

// PasswordResetRequest sets a new password with a verified one-time code.
type PasswordResetRequest struct {
	Email           string `json:"email"`
	OTPCode         string `json:"otp_code"`
	NewPassword     string `json:"new_password"`
	PasswordConfirm string `json:"password_confirm"`
}

// UserUpdate changes account fields. Empty fields are left unchanged.
type UserUpdate struct {
	FirstName       string `json:"first_name,omitempty"`
	LastName        string `json:"last_name,omitempty"`
	Password        string `json:"password,omitempty"`
	PasswordConfirm string `json:"password_confirm,omitempty"`
}

type messageResponse struct {
	Message string `json:"message"`
}

// Login exchanges credentials for a session owned by the client.
func (a *AuthClient) Login(ctx context.Context, req LoginRequest) (*session.Session, error) {
	if a == nil || a.client == nil {
		return nil, fmt.Errorf("sdk: auth client not initialized")
	}
	return a.client.session.Login(ctx, auth.Credentials{Email: req.Email, Password: req.Password}, req.Remember)
}

// Logout revokes the refresh token (best effort) and forgets the session.
func (a *AuthClient) Logout(ctx context.Context) error {
	if a == nil || a.client == nil {
		return fmt.Errorf("sdk: auth client not initialized")
	}
	return a.client.session.Logout(ctx)
}

// Register creates an account. The user must verify their email before logging in.
func (a *AuthClient) Register(ctx context.Context, req RegisterRequest) (RegisterResponse, error) {
	if a == nil || a.client == nil {
		return RegisterResponse{}, fmt.Errorf("sdk: auth client not initialized")
	}
	if err := req.Validate(); err != nil {
		return RegisterResponse{}, fmt.Errorf("sdk: %w", err)
	}
	httpReq, err := a.client.newJSONRequest(ctx, http.MethodPost, routes.AuthRegister, req)
	if err != nil {
		return RegisterResponse{}, err
	}
	var out RegisterResponse
	if err := a.client.do(httpReq, &out); err != nil {
		return RegisterResponse{}, err
	}
	return out, nil
}

// RequestOTP sends a one-time code to email.
func (a *AuthClient) RequestOTP(ctx context.Context, email string, purpose OTPPurpose) (string, error) {
	if a == nil || a.client == nil {
		return "", fmt.Errorf("sdk: auth client not initialized")
	}
	if strings.TrimSpace(email) == "" {
		return "", fmt.Errorf("sdk: email is required")
	}
	payload := map[string]string{"email": email, "purpose": string(purpose)}
	httpReq, err := a.client.newJSONRequest(ctx, http.MethodPost, routes.AuthOTPRequest, payload)
	if err != nil {
		return "", err
	}
	var out messageResponse
	if err := a.client.do(httpReq, &out); err != nil {
		return "", err
	}
	return out.Message, nil
}

// VerifyOTP checks a one-time code.
func (a *AuthClient) VerifyOTP(ctx context.Context, email, code string, purpose OTPPurpose) (OTPVerifyResponse, error) {
	if a == nil || a.client == nil {
		return OTPVerifyResponse{}, fmt.Errorf("sdk: auth client not initialized")
	}
	payload := map[string]string{"email": email, "otp_code": code, "purpose": string(purpose)}
	httpReq, err := a.client.newJSONRequest(ctx, http.MethodPost, routes.AuthOTPVerify, payload)
	if err != nil {
		return OTPVerifyResponse{}, err
	}
	var out OTPVerifyResponse
	if err := a.client.do(httpReq, &out); err != nil {
		return OTPVerifyResponse{}, err
	}
	return out, nil
}

// ResetPassword sets a new password using a code requested with OTPPasswordReset.
func (a *AuthClient) ResetPassword(ctx context.Context, req PasswordResetRequest) (string, error) {
	if a == nil || a.client == nil {
		return "", fmt.Errorf("sdk: auth client not initialized")
	}
	if req.PasswordConfirm == "" {
		req.PasswordConfirm = req.NewPassword
	}
	httpReq, err := a.client.newJSONRequest(ctx, http.MethodPost, routes.AuthPasswordReset, req)
	if err != nil {
		return "", err
	}
	var out messageResponse
	if err := a.client.do(httpReq, &out); err != nil {
		return "", err
	}
	return out.Message, nil
}

// UpdateUser changes the signed-in user's account fields.
func (a *AuthClient) UpdateUser(ctx context.Context, update UserUpdate) (User, error) {
	if a == nil || a.client == nil {
		return User{}, fmt.Errorf("sdk: auth client not initialized")
	}
	if update.Password != "" && update.PasswordConfirm != "" && update.Password != update.PasswordConfirm {
		return User{}, fmt.Errorf("sdk: passwords do not match")
	}
	httpReq, err := a.client.newJSONRequest(ctx, http.MethodPut, routes.AuthUpdate, update)
	if err != nil {
		return User{}, err
	}
	var out User
	if err := a.client.do(httpReq, &out); err != nil {
		return User{}, err
	}
	return out, nil
}

// DeleteAccount deletes the signed-in account and forgets the session.
func (a *AuthClient) DeleteAccount(ctx context.Context) error {
	if a == nil || a.client == nil {
		return fmt.Errorf("sdk: auth client not initialized")
	}
	httpReq, err := a.client.newJSONRequest(ctx, http.MethodDelete, routes.AuthDelete, nil)
	if err != nil {
		return err
	}
	if err := a.client.do(httpReq, nil); err != nil {
		return err
	}
	return a.client.session.Discard(ctx)
}
