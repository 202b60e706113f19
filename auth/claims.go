// Package auth provides the credential endpoints (login, refresh, logout)
// and access-token claim decoding used by the session layer.
package auth

import (
	"bytes"
	"encoding/json"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ID is a backend identifier that may be encoded as a JSON number or string.
type ID string

// UnmarshalJSON accepts both 42 and "42".
func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*id = ID(n.String())
	return nil
}

// Int returns the identifier as an int64 when it is numeric.
func (id ID) Int() (int64, bool) {
	v, err := strconv.ParseInt(string(id), 10, 64)
	return v, err == nil
}

// Claims encodes the JWT claims embedded into access tokens.
type Claims struct {
	TokenType string `json:"token_type,omitempty"`
	UserID    ID     `json:"user_id,omitempty"`
	Email     string `json:"email,omitempty"`
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
	Role      string `json:"role,omitempty"`

	jwt.RegisteredClaims
}

// ParseClaims decodes the claims of an access token without verifying its
// signature. The client never holds the signing key; claims are only used to
// learn the expiry and who is signed in.
func ParseClaims(token string) (*Claims, error) {
	claims := &Claims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return nil, err
	}
	return claims, nil
}

// ExpiresAt returns the token expiry, or the zero time when the token is not
// a JWT or carries no exp claim.
func ExpiresAt(token string) time.Time {
	claims, err := ParseClaims(token)
	if err != nil || claims.ExpiresAt == nil {
		return time.Time{}
	}
	return claims.ExpiresAt.Time
}
