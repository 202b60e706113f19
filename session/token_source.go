package session

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/oauth2"
)

const defaultTokenRefreshSkew = 30 * time.Second

// Token returns a usable access token, refreshing first when the current one
// expires within the skew.
func (m *Manager) Token(ctx context.Context) (string, error) {
	cur := m.Current()
	if cur == nil {
		return "", ErrNoSession
	}
	if !cur.Expired(m.now(), defaultTokenRefreshSkew) {
		return cur.AccessToken, nil
	}
	token, err := m.refresh(ctx)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrTokenExpired, err)
	}
	return token, nil
}

// TokenSource adapts the Manager to oauth2.TokenSource so other HTTP
// clients (oauth2.NewClient, gRPC credentials) can share the session.
func (m *Manager) TokenSource(ctx context.Context) oauth2.TokenSource {
	return &tokenSource{ctx: ctx, m: m}
}

type tokenSource struct {
	ctx context.Context
	m   *Manager
}

func (ts *tokenSource) Token() (*oauth2.Token, error) {
	access, err := ts.m.Token(ts.ctx)
	if err != nil {
		return nil, err
	}
	tok := &oauth2.Token{AccessToken: access, TokenType: "Bearer"}
	if cur := ts.m.Current(); cur != nil && cur.AccessToken == access {
		tok.Expiry = cur.ExpiresAt
	}
	return tok, nil
}
