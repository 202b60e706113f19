package session_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/hirelane/hirelane/sdk/go/auth"
	"github.com/hirelane/hirelane/sdk/go/session"
	"github.com/hirelane/hirelane/sdk/go/session/mocks"
)

type fixedAuth struct{}

func (fixedAuth) Login(ctx context.Context, creds auth.Credentials) (auth.TokenPair, error) {
	return auth.TokenPair{Access: "a1", Refresh: "r1"}, nil
}

func (fixedAuth) Refresh(ctx context.Context, refreshToken string) (auth.TokenPair, error) {
	return auth.TokenPair{Access: "a2"}, nil
}

func (fixedAuth) Logout(ctx context.Context, accessToken, refreshToken string) error { return nil }

func TestLoginSurfacesPersistFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	persistent := mocks.NewMockStore(ctrl)
	ephemeral := mocks.NewMockStore(ctrl)

	diskFull := errors.New("disk full")
	persistent.EXPECT().Save(gomock.Any(), gomock.Any()).DoAndReturn(func(ctx context.Context, s session.Session) error {
		assert.Equal(t, "a1", s.AccessToken)
		assert.True(t, s.Remember)
		return diskFull
	})

	m, err := session.NewManager(session.Config{Auth: fixedAuth{}, Persistent: persistent, Ephemeral: ephemeral})
	require.NoError(t, err)

	s, err := m.Login(context.Background(), auth.Credentials{Email: "a@b.c", Password: "pw"}, true)
	assert.ErrorIs(t, err, diskFull)
	require.NotNil(t, s)
	// The in-memory session is still usable for this process.
	assert.Equal(t, "a1", m.AccessToken())
}

func TestRestoreJoinsStoreErrors(t *testing.T) {
	ctrl := gomock.NewController(t)
	persistent := mocks.NewMockStore(ctrl)
	ephemeral := mocks.NewMockStore(ctrl)

	unreachable := errors.New("redis: connection refused")
	persistent.EXPECT().Load(gomock.Any()).Return(nil, unreachable)
	ephemeral.EXPECT().Load(gomock.Any()).Return(nil, nil)

	m, err := session.NewManager(session.Config{Auth: fixedAuth{}, Persistent: persistent, Ephemeral: ephemeral})
	require.NoError(t, err)

	ok, err := m.Restore(context.Background())
	assert.False(t, ok)
	assert.ErrorIs(t, err, unreachable)
}

func TestTerminationClearsBothScopes(t *testing.T) {
	ctrl := gomock.NewController(t)
	persistent := mocks.NewMockStore(ctrl)
	ephemeral := mocks.NewMockStore(ctrl)

	persistent.EXPECT().Load(gomock.Any()).Return(nil, nil)
	ephemeral.EXPECT().Load(gomock.Any()).Return(nil, nil)
	persistent.EXPECT().Clear(gomock.Any()).Return(nil)
	ephemeral.EXPECT().Clear(gomock.Any()).Return(nil)

	m, err := session.NewManager(session.Config{Auth: fixedAuth{}, Persistent: persistent, Ephemeral: ephemeral})
	require.NoError(t, err)

	_, err = m.HandleUnauthorized(context.Background(), "")
	assert.ErrorIs(t, err, session.ErrNoRefreshToken)
	assert.ErrorIs(t, err, session.ErrSessionTerminated)
}
