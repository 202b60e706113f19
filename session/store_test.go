package session

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hirelane/hirelane/sdk/go/auth"
)

func TestMemoryStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	st := NewMemoryStore()

	got, err := st.Load(ctx)
	require.NoError(t, err)
	assert.Nil(t, got)

	in := Session{AccessToken: "a1", RefreshToken: "r1", User: &auth.User{Email: "x@y.z"}}
	require.NoError(t, st.Save(ctx, in))
	in.User.Email = "mutated@y.z"

	got, err = st.Load(ctx)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "x@y.z", got.User.Email, "store keeps its own copy")

	require.NoError(t, st.Clear(ctx))
	got, err = st.Load(ctx)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestFileStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", StorageKey+".json")
	st := NewFileStore(path)

	got, err := st.Load(ctx)
	require.NoError(t, err)
	assert.Nil(t, got)

	require.NoError(t, st.Save(ctx, Session{AccessToken: "a1", RefreshToken: "r1", Remember: true}))
	got, err = st.Load(ctx)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "a1", got.AccessToken)
	assert.Equal(t, "r1", got.RefreshToken)
	assert.True(t, got.Remember)

	if runtime.GOOS != "windows" {
		info, err := os.Stat(path)
		require.NoError(t, err)
		assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
	}

	require.NoError(t, st.Save(ctx, Session{AccessToken: "a2", RefreshToken: "r1", Remember: true}))
	got, err = st.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "a2", got.AccessToken)

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp files are cleaned up")

	require.NoError(t, st.Clear(ctx))
	require.NoError(t, st.Clear(ctx))
	got, err = st.Load(ctx)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestFileStoreCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))
	_, err := NewFileStore(path).Load(context.Background())
	assert.Error(t, err)
}

func TestManagerWithFileStoreSurvivesRestart(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "session.json")
	a := &stubAuth{login: auth.TokenPair{Access: "a1", Refresh: "r1"}}

	first, _ := newTestManager(t, a, NewFileStore(path))
	login(t, first, true)

	second, _ := newTestManager(t, a, NewFileStore(path))
	ok, err := second.Restore(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "a1", second.AccessToken())

	require.NoError(t, second.Logout(ctx))
	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}
