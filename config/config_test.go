package config

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hirelane/hirelane/sdk/go/session"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{EnvBaseURL, EnvSessionFile, EnvRedisURL, EnvRefreshInterval, EnvLogLevel, EnvUserAgent} {
		t.Setenv(key, "")
	}
}

func TestFromEnvDefaults(t *testing.T) {
	clearEnv(t)
	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.Equal(t, session.DefaultKeepAliveInterval, cfg.RefreshInterval)
}

func TestFromEnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv(EnvBaseURL, "https://api.hirelane.example/api")
	t.Setenv(EnvSessionFile, "/tmp/session.json")
	t.Setenv(EnvRedisURL, "redis://:secret@localhost:6379/2")
	t.Setenv(EnvRefreshInterval, "90s")
	t.Setenv(EnvLogLevel, "DEBUG")
	t.Setenv(EnvUserAgent, "recruiter-bot/2")

	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, "https://api.hirelane.example/api", cfg.BaseURL)
	assert.Equal(t, "/tmp/session.json", cfg.SessionFile)
	assert.Equal(t, "redis://:secret@localhost:6379/2", cfg.RedisURL)
	assert.Equal(t, 90*time.Second, cfg.RefreshInterval)
	assert.Equal(t, zerolog.DebugLevel, cfg.LogLevel)
	assert.Equal(t, "recruiter-bot/2", cfg.UserAgent)
}

func TestFromEnvRejectsInvalidValues(t *testing.T) {
	cases := map[string]string{
		EnvRefreshInterval: "soon",
		EnvLogLevel:        "loud",
		EnvRedisURL:        "http://localhost:6379",
	}
	for key, value := range cases {
		t.Run(key, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(key, value)
			_, err := FromEnv()
			assert.True(t, errors.Is(err, ErrConfig), "got %v", err)
		})
	}

	clearEnv(t)
	t.Setenv(EnvRefreshInterval, "-1m")
	_, err := FromEnv()
	assert.ErrorIs(t, err, ErrConfig)
}

func TestPersistentStoreSelection(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	store, closeFn, err := Config{SessionFile: path}.PersistentStore()
	require.NoError(t, err)
	fileStore, ok := store.(*session.FileStore)
	require.True(t, ok, "expected a file store, got %T", store)
	assert.Equal(t, path, fileStore.Path())
	assert.NoError(t, closeFn())

	store, closeFn, err = Config{RedisURL: "redis://localhost:6379/0", SessionFile: path}.PersistentStore()
	require.NoError(t, err)
	redisStore, ok := store.(*session.RedisStore)
	require.True(t, ok, "expected a redis store, got %T", store)
	assert.Equal(t, "hirelane:"+session.StorageKey, redisStore.Key())
	assert.NoError(t, closeFn())
}
