// Package config loads SDK client settings from the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/hirelane/hirelane/sdk/go/session"
)

// ErrConfig is returned when an environment variable holds an invalid value.
var ErrConfig = errors.New("config: invalid configuration")

// Environment variable names read by FromEnv.
const (
	EnvBaseURL         = "HIRELANE_BASE_URL"
	EnvSessionFile     = "HIRELANE_SESSION_FILE"
	EnvRedisURL        = "HIRELANE_REDIS_URL"
	EnvRefreshInterval = "HIRELANE_REFRESH_INTERVAL"
	EnvLogLevel        = "HIRELANE_LOG_LEVEL"
	EnvUserAgent       = "HIRELANE_USER_AGENT"
)

// Config holds client settings that vary per deployment.
type Config struct {
	// BaseURL is the API root, including any mount path such as "/api".
	BaseURL string
	// SessionFile is where remembered sessions are kept when RedisURL is empty.
	SessionFile string
	// RedisURL, when set, keeps remembered sessions in Redis instead of a file.
	RedisURL string
	// RefreshInterval is the keep-alive period.
	RefreshInterval time.Duration
	LogLevel        zerolog.Level
	UserAgent       string
}

// Default returns the settings used for unset variables.
func Default() Config {
	return Config{
		BaseURL:         "http://localhost:8000",
		RefreshInterval: session.DefaultKeepAliveInterval,
		LogLevel:        zerolog.InfoLevel,
	}
}

// FromEnv loads Config from the environment.
//
// Optional:
//   - HIRELANE_BASE_URL
//   - HIRELANE_SESSION_FILE (defaults to the user config dir)
//   - HIRELANE_REDIS_URL (redis://[:password@]host:port/db)
//   - HIRELANE_REFRESH_INTERVAL (Go duration)
//   - HIRELANE_LOG_LEVEL (debug, info, warn, error)
//   - HIRELANE_USER_AGENT
func FromEnv() (Config, error) {
	cfg := Default()

	if v := env(EnvBaseURL); v != "" {
		cfg.BaseURL = v
	}
	if v := env(EnvSessionFile); v != "" {
		cfg.SessionFile = v
	}
	if v := env(EnvRedisURL); v != "" {
		if _, err := redis.ParseURL(v); err != nil {
			return Config{}, fmt.Errorf("%w: %s: %v", ErrConfig, EnvRedisURL, err)
		}
		cfg.RedisURL = v
	}
	if v := env(EnvRefreshInterval); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil || d <= 0 {
			return Config{}, fmt.Errorf("%w: %s must be a positive duration", ErrConfig, EnvRefreshInterval)
		}
		cfg.RefreshInterval = d
	}
	if v := env(EnvLogLevel); v != "" {
		level, err := zerolog.ParseLevel(strings.ToLower(v))
		if err != nil {
			return Config{}, fmt.Errorf("%w: %s: %v", ErrConfig, EnvLogLevel, err)
		}
		cfg.LogLevel = level
	}
	if v := env(EnvUserAgent); v != "" {
		cfg.UserAgent = v
	}
	return cfg, nil
}

// PersistentStore opens the store remembered sessions live in: Redis when
// RedisURL is set, otherwise SessionFile. The returned close func releases
// the Redis connection pool and is never nil.
func (c Config) PersistentStore() (session.Store, func() error, error) {
	noop := func() error { return nil }
	if c.RedisURL != "" {
		opts, err := redis.ParseURL(c.RedisURL)
		if err != nil {
			return nil, noop, fmt.Errorf("%w: %s: %v", ErrConfig, EnvRedisURL, err)
		}
		client := redis.NewClient(opts)
		return session.NewRedisStore(client, "hirelane:", 0), client.Close, nil
	}
	path := c.SessionFile
	if path == "" {
		p, err := session.DefaultFilePath()
		if err != nil {
			return nil, noop, fmt.Errorf("config: resolve session file: %w", err)
		}
		path = p
	}
	return session.NewFileStore(path), noop, nil
}

func env(key string) string {
	return strings.TrimSpace(os.Getenv(key))
}
