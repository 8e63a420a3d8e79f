package config

import (
	"context"
	"testing"
	"time"

	"github.com/sethvargo/go-envconfig"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := load(context.Background(), nil, envconfig.MapLookuper(map[string]string{"JWT_SECRET": "s3cret"}))
	require.NoError(t, err)

	assert.Equal(t, ":3001", cfg.Addr)
	assert.Empty(t, cfg.DatabaseDSN)
	assert.Equal(t, "s3cret", cfg.JWTSecret)
	assert.Equal(t, 24*time.Hour, cfg.TokenTTL)
	assert.Empty(t, cfg.RedisAddr)
	assert.Equal(t, 5, cfg.LoginMaxAttempts)
	assert.Equal(t, 15*time.Minute, cfg.LoginWindow)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.False(t, cfg.LogPretty)
}

func TestLoad_EnvThenFlags(t *testing.T) {
	env := envconfig.MapLookuper(map[string]string{
		"ADDR":               ":8080",
		"JWT_SECRET":         "from-env",
		"DATABASE_DSN":       "postgres://env",
		"TOKEN_TTL":          "1h",
		"REDIS_ADDR":         "localhost:6379",
		"LOGIN_MAX_ATTEMPTS": "3",
		"LOG_PRETTY":         "true",
	})

	cfg, err := load(context.Background(), []string{"-d", "postgres://flag", "-t", "30", "-unknown"}, env)
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, "postgres://flag", cfg.DatabaseDSN)
	assert.Equal(t, 30*time.Minute, cfg.TokenTTL)
	assert.Equal(t, "localhost:6379", cfg.RedisAddr)
	assert.Equal(t, 3, cfg.LoginMaxAttempts)
	assert.True(t, cfg.LogPretty)
}

func TestLoad_Invalid(t *testing.T) {
	_, err := load(context.Background(), nil, envconfig.MapLookuper(map[string]string{"JWT_SECRET": "x", "LOGIN_MAX_ATTEMPTS": "0"}))
	assert.ErrorContains(t, err, "LOGIN_MAX_ATTEMPTS")

	_, err = load(context.Background(), nil, envconfig.MapLookuper(map[string]string{"JWT_SECRET": "x", "TOKEN_TTL": "forever"}))
	assert.Error(t, err)

	_, err = load(context.Background(), []string{"-s", ""}, envconfig.MapLookuper(map[string]string{"JWT_SECRET": "x"}))
	assert.ErrorContains(t, err, "JWT_SECRET")
}

func TestLoad_SecretRequired(t *testing.T) {
	_, err := load(context.Background(), nil, envconfig.MapLookuper(map[string]string{}))
	assert.ErrorContains(t, err, "JWT_SECRET")

	cfg, err := load(context.Background(), []string{"-s", "from-flag"}, envconfig.MapLookuper(map[string]string{}))
	require.NoError(t, err)
	assert.Equal(t, "from-flag", cfg.JWTSecret)
}
