// Package config handles configuration for the reference API server:
// environment variables (with defaults) overlaid by command-line flags.
package config

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/sethvargo/go-envconfig"
)

// Config holds runtime settings for the ecoconnect API server.
//
// JWTSecret has no default: the server refuses to start without one.
// An empty DatabaseDSN selects the in-memory user repository and an empty
// RedisAddr selects the in-process login limiter, so the server runs with no
// external services at all.
type Config struct {
	Addr        string        `env:"ADDR, default=:3001"`
	DatabaseDSN string        `env:"DATABASE_DSN"`
	JWTSecret   string        `env:"JWT_SECRET"`
	TokenTTL    time.Duration `env:"TOKEN_TTL, default=24h"`

	RedisAddr        string        `env:"REDIS_ADDR"`
	RedisDB          int           `env:"REDIS_DB, default=0"`
	LoginMaxAttempts int           `env:"LOGIN_MAX_ATTEMPTS, default=5"`
	LoginWindow      time.Duration `env:"LOGIN_WINDOW, default=15m"`

	LogLevel  string `env:"LOG_LEVEL, default=info"`
	LogPretty bool   `env:"LOG_PRETTY, default=false"`

	// Admin is created at start-up when AdminEmail is set, so a fresh
	// in-memory server has an administrator to sign in with.
	AdminEmail    string `env:"ADMIN_EMAIL"`
	AdminPassword string `env:"ADMIN_PASSWORD"`
}

// LoadConfig reads the process environment and os.Args.
func LoadConfig(ctx context.Context) (*Config, error) {
	return load(ctx, os.Args[1:], envconfig.OsLookuper())
}

func load(ctx context.Context, args []string, env envconfig.Lookuper) (*Config, error) {
	cfg := &Config{}
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: cfg, Lookuper: env}); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := parseFlags(cfg, args); err != nil {
		return nil, fmt.Errorf("config flags: %w", err)
	}
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("config: JWT_SECRET (or -s) must be set")
	}
	if cfg.LoginMaxAttempts < 1 {
		return nil, fmt.Errorf("config: LOGIN_MAX_ATTEMPTS must be positive")
	}
	return cfg, nil
}
