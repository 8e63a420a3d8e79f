package config

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/sethvargo/go-envconfig"
)

const EnvPrefix = "ECOCONNECT_"

// Config holds runtime settings for the ecoconnect CLI.
type Config struct {
	APIBaseURL        string        `env:"API_BASE_URL, overwrite"`
	StatePath         string        `env:"STATE_PATH, overwrite"`
	Ephemeral         bool          `env:"EPHEMERAL, overwrite"`
	RequestTimeout    time.Duration `env:"REQUEST_TIMEOUT, overwrite"`
	SessionTimeout    time.Duration `env:"SESSION_TIMEOUT, overwrite"`
	LandingRoute      string        `env:"LANDING_ROUTE, overwrite"`
	InaccessibleRoute string        `env:"INACCESSIBLE_ROUTE, overwrite"`
	LogLevel          string        `env:"LOG_LEVEL, overwrite"`
	LogFormat         string        `env:"LOG_FORMAT, overwrite"`
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.APIBaseURL = "http://127.0.0.1:3001"
	c.StatePath = "ecoconnect.db"
	c.RequestTimeout = 15 * time.Second
	c.SessionTimeout = 10 * time.Second
	c.LandingRoute = "dashboard"
	c.InaccessibleRoute = ""
	c.LogLevel = "info"
	c.LogFormat = "text"
}

// LoadConfig builds a Config from os.Args and the process environment.
func LoadConfig(ctx context.Context) (*Config, error) {
	return load(ctx, os.Args[1:], envconfig.OsLookuper())
}

func load(ctx context.Context, args []string, env envconfig.Lookuper) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()

	if err := parseJSON(cfg, args); err != nil {
		return nil, fmt.Errorf("config file: %w", err)
	}
	if err := parseEnv(ctx, cfg, env); err != nil {
		return nil, fmt.Errorf("environment: %w", err)
	}
	if err := parseFlags(cfg, args); err != nil {
		return nil, fmt.Errorf("flags: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func parseEnv(ctx context.Context, cfg *Config, env envconfig.Lookuper) error {
	return envconfig.ProcessWith(ctx, &envconfig.Config{
		Target:   cfg,
		Lookuper: envconfig.PrefixLookuper(EnvPrefix, env),
	})
}

func (c *Config) validate() error {
	switch c.LogFormat {
	case "text", "json", "console":
	default:
		return fmt.Errorf("unknown log format %q", c.LogFormat)
	}
	if c.APIBaseURL == "" {
		return fmt.Errorf("api base url is empty")
	}
	return nil
}
