package config

import (
	"flag"
	"io"
	"time"

	"github.com/dmitrijs2005/ecoconnect/internal/flagx"
)

// parseFlags overlays cfg with the flags this package owns. Other flags on
// the command line are ignored (see flagx.Filter).
func parseFlags(cfg *Config, args []string) error {
	args = flagx.Filter(args, "-a", "-s", "-e", "-t", "-r", "-l")

	fs := flag.NewFlagSet("ecoconnect", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&cfg.APIBaseURL, "a", cfg.APIBaseURL, "base URL of the ecoconnect API")
	fs.StringVar(&cfg.StatePath, "s", cfg.StatePath, "path of the local state database")
	fs.BoolVar(&cfg.Ephemeral, "e", cfg.Ephemeral, "keep the token in memory only")
	fs.StringVar(&cfg.LogLevel, "l", cfg.LogLevel, "log level")
	requestTimeout := fs.Int("t", int(cfg.RequestTimeout.Seconds()), "request timeout (in seconds)")
	sessionTimeout := fs.Int("r", int(cfg.SessionTimeout.Seconds()), "session resolution timeout (in seconds)")

	if err := fs.Parse(args); err != nil {
		return err
	}

	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "t":
			cfg.RequestTimeout = time.Duration(*requestTimeout) * time.Second
		case "r":
			cfg.SessionTimeout = time.Duration(*sessionTimeout) * time.Second
		}
	})
	return nil
}
