package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/ecoconnect/internal/flagx"
	"github.com/dmitrijs2005/ecoconnect/internal/timex"
)

// JSONConfig is a DTO used only for unmarshalling the config file. Fields
// left out of the file keep their earlier values.
type JSONConfig struct {
	APIBaseURL        string         `json:"api_base_url"`
	StatePath         string         `json:"state_path"`
	Ephemeral         *bool          `json:"ephemeral"`
	RequestTimeout    timex.Duration `json:"request_timeout"`
	SessionTimeout    timex.Duration `json:"session_timeout"`
	LandingRoute      string         `json:"landing_route"`
	InaccessibleRoute *string        `json:"inaccessible_route"`
	LogLevel          string         `json:"log_level"`
	LogFormat         string         `json:"log_format"`
}

func parseJSON(cfg *Config, args []string) error {
	path := flagx.ConfigPath(args)
	if path == "" {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	var jc JSONConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		return err
	}

	setString(&cfg.APIBaseURL, jc.APIBaseURL)
	setString(&cfg.StatePath, jc.StatePath)
	setString(&cfg.LandingRoute, jc.LandingRoute)
	setString(&cfg.LogLevel, jc.LogLevel)
	setString(&cfg.LogFormat, jc.LogFormat)
	if jc.Ephemeral != nil {
		cfg.Ephemeral = *jc.Ephemeral
	}
	if jc.InaccessibleRoute != nil {
		cfg.InaccessibleRoute = *jc.InaccessibleRoute
	}
	if jc.RequestTimeout.Duration > 0 {
		cfg.RequestTimeout = jc.RequestTimeout.Duration
	}
	if jc.SessionTimeout.Duration > 0 {
		cfg.SessionTimeout = jc.SessionTimeout.Duration
	}
	return nil
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
