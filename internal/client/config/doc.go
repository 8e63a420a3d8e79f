// Package config loads runtime configuration for the ecoconnect CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file selected via -c or -config.
//  3. Environment variables prefixed with ECOCONNECT_.
//  4. Command-line flags, which override everything else.
//
// Supported flags
//
//	-a string   base URL of the ecoconnect API
//	-s string   path of the local state database
//	-t int      per-request timeout (seconds)
//	-r int      session resolution timeout (seconds)
//	-l string   log level (debug, info, warn, error)
//
// # JSON schema
//
// Durations use timex.Duration, so values can be strings like "3s" or
// integer nanoseconds:
//
//	{
//	  "api_base_url": "https://api.ecoconnect.example",
//	  "state_path": "/var/lib/ecoconnect/state.db",
//	  "request_timeout": "15s",
//	  "session_timeout": "10s",
//	  "landing_route": "dashboard",
//	  "inaccessible_route": "",
//	  "log_level": "info",
//	  "log_format": "text"
//	}
//
// # Environment
//
//	ECOCONNECT_API_BASE_URL, ECOCONNECT_STATE_PATH,
//	ECOCONNECT_REQUEST_TIMEOUT, ECOCONNECT_SESSION_TIMEOUT,
//	ECOCONNECT_LANDING_ROUTE, ECOCONNECT_INACCESSIBLE_ROUTE,
//	ECOCONNECT_LOG_LEVEL, ECOCONNECT_LOG_FORMAT
package config
