package config

import "time"

// Config holds runtime settings for the cyberspace CLI.
//
// Fields:
//   - ServerEndpointAddr: base URL of the HTTP API.
//   - DatabaseFile: SQLite file that keeps the session token between runs.
//   - RequestTimeout: upper bound for a single API call.
//   - OnlineCheckInterval: how often the prompt re-probes server health.
type Config struct {
	ServerEndpointAddr  string
	DatabaseFile        string
	RequestTimeout      time.Duration
	OnlineCheckInterval time.Duration
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerEndpointAddr = "http://127.0.0.1:8000"
	c.DatabaseFile = "cyberspace.db"
	c.RequestTimeout = 10 * time.Second
	c.OnlineCheckInterval = 5 * time.Second
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present) and command-line flags (if present). Later sources take
// precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
