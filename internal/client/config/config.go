// Package config handles configuration for the dealerctl terminal client:
// defaults, DEALERCTL_* environment variables, a JSON overlay and
// command-line flags, applied in that order.
package config

import "time"

// Config holds runtime settings for the dealerctl client.
//
// Fields:
//   - BaseURL: root of the REST API, without the /api suffix.
//   - RequestTimeout: per-request deadline; requests are never retried.
//   - DBPath: local sqlite file holding the session and the receipt cache.
//   - PaymentDelay: how long the simulated payment takes.
//   - LogLevel: client log level.
type Config struct {
	BaseURL        string
	RequestTimeout time.Duration
	DBPath         string
	PaymentDelay   time.Duration
	LogLevel       string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.BaseURL = "http://127.0.0.1:5000"
	c.RequestTimeout = 10 * time.Second
	c.DBPath = "dealerctl.db"
	c.PaymentDelay = 2 * time.Second
	c.LogLevel = "warn"
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// the environment, JSON (if present) and command-line flags (if present).
// Later sources take precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseEnv(cfg)
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
