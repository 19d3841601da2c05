package config

import (
	"os"
	"time"
)

const envPrefix = "DEALERCTL_"

// lookupEnv is a seam for tests.
var lookupEnv = os.LookupEnv

// parseEnv overlays DEALERCTL_* variables onto cfg. A malformed duration panics.
func parseEnv(cfg *Config) {
	if v, ok := lookupEnv(envPrefix + "BASE_URL"); ok {
		cfg.BaseURL = v
	}
	if v, ok := lookupEnv(envPrefix + "DB_PATH"); ok {
		cfg.DBPath = v
	}
	if v, ok := lookupEnv(envPrefix + "LOG_LEVEL"); ok {
		cfg.LogLevel = v
	}
	envDuration(&cfg.RequestTimeout, "REQUEST_TIMEOUT")
	envDuration(&cfg.PaymentDelay, "PAYMENT_DELAY")
}

func envDuration(dst *time.Duration, name string) {
	v, ok := lookupEnv(envPrefix + name)
	if !ok || v == "" {
		return
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		panic(err)
	}
	*dst = d
}
