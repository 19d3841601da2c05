package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/autodealer/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   base URL of the REST API
//	-t int      request timeout (in seconds)
//	-db string  local database file
//	-p int      simulated payment delay (in milliseconds)
//	-l string   log level
//
// os.Args is filtered with flagx.FilterArgs so other flags do not interfere.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-t", "-db", "-p", "-l"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.BaseURL, "a", cfg.BaseURL, "base URL of the API")
	timeout := fs.Int("t", int(cfg.RequestTimeout.Seconds()), "request timeout (in seconds)")
	fs.StringVar(&cfg.DBPath, "db", cfg.DBPath, "local database file")
	delay := fs.Int("p", int(cfg.PaymentDelay.Milliseconds()), "simulated payment delay (in milliseconds)")
	fs.StringVar(&cfg.LogLevel, "l", cfg.LogLevel, "log level (debug|info|warn|error)")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "t":
			cfg.RequestTimeout = time.Duration(*timeout) * time.Second
		case "p":
			cfg.PaymentDelay = time.Duration(*delay) * time.Millisecond
		}
	})
}
