// Package telemetry provides Sentry-based error reporting utilities.
package telemetry

import (
	"log"
	"time"

	"github.com/getsentry/sentry-go"
)

const (
	serviceName = "cvindex"
)

// Config holds the configuration for Sentry initialization.
type Config struct {
	DSN         string
	Environment string
	Debug       bool
}

// Init initializes Sentry. Returns a shutdown function to flush pending
// events. If DSN is empty, returns a no-op shutdown function.
func Init(cfg Config) (func(), error) {
	if cfg.DSN == "" {
		return func() {}, nil
	}

	if cfg.Environment == "" {
		cfg.Environment = "development"
	}

	err := sentry.Init(sentry.ClientOptions{
		Dsn:         cfg.DSN,
		Environment: cfg.Environment,
		Debug:       cfg.Debug,
		ServerName:  serviceName,
	})
	if err != nil {
		log.Printf("sentry: failed to initialize (continuing without error reporting): %v", err)
		return func() {}, nil
	}

	shutdown := func() {
		sentry.Flush(5 * time.Second)
	}

	log.Printf("sentry: error reporting initialized (environment: %s)", cfg.Environment)
	return shutdown, nil
}

// CaptureError reports an error to Sentry when initialized. Safe to call
// when Init was skipped.
func CaptureError(err error) {
	if err == nil {
		return
	}
	sentry.CaptureException(err)
}
