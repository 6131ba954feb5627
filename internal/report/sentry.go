package report

import (
	"fmt"
	"os"
	"time"

	"github.com/getsentry/sentry-go"
)

// SetupSentry initialises the Sentry client from SENTRY_DSN. An empty DSN
// leaves the SDK initialised but disabled, so reporting calls become no-ops.
func SetupSentry(env, release string) error {
	if err := sentry.Init(sentry.ClientOptions{
		Dsn:              os.Getenv("SENTRY_DSN"),
		Environment:      env,
		Release:          release,
		EnableTracing:    true,
		Debug:            env == "development",
		TracesSampleRate: 1.0,
	}); err != nil {
		return fmt.Errorf("sentry.Init: %w", err)
	}
	sentry.CaptureMessage("woladen started")
	return nil
}

func FlushSentry() {
	sentry.Flush(2 * time.Second)
}
