package app

import (
	"context"
	"time"
)

const sessionGaugeInterval = 30 * time.Second

// StartMetricsCollection periodically publishes the live session count until
// ctx is done. Expired sessions are only dropped from the gauge once the
// session cache has cleaned them up.
func (app *Application) StartMetricsCollection(ctx context.Context) {
	ticker := time.NewTicker(sessionGaugeInterval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				app.collectSessionMetrics()
			}
		}
	}()
}

func (app *Application) collectSessionMetrics() {
	count := app.Sessions.Count()
	app.MetricsService.SetActiveSessions(count)
	app.Logger.Debug("Collected session metrics", "active_sessions", count)
}
