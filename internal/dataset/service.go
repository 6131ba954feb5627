package dataset

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"log/slog"
	"time"

	"github.com/getsentry/sentry-go"
	"woladen.de/internal/config"
	"woladen.de/internal/metrics"
	"woladen.de/internal/report"
	"woladen.de/internal/utils"
)

// DatasetService loads datasets through a Loader and publishes them to a Store.
type DatasetService struct {
	Store   *Store
	Loader  *Loader
	Backoff *config.BackoffStore
	Metrics *metrics.MetricsService
	Logger  *slog.Logger
}

func NewDatasetService(store *Store, loader *Loader, backoff *config.BackoffStore, ms *metrics.MetricsService, logger *slog.Logger) *DatasetService {
	return &DatasetService{
		Store:   store,
		Loader:  loader,
		Backoff: backoff,
		Metrics: ms,
		Logger:  logger,
	}
}

// Load fetches, decodes and publishes source. Identical content is not
// republished, so sessions keep their state across no-op refreshes. On
// failure the current snapshot stays published (the empty dataset before the
// first success) and the error is reported.
func (ds *DatasetService) Load(ctx context.Context, source string) (*Dataset, error) {
	data, origin, err := ds.Loader.Fetch(ctx, source)
	if err != nil {
		return nil, ds.fail(source, err)
	}

	sum := sha1.Sum(data)
	checksum := hex.EncodeToString(sum[:])
	if current := ds.Store.Current(); current.Version > 0 && current.Source == source && current.Checksum == checksum {
		ds.Backoff.ResetBackoff(source)
		ds.Logger.Debug("Dataset unchanged", "source", source, "version", current.Version)
		return current, nil
	}

	stations, stats, err := Decode(data)
	if err != nil {
		return nil, ds.fail(source, err)
	}

	published := ds.Store.Publish(source, checksum, stations, stats)
	ds.Backoff.ResetBackoff(source)
	ds.Metrics.RecordDatasetLoad(metrics.DatasetLoad{
		Source:    source,
		Stations:  published.Len(),
		Operators: len(published.Operators),
		Skipped:   stats.Skipped,
		LoadedAt:  published.LoadedAt,
	})
	ds.Logger.Info("Loaded dataset",
		"source", source,
		"origin", origin,
		"version", published.Version,
		"features", stats.Features,
		"stations", stats.Stations,
		"skipped", stats.Skipped,
	)
	return published, nil
}

func (ds *DatasetService) fail(source string, err error) error {
	err = fmt.Errorf("failed to load dataset from %s: %w", source, err)
	ds.Backoff.UpdateBackoff(source)
	ds.Metrics.RecordDatasetFailure(source)
	report.ReportErrorWithSentryOptions(err, report.SentryReportOptions{
		Tags:         utils.MakeMap("dataset_source", source),
		ExtraContext: map[string]interface{}{"published_version": ds.Store.Current().Version},
		Level:        sentry.LevelError,
	})
	ds.Logger.Error("Failed to load dataset", "source", source, "error", err)
	return err
}

// RefreshDataset reloads the configured source every interval until ctx is
// done. The source is re-read from cfg on each tick so remote settings
// changes take effect; sources in backoff are skipped.
func (ds *DatasetService) RefreshDataset(ctx context.Context, cfg *config.Config, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			ds.Logger.Info("Stopping dataset refresh routine")
			return
		case now := <-ticker.C:
			source := cfg.GetSettings().DatasetSource()
			if ds.Backoff.ShouldSkip(source, now) {
				next, _ := ds.Backoff.NextRetryAt(source)
				ds.Logger.Debug("Skipping dataset refresh during backoff", "source", source, "next_retry_at", next)
				continue
			}
			// errors are reported inside Load
			_, _ = ds.Load(ctx, source)
		}
	}
}
