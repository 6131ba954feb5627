package dataset

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/getsentry/sentry-go"
	"woladen.de/internal/config"
	"woladen.de/internal/report"
	"woladen.de/internal/utils"
)

// cachedCopies is how many fetched copies of a remote source stay on disk.
const cachedCopies = 3

// Origin tells where the bytes of a load came from.
type Origin string

const (
	OriginFile   Origin = "file"
	OriginRemote Origin = "remote"
	OriginCache  Origin = "cache"
)

// Loader reads the raw dataset from a local file or a remote URL. Remote
// fetches are cached on disk; when a fetch fails the newest cached copy is
// used instead.
type Loader struct {
	Client     *http.Client
	CacheDir   string
	MaxRetries int
	Logger     *slog.Logger
}

func NewLoader(client *http.Client, cacheDir string, maxRetries int, logger *slog.Logger) *Loader {
	return &Loader{
		Client:     client,
		CacheDir:   cacheDir,
		MaxRetries: maxRetries,
		Logger:     logger,
	}
}

func isRemote(source string) bool {
	return strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://")
}

// Fetch returns the raw bytes of source and where they came from.
func (l *Loader) Fetch(ctx context.Context, source string) ([]byte, Origin, error) {
	if source == "" {
		return nil, "", fmt.Errorf("no dataset source configured")
	}

	if !isRemote(source) {
		data, err := os.ReadFile(source)
		if err != nil {
			return nil, "", fmt.Errorf("failed to read dataset file: %w", err)
		}
		return data, OriginFile, nil
	}

	data, err := l.fetchRemote(ctx, source)
	if err == nil {
		l.writeCache(source, data)
		return data, OriginRemote, nil
	}

	report.ReportErrorWithSentryOptions(err, report.SentryReportOptions{
		Tags:  utils.MakeMap("dataset_source", source),
		Level: sentry.LevelWarning,
	})
	l.Logger.Warn("Failed to fetch dataset, trying cached copy", "source", source, "error", err)

	cachePath, cacheErr := utils.GetLastCachedFile(l.CacheDir, source)
	if cacheErr != nil {
		return nil, "", fmt.Errorf("%w (no cached copy: %v)", err, cacheErr)
	}
	// #nosec G304 -- cachePath is built from our own cache directory
	cached, readErr := os.ReadFile(cachePath)
	if readErr != nil {
		return nil, "", fmt.Errorf("%w (failed to read cached copy: %v)", err, readErr)
	}

	l.Logger.Info("Using cached dataset", "source", source, "cache_file", cachePath)
	return cached, OriginCache, nil
}

func (l *Loader) fetchRemote(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/geo+json, application/json")

	resp, err := config.DoWithBackoff(ctx, l.Client, req, l.MaxRetries)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch dataset: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("dataset source returned status: %d", resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read dataset body: %w", err)
	}
	return data, nil
}

// writeCache stores a fetched copy. Cache failures are logged and reported
// but never fail the load.
func (l *Loader) writeCache(source string, data []byte) {
	if l.CacheDir == "" {
		return
	}
	if err := utils.CreateCacheDirectory(l.CacheDir, l.Logger); err != nil {
		l.Logger.Error("Failed to create cache directory", "cache_dir", l.CacheDir, "error", err)
		return
	}

	path := filepath.Join(l.CacheDir, utils.CachedFileName(source, time.Now()))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		report.ReportErrorWithSentryOptions(err, report.SentryReportOptions{
			Tags:         utils.MakeMap("dataset_source", source),
			ExtraContext: map[string]interface{}{"cache_file": path},
			Level:        sentry.LevelWarning,
		})
		l.Logger.Error("Failed to write dataset cache", "cache_file", path, "error", err)
		return
	}

	if err := utils.PruneCachedFiles(l.CacheDir, source, cachedCopies); err != nil {
		l.Logger.Warn("Failed to prune dataset cache", "cache_dir", l.CacheDir, "error", err)
	}
}
