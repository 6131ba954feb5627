package utils

import (
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/getsentry/sentry-go"
	"woladen.de/internal/report"
)

// CachePrefix returns the file name prefix shared by every cached copy of a
// dataset source.
func CachePrefix(source string) string {
	hash := sha1.Sum([]byte(source))
	return "dataset_" + hex.EncodeToString(hash[:])[:12] + "_"
}

// CachedFileName names a copy of source fetched at t.
func CachedFileName(source string, t time.Time) string {
	return fmt.Sprintf("%s%s.geojson", CachePrefix(source), t.UTC().Format("20060102T150405"))
}

// GetLastCachedFile returns the most recently modified cached copy of source.
func GetLastCachedFile(cacheDir string, source string) (string, error) {
	files, err := os.ReadDir(cacheDir)
	if err != nil {
		return "", err
	}

	var lastModTime time.Time
	var lastModFile string

	prefix := CachePrefix(source)

	for _, file := range files {
		if !file.IsDir() && strings.HasPrefix(file.Name(), prefix) {
			fileInfo, err := file.Info()
			if err != nil {
				return "", err
			}
			if fileInfo.ModTime().After(lastModTime) {
				lastModTime = fileInfo.ModTime()
				lastModFile = file.Name()
			}
		}
	}

	if lastModFile == "" {
		return "", fmt.Errorf("no cached files found for %s", source)
	}

	return filepath.Join(cacheDir, lastModFile), nil
}

// CreateCacheDirectory ensures the cache directory exists, creating it if necessary.
func CreateCacheDirectory(cacheDir string, logger *slog.Logger) error {
	stat, err := os.Stat(cacheDir)

	if err != nil {
		if os.IsNotExist(err) {
			if err := os.MkdirAll(cacheDir, os.ModePerm); err != nil {
				report.ReportErrorWithSentryOptions(err, report.SentryReportOptions{
					Level: sentry.LevelError,
					ExtraContext: map[string]interface{}{
						"cache_dir": cacheDir,
					},
				})
				return err
			}
			logger.Info("Created cache directory", "cache_dir", cacheDir)
			return nil
		}
		return err

	}
	if !stat.IsDir() {
		err := fmt.Errorf("%s is not a directory", cacheDir)
		report.ReportErrorWithSentryOptions(err, report.SentryReportOptions{
			Level: sentry.LevelError,
			ExtraContext: map[string]interface{}{
				"cache_dir": cacheDir,
			},
		})
		return err
	}
	return nil
}

// PruneCachedFiles removes all but the keep most recent cached copies of source.
func PruneCachedFiles(cacheDir string, source string, keep int) error {
	files, err := os.ReadDir(cacheDir)
	if err != nil {
		return err
	}

	prefix := CachePrefix(source)
	var names []string
	for _, file := range files {
		if !file.IsDir() && strings.HasPrefix(file.Name(), prefix) {
			names = append(names, file.Name())
		}
	}

	// names carry a sortable UTC timestamp and ReadDir returns them sorted
	for len(names) > keep {
		if err := os.Remove(filepath.Join(cacheDir, names[0])); err != nil {
			return err
		}
		names = names[1:]
	}
	return nil
}
