package dataset

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"woladen.de/internal/config"
	"woladen.de/internal/metrics"
)

// readFixture reads a file from this package's testdata directory.
func readFixture(t *testing.T, name string) []byte {
	t.Helper()

	// #nosec G304
	data, err := os.ReadFile(filepath.Join("testdata", name))
	if err != nil {
		t.Fatalf("Failed to read fixture file: %v", err)
	}
	return data
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestService(t *testing.T, loader *Loader) *DatasetService {
	t.Helper()
	return NewDatasetService(NewStore(), loader, config.NewBackoffStore(), metrics.NewMetricsService(nil), testLogger())
}
