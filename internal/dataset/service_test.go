package dataset

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"woladen.de/internal/config"
)

func TestDatasetServiceLoad(t *testing.T) {
	ds := newTestService(t, NewLoader(http.DefaultClient, t.TempDir(), 1, testLogger()))
	source := filepath.Join("testdata", "chargers_fast.geojson")

	published, err := ds.Load(context.Background(), source)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), published.Version)
	assert.Equal(t, 4, published.Len())
	assert.Same(t, published, ds.Store.Current())

	t.Run("unchanged content is not republished", func(t *testing.T) {
		again, err := ds.Load(context.Background(), source)
		require.NoError(t, err)
		assert.Same(t, published, again)
		assert.Equal(t, uint64(1), ds.Store.Current().Version)
	})

	t.Run("failure keeps the published snapshot and backs off", func(t *testing.T) {
		missing := filepath.Join("testdata", "missing.geojson")
		_, err := ds.Load(context.Background(), missing)
		require.Error(t, err)
		assert.Same(t, published, ds.Store.Current())
		assert.True(t, ds.Backoff.ShouldSkip(missing, time.Now()))
	})
}

func TestDatasetServiceLoadFailureLeavesEmptyDataset(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.geojson")
	require.NoError(t, os.WriteFile(path, []byte(`{"type": "FeatureCollection", "features": [`), 0o644))

	ds := newTestService(t, NewLoader(http.DefaultClient, t.TempDir(), 1, testLogger()))

	_, err := ds.Load(context.Background(), path)
	require.Error(t, err)

	current := ds.Store.Current()
	assert.Equal(t, uint64(0), current.Version)
	assert.Equal(t, 0, current.Len())
}

func TestRefreshDataset(t *testing.T) {
	var hits atomic.Int32
	fixture := readFixture(t, "chargers_fast.geojson")
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.Write(fixture)
	}))
	defer ts.Close()

	ds := newTestService(t, NewLoader(ts.Client(), t.TempDir(), 1, testLogger()))
	cfg := config.NewConfig(8080, "testing", config.Settings{DatasetURL: ts.URL + "/chargers_fast.geojson"})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		ds.RefreshDataset(ctx, cfg, 20*time.Millisecond)
		close(done)
	}()

	require.Eventually(t, func() bool {
		return ds.Store.Current().Version == 1 && hits.Load() >= 2
	}, 2*time.Second, 10*time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("refresh routine did not stop")
	}

	assert.Equal(t, uint64(1), ds.Store.Current().Version, "identical refreshes keep the version")
}
