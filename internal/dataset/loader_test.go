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
	"gopkg.in/dnaeon/go-vcr.v4/pkg/cassette"
	"gopkg.in/dnaeon/go-vcr.v4/pkg/recorder"
	"woladen.de/internal/utils"
)

func TestLoaderFetchFile(t *testing.T) {
	loader := NewLoader(http.DefaultClient, t.TempDir(), 1, testLogger())

	data, origin, err := loader.Fetch(context.Background(), filepath.Join("testdata", "chargers_fast.geojson"))
	require.NoError(t, err)
	assert.Equal(t, OriginFile, origin)
	assert.Equal(t, readFixture(t, "chargers_fast.geojson"), data)

	_, _, err = loader.Fetch(context.Background(), filepath.Join("testdata", "missing.geojson"))
	assert.Error(t, err)

	_, _, err = loader.Fetch(context.Background(), "")
	assert.Error(t, err)
}

func TestLoaderFetchRemoteWithVCR(t *testing.T) {
	rec, err := recorder.New(filepath.Join("testdata", "vcr", "dataset_remote_fetch"),
		recorder.WithMode(recorder.ModeReplayOnly),
		recorder.WithMatcher(func(r *http.Request, i cassette.Request) bool {
			return r.Method == i.Method && r.URL.String() == i.URL
		}),
	)
	require.NoError(t, err)
	defer rec.Stop()

	client := &http.Client{
		Transport: rec,
		Timeout:   10 * time.Second,
	}
	cacheDir := t.TempDir()
	loader := NewLoader(client, cacheDir, 1, testLogger())
	source := "https://data.woladen.de/chargers_fast.geojson"

	data, origin, err := loader.Fetch(context.Background(), source)
	require.NoError(t, err)
	assert.Equal(t, OriginRemote, origin)

	stations, stats, err := Decode(data)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.Stations)
	assert.Equal(t, "frankfurt-roemer", stations[0].ID)
	assert.Equal(t, "Aral pulse", stations[1].Operator)

	cached, err := utils.GetLastCachedFile(cacheDir, source)
	require.NoError(t, err)
	cachedData, err := os.ReadFile(cached)
	require.NoError(t, err)
	assert.Equal(t, data, cachedData)
}

func TestLoaderFallsBackToCache(t *testing.T) {
	var failing atomic.Bool
	fixture := readFixture(t, "chargers_fast.geojson")

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if failing.Load() {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Header().Set("Content-Type", "application/geo+json")
		w.Write(fixture)
	}))
	defer ts.Close()

	cacheDir := t.TempDir()
	loader := NewLoader(ts.Client(), cacheDir, 1, testLogger())
	source := ts.URL + "/chargers_fast.geojson"

	data, origin, err := loader.Fetch(context.Background(), source)
	require.NoError(t, err)
	assert.Equal(t, OriginRemote, origin)
	assert.Equal(t, fixture, data)

	failing.Store(true)

	data, origin, err = loader.Fetch(context.Background(), source)
	require.NoError(t, err)
	assert.Equal(t, OriginCache, origin)
	assert.Equal(t, fixture, data)
}

func TestLoaderRemoteFailureWithoutCache(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer ts.Close()

	loader := NewLoader(ts.Client(), t.TempDir(), 1, testLogger())

	_, _, err := loader.Fetch(context.Background(), ts.URL+"/missing.geojson")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "404")
	assert.Contains(t, err.Error(), "no cached copy")
}
