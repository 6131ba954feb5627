package app

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"woladen.de/internal/config"
	"woladen.de/internal/dataset"
	"woladen.de/internal/favorites"
	"woladen.de/internal/models"
)

func testStations() []models.Station {
	return []models.Station{
		{
			ID:            "brandenburger-tor",
			Operator:      "EnBW",
			MaxPowerKW:    300,
			Coordinate:    models.Coordinate{Latitude: 52.5163, Longitude: 13.3777},
			City:          "Berlin",
			AmenityCounts: map[string]int{"amenity_cafe": 2},
		},
		{
			ID:            "alexanderplatz",
			Operator:      "Ionity",
			MaxPowerKW:    350,
			Coordinate:    models.Coordinate{Latitude: 52.52, Longitude: 13.405},
			City:          "Berlin",
			AmenityCounts: map[string]int{"amenity_supermarket": 1},
		},
		{
			ID:         "spandau",
			Operator:   "EnBW",
			MaxPowerKW: 22,
			Coordinate: models.Coordinate{Latitude: 52.5351, Longitude: 13.1975},
			City:       "Berlin",
		},
		{
			ID:         "marienplatz",
			Operator:   "Allego",
			MaxPowerKW: 75,
			Coordinate: models.Coordinate{Latitude: 48.1374, Longitude: 11.5755},
			City:       "München",
		},
	}
}

// newTestApplication returns an Application with testStations published
// unless empty is set.
func newTestApplication(t *testing.T, favs favorites.Store, empty bool) *Application {
	t.Helper()

	settings := config.Settings{
		DatasetFile:     "chargers_fast.geojson",
		DatasetCacheDir: t.TempDir(),
	}
	cfg := config.NewConfig(4000, "testing", settings)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	if favs == nil {
		favs = favorites.NewMemoryStore()
	}

	app := New(cfg, favs, logger, http.DefaultClient, "test-version")
	if !empty {
		app.DatasetService.Store.Publish("chargers_fast.geojson", "test", testStations(), dataset.DecodeStats{})
	}
	return app
}

func newTestServer(t *testing.T, app *Application) *httptest.Server {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	srv := httptest.NewServer(app.Routes(ctx))
	t.Cleanup(func() {
		srv.Close()
		cancel()
	})
	return srv
}

// do sends a request with an optional JSON body and decodes a JSON response
// into dst when dst is not nil.
func do(t *testing.T, srv *httptest.Server, method, path, body string, dst interface{}) *http.Response {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req, err := http.NewRequest(method, srv.URL+path, reader)
	require.NoError(t, err)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	if dst != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(dst))
	}
	return resp
}

// failingStore is a favorites.Store whose every call fails.
type failingStore struct{}

var errStoreDown = errors.New("store unavailable")

func (failingStore) Get(context.Context, string) (favorites.Set, error) { return nil, errStoreDown }
func (failingStore) Add(context.Context, string, string) error { return errStoreDown }
func (failingStore) Remove(context.Context, string, string) error { return errStoreDown }
