package app

import (
	"io"
	"net/http"
	"strings"
	"testing"

	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"woladen.de/internal/metrics"
	"woladen.de/internal/models"
)

func TestRoutesMiddleware(t *testing.T) {
	app := newTestApplication(t, nil, false)
	srv := newTestServer(t, app)

	t.Run("security headers", func(t *testing.T) {
		resp := do(t, srv, http.MethodGet, "/v1/healthcheck", "", nil)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, "nosniff", resp.Header.Get("X-Content-Type-Options"))
	})

	t.Run("unknown route", func(t *testing.T) {
		var body map[string]string
		resp := do(t, srv, http.MethodGet, "/v2/anything", "", &body)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		assert.NotEmpty(t, body["error"])
	})

	t.Run("method not allowed", func(t *testing.T) {
		var body map[string]string
		resp := do(t, srv, http.MethodPost, "/v1/healthcheck", "", &body)
		assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
		assert.Contains(t, body["error"], "POST")
	})

	t.Run("metrics", func(t *testing.T) {
		resp := do(t, srv, http.MethodGet, "/metrics", "", nil)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})
}

func TestRoutesCORS(t *testing.T) {
	app := newTestApplication(t, nil, false)
	settings := app.ConfigService.Config.GetSettings()
	settings.AllowedOrigins = []string{"https://woladen.de"}
	app.ConfigService.Config.UpdateConfig(settings)
	srv := newTestServer(t, app)

	preflight := func(origin string) *http.Response {
		req, err := http.NewRequest(http.MethodOptions, srv.URL+"/v1/sessions", nil)
		require.NoError(t, err)
		req.Header.Set("Origin", origin)
		req.Header.Set("Access-Control-Request-Method", http.MethodPost)
		resp, err := srv.Client().Do(req)
		require.NoError(t, err)
		resp.Body.Close()
		return resp
	}

	resp := preflight("https://woladen.de")
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	assert.Equal(t, "https://woladen.de", resp.Header.Get("Access-Control-Allow-Origin"))

	resp = preflight("https://elsewhere.example")
	assert.Empty(t, resp.Header.Get("Access-Control-Allow-Origin"))
}

func TestMetricsEndpointExposesDatasetMetrics(t *testing.T) {
	app := newTestApplication(t, nil, false)
	app.MetricsService.RecordDatasetLoad(metrics.DatasetLoad{Source: "routes-test", Stations: 4, Operators: 3})
	srv := newTestServer(t, app)

	resp, err := srv.Client().Get(srv.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(body), `source="routes-test"`))
}

func TestCollectSessionMetrics(t *testing.T) {
	app := newTestApplication(t, nil, false)
	app.Sessions.Create()
	app.Sessions.Create()

	metrics.ActiveSessions.Set(0)
	app.collectSessionMetrics()

	var m dto.Metric
	require.NoError(t, metrics.ActiveSessions.Write(&m))
	assert.Equal(t, float64(2), m.GetGauge().GetValue())
}

func TestNormalizeAmenityKey(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{in: "cafe", want: "amenity_cafe"},
		{in: "amenity_cafe", want: "amenity_cafe"},
		{in: " Toilets ", want: "amenity_toilets"},
		{in: "", wantErr: true},
		{in: "amenity_", wantErr: true},
		{in: "examples", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := normalizeAmenityKey(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNewStationView(t *testing.T) {
	station := models.Station{ID: "a", Coordinate: models.Coordinate{Latitude: 52.52, Longitude: 13.405}}

	view := newStationView(station, nil)
	assert.Nil(t, view.DistanceM)
	assert.Empty(t, view.Distance)

	ref := models.Coordinate{Latitude: 52.5245, Longitude: 13.405}
	view = newStationView(station, &ref)
	require.NotNil(t, view.DistanceM)
	assert.InDelta(t, 500, *view.DistanceM, 1)
	assert.Equal(t, "500 m", view.Distance)
}
