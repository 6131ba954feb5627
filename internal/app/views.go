package app

import (
	"errors"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"strings"

	"woladen.de/internal/dataset"
	"woladen.de/internal/geo"
	"woladen.de/internal/models"
)

// StationView is a station as rendered by the API, with its distance to the
// reference point when one is known.
type StationView struct {
	models.Station
	DistanceM *float64 `json:"distance_m,omitempty"`
	Distance  string   `json:"distance,omitempty"`
}

func newStationView(station models.Station, ref *models.Coordinate) StationView {
	view := StationView{Station: station}
	if ref == nil || !geo.IsFinite(*ref) || !geo.IsFinite(station.Coordinate) {
		return view
	}
	d := geo.Distance(*ref, station.Coordinate)
	view.DistanceM = &d
	view.Distance = geo.FormatDistance(d)
	return view
}

func newStationViews(stations []models.Station, ref *models.Coordinate) []StationView {
	views := make([]StationView, 0, len(stations))
	for _, station := range stations {
		views = append(views, newStationView(station, ref))
	}
	return views
}

var errInvalidCoordinate = errors.New("invalid coordinate")

// parseFloatParam reads a finite float query parameter. ok is false when the
// parameter is absent.
func parseFloatParam(r *http.Request, name string) (value float64, ok bool, err error) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return 0, false, nil
	}
	value, err = strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(value) || math.IsInf(value, 0) {
		return 0, false, fmt.Errorf("query parameter %q must be a finite number", name)
	}
	return value, true, nil
}

// parseReferenceParams reads an optional lat/lon pair. Both or neither must
// be given.
func parseReferenceParams(r *http.Request) (*models.Coordinate, error) {
	lat, hasLat, err := parseFloatParam(r, "lat")
	if err != nil {
		return nil, err
	}
	lon, hasLon, err := parseFloatParam(r, "lon")
	if err != nil {
		return nil, err
	}
	if !hasLat && !hasLon {
		return nil, nil
	}
	if hasLat != hasLon {
		return nil, errors.New("lat and lon must be given together")
	}
	if !geo.IsValidLatLon(lat, lon) {
		return nil, errInvalidCoordinate
	}
	return &models.Coordinate{Latitude: lat, Longitude: lon}, nil
}

// parseBoundsParams reads the min_lat, min_lon, max_lat and max_lon query
// parameters. All four are required.
func parseBoundsParams(r *http.Request) (geo.BoundingBox, error) {
	names := [4]string{"min_lat", "min_lon", "max_lat", "max_lon"}
	var values [4]float64
	for i, name := range names {
		v, ok, err := parseFloatParam(r, name)
		if err != nil {
			return geo.BoundingBox{}, err
		}
		if !ok {
			return geo.BoundingBox{}, fmt.Errorf("query parameter %q is required", name)
		}
		values[i] = v
	}
	if err := validateBounds(values[0], values[1], values[2], values[3]); err != nil {
		return geo.BoundingBox{}, err
	}
	return geo.NewBoundingBox(values[0], values[1], values[2], values[3]), nil
}

func validateBounds(minLat, minLon, maxLat, maxLon float64) error {
	for _, lat := range []float64{minLat, maxLat} {
		if lat < -90 || lat > 90 {
			return errors.New("latitude out of range")
		}
	}
	for _, lon := range []float64{minLon, maxLon} {
		if lon < -180 || lon > 180 {
			return errors.New("longitude out of range")
		}
	}
	return nil
}

// normalizeAmenityKey accepts "cafe" as well as "amenity_cafe".
func normalizeAmenityKey(raw string) (string, error) {
	key := strings.ToLower(strings.TrimSpace(raw))
	key = strings.TrimPrefix(key, dataset.AmenityPrefix)
	if key == "" || key == "examples" {
		return "", fmt.Errorf("invalid amenity %q", raw)
	}
	return dataset.AmenityPrefix + key, nil
}
