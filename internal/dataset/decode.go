// Package dataset loads the charger collection, normalises it and publishes
// immutable, versioned snapshots for the discovery core.
package dataset

import (
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"math"
	"strings"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"woladen.de/internal/geo"
	"woladen.de/internal/models"
)

// AmenityPrefix marks the per-category amenity count properties.
const AmenityPrefix = "amenity_"

// MaxAmenityExamples bounds the examples kept per station.
const MaxAmenityExamples = 5

// Reasons a feature is dropped during decoding.
const (
	SkipMissingGeometry    = "missing_geometry"
	SkipInvalidCoordinates = "invalid_coordinates"
	SkipDuplicateID        = "duplicate_id"
)

// DecodeStats describes what Decode kept and dropped.
type DecodeStats struct {
	Features int
	Stations int
	Skipped  map[string]int
}

// Decode parses a GeoJSON FeatureCollection of charging stations and returns
// the normalised stations in feature order.
func Decode(data []byte) ([]models.Station, DecodeStats, error) {
	stats := DecodeStats{Skipped: map[string]int{}}

	fc, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		return nil, stats, fmt.Errorf("failed to decode feature collection: %w", err)
	}

	stats.Features = len(fc.Features)
	stations := make([]models.Station, 0, len(fc.Features))
	seen := make(map[string]struct{}, len(fc.Features))

	for _, feature := range fc.Features {
		station, reason := stationFromFeature(feature)
		if reason != "" {
			stats.Skipped[reason]++
			continue
		}
		if _, dup := seen[station.ID]; dup {
			stats.Skipped[SkipDuplicateID]++
			continue
		}
		seen[station.ID] = struct{}{}
		stations = append(stations, station)
	}

	stats.Stations = len(stations)
	return stations, stats, nil
}

// stationFromFeature converts one feature. A non-empty reason means the
// feature must be skipped.
func stationFromFeature(feature *geojson.Feature) (models.Station, string) {
	if feature == nil || feature.Geometry == nil {
		return models.Station{}, SkipMissingGeometry
	}
	point, ok := feature.Geometry.(orb.Point)
	if !ok {
		return models.Station{}, SkipMissingGeometry
	}
	lat, lon := point.Lat(), point.Lon()
	if !geo.IsValidLatLon(lat, lon) {
		return models.Station{}, SkipInvalidCoordinates
	}

	props := feature.Properties
	if props == nil {
		props = geojson.Properties{}
	}

	station := models.Station{
		ID:             strings.TrimSpace(props.MustString("station_id", "")),
		Operator:       strings.TrimSpace(props.MustString("operator", "")),
		Status:         props.MustString("status", ""),
		MaxPowerKW:     nonNegative(props.MustFloat64("max_power_kw", 0)),
		Coordinate:     models.Coordinate{Latitude: lat, Longitude: lon},
		Street:         props.MustString("address", ""),
		Postcode:       postcode(props["postcode"]),
		City:           props.MustString("city", ""),
		AmenityCounts:  map[string]int{},
		AmenitiesTotal: max(props.MustInt("amenities_total", 0), 0),
	}

	for key, value := range props {
		if !strings.HasPrefix(key, AmenityPrefix) || key == "amenity_examples" {
			continue
		}
		if count, ok := value.(float64); ok && count > 0 && !math.IsInf(count, 0) {
			station.AmenityCounts[key] = int(count)
		}
	}

	station.AmenityExamples = amenityExamples(props["amenity_examples"])

	if station.ID == "" {
		station.ID = DeriveStationID(lat, lon, station.Operator, station.Street)
	}
	return station, ""
}

// DeriveStationID builds the identifier the upstream pipeline assigns to
// stations without one: the first 16 hex digits of a SHA-1 over position,
// operator and address.
func DeriveStationID(lat, lon float64, operator, address string) string {
	raw := fmt.Sprintf("%.5f|%.5f|%s|%s", lat, lon, operator, address)
	sum := sha1.Sum([]byte(raw))
	return hex.EncodeToString(sum[:])[:16]
}

func nonNegative(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0
	}
	return v
}

// postcode accepts both string and numeric postcodes; numeric ones lose
// leading zeros upstream and are padded back to five digits.
func postcode(v interface{}) string {
	switch p := v.(type) {
	case string:
		return strings.TrimSpace(p)
	case float64:
		if p <= 0 || p != math.Trunc(p) {
			return ""
		}
		return fmt.Sprintf("%05d", int(p))
	}
	return ""
}

func amenityExamples(v interface{}) []models.AmenityExample {
	raw, ok := v.([]interface{})
	if !ok {
		return nil
	}

	var examples []models.AmenityExample
	for _, item := range raw {
		if len(examples) == MaxAmenityExamples {
			break
		}
		obj, ok := item.(map[string]interface{})
		if !ok {
			continue
		}
		props := geojson.Properties(obj)
		example := models.AmenityExample{
			Category:     props.MustString("category", ""),
			Name:         props.MustString("name", ""),
			OpeningHours: props.MustString("opening_hours", ""),
		}
		if example.Category == "" {
			continue
		}
		if d, ok := obj["distance_m"].(float64); ok && d >= 0 {
			example.DistanceM = &d
		}
		examples = append(examples, example)
	}
	return examples
}
