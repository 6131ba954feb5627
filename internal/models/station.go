package models

// Coordinate is a WGS84 position in degrees.
type Coordinate struct {
	Latitude  float64 `json:"lat"`
	Longitude float64 `json:"lon"`
}

// AmenityExample is a named amenity near a station, kept for display only.
type AmenityExample struct {
	Category     string   `json:"category"`
	Name         string   `json:"name,omitempty"`
	OpeningHours string   `json:"opening_hours,omitempty"`
	DistanceM    *float64 `json:"distance_m,omitempty"`
}

// Station represents a single fast charger location.
//
// Stations are decoded once per dataset load and never mutated afterwards.
// AmenityCounts is keyed by the category key as it appears in the dataset
// (e.g. "amenity_cafe"); a missing key means a count of zero.
//
// IMPORTANT:
// AmenitiesTotal is authoritative for display and coloring even when it does
// not equal the sum of AmenityCounts.
type Station struct {
	ID              string           `json:"id"`
	Operator        string           `json:"operator"`
	Status          string           `json:"status,omitempty"`
	MaxPowerKW      float64          `json:"max_power_kw"`
	Coordinate      Coordinate       `json:"coordinate"`
	Street          string           `json:"street"`
	Postcode        string           `json:"postcode"`
	City            string           `json:"city"`
	AmenityCounts   map[string]int   `json:"amenity_counts"`
	AmenityExamples []AmenityExample `json:"amenity_examples,omitempty"`
	AmenitiesTotal  int              `json:"amenities_total"`
}

// AmenityCount returns the count for the given category key, zero when absent.
func (s Station) AmenityCount(key string) int {
	return s.AmenityCounts[key]
}

// Operator is a charge point operator with the number of stations it runs.
type Operator struct {
	Name         string `json:"name"`
	StationCount int    `json:"station_count"`
}
