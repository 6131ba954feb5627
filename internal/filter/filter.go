// Package filter decides which stations match the user's committed filter and
// builds the filtered pool the nearest-station selection works on.
package filter

import "woladen.de/internal/models"

// Matches reports whether station satisfies every constraint in cfg:
//   - the operator constraint is empty or equals station.Operator exactly;
//   - station.MaxPowerKW is at least cfg.MinPowerKW;
//   - every required amenity key has a count greater than zero.
//
// A missing amenity key counts as zero. AmenitiesTotal is never consulted.
func Matches(station models.Station, cfg models.FilterConfiguration) bool {
	if cfg.Operator != "" && station.Operator != cfg.Operator {
		return false
	}
	if !(station.MaxPowerKW >= cfg.MinPowerKW) {
		return false
	}
	for key := range cfg.RequiredAmenities {
		if station.AmenityCount(key) <= 0 {
			return false
		}
	}
	return true
}

// BuildPool returns the stations matching cfg in their original collection order.
// The result never aliases the input slice.
func BuildPool(stations []models.Station, cfg models.FilterConfiguration) []models.Station {
	pool := make([]models.Station, 0, len(stations))
	for _, station := range stations {
		if Matches(station, cfg) {
			pool = append(pool, station)
		}
	}
	return pool
}
