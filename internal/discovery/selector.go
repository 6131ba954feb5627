// Package discovery selects the stations nearest to a moving reference point
// and accumulates them into an order-stable discovered list.
//
// Nothing in this package locks: an Explorer must have at most one mutator at
// a time, which the caller guarantees.
package discovery

import (
	"sort"

	"woladen.de/internal/geo"
	"woladen.de/internal/models"
)

// DefaultNearestK is the number of stations selected per reference update.
const DefaultNearestK = 20

type ranked struct {
	station  models.Station
	distance float64
}

// SelectNearest returns up to k stations from pool closest to ref, ordered by
// ascending distance with ties broken by station ID.
//
// Stations whose coordinates are not finite are treated as infinitely distant
// and never selected. A non-finite ref selects nothing.
func SelectNearest(pool []models.Station, ref models.Coordinate, k int) []models.Station {
	if k <= 0 || len(pool) == 0 || !geo.IsFinite(ref) {
		return []models.Station{}
	}

	candidates := make([]ranked, 0, len(pool))
	for _, station := range pool {
		if !geo.IsFinite(station.Coordinate) {
			continue
		}
		candidates = append(candidates, ranked{
			station:  station,
			distance: geo.Distance(ref, station.Coordinate),
		})
	}

	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].distance != candidates[j].distance {
			return candidates[i].distance < candidates[j].distance
		}
		return candidates[i].station.ID < candidates[j].station.ID
	})

	if len(candidates) > k {
		candidates = candidates[:k]
	}

	selected := make([]models.Station, len(candidates))
	for i, c := range candidates {
		selected[i] = c.station
	}
	return selected
}
