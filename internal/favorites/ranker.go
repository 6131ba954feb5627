package favorites

import (
	"math"
	"sort"

	"woladen.de/internal/geo"
	"woladen.de/internal/models"
)

// Set is a set of favorite station identifiers.
type Set map[string]struct{}

// NewSet builds a Set from a list of identifiers.
func NewSet(ids ...string) Set {
	s := make(Set, len(ids))
	for _, id := range ids {
		s[id] = struct{}{}
	}
	return s
}

func (s Set) Has(id string) bool {
	_, ok := s[id]
	return ok
}

// IDs returns the identifiers in ascending order.
func (s Set) IDs() []string {
	ids := make([]string, 0, len(s))
	for id := range s {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Rank returns the stations whose ID is in favorites. With a reference point
// they are sorted by ascending distance to it; stations at equal distance, and
// stations without a finite position (sorted last), keep collection order.
// Without a reference point the collection order is kept as is.
func Rank(stations []models.Station, favorites Set, ref *models.Coordinate) []models.Station {
	result := make([]models.Station, 0, len(favorites))
	if len(favorites) == 0 {
		return result
	}
	for _, station := range stations {
		if favorites.Has(station.ID) {
			result = append(result, station)
		}
	}
	if ref == nil || !geo.IsFinite(*ref) {
		return result
	}

	distances := make(map[string]float64, len(result))
	for _, station := range result {
		d := math.Inf(1)
		if geo.IsFinite(station.Coordinate) {
			d = geo.Distance(*ref, station.Coordinate)
		}
		distances[station.ID] = d
	}

	sort.SliceStable(result, func(i, j int) bool {
		return distances[result[i].ID] < distances[result[j].ID]
	})
	return result
}
