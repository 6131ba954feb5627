package dataset

import (
	"sort"

	"github.com/tidwall/rtree"
	"woladen.de/internal/geo"
	"woladen.de/internal/models"
)

// buildStationIndex creates an R-tree over station positions. Each entry
// carries the station's position in the collection so query results can be
// returned in collection order.
func buildStationIndex(stations []models.Station) *rtree.RTree {
	tree := &rtree.RTree{}

	// For points, min and max are the same [lat, lon]
	for i, station := range stations {
		if !geo.IsFinite(station.Coordinate) {
			continue
		}
		point := [2]float64{station.Coordinate.Latitude, station.Coordinate.Longitude}
		tree.Insert(point, point, i)
	}

	return tree
}

// queryStationsInBounds returns the positions of all indexed stations inside
// bounds, ascending.
func queryStationsInBounds(tree *rtree.RTree, bounds geo.BoundingBox) []int {
	if tree == nil {
		return []int{}
	}

	results := []int{}
	tree.Search(
		[2]float64{bounds.MinLat, bounds.MinLon},
		[2]float64{bounds.MaxLat, bounds.MaxLon},
		func(min, max [2]float64, data interface{}) bool {
			if i, ok := data.(int); ok {
				results = append(results, i)
			}
			return true
		},
	)

	sort.Ints(results)
	return results
}
