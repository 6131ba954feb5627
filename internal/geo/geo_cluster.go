package geo

import (
	"fmt"
	"sort"

	"github.com/golang/geo/s2"
	"woladen.de/internal/models"
)

// DefaultClusterLevel is the S2 cell level used for map clusters (7–10 km cells).
const DefaultClusterLevel = 10

// Cluster groups the stations that fall into one S2 cell.
type Cluster struct {
	ID     string            `json:"id"`
	Count  int               `json:"count"`
	Center models.Coordinate `json:"center"`
}

// S2ClusterID generates a stable S2-based cluster ID for a lat/lon.
func S2ClusterID(lat, lon float64, level int) string {
	ll := s2.LatLngFromDegrees(lat, lon)
	cellID := s2.CellIDFromLatLng(ll).Parent(level)
	return fmt.Sprintf("s2_%d", uint64(cellID))
}

// ClusterStations groups stations by S2 cell at the given level. Stations with
// non-finite coordinates are skipped. Clusters are ordered by descending count,
// then by ID, so map output is deterministic.
func ClusterStations(stations []models.Station, level int) []Cluster {
	index := make(map[string]int)
	var clusters []Cluster

	for _, station := range stations {
		if !IsFinite(station.Coordinate) {
			continue
		}
		ll := s2.LatLngFromDegrees(station.Coordinate.Latitude, station.Coordinate.Longitude)
		cellID := s2.CellIDFromLatLng(ll).Parent(level)
		id := fmt.Sprintf("s2_%d", uint64(cellID))

		if i, ok := index[id]; ok {
			clusters[i].Count++
			continue
		}

		center := cellID.LatLng()
		index[id] = len(clusters)
		clusters = append(clusters, Cluster{
			ID:    id,
			Count: 1,
			Center: models.Coordinate{
				Latitude:  center.Lat.Degrees(),
				Longitude: center.Lng.Degrees(),
			},
		})
	}

	sort.Slice(clusters, func(i, j int) bool {
		if clusters[i].Count != clusters[j].Count {
			return clusters[i].Count > clusters[j].Count
		}
		return clusters[i].ID < clusters[j].ID
	})
	return clusters
}
