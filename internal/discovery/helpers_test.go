package discovery

import (
	"math"

	"woladen.de/internal/models"
)

var berlin = models.Coordinate{Latitude: 52.52, Longitude: 13.405}

// metersPerDegree matches the Earth radius used by the distance function, so
// offsets along a meridian come back as the exact distance.
const metersPerDegree = 6371000 * math.Pi / 180

// offset moves c by the given number of meters to the north and east.
func offset(c models.Coordinate, northM, eastM float64) models.Coordinate {
	return models.Coordinate{
		Latitude:  c.Latitude + northM/metersPerDegree,
		Longitude: c.Longitude + eastM/(metersPerDegree*math.Cos(c.Latitude*math.Pi/180)),
	}
}

func station(id string, c models.Coordinate) models.Station {
	return models.Station{ID: id, Operator: "EnBW", MaxPowerKW: 150, Coordinate: c}
}

func ids(stations []models.Station) []string {
	out := make([]string, len(stations))
	for i, s := range stations {
		out[i] = s.ID
	}
	return out
}
