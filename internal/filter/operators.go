package filter

import (
	"sort"
	"strings"

	"woladen.de/internal/models"
)

// OperatorOrder selects how ListOperators sorts its result.
type OperatorOrder int

const (
	// ByName sorts case-insensitively by name, ties broken by the exact name.
	ByName OperatorOrder = iota
	// ByStationCount sorts by descending station count, ties broken like ByName.
	ByStationCount
)

// CountOperators tallies stations per operator name, skipping empty names.
func CountOperators(stations []models.Station) []models.Operator {
	counts := make(map[string]int)
	var names []string
	for _, station := range stations {
		if station.Operator == "" {
			continue
		}
		if _, seen := counts[station.Operator]; !seen {
			names = append(names, station.Operator)
		}
		counts[station.Operator]++
	}

	operators := make([]models.Operator, 0, len(names))
	for _, name := range names {
		operators = append(operators, models.Operator{Name: name, StationCount: counts[name]})
	}
	return operators
}

// ListOperators returns the operators having at least minStations stations,
// sorted deterministically according to order.
func ListOperators(operators []models.Operator, minStations int, order OperatorOrder) []models.Operator {
	result := make([]models.Operator, 0, len(operators))
	for _, op := range operators {
		if op.Name == "" || op.StationCount < minStations {
			continue
		}
		result = append(result, op)
	}

	byName := func(a, b models.Operator) bool {
		la, lb := strings.ToLower(a.Name), strings.ToLower(b.Name)
		if la != lb {
			return la < lb
		}
		return a.Name < b.Name
	}

	sort.SliceStable(result, func(i, j int) bool {
		if order == ByStationCount && result[i].StationCount != result[j].StationCount {
			return result[i].StationCount > result[j].StationCount
		}
		return byName(result[i], result[j])
	})
	return result
}
