package geo

import (
	"fmt"
	"math"
)

// FormatDistance renders a distance for display: whole meters below one
// kilometer, otherwise kilometers with one decimal ("999 m", "1.5 km").
//
// Values are rounded half away from zero before the unit is chosen, so 999.6 m
// is shown as "1.0 km" rather than "1000 m".
func FormatDistance(meters float64) string {
	if math.IsNaN(meters) || meters < 0 {
		meters = 0
	}
	if math.IsInf(meters, 1) {
		return "∞ km"
	}

	rounded := math.Round(meters)
	if rounded < 1000 {
		return fmt.Sprintf("%d m", int64(rounded))
	}

	tenths := math.Round(meters / 100)
	return fmt.Sprintf("%.1f km", tenths/10)
}
