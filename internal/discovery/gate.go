package discovery

import (
	"woladen.de/internal/geo"
	"woladen.de/internal/models"
)

// DefaultMovementThresholdM is how far, in meters, the reference point must move
// before the nearest stations are selected again.
const DefaultMovementThresholdM = 250.0

// ShouldReselect reports whether moving from prev to candidate warrants a new
// selection: always when there is no previous point, otherwise only when the
// displacement strictly exceeds thresholdM. A non-finite candidate never passes.
func ShouldReselect(prev *models.Coordinate, candidate models.Coordinate, thresholdM float64) bool {
	if !geo.IsFinite(candidate) {
		return false
	}
	if prev == nil {
		return true
	}
	return exceedsThreshold(geo.Distance(*prev, candidate), thresholdM)
}

func exceedsThreshold(distanceM, thresholdM float64) bool {
	return distanceM > thresholdM
}

// MovementGate remembers the last accepted reference point. Rejected
// candidates do not move it, so slow drift still triggers once the
// accumulated displacement passes the threshold.
type MovementGate struct {
	ThresholdM float64
	previous   *models.Coordinate
}

func NewMovementGate(thresholdM float64) *MovementGate {
	if thresholdM < 0 {
		thresholdM = 0
	}
	return &MovementGate{ThresholdM: thresholdM}
}

// Allow reports whether candidate passes the gate, recording it when it does.
func (g *MovementGate) Allow(candidate models.Coordinate) bool {
	if !ShouldReselect(g.previous, candidate, g.ThresholdM) {
		return false
	}
	c := candidate
	g.previous = &c
	return true
}

// Forget drops the remembered point so the next candidate always passes.
func (g *MovementGate) Forget() {
	g.previous = nil
}

// Previous returns the last accepted point, if any.
func (g *MovementGate) Previous() (models.Coordinate, bool) {
	if g.previous == nil {
		return models.Coordinate{}, false
	}
	return *g.previous, true
}
