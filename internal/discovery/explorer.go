package discovery

import (
	"woladen.de/internal/filter"
	"woladen.de/internal/models"
)

// Options tunes an Explorer. Zero values fall back to the defaults, except
// MaxDiscovered where zero means "never evict".
type Options struct {
	NearestK           int
	MovementThresholdM float64
	MaxDiscovered      int
}

func DefaultOptions() Options {
	return Options{
		NearestK:           DefaultNearestK,
		MovementThresholdM: DefaultMovementThresholdM,
	}
}

// Update describes what a reference point update did.
type Update struct {
	// Stale is set when the update carried an older sequence number than one
	// already applied; nothing else changed.
	Stale bool
	// Reselected is set when the movement gate let the update through and a
	// nearest-K selection was merged into the discovered list.
	Reselected bool
	// Added is the number of stations appended by the merge.
	Added int
}

// Explorer is the caller-owned state behind one list/map view: the station
// collection, the committed filter and its pool, the discovered list, the
// movement gate and the current reference point.
type Explorer struct {
	stations  []models.Station
	filter    models.FilterConfiguration
	pool      []models.Station
	list      *DiscoveredList
	gate      *MovementGate
	nearestK  int
	reference *models.Coordinate
	lastSeq   uint64
}

// NewExplorer builds the pool for stations under the default filter. The
// stations slice is treated as immutable and is not copied.
func NewExplorer(stations []models.Station, opts Options) *Explorer {
	if opts.NearestK <= 0 {
		opts.NearestK = DefaultNearestK
	}
	if opts.MovementThresholdM <= 0 {
		opts.MovementThresholdM = DefaultMovementThresholdM
	}

	e := &Explorer{
		stations: stations,
		filter:   models.DefaultFilterConfiguration(),
		list:     NewDiscoveredList(opts.MaxDiscovered),
		gate:     NewMovementGate(opts.MovementThresholdM),
		nearestK: opts.NearestK,
	}
	e.pool = filter.BuildPool(e.stations, e.filter)
	return e
}

// ApplyFilter commits cfg, rebuilds the pool and resets the discovered list.
func (e *Explorer) ApplyFilter(cfg models.FilterConfiguration) {
	e.filter = cfg.Clone()
	e.rebuild()
}

// Reload swaps in a freshly loaded collection, keeping the committed filter.
func (e *Explorer) Reload(stations []models.Station) {
	e.stations = stations
	e.rebuild()
}

// rebuild recomputes the pool and clears the discovered list. When a
// reference point is already known, the gate is reopened and the nearest
// stations of the new pool are selected right away.
func (e *Explorer) rebuild() {
	e.pool = filter.BuildPool(e.stations, e.filter)
	e.list.Reset()
	e.gate.Forget()

	if e.reference != nil && e.gate.Allow(*e.reference) {
		e.list.Merge(SelectNearest(e.pool, *e.reference, e.nearestK))
	}
}

// UpdateReference moves the reference point. seq orders concurrent updates:
// an update with a lower seq than one already applied is ignored.
func (e *Explorer) UpdateReference(point models.Coordinate, seq uint64) Update {
	if seq < e.lastSeq {
		return Update{Stale: true}
	}
	e.lastSeq = seq

	p := point
	e.reference = &p

	if !e.gate.Allow(point) {
		return Update{}
	}
	added := e.list.Merge(SelectNearest(e.pool, point, e.nearestK))
	return Update{Reselected: true, Added: added}
}

// Filter returns a copy of the committed filter.
func (e *Explorer) Filter() models.FilterConfiguration {
	return e.filter.Clone()
}

func (e *Explorer) PoolSize() int {
	return len(e.pool)
}

// Stations returns the full collection the explorer works on.
func (e *Explorer) Stations() []models.Station {
	return e.stations
}

// Discovered returns the discovered stations in display order.
func (e *Explorer) Discovered() []models.Station {
	return e.list.Stations()
}

func (e *Explorer) DiscoveredLen() int {
	return e.list.Len()
}

func (e *Explorer) IsDiscovered(id string) bool {
	return e.list.Contains(id)
}

// Reference returns the latest reference point, accepted by the gate or not.
func (e *Explorer) Reference() (models.Coordinate, bool) {
	if e.reference == nil {
		return models.Coordinate{}, false
	}
	return *e.reference, true
}
