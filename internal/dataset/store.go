package dataset

import (
	"sync"
	"time"

	"github.com/tidwall/rtree"
	"woladen.de/internal/filter"
	"woladen.de/internal/geo"
	"woladen.de/internal/models"
)

// Dataset is one published, immutable snapshot of the charger collection.
// Version 0 is the empty dataset published before the first successful load.
type Dataset struct {
	Version   uint64
	Source    string
	Checksum  string
	LoadedAt  time.Time
	Stations  []models.Station
	Operators []models.Operator
	Bounds    geo.BoundingBox
	Stats     DecodeStats

	byID  map[string]int
	index *rtree.RTree
}

func newDataset(version uint64, source, checksum string, stations []models.Station, stats DecodeStats, loadedAt time.Time) *Dataset {
	d := &Dataset{
		Version:   version,
		Source:    source,
		Checksum:  checksum,
		LoadedAt:  loadedAt,
		Stations:  stations,
		Operators: filter.CountOperators(stations),
		Stats:     stats,
		byID:      make(map[string]int, len(stations)),
		index:     buildStationIndex(stations),
	}
	for i, station := range stations {
		d.byID[station.ID] = i
	}
	if bounds, err := geo.ComputeBoundingBox(stations); err == nil {
		d.Bounds = bounds
	}
	return d
}

// Station looks a station up by identifier.
func (d *Dataset) Station(id string) (models.Station, bool) {
	i, ok := d.byID[id]
	if !ok {
		return models.Station{}, false
	}
	return d.Stations[i], true
}

// InBounds returns the stations inside bounds in collection order.
func (d *Dataset) InBounds(bounds geo.BoundingBox) []models.Station {
	positions := queryStationsInBounds(d.index, bounds)
	stations := make([]models.Station, 0, len(positions))
	for _, i := range positions {
		stations = append(stations, d.Stations[i])
	}
	return stations
}

// Len returns the number of stations.
func (d *Dataset) Len() int {
	return len(d.Stations)
}

// Store holds the currently published Dataset.
type Store struct {
	mu      sync.RWMutex
	current *Dataset
}

func NewStore() *Store {
	return &Store{
		current: newDataset(0, "", "", []models.Station{}, DecodeStats{Skipped: map[string]int{}}, time.Time{}),
	}
}

// Current returns the published snapshot. Snapshots are never mutated, so the
// result can be used without holding any lock.
func (s *Store) Current() *Dataset {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// Publish replaces the current snapshot with the given stations under the next
// version number and returns the new snapshot.
func (s *Store) Publish(source, checksum string, stations []models.Station, stats DecodeStats) *Dataset {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.current = newDataset(s.current.Version+1, source, checksum, stations, stats, time.Now())
	return s.current
}
