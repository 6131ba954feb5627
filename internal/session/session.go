// Package session keeps one discovery Explorer per client session and keeps
// it in step with the published dataset.
package session

import (
	"sort"
	"sync"
	"time"

	"woladen.de/internal/dataset"
	"woladen.de/internal/discovery"
	"woladen.de/internal/filter"
	"woladen.de/internal/geo"
	"woladen.de/internal/metrics"
	"woladen.de/internal/models"
)

// Session owns an Explorer. All access goes through the session mutex, so
// the Explorer only ever sees one mutator at a time.
type Session struct {
	ID        string
	CreatedAt time.Time

	mu       sync.Mutex
	explorer *discovery.Explorer
	dataset  *dataset.Dataset
	store    *dataset.Store
	metrics  *metrics.MetricsService
}

// State is a point-in-time summary of a session.
type State struct {
	ID              string                     `json:"id"`
	CreatedAt       time.Time                  `json:"created_at"`
	DatasetVersion  uint64                     `json:"dataset_version"`
	Filter          models.FilterConfiguration `json:"filter"`
	Amenities       []string                   `json:"required_amenities"`
	Reference       *models.Coordinate         `json:"reference,omitempty"`
	PoolSize        int                        `json:"pool_size"`
	DiscoveredCount int                        `json:"discovered_count"`
}

// MapView is the content of a map viewport.
type MapView struct {
	Bounds     geo.BoundingBox    `json:"bounds"`
	Discovered []models.Station   `json:"discovered"`
	Clusters   []geo.Cluster      `json:"clusters"`
	Reference  *models.Coordinate `json:"reference,omitempty"`
}

func newSession(id string, store *dataset.Store, opts discovery.Options, ms *metrics.MetricsService) *Session {
	current := store.Current()
	return &Session{
		ID:        id,
		CreatedAt: time.Now().UTC(),
		explorer:  discovery.NewExplorer(current.Stations, opts),
		dataset:   current,
		store:     store,
		metrics:   ms,
	}
}

// syncDataset reloads the explorer when a newer dataset has been published.
// Callers must hold s.mu.
func (s *Session) syncDataset() {
	current := s.store.Current()
	if current.Version == s.dataset.Version {
		return
	}
	s.explorer.Reload(current.Stations)
	s.dataset = current
	s.metrics.RecordFilterCommit(s.explorer.PoolSize())
}

func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.syncDataset()
	return s.state()
}

func (s *Session) state() State {
	cfg := s.explorer.Filter()
	amenities := cfg.AmenityKeys()
	sort.Strings(amenities)

	st := State{
		ID:              s.ID,
		CreatedAt:       s.CreatedAt,
		DatasetVersion:  s.dataset.Version,
		Filter:          cfg,
		Amenities:       amenities,
		PoolSize:        s.explorer.PoolSize(),
		DiscoveredCount: s.explorer.DiscoveredLen(),
	}
	if ref, ok := s.explorer.Reference(); ok {
		st.Reference = &ref
	}
	return st
}

// ApplyFilter commits cfg. The pool is rebuilt and the discovered list
// starts over around the current reference point.
func (s *Session) ApplyFilter(cfg models.FilterConfiguration) State {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.syncDataset()

	s.explorer.ApplyFilter(cfg)
	s.metrics.RecordFilterCommit(s.explorer.PoolSize())
	return s.state()
}

// UpdateReference submits a new reference point with its sequence number.
func (s *Session) UpdateReference(point models.Coordinate, seq uint64) (discovery.Update, State) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.syncDataset()

	update := s.explorer.UpdateReference(point, seq)
	s.metrics.RecordReferenceUpdate(update.Stale, update.Reselected, update.Added)
	return update, s.state()
}

// Discovered returns the discovered stations in display order along with the
// reference point they were selected around.
func (s *Session) Discovered() ([]models.Station, *models.Coordinate) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.syncDataset()

	var ref *models.Coordinate
	if r, ok := s.explorer.Reference(); ok {
		ref = &r
	}
	return s.explorer.Discovered(), ref
}

// Map returns the discovered stations inside bounds plus S2 clusters of all
// stations inside bounds that pass the committed filter.
func (s *Session) Map(bounds geo.BoundingBox, clusterLevel int) MapView {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.syncDataset()

	view := MapView{
		Bounds:     bounds,
		Discovered: []models.Station{},
	}
	for _, station := range s.explorer.Discovered() {
		if bounds.Contains(station.Coordinate.Latitude, station.Coordinate.Longitude) {
			view.Discovered = append(view.Discovered, station)
		}
	}

	visible := filter.BuildPool(s.dataset.InBounds(bounds), s.explorer.Filter())
	view.Clusters = geo.ClusterStations(visible, clusterLevel)
	if view.Clusters == nil {
		view.Clusters = []geo.Cluster{}
	}

	if ref, ok := s.explorer.Reference(); ok {
		view.Reference = &ref
	}
	return view
}
