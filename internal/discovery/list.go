package discovery

import "woladen.de/internal/models"

type entry struct {
	station      models.Station
	lastSelected uint64
}

// DiscoveredList is the ordered set of stations surfaced to list and map
// views. New stations are appended; stations already present keep their
// position across merges until the list is reset.
//
// With a positive capacity, the least recently selected entries are evicted
// after a merge that grows the list past it. Survivors keep their relative
// order. A capacity of zero never evicts.
type DiscoveredList struct {
	order    []string
	entries  map[string]*entry
	capacity int
	merges   uint64
}

// NewDiscoveredList returns an empty list. capacity <= 0 disables eviction.
func NewDiscoveredList(capacity int) *DiscoveredList {
	if capacity < 0 {
		capacity = 0
	}
	return &DiscoveredList{
		entries:  make(map[string]*entry),
		capacity: capacity,
	}
}

// Merge folds a selection into the list and returns how many stations were
// appended. Payloads of already-present stations are refreshed in place.
func (l *DiscoveredList) Merge(selected []models.Station) int {
	l.merges++
	added := 0
	for _, station := range selected {
		if e, ok := l.entries[station.ID]; ok {
			e.station = station
			e.lastSelected = l.merges
			continue
		}
		l.entries[station.ID] = &entry{station: station, lastSelected: l.merges}
		l.order = append(l.order, station.ID)
		added++
	}
	l.evict()
	return added
}

// evict drops the least recently selected entries until the list fits its
// capacity. Entries from the current merge are never dropped, so a selection
// larger than the capacity is kept whole.
func (l *DiscoveredList) evict() {
	if l.capacity == 0 || len(l.order) <= l.capacity {
		return
	}

	for len(l.order) > l.capacity {
		oldest := -1
		for i, id := range l.order {
			e := l.entries[id]
			if e.lastSelected == l.merges {
				continue
			}
			if oldest == -1 || e.lastSelected < l.entries[l.order[oldest]].lastSelected {
				oldest = i
			}
		}
		if oldest == -1 {
			return
		}
		delete(l.entries, l.order[oldest])
		l.order = append(l.order[:oldest], l.order[oldest+1:]...)
	}
}

// Reset clears the list. Used when the filtered pool changes.
func (l *DiscoveredList) Reset() {
	l.order = nil
	l.entries = make(map[string]*entry)
	l.merges = 0
}

func (l *DiscoveredList) Len() int {
	return len(l.order)
}

func (l *DiscoveredList) Contains(id string) bool {
	_, ok := l.entries[id]
	return ok
}

func (l *DiscoveredList) Get(id string) (models.Station, bool) {
	e, ok := l.entries[id]
	if !ok {
		return models.Station{}, false
	}
	return e.station, true
}

// IDs returns the station identifiers in display order.
func (l *DiscoveredList) IDs() []string {
	return append([]string(nil), l.order...)
}

// Stations returns the discovered stations in display order.
func (l *DiscoveredList) Stations() []models.Station {
	stations := make([]models.Station, len(l.order))
	for i, id := range l.order {
		stations[i] = l.entries[id].station
	}
	return stations
}
