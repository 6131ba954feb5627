package filter

import "woladen.de/internal/models"

// Draft is an editable copy of a FilterConfiguration. Edits never touch the
// committed configuration; Commit hands back a fresh copy to apply atomically.
type Draft struct {
	cfg models.FilterConfiguration
}

// NewDraft starts editing from the given committed configuration.
func NewDraft(committed models.FilterConfiguration) *Draft {
	return &Draft{cfg: committed.Clone()}
}

func (d *Draft) SetOperator(operator string) *Draft {
	d.cfg.Operator = operator
	return d
}

func (d *Draft) SetMinPowerKW(kw float64) *Draft {
	if kw < 0 {
		kw = 0
	}
	d.cfg.MinPowerKW = kw
	return d
}

// ToggleAmenity adds key to the required set, or removes it if already present.
func (d *Draft) ToggleAmenity(key string) *Draft {
	if _, ok := d.cfg.RequiredAmenities[key]; ok {
		delete(d.cfg.RequiredAmenities, key)
	} else {
		d.cfg.RequiredAmenities[key] = struct{}{}
	}
	return d
}

func (d *Draft) RequireAmenities(keys ...string) *Draft {
	for _, key := range keys {
		d.cfg.RequiredAmenities[key] = struct{}{}
	}
	return d
}

// Reset discards all edits and returns to the default configuration.
func (d *Draft) Reset() *Draft {
	d.cfg = models.DefaultFilterConfiguration()
	return d
}

// Commit returns the edited configuration. The draft stays usable and further
// edits do not leak into the returned value.
func (d *Draft) Commit() models.FilterConfiguration {
	return d.cfg.Clone()
}
