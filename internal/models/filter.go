package models

// DefaultMinPowerKW is the minimum charging power applied when the user has not
// chosen one.
const DefaultMinPowerKW = 50

// FilterConfiguration holds the user's committed station filter.
// An empty Operator and an empty RequiredAmenities set mean "no constraint".
type FilterConfiguration struct {
	Operator          string              `json:"operator"`
	MinPowerKW        float64             `json:"min_power_kw"`
	RequiredAmenities map[string]struct{} `json:"-"`
}

// DefaultFilterConfiguration returns the filter used before the user commits one.
func DefaultFilterConfiguration() FilterConfiguration {
	return FilterConfiguration{
		MinPowerKW:        DefaultMinPowerKW,
		RequiredAmenities: map[string]struct{}{},
	}
}

// Clone returns a deep copy so that the amenity set is never shared between
// a draft and a committed configuration.
func (f FilterConfiguration) Clone() FilterConfiguration {
	amenities := make(map[string]struct{}, len(f.RequiredAmenities))
	for key := range f.RequiredAmenities {
		amenities[key] = struct{}{}
	}
	f.RequiredAmenities = amenities
	return f
}

// AmenityKeys returns the required amenity keys in no particular order.
func (f FilterConfiguration) AmenityKeys() []string {
	keys := make([]string, 0, len(f.RequiredAmenities))
	for key := range f.RequiredAmenities {
		keys = append(keys, key)
	}
	return keys
}
