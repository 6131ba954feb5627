package dataset

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeFixture(t *testing.T) {
	stations, stats, err := Decode(readFixture(t, "chargers_fast.geojson"))
	require.NoError(t, err)

	assert.Equal(t, 6, stats.Features)
	assert.Equal(t, 4, stats.Stations)
	assert.Equal(t, map[string]int{SkipInvalidCoordinates: 1, SkipDuplicateID: 1}, stats.Skipped)
	require.Len(t, stations, 4)

	t.Run("full record", func(t *testing.T) {
		tor := stations[0]
		assert.Equal(t, "brandenburger-tor", tor.ID)
		assert.Equal(t, "EnBW", tor.Operator)
		assert.Equal(t, "In Betrieb", tor.Status)
		assert.Equal(t, 300.0, tor.MaxPowerKW)
		assert.Equal(t, 52.5163, tor.Coordinate.Latitude)
		assert.Equal(t, 13.3777, tor.Coordinate.Longitude)
		assert.Equal(t, "Pariser Platz 1", tor.Street)
		assert.Equal(t, "10117", tor.Postcode)
		assert.Equal(t, "Berlin", tor.City)
		assert.Equal(t, 4, tor.AmenitiesTotal)
		assert.Equal(t, map[string]int{"amenity_cafe": 2, "amenity_toilets": 1, "amenity_restaurant": 1}, tor.AmenityCounts)

		require.Len(t, tor.AmenityExamples, 2)
		assert.Equal(t, "cafe", tor.AmenityExamples[0].Category)
		assert.Equal(t, "Kaffee am Tor", tor.AmenityExamples[0].Name)
		assert.Equal(t, "Mo-Su 08:00-20:00", tor.AmenityExamples[0].OpeningHours)
		require.NotNil(t, tor.AmenityExamples[0].DistanceM)
		assert.Equal(t, 42.5, *tor.AmenityExamples[0].DistanceM)
		assert.Nil(t, tor.AmenityExamples[1].DistanceM)
	})

	t.Run("duplicate keeps first", func(t *testing.T) {
		assert.Equal(t, "EnBW", stations[0].Operator)
	})

	t.Run("missing id is derived", func(t *testing.T) {
		munich := stations[2]
		assert.Equal(t, DeriveStationID(48.1374, 11.5755, "Allego", "Marienplatz 8"), munich.ID)
		assert.Len(t, munich.ID, 16)
		assert.Equal(t, "80331", munich.Postcode)
		assert.Empty(t, munich.AmenityCounts)
	})

	t.Run("negative values are clamped", func(t *testing.T) {
		hamburg := stations[3]
		assert.Equal(t, "hamburg-rathaus", hamburg.ID)
		assert.Equal(t, 0.0, hamburg.MaxPowerKW)
		assert.Equal(t, 0, hamburg.AmenitiesTotal)
		assert.Equal(t, 0, hamburg.AmenityCount("amenity_cafe"))
		assert.Equal(t, "01067", hamburg.Postcode)
	})
}

func TestDecodeCapsAmenityExamples(t *testing.T) {
	data := []byte(`{"type": "FeatureCollection", "features": [
		{"type": "Feature", "geometry": {"type": "Point", "coordinates": [13.4, 52.5]},
		 "properties": {"station_id": "many", "amenity_examples": [
			{"category": "cafe"}, {"category": "bakery"}, {"name": "no category"},
			{"category": "park"}, {"category": "museum"}, {"category": "hotel"},
			{"category": "pharmacy"}, {"category": "playground"}
		 ]}}
	]}`)

	stations, _, err := Decode(data)
	require.NoError(t, err)
	require.Len(t, stations, 1)

	var categories []string
	for _, ex := range stations[0].AmenityExamples {
		categories = append(categories, ex.Category)
	}
	assert.Equal(t, []string{"cafe", "bakery", "park", "museum", "hotel"}, categories)
}

func TestDecodeRejectsInvalidDocuments(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"not json", `{ nope`},
		{"features not a list", `{"type": "FeatureCollection", "features": {"oops": 1}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := Decode([]byte(tt.data))
			assert.Error(t, err)
		})
	}
}

func TestDecodeEmptyCollection(t *testing.T) {
	stations, stats, err := Decode([]byte(`{"type": "FeatureCollection", "features": []}`))
	require.NoError(t, err)
	assert.NotNil(t, stations)
	assert.Empty(t, stations)
	assert.Equal(t, 0, stats.Features)
}

func TestDeriveStationID(t *testing.T) {
	a := DeriveStationID(52.52, 13.405, "EnBW", "Alexanderplatz 1")
	b := DeriveStationID(52.520001, 13.405001, "EnBW", "Alexanderplatz 1")
	c := DeriveStationID(52.52, 13.405, "Ionity", "Alexanderplatz 1")

	assert.Len(t, a, 16)
	// positions are rounded to five decimals before hashing
	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
}
