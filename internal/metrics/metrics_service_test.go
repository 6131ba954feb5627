package metrics

import (
	"testing"
	"time"
)

func TestRecordDatasetLoad(t *testing.T) {
	ms := NewMetricsService(nil)
	source := "test-record-load.geojson"
	loadedAt := time.Unix(1700000000, 0)

	ms.RecordDatasetLoad(DatasetLoad{
		Source:    source,
		Stations:  42,
		Operators: 7,
		Skipped:   map[string]int{"invalid_coordinates": 3},
		LoadedAt:  loadedAt,
	})

	tests := []struct {
		name   string
		value  func() (float64, error)
		expect float64
	}{
		{"status", func() (float64, error) {
			return getMetricValue(DatasetLoadStatus, map[string]string{"source": source})
		}, 1},
		{"stations", func() (float64, error) {
			return getMetricValue(DatasetStations, map[string]string{"source": source})
		}, 42},
		{"operators", func() (float64, error) {
			return getMetricValue(DatasetOperators, map[string]string{"source": source})
		}, 7},
		{"skipped", func() (float64, error) {
			return getMetricValue(DatasetSkippedFeatures, map[string]string{"source": source, "reason": "invalid_coordinates"})
		}, 3},
		{"timestamp", func() (float64, error) {
			return getMetricValue(DatasetLastLoadTimestamp, map[string]string{"source": source})
		}, 1700000000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.value()
			if err != nil {
				t.Fatalf("failed to read metric: %v", err)
			}
			if got != tt.expect {
				t.Errorf("expected %v, got %v", tt.expect, got)
			}
		})
	}
}

func TestRecordDatasetFailure(t *testing.T) {
	ms := NewMetricsService(nil)
	source := "test-record-failure.geojson"

	ms.RecordDatasetFailure(source)
	ms.RecordDatasetFailure(source)

	status, _ := getMetricValue(DatasetLoadStatus, map[string]string{"source": source})
	if status != 0 {
		t.Errorf("expected status 0, got %v", status)
	}
	failures, _ := getCounterValue(DatasetLoadFailures, map[string]string{"source": source})
	if failures != 2 {
		t.Errorf("expected 2 failures, got %v", failures)
	}
}

func TestRecordReferenceUpdate(t *testing.T) {
	ms := NewMetricsService(nil)
	before := map[string]float64{}
	for _, outcome := range []string{"stale", "reselected", "gated"} {
		before[outcome], _ = getCounterValue(ReferenceUpdates, map[string]string{"outcome": outcome})
	}
	addedBefore, _ := readValue(DiscoveredStationsAdded)

	ms.RecordReferenceUpdate(true, true, 5)
	ms.RecordReferenceUpdate(false, true, 3)
	ms.RecordReferenceUpdate(false, false, 0)
	ms.RecordReferenceUpdate(false, false, 0)

	expect := map[string]float64{"stale": 1, "reselected": 1, "gated": 2}
	for outcome, delta := range expect {
		got, _ := getCounterValue(ReferenceUpdates, map[string]string{"outcome": outcome})
		if got-before[outcome] != delta {
			t.Errorf("%s: expected +%v, got +%v", outcome, delta, got-before[outcome])
		}
	}

	addedAfter, _ := readValue(DiscoveredStationsAdded)
	if addedAfter-addedBefore != 3 {
		t.Errorf("expected 3 added stations, got %v", addedAfter-addedBefore)
	}
}

func TestRecordFilterCommit(t *testing.T) {
	ms := NewMetricsService(nil)
	before, _ := readValue(PoolSize)

	ms.RecordFilterCommit(120)

	after, _ := readValue(PoolSize)
	if after-before != 1 {
		t.Errorf("expected one pool size observation, got %v", after-before)
	}

	ms.SetActiveSessions(4)
	if got, _ := readValue(ActiveSessions); got != 4 {
		t.Errorf("expected 4 active sessions, got %v", got)
	}
}
