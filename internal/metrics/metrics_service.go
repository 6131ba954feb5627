package metrics

import (
	"log/slog"
	"time"
)

// DatasetLoad summarises a published dataset for the dataset gauges.
type DatasetLoad struct {
	Source    string
	Stations  int
	Operators int
	Skipped   map[string]int
	LoadedAt  time.Time
}

// MetricsService records domain events into the Prometheus collectors.
type MetricsService struct {
	Logger *slog.Logger
}

func NewMetricsService(logger *slog.Logger) *MetricsService {
	return &MetricsService{
		Logger: logger,
	}
}

func (ms *MetricsService) RecordDatasetLoad(load DatasetLoad) {
	DatasetLoadStatus.WithLabelValues(load.Source).Set(1)
	DatasetStations.WithLabelValues(load.Source).Set(float64(load.Stations))
	DatasetOperators.WithLabelValues(load.Source).Set(float64(load.Operators))
	DatasetLastLoadTimestamp.WithLabelValues(load.Source).Set(float64(load.LoadedAt.Unix()))
	for reason, count := range load.Skipped {
		DatasetSkippedFeatures.WithLabelValues(load.Source, reason).Set(float64(count))
	}
	if ms.Logger != nil {
		ms.Logger.Info("Dataset published", "source", load.Source, "stations", load.Stations, "operators", load.Operators)
	}
}

func (ms *MetricsService) RecordDatasetFailure(source string) {
	DatasetLoadStatus.WithLabelValues(source).Set(0)
	DatasetLoadFailures.WithLabelValues(source).Inc()
}

// RecordReferenceUpdate counts one reference update. stale wins over
// reselected; added is the number of stations appended by the merge.
func (ms *MetricsService) RecordReferenceUpdate(stale, reselected bool, added int) {
	switch {
	case stale:
		ReferenceUpdates.WithLabelValues("stale").Inc()
	case reselected:
		ReferenceUpdates.WithLabelValues("reselected").Inc()
		DiscoveredStationsAdded.Add(float64(added))
	default:
		ReferenceUpdates.WithLabelValues("gated").Inc()
	}
}

func (ms *MetricsService) RecordFilterCommit(poolSize int) {
	FilterCommits.Inc()
	PoolSize.Observe(float64(poolSize))
}

func (ms *MetricsService) SetActiveSessions(n int) {
	ActiveSessions.Set(float64(n))
}
