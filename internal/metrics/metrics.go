package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// DatasetLoadStatus dataset status (loaded/failing)
	DatasetLoadStatus = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "woladen_dataset_load_status",
			Help: "Status of the last dataset load (0 = failed, 1 = loaded)",
		},
		[]string{"source"},
	)

	DatasetStations = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "woladen_dataset_stations",
		Help: "Number of charging stations in the published dataset",
	}, []string{"source"})

	DatasetOperators = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "woladen_dataset_operators",
		Help: "Number of distinct operators in the published dataset",
	}, []string{"source"})

	DatasetSkippedFeatures = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "woladen_dataset_skipped_features",
		Help: "Number of dataset features dropped during normalisation, by reason",
	}, []string{"source", "reason"})

	DatasetLastLoadTimestamp = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "woladen_dataset_last_load_timestamp_seconds",
		Help: "Unix time of the last successful dataset load",
	}, []string{"source"})

	DatasetLoadFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "woladen_dataset_load_failures_total",
		Help: "Number of failed dataset loads",
	}, []string{"source"})
)

var (
	ActiveSessions = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "woladen_active_sessions",
		Help: "Number of discovery sessions held in the session cache",
	})

	// ReferenceUpdates counts reference point updates by outcome:
	// "reselected", "gated" or "stale".
	ReferenceUpdates = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "woladen_reference_updates_total",
		Help: "Number of reference point updates, by movement gate outcome",
	}, []string{"outcome"})

	DiscoveredStationsAdded = promauto.NewCounter(prometheus.CounterOpts{
		Name: "woladen_discovered_stations_added_total",
		Help: "Number of stations appended to discovered lists",
	})

	FilterCommits = promauto.NewCounter(prometheus.CounterOpts{
		Name: "woladen_filter_commits_total",
		Help: "Number of committed filter configurations",
	})

	PoolSize = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "woladen_filter_pool_size",
		Help:    "Size of the filtered pool after a filter commit or dataset reload",
		Buckets: prometheus.ExponentialBuckets(1, 4, 10),
	})
)

var (
	// OutgoingLatency tracks outgoing HTTP request latency, labeled by URL, method and status.
	OutgoingLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "woladen_outgoing_request_duration_seconds",
		Help:    "Latency of outgoing HTTP requests",
		Buckets: prometheus.DefBuckets,
	}, []string{"url", "method", "status"})
)
