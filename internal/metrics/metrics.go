package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	DiscoveryRuns = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "discovery_runs_total",
			Help: "Total number of discovery passes by outcome",
		},
		[]string{"outcome"},
	)

	DiscoveryResults = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "discovery_results",
			Help:    "Number of match results returned per discovery request",
			Buckets: []float64{0, 1, 5, 10, 25, 50, 100, 200},
		},
	)

	DiscoveryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "discovery_duration_seconds",
			Help: "Duration of discovery requests in seconds",
		},
		[]string{"cache"},
	)

	LikesRecorded = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "likes_recorded_total",
			Help: "Total number of likes recorded, split by whether they created a match",
		},
		[]string{"matched"},
	)
)

// Outcomes usados en DiscoveryRuns.
const (
	OutcomeStrict  = "strict"
	OutcomeRelaxed = "relaxed"
	OutcomeEmpty   = "empty"
)
