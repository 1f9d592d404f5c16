package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	RegistrationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fest_registrations_total",
			Help: "Total number of accepted event registrations",
		},
		[]string{"team", "category"},
	)

	RuleRejectionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fest_rule_rejections_total",
			Help: "Registrations and star toggles rejected by an eligibility rule",
		},
		[]string{"rule"},
	)

	ResultsPublishedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fest_results_published_total",
			Help: "Total number of published event results",
		},
		[]string{"category", "type"},
	)

	PlacementPoints = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "fest_placement_points",
			Help:    "Distribution of points awarded per placement",
			Buckets: prometheus.LinearBuckets(0, 5, 6),
		},
		[]string{"position"},
	)

	AggregationDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "fest_aggregation_duration_seconds",
			Help:    "Time spent recomputing standings",
			Buckets: prometheus.DefBuckets,
		},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"path", "method", "status"},
	)
)
