package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	TreeBuildsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "covertree_builds_total",
		Help: "Total number of cover tree bulk builds",
	})

	TreeBuildDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "covertree_build_duration_seconds",
		Help:    "Time spent bulk-loading a cover tree",
		Buckets: prometheus.ExponentialBuckets(0.0005, 2, 16),
	})

	TreeNodes = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "covertree_nodes",
		Help: "Node count of the most recently built cover tree",
	})

	QueriesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "covertree_queries_total",
		Help: "Total number of queries by type (knn, range, nearest)",
	}, []string{"type"})

	QueryDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "covertree_query_duration_seconds",
		Help:    "Query latency by type",
		Buckets: prometheus.ExponentialBuckets(0.00001, 2, 18),
	}, []string{"type"})

	DistanceComputationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "covertree_distance_computations_total",
		Help: "Distance evaluations by phase (build, query)",
	}, []string{"phase"})

	StoreRebuildsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "covertree_store_index_rebuilds_total",
		Help: "Index rebuilds triggered by writes to the document store",
	})
)
