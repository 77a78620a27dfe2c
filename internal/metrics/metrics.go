package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// -----------------------------------------------------------------------------
// Geometry Operation Metrics
// -----------------------------------------------------------------------------

// DistanceOpsTotal counts geodesic distance evaluations
var DistanceOpsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Name: "recurve_distance_ops_total",
		Help: "Total number of geodesic distance evaluations",
	},
)

// AggregationOpsTotal counts closed-form centroid aggregations
var AggregationOpsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Name: "recurve_aggregation_ops_total",
		Help: "Total number of closed-form centroid aggregations",
	},
)

// -----------------------------------------------------------------------------
// Attention Metrics
// -----------------------------------------------------------------------------

// AttentionDurationSeconds measures single-level attention latency by mode
var AttentionDurationSeconds = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Name:    "recurve_attention_duration_seconds",
		Help:    "Duration of single-level attention computations",
		Buckets: []float64{0.000001, 0.00001, 0.0001, 0.001, 0.01, 0.1, 1},
	},
	[]string{"mode"},
)

// CascadeDurationSeconds measures full cascade latency
var CascadeDurationSeconds = promauto.NewHistogram(
	prometheus.HistogramOpts{
		Name:    "recurve_cascade_duration_seconds",
		Help:    "Duration of full cascade attention computations",
		Buckets: []float64{0.000001, 0.00001, 0.0001, 0.001, 0.01, 0.1, 1},
	},
)

// CascadeDepthSelected tracks depths chosen by the adaptive selector
var CascadeDepthSelected = promauto.NewHistogram(
	prometheus.HistogramOpts{
		Name:    "recurve_cascade_depth_selected",
		Help:    "Cascade depth chosen by the adaptive selector",
		Buckets: prometheus.LinearBuckets(1, 1, 8),
	},
)

// HierarchyEmptyBucketsTotal counts cascade levels that received no keys and
// fell back to the singleton query group
var HierarchyEmptyBucketsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Name: "recurve_hierarchy_empty_buckets_total",
		Help: "Cascade levels with no assigned keys in hierarchical mode",
	},
)

// -----------------------------------------------------------------------------
// Candidate Index Metrics
// -----------------------------------------------------------------------------

// IndexSearchDurationSeconds measures candidate search latency by stage
var IndexSearchDurationSeconds = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Name:    "recurve_index_search_duration_seconds",
		Help:    "Duration of candidate index searches by stage",
		Buckets: []float64{0.00001, 0.0001, 0.001, 0.01, 0.1, 1},
	},
	[]string{"stage"},
)

// IndexSize tracks the number of vectors in the candidate index
var IndexSize = promauto.NewGauge(
	prometheus.GaugeOpts{
		Name: "recurve_index_size",
		Help: "Current number of vectors in the candidate index",
	},
)

// IndexCacheHitsTotal counts candidate cache hits
var IndexCacheHitsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Name: "recurve_index_cache_hits_total",
		Help: "Total candidate result cache hits",
	},
)

// IndexCacheMissesTotal counts candidate cache misses
var IndexCacheMissesTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Name: "recurve_index_cache_misses_total",
		Help: "Total candidate result cache misses",
	},
)

// IndexCacheEvictionsTotal counts LRU evictions from the candidate cache
var IndexCacheEvictionsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Name: "recurve_index_cache_evictions_total",
		Help: "Total candidate result cache evictions",
	},
)

// IndexCacheSize tracks the number of entries in the candidate cache
var IndexCacheSize = promauto.NewGauge(
	prometheus.GaugeOpts{
		Name: "recurve_index_cache_size",
		Help: "Current number of entries in the candidate result cache",
	},
)

// -----------------------------------------------------------------------------
// Scratch Pool Metrics
// -----------------------------------------------------------------------------

// ScratchPoolMissesTotal counts scratch buffer pool misses requiring allocation
var ScratchPoolMissesTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Name: "recurve_scratch_pool_misses_total",
		Help: "Count of scratch buffer pool misses requiring allocation",
	},
)

// -----------------------------------------------------------------------------
// Benchmark Metrics
// -----------------------------------------------------------------------------

// BenchmarkSpeedupRatio reports closed-form speedup over the iterative
// baseline by operation
var BenchmarkSpeedupRatio = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Name: "recurve_benchmark_speedup_ratio",
		Help: "Closed-form speedup over the iterative ball-model baseline",
	},
	[]string{"operation"},
)
