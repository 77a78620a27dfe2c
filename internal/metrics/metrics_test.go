package metrics

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMetricsInitialization(t *testing.T) {
	assert.NotNil(t, DistanceOpsTotal)
	assert.NotNil(t, AggregationOpsTotal)
	assert.NotNil(t, AttentionDurationSeconds)
	assert.NotNil(t, CascadeDurationSeconds)
	assert.NotNil(t, CascadeDepthSelected)
	assert.NotNil(t, HierarchyEmptyBucketsTotal)
	assert.NotNil(t, IndexSearchDurationSeconds)
	assert.NotNil(t, IndexSize)
	assert.NotNil(t, IndexCacheHitsTotal)
	assert.NotNil(t, IndexCacheMissesTotal)
	assert.NotNil(t, IndexCacheEvictionsTotal)
	assert.NotNil(t, IndexCacheSize)
	assert.NotNil(t, ScratchPoolMissesTotal)
	assert.NotNil(t, BenchmarkSpeedupRatio)
}
