package cascade

import (
	"math"
	"time"

	"github.com/RoaringBitmap/roaring/v2"

	"github.com/23skdu/longbow-recurve/attention"
	"github.com/23skdu/longbow-recurve/internal/errors"
	"github.com/23skdu/longbow-recurve/internal/metrics"
	"github.com/23skdu/longbow-recurve/lorentz"
)

// bucketizeDepths rescales raw hierarchy depths linearly onto the level
// range and returns per-level membership bitmaps. Constant depths all land
// in bucket zero.
func bucketizeDepths(depths []int, numLevels int) []*roaring.Bitmap {
	buckets := make([]*roaring.Bitmap, numLevels)
	for i := range buckets {
		buckets[i] = roaring.NewBitmap()
	}
	if len(depths) == 0 {
		return buckets
	}

	minDepth, maxDepth := depths[0], depths[0]
	for _, d := range depths[1:] {
		if d < minDepth {
			minDepth = d
		}
		if d > maxDepth {
			maxDepth = d
		}
	}
	span := float64(maxDepth - minDepth)

	for i, d := range depths {
		bucket := 0
		if span > 0 {
			bucket = int(math.Floor(float64(d-minDepth) * float64(numLevels-1) / span))
			if bucket < 0 {
				bucket = 0
			}
			if bucket > numLevels-1 {
				bucket = numLevels - 1
			}
		}
		buckets[bucket].Add(uint32(i))
	}
	return buckets
}

// ComputeHierarchical routes each key to exactly one cascade level by its
// hierarchy depth. Depths are rescaled onto [0, numLevels-1]; each level
// attends only its own bucket, querying with the previous level's output. A
// level whose bucket is empty attends its current query alone, which keeps
// its output near the incoming query; those levels are counted in
// recurve_hierarchy_empty_buckets_total. The final point is a centroid over
// the per-level outputs weighted 1/(level+1), and Weights holds those
// normalized per-level shares rather than per-key weights.
func (c *Cascade) ComputeHierarchical(query []float64, keys, values [][]float64, hierarchyLevels []int) (*attention.Result, error) {
	start := time.Now()
	if len(keys) != len(values) {
		return nil, errors.NewValidationError("cascade", "keys and values length mismatch").
			WithContext("keys", len(keys)).
			WithContext("values", len(values))
	}
	if len(hierarchyLevels) != len(keys) {
		return nil, errors.NewValidationError("cascade", "hierarchy depths length mismatch").
			WithContext("keys", len(keys)).
			WithContext("depths", len(hierarchyLevels))
	}

	numLevels := len(c.levels)
	buckets := bucketizeDepths(hierarchyLevels, numLevels)

	var agg attention.OpMetrics
	curvatures := make([]float64, numLevels)
	levelPoints := make([]lorentz.Point, numLevels)
	levelShares := make([]float64, numLevels)
	currentQuery := query

	for i, level := range c.levels {
		var levelKeys, levelValues [][]float64
		if buckets[i].IsEmpty() {
			metrics.HierarchyEmptyBucketsTotal.Inc()
			levelKeys = [][]float64{currentQuery}
			levelValues = [][]float64{currentQuery}
		} else {
			card := int(buckets[i].GetCardinality())
			levelKeys = make([][]float64, 0, card)
			levelValues = make([][]float64, 0, card)
			it := buckets[i].Iterator()
			for it.HasNext() {
				idx := int(it.Next())
				levelKeys = append(levelKeys, keys[idx])
				levelValues = append(levelValues, values[idx])
			}
		}

		res, err := c.runLevel(level, currentQuery, levelKeys, levelValues)
		if err != nil {
			return nil, err
		}
		agg.Add(res.Metrics)

		curvatures[i] = level.Curvature()
		levelPoints[i] = res.Point
		levelShares[i] = 1.0 / float64(i+1)
		currentQuery = res.Projected
	}

	finest := c.levels[numLevels-1].Curvature()
	final, err := lorentz.Centroid(levelPoints, levelShares, finest, c.epsilon)
	if err != nil {
		return nil, err
	}
	agg.AggregationOps++

	var total float64
	for _, s := range levelShares {
		total += s
	}
	for i := range levelShares {
		levelShares[i] /= total
	}

	agg.Elapsed = time.Since(start)
	metrics.CascadeDurationSeconds.Observe(agg.Elapsed.Seconds())
	return &attention.Result{
		Point:          final,
		Projected:      append([]float64(nil), final.Space...),
		Weights:        levelShares,
		CurvaturesUsed: curvatures,
		Metrics:        agg,
	}, nil
}
