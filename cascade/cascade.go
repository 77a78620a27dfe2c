// Package cascade chains attention engines across curvature levels, coarse
// to fine, refining one query through progressively sharper geometry.
package cascade

import (
	"time"

	"github.com/23skdu/longbow-recurve/attention"
	"github.com/23skdu/longbow-recurve/internal/errors"
	"github.com/23skdu/longbow-recurve/internal/metrics"
	"github.com/23skdu/longbow-recurve/lorentz"
)

// LevelConfig describes one cascade level. Levels are ordered coarse
// (curvature near zero) to fine (strongly negative).
type LevelConfig struct {
	Curvature   float64
	NumHeads    int
	Dropout     float64
	Temperature float64
}

// Config describes a full cascade. Epsilon zero means lorentz.DefaultEpsilon;
// BlendWeight nil means the 1/(level+1) residual decay. BlendWeight returns
// the share of the previous level's output kept at each blend; values are
// clamped into [0,1].
type Config struct {
	Dim            int
	Levels         []LevelConfig
	UseTangentMode bool
	Epsilon        float64
	BlendWeight    func(level int) float64
}

// Cascade runs a fixed stack of attention levels. Immutable after
// construction; concurrent Compute calls are safe.
type Cascade struct {
	levels  []*attention.Attention
	tangent bool
	epsilon float64
	blend   func(level int) float64
}

func defaultBlendWeight(level int) float64 {
	return 1.0 / float64(level+1)
}

// New builds one attention engine per configured level. Any invalid level is
// a configuration error; nothing is coerced.
func New(cfg Config) (*Cascade, error) {
	if cfg.Dim <= 0 {
		return nil, errors.NewConfigurationError("cascade", "dimension must be positive").
			WithContext("dim", cfg.Dim)
	}
	if len(cfg.Levels) == 0 {
		return nil, errors.NewConfigurationError("cascade", "at least one level required")
	}
	eps := cfg.Epsilon
	if eps == 0 {
		eps = lorentz.DefaultEpsilon
	}
	if eps < 0 {
		return nil, errors.NewConfigurationError("cascade", "epsilon must be positive").
			WithContext("epsilon", cfg.Epsilon)
	}

	levels := make([]*attention.Attention, len(cfg.Levels))
	for i, lc := range cfg.Levels {
		eng, err := attention.NewWithEpsilon(cfg.Dim, lc.Curvature, lc.NumHeads, lc.Temperature, lc.Dropout, eps)
		if err != nil {
			return nil, errors.WrapConfigurationError(err, "cascade", "invalid level").
				WithContext("level", i)
		}
		levels[i] = eng
	}

	blend := cfg.BlendWeight
	if blend == nil {
		blend = defaultBlendWeight
	}
	return &Cascade{
		levels:  levels,
		tangent: cfg.UseTangentMode,
		epsilon: eps,
		blend:   blend,
	}, nil
}

// NumLevels returns the cascade depth.
func (c *Cascade) NumLevels() int { return len(c.levels) }

func (c *Cascade) runLevel(level *attention.Attention, query []float64, keys, values [][]float64) (*attention.Result, error) {
	if c.tangent {
		return level.ComputeTangent(query, keys, values)
	}
	return level.Compute(query, keys, values)
}

func (c *Cascade) blendShare(level int) float64 {
	w := c.blend(level)
	if w < 0 {
		return 0
	}
	if w > 1 {
		return 1
	}
	return w
}

// Compute feeds the query through every level against the full key/value
// set. From the second level on, the current output is blended with the
// previous one through a centroid on the current level's hyperboloid, and
// the blended projection becomes the next query. The returned result carries
// the last level's weights, every level's curvature, and counters summed
// across levels.
func (c *Cascade) Compute(query []float64, keys, values [][]float64) (*attention.Result, error) {
	start := time.Now()

	var agg attention.OpMetrics
	curvatures := make([]float64, 0, len(c.levels))
	currentQuery := query
	var out *attention.Result

	for i, level := range c.levels {
		res, err := c.runLevel(level, currentQuery, keys, values)
		if err != nil {
			return nil, err
		}
		agg.Add(res.Metrics)

		if i > 0 {
			wPrev := c.blendShare(i)
			prevPoint := lorentz.ToHyperboloid(out.Projected, level.Curvature())
			currPoint := lorentz.ToHyperboloid(res.Projected, level.Curvature())
			blended, cerr := lorentz.Centroid(
				[]lorentz.Point{prevPoint, currPoint},
				[]float64{wPrev, 1 - wPrev},
				level.Curvature(), c.epsilon,
			)
			if cerr != nil {
				return nil, cerr
			}
			agg.AggregationOps++
			res.Point = blended
			res.Projected = append([]float64(nil), blended.Space...)
		}

		curvatures = append(curvatures, level.Curvature())
		currentQuery = res.Projected
		out = res
	}

	out.CurvaturesUsed = curvatures
	agg.Elapsed = time.Since(start)
	out.Metrics = agg
	metrics.CascadeDurationSeconds.Observe(agg.Elapsed.Seconds())
	return out, nil
}
