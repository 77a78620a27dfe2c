package cascade

import (
	"math"

	"github.com/23skdu/longbow-recurve/attention"
	"github.com/23skdu/longbow-recurve/internal/errors"
	"github.com/23skdu/longbow-recurve/internal/metrics"
)

// Adaptive picks a cascade depth per query. All depths are built eagerly at
// construction so selection is allocation-free.
type Adaptive struct {
	maxLevels int
	cascades  []*Cascade
}

// NewAdaptive builds schedule-generated cascades of every depth from 1 to
// maxLevels.
func NewAdaptive(dim, maxLevels int, opts ...ScheduleOption) (*Adaptive, error) {
	if maxLevels <= 0 {
		return nil, errors.NewConfigurationError("adaptive", "max levels must be positive").
			WithContext("maxLevels", maxLevels)
	}

	cascades := make([]*Cascade, maxLevels)
	for depth := 1; depth <= maxLevels; depth++ {
		c, err := New(Config{Dim: dim, Levels: Schedule(dim, depth, opts...)})
		if err != nil {
			return nil, errors.WrapConfigurationError(err, "adaptive", "invalid generated cascade").
				WithContext("depth", depth)
		}
		cascades[depth-1] = c
	}
	return &Adaptive{maxLevels: maxLevels, cascades: cascades}, nil
}

// MaxLevels returns the deepest available cascade.
func (a *Adaptive) MaxLevels() int { return a.maxLevels }

// SelectDepth resolves the cascade depth for a query: a positive hint wins,
// otherwise depth grows with the log of the key count.
func (a *Adaptive) SelectDepth(numKeys, hint int) int {
	if hint > 0 {
		return clampDepth(hint, a.maxLevels)
	}
	if numKeys <= 1 {
		return 1
	}
	return clampDepth(int(math.Ceil(math.Log2(float64(numKeys)))), a.maxLevels)
}

func clampDepth(d, max int) int {
	if d < 1 {
		return 1
	}
	if d > max {
		return max
	}
	return d
}

// Compute selects a depth from the hint (or key count), records it, and
// delegates to that cascade.
func (a *Adaptive) Compute(query []float64, keys, values [][]float64, hint int) (*attention.Result, error) {
	depth := a.SelectDepth(len(keys), hint)
	metrics.CascadeDepthSelected.Observe(float64(depth))
	return a.cascades[depth-1].Compute(query, keys, values)
}
