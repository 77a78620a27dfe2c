package attention

import (
	"runtime"

	"golang.org/x/sync/errgroup"
)

// SelfAttention attends every position of seq against the whole sequence,
// returning one result per position. Positions run in parallel; tangent
// selects the tangent-space path.
func (a *Attention) SelfAttention(seq [][]float64, tangent bool) ([]*Result, error) {
	return a.CrossAttention(seq, seq, seq, tangent)
}

// CrossAttention attends each query against a shared set of keys and values,
// returning one result per query. Positions run in parallel; tangent selects
// the tangent-space path.
func (a *Attention) CrossAttention(queries, keys, values [][]float64, tangent bool) ([]*Result, error) {
	results := make([]*Result, len(queries))

	var g errgroup.Group
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i := range queries {
		g.Go(func() error {
			var err error
			if tangent {
				results[i], err = a.ComputeTangent(queries[i], keys, values)
			} else {
				results[i], err = a.Compute(queries[i], keys, values)
			}
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
