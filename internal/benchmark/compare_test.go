package benchmark

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/23skdu/longbow-recurve/internal/errors"
	"github.com/23skdu/longbow-recurve/internal/logging"
)

func quietRunner() *Runner {
	return NewRunner(logging.NewStructuredLogger(logging.LoggerConfig{
		Level:  logging.ErrorLevel,
		Output: io.Discard,
	}))
}

func TestCompare_ConfigValidation(t *testing.T) {
	r := quietRunner()
	ctx := context.Background()

	bad := []Config{
		{Dim: 0, NumPoints: 10, Rounds: 1, BaselineIterations: 1, Curvature: -1},
		{Dim: 4, NumPoints: 1, Rounds: 1, BaselineIterations: 1, Curvature: -1},
		{Dim: 4, NumPoints: 10, Rounds: 0, BaselineIterations: 1, Curvature: -1},
		{Dim: 4, NumPoints: 10, Rounds: 1, BaselineIterations: 0, Curvature: -1},
		{Dim: 4, NumPoints: 10, Rounds: 1, BaselineIterations: 1, Curvature: 0},
	}
	for _, cfg := range bad {
		_, err := r.Compare(ctx, cfg)
		require.Error(t, err)
		assert.True(t, errors.IsType(err, errors.ErrorTypeConfiguration))
	}
}

func TestCompare_ProducesReport(t *testing.T) {
	r := quietRunner()

	report, err := r.Compare(context.Background(), Config{
		Dim:                8,
		NumPoints:          50,
		Rounds:             2,
		BaselineIterations: 5,
		Curvature:          -1.0,
		Seed:               1,
	})
	require.NoError(t, err)

	assert.Len(t, report.RunID, 36)
	require.Len(t, report.Stats, 2)
	assert.Equal(t, "distance", report.Stats[0].Operation)
	assert.Equal(t, "centroid", report.Stats[1].Operation)
	for _, s := range report.Stats {
		assert.GreaterOrEqual(t, s.ClosedFormMean, time.Duration(0))
		assert.GreaterOrEqual(t, s.BaselineMean, time.Duration(0))
	}
	assert.Greater(t, report.Elapsed, time.Duration(0))
}

func TestCompare_ClosedFormCentroidBeatsBaseline(t *testing.T) {
	r := quietRunner()

	report, err := r.Compare(context.Background(), Config{
		Dim:                32,
		NumPoints:          100,
		Rounds:             3,
		BaselineIterations: 50,
		Curvature:          -1.0,
		Seed:               7,
	})
	require.NoError(t, err)

	var centroid OperationStats
	for _, s := range report.Stats {
		if s.Operation == "centroid" {
			centroid = s
		}
	}
	require.NotEmpty(t, centroid.Operation)

	// One accumulation pass against fifty Karcher iterations.
	assert.Less(t, centroid.ClosedFormMean, centroid.BaselineMean)
	assert.Greater(t, centroid.Speedup, 1.0)
}

func TestCompare_Cancelled(t *testing.T) {
	r := quietRunner()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := r.Compare(ctx, DefaultConfig())
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeComputation))
}
