package benchmark

import (
	"context"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"gonum.org/v1/gonum/stat"

	"github.com/23skdu/longbow-recurve/internal/errors"
	"github.com/23skdu/longbow-recurve/internal/logging"
	"github.com/23skdu/longbow-recurve/internal/metrics"
	"github.com/23skdu/longbow-recurve/internal/tracing"
	"github.com/23skdu/longbow-recurve/lorentz"
)

// Config controls one comparison run.
type Config struct {
	Dim                int
	NumPoints          int
	Rounds             int
	BaselineIterations int
	Curvature          float64
	Seed               int64
}

func DefaultConfig() Config {
	return Config{
		Dim:                64,
		NumPoints:          1000,
		Rounds:             5,
		BaselineIterations: 50,
		Curvature:          -1.0,
		Seed:               42,
	}
}

// OperationStats summarizes one operation's timings across rounds.
type OperationStats struct {
	Operation        string
	ClosedFormMean   time.Duration
	ClosedFormStdDev time.Duration
	BaselineMean     time.Duration
	BaselineStdDev   time.Duration
	Speedup          float64
}

// Report is the outcome of a full comparison run.
type Report struct {
	RunID   string
	Config  Config
	Stats   []OperationStats
	Elapsed time.Duration
}

// Runner executes comparisons. Construct with NewRunner; the zero value
// panics on use.
type Runner struct {
	log *logging.StructuredLogger
}

func NewRunner(log *logging.StructuredLogger) *Runner {
	if log == nil {
		log = logging.NewStructuredLogger(logging.DefaultLoggerConfig())
	}
	return &Runner{log: log.WithComponent("benchmark")}
}

func validateConfig(cfg Config) error {
	if cfg.Dim <= 0 {
		return errors.NewConfigurationError("benchmark", "dimension must be positive").
			WithContext("dim", cfg.Dim)
	}
	if cfg.NumPoints < 2 {
		return errors.NewConfigurationError("benchmark", "at least two points required").
			WithContext("numPoints", cfg.NumPoints)
	}
	if cfg.Rounds <= 0 {
		return errors.NewConfigurationError("benchmark", "rounds must be positive").
			WithContext("rounds", cfg.Rounds)
	}
	if cfg.BaselineIterations <= 0 {
		return errors.NewConfigurationError("benchmark", "baseline iterations must be positive").
			WithContext("iterations", cfg.BaselineIterations)
	}
	if cfg.Curvature >= 0 {
		return errors.NewConfigurationError("benchmark", "curvature must be negative").
			WithContext("curvature", cfg.Curvature)
	}
	return nil
}

// Compare times the closed-form distance and centroid against the ball
// baseline on identical random inputs, reports per-round statistics, and
// exports the speedups as Prometheus gauges.
func (r *Runner) Compare(ctx context.Context, cfg Config) (*Report, error) {
	if err := validateConfig(cfg); err != nil {
		return nil, err
	}
	start := time.Now()
	runID := uuid.NewString()

	ctx, span := tracing.CreateSpan(ctx, "benchmark.compare")
	defer span.End()

	rng := rand.New(rand.NewSource(cfg.Seed))
	raw := make([][]float64, cfg.NumPoints)
	for i := range raw {
		v := make([]float64, cfg.Dim)
		for j := range v {
			v[j] = 0.5 * rng.NormFloat64()
		}
		raw[i] = v
	}
	points := lorentz.ToHyperboloidBatch(raw, cfg.Curvature)
	ballPoints := make([][]float64, len(points))
	for i, p := range points {
		ballPoints[i] = lorentz.ToPoincare(p, cfg.Curvature)
	}

	var distClosed, distBase, centClosed, centBase []float64

	for round := 0; round < cfg.Rounds; round++ {
		if err := ctx.Err(); err != nil {
			span.SetError(err)
			return nil, errors.WrapComputationError(err, "benchmark", "comparison cancelled").
				WithContext("round", round)
		}

		t0 := time.Now()
		for i := 1; i < len(points); i++ {
			lorentz.Distance(points[0], points[i], cfg.Curvature, lorentz.DefaultEpsilon)
		}
		distClosed = append(distClosed, time.Since(t0).Seconds())

		t0 = time.Now()
		for i := 1; i < len(ballPoints); i++ {
			BallDistance(ballPoints[0], ballPoints[i], cfg.Curvature)
		}
		distBase = append(distBase, time.Since(t0).Seconds())

		t0 = time.Now()
		if _, err := lorentz.Centroid(points, nil, cfg.Curvature, lorentz.DefaultEpsilon); err != nil {
			span.SetError(err)
			return nil, err
		}
		centClosed = append(centClosed, time.Since(t0).Seconds())

		t0 = time.Now()
		FrechetMean(ballPoints, nil, cfg.Curvature, cfg.BaselineIterations)
		centBase = append(centBase, time.Since(t0).Seconds())

		r.log.Debug(ctx, "round complete", map[string]any{"run_id": runID, "round": round})
	}

	stats := []OperationStats{
		newStats("distance", distClosed, distBase),
		newStats("centroid", centClosed, centBase),
	}
	for _, s := range stats {
		metrics.BenchmarkSpeedupRatio.WithLabelValues(s.Operation).Set(s.Speedup)
		r.log.Info(ctx, "operation compared", map[string]any{
			"run_id":           runID,
			"operation":        s.Operation,
			"closed_form_mean": s.ClosedFormMean.String(),
			"baseline_mean":    s.BaselineMean.String(),
			"speedup":          s.Speedup,
		})
	}

	return &Report{
		RunID:   runID,
		Config:  cfg,
		Stats:   stats,
		Elapsed: time.Since(start),
	}, nil
}

func newStats(operation string, closed, baseline []float64) OperationStats {
	closedMean := stat.Mean(closed, nil)
	baselineMean := stat.Mean(baseline, nil)

	var speedup float64
	if closedMean > 0 {
		speedup = baselineMean / closedMean
	}
	return OperationStats{
		Operation:        operation,
		ClosedFormMean:   time.Duration(closedMean * float64(time.Second)),
		ClosedFormStdDev: time.Duration(sampleStdDev(closed) * float64(time.Second)),
		BaselineMean:     time.Duration(baselineMean * float64(time.Second)),
		BaselineStdDev:   time.Duration(sampleStdDev(baseline) * float64(time.Second)),
		Speedup:          speedup,
	}
}

// sampleStdDev guards the single-round case, where stat.StdDev divides by
// zero.
func sampleStdDev(samples []float64) float64 {
	if len(samples) < 2 {
		return 0
	}
	return stat.StdDev(samples, nil)
}
