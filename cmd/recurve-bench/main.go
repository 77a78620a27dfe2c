package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/23skdu/longbow-recurve/internal/benchmark"
	"github.com/23skdu/longbow-recurve/internal/logging"
	"github.com/23skdu/longbow-recurve/internal/tracing"
)

const serviceVersion = "0.1.0"

func main() {
	// .env is optional; the real environment wins.
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("RECURVE", &cfg); err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	flag.IntVar(&cfg.Dim, "dim", cfg.Dim, "Embedding dimension")
	flag.IntVar(&cfg.Keys, "keys", cfg.Keys, "Number of points per round")
	flag.IntVar(&cfg.Rounds, "rounds", cfg.Rounds, "Comparison rounds")
	flag.IntVar(&cfg.BaselineIterations, "baseline-iterations", cfg.BaselineIterations, "Ball-model mean iterations per round")
	flag.Float64Var(&cfg.Curvature, "curvature", cfg.Curvature, "Sheet curvature (negative)")
	flag.Int64Var(&cfg.Seed, "seed", cfg.Seed, "Input generator seed")
	flag.StringVar(&cfg.MetricsAddr, "metrics", cfg.MetricsAddr, "Prometheus listen address (empty disables)")
	flag.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level: debug, info, warn, or error")
	flag.Float64Var(&cfg.TraceSampleRatio, "trace-sample-ratio", cfg.TraceSampleRatio, "Trace sampling ratio (0 disables tracing)")
	flag.Parse()

	if err := ValidateConfig(&cfg); err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	// Setup JSON Logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slogLevel(cfg.LogLevel)}))
	slog.SetDefault(logger)

	ctx := context.Background()

	if cfg.TraceSampleRatio > 0 {
		if err := tracing.InitTracer(tracing.SpanConfig{
			ServiceName:    "recurve-bench",
			ServiceVersion: serviceVersion,
			SampleRate:     cfg.TraceSampleRatio,
		}); err != nil {
			logger.Error("Failed to init tracer", "error", err)
			os.Exit(1)
		}
		defer func() {
			flushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := tracing.Shutdown(flushCtx); err != nil {
				logger.Warn("Tracer shutdown failed", "error", err)
			}
		}()
	}

	if cfg.MetricsAddr != "" {
		go func() {
			logger.Info("Starting metrics server", "address", cfg.MetricsAddr)
			http.Handle("/metrics", promhttp.Handler())
			if err := http.ListenAndServe(cfg.MetricsAddr, nil); err != nil {
				logger.Error("Failed to start metrics server", "error", err)
			}
		}()
	}

	fmt.Printf("Starting comparison:\n")
	fmt.Printf("  Points:     %d x %d dims\n", cfg.Keys, cfg.Dim)
	fmt.Printf("  Curvature:  %.2f\n", cfg.Curvature)
	fmt.Printf("  Rounds:     %d\n", cfg.Rounds)
	fmt.Printf("  Baseline:   %d iterations\n", cfg.BaselineIterations)

	runner := benchmark.NewRunner(logging.NewStructuredLogger(logging.LoggerConfig{
		Level:           structuredLevel(cfg.LogLevel),
		EnableTimestamp: true,
	}))

	report, err := runner.Compare(ctx, benchmark.Config{
		Dim:                cfg.Dim,
		NumPoints:          cfg.Keys,
		Rounds:             cfg.Rounds,
		BaselineIterations: cfg.BaselineIterations,
		Curvature:          cfg.Curvature,
		Seed:               cfg.Seed,
	})
	if err != nil {
		logger.Error("Comparison failed", "error", err)
		os.Exit(1)
	}

	printReport(report)
}

func printReport(r *benchmark.Report) {
	fmt.Println("\n--- Results ---")
	fmt.Printf("Run ID:      %s\n", r.RunID)
	fmt.Printf("Elapsed:     %.2fs\n", r.Elapsed.Seconds())
	for _, s := range r.Stats {
		fmt.Printf("\n%s:\n", s.Operation)
		fmt.Printf("  Closed form: %v (stddev %v)\n", s.ClosedFormMean, s.ClosedFormStdDev)
		fmt.Printf("  Baseline:    %v (stddev %v)\n", s.BaselineMean, s.BaselineStdDev)
		fmt.Printf("  Speedup:     %.2fx\n", s.Speedup)
	}
}
