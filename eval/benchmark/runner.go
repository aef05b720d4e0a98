// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package benchmark

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime"
	"sync/atomic"
	"time"

	"github.com/AleutianAI/fillbench/eval"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "fillbench.eval.benchmark"

// -----------------------------------------------------------------------------
// Runner Options
// -----------------------------------------------------------------------------

// RunOption configures a benchmark run.
//
// Description:
//
//	RunOption functions modify the benchmark Config. They are applied
//	in order, so later options override earlier ones.
type RunOption func(*Config)

// WithItems sets the record count each repetition builds.
//
// Inputs:
//   - n: Record count. Must be non-negative; negative values are ignored.
//     Zero is a valid degenerate invocation: every variant completes with
//     no storage allocated.
//
// Example:
//
//	runner.Run(ctx, "append_copy", benchmark.WithItems(500000))
func WithItems(n int) RunOption {
	return func(c *Config) {
		if n >= 0 {
			c.Items = n
		}
	}
}

// WithRepetitions sets the number of measured repetitions per variant.
//
// Inputs:
//   - n: Repetition count. Must be positive; non-positive values are ignored.
//
// Example:
//
//	runner.Run(ctx, "append_copy", benchmark.WithRepetitions(20))
func WithRepetitions(n int) RunOption {
	return func(c *Config) {
		if n > 0 {
			c.Repetitions = n
		}
	}
}

// WithWarmup sets the number of discarded warmup repetitions.
//
// Description:
//
//	Warmup repetitions run before measurement so that page faults on
//	first touch, branch predictors, and caches settle outside the timed
//	region. Their timings are discarded.
//
// Inputs:
//   - n: Warmup count. Must be non-negative; negative values are ignored.
func WithWarmup(n int) RunOption {
	return func(c *Config) {
		if n >= 0 {
			c.Warmup = n
		}
	}
}

// WithMemoryCollection enables or disables heap statistics collection.
//
// Inputs:
//   - enabled: Whether to collect memory statistics.
func WithMemoryCollection(enabled bool) RunOption {
	return func(c *Config) {
		c.CollectMemory = enabled
	}
}

// -----------------------------------------------------------------------------
// Runner
// -----------------------------------------------------------------------------

// sink accumulates every variant's observation so the fill work stays
// observable from outside each timed repetition. Without this a
// sufficiently clever compiler could discard a build whose result is
// never read and time an empty loop. Atomic so concurrent Run calls
// stay race-free.
var sink atomic.Uintptr

// Sink returns the accumulated observation value. Only meaningful as a
// liveness anchor; the value itself carries no information.
func Sink() uintptr { return sink.Load() }

// Runner executes the fill benchmark for registered variants.
//
// Description:
//
//	Runner times repeated invocations of each variant's Fill against a
//	shared configuration, collecting one sample per repetition and
//	deriving aggregates. Variants run strictly sequentially, one
//	repetition at a time on the calling goroutine: construction
//	throughput is the quantity under measurement and concurrent load
//	would contaminate it.
//
// Thread Safety: Safe for concurrent use, but see above; run one
// benchmark invocation at a time if the numbers are meant to be clean.
type Runner struct {
	registry *eval.Registry
	logger   *slog.Logger
}

// NewRunner creates a new benchmark runner.
//
// Description:
//
//	Creates a runner that benchmarks variants from the given registry.
//	The runner uses slog.Default() for logging; use SetLogger to override.
//
// Inputs:
//   - registry: The registry of fill variants. Must not be nil.
//
// Outputs:
//   - *Runner: The new runner. Never nil.
//
// Example:
//
//	registry := eval.NewRegistry()
//	registry.MustRegister(fill.NewAppendCopy())
//	runner := benchmark.NewRunner(registry)
func NewRunner(registry *eval.Registry) *Runner {
	return &Runner{
		registry: registry,
		logger:   slog.Default(),
	}
}

// SetLogger sets the logger for the runner.
//
// Inputs:
//   - logger: The logger to use. If nil, the current logger is retained.
//
// Thread Safety: Safe for concurrent use.
func (r *Runner) SetLogger(logger *slog.Logger) {
	if logger != nil {
		r.logger = logger
	}
}

// Run executes the benchmark for a single variant.
//
// Description:
//
//	Runs the configured warmup repetitions (discarded), then the measured
//	repetitions, timing each Fill invocation individually with a
//	monotonic clock. Every sample is kept; aggregates are derived from
//	the full sample set.
//
// Inputs:
//   - ctx: Context for cancellation. Must not be nil. Checked between
//     repetitions, never inside one.
//   - name: The registered variant name.
//   - opts: Optional configuration options.
//
// Outputs:
//   - *Result: The variant's samples and aggregates. Never nil on success.
//   - error: Non-nil if the variant is unknown or the config is invalid.
//
// Thread Safety: Safe for concurrent use.
//
// Example:
//
//	result, err := runner.Run(ctx, "rawbuf_inplace",
//	    benchmark.WithItems(500000),
//	    benchmark.WithRepetitions(20),
//	)
//	if err != nil {
//	    return fmt.Errorf("benchmark rawbuf_inplace: %w", err)
//	}
//	fmt.Printf("mean=%v items/s=%.0f\n", result.Latency.Mean, result.Throughput.ItemsPerSecond)
func (r *Runner) Run(ctx context.Context, name string, opts ...RunOption) (*Result, error) {
	if ctx == nil {
		return nil, errors.New("context must not be nil")
	}

	tracer := otel.Tracer(tracerName)
	ctx, span := tracer.Start(ctx, "benchmark.Runner.Run",
		trace.WithAttributes(
			attribute.String("benchmark.variant", name),
		),
	)
	defer span.End()

	filler, ok := r.registry.Get(name)
	if !ok {
		span.RecordError(eval.ErrNotFound)
		span.SetStatus(codes.Error, "variant not found")
		return nil, fmt.Errorf("getting variant %s: %w", name, eval.ErrNotFound)
	}

	config := DefaultConfig()
	for _, opt := range opts {
		opt(config)
	}
	if err := config.Validate(); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "invalid config")
		return nil, fmt.Errorf("validating config: %w", err)
	}

	span.SetAttributes(
		attribute.Int("benchmark.items", config.Items),
		attribute.Int("benchmark.repetitions", config.Repetitions),
		attribute.Int("benchmark.warmup", config.Warmup),
	)

	var memBefore runtime.MemStats
	if config.CollectMemory {
		runtime.GC()
		runtime.ReadMemStats(&memBefore)
	}

	for i := 0; i < config.Warmup; i++ {
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("warmup interrupted: %w", ctx.Err())
		default:
		}
		sink.Add(filler.Fill(config.Items))
	}

	samples := make([]Sample, 0, config.Repetitions)
	for rep := 0; rep < config.Repetitions; rep++ {
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("measurement interrupted: %w", ctx.Err())
		default:
		}

		start := time.Now()
		obs := filler.Fill(config.Items)
		elapsed := time.Since(start)

		sink.Add(obs)
		runtime.KeepAlive(obs)

		s := Sample{Repetition: rep, Duration: elapsed}
		if elapsed > 0 {
			s.ItemsPerSecond = float64(config.Items) / elapsed.Seconds()
		}
		samples = append(samples, s)
	}

	var memAfter runtime.MemStats
	if config.CollectMemory {
		runtime.ReadMemStats(&memAfter)
	}

	result, err := r.buildResult(name, samples, config, &memBefore, &memAfter)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "building result")
		return nil, fmt.Errorf("building result for %s: %w", name, err)
	}

	span.SetAttributes(
		attribute.Int64("benchmark.result.mean_ns", int64(result.Latency.Mean)),
		attribute.Float64("benchmark.result.items_per_second", result.Throughput.ItemsPerSecond),
	)
	span.SetStatus(codes.Ok, "benchmark completed")

	r.logger.Debug("variant measured",
		slog.String("variant", name),
		slog.Duration("mean", result.Latency.Mean),
		slog.Duration("median", result.Latency.Median),
		slog.Float64("items_per_second", result.Throughput.ItemsPerSecond),
	)

	return result, nil
}

// buildResult constructs the Result from collected samples.
func (r *Runner) buildResult(name string, samples []Sample, config *Config, memBefore, memAfter *runtime.MemStats) (*Result, error) {
	result := &Result{
		Name:        name,
		Items:       config.Items,
		Repetitions: len(samples),
		Samples:     samples,
	}

	durs := durations(samples)
	latency, err := CalculateLatencyStats(durs)
	if err != nil {
		return nil, err
	}
	result.Latency = latency

	for _, d := range durs {
		result.TotalDuration += d
	}
	if result.TotalDuration > 0 {
		totalItems := float64(config.Items) * float64(len(samples))
		result.Throughput.ItemsPerSecond = totalItems / result.TotalDuration.Seconds()
	}

	if config.CollectMemory && memBefore != nil && memAfter != nil {
		result.Memory = &MemoryStats{
			HeapAllocBefore: memBefore.HeapAlloc,
			HeapAllocAfter:  memAfter.HeapAlloc,
			HeapAllocDelta:  int64(memAfter.HeapAlloc) - int64(memBefore.HeapAlloc),
			GCPauses:        memAfter.NumGC - memBefore.NumGC,
		}
		if memAfter.PauseTotalNs > memBefore.PauseTotalNs {
			result.Memory.GCPauseTotal = time.Duration(memAfter.PauseTotalNs - memBefore.PauseTotalNs)
		}
	}

	return result, nil
}

// RunAll executes the benchmark for every registered variant.
//
// Description:
//
//	Runs each variant in registration order under one shared
//	configuration, then attaches the cross-variant comparison and run
//	metadata. Any variant failure aborts the whole run: a partial
//	comparison across surviving variants would be misleading.
//
// Inputs:
//   - ctx: Context for cancellation. Must not be nil.
//   - opts: Optional configuration options (applied to all variants).
//
// Outputs:
//   - *Run: The complete invocation with per-variant results, comparison,
//     and runtime metadata. Never nil on success.
//   - error: Non-nil if any variant fails or the context is cancelled.
//
// Thread Safety: Safe for concurrent use.
//
// Example:
//
//	run, err := runner.RunAll(ctx, benchmark.WithItems(500000))
//	if err != nil {
//	    return fmt.Errorf("running benchmarks: %w", err)
//	}
//	for _, result := range run.Results {
//	    fmt.Printf("%s: mean=%v\n", result.Name, result.Latency.Mean)
//	}
func (r *Runner) RunAll(ctx context.Context, opts ...RunOption) (*Run, error) {
	if ctx == nil {
		return nil, errors.New("context must not be nil")
	}

	config := DefaultConfig()
	for _, opt := range opts {
		opt(config)
	}
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	tracer := otel.Tracer(tracerName)
	ctx, span := tracer.Start(ctx, "benchmark.Runner.RunAll",
		trace.WithAttributes(
			attribute.Int("benchmark.items", config.Items),
			attribute.Int("benchmark.repetitions", config.Repetitions),
			attribute.Int("benchmark.variants", r.registry.Count()),
		),
	)
	defer span.End()

	run := &Run{
		RunID:     uuid.New().String(),
		Timestamp: time.Now().UTC().UnixMilli(),
		GoVersion: runtime.Version(),
		GOOS:      runtime.GOOS,
		GOARCH:    runtime.GOARCH,
		NumCPU:    runtime.NumCPU(),
		Config:    config,
	}
	span.SetAttributes(attribute.String("benchmark.run_id", run.RunID))

	names := r.registry.List()
	run.Results = make([]*Result, 0, len(names))

	for _, name := range names {
		result, err := r.Run(ctx, name, opts...)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "variant failed")
			return nil, fmt.Errorf("benchmarking %s: %w", name, err)
		}
		run.Results = append(run.Results, result)
	}

	run.Comparison = Compare(run.Results)

	if run.Comparison != nil {
		span.SetAttributes(
			attribute.String("benchmark.fastest", run.Comparison.Fastest),
			attribute.Float64("benchmark.speedup", run.Comparison.Speedup),
			attribute.Bool("benchmark.significant", run.Comparison.Significant),
		)
	}
	span.SetStatus(codes.Ok, "run completed")

	return run, nil
}
