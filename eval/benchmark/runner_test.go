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
	"sync"
	"testing"

	"github.com/AleutianAI/fillbench/eval"
	"github.com/AleutianAI/fillbench/fill"
)

// fakeFiller counts invocations and records the item counts it saw.
type fakeFiller struct {
	name  string
	calls int
	items []int
}

func (f *fakeFiller) Name() string { return f.name }

func (f *fakeFiller) Fill(n int) uintptr {
	f.calls++
	f.items = append(f.items, n)
	return uintptr(f.calls)
}

func newTestRegistry(fillers ...*fakeFiller) *eval.Registry {
	registry := eval.NewRegistry()
	for _, f := range fillers {
		registry.MustRegister(f)
	}
	return registry
}

func TestRunner_Run(t *testing.T) {
	t.Run("nil context", func(t *testing.T) {
		runner := NewRunner(newTestRegistry(&fakeFiller{name: "a"}))
		//nolint:staticcheck // nil context is the condition under test
		if _, err := runner.Run(nil, "a"); err == nil {
			t.Error("Run with nil context should fail")
		}
	})

	t.Run("unknown variant", func(t *testing.T) {
		runner := NewRunner(newTestRegistry())
		_, err := runner.Run(context.Background(), "missing")
		if !errors.Is(err, eval.ErrNotFound) {
			t.Errorf("Expected ErrNotFound, got %v", err)
		}
	})

	t.Run("counts warmup and measured repetitions", func(t *testing.T) {
		filler := &fakeFiller{name: "counted"}
		runner := NewRunner(newTestRegistry(filler))

		result, err := runner.Run(context.Background(), "counted",
			WithItems(10),
			WithRepetitions(5),
			WithWarmup(2),
			WithMemoryCollection(false),
		)
		if err != nil {
			t.Fatalf("Run failed: %v", err)
		}

		if filler.calls != 7 {
			t.Errorf("Fill called %d times, want 7 (2 warmup + 5 measured)", filler.calls)
		}
		if result.Repetitions != 5 {
			t.Errorf("Repetitions = %d, want 5", result.Repetitions)
		}
		if len(result.Samples) != 5 {
			t.Errorf("Samples = %d, want 5", len(result.Samples))
		}
		if result.Name != "counted" {
			t.Errorf("Name = %s, want counted", result.Name)
		}
		if result.Items != 10 {
			t.Errorf("Items = %d, want 10", result.Items)
		}
		for _, n := range filler.items {
			if n != 10 {
				t.Errorf("Fill received n=%d, want 10", n)
			}
		}
		if result.Memory != nil {
			t.Error("Memory should be nil with collection disabled")
		}
	})

	t.Run("samples are ordered", func(t *testing.T) {
		runner := NewRunner(newTestRegistry(&fakeFiller{name: "ordered"}))
		result, err := runner.Run(context.Background(), "ordered",
			WithItems(1), WithRepetitions(4), WithWarmup(0), WithMemoryCollection(false))
		if err != nil {
			t.Fatalf("Run failed: %v", err)
		}
		for i, s := range result.Samples {
			if s.Repetition != i {
				t.Errorf("Samples[%d].Repetition = %d, want %d", i, s.Repetition, i)
			}
		}
	})

	t.Run("zero items works", func(t *testing.T) {
		runner := NewRunner(newTestRegistry(&fakeFiller{name: "empty"}))
		result, err := runner.Run(context.Background(), "empty",
			WithItems(0), WithRepetitions(3), WithMemoryCollection(false))
		if err != nil {
			t.Fatalf("Run with zero items failed: %v", err)
		}
		if len(result.Samples) != 3 {
			t.Errorf("Samples = %d, want 3", len(result.Samples))
		}
	})

	t.Run("cancelled context", func(t *testing.T) {
		runner := NewRunner(newTestRegistry(&fakeFiller{name: "cancelled"}))
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		if _, err := runner.Run(ctx, "cancelled"); err == nil {
			t.Error("Run with cancelled context should fail")
		}
	})

	t.Run("memory collection", func(t *testing.T) {
		runner := NewRunner(newTestRegistry(&fakeFiller{name: "mem"}))
		result, err := runner.Run(context.Background(), "mem",
			WithItems(1), WithRepetitions(2))
		if err != nil {
			t.Fatalf("Run failed: %v", err)
		}
		if result.Memory == nil {
			t.Fatal("Memory should be collected by default")
		}
		if result.Memory.HeapAllocDelta != int64(result.Memory.HeapAllocAfter)-int64(result.Memory.HeapAllocBefore) {
			t.Error("HeapAllocDelta inconsistent with before/after")
		}
	})
}

func TestRunner_ThroughputStability(t *testing.T) {
	// Repetitions of the same variant at the same item count should
	// agree with each other: a coefficient of variation past 0.5 means
	// the harness is measuring noise, not construction cost. The
	// threshold is deliberately generous for loaded CI machines.
	if testing.Short() {
		t.Skip("skipping stability measurement in short mode")
	}

	registry := eval.NewRegistry()
	registry.MustRegister(fill.NewAppendCopy())
	runner := NewRunner(registry)

	result, err := runner.Run(context.Background(), "append_copy",
		WithItems(100_000),
		WithRepetitions(10),
		WithWarmup(2),
		WithMemoryCollection(false),
	)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if result.Latency.Mean <= 0 {
		t.Fatal("Mean should be positive for real work")
	}
	if result.Latency.CV >= 0.5 {
		t.Errorf("CV = %f, want < 0.5 (stddev %v around mean %v)",
			result.Latency.CV, result.Latency.StdDev, result.Latency.Mean)
	}
	if result.Throughput.ItemsPerSecond <= 0 {
		t.Error("Aggregate throughput should be positive")
	}
}

func TestRunner_ConcurrentRuns(t *testing.T) {
	// Run is documented as safe for concurrent use; the shared
	// observation sink must not race when two invocations overlap.
	runner := NewRunner(newTestRegistry(
		&fakeFiller{name: "left"},
		&fakeFiller{name: "right"},
	))

	var wg sync.WaitGroup
	for _, name := range []string{"left", "right"} {
		wg.Add(1)
		go func(variant string) {
			defer wg.Done()
			_, err := runner.Run(context.Background(), variant,
				WithItems(1), WithRepetitions(50), WithMemoryCollection(false))
			if err != nil {
				t.Errorf("Run %s failed: %v", variant, err)
			}
		}(name)
	}
	wg.Wait()
}

func TestRunOptions(t *testing.T) {
	config := DefaultConfig()

	WithItems(-5)(config)
	if config.Items != 500_000 {
		t.Error("Negative items should be ignored")
	}

	WithRepetitions(0)(config)
	if config.Repetitions != 20 {
		t.Error("Zero repetitions should be ignored")
	}

	WithWarmup(-1)(config)
	if config.Warmup != 1 {
		t.Error("Negative warmup should be ignored")
	}

	WithItems(42)(config)
	WithRepetitions(3)(config)
	WithWarmup(0)(config)
	WithMemoryCollection(false)(config)
	if config.Items != 42 || config.Repetitions != 3 || config.Warmup != 0 || config.CollectMemory {
		t.Errorf("Options not applied: %+v", config)
	}
}

func TestRunner_RunAll(t *testing.T) {
	t.Run("runs every variant in registration order", func(t *testing.T) {
		first := &fakeFiller{name: "first"}
		second := &fakeFiller{name: "second"}
		runner := NewRunner(newTestRegistry(first, second))

		run, err := runner.RunAll(context.Background(),
			WithItems(5), WithRepetitions(3), WithWarmup(1), WithMemoryCollection(false))
		if err != nil {
			t.Fatalf("RunAll failed: %v", err)
		}

		if len(run.Results) != 2 {
			t.Fatalf("Results = %d, want 2", len(run.Results))
		}
		if run.Results[0].Name != "first" || run.Results[1].Name != "second" {
			t.Errorf("Results out of order: %s, %s", run.Results[0].Name, run.Results[1].Name)
		}
		if first.calls != 4 || second.calls != 4 {
			t.Errorf("calls = %d/%d, want 4/4", first.calls, second.calls)
		}

		if run.RunID == "" {
			t.Error("RunID should be set")
		}
		if run.Timestamp == 0 {
			t.Error("Timestamp should be set")
		}
		if run.GoVersion == "" || run.GOOS == "" || run.GOARCH == "" {
			t.Error("Runtime metadata should be populated")
		}
		if run.Config.Items != 5 {
			t.Errorf("Config.Items = %d, want 5", run.Config.Items)
		}
		if run.Comparison == nil {
			t.Error("Comparison should be set for two variants")
		}
	})

	t.Run("single variant has no comparison", func(t *testing.T) {
		runner := NewRunner(newTestRegistry(&fakeFiller{name: "solo"}))
		run, err := runner.RunAll(context.Background(),
			WithItems(1), WithRepetitions(2), WithMemoryCollection(false))
		if err != nil {
			t.Fatalf("RunAll failed: %v", err)
		}
		if run.Comparison != nil {
			t.Error("Comparison should be nil for a single variant")
		}
	})

	t.Run("distinct run ids", func(t *testing.T) {
		runner := NewRunner(newTestRegistry(&fakeFiller{name: "solo"}))
		opts := []RunOption{WithItems(1), WithRepetitions(2), WithMemoryCollection(false)}

		a, err := runner.RunAll(context.Background(), opts...)
		if err != nil {
			t.Fatalf("RunAll failed: %v", err)
		}
		b, err := runner.RunAll(context.Background(), opts...)
		if err != nil {
			t.Fatalf("RunAll failed: %v", err)
		}
		if a.RunID == b.RunID {
			t.Error("Separate invocations must get distinct RunIDs")
		}
	})
}
