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
	"encoding/json"
	"fmt"
	"io"
)

// Reporter formats benchmark output.
//
// Description:
//
//	Reporter implementations render a single variant's result or a
//	complete run. The console reporter shows aggregates only; the JSON
//	reporter preserves every individual repetition.
type Reporter interface {
	// Report renders a single variant's result.
	Report(result *Result) error

	// ReportRun renders a complete invocation: every variant plus the
	// cross-variant comparison and run metadata.
	ReportRun(run *Run) error
}

// -----------------------------------------------------------------------------
// Console Reporter
// -----------------------------------------------------------------------------

// ConsoleReporter renders human-readable aggregate output.
//
// Description:
//
//	Prints per-variant aggregates (mean, median, standard deviation,
//	min/max, throughput) and the cross-variant ranking. Individual
//	repetition timings never appear on the console; they belong in the
//	structured report.
//
// Thread Safety: Not safe for concurrent use. Writes are not synchronized.
type ConsoleReporter struct {
	out     io.Writer
	verbose bool
}

// NewConsoleReporter creates a console reporter.
//
// Inputs:
//   - out: Destination writer. Must not be nil.
//   - verbose: When true, memory statistics are included per variant.
//
// Outputs:
//   - *ConsoleReporter: The new reporter. Never nil.
func NewConsoleReporter(out io.Writer, verbose bool) *ConsoleReporter {
	return &ConsoleReporter{out: out, verbose: verbose}
}

// Report renders one variant's aggregates.
func (c *ConsoleReporter) Report(result *Result) error {
	fmt.Fprintf(c.out, "%s\n", result.Name)
	fmt.Fprintf(c.out, "  Items:       %d\n", result.Items)
	fmt.Fprintf(c.out, "  Repetitions: %d\n", result.Repetitions)
	fmt.Fprintf(c.out, "  Latency:\n")
	fmt.Fprintf(c.out, "    Mean:   %v\n", result.Latency.Mean)
	fmt.Fprintf(c.out, "    Median: %v\n", result.Latency.Median)
	fmt.Fprintf(c.out, "    StdDev: %v\n", result.Latency.StdDev)
	fmt.Fprintf(c.out, "    Min:    %v\n", result.Latency.Min)
	fmt.Fprintf(c.out, "    Max:    %v\n", result.Latency.Max)
	fmt.Fprintf(c.out, "    CV:     %.3f\n", result.Latency.CV)
	fmt.Fprintf(c.out, "  Items/sec:   %.0f\n", result.Throughput.ItemsPerSecond)

	if c.verbose && result.Memory != nil {
		fmt.Fprintf(c.out, "  Memory:\n")
		fmt.Fprintf(c.out, "    Heap Before: %d\n", result.Memory.HeapAllocBefore)
		fmt.Fprintf(c.out, "    Heap After:  %d\n", result.Memory.HeapAllocAfter)
		fmt.Fprintf(c.out, "    Heap Delta:  %d\n", result.Memory.HeapAllocDelta)
		fmt.Fprintf(c.out, "    GC Pauses:   %d (%v total)\n",
			result.Memory.GCPauses, result.Memory.GCPauseTotal)
	}

	fmt.Fprintln(c.out)
	return nil
}

// ReportRun renders the complete invocation: a header, every variant's
// aggregates, and the comparison summary.
func (c *ConsoleReporter) ReportRun(run *Run) error {
	fmt.Fprintf(c.out, "Fill Benchmark  (run %s)\n", run.RunID)
	fmt.Fprintf(c.out, "%s %s/%s, %d CPUs\n", run.GoVersion, run.GOOS, run.GOARCH, run.NumCPU)
	fmt.Fprintf(c.out, "items=%d repetitions=%d warmup=%d\n\n",
		run.Config.Items, run.Config.Repetitions, run.Config.Warmup)

	for _, result := range run.Results {
		if err := c.Report(result); err != nil {
			return err
		}
	}

	if run.Comparison != nil {
		c.reportComparison(run.Comparison)
	}
	return nil
}

func (c *ConsoleReporter) reportComparison(cmp *ComparisonResult) {
	fmt.Fprintf(c.out, "Ranking (fastest first):\n")
	for i, name := range cmp.Ranking {
		fmt.Fprintf(c.out, "  %d. %s\n", i+1, name)
	}
	fmt.Fprintf(c.out, "%s vs %s: %.2fx", cmp.Fastest, cmp.Slowest, cmp.Speedup)
	if cmp.Significant {
		fmt.Fprintf(c.out, " (significant, p=%.4f, effect=%s)\n",
			cmp.PValue, cmp.EffectSizeCategory)
	} else {
		fmt.Fprintf(c.out, " (not significant, p=%.4f)\n", cmp.PValue)
	}
}

// -----------------------------------------------------------------------------
// JSON Reporter
// -----------------------------------------------------------------------------

// JSONReporter renders machine-readable output.
//
// Description:
//
//	Emits the complete invocation as one JSON document: run metadata,
//	every variant's individual repetition timings, aggregates, and the
//	comparison. This is the durable artifact; the console shows a
//	digest of the same run.
//
// Thread Safety: Not safe for concurrent use. Writes are not synchronized.
type JSONReporter struct {
	out    io.Writer
	pretty bool
}

// NewJSONReporter creates a JSON reporter.
//
// Inputs:
//   - out: Destination writer. Must not be nil.
//   - pretty: When true, output is indented.
//
// Outputs:
//   - *JSONReporter: The new reporter. Never nil.
func NewJSONReporter(out io.Writer, pretty bool) *JSONReporter {
	return &JSONReporter{out: out, pretty: pretty}
}

// Report renders one variant's result, samples included.
func (j *JSONReporter) Report(result *Result) error {
	return j.encode(newJSONResult(result))
}

// ReportRun renders the complete invocation as a single document.
func (j *JSONReporter) ReportRun(run *Run) error {
	doc := jsonRun{
		RunID:     run.RunID,
		Timestamp: run.Timestamp,
		Go: jsonRuntime{
			Version: run.GoVersion,
			OS:      run.GOOS,
			Arch:    run.GOARCH,
			NumCPU:  run.NumCPU,
		},
		Config: jsonConfig{
			Items:       run.Config.Items,
			Repetitions: run.Config.Repetitions,
			Warmup:      run.Config.Warmup,
		},
		Results: make([]jsonResult, 0, len(run.Results)),
	}
	for _, result := range run.Results {
		doc.Results = append(doc.Results, newJSONResult(result))
	}
	if run.Comparison != nil {
		doc.Comparison = &jsonComparison{
			Ranking:     run.Comparison.Ranking,
			Fastest:     run.Comparison.Fastest,
			Slowest:     run.Comparison.Slowest,
			Speedup:     run.Comparison.Speedup,
			Significant: run.Comparison.Significant,
			PValue:      run.Comparison.PValue,
			EffectSize:  run.Comparison.EffectSize,
			EffectLabel: run.Comparison.EffectSizeCategory.String(),
		}
	}
	return j.encode(doc)
}

func (j *JSONReporter) encode(v any) error {
	enc := json.NewEncoder(j.out)
	if j.pretty {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encoding report: %w", err)
	}
	return nil
}

// Wire structures. Durations are nanoseconds; field names are stable and
// consumed by downstream tooling, so change them with care.

type jsonRun struct {
	RunID      string          `json:"run_id"`
	Timestamp  int64           `json:"timestamp_ms"`
	Go         jsonRuntime     `json:"go"`
	Config     jsonConfig      `json:"config"`
	Results    []jsonResult    `json:"results"`
	Comparison *jsonComparison `json:"comparison,omitempty"`
}

type jsonRuntime struct {
	Version string `json:"version"`
	OS      string `json:"os"`
	Arch    string `json:"arch"`
	NumCPU  int    `json:"num_cpu"`
}

type jsonConfig struct {
	Items       int `json:"items"`
	Repetitions int `json:"repetitions"`
	Warmup      int `json:"warmup"`
}

type jsonResult struct {
	Name           string       `json:"name"`
	Items          int          `json:"items"`
	Repetitions    int          `json:"repetitions"`
	TotalNs        int64        `json:"total_duration_ns"`
	Samples        []jsonSample `json:"samples"`
	Latency        jsonLatency  `json:"latency"`
	ItemsPerSecond float64      `json:"items_per_second"`
	Memory         *jsonMemory  `json:"memory,omitempty"`
}

type jsonSample struct {
	Repetition     int     `json:"repetition"`
	DurationNs     int64   `json:"duration_ns"`
	ItemsPerSecond float64 `json:"items_per_second"`
}

type jsonLatency struct {
	MinNs    int64   `json:"min_ns"`
	MaxNs    int64   `json:"max_ns"`
	MeanNs   int64   `json:"mean_ns"`
	MedianNs int64   `json:"median_ns"`
	StdDevNs int64   `json:"stddev_ns"`
	CV       float64 `json:"cv"`
}

type jsonMemory struct {
	HeapAllocBefore uint64 `json:"heap_alloc_before"`
	HeapAllocAfter  uint64 `json:"heap_alloc_after"`
	HeapAllocDelta  int64  `json:"heap_alloc_delta"`
	GCPauses        uint32 `json:"gc_pauses"`
	GCPauseTotalNs  int64  `json:"gc_pause_total_ns"`
}

type jsonComparison struct {
	Ranking     []string `json:"ranking"`
	Fastest     string   `json:"fastest"`
	Slowest     string   `json:"slowest"`
	Speedup     float64  `json:"speedup"`
	Significant bool     `json:"significant"`
	PValue      float64  `json:"p_value"`
	EffectSize  float64  `json:"effect_size"`
	EffectLabel string   `json:"effect_size_category"`
}

func newJSONResult(result *Result) jsonResult {
	out := jsonResult{
		Name:        result.Name,
		Items:       result.Items,
		Repetitions: result.Repetitions,
		TotalNs:     int64(result.TotalDuration),
		Samples:     make([]jsonSample, 0, len(result.Samples)),
		Latency: jsonLatency{
			MinNs:    int64(result.Latency.Min),
			MaxNs:    int64(result.Latency.Max),
			MeanNs:   int64(result.Latency.Mean),
			MedianNs: int64(result.Latency.Median),
			StdDevNs: int64(result.Latency.StdDev),
			CV:       result.Latency.CV,
		},
		ItemsPerSecond: result.Throughput.ItemsPerSecond,
	}
	for _, s := range result.Samples {
		out.Samples = append(out.Samples, jsonSample{
			Repetition:     s.Repetition,
			DurationNs:     int64(s.Duration),
			ItemsPerSecond: s.ItemsPerSecond,
		})
	}
	if result.Memory != nil {
		out.Memory = &jsonMemory{
			HeapAllocBefore: result.Memory.HeapAllocBefore,
			HeapAllocAfter:  result.Memory.HeapAllocAfter,
			HeapAllocDelta:  result.Memory.HeapAllocDelta,
			GCPauses:        result.Memory.GCPauses,
			GCPauseTotalNs:  int64(result.Memory.GCPauseTotal),
		}
	}
	return out
}
