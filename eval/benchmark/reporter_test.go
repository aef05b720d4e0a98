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
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"
)

func createTestResult() *Result {
	samples := []Sample{
		{Repetition: 0, Duration: 9 * time.Millisecond, ItemsPerSecond: 55_555_555},
		{Repetition: 1, Duration: 10 * time.Millisecond, ItemsPerSecond: 50_000_000},
		{Repetition: 2, Duration: 11 * time.Millisecond, ItemsPerSecond: 45_454_545},
	}
	res := &Result{
		Name:          "rawbuf_inplace",
		Items:         500_000,
		Repetitions:   3,
		TotalDuration: 30 * time.Millisecond,
		Samples:       samples,
		Throughput:    ThroughputStats{ItemsPerSecond: 50_000_000},
		Memory: &MemoryStats{
			HeapAllocBefore: 1024 * 1024,
			HeapAllocAfter:  1024 * 1024,
			HeapAllocDelta:  0,
			GCPauses:        1,
			GCPauseTotal:    50 * time.Microsecond,
		},
	}
	res.Latency, _ = CalculateLatencyStats(durations(samples))
	return res
}

func createTestRun() *Run {
	fast := createTestResult()
	slow := createTestResult()
	slow.Name = "collect_pull"
	for i := range slow.Samples {
		slow.Samples[i].Duration *= 4
	}
	slow.Latency, _ = CalculateLatencyStats(durations(slow.Samples))

	results := []*Result{fast, slow}
	return &Run{
		RunID:      "3e6f0b3a-0000-4000-8000-000000000001",
		Timestamp:  time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC).UnixMilli(),
		GoVersion:  "go1.25.3",
		GOOS:       "linux",
		GOARCH:     "amd64",
		NumCPU:     8,
		Config:     DefaultConfig(),
		Results:    results,
		Comparison: Compare(results),
	}
}

func TestConsoleReporter_Report(t *testing.T) {
	t.Run("aggregates only", func(t *testing.T) {
		var buf bytes.Buffer
		reporter := NewConsoleReporter(&buf, false)

		if err := reporter.Report(createTestResult()); err != nil {
			t.Fatalf("Report failed: %v", err)
		}

		output := buf.String()
		for _, want := range []string{"rawbuf_inplace", "Mean:", "Median:", "StdDev:", "Items/sec:"} {
			if !strings.Contains(output, want) {
				t.Errorf("Output should contain %q", want)
			}
		}
		// Individual repetitions belong in the structured report only
		if strings.Contains(output, "Repetition 0") || strings.Contains(output, "9ms,") {
			t.Error("Console output should not list individual repetitions")
		}
		if strings.Contains(output, "Heap Before:") {
			t.Error("Memory stats should require verbose")
		}
	})

	t.Run("verbose includes memory", func(t *testing.T) {
		var buf bytes.Buffer
		reporter := NewConsoleReporter(&buf, true)

		if err := reporter.Report(createTestResult()); err != nil {
			t.Fatalf("Report failed: %v", err)
		}

		if !strings.Contains(buf.String(), "Heap Before:") {
			t.Error("Verbose output should contain memory stats")
		}
	})
}

func TestConsoleReporter_ReportRun(t *testing.T) {
	var buf bytes.Buffer
	reporter := NewConsoleReporter(&buf, false)

	if err := reporter.ReportRun(createTestRun()); err != nil {
		t.Fatalf("ReportRun failed: %v", err)
	}

	output := buf.String()
	for _, want := range []string{
		"Fill Benchmark",
		"go1.25.3",
		"items=500000 repetitions=20",
		"rawbuf_inplace",
		"collect_pull",
		"Ranking (fastest first):",
		"rawbuf_inplace vs collect_pull",
	} {
		if !strings.Contains(output, want) {
			t.Errorf("Output should contain %q", want)
		}
	}
}

func TestJSONReporter_ReportRun(t *testing.T) {
	var buf bytes.Buffer
	reporter := NewJSONReporter(&buf, false)
	run := createTestRun()

	if err := reporter.ReportRun(run); err != nil {
		t.Fatalf("ReportRun failed: %v", err)
	}

	var doc struct {
		RunID string `json:"run_id"`
		Go    struct {
			Version string `json:"version"`
		} `json:"go"`
		Config struct {
			Items       int `json:"items"`
			Repetitions int `json:"repetitions"`
		} `json:"config"`
		Results []struct {
			Name    string `json:"name"`
			Samples []struct {
				Repetition int   `json:"repetition"`
				DurationNs int64 `json:"duration_ns"`
			} `json:"samples"`
			Latency struct {
				MeanNs   int64 `json:"mean_ns"`
				MedianNs int64 `json:"median_ns"`
				StdDevNs int64 `json:"stddev_ns"`
			} `json:"latency"`
		} `json:"results"`
		Comparison *struct {
			Fastest string   `json:"fastest"`
			Ranking []string `json:"ranking"`
		} `json:"comparison"`
	}
	if err := json.Unmarshal(buf.Bytes(), &doc); err != nil {
		t.Fatalf("Output is not valid JSON: %v", err)
	}

	if doc.RunID != run.RunID {
		t.Errorf("run_id = %s, want %s", doc.RunID, run.RunID)
	}
	if doc.Go.Version != "go1.25.3" {
		t.Errorf("go.version = %s, want go1.25.3", doc.Go.Version)
	}
	if doc.Config.Items != 500_000 || doc.Config.Repetitions != 20 {
		t.Errorf("config = %+v, want items=500000 repetitions=20", doc.Config)
	}
	if len(doc.Results) != 2 {
		t.Fatalf("results = %d, want 2", len(doc.Results))
	}
	// Every individual repetition must survive into the report
	for _, res := range doc.Results {
		if len(res.Samples) != 3 {
			t.Errorf("%s: samples = %d, want 3", res.Name, len(res.Samples))
		}
		if res.Latency.MeanNs == 0 || res.Latency.MedianNs == 0 {
			t.Errorf("%s: aggregates missing", res.Name)
		}
	}
	if doc.Comparison == nil {
		t.Fatal("comparison missing")
	}
	if doc.Comparison.Fastest != "rawbuf_inplace" {
		t.Errorf("fastest = %s, want rawbuf_inplace", doc.Comparison.Fastest)
	}
	if len(doc.Comparison.Ranking) != 2 {
		t.Errorf("ranking = %v, want 2 entries", doc.Comparison.Ranking)
	}
}

func TestJSONReporter_Pretty(t *testing.T) {
	var compact, pretty bytes.Buffer
	result := createTestResult()

	if err := NewJSONReporter(&compact, false).Report(result); err != nil {
		t.Fatalf("Report failed: %v", err)
	}
	if err := NewJSONReporter(&pretty, true).Report(result); err != nil {
		t.Fatalf("Report failed: %v", err)
	}

	if !json.Valid(compact.Bytes()) || !json.Valid(pretty.Bytes()) {
		t.Fatal("Both outputs should be valid JSON")
	}
	if pretty.Len() <= compact.Len() {
		t.Error("Pretty output should be larger than compact")
	}
	if !strings.Contains(pretty.String(), "\n  ") {
		t.Error("Pretty output should be indented")
	}
}
