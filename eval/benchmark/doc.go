// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package benchmark measures registered fill variants with statistical rigor.
//
// # Overview
//
// The benchmark package drives the fillbench measurement: it times repeated
// Fill invocations of every registered variant under one shared
// configuration, keeps every individual repetition, and derives aggregates
// and a cross-variant comparison from the full sample set.
//
// # Architecture
//
//	┌────────────────────────────────────────────────────────────┐
//	│                      Benchmark Harness                      │
//	├────────────────────────────────────────────────────────────┤
//	│                                                            │
//	│  ┌────────────┐       ┌────────────┐      ┌────────────┐  │
//	│  │   Runner   │───────│ Statistics │──────│  Reporter  │  │
//	│  │            │       │            │      │            │  │
//	│  │ • Warmup   │       │ • Latency  │      │ • Console  │  │
//	│  │ • Reps     │       │ • Welch t  │      │ • JSON     │  │
//	│  │ • Sink     │       │ • Cohen d  │      │            │  │
//	│  └────────────┘       └────────────┘      └────────────┘  │
//	│        │                    │                   │          │
//	│        └────────────────────┴───────────────────┘          │
//	│                             │                              │
//	│                             ▼                              │
//	│                   ┌──────────────────┐                     │
//	│                   │       Run        │                     │
//	│                   │                  │                     │
//	│                   │ • RunID          │                     │
//	│                   │ • Results        │                     │
//	│                   │ • Comparison     │                     │
//	│                   └──────────────────┘                     │
//	│                                                            │
//	└────────────────────────────────────────────────────────────┘
//
// # Usage
//
// Benchmarking a single variant:
//
//	runner := benchmark.NewRunner(registry)
//	result, err := runner.Run(ctx, "rawbuf_inplace",
//	    benchmark.WithItems(500000),
//	    benchmark.WithRepetitions(20),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Printf("mean: %v\n", result.Latency.Mean)
//
// Benchmarking everything and reporting:
//
//	run, err := runner.RunAll(ctx)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	benchmark.NewConsoleReporter(os.Stdout, false).ReportRun(run)
//
// # Measurement Discipline
//
// Each repetition is timed individually with the monotonic clock; setup
// and warmup repetitions never enter the timed region. Every variant's
// observation value is folded into a package-level sink so the measured
// work stays live from the compiler's point of view. Variants run
// strictly sequentially on the calling goroutine.
//
// # Statistical Rigor
//
// The package computes mean, median, standard deviation, min/max, and the
// coefficient of variation per variant, plus Welch's t-test and Cohen's d
// between the fastest and slowest variants of a run.
//
// # Thread Safety
//
// All types in this package are safe for concurrent use unless documented
// otherwise.
package benchmark
