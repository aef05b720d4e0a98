// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package main

import (
	"github.com/spf13/cobra"
)

// --- Global Command Variables ---
var (
	configPath string
	items      int
	reps       int
	warmup     int
	noMemory   bool
	outputPath string
	pretty     bool
	verbose    bool
	logLevel   string
	logDir     string
	plain      bool

	rootCmd = &cobra.Command{
		Use:   "fillbench",
		Short: "A micro-benchmark for sequential container fill strategies",
		Long: `fillbench measures seven ways of populating a sequential container
with fixed-size records: manual raw-buffer construction (in-place, via a
named primitive, and via assignment), pre-sized incremental append
(direct-construct and copy), and bulk collection from a lazy sequence
(direct and through an explicit pull iterator).

Aggregates print to the console; every individual repetition goes to the
structured JSON report.`,
	}

	runCmd = &cobra.Command{
		Use:   "run",
		Short: "Run all fill variants and report aggregates",
		RunE:  runBenchmark, // Defined in cmd_run.go
	}

	listCmd = &cobra.Command{
		Use:   "list",
		Short: "List the registered fill variants",
		Run:   listVariants, // Defined in cmd_run.go
	}
)

func init() {
	runCmd.Flags().StringVar(&configPath, "config", "", "Optional YAML config file (flags override its values)")
	runCmd.Flags().IntVar(&items, "items", 500_000, "Records per repetition")
	runCmd.Flags().IntVar(&reps, "repetitions", 20, "Measured repetitions per variant")
	runCmd.Flags().IntVar(&warmup, "warmup", 1, "Discarded warmup repetitions per variant")
	runCmd.Flags().BoolVar(&noMemory, "no-memory", false, "Skip heap statistics collection")
	runCmd.Flags().StringVar(&outputPath, "out", "fillbench_report.json", "Write the full JSON report to this file (empty to suppress)")
	runCmd.Flags().BoolVar(&pretty, "pretty", false, "Indent the JSON report")
	runCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Include memory statistics in console output")
	runCmd.Flags().StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	runCmd.Flags().StringVar(&logDir, "log-dir", "", "Also write JSON logs to this directory")
	runCmd.Flags().BoolVar(&plain, "plain", false, "Disable terminal styling")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(listCmd)
}
