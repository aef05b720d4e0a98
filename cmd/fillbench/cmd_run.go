package main

import (
	"context"
	"fmt"
	"os"

	"github.com/AleutianAI/fillbench/eval"
	"github.com/AleutianAI/fillbench/eval/benchmark"
	"github.com/AleutianAI/fillbench/fill"
	"github.com/AleutianAI/fillbench/pkg/logging"
	"github.com/AleutianAI/fillbench/pkg/ux"
	"github.com/spf13/cobra"
)

// newRegistry registers every fill variant in measurement order. The
// raw-buffer forms come first so their results sit next to each other
// in the report; within each storage family, the baseline leads.
func newRegistry() *eval.Registry {
	registry := eval.NewRegistry()
	registry.MustRegister(fill.NewRawBufInplace())
	registry.MustRegister(fill.NewRawBufConstructAt())
	registry.MustRegister(fill.NewRawBufAssign())
	registry.MustRegister(fill.NewAppendInplace())
	registry.MustRegister(fill.NewAppendCopy())
	registry.MustRegister(fill.NewCollectSeq())
	registry.MustRegister(fill.NewCollectPull())
	return registry
}

func runBenchmark(cmd *cobra.Command, _ []string) error {
	// 1. Merge file config under flags. Flags the user touched win.
	if configPath != "" {
		fc, err := loadFileConfig(configPath)
		if err != nil {
			return err
		}
		applyFileConfig(cmd, fc)
	}

	if plain {
		ux.SetPlain(true)
	}

	// 2. Set up logging (stderr keeps stdout clean for results)
	logger := logging.New(logging.Config{
		Level:   logging.ParseLevel(logLevel),
		LogDir:  logDir,
		Service: "fillbench",
	})
	defer func() {
		if err := logger.Close(); err != nil {
			fmt.Fprintf(os.Stderr, "closing logger: %v\n", err)
		}
	}()

	// 3. Build the run configuration
	opts := []benchmark.RunOption{
		benchmark.WithItems(items),
		benchmark.WithRepetitions(reps),
		benchmark.WithWarmup(warmup),
	}
	if noMemory {
		opts = append(opts, benchmark.WithMemoryCollection(false))
	}

	// 4. Run every variant
	registry := newRegistry()
	runner := benchmark.NewRunner(registry)
	runner.SetLogger(logger.Slog())

	ux.Muted(fmt.Sprintf("measuring %d variants...", registry.Count()))

	run, err := runner.RunAll(context.Background(), opts...)
	if err != nil {
		logger.Error("benchmark run failed", "error", err)
		return fmt.Errorf("running benchmarks: %w", err)
	}

	// 5. Report: aggregates to the console, everything to the file
	console := benchmark.NewConsoleReporter(os.Stdout, verbose)
	if err := console.ReportRun(run); err != nil {
		return fmt.Errorf("writing console report: %w", err)
	}

	if outputPath != "" {
		if err := writeJSONReport(run, outputPath); err != nil {
			logger.Error("report write failed", "path", outputPath, "error", err)
			return err
		}
		ux.Success(fmt.Sprintf("full report written to %s", outputPath))
	}

	logger.Info("run completed",
		"run_id", run.RunID,
		"variants", len(run.Results),
		"items", run.Config.Items,
		"repetitions", run.Config.Repetitions,
	)
	return nil
}

// applyFileConfig copies file values into the flag variables for every
// flag the user did not set explicitly.
func applyFileConfig(cmd *cobra.Command, fc *FileConfig) {
	flags := cmd.Flags()
	if fc.Items != nil && !flags.Changed("items") {
		items = *fc.Items
	}
	if fc.Repetitions != nil && !flags.Changed("repetitions") {
		reps = *fc.Repetitions
	}
	if fc.Warmup != nil && !flags.Changed("warmup") {
		warmup = *fc.Warmup
	}
	if fc.NoMemory != nil && !flags.Changed("no-memory") {
		noMemory = *fc.NoMemory
	}
	if fc.Output != "" && !flags.Changed("out") {
		outputPath = fc.Output
	}
	if fc.Pretty != nil && !flags.Changed("pretty") {
		pretty = *fc.Pretty
	}
	if fc.Verbose != nil && !flags.Changed("verbose") {
		verbose = *fc.Verbose
	}
	if fc.LogLevel != "" && !flags.Changed("log-level") {
		logLevel = fc.LogLevel
	}
	if fc.LogDir != "" && !flags.Changed("log-dir") {
		logDir = fc.LogDir
	}
	if fc.Plain != nil && !flags.Changed("plain") {
		plain = *fc.Plain
	}
}

// writeJSONReport writes the full structured report to path.
func writeJSONReport(run *benchmark.Run, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating report file %s: %w", path, err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil {
			fmt.Fprintf(os.Stderr, "closing report file: %v\n", closeErr)
		}
	}()

	reporter := benchmark.NewJSONReporter(f, pretty)
	if err := reporter.ReportRun(run); err != nil {
		return fmt.Errorf("writing report to %s: %w", path, err)
	}
	return nil
}

func listVariants(_ *cobra.Command, _ []string) {
	for _, name := range newRegistry().List() {
		fmt.Println(name)
	}
}
