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
	"errors"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/go-playground/validator/v10"
)

// -----------------------------------------------------------------------------
// Errors
// -----------------------------------------------------------------------------

var (
	// ErrNoSamples indicates that no samples were collected.
	ErrNoSamples = errors.New("no samples collected")

	// ErrInvalidConfig indicates an invalid benchmark configuration.
	ErrInvalidConfig = errors.New("invalid benchmark configuration")
)

// -----------------------------------------------------------------------------
// Configuration
// -----------------------------------------------------------------------------

var validate = validator.New()

// Config holds benchmark configuration.
//
// Description:
//
//	Config controls a benchmark invocation: how many records each timed
//	repetition builds, how many repetitions are measured, and how many
//	warmup repetitions run first. Use DefaultConfig() for the standard
//	invocation and override fields as needed.
//
// Thread Safety: Safe for concurrent read access after initialization.
type Config struct {
	// Items is the record count each timed repetition builds.
	// Default: 500000
	Items int `validate:"gte=0"`

	// Repetitions is the number of measured repetitions per variant.
	// Default: 20
	Repetitions int `validate:"gt=0"`

	// Warmup is the number of discarded repetitions before measurement.
	// Default: 1
	Warmup int `validate:"gte=0"`

	// CollectMemory enables heap statistics collection around each
	// variant's measured repetitions.
	// Default: true
	CollectMemory bool
}

// DefaultConfig returns the standard invocation configuration.
//
// Outputs:
//   - *Config: Configuration with default values. Never nil.
func DefaultConfig() *Config {
	return &Config{
		Items:         500_000,
		Repetitions:   20,
		Warmup:        1,
		CollectMemory: true,
	}
}

// Validate checks that the configuration is valid.
//
// Outputs:
//   - error: Non-nil if a field fails validation, wrapping
//     ErrInvalidConfig with the validator's field report.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return nil
}

// -----------------------------------------------------------------------------
// Results
// -----------------------------------------------------------------------------

// Sample is one measured repetition of one variant.
type Sample struct {
	// Repetition is the zero-based repetition index.
	Repetition int

	// Duration is the wall-clock time of this repetition.
	Duration time.Duration

	// ItemsPerSecond is this repetition's throughput: items built
	// divided by Duration. Zero when Duration is zero.
	ItemsPerSecond float64
}

// Result holds the measurements of one variant across all repetitions.
//
// Description:
//
//	Result keeps every individual sample plus the aggregates derived from
//	them, so the structured report can carry both while the console shows
//	aggregates only.
//
// Thread Safety: Safe for concurrent read access after creation.
type Result struct {
	// Name is the variant's registered name.
	Name string

	// Items is the record count each repetition built.
	Items int

	// Repetitions is the number of measured repetitions.
	Repetitions int

	// TotalDuration is the summed wall-clock time of all measured
	// repetitions (setup and warmup excluded).
	TotalDuration time.Duration

	// Samples holds every measured repetition in order.
	Samples []Sample

	// Latency holds duration aggregates across repetitions.
	Latency LatencyStats

	// Throughput holds the aggregate items-per-second across the whole
	// measured region.
	Throughput ThroughputStats

	// Memory holds heap statistics, if collected.
	Memory *MemoryStats
}

// LatencyStats holds duration aggregates across a variant's repetitions.
//
// Thread Safety: Safe for concurrent read access after creation.
type LatencyStats struct {
	// Min is the fastest repetition.
	Min time.Duration

	// Max is the slowest repetition.
	Max time.Duration

	// Mean is the arithmetic mean of repetition durations.
	Mean time.Duration

	// Median is the 50th percentile (linear interpolation).
	Median time.Duration

	// StdDev is the population standard deviation.
	StdDev time.Duration

	// Variance is the population variance (StdDev squared, in ns²).
	Variance float64

	// CV is the coefficient of variation (StdDev / Mean). A rough
	// stability signal: values well under 0.5 mean the repetitions
	// agree with each other absent system noise.
	CV float64
}

// ThroughputStats holds aggregate throughput for a variant.
type ThroughputStats struct {
	// ItemsPerSecond is total items built across all measured
	// repetitions divided by the total measured time.
	ItemsPerSecond float64
}

// MemoryStats holds heap behavior around a variant's measured repetitions.
//
// Description:
//
//	Captured from runtime.MemStats before the first and after the last
//	repetition. Mainly useful for the manually managed buffer variants,
//	whose storage never touches the Go heap: a growing delta there means
//	a leak in the arena lifecycle.
type MemoryStats struct {
	// HeapAllocBefore is the live heap before the measured region.
	HeapAllocBefore uint64

	// HeapAllocAfter is the live heap after the measured region.
	HeapAllocAfter uint64

	// HeapAllocDelta is the change in live heap across the region.
	HeapAllocDelta int64

	// GCPauses is the number of GC cycles during the region.
	GCPauses uint32

	// GCPauseTotal is the total GC pause time during the region.
	GCPauseTotal time.Duration
}

// Run is one complete benchmark invocation: every variant's Result plus
// shared metadata and the cross-variant comparison.
//
// Thread Safety: Safe for concurrent read access after creation.
type Run struct {
	// RunID uniquely identifies this invocation across reports.
	RunID string

	// Timestamp is when the invocation started (Unix milliseconds UTC).
	Timestamp int64

	// GoVersion, GOOS, GOARCH, NumCPU describe the runtime that
	// produced the numbers; codegen-sensitive variants make no sense
	// to compare without them.
	GoVersion string
	GOOS      string
	GOARCH    string
	NumCPU    int

	// Config is the configuration shared by all variants in this run.
	Config *Config

	// Results holds one entry per variant, in execution order.
	Results []*Result

	// Comparison ranks the variants and tests the extremes for
	// statistical significance. Nil when fewer than two variants ran.
	Comparison *ComparisonResult
}

// -----------------------------------------------------------------------------
// Comparison
// -----------------------------------------------------------------------------

// ComparisonResult holds the cross-variant analysis of one run.
//
// Description:
//
//	Variants are ranked by mean repetition duration. The fastest and
//	slowest are compared with Welch's t-test for significance and
//	Cohen's d for effect size.
//
// Thread Safety: Safe for concurrent read access after creation.
type ComparisonResult struct {
	// Ranking is the variant names ordered fastest to slowest by mean.
	Ranking []string

	// Fastest and Slowest name the extremes of the ranking.
	Fastest string
	Slowest string

	// Speedup is slowest mean over fastest mean.
	Speedup float64

	// Significant indicates the fastest/slowest difference passed the
	// significance test at ConfidenceLevel.
	Significant bool

	// PValue is the two-tailed p-value from Welch's t-test.
	PValue float64

	// ConfidenceLevel is the confidence level used (e.g., 0.95).
	ConfidenceLevel float64

	// EffectSize is Cohen's d between fastest and slowest.
	EffectSize float64

	// EffectSizeCategory categorizes the effect size.
	EffectSizeCategory EffectSizeCategory
}

// EffectSizeCategory categorizes effect sizes using Cohen's conventions.
type EffectSizeCategory int

const (
	// EffectNegligible indicates Cohen's d < 0.2
	EffectNegligible EffectSizeCategory = iota
	// EffectSmall indicates Cohen's d between 0.2 and 0.5
	EffectSmall
	// EffectMedium indicates Cohen's d between 0.5 and 0.8
	EffectMedium
	// EffectLarge indicates Cohen's d >= 0.8
	EffectLarge
)

// String returns the string representation of the effect size category.
func (e EffectSizeCategory) String() string {
	switch e {
	case EffectNegligible:
		return "negligible"
	case EffectSmall:
		return "small"
	case EffectMedium:
		return "medium"
	case EffectLarge:
		return "large"
	default:
		return "unknown"
	}
}

// CategorizeEffectSize returns the category for a given Cohen's d value.
// Uses the absolute value, so direction doesn't affect the category.
func CategorizeEffectSize(d float64) EffectSizeCategory {
	absD := math.Abs(d)
	switch {
	case absD < 0.2:
		return EffectNegligible
	case absD < 0.5:
		return EffectSmall
	case absD < 0.8:
		return EffectMedium
	default:
		return EffectLarge
	}
}

// Compare builds the cross-variant comparison for a set of results.
//
// Description:
//
//	Ranks results by mean repetition duration and runs the statistical
//	comparison between the fastest and slowest. Returns nil when fewer
//	than two results are present; there is nothing to rank.
//
// Inputs:
//   - results: Per-variant results. Each must carry its samples.
//
// Outputs:
//   - *ComparisonResult: The comparison, or nil for < 2 results.
func Compare(results []*Result) *ComparisonResult {
	if len(results) < 2 {
		return nil
	}

	ranked := make([]*Result, len(results))
	copy(ranked, results)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Latency.Mean < ranked[j].Latency.Mean
	})

	cmp := &ComparisonResult{
		Ranking:         make([]string, len(ranked)),
		ConfidenceLevel: 0.95,
	}
	for i, res := range ranked {
		cmp.Ranking[i] = res.Name
	}

	fastest := ranked[0]
	slowest := ranked[len(ranked)-1]
	cmp.Fastest = fastest.Name
	cmp.Slowest = slowest.Name

	fastSamples := durations(fastest.Samples)
	slowSamples := durations(slowest.Samples)

	_, cmp.PValue = WelchTTest(fastSamples, slowSamples)
	cmp.Significant = cmp.PValue < (1 - cmp.ConfidenceLevel)

	cmp.EffectSize = CalculateCohensD(fastSamples, slowSamples)
	cmp.EffectSizeCategory = CategorizeEffectSize(cmp.EffectSize)

	if fastest.Latency.Mean > 0 {
		cmp.Speedup = float64(slowest.Latency.Mean) / float64(fastest.Latency.Mean)
	}

	return cmp
}

func durations(samples []Sample) []time.Duration {
	out := make([]time.Duration, len(samples))
	for i, s := range samples {
		out[i] = s.Duration
	}
	return out
}

// -----------------------------------------------------------------------------
// Statistics Functions
// -----------------------------------------------------------------------------

// CalculateLatencyStats computes duration aggregates from samples.
//
// Description:
//
//	Computes min, max, mean, median, population standard deviation,
//	variance, and the coefficient of variation. The median uses linear
//	interpolation between the two central samples.
//
// Inputs:
//   - samples: Duration samples. Must not be empty.
//
// Outputs:
//   - LatencyStats: Computed aggregates with all fields populated.
//   - error: ErrNoSamples if samples is empty.
//
// Thread Safety: This function is stateless and safe for concurrent use.
func CalculateLatencyStats(samples []time.Duration) (LatencyStats, error) {
	if len(samples) == 0 {
		return LatencyStats{}, ErrNoSamples
	}

	sorted := make([]time.Duration, len(samples))
	copy(sorted, samples)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i] < sorted[j]
	})

	stats := LatencyStats{
		Min:    sorted[0],
		Max:    sorted[len(sorted)-1],
		Median: percentile(sorted, 0.5),
	}

	var sum time.Duration
	for _, s := range samples {
		sum += s
	}
	stats.Mean = sum / time.Duration(len(samples))

	var sumSquaredDiff float64
	meanFloat := float64(stats.Mean)
	for _, s := range samples {
		diff := float64(s) - meanFloat
		sumSquaredDiff += diff * diff
	}
	stats.Variance = sumSquaredDiff / float64(len(samples))
	stats.StdDev = time.Duration(math.Sqrt(stats.Variance))

	if stats.Mean > 0 {
		stats.CV = float64(stats.StdDev) / float64(stats.Mean)
	}

	return stats, nil
}

// percentile calculates the p-th percentile of sorted samples using linear
// interpolation.
func percentile(sorted []time.Duration, p float64) time.Duration {
	if len(sorted) == 0 {
		return 0
	}
	if len(sorted) == 1 {
		return sorted[0]
	}

	index := p * float64(len(sorted)-1)
	lower := int(math.Floor(index))
	upper := int(math.Ceil(index))

	if lower == upper {
		return sorted[lower]
	}

	fraction := index - float64(lower)
	return time.Duration(float64(sorted[lower])*(1-fraction) + float64(sorted[upper])*fraction)
}

// calculateMean calculates the arithmetic mean of samples.
func calculateMean(samples []time.Duration) float64 {
	if len(samples) == 0 {
		return 0
	}
	var sum float64
	for _, s := range samples {
		sum += float64(s)
	}
	return sum / float64(len(samples))
}

// calculateVariance calculates the population variance of samples.
func calculateVariance(samples []time.Duration, mean float64) float64 {
	if len(samples) == 0 {
		return 0
	}
	var sumSquaredDiff float64
	for _, s := range samples {
		diff := float64(s) - mean
		sumSquaredDiff += diff * diff
	}
	return sumSquaredDiff / float64(len(samples))
}

// CalculateCohensD calculates Cohen's d effect size between two sample sets.
//
// Description:
//
//	Cohen's d measures the standardized difference between two means,
//	using the pooled standard deviation as the denominator. Positive d
//	indicates samples1 > samples2.
//
// Outputs:
//   - float64: Cohen's d. Returns 0 if either set is empty or the pooled
//     standard deviation is 0.
//
// Thread Safety: This function is stateless and safe for concurrent use.
func CalculateCohensD(samples1, samples2 []time.Duration) float64 {
	if len(samples1) == 0 || len(samples2) == 0 {
		return 0
	}

	mean1 := calculateMean(samples1)
	mean2 := calculateMean(samples2)

	var1 := calculateVariance(samples1, mean1)
	var2 := calculateVariance(samples2, mean2)

	n1 := float64(len(samples1))
	n2 := float64(len(samples2))
	pooledVar := ((n1-1)*var1 + (n2-1)*var2) / (n1 + n2 - 2)
	pooledStdDev := math.Sqrt(pooledVar)

	if pooledStdDev == 0 {
		return 0
	}

	return (mean1 - mean2) / pooledStdDev
}

// WelchTTest performs Welch's t-test for two sample sets.
//
// Description:
//
//	Welch's t-test handles unequal variances and sample sizes, making it
//	the right default for comparing two variants' repetition timings.
//
// Inputs:
//   - samples1: First sample set. Must have at least 2 samples.
//   - samples2: Second sample set. Must have at least 2 samples.
//
// Outputs:
//   - tStatistic: The t-statistic. Negative if samples1 < samples2.
//   - pValue: Approximate two-tailed p-value. Returns 1 if samples are
//     insufficient or have zero variance.
//
// Thread Safety: This function is stateless and safe for concurrent use.
//
// Limitations:
//   - Uses a normal approximation for the p-value when df >= 30, and a
//     rough approximation below that. Good enough for a winner banner;
//     use a statistics library for publication-grade p-values.
func WelchTTest(samples1, samples2 []time.Duration) (tStatistic, pValue float64) {
	if len(samples1) < 2 || len(samples2) < 2 {
		return 0, 1
	}

	mean1 := calculateMean(samples1)
	mean2 := calculateMean(samples2)

	var1 := calculateVariance(samples1, mean1)
	var2 := calculateVariance(samples2, mean2)

	n1 := float64(len(samples1))
	n2 := float64(len(samples2))

	se := math.Sqrt(var1/n1 + var2/n2)
	if se == 0 {
		return 0, 1
	}

	tStatistic = (mean1 - mean2) / se

	// Degrees of freedom (Welch-Satterthwaite equation)
	num := math.Pow(var1/n1+var2/n2, 2)
	denom := math.Pow(var1/n1, 2)/(n1-1) + math.Pow(var2/n2, 2)/(n2-1)
	if denom == 0 {
		return tStatistic, 1
	}
	df := num / denom

	if df >= 30 {
		pValue = 2 * normalCDF(-math.Abs(tStatistic))
	} else if df > 2 {
		pValue = 2 * normalCDF(-math.Abs(tStatistic)*math.Sqrt(df/(df-2)))
	} else {
		pValue = 1
	}

	return tStatistic, pValue
}

// normalCDF approximates the cumulative distribution function for the
// standard normal.
func normalCDF(x float64) float64 {
	return 0.5 * (1 + math.Erf(x/math.Sqrt(2)))
}
