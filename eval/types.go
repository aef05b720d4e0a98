// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package eval

import "errors"

// -----------------------------------------------------------------------------
// Errors
// -----------------------------------------------------------------------------

var (
	// ErrNotFound is returned when a filler is not found in the registry.
	ErrNotFound = errors.New("filler not found")

	// ErrAlreadyRegistered is returned when attempting to register a duplicate.
	ErrAlreadyRegistered = errors.New("filler already registered")

	// ErrNilFiller is returned when attempting to register nil.
	ErrNilFiller = errors.New("filler must not be nil")
)

// -----------------------------------------------------------------------------
// Core Interface
// -----------------------------------------------------------------------------

// Filler is the interface implemented by every construction strategy under
// measurement. A Filler builds a sequence of n records indexed 0..n-1, then
// discards it. What a "record" is and how the sequence is stored belong to
// the implementation; the benchmark layer only times the build and observes
// the returned value.
//
// Thread Safety: Implementations must be safe for concurrent use; in practice
// the runner invokes one Filler at a time on a single goroutine.
type Filler interface {
	// Name returns a unique identifier for reports and logging.
	// The name should be stable across versions and suitable for use
	// as a report key (lowercase, underscore-separated).
	//
	// Example: "rawbuf_inplace", "append_copy"
	Name() string

	// Fill is the timed operation: build n records using this strategy,
	// discard the result, and return an opaque observation of it (an
	// address or folded value). The runner feeds the observation into a
	// sink so the compiler must treat the construction as used; without
	// that the entire loop body could legally be eliminated and the
	// timing would measure nothing.
	//
	// n must be non-negative. n == 0 builds an empty collection and must
	// neither allocate element storage nor fail.
	Fill(n int) uintptr
}
