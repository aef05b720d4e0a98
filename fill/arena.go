// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package fill

import (
	"fmt"
	"unsafe"
)

// Arena is a manually managed block of uninitialized storage sized for
// exactly n Records. It models raw allocation: slots carry no values until
// a strategy constructs them, the block is released explicitly, and release
// performs no per-slot teardown. The caller owns the lifetime and must
// guarantee Release on every exit path; using Slots after Release is
// undefined behavior, so the lifetime of the slot view must not exceed the
// lifetime of the Arena.
//
// On unix the storage is an anonymous private mapping outside the Go heap,
// so allocation and release are explicit syscalls rather than GC events.
type Arena struct {
	buf []byte
	n   int
}

// NewArena maps uninitialized storage for exactly n records.
//
// Inputs:
//   - n: Number of record slots. Must be non-negative. n == 0 creates an
//     empty arena with no mapping at all.
//
// Outputs:
//   - *Arena: The arena. Never nil on success.
//   - error: Non-nil if the mapping fails (resource exhaustion). Callers
//     treat this as fatal; there is no partial-allocation mode.
func NewArena(n int) (*Arena, error) {
	if n < 0 {
		return nil, fmt.Errorf("arena: negative slot count %d", n)
	}
	a := &Arena{n: n}
	if n == 0 {
		return a, nil
	}

	buf, err := mapBytes(n * int(RecordSize))
	if err != nil {
		return nil, fmt.Errorf("arena: mapping %d slots: %w", n, err)
	}
	a.buf = buf
	return a, nil
}

// Slots returns the record view over the raw storage. The returned slice
// has length n; its elements are logically uninitialized until a strategy
// constructs them. Valid only until Release.
func (a *Arena) Slots() []Record {
	if a.n == 0 || a.buf == nil {
		return nil
	}
	return unsafe.Slice((*Record)(unsafe.Pointer(&a.buf[0])), a.n)
}

// Len returns the number of record slots.
func (a *Arena) Len() int { return a.n }

// Base returns the address of the storage block, or 0 for an empty arena.
// The value stays meaningful as an opaque observation even after Release.
func (a *Arena) Base() uintptr {
	if a.buf == nil {
		return 0
	}
	return uintptr(unsafe.Pointer(&a.buf[0]))
}

// Release returns the storage to the system. Safe to call more than once;
// only the first call unmaps. No per-slot destruction happens here: a
// Record holds no resources needing cleanup, which is a precondition of
// this whole allocation scheme.
func (a *Arena) Release() error {
	if a.buf == nil {
		return nil
	}
	buf := a.buf
	a.buf = nil
	if err := unmapBytes(buf); err != nil {
		return fmt.Errorf("arena: releasing %d slots: %w", a.n, err)
	}
	return nil
}
