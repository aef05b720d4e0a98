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
	"iter"
	"slices"
	"unsafe"
)

// Every variant builds the same logical sequence for a given n:
// [Record(0,0), Record(1,1), ..., Record(n-1,n-1)]. That equivalence is
// what makes the timings comparable; Snapshot exists so tests can hold
// each strategy to it.
//
// Allocation failure in any variant is unrecoverable and panics. The
// harness has no partial-result mode to degrade into.

// observe returns an opaque observation of a built slice: the address of
// its first element, or 0 for an empty build.
func observe(vec []Record) uintptr {
	if len(vec) == 0 {
		return 0
	}
	return uintptr(unsafe.Pointer(&vec[0]))
}

// mustArena allocates an arena for n slots or panics.
func mustArena(n int) *Arena {
	a, err := NewArena(n)
	if err != nil {
		panic(fmt.Sprintf("fill: %v", err))
	}
	return a
}

// -----------------------------------------------------------------------------
// Raw-buffer strategies
// -----------------------------------------------------------------------------

// RawBufInplace is the baseline: allocate an uninitialized block sized for
// exactly n records and construct each slot in place, writing both fields
// directly through the slot pointer. No intermediate Record value exists at
// any point.
type RawBufInplace struct{}

// NewRawBufInplace returns the baseline raw-buffer strategy.
func NewRawBufInplace() *RawBufInplace { return &RawBufInplace{} }

// Name implements eval.Filler.
func (*RawBufInplace) Name() string { return "rawbuf_inplace" }

func (*RawBufInplace) build(slots []Record) {
	for i := range slots {
		p := &slots[i]
		p.X = int64(i)
		p.Y = int64(i)
	}
}

// Fill implements eval.Filler.
func (v *RawBufInplace) Fill(n int) uintptr {
	a := mustArena(n)
	defer a.Release()
	v.build(a.Slots())
	return a.Base()
}

// Snapshot returns the logical contents built this way.
func (v *RawBufInplace) Snapshot(n int) []Record {
	a := mustArena(n)
	defer a.Release()
	v.build(a.Slots())
	out := make([]Record, n)
	copy(out, a.Slots())
	return out
}

// RawBufConstructAt is semantically identical to RawBufInplace but routes
// every slot through the named ConstructAt primitive instead of writing the
// fields at the call site. It exists to verify the primitive lowers to the
// same code as the raw form: same stores, no temporary, no measurable
// difference.
type RawBufConstructAt struct{}

// NewRawBufConstructAt returns the named construct-in-place strategy.
func NewRawBufConstructAt() *RawBufConstructAt { return &RawBufConstructAt{} }

// Name implements eval.Filler.
func (*RawBufConstructAt) Name() string { return "rawbuf_construct_at" }

func (*RawBufConstructAt) build(slots []Record) {
	for i := range slots {
		ConstructAt(&slots[i], int64(i), int64(i))
	}
}

// Fill implements eval.Filler.
func (v *RawBufConstructAt) Fill(n int) uintptr {
	a := mustArena(n)
	defer a.Release()
	v.build(a.Slots())
	return a.Base()
}

// Snapshot returns the logical contents built this way.
func (v *RawBufConstructAt) Snapshot(n int) []Record {
	a := mustArena(n)
	defer a.Release()
	v.build(a.Slots())
	out := make([]Record, n)
	copy(out, a.Slots())
	return out
}

// RawBufAssign allocates the same uninitialized block but materializes a
// temporary Record for each index and assigns it into the slot.
//
// This variant is a codegen regression probe and must keep the
// temporary-then-assign shape. A compiler is free to lower it to the same
// two stores as the in-place form, but one that instead materializes the
// temporary on the stack and then copies it with a wider load can hit a
// store-to-load forwarding stall (several cycles per element) on common
// microarchitectures. If this variant ever diverges from rawbuf_inplace,
// that lowering is what changed. Do not rewrite it into in-place
// construction; doing so removes the signal it is here to catch.
type RawBufAssign struct{}

// NewRawBufAssign returns the assignment-based raw-buffer strategy.
func NewRawBufAssign() *RawBufAssign { return &RawBufAssign{} }

// Name implements eval.Filler.
func (*RawBufAssign) Name() string { return "rawbuf_assign" }

func (*RawBufAssign) build(slots []Record) {
	for i := range slots {
		slots[i] = NewRecord(int64(i), int64(i))
	}
}

// Fill implements eval.Filler.
func (v *RawBufAssign) Fill(n int) uintptr {
	a := mustArena(n)
	defer a.Release()
	v.build(a.Slots())
	return a.Base()
}

// Snapshot returns the logical contents built this way.
func (v *RawBufAssign) Snapshot(n int) []Record {
	a := mustArena(n)
	defer a.Release()
	v.build(a.Slots())
	out := make([]Record, n)
	copy(out, a.Slots())
	return out
}

// -----------------------------------------------------------------------------
// Incremental-append strategies
// -----------------------------------------------------------------------------

// AppendInplace pre-sizes a slice for n elements and appends a value
// constructed directly from the index: the literal is built straight into
// the append call, with no named temporary in the loop body.
type AppendInplace struct{}

// NewAppendInplace returns the direct-construct append strategy.
func NewAppendInplace() *AppendInplace { return &AppendInplace{} }

// Name implements eval.Filler.
func (*AppendInplace) Name() string { return "append_inplace" }

func (*AppendInplace) build(n int) []Record {
	vec := make([]Record, 0, n)
	for i := 0; i < n; i++ {
		vec = append(vec, Record{X: int64(i), Y: int64(i)})
	}
	return vec
}

// Fill implements eval.Filler.
func (v *AppendInplace) Fill(n int) uintptr {
	return observe(v.build(n))
}

// Snapshot returns the logical contents built this way.
func (v *AppendInplace) Snapshot(n int) []Record {
	return v.build(n)
}

// AppendCopy pre-sizes a slice for n elements, constructs a local temporary
// through the NewRecord constructor, and appends it by copy.
type AppendCopy struct{}

// NewAppendCopy returns the copy-append strategy.
func NewAppendCopy() *AppendCopy { return &AppendCopy{} }

// Name implements eval.Filler.
func (*AppendCopy) Name() string { return "append_copy" }

func (*AppendCopy) build(n int) []Record {
	vec := make([]Record, 0, n)
	for i := 0; i < n; i++ {
		rec := NewRecord(int64(i), int64(i))
		vec = append(vec, rec)
	}
	return vec
}

// Fill implements eval.Filler.
func (v *AppendCopy) Fill(n int) uintptr {
	return observe(v.build(n))
}

// Snapshot returns the logical contents built this way.
func (v *AppendCopy) Snapshot(n int) []Record {
	return v.build(n)
}

// -----------------------------------------------------------------------------
// Lazy-sequence strategies
// -----------------------------------------------------------------------------

// CollectSeq builds the whole destination in one call by handing the lazy
// sequence object itself to the consumer: elements are pulled out of
// Records(n) as the destination grows, never staged anywhere else.
type CollectSeq struct{}

// NewCollectSeq returns the direct sequence-collect strategy.
func NewCollectSeq() *CollectSeq { return &CollectSeq{} }

// Name implements eval.Filler.
func (*CollectSeq) Name() string { return "collect_seq" }

func (*CollectSeq) build(n int) []Record {
	return slices.AppendSeq(make([]Record, 0, n), Records(n))
}

// Fill implements eval.Filler.
func (v *CollectSeq) Fill(n int) uintptr {
	return observe(v.build(n))
}

// Snapshot returns the logical contents built this way.
func (v *CollectSeq) Snapshot(n int) []Record {
	return v.build(n)
}

// CollectPull consumes the same lazy sequence through an explicit pull
// iterator (next/stop pair) rather than handing the sequence object over
// whole. Exists to check the two consumption forms cost the same.
type CollectPull struct{}

// NewCollectPull returns the pull-iterator sequence strategy.
func NewCollectPull() *CollectPull { return &CollectPull{} }

// Name implements eval.Filler.
func (*CollectPull) Name() string { return "collect_pull" }

func (*CollectPull) build(n int) []Record {
	next, stop := iter.Pull(Records(n))
	defer stop()

	vec := make([]Record, 0, n)
	for {
		rec, ok := next()
		if !ok {
			return vec
		}
		vec = append(vec, rec)
	}
}

// Fill implements eval.Filler.
func (v *CollectPull) Fill(n int) uintptr {
	return observe(v.build(n))
}

// Snapshot returns the logical contents built this way.
func (v *CollectPull) Snapshot(n int) []Record {
	return v.build(n)
}
