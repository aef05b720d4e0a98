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

import "unsafe"

// Record is the fixed-size element every construction strategy builds.
// Two plain integer fields, no pointers, no internal references: a Record
// is trivially relocatable, which is what makes the raw-buffer strategies
// valid (slots may be initialized in place and the block released without
// per-slot teardown).
type Record struct {
	X, Y int64
}

// RecordSize is the in-memory size of one Record in bytes.
const RecordSize = unsafe.Sizeof(Record{})

// NewRecord returns a Record with both fields copied from the arguments.
// No validation, no side effects beyond the two field writes.
func NewRecord(x, y int64) Record {
	return Record{X: x, Y: y}
}

// ConstructAt initializes the Record at p directly, writing both fields
// through the pointer. This is the named construct-in-place primitive: it
// must behave identically to writing the fields at the call site, with no
// intermediate Record value. The rawbuf_construct_at variant exists to
// verify that this indirection costs nothing.
func ConstructAt(p *Record, x, y int64) {
	p.X = x
	p.Y = y
}
