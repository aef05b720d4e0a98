// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package fill contains the record type and the seven construction
// strategies fillbench measures.
//
// # Overview
//
// Every strategy builds the same logical sequence for a count n —
// [Record(0,0), Record(1,1), ..., Record(n-1,n-1)] — and differs only in
// how the elements come into existence:
//
//   - rawbuf_inplace: manual uninitialized block, fields written straight
//     into each slot
//   - rawbuf_construct_at: same block, slots initialized via the named
//     ConstructAt primitive
//   - rawbuf_assign: same block, a temporary Record assigned into each slot
//     (kept deliberately as a temporary-materialization probe)
//   - append_inplace: pre-sized slice, elements constructed directly in the
//     append call
//   - append_copy: pre-sized slice, a named local appended by copy
//   - collect_seq: destination built in one call from a lazy sequence
//   - collect_pull: same lazy sequence drained through an explicit pull
//     iterator
//
// # Storage
//
// The raw-buffer strategies run on Arena, a manually managed block mapped
// outside the Go heap (see arena.go). The slice strategies use ordinary
// pre-sized slices. Neither kind of storage outlives a single Fill call.
//
// # Thread Safety
//
// All strategies are stateless and safe for concurrent use.
package fill
