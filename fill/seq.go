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

import "iter"

// Records returns a lazy sequence over [0, n): element i is produced as
// Record(i, i) at the moment the consumer asks for it, never materialized
// ahead of traversal. Both sequence-consuming strategies build from this
// exact sequence; they differ only in how they consume it.
func Records(n int) iter.Seq[Record] {
	return func(yield func(Record) bool) {
		for i := 0; i < n; i++ {
			if !yield(NewRecord(int64(i), int64(i))) {
				return
			}
		}
	}
}
