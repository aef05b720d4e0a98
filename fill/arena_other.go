// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

//go:build !unix

package fill

// Non-unix fallback: plain heap storage. The manual-release semantics are
// weaker here (the GC ultimately owns the block), but the construction
// patterns under measurement are unchanged.
func mapBytes(size int) ([]byte, error) {
	return make([]byte, size), nil
}

func unmapBytes([]byte) error { return nil }
