// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

//go:build unix

package fill

import "golang.org/x/sys/unix"

// mapBytes acquires size bytes of uninitialized storage as an anonymous
// private mapping. The block lives outside the Go heap: the GC never scans
// it and never frees it, so release is entirely the caller's problem.
func mapBytes(size int) ([]byte, error) {
	return unix.Mmap(-1, 0, size,
		unix.PROT_READ|unix.PROT_WRITE,
		unix.MAP_ANON|unix.MAP_PRIVATE)
}

// unmapBytes returns a block obtained from mapBytes to the system.
func unmapBytes(buf []byte) error {
	return unix.Munmap(buf)
}
