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

import (
	"fmt"
	"sort"
	"sync"
)

// Registry manages the construction strategies under measurement.
//
// Description:
//
//	The Registry provides a central location for registering and looking up
//	fillers. Registration order is preserved so that a benchmark invocation
//	runs variants in the order they were wired, matching the report layout.
//
// Thread Safety: Safe for concurrent use via read-write mutex.
type Registry struct {
	mu      sync.RWMutex
	fillers map[string]Filler
	order   []string
}

// NewRegistry creates a new empty registry.
//
// Outputs:
//   - *Registry: The new registry. Never nil.
//
// Example:
//
//	registry := eval.NewRegistry()
//	registry.MustRegister(fill.NewAppendCopy())
func NewRegistry() *Registry {
	return &Registry{
		fillers: make(map[string]Filler),
	}
}

// Register adds a filler to the registry.
//
// Description:
//
//	Registers the filler under its Name(). The name must be unique
//	within the registry.
//
// Inputs:
//   - f: The filler to register. Must not be nil.
//
// Outputs:
//   - error: nil on success, ErrNilFiller if f is nil,
//     ErrAlreadyRegistered if the name is already taken.
//
// Thread Safety: Safe for concurrent use.
func (r *Registry) Register(f Filler) error {
	if f == nil {
		return ErrNilFiller
	}

	name := f.Name()

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.fillers[name]; exists {
		return fmt.Errorf("%w: %s", ErrAlreadyRegistered, name)
	}

	r.fillers[name] = f
	r.order = append(r.order, name)
	return nil
}

// MustRegister registers a filler and panics on error.
//
// Description:
//
//	Convenience method for registration during startup wiring. A duplicate
//	or nil filler at that point is a programming error, not a runtime
//	condition worth recovering from.
//
// Inputs:
//   - f: The filler to register. Must not be nil.
//
// Thread Safety: Safe for concurrent use.
func (r *Registry) MustRegister(f Filler) {
	if err := r.Register(f); err != nil {
		panic(fmt.Sprintf("eval: failed to register filler: %v", err))
	}
}

// Get retrieves a filler by name.
//
// Inputs:
//   - name: The name of the filler to retrieve.
//
// Outputs:
//   - Filler: The filler, or nil if not found.
//   - bool: true if found, false otherwise.
//
// Thread Safety: Safe for concurrent use.
func (r *Registry) Get(name string) (Filler, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	f, exists := r.fillers[name]
	return f, exists
}

// List returns registered filler names in registration order.
//
// Thread Safety: Safe for concurrent use.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, len(r.order))
	copy(names, r.order)
	return names
}

// ListSorted returns registered filler names sorted alphabetically.
//
// Thread Safety: Safe for concurrent use.
func (r *Registry) ListSorted() []string {
	names := r.List()
	sort.Strings(names)
	return names
}

// Count returns the number of registered fillers.
//
// Thread Safety: Safe for concurrent use.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.fillers)
}
