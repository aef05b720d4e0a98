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
	"errors"
	"sync"
	"testing"
)

// stubFiller is a minimal Filler for registry tests.
type stubFiller struct {
	name string
}

func (s *stubFiller) Name() string { return s.name }

func (s *stubFiller) Fill(n int) uintptr { return uintptr(n) }

func TestNewRegistry(t *testing.T) {
	r := NewRegistry()
	if r == nil {
		t.Fatal("NewRegistry returned nil")
	}
	if r.Count() != 0 {
		t.Errorf("New registry should be empty, got count %d", r.Count())
	}
}

func TestRegistry_Register(t *testing.T) {
	t.Run("successful registration", func(t *testing.T) {
		r := NewRegistry()

		err := r.Register(&stubFiller{name: "variant_a"})
		if err != nil {
			t.Errorf("Register failed: %v", err)
		}

		if r.Count() != 1 {
			t.Errorf("Count = %d, want 1", r.Count())
		}
	})

	t.Run("nil filler", func(t *testing.T) {
		r := NewRegistry()

		err := r.Register(nil)
		if !errors.Is(err, ErrNilFiller) {
			t.Errorf("Expected ErrNilFiller, got %v", err)
		}
	})

	t.Run("duplicate registration", func(t *testing.T) {
		r := NewRegistry()

		if err := r.Register(&stubFiller{name: "duplicate"}); err != nil {
			t.Fatalf("First registration failed: %v", err)
		}

		err := r.Register(&stubFiller{name: "duplicate"})
		if !errors.Is(err, ErrAlreadyRegistered) {
			t.Errorf("Expected ErrAlreadyRegistered, got %v", err)
		}
		if r.Count() != 1 {
			t.Errorf("Count = %d after duplicate, want 1", r.Count())
		}
	})
}

func TestRegistry_MustRegister(t *testing.T) {
	t.Run("successful", func(t *testing.T) {
		r := NewRegistry()

		// Should not panic
		r.MustRegister(&stubFiller{name: "variant_a"})

		if r.Count() != 1 {
			t.Errorf("Count = %d, want 1", r.Count())
		}
	})

	t.Run("panics on duplicate", func(t *testing.T) {
		r := NewRegistry()
		r.MustRegister(&stubFiller{name: "duplicate"})

		defer func() {
			if recover() == nil {
				t.Error("MustRegister should panic on duplicate")
			}
		}()
		r.MustRegister(&stubFiller{name: "duplicate"})
	})
}

func TestRegistry_Get(t *testing.T) {
	r := NewRegistry()
	want := &stubFiller{name: "variant_a"}
	r.MustRegister(want)

	t.Run("found", func(t *testing.T) {
		got, ok := r.Get("variant_a")
		if !ok {
			t.Fatal("Get should find registered filler")
		}
		if got != want {
			t.Error("Get returned wrong filler")
		}
	})

	t.Run("not found", func(t *testing.T) {
		_, ok := r.Get("missing")
		if ok {
			t.Error("Get should not find unregistered name")
		}
	})
}

func TestRegistry_List(t *testing.T) {
	r := NewRegistry()
	r.MustRegister(&stubFiller{name: "charlie"})
	r.MustRegister(&stubFiller{name: "alpha"})
	r.MustRegister(&stubFiller{name: "bravo"})

	t.Run("registration order", func(t *testing.T) {
		got := r.List()
		want := []string{"charlie", "alpha", "bravo"}
		if len(got) != len(want) {
			t.Fatalf("List returned %d names, want %d", len(got), len(want))
		}
		for i := range want {
			if got[i] != want[i] {
				t.Errorf("List[%d] = %s, want %s", i, got[i], want[i])
			}
		}
	})

	t.Run("sorted order", func(t *testing.T) {
		got := r.ListSorted()
		want := []string{"alpha", "bravo", "charlie"}
		for i := range want {
			if got[i] != want[i] {
				t.Errorf("ListSorted[%d] = %s, want %s", i, got[i], want[i])
			}
		}
	})

	t.Run("copy is independent", func(t *testing.T) {
		got := r.List()
		got[0] = "mutated"
		if r.List()[0] != "charlie" {
			t.Error("List should return a copy")
		}
	})
}

func TestRegistry_ConcurrentAccess(t *testing.T) {
	r := NewRegistry()
	r.MustRegister(&stubFiller{name: "variant_a"})

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				r.Get("variant_a")
				r.List()
				r.Count()
			}
		}()
	}
	wg.Wait()
}
