package collections

import (
	"runtime"
	"testing"
)

type tool struct {
	name string
	pad  [64]byte
}

func TestWeakSetMembership(t *testing.T) {
	s := NewWeakSet[tool]()
	a, b := &tool{name: "a"}, &tool{name: "b"}
	s.Add(a)
	s.Add(b)
	s.Add(a)
	s.Add(nil)

	if n := s.Len(); n != 2 {
		t.Fatalf("Len() = %d, want 2", n)
	}
	if !s.Has(a) || !s.Has(b) {
		t.Errorf("expected both members")
	}
	got := s.Slice()
	if len(got) != 2 || got[0] != a || got[1] != b {
		t.Errorf("Slice() order wrong: %v", got)
	}
	if !s.Delete(a) || s.Delete(a) {
		t.Errorf("Delete should succeed once")
	}
	if s.Has(a) || s.Len() != 1 {
		t.Errorf("a still present after Delete")
	}
	runtime.KeepAlive(a)
	runtime.KeepAlive(b)
}

//go:noinline
func addTemporary(s *WeakSet[tool]) {
	s.Add(&tool{name: "temp"})
}

func TestWeakSetDoesNotRetain(t *testing.T) {
	s := NewWeakSet[tool]()
	keep := &tool{name: "keep"}
	s.Add(keep)
	addTemporary(s)

	runtime.GC()
	runtime.GC()

	if n := s.Len(); n != 1 {
		t.Errorf("Len() after GC = %d, want 1", n)
	}
	for v := range s.All() {
		if v != keep {
			t.Errorf("unexpected member %q", v.name)
		}
	}
	runtime.KeepAlive(keep)
}
