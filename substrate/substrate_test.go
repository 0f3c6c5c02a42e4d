package substrate

import (
	"context"
	"errors"
	"slices"
	"strings"
	"testing"
)

func TestResolveCoverage(t *testing.T) {
	s := New[string]("group")
	s.Add("a", "b", "c", "d")
	s.SoftDelete("c")

	calls := map[SolverID]map[string]int{}
	for range 2 {
		var id SolverID
		id = s.AddSolver(func(c *Context[string]) error {
			calls[id][c.Target]++
			return nil
		})
		calls[id] = map[string]int{}
	}

	if err := s.Resolve(context.Background(), WithEventTarget("b")); err != nil {
		t.Fatalf("Resolve() = %v", err)
	}
	for id, got := range calls {
		want := map[string]int{"a": 1, "b": 1, "d": 1}
		if len(got) != len(want) {
			t.Errorf("solver %d visited %v, want %v", id, got, want)
			continue
		}
		for k, n := range want {
			if got[k] != n {
				t.Errorf("solver %d visited %q %d times, want %d", id, k, got[k], n)
			}
		}
	}
}

func TestResolveVisitsEventTargetFirst(t *testing.T) {
	s := New[int]("g")
	s.Add(1, 2, 3)
	var order []int
	s.AddSolver(func(c *Context[int]) error {
		order = append(order, c.Target)
		if c.IsEventTarget() != (c.Target == 3) {
			t.Errorf("IsEventTarget() wrong for %d", c.Target)
		}
		return nil
	})
	if err := s.Resolve(context.Background(), WithEventTarget(3)); err != nil {
		t.Fatal(err)
	}
	if !slices.Equal(order, []int{3, 1, 2}) {
		t.Errorf("order = %v, want [3 1 2]", order)
	}
}

func TestResolveExternalEventTarget(t *testing.T) {
	s := New[string]("g")
	s.Add("a")
	var seen []string
	s.AddSolver(func(c *Context[string]) error {
		seen = append(seen, c.Target)
		return nil
	})
	s.Resolve(context.Background(), WithEventTarget("outside"))
	if !slices.Equal(seen, []string{"outside", "a"}) {
		t.Errorf("seen = %v", seen)
	}
	if !s.Processed("outside") || !s.Processed("a") {
		t.Error("Processed() false for a visited object")
	}
	if s.Has("outside") {
		t.Error("event target was added to the substrate")
	}
}

func TestResolveVisitsObjectsAddedDuringPass(t *testing.T) {
	s := New[int]("g")
	s.Add(1)
	var seen []int
	s.AddSolver(func(c *Context[int]) error {
		seen = append(seen, c.Target)
		if c.Target < 3 {
			c.Substrate.Add(c.Target + 1)
		}
		return nil
	})
	s.Resolve(context.Background())
	if !slices.Equal(seen, []int{1, 2, 3}) {
		t.Errorf("seen = %v, want [1 2 3]", seen)
	}
}

func TestResolveCollectsErrors(t *testing.T) {
	s := New[string]("g")
	s.Add("a", "b")
	bad := errors.New("bad")
	ran := 0
	s.AddSolver(func(c *Context[string]) error {
		if c.Target == "a" {
			return bad
		}
		return nil
	})
	s.AddSolver(func(c *Context[string]) error {
		ran++
		if c.Target == "b" {
			panic("boom")
		}
		return nil
	})
	err := s.Resolve(context.Background())
	if !errors.Is(err, bad) {
		t.Errorf("Resolve() = %v, want it to wrap the solver error", err)
	}
	if err == nil || !strings.Contains(err.Error(), "boom") {
		t.Errorf("Resolve() = %v, want the panic reported", err)
	}
	if ran != 2 {
		t.Errorf("second solver ran %d times, want 2", ran)
	}
}

func TestResolveCanceled(t *testing.T) {
	s := New[int]("g")
	s.Add(1, 2, 3)
	ctx, cancel := context.WithCancel(context.Background())
	n := 0
	s.AddSolver(func(c *Context[int]) error {
		n++
		cancel()
		return nil
	})
	err := s.Resolve(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Resolve() = %v, want context.Canceled", err)
	}
	if n != 1 {
		t.Errorf("solver ran %d times after cancel, want 1", n)
	}
}

func TestResolveProperties(t *testing.T) {
	s := New[int]("g")
	s.Add(1)
	var got any
	s.AddSolver(func(c *Context[int]) error {
		got = c.Properties["dx"]
		return nil
	})
	s.Resolve(context.Background(), WithProperties[int](map[string]any{"dx": 4.0}))
	if got != 4.0 {
		t.Errorf("Properties[dx] = %v", got)
	}
}

func TestSoftDeleteAndRemove(t *testing.T) {
	s := New[string]("g")
	s.Add("a", "b", "a")
	if s.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", s.Len())
	}
	s.SoftDelete("a")
	if !s.IsSoftDeleted("a") || !s.Has("a") {
		t.Error("soft-deleted object should stay present")
	}
	if got := s.Objects(); !slices.Equal(got, []string{"b"}) {
		t.Errorf("Objects() = %v, want [b]", got)
	}
	s.Restore("a")
	if got := s.Objects(); !slices.Equal(got, []string{"a", "b"}) {
		t.Errorf("Objects() after Restore = %v", got)
	}
	if !s.Remove("a") || s.Remove("a") || s.Has("a") {
		t.Error("Remove() did not drop the object exactly once")
	}
}

func TestRemoveSolver(t *testing.T) {
	s := New[int]("g")
	s.Add(1)
	n := 0
	id := s.AddSolver(func(*Context[int]) error { n++; return nil })
	if !s.RemoveSolver(id) || s.RemoveSolver(id) {
		t.Fatal("RemoveSolver() did not remove exactly once")
	}
	s.Resolve(context.Background())
	if n != 0 || s.SolverCount() != 0 {
		t.Errorf("removed solver ran %d times", n)
	}
}

func TestHost(t *testing.T) {
	h := NewHost[string]()
	if h.Current() != nil {
		t.Fatal("new host has a current substrate")
	}
	a := h.MakeSubstrate("a")
	if h.Current() != a {
		t.Error("first substrate did not become current")
	}
	if h.MakeSubstrate("a") != a {
		t.Error("MakeSubstrate() created a duplicate")
	}
	b := h.MakeSubstrate("b")

	var log []string
	a.OnDeactivate(func(s *Substrate[string]) { log = append(log, "off:"+s.Name()) })
	b.OnActivate(func(s *Substrate[string]) { log = append(log, "on:"+s.Name()) })
	if err := h.SetCurrent("b"); err != nil {
		t.Fatal(err)
	}
	if !slices.Equal(log, []string{"off:a", "on:b"}) {
		t.Errorf("notifications = %v", log)
	}
	if err := h.SetCurrent("zzz"); !errors.Is(err, ErrNoSubstrate) {
		t.Errorf("SetCurrent(unknown) = %v, want ErrNoSubstrate", err)
	}
	if !slices.Equal(h.Names(), []string{"a", "b"}) {
		t.Errorf("Names() = %v", h.Names())
	}

	b.Add("x")
	visited := false
	b.AddSolver(func(*Context[string]) error { visited = true; return nil })
	if err := h.Resolve(context.Background(), ""); err != nil || !visited {
		t.Errorf("Resolve(current) = %v, visited=%v", err, visited)
	}
	if err := h.Resolve(context.Background(), "nope"); !errors.Is(err, ErrNoSubstrate) {
		t.Errorf("Resolve(unknown) = %v", err)
	}

	if !h.Delete("b") || h.Current() != nil {
		t.Error("deleting the current substrate left it current")
	}
}
