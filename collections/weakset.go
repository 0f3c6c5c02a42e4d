package collections

import (
	"iter"
	"weak"
)

// WeakSet is a membership set that does not keep its members alive. Members
// reclaimed by the garbage collector drop out of the set on the next access.
type WeakSet[T any] struct {
	order   []weak.Pointer[T]
	members map[weak.Pointer[T]]struct{}
}

// NewWeakSet creates an empty WeakSet.
func NewWeakSet[T any]() *WeakSet[T] {
	return &WeakSet[T]{members: make(map[weak.Pointer[T]]struct{})}
}

func (s *WeakSet[T]) prune() {
	kept := s.order[:0]
	for _, wp := range s.order {
		if wp.Value() == nil {
			delete(s.members, wp)
			continue
		}
		kept = append(kept, wp)
	}
	clear(s.order[len(kept):])
	s.order = kept
}

// Add inserts v. Nil pointers are ignored.
func (s *WeakSet[T]) Add(v *T) {
	if v == nil {
		return
	}
	wp := weak.Make(v)
	if _, ok := s.members[wp]; ok {
		return
	}
	s.members[wp] = struct{}{}
	s.order = append(s.order, wp)
}

// Delete removes v. It reports whether v was a member.
func (s *WeakSet[T]) Delete(v *T) bool {
	if v == nil {
		return false
	}
	wp := weak.Make(v)
	if _, ok := s.members[wp]; !ok {
		return false
	}
	delete(s.members, wp)
	for i, o := range s.order {
		if o == wp {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return true
}

// Has reports whether v is a member.
func (s *WeakSet[T]) Has(v *T) bool {
	if v == nil {
		return false
	}
	_, ok := s.members[weak.Make(v)]
	return ok
}

// Len returns the number of live members.
func (s *WeakSet[T]) Len() int {
	s.prune()
	return len(s.order)
}

// Clear removes every member.
func (s *WeakSet[T]) Clear() {
	s.order = nil
	clear(s.members)
}

// All iterates over live members in insertion order.
func (s *WeakSet[T]) All() iter.Seq[*T] {
	return func(yield func(*T) bool) {
		s.prune()
		for _, wp := range append([]weak.Pointer[T](nil), s.order...) {
			v := wp.Value()
			if v == nil {
				continue
			}
			if !yield(v) {
				return
			}
		}
	}
}

// Slice returns the live members in insertion order.
func (s *WeakSet[T]) Slice() []*T {
	var out []*T
	for v := range s.All() {
		out = append(out, v)
	}
	return out
}
