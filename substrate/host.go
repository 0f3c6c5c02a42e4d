package substrate

import (
	"context"
	"errors"
	"maps"
	"slices"
)

// ErrNoSubstrate is returned when an operation names a substrate the host
// does not have.
var ErrNoSubstrate = errors.New("substrate: no such substrate")

// Host keeps the named substrates of one element and which of them is
// current.
type Host[T comparable] struct {
	substrates map[string]*Substrate[T]
	current    string
}

// NewHost creates a host without substrates.
func NewHost[T comparable]() *Host[T] {
	return &Host[T]{substrates: make(map[string]*Substrate[T])}
}

// MakeSubstrate returns the named substrate, creating it if needed. The
// first substrate made becomes current.
func (h *Host[T]) MakeSubstrate(name string) *Substrate[T] {
	if s, ok := h.substrates[name]; ok {
		return s
	}
	s := New[T](name)
	h.substrates[name] = s
	if h.current == "" {
		h.SetCurrent(name)
	}
	return s
}

// Get returns the named substrate.
func (h *Host[T]) Get(name string) (*Substrate[T], bool) {
	s, ok := h.substrates[name]
	return s, ok
}

// Names returns the substrate names, sorted.
func (h *Host[T]) Names() []string {
	return slices.Sorted(maps.Keys(h.substrates))
}

// Current returns the current substrate, or nil.
func (h *Host[T]) Current() *Substrate[T] {
	return h.substrates[h.current]
}

// SetCurrent switches the current substrate, notifying the old one's
// OnDeactivate and the new one's OnActivate subscribers.
func (h *Host[T]) SetCurrent(name string) error {
	next, ok := h.substrates[name]
	if !ok {
		return ErrNoSubstrate
	}
	if name == h.current {
		return nil
	}
	if prev := h.Current(); prev != nil {
		prev.onDeactivate.Fire(prev)
	}
	h.current = name
	next.onActivate.Fire(next)
	return nil
}

// Delete removes a substrate. Deleting the current one leaves the host
// without a current substrate.
func (h *Host[T]) Delete(name string) bool {
	s, ok := h.substrates[name]
	if !ok {
		return false
	}
	if name == h.current {
		s.onDeactivate.Fire(s)
		h.current = ""
	}
	delete(h.substrates, name)
	return true
}

// Resolve resolves the named substrate, or the current one when name is
// empty.
func (h *Host[T]) Resolve(ctx context.Context, name string, opts ...ResolveOption[T]) error {
	if name == "" {
		name = h.current
	}
	s, ok := h.substrates[name]
	if !ok {
		return ErrNoSubstrate
	}
	return s.Resolve(ctx, opts...)
}
