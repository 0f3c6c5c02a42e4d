// Package substrate groups objects under a name and runs solver callbacks
// across the group on demand, so an invariant such as a positional
// constraint can be applied first to the object a user interacted with and
// then propagated to the rest.
package substrate

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/chrisuehlinger/turbo/collections"
	"github.com/chrisuehlinger/turbo/delegate"
)

// Context is passed to a solver for each object it runs against.
type Context[T comparable] struct {
	context.Context

	// Target is the object the solver is running against.
	Target T
	// EventTarget is the object the resolution was started for, if any.
	EventTarget    T
	HasEventTarget bool

	Substrate  *Substrate[T]
	Properties map[string]any
}

// IsEventTarget reports whether the solver is running against the event
// target.
func (c *Context[T]) IsEventTarget() bool {
	return c.HasEventTarget && c.Target == c.EventTarget
}

// Solver enforces an invariant on one object. Returning an error records
// it; the resolution goes on with the next object.
type Solver[T comparable] func(c *Context[T]) error

// SolverID identifies a registered solver.
type SolverID int

type solverEntry[T comparable] struct {
	id SolverID
	fn Solver[T]
}

// persistent per-object metadata
type objectMeta struct {
	ignored bool
}

// Substrate is a named, ordered set of objects plus the solvers run over
// them. It is not safe for concurrent use.
type Substrate[T comparable] struct {
	name    string
	objects *collections.Map[T, *objectMeta]
	// reset at the start of each solver's pass
	processed map[T]bool

	solvers []solverEntry[T]
	nextID  SolverID

	onActivate   delegate.Delegate[*Substrate[T]]
	onDeactivate delegate.Delegate[*Substrate[T]]
}

// New creates an empty substrate.
func New[T comparable](name string) *Substrate[T] {
	return &Substrate[T]{
		name:      name,
		objects:   collections.NewMap[T, *objectMeta](),
		processed: make(map[T]bool),
	}
}

// Name returns the substrate name.
func (s *Substrate[T]) Name() string { return s.name }

// Add appends objects not already present.
func (s *Substrate[T]) Add(objs ...T) {
	for _, o := range objs {
		if !s.objects.Has(o) {
			s.objects.Set(o, &objectMeta{})
		}
	}
}

// Remove drops an object and its metadata.
func (s *Substrate[T]) Remove(o T) bool {
	delete(s.processed, o)
	return s.objects.Delete(o)
}

// Has reports whether o is in the substrate, soft-deleted or not.
func (s *Substrate[T]) Has(o T) bool { return s.objects.Has(o) }

// Len returns the number of objects, soft-deleted ones included.
func (s *Substrate[T]) Len() int { return s.objects.Len() }

// Objects returns the objects solvers will visit, in insertion order.
func (s *Substrate[T]) Objects() []T {
	var out []T
	for o, meta := range s.objects.All() {
		if !meta.ignored {
			out = append(out, o)
		}
	}
	return out
}

// SoftDelete excludes o from resolution while keeping it in the set.
func (s *Substrate[T]) SoftDelete(o T) {
	if meta, ok := s.objects.Get(o); ok {
		meta.ignored = true
	}
}

// Restore undoes SoftDelete.
func (s *Substrate[T]) Restore(o T) {
	if meta, ok := s.objects.Get(o); ok {
		meta.ignored = false
	}
}

// IsSoftDeleted reports whether o is present but excluded.
func (s *Substrate[T]) IsSoftDeleted(o T) bool {
	meta, ok := s.objects.Get(o)
	return ok && meta.ignored
}

// AddSolver registers fn after the existing solvers.
func (s *Substrate[T]) AddSolver(fn Solver[T]) SolverID {
	if fn == nil {
		return 0
	}
	s.nextID++
	s.solvers = append(s.solvers, solverEntry[T]{id: s.nextID, fn: fn})
	return s.nextID
}

// RemoveSolver unregisters a solver.
func (s *Substrate[T]) RemoveSolver(id SolverID) bool {
	i := slices.IndexFunc(s.solvers, func(e solverEntry[T]) bool { return e.id == id })
	if i < 0 {
		return false
	}
	s.solvers = slices.Delete(s.solvers, i, i+1)
	return true
}

// SolverCount returns the number of registered solvers.
func (s *Substrate[T]) SolverCount() int { return len(s.solvers) }

// ResolveOption configures Resolve.
type ResolveOption[T comparable] func(*Context[T])

// WithEventTarget makes the solvers run against target first.
func WithEventTarget[T comparable](target T) ResolveOption[T] {
	return func(c *Context[T]) {
		c.EventTarget = target
		c.HasEventTarget = true
	}
}

// WithProperties attaches free-form properties to every solver call.
func WithProperties[T comparable](props map[string]any) ResolveOption[T] {
	return func(c *Context[T]) { c.Properties = props }
}

// Resolve runs every solver, in registration order, once against the event
// target if one is given and once against every object that is not
// soft-deleted. Objects added by a solver during its pass are visited in
// the same pass. Solver errors and panics are collected and returned
// joined; cancelling ctx stops the resolution before the next call.
func (s *Substrate[T]) Resolve(ctx context.Context, opts ...ResolveOption[T]) error {
	base := Context[T]{Context: ctx, Substrate: s}
	for _, opt := range opts {
		opt(&base)
	}

	var errs []error
	for _, sv := range slices.Clone(s.solvers) {
		clear(s.processed)
		if base.HasEventTarget {
			s.processed[base.EventTarget] = true
			if err := s.run(sv, base, base.EventTarget); err != nil {
				errs = append(errs, err)
			}
		}
		for {
			o, ok := s.nextUnprocessed()
			if !ok {
				break
			}
			if err := ctx.Err(); err != nil {
				return errors.Join(append(errs, err)...)
			}
			s.processed[o] = true
			if err := s.run(sv, base, o); err != nil {
				errs = append(errs, err)
			}
		}
	}
	return errors.Join(errs...)
}

func (s *Substrate[T]) nextUnprocessed() (T, bool) {
	for o, meta := range s.objects.All() {
		if !meta.ignored && !s.processed[o] {
			return o, true
		}
	}
	var zero T
	return zero, false
}

func (s *Substrate[T]) run(sv solverEntry[T], base Context[T], target T) (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("substrate %s: solver %d panicked: %v", s.name, sv.id, p)
		}
	}()
	c := base
	c.Target = target
	if err := sv.fn(&c); err != nil {
		return fmt.Errorf("substrate %s: solver %d: %w", s.name, sv.id, err)
	}
	return nil
}

// Processed reports whether o was visited by the last solver pass.
func (s *Substrate[T]) Processed(o T) bool { return s.processed[o] }

// OnActivate subscribes fn to the substrate becoming current in its host.
func (s *Substrate[T]) OnActivate(fn func(*Substrate[T])) delegate.Handle {
	return s.onActivate.Add(fn)
}

// OnDeactivate subscribes fn to the substrate stopping being current.
func (s *Substrate[T]) OnDeactivate(fn func(*Substrate[T])) delegate.Handle {
	return s.onDeactivate.Add(fn)
}
