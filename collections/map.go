// Package collections provides the ordered map and weak set used to track
// per-pointer and per-tool state.
package collections

import "iter"

// Map is an insertion-ordered map. Re-setting an existing key keeps its
// original position.
//
// A Map may carry a copy function. When copy-on-read is enabled, Get and
// the iterators hand out copies; when copy-on-write is enabled, Set stores
// a copy. This lets callers share values without aliasing them.
type Map[K comparable, V any] struct {
	keys    []K
	index   map[K]int
	values  map[K]V
	copyFn  func(V) V
	onRead  bool
	onWrite bool
}

// MapOption configures a Map.
type MapOption[K comparable, V any] func(*Map[K, V])

// WithCopy installs the copy function used for deep-copy semantics. It has
// no effect until CopyOnRead or CopyOnWrite is also given.
func WithCopy[K comparable, V any](fn func(V) V) MapOption[K, V] {
	return func(m *Map[K, V]) { m.copyFn = fn }
}

// CopyOnRead makes reads return copies.
func CopyOnRead[K comparable, V any]() MapOption[K, V] {
	return func(m *Map[K, V]) { m.onRead = true }
}

// CopyOnWrite makes writes store copies.
func CopyOnWrite[K comparable, V any]() MapOption[K, V] {
	return func(m *Map[K, V]) { m.onWrite = true }
}

// NewMap creates an empty Map.
func NewMap[K comparable, V any](opts ...MapOption[K, V]) *Map[K, V] {
	m := &Map[K, V]{
		index:  make(map[K]int),
		values: make(map[K]V),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func (m *Map[K, V]) read(v V) V {
	if m.onRead && m.copyFn != nil {
		return m.copyFn(v)
	}
	return v
}

// Set stores v under k.
func (m *Map[K, V]) Set(k K, v V) {
	if m.onWrite && m.copyFn != nil {
		v = m.copyFn(v)
	}
	if _, ok := m.index[k]; !ok {
		m.index[k] = len(m.keys)
		m.keys = append(m.keys, k)
	}
	m.values[k] = v
}

// Get returns the value stored under k.
func (m *Map[K, V]) Get(k K) (V, bool) {
	v, ok := m.values[k]
	if !ok {
		return v, false
	}
	return m.read(v), true
}

// Value returns the value stored under k, or the zero value.
func (m *Map[K, V]) Value(k K) V {
	v, _ := m.Get(k)
	return v
}

// Has reports whether k is present.
func (m *Map[K, V]) Has(k K) bool {
	_, ok := m.values[k]
	return ok
}

// Delete removes k. It reports whether k was present.
func (m *Map[K, V]) Delete(k K) bool {
	i, ok := m.index[k]
	if !ok {
		return false
	}
	m.keys = append(m.keys[:i], m.keys[i+1:]...)
	for j := i; j < len(m.keys); j++ {
		m.index[m.keys[j]] = j
	}
	delete(m.index, k)
	delete(m.values, k)
	return true
}

// Len returns the number of entries.
func (m *Map[K, V]) Len() int {
	return len(m.keys)
}

// Clear removes all entries.
func (m *Map[K, V]) Clear() {
	m.keys = m.keys[:0]
	clear(m.index)
	clear(m.values)
}

// Keys returns the keys in insertion order.
func (m *Map[K, V]) Keys() []K {
	return append([]K(nil), m.keys...)
}

// Values returns the values in insertion order.
func (m *Map[K, V]) Values() []V {
	out := make([]V, 0, len(m.keys))
	for _, k := range m.keys {
		out = append(out, m.read(m.values[k]))
	}
	return out
}

// First returns the oldest entry.
func (m *Map[K, V]) First() (K, V, bool) {
	var k K
	var v V
	if len(m.keys) == 0 {
		return k, v, false
	}
	k = m.keys[0]
	return k, m.read(m.values[k]), true
}

// All iterates over entries in insertion order. The map may be modified
// during iteration; the iterator works on a snapshot of the keys.
func (m *Map[K, V]) All() iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		for _, k := range m.Keys() {
			v, ok := m.values[k]
			if !ok {
				continue
			}
			if !yield(k, m.read(v)) {
				return
			}
		}
	}
}

// Clone returns a shallow copy of m with the same options. Values are
// copied through the copy function when one is installed.
func (m *Map[K, V]) Clone() *Map[K, V] {
	c := &Map[K, V]{
		keys:    append([]K(nil), m.keys...),
		index:   make(map[K]int, len(m.index)),
		values:  make(map[K]V, len(m.values)),
		copyFn:  m.copyFn,
		onRead:  m.onRead,
		onWrite: m.onWrite,
	}
	for k, i := range m.index {
		c.index[k] = i
	}
	for k, v := range m.values {
		if m.copyFn != nil {
			v = m.copyFn(v)
		}
		c.values[k] = v
	}
	return c
}

// ToMap returns a plain map copy of the entries.
func (m *Map[K, V]) ToMap() map[K]V {
	out := make(map[K]V, len(m.values))
	for k, v := range m.values {
		out[k] = m.read(v)
	}
	return out
}
