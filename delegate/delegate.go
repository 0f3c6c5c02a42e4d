// Package delegate implements ordered subscriber lists used for change
// notifications such as tool switches and substrate activation.
package delegate

// Handle identifies a subscription.
type Handle int

type entry[T any] struct {
	handle Handle
	fn     func(T)
}

// Delegate is an ordered list of callbacks that all receive the same value
// when fired. The zero value is ready to use.
type Delegate[T any] struct {
	entries []entry[T]
	next    Handle
}

// Add subscribes fn and returns a handle for Remove.
func (d *Delegate[T]) Add(fn func(T)) Handle {
	if fn == nil {
		return 0
	}
	d.next++
	d.entries = append(d.entries, entry[T]{handle: d.next, fn: fn})
	return d.next
}

// Remove unsubscribes the callback registered under h.
func (d *Delegate[T]) Remove(h Handle) bool {
	for i, e := range d.entries {
		if e.handle == h {
			d.entries = append(d.entries[:i], d.entries[i+1:]...)
			return true
		}
	}
	return false
}

// Fire calls every subscriber in subscription order. Subscribers added while
// firing are not called until the next Fire.
func (d *Delegate[T]) Fire(v T) {
	for _, e := range append([]entry[T](nil), d.entries...) {
		e.fn(v)
	}
}

// Len returns the number of subscribers.
func (d *Delegate[T]) Len() int {
	return len(d.entries)
}

// Clear removes every subscriber.
func (d *Delegate[T]) Clear() {
	d.entries = nil
}
