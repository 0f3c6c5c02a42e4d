package dom

import (
	"fmt"
	"time"
)

// EventPhase represents the phase of event dispatch.
type EventPhase int

const (
	EventPhaseNone      EventPhase = 0
	EventPhaseCapturing EventPhase = 1
	EventPhaseAtTarget  EventPhase = 2
	EventPhaseBubbling  EventPhase = 3
)

// Event is anything dispatchable through the tree. Concrete event types
// embed EventBase, which provides the method.
type Event interface {
	Base() *EventBase
}

// EventInit carries the standard event construction flags.
type EventInit struct {
	Bubbles    bool
	Cancelable bool
	Composed   bool
}

// EventBase holds the state shared by every event.
type EventBase struct {
	typ        string
	bubbles    bool
	cancelable bool
	composed   bool
	timeStamp  time.Time

	target        *Node
	currentTarget *Node
	phase         EventPhase
	path          []*Node

	defaultPrevented bool
	stopPropagation  bool
	stopImmediate    bool
	inPassive        bool
	dispatching      bool
}

// NewEventBase initializes an EventBase.
func NewEventBase(eventType string, init EventInit) EventBase {
	return EventBase{
		typ:        eventType,
		bubbles:    init.Bubbles,
		cancelable: init.Cancelable,
		composed:   init.Composed,
		timeStamp:  time.Now(),
	}
}

// NewEvent creates a plain event.
func NewEvent(eventType string, init EventInit) *EventBase {
	b := NewEventBase(eventType, init)
	return &b
}

// Base returns the event itself.
func (e *EventBase) Base() *EventBase { return e }

// Type returns the event type.
func (e *EventBase) Type() string { return e.typ }

// Bubbles reports whether the event bubbles.
func (e *EventBase) Bubbles() bool { return e.bubbles }

// Cancelable reports whether PreventDefault has an effect.
func (e *EventBase) Cancelable() bool { return e.cancelable }

// Composed reports whether the event crosses shadow boundaries.
func (e *EventBase) Composed() bool { return e.composed }

// TimeStamp returns the creation time of the event.
func (e *EventBase) TimeStamp() time.Time { return e.timeStamp }

// Target returns the node the event was dispatched to.
func (e *EventBase) Target() *Node { return e.target }

// CurrentTarget returns the node whose listeners are running.
func (e *EventBase) CurrentTarget() *Node { return e.currentTarget }

// Phase returns the current dispatch phase.
func (e *EventBase) Phase() EventPhase { return e.phase }

// PreventDefault cancels the event if it is cancelable. It has no effect
// inside passive listeners.
func (e *EventBase) PreventDefault() {
	if e.cancelable && !e.inPassive {
		e.defaultPrevented = true
	}
}

// DefaultPrevented reports whether PreventDefault took effect.
func (e *EventBase) DefaultPrevented() bool { return e.defaultPrevented }

// StopPropagation prevents the event from reaching further nodes.
func (e *EventBase) StopPropagation() { e.stopPropagation = true }

// StopImmediatePropagation also skips the remaining listeners on the
// current node.
func (e *EventBase) StopImmediatePropagation() {
	e.stopPropagation = true
	e.stopImmediate = true
}

// PropagationStopped reports whether StopPropagation was called.
func (e *EventBase) PropagationStopped() bool { return e.stopPropagation }

// ComposedPath returns the propagation path, target first and root last.
// It is empty outside dispatch.
func (e *EventBase) ComposedPath() []*Node {
	if !e.dispatching {
		return nil
	}
	return append([]*Node(nil), e.path...)
}

// SetTarget sets the target of an event that is not being dispatched.
func (e *EventBase) SetTarget(n *Node) {
	if !e.dispatching {
		e.target = n
	}
}

// ListenerID identifies a registered listener on a node.
type ListenerID int

// EventListener receives dispatched events.
type EventListener func(ev Event)

// ListenerOptions represents addEventListener options.
type ListenerOptions struct {
	Capture bool
	Once    bool
	Passive bool
}

type listenerEntry struct {
	id      ListenerID
	fn      EventListener
	opts    ListenerOptions
	removed bool
}

type listenerTable struct {
	byType map[string][]*listenerEntry
	nextID ListenerID
}

// AddEventListener registers fn for eventType and returns its id.
func (n *Node) AddEventListener(eventType string, fn EventListener, opts ListenerOptions) ListenerID {
	if fn == nil {
		return 0
	}
	if n.listeners == nil {
		n.listeners = &listenerTable{byType: make(map[string][]*listenerEntry)}
	}
	t := n.listeners
	t.nextID++
	t.byType[eventType] = append(t.byType[eventType], &listenerEntry{id: t.nextID, fn: fn, opts: opts})
	return t.nextID
}

// RemoveEventListener unregisters the listener with the given id.
func (n *Node) RemoveEventListener(eventType string, id ListenerID) bool {
	if n.listeners == nil {
		return false
	}
	entries := n.listeners.byType[eventType]
	for i, l := range entries {
		if l.id == id {
			l.removed = true
			n.listeners.byType[eventType] = append(entries[:i], entries[i+1:]...)
			return true
		}
	}
	return false
}

// HasEventListeners returns true if there are any listeners for the event type.
func (n *Node) HasEventListeners(eventType string) bool {
	return n.listeners != nil && len(n.listeners.byType[eventType]) > 0
}

// DispatchEvent dispatches ev with n as its target through the capture,
// at-target and bubble phases. It returns false if the event was canceled.
// Panics raised by listeners are recovered and reported to the document's
// error handler; dispatch continues with the next listener.
func (n *Node) DispatchEvent(ev Event) bool {
	b := ev.Base()
	if b.dispatching {
		return !b.defaultPrevented
	}
	b.target = n
	b.path = n.Ancestors()
	b.dispatching = true
	b.stopPropagation = false
	b.stopImmediate = false
	defer func() {
		b.dispatching = false
		b.phase = EventPhaseNone
		b.currentTarget = nil
	}()

	// Capture: root down to the target's parent.
	for i := len(b.path) - 1; i > 0 && !b.stopPropagation; i-- {
		b.phase = EventPhaseCapturing
		b.path[i].invoke(ev, true, false)
	}
	if !b.stopPropagation {
		b.phase = EventPhaseAtTarget
		n.invoke(ev, true, true)
	}
	if b.bubbles {
		for i := 1; i < len(b.path) && !b.stopPropagation; i++ {
			b.phase = EventPhaseBubbling
			b.path[i].invoke(ev, false, false)
		}
	}
	return !b.defaultPrevented
}

// invoke runs the listeners of n for the event. At target both capture and
// non-capture listeners run, in registration order.
func (n *Node) invoke(ev Event, capture, atTarget bool) {
	b := ev.Base()
	if n.listeners == nil {
		return
	}
	entries := append([]*listenerEntry(nil), n.listeners.byType[b.typ]...)
	b.currentTarget = n
	for _, l := range entries {
		if l.removed {
			continue
		}
		if !atTarget && l.opts.Capture != capture {
			continue
		}
		if l.opts.Once {
			n.RemoveEventListener(b.typ, l.id)
		}
		n.call(l, ev)
		if b.stopImmediate {
			return
		}
	}
}

func (n *Node) call(l *listenerEntry, ev Event) {
	b := ev.Base()
	b.inPassive = l.opts.Passive
	defer func() {
		b.inPassive = false
		if p := recover(); p != nil {
			err := fmt.Errorf("dom: listener for %q panicked: %v", b.typ, p)
			if doc := n.document(); doc != nil {
				doc.reportError(err)
			}
		}
	}()
	l.fn(ev)
}
