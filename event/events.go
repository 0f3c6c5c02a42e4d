package event

import (
	"github.com/chrisuehlinger/turbo/collections"
	"github.com/chrisuehlinger/turbo/dom"
	"github.com/chrisuehlinger/turbo/geom"
)

// Event is a semantic event synthesized by a Manager. It is dispatched
// through the document like any other event and also drives the manager's
// own listener and tool walk.
type Event struct {
	dom.EventBase

	kind    Kind
	manager *Manager

	// Keys held when the event was created, in press order.
	Keys []string
	// ClickMode active when the event was created.
	ClickMode ClickMode
	// ToolName is the tool bound to ClickMode, or "".
	ToolName string
	// Position is the primary pointer position in client coordinates.
	Position geom.Point
	// Positions holds every tracked pointer by id.
	Positions *collections.Map[int, geom.Point]
	// Native is the native event this was synthesized from, or nil.
	Native dom.Event

	// Drag is set on drag, dragStart and dragEnd events.
	Drag *DragData
	// Wheel is set on trackpad and mouse wheel events.
	Wheel *WheelData
	// Key is set on keyPressed and keyReleased events.
	Key string

	scaled       *geom.Point
	scaledDeltas map[int]geom.Point
}

// DragData carries the per-pointer geometry of a drag.
type DragData struct {
	Origins           *collections.Map[int, geom.Point]
	PreviousPositions *collections.Map[int, geom.Point]

	deltas *collections.Map[int, geom.Point]
}

// WheelData carries a wheel delta.
type WheelData struct {
	Delta geom.Point
}

// Kind returns the semantic kind of the event.
func (e *Event) Kind() Kind { return e.kind }

// Manager returns the manager that created the event.
func (e *Event) Manager() *Manager { return e.manager }

// ScaledPosition returns Position passed through the manager's scaling
// hook when the authorization hook allows it. The value is computed once.
func (e *Event) ScaledPosition() geom.Point {
	if e.scaled == nil {
		p := e.scale(e.Position)
		e.scaled = &p
	}
	return *e.scaled
}

// ScaledPositions returns every tracked position through the scaling hook.
func (e *Event) ScaledPositions() *collections.Map[int, geom.Point] {
	out := collections.NewMap[int, geom.Point]()
	if e.Positions == nil {
		return out
	}
	for id, p := range e.Positions.All() {
		out.Set(id, e.scale(p))
	}
	return out
}

func (e *Event) scale(p geom.Point) geom.Point {
	m := e.manager
	if m == nil || m.scalePosition == nil {
		return p
	}
	if m.authorizeScaling != nil && !m.authorizeScaling(e) {
		return p
	}
	return m.scalePosition(p, e)
}

// DeltaPositions returns, for each pointer, how far it moved since the
// previous drag event. It is empty for events other than drags.
func (e *Event) DeltaPositions() *collections.Map[int, geom.Point] {
	d := e.Drag
	if d == nil {
		return collections.NewMap[int, geom.Point]()
	}
	if d.deltas == nil {
		d.deltas = collections.NewMap[int, geom.Point]()
		for id, p := range e.Positions.All() {
			if prev, ok := d.PreviousPositions.Get(id); ok {
				d.deltas.Set(id, p.Sub(prev))
			}
		}
	}
	return d.deltas
}

// DeltaPosition returns the movement of the primary pointer since the
// previous drag event.
func (e *Event) DeltaPosition() geom.Point {
	id, ok := e.primaryID()
	if !ok {
		return geom.Point{}
	}
	return e.DeltaPositions().Value(id)
}

// ScaledDeltaPosition returns DeltaPosition measured in scaled space.
func (e *Event) ScaledDeltaPosition() geom.Point {
	id, ok := e.primaryID()
	if !ok || e.Drag == nil {
		return geom.Point{}
	}
	if e.scaledDeltas == nil {
		e.scaledDeltas = make(map[int]geom.Point)
	}
	if d, ok := e.scaledDeltas[id]; ok {
		return d
	}
	cur, _ := e.Positions.Get(id)
	prev, ok := e.Drag.PreviousPositions.Get(id)
	if !ok {
		return geom.Point{}
	}
	d := e.scale(cur).Sub(e.scale(prev))
	e.scaledDeltas[id] = d
	return d
}

// OriginPosition returns where the primary pointer went down.
func (e *Event) OriginPosition() geom.Point {
	id, ok := e.primaryID()
	if !ok || e.Drag == nil {
		return e.Position
	}
	if p, ok := e.Drag.Origins.Get(id); ok {
		return p
	}
	return e.Position
}

// TotalDelta returns the displacement of the primary pointer from its
// origin.
func (e *Event) TotalDelta() geom.Point {
	return e.Position.Sub(e.OriginPosition())
}

// primaryID returns the first pointer id in Positions.
func (e *Event) primaryID() (int, bool) {
	if e.Positions == nil {
		return 0, false
	}
	id, _, ok := e.Positions.First()
	return id, ok
}

// PointerCount returns the number of tracked pointers.
func (e *Event) PointerCount() int {
	if e.Positions == nil {
		return 0
	}
	return e.Positions.Len()
}

// Centroid returns the mean of all tracked pointer positions, which is
// what multi-touch tools usually pivot around.
func (e *Event) Centroid() geom.Point {
	if e.Positions == nil || e.Positions.Len() == 0 {
		return e.Position
	}
	return geom.Centroid(e.Positions.Values()...)
}

// HasKey reports whether key was held when the event was created.
func (e *Event) HasKey(key string) bool {
	for _, k := range e.Keys {
		if k == key {
			return true
		}
	}
	return false
}
