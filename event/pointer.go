package event

import (
	"slices"

	"github.com/chrisuehlinger/turbo/collections"
	"github.com/chrisuehlinger/turbo/dom"
	"github.com/chrisuehlinger/turbo/geom"
)

// The pointer controller turns native pointer events into click, long
// press, drag and move events.
//
//	none --down--> click --moved past threshold--> drag
//	click --held for the long press duration--> longPress
//	any --last pointer up or cancel--> none
//
// A long press never turns into a drag, so a gesture yields at most one of
// click, long press and drag.

func (m *Manager) onPointerDown(native dom.Event) {
	ev, ok := native.(*dom.PointerEvent)
	if !ok {
		return
	}
	s := m.state
	m.checkLock(ev.ComposedPath(), native)
	flags := s.effective()
	if !flags.Enabled {
		return
	}
	m.preventPointerDefault(ev, flags)

	if ev.PointerType == dom.PointerTypeTouch {
		s.device = DeviceTouch
	} else if s.device != DeviceTrackpad {
		s.device = DeviceMouse
	}

	id, p := ev.PointerID, ev.Position()
	s.addPointer(id, p)
	target := m.doc.ElementFromPoint(p)
	if target != nil {
		if err := target.SetPointerCapture(id); err != nil {
			m.logger.Debug("event: pointer capture failed", "pointer", id, "err", err)
		}
	}

	if ev.PointerType == dom.PointerTypeTouch {
		s.click = clickModeFromIndex(len(s.activePointers) - 1)
	} else {
		s.click = clickModeFromIndex(ev.Button)
	}

	m.fire(KindClickStart, target, p, native, nil)

	if s.action == ActionDrag {
		return
	}
	s.action = ActionClick
	m.timers.set(timerLongPress, s.longPressDuration, func() {
		if s.action != ActionClick {
			return
		}
		s.action = ActionLongPress
		origin, ok := s.origins.Get(id)
		if !ok {
			return
		}
		m.fire(KindLongPress, m.doc.ElementFromPoint(origin), origin, native, nil)
	})
}

func (m *Manager) onPointerMove(native dom.Event) {
	ev, ok := native.(*dom.PointerEvent)
	if !ok {
		return
	}
	s := m.state
	flags := s.effective()
	if !flags.Enabled {
		return
	}
	id, p := ev.PointerID, ev.Position()

	if !s.isActive(id) {
		hover := collections.NewMap[int, geom.Point]()
		hover.Set(id, p)
		m.fire(KindMove, m.doc.ElementFromPoint(p), p, native, func(e *Event) { e.Positions = hover })
		return
	}
	m.preventPointerDefault(ev, flags)

	positions := s.previousPositions.Clone()
	positions.Set(id, p)
	s.positions = positions

	if s.action == ActionClick && m.exceedsThreshold() {
		m.timers.clear(timerLongPress)
		s.action = ActionDrag
		s.lastTargetOrigin = nil
		m.fire(KindDragStart, m.fireOrigin(), p, native, m.withDrag)
	}

	m.fire(KindMove, m.doc.ElementFromPoint(p), p, native, nil)

	if s.action == ActionDrag {
		m.fire(KindDrag, m.fireOrigin(), p, native, m.withDrag)
	}
	s.previousPositions.Set(id, p)
}

func (m *Manager) onPointerUp(native dom.Event) {
	ev, ok := native.(*dom.PointerEvent)
	if !ok {
		return
	}
	s := m.state
	id := ev.PointerID
	if !s.isActive(id) {
		return
	}
	defer m.releasePointer(id)

	flags := s.effective()
	if !flags.Enabled {
		return
	}
	m.preventPointerDefault(ev, flags)

	p := ev.Position()
	s.positions.Set(id, p)
	target := m.doc.ElementFromPoint(s.origins.Value(id))

	if s.action == ActionDrag && len(s.activePointers) == 1 {
		m.fire(KindDragEnd, m.fireOrigin(), p, native, m.withDrag)
	}
	if s.action == ActionClick {
		m.fire(KindClick, target, p, native, nil)
	}
	m.fire(KindClickEnd, target, p, native, nil)
}

func (m *Manager) onPointerCancel(native dom.Event) {
	ev, ok := native.(*dom.PointerEvent)
	if !ok || !m.state.isActive(ev.PointerID) {
		return
	}
	m.releasePointer(ev.PointerID)
}

// releasePointer forgets a pointer. The gesture ends with the last one.
func (m *Manager) releasePointer(id int) {
	s := m.state
	if el := m.doc.PointerCaptureElement(id); el != nil {
		el.ReleasePointerCapture(id)
	}
	s.removePointer(id)
	if len(s.activePointers) == 0 {
		m.timers.clear(timerLongPress)
		s.resetGesture()
	}
}

func (m *Manager) exceedsThreshold() bool {
	s := m.state
	for id, origin := range s.origins.All() {
		if p, ok := s.positions.Get(id); ok && geom.Dist(p, origin) > s.moveThreshold {
			return true
		}
	}
	return false
}

// fireOrigin returns the element under the first pointer's origin. It is
// cached until the next drag starts.
func (m *Manager) fireOrigin() *dom.Element {
	s := m.state
	if s.lastTargetOrigin == nil {
		if _, origin, ok := s.origins.First(); ok {
			s.lastTargetOrigin = m.doc.ElementFromPoint(origin)
		}
	}
	return s.lastTargetOrigin
}

func (m *Manager) withDrag(e *Event) {
	e.Drag = &DragData{
		Origins:           m.state.origins.Clone(),
		PreviousPositions: m.state.previousPositions.Clone(),
	}
}

func (m *Manager) preventPointerDefault(ev *dom.PointerEvent, f Flags) {
	if ev.PointerType == dom.PointerTypeTouch {
		if f.PreventDefaultTouch {
			ev.PreventDefault()
		}
		return
	}
	if f.PreventDefaultMouse {
		ev.PreventDefault()
	}
}

// checkLock releases a lock when a press lands outside its origin, then
// installs a new one if an element on the path asks to bypass the manager.
func (m *Manager) checkLock(path []*dom.Node, native dom.Event) {
	s := m.state
	if s.lockOrigin != nil && !slices.Contains(path, s.lockOrigin) {
		m.doc.Blur()
		m.Unlock()
	}
	for _, n := range path {
		es := m.elementState(n, false)
		if es == nil || es.bypass == nil {
			continue
		}
		if flags, ok := es.bypass(native); ok {
			m.Lock(n, flags)
			return
		}
	}
}
