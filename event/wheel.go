package event

import (
	"math"

	"github.com/chrisuehlinger/turbo/dom"
)

// onWheel classifies a wheel event as trackpad or mouse and fires the
// matching semantic event.
//
// Small vertical deltas and any horizontal delta come from a trackpad.
// Large deltas normally mean a mouse wheel, except right after trackpad
// input, where they are the trackpad's momentum scrolling.
func (m *Manager) onWheel(native dom.Event) {
	ev, ok := native.(*dom.WheelEvent)
	if !ok {
		return
	}
	s := m.state
	flags := s.effective()
	if !flags.Enabled {
		return
	}
	if flags.PreventDefaultWheel {
		ev.PreventDefault()
	}

	if math.Abs(ev.DeltaY) <= trackpadDeltaLimit || ev.DeltaX != 0 {
		s.device = DeviceTrackpad
		s.recentlyTrackpad = true
		m.timers.set(timerRecentlyTrackpad, trackpadDecay, func() {
			s.recentlyTrackpad = false
		})
	} else if !s.recentlyTrackpad {
		s.device = DeviceMouse
	}

	kind := KindMouseWheel
	if s.device == DeviceTrackpad {
		kind = KindTrackpadScroll
		if ev.Ctrl {
			kind = KindTrackpadPinch
		}
	}
	p := ev.Position()
	m.fire(kind, m.doc.ElementFromPoint(p), p, native, func(e *Event) {
		e.Wheel = &WheelData{Delta: ev.Delta()}
	})
}
