package event

import (
	"github.com/chrisuehlinger/turbo/dom"
	"github.com/chrisuehlinger/turbo/geom"
)

// keyTarget is where key events are dispatched.
func (m *Manager) keyTarget() *dom.Element {
	if el := m.doc.ActiveElement(); el != nil {
		return el
	}
	return m.doc.DocumentElement()
}

func (m *Manager) onKeyDown(native dom.Event) {
	ev, ok := native.(*dom.KeyboardEvent)
	if !ok {
		return
	}
	s := m.state
	if !s.effective().Enabled {
		return
	}
	// auto-repeat and duplicate downs
	if !s.addKey(ev.Key) {
		return
	}
	if tool, ok := s.keyToTool[ev.Key]; ok {
		m.setTool(tool, ClickKey, true)
		s.click = ClickKey
	}
	m.fire(KindKeyPressed, m.keyTarget(), m.primaryPosition(), native, func(e *Event) { e.Key = ev.Key })
}

func (m *Manager) onKeyUp(native dom.Event) {
	ev, ok := native.(*dom.KeyboardEvent)
	if !ok {
		return
	}
	m.releaseKey(ev.Key, native)
}

func (m *Manager) releaseKey(key string, native dom.Event) {
	s := m.state
	if !s.removeKey(key) {
		return
	}
	if s.effective().Enabled {
		m.fire(KindKeyReleased, m.keyTarget(), m.primaryPosition(), native, func(e *Event) { e.Key = key })
	}
	if tool, ok := s.keyToTool[key]; ok && s.currentTools[ClickKey] == tool {
		m.setTool("", ClickKey, true)
		if s.click == ClickKey {
			s.click = ClickNone
		}
	}
}

// ReleaseKeys releases every held key, as when the host window loses
// focus and the matching key-up events will never arrive.
func (m *Manager) ReleaseKeys() {
	for _, k := range m.Keys() {
		m.releaseKey(k, nil)
	}
}

func (m *Manager) primaryPosition() (p geom.Point) {
	_, p, _ = m.state.positions.First()
	return p
}
