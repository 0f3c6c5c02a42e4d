package event

import (
	"errors"
	"fmt"
	"slices"

	"github.com/chrisuehlinger/turbo/dom"
	"github.com/chrisuehlinger/turbo/geom"
)

// ensureDocumentListener installs the capture listener that runs the
// manager's walk for eventType. It is installed once per type.
func (m *Manager) ensureDocumentListener(eventType string) {
	if _, ok := m.docListeners[eventType]; ok || m.destroyed {
		return
	}
	m.docListeners[eventType] = m.doc.AddEventListener(eventType, m.executeAction, dom.ListenerOptions{Capture: true})
}

// newEvent snapshots the manager state into a semantic event.
func (m *Manager) newEvent(kind Kind, pos geom.Point, native dom.Event) *Event {
	s := m.state
	return &Event{
		EventBase: dom.NewEventBase(m.names.Name(kind), dom.EventInit{Bubbles: true, Cancelable: true, Composed: true}),
		kind:      kind,
		manager:   m,
		Keys:      slices.Clone(s.keys),
		ClickMode: s.click,
		ToolName:  s.currentTools[s.click],
		Position:  pos,
		Positions: s.positions.Clone(),
		Native:    native,
	}
}

// fire builds and dispatches a semantic event at target. It returns nil
// when the kind's category is disabled or there is nothing to target.
func (m *Manager) fire(kind Kind, target *dom.Element, pos geom.Point, native dom.Event, fill func(*Event)) *Event {
	if !m.categories[kind.Category()] || target == nil {
		return nil
	}
	ev := m.newEvent(kind, pos, native)
	if fill != nil {
		fill(ev)
	}
	m.logger.Debug("event: fire", "type", ev.Type(), "target", target.NodeName(), "tool", ev.ToolName, "click", ev.ClickMode)
	target.DispatchEvent(ev)
	return ev
}

// Dispatch synthesizes a semantic event of the given kind at target as if
// the manager had produced it, and returns it after dispatch.
func (m *Manager) Dispatch(target *dom.Element, kind Kind, pos geom.Point, fill func(*Event)) *Event {
	return m.fire(kind, target, pos, nil, fill)
}

// walk accumulates the errors raised while running one event's listeners
// and behaviors.
type walk struct {
	m     *Manager
	ev    *Event
	fired map[*binding]bool
	errs  []error
}

// executeAction is the document-level handler for every semantic type the
// manager knows about. Events produced by other managers are ignored.
//
// The bound listeners are walked twice over the event's composed path:
// capture listeners from the deepest node outward, then the rest from the
// outermost node inward. A Handled result ends the walk and stops
// propagation. The active tool's behaviors then run over the same path.
func (m *Manager) executeAction(native dom.Event) {
	ev, ok := native.(*Event)
	if !ok || ev.manager != m {
		return
	}
	path := ev.ComposedPath()
	w := &walk{m: m, ev: ev, fired: make(map[*binding]bool)}

	handled := false
	for _, n := range path {
		if w.runListeners(n, true) == Handled {
			handled = true
			break
		}
	}
	if !handled {
		for _, n := range slices.Backward(path) {
			if w.runListeners(n, false) == Handled {
				handled = true
				break
			}
		}
	}
	if handled {
		ev.StopPropagation()
	}

	w.applyTool(path)

	if err := errors.Join(w.errs...); err != nil {
		m.reportError(err)
	}
}

func (w *walk) runListeners(n *dom.Node, capture bool) Result {
	nb := w.m.bindings(n, false)
	if nb == nil {
		return NotHandled
	}
	typ := w.ev.Type()
	for _, b := range slices.Clone(nb.byType[typ]) {
		if b.cfg.capture != capture || w.fired[b] || !b.matches(w.ev.ToolName) {
			continue
		}
		w.fired[b] = true
		if b.cfg.once {
			w.m.Off(n, typ, b.id)
		}
		if w.call(func() Result { return b.fn(w.ev, n) }) == Handled {
			return Handled
		}
	}
	return NotHandled
}

// applyTool runs the active tool's behaviors over the path, capture
// behaviors deepest first and bubble behaviors outermost first, skipping
// nodes that ignore the tool. Tool instances on the path that carry an
// embedded target also get the behaviors of each of their tool names
// applied to that target.
func (w *walk) applyTool(path []*dom.Node) {
	tool := w.ev.ToolName
	typ := w.ev.Type()
	if tool != "" {
		k := behaviorKey{tool, typ}
		if len(w.m.behaviors[k]) > 0 {
			w.runPass(k, PhaseCapture, path)
			w.runPass(k, PhaseBubble, reversed(path))
		}
	}

	for _, n := range path {
		es := w.m.elementState(n, false)
		if es == nil || es.embedded == nil || !slices.Contains(es.tools, tool) {
			continue
		}
		for _, name := range es.tools {
			if w.m.ignores(es.embedded, name, typ) {
				continue
			}
			k := behaviorKey{name, typ}
			for _, phase := range []BehaviorPhase{PhaseCapture, PhaseBubble} {
				ctx := BehaviorContext{Tool: name, Phase: phase, Embedded: true}
				w.runBehaviors(k, es.embedded, ctx)
			}
		}
	}
}

func (w *walk) runPass(k behaviorKey, phase BehaviorPhase, nodes []*dom.Node) {
	ctx := BehaviorContext{Tool: k.tool, Phase: phase}
	for _, n := range nodes {
		if w.m.ignores(n, k.tool, k.eventType) {
			continue
		}
		if w.runBehaviors(k, n, ctx) == Handled {
			return
		}
	}
}

func (w *walk) runBehaviors(k behaviorKey, n *dom.Node, ctx BehaviorContext) Result {
	capture := ctx.Phase == PhaseCapture
	for _, b := range slices.Clone(w.m.behaviors[k]) {
		if b.removed || b.capture != capture {
			continue
		}
		if b.once {
			w.m.RemoveToolBehavior(k.tool, k.eventType, b.id)
		}
		if w.call(func() Result { return b.fn(w.ev, n, ctx) }) == Handled {
			return Handled
		}
	}
	return NotHandled
}

// call runs fn, converting a panic into a recorded error.
func (w *walk) call(fn func() Result) (r Result) {
	defer func() {
		if p := recover(); p != nil {
			err, ok := p.(error)
			if !ok {
				err = fmt.Errorf("%v", p)
			}
			w.errs = append(w.errs, fmt.Errorf("event: %s handler panicked: %w", w.ev.Type(), err))
			r = NotHandled
		}
	}()
	return fn()
}

func reversed(path []*dom.Node) []*dom.Node {
	out := slices.Clone(path)
	slices.Reverse(out)
	return out
}
