package event

import (
	"slices"

	"github.com/chrisuehlinger/turbo/dom"
)

// Listener handles a semantic event on the element it was bound to.
// Returning Handled stops the walk and the event's propagation.
type Listener func(ev *Event, target *dom.Node) Result

// ListenerID identifies a bound listener or tool behavior.
type ListenerID int

// ListenOption configures On and AddToolBehavior.
type ListenOption func(*listenConfig)

type listenConfig struct {
	capture bool
	once    bool
	tool    string
}

// Capture runs the listener in the capture pass.
func Capture() ListenOption {
	return func(c *listenConfig) { c.capture = true }
}

// Once removes the listener after its first call.
func Once() ListenOption {
	return func(c *listenConfig) { c.once = true }
}

// ForTool restricts the listener to events whose active tool is name.
// Listeners without a tool run whatever tool is active.
func ForTool(name string) ListenOption {
	return func(c *listenConfig) { c.tool = name }
}

func newListenConfig(opts []ListenOption) listenConfig {
	var c listenConfig
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

type binding struct {
	id      ListenerID
	fn      Listener
	cfg     listenConfig
	removed bool
}

func (b *binding) matches(tool string) bool {
	return !b.removed && (b.cfg.tool == "" || b.cfg.tool == tool)
}

// nodeBindings is stored in node user data, keyed by manager, so several
// managers can share a tree without seeing each other's listeners.
type nodeBindings struct {
	byType map[string][]*binding
}

type bindingsKey struct{ m *Manager }

func (m *Manager) bindings(n *dom.Node, create bool) *nodeBindings {
	key := bindingsKey{m}
	if nb, ok := n.UserData(key).(*nodeBindings); ok {
		return nb
	}
	if !create {
		return nil
	}
	nb := &nodeBindings{byType: make(map[string][]*binding)}
	n.SetUserData(key, nb)
	return nb
}

// On binds fn to semantic events of eventType reaching target. The
// manager's document-level handler for eventType is installed on first use.
func (m *Manager) On(target *dom.Node, eventType string, fn Listener, opts ...ListenOption) ListenerID {
	if target == nil || fn == nil {
		return 0
	}
	m.ensureDocumentListener(eventType)
	m.nextID++
	nb := m.bindings(target, true)
	nb.byType[eventType] = append(nb.byType[eventType], &binding{id: m.nextID, fn: fn, cfg: newListenConfig(opts)})
	return m.nextID
}

// OnKind binds fn to the event type currently configured for kind.
func (m *Manager) OnKind(target *dom.Node, kind Kind, fn Listener, opts ...ListenOption) ListenerID {
	return m.On(target, m.names.Name(kind), fn, opts...)
}

// Off removes a listener bound with On.
func (m *Manager) Off(target *dom.Node, eventType string, id ListenerID) bool {
	if target == nil {
		return false
	}
	nb := m.bindings(target, false)
	if nb == nil {
		return false
	}
	entries := nb.byType[eventType]
	for i, b := range entries {
		if b.id == id {
			b.removed = true
			nb.byType[eventType] = slices.Delete(slices.Clone(entries), i, i+1)
			return true
		}
	}
	return false
}

// HasListeners reports whether target has bound listeners for eventType.
func (m *Manager) HasListeners(target *dom.Node, eventType string) bool {
	nb := m.bindings(target, false)
	return nb != nil && len(nb.byType[eventType]) > 0
}

// BehaviorPhase says which pass of the tool walk a behavior runs in.
type BehaviorPhase uint8

const (
	PhaseCapture BehaviorPhase = iota
	PhaseBubble
)

// BehaviorContext describes the call of a tool behavior.
type BehaviorContext struct {
	Tool  string
	Phase BehaviorPhase
	// Embedded is set when the target is the embedded target of a tool
	// instance rather than a node of the event path.
	Embedded bool
}

// Behavior is the action a tool applies to elements an event passes
// through. Returning Handled ends the current pass.
type Behavior func(ev *Event, target *dom.Node, ctx BehaviorContext) Result

type behavior struct {
	id      ListenerID
	fn      Behavior
	capture bool
	once    bool
	removed bool
}

type behaviorKey struct {
	tool      string
	eventType string
}

// AddToolBehavior registers fn to run for eventType while tool is active.
// Capture() selects the capture pass; Once() removes it after one call.
func (m *Manager) AddToolBehavior(tool, eventType string, fn Behavior, opts ...ListenOption) ListenerID {
	if fn == nil {
		return 0
	}
	cfg := newListenConfig(opts)
	m.ensureDocumentListener(eventType)
	m.nextID++
	k := behaviorKey{tool, eventType}
	m.behaviors[k] = append(m.behaviors[k], &behavior{id: m.nextID, fn: fn, capture: cfg.capture, once: cfg.once})
	return m.nextID
}

// RemoveToolBehavior removes a behavior added with AddToolBehavior.
func (m *Manager) RemoveToolBehavior(tool, eventType string, id ListenerID) bool {
	k := behaviorKey{tool, eventType}
	entries := m.behaviors[k]
	for i, b := range entries {
		if b.id == id {
			b.removed = true
			m.behaviors[k] = slices.Delete(slices.Clone(entries), i, i+1)
			return true
		}
	}
	return false
}
