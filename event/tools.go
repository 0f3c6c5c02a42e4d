package event

import (
	"maps"
	"slices"

	"github.com/chrisuehlinger/turbo/collections"
	"github.com/chrisuehlinger/turbo/delegate"
	"github.com/chrisuehlinger/turbo/dom"
)

// ToolChange is delivered to OnToolChange subscribers.
type ToolChange struct {
	Mode     ClickMode
	Previous string
	Current  string
}

// ToolActivation is delivered to a tool instance's activate and
// deactivate subscribers.
type ToolActivation struct {
	Tool    string
	Mode    ClickMode
	Element *dom.Element
}

// BypassFunc decides, for a native event passing through the element it is
// installed on, whether the manager should lock to that element and with
// which flags.
type BypassFunc func(native dom.Event) (flags Flags, bypass bool)

// elementState is the manager's side table for one node.
type elementState struct {
	tools      []string
	selected   map[ClickMode]bool
	activate   delegate.Delegate[ToolActivation]
	deactivate delegate.Delegate[ToolActivation]
	embedded   *dom.Node

	ignoreAll bool
	// tool name to ignored event types; an empty type set ignores all
	ignored map[string]map[string]bool

	bypass BypassFunc
}

type elementKey struct{ m *Manager }

func (m *Manager) elementState(n *dom.Node, create bool) *elementState {
	if n == nil {
		return nil
	}
	key := elementKey{m}
	if es, ok := n.UserData(key).(*elementState); ok {
		return es
	}
	if !create {
		return nil
	}
	es := &elementState{selected: make(map[ClickMode]bool)}
	n.SetUserData(key, es)
	return es
}

// AddTool registers el as an instance of the named tool. If key is not
// empty, pressing it activates the tool for as long as it is held.
func (m *Manager) AddTool(name string, el *dom.Element, key string) {
	if name == "" || el == nil {
		return
	}
	set, ok := m.state.tools[name]
	if !ok {
		set = collections.NewWeakSet[dom.Element]()
		m.state.tools[name] = set
	}
	set.Add(el)
	es := m.elementState(el.AsNode(), true)
	if !slices.Contains(es.tools, name) {
		es.tools = append(es.tools, name)
	}
	if key != "" {
		m.MapKeyToTool(key, name)
	}
	// a new instance of an already active tool starts selected; a none
	// binding that follows left is not announced twice
	for _, mode := range clickModes {
		if m.state.currentTools[mode] == name {
			notify := mode != ClickNone || m.state.currentTools[ClickLeft] != name
			m.selectInstance(el, name, mode, true, notify)
		}
	}
}

// RemoveTool unregisters el as an instance of the named tool.
func (m *Manager) RemoveTool(name string, el *dom.Element) {
	if set, ok := m.state.tools[name]; ok {
		set.Delete(el)
	}
	if es := m.elementState(el.AsNode(), false); es != nil {
		if i := slices.Index(es.tools, name); i >= 0 {
			es.tools = slices.Delete(es.tools, i, i+1)
		}
	}
}

// ToolInstances returns the live instances of the named tool.
func (m *Manager) ToolInstances(name string) []*dom.Element {
	set, ok := m.state.tools[name]
	if !ok {
		return nil
	}
	return set.Slice()
}

// ToolNames returns the names of the registered tools, sorted.
func (m *Manager) ToolNames() []string {
	return slices.Sorted(maps.Keys(m.state.tools))
}

// MapKeyToTool binds key to the named tool. An empty name removes the
// binding.
func (m *Manager) MapKeyToTool(key, name string) {
	if name == "" {
		delete(m.state.keyToTool, key)
		return
	}
	m.state.keyToTool[key] = name
}

// ToolForKey returns the tool bound to key.
func (m *Manager) ToolForKey(key string) (string, bool) {
	name, ok := m.state.keyToTool[key]
	return name, ok
}

// CurrentTool returns the tool bound to mode, or "".
func (m *Manager) CurrentTool(mode ClickMode) string {
	return m.state.currentTools[mode]
}

// ActiveTool returns the tool bound to the current click mode.
func (m *Manager) ActiveTool() string {
	return m.state.currentTools[m.state.click]
}

// SetToolOption configures SetTool.
type SetToolOption func(*setToolConfig)

type setToolConfig struct {
	noAction bool
}

// AsNoAction controls whether binding a tool to ClickLeft also binds it to
// ClickNone, which is the default.
func AsNoAction(v bool) SetToolOption {
	return func(c *setToolConfig) { c.noAction = v }
}

// SetTool binds the named tool to mode. Instances of the previously bound
// tool are deselected and notified first, then instances of the new tool.
// An empty name unbinds the mode. Binding the tool already bound is a
// no-op. The ClickNone binding implied by ClickLeft updates selection
// without notifying activation subscribers, so they hear once per call.
func (m *Manager) SetTool(name string, mode ClickMode, opts ...SetToolOption) {
	cfg := setToolConfig{noAction: true}
	for _, opt := range opts {
		opt(&cfg)
	}
	m.setTool(name, mode, true)
	if mode == ClickLeft && cfg.noAction {
		m.setTool(name, ClickNone, false)
	}
}

func (m *Manager) setTool(name string, mode ClickMode, notify bool) {
	prev := m.state.currentTools[mode]
	if prev == name {
		return
	}
	if prev != "" {
		for _, el := range m.ToolInstances(prev) {
			m.selectInstance(el, prev, mode, false, notify)
		}
	}
	if name == "" {
		delete(m.state.currentTools, mode)
	} else {
		m.state.currentTools[mode] = name
		for _, el := range m.ToolInstances(name) {
			m.selectInstance(el, name, mode, true, notify)
		}
	}
	m.logger.Debug("event: tool changed", "mode", mode, "previous", prev, "current", name)
	m.onToolChange.Fire(ToolChange{Mode: mode, Previous: prev, Current: name})
}

func (m *Manager) selectInstance(el *dom.Element, name string, mode ClickMode, on, notify bool) {
	es := m.elementState(el.AsNode(), true)
	if es.selected[mode] == on {
		return
	}
	es.selected[mode] = on
	if !notify {
		return
	}
	a := ToolActivation{Tool: name, Mode: mode, Element: el}
	if on {
		es.activate.Fire(a)
	} else {
		es.deactivate.Fire(a)
	}
}

// IsToolSelected reports whether el is a selected tool instance for mode.
func (m *Manager) IsToolSelected(el *dom.Element, mode ClickMode) bool {
	es := m.elementState(el.AsNode(), false)
	return es != nil && es.selected[mode]
}

// OnToolChange subscribes fn to tool changes of every mode.
func (m *Manager) OnToolChange(fn func(ToolChange)) delegate.Handle {
	return m.onToolChange.Add(fn)
}

// OffToolChange removes a subscription made with OnToolChange.
func (m *Manager) OffToolChange(h delegate.Handle) bool {
	return m.onToolChange.Remove(h)
}

// OnToolActivate subscribes fn to el being selected as a tool instance.
func (m *Manager) OnToolActivate(el *dom.Element, fn func(ToolActivation)) delegate.Handle {
	return m.elementState(el.AsNode(), true).activate.Add(fn)
}

// OnToolDeactivate subscribes fn to el being deselected.
func (m *Manager) OnToolDeactivate(el *dom.Element, fn func(ToolActivation)) delegate.Handle {
	return m.elementState(el.AsNode(), true).deactivate.Add(fn)
}

// IgnoreTool makes n skipped by the named tool's behaviors for the given
// event types, or for every type when none are given. ignore=false undoes
// it.
func (m *Manager) IgnoreTool(n *dom.Node, tool string, ignore bool, eventTypes ...string) {
	es := m.elementState(n, true)
	if !ignore {
		if len(eventTypes) == 0 {
			delete(es.ignored, tool)
			return
		}
		for _, t := range eventTypes {
			delete(es.ignored[tool], t)
		}
		return
	}
	if es.ignored == nil {
		es.ignored = make(map[string]map[string]bool)
	}
	set := es.ignored[tool]
	if set == nil {
		set = make(map[string]bool)
		es.ignored[tool] = set
	}
	if len(eventTypes) == 0 {
		set[""] = true
	}
	for _, t := range eventTypes {
		set[t] = true
	}
}

// IgnoreAllTools makes n skipped by every tool behavior.
func (m *Manager) IgnoreAllTools(n *dom.Node, ignore bool) {
	m.elementState(n, true).ignoreAll = ignore
}

func (m *Manager) ignores(n *dom.Node, tool, eventType string) bool {
	es := m.elementState(n, false)
	if es == nil {
		return false
	}
	if es.ignoreAll {
		return true
	}
	set := es.ignored[tool]
	return set[""] || set[eventType]
}

// SetEmbeddedToolTarget makes the behaviors of el's tools also apply to
// target whenever an event for one of those tools passes through el.
// A nil target removes the redirection.
func (m *Manager) SetEmbeddedToolTarget(el *dom.Element, target *dom.Node) {
	m.elementState(el.AsNode(), true).embedded = target
}

// SetBypass installs fn on n. A nil fn removes it.
func (m *Manager) SetBypass(n *dom.Node, fn BypassFunc) {
	m.elementState(n, true).bypass = fn
}
