package turbo

import (
	"context"

	"github.com/chrisuehlinger/turbo/delegate"
	"github.com/chrisuehlinger/turbo/dom"
	"github.com/chrisuehlinger/turbo/event"
	"github.com/chrisuehlinger/turbo/geom"
	"github.com/chrisuehlinger/turbo/substrate"
)

// On binds fn to a semantic event kind on the wrapped node.
func (s *Selector) On(kind event.Kind, fn event.Listener, opts ...event.ListenOption) *Selector {
	s.Bind(kind, fn, opts...)
	return s
}

// Bind is On returning the listener id for later removal.
func (s *Selector) Bind(kind event.Kind, fn event.Listener, opts ...event.ListenOption) event.ListenerID {
	return s.Manager().OnKind(s.node, kind, fn, opts...)
}

// Off removes a listener bound with Bind.
func (s *Selector) Off(kind event.Kind, id event.ListenerID) bool {
	m := s.Manager()
	return m.Off(s.node, m.Name(kind), id)
}

// Dispatch fires a semantic event at the wrapped element.
func (s *Selector) Dispatch(kind event.Kind, pos geom.Point, fill func(*event.Event)) *event.Event {
	return s.Manager().Dispatch(s.Element(), kind, pos, fill)
}

// AddTool makes the wrapped element an instance of the named tool, with an
// optional activation key.
func (s *Selector) AddTool(name string, key ...string) *Selector {
	k := ""
	if len(key) > 0 {
		k = key[0]
	}
	s.Manager().AddTool(name, s.mustElement("add tool"), k)
	return s
}

// RemoveTool drops the wrapped element from the named tool.
func (s *Selector) RemoveTool(name string) *Selector {
	s.Manager().RemoveTool(name, s.mustElement("remove tool"))
	return s
}

// Tools returns the tool names the wrapped element is an instance of.
func (s *Selector) Tools() []string {
	el := s.Element()
	if el == nil {
		return nil
	}
	return s.Manager().ToolsOf(el)
}

// ToolSelected reports whether the wrapped tool instance is selected for
// mode.
func (s *Selector) ToolSelected(mode event.ClickMode) bool {
	el := s.Element()
	return el != nil && s.Manager().IsToolSelected(el, mode)
}

// IgnoreTool stops tool behaviors from running on the wrapped node. With
// no event types every type is ignored.
func (s *Selector) IgnoreTool(tool string, ignore bool, eventTypes ...string) *Selector {
	s.Manager().IgnoreTool(s.node, tool, ignore, eventTypes...)
	return s
}

// IgnoreAllTools ignores every tool on the wrapped node.
func (s *Selector) IgnoreAllTools(ignore bool) *Selector {
	s.Manager().IgnoreAllTools(s.node, ignore)
	return s
}

// SetEmbeddedToolTarget makes the wrapped tool element apply its behaviors
// to target as well.
func (s *Selector) SetEmbeddedToolTarget(target *Selector) *Selector {
	var n *dom.Node
	if target != nil {
		n = target.node
	}
	s.Manager().SetEmbeddedToolTarget(s.mustElement("set embedded tool target"), n)
	return s
}

// AddToolBehavior registers a behavior for tool. The wrapped node is not
// involved; the method lives here so tool setup reads as one chain.
func (s *Selector) AddToolBehavior(tool string, kind event.Kind, fn event.Behavior, opts ...event.ListenOption) *Selector {
	m := s.Manager()
	m.AddToolBehavior(tool, m.Name(kind), fn, opts...)
	return s
}

// OnToolActivate subscribes to selection of the wrapped tool element.
func (s *Selector) OnToolActivate(fn func(event.ToolActivation)) delegate.Handle {
	return s.Manager().OnToolActivate(s.mustElement("subscribe to tool activation"), fn)
}

// OnToolDeactivate subscribes to deselection of the wrapped tool element.
func (s *Selector) OnToolDeactivate(fn func(event.ToolActivation)) delegate.Handle {
	return s.Manager().OnToolDeactivate(s.mustElement("subscribe to tool deactivation"), fn)
}

// SetBypass installs the lock bypass consulted when a press lands on the
// wrapped node or its descendants.
func (s *Selector) SetBypass(fn event.BypassFunc) *Selector {
	s.Manager().SetBypass(s.node, fn)
	return s
}

// Lock locks the manager with the wrapped node as origin.
func (s *Selector) Lock(flags event.Flags) *Selector {
	s.Manager().Lock(s.node, flags)
	return s
}

func (s *Selector) mustElement(op string) *dom.Element {
	el := s.Element()
	if el == nil {
		panic("turbo: cannot " + op + " on " + s.describe() + ": not an element")
	}
	return el
}

type hostKey struct{}

// Substrates returns the substrate host stored on the wrapped node,
// creating it on first use.
func (s *Selector) Substrates() *substrate.Host[*dom.Node] {
	if h, ok := s.node.UserData(hostKey{}).(*substrate.Host[*dom.Node]); ok {
		return h
	}
	h := substrate.NewHost[*dom.Node]()
	s.node.SetUserData(hostKey{}, h)
	return h
}

// MakeSubstrate returns the named substrate of the wrapped node, creating
// it if needed.
func (s *Selector) MakeSubstrate(name string) *substrate.Substrate[*dom.Node] {
	return s.Substrates().MakeSubstrate(name)
}

// Substrate returns the current substrate, or nil.
func (s *Selector) Substrate() *substrate.Substrate[*dom.Node] {
	return s.Substrates().Current()
}

// SetCurrentSubstrate switches the current substrate.
func (s *Selector) SetCurrentSubstrate(name string) error {
	return s.Substrates().SetCurrent(name)
}

// ResolveSubstrate resolves the named substrate, or the current one when
// name is empty.
func (s *Selector) ResolveSubstrate(ctx context.Context, name string, opts ...substrate.ResolveOption[*dom.Node]) error {
	err := s.Substrates().Resolve(ctx, name, opts...)
	if err != nil {
		log().Warn("turbo: substrate resolution failed", "node", s.describe(), "substrate", name, "err", err)
	}
	return err
}
