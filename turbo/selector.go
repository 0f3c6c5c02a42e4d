// Package turbo wraps DOM nodes in a Selector, a chainable handle that
// groups the hierarchy, class, attribute, event, tool and substrate
// operations widget code needs. The wrapped node stays reachable through
// Node and Element for anything else.
//
// DOM mutations come in two forms: the plain method logs failures and
// returns the selector so chains keep going, and the WithError variant
// returns the error. Event and tool operations need an event manager and
// panic when there is none.
package turbo

import (
	"fmt"
	"log/slog"
	"sync/atomic"

	"github.com/chrisuehlinger/turbo/dom"
	"github.com/chrisuehlinger/turbo/event"
)

var logger atomic.Pointer[slog.Logger]

// SetLogger sets the logger used for failures swallowed by chain methods.
func SetLogger(l *slog.Logger) {
	logger.Store(l)
}

func log() *slog.Logger {
	if l := logger.Load(); l != nil {
		return l
	}
	return slog.Default()
}

// Selector wraps a node and the manager its event operations go through.
type Selector struct {
	node *dom.Node
	mgr  *event.Manager
}

// Wrap returns a selector for n. m may be nil, in which case event
// operations fall back to the registered default manager.
func Wrap(n *dom.Node, m *event.Manager) *Selector {
	return &Selector{node: n, mgr: m}
}

// WrapElement is Wrap for an element.
func WrapElement(el *dom.Element, m *event.Manager) *Selector {
	if el == nil {
		return Wrap(nil, m)
	}
	return Wrap(el.AsNode(), m)
}

// Create makes a new element and wraps it.
func Create(doc *dom.Document, tag string, m *event.Manager) (*Selector, error) {
	el, err := doc.CreateElementWithError(tag)
	if err != nil {
		return nil, err
	}
	return WrapElement(el, m), nil
}

// Node returns the wrapped node.
func (s *Selector) Node() *dom.Node { return s.node }

// Element returns the wrapped node as an element, or nil.
func (s *Selector) Element() *dom.Element {
	if s.node == nil {
		return nil
	}
	el, _ := s.node.AsElement()
	return el
}

// Valid reports whether the selector wraps a node.
func (s *Selector) Valid() bool { return s.node != nil }

// Manager returns the manager used for event operations. It panics when
// neither the selector nor the default registry has one.
func (s *Selector) Manager() *event.Manager {
	if s.mgr != nil {
		return s.mgr
	}
	if m := event.Registered(); m != nil {
		return m
	}
	panic(fmt.Sprintf("turbo: selector on %s has no event manager; pass one to Wrap or call event.SetDefault", s.describe()))
}

// WithManager returns a selector on the same node using m.
func (s *Selector) WithManager(m *event.Manager) *Selector {
	return &Selector{node: s.node, mgr: m}
}

func (s *Selector) wrap(n *dom.Node) *Selector {
	return &Selector{node: n, mgr: s.mgr}
}

func (s *Selector) describe() string {
	if s.node == nil {
		return "<nil>"
	}
	if el := s.Element(); el != nil && el.Id() != "" {
		return el.LocalName() + "#" + el.Id()
	}
	return s.node.NodeName()
}

// logged reports err on behalf of a chain method.
func (s *Selector) logged(op string, err error) *Selector {
	if err != nil {
		log().Error("turbo: "+op+" failed", "node", s.describe(), "err", err)
	}
	return s
}

var errNoElement = dom.ErrInvalidState("The selector does not wrap an element.")

func (s *Selector) element() (*dom.Element, error) {
	if el := s.Element(); el != nil {
		return el, nil
	}
	return nil, errNoElement
}
