// Package event turns the native pointer, wheel and keyboard events of a
// dom.Document into semantic events (click, long press, drag, move,
// trackpad scroll and pinch, mouse wheel, key press and release) and
// delivers them to listeners and tool behaviors bound to elements.
package event

import (
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/chrisuehlinger/turbo/delegate"
	"github.com/chrisuehlinger/turbo/dom"
	"github.com/chrisuehlinger/turbo/geom"
)

// Manager owns the gesture state of one document. All methods must be
// called from the goroutine that delivers native events.
type Manager struct {
	doc       *dom.Document
	state     *State
	names     EventNames
	logger    *slog.Logger
	scheduler Scheduler
	timers    *namedTimers

	categories [numCategories]bool
	// native listeners on the document, by event type
	native map[string]dom.ListenerID
	// walk handlers on the document, by semantic event type
	docListeners map[string]dom.ListenerID

	behaviors map[behaviorKey][]*behavior
	nextID    ListenerID

	onToolChange delegate.Delegate[ToolChange]
	onError      delegate.Delegate[error]

	authorizeScaling func(*Event) bool
	scalePosition    func(geom.Point, *Event) geom.Point

	destroyed bool
}

// Option configures a Manager.
type Option func(*Manager)

// WithLogger sets the logger. The default is slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(m *Manager) { m.logger = l }
}

// WithScheduler sets the scheduler used for the long press and trackpad
// timers. The default is a LoopScheduler drained by the host, see
// Manager.Scheduler.
func WithScheduler(s Scheduler) Option {
	return func(m *Manager) { m.scheduler = s }
}

// WithMoveThreshold sets the distance a pointer must travel from its origin
// before a click becomes a drag.
func WithMoveThreshold(d float64) Option {
	return func(m *Manager) { m.state.moveThreshold = d }
}

// WithLongPressDuration sets how long a press must be held to become a
// long press.
func WithLongPressDuration(d time.Duration) Option {
	return func(m *Manager) { m.state.longPressDuration = d }
}

// WithPreventDefault sets the baseline default-prevention flags.
func WithPreventDefault(mouse, touch, wheel bool) Option {
	return func(m *Manager) {
		m.state.state.PreventDefaultMouse = mouse
		m.state.state.PreventDefaultTouch = touch
		m.state.state.PreventDefaultWheel = wheel
	}
}

// WithEventNames replaces the event type names.
func WithEventNames(n EventNames) Option {
	return func(m *Manager) { m.names = n }
}

// WithEventName renames a single kind.
func WithEventName(k Kind, name string) Option {
	return func(m *Manager) { m.names[k] = name }
}

// WithScaling installs the hooks behind Event.ScaledPosition. authorize
// may be nil to scale every event.
func WithScaling(authorize func(*Event) bool, scale func(geom.Point, *Event) geom.Point) Option {
	return func(m *Manager) {
		m.authorizeScaling = authorize
		m.scalePosition = scale
	}
}

// WithoutEvents disables the given categories from the start.
func WithoutEvents(cats ...Category) Option {
	return func(m *Manager) {
		for _, c := range cats {
			m.categories[c] = false
		}
	}
}

// New creates a manager for doc and starts listening to its native events.
func New(doc *dom.Document, opts ...Option) *Manager {
	m := &Manager{
		doc:          doc,
		state:        newState(),
		names:        DefaultEventNames(),
		logger:       slog.Default(),
		native:       make(map[string]dom.ListenerID),
		docListeners: make(map[string]dom.ListenerID),
		behaviors:    make(map[behaviorKey][]*behavior),
	}
	for c := range m.categories {
		m.categories[c] = true
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.scheduler == nil {
		m.scheduler = NewLoopScheduler()
	}
	m.timers = newNamedTimers(m.scheduler)
	m.syncNativeListeners()
	return m
}

// Scheduler returns the scheduler running the manager's timers. Without
// WithScheduler it is a *LoopScheduler that the host must drain with
// Process on the goroutine feeding native events.
func (m *Manager) Scheduler() Scheduler { return m.scheduler }

// Document returns the managed document.
func (m *Manager) Document() *dom.Document { return m.doc }

// Names returns the configured event names.
func (m *Manager) Names() EventNames { return m.names }

// Name returns the event type dispatched for kind.
func (m *Manager) Name(k Kind) string { return m.names.Name(k) }

// Logger returns the manager's logger.
func (m *Manager) Logger() *slog.Logger { return m.logger }

var (
	defaultMu      sync.Mutex
	defaultManager *Manager
)

// Default returns the manager registered with SetDefault, creating one for
// doc if there is none. doc is ignored once a default exists.
func Default(doc *dom.Document, opts ...Option) *Manager {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	if defaultManager == nil || defaultManager.destroyed {
		defaultManager = New(doc, opts...)
	}
	return defaultManager
}

// Registered returns the default manager without creating one. It returns
// nil if there is none or it was destroyed.
func Registered() *Manager {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	if defaultManager == nil || defaultManager.destroyed {
		return nil
	}
	return defaultManager
}

// SetDefault replaces the default manager. nil clears it.
func SetDefault(m *Manager) {
	defaultMu.Lock()
	defaultManager = m
	defaultMu.Unlock()
}

type nativeHandler struct {
	typ string
	cat []Category
	fn  func(*Manager, dom.Event)
}

var nativeHandlers = []nativeHandler{
	{dom.EventPointerDown, []Category{ClickEvents, DragEvents, MoveEvents}, (*Manager).onPointerDown},
	{dom.EventPointerMove, []Category{ClickEvents, DragEvents, MoveEvents}, (*Manager).onPointerMove},
	{dom.EventPointerUp, []Category{ClickEvents, DragEvents, MoveEvents}, (*Manager).onPointerUp},
	{dom.EventPointerCancel, []Category{ClickEvents, DragEvents, MoveEvents}, (*Manager).onPointerCancel},
	{dom.EventWheel, []Category{WheelEvents}, (*Manager).onWheel},
	{dom.EventKeyDown, []Category{KeyEvents}, (*Manager).onKeyDown},
	{dom.EventKeyUp, []Category{KeyEvents}, (*Manager).onKeyUp},
}

// syncNativeListeners adds or removes native listeners so that exactly the
// handlers of enabled categories are installed.
func (m *Manager) syncNativeListeners() {
	for _, h := range nativeHandlers {
		want := !m.destroyed && slices.ContainsFunc(h.cat, func(c Category) bool { return m.categories[c] })
		id, have := m.native[h.typ]
		switch {
		case want && !have:
			fn := h.fn
			m.native[h.typ] = m.doc.AddEventListener(h.typ, func(ev dom.Event) { fn(m, ev) }, dom.ListenerOptions{Capture: true})
		case !want && have:
			m.doc.RemoveEventListener(h.typ, id)
			delete(m.native, h.typ)
		}
	}
}

// SetEventsEnabled enables or disables a category of semantic events.
// Disabling every category that needs a native event type removes the
// native listener.
func (m *Manager) SetEventsEnabled(c Category, enabled bool) {
	m.categories[c] = enabled
	m.syncNativeListeners()
}

// EventsEnabled reports whether a category is enabled.
func (m *Manager) EventsEnabled(c Category) bool {
	return m.categories[c]
}

// Destroy detaches the manager from its document: native and walk
// listeners are removed, pending timers cancelled and subscribers dropped.
func (m *Manager) Destroy() {
	if m.destroyed {
		return
	}
	m.destroyed = true
	for c := range m.categories {
		m.categories[c] = false
	}
	m.syncNativeListeners()
	for typ, id := range m.docListeners {
		m.doc.RemoveEventListener(typ, id)
	}
	clear(m.docListeners)
	m.timers.clearAll()
	m.onToolChange.Clear()
	m.onError.Clear()
	for _, id := range slices.Clone(m.state.activePointers) {
		m.releasePointer(id)
	}
	m.logger.Debug("event: manager destroyed")
}

// Destroyed reports whether Destroy was called.
func (m *Manager) Destroyed() bool { return m.destroyed }

// Lock installs flags as the lock record with origin as lock owner. A
// previous lock is released first. Fields left set keep the baseline value.
func (m *Manager) Lock(origin *dom.Node, flags Flags) {
	m.Unlock()
	m.state.lockState = flags
	m.state.lockOrigin = origin
	m.logger.Debug("event: locked", "origin", nodeName(origin), "flags", flags)
}

// Unlock restores the neutral lock record.
func (m *Manager) Unlock() {
	if m.state.lockOrigin == nil && m.state.lockState == AllFlags() {
		return
	}
	m.state.lockState = AllFlags()
	m.state.lockOrigin = nil
	m.logger.Debug("event: unlocked")
}

// LockOrigin returns the node holding the lock, or nil.
func (m *Manager) LockOrigin() *dom.Node { return m.state.lockOrigin }

// Flags returns the effective flags.
func (m *Manager) Flags() Flags { return m.state.effective() }

// BaselineFlags returns the user-set flags, ignoring any lock.
func (m *Manager) BaselineFlags() Flags { return m.state.state }

// SetFlags replaces the baseline flags.
func (m *Manager) SetFlags(f Flags) { m.state.state = f }

// SetEnabled switches semantic event generation on or off.
func (m *Manager) SetEnabled(enabled bool) { m.state.state.Enabled = enabled }

// Enabled reports whether events are generated, taking locks into account.
func (m *Manager) Enabled() bool { return m.state.effective().Enabled }

// SetMoveThreshold changes the click-to-drag distance.
func (m *Manager) SetMoveThreshold(d float64) { m.state.moveThreshold = d }

// MoveThreshold returns the click-to-drag distance.
func (m *Manager) MoveThreshold() float64 { return m.state.moveThreshold }

// SetLongPressDuration changes the long press delay.
func (m *Manager) SetLongPressDuration(d time.Duration) { m.state.longPressDuration = d }

// LongPressDuration returns the long press delay.
func (m *Manager) LongPressDuration() time.Duration { return m.state.longPressDuration }

// CurrentAction returns the interpretation of the gesture in progress.
func (m *Manager) CurrentAction() ActionMode { return m.state.action }

// CurrentClick returns the active click mode.
func (m *Manager) CurrentClick() ClickMode { return m.state.click }

// InputDevice returns the inferred input device.
func (m *Manager) InputDevice() InputDevice { return m.state.device }

// RecentlyTrackpad reports whether trackpad input was seen recently.
func (m *Manager) RecentlyTrackpad() bool { return m.state.recentlyTrackpad }

// Keys returns the held keys in press order.
func (m *Manager) Keys() []string { return slices.Clone(m.state.keys) }

// ActivePointers returns the ids of the pointers that are down.
func (m *Manager) ActivePointers() []int { return slices.Clone(m.state.activePointers) }

// Origin returns where pointer id went down.
func (m *Manager) Origin(id int) (geom.Point, bool) { return m.state.origins.Get(id) }

// Position returns the last known position of pointer id.
func (m *Manager) Position(id int) (geom.Point, bool) { return m.state.positions.Get(id) }

// ToolsOf returns the tool names el is an instance of.
func (m *Manager) ToolsOf(el *dom.Element) []string {
	es := m.elementState(el.AsNode(), false)
	if es == nil {
		return nil
	}
	return slices.Clone(es.tools)
}

// OnError subscribes fn to errors raised by listeners and behaviors.
// Without subscribers, errors are only logged.
func (m *Manager) OnError(fn func(error)) delegate.Handle {
	return m.onError.Add(fn)
}

func (m *Manager) reportError(err error) {
	m.logger.Error("event: handler failed", "err", err)
	m.onError.Fire(err)
}

func nodeName(n *dom.Node) string {
	if n == nil {
		return ""
	}
	return n.NodeName()
}
