// Package ui hosts a laid-out dom.Document inside a Fyne window. The
// Surface widget draws the element boxes and turns Fyne mouse, drag,
// scroll, touch and keyboard callbacks into native DOM events, which an
// event.Manager attached to the same document then interprets.
package ui

import (
	"log/slog"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/driver/mobile"
	"fyne.io/fyne/v2/widget"

	"github.com/chrisuehlinger/turbo/dom"
	"github.com/chrisuehlinger/turbo/event"
	"github.com/chrisuehlinger/turbo/geom"
)

// Pointer ids used for the host's devices. Fyne reports a single touch.
const (
	MousePointerID = 1
	TouchPointerID = 2
)

// NewScheduler returns a scheduler that runs manager timers on the Fyne
// main goroutine.
func NewScheduler() event.Scheduler {
	return event.AsyncScheduler{Post: fyne.Do}
}

// Surface is a widget that displays a document and feeds it input.
type Surface struct {
	widget.BaseWidget

	doc    *dom.Document
	mgr    *event.Manager
	logger *slog.Logger

	// button held by the mouse, in DOM numbering, or -1
	mouseButton int
	touching    bool
	lastPos     geom.Point
	mods        dom.Modifiers
	focused     bool
}

var (
	_ desktop.Mouseable = (*Surface)(nil)
	_ desktop.Hoverable = (*Surface)(nil)
	_ desktop.Keyable   = (*Surface)(nil)
	_ fyne.Draggable    = (*Surface)(nil)
	_ fyne.Scrollable   = (*Surface)(nil)
	_ fyne.Focusable    = (*Surface)(nil)
	_ mobile.Touchable  = (*Surface)(nil)
)

// NewSurface creates a surface for doc. mgr may be nil; when set, held
// keys are released on the manager when the surface loses focus.
func NewSurface(doc *dom.Document, mgr *event.Manager) *Surface {
	s := &Surface{doc: doc, mgr: mgr, logger: slog.Default(), mouseButton: -1}
	if mgr != nil {
		s.logger = mgr.Logger()
	}
	s.ExtendBaseWidget(s)
	return s
}

// Document returns the hosted document.
func (s *Surface) Document() *dom.Document { return s.doc }

// CreateRenderer implements fyne.Widget.
func (s *Surface) CreateRenderer() fyne.WidgetRenderer {
	r := &surfaceRenderer{s: s}
	r.rebuild()
	return r
}

func toPoint(p fyne.Position) geom.Point {
	return geom.Pt(float64(p.X), float64(p.Y))
}

// domButton maps a Fyne mouse button to DOM numbering.
func domButton(b desktop.MouseButton) int {
	switch {
	case b&desktop.MouseButtonPrimary != 0:
		return 0
	case b&desktop.MouseButtonTertiary != 0:
		return 1
	case b&desktop.MouseButtonSecondary != 0:
		return 2
	default:
		return 3
	}
}

func modifiers(m fyne.KeyModifier) dom.Modifiers {
	return dom.Modifiers{
		Ctrl:  m&fyne.KeyModifierControl != 0,
		Shift: m&fyne.KeyModifierShift != 0,
		Alt:   m&fyne.KeyModifierAlt != 0,
		Meta:  m&fyne.KeyModifierSuper != 0,
	}
}

// pointer dispatches a native pointer event at the capturing element, or
// the element under p.
func (s *Surface) pointer(typ string, id int, ptype string, button int, p geom.Point, mods dom.Modifiers) {
	ev := dom.NewPointerEvent(typ, id, ptype, p.X, p.Y)
	ev.Button = button
	ev.Modifiers = mods
	s.lastPos = p
	if button >= 0 && typ != dom.EventPointerUp {
		ev.Buttons = 1 << button
	}
	target := s.doc.PointerCaptureElement(id)
	if target == nil {
		target = s.doc.ElementFromPoint(p)
	}
	if target == nil {
		return
	}
	s.logger.Debug("ui: pointer", "type", typ, "id", id, "pos", p)
	target.DispatchEvent(ev)
	s.Refresh()
}

// MouseDown implements desktop.Mouseable.
func (s *Surface) MouseDown(e *desktop.MouseEvent) {
	s.requestFocus()
	if s.mouseButton >= 0 {
		return
	}
	s.mouseButton = domButton(e.Button)
	s.pointer(dom.EventPointerDown, MousePointerID, dom.PointerTypeMouse, s.mouseButton, toPoint(e.Position), modifiers(e.Modifier))
}

// MouseUp implements desktop.Mouseable.
func (s *Surface) MouseUp(e *desktop.MouseEvent) {
	s.release(toPoint(e.Position), modifiers(e.Modifier))
}

func (s *Surface) release(p geom.Point, mods dom.Modifiers) {
	if s.mouseButton < 0 {
		return
	}
	button := s.mouseButton
	s.mouseButton = -1
	s.pointer(dom.EventPointerUp, MousePointerID, dom.PointerTypeMouse, button, p, mods)
}

// MouseIn implements desktop.Hoverable.
func (s *Surface) MouseIn(e *desktop.MouseEvent) { s.MouseMoved(e) }

// MouseMoved implements desktop.Hoverable. Moves with a button held arrive
// through Dragged.
func (s *Surface) MouseMoved(e *desktop.MouseEvent) {
	if s.mouseButton >= 0 {
		return
	}
	s.pointer(dom.EventPointerMove, MousePointerID, dom.PointerTypeMouse, -1, toPoint(e.Position), modifiers(e.Modifier))
}

// MouseOut implements desktop.Hoverable.
func (s *Surface) MouseOut() {}

// Dragged implements fyne.Draggable.
func (s *Surface) Dragged(e *fyne.DragEvent) {
	if s.touching {
		s.pointer(dom.EventPointerMove, TouchPointerID, dom.PointerTypeTouch, -1, toPoint(e.Position), s.mods)
		return
	}
	s.pointer(dom.EventPointerMove, MousePointerID, dom.PointerTypeMouse, -1, toPoint(e.Position), s.mods)
}

// DragEnd implements fyne.Draggable. Fyne may deliver the matching MouseUp
// to another object, so the release is sent here when still pending.
func (s *Surface) DragEnd() {
	if !s.touching {
		s.release(s.lastPos, s.mods)
	}
}

// Scrolled implements fyne.Scrollable. Fyne reports upward scrolling as
// positive, the DOM as negative.
func (s *Surface) Scrolled(e *fyne.ScrollEvent) {
	p := toPoint(e.Position)
	ev := dom.NewWheelEvent(-float64(e.Scrolled.DX), -float64(e.Scrolled.DY), p.X, p.Y)
	ev.Modifiers = s.mods
	if target := s.doc.ElementFromPoint(p); target != nil {
		target.DispatchEvent(ev)
		s.Refresh()
	}
}

// TouchDown implements mobile.Touchable.
func (s *Surface) TouchDown(e *mobile.TouchEvent) {
	s.touching = true
	s.pointer(dom.EventPointerDown, TouchPointerID, dom.PointerTypeTouch, 0, toPoint(e.Position), dom.Modifiers{})
}

// TouchUp implements mobile.Touchable.
func (s *Surface) TouchUp(e *mobile.TouchEvent) {
	if !s.touching {
		return
	}
	s.touching = false
	s.pointer(dom.EventPointerUp, TouchPointerID, dom.PointerTypeTouch, 0, toPoint(e.Position), dom.Modifiers{})
}

// TouchCancel implements mobile.Touchable.
func (s *Surface) TouchCancel(e *mobile.TouchEvent) {
	if !s.touching {
		return
	}
	s.touching = false
	s.pointer(dom.EventPointerCancel, TouchPointerID, dom.PointerTypeTouch, 0, toPoint(e.Position), dom.Modifiers{})
}

func (s *Surface) requestFocus() {
	if s.focused {
		return
	}
	app := fyne.CurrentApp()
	if app == nil {
		return
	}
	if c := app.Driver().CanvasForObject(s); c != nil {
		c.Focus(s)
	}
}

// FocusGained implements fyne.Focusable.
func (s *Surface) FocusGained() { s.focused = true }

// FocusLost implements fyne.Focusable. Key releases that happen while
// unfocused never arrive, so held keys are dropped.
func (s *Surface) FocusLost() {
	s.focused = false
	s.mods = dom.Modifiers{}
	if s.mgr != nil {
		s.mgr.ReleaseKeys()
	}
}

// TypedRune implements fyne.Focusable.
func (s *Surface) TypedRune(rune) {}

// TypedKey implements fyne.Focusable.
func (s *Surface) TypedKey(*fyne.KeyEvent) {}

// KeyDown implements desktop.Keyable.
func (s *Surface) KeyDown(e *fyne.KeyEvent) { s.key(dom.EventKeyDown, e.Name) }

// KeyUp implements desktop.Keyable.
func (s *Surface) KeyUp(e *fyne.KeyEvent) { s.key(dom.EventKeyUp, e.Name) }

func (s *Surface) key(typ string, name fyne.KeyName) {
	key := domKey(name)
	trackModifier(&s.mods, name, typ == dom.EventKeyDown)
	ev := dom.NewKeyboardEvent(typ, key)
	ev.Code = string(name)
	ev.Modifiers = s.mods
	if target := s.doc.ActiveElement(); target != nil {
		target.DispatchEvent(ev)
		s.Refresh()
	}
}
