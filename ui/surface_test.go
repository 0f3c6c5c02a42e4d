package ui

import (
	"io"
	"log/slog"
	"slices"
	"testing"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/driver/mobile"
	"fyne.io/fyne/v2/test"

	"github.com/chrisuehlinger/turbo/dom"
	"github.com/chrisuehlinger/turbo/event"
	"github.com/chrisuehlinger/turbo/geom"
)

type fixture struct {
	s      *Surface
	m      *event.Manager
	doc    *dom.Document
	piece  *dom.Element
	events []event.Kind
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	test.NewTempApp(t)

	doc := dom.NewHTMLDocument()
	doc.Body().SetBoundingRect(geom.RectXYWH(0, 0, 300, 200))
	piece := doc.CreateElement("div")
	piece.SetBoundingRect(geom.RectXYWH(10, 10, 50, 50))
	piece.Append("knight")
	doc.Body().Append(piece)

	quiet := slog.New(slog.NewTextHandler(io.Discard, nil))
	m := event.New(doc, event.WithScheduler(event.NewManualScheduler()), event.WithLogger(quiet))
	t.Cleanup(m.Destroy)

	f := &fixture{s: NewSurface(doc, m), m: m, doc: doc, piece: piece}
	for _, k := range []event.Kind{event.KindClickStart, event.KindClick, event.KindClickEnd, event.KindDragStart, event.KindDrag, event.KindDragEnd, event.KindMove, event.KindMouseWheel, event.KindTrackpadPinch, event.KindKeyPressed, event.KindKeyReleased} {
		kind := k
		m.OnKind(doc.AsNode(), kind, func(*event.Event, *dom.Node) event.Result {
			f.events = append(f.events, kind)
			return event.NotHandled
		})
	}
	return f
}

func mouse(x, y float32, b desktop.MouseButton) *desktop.MouseEvent {
	return &desktop.MouseEvent{
		PointEvent: fyne.PointEvent{Position: fyne.NewPos(x, y)},
		Button:     b,
	}
}

func TestMouseClick(t *testing.T) {
	f := newFixture(t)
	f.s.MouseDown(mouse(20, 20, desktop.MouseButtonPrimary))
	f.s.MouseUp(mouse(20, 20, desktop.MouseButtonPrimary))

	want := []event.Kind{event.KindClickStart, event.KindClick, event.KindClickEnd}
	if !slices.Equal(f.events, want) {
		t.Errorf("events = %v, want %v", f.events, want)
	}
	if f.m.InputDevice() != event.DeviceMouse {
		t.Errorf("InputDevice() = %v, want mouse", f.m.InputDevice())
	}
}

func TestRightButtonSetsClickMode(t *testing.T) {
	f := newFixture(t)
	var mode event.ClickMode
	f.m.OnKind(f.piece.AsNode(), event.KindClickStart, func(ev *event.Event, _ *dom.Node) event.Result {
		mode = ev.ClickMode
		return event.NotHandled
	})
	f.s.MouseDown(mouse(20, 20, desktop.MouseButtonSecondary))
	if mode != event.ClickRight {
		t.Errorf("ClickMode = %v, want right", mode)
	}
	f.s.MouseUp(mouse(20, 20, desktop.MouseButtonSecondary))
}

func TestDragThroughDragEnd(t *testing.T) {
	f := newFixture(t)
	f.s.MouseDown(mouse(20, 20, desktop.MouseButtonPrimary))
	f.s.Dragged(&fyne.DragEvent{PointEvent: fyne.PointEvent{Position: fyne.NewPos(60, 20)}})
	f.s.DragEnd()
	// a MouseUp after DragEnd is a stray release
	f.s.MouseUp(mouse(60, 20, desktop.MouseButtonPrimary))

	want := []event.Kind{event.KindClickStart, event.KindDragStart, event.KindMove, event.KindDrag, event.KindDragEnd, event.KindClickEnd}
	if !slices.Equal(f.events, want) {
		t.Errorf("events = %v, want %v", f.events, want)
	}
}

func TestHoverIgnoredWhilePressed(t *testing.T) {
	f := newFixture(t)
	f.s.MouseMoved(mouse(5, 5, 0))
	f.s.MouseDown(mouse(20, 20, desktop.MouseButtonPrimary))
	f.s.MouseMoved(mouse(80, 80, 0))
	f.s.MouseUp(mouse(20, 20, desktop.MouseButtonPrimary))

	want := []event.Kind{event.KindMove, event.KindClickStart, event.KindClick, event.KindClickEnd}
	if !slices.Equal(f.events, want) {
		t.Errorf("events = %v, want %v", f.events, want)
	}
}

func TestScrollDirectionAndPinch(t *testing.T) {
	f := newFixture(t)
	var delta geom.Point
	f.m.OnKind(f.doc.AsNode(), event.KindMouseWheel, func(ev *event.Event, _ *dom.Node) event.Result {
		delta = ev.Wheel.Delta
		return event.NotHandled
	})
	f.s.Scrolled(&fyne.ScrollEvent{
		PointEvent: fyne.PointEvent{Position: fyne.NewPos(20, 20)},
		Scrolled:   fyne.Delta{DY: 120},
	})
	if delta != geom.Pt(0, -120) {
		t.Errorf("wheel delta = %v, want (0,-120)", delta)
	}

	f.events = nil
	f.s.KeyDown(&fyne.KeyEvent{Name: desktop.KeyControlLeft})
	f.s.Scrolled(&fyne.ScrollEvent{
		PointEvent: fyne.PointEvent{Position: fyne.NewPos(20, 20)},
		Scrolled:   fyne.Delta{DY: 3},
	})
	if !slices.Contains(f.events, event.KindTrackpadPinch) {
		t.Errorf("events = %v, want a pinch with control held", f.events)
	}
}

func TestKeysAndFocusLoss(t *testing.T) {
	f := newFixture(t)
	f.s.FocusGained()
	f.s.KeyDown(&fyne.KeyEvent{Name: fyne.KeyA})
	if got := f.m.Keys(); !slices.Equal(got, []string{"a"}) {
		t.Errorf("Keys() = %v, want [a]", got)
	}
	f.s.FocusLost()
	if len(f.m.Keys()) != 0 {
		t.Errorf("Keys() after focus loss = %v", f.m.Keys())
	}
	want := []event.Kind{event.KindKeyPressed, event.KindKeyReleased}
	if !slices.Equal(f.events, want) {
		t.Errorf("events = %v, want %v", f.events, want)
	}
}

func TestTouch(t *testing.T) {
	f := newFixture(t)
	at := func(x, y float32) *mobile.TouchEvent {
		return &mobile.TouchEvent{PointEvent: fyne.PointEvent{Position: fyne.NewPos(x, y)}}
	}
	f.s.TouchDown(at(20, 20))
	if f.m.InputDevice() != event.DeviceTouch {
		t.Errorf("InputDevice() = %v, want touch", f.m.InputDevice())
	}
	f.s.TouchUp(at(20, 20))
	f.s.TouchUp(at(20, 20))

	want := []event.Kind{event.KindClickStart, event.KindClick, event.KindClickEnd}
	if !slices.Equal(f.events, want) {
		t.Errorf("events = %v, want %v", f.events, want)
	}
}

func TestDomKey(t *testing.T) {
	tests := []struct {
		in   fyne.KeyName
		want string
	}{
		{fyne.KeyA, "a"},
		{fyne.Key1, "1"},
		{fyne.KeySpace, " "},
		{fyne.KeyUp, "ArrowUp"},
		{desktop.KeyShiftRight, "Shift"},
		{fyne.KeyF5, "F5"},
	}
	for _, tt := range tests {
		if got := domKey(tt.in); got != tt.want {
			t.Errorf("domKey(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestRendererDrawsElements(t *testing.T) {
	f := newFixture(t)
	r := test.WidgetRenderer(f.s)
	// background, piece box and its label
	if n := len(r.Objects()); n != 3 {
		t.Errorf("Objects() has %d entries, want 3", n)
	}
	if got := r.MinSize(); got != fyne.NewSize(300, 200) {
		t.Errorf("MinSize() = %v, want 300x200", got)
	}

	f.piece.SetBoundingRect(geom.Rect{})
	f.s.Refresh()
	if n := len(r.Objects()); n != 1 {
		t.Errorf("Objects() after clearing bounds has %d entries, want 1", n)
	}
}
