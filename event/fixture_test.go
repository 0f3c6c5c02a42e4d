package event

import (
	"io"
	"log/slog"
	"testing"

	"github.com/chrisuehlinger/turbo/dom"
	"github.com/chrisuehlinger/turbo/geom"
)

// fixture is a small laid-out document:
//
//	body   0,0 800x600
//	  board  0,0 400x400
//	    piece  10,10 50x50
//	    handle 100,100 20x20
//	  input  500,10 50x20
type fixture struct {
	t      *testing.T
	doc    *dom.Document
	m      *Manager
	sched  *LoopScheduler
	body   *dom.Element
	board  *dom.Element
	piece  *dom.Element
	handle *dom.Element
	input  *dom.Element

	events []recorded
}

type recorded struct {
	kind   Kind
	target *dom.Node
	ev     *Event
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newFixture(t *testing.T, opts ...Option) *fixture {
	t.Helper()
	doc := dom.NewHTMLDocument()
	f := &fixture{t: t, doc: doc, body: doc.Body()}
	f.body.SetBoundingRect(geom.RectXYWH(0, 0, 800, 600))

	mk := func(parent *dom.Element, tag, id string, r geom.Rect) *dom.Element {
		el := doc.CreateElement(tag)
		el.SetId(id)
		el.SetBoundingRect(r)
		parent.Append(el)
		return el
	}
	f.board = mk(f.body, "div", "board", geom.RectXYWH(0, 0, 400, 400))
	f.piece = mk(f.board, "div", "piece", geom.RectXYWH(10, 10, 50, 50))
	f.handle = mk(f.board, "div", "handle", geom.RectXYWH(100, 100, 20, 20))
	f.input = mk(f.body, "input", "input", geom.RectXYWH(500, 10, 50, 20))

	f.sched = NewManualScheduler()
	opts = append([]Option{WithScheduler(f.sched), WithLogger(quietLogger())}, opts...)
	f.m = New(doc, opts...)
	t.Cleanup(f.m.Destroy)
	return f
}

// record binds a listener for every kind on the document node.
func (f *fixture) record() {
	for k := Kind(0); k < numKinds; k++ {
		kind := k
		f.m.OnKind(f.doc.AsNode(), kind, func(ev *Event, _ *dom.Node) Result {
			f.events = append(f.events, recorded{kind: kind, target: ev.Target(), ev: ev})
			return NotHandled
		})
	}
}

func (f *fixture) kinds() []Kind {
	out := make([]Kind, len(f.events))
	for i, r := range f.events {
		out[i] = r.kind
	}
	return out
}

func (f *fixture) last(k Kind) *recorded {
	for i := len(f.events) - 1; i >= 0; i-- {
		if f.events[i].kind == k {
			return &f.events[i]
		}
	}
	return nil
}

func (f *fixture) reset() { f.events = nil }

func (f *fixture) pointer(typ string, id int, ptype string, button int, x, y float64) *dom.PointerEvent {
	ev := dom.NewPointerEvent(typ, id, ptype, x, y)
	ev.Button = button
	target := f.doc.PointerCaptureElement(id)
	if target == nil {
		target = f.doc.ElementFromPoint(geom.Pt(x, y))
	}
	target.DispatchEvent(ev)
	return ev
}

func (f *fixture) down(id int, x, y float64) *dom.PointerEvent {
	return f.pointer(dom.EventPointerDown, id, dom.PointerTypeMouse, 0, x, y)
}

func (f *fixture) move(id int, x, y float64) *dom.PointerEvent {
	return f.pointer(dom.EventPointerMove, id, dom.PointerTypeMouse, -1, x, y)
}

func (f *fixture) up(id int, x, y float64) *dom.PointerEvent {
	return f.pointer(dom.EventPointerUp, id, dom.PointerTypeMouse, 0, x, y)
}

func (f *fixture) touch(typ string, id int, x, y float64) *dom.PointerEvent {
	return f.pointer(typ, id, dom.PointerTypeTouch, 0, x, y)
}

func (f *fixture) wheel(dx, dy float64, ctrl bool) *dom.WheelEvent {
	ev := dom.NewWheelEvent(dx, dy, 20, 20)
	ev.Ctrl = ctrl
	f.doc.ElementFromPoint(geom.Pt(20, 20)).DispatchEvent(ev)
	return ev
}

func (f *fixture) key(typ, key string) *dom.KeyboardEvent {
	ev := dom.NewKeyboardEvent(typ, key)
	f.doc.ActiveElement().DispatchEvent(ev)
	return ev
}
