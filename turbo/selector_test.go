package turbo

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"slices"
	"strings"
	"testing"

	"github.com/chrisuehlinger/turbo/dom"
	"github.com/chrisuehlinger/turbo/event"
	"github.com/chrisuehlinger/turbo/geom"
	"github.com/chrisuehlinger/turbo/substrate"
)

func newManager(t *testing.T) (*dom.Document, *event.Manager) {
	t.Helper()
	doc := dom.NewHTMLDocument()
	quiet := slog.New(slog.NewTextHandler(io.Discard, nil))
	m := event.New(doc, event.WithScheduler(event.NewManualScheduler()), event.WithLogger(quiet))
	t.Cleanup(m.Destroy)
	return doc, m
}

func mustCreate(t *testing.T, doc *dom.Document, tag string, m *event.Manager) *Selector {
	t.Helper()
	s, err := Create(doc, tag, m)
	if err != nil {
		t.Fatalf("Create(%q) = %v", tag, err)
	}
	return s
}

func TestHierarchy(t *testing.T) {
	doc, m := newManager(t)
	body := WrapElement(doc.Body(), m)
	board := mustCreate(t, doc, "div", m).SetAttribute("id", "board")
	piece := mustCreate(t, doc, "span", m).AddClass("piece white")

	body.AddChild(board)
	board.AddChild(piece.Element(), "label")

	if got := board.Text(); got != "label" {
		t.Errorf("Text() = %q, want %q", got, "label")
	}
	if kids := board.Children(); len(kids) != 1 || kids[0].Node() != piece.Node() {
		t.Errorf("Children() = %v", kids)
	}
	if body.Find(".white").Node() != piece.Node() {
		t.Error("Find(.white) did not return the piece")
	}
	if n := len(body.FindAll("div, span")); n != 2 {
		t.Errorf("FindAll() returned %d nodes, want 2", n)
	}
	if piece.Parent().Node() != board.Node() {
		t.Error("Parent() is not the board")
	}
	if piece.Closest("#board").Node() != board.Node() {
		t.Error("Closest(#board) is not the board")
	}
	if body.Find(".missing").Valid() {
		t.Error("Find() of a missing selector returned a node")
	}

	head := mustCreate(t, doc, "b", m)
	board.AddChildBefore(head, piece)
	if board.Children()[0].Node() != head.Node() {
		t.Error("AddChildBefore() did not insert first")
	}
	board.RemoveChild(head)
	piece.Remove()
	if len(board.Children()) != 0 {
		t.Errorf("board still has %d children", len(board.Children()))
	}
}

func TestAddChildWithErrorRejectsCycles(t *testing.T) {
	doc, m := newManager(t)
	outer := mustCreate(t, doc, "div", m)
	inner := mustCreate(t, doc, "div", m)
	outer.AddChild(inner)
	if err := inner.AddChildWithError(outer); err == nil {
		t.Error("appending an ancestor succeeded")
	}
	if err := inner.AddChildWithError(42); err == nil {
		t.Error("appending an unsupported value succeeded")
	}
}

func TestChainMethodsLogFailures(t *testing.T) {
	var buf bytes.Buffer
	SetLogger(slog.New(slog.NewTextHandler(&buf, nil)))
	t.Cleanup(func() { SetLogger(nil) })

	doc, m := newManager(t)
	text := Wrap(doc.CreateTextNode("x"), m)
	got := text.AddClass("a").SetAttribute("b", "c")
	if got != text {
		t.Error("chain methods did not return the receiver")
	}
	out := buf.String()
	if !strings.Contains(out, "add class failed") || !strings.Contains(out, "set attribute failed") {
		t.Errorf("log = %q, want both failures", out)
	}
	if err := text.AddClassWithError("a"); err == nil {
		t.Error("AddClassWithError() on a text node returned nil")
	}
}

func TestClassesAttributesStyle(t *testing.T) {
	doc, m := newManager(t)
	s := mustCreate(t, doc, "div", m)

	s.AddClass("a", "b c").RemoveClass("b").ToggleClass("d")
	for name, want := range map[string]bool{"a": true, "b": false, "c": true, "d": true} {
		if s.HasClass(name) != want {
			t.Errorf("HasClass(%q) = %v, want %v", name, !want, want)
		}
	}
	if on, err := s.ToggleClassWithError("d", true); err != nil || !on {
		t.Errorf("ToggleClassWithError(d, true) = %v, %v", on, err)
	}
	if err := s.SetAttributeWithError("bad name", "x"); err == nil {
		t.Error("SetAttributeWithError() accepted an invalid name")
	}

	s.SetStyle("left", "10px").SetStyle("Top", "4px").SetStyle("left", "12px")
	if got := s.Attribute("style"); got != "left: 12px; top: 4px" {
		t.Errorf("style = %q", got)
	}
	if got := s.Style("top"); got != "4px" {
		t.Errorf("Style(top) = %q", got)
	}
	s.SetStyle("left", "").SetStyle("top", "")
	if s.Element().HasAttribute("style") {
		t.Errorf("style = %q, want it removed", s.Attribute("style"))
	}

	s.SetHTML("<i>hi</i>")
	if s.Find("i").Text() != "hi" {
		t.Errorf("SetHTML() produced %q", s.Text())
	}
}

func TestEventsThroughSelector(t *testing.T) {
	doc, m := newManager(t)
	piece := mustCreate(t, doc, "div", m)
	WrapElement(doc.Body(), m).AddChild(piece)

	var got []geom.Point
	id := piece.Bind(event.KindClick, func(ev *event.Event, _ *dom.Node) event.Result {
		got = append(got, ev.Position)
		return event.NotHandled
	})
	piece.Dispatch(event.KindClick, geom.Pt(3, 4), nil)
	if !piece.Off(event.KindClick, id) {
		t.Error("Off() did not find the listener")
	}
	piece.Dispatch(event.KindClick, geom.Pt(5, 6), nil)
	if !slices.Equal(got, []geom.Point{geom.Pt(3, 4)}) {
		t.Errorf("positions = %v, want one event at (3,4)", got)
	}
}

func TestToolsThroughSelector(t *testing.T) {
	doc, m := newManager(t)
	body := WrapElement(doc.Body(), m)
	button := mustCreate(t, doc, "button", m)
	piece := mustCreate(t, doc, "div", m)
	body.AddChild(button, piece)

	var ran []*dom.Node
	button.AddTool("pen", "p").
		AddToolBehavior("pen", event.KindClick, func(_ *event.Event, target *dom.Node, _ event.BehaviorContext) event.Result {
			ran = append(ran, target)
			return event.NotHandled
		})
	var activated []event.ClickMode
	button.OnToolActivate(func(a event.ToolActivation) { activated = append(activated, a.Mode) })

	m.SetTool("pen", event.ClickLeft)
	if !button.ToolSelected(event.ClickLeft) {
		t.Error("tool instance not selected")
	}
	if !slices.Equal(activated, []event.ClickMode{event.ClickLeft}) {
		t.Errorf("activations = %v", activated)
	}
	if !slices.Equal(button.Tools(), []string{"pen"}) {
		t.Errorf("Tools() = %v", button.Tools())
	}

	piece.Dispatch(event.KindClick, geom.Point{}, nil)
	if !slices.Contains(ran, piece.Node()) {
		t.Error("behavior did not run on the piece")
	}

	ran = nil
	piece.IgnoreTool("pen", true)
	piece.Dispatch(event.KindClick, geom.Point{}, nil)
	if slices.Contains(ran, piece.Node()) {
		t.Error("behavior ran on a node ignoring the tool")
	}

	button.RemoveTool("pen")
	if len(button.Tools()) != 0 {
		t.Errorf("Tools() after RemoveTool = %v", button.Tools())
	}
}

func TestSelectorWithoutManagerPanics(t *testing.T) {
	event.SetDefault(nil)
	doc := dom.NewHTMLDocument()
	s := WrapElement(doc.Body(), nil)
	defer func() {
		p := recover()
		msg, _ := p.(string)
		if !strings.Contains(msg, "no event manager") {
			t.Errorf("recover() = %v, want a missing manager panic", p)
		}
	}()
	s.On(event.KindClick, func(*event.Event, *dom.Node) event.Result { return event.NotHandled })
}

func TestSelectorFallsBackToDefaultManager(t *testing.T) {
	_, m := newManager(t)
	event.SetDefault(m)
	t.Cleanup(func() { event.SetDefault(nil) })
	if got := Wrap(m.Document().AsNode(), nil).Manager(); got != m {
		t.Errorf("Manager() = %p, want the default %p", got, m)
	}
}

func TestSubstrates(t *testing.T) {
	doc, m := newManager(t)
	board := mustCreate(t, doc, "div", m)
	a := mustCreate(t, doc, "div", m)
	b := mustCreate(t, doc, "div", m)
	board.AddChild(a, b)

	group := board.MakeSubstrate("pieces")
	if board.Substrate() != group {
		t.Fatal("first substrate is not current")
	}
	group.Add(a.Node(), b.Node())
	var seen []*dom.Node
	group.AddSolver(func(c *substrate.Context[*dom.Node]) error {
		seen = append(seen, c.Target)
		return nil
	})
	err := board.ResolveSubstrate(context.Background(), "", substrate.WithEventTarget(b.Node()))
	if err != nil {
		t.Fatalf("ResolveSubstrate() = %v", err)
	}
	if !slices.Equal(seen, []*dom.Node{b.Node(), a.Node()}) {
		t.Errorf("visit order wrong: %v", seen)
	}
	if err := board.SetCurrentSubstrate("other"); err == nil {
		t.Error("SetCurrentSubstrate(unknown) succeeded")
	}
	if board.Substrates() != board.Substrates() {
		t.Error("host is not stored on the node")
	}
}
