package event

import (
	"slices"
	"testing"
	"time"

	"github.com/chrisuehlinger/turbo/dom"
	"github.com/chrisuehlinger/turbo/geom"
)

func TestClickSequence(t *testing.T) {
	f := newFixture(t)
	f.record()

	f.down(1, 20, 20)
	if got := f.m.CurrentAction(); got != ActionClick {
		t.Errorf("after down CurrentAction() = %v, want click", got)
	}
	if got := f.doc.PointerCaptureElement(1); got != f.piece {
		t.Errorf("pointer capture = %v, want piece", got)
	}
	f.up(1, 20, 20)

	want := []Kind{KindClickStart, KindClick, KindClickEnd}
	if got := f.kinds(); !slices.Equal(got, want) {
		t.Fatalf("events = %v, want %v", got, want)
	}
	for _, r := range f.events {
		if r.target != f.piece.AsNode() {
			t.Errorf("%v target = %v, want piece", r.kind, r.target.NodeName())
		}
	}
	if f.m.CurrentAction() != ActionNone || f.m.CurrentClick() != ClickNone {
		t.Errorf("after up action=%v click=%v, want none/none", f.m.CurrentAction(), f.m.CurrentClick())
	}
	if len(f.m.ActivePointers()) != 0 {
		t.Errorf("ActivePointers() = %v, want empty", f.m.ActivePointers())
	}
	if f.doc.PointerCaptureElement(1) != nil {
		t.Error("pointer capture not released on up")
	}
}

func TestDragSequence(t *testing.T) {
	f := newFixture(t)
	f.record()

	f.down(1, 20, 20)
	f.move(1, 25, 20)
	f.move(1, 200, 20)
	f.up(1, 200, 20)

	want := []Kind{KindClickStart, KindMove, KindDragStart, KindMove, KindDrag, KindDragEnd, KindClickEnd}
	if got := f.kinds(); !slices.Equal(got, want) {
		t.Fatalf("events = %v, want %v", got, want)
	}

	drag := f.last(KindDrag)
	if drag.target != f.piece.AsNode() {
		t.Errorf("drag target = %s, want the element under the origin", drag.target.NodeName())
	}
	if mv := f.last(KindMove); mv.target != f.board.AsNode() {
		t.Errorf("move target = %s, want the element under the pointer", mv.target.NodeName())
	}
	if got := drag.ev.DeltaPosition(); got != geom.Pt(175, 0) {
		t.Errorf("DeltaPosition() = %v, want (175,0)", got)
	}
	if got := drag.ev.OriginPosition(); got != geom.Pt(20, 20) {
		t.Errorf("OriginPosition() = %v, want (20,20)", got)
	}
	if got := drag.ev.TotalDelta(); got != geom.Pt(180, 0) {
		t.Errorf("TotalDelta() = %v, want (180,0)", got)
	}
	if f.last(KindClick) != nil {
		t.Error("a drag must not also fire click")
	}
}

func TestMoveThresholdBoundary(t *testing.T) {
	f := newFixture(t)
	f.record()

	f.down(1, 20, 20)
	f.move(1, 30, 20)
	if f.last(KindDragStart) != nil || f.m.CurrentAction() != ActionClick {
		t.Fatalf("moving exactly the threshold started a drag")
	}
	f.move(1, 31, 20)
	if f.last(KindDragStart) == nil || f.m.CurrentAction() != ActionDrag {
		t.Fatalf("moving one past the threshold did not start a drag")
	}
}

func TestMoveThresholdOption(t *testing.T) {
	f := newFixture(t, WithMoveThreshold(50))
	f.record()

	f.down(1, 20, 20)
	f.move(1, 60, 20)
	if f.m.CurrentAction() != ActionClick {
		t.Errorf("CurrentAction() = %v, want click under a 50px threshold", f.m.CurrentAction())
	}
}

func TestLongPress(t *testing.T) {
	f := newFixture(t)
	f.record()

	f.down(1, 20, 20)
	f.sched.Advance(DefaultLongPressDuration - time.Millisecond)
	if f.last(KindLongPress) != nil {
		t.Fatal("long press fired early")
	}
	f.sched.Advance(time.Millisecond)
	lp := f.last(KindLongPress)
	if lp == nil {
		t.Fatal("long press did not fire")
	}
	if lp.target != f.piece.AsNode() {
		t.Errorf("long press target = %s, want piece", lp.target.NodeName())
	}
	if f.m.CurrentAction() != ActionLongPress {
		t.Errorf("CurrentAction() = %v, want longPress", f.m.CurrentAction())
	}

	f.up(1, 20, 20)
	want := []Kind{KindClickStart, KindLongPress, KindClickEnd}
	if got := f.kinds(); !slices.Equal(got, want) {
		t.Errorf("events = %v, want %v", got, want)
	}
}

func TestLongPressDoesNotBecomeDrag(t *testing.T) {
	f := newFixture(t)
	f.record()

	f.down(1, 20, 20)
	f.sched.Advance(time.Second)
	f.move(1, 100, 20)
	if f.m.CurrentAction() != ActionLongPress {
		t.Errorf("CurrentAction() = %v, want longPress to persist", f.m.CurrentAction())
	}
	if f.last(KindDragStart) != nil {
		t.Error("long press turned into a drag")
	}
}

func TestDragCancelsLongPress(t *testing.T) {
	f := newFixture(t)
	f.record()

	f.down(1, 20, 20)
	f.move(1, 100, 20)
	if f.sched.Pending() != 0 {
		t.Errorf("Pending() = %d, want the long press timer cancelled", f.sched.Pending())
	}
	f.sched.Advance(time.Second)
	if f.last(KindLongPress) != nil {
		t.Error("long press fired during a drag")
	}
}

func TestUpCancelsLongPress(t *testing.T) {
	f := newFixture(t)
	f.record()

	f.down(1, 20, 20)
	f.up(1, 20, 20)
	f.sched.Advance(time.Second)
	if f.last(KindLongPress) != nil {
		t.Error("long press fired after release")
	}
}

func TestMouseButtonClickModes(t *testing.T) {
	tests := []struct {
		button int
		want   ClickMode
	}{
		{0, ClickLeft},
		{1, ClickMiddle},
		{2, ClickRight},
		{3, ClickOther},
		{4, ClickOther},
	}
	for _, tt := range tests {
		f := newFixture(t)
		f.pointer(dom.EventPointerDown, 1, dom.PointerTypeMouse, tt.button, 20, 20)
		if got := f.m.CurrentClick(); got != tt.want {
			t.Errorf("button %d: CurrentClick() = %v, want %v", tt.button, got, tt.want)
		}
		if f.m.InputDevice() != DeviceMouse {
			t.Errorf("button %d: InputDevice() = %v, want mouse", tt.button, f.m.InputDevice())
		}
	}
}

func TestTouchCountClickModes(t *testing.T) {
	f := newFixture(t)
	want := []ClickMode{ClickLeft, ClickMiddle, ClickRight, ClickOther}
	for i, mode := range want {
		f.touch(dom.EventPointerDown, i+1, 20+float64(i), 20)
		if got := f.m.CurrentClick(); got != mode {
			t.Errorf("%d touches: CurrentClick() = %v, want %v", i+1, got, mode)
		}
	}
	if f.m.InputDevice() != DeviceTouch {
		t.Errorf("InputDevice() = %v, want touch", f.m.InputDevice())
	}
}

func TestReleasingOnePointerKeepsGesture(t *testing.T) {
	f := newFixture(t)
	f.touch(dom.EventPointerDown, 1, 20, 20)
	f.touch(dom.EventPointerDown, 2, 30, 30)

	f.touch(dom.EventPointerUp, 2, 30, 30)
	if f.m.CurrentAction() == ActionNone {
		t.Fatal("releasing one of two pointers reset the gesture")
	}
	if got := f.m.ActivePointers(); len(got) != 1 || got[0] != 1 {
		t.Errorf("ActivePointers() = %v, want [1]", got)
	}
	if _, ok := f.m.Origin(2); ok {
		t.Error("origin of the released pointer was kept")
	}

	f.touch(dom.EventPointerUp, 1, 20, 20)
	if f.m.CurrentAction() != ActionNone {
		t.Errorf("CurrentAction() = %v, want none after the last release", f.m.CurrentAction())
	}
}

func TestMultiPointerDragEndsOnce(t *testing.T) {
	f := newFixture(t)
	f.record()

	f.touch(dom.EventPointerDown, 1, 20, 20)
	f.touch(dom.EventPointerDown, 2, 30, 20)
	f.touch(dom.EventPointerMove, 1, 100, 20)
	drag := f.last(KindDrag)
	if drag == nil {
		t.Fatal("no drag event")
	}
	if drag.ev.PointerCount() != 2 {
		t.Errorf("PointerCount() = %d, want 2", drag.ev.PointerCount())
	}
	if got := drag.ev.Centroid(); got != geom.Pt(65, 20) {
		t.Errorf("Centroid() = %v, want (65,20)", got)
	}
	if got := drag.ev.DeltaPositions().Value(2); got != (geom.Point{}) {
		t.Errorf("delta of the resting pointer = %v, want zero", got)
	}

	f.touch(dom.EventPointerUp, 2, 30, 20)
	f.touch(dom.EventPointerUp, 1, 100, 20)
	n := 0
	for _, k := range f.kinds() {
		if k == KindDragEnd {
			n++
		}
	}
	if n != 1 {
		t.Errorf("dragEnd fired %d times, want 1", n)
	}
}

func TestPointerCancel(t *testing.T) {
	f := newFixture(t)
	f.record()

	f.down(1, 20, 20)
	f.pointer(dom.EventPointerCancel, 1, dom.PointerTypeMouse, 0, 20, 20)
	want := []Kind{KindClickStart}
	if got := f.kinds(); !slices.Equal(got, want) {
		t.Errorf("events = %v, want %v", got, want)
	}
	if f.m.CurrentAction() != ActionNone || len(f.m.ActivePointers()) != 0 {
		t.Error("cancel did not clean up the pointer")
	}
}

func TestHoverMove(t *testing.T) {
	f := newFixture(t)
	f.record()

	f.move(1, 200, 20)
	mv := f.last(KindMove)
	if mv == nil {
		t.Fatal("hover move did not fire")
	}
	if mv.target != f.board.AsNode() {
		t.Errorf("move target = %s, want board", mv.target.NodeName())
	}
	if mv.ev.Position != geom.Pt(200, 20) {
		t.Errorf("Position = %v", mv.ev.Position)
	}
	if len(f.m.ActivePointers()) != 0 {
		t.Error("hover created an active pointer")
	}
}

func TestStrayUpIgnored(t *testing.T) {
	f := newFixture(t)
	f.record()
	f.up(7, 20, 20)
	if len(f.events) != 0 {
		t.Errorf("events = %v, want none for an unknown pointer", f.kinds())
	}
}

func TestPreventDefaultByDevice(t *testing.T) {
	f := newFixture(t, WithPreventDefault(false, true, true))
	if ev := f.down(1, 20, 20); ev.DefaultPrevented() {
		t.Error("mouse down prevented with PreventDefaultMouse off")
	}
	f.up(1, 20, 20)
	if ev := f.touch(dom.EventPointerDown, 2, 20, 20); !ev.DefaultPrevented() {
		t.Error("touch down not prevented with PreventDefaultTouch on")
	}
}

func TestDisabledManagerIgnoresPointers(t *testing.T) {
	f := newFixture(t)
	f.record()
	f.m.SetEnabled(false)

	ev := f.down(1, 20, 20)
	f.up(1, 20, 20)
	if len(f.events) != 0 {
		t.Errorf("events = %v, want none while disabled", f.kinds())
	}
	if ev.DefaultPrevented() {
		t.Error("disabled manager prevented default")
	}
	if len(f.m.ActivePointers()) != 0 {
		t.Error("disabled manager tracked a pointer")
	}
}

func TestDefaultSchedulerRunsTimersOnHostLoop(t *testing.T) {
	doc := dom.NewHTMLDocument()
	doc.Body().SetBoundingRect(geom.RectXYWH(0, 0, 100, 100))
	m := New(doc, WithLongPressDuration(time.Millisecond), WithLogger(quietLogger()))
	t.Cleanup(m.Destroy)
	sched, ok := m.Scheduler().(*LoopScheduler)
	if !ok {
		t.Fatalf("default scheduler is %T, want *LoopScheduler", m.Scheduler())
	}
	longPresses := 0
	m.OnKind(doc.AsNode(), KindLongPress, func(*Event, *dom.Node) Result {
		longPresses++
		return NotHandled
	})

	send := func(typ string, x float64) {
		ev := dom.NewPointerEvent(typ, 1, dom.PointerTypeMouse, x, 20)
		doc.Body().DispatchEvent(ev)
	}
	for range 20 {
		send(dom.EventPointerDown, 20)
		for range 50 {
			send(dom.EventPointerMove, 20)
		}
		time.Sleep(2 * time.Millisecond)
		send(dom.EventPointerUp, 20)
	}
	if longPresses != 0 {
		t.Fatalf("long press fired %d times without the host draining timers", longPresses)
	}

	send(dom.EventPointerDown, 20)
	time.Sleep(2 * time.Millisecond)
	if n := sched.Process(); n != 1 {
		t.Errorf("Process() ran %d timers, want 1", n)
	}
	if longPresses != 1 {
		t.Errorf("long press fired %d times after Process, want 1", longPresses)
	}
	send(dom.EventPointerUp, 20)
}

func TestAsyncSchedulerRequiresPost(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("AfterFunc without Post did not panic")
		}
	}()
	AsyncScheduler{}.AfterFunc(time.Hour, func() {})
}
