package event

import (
	"slices"
	"testing"

	"github.com/chrisuehlinger/turbo/dom"
)

func TestKeyPressRelease(t *testing.T) {
	f := newFixture(t)
	f.record()

	f.key(dom.EventKeyDown, "a")
	f.key(dom.EventKeyDown, "a")
	f.key(dom.EventKeyDown, "Shift")
	if got := f.m.Keys(); !slices.Equal(got, []string{"a", "Shift"}) {
		t.Errorf("Keys() = %v, want [a Shift]", got)
	}
	f.key(dom.EventKeyUp, "a")
	f.key(dom.EventKeyUp, "a")

	want := []Kind{KindKeyPressed, KindKeyPressed, KindKeyReleased}
	if got := f.kinds(); !slices.Equal(got, want) {
		t.Fatalf("events = %v, want %v", got, want)
	}
	if f.events[0].ev.Key != "a" || f.events[1].ev.Key != "Shift" {
		t.Errorf("keys = %q, %q", f.events[0].ev.Key, f.events[1].ev.Key)
	}
	if !f.events[1].ev.HasKey("a") {
		t.Error("second key event does not list the held key")
	}
	if got := f.m.Keys(); !slices.Equal(got, []string{"Shift"}) {
		t.Errorf("Keys() = %v, want [Shift]", got)
	}
}

func TestKeyEventsTargetFocus(t *testing.T) {
	f := newFixture(t)
	f.record()

	f.key(dom.EventKeyDown, "x")
	if f.events[0].target != f.body.AsNode() {
		t.Errorf("unfocused key target = %s, want body", f.events[0].target.NodeName())
	}
	f.input.Focus()
	f.key(dom.EventKeyDown, "y")
	if f.events[1].target != f.input.AsNode() {
		t.Errorf("focused key target = %s, want input", f.events[1].target.NodeName())
	}
}

func TestKeyActivatesMappedTool(t *testing.T) {
	f := newFixture(t)
	f.record()
	f.m.AddTool("hand", f.handle, "h")

	f.key(dom.EventKeyDown, "h")
	if got := f.m.CurrentTool(ClickKey); got != "hand" {
		t.Errorf("CurrentTool(key) = %q, want hand", got)
	}
	if f.m.CurrentClick() != ClickKey {
		t.Errorf("CurrentClick() = %v, want key", f.m.CurrentClick())
	}
	if got := f.events[0].ev.ToolName; got != "hand" {
		t.Errorf("keyPressed ToolName = %q, want hand", got)
	}
	if !f.m.IsToolSelected(f.handle, ClickKey) {
		t.Error("tool instance not selected while its key is held")
	}

	f.key(dom.EventKeyUp, "h")
	if got := f.m.CurrentTool(ClickKey); got != "" {
		t.Errorf("CurrentTool(key) = %q after release, want none", got)
	}
	if f.m.CurrentClick() != ClickNone {
		t.Errorf("CurrentClick() = %v after release, want none", f.m.CurrentClick())
	}
	if f.m.IsToolSelected(f.handle, ClickKey) {
		t.Error("tool instance still selected after its key was released")
	}
}

func TestReleaseKeys(t *testing.T) {
	f := newFixture(t)
	f.record()
	f.key(dom.EventKeyDown, "a")
	f.key(dom.EventKeyDown, "b")
	f.m.ReleaseKeys()
	if len(f.m.Keys()) != 0 {
		t.Errorf("Keys() = %v, want empty", f.m.Keys())
	}
	if n := len(f.events); n != 4 {
		t.Errorf("got %d events, want 2 presses and 2 releases", n)
	}
}

func TestDisabledKeyEvents(t *testing.T) {
	f := newFixture(t, WithoutEvents(KeyEvents))
	f.record()
	f.key(dom.EventKeyDown, "a")
	if len(f.events) != 0 || len(f.m.Keys()) != 0 {
		t.Error("key events processed with the key category disabled")
	}
	if f.doc.AsNode().HasEventListeners(dom.EventKeyDown) {
		t.Error("native keydown listener installed with the key category disabled")
	}
}
