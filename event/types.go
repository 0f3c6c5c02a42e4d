package event

import "fmt"

// ClickMode identifies which physical input is considered active for tool
// binding purposes.
type ClickMode uint8

const (
	ClickNone ClickMode = iota
	ClickLeft
	ClickRight
	ClickMiddle
	ClickOther
	ClickKey
)

// clickModes lists every mode, for iteration.
var clickModes = []ClickMode{ClickNone, ClickLeft, ClickRight, ClickMiddle, ClickOther, ClickKey}

func (c ClickMode) String() string {
	switch c {
	case ClickNone:
		return "none"
	case ClickLeft:
		return "left"
	case ClickRight:
		return "right"
	case ClickMiddle:
		return "middle"
	case ClickOther:
		return "other"
	case ClickKey:
		return "key"
	default:
		panic("invalid ClickMode")
	}
}

// ParseClickMode converts the String form back to a ClickMode.
func ParseClickMode(s string) (ClickMode, error) {
	for _, c := range clickModes {
		if c.String() == s {
			return c, nil
		}
	}
	return ClickNone, fmt.Errorf("event: unknown click mode %q", s)
}

// clickModeFromIndex maps a mouse button id, or a touch count minus one, to
// a click mode: 0 left, 1 middle, 2 right, anything else other.
func clickModeFromIndex(i int) ClickMode {
	switch i {
	case 0:
		return ClickLeft
	case 1:
		return ClickMiddle
	case 2:
		return ClickRight
	default:
		return ClickOther
	}
}

// ActionMode is the interpretation of the in-progress primary gesture.
type ActionMode uint8

const (
	ActionNone ActionMode = iota
	ActionClick
	ActionLongPress
	ActionDrag
)

func (a ActionMode) String() string {
	switch a {
	case ActionNone:
		return "none"
	case ActionClick:
		return "click"
	case ActionLongPress:
		return "longPress"
	case ActionDrag:
		return "drag"
	default:
		panic("invalid ActionMode")
	}
}

// InputDevice is the heuristically inferred input device.
type InputDevice uint8

const (
	DeviceUnknown InputDevice = iota
	DeviceMouse
	DeviceTrackpad
	DeviceTouch
)

func (d InputDevice) String() string {
	switch d {
	case DeviceUnknown:
		return "unknown"
	case DeviceMouse:
		return "mouse"
	case DeviceTrackpad:
		return "trackpad"
	case DeviceTouch:
		return "touch"
	default:
		panic("invalid InputDevice")
	}
}

// Result is returned by listeners and tool behaviors.
type Result uint8

const (
	// NotHandled lets the walk continue.
	NotHandled Result = iota
	// Handled stops the walk at the current level.
	Handled
)

// Kind enumerates the semantic events the manager synthesizes.
type Kind uint8

const (
	KindClick Kind = iota
	KindClickStart
	KindClickEnd
	KindLongPress
	KindDrag
	KindDragStart
	KindDragEnd
	KindMove
	KindTrackpadScroll
	KindTrackpadPinch
	KindMouseWheel
	KindKeyPressed
	KindKeyReleased

	numKinds
)

var kindKeys = [numKinds]string{
	KindClick:          "click",
	KindClickStart:     "click-start",
	KindClickEnd:       "click-end",
	KindLongPress:      "long-press",
	KindDrag:           "drag",
	KindDragStart:      "drag-start",
	KindDragEnd:        "drag-end",
	KindMove:           "move",
	KindTrackpadScroll: "trackpad-scroll",
	KindTrackpadPinch:  "trackpad-pinch",
	KindMouseWheel:     "mouse-wheel",
	KindKeyPressed:     "key-pressed",
	KindKeyReleased:    "key-released",
}

func (k Kind) String() string {
	if k >= numKinds {
		return fmt.Sprintf("Kind(%d)", uint8(k))
	}
	return kindKeys[k]
}

// ParseKind converts the String form of a kind back to a Kind.
func ParseKind(s string) (Kind, error) {
	for k, key := range kindKeys {
		if key == s {
			return Kind(k), nil
		}
	}
	return 0, fmt.Errorf("event: unknown event kind %q", s)
}

// Category groups kinds for the per-category enable switches.
type Category uint8

const (
	ClickEvents Category = iota
	DragEvents
	MoveEvents
	WheelEvents
	KeyEvents

	numCategories
)

// Category returns the category k belongs to.
func (k Kind) Category() Category {
	switch k {
	case KindClick, KindClickStart, KindClickEnd, KindLongPress:
		return ClickEvents
	case KindDrag, KindDragStart, KindDragEnd:
		return DragEvents
	case KindMove:
		return MoveEvents
	case KindTrackpadScroll, KindTrackpadPinch, KindMouseWheel:
		return WheelEvents
	default:
		return KeyEvents
	}
}

// EventNames maps each kind to the event type string it is dispatched as.
type EventNames [numKinds]string

// DefaultEventNames returns the "turbo-" prefixed default names.
func DefaultEventNames() EventNames {
	var n EventNames
	for k, key := range kindKeys {
		n[k] = "turbo-" + key
	}
	return n
}

// Name returns the event type for k.
func (n EventNames) Name(k Kind) string {
	return n[k]
}

// Kind returns the kind dispatched under the given type name.
func (n EventNames) Kind(name string) (Kind, bool) {
	for k, v := range n {
		if v == name {
			return Kind(k), true
		}
	}
	return 0, false
}

// Flags is the set of switches the manager consults on every native event.
// The manager keeps a baseline record set by the user and a lock record
// installed by Lock; the effective value of each flag is the logical AND
// of both.
type Flags struct {
	Enabled             bool
	PreventDefaultMouse bool
	PreventDefaultTouch bool
	PreventDefaultWheel bool
}

// AllFlags returns a record with every flag set, which is the neutral
// element for the AND combination.
func AllFlags() Flags {
	return Flags{Enabled: true, PreventDefaultMouse: true, PreventDefaultTouch: true, PreventDefaultWheel: true}
}

// BypassAll is the lock record that lets an element take over input
// completely: no semantic events and no default prevention.
var BypassAll = Flags{}

func (f Flags) and(o Flags) Flags {
	return Flags{
		Enabled:             f.Enabled && o.Enabled,
		PreventDefaultMouse: f.PreventDefaultMouse && o.PreventDefaultMouse,
		PreventDefaultTouch: f.PreventDefaultTouch && o.PreventDefaultTouch,
		PreventDefaultWheel: f.PreventDefaultWheel && o.PreventDefaultWheel,
	}
}
