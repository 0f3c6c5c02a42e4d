package dom

import "github.com/chrisuehlinger/turbo/geom"

// Pointer types as reported by PointerEvent.PointerType.
const (
	PointerTypeMouse = "mouse"
	PointerTypePen   = "pen"
	PointerTypeTouch = "touch"
)

// Native pointer, wheel and keyboard event types.
const (
	EventPointerDown   = "pointerdown"
	EventPointerMove   = "pointermove"
	EventPointerUp     = "pointerup"
	EventPointerCancel = "pointercancel"
	EventWheel         = "wheel"
	EventKeyDown       = "keydown"
	EventKeyUp         = "keyup"
)

// Modifiers records the modifier keys held during an input event.
type Modifiers struct {
	Ctrl  bool
	Shift bool
	Alt   bool
	Meta  bool
}

// PointerEvent is a native pointer event.
type PointerEvent struct {
	EventBase
	Modifiers

	PointerID   int
	PointerType string
	IsPrimary   bool
	// Button is the button that changed state: 0 main, 1 auxiliary,
	// 2 secondary, 3 back, 4 forward. It is -1 for moves.
	Button  int
	Buttons int
	ClientX float64
	ClientY float64
}

// NewPointerEvent creates a bubbling, composed pointer event. Every type
// except pointercancel is cancelable.
func NewPointerEvent(eventType string, pointerID int, pointerType string, x, y float64) *PointerEvent {
	return &PointerEvent{
		EventBase: NewEventBase(eventType, EventInit{
			Bubbles:    true,
			Cancelable: eventType != EventPointerCancel,
			Composed:   true,
		}),
		PointerID:   pointerID,
		PointerType: pointerType,
		IsPrimary:   true,
		ClientX:     x,
		ClientY:     y,
	}
}

// Position returns the client position of the pointer.
func (e *PointerEvent) Position() geom.Point {
	return geom.Point{X: e.ClientX, Y: e.ClientY}
}

// WheelEvent is a native wheel event.
type WheelEvent struct {
	EventBase
	Modifiers

	DeltaX  float64
	DeltaY  float64
	ClientX float64
	ClientY float64
}

// NewWheelEvent creates a bubbling, cancelable wheel event.
func NewWheelEvent(dx, dy, x, y float64) *WheelEvent {
	return &WheelEvent{
		EventBase: NewEventBase(EventWheel, EventInit{Bubbles: true, Cancelable: true, Composed: true}),
		DeltaX:    dx,
		DeltaY:    dy,
		ClientX:   x,
		ClientY:   y,
	}
}

// Delta returns the scroll delta as a vector.
func (e *WheelEvent) Delta() geom.Point {
	return geom.Point{X: e.DeltaX, Y: e.DeltaY}
}

// Position returns the client position of the pointer.
func (e *WheelEvent) Position() geom.Point {
	return geom.Point{X: e.ClientX, Y: e.ClientY}
}

// KeyboardEvent is a native keyboard event.
type KeyboardEvent struct {
	EventBase
	Modifiers

	Key    string
	Code   string
	Repeat bool
}

// NewKeyboardEvent creates a bubbling, cancelable keyboard event.
func NewKeyboardEvent(eventType, key string) *KeyboardEvent {
	return &KeyboardEvent{
		EventBase: NewEventBase(eventType, EventInit{Bubbles: true, Cancelable: true, Composed: true}),
		Key:       key,
	}
}

// CustomEvent carries an arbitrary detail value.
type CustomEvent struct {
	EventBase
	Detail any
}

// NewCustomEvent creates a custom event.
func NewCustomEvent(eventType string, init EventInit, detail any) *CustomEvent {
	return &CustomEvent{EventBase: NewEventBase(eventType, init), Detail: detail}
}
