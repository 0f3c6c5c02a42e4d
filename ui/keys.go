package ui

import (
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/driver/desktop"

	"github.com/chrisuehlinger/turbo/dom"
)

var keyNames = map[fyne.KeyName]string{
	fyne.KeySpace:     " ",
	fyne.KeyReturn:    "Enter",
	fyne.KeyEnter:     "Enter",
	fyne.KeyEscape:    "Escape",
	fyne.KeyTab:       "Tab",
	fyne.KeyBackspace: "Backspace",
	fyne.KeyDelete:    "Delete",
	fyne.KeyUp:        "ArrowUp",
	fyne.KeyDown:      "ArrowDown",
	fyne.KeyLeft:      "ArrowLeft",
	fyne.KeyRight:     "ArrowRight",

	desktop.KeyShiftLeft:    "Shift",
	desktop.KeyShiftRight:   "Shift",
	desktop.KeyControlLeft:  "Control",
	desktop.KeyControlRight: "Control",
	desktop.KeyAltLeft:      "Alt",
	desktop.KeyAltRight:     "Alt",
	desktop.KeySuperLeft:    "Meta",
	desktop.KeySuperRight:   "Meta",
}

// domKey converts a Fyne key name to a DOM key value. Letters come out
// lower case since Fyne does not report the shifted character.
func domKey(name fyne.KeyName) string {
	if k, ok := keyNames[name]; ok {
		return k
	}
	if len(name) == 1 {
		return strings.ToLower(string(name))
	}
	return string(name)
}

func trackModifier(m *dom.Modifiers, name fyne.KeyName, down bool) {
	switch name {
	case desktop.KeyShiftLeft, desktop.KeyShiftRight:
		m.Shift = down
	case desktop.KeyControlLeft, desktop.KeyControlRight:
		m.Ctrl = down
	case desktop.KeyAltLeft, desktop.KeyAltRight:
		m.Alt = down
	case desktop.KeySuperLeft, desktop.KeySuperRight:
		m.Meta = down
	}
}
