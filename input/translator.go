package input

import (
	"github.com/gdamore/tcell/v2"
)

// DefaultWheelNotch is the deltaY reported for one wheel step
const DefaultWheelNotch = 100.0

// Translator turns raw tcell events into intents
// Mouse buttons are tracked so a held button clicks only once
type Translator struct {
	notch   float64
	buttons tcell.ButtonMask

	lastX, lastY int
	seen         bool
}

// NewTranslator creates a translator; notch <= 0 uses DefaultWheelNotch
func NewTranslator(notch float64) *Translator {
	if notch <= 0 {
		notch = DefaultWheelNotch
	}
	return &Translator{notch: notch}
}

// SetNotch changes the wheel delta per step
func (t *Translator) SetNotch(notch float64) {
	if notch > 0 {
		t.notch = notch
	}
}

// Translate parses one event; a single mouse event can yield a move and a click or zoom
func (t *Translator) Translate(ev tcell.Event) []Intent {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		if isQuit(ev) {
			return []Intent{{Type: IntentQuit}}
		}

	case *tcell.EventResize:
		w, h := ev.Size()
		return []Intent{{Type: IntentResize, X: w, Y: h}}

	case *tcell.EventMouse:
		return t.mouse(ev)
	}
	return nil
}

func (t *Translator) mouse(ev *tcell.EventMouse) []Intent {
	x, y := ev.Position()
	btn := ev.Buttons()

	var out []Intent
	if !t.seen || x != t.lastX || y != t.lastY {
		out = append(out, Intent{Type: IntentPointer, X: x, Y: y})
		t.lastX, t.lastY, t.seen = x, y, true
	}

	// Press edge only; drag and release do not click
	if btn&tcell.Button1 != 0 && t.buttons&tcell.Button1 == 0 {
		out = append(out, Intent{Type: IntentClick, X: x, Y: y})
	}

	switch {
	case btn&tcell.WheelUp != 0:
		out = append(out, Intent{Type: IntentZoom, X: x, Y: y, DeltaY: -t.notch})
	case btn&tcell.WheelDown != 0:
		out = append(out, Intent{Type: IntentZoom, X: x, Y: y, DeltaY: t.notch})
	}

	t.buttons = btn & (tcell.Button1 | tcell.Button2 | tcell.Button3)
	return out
}

func isQuit(ev *tcell.EventKey) bool {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return true
	case tcell.KeyRune:
		return ev.Rune() == 'q' || ev.Rune() == 'Q'
	}
	return false
}
