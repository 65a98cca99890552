package input

// IntentType discriminates semantic actions
type IntentType uint8

const (
	IntentNone IntentType = iota

	// System-level intents
	IntentQuit   // q, Esc, Ctrl+C
	IntentResize // Terminal resize event

	// Mouse
	IntentPointer // Pointer moved to a cell
	IntentClick   // Left button pressed
	IntentZoom    // Wheel notch
)

func (t IntentType) String() string {
	switch t {
	case IntentQuit:
		return "quit"
	case IntentResize:
		return "resize"
	case IntentPointer:
		return "pointer"
	case IntentClick:
		return "click"
	case IntentZoom:
		return "zoom"
	}
	return "none"
}

// Intent is a parsed semantic action
type Intent struct {
	Type IntentType

	// Cell for pointer, click and resize (width, height)
	X, Y int

	// Wheel delta in browser units; positive zooms out
	DeltaY float64
}
