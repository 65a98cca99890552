package audio

// Cues plays the short interaction sounds
type Cues interface {
	Hover()
	Open()
	Close()
}

// Nop is a silent Cues
type Nop struct{}

func (Nop) Hover() {}
func (Nop) Open()  {}
func (Nop) Close() {}

// CueType identifies an interaction sound
type CueType int

const (
	CueHover CueType = iota // Pointer entered an interactive dot
	CueOpen                 // Popup pinned
	CueClose                // Popup dismissed
	cueTypeCount
)

func (c CueType) String() string {
	switch c {
	case CueHover:
		return "hover"
	case CueOpen:
		return "open"
	case CueClose:
		return "close"
	default:
		return "unknown"
	}
}
