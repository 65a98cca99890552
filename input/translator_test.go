package input

import (
	"testing"

	"github.com/gdamore/tcell/v2"
)

func types(intents []Intent) []IntentType {
	out := make([]IntentType, len(intents))
	for i, in := range intents {
		out[i] = in.Type
	}
	return out
}

func TestTranslate_QuitKeys(t *testing.T) {
	tests := []struct {
		name string
		ev   *tcell.EventKey
	}{
		{"q", tcell.NewEventKey(tcell.KeyRune, 'q', tcell.ModNone)},
		{"Q", tcell.NewEventKey(tcell.KeyRune, 'Q', tcell.ModNone)},
		{"Esc", tcell.NewEventKey(tcell.KeyEscape, 0, tcell.ModNone)},
		{"Ctrl+C", tcell.NewEventKey(tcell.KeyCtrlC, 0, tcell.ModCtrl)},
	}

	tr := NewTranslator(0)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tr.Translate(tt.ev)
			if len(got) != 1 || got[0].Type != IntentQuit {
				t.Errorf("Expected quit, got %v", types(got))
			}
		})
	}

	if got := tr.Translate(tcell.NewEventKey(tcell.KeyRune, 'x', tcell.ModNone)); len(got) != 0 {
		t.Errorf("Other keys should be ignored, got %v", types(got))
	}
}

func TestTranslate_PointerMoveOnlyOnChange(t *testing.T) {
	tr := NewTranslator(0)

	got := tr.Translate(tcell.NewEventMouse(10, 5, tcell.ButtonNone, tcell.ModNone))
	if len(got) != 1 || got[0].Type != IntentPointer || got[0].X != 10 || got[0].Y != 5 {
		t.Fatalf("Expected pointer at 10,5, got %+v", got)
	}

	if got := tr.Translate(tcell.NewEventMouse(10, 5, tcell.ButtonNone, tcell.ModNone)); len(got) != 0 {
		t.Errorf("Same cell should not repeat pointer intent, got %v", types(got))
	}
}

func TestTranslate_ClickOnPressEdge(t *testing.T) {
	tr := NewTranslator(0)

	got := tr.Translate(tcell.NewEventMouse(3, 4, tcell.Button1, tcell.ModNone))
	want := []IntentType{IntentPointer, IntentClick}
	if len(got) != 2 || got[0].Type != want[0] || got[1].Type != want[1] {
		t.Fatalf("Expected %v, got %v", want, types(got))
	}

	// Drag with button held moves without clicking
	got = tr.Translate(tcell.NewEventMouse(4, 4, tcell.Button1, tcell.ModNone))
	if len(got) != 1 || got[0].Type != IntentPointer {
		t.Errorf("Drag should only move, got %v", types(got))
	}

	// Release then press clicks again
	tr.Translate(tcell.NewEventMouse(4, 4, tcell.ButtonNone, tcell.ModNone))
	got = tr.Translate(tcell.NewEventMouse(4, 4, tcell.Button1, tcell.ModNone))
	if len(got) != 1 || got[0].Type != IntentClick {
		t.Errorf("Second press should click, got %v", types(got))
	}
}

func TestTranslate_WheelNotch(t *testing.T) {
	tr := NewTranslator(120)
	tr.Translate(tcell.NewEventMouse(0, 0, tcell.ButtonNone, tcell.ModNone))

	up := tr.Translate(tcell.NewEventMouse(0, 0, tcell.WheelUp, tcell.ModNone))
	if len(up) != 1 || up[0].Type != IntentZoom || up[0].DeltaY != -120 {
		t.Errorf("Wheel up should zoom in by one notch, got %+v", up)
	}

	down := tr.Translate(tcell.NewEventMouse(0, 0, tcell.WheelDown, tcell.ModNone))
	if len(down) != 1 || down[0].DeltaY != 120 {
		t.Errorf("Wheel down should zoom out by one notch, got %+v", down)
	}

	tr.SetNotch(0)
	down = tr.Translate(tcell.NewEventMouse(0, 0, tcell.WheelDown, tcell.ModNone))
	if down[0].DeltaY != 120 {
		t.Errorf("Non-positive notch must be ignored, got %v", down[0].DeltaY)
	}
}

func TestTranslate_Resize(t *testing.T) {
	got := NewTranslator(0).Translate(tcell.NewEventResize(120, 40))
	if len(got) != 1 || got[0].Type != IntentResize || got[0].X != 120 || got[0].Y != 40 {
		t.Errorf("Expected resize 120x40, got %+v", got)
	}
}

func TestIntentType_String(t *testing.T) {
	if IntentClick.String() != "click" || IntentNone.String() != "none" {
		t.Errorf("Unexpected names %q %q", IntentClick, IntentNone)
	}
}
