package engine

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lixenwraith/dotfield/config"
	"github.com/lixenwraith/dotfield/highlight"
	"github.com/lixenwraith/dotfield/render"
)

func newSimScreen(t *testing.T) tcell.SimulationScreen {
	t.Helper()
	screen := tcell.NewSimulationScreen("UTF-8")
	require.NoError(t, screen.Init())
	screen.SetSize(gridCols, gridRows)
	t.Cleanup(screen.Fini)
	return screen
}

func runLoop(t *testing.T, loop *Loop) <-chan error {
	t.Helper()
	done := make(chan error, 1)
	go func() { done <- loop.Run(context.Background()) }()
	return done
}

func waitDone(t *testing.T, done <-chan error) {
	t.Helper()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(3 * time.Second):
		t.Fatal("Loop did not stop")
	}
}

func TestLoop_QuitKeyStops(t *testing.T) {
	screen := newSimScreen(t)
	app := newTestApp(t)
	loop := NewLoop(app, screen, render.NewRenderer(screen, render.DefaultPalette()), nil, nil)

	done := runLoop(t, loop)
	time.Sleep(100 * time.Millisecond)
	screen.InjectKey(tcell.KeyRune, 'q', tcell.ModNone)
	waitDone(t, done)

	assert.Positive(t, app.Ticks(), "frames ran before quit")

	// HUD drawn on the last row
	cells, w, h := screen.GetContents()
	var sb strings.Builder
	for x := 0; x < w; x++ {
		c := cells[(h-1)*w+x]
		if len(c.Runes) > 0 {
			sb.WriteRune(c.Runes[0])
		}
	}
	assert.Contains(t, sb.String(), highlight.ModeAnimated)
}

func TestLoop_ContextCancelStops(t *testing.T) {
	screen := newSimScreen(t)
	app := newTestApp(t)
	loop := NewLoop(app, screen, render.NewRenderer(screen, render.DefaultPalette()), nil, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- loop.Run(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()
	waitDone(t, done)
}

func TestLoop_RepeatedQuitAlwaysReturns(t *testing.T) {
	for i := range 25 {
		screen := newSimScreen(t)
		app := newTestApp(t)
		loop := NewLoop(app, screen, render.NewRenderer(screen, render.DefaultPalette()), nil, nil)

		done := runLoop(t, loop)
		screen.InjectKey(tcell.KeyRune, 'q', tcell.ModNone)
		select {
		case err := <-done:
			require.NoError(t, err, "run %d", i)
		case <-time.After(3 * time.Second):
			t.Fatalf("Run %d: poller kept the loop from returning", i)
		}
	}
}

func TestLoop_AppliesReloadAndMouse(t *testing.T) {
	screen := newSimScreen(t)
	app := newTestApp(t)
	loop := NewLoop(app, screen, render.NewRenderer(screen, render.DefaultPalette()), nil, nil)

	reloads := make(chan *config.Config, 1)
	loop.SetReloads(reloads)
	var applied *config.Config
	loop.OnReload = func(cfg *config.Config) { applied = cfg }

	done := runLoop(t, loop)

	next := config.Default()
	next.Highlight.Mode = highlight.ModeInstant
	reloads <- next
	screen.InjectMouse(10, 5, tcell.ButtonNone, tcell.ModNone)
	screen.InjectMouse(10, 5, tcell.WheelDown, tcell.ModNone)

	time.Sleep(150 * time.Millisecond)
	screen.InjectKey(tcell.KeyEscape, 0, tcell.ModNone)
	waitDone(t, done)

	require.NotNil(t, applied)
	assert.Equal(t, highlight.ModeInstant, app.Highlight.Effect().Name())
	assert.True(t, app.Pointer.Present)
	assert.Equal(t, 10, app.Pointer.X)
	assert.Equal(t, 110.0, app.Camera.Distance, "one wheel notch zooms out 10 units")
}

type countingDrawer struct{ frames int }

func (d *countingDrawer) Draw(render.Frame) { d.frames++ }

func TestLoop_StepUsesFrameClock(t *testing.T) {
	app := newTestApp(t)
	mt := NewManualTime(time.Unix(0, 0))
	drawer := &countingDrawer{}
	loop := NewLoop(app, nil, drawer, mt, nil)

	loop.clock.Tick()
	mt.Advance(5 * app.Step())
	loop.Step()

	assert.Equal(t, uint64(5), app.Ticks())
	assert.Equal(t, 1, drawer.frames)
}
