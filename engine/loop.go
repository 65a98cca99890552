package engine

import (
	"context"
	"fmt"
	"runtime/debug"
	"time"

	"github.com/gdamore/tcell/v2"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/lixenwraith/dotfield/config"
	"github.com/lixenwraith/dotfield/input"
	"github.com/lixenwraith/dotfield/render"
)

// eventBuffer bounds the poller channel
const eventBuffer = 100

// Drawer presents a composed frame
type Drawer interface {
	Draw(f render.Frame)
}

// Loop drives an App from terminal events and a frame ticker
// All App access happens on the loop goroutine
type Loop struct {
	app        *App
	screen     tcell.Screen
	drawer     Drawer
	translator *input.Translator
	clock      *FrameClock
	period     time.Duration

	reloads <-chan *config.Config

	// OnReload runs after a reloaded config was applied to the app
	OnReload func(cfg *config.Config)

	log *zap.Logger
}

// NewLoop wires an app to a screen; a nil clock uses system time
func NewLoop(app *App, screen tcell.Screen, drawer Drawer, clock TimeProvider, log *zap.Logger) *Loop {
	if log == nil {
		log = zap.NewNop()
	}
	cfg := app.Config()
	return &Loop{
		app:        app,
		screen:     screen,
		drawer:     drawer,
		translator: input.NewTranslator(cfg.Camera.WheelNotch),
		clock:      NewFrameClock(clock),
		period:     cfg.FrameDuration(),
		log:        log,
	}
}

// SetReloads attaches a channel of hot-reloaded configs
func (l *Loop) SetReloads(ch <-chan *config.Config) {
	l.reloads = ch
}

// Run polls input and renders until quit or ctx is done
func (l *Loop) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	g, ctx := errgroup.WithContext(ctx)
	events := make(chan tcell.Event, eventBuffer)

	g.Go(func() error {
		return l.poll(ctx, events)
	})

	g.Go(func() error {
		// Deferred in reverse: cancel first, then wake PollEvent so the poller sees ctx done
		defer l.screen.PostEvent(tcell.NewEventInterrupt(nil))
		defer cancel()
		return l.run(ctx, events)
	})

	return g.Wait()
}

func (l *Loop) poll(ctx context.Context, events chan<- tcell.Event) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("event poller panic: %v\n%s", r, debug.Stack())
		}
	}()

	for {
		ev := l.screen.PollEvent()
		if ev == nil || ctx.Err() != nil {
			return nil
		}
		select {
		case events <- ev:
		case <-ctx.Done():
			return nil
		}
	}
}

func (l *Loop) run(ctx context.Context, events <-chan tcell.Event) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("loop panic: %v\n%s", r, debug.Stack())
		}
	}()

	ticker := time.NewTicker(l.period)
	defer ticker.Stop()

	l.app.SetViewport(l.screen.Size())
	l.clock.Tick()

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev := <-events:
			for _, in := range l.translator.Translate(ev) {
				if l.app.HandleIntent(in) {
					l.log.Info("quit requested")
					return nil
				}
				if in.Type == input.IntentResize {
					l.screen.Sync()
				}
			}

		case cfg := <-l.reloads:
			if err := l.app.ApplyConfig(cfg); err != nil {
				l.log.Warn("config reload rejected", zap.Error(err))
				continue
			}
			l.translator.SetNotch(cfg.Camera.WheelNotch)
			if p := cfg.FrameDuration(); p != l.period {
				l.period = p
				ticker.Reset(p)
			}
			if l.OnReload != nil {
				l.OnReload(cfg)
			}

		case <-ticker.C:
			l.Step()
		}
	}
}

// Step advances the simulation by the real time since the last frame and draws it
func (l *Loop) Step() {
	l.app.Frame(l.clock.Tick())
	l.drawer.Draw(l.app.RenderFrame(l.clock.FPS()))
}
