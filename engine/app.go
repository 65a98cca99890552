package engine

import (
	"fmt"
	"math/rand/v2"
	"time"

	"go.uber.org/zap"

	"github.com/lixenwraith/dotfield/audio"
	"github.com/lixenwraith/dotfield/camera"
	"github.com/lixenwraith/dotfield/config"
	"github.com/lixenwraith/dotfield/engine/sched"
	"github.com/lixenwraith/dotfield/highlight"
	"github.com/lixenwraith/dotfield/input"
	"github.com/lixenwraith/dotfield/popup"
	"github.com/lixenwraith/dotfield/render"
	"github.com/lixenwraith/dotfield/scene"
	"github.com/lixenwraith/dotfield/tween"
)

// Pointer is the last known pointer position
// Present stays false until the first pointer event so nothing is picked at start-up
type Pointer struct {
	NDC     camera.NDC
	X, Y    int
	Present bool
}

// App owns the whole simulation state; it is driven from a single goroutine
type App struct {
	Store     *scene.Store
	Camera    *camera.Camera
	Highlight *highlight.Controller
	Popup     *popup.Controller
	Scheduler *sched.Scheduler
	Tweens    *tween.Set
	Pointer   Pointer

	cues audio.Cues
	cfg  *config.Config
	seed uint64

	step     time.Duration
	maxSteps int
	bound    float64
	acc      time.Duration
	ticks    uint64
	dropped  uint64

	cols, rows int

	log *zap.Logger
}

// New builds the scene, camera and controllers from a validated config
// A zero seed draws a random one; Seed reports the value used
func New(cfg *config.Config, log *zap.Logger) (*App, error) {
	if log == nil {
		log = zap.NewNop()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	step := cfg.StepDuration()
	if step <= 0 {
		return nil, fmt.Errorf("%w: step rate %d Hz gives a zero step", config.ErrInvalid, cfg.Motion.StepHz)
	}

	seed := cfg.Scene.Seed
	if seed == 0 {
		seed = rand.Uint64() | 1
	}
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))

	store := scene.NewStore()
	store.Populate(rng, scene.DefaultGroups(cfg.Scene.Interactive, cfg.Scene.NonInteractive), cfg.Motion.NormalSpeed)
	n := store.BuildConnectors(rng, cfg.Scene.ConnectorProbability)

	cam := camera.New(cfg.Camera.FOV, cfg.Camera.Near, cfg.Camera.Far, cfg.Camera.Distance)
	cam.MinDistance = cfg.Camera.MinDistance
	cam.MaxDistance = cfg.Camera.MaxDistance
	cam.WheelFactor = cfg.Camera.WheelFactor

	scheduler := sched.NewScheduler()
	tweens := tween.NewSet()

	effect, err := highlight.NewEffect(cfg.Highlight.Mode, cfg.HighlightParams(), tweens, scheduler)
	if err != nil {
		return nil, fmt.Errorf("highlight: %w", err)
	}

	a := &App{
		Store:     store,
		Camera:    cam,
		Scheduler: scheduler,
		Tweens:    tweens,
		cues:      audio.Nop{},
		cfg:       cfg,
		seed:      seed,
		step:      step,
		maxSteps:  cfg.Motion.MaxFrameSteps,
		bound:     cfg.Scene.Bound,
		log:       log,
	}

	a.Highlight = highlight.NewController(store, effect, cfg.Motion.NormalSpeed, cfg.Motion.HoverSpeed, log.Named("highlight"))
	a.Highlight.OnEnter = func(*scene.Entity) { a.cues.Hover() }

	a.Popup = popup.NewController(cam, a.Highlight, tweens, scheduler, log.Named("popup"))
	a.Popup.FadeIn = cfg.Popup.FadeIn
	a.Popup.FadeOut = cfg.Popup.FadeOut
	a.Popup.OnOpen = func(*scene.Entity) { a.cues.Open() }

	log.Info("scene built",
		zap.Uint64("seed", seed),
		zap.Int("entities", len(store.All())),
		zap.Int("interactive", len(store.Interactive())),
		zap.Int("connectors", n),
		zap.Int("components", store.Components()),
	)
	return a, nil
}

// SetCues replaces the audio sink; nil silences
func (a *App) SetCues(c audio.Cues) {
	if c == nil {
		c = audio.Nop{}
	}
	a.cues = c
}

// Seed returns the seed the scene was built from
func (a *App) Seed() uint64 { return a.seed }

// Ticks returns the number of simulation steps run
func (a *App) Ticks() uint64 { return a.ticks }

// Step returns the fixed simulation step
func (a *App) Step() time.Duration { return a.step }

// Config returns the active configuration
func (a *App) Config() *config.Config { return a.cfg }

// Viewport returns the cell grid size
func (a *App) Viewport() (int, int) { return a.cols, a.rows }

// SetViewport resizes projection and popup hit testing to a cell grid
func (a *App) SetViewport(cols, rows int) {
	if cols <= 0 || rows <= 0 {
		return
	}
	a.cols, a.rows = cols, rows
	a.Camera.SetViewport(cols, rows)
	a.Popup.SetViewport(cols, rows)
	if a.Pointer.Present {
		a.Pointer.NDC = camera.FromScreen(a.Pointer.X, a.Pointer.Y, cols, rows)
	}
}

// MovePointer records the pointer cell and its NDC position
func (a *App) MovePointer(x, y int) {
	a.Pointer = Pointer{
		NDC:     camera.FromScreen(x, y, a.cols, a.rows),
		X:       x,
		Y:       y,
		Present: true,
	}
}

// HandleIntent applies one input intent; it reports true when the app should quit
func (a *App) HandleIntent(in input.Intent) bool {
	switch in.Type {
	case input.IntentQuit:
		return true

	case input.IntentResize:
		a.SetViewport(in.X, in.Y)

	case input.IntentPointer:
		a.MovePointer(in.X, in.Y)

	case input.IntentClick:
		if a.Popup.Click(in.X, in.Y) == popup.ActionClose {
			a.cues.Close()
		}

	case input.IntentZoom:
		before := a.Camera.Distance
		a.Camera.Zoom(in.DeltaY)
		a.log.Debug("zoom", zap.Float64("from", before), zap.Float64("to", a.Camera.Distance))
	}
	return false
}

// Frame feeds real elapsed time into the fixed-step accumulator and runs whole steps
// At most maxSteps run per frame; any backlog beyond that is dropped
func (a *App) Frame(elapsed time.Duration) int {
	if elapsed > 0 {
		a.acc += elapsed
	}

	steps := 0
	for a.acc >= a.step && steps < a.maxSteps {
		a.Tick()
		a.acc -= a.step
		steps++
	}

	if a.acc >= a.step {
		lost := a.acc / a.step
		a.dropped += uint64(lost)
		a.acc -= lost * a.step
		a.log.Debug("frame backlog dropped", zap.Int64("steps", int64(lost)))
	}
	return steps
}

// Tick runs one fixed simulation step
// Order: motion, pick, highlight transition, timers and tweens, connector refresh
func (a *App) Tick() {
	scene.Advance(a.Store.All(), a.bound)

	var hit *scene.Entity
	if a.Pointer.Present {
		hit = a.Camera.Pick(a.Pointer.NDC, a.Store.Interactive())
	}
	a.Highlight.Update(hit)

	a.Scheduler.Advance(a.step)
	a.Tweens.Advance(a.step)

	a.Store.RefreshConnectors()
	a.ticks++
}

// ApplyConfig hot-swaps tunables from a reloaded config
// Population, graph and step rate are fixed for the life of the app
func (a *App) ApplyConfig(cfg *config.Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	a.Highlight.SetSpeeds(cfg.Motion.NormalSpeed, cfg.Motion.HoverSpeed)
	if cfg.Highlight != a.cfg.Highlight {
		effect, err := highlight.NewEffect(cfg.Highlight.Mode, cfg.HighlightParams(), a.Tweens, a.Scheduler)
		if err != nil {
			return fmt.Errorf("highlight: %w", err)
		}
		a.Highlight.SetEffect(effect)
	}

	a.Camera.SetFOV(cfg.Camera.FOV)
	a.Camera.Near = cfg.Camera.Near
	a.Camera.Far = cfg.Camera.Far
	a.Camera.MinDistance = cfg.Camera.MinDistance
	a.Camera.MaxDistance = cfg.Camera.MaxDistance
	a.Camera.WheelFactor = cfg.Camera.WheelFactor
	a.Camera.Zoom(0)

	a.Popup.FadeIn = cfg.Popup.FadeIn
	a.Popup.FadeOut = cfg.Popup.FadeOut
	a.maxSteps = cfg.Motion.MaxFrameSteps

	// Fixed for this run
	cfg.Scene = a.cfg.Scene
	cfg.Motion.StepHz = a.cfg.Motion.StepHz
	a.cfg = cfg

	a.log.Info("config applied", zap.String("highlight", cfg.Highlight.Mode))
	return nil
}

// RenderFrame gathers the drawable state for the renderer
func (a *App) RenderFrame(fps float64) render.Frame {
	hud := render.HUD{
		Mode:     a.Highlight.Effect().Name(),
		FPS:      fps,
		Distance: a.Camera.Distance,
	}
	if e := a.Highlight.Selected(); e != nil {
		hud.Hovered = e.Label
	}
	return render.Frame{
		Store:  a.Store,
		Camera: a.Camera,
		Popup:  a.Popup,
		Cursor: a.Highlight.Cursor(),
		Pointer: render.Pointer{
			X:       a.Pointer.X,
			Y:       a.Pointer.Y,
			Present: a.Pointer.Present,
		},
		HUD: hud,
	}
}
