package popup

import (
	"math/rand/v2"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/lixenwraith/dotfield/camera"
	"github.com/lixenwraith/dotfield/engine/sched"
	"github.com/lixenwraith/dotfield/highlight"
	"github.com/lixenwraith/dotfield/scene"
	"github.com/lixenwraith/dotfield/tween"
)

type fixture struct {
	store     *scene.Store
	cam       *camera.Camera
	tweens    *tween.Set
	scheduler *sched.Scheduler
	hl        *highlight.Controller
	popup     *Controller
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := scene.NewStore()
	store.Populate(rand.New(rand.NewPCG(5, 5)), scene.DefaultGroups(5, []int{15}), 0.005)
	store.BuildConnectors(rand.New(rand.NewPCG(6, 6)), 0.5)

	cam := camera.New(75, 0.1, 2000, 100)
	cam.SetViewport(120, 40)
	tweens := tween.NewSet()
	scheduler := sched.NewScheduler()
	effect, err := highlight.NewEffect(highlight.ModeInstant, highlight.DefaultParams(), tweens, scheduler)
	require.NoError(t, err)
	hl := highlight.NewController(store, effect, 0.005, 0.001, nil)

	p := NewController(cam, hl, tweens, scheduler, nil)
	p.SetViewport(120, 40)
	return &fixture{store: store, cam: cam, tweens: tweens, scheduler: scheduler, hl: hl, popup: p}
}

func (f *fixture) run(d time.Duration) {
	const step = 16 * time.Millisecond
	for elapsed := time.Duration(0); elapsed < d; elapsed += step {
		f.scheduler.Advance(step)
		f.tweens.Advance(step)
	}
}

// outside returns a cell that is not inside the open box
func (f *fixture) outside() (int, int) {
	r := f.popup.Rect()
	if r.X > 0 {
		return 0, 0
	}
	return 119, 39
}

func TestClick_NothingHovered(t *testing.T) {
	f := newFixture(t)

	assert.Equal(t, ActionNone, f.popup.Click(3, 3))
	assert.False(t, f.popup.Visible())
	assert.False(t, f.popup.Close(), "close without popup is a no-op")
}

func TestClick_OpensForHovered(t *testing.T) {
	f := newFixture(t)
	e := f.store.Interactive()[2]
	e.Pos = r3.Vec{X: 0, Y: 0, Z: 0}
	f.hl.Update(e)

	require.Equal(t, ActionOpen, f.popup.Click(1, 1))

	assert.True(t, f.popup.Open())
	assert.Equal(t, "Dot 3", f.popup.Text())
	assert.Same(t, e, f.popup.Pinned())
	assert.True(t, e.Pinned)
	assert.False(t, e.Moving)

	x, y := f.popup.Anchor()
	assert.Equal(t, 60, x)
	assert.Equal(t, 20, y)
}

func TestPin_SurvivesHoverExit(t *testing.T) {
	f := newFixture(t)
	e := f.store.Interactive()[0]
	f.hl.Update(e)
	f.popup.Click(0, 0)

	f.hl.Update(nil)
	assert.False(t, e.Moving, "pinned entity must stay frozen after hover leaves")

	f.popup.Close()
	assert.True(t, e.Moving, "closing the popup resumes movement")
	assert.False(t, e.Pinned)
}

func TestClose_KeepsHoverTargetFrozen(t *testing.T) {
	f := newFixture(t)
	e := f.store.Interactive()[0]
	f.hl.Update(e)
	f.popup.Show(e)

	f.popup.Close()

	assert.False(t, e.Pinned)
	assert.False(t, e.Moving, "still hovered, so still frozen")
}

func TestClick_CloseControl(t *testing.T) {
	f := newFixture(t)
	e := f.store.Interactive()[1]
	f.hl.Update(e)
	f.popup.Show(e)
	f.hl.Update(nil)

	cr := f.popup.CloseRect()
	require.True(t, f.popup.Rect().Contains(cr.X, cr.Y))

	// Body of the box is inert
	r := f.popup.Rect()
	assert.Equal(t, ActionNone, f.popup.Click(r.X+1, r.Y+1))
	assert.True(t, f.popup.Open())

	assert.Equal(t, ActionClose, f.popup.Click(cr.X+1, cr.Y))
	assert.False(t, f.popup.Open())
	assert.True(t, e.Moving)
}

func TestClick_OutsideCloses(t *testing.T) {
	f := newFixture(t)
	e := f.store.Interactive()[1]
	f.hl.Update(e)
	f.popup.Show(e)
	f.hl.Update(nil)

	x, y := f.outside()
	assert.Equal(t, ActionClose, f.popup.Click(x, y))
	assert.Nil(t, f.popup.Pinned())
	assert.True(t, e.Moving)
}

func TestShow_OtherEntityReleasesPrevious(t *testing.T) {
	f := newFixture(t)
	a, b := f.store.Interactive()[0], f.store.Interactive()[1]
	f.hl.Update(a)
	f.popup.Show(a)
	f.hl.Update(b)

	x, y := f.outside()
	require.Equal(t, ActionOpen, f.popup.Click(x, y))

	assert.Same(t, b, f.popup.Pinned())
	assert.False(t, a.Pinned)
	assert.True(t, a.Moving)
	assert.True(t, b.Pinned)
}

func TestFade_InAndOut(t *testing.T) {
	f := newFixture(t)
	e := f.store.Interactive()[0]
	f.hl.Update(e)
	f.popup.Show(e)

	assert.Zero(t, f.popup.Opacity())
	f.run(400 * time.Millisecond)
	assert.Equal(t, 1.0, f.popup.Opacity())

	f.popup.Close()
	assert.True(t, f.popup.Visible(), "box stays up while fading")

	f.run(400 * time.Millisecond)
	assert.False(t, f.popup.Visible())
	assert.Zero(t, f.popup.Opacity())
	assert.Empty(t, f.popup.Text())
}

func TestReopenDuringFadeOut(t *testing.T) {
	f := newFixture(t)
	e := f.store.Interactive()[0]
	f.hl.Update(e)
	f.popup.Show(e)
	f.run(400 * time.Millisecond)
	f.popup.Close()
	f.run(100 * time.Millisecond)

	f.popup.Show(e)
	f.run(500 * time.Millisecond)

	assert.True(t, f.popup.Visible(), "pending hide must be cancelled on reopen")
	assert.Equal(t, "Dot 1", f.popup.Text())
}

func TestRect_ClampedToViewport(t *testing.T) {
	f := newFixture(t)
	e := f.store.Interactive()[0]
	e.Pos = r3.Vec{X: 70, Y: -70, Z: 0}
	f.popup.Show(e)

	r := f.popup.Rect()
	assert.LessOrEqual(t, r.X+r.W, 120)
	assert.LessOrEqual(t, r.Y+r.H, 40)
	assert.GreaterOrEqual(t, r.X, 0)
	assert.GreaterOrEqual(t, r.Y, 0)
}
