package highlight

import (
	"math/rand/v2"
	"testing"
	"time"

	"github.com/lixenwraith/dotfield/engine/sched"
	"github.com/lixenwraith/dotfield/scene"
	"github.com/lixenwraith/dotfield/tween"
)

const (
	normalSpeed = 0.005
	hoverSpeed  = 0.001
)

type fixture struct {
	store     *scene.Store
	tweens    *tween.Set
	scheduler *sched.Scheduler
	ctrl      *Controller
}

func newFixture(t *testing.T, mode string) *fixture {
	t.Helper()
	store := scene.NewStore()
	store.Populate(rand.New(rand.NewPCG(1, 1)), scene.DefaultGroups(5, []int{15, 15, 15}), normalSpeed)
	store.BuildConnectors(rand.New(rand.NewPCG(2, 2)), 1.0)

	tweens := tween.NewSet()
	scheduler := sched.NewScheduler()
	effect, err := NewEffect(mode, DefaultParams(), tweens, scheduler)
	if err != nil {
		t.Fatalf("NewEffect: %v", err)
	}
	return &fixture{
		store:     store,
		tweens:    tweens,
		scheduler: scheduler,
		ctrl:      NewController(store, effect, normalSpeed, hoverSpeed, nil),
	}
}

// run advances time in 16ms steps the way the loop does
func (f *fixture) run(d time.Duration) {
	const step = 16 * time.Millisecond
	for elapsed := time.Duration(0); elapsed < d; elapsed += step {
		f.scheduler.Advance(step)
		f.tweens.Advance(step)
	}
}

func TestNewEffect_UnknownMode(t *testing.T) {
	if _, err := NewEffect("sparkle", DefaultParams(), tween.NewSet(), sched.NewScheduler()); err == nil {
		t.Error("Expected error for unknown mode")
	}
}

func TestUpdate_NoneToNone(t *testing.T) {
	f := newFixture(t, ModeInstant)

	if tr := f.ctrl.Update(nil); tr != TransitionNone {
		t.Errorf("Expected none, got %v", tr)
	}
	if f.ctrl.Cursor() != CursorDefault {
		t.Error("Cursor changed without a selection")
	}
}

func TestUpdate_EnterFreezesAndSlows(t *testing.T) {
	f := newFixture(t, ModeInstant)
	e := f.store.Interactive()[0]

	if tr := f.ctrl.Update(e); tr != TransitionEnter {
		t.Fatalf("Expected enter, got %v", tr)
	}

	if e.Moving {
		t.Error("Selected entity still moving")
	}
	if e.Scale <= 1 || e.Glow != 1 {
		t.Errorf("Expected emphasis, scale=%v glow=%v", e.Scale, e.Glow)
	}
	if f.ctrl.Cursor() != CursorPointer {
		t.Error("Expected pointer cursor")
	}
	for _, other := range f.store.All() {
		if other != e && other.Speed != hoverSpeed {
			t.Fatalf("Entity %d speed %v, want hover speed", other.ID, other.Speed)
		}
	}
	for _, c := range f.store.ConnectorsOf(e) {
		if c.Highlight != 1 {
			t.Fatalf("Connector %d not highlighted", c.ID)
		}
	}
}

func TestUpdate_LeaveRestores(t *testing.T) {
	f := newFixture(t, ModeInstant)
	e := f.store.Interactive()[1]
	f.ctrl.Update(e)

	if tr := f.ctrl.Update(nil); tr != TransitionLeave {
		t.Fatalf("Expected leave, got %v", tr)
	}

	if !e.Moving || e.Scale != 1 || e.Glow != 0 {
		t.Errorf("Expected rest state, moving=%v scale=%v glow=%v", e.Moving, e.Scale, e.Glow)
	}
	if f.ctrl.Selected() != nil || f.ctrl.Cursor() != CursorDefault {
		t.Error("Selection or cursor not cleared")
	}
	for _, other := range f.store.All() {
		if other.Speed != normalSpeed {
			t.Fatalf("Entity %d speed %v, want normal speed", other.ID, other.Speed)
		}
	}
}

func TestUpdate_SwitchRevertsPrevious(t *testing.T) {
	f := newFixture(t, ModeInstant)
	e, g := f.store.Interactive()[0], f.store.Interactive()[2]
	f.ctrl.Update(e)

	if tr := f.ctrl.Update(g); tr != TransitionSwitch {
		t.Fatalf("Expected switch, got %v", tr)
	}

	if !e.Moving || e.Scale != 1 || e.Glow != 0 {
		t.Error("Previous selection not reverted")
	}
	if e.Speed != hoverSpeed {
		t.Errorf("Previous selection should drift at hover speed, got %v", e.Speed)
	}
	if g.Moving || g.Scale <= 1 || f.ctrl.Selected() != g {
		t.Error("New selection not applied")
	}
}

func TestUpdate_PinnedStaysFrozen(t *testing.T) {
	f := newFixture(t, ModeInstant)
	e := f.store.Interactive()[3]
	f.ctrl.Update(e)
	e.Pinned = true

	f.ctrl.Update(nil)

	if e.Moving {
		t.Error("Pinned entity resumed after hover left")
	}
	if e.Scale != 1 {
		t.Error("Pinned entity should still lose emphasis")
	}
}

func TestUpdate_OnEnterHook(t *testing.T) {
	f := newFixture(t, ModeInstant)
	var seen []int64
	f.ctrl.OnEnter = func(e *scene.Entity) { seen = append(seen, e.ID) }

	a, b := f.store.Interactive()[0], f.store.Interactive()[1]
	f.ctrl.Update(a)
	f.ctrl.Update(a)
	f.ctrl.Update(b)

	if len(seen) != 2 || seen[0] != a.ID || seen[1] != b.ID {
		t.Errorf("Expected enter hooks for %d,%d, got %v", a.ID, b.ID, seen)
	}
}

func TestInstant_ConnectorRevertsAfterHold(t *testing.T) {
	f := newFixture(t, ModeInstant)
	e := f.store.Interactive()[0]
	f.ctrl.Update(e)

	f.run(900 * time.Millisecond)
	for _, c := range f.store.ConnectorsOf(e) {
		if c.Highlight != 1 {
			t.Fatalf("Connector %d reverted before hold elapsed", c.ID)
		}
	}

	f.run(200 * time.Millisecond)
	for _, c := range f.store.ConnectorsOf(e) {
		if c.Highlight != 0 {
			t.Fatalf("Connector %d still highlighted after hold", c.ID)
		}
	}
}

func TestInstant_RehighlightCancelsPendingRevert(t *testing.T) {
	f := newFixture(t, ModeInstant)
	a, b := f.store.Interactive()[0], f.store.Interactive()[1]
	shared, ok := f.store.Connector(a, b)
	if !ok {
		t.Fatal("Complete graph must connect a and b")
	}

	f.ctrl.Update(a)
	f.run(800 * time.Millisecond)
	f.ctrl.Update(b)

	// The first revert would land here; the re-highlight must have replaced it
	f.run(400 * time.Millisecond)
	if shared.Highlight != 1 {
		t.Fatalf("Stale revert fired on re-highlighted connector")
	}

	f.run(700 * time.Millisecond)
	if shared.Highlight != 0 {
		t.Errorf("Replacement revert did not fire")
	}
}

func TestAnimated_EasesToTargets(t *testing.T) {
	f := newFixture(t, ModeAnimated)
	e := f.store.Interactive()[4]

	f.ctrl.Update(e)
	if e.Scale != 1 {
		t.Fatalf("Animated effect should not snap, scale=%v", e.Scale)
	}

	f.run(100 * time.Millisecond)
	if e.Scale <= 1 || e.Scale >= 2.5 {
		t.Errorf("Expected mid-ease scale, got %v", e.Scale)
	}

	f.run(400 * time.Millisecond)
	if e.Scale != 2.5 || e.Glow != 1 {
		t.Errorf("Expected full emphasis, scale=%v glow=%v", e.Scale, e.Glow)
	}

	f.ctrl.Update(nil)
	f.run(400 * time.Millisecond)
	if e.Scale != 1 || e.Glow != 0 {
		t.Errorf("Expected rest after ease out, scale=%v glow=%v", e.Scale, e.Glow)
	}
}

func TestAnimated_ConnectorCycle(t *testing.T) {
	f := newFixture(t, ModeAnimated)
	e := f.store.Interactive()[0]
	conns := f.store.ConnectorsOf(e)
	f.ctrl.Update(e)

	f.run(600 * time.Millisecond)
	for _, c := range conns {
		if c.Highlight != 1 {
			t.Fatalf("Connector %d not fully lit, %v", c.ID, c.Highlight)
		}
	}

	// Hold 1s from enter, then 500ms ease back
	f.run(1100 * time.Millisecond)
	for _, c := range conns {
		if c.Highlight != 0 {
			t.Fatalf("Connector %d not faded, %v", c.ID, c.Highlight)
		}
	}
}

func TestSetSpeeds_ReappliesToSelection(t *testing.T) {
	f := newFixture(t, ModeInstant)
	e := f.store.Interactive()[0]
	f.ctrl.Update(e)

	f.ctrl.SetSpeeds(0.01, 0.002)

	for _, other := range f.store.All() {
		if other != e && other.Speed != 0.002 {
			t.Fatalf("Entity %d speed %v, want new hover speed", other.ID, other.Speed)
		}
	}

	f.ctrl.Update(nil)
	if e.Speed != 0.01 {
		t.Errorf("Expected new normal speed after leave, got %v", e.Speed)
	}
}
