package popup

import (
	"math"
	"time"

	"github.com/mattn/go-runewidth"
	"go.uber.org/zap"

	"github.com/lixenwraith/dotfield/camera"
	"github.com/lixenwraith/dotfield/engine/sched"
	"github.com/lixenwraith/dotfield/scene"
	"github.com/lixenwraith/dotfield/tween"
)

// HoverSource exposes the live hover target
type HoverSource interface {
	Selected() *scene.Entity
}

// Action reports what a click did
type Action uint8

const (
	ActionNone Action = iota
	ActionOpen
	ActionClose
)

// Rect is a cell rectangle
type Rect struct {
	X, Y, W, H int
}

// Contains reports whether the cell lies inside the rectangle
func (r Rect) Contains(x, y int) bool {
	return x >= r.X && x < r.X+r.W && y >= r.Y && y < r.Y+r.H
}

// Box geometry
const (
	boxHeight    = 3
	CloseLabel   = "[x]"
	textPadLeft  = 1
	textPadRight = 2 // Gap between text and close control
)

// Timings used when none are configured
const (
	DefaultFadeIn  = 300 * time.Millisecond
	DefaultFadeOut = 300 * time.Millisecond
	FadeInDelay    = 10 * time.Millisecond
)

var (
	hideKey   = sched.Key{Kind: "popup-hide"}
	showKey   = sched.Key{Kind: "popup-show"}
	opacityTw = tween.Key{Kind: "popup-opacity"}
)

// Controller owns the single label popup and the pin it holds on an entity
type Controller struct {
	cam       *camera.Camera
	hover     HoverSource
	tweens    *tween.Set
	scheduler *sched.Scheduler

	FadeIn  time.Duration
	FadeOut time.Duration

	cols, rows int

	open    bool
	visible bool
	opacity float64
	text    string
	anchorX int
	anchorY int
	entity  *scene.Entity

	// OnOpen is called after a popup opens for an entity
	OnOpen func(e *scene.Entity)

	log *zap.Logger
}

// NewController creates a hidden popup
func NewController(cam *camera.Camera, hover HoverSource, tweens *tween.Set, scheduler *sched.Scheduler, log *zap.Logger) *Controller {
	if log == nil {
		log = zap.NewNop()
	}
	return &Controller{
		cam:       cam,
		hover:     hover,
		tweens:    tweens,
		scheduler: scheduler,
		FadeIn:    DefaultFadeIn,
		FadeOut:   DefaultFadeOut,
		log:       log,
	}
}

// SetViewport records the cell grid used for anchoring and hit tests
func (c *Controller) SetViewport(cols, rows int) {
	c.cols, c.rows = cols, rows
}

// Open reports whether a popup is pinned to an entity
func (c *Controller) Open() bool { return c.open }

// Visible reports whether the box is drawn, including while fading out
func (c *Controller) Visible() bool { return c.visible }

// Opacity returns the current fade level 0..1
func (c *Controller) Opacity() float64 { return c.opacity }

// Text returns the label shown in the box
func (c *Controller) Text() string { return c.text }

// Pinned returns the entity the popup holds, or nil
func (c *Controller) Pinned() *scene.Entity {
	if !c.open {
		return nil
	}
	return c.entity
}

// Click handles a pointer click at a cell
// Inside an open box only the close control reacts; elsewhere a hovered entity opens its popup
// and an empty click closes the current one
func (c *Controller) Click(x, y int) Action {
	if c.open && c.Rect().Contains(x, y) {
		if c.CloseRect().Contains(x, y) {
			c.Close()
			return ActionClose
		}
		return ActionNone
	}

	if e := c.hover.Selected(); e != nil {
		c.Show(e)
		return ActionOpen
	}

	if c.open {
		c.Close()
		return ActionClose
	}
	return ActionNone
}

// Show opens the popup for e, anchored at its projected screen position, and pins it
// A popup already pinned to another entity releases that pin
func (c *Controller) Show(e *scene.Entity) {
	if c.open && c.entity != e {
		c.release(c.entity)
	}

	c.open = true
	c.visible = true
	c.entity = e
	c.text = e.Label
	c.anchorX, c.anchorY = c.anchor(e)

	e.Pinned = true
	e.Moving = false

	c.scheduler.Cancel(hideKey)
	c.tweens.Cancel(opacityTw)
	c.opacity = 0
	c.scheduler.After(showKey, FadeInDelay, func() {
		c.tweens.To(opacityTw, c.opacity, 1, c.FadeIn, tween.QuadraticOut, c.setOpacity)
	})

	c.log.Debug("popup open",
		zap.Int64("entity", e.ID),
		zap.String("label", e.Label),
		zap.Int("x", c.anchorX),
		zap.Int("y", c.anchorY),
	)
	if c.OnOpen != nil {
		c.OnOpen(e)
	}
}

// Close unpins the entity and fades the box out; no-op when nothing is open
func (c *Controller) Close() bool {
	if !c.open {
		return false
	}
	c.open = false
	c.release(c.entity)
	c.log.Debug("popup close", zap.Int64("entity", c.entity.ID))

	c.scheduler.Cancel(showKey)
	c.tweens.To(opacityTw, c.opacity, 0, c.FadeOut, tween.Linear, c.setOpacity)
	c.scheduler.After(hideKey, c.FadeOut, func() {
		c.visible = false
		c.text = ""
		c.entity = nil
	})
	return true
}

// release drops the pin; the entity resumes unless it is still hovered
func (c *Controller) release(e *scene.Entity) {
	e.Pinned = false
	if e != c.hover.Selected() {
		e.Moving = true
	}
}

func (c *Controller) setOpacity(v float64) { c.opacity = v }

func (c *Controller) anchor(e *scene.Entity) (int, int) {
	ndc, _, ok := c.cam.Project(e.Pos)
	if !ok {
		return c.cols / 2, c.rows / 2
	}
	x, y := camera.ToScreen(ndc, c.cols, c.rows)
	return int(math.Floor(x)), int(math.Floor(y))
}

// Anchor returns the unclamped cell the popup is attached to
func (c *Controller) Anchor() (int, int) {
	return c.anchorX, c.anchorY
}

// Rect returns the box placed at the anchor and pushed back inside the viewport
func (c *Controller) Rect() Rect {
	w := runewidth.StringWidth(c.text) + runewidth.StringWidth(CloseLabel) + textPadLeft + textPadRight + 3
	r := Rect{X: c.anchorX, Y: c.anchorY, W: w, H: boxHeight}
	if c.cols > 0 {
		r.X = min(r.X, c.cols-r.W)
	}
	if c.rows > 0 {
		r.Y = min(r.Y, c.rows-r.H)
	}
	r.X = max(r.X, 0)
	r.Y = max(r.Y, 0)
	return r
}

// TextOrigin returns the cell where the label starts
func (c *Controller) TextOrigin() (int, int) {
	r := c.Rect()
	return r.X + 1 + textPadLeft, r.Y + 1
}

// CloseRect returns the cells of the close control
func (c *Controller) CloseRect() Rect {
	r := c.Rect()
	w := runewidth.StringWidth(CloseLabel)
	return Rect{X: r.X + r.W - 2 - w, Y: r.Y + 1, W: w, H: 1}
}
