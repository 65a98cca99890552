package highlight

import (
	"go.uber.org/zap"

	"github.com/lixenwraith/dotfield/scene"
)

// Cursor is the pointer style the renderer shows
type Cursor uint8

const (
	CursorDefault Cursor = iota
	CursorPointer
)

// Transition describes what a per-tick update did
type Transition uint8

const (
	TransitionNone Transition = iota
	TransitionEnter
	TransitionSwitch
	TransitionLeave
)

func (t Transition) String() string {
	switch t {
	case TransitionEnter:
		return "enter"
	case TransitionSwitch:
		return "switch"
	case TransitionLeave:
		return "leave"
	}
	return "none"
}

// Controller tracks the hovered entity and drives emphasis, speed and cursor on change
type Controller struct {
	store    *scene.Store
	effect   Effect
	selected *scene.Entity
	cursor   Cursor

	normalSpeed float64
	hoverSpeed  float64

	// OnEnter is called after an entity becomes the hover target
	OnEnter func(e *scene.Entity)

	log *zap.Logger
}

// NewController creates a controller with nothing selected
func NewController(store *scene.Store, effect Effect, normalSpeed, hoverSpeed float64, log *zap.Logger) *Controller {
	if log == nil {
		log = zap.NewNop()
	}
	return &Controller{
		store:       store,
		effect:      effect,
		normalSpeed: normalSpeed,
		hoverSpeed:  hoverSpeed,
		log:         log,
	}
}

// Selected returns the current hover target, or nil
func (c *Controller) Selected() *scene.Entity { return c.selected }

// Cursor returns the pointer style for the current selection
func (c *Controller) Cursor() Cursor { return c.cursor }

// Effect returns the active emphasis variant
func (c *Controller) Effect() Effect { return c.effect }

// SetEffect swaps the emphasis variant; in-flight emphasis is kept as is
func (c *Controller) SetEffect(e Effect) { c.effect = e }

// SetSpeeds changes the speed model and reapplies it to the current state
func (c *Controller) SetSpeeds(normal, hover float64) {
	c.normalSpeed, c.hoverSpeed = normal, hover
	if c.selected != nil {
		scene.SetSpeed(c.store.All(), hover, c.selected)
	} else {
		scene.SetSpeed(c.store.All(), normal, nil)
	}
}

// Update compares this tick's pick result with the current selection and applies the transition
func (c *Controller) Update(hit *scene.Entity) Transition {
	prev := c.selected
	switch {
	case hit == prev:
		return TransitionNone

	case prev == nil:
		c.enter(hit)
		return TransitionEnter

	case hit == nil:
		c.revert(prev)
		scene.SetSpeed(c.store.All(), c.normalSpeed, nil)
		c.cursor = CursorDefault
		c.selected = nil
		c.log.Debug("hover leave", zap.Int64("entity", prev.ID))
		return TransitionLeave

	default:
		c.revert(prev)
		c.enter(hit)
		return TransitionSwitch
	}
}

func (c *Controller) enter(e *scene.Entity) {
	c.selected = e
	e.Moving = false
	c.effect.Emphasize(e)
	scene.SetSpeed(c.store.All(), c.hoverSpeed, e)
	c.cursor = CursorPointer

	connectors := c.store.ConnectorsOf(e)
	for _, conn := range connectors {
		c.effect.FlashConnector(conn)
	}

	c.log.Debug("hover enter",
		zap.Int64("entity", e.ID),
		zap.String("label", e.Label),
		zap.Int("connectors", len(connectors)),
	)
	if c.OnEnter != nil {
		c.OnEnter(e)
	}
}

// revert undoes emphasis; a pinned entity stays frozen
func (c *Controller) revert(e *scene.Entity) {
	c.effect.Restore(e)
	e.Moving = !e.Pinned
}
