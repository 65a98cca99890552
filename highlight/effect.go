package highlight

import (
	"fmt"
	"time"

	"github.com/lixenwraith/dotfield/engine/sched"
	"github.com/lixenwraith/dotfield/scene"
	"github.com/lixenwraith/dotfield/tween"
)

// Mode names accepted in configuration
const (
	ModeAnimated = "animated"
	ModeInstant  = "instant"
)

// Effect applies and removes visual emphasis
// Implementations own how values reach their targets; the controller owns when
type Effect interface {
	// Emphasize grows the entity and lights its glow
	Emphasize(e *scene.Entity)
	// Restore returns the entity to rest scale and no glow
	Restore(e *scene.Entity)
	// FlashConnector lights the connector and schedules its revert, replacing any pending revert
	FlashConnector(c *scene.Connector)
	// Name returns the configuration mode name
	Name() string
}

// Params tunes both effect variants
type Params struct {
	HoverScale    float64
	EntityEase    time.Duration
	ConnectorEase time.Duration
	ConnectorHold time.Duration
	Easing        tween.Easing
}

// DefaultParams mirrors the stock look: 2.5x growth over 300ms, connectors held for 1s
func DefaultParams() Params {
	return Params{
		HoverScale:    2.5,
		EntityEase:    300 * time.Millisecond,
		ConnectorEase: 500 * time.Millisecond,
		ConnectorHold: time.Second,
		Easing:        tween.QuadraticOut,
	}
}

// NewEffect builds the effect variant for mode
func NewEffect(mode string, p Params, tweens *tween.Set, scheduler *sched.Scheduler) (Effect, error) {
	switch mode {
	case ModeAnimated, "":
		return &Animated{params: p, tweens: tweens, scheduler: scheduler}, nil
	case ModeInstant:
		return &Instant{params: p, tweens: tweens, scheduler: scheduler}, nil
	default:
		return nil, fmt.Errorf("unknown highlight mode %q", mode)
	}
}

func revertKey(c *scene.Connector) sched.Key {
	return sched.Key{Kind: "connector-revert", ID: c.ID}
}

func scaleKey(e *scene.Entity) tween.Key        { return tween.Key{Kind: "scale", ID: e.ID} }
func glowKey(e *scene.Entity) tween.Key         { return tween.Key{Kind: "glow", ID: e.ID} }
func connectorKey(c *scene.Connector) tween.Key { return tween.Key{Kind: "connector", ID: c.ID} }
