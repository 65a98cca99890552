package highlight

import (
	"github.com/lixenwraith/dotfield/engine/sched"
	"github.com/lixenwraith/dotfield/scene"
	"github.com/lixenwraith/dotfield/tween"
)

// Animated eases every change over time
type Animated struct {
	params    Params
	tweens    *tween.Set
	scheduler *sched.Scheduler
}

func (a *Animated) Name() string { return ModeAnimated }

func (a *Animated) Emphasize(e *scene.Entity) {
	a.ease(e, a.params.HoverScale, 1)
}

func (a *Animated) Restore(e *scene.Entity) {
	a.ease(e, 1, 0)
}

func (a *Animated) ease(e *scene.Entity, scale, glow float64) {
	p := a.params
	a.tweens.To(scaleKey(e), e.Scale, scale, p.EntityEase, p.Easing, func(v float64) { e.Scale = v })
	a.tweens.To(glowKey(e), e.Glow, glow, p.EntityEase, p.Easing, func(v float64) { e.Glow = v })
}

func (a *Animated) FlashConnector(c *scene.Connector) {
	p := a.params
	set := func(v float64) { c.Highlight = v }

	a.tweens.To(connectorKey(c), c.Highlight, 1, p.ConnectorEase, p.Easing, set)
	a.scheduler.After(revertKey(c), p.ConnectorHold, func() {
		a.tweens.To(connectorKey(c), c.Highlight, 0, p.ConnectorEase, p.Easing, set)
	})
}
