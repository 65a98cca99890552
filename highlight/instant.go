package highlight

import (
	"github.com/lixenwraith/dotfield/engine/sched"
	"github.com/lixenwraith/dotfield/scene"
	"github.com/lixenwraith/dotfield/tween"
)

// Instant snaps every value to its target
// Tweens left over from a previous Animated effect are cancelled so they cannot overwrite the snap
type Instant struct {
	params    Params
	tweens    *tween.Set
	scheduler *sched.Scheduler
}

func (i *Instant) Name() string { return ModeInstant }

func (i *Instant) Emphasize(e *scene.Entity) {
	i.snap(e, i.params.HoverScale, 1)
}

func (i *Instant) Restore(e *scene.Entity) {
	i.snap(e, 1, 0)
}

func (i *Instant) snap(e *scene.Entity, scale, glow float64) {
	i.tweens.Cancel(scaleKey(e))
	i.tweens.Cancel(glowKey(e))
	e.Scale = scale
	e.Glow = glow
}

func (i *Instant) FlashConnector(c *scene.Connector) {
	i.tweens.Cancel(connectorKey(c))
	c.Highlight = 1
	i.scheduler.After(revertKey(c), i.params.ConnectorHold, func() {
		c.Highlight = 0
	})
}
