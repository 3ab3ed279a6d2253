package scene

import "github.com/Distortions81/soundbox/physics"

const (
	StylesPluginName    = "matter-collision-styles"
	StylesPluginVersion = "0.1.0"
)

// CollisionStyles highlights bodies for a few ticks after they start a
// collision. The renderer reads Flash.
type CollisionStyles struct {
	frames int
	flash  map[uint64]int
}

// NewCollisionStyles flashes bodies for frames ticks.
func NewCollisionStyles(frames int) *CollisionStyles {
	if frames < 1 {
		frames = 1
	}
	return &CollisionStyles{frames: frames, flash: make(map[uint64]int)}
}

func (c *CollisionStyles) Name() string    { return StylesPluginName }
func (c *CollisionStyles) Version() string { return StylesPluginVersion }

func (c *CollisionStyles) Install(e *physics.Engine) error {
	e.On(physics.EventCollisionStart, func(ev physics.Event) {
		for _, p := range ev.Pairs {
			c.hit(p.A)
			c.hit(p.B)
		}
	})
	e.On(physics.EventAfterUpdate, func(physics.Event) {
		for id, n := range c.flash {
			if n <= 1 {
				delete(c.flash, id)
				continue
			}
			c.flash[id] = n - 1
		}
	})
	return nil
}

func (c *CollisionStyles) hit(b *physics.Body) {
	if b == nil || b.Sensor {
		return
	}
	// +1 so the afterUpdate of the same tick leaves the full count.
	c.flash[b.ID] = c.frames + 1
}

// Flash returns the remaining highlight for a body in [0, 1].
func (c *CollisionStyles) Flash(id uint64) float64 {
	n, ok := c.flash[id]
	if !ok {
		return 0
	}
	return float64(n) / float64(c.frames)
}
