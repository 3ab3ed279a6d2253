// Package scene assembles the sandbox world: walls, rotating bars, sensors
// and the sounding balls.
package scene

import (
	"fmt"
	"image/color"

	"github.com/Distortions81/soundbox/physics"
	"github.com/Distortions81/soundbox/sound"
)

const (
	wallThickness = 60
	barHeight     = 40
	ballRadius    = 20
	sensorSize    = 10

	// Per-tick rotations at 60 TPS, expressed as angular velocity.
	barFastSpin = 0.06 * 60
	barSlowSpin = 0.03 * 60
)

var (
	Background = color.RGBA{0x1B, 0xA1, 0x58, 0xFF}
	barColors  = []color.RGBA{{0xF6, 0x6D, 0x63, 0xFF}, {0xE2, 0xB3, 0x3D, 0xFF}}
	white      = color.RGBA{0xFF, 0xFF, 0xFF, 0xFF}
	wallColor  = color.RGBA{0x14, 0x7A, 0x43, 0xFF}
	ballColor  = color.RGBA{0xF2, 0xF2, 0xF2, 0xFF}
)

// Options sizes the world and picks how balls are bound to sounds.
type Options struct {
	Width, Height float64
	// RandomBalls binds every ball to a random catalog entry per collision
	// instead of a fixed asset.
	RandomBalls bool
}

// Scene holds the assembled bodies by role.
type Scene struct {
	Walls   []*physics.Body
	Bars    []*physics.Body
	Sensors []*physics.Body
	Balls   []*physics.Body
}

// Build adds the sandbox bodies to e. Plugins must already be installed so
// their validators see every body.
func Build(e *physics.Engine, opts Options) (*Scene, error) {
	if opts.Width <= 0 || opts.Height <= 0 {
		return nil, fmt.Errorf("scene size %vx%v: width and height are required", opts.Width, opts.Height)
	}
	s := &Scene{
		Walls:   walls(opts.Width, opts.Height),
		Bars:    bars(opts.Width, opts.Height),
		Sensors: sensors(),
		Balls:   balls(opts.RandomBalls),
	}
	for _, group := range [][]*physics.Body{s.Walls, s.Bars, s.Sensors, s.Balls} {
		if err := e.Add(group...); err != nil {
			return nil, fmt.Errorf("building scene: %w", err)
		}
	}
	return s, nil
}

func walls(w, h float64) []*physics.Body {
	style := physics.RenderStyle{Fill: wallColor}
	wall := func(label string, friction float64) physics.BodyOptions {
		return physics.BodyOptions{Label: label, Static: true, Restitution: 1, Friction: friction, Render: style}
	}
	return []*physics.Body{
		physics.Rectangle(w/2, -wallThickness/2, w, wallThickness, wall("ceiling", 0.1)),
		physics.Rectangle(w/2, h+wallThickness/2, w, wallThickness, wall("ground", 0)),
		physics.Rectangle(-wallThickness/2, h/2, wallThickness, h, wall("left", 0.1)),
		physics.Rectangle(w+wallThickness/2, h/2, wallThickness, h, wall("right", 0.1)),
	}
}

func bars(w, h float64) []*physics.Body {
	bar := func(i int, x, spin float64, audio string) *physics.Body {
		return physics.Rectangle(x, h/2, h/3, barHeight, physics.BodyOptions{
			Label:           audio,
			Kinematic:       true,
			Restitution:     1,
			AngularVelocity: spin,
			Render:          physics.RenderStyle{Fill: barColors[i]},
			Plugin:          physics.PluginData{sound.Namespace: sound.Binding{Audio: audio}},
		})
	}
	return []*physics.Body{
		bar(0, w/3, barFastSpin, "barra-01"),
		bar(1, w*2/3, barSlowSpin, "barra-02"),
	}
}

func sensors() []*physics.Body {
	out := make([]*physics.Body, 6)
	for i := range out {
		out[i] = physics.Rectangle(100, 400, sensorSize, sensorSize, physics.BodyOptions{
			Label:  fmt.Sprintf("sensor-%d", i+1),
			Sensor: true,
			Render: physics.RenderStyle{Stroke: white, LineWidth: 1},
		})
	}
	return out
}

func balls(random bool) []*physics.Body {
	type spot struct {
		x, y  float64
		audio string
	}
	spots := []spot{
		{200, 250, "bola-01"},
		{400, 250, "bola-02"},
		{600, 250, "bola-02B"},
		{600, 250, "bola-03"},
	}
	out := make([]*physics.Body, len(spots))
	for i, s := range spots {
		bind := sound.Binding{Audio: s.audio}
		if random {
			bind = sound.Binding{Random: true}
		}
		out[i] = physics.Circle(s.x, s.y, ballRadius, physics.BodyOptions{
			Label:           s.audio,
			Restitution:     0.8,
			Density:         0.0001,
			InfiniteInertia: true,
			Render:          physics.RenderStyle{Fill: ballColor},
			Plugin:          physics.PluginData{sound.Namespace: bind},
		})
	}
	return out
}
