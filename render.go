package main

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/Distortions81/soundbox/physics"
	"github.com/Distortions81/soundbox/scene"
)

// Draw renders every body, highlighting recent collisions.
func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(scene.Background)
	for _, b := range g.engine.Bodies() {
		if b.Render.Hidden {
			continue
		}
		g.drawBody(screen, b)
	}

	if g.debug {
		pool := g.sound.Pool()
		msg := fmt.Sprintf("FPS: %.1f  TPS: %.1f\nStep: %.2f ms  Tick: %d\nSounds: %d played, %d skipped",
			ebiten.ActualFPS(), ebiten.ActualTPS(),
			g.lastStepDuration.Seconds()*1000, g.engine.Tick(),
			pool.Started(), g.sound.Skipped())
		if g.paused {
			msg += "\nPAUSED"
		}
		ebitenutil.DebugPrint(screen, msg)
	}
}

// Layout reports the logical screen size used by Ebiten.
func (g *Game) Layout(_, _ int) (int, int) { return g.width, g.height }

func (g *Game) drawBody(screen *ebiten.Image, b *physics.Body) {
	fill := brighten(b.Render.Fill, g.styles.Flash(b.ID))
	x, y := b.Position()

	switch b.Shape {
	case physics.ShapeCircle:
		if fill != nil {
			vector.DrawFilledCircle(screen, float32(x), float32(y), float32(b.Radius), fill, true)
		}
		if b.Render.Stroke != nil {
			vector.StrokeCircle(screen, float32(x), float32(y), float32(b.Radius), lineWidth(b), b.Render.Stroke, true)
		}
	case physics.ShapeRectangle:
		c := b.Corners()
		if fill != nil {
			// A rectangle is a thick line between the midpoints of its short
			// edges.
			x0, y0 := (c[0][0]+c[3][0])/2, (c[0][1]+c[3][1])/2
			x1, y1 := (c[1][0]+c[2][0])/2, (c[1][1]+c[2][1])/2
			vector.StrokeLine(screen, float32(x0), float32(y0), float32(x1), float32(y1), float32(b.Height), fill, true)
		}
		if b.Render.Stroke != nil {
			for i := range c {
				n := c[(i+1)%len(c)]
				vector.StrokeLine(screen, float32(c[i][0]), float32(c[i][1]), float32(n[0]), float32(n[1]), lineWidth(b), b.Render.Stroke, true)
			}
		}
	}
}

func lineWidth(b *physics.Body) float32 {
	if b.Render.LineWidth > 0 {
		return float32(b.Render.LineWidth)
	}
	return 1
}

// brighten mixes clr towards white by amount in [0, 1].
func brighten(clr color.Color, amount float64) color.Color {
	if clr == nil || amount <= 0 {
		return clr
	}
	if amount > 1 {
		amount = 1
	}
	r, g, b, a := clr.RGBA()
	mix := func(v uint32) uint8 {
		f := float64(v>>8) + (255-float64(v>>8))*amount*0.6
		return uint8(f)
	}
	return color.RGBA{mix(r), mix(g), mix(b), uint8(a >> 8)}
}
