package main

import (
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/Distortions81/soundbox/physics"
	"github.com/Distortions81/soundbox/scene"
	"github.com/Distortions81/soundbox/sound"
)

// Game drives the physics engine from ebiten's update loop and draws it.
type Game struct {
	engine *physics.Engine
	scene  *scene.Scene
	sound  *sound.Plugin
	styles *scene.CollisionStyles

	width, height int
	debug         bool
	paused        bool

	lastStepDuration time.Duration
}

func newGame(engine *physics.Engine, sc *scene.Scene, plugin *sound.Plugin, styles *scene.CollisionStyles, cli *CLI) *Game {
	return &Game{
		engine: engine,
		scene:  sc,
		sound:  plugin,
		styles: styles,
		width:  cli.Width,
		height: cli.Height,
		debug:  cli.Debug,
	}
}

// Update handles input and advances the world one tick.
func (g *Game) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyF3) {
		g.debug = !g.debug
	}
	if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		g.paused = !g.paused
	}
	g.handleMouse()

	if g.paused {
		return nil
	}
	start := time.Now()
	g.engine.Step(stepDt)
	g.lastStepDuration = time.Since(start)
	return nil
}
