package physics

import (
	"fmt"
	"math"

	"github.com/jakecoffman/cp"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

const (
	bodyCollisionType cp.CollisionType = 1

	mouseMaxForce  = 50000
	mouseLerp      = 0.25
	mouseErrorBias = 0.15
)

// Options configures a new Engine.
type Options struct {
	GravityX, GravityY float64
	Iterations         int
	Logger             *zap.Logger
}

// Engine owns the rigid-body world and the plugin/event surface exposed to
// scene code.
type Engine struct {
	space  *cp.Space
	logger *zap.Logger

	bodies   []*Body
	nextID   uint64
	tick     uint64
	plugins  []Plugin
	names    map[string]string
	handlers map[EventName][]Handler

	pending []Pair
	seen    map[*cp.Arbiter]struct{}

	mouseBody  *cp.Body
	mouseJoint *cp.Constraint
	mouseX     float64
	mouseY     float64
}

// NewEngine creates an empty world.
func NewEngine(opts Options) *Engine {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	space := cp.NewSpace()
	space.SetGravity(cp.Vector{X: opts.GravityX, Y: opts.GravityY})
	if opts.Iterations > 0 {
		space.Iterations = uint(opts.Iterations)
	}

	e := &Engine{
		space:     space,
		logger:    logger,
		names:     make(map[string]string),
		handlers:  make(map[EventName][]Handler),
		seen:      make(map[*cp.Arbiter]struct{}),
		mouseBody: cp.NewKinematicBody(),
	}

	handler := space.NewWildcardCollisionHandler(bodyCollisionType)
	handler.BeginFunc = e.collisionBegin
	return e
}

// Use installs plugins in order. A plugin name may only be installed once.
func (e *Engine) Use(plugins ...Plugin) error {
	for _, p := range plugins {
		if p == nil {
			continue
		}
		name := p.Name()
		if v, ok := e.names[name]; ok {
			return fmt.Errorf("plugin %s@%s already installed (have %s)", name, p.Version(), v)
		}
		if err := p.Install(e); err != nil {
			return fmt.Errorf("installing plugin %s@%s: %w", name, p.Version(), err)
		}
		e.names[name] = p.Version()
		e.plugins = append(e.plugins, p)
		e.logger.Debug("plugin installed", zap.String("plugin", name), zap.String("version", p.Version()))
	}
	return nil
}

// Plugins returns the installed plugins in installation order.
func (e *Engine) Plugins() []Plugin {
	return append([]Plugin(nil), e.plugins...)
}

// On registers fn for the named event.
func (e *Engine) On(name EventName, fn Handler) {
	if fn == nil {
		return
	}
	e.handlers[name] = append(e.handlers[name], fn)
}

// Emit delivers ev to every handler registered for ev.Name in registration
// order.
func (e *Engine) Emit(ev Event) {
	for _, fn := range e.handlers[ev.Name] {
		fn(ev)
	}
}

// Add validates the bodies against installed plugins and adds the valid ones
// to the world. Rejected bodies are reported together.
func (e *Engine) Add(bodies ...*Body) error {
	var errs error
	for _, b := range bodies {
		if b == nil {
			continue
		}
		if err := e.validate(b); err != nil {
			label := b.Label
			if label == "" {
				label = "unlabeled body"
			}
			errs = multierr.Append(errs, fmt.Errorf("%s: %w", label, err))
			continue
		}
		e.nextID++
		b.ID = e.nextID
		e.space.AddBody(b.body)
		e.space.AddShape(b.shape)
		e.bodies = append(e.bodies, b)
	}
	return errs
}

func (e *Engine) validate(b *Body) error {
	var errs error
	for _, p := range e.plugins {
		if v, ok := p.(BodyValidator); ok {
			errs = multierr.Append(errs, v.ValidateBody(b))
		}
	}
	return errs
}

// Remove takes bodies out of the world.
func (e *Engine) Remove(bodies ...*Body) {
	for _, b := range bodies {
		for i, have := range e.bodies {
			if have != b {
				continue
			}
			e.space.RemoveShape(b.shape)
			e.space.RemoveBody(b.body)
			e.bodies = append(e.bodies[:i], e.bodies[i+1:]...)
			break
		}
	}
}

// Bodies returns the bodies currently in the world.
func (e *Engine) Bodies() []*Body {
	return append([]*Body(nil), e.bodies...)
}

// Tick returns the number of completed steps.
func (e *Engine) Tick() uint64 {
	return e.tick
}

// Step advances the world by dt seconds. Collision pairs that began during
// the step are delivered as one collisionStart batch.
func (e *Engine) Step(dt float64) {
	e.tick++
	e.Emit(Event{Name: EventBeforeUpdate, Tick: e.tick})
	e.updateMouse(dt)

	e.pending = e.pending[:0]
	clear(e.seen)
	e.space.Step(dt)

	if len(e.pending) > 0 {
		pairs := append([]Pair(nil), e.pending...)
		e.Emit(Event{Name: EventCollisionStart, Tick: e.tick, Pairs: pairs})
	}
	e.Emit(Event{Name: EventAfterUpdate, Tick: e.tick})
}

// collisionBegin runs once per shape owning the wildcard handler, so an
// arbiter between two of our shapes is seen twice; the seen set keeps one.
func (e *Engine) collisionBegin(arb *cp.Arbiter, _ *cp.Space, _ interface{}) bool {
	if _, ok := e.seen[arb]; ok {
		return true
	}
	e.seen[arb] = struct{}{}

	a, b := arb.Bodies()
	pa, _ := a.UserData.(*Body)
	pb, _ := b.UserData.(*Body)
	if pa == nil && pb == nil {
		return true
	}
	e.pending = append(e.pending, Pair{A: pa, B: pb})
	return true
}

// BodyAt returns the topmost dynamic body containing the point.
func (e *Engine) BodyAt(x, y float64) *Body {
	for i := len(e.bodies) - 1; i >= 0; i-- {
		b := e.bodies[i]
		if b.Dynamic() && !b.Sensor && b.Contains(x, y) {
			return b
		}
	}
	return nil
}

// Grab attaches the mouse to the dynamic body under (x, y).
func (e *Engine) Grab(x, y float64) bool {
	e.Release()
	target := e.BodyAt(x, y)
	if target == nil {
		return false
	}
	point := cp.Vector{X: x, Y: y}
	e.mouseX, e.mouseY = x, y
	e.mouseBody.SetPosition(point)

	joint := cp.NewPivotJoint2(e.mouseBody, target.body, cp.Vector{}, target.body.WorldToLocal(point))
	joint.SetMaxForce(mouseMaxForce)
	joint.SetErrorBias(math.Pow(1.0-mouseErrorBias, 60.0))
	e.mouseJoint = e.space.AddConstraint(joint)
	return true
}

// Drag moves the mouse anchor.
func (e *Engine) Drag(x, y float64) {
	e.mouseX, e.mouseY = x, y
}

// Release detaches the mouse from any grabbed body.
func (e *Engine) Release() {
	if e.mouseJoint == nil {
		return
	}
	e.space.RemoveConstraint(e.mouseJoint)
	e.mouseJoint = nil
}

// Dragging reports whether a body is attached to the mouse.
func (e *Engine) Dragging() bool {
	return e.mouseJoint != nil
}

func (e *Engine) updateMouse(dt float64) {
	if e.mouseJoint == nil || dt <= 0 {
		return
	}
	pos := e.mouseBody.Position()
	next := pos.Lerp(cp.Vector{X: e.mouseX, Y: e.mouseY}, mouseLerp)
	e.mouseBody.SetVelocityVector(next.Sub(pos).Mult(1 / dt))
	e.mouseBody.SetPosition(next)
}
