package physics

import (
	"image/color"
	"math"

	"github.com/jakecoffman/cp"
)

const defaultDensity = 0.001

// Shape identifies the geometry a body was built with.
type Shape int

const (
	ShapeCircle Shape = iota
	ShapeRectangle
)

// PluginData carries per-plugin metadata keyed by plugin namespace, e.g.
// PluginData{"sound": sound.Binding{Audio: "bola-01"}}.
type PluginData map[string]any

// RenderStyle describes how the renderer should draw a body.
type RenderStyle struct {
	Fill      color.Color
	Stroke    color.Color
	LineWidth float64
	Hidden    bool
}

// BodyOptions mirrors the construction options a scene passes per body.
type BodyOptions struct {
	Label           string
	Static          bool
	Kinematic       bool
	Sensor          bool
	Restitution     float64
	Friction        float64
	Density         float64
	InfiniteInertia bool
	AngularVelocity float64
	Render          RenderStyle
	Plugin          PluginData
}

// Body is a simulated rigid body plus the metadata plugins attach to it.
type Body struct {
	ID     uint64
	Label  string
	Shape  Shape
	Radius float64
	Width  float64
	Height float64
	Sensor bool
	Render RenderStyle
	Plugin PluginData

	body  *cp.Body
	shape *cp.Shape
}

// Circle builds a circular body centered at (x, y).
func Circle(x, y, radius float64, opts BodyOptions) *Body {
	b := &Body{Shape: ShapeCircle, Radius: radius}
	mass := density(opts) * math.Pi * radius * radius
	moment := cp.MomentForCircle(mass, 0, radius, cp.Vector{})
	b.body = newCPBody(mass, moment, opts)
	b.shape = cp.NewCircle(b.body, radius, cp.Vector{})
	b.init(x, y, opts)
	return b
}

// Rectangle builds a box body centered at (x, y).
func Rectangle(x, y, width, height float64, opts BodyOptions) *Body {
	b := &Body{Shape: ShapeRectangle, Width: width, Height: height}
	mass := density(opts) * width * height
	moment := cp.MomentForBox(mass, width, height)
	b.body = newCPBody(mass, moment, opts)
	b.shape = cp.NewBox(b.body, width, height, 0)
	b.init(x, y, opts)
	return b
}

func density(opts BodyOptions) float64 {
	if opts.Density > 0 {
		return opts.Density
	}
	return defaultDensity
}

func newCPBody(mass, moment float64, opts BodyOptions) *cp.Body {
	switch {
	case opts.Static:
		return cp.NewStaticBody()
	case opts.Kinematic:
		return cp.NewKinematicBody()
	}
	if opts.InfiniteInertia {
		moment = math.Inf(1)
	}
	return cp.NewBody(mass, moment)
}

func (b *Body) init(x, y float64, opts BodyOptions) {
	b.Label = opts.Label
	b.Sensor = opts.Sensor
	b.Render = opts.Render
	b.Plugin = opts.Plugin
	if b.Plugin == nil {
		b.Plugin = PluginData{}
	}

	b.body.SetPosition(cp.Vector{X: x, Y: y})
	if opts.AngularVelocity != 0 {
		b.body.SetAngularVelocity(opts.AngularVelocity)
	}
	b.body.UserData = b

	b.shape.SetElasticity(opts.Restitution)
	b.shape.SetFriction(opts.Friction)
	b.shape.SetSensor(opts.Sensor)
	b.shape.SetCollisionType(bodyCollisionType)
}

// PluginValue returns the metadata stored under the plugin namespace.
func (b *Body) PluginValue(namespace string) (any, bool) {
	if b == nil || b.Plugin == nil {
		return nil, false
	}
	v, ok := b.Plugin[namespace]
	return v, ok
}

// Position returns the body's center.
func (b *Body) Position() (float64, float64) {
	if b.body == nil {
		return 0, 0
	}
	p := b.body.Position()
	return p.X, p.Y
}

// Velocity returns the body's linear velocity.
func (b *Body) Velocity() (float64, float64) {
	if b.body == nil {
		return 0, 0
	}
	v := b.body.Velocity()
	return v.X, v.Y
}

// Angle returns the body's rotation in radians.
func (b *Body) Angle() float64 {
	if b.body == nil {
		return 0
	}
	return b.body.Angle()
}

// Corners returns the four world-space corners of a rectangle body.
func (b *Body) Corners() [4][2]float64 {
	var out [4][2]float64
	x, y := b.Position()
	sin, cos := math.Sincos(b.Angle())
	hw, hh := b.Width/2, b.Height/2
	local := [4][2]float64{{-hw, -hh}, {hw, -hh}, {hw, hh}, {-hw, hh}}
	for i, p := range local {
		out[i][0] = x + p[0]*cos - p[1]*sin
		out[i][1] = y + p[0]*sin + p[1]*cos
	}
	return out
}

// Contains reports whether the world point lies inside the body.
func (b *Body) Contains(px, py float64) bool {
	x, y := b.Position()
	dx, dy := px-x, py-y
	switch b.Shape {
	case ShapeCircle:
		return dx*dx+dy*dy <= b.Radius*b.Radius
	case ShapeRectangle:
		sin, cos := math.Sincos(-b.Angle())
		lx := dx*cos - dy*sin
		ly := dx*sin + dy*cos
		return math.Abs(lx) <= b.Width/2 && math.Abs(ly) <= b.Height/2
	}
	return false
}

// Dynamic reports whether the body responds to forces.
func (b *Body) Dynamic() bool {
	return b.body != nil && b.body.GetType() == cp.BODY_DYNAMIC
}
