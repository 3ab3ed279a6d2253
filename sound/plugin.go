package sound

import (
	"errors"
	"fmt"
	"math"
	"math/rand"
	"time"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/Distortions81/soundbox/physics"
)

const (
	PluginName    = "matter-sound"
	PluginVersion = "0.2.0"

	minImpactVolume = 0.05
)

// Plugin turns collision-start batches into pool playback. It holds no
// simulation state beyond the random source, the optional throttle and
// counters.
type Plugin struct {
	pool     *Pool
	rng      *rand.Rand
	logger   *zap.Logger
	strict   bool
	fullImp  float64
	throttle *throttle

	triggered uint64
	skipped   uint64
}

// PluginOption customizes a Plugin.
type PluginOption func(*Plugin)

// WithRand injects the random source used for pool and random bindings.
func WithRand(rng *rand.Rand) PluginOption {
	return func(p *Plugin) {
		if rng != nil {
			p.rng = rng
		}
	}
}

// WithPluginLogger sets the logger used for skipped triggers.
func WithPluginLogger(l *zap.Logger) PluginOption {
	return func(p *Plugin) {
		if l != nil {
			p.logger = l
		}
	}
}

// WithStrict makes a trigger against an asset that is not ready panic
// instead of being logged and skipped.
func WithStrict(strict bool) PluginOption {
	return func(p *Plugin) { p.strict = strict }
}

// WithMinInterval stops a body from retriggering the same asset within d.
func WithMinInterval(d time.Duration) PluginOption {
	return func(p *Plugin) { p.throttle = newThrottle(d) }
}

// WithVolumeByImpact scales volume by the pair's relative speed; fullScale
// is the speed that plays at full volume. Zero keeps the default volume.
func WithVolumeByImpact(fullScale float64) PluginOption {
	return func(p *Plugin) { p.fullImp = fullScale }
}

// NewPlugin builds a plugin that plays through pool.
func NewPlugin(pool *Pool, opts ...PluginOption) *Plugin {
	p := &Plugin{
		pool:     pool,
		rng:      rand.New(rand.NewSource(time.Now().UnixNano())),
		logger:   zap.NewNop(),
		throttle: newThrottle(0),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *Plugin) Name() string    { return PluginName }
func (p *Plugin) Version() string { return PluginVersion }

// Pool returns the pool the plugin plays through.
func (p *Plugin) Pool() *Pool { return p.pool }

// Ready returns the pool's readiness signal.
func (p *Plugin) Ready() *Ready { return p.pool.Ready() }

// Install validates the bodies already in the world and subscribes to
// collision-start batches.
func (p *Plugin) Install(e *physics.Engine) error {
	var errs error
	for _, b := range e.Bodies() {
		if err := p.ValidateBody(b); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("body %d: %w", b.ID, err))
		}
	}
	if errs != nil {
		return errs
	}
	e.On(physics.EventCollisionStart, func(ev physics.Event) {
		p.HandleCollisions(ev.Pairs)
	})
	return nil
}

// ValidateBody rejects bindings that reference assets outside the catalog.
func (p *Plugin) ValidateBody(b *physics.Body) error {
	raw, has := b.PluginValue(Namespace)
	if !has {
		return nil
	}
	bind, ok := BindingOf(b)
	if !ok {
		return fmt.Errorf("unsupported sound binding %T", raw)
	}
	return bind.Validate(p.pool.Catalog())
}

// HandleCollisions triggers every sounding body in pairs, in order, and
// returns the number of playback instances started. Nothing is deduplicated:
// the same body in two pairs sounds twice.
func (p *Plugin) HandleCollisions(pairs []physics.Pair) int {
	started := 0
	for _, pair := range pairs {
		if p.trigger(pair.A, pair.B) {
			started++
		}
		if p.trigger(pair.B, pair.A) {
			started++
		}
	}
	return started
}

func (p *Plugin) trigger(body, other *physics.Body) bool {
	if body == nil {
		return false
	}
	bind, ok := BindingOf(body)
	if !ok {
		return false
	}
	name, err := bind.Pick(p.pool.Catalog(), p.rng)
	if err != nil {
		p.skip(body, name, err)
		return false
	}
	if !p.throttle.allow(body.ID, name) {
		return false
	}

	req := Request{Audio: name, BodyID: body.ID, Intensity: impact(body, other)}
	if p.fullImp > 0 {
		req.Volume = math.Max(minImpactVolume, math.Min(1, req.Intensity/p.fullImp))
	}
	if err := p.pool.PlayRequest(req); err != nil {
		// Failed assets are skipped like any other; strict mode only
		// refuses to play ahead of loading.
		var notReady *NotReadyError
		if p.strict && errors.As(err, &notReady) && !notReady.State.Terminal() {
			panic(err)
		}
		p.skip(body, name, err)
		return false
	}
	p.triggered++
	return true
}

func (p *Plugin) skip(body *physics.Body, name string, err error) {
	p.skipped++
	p.logger.Warn("collision sound skipped",
		zap.Uint64("body", body.ID),
		zap.String("label", body.Label),
		zap.String("audio", name),
		zap.Error(err))
}

// Triggered returns the number of playbacks started from collisions.
func (p *Plugin) Triggered() uint64 { return p.triggered }

// Skipped returns the number of triggers dropped because of errors.
func (p *Plugin) Skipped() uint64 { return p.skipped }

// impact is the relative speed of the pair, or the body's own speed when the
// other side is not a tracked body.
func impact(body, other *physics.Body) float64 {
	vx, vy := body.Velocity()
	if other != nil {
		ox, oy := other.Velocity()
		vx -= ox
		vy -= oy
	}
	return math.Hypot(vx, vy)
}
