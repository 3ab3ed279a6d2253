package sound

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/multierr"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

type asset struct {
	desc  Descriptor
	state atomic.Int32

	// clip and err are written before state moves to a terminal value and
	// never change afterwards.
	clip Clip
	err  error
}

func (a *asset) loadState() LoadState {
	return LoadState(a.state.Load())
}

// Pool loads every catalog asset once and starts playback instances on
// demand.
type Pool struct {
	catalog *Catalog
	backend Backend
	opener  Opener
	logger  *zap.Logger
	limit   int

	assets map[string]*asset
	order  []*asset

	ready    *Ready
	loadOnce sync.Once
	started  atomic.Uint64
}

// PoolOption customizes a Pool.
type PoolOption func(*Pool)

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *zap.Logger) PoolOption {
	return func(p *Pool) {
		if l != nil {
			p.logger = l
		}
	}
}

// WithOpener sets how sources are fetched. The default reads from the
// working directory and http(s) URLs.
func WithOpener(o Opener) PoolOption {
	return func(p *Pool) {
		if o != nil {
			p.opener = o
		}
	}
}

// WithLoadConcurrency caps the number of assets loading at once. Zero or
// less means no cap.
func WithLoadConcurrency(n int) PoolOption {
	return func(p *Pool) { p.limit = n }
}

// NewPool prepares a pool for catalog. Nothing is loaded until Load.
func NewPool(catalog *Catalog, backend Backend, opts ...PoolOption) *Pool {
	p := &Pool{
		catalog: catalog,
		backend: backend,
		opener:  MultiOpener{Local: NewDirOpener("."), Remote: HTTPOpener{}},
		logger:  zap.NewNop(),
		assets:  make(map[string]*asset, catalog.Len()),
		ready:   newReady(),
	}
	for _, opt := range opts {
		opt(p)
	}
	for _, d := range catalog.All() {
		a := &asset{desc: d}
		p.assets[d.Name] = a
		p.order = append(p.order, a)
	}
	return p
}

// Catalog returns the catalog the pool serves.
func (p *Pool) Catalog() *Catalog {
	return p.catalog
}

// Load starts loading every asset concurrently and returns the readiness
// signal. Calling Load again returns the same signal without reloading.
func (p *Pool) Load(ctx context.Context) *Ready {
	p.loadOnce.Do(func() {
		go p.loadAll(ctx)
	})
	return p.ready
}

// Ready returns the readiness signal, settled or not.
func (p *Pool) Ready() *Ready {
	return p.ready
}

func (p *Pool) loadAll(ctx context.Context) {
	start := time.Now()
	var g errgroup.Group
	if p.limit > 0 {
		g.SetLimit(p.limit)
	}
	for _, a := range p.order {
		g.Go(func() error {
			p.loadAsset(ctx, a)
			return nil
		})
	}
	_ = g.Wait()

	var (
		failed []string
		errs   error
	)
	for _, a := range p.order {
		if a.loadState() == StateFailed {
			failed = append(failed, a.desc.Name)
			errs = multierr.Append(errs, a.err)
		}
	}
	if len(failed) == 0 {
		p.logger.Info("audio assets ready",
			zap.Int("assets", len(p.order)),
			zap.Duration("elapsed", time.Since(start)))
		p.ready.settle(nil)
		return
	}
	p.logger.Warn("audio assets failed to load",
		zap.Strings("failed", failed),
		zap.Int("assets", len(p.order)),
		zap.Error(errs))
	p.ready.settle(&LoadError{Failed: failed, Total: len(p.order), Err: errs})
}

func (p *Pool) loadAsset(ctx context.Context, a *asset) {
	a.state.Store(int32(StateLoading))
	clip, err := p.fetch(ctx, a.desc)
	if err != nil {
		a.err = &AssetLoadError{Name: a.desc.Name, Source: a.desc.Source, Err: err}
		a.state.Store(int32(StateFailed))
		return
	}
	a.clip = clip
	a.state.Store(int32(StateReady))
	p.logger.Debug("audio asset loaded", zap.String("name", a.desc.Name), zap.Int("bytes", clip.Len()))
}

func (p *Pool) fetch(ctx context.Context, d Descriptor) (Clip, error) {
	rc, err := p.opener.Open(ctx, d.Source)
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	clip, err := p.backend.Decode(d.Name, d.Source, rc)
	if err != nil {
		return nil, fmt.Errorf("decoding: %w", err)
	}
	return clip, nil
}

// State reports the load state of a named asset.
func (p *Pool) State(name string) (LoadState, error) {
	a, ok := p.assets[name]
	if !ok {
		return StatePending, &UnknownAssetError{Name: name}
	}
	return a.loadState(), nil
}

// Resolve instantiates a fresh, unstarted handle for name.
func (p *Pool) Resolve(name string) (Handle, error) {
	a, ok := p.assets[name]
	if !ok {
		return nil, &UnknownAssetError{Name: name}
	}
	if s := a.loadState(); s != StateReady {
		return nil, &NotReadyError{Name: name, State: s}
	}
	h, err := p.backend.Instantiate(a.clip)
	if err != nil {
		return nil, fmt.Errorf("instantiating %q: %w", name, err)
	}
	return h, nil
}

// Play starts one new playback instance of name at default volume.
func (p *Pool) Play(name string) error {
	return p.PlayRequest(Request{Audio: name})
}

// PlayRequest starts one new playback instance for req. Instances already
// playing are left alone.
func (p *Pool) PlayRequest(req Request) error {
	h, err := p.Resolve(req.Audio)
	if err != nil {
		return err
	}
	if req.Volume > 0 {
		h.SetVolume(req.Volume)
	}
	h.Start()
	p.started.Add(1)
	return nil
}

// Started returns how many playback instances have been started.
func (p *Pool) Started() uint64 {
	return p.started.Load()
}
