// Package sound plays audio when physics bodies collide. A Pool preloads a
// Catalog of assets through a Backend and exposes a one-shot Ready signal; a
// Plugin installed into a physics.Engine maps collision-start batches to
// Pool playback using each body's Binding.
package sound

import (
	"context"
	"math/rand"
	"time"

	"go.uber.org/zap"
)

// Config gathers everything New needs.
type Config struct {
	Audios  []Descriptor
	Backend Backend

	Opener          Opener
	Logger          *zap.Logger
	Rand            *rand.Rand
	LoadConcurrency int
	MinInterval     time.Duration
	Strict          bool
	// VolumeByImpact is the relative speed that plays at full volume. Zero
	// plays every collision at the default volume.
	VolumeByImpact float64
}

// New builds the catalog, pool and plugin and starts loading. Observe the
// outcome through the returned plugin's Ready signal.
func New(ctx context.Context, cfg Config) (*Plugin, error) {
	catalog, err := NewCatalog(cfg.Audios...)
	if err != nil {
		return nil, err
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	pool := NewPool(catalog, cfg.Backend,
		WithLogger(logger.Named("pool")),
		WithOpener(cfg.Opener),
		WithLoadConcurrency(cfg.LoadConcurrency),
	)
	plugin := NewPlugin(pool,
		WithRand(cfg.Rand),
		WithPluginLogger(logger.Named("trigger")),
		WithStrict(cfg.Strict),
		WithMinInterval(cfg.MinInterval),
		WithVolumeByImpact(cfg.VolumeByImpact),
	)
	pool.Load(ctx)
	return plugin, nil
}
