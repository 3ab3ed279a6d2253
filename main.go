package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"

	"github.com/alecthomas/kong"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/audio"
	"go.uber.org/zap"

	"github.com/Distortions81/soundbox/physics"
	"github.com/Distortions81/soundbox/scene"
	"github.com/Distortions81/soundbox/sound"
	"github.com/Distortions81/soundbox/sound/ebitenaudio"
)

func main() {
	var cli CLI
	kong.Parse(&cli,
		kong.Name("soundbox"),
		kong.Description("Physics sandbox where colliding bodies play sounds."),
		kong.UsageOnError(),
	)
	if err := run(&cli); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(cli *CLI) error {
	logger, err := newLogger(cli.Debug)
	if err != nil {
		return fmt.Errorf("initializing logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	if cli.CPUProfile != "" {
		stop, err := startCPUProfile(cli.CPUProfile)
		if err != nil {
			return err
		}
		defer stop()
		logger.Info("cpu profiling enabled", zap.String("path", cli.CPUProfile))
	}

	catalog, err := loadCatalog(cli.Catalog)
	if err != nil {
		return err
	}

	ctx := context.Background()
	audioCtx := audio.NewContext(audioSampleRate)
	plugin, err := sound.New(ctx, sound.Config{
		Audios:  catalog.All(),
		Backend: ebitenaudio.New(audioCtx, cli.Volume),
		Opener: sound.MultiOpener{
			Local:  sound.NewDirOpener(cli.AssetDir),
			Remote: sound.HTTPOpener{Client: &http.Client{Timeout: httpFetchTimeout}},
		},
		Logger:          logger.Named("sound"),
		Rand:            cli.selectionRand(),
		LoadConcurrency: cli.LoadConcurrency,
		MinInterval:     cli.RetriggerInterval,
		Strict:          cli.StrictAudio,
		VolumeByImpact:  cli.VolumeByImpact,
	})
	if err != nil {
		return err
	}
	if err := awaitAudio(ctx, cli, plugin, logger); err != nil {
		return err
	}

	engine := physics.NewEngine(physics.Options{Logger: logger.Named("physics")})
	styles := scene.NewCollisionStyles(flashFrames)
	if err := engine.Use(plugin, styles); err != nil {
		return err
	}
	sc, err := scene.Build(engine, scene.Options{
		Width:       float64(cli.Width),
		Height:      float64(cli.Height),
		RandomBalls: cli.RandomBalls,
	})
	if err != nil {
		return err
	}

	g := newGame(engine, sc, plugin, styles, cli)
	ebiten.SetWindowSize(cli.Width, cli.Height)
	ebiten.SetWindowTitle(windowTitle)
	ebiten.SetTPS(defaultTPS)
	if err := ebiten.RunGame(g); err != nil && !errors.Is(err, ebiten.Termination) {
		return err
	}
	logger.Info("sandbox stopped",
		zap.Uint64("ticks", engine.Tick()),
		zap.Uint64("sounds", plugin.Triggered()),
		zap.Uint64("skipped", plugin.Skipped()))
	return nil
}

// awaitAudio blocks until the catalog has loaded. A partial failure is
// tolerated only with --allow-partial and at least one usable asset.
func awaitAudio(ctx context.Context, cli *CLI, plugin *sound.Plugin, logger *zap.Logger) error {
	waitCtx, cancel := context.WithTimeout(ctx, cli.LoadTimeout)
	defer cancel()

	err := plugin.Ready().Wait(waitCtx)
	if err == nil {
		return nil
	}
	var loadErr *sound.LoadError
	if !errors.As(err, &loadErr) {
		return fmt.Errorf("waiting for audio: %w", err)
	}
	if !cli.AllowPartial || !loadErr.Partial() {
		return err
	}
	logger.Warn("starting with partial audio", zap.Strings("failed", loadErr.Failed))
	return nil
}
