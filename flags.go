package main

import (
	"math/rand"
	"time"
)

// CLI holds the command-line flags. Every flag can also be set through the
// matching SOUNDBOX_* environment variable.
type CLI struct {
	Width  int `help:"Window width in pixels." default:"960" env:"SOUNDBOX_WIDTH"`
	Height int `help:"Window height in pixels." default:"640" env:"SOUNDBOX_HEIGHT"`

	Catalog           string        `help:"YAML audio catalog (built-in catalog when empty)." env:"SOUNDBOX_CATALOG"`
	AssetDir          string        `help:"Directory local audio sources are resolved against." default:"." env:"SOUNDBOX_ASSET_DIR"`
	Volume            float64       `help:"Default playback volume (0-1)." default:"0.8" env:"SOUNDBOX_VOLUME"`
	LoadTimeout       time.Duration `help:"How long to wait for audio before giving up." default:"30s" env:"SOUNDBOX_LOAD_TIMEOUT"`
	LoadConcurrency   int           `help:"Assets loaded at once (0 = all)." default:"0" env:"SOUNDBOX_LOAD_CONCURRENCY"`
	AllowPartial      bool          `help:"Start even if some audio assets fail to load." env:"SOUNDBOX_ALLOW_PARTIAL"`
	StrictAudio       bool          `help:"Panic when a collision plays an asset that is not loaded." env:"SOUNDBOX_STRICT_AUDIO"`
	RetriggerInterval time.Duration `help:"Minimum time before a body replays the same sound (0 = no limit)." default:"0s" env:"SOUNDBOX_RETRIGGER_INTERVAL"`
	VolumeByImpact    float64       `help:"Impact speed that plays at full volume (0 = fixed volume)." default:"0" env:"SOUNDBOX_VOLUME_BY_IMPACT"`
	RandomBalls       bool          `help:"Balls play a random catalog sound on every collision." env:"SOUNDBOX_RANDOM_BALLS"`
	Seed              int64         `help:"Seed for sound selection (0 = time based)." default:"0" env:"SOUNDBOX_SEED"`

	Debug      bool   `help:"Verbose logging and the FPS/sound overlay." short:"d" env:"SOUNDBOX_DEBUG"`
	CPUProfile string `help:"Write a CPU profile to this path." type:"path"`
}

// selectionRand returns the random source used to pick sounds.
func (c *CLI) selectionRand() *rand.Rand {
	seed := c.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return rand.New(rand.NewSource(seed))
}
