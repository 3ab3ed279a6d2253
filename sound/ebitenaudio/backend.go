// Package ebitenaudio implements sound.Backend on top of ebiten's audio
// context. Assets are fully decoded to 16-bit stereo PCM at load time so
// every playback instance is a cheap player over shared bytes.
package ebitenaudio

import (
	"bytes"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/hajimehoshi/ebiten/v2/audio"
	"github.com/hajimehoshi/ebiten/v2/audio/mp3"
	"github.com/hajimehoshi/ebiten/v2/audio/vorbis"
	"github.com/hajimehoshi/ebiten/v2/audio/wav"

	"github.com/Distortions81/soundbox/sound"
)

const bytesPerFrame = 4

// PCM is a decoded asset: interleaved little-endian int16 stereo frames.
type PCM struct {
	Name       string
	SampleRate int
	Data       []byte
}

func (p *PCM) Len() int { return len(p.Data) }

// Duration in seconds.
func (p *PCM) Duration() float64 {
	if p.SampleRate == 0 {
		return 0
	}
	return float64(len(p.Data)/bytesPerFrame) / float64(p.SampleRate)
}

// Backend decodes wav, ogg/vorbis and mp3 sources.
type Backend struct {
	ctx        *audio.Context
	sampleRate int
	volume     float64
}

// New wraps ctx. volume is the default playback volume (0-1); values outside
// that range mean full volume.
func New(ctx *audio.Context, volume float64) *Backend {
	if volume <= 0 || volume > 1 {
		volume = 1
	}
	return &Backend{ctx: ctx, sampleRate: ctx.SampleRate(), volume: volume}
}

// Decode reads r fully and resamples to the context rate.
func (b *Backend) Decode(name, source string, r io.Reader) (sound.Clip, error) {
	return decode(b.sampleRate, name, source, r)
}

func decode(sampleRate int, name, source string, r io.Reader) (*PCM, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	src := bytes.NewReader(raw)

	var stream io.Reader
	switch ext := strings.ToLower(path.Ext(stripQuery(source))); ext {
	case ".wav":
		stream, err = wav.DecodeWithSampleRate(sampleRate, src)
	case ".ogg", ".oga":
		stream, err = vorbis.DecodeWithSampleRate(sampleRate, src)
	case ".mp3":
		stream, err = mp3.DecodeWithSampleRate(sampleRate, src)
	default:
		return nil, fmt.Errorf("unsupported audio format %q", ext)
	}
	if err != nil {
		return nil, fmt.Errorf("decoding %q: %w", source, err)
	}

	decoded, err := io.ReadAll(stream)
	if err != nil {
		return nil, fmt.Errorf("reading decoded %q: %w", source, err)
	}
	decoded = decoded[:len(decoded)-len(decoded)%bytesPerFrame]
	if len(decoded) == 0 {
		return nil, fmt.Errorf("%q has no audio data", source)
	}
	return &PCM{Name: name, SampleRate: sampleRate, Data: decoded}, nil
}

func stripQuery(source string) string {
	if i := strings.IndexAny(source, "?#"); i >= 0 {
		return source[:i]
	}
	return source
}

// Instantiate creates a new player over the clip's shared bytes.
func (b *Backend) Instantiate(clip sound.Clip) (sound.Handle, error) {
	pcm, ok := clip.(*PCM)
	if !ok {
		return nil, fmt.Errorf("clip %T was not decoded by this backend", clip)
	}
	p := b.ctx.NewPlayerFromBytes(pcm.Data)
	p.SetVolume(b.volume)
	return &handle{player: p, base: b.volume}, nil
}

type handle struct {
	player *audio.Player
	base   float64
}

// SetVolume scales the backend's default volume.
func (h *handle) SetVolume(v float64) { h.player.SetVolume(v * h.base) }

func (h *handle) Start() { h.player.Play() }
