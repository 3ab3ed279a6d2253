package sound

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"strings"
	"sync"
)

type fakeClip struct {
	name string
	data []byte
}

func (c *fakeClip) Len() int { return len(c.data) }

type fakeHandle struct {
	backend *fakeBackend
	name    string
	volume  float64
}

func (h *fakeHandle) SetVolume(v float64) { h.volume = v }

func (h *fakeHandle) Start() {
	h.backend.mu.Lock()
	defer h.backend.mu.Unlock()
	h.backend.started = append(h.backend.started, h.name)
	h.backend.volumes = append(h.backend.volumes, h.volume)
}

// fakeBackend decodes anything except the literal payload "corrupt" and
// records every started handle.
type fakeBackend struct {
	mu       sync.Mutex
	decoded  map[string]int
	started  []string
	volumes  []float64
	failInst bool
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{decoded: make(map[string]int)}
}

func (b *fakeBackend) Decode(name, _ string, r io.Reader) (Clip, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	if string(data) == "corrupt" {
		return nil, errors.New("bad header")
	}
	b.mu.Lock()
	b.decoded[name]++
	b.mu.Unlock()
	return &fakeClip{name: name, data: data}, nil
}

func (b *fakeBackend) Instantiate(c Clip) (Handle, error) {
	if b.failInst {
		return nil, errors.New("no output device")
	}
	return &fakeHandle{backend: b, name: c.(*fakeClip).name, volume: 1}, nil
}

func (b *fakeBackend) Started() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]string(nil), b.started...)
}

func (b *fakeBackend) Volumes() []float64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]float64(nil), b.volumes...)
}

func (b *fakeBackend) DecodeCount(name string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.decoded[name]
}

// mapOpener serves sources from memory. A non-nil gate blocks every Open
// until it is closed.
type mapOpener struct {
	files map[string]string
	gate  chan struct{}
}

func (o mapOpener) Open(ctx context.Context, source string) (io.ReadCloser, error) {
	if o.gate != nil {
		select {
		case <-o.gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	data, ok := o.files[source]
	if !ok {
		return nil, fs.ErrNotExist
	}
	return io.NopCloser(strings.NewReader(data)), nil
}

func descs(pairs ...string) []Descriptor {
	out := make([]Descriptor, 0, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		out = append(out, Descriptor{Name: pairs[i], Source: pairs[i+1]})
	}
	return out
}
