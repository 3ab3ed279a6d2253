package sound

import (
	"context"
	"math/rand"
	"slices"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/Distortions81/soundbox/physics"
)

func readyPool(t *testing.T, names ...string) (*Pool, *fakeBackend) {
	t.Helper()
	files := map[string]string{}
	var d []Descriptor
	for _, n := range names {
		files[n+".wav"] = n
		d = append(d, Descriptor{Name: n, Source: n + ".wav"})
	}
	pool, backend := newTestPool(t, mapOpener{files: files}, d...)
	require.NoError(t, waitReady(t, pool.Load(context.Background())))
	return pool, backend
}

func sounding(id uint64, bind Binding) *physics.Body {
	b := physics.Circle(0, 0, 10, physics.BodyOptions{
		Label:  "ball",
		Plugin: physics.PluginData{Namespace: bind},
	})
	b.ID = id
	return b
}

func silent(id uint64) *physics.Body {
	b := physics.Rectangle(0, 0, 100, 10, physics.BodyOptions{Label: "wall", Static: true})
	b.ID = id
	return b
}

func TestHandleCollisions_TwoPairsPlayInBatchOrder(t *testing.T) {
	pool, backend := readyPool(t, "a", "b")
	p := NewPlugin(pool, WithRand(rand.New(rand.NewSource(1))))
	wall := silent(1)

	n := p.HandleCollisions([]physics.Pair{
		{A: sounding(2, Binding{Audio: "a"}), B: wall},
		{A: wall, B: sounding(3, Binding{Audio: "b"})},
	})

	assert.Equal(t, 2, n)
	assert.Equal(t, []string{"a", "b"}, backend.Started())
	assert.Equal(t, uint64(2), p.Triggered())
}

func TestHandleCollisions_BothBodiesOfAPairSound(t *testing.T) {
	pool, backend := readyPool(t, "a", "b")
	p := NewPlugin(pool)

	n := p.HandleCollisions([]physics.Pair{
		{A: sounding(1, Binding{Audio: "a"}), B: sounding(2, Binding{Audio: "b"})},
	})

	assert.Equal(t, 2, n)
	assert.Equal(t, []string{"a", "b"}, backend.Started())
}

func TestHandleCollisions_SameSoundKTimes(t *testing.T) {
	pool, backend := readyPool(t, "bola-01")
	p := NewPlugin(pool)
	ball := sounding(1, Binding{Audio: "bola-01"})

	const k = 12
	pairs := make([]physics.Pair, k)
	for i := range pairs {
		pairs[i] = physics.Pair{A: ball, B: silent(uint64(100 + i))}
	}

	assert.Equal(t, k, p.HandleCollisions(pairs))
	assert.Len(t, backend.Started(), k)
}

func TestHandleCollisions_UnboundAndNilBodiesContributeNothing(t *testing.T) {
	pool, backend := readyPool(t, "a")
	p := NewPlugin(pool)

	n := p.HandleCollisions([]physics.Pair{{A: silent(1), B: silent(2)}, {A: nil, B: silent(3)}})

	assert.Zero(t, n)
	assert.Empty(t, backend.Started())
}

func TestHandleCollisions_UnknownNameIsSkippedNotFatal(t *testing.T) {
	pool, backend := readyPool(t, "a")
	p := NewPlugin(pool)

	var n int
	assert.NotPanics(t, func() {
		n = p.HandleCollisions([]physics.Pair{
			{A: sounding(1, Binding{Audio: "zzz"}), B: sounding(2, Binding{Audio: "a"})},
		})
	})

	assert.Equal(t, 1, n)
	assert.Equal(t, []string{"a"}, backend.Started())
	assert.Equal(t, uint64(1), p.Skipped())
}

func TestHandleCollisions_NotReadySkipsOrPanicsWhenStrict(t *testing.T) {
	gate := make(chan struct{})
	defer close(gate)
	pool, backend := newTestPool(t, mapOpener{files: map[string]string{"a.wav": "a"}, gate: gate}, descs("a", "a.wav")...)
	pool.Load(context.Background())
	pair := []physics.Pair{{A: sounding(1, Binding{Audio: "a"}), B: silent(2)}}

	lenient := NewPlugin(pool)
	assert.Zero(t, lenient.HandleCollisions(pair))
	assert.Equal(t, uint64(1), lenient.Skipped())

	strict := NewPlugin(pool, WithStrict(true))
	assert.Panics(t, func() { strict.HandleCollisions(pair) })
	assert.Empty(t, backend.Started())
}

func TestHandleCollisions_StrictSkipsFailedAsset(t *testing.T) {
	pool, backend := newTestPool(t, mapOpener{files: map[string]string{"a.wav": "a", "b.wav": "corrupt"}},
		descs("a", "a.wav", "b", "b.wav")...)
	err := waitReady(t, pool.Load(context.Background()))
	var loadErr *LoadError
	require.ErrorAs(t, err, &loadErr)
	require.True(t, loadErr.Partial())

	p := NewPlugin(pool, WithStrict(true))
	var n int
	assert.NotPanics(t, func() {
		n = p.HandleCollisions([]physics.Pair{{A: sounding(1, Binding{Audio: "b"}), B: silent(2)}})
	})

	assert.Zero(t, n)
	assert.Equal(t, uint64(1), p.Skipped())
	assert.Empty(t, backend.Started())
	assert.Equal(t, 1, p.HandleCollisions([]physics.Pair{{A: sounding(3, Binding{Audio: "a"}), B: silent(2)}}))
}

func TestHandleCollisions_PoolBindingStaysInPool(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		all := []string{"bola-01", "bola-02", "bola-02B", "bola-03", "barra-01", "barra-02"}
		m := rapid.IntRange(1, len(all)).Draw(t, "poolSize")
		seed := rapid.Int64().Draw(t, "seed")
		n := rapid.IntRange(1, 60).Draw(t, "collisions")

		files := map[string]string{}
		var d []Descriptor
		for _, name := range all {
			files[name] = name
			d = append(d, Descriptor{Name: name, Source: name})
		}
		c, err := NewCatalog(d...)
		if err != nil {
			t.Fatal(err)
		}
		backend := newFakeBackend()
		pool := NewPool(c, backend, WithOpener(mapOpener{files: files}))
		if err := pool.Load(context.Background()).Wait(context.Background()); err != nil {
			t.Fatal(err)
		}

		choices := all[:m]
		p := NewPlugin(pool, WithRand(rand.New(rand.NewSource(seed))))
		ball := sounding(1, Binding{Pool: choices})
		for i := 0; i < n; i++ {
			p.HandleCollisions([]physics.Pair{{A: ball}})
		}

		started := backend.Started()
		if len(started) != n {
			t.Fatalf("started %d of %d", len(started), n)
		}
		for _, name := range started {
			if !slices.Contains(choices, name) {
				t.Fatalf("%q drawn outside pool %v", name, choices)
			}
		}
	})
}

func TestHandleCollisions_PoolBindingIsUniform(t *testing.T) {
	pool, backend := readyPool(t, "bola-01", "bola-02", "bola-03", "barra-01")
	p := NewPlugin(pool, WithRand(rand.New(rand.NewSource(42))))
	ball := sounding(1, Binding{Pool: []string{"bola-01", "bola-02", "bola-03"}})

	const draws = 30000
	for i := 0; i < draws; i++ {
		p.HandleCollisions([]physics.Pair{{A: ball}})
	}

	counts := map[string]int{}
	for _, name := range backend.Started() {
		counts[name]++
	}
	require.Len(t, counts, 3)
	for name, n := range counts {
		assert.InDelta(t, draws/3, n, draws*0.02, name)
	}
}

func TestHandleCollisions_RandomBindingDrawsFromCatalog(t *testing.T) {
	pool, backend := readyPool(t, "a", "b", "c")
	p := NewPlugin(pool, WithRand(rand.New(rand.NewSource(3))))
	ball := sounding(1, Binding{Random: true})

	for i := 0; i < 300; i++ {
		p.HandleCollisions([]physics.Pair{{A: ball}})
	}

	counts := map[string]int{}
	for _, name := range backend.Started() {
		counts[name]++
	}
	assert.Len(t, counts, 3)
	assert.Equal(t, 300, counts["a"]+counts["b"]+counts["c"])
}

func TestHandleCollisions_MinInterval(t *testing.T) {
	pool, backend := readyPool(t, "a")
	p := NewPlugin(pool, WithMinInterval(time.Hour))
	first := sounding(1, Binding{Audio: "a"})
	second := sounding(2, Binding{Audio: "a"})

	n := p.HandleCollisions([]physics.Pair{{A: first}, {A: first}, {A: second}, {A: first}})

	assert.Equal(t, 2, n)
	assert.Len(t, backend.Started(), 2)
}

func TestHandleCollisions_VolumeByImpact(t *testing.T) {
	pool, backend := readyPool(t, "a")
	p := NewPlugin(pool, WithVolumeByImpact(500))

	p.HandleCollisions([]physics.Pair{{A: sounding(1, Binding{Audio: "a"}), B: silent(2)}})

	assert.Equal(t, []float64{minImpactVolume}, backend.Volumes())
}

func TestBindingOf(t *testing.T) {
	tests := []struct {
		name  string
		value any
		want  Binding
		ok    bool
	}{
		{"value", Binding{Audio: "a"}, Binding{Audio: "a"}, true},
		{"pointer", &Binding{Pool: []string{"a"}}, Binding{Pool: []string{"a"}}, true},
		{"string shorthand", "a", Binding{Audio: "a"}, true},
		{"nil pointer", (*Binding)(nil), Binding{}, false},
		{"other", 42, Binding{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := physics.Circle(0, 0, 1, physics.BodyOptions{Plugin: physics.PluginData{Namespace: tt.value}})
			got, ok := BindingOf(b)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPlugin_AddRejectsUnknownBinding(t *testing.T) {
	pool, _ := readyPool(t, "a")
	p := NewPlugin(pool)
	e := physics.NewEngine(physics.Options{})
	require.NoError(t, e.Use(p))

	err := e.Add(
		sounding(0, Binding{Audio: "a"}),
		sounding(0, Binding{Pool: []string{"a", "ghost"}}),
		physics.Circle(0, 0, 1, physics.BodyOptions{Plugin: physics.PluginData{Namespace: 3.5}}),
		sounding(0, Binding{}),
	)

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnknownAsset)
	assert.ErrorContains(t, err, "unsupported sound binding float64")
	assert.Len(t, e.Bodies(), 1)
}

func TestPlugin_InstallValidatesExistingBodies(t *testing.T) {
	pool, _ := readyPool(t, "a")
	e := physics.NewEngine(physics.Options{})
	require.NoError(t, e.Add(sounding(0, Binding{Audio: "missing"})))

	err := e.Use(NewPlugin(pool))

	assert.ErrorIs(t, err, ErrUnknownAsset)
	assert.Empty(t, e.Plugins())
}

func TestPlugin_PlaysOnEngineCollision(t *testing.T) {
	pool, backend := readyPool(t, "bola-01")
	e := physics.NewEngine(physics.Options{GravityY: 600})
	require.NoError(t, e.Use(NewPlugin(pool)))

	ball := physics.Circle(100, 0, 10, physics.BodyOptions{
		Label:  "ball",
		Plugin: physics.PluginData{Namespace: Binding{Audio: "bola-01"}},
	})
	floor := physics.Rectangle(100, 60, 400, 20, physics.BodyOptions{Label: "floor", Static: true})
	require.NoError(t, e.Add(ball, floor))

	for i := 0; i < 120; i++ {
		e.Step(1.0 / 60.0)
	}

	assert.Equal(t, []string{"bola-01"}, backend.Started())
}

func TestNew_StartsLoading(t *testing.T) {
	backend := newFakeBackend()
	p, err := New(context.Background(), Config{
		Audios:  descs("a", "a.ogg", "b", "b.ogg"),
		Backend: backend,
		Opener:  mapOpener{files: map[string]string{"a.ogg": "a", "b.ogg": "b"}},
		Rand:    rand.New(rand.NewSource(1)),
	})
	require.NoError(t, err)

	require.NoError(t, waitReady(t, p.Ready()))
	assert.Equal(t, PluginName, p.Name())
	assert.Equal(t, []string{"a", "b"}, p.Pool().Catalog().Names())
	assert.NoError(t, p.Pool().Play("b"))
}

func TestNew_RejectsBadCatalog(t *testing.T) {
	_, err := New(context.Background(), Config{Audios: descs("a", "a.ogg", "a", "b.ogg"), Backend: newFakeBackend()})

	assert.ErrorContains(t, err, "duplicate")
}
