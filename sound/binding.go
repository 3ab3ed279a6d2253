package sound

import (
	"errors"
	"fmt"
	"math/rand"

	"github.com/Distortions81/soundbox/physics"
)

// Namespace is the key under physics.PluginData that holds a body's Binding.
const Namespace = "sound"

var errEmptyBinding = errors.New("sound binding names no audio")

// Binding is the sound metadata a scene attaches to a body. Exactly one form
// applies, checked in this order: Audio (fixed name), Pool (uniform pick from
// the listed names), Random (uniform pick from the whole catalog).
type Binding struct {
	Audio  string
	Pool   []string
	Random bool
}

// Request is one playback derived from a collision. Volume <= 0 plays at the
// default volume.
type Request struct {
	Audio     string
	BodyID    uint64
	Intensity float64
	Volume    float64
}

// BindingOf extracts the body's binding. ok is false for bodies without one.
func BindingOf(b *physics.Body) (Binding, bool) {
	v, ok := b.PluginValue(Namespace)
	if !ok {
		return Binding{}, false
	}
	switch bind := v.(type) {
	case Binding:
		return bind, true
	case *Binding:
		if bind == nil {
			return Binding{}, false
		}
		return *bind, true
	case string:
		return Binding{Audio: bind}, true
	}
	return Binding{}, false
}

// Validate checks that every name the binding can produce is in the catalog.
func (b Binding) Validate(c *Catalog) error {
	switch {
	case b.Audio != "":
		if _, ok := c.Lookup(b.Audio); !ok {
			return &UnknownAssetError{Name: b.Audio}
		}
	case len(b.Pool) > 0:
		for _, name := range b.Pool {
			if _, ok := c.Lookup(name); !ok {
				return &UnknownAssetError{Name: name}
			}
		}
	case b.Random:
		if c.Len() == 0 {
			return fmt.Errorf("random sound binding: %w", errEmptyBinding)
		}
	default:
		return errEmptyBinding
	}
	return nil
}

// Pick resolves the binding to one audio name.
func (b Binding) Pick(c *Catalog, rng *rand.Rand) (string, error) {
	switch {
	case b.Audio != "":
		return b.Audio, nil
	case len(b.Pool) > 0:
		return b.Pool[rng.Intn(len(b.Pool))], nil
	case b.Random:
		if c.Len() == 0 {
			return "", fmt.Errorf("random sound binding: %w", errEmptyBinding)
		}
		return c.Random(rng).Name, nil
	}
	return "", errEmptyBinding
}
