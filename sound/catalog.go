package sound

import (
	"fmt"
	"io"
	"math/rand"
	"os"

	"gopkg.in/yaml.v3"
)

// Descriptor names one loadable audio asset. Source is a path relative to
// the asset root or an http(s) URL.
type Descriptor struct {
	Name   string `yaml:"name"`
	Source string `yaml:"source"`
}

// Catalog is the ordered, immutable registry of audio assets.
type Catalog struct {
	entries []Descriptor
	index   map[string]int
}

// NewCatalog builds a catalog. Names must be non-empty and unique.
func NewCatalog(descs ...Descriptor) (*Catalog, error) {
	c := &Catalog{
		entries: make([]Descriptor, 0, len(descs)),
		index:   make(map[string]int, len(descs)),
	}
	for i, d := range descs {
		if d.Name == "" {
			return nil, fmt.Errorf("catalog entry %d: empty name", i)
		}
		if d.Source == "" {
			return nil, fmt.Errorf("catalog entry %q: empty source", d.Name)
		}
		if _, dup := c.index[d.Name]; dup {
			return nil, fmt.Errorf("catalog entry %q: duplicate name", d.Name)
		}
		c.index[d.Name] = len(c.entries)
		c.entries = append(c.entries, d)
	}
	return c, nil
}

type catalogFile struct {
	Audios []Descriptor `yaml:"audios"`
}

// ParseCatalog reads a YAML document of the form
//
//	audios:
//	  - name: bola-01
//	    source: audios/bola-01.wav
func ParseCatalog(r io.Reader) (*Catalog, error) {
	var f catalogFile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		return nil, fmt.Errorf("parsing audio catalog: %w", err)
	}
	return NewCatalog(f.Audios...)
}

// LoadCatalogFile parses the YAML catalog at path.
func LoadCatalogFile(path string) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	c, err := ParseCatalog(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

// All returns the descriptors in catalog order.
func (c *Catalog) All() []Descriptor {
	return append([]Descriptor(nil), c.entries...)
}

// Names returns the asset names in catalog order.
func (c *Catalog) Names() []string {
	names := make([]string, len(c.entries))
	for i, d := range c.entries {
		names[i] = d.Name
	}
	return names
}

// Len returns the number of assets.
func (c *Catalog) Len() int {
	return len(c.entries)
}

// Lookup finds a descriptor by name.
func (c *Catalog) Lookup(name string) (Descriptor, bool) {
	i, ok := c.index[name]
	if !ok {
		return Descriptor{}, false
	}
	return c.entries[i], true
}

// Random picks a descriptor uniformly. It panics on an empty catalog.
func (c *Catalog) Random(rng *rand.Rand) Descriptor {
	return c.entries[rng.Intn(len(c.entries))]
}
