package main

import (
	"bytes"
	_ "embed"

	"github.com/Distortions81/soundbox/sound"
)

//go:embed audios.yaml
var builtinAudios []byte

// loadCatalog returns the catalog at path, or the built-in one when path is
// empty.
func loadCatalog(path string) (*sound.Catalog, error) {
	if path == "" {
		return sound.ParseCatalog(bytes.NewReader(builtinAudios))
	}
	return sound.LoadCatalogFile(path)
}
