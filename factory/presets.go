package factory

import (
	"embed"
	"fmt"
	"io/fs"
	"sort"
)

//go:embed catalogs/*.yaml
var catalogFS embed.FS

// Presets returns the embedded demo catalogs, sorted by id.
func Presets() ([]Catalog, error) {
	files, err := fs.Glob(catalogFS, "catalogs/*.yaml")
	if err != nil {
		return nil, err
	}
	presets := make([]Catalog, 0, len(files))
	for _, name := range files {
		data, err := catalogFS.ReadFile(name)
		if err != nil {
			return nil, err
		}
		c, err := Parse(data)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		presets = append(presets, *c)
	}
	sort.Slice(presets, func(i, j int) bool { return presets[i].ID < presets[j].ID })
	return presets, nil
}

// Preset returns one embedded catalog by id, or nil.
func Preset(id string) (*Catalog, error) {
	presets, err := Presets()
	if err != nil {
		return nil, err
	}
	for i := range presets {
		if presets[i].ID == id {
			return &presets[i], nil
		}
	}
	return nil, nil
}
