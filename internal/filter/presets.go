package filter

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Preset is a named, reusable filter set, stored in presets.yaml under the
// config dir.
type Preset struct {
	Name    string `yaml:"name"`
	Filters Set    `yaml:"filters"`
}

// LoadPresets reads the preset file. A missing file is an empty preset list,
// not an error.
func LoadPresets(path string) ([]Preset, error) {
	b, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var presets []Preset
	if err := yaml.Unmarshal(b, &presets); err != nil {
		return nil, fmt.Errorf("parse %s: %w", filepath.Base(path), err)
	}
	for i, p := range presets {
		if p.Name == "" {
			return nil, fmt.Errorf("parse %s: preset %d has no name", filepath.Base(path), i)
		}
	}
	return presets, nil
}

// SavePresets writes the full preset list, creating the directory if needed.
func SavePresets(path string, presets []Preset) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	b, err := yaml.Marshal(presets)
	if err != nil {
		return err
	}
	return os.WriteFile(path, b, 0o644)
}

// FindPreset returns the preset with the given name.
func FindPreset(presets []Preset, name string) (Preset, bool) {
	for _, p := range presets {
		if p.Name == name {
			return p, true
		}
	}
	return Preset{}, false
}
