// Package config resolves where worktrack points and how it talks to the
// API. Precedence: command-line flags > environment > config file.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/caarlos0/env/v11"
)

// Profile is one named API target in the config file.
type Profile struct {
	APIURL string `json:"apiUrl"`
	Token  string `json:"token,omitempty"`

	// DefaultClient preselects the top of the hierarchy when the TUI opens.
	DefaultClient string `json:"defaultClient,omitempty"`
}

type TUIConfig struct {
	// Glyphs selects the glyph set ("unicode", "ascii").
	Glyphs string `json:"glyphs,omitempty"`
	// ChatChannel overrides the chat channel id derived from the project.
	ChatChannel string `json:"chatChannel,omitempty"`
}

type File struct {
	CurrentProfile string             `json:"currentProfile,omitempty"`
	Profiles       map[string]Profile `json:"profiles,omitempty"`
	TUI            *TUIConfig         `json:"tui,omitempty"`
}

// envOverrides is the environment overlay, parsed with caarlos0/env.
type envOverrides struct {
	APIURL  string `env:"WORKTRACK_API_URL"`
	Token   string `env:"WORKTRACK_TOKEN"`
	Profile string `env:"WORKTRACK_PROFILE"`
}

// Resolved is the effective configuration after merging all sources.
type Resolved struct {
	APIURL        string
	Token         string
	ProfileName   string
	DefaultClient string
	TUI           TUIConfig
}

func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".worktrack"), nil
}

func filePath() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// PresetsPath is where named filter presets live.
func PresetsPath() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "presets.yaml"), nil
}

// Load reads the config file. A missing file yields an empty config.
func Load() (*File, error) {
	path, err := filePath()
	if err != nil {
		return nil, err
	}
	return loadFrom(path)
}

func loadFrom(path string) (*File, error) {
	b, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return &File{}, nil
	}
	if err != nil {
		return nil, err
	}
	var f File
	if err := json.Unmarshal(b, &f); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return &f, nil
}

// Save writes the config file, creating ~/.worktrack if needed.
func (f *File) Save() error {
	path, err := filePath()
	if err != nil {
		return err
	}
	return f.saveTo(path)
}

func (f *File) saveTo(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	b, err := json.MarshalIndent(f, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(b, '\n'), 0o600)
}

// ProfileNames returns the configured profile names, sorted.
func (f *File) ProfileNames() []string {
	names := make([]string, 0, len(f.Profiles))
	for name := range f.Profiles {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Flags carries the command-line overrides into Resolve.
type Flags struct {
	APIURL  string
	Token   string
	Profile string
}

// Resolve merges flags > env > file into the effective configuration.
// An empty APIURL is allowed here; commands that need the API reject it
// with a pointer to `worktrack config`.
func Resolve(f *File, flags Flags) (Resolved, error) {
	var ov envOverrides
	if err := env.Parse(&ov); err != nil {
		return Resolved{}, fmt.Errorf("parse env: %w", err)
	}

	name := firstNonEmpty(flags.Profile, ov.Profile, f.CurrentProfile)
	var prof Profile
	if name != "" {
		p, ok := f.Profiles[name]
		if !ok && (flags.Profile != "" || ov.Profile != "") {
			// Only an explicit flag/env profile that does not exist is an
			// error; a stale currentProfile falls through to overrides.
			return Resolved{}, fmt.Errorf("unknown profile: %q", name)
		}
		prof = p
	}

	r := Resolved{
		APIURL:        firstNonEmpty(flags.APIURL, ov.APIURL, prof.APIURL),
		Token:         firstNonEmpty(flags.Token, ov.Token, prof.Token),
		ProfileName:   name,
		DefaultClient: prof.DefaultClient,
	}
	if f.TUI != nil {
		r.TUI = *f.TUI
	}
	return r, nil
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
