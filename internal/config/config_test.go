package config

import (
	"path/filepath"
	"reflect"
	"testing"
)

func TestFile_SaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")

	// Missing file => empty config.
	f0, err := loadFrom(path)
	if err != nil {
		t.Fatalf("loadFrom (missing): %v", err)
	}
	if f0.CurrentProfile != "" || len(f0.Profiles) != 0 {
		t.Fatalf("expected empty config, got %#v", f0)
	}

	want := &File{
		CurrentProfile: "staging",
		Profiles: map[string]Profile{
			"staging": {APIURL: "https://staging.example.com", Token: "st-token", DefaultClient: "cl-7"},
			"prod":    {APIURL: "https://track.example.com"},
		},
		TUI: &TUIConfig{Glyphs: "ascii"},
	}
	if err := want.saveTo(path); err != nil {
		t.Fatalf("saveTo: %v", err)
	}
	got, err := loadFrom(path)
	if err != nil {
		t.Fatalf("loadFrom: %v", err)
	}
	if !reflect.DeepEqual(want, got) {
		t.Fatalf("roundtrip mismatch:\nwant: %#v\ngot:  %#v", want, got)
	}
	if names := got.ProfileNames(); !reflect.DeepEqual(names, []string{"prod", "staging"}) {
		t.Fatalf("ProfileNames = %v", names)
	}
}

func TestResolve_PrecedenceFlagOverEnvOverFile(t *testing.T) {
	f := &File{
		CurrentProfile: "staging",
		Profiles: map[string]Profile{
			"staging": {APIURL: "https://file.example.com", Token: "file-token", DefaultClient: "cl-1"},
		},
	}

	t.Setenv("WORKTRACK_API_URL", "https://env.example.com")
	t.Setenv("WORKTRACK_TOKEN", "")
	t.Setenv("WORKTRACK_PROFILE", "")

	r, err := Resolve(f, Flags{APIURL: "https://flag.example.com"})
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if r.APIURL != "https://flag.example.com" {
		t.Fatalf("flag should win, got %q", r.APIURL)
	}
	if r.Token != "file-token" {
		t.Fatalf("file token should fill the gap, got %q", r.Token)
	}
	if r.DefaultClient != "cl-1" {
		t.Fatalf("expected profile defaultClient, got %q", r.DefaultClient)
	}

	// Without the flag, env wins over the file.
	r, err = Resolve(f, Flags{})
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if r.APIURL != "https://env.example.com" {
		t.Fatalf("env should win over file, got %q", r.APIURL)
	}
}

func TestResolve_UnknownExplicitProfileIsAnError(t *testing.T) {
	t.Setenv("WORKTRACK_API_URL", "")
	t.Setenv("WORKTRACK_TOKEN", "")
	t.Setenv("WORKTRACK_PROFILE", "")

	f := &File{Profiles: map[string]Profile{"prod": {APIURL: "https://x"}}}
	if _, err := Resolve(f, Flags{Profile: "nope"}); err == nil {
		t.Fatalf("expected error for unknown --profile")
	}

	// The env var is just as explicit as the flag.
	t.Setenv("WORKTRACK_PROFILE", "ghost")
	if _, err := Resolve(f, Flags{}); err == nil {
		t.Fatalf("expected error for unknown WORKTRACK_PROFILE")
	}
	t.Setenv("WORKTRACK_PROFILE", "")

	// A stale currentProfile in the file is tolerated.
	f.CurrentProfile = "gone"
	r, err := Resolve(f, Flags{})
	if err != nil {
		t.Fatalf("stale currentProfile should not fail: %v", err)
	}
	if r.APIURL != "" {
		t.Fatalf("expected empty APIURL, got %q", r.APIURL)
	}
}
