package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/chazu/pushpull/pkg/mesh"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "pushpull.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Default().Validate() = %v", err)
	}
	opts, err := cfg.Options()
	if err != nil {
		t.Fatal(err)
	}
	if opts.Base != mesh.White {
		t.Errorf("base color = %v, want white", opts.Base)
	}
	if opts.Speed != 2 {
		t.Errorf("speed = %v, want 2", opts.Speed)
	}
	if opts.Ghost.A != 0.4 {
		t.Errorf("ghost alpha = %v, want 0.4", opts.Ghost.A)
	}
}

func TestLoadMissingFileGivesDefaults(t *testing.T) {
	for _, path := range []string{"", filepath.Join(t.TempDir(), "nope.yaml")} {
		cfg, err := Load(path)
		if err != nil {
			t.Fatalf("Load(%q) error = %v", path, err)
		}
		if cfg != Default() {
			t.Errorf("Load(%q) = %+v, want defaults", path, cfg)
		}
	}
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
window:
  title: box shop
extrusion_speed: 2.5
script_timeout: 250ms
colors:
  selected:
    hex: "#FF0000"
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Window.Title != "box shop" {
		t.Errorf("title = %q", cfg.Window.Title)
	}
	if cfg.Window.Width != 1024 {
		t.Errorf("unset width should keep default, got %d", cfg.Window.Width)
	}
	if cfg.ExtrusionSpeed != 2.5 {
		t.Errorf("extrusion speed = %v, want 2.5", cfg.ExtrusionSpeed)
	}
	if cfg.ScriptTimeout != 250*time.Millisecond {
		t.Errorf("script timeout = %v, want 250ms", cfg.ScriptTimeout)
	}

	opts, err := cfg.Options()
	if err != nil {
		t.Fatal(err)
	}
	if opts.Selected != (mesh.Color{R: 1, G: 0, B: 0, A: 1}) {
		t.Errorf("selected = %v, want opaque red (alpha kept from default)", opts.Selected)
	}
	if opts.Speed != 2.5 {
		t.Errorf("options speed = %v, want 2.5", opts.Speed)
	}
}

func TestLoadRejectsBadValues(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantMsg string
	}{
		{"bad yaml", "window: [", "parse"},
		{"bad hex", "colors:\n  base:\n    hex: \"#GG0000\"\n", "color"},
		{"bad alpha", "colors:\n  ghost:\n    alpha: 1.5\n", "alpha"},
		{"zero speed", "extrusion_speed: 0\n", "speed"},
		{"negative cube", "cube_size: -1\n", "cube size"},
		{"zero width", "window:\n  width: 0\n", "window size"},
		{"bad log level", "log_level: loud\n", "log level"},
		{"zero timeout", "script_timeout: 0s\n", "timeout"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.body))
			if err == nil {
				t.Fatal("Load() error = nil, want error")
			}
			if !strings.Contains(err.Error(), tt.wantMsg) {
				t.Errorf("error %q does not mention %q", err, tt.wantMsg)
			}
		})
	}
}

func TestFromEnv(t *testing.T) {
	path := writeConfig(t, "cube_size: 2\n")
	t.Setenv(EnvPath, path)
	cfg, err := FromEnv()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.CubeSize != 2 {
		t.Errorf("cube size = %v, want 2", cfg.CubeSize)
	}
}
