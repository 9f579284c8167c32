// Package config loads the application settings from an optional YAML file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/chazu/pushpull/pkg/extrude"
	"github.com/chazu/pushpull/pkg/mesh"
	"github.com/lucasb-eyer/go-colorful"
	"gopkg.in/yaml.v3"
)

// EnvPath names the environment variable holding the config file path.
const EnvPath = "PUSHPULL_CONFIG"

// ColorSpec is a color as written in the config file.
type ColorSpec struct {
	Hex   string  `yaml:"hex"`
	Alpha float32 `yaml:"alpha"`
}

// Color parses the hex value and applies the alpha.
func (c ColorSpec) Color() (mesh.Color, error) {
	col, err := colorful.Hex(c.Hex)
	if err != nil {
		return mesh.Color{}, fmt.Errorf("config: color %q: %w", c.Hex, err)
	}
	if c.Alpha < 0 || c.Alpha > 1 {
		return mesh.Color{}, fmt.Errorf("config: color %q: alpha %g out of [0,1]", c.Hex, c.Alpha)
	}
	return mesh.Color{R: float32(col.R), G: float32(col.G), B: float32(col.B), A: c.Alpha}, nil
}

// Window holds the native window settings.
type Window struct {
	Title  string `yaml:"title"`
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
}

// Colors holds the tool palette.
type Colors struct {
	Base      ColorSpec `yaml:"base"`
	Highlight ColorSpec `yaml:"highlight"`
	Selected  ColorSpec `yaml:"selected"`
	Ghost     ColorSpec `yaml:"ghost"`
}

// Config is the full application configuration.
type Config struct {
	Window         Window        `yaml:"window"`
	ExtrusionSpeed float64       `yaml:"extrusion_speed"`
	CubeSize       float64       `yaml:"cube_size"`
	PlaneSize      float64       `yaml:"plane_size"`
	Colors         Colors        `yaml:"colors"`
	ScriptTimeout  time.Duration `yaml:"script_timeout"`
	LogLevel       string        `yaml:"log_level"` // trace, debug, info, warning, error
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Window: Window{
			Title:  "pushpull",
			Width:  1024,
			Height: 768,
		},
		ExtrusionSpeed: extrude.DefaultExtrusionSpeed,
		CubeSize:       1,
		PlaneSize:      4,
		Colors: Colors{
			Base:      ColorSpec{Hex: "#FFFFFF", Alpha: 1},
			Highlight: ColorSpec{Hex: "#F39C12", Alpha: 1},
			Selected:  ColorSpec{Hex: "#4A90D9", Alpha: 1},
			Ghost:     ColorSpec{Hex: "#FFFFFF", Alpha: 0.4},
		},
		ScriptTimeout: 5 * time.Second,
		LogLevel:      "info",
	}
}

// Load reads path over the defaults. An empty path or a missing file
// yields the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("config: read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("config: parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// FromEnv loads the file named by PUSHPULL_CONFIG.
func FromEnv() (Config, error) {
	return Load(os.Getenv(EnvPath))
}

var logLevels = map[string]bool{"trace": true, "debug": true, "info": true, "warning": true, "error": true}

// Validate checks value ranges and that every color parses.
func (c Config) Validate() error {
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		return fmt.Errorf("config: window size %dx%d must be positive", c.Window.Width, c.Window.Height)
	}
	if !logLevels[c.LogLevel] {
		return fmt.Errorf("config: unknown log level %q", c.LogLevel)
	}
	if c.ScriptTimeout <= 0 {
		return fmt.Errorf("config: script timeout must be positive, got %s", c.ScriptTimeout)
	}
	_, err := c.Options()
	return err
}

// Options converts the config into controller options.
func (c Config) Options() (extrude.Options, error) {
	opts := extrude.Options{
		Speed:     c.ExtrusionSpeed,
		CubeSize:  c.CubeSize,
		PlaneSize: c.PlaneSize,
	}
	for _, p := range []struct {
		spec ColorSpec
		dst  *mesh.Color
	}{
		{c.Colors.Base, &opts.Base},
		{c.Colors.Highlight, &opts.Highlight},
		{c.Colors.Selected, &opts.Selected},
		{c.Colors.Ghost, &opts.Ghost},
	} {
		col, err := p.spec.Color()
		if err != nil {
			return opts, err
		}
		*p.dst = col
	}
	if err := opts.Validate(); err != nil {
		return opts, fmt.Errorf("config: %w", err)
	}
	return opts, nil
}
