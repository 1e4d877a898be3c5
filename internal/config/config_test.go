package config

import (
	"errors"
	"image/color"
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/vovakirdan/slidecam/internal/puzzle"
	"github.com/vovakirdan/slidecam/internal/source"
)

func writeConfig(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestDefaultIsValid(t *testing.T) {
	if err := Validate(Default()); err != nil {
		t.Errorf("Validate(Default()) = %v", err)
	}
}

func TestEmbeddedMatchesDefault(t *testing.T) {
	cfg, err := parse(GetDefaultYAML())
	if err != nil {
		t.Fatalf("parse(embedded) error = %v", err)
	}
	want := Default()
	cfg.LoadedFrom = want.LoadedFrom
	if !reflect.DeepEqual(cfg, want) {
		t.Errorf("embedded config differs from Default():\n%+v\n%+v", cfg, want)
	}
}

func TestDefaultLevelsMatchPresets(t *testing.T) {
	if got := Default().PuzzleLevels(); !reflect.DeepEqual(got, puzzle.Levels) {
		t.Errorf("PuzzleLevels() = %+v, expected %+v", got, puzzle.Levels)
	}
}

func TestLoadSearchOrder(t *testing.T) {
	home := t.TempDir()
	work := t.TempDir()
	t.Setenv("HOME", home)
	t.Chdir(work)

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.LoadedFrom != "embedded" {
		t.Errorf("LoadedFrom = %q, expected embedded", cfg.LoadedFrom)
	}

	writeConfig(t, work, filepath.Join("configs", FileName), "source:\n  provider: pattern\n")
	cfg, _ = Load("")
	if cfg.Source.Provider != "pattern" {
		t.Errorf("local config not used: provider = %q", cfg.Source.Provider)
	}

	writeConfig(t, home, filepath.Join(".slidecam", "config.yaml"), "source:\n  provider: image\n")
	cfg, _ = Load("")
	if cfg.Source.Provider != "image" {
		t.Errorf("user config not preferred: provider = %q", cfg.Source.Provider)
	}

	custom := writeConfig(t, work, "custom.yaml", "source:\n  provider: camera\n")
	cfg, _ = Load(custom)
	if cfg.Source.Provider != "camera" || cfg.LoadedFrom != custom {
		t.Errorf("custom config not preferred: provider = %q from %q", cfg.Source.Provider, cfg.LoadedFrom)
	}
}

func TestLoadSkipsInvalidUserConfig(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Chdir(t.TempDir())

	writeConfig(t, home, filepath.Join(".slidecam", "config.yaml"), "render:\n  fill: 3\n")
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.LoadedFrom != "embedded" {
		t.Errorf("LoadedFrom = %q, expected embedded", cfg.LoadedFrom)
	}
}

func TestLoadPartialOverride(t *testing.T) {
	path := writeConfig(t, t.TempDir(), "partial.yaml", `
levels:
  - id: tiny
    rows: 2
    cols: 2
    shuffle_moves: 10
source:
  timeout: 2s
  fallbacks: []
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(cfg.Levels) != 1 || cfg.Levels[0].ID != "tiny" {
		t.Errorf("Levels = %+v, expected only tiny", cfg.Levels)
	}
	if cfg.Source.Timeout != 2*time.Second {
		t.Errorf("Timeout = %v, expected 2s", cfg.Source.Timeout)
	}
	if len(cfg.Source.Fallbacks) != 0 {
		t.Errorf("Fallbacks = %+v, expected none", cfg.Source.Fallbacks)
	}
	if cfg.Render.Aspect != "4:3" || cfg.Source.Width != 1280 {
		t.Error("unset keys should keep their defaults")
	}

	lvl, ok := cfg.FindLevel("tiny")
	if !ok || lvl.Name != "tiny" || lvl.Moves() != 10 {
		t.Errorf("FindLevel(tiny) = %+v, %v", lvl, ok)
	}
}

func TestLoadCustomErrors(t *testing.T) {
	dir := t.TempDir()
	bad := writeConfig(t, dir, "bad.yaml", "levels: [oops")
	invalid := writeConfig(t, dir, "invalid.yaml", "levels:\n  - id: x\n    rows: 1\n    cols: 3\n")

	for _, path := range []string{filepath.Join(dir, "missing.yaml"), bad, invalid} {
		if _, err := Load(path); err == nil {
			t.Errorf("Load(%s) succeeded, expected error", filepath.Base(path))
		}
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"no levels", func(c *Config) { c.Levels = nil }},
		{"missing id", func(c *Config) { c.Levels[0].ID = "" }},
		{"duplicate id", func(c *Config) { c.Levels[1].ID = c.Levels[0].ID }},
		{"1xN grid", func(c *Config) { c.Levels[0].Rows = 1 }},
		{"negative shuffle", func(c *Config) { c.Levels[0].ShuffleMoves = -1 }},
		{"bad aspect", func(c *Config) { c.Render.Aspect = "wide" }},
		{"zero fill", func(c *Config) { c.Render.Fill = 0 }},
		{"zero surface", func(c *Config) { c.Render.SurfaceWidth = 0 }},
		{"negative divisor", func(c *Config) { c.Render.LineDivisor = -1 }},
		{"bad colour", func(c *Config) { c.Render.LineColor = "white" }},
		{"colour without hash", func(c *Config) { c.Render.EmptyColor = "000000b3" }},
		{"negative source", func(c *Config) { c.Source.Width = -1 }},
		{"negative fallback", func(c *Config) { c.Source.Fallbacks = []ConstraintConfig{{FPS: -5}} }},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			cfg.Levels = append([]LevelConfig(nil), cfg.Levels...)
			tc.mutate(&cfg)
			if err := Validate(cfg); err == nil {
				t.Error("Validate() = nil, expected error")
			}
		})
	}
}

func TestParseColor(t *testing.T) {
	tests := []struct {
		in       string
		expected color.NRGBA
		ok       bool
	}{
		{"#000000b3", color.NRGBA{0, 0, 0, 0xb3}, true},
		{"#ffffff", color.NRGBA{255, 255, 255, 255}, true},
		{"#12AbEf80", color.NRGBA{0x12, 0xab, 0xef, 0x80}, true},
		{"ffffff", color.NRGBA{}, false},
		{"ffffffff", color.NRGBA{}, false},
		{"##ffffff", color.NRGBA{}, false},
		{"#fff", color.NRGBA{}, false},
		{"#gg0000", color.NRGBA{}, false},
	}
	for _, tc := range tests {
		t.Run(tc.in, func(t *testing.T) {
			got, err := ParseColor(tc.in)
			if tc.ok != (err == nil) {
				t.Fatalf("ParseColor(%q) error = %v", tc.in, err)
			}
			if !tc.ok && !errors.Is(err, ErrBadColor) {
				t.Errorf("error = %v, expected ErrBadColor", err)
			}
			if got != tc.expected {
				t.Errorf("ParseColor(%q) = %v, expected %v", tc.in, got, tc.expected)
			}
		})
	}
}

func TestAspectRatio(t *testing.T) {
	w, h, err := RenderConfig{Aspect: "16:9"}.AspectRatio()
	if err != nil || w != 16 || h != 9 {
		t.Errorf("AspectRatio(16:9) = %d, %d, %v", w, h, err)
	}
	for _, bad := range []string{"", "4", "4:0", "a:b", "-4:3"} {
		if _, _, err := (RenderConfig{Aspect: bad}).AspectRatio(); !errors.Is(err, ErrBadAspect) {
			t.Errorf("AspectRatio(%q) error = %v, expected ErrBadAspect", bad, err)
		}
	}
}

func TestRenderOptions(t *testing.T) {
	opts, err := Default().Render.Options()
	if err != nil {
		t.Fatalf("Options() error = %v", err)
	}
	if opts.EmptyColor != (color.NRGBA{0, 0, 0, 0xb3}) {
		t.Errorf("EmptyColor = %v", opts.EmptyColor)
	}
	if opts.LineDivisor != 200 || opts.Scaler == nil {
		t.Errorf("Options() = %+v", opts)
	}
}

func TestSourceRequest(t *testing.T) {
	sc := SourceConfig{
		Device:            "/dev/video1",
		Image:             "cat.png",
		Width:             1280,
		Height:            720,
		FPS:               30,
		Timeout:           3 * time.Second,
		Fallbacks:         []ConstraintConfig{{Width: 640, Height: 480}},
		AllowRemoteCamera: true,
	}

	want := source.Request{
		Preferred:   source.Constraints{Width: 1280, Height: 720, FPS: 30},
		Fallbacks:   []source.Constraints{{Width: 640, Height: 480}},
		Device:      "/dev/video1",
		Path:        "cat.png",
		Timeout:     3 * time.Second,
		AllowRemote: true,
	}
	if got := sc.Request(); !reflect.DeepEqual(got, want) {
		t.Errorf("Request() = %+v, expected %+v", got, want)
	}
}

func TestMarshalRoundTripsThroughParse(t *testing.T) {
	data, err := Marshal(Default())
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	cfg, err := parse(data)
	if err != nil {
		t.Fatalf("parse() error = %v", err)
	}
	if err := Validate(cfg); err != nil {
		t.Errorf("marshalled default does not validate: %v", err)
	}
}
