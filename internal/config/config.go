// Package config provides YAML-based configuration for puzzle levels,
// rendering and image sources.
package config

import (
	"time"
)

// Config is the top-level slidecam configuration.
type Config struct {
	Levels []LevelConfig `yaml:"levels"`
	Render RenderConfig  `yaml:"render"`
	Source SourceConfig  `yaml:"source"`

	// LoadedFrom names where the config came from ("embedded" for the default).
	LoadedFrom string `yaml:"-"`
}

// LevelConfig defines one difficulty preset.
type LevelConfig struct {
	ID           string `yaml:"id"`
	Name         string `yaml:"name"`
	Rows         int    `yaml:"rows"`
	Cols         int    `yaml:"cols"`
	ShuffleMoves int    `yaml:"shuffle_moves"` // 0 = scale with grid size
}

// RenderConfig defines surface sizing and the compositor's look.
type RenderConfig struct {
	Aspect        string  `yaml:"aspect"`         // Target aspect ratio, "w:h"
	Fill          float64 `yaml:"fill"`           // Fraction of the container the surface may use
	SurfaceWidth  int     `yaml:"surface_width"`  // Backing width for windowed and headless rendering
	SurfaceHeight int     `yaml:"surface_height"` // Backing height for windowed and headless rendering
	EmptyColor    string  `yaml:"empty_color"`    // "#rrggbb" or "#rrggbbaa"
	LineColor     string  `yaml:"line_color"`
	Background    string  `yaml:"background"`
	LineDivisor   int     `yaml:"line_divisor"` // Separator width = min(w,h)/divisor
	Scaler        string  `yaml:"scaler"`       // "bilinear", "nearest" or "catmullrom"
}

// SourceConfig defines how the image source is acquired.
type SourceConfig struct {
	Provider          string             `yaml:"provider"` // Registry ID: camera, image, pattern
	Device            string             `yaml:"device"`
	Image             string             `yaml:"image"`
	Width             int                `yaml:"width"`
	Height            int                `yaml:"height"`
	FPS               int                `yaml:"fps"`
	Timeout           time.Duration      `yaml:"timeout"`
	Fallbacks         []ConstraintConfig `yaml:"fallbacks"`
	AllowRemoteCamera bool               `yaml:"allow_remote_camera"`
}

// ConstraintConfig is one capture configuration in the fallback chain.
type ConstraintConfig struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
	FPS    int `yaml:"fps"`
}
