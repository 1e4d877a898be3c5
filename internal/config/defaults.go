package config

import (
	_ "embed"
	"time"
)

//go:embed defaults/slidecam.yaml
var defaultYAML []byte

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Levels: []LevelConfig{
			{ID: "easy", Name: "Easy", Rows: 3, Cols: 3},
			{ID: "medium", Name: "Medium", Rows: 3, Cols: 4},
			{ID: "hard", Name: "Hard", Rows: 4, Cols: 4},
		},
		Render: RenderConfig{
			Aspect:        "4:3",
			Fill:          0.9,
			SurfaceWidth:  800,
			SurfaceHeight: 600,
			EmptyColor:    "#000000b3",
			LineColor:     "#ffffffff",
			Background:    "#000000ff",
			LineDivisor:   200,
			Scaler:        "bilinear",
		},
		Source: SourceConfig{
			Provider: "camera",
			Device:   "/dev/video0",
			Width:    1280,
			Height:   720,
			Timeout:  5 * time.Second,
			Fallbacks: []ConstraintConfig{
				{Width: 640, Height: 480},
			},
		},
		LoadedFrom: "builtin",
	}
}

// GetDefaultYAML returns the embedded default YAML.
func GetDefaultYAML() []byte {
	return defaultYAML
}
