package config

import (
	"errors"
	"fmt"
)

// Validate reports the first problem found in cfg.
func Validate(cfg Config) error {
	if len(cfg.Levels) == 0 {
		return errors.New("config: no levels defined")
	}

	seen := make(map[string]bool, len(cfg.Levels))
	for i, l := range cfg.Levels {
		if l.ID == "" {
			return fmt.Errorf("config: level %d has no id", i)
		}
		if seen[l.ID] {
			return fmt.Errorf("config: duplicate level id %q", l.ID)
		}
		seen[l.ID] = true

		if err := l.Level().Grid().Validate(); err != nil {
			return fmt.Errorf("config: level %q: %w", l.ID, err)
		}
		if l.ShuffleMoves < 0 {
			return fmt.Errorf("config: level %q: negative shuffle_moves", l.ID)
		}
	}

	r := cfg.Render
	if _, _, err := r.AspectRatio(); err != nil {
		return err
	}
	if r.Fill <= 0 || r.Fill > 1 {
		return fmt.Errorf("config: render.fill must be in (0, 1], got %v", r.Fill)
	}
	if r.SurfaceWidth <= 0 || r.SurfaceHeight <= 0 {
		return fmt.Errorf("config: render surface must be positive, got %dx%d", r.SurfaceWidth, r.SurfaceHeight)
	}
	if r.LineDivisor < 0 {
		return fmt.Errorf("config: render.line_divisor must not be negative")
	}
	if _, err := r.Options(); err != nil {
		return fmt.Errorf("config: render.%w", err)
	}

	s := cfg.Source
	if s.Width < 0 || s.Height < 0 || s.FPS < 0 || s.Timeout < 0 {
		return errors.New("config: source constraints must not be negative")
	}
	for i, f := range s.Fallbacks {
		if f.Width < 0 || f.Height < 0 || f.FPS < 0 {
			return fmt.Errorf("config: source.fallbacks[%d] must not be negative", i)
		}
	}
	return nil
}
