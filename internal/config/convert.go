package config

import (
	"errors"
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"github.com/vovakirdan/slidecam/internal/compositor"
	"github.com/vovakirdan/slidecam/internal/source"
)

var (
	ErrBadColor  = errors.New("config: colour must be #rrggbb or #rrggbbaa")
	ErrBadAspect = errors.New("config: aspect must be w:h with positive integers")
)

// ParseColor parses "#rrggbb" or "#rrggbbaa".
func ParseColor(s string) (color.NRGBA, error) {
	hex, ok := strings.CutPrefix(s, "#")
	if !ok || (len(hex) != 6 && len(hex) != 8) {
		return color.NRGBA{}, fmt.Errorf("%w: %q", ErrBadColor, s)
	}
	if len(hex) == 6 {
		hex += "ff"
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("%w: %q", ErrBadColor, s)
	}
	return color.NRGBA{
		R: uint8(v >> 24),
		G: uint8(v >> 16),
		B: uint8(v >> 8),
		A: uint8(v),
	}, nil
}

// AspectRatio parses the "w:h" aspect setting.
func (r RenderConfig) AspectRatio() (int, int, error) {
	ws, hs, ok := strings.Cut(r.Aspect, ":")
	if !ok {
		return 0, 0, fmt.Errorf("%w: %q", ErrBadAspect, r.Aspect)
	}
	w, errW := strconv.Atoi(strings.TrimSpace(ws))
	h, errH := strconv.Atoi(strings.TrimSpace(hs))
	if errW != nil || errH != nil || w <= 0 || h <= 0 {
		return 0, 0, fmt.Errorf("%w: %q", ErrBadAspect, r.Aspect)
	}
	return w, h, nil
}

// Options builds compositor options from the render settings.
func (r RenderConfig) Options() (compositor.Options, error) {
	empty, err := ParseColor(r.EmptyColor)
	if err != nil {
		return compositor.Options{}, fmt.Errorf("empty_color: %w", err)
	}
	line, err := ParseColor(r.LineColor)
	if err != nil {
		return compositor.Options{}, fmt.Errorf("line_color: %w", err)
	}
	bg, err := ParseColor(r.Background)
	if err != nil {
		return compositor.Options{}, fmt.Errorf("background: %w", err)
	}
	return compositor.Options{
		EmptyColor:  empty,
		LineColor:   line,
		Background:  bg,
		LineDivisor: r.LineDivisor,
		Scaler:      compositor.ScalerByName(r.Scaler),
	}, nil
}

// Request builds an acquisition request from the source settings.
func (s SourceConfig) Request() source.Request {
	fallbacks := make([]source.Constraints, len(s.Fallbacks))
	for i, f := range s.Fallbacks {
		fallbacks[i] = source.Constraints{Width: f.Width, Height: f.Height, FPS: f.FPS}
	}
	return source.Request{
		Preferred:   source.Constraints{Width: s.Width, Height: s.Height, FPS: s.FPS},
		Fallbacks:   fallbacks,
		Device:      s.Device,
		Path:        s.Image,
		Timeout:     s.Timeout,
		AllowRemote: s.AllowRemoteCamera,
	}
}
