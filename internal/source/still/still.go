// Package still provides an image source backed by a file on disk.
// Animated GIFs play in a loop; every other format is a single frame.
package still

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io/fs"
	"os"
	"sync"
	"time"

	_ "golang.org/x/image/bmp"
	xdraw "golang.org/x/image/draw"
	_ "golang.org/x/image/webp"

	"github.com/vovakirdan/slidecam/internal/registry"
	"github.com/vovakirdan/slidecam/internal/source"
)

// defaultDelay applies to GIF frames that declare no delay.
const defaultDelay = 100 * time.Millisecond

// ErrNoPath is returned when the request names no file.
var ErrNoPath = errors.New("still: no image path")

// Provider opens image files.
type Provider struct {
	now func() time.Time
}

// New creates an image file provider.
func New() *Provider {
	return &Provider{now: time.Now}
}

// ID returns the registry identifier.
func (p *Provider) ID() string {
	return "image"
}

// Title returns the display name.
func (p *Provider) Title() string {
	return "Image File"
}

// Open decodes req.Path. Constraints are ignored; the image keeps its native size.
func (p *Provider) Open(ctx context.Context, req source.Request, c source.Constraints) (source.ImageSource, error) {
	if err := ctx.Err(); err != nil {
		return nil, source.ContextFailure(c, err)
	}
	if req.Path == "" {
		return nil, source.Fail(source.NoDevice, c, ErrNoPath)
	}

	data, err := os.ReadFile(req.Path)
	if err != nil {
		switch {
		case errors.Is(err, fs.ErrNotExist):
			return nil, source.Fail(source.NoDevice, c, err)
		case errors.Is(err, fs.ErrPermission):
			return nil, source.Fail(source.PermissionDenied, c, err)
		default:
			return nil, source.Fail(source.ReasonUnknown, c, err)
		}
	}

	frames, delays, err := decode(data)
	if err != nil {
		return nil, source.Fail(source.Unsupported, c, fmt.Errorf("still: decode %s: %w", req.Path, err))
	}

	var total time.Duration
	for _, d := range delays {
		total += d
	}

	b := frames[0].Bounds()
	return &Source{
		w:      b.Dx(),
		h:      b.Dy(),
		frames: frames,
		delays: delays,
		total:  total,
		start:  p.now(),
		now:    p.now,
	}, nil
}

func decode(data []byte) ([]*image.RGBA, []time.Duration, error) {
	_, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, nil, err
	}

	if format == "gif" {
		g, err := gif.DecodeAll(bytes.NewReader(data))
		if err != nil {
			return nil, nil, err
		}
		return composeGIF(g)
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, nil, err
	}
	return []*image.RGBA{toRGBA(img)}, []time.Duration{0}, nil
}

// composeGIF flattens GIF frames, which may be partial, into full canvases
// honouring each frame's disposal method.
func composeGIF(g *gif.GIF) ([]*image.RGBA, []time.Duration, error) {
	if len(g.Image) == 0 {
		return nil, nil, errors.New("still: gif has no frames")
	}

	bounds := image.Rect(0, 0, g.Config.Width, g.Config.Height)
	if bounds.Empty() {
		bounds = g.Image[0].Bounds()
	}
	canvas := image.NewRGBA(bounds)

	frames := make([]*image.RGBA, 0, len(g.Image))
	delays := make([]time.Duration, 0, len(g.Image))
	for i, fr := range g.Image {
		var disposal byte
		if i < len(g.Disposal) {
			disposal = g.Disposal[i]
		}

		var restore *image.RGBA
		if disposal == gif.DisposalPrevious {
			restore = cloneRGBA(canvas)
		}

		xdraw.Draw(canvas, fr.Bounds(), fr, fr.Bounds().Min, xdraw.Over)
		frames = append(frames, cloneRGBA(canvas))

		delay := defaultDelay
		if i < len(g.Delay) && g.Delay[i] > 0 {
			delay = time.Duration(g.Delay[i]) * 10 * time.Millisecond
		}
		delays = append(delays, delay)

		switch disposal {
		case gif.DisposalBackground:
			xdraw.Draw(canvas, fr.Bounds(), image.Transparent, image.Point{}, xdraw.Src)
		case gif.DisposalPrevious:
			canvas = restore
		}
	}
	return frames, delays, nil
}

func toRGBA(img image.Image) *image.RGBA {
	if rgba, ok := img.(*image.RGBA); ok && rgba.Rect.Min == (image.Point{}) {
		return rgba
	}
	b := img.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	xdraw.Draw(dst, dst.Bounds(), img, b.Min, xdraw.Src)
	return dst
}

func cloneRGBA(src *image.RGBA) *image.RGBA {
	dst := image.NewRGBA(src.Rect)
	copy(dst.Pix, src.Pix)
	return dst
}

// Source plays decoded frames.
type Source struct {
	mu       sync.Mutex
	w, h     int
	frames   []*image.RGBA
	delays   []time.Duration
	total    time.Duration
	start    time.Time
	now      func() time.Time
	released bool
}

// Size returns the image size.
func (s *Source) Size() (int, int) {
	return s.w, s.h
}

// Ready is true until Release.
func (s *Source) Ready() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return !s.released
}

// Frame returns the frame due at the current instant.
func (s *Source) Frame() image.Image {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.released {
		return nil
	}
	if len(s.frames) == 1 || s.total <= 0 {
		return s.frames[0]
	}

	at := s.now().Sub(s.start) % s.total
	for i, d := range s.delays {
		if at < d {
			return s.frames[i]
		}
		at -= d
	}
	return s.frames[len(s.frames)-1]
}

// Release drops the decoded frames.
func (s *Source) Release() {
	s.mu.Lock()
	s.released = true
	s.frames = nil
	s.mu.Unlock()
}

func init() {
	registry.Register("image", func() source.Provider {
		return New()
	})
}
