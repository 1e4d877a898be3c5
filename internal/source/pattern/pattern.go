// Package pattern provides a synthetic animated image source.
// It needs no hardware, so it backs SSH sessions and machines without a camera.
package pattern

import (
	"context"
	"fmt"
	"image"
	"math"
	"sync"
	"time"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/vovakirdan/slidecam/internal/registry"
	"github.com/vovakirdan/slidecam/internal/source"
)

// Frame size used when no constraints are given.
const (
	DefaultWidth  = 640
	DefaultHeight = 480
)

// Animation speeds
const (
	hueDrift  = 0.05 // Hue cycles per second
	ringCount = 6.0  // Rings from centre to corner
	ringSpeed = 0.5  // Rings per second moving outward
)

// Provider opens pattern sources.
type Provider struct {
	now func() time.Time
}

// New creates a pattern provider using the wall clock.
func New() *Provider {
	return &Provider{now: time.Now}
}

// ID returns the registry identifier.
func (p *Provider) ID() string {
	return "pattern"
}

// Title returns the display name.
func (p *Provider) Title() string {
	return "Test Pattern"
}

// Open starts a pattern source at the requested size. It never fails
// unless ctx is already done.
func (p *Provider) Open(ctx context.Context, _ source.Request, c source.Constraints) (source.ImageSource, error) {
	if err := ctx.Err(); err != nil {
		return nil, source.ContextFailure(c, err)
	}

	w, h := c.Width, c.Height
	if w <= 0 || h <= 0 {
		w, h = DefaultWidth, DefaultHeight
	}

	s := &Source{
		w:     w,
		h:     h,
		start: p.now(),
		now:   p.now,
		img:   image.NewRGBA(image.Rect(0, 0, w, h)),
	}
	s.render(0)
	return s, nil
}

// Source is a running pattern feed.
type Source struct {
	mu       sync.Mutex
	w, h     int
	start    time.Time
	now      func() time.Time
	img      *image.RGBA
	released bool
}

// Size returns the frame size.
func (s *Source) Size() (int, int) {
	return s.w, s.h
}

// Ready is true until Release.
func (s *Source) Ready() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return !s.released
}

// Frame renders and returns the pattern for the current instant.
func (s *Source) Frame() image.Image {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.released {
		return nil
	}
	s.render(s.now().Sub(s.start))
	return s.img
}

// Release drops the frame buffer.
func (s *Source) Release() {
	s.mu.Lock()
	s.released = true
	s.img = nil
	s.mu.Unlock()
}

func (s *Source) render(elapsed time.Duration) {
	t := elapsed.Seconds()
	w, h := float64(s.w), float64(s.h)
	cx, cy := w/2, h/2
	maxR := math.Hypot(cx, cy)

	for y := 0; y < s.h; y++ {
		v := 0.55 + 0.45*(h-float64(y))/h
		row := s.img.Pix[y*s.img.Stride:]
		for x := 0; x < s.w; x++ {
			hue := math.Mod(float64(x)/w+t*hueDrift, 1)
			r := math.Hypot(float64(x)-cx, float64(y)-cy) / maxR
			ring := 0.5 + 0.5*math.Cos(2*math.Pi*(r*ringCount-t*ringSpeed))
			cr, cg, cb := hsv(hue, 0.35+0.65*ring, v)

			i := x * 4
			row[i] = cr
			row[i+1] = cg
			row[i+2] = cb
			row[i+3] = 255
		}
	}

	d := font.Drawer{
		Dst:  s.img,
		Src:  image.White,
		Face: basicfont.Face7x13,
		Dot:  fixed.P(8, 8+basicfont.Face7x13.Ascent),
	}
	d.DrawString(clock(elapsed))
}

// clock formats elapsed time as mm:ss.t
func clock(d time.Duration) string {
	tenths := int(d / (100 * time.Millisecond))
	return fmt.Sprintf("%02d:%02d.%d", tenths/600, (tenths/10)%60, tenths%10)
}

// hsv converts hue/saturation/value in [0,1] to 8-bit RGB.
func hsv(h, s, v float64) (uint8, uint8, uint8) {
	h6 := h * 6
	i := math.Floor(h6)
	f := h6 - i
	p := v * (1 - s)
	q := v * (1 - s*f)
	t := v * (1 - s*(1-f))

	var r, g, b float64
	switch int(i) % 6 {
	case 0:
		r, g, b = v, t, p
	case 1:
		r, g, b = q, v, p
	case 2:
		r, g, b = p, v, t
	case 3:
		r, g, b = p, q, v
	case 4:
		r, g, b = t, p, v
	default:
		r, g, b = v, p, q
	}
	return uint8(r*255 + 0.5), uint8(g*255 + 0.5), uint8(b*255 + 0.5)
}

func init() {
	registry.Register("pattern", func() source.Provider {
		return New()
	})
}
