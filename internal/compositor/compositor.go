// Package compositor draws a puzzle instance over a live image onto a
// drawing surface. It is called once per display refresh and never blocks.
package compositor

import (
	"image"
	"image/color"
	"image/draw"

	xdraw "golang.org/x/image/draw"

	"github.com/vovakirdan/slidecam/internal/puzzle"
)

// Default appearance
var (
	DefaultEmptyColor = color.NRGBA{R: 0, G: 0, B: 0, A: 178} // rgba(0,0,0,0.7)
	DefaultLineColor  = color.NRGBA{R: 255, G: 255, B: 255, A: 255}
	DefaultBackground = color.NRGBA{R: 0, G: 0, B: 0, A: 255}
)

// DefaultLineDivisor sets separator width to min(w,h)/200.
const DefaultLineDivisor = 200

// Feed is the part of an image source the compositor reads.
type Feed interface {
	Ready() bool
	Frame() image.Image
}

// Options controls how a frame is drawn.
type Options struct {
	EmptyColor  color.Color
	LineColor   color.Color
	Background  color.Color
	LineDivisor int
	Scaler      xdraw.Scaler
}

// DefaultOptions returns the standard look with bilinear scaling.
func DefaultOptions() Options {
	return Options{
		EmptyColor:  DefaultEmptyColor,
		LineColor:   DefaultLineColor,
		Background:  DefaultBackground,
		LineDivisor: DefaultLineDivisor,
		Scaler:      xdraw.ApproxBiLinear,
	}
}

// ScalerByName maps a config name to a scaler. Unknown names get bilinear.
func ScalerByName(name string) xdraw.Scaler {
	switch name {
	case "nearest":
		return xdraw.NearestNeighbor
	case "catmullrom":
		return xdraw.CatmullRom
	default:
		return xdraw.ApproxBiLinear
	}
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.EmptyColor == nil {
		o.EmptyColor = d.EmptyColor
	}
	if o.LineColor == nil {
		o.LineColor = d.LineColor
	}
	if o.Background == nil {
		o.Background = d.Background
	}
	if o.LineDivisor <= 0 {
		o.LineDivisor = d.LineDivisor
	}
	if o.Scaler == nil {
		o.Scaler = d.Scaler
	}
	return o
}

// LineWidth returns the separator width for a w x h surface.
func LineWidth(w, h, divisor int) int {
	if divisor <= 0 {
		divisor = DefaultLineDivisor
	}
	return max(1, min(w, h)/divisor)
}

// CellRect returns the rectangle of grid position pos within bounds.
// Cells tile bounds exactly; integer remainders are spread across cells.
func CellRect(bounds image.Rectangle, rows, cols, pos int) image.Rectangle {
	row, col := puzzle.PositionToRowCol(pos, cols)
	w, h := bounds.Dx(), bounds.Dy()
	return image.Rect(
		bounds.Min.X+col*w/cols,
		bounds.Min.Y+row*h/rows,
		bounds.Min.X+(col+1)*w/cols,
		bounds.Min.Y+(row+1)*h/rows,
	)
}

// RenderFrame draws inst onto dst. Each non-empty tile shows the part of the
// feed's frame at its home cell, scaled into its current cell. The empty cell
// gets the overlay fill, then grid separators are drawn. Tile copies are
// skipped while feed is nil or not ready.
func RenderFrame(dst draw.Image, inst *puzzle.Instance, feed Feed, opts Options) {
	opts = opts.withDefaults()
	bounds := dst.Bounds()
	draw.Draw(dst, bounds, image.NewUniform(opts.Background), image.Point{}, draw.Src)
	if inst == nil || bounds.Empty() {
		return
	}

	g := inst.Grid()
	var frame image.Image
	if feed != nil && feed.Ready() {
		frame = feed.Frame()
	}

	for _, t := range inst.Tiles() {
		dr := CellRect(bounds, g.Rows, g.Cols, t.Current)
		if t.Empty {
			draw.Draw(dst, dr, image.NewUniform(opts.EmptyColor), image.Point{}, draw.Over)
			continue
		}
		if frame == nil {
			continue
		}
		sr := CellRect(frame.Bounds(), g.Rows, g.Cols, t.Home)
		if sr.Empty() {
			continue
		}
		opts.Scaler.Scale(dst, dr, frame, sr, xdraw.Src, nil)
	}

	drawSeparators(dst, bounds, g, opts)
}

func drawSeparators(dst draw.Image, bounds image.Rectangle, g puzzle.Grid, opts Options) {
	lw := LineWidth(bounds.Dx(), bounds.Dy(), opts.LineDivisor)
	line := image.NewUniform(opts.LineColor)

	for c := 1; c < g.Cols; c++ {
		x := bounds.Min.X + c*bounds.Dx()/g.Cols - lw/2
		r := image.Rect(x, bounds.Min.Y, x+lw, bounds.Max.Y).Intersect(bounds)
		draw.Draw(dst, r, line, image.Point{}, draw.Over)
	}
	for r := 1; r < g.Rows; r++ {
		y := bounds.Min.Y + r*bounds.Dy()/g.Rows - lw/2
		rect := image.Rect(bounds.Min.X, y, bounds.Max.X, y+lw).Intersect(bounds)
		draw.Draw(dst, rect, line, image.Point{}, draw.Over)
	}
}
