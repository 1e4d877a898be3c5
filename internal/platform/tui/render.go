package tui

import (
	"fmt"
	"image"
	"image/color"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// halfBlock shows two vertically stacked pixels in one terminal cell:
// the foreground paints the top half, the background the bottom half.
const halfBlock = '▀'

// cellColors is the pixel pair shown by one terminal cell.
type cellColors struct {
	top, bottom color.RGBA
}

// run is a horizontal stretch of cells with identical colours.
type run struct {
	colors cellColors
	n      int
}

// pixelAt reads an opaque RGBA pixel, taking the fast path for *image.RGBA.
func pixelAt(img image.Image, x, y int) color.RGBA {
	if rgba, ok := img.(*image.RGBA); ok {
		c := rgba.RGBAAt(x, y)
		c.A = 255
		return c
	}
	c := color.RGBAModel.Convert(img.At(x, y)).(color.RGBA)
	c.A = 255
	return c
}

// halfBlockRuns groups one terminal row of the image into same-colour runs.
// Terminal row ty covers pixel rows 2*ty and 2*ty+1. A missing bottom row
// (odd image height) repeats the top pixel.
func halfBlockRuns(img image.Image, ty int) []run {
	b := img.Bounds()
	y0 := b.Min.Y + 2*ty
	y1 := y0 + 1

	var runs []run
	for x := b.Min.X; x < b.Max.X; x++ {
		cc := cellColors{top: pixelAt(img, x, y0)}
		if y1 < b.Max.Y {
			cc.bottom = pixelAt(img, x, y1)
		} else {
			cc.bottom = cc.top
		}
		if n := len(runs); n > 0 && runs[n-1].colors == cc {
			runs[n-1].n++
			continue
		}
		runs = append(runs, run{colors: cc, n: 1})
	}
	return runs
}

func hexColor(c color.RGBA) lipgloss.Color {
	return lipgloss.Color(fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B))
}

// RenderImage converts an image to half-block terminal text, two pixel rows
// per line. Adjacent cells with the same colours share one style to minimize
// ANSI escape sequences. A nil renderer uses the default one.
func RenderImage(r *lipgloss.Renderer, img image.Image) string {
	b := img.Bounds()
	lines := (b.Dy() + 1) / 2

	var sb strings.Builder
	// Pre-allocate with extra space for ANSI codes
	sb.Grow(b.Dx()*lines*8 + lines)

	styles := make(map[cellColors]lipgloss.Style)
	for ty := range lines {
		if ty > 0 {
			sb.WriteRune('\n')
		}
		for _, rn := range halfBlockRuns(img, ty) {
			style, ok := styles[rn.colors]
			if !ok {
				if r != nil {
					style = r.NewStyle()
				} else {
					style = lipgloss.NewStyle()
				}
				style = style.
					Foreground(hexColor(rn.colors.top)).
					Background(hexColor(rn.colors.bottom))
				styles[rn.colors] = style
			}
			sb.WriteString(style.Render(strings.Repeat(string(halfBlock), rn.n)))
		}
	}
	return sb.String()
}
