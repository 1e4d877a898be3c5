package compositor

import (
	"image"
	"image/color"
	"image/draw"
	"strings"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

var (
	bannerFill = color.NRGBA{R: 0, G: 0, B: 0, A: 200}
	bannerText = color.NRGBA{R: 255, G: 255, B: 255, A: 255}
)

const bannerPad = 6

// DrawBanner writes msg centred across the middle of dst on a translucent
// band. Lines wider than the surface are clipped.
func DrawBanner(dst draw.Image, msg string) {
	lines := strings.Split(strings.TrimSpace(msg), "\n")
	if len(lines) == 0 || (len(lines) == 1 && lines[0] == "") {
		return
	}

	face := basicfont.Face7x13
	lineH := face.Height
	bounds := dst.Bounds()
	bandH := len(lines)*lineH + 2*bannerPad
	top := bounds.Min.Y + (bounds.Dy()-bandH)/2

	band := image.Rect(bounds.Min.X, top, bounds.Max.X, top+bandH).Intersect(bounds)
	draw.Draw(dst, band, image.NewUniform(bannerFill), image.Point{}, draw.Over)

	d := font.Drawer{Dst: dst, Src: image.NewUniform(bannerText), Face: face}
	for i, line := range lines {
		w := d.MeasureString(line).Ceil()
		x := bounds.Min.X + (bounds.Dx()-w)/2
		y := top + bannerPad + i*lineH + face.Ascent
		d.Dot = fixed.P(max(x, bounds.Min.X), y)
		d.DrawString(line)
	}
}

// Wrap breaks msg into lines that fit width pixels of the banner font.
func Wrap(msg string, width int) string {
	adv := basicfont.Face7x13.Advance
	perLine := max(1, (width-2*bannerPad)/adv)

	var out []string
	for _, para := range strings.Split(msg, "\n") {
		var cur string
		for _, word := range strings.Fields(para) {
			switch {
			case cur == "":
				cur = word
			case len(cur)+1+len(word) <= perLine:
				cur += " " + word
			default:
				out = append(out, cur)
				cur = word
			}
		}
		out = append(out, cur)
	}
	return strings.Join(out, "\n")
}
