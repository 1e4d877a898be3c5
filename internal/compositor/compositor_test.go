package compositor

import (
	"image"
	"image/color"
	"testing"

	xdraw "golang.org/x/image/draw"

	"github.com/vovakirdan/slidecam/internal/core"
	"github.com/vovakirdan/slidecam/internal/puzzle"
)

var (
	red    = color.RGBA{255, 0, 0, 255}
	green  = color.RGBA{0, 255, 0, 255}
	blue   = color.RGBA{0, 0, 255, 255}
	yellow = color.RGBA{255, 255, 0, 255}
	black  = color.RGBA{0, 0, 0, 255}
	white  = color.RGBA{255, 255, 255, 255}
)

type stillFeed struct {
	img   image.Image
	ready bool
}

func (f stillFeed) Ready() bool        { return f.ready }
func (f stillFeed) Frame() image.Image { return f.img }

// quadrants returns a 4x4 image at origin with one colour per 2x2 quadrant,
// in position order red, green, blue, yellow.
func quadrants(origin image.Point) *image.RGBA {
	img := image.NewRGBA(image.Rectangle{Min: origin, Max: origin.Add(image.Pt(4, 4))})
	colors := []color.RGBA{red, green, blue, yellow}
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			img.SetRGBA(origin.X+x, origin.Y+y, colors[(y/2)*2+x/2])
		}
	}
	return img
}

func solved2x2(t *testing.T) *puzzle.Instance {
	t.Helper()
	inst, err := puzzle.New(puzzle.Grid{Rows: 2, Cols: 2}, 3)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return inst
}

func nearest() Options {
	opts := DefaultOptions()
	opts.Scaler = xdraw.NearestNeighbor
	return opts
}

func TestRenderFrameSolved(t *testing.T) {
	inst := solved2x2(t)
	dst := image.NewRGBA(image.Rect(0, 0, 40, 40))
	RenderFrame(dst, inst, stillFeed{img: quadrants(image.Point{}), ready: true}, nearest())

	tests := []struct {
		name     string
		x, y     int
		expected color.RGBA
	}{
		{"tile 0", 10, 10, red},
		{"tile 1", 30, 10, green},
		{"tile 2", 10, 30, blue},
		{"empty cell", 30, 30, black},
		{"vertical separator", 20, 5, white},
		{"horizontal separator", 5, 20, white},
		{"right of separator", 21, 5, green},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := dst.RGBAAt(tc.x, tc.y); got != tc.expected {
				t.Errorf("pixel (%d,%d) = %v, expected %v", tc.x, tc.y, got, tc.expected)
			}
		})
	}
}

func TestRenderFrameFollowsMoves(t *testing.T) {
	inst := solved2x2(t)
	if !inst.ApplyMove(2) {
		t.Fatal("ApplyMove(2) should be legal from the solved 2x2")
	}

	dst := image.NewRGBA(image.Rect(0, 0, 40, 40))
	RenderFrame(dst, inst, stillFeed{img: quadrants(image.Point{}), ready: true}, nearest())

	if got := dst.RGBAAt(30, 30); got != blue {
		t.Errorf("cell 3 = %v, expected the blue home-2 tile", got)
	}
	if got := dst.RGBAAt(10, 30); got != black {
		t.Errorf("cell 2 = %v, expected the empty overlay", got)
	}
}

func TestRenderFrameSourceOffset(t *testing.T) {
	inst := solved2x2(t)
	dst := image.NewRGBA(image.Rect(0, 0, 40, 40))
	RenderFrame(dst, inst, stillFeed{img: quadrants(image.Pt(7, 3)), ready: true}, nearest())

	if got := dst.RGBAAt(30, 10); got != green {
		t.Errorf("tile 1 = %v, expected %v", got, green)
	}
}

func TestRenderFrameNotReady(t *testing.T) {
	inst := solved2x2(t)

	feeds := map[string]Feed{
		"nil feed":  nil,
		"not ready": stillFeed{img: quadrants(image.Point{}), ready: false},
		"nil frame": stillFeed{img: nil, ready: true},
	}
	for name, feed := range feeds {
		t.Run(name, func(t *testing.T) {
			dst := image.NewRGBA(image.Rect(0, 0, 40, 40))
			RenderFrame(dst, inst, feed, nearest())

			if got := dst.RGBAAt(10, 10); got != black {
				t.Errorf("tile cell = %v, expected background", got)
			}
			if got := dst.RGBAAt(20, 5); got != white {
				t.Errorf("separator = %v, expected white", got)
			}
		})
	}
}

func TestRenderFrameEmptyOverlayIsTranslucent(t *testing.T) {
	inst := solved2x2(t)
	opts := nearest()
	opts.Background = color.RGBA{200, 200, 200, 255}

	dst := image.NewRGBA(image.Rect(0, 0, 40, 40))
	RenderFrame(dst, inst, nil, opts)

	got := dst.RGBAAt(30, 30)
	if got.R == 0 || got.R >= 200 {
		t.Errorf("empty cell = %v, expected background darkened by the overlay", got)
	}
}

func TestLineWidth(t *testing.T) {
	tests := []struct {
		w, h, divisor, expected int
	}{
		{800, 600, 200, 3},
		{1600, 1200, 200, 6},
		{100, 100, 200, 1},
		{0, 0, 200, 1},
		{800, 600, 0, 3}, // default divisor
	}
	for _, tc := range tests {
		if got := LineWidth(tc.w, tc.h, tc.divisor); got != tc.expected {
			t.Errorf("LineWidth(%d, %d, %d) = %d, expected %d", tc.w, tc.h, tc.divisor, got, tc.expected)
		}
	}
}

func TestCellRect(t *testing.T) {
	bounds := image.Rect(0, 0, 10, 6)

	tests := []struct {
		pos      int
		expected image.Rectangle
	}{
		{0, image.Rect(0, 0, 3, 3)},
		{1, image.Rect(3, 0, 6, 3)},
		{2, image.Rect(6, 0, 10, 3)},
		{5, image.Rect(6, 3, 10, 6)},
	}
	for _, tc := range tests {
		if got := CellRect(bounds, 2, 3, tc.pos); got != tc.expected {
			t.Errorf("CellRect(pos %d) = %v, expected %v", tc.pos, got, tc.expected)
		}
	}
}

func TestCellsTileBounds(t *testing.T) {
	bounds := image.Rect(5, 5, 105, 80)
	area := 0
	for pos := 0; pos < 12; pos++ {
		area += CellRect(bounds, 3, 4, pos).Dx() * CellRect(bounds, 3, 4, pos).Dy()
	}
	if area != bounds.Dx()*bounds.Dy() {
		t.Errorf("cells cover %d px, expected %d", area, bounds.Dx()*bounds.Dy())
	}
}

func TestClicksHitDrawnCells(t *testing.T) {
	sizes := [][2]int{{97, 61}, {100, 75}, {33, 20}}
	grids := []puzzle.Grid{{Rows: 3, Cols: 3}, {Rows: 3, Cols: 4}, {Rows: 4, Cols: 4}}

	for _, sz := range sizes {
		w, h := sz[0], sz[1]
		bounds := image.Rect(0, 0, w, h)
		box := core.Box{W: float64(w), H: float64(h)}
		for _, g := range grids {
			for pos := 0; pos < g.Size(); pos++ {
				cell := CellRect(bounds, g.Rows, g.Cols, pos)
				for y := cell.Min.Y; y < cell.Max.Y; y++ {
					for x := cell.Min.X; x < cell.Max.X; x++ {
						for _, off := range []float64{0, 0.5} {
							got, ok := core.PointerToCell(float64(x)+off, float64(y)+off, box, w, h, g.Rows, g.Cols)
							if !ok || got != pos {
								t.Fatalf("%dx%d %v: pixel (%d, %d) drawn in cell %d, click hit (%d, %v)",
									w, h, g, x, y, pos, got, ok)
							}
						}
					}
				}
			}
		}
	}
}

func TestScalerByName(t *testing.T) {
	if ScalerByName("nearest") != xdraw.NearestNeighbor {
		t.Error("nearest should map to NearestNeighbor")
	}
	if ScalerByName("bogus") != xdraw.ApproxBiLinear {
		t.Error("unknown names should map to ApproxBiLinear")
	}
}

func TestDrawBanner(t *testing.T) {
	dst := image.NewRGBA(image.Rect(0, 0, 200, 100))
	DrawBanner(dst, "Solved!")

	if got := dst.RGBAAt(2, 50); got.A == 0 {
		t.Error("banner band not drawn at the left edge of the middle row")
	}
	if got := dst.RGBAAt(2, 2); got.A != 0 {
		t.Errorf("pixel outside the band = %v, expected untouched", got)
	}

	lit := false
	for x := 0; x < 200 && !lit; x++ {
		for y := 40; y < 60; y++ {
			if dst.RGBAAt(x, y).R > 200 {
				lit = true
				break
			}
		}
	}
	if !lit {
		t.Error("no text pixels found in the band")
	}
}

func TestDrawBannerEmpty(t *testing.T) {
	dst := image.NewRGBA(image.Rect(0, 0, 20, 20))
	DrawBanner(dst, "  ")
	if got := dst.RGBAAt(10, 10); got.A != 0 {
		t.Errorf("empty banner drew %v", got)
	}
}

func TestWrap(t *testing.T) {
	// 89px leaves room for 11 glyphs per line.
	if got := Wrap("hello world again", 89); got != "hello world\nagain" {
		t.Errorf("Wrap() = %q", got)
	}
	if got := Wrap("a\nb", 89); got != "a\nb" {
		t.Errorf("Wrap() kept newlines as %q", got)
	}
}
