// Package core provides fundamental types shared by the puzzle frontends:
// layout geometry, pointer mapping and runtime configuration.
// It has no external dependencies so it stays usable from every platform layer.
package core

// Rect is an axis-aligned rectangle in display units (terminal cells or window pixels).
type Rect struct {
	X, Y int // Top-left corner position
	W, H int // Width and height
}

// NewRect creates a new rectangle with the given position and dimensions.
func NewRect(x, y, w, h int) Rect {
	return Rect{X: x, Y: y, W: w, H: h}
}

// Right returns the x-coordinate of the right edge.
func (r Rect) Right() int {
	return r.X + r.W
}

// Bottom returns the y-coordinate of the bottom edge.
func (r Rect) Bottom() int {
	return r.Y + r.H
}

// Contains returns true if the point (x, y) is inside this rectangle.
func (r Rect) Contains(x, y int) bool {
	return x >= r.X && x < r.Right() && y >= r.Y && y < r.Bottom()
}

// Empty reports whether the rectangle has no area.
func (r Rect) Empty() bool {
	return r.W <= 0 || r.H <= 0
}

// Box converts the rectangle to a pointer-mapping box.
func (r Rect) Box() Box {
	return Box{X: float64(r.X), Y: float64(r.Y), W: float64(r.W), H: float64(r.H)}
}

// Size is a width/height pair in pixels.
type Size struct {
	W, H int
}

// FitAspect returns the largest size with the aspect ratio aw:ah that fits
// inside the container, scaled by fill (0 < fill <= 1). Results are floored.
func FitAspect(containerW, containerH, aw, ah int, fill float64) Size {
	if containerW <= 0 || containerH <= 0 || aw <= 0 || ah <= 0 {
		return Size{}
	}
	fill = ClampF(fill, 0.01, 1.0)
	aspect := float64(aw) / float64(ah)

	var w, h float64
	if float64(containerW)/float64(containerH) > aspect {
		// Container is wider than the target: height limits.
		h = float64(containerH) * fill
		w = h * aspect
	} else {
		w = float64(containerW) * fill
		h = w / aspect
	}
	return Size{W: int(w), H: int(h)}
}

// Centered returns a rectangle of the given size centred in the container.
func Centered(containerW, containerH int, s Size) Rect {
	return Rect{
		X: (containerW - s.W) / 2,
		Y: (containerH - s.H) / 2,
		W: s.W,
		H: s.H,
	}
}

// Clamp restricts a value to be within [min, max].
func Clamp(val, min, max int) int {
	if val < min {
		return min
	}
	if val > max {
		return max
	}
	return val
}

// ClampF restricts a float64 value to be within [min, max].
func ClampF(val, min, max float64) float64 {
	if val < min {
		return min
	}
	if val > max {
		return max
	}
	return val
}
