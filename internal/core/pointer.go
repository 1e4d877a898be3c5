package core

import "math"

// Box is where a surface is shown, in display units. Display units may differ
// from the surface's backing pixels: a terminal cell shows two half-block
// pixels, a window may be scaled by the OS.
type Box struct {
	X, Y float64
	W, H float64
}

// PointerToCell maps a pointer position in display units to a grid position.
// The point is made box-local, scaled by backing/displayed size and divided
// by the per-cell pixel size. Points off the board return false.
func PointerToCell(px, py float64, box Box, backingW, backingH, rows, cols int) (int, bool) {
	if box.W <= 0 || box.H <= 0 || backingW <= 0 || backingH <= 0 || rows <= 0 || cols <= 0 {
		return -1, false
	}

	// Surface-local backing pixel
	lx := math.Floor((px - box.X) * float64(backingW) / box.W)
	ly := math.Floor((py - box.Y) * float64(backingH) / box.H)
	if lx < 0 || lx >= float64(backingW) || ly < 0 || ly >= float64(backingH) {
		return -1, false
	}

	col := cellOf(int(lx), backingW, cols)
	row := cellOf(int(ly), backingH, rows)
	return row*cols + col, true
}

// cellOf returns the cell holding pixel x when size pixels are split into n
// cells with boundaries at floor(c*size/n), the way the compositor lays them out.
func cellOf(x, size, n int) int {
	return ((x+1)*n - 1) / size
}
