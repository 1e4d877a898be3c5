// Package puzzle implements the sliding-tile state engine: grid geometry,
// the random-walk shuffle, move legality and the solved check.
// It has no rendering or platform dependencies.
package puzzle

import (
	"errors"
	"fmt"
)

// MinDimension is the smallest allowed row or column count.
const MinDimension = 2

var (
	// ErrInvalidGrid is returned for grids smaller than 2x2.
	ErrInvalidGrid = errors.New("puzzle: grid must be at least 2x2")
	// ErrInvalidEmpty is returned when the empty home position is off the grid.
	ErrInvalidEmpty = errors.New("puzzle: empty home position out of range")
)

// Grid holds the board dimensions. It is fixed for the lifetime of an Instance.
type Grid struct {
	Rows int
	Cols int
}

// Size returns the number of cells on the board.
func (g Grid) Size() int {
	return g.Rows * g.Cols
}

// Validate checks the minimum dimensions.
func (g Grid) Validate() error {
	if g.Rows < MinDimension || g.Cols < MinDimension {
		return fmt.Errorf("%w: got %dx%d", ErrInvalidGrid, g.Rows, g.Cols)
	}
	return nil
}

// Contains reports whether (row, col) lies on the board.
func (g Grid) Contains(row, col int) bool {
	return row >= 0 && row < g.Rows && col >= 0 && col < g.Cols
}

// String returns the grid as "RxC".
func (g Grid) String() string {
	return fmt.Sprintf("%dx%d", g.Rows, g.Cols)
}

// PositionToRowCol splits a cell index into row and column.
func PositionToRowCol(position, cols int) (row, col int) {
	return position / cols, position % cols
}

// RowColToPosition joins a row and column into a cell index.
func RowColToPosition(row, col, cols int) int {
	return row*cols + col
}

// Manhattan returns the taxicab distance between two cells.
func Manhattan(a, b, cols int) int {
	ar, ac := PositionToRowCol(a, cols)
	br, bc := PositionToRowCol(b, cols)
	return abs(ar-br) + abs(ac-bc)
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
