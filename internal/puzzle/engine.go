package puzzle

import (
	"math/rand"
	"slices"
)

// Tile is one cell of the picture. ID and Home never change; Current moves
// only by swapping with the empty tile.
type Tile struct {
	ID      int
	Home    int
	Current int
	Empty   bool
}

// Move records one slide of the empty tile from From to To.
// To is the position of the tile that was clicked (or picked by the shuffle).
type Move struct {
	From int
	To   int
}

// directions are the orthogonal neighbours of a cell: up, down, left, right.
var directions = [4][2]int{{-1, 0}, {1, 0}, {0, -1}, {0, 1}}

// Instance is one puzzle: a grid, its tiles and the cached empty position.
type Instance struct {
	grid     Grid
	tiles    []Tile
	occupant []int // position -> index into tiles
	emptyIdx int
	emptyPos int
	shuffled []Move
}

// New builds a solved instance with the empty tile at emptyHome.
func New(grid Grid, emptyHome int) (*Instance, error) {
	if err := grid.Validate(); err != nil {
		return nil, err
	}
	if emptyHome < 0 || emptyHome >= grid.Size() {
		return nil, ErrInvalidEmpty
	}

	n := grid.Size()
	inst := &Instance{
		grid:     grid,
		tiles:    make([]Tile, n),
		occupant: make([]int, n),
		emptyIdx: emptyHome,
		emptyPos: emptyHome,
	}
	for i := range n {
		inst.tiles[i] = Tile{ID: i, Home: i, Current: i, Empty: i == emptyHome}
		inst.occupant[i] = i
	}
	return inst, nil
}

// Initialize builds an instance and shuffles it with moves random-walk steps.
func Initialize(grid Grid, emptyHome, moves int, rng *rand.Rand) (*Instance, error) {
	inst, err := New(grid, emptyHome)
	if err != nil {
		return nil, err
	}
	inst.Shuffle(rng, moves)
	return inst, nil
}

// Grid returns the board dimensions.
func (p *Instance) Grid() Grid {
	return p.grid
}

// EmptyPosition returns the cell currently holding the empty tile.
func (p *Instance) EmptyPosition() int {
	return p.emptyPos
}

// Tiles returns a copy of the tiles, ordered by ID.
func (p *Instance) Tiles() []Tile {
	out := make([]Tile, len(p.tiles))
	copy(out, p.tiles)
	return out
}

// TileAt returns the tile occupying the given position.
func (p *Instance) TileAt(position int) (Tile, bool) {
	if position < 0 || position >= len(p.occupant) {
		return Tile{}, false
	}
	return p.tiles[p.occupant[position]], true
}

// ShuffleLog returns the moves performed by Shuffle, oldest first.
func (p *Instance) ShuffleLog() []Move {
	out := make([]Move, len(p.shuffled))
	copy(out, p.shuffled)
	return out
}

// Neighbors returns the in-bounds cells orthogonally adjacent to the empty cell.
func (p *Instance) Neighbors() []int {
	row, col := PositionToRowCol(p.emptyPos, p.grid.Cols)
	out := make([]int, 0, len(directions))
	for _, d := range directions {
		r, c := row+d[0], col+d[1]
		if p.grid.Contains(r, c) {
			out = append(out, RowColToPosition(r, c, p.grid.Cols))
		}
	}
	return out
}

// Shuffle performs moveCount random-walk steps on the move graph. Every state
// it visits is reachable from the solved one, so the result is always solvable.
// A step never undoes the step before it.
func (p *Instance) Shuffle(rng *rand.Rand, moveCount int) []Move {
	moves := make([]Move, 0, max(moveCount, 0))
	for range moveCount {
		m := p.step(rng)
		moves = append(moves, m)
		p.shuffled = append(p.shuffled, m)
	}
	return moves
}

// ShuffleAtLeast keeps walking until Distance reaches minDistance.
func (p *Instance) ShuffleAtLeast(rng *rand.Rand, minDistance int) []Move {
	var moves []Move
	for p.Distance() < minDistance {
		moves = append(moves, p.Shuffle(rng, 1)...)
	}
	return moves
}

func (p *Instance) step(rng *rand.Rand) Move {
	candidates := p.Neighbors()
	if n := len(p.shuffled); n > 0 && p.shuffled[n-1].To == p.emptyPos {
		back := p.shuffled[n-1].From
		candidates = slices.DeleteFunc(candidates, func(pos int) bool { return pos == back })
	}
	target := candidates[rng.Intn(len(candidates))]
	m := Move{From: p.emptyPos, To: target}
	p.swap(target)
	return m
}

// IsLegalMove reports whether target is exactly one row or one column away
// from the empty cell.
func (p *Instance) IsLegalMove(target int) bool {
	if target < 0 || target >= p.grid.Size() {
		return false
	}
	return Manhattan(target, p.emptyPos, p.grid.Cols) == 1
}

// ApplyMove slides the tile at target into the empty cell.
// Returns false and leaves the instance untouched if the move is illegal.
func (p *Instance) ApplyMove(target int) bool {
	if !p.IsLegalMove(target) {
		return false
	}
	p.swap(target)
	return true
}

// swap exchanges the empty tile with the tile at target.
func (p *Instance) swap(target int) {
	moving := p.occupant[target]
	from := p.emptyPos

	p.tiles[moving].Current = from
	p.tiles[p.emptyIdx].Current = target
	p.occupant[from] = moving
	p.occupant[target] = p.emptyIdx
	p.emptyPos = target
}

// IsSolved reports whether every tile sits at its home position.
func (p *Instance) IsSolved() bool {
	for _, t := range p.tiles {
		if t.Current != t.Home {
			return false
		}
	}
	return true
}

// Distance is the sum of Manhattan distances of the visible tiles from home.
// Zero means solved.
func (p *Instance) Distance() int {
	total := 0
	for _, t := range p.tiles {
		if t.Empty {
			continue
		}
		total += Manhattan(t.Current, t.Home, p.grid.Cols)
	}
	return total
}

// Clone returns an independent copy of the instance.
func (p *Instance) Clone() *Instance {
	return &Instance{
		grid:     p.grid,
		tiles:    slices.Clone(p.tiles),
		occupant: slices.Clone(p.occupant),
		emptyIdx: p.emptyIdx,
		emptyPos: p.emptyPos,
		shuffled: slices.Clone(p.shuffled),
	}
}

// SolutionFromLog returns the clicks that undo a move log: the positions the
// empty tile came from, newest first.
func SolutionFromLog(log []Move) []int {
	out := make([]int, 0, len(log))
	for i := len(log) - 1; i >= 0; i-- {
		out = append(out, log[i].From)
	}
	return out
}

// DefaultShuffleMoves scales the walk length with the board size.
// 3x3 -> 54, 3x4 -> 72, 4x4 -> 96.
func DefaultShuffleMoves(g Grid) int {
	return max(50, 6*g.Size())
}
