package puzzle

// Snapshot captures the board for determinism tests and logging.
type Snapshot struct {
	Rows      int
	Cols      int
	Empty     int
	Positions []int // Current position indexed by tile ID
	Distance  int
	Shuffled  int
	Solved    bool
}

// Snapshot returns the current board snapshot.
func (p *Instance) Snapshot() Snapshot {
	positions := make([]int, len(p.tiles))
	for i, t := range p.tiles {
		positions[i] = t.Current
	}
	return Snapshot{
		Rows:      p.grid.Rows,
		Cols:      p.grid.Cols,
		Empty:     p.emptyPos,
		Positions: positions,
		Distance:  p.Distance(),
		Shuffled:  len(p.shuffled),
		Solved:    p.IsSolved(),
	}
}
