package puzzle

// Level is a difficulty preset.
type Level struct {
	ID           string
	Name         string
	Rows         int
	Cols         int
	ShuffleMoves int // 0 means DefaultShuffleMoves
}

// Levels are the built-in difficulty presets.
var Levels = []Level{
	{ID: "easy", Name: "Easy", Rows: 3, Cols: 3},
	{ID: "medium", Name: "Medium", Rows: 3, Cols: 4},
	{ID: "hard", Name: "Hard", Rows: 4, Cols: 4},
}

// Grid returns the level's board dimensions.
func (l Level) Grid() Grid {
	return Grid{Rows: l.Rows, Cols: l.Cols}
}

// EmptyHome is the bottom-right cell.
func (l Level) EmptyHome() int {
	return l.Rows*l.Cols - 1
}

// Moves returns the shuffle length for the level.
func (l Level) Moves() int {
	if l.ShuffleMoves > 0 {
		return l.ShuffleMoves
	}
	return DefaultShuffleMoves(l.Grid())
}

// MinDistance is the shuffle distance a fresh board must reach. A board
// shuffled with fewer moves cannot get further than its move count.
func (l Level) MinDistance() int {
	return min(l.Rows, l.Moves())
}

// FindLevel looks a level up by ID in the given list.
func FindLevel(levels []Level, id string) (Level, bool) {
	for _, l := range levels {
		if l.ID == id {
			return l, true
		}
	}
	return Level{}, false
}

// LevelIDs returns the IDs of the given levels in order.
func LevelIDs(levels []Level) []string {
	ids := make([]string, len(levels))
	for i, l := range levels {
		ids[i] = l.ID
	}
	return ids
}
