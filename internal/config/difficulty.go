package config

import (
	"github.com/vovakirdan/slidecam/internal/puzzle"
)

// PuzzleLevels converts the configured levels to puzzle presets.
func (c Config) PuzzleLevels() []puzzle.Level {
	levels := make([]puzzle.Level, len(c.Levels))
	for i, l := range c.Levels {
		levels[i] = l.Level()
	}
	return levels
}

// Level converts one level config to a puzzle preset.
func (l LevelConfig) Level() puzzle.Level {
	name := l.Name
	if name == "" {
		name = l.ID
	}
	return puzzle.Level{
		ID:           l.ID,
		Name:         name,
		Rows:         l.Rows,
		Cols:         l.Cols,
		ShuffleMoves: l.ShuffleMoves,
	}
}

// FindLevel looks a level up by ID.
func (c Config) FindLevel(id string) (puzzle.Level, bool) {
	return puzzle.FindLevel(c.PuzzleLevels(), id)
}
