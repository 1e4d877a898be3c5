// Package game owns one player's puzzle session: the current instance, its
// image source and the win latch. Frontends drive it from a single goroutine.
package game

import (
	"context"
	"errors"
	"fmt"
	"image/draw"
	"math/rand"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/slidecam/internal/compositor"
	"github.com/vovakirdan/slidecam/internal/core"
	"github.com/vovakirdan/slidecam/internal/puzzle"
	"github.com/vovakirdan/slidecam/internal/source"
	"github.com/vovakirdan/slidecam/internal/storage"
)

// ErrUnknownLevel is returned by Start for level IDs not in the session's list.
var ErrUnknownLevel = errors.New("game: unknown level")

// Recorder receives session history. *storage.Store implements it.
type Recorder interface {
	StartSession(storage.SessionStart) (string, error)
	SetFailure(id, reason string) error
	FinishSession(id string, outcome storage.Outcome, endedAt time.Time) error
}

var _ Recorder = (*storage.Store)(nil)

// Options configures a Session.
type Options struct {
	Levels   []puzzle.Level
	Provider string // Source provider ID, recorded in history
	Seed     int64  // 0 = time-based
	Render   compositor.Options
	Recorder Recorder // Optional
	Logger   *log.Logger
	Now      func() time.Time
}

// MoveResult reports what a click did.
type MoveResult struct {
	Moved       bool
	NewlySolved bool // The board went from unsolved to solved on this move
}

// Session is a single-player puzzle session.
type Session struct {
	opts   Options
	rng    *rand.Rand
	logger *log.Logger

	level  puzzle.Level
	inst   *puzzle.Instance
	solved bool
	gen    uint64

	src    source.ImageSource
	srcErr error

	historyID string
	finished  bool
}

// New creates a session with no puzzle loaded.
func New(opts Options) *Session {
	if len(opts.Levels) == 0 {
		opts.Levels = puzzle.Levels
	}
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	seed := opts.Seed
	if seed == 0 {
		seed = opts.Now().UnixNano()
	}
	return &Session{
		opts:   opts,
		rng:    rand.New(rand.NewSource(seed)),
		logger: opts.Logger,
	}
}

// Levels returns the selectable levels.
func (s *Session) Levels() []puzzle.Level {
	return s.opts.Levels
}

// Start abandons any current puzzle, releases its source and begins a fresh
// shuffle of the given level. It returns the new generation, which tags
// source acquisitions started for this puzzle.
func (s *Session) Start(levelID string) (uint64, error) {
	lvl, ok := puzzle.FindLevel(s.opts.Levels, levelID)
	if !ok {
		return s.gen, fmt.Errorf("%w %q", ErrUnknownLevel, levelID)
	}

	inst, err := puzzle.Initialize(lvl.Grid(), lvl.EmptyHome(), lvl.Moves(), s.rng)
	if err != nil {
		return s.gen, fmt.Errorf("game: start %s: %w", lvl.ID, err)
	}
	// A short walk can end next to the solved board.
	inst.ShuffleAtLeast(s.rng, lvl.MinDistance())

	s.abandon()

	s.gen++
	s.level = lvl
	s.inst = inst
	s.solved = inst.IsSolved()
	s.finished = false
	s.historyID = ""

	if rec := s.opts.Recorder; rec != nil {
		id, err := rec.StartSession(storage.SessionStart{
			Level:        lvl.ID,
			Rows:         lvl.Rows,
			Cols:         lvl.Cols,
			Provider:     s.opts.Provider,
			ShuffleMoves: len(inst.ShuffleLog()),
			StartedAt:    s.opts.Now(),
		})
		if err != nil {
			s.logger.Warn("history unavailable", "err", err)
		}
		s.historyID = id
	}

	s.logger.Info("puzzle started",
		"level", lvl.ID,
		"grid", lvl.Grid(),
		"moves", len(inst.ShuffleLog()),
		"distance", inst.Distance(),
		"solvable", inst.IsSolvable(),
	)
	return s.gen, nil
}

// Reshuffle starts the current level again.
func (s *Session) Reshuffle() (uint64, error) {
	if s.inst == nil {
		return s.gen, errors.New("game: no puzzle to reshuffle")
	}
	return s.Start(s.level.ID)
}

// Generation identifies the current puzzle for acquisitions in flight.
func (s *Session) Generation() uint64 {
	return s.gen
}

// AttachSource hands an acquired source to the session. A source acquired for
// an older generation is released immediately and false is returned.
func (s *Session) AttachSource(gen uint64, src source.ImageSource) bool {
	if gen != s.gen || s.inst == nil {
		src.Release()
		s.logger.Debug("stale source released", "gen", gen, "current", s.gen)
		return false
	}
	s.releaseSource()
	s.src = src
	s.srcErr = nil

	w, h := src.Size()
	s.logger.Info("source acquired", "provider", s.opts.Provider, "width", w, "height", h)
	return true
}

// SourceFailed records an acquisition failure for the given generation.
// The puzzle stays playable without video.
func (s *Session) SourceFailed(gen uint64, err error) {
	if gen != s.gen {
		return
	}
	s.srcErr = err
	reason := source.ReasonOf(err)
	s.logger.Warn("source failed", "provider", s.opts.Provider, "reason", reason, "err", err)

	if rec := s.opts.Recorder; rec != nil && s.historyID != "" {
		if err := rec.SetFailure(s.historyID, reason.String()); err != nil {
			s.logger.Warn("history unavailable", "err", err)
		}
	}
}

// Click applies a move at a grid position. Illegal targets are ignored.
func (s *Session) Click(pos int) MoveResult {
	if s.inst == nil || !s.inst.ApplyMove(pos) {
		return MoveResult{}
	}

	was := s.solved
	s.solved = s.inst.IsSolved()
	res := MoveResult{Moved: true, NewlySolved: !was && s.solved}
	if res.NewlySolved {
		s.logger.Info("puzzle solved", "level", s.level.ID)
		s.finish(storage.OutcomeSolved)
	}
	return res
}

// ClickAt maps a pointer position on a displayed surface to a cell and clicks it.
func (s *Session) ClickAt(x, y float64, box core.Box, backingW, backingH int) MoveResult {
	if s.inst == nil {
		return MoveResult{}
	}
	g := s.inst.Grid()
	pos, ok := core.PointerToCell(x, y, box, backingW, backingH, g.Rows, g.Cols)
	if !ok {
		return MoveResult{}
	}
	return s.Click(pos)
}

// Render composites the current frame onto dst.
func (s *Session) Render(dst draw.Image) {
	var feed compositor.Feed
	if s.src != nil {
		feed = s.src
	}
	compositor.RenderFrame(dst, s.inst, feed, s.opts.Render)
}

// Level returns the current level.
func (s *Session) Level() puzzle.Level {
	return s.level
}

// Instance returns the current puzzle, or nil before Start.
func (s *Session) Instance() *puzzle.Instance {
	return s.inst
}

// Solved reports whether the board is currently solved.
func (s *Session) Solved() bool {
	return s.solved
}

// Source returns the attached source, if any.
func (s *Session) Source() source.ImageSource {
	return s.src
}

// SourceErr returns the last acquisition failure for this puzzle.
func (s *Session) SourceErr() error {
	return s.srcErr
}

// Status is a one-line description for frontends.
func (s *Session) Status() string {
	switch {
	case s.inst == nil:
		return "Choose a difficulty"
	case s.solved:
		return "Solved! Press r to play again or b to change difficulty"
	case s.srcErr != nil:
		return source.MessageOf(s.srcErr)
	case s.src == nil || !s.src.Ready():
		return "Waiting for image source..."
	default:
		return "Click a tile next to the gap to slide it"
	}
}

// Close abandons the current puzzle and releases its source.
func (s *Session) Close() {
	s.abandon()
	s.inst = nil
	s.gen++
}

func (s *Session) abandon() {
	if s.inst != nil && !s.finished {
		s.logger.Info("puzzle abandoned", "level", s.level.ID, "distance", s.inst.Distance())
		s.finish(storage.OutcomeAbandoned)
	}
	s.releaseSource()
	s.srcErr = nil
}

func (s *Session) releaseSource() {
	if s.src == nil {
		return
	}
	s.src.Release()
	s.src = nil
	s.logger.Debug("source released", "provider", s.opts.Provider)
}

func (s *Session) finish(outcome storage.Outcome) {
	if s.finished {
		return
	}
	s.finished = true
	if rec := s.opts.Recorder; rec != nil && s.historyID != "" {
		if err := rec.FinishSession(s.historyID, outcome, s.opts.Now()); err != nil {
			s.logger.Warn("history unavailable", "err", err)
		}
	}
}

// AcquireResult is the outcome of an asynchronous acquisition.
type AcquireResult struct {
	Gen    uint64
	Source source.ImageSource
	Err    error
}

// Acquire runs the provider's fallback chain. It blocks, so frontends call it
// off their event goroutine and hand the result back to Deliver.
func Acquire(ctx context.Context, gen uint64, p source.Provider, req source.Request, logger *log.Logger) AcquireResult {
	src, err := source.Acquire(ctx, p, req, logger)
	return AcquireResult{Gen: gen, Source: src, Err: err}
}

// Deliver applies an acquisition result to the session.
func (s *Session) Deliver(res AcquireResult) {
	if res.Err != nil {
		s.SourceFailed(res.Gen, res.Err)
		return
	}
	s.AttachSource(res.Gen, res.Source)
}
