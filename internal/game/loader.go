package game

import (
	"context"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/slidecam/internal/source"
)

// Loader runs acquisitions on background goroutines for frontends that poll
// from their own loop. Only the most recent acquisition can deliver; sources
// from cancelled ones are released by the goroutine that acquired them.
type Loader struct {
	parent  context.Context
	results chan AcquireResult
	cancel  context.CancelFunc
}

// NewLoader creates a loader whose acquisitions stop when parent is done.
func NewLoader(parent context.Context) *Loader {
	if parent == nil {
		parent = context.Background()
	}
	return &Loader{
		parent:  parent,
		results: make(chan AcquireResult),
	}
}

// Start cancels any acquisition in flight and begins a new one for gen.
func (l *Loader) Start(gen uint64, p source.Provider, req source.Request, logger *log.Logger) {
	l.Stop()
	ctx, cancel := context.WithCancel(l.parent)
	l.cancel = cancel

	go func() {
		res := Acquire(ctx, gen, p, req, logger)
		if ctx.Err() != nil {
			if res.Source != nil {
				res.Source.Release()
			}
			return
		}
		select {
		case l.results <- res:
		case <-ctx.Done():
			if res.Source != nil {
				res.Source.Release()
			}
		}
	}()
}

// Poll returns a finished acquisition without blocking.
func (l *Loader) Poll() (AcquireResult, bool) {
	select {
	case res := <-l.results:
		return res, true
	default:
		return AcquireResult{}, false
	}
}

// Stop cancels the acquisition in flight, if any.
func (l *Loader) Stop() {
	if l.cancel != nil {
		l.cancel()
		l.cancel = nil
	}
}
