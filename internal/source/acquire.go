package source

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/log"
)

// ErrNoCandidates is returned when a request yields nothing to try.
var ErrNoCandidates = errors.New("source: no constraint candidates")

// Acquire walks the request's constraint candidates in order and returns the
// first source that opens. Failures that no constraint change can fix
// (permission, missing device, busy device, insecure session) stop the chain.
// The returned error is the last attempt's failure.
func Acquire(ctx context.Context, p Provider, req Request, logger *log.Logger) (ImageSource, error) {
	if logger == nil {
		logger = log.Default()
	}

	var last error = ErrNoCandidates
	for _, c := range req.Candidates() {
		if err := ctx.Err(); err != nil {
			return nil, ContextFailure(c, err)
		}

		src, err := p.Open(ctx, req, c)
		if err == nil {
			w, h := src.Size()
			logger.Debug("source acquired", "provider", p.ID(), "constraints", c, "width", w, "height", h)
			return src, nil
		}

		last = err
		reason := ReasonOf(err)
		logger.Debug("source attempt failed", "provider", p.ID(), "constraints", c, "reason", reason, "err", err)
		if !reason.constraintBound() {
			break
		}
	}

	var f *Failure
	if !errors.As(last, &f) {
		last = Fail(ReasonOf(last), req.Preferred, last)
	}
	return nil, fmt.Errorf("acquire %s: %w", p.ID(), last)
}
