// Package source defines the live image feed a puzzle is cut from and the
// providers that acquire one. Acquisition is the only blocking operation in a
// puzzle session; everything after it polls Ready and reads Frame.
package source

import (
	"context"
	"fmt"
	"image"
	"time"
)

// Constraints describe a requested capture configuration. Zero fields mean "any".
type Constraints struct {
	Width  int
	Height int
	FPS    int
}

// IsAny reports whether no constraint is set.
func (c Constraints) IsAny() bool {
	return c.Width == 0 && c.Height == 0 && c.FPS == 0
}

// String returns a compact form like "640x480@30" or "any".
func (c Constraints) String() string {
	if c.IsAny() {
		return "any"
	}
	s := fmt.Sprintf("%dx%d", c.Width, c.Height)
	if c.FPS > 0 {
		s += fmt.Sprintf("@%d", c.FPS)
	}
	return s
}

// Request carries everything a provider may need to open a source.
type Request struct {
	Preferred   Constraints
	Fallbacks   []Constraints
	Device      string        // Capture device path (camera)
	Path        string        // Image file path (image)
	Timeout     time.Duration // Upper bound for a single attempt; 0 = provider default
	Remote      bool          // Session is not on the local machine (SSH)
	AllowRemote bool          // Permit hardware capture for remote sessions
}

// Candidates returns the constraint sets to try, most preferred first,
// always ending with "any". Duplicates are dropped.
func (r Request) Candidates() []Constraints {
	all := make([]Constraints, 0, len(r.Fallbacks)+2)
	all = append(all, r.Preferred)
	all = append(all, r.Fallbacks...)
	all = append(all, Constraints{})

	out := all[:0]
	seen := make(map[Constraints]bool, len(all))
	for _, c := range all {
		if seen[c] {
			continue
		}
		seen[c] = true
		out = append(out, c)
	}
	return out
}

// ImageSource is a live image feed.
type ImageSource interface {
	// Size returns the native frame size in pixels. Zero until known.
	Size() (width, height int)

	// Ready reports whether at least one frame is available.
	Ready() bool

	// Frame returns the most recent frame, or nil before Ready.
	// The image must not be retained past the next call.
	Frame() image.Image

	// Release stops the underlying stream. It is synchronous and idempotent.
	Release()
}

// Provider opens image sources of one kind.
type Provider interface {
	// ID returns the registry identifier (e.g., "camera").
	ID() string

	// Title returns a human-readable name.
	Title() string

	// Open makes one acquisition attempt with the given constraints.
	// Failures are reported as *Failure.
	Open(ctx context.Context, req Request, c Constraints) (ImageSource, error)
}
