// Package gui provides a windowed frontend built on Ebitengine.
// The composited surface keeps its configured backing size and is scaled
// into the window, so clicks are mapped from window units to backing pixels.
package gui

import (
	"context"
	"fmt"
	"image"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/vovakirdan/slidecam/internal/compositor"
	"github.com/vovakirdan/slidecam/internal/core"
	"github.com/vovakirdan/slidecam/internal/game"
	"github.com/vovakirdan/slidecam/internal/source"
)

const bannerDuration = 2 * time.Second

// Options configures the window.
type Options struct {
	Session  *game.Session
	Provider source.Provider
	Request  source.Request
	Level    string // Optional, skips the picker

	SurfaceW, SurfaceH int // Backing size of the composited surface
	AspectW, AspectH   int
	Fill               float64
	WindowW, WindowH   int
	TickRate           int

	Logger *log.Logger
}

// Game implements ebiten.Game over a puzzle session.
type Game struct {
	opts    Options
	session *game.Session
	loader  *game.Loader
	logger  *log.Logger

	backing *image.RGBA
	frame   *ebiten.Image
	outW    int
	outH    int

	bannerUntil time.Time
}

// New creates the window model. It does not open a window.
func New(opts Options) *Game {
	if opts.SurfaceW <= 0 || opts.SurfaceH <= 0 {
		opts.SurfaceW, opts.SurfaceH = 800, 600
	}
	if opts.AspectW <= 0 || opts.AspectH <= 0 {
		opts.AspectW, opts.AspectH = 4, 3
	}
	if opts.Fill <= 0 {
		opts.Fill = 0.9
	}
	if opts.WindowW <= 0 || opts.WindowH <= 0 {
		opts.WindowW, opts.WindowH = 960, 720
	}
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}

	return &Game{
		opts:    opts,
		session: opts.Session,
		loader:  game.NewLoader(context.Background()),
		logger:  opts.Logger,
		backing: image.NewRGBA(image.Rect(0, 0, opts.SurfaceW, opts.SurfaceH)),
		outW:    opts.WindowW,
		outH:    opts.WindowH,
	}
}

func (g *Game) start(begin func() (uint64, error)) {
	g.loader.Stop()
	gen, err := begin()
	if err != nil {
		g.logger.Warn("cannot start puzzle", "err", err)
		return
	}
	g.bannerUntil = time.Time{}
	g.loader.Start(gen, g.opts.Provider, g.opts.Request, g.logger)
}

func (g *Game) startLevel(id string) {
	g.start(func() (uint64, error) { return g.session.Start(id) })
}

// displayBox is where the surface is drawn, in window units.
func (g *Game) displayBox() core.Rect {
	size := core.FitAspect(g.outW, g.outH, g.opts.AspectW, g.opts.AspectH, g.opts.Fill)
	return core.Centered(g.outW, g.outH, size)
}

// Layout uses the window size as the logical screen, so cursor positions
// arrive in the same units as the display box.
func (g *Game) Layout(outsideW, outsideH int) (int, int) {
	g.outW, g.outH = outsideW, outsideH
	return outsideW, outsideH
}

// Update handles input and acquisition results.
func (g *Game) Update() error {
	for {
		res, ok := g.loader.Poll()
		if !ok {
			break
		}
		g.session.Deliver(res)
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) || inpututil.IsKeyJustPressed(ebiten.KeyQ) {
		return ebiten.Termination
	}

	// Difficulty hotkeys
	levels := g.session.Levels()
	for i, k := range []ebiten.Key{ebiten.Key1, ebiten.Key2, ebiten.Key3, ebiten.Key4, ebiten.Key5} {
		if i < len(levels) && inpututil.IsKeyJustPressed(k) {
			g.startLevel(levels[i].ID)
		}
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyR) && g.session.Instance() != nil {
		g.start(g.session.Reshuffle)
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyB) {
		g.loader.Stop()
		g.session.Close()
	}

	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		mx, my := ebiten.CursorPosition()
		box := g.displayBox().Box()
		res := g.session.ClickAt(float64(mx), float64(my), box, g.opts.SurfaceW, g.opts.SurfaceH)
		if res.NewlySolved {
			g.bannerUntil = time.Now().Add(bannerDuration)
		}
	}

	return nil
}

// Draw composites the surface, scales it into the window and prints status.
func (g *Game) Draw(screen *ebiten.Image) {
	if g.session.Instance() != nil {
		g.session.Render(g.backing)
		switch {
		case time.Now().Before(g.bannerUntil):
			compositor.DrawBanner(g.backing, "Solved!")
		case g.session.SourceErr() != nil:
			compositor.DrawBanner(g.backing, source.MessageOf(g.session.SourceErr()))
		}

		if g.frame == nil {
			g.frame = ebiten.NewImage(g.opts.SurfaceW, g.opts.SurfaceH)
		}
		g.frame.WritePixels(g.backing.Pix)

		box := g.displayBox()
		op := &ebiten.DrawImageOptions{}
		op.GeoM.Scale(float64(box.W)/float64(g.opts.SurfaceW), float64(box.H)/float64(g.opts.SurfaceH))
		op.GeoM.Translate(float64(box.X), float64(box.Y))
		op.Filter = ebiten.FilterLinear
		screen.DrawImage(g.frame, op)
	}

	ebitenutil.DebugPrint(screen, g.statusText())
}

func (g *Game) statusText() string {
	var b strings.Builder
	if g.session.Instance() != nil {
		lvl := g.session.Level()
		fmt.Fprintf(&b, "%s %dx%d  |  %s\n", lvl.Name, lvl.Cols, lvl.Rows, g.opts.Provider.Title())
	}
	b.WriteString(g.session.Status())
	b.WriteString("\n")

	keys := make([]string, 0, len(g.session.Levels()))
	for i, l := range g.session.Levels() {
		if i >= 5 {
			break
		}
		keys = append(keys, fmt.Sprintf("%d: %s", i+1, l.Name))
	}
	b.WriteString(strings.Join(keys, "  "))
	b.WriteString("  R: reshuffle  B: change difficulty  Esc: quit")
	return b.String()
}

// Close cancels acquisition and releases the session's source.
func (g *Game) Close() {
	g.loader.Stop()
	g.session.Close()
}

// Run opens the window and blocks until it is closed.
func Run(opts Options) error {
	g := New(opts)
	defer g.Close()

	if g.opts.Level != "" {
		g.startLevel(g.opts.Level)
		if g.session.Instance() == nil {
			return fmt.Errorf("gui: cannot start level %q", g.opts.Level)
		}
	}

	ebiten.SetWindowSize(g.opts.WindowW, g.opts.WindowH)
	ebiten.SetWindowTitle("SlideCam")
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	if g.opts.TickRate > 0 {
		ebiten.SetTPS(g.opts.TickRate)
	}

	if err := ebiten.RunGame(g); err != nil {
		return fmt.Errorf("gui: %w", err)
	}
	return nil
}
