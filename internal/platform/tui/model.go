package tui

import (
	"context"
	"fmt"
	"image"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/slidecam/internal/compositor"
	"github.com/vovakirdan/slidecam/internal/core"
	"github.com/vovakirdan/slidecam/internal/game"
	"github.com/vovakirdan/slidecam/internal/source"
	"github.com/vovakirdan/slidecam/internal/storage"
)

// Screen layout constants, in terminal rows.
const (
	headerLines = 2 // Title + blank
	footerLines = 3 // Blank + status + help
)

// Options configures the terminal frontend.
type Options struct {
	Session  *game.Session
	Provider source.Provider
	Request  source.Request
	Store    *storage.Store // Optional, enables the history view
	Config   core.RuntimeConfig

	// Surface aspect ratio and container fill.
	AspectW, AspectH int
	Fill             float64

	Renderer *lipgloss.Renderer // Optional, per-connection renderer for SSH
	Context  context.Context    // Optional, cancels acquisitions when done
	Logger   *log.Logger
}

func (o Options) withDefaults() Options {
	if o.AspectW <= 0 || o.AspectH <= 0 {
		o.AspectW, o.AspectH = 4, 3
	}
	if o.Fill <= 0 {
		o.Fill = 0.9
	}
	if o.Context == nil {
		o.Context = context.Background()
	}
	if o.Logger == nil {
		o.Logger = log.Default()
	}
	if o.Config.TickRate <= 0 {
		o.Config.TickRate = 30
	}
	return o
}

// boardLayout places the surface in the terminal. The backing surface has one
// pixel per column and two per row.
type boardLayout struct {
	rect       core.Rect // Terminal cells
	pixW, pixH int
}

func (l boardLayout) empty() bool {
	return l.rect.Empty()
}

// computeLayout fits an aw:ah surface into the rows left between header and footer.
func computeLayout(cols, rows, aw, ah int, fill float64) boardLayout {
	avail := rows - headerLines - footerLines
	if cols <= 0 || avail <= 0 {
		return boardLayout{}
	}

	size := core.FitAspect(cols, avail*2, aw, ah, fill)
	size.H -= size.H % 2
	if size.W <= 0 || size.H <= 0 {
		return boardLayout{}
	}

	rect := core.Centered(cols, avail, core.Size{W: size.W, H: size.H / 2})
	rect.Y += headerLines
	return boardLayout{rect: rect, pixW: size.W, pixH: size.H}
}

// acquiredMsg carries an asynchronous acquisition result back to the model.
type acquiredMsg game.AcquireResult

// acquireCmd runs the provider's fallback chain off the event loop.
// A source that arrives after its context was cancelled is released here.
func acquireCmd(ctx context.Context, gen uint64, p source.Provider, req source.Request, logger *log.Logger) tea.Cmd {
	return func() tea.Msg {
		res := game.Acquire(ctx, gen, p, req, logger)
		if ctx.Err() != nil && res.Source != nil {
			res.Source.Release()
			res.Source = nil
			res.Err = ctx.Err()
		}
		return acquiredMsg(res)
	}
}

// GameModel shows one puzzle: the live surface, status and key help.
// Tiles move on left mouse clicks.
type GameModel struct {
	opts    Options
	session *game.Session
	keys    GameKeyMap
	help    help.Model
	layout  boardLayout
	surface *image.RGBA
	cancel  context.CancelFunc

	bannerTicks int // Remaining ticks of the win banner

	quitting     bool
	backToMenu   bool
	wantsHistory bool
}

// NewGameModel starts the given level and returns a model showing it.
func NewGameModel(opts Options, levelID string) (GameModel, tea.Cmd, error) {
	opts = opts.withDefaults()
	m := GameModel{
		opts:    opts,
		session: opts.Session,
		keys:    DefaultGameKeyMap(),
		help:    help.New(),
	}
	m.resize(opts.Config.ScreenW, opts.Config.ScreenH)

	cmd, err := m.start(func() (uint64, error) { return m.session.Start(levelID) })
	if err != nil {
		return GameModel{}, nil, err
	}
	return m, cmd, nil
}

// start runs a session transition and kicks off acquisition for the new puzzle.
func (m *GameModel) start(begin func() (uint64, error)) (tea.Cmd, error) {
	m.stopAcquire()
	gen, err := begin()
	if err != nil {
		return nil, err
	}
	m.bannerTicks = 0

	ctx, cancel := context.WithCancel(m.opts.Context)
	m.cancel = cancel
	return acquireCmd(ctx, gen, m.opts.Provider, m.opts.Request, m.opts.Logger), nil
}

func (m *GameModel) stopAcquire() {
	if m.cancel != nil {
		m.cancel()
		m.cancel = nil
	}
}

// shutdown cancels acquisition and releases the puzzle's source.
func (m *GameModel) shutdown() {
	m.stopAcquire()
	m.session.Close()
}

func (m *GameModel) resize(cols, rows int) {
	m.opts.Config.ScreenW = cols
	m.opts.Config.ScreenH = rows
	m.help.Width = cols
	m.layout = computeLayout(cols, rows, m.opts.AspectW, m.opts.AspectH, m.opts.Fill)
	if m.layout.empty() {
		m.surface = nil
		return
	}
	m.surface = image.NewRGBA(image.Rect(0, 0, m.layout.pixW, m.layout.pixH))
}

// Init starts the redraw loop.
func (m GameModel) Init() tea.Cmd {
	return tickCmd(m.opts.Config.TickRate)
}

// Update handles messages and updates the model state.
func (m GameModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		return m.handleMouse(msg)

	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, nil

	case acquiredMsg:
		m.session.Deliver(game.AcquireResult(msg))
		return m, nil

	case TickMsg:
		if m.bannerTicks > 0 {
			m.bannerTicks--
		}
		return m, tickCmd(m.opts.Config.TickRate)
	}

	return m, nil
}

// handleKey processes keyboard input.
func (m GameModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.shutdown()
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, m.keys.Back):
		m.shutdown()
		m.backToMenu = true
		return m, nil

	case key.Matches(msg, m.keys.History):
		if m.opts.Store != nil {
			m.wantsHistory = true
		}
		return m, nil

	case key.Matches(msg, m.keys.Reshuffle):
		cmd, err := m.start(m.session.Reshuffle)
		if err != nil {
			m.opts.Logger.Warn("reshuffle failed", "err", err)
			return m, nil
		}
		return m, cmd
	}

	return m, nil
}

// handleMouse maps a left click from terminal cells to a grid position.
func (m GameModel) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if msg.Action != tea.MouseActionPress || msg.Button != tea.MouseButtonLeft || m.layout.empty() {
		return m, nil
	}

	// Aim at the centre of the clicked cell.
	x := float64(msg.X) + 0.5
	y := float64(msg.Y) + 0.5
	res := m.session.ClickAt(x, y, m.layout.rect.Box(), m.layout.pixW, m.layout.pixH)
	if res.NewlySolved {
		m.bannerTicks = 2 * m.opts.Config.TickRate
	}
	return m, nil
}

// View renders the current state to a string for display.
func (m GameModel) View() string {
	if m.quitting || m.backToMenu {
		return ""
	}

	width := m.opts.Config.ScreenW
	var b strings.Builder

	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229")).MaxWidth(width)
	b.WriteString(titleStyle.Render(m.title()))
	b.WriteString("\n\n")

	if m.layout.empty() {
		b.WriteString("Terminal too small, please resize.\n")
		return b.String()
	}

	m.session.Render(m.surface)
	if m.bannerTicks > 0 {
		compositor.DrawBanner(m.surface, "Solved!")
	}

	b.WriteString(strings.Repeat("\n", m.layout.rect.Y-headerLines))
	pad := strings.Repeat(" ", m.layout.rect.X)
	for i, line := range strings.Split(RenderImage(m.opts.Renderer, m.surface), "\n") {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(pad)
		b.WriteString(line)
	}
	b.WriteString("\n\n")

	b.WriteString(m.statusStyle().MaxWidth(width).Render(m.session.Status()))
	b.WriteString("\n")
	helpStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	b.WriteString(helpStyle.Render(m.help.View(m.keys)))

	return b.String()
}

func (m GameModel) title() string {
	lvl := m.session.Level()
	return fmt.Sprintf("SLIDECAM  %s %dx%d  |  %s", lvl.Name, lvl.Cols, lvl.Rows, m.opts.Provider.Title())
}

func (m GameModel) statusStyle() lipgloss.Style {
	style := lipgloss.NewStyle()
	switch {
	case m.session.Solved():
		return style.Bold(true).Foreground(lipgloss.Color("10"))
	case m.session.SourceErr() != nil:
		return style.Foreground(lipgloss.Color("208"))
	default:
		return style.Foreground(lipgloss.Color("245"))
	}
}

// IsQuitting returns true if user requested to quit entirely.
func (m GameModel) IsQuitting() bool {
	return m.quitting
}

// BackToMenu returns true if user requested to change difficulty.
func (m GameModel) BackToMenu() bool {
	return m.backToMenu
}

// WantsHistory returns true if user asked for the history view.
func (m GameModel) WantsHistory() bool {
	return m.wantsHistory
}

// resume clears the history request after the history view closes.
func (m GameModel) resume() GameModel {
	m.wantsHistory = false
	return m
}
