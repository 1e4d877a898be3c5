package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/slidecam/internal/game"
)

type screen int

const (
	screenMenu screen = iota
	screenGame
	screenHistory
)

// AppModel manages the full session flow: menu -> puzzle -> menu, with the
// history view reachable from both. It is the top-level model for local
// play and SSH sessions.
type AppModel struct {
	opts     Options
	screen   screen
	returnTo screen // Screen to restore when history closes

	menu    MenuModel
	game    GameModel
	history HistoryModel

	initCmd  tea.Cmd
	quitting bool
}

// NewAppModel creates the session model. A non-empty levelID skips the menu
// and starts that level right away.
func NewAppModel(opts Options, levelID string) (AppModel, error) {
	opts = opts.withDefaults()
	m := AppModel{opts: opts}

	if levelID == "" {
		m.menu = m.newMenu()
		return m, nil
	}

	g, cmd, err := NewGameModel(opts, levelID)
	if err != nil {
		return AppModel{}, err
	}
	m.game = g
	m.screen = screenGame
	m.initCmd = tea.Batch(g.Init(), cmd)
	return m, nil
}

func (m AppModel) newMenu() MenuModel {
	return NewMenuModel(m.opts.Session.Levels(), m.opts.Provider.Title(), m.opts.Store != nil, m.opts.Config)
}

// Init initializes the session.
func (m AppModel) Init() tea.Cmd {
	if m.screen == screenGame {
		return m.initCmd
	}
	return m.menu.Init()
}

// Update handles messages for the session.
func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.opts.Config.ScreenW = msg.Width
		m.opts.Config.ScreenH = msg.Height
		if m.hasGame() && m.screen != screenGame {
			// Keep the hidden puzzle's layout current.
			m.game.resize(msg.Width, msg.Height)
		}

	case acquiredMsg:
		// Results for a puzzle that is no longer shown are released by the session.
		m.opts.Session.Deliver(game.AcquireResult(msg))
		return m, nil

	case TickMsg:
		if m.screen != screenGame {
			return m, nil
		}
	}

	switch m.screen {
	case screenGame:
		return m.updateGame(msg)
	case screenHistory:
		return m.updateHistory(msg)
	default:
		return m.updateMenu(msg)
	}
}

func (m AppModel) hasGame() bool {
	return m.screen == screenGame || (m.screen == screenHistory && m.returnTo == screenGame)
}

// updateMenu handles updates when in menu mode.
func (m AppModel) updateMenu(msg tea.Msg) (tea.Model, tea.Cmd) {
	newMenu, cmd := m.menu.Update(msg)
	if menuModel, ok := newMenu.(MenuModel); ok {
		m.menu = menuModel
	}

	if m.menu.IsQuitting() {
		m.quitting = true
		return m, tea.Quit
	}

	if m.menu.WantsHistory() {
		m.openHistory(screenMenu)
		m.menu = m.newMenu()
		return m, nil
	}

	if selected := m.menu.Selected(); selected != nil {
		g, startCmd, err := NewGameModel(m.opts, selected.LevelID)
		if err != nil {
			// Menu only lists the session's own levels.
			m.opts.Logger.Error("cannot start level", "level", selected.LevelID, "err", err)
			m.menu = m.newMenu()
			return m, nil
		}
		m.game = g
		m.screen = screenGame
		return m, tea.Batch(g.Init(), startCmd)
	}

	return m, cmd
}

// updateGame handles updates when a puzzle is on screen.
func (m AppModel) updateGame(msg tea.Msg) (tea.Model, tea.Cmd) {
	newModel, cmd := m.game.Update(msg)
	if gameModel, ok := newModel.(GameModel); ok {
		m.game = gameModel
	}

	if m.game.IsQuitting() {
		m.quitting = true
		return m, tea.Quit
	}

	if m.game.BackToMenu() {
		m.game = GameModel{}
		m.screen = screenMenu
		m.menu = m.newMenu()
		return m, m.menu.Init()
	}

	if m.game.WantsHistory() {
		m.game = m.game.resume()
		m.openHistory(screenGame)
		return m, nil
	}

	return m, cmd
}

// updateHistory handles updates when the history view is open.
func (m AppModel) updateHistory(msg tea.Msg) (tea.Model, tea.Cmd) {
	newModel, cmd := m.history.Update(msg)
	if historyModel, ok := newModel.(HistoryModel); ok {
		m.history = historyModel
	}

	if m.history.IsQuitting() {
		if m.returnTo == screenGame {
			m.game.shutdown()
		}
		m.quitting = true
		return m, tea.Quit
	}

	if m.history.IsGoingBack() {
		m.screen = m.returnTo
		if m.screen == screenGame {
			// Ticks stop while the puzzle is hidden.
			return m, tickCmd(m.opts.Config.TickRate)
		}
		return m, nil
	}

	return m, cmd
}

func (m *AppModel) openHistory(from screen) {
	m.history = NewHistoryModel(m.opts.Store, m.opts.Config.ScreenW, m.opts.Config.ScreenH)
	m.returnTo = from
	m.screen = screenHistory
}

// View renders the current view.
func (m AppModel) View() string {
	if m.quitting {
		return ""
	}

	switch m.screen {
	case screenGame:
		return m.game.View()
	case screenHistory:
		return m.history.View()
	default:
		return m.menu.View()
	}
}

// Run starts the terminal frontend and blocks until the user quits.
// The session is closed on return, releasing any source.
func Run(opts Options, levelID string) error {
	defer opts.Session.Close()

	model, err := NewAppModel(opts, levelID)
	if err != nil {
		return err
	}

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),       // Use alternate screen buffer
		tea.WithMouseCellMotion(), // Clicks slide tiles
	)

	_, err = p.Run()
	return err
}
