package tui

import (
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/slidecam/internal/core"
	"github.com/vovakirdan/slidecam/internal/puzzle"
)

// MenuItem represents a selectable difficulty in the menu.
type MenuItem struct {
	LevelID string
	Title   string
	Rows    int
	Cols    int
}

// MenuModel is the Bubble Tea model for the difficulty picker.
type MenuModel struct {
	items       []MenuItem
	cursor      int
	width       int
	height      int
	sourceTitle string
	hasHistory  bool
	config      core.RuntimeConfig
	keyMapper   *KeyMapper
	quitting    bool
	selected    *MenuItem // Set when user picks a difficulty
	openHistory bool      // True if user pressed Tab for history
}

// NewMenuModel creates a new menu model over the given levels.
func NewMenuModel(levels []puzzle.Level, sourceTitle string, hasHistory bool, cfg core.RuntimeConfig) MenuModel {
	items := make([]MenuItem, 0, len(levels))
	for _, l := range levels {
		items = append(items, MenuItem{
			LevelID: l.ID,
			Title:   l.Name,
			Rows:    l.Rows,
			Cols:    l.Cols,
		})
	}

	return MenuModel{
		items:       items,
		width:       cfg.ScreenW,
		height:      cfg.ScreenH,
		sourceTitle: sourceTitle,
		hasHistory:  hasHistory,
		config:      cfg,
		keyMapper:   NewKeyMapper(),
	}
}

// Init initializes the menu model.
func (m MenuModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the menu.
func (m MenuModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.config.ScreenW = msg.Width
		m.config.ScreenH = msg.Height
		return m, nil
	}

	return m, nil
}

// handleKey processes keyboard input for menu navigation.
func (m MenuModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Number keys pick a difficulty directly.
	if n, err := strconv.Atoi(msg.String()); err == nil && n >= 1 && n <= len(m.items) {
		m.cursor = n - 1
		selected := m.items[m.cursor]
		m.selected = &selected
		return m, nil
	}

	action, isQuit := m.keyMapper.MapKey(msg)
	if isQuit {
		m.quitting = true
		return m, tea.Quit
	}

	switch action {
	case core.ActionUp:
		if m.cursor > 0 {
			m.cursor--
		}

	case core.ActionDown:
		if m.cursor < len(m.items)-1 {
			m.cursor++
		}

	case core.ActionConfirm:
		if len(m.items) > 0 {
			selected := m.items[m.cursor]
			m.selected = &selected
		}

	case core.ActionHistory:
		if m.hasHistory {
			m.openHistory = true
		}
	}

	return m, nil
}

// View renders the menu.
func (m MenuModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229"))
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("241"))

	b.WriteString("\n")
	b.WriteString(centerStyled(titleStyle.Render("  S L I D E C A M  "), m.width))
	b.WriteString("\n\n")
	b.WriteString(centerText("Choose a difficulty", m.width))
	b.WriteString("\n\n")

	for i, item := range m.items {
		cursor := "  "
		if i == m.cursor {
			cursor = "> "
		}
		line := fmt.Sprintf("%s%d. %-8s %dx%d", cursor, i+1, item.Title, item.Cols, item.Rows)
		b.WriteString(centerText(line, m.width))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(centerStyled(dimStyle.Render("Image source: "+m.sourceTitle), m.width))
	b.WriteString("\n\n")

	controls := "Up/Down: Navigate  |  Enter/1-9: Select  |  Q: Quit"
	if m.hasHistory {
		controls = "Up/Down: Navigate  |  Enter/1-9: Select  |  Tab: History  |  Q: Quit"
	}
	b.WriteString(centerText(controls, m.width))
	b.WriteString("\n")

	return b.String()
}

// Selected returns the selected menu item, or nil if none selected.
func (m MenuModel) Selected() *MenuItem {
	return m.selected
}

// IsQuitting returns true if user requested to quit.
func (m MenuModel) IsQuitting() bool {
	return m.quitting
}

// WantsHistory returns true if user requested the history view.
func (m MenuModel) WantsHistory() bool {
	return m.openHistory
}

// Config returns the current runtime config (may have been updated by resize).
func (m MenuModel) Config() core.RuntimeConfig {
	return m.config
}

// centerText centers text within given width.
func centerText(text string, width int) string {
	if len(text) >= width {
		return text
	}
	padding := (width - len(text)) / 2
	return strings.Repeat(" ", padding) + text
}

// centerStyled centers already styled text, measuring its printable width.
func centerStyled(text string, width int) string {
	w := lipgloss.Width(text)
	if w >= width {
		return text
	}
	return strings.Repeat(" ", (width-w)/2) + text
}
