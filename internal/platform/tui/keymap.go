package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/slidecam/internal/core"
)

// KeyMapper translates Bubble Tea key messages to frontend actions.
// This centralizes key bindings and makes them testable.
type KeyMapper struct{}

// NewKeyMapper creates a new key mapper with default bindings.
func NewKeyMapper() *KeyMapper {
	return &KeyMapper{}
}

// MapKey translates a key message to an action.
// Returns the action (may be ActionNone) and whether it's a quit request.
func (km *KeyMapper) MapKey(msg tea.KeyMsg) (action core.Action, isQuit bool) {
	switch msg.String() {
	case "ctrl+c", "q":
		return core.ActionQuit, true
	case "w", "up", "k":
		return core.ActionUp, false
	case "s", "down", "j":
		return core.ActionDown, false
	case "enter", " ":
		return core.ActionConfirm, false
	case "b", "esc":
		return core.ActionBack, false
	case "r":
		return core.ActionReshuffle, false
	case "tab":
		return core.ActionHistory, false
	}

	return core.ActionNone, false
}

// GameKeyMap defines the key bindings shown while a puzzle is on screen.
type GameKeyMap struct {
	Reshuffle key.Binding
	Back      key.Binding
	History   key.Binding
	Quit      key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k GameKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Reshuffle, k.Back, k.History, k.Quit}
}

// FullHelp returns key bindings for the full help view.
func (k GameKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Reshuffle, k.Back},
		{k.History, k.Quit},
	}
}

// DefaultGameKeyMap returns default key bindings.
// Tiles are moved with the mouse, so there are no movement keys.
func DefaultGameKeyMap() GameKeyMap {
	return GameKeyMap{
		Reshuffle: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "reshuffle"),
		),
		Back: key.NewBinding(
			key.WithKeys("b", "esc"),
			key.WithHelp("b/esc", "change difficulty"),
		),
		History: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "history"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}
