package core

// Action represents a semantic frontend action, abstracted from physical key presses.
// Tiles move only by pointer clicks; actions drive menus and session control.
type Action int

const (
	ActionNone      Action = iota
	ActionUp               // W, Up arrow, k - move menu cursor up
	ActionDown             // S, Down arrow, j - move menu cursor down
	ActionConfirm          // Enter, Space - confirm selection in menu
	ActionBack             // B, Escape - change difficulty (back to picker)
	ActionReshuffle        // R - new shuffle at the same difficulty
	ActionHistory          // Tab - open session history
	ActionQuit             // Q, Ctrl+C - exit
)

// String returns a human-readable name for the action.
func (a Action) String() string {
	switch a {
	case ActionNone:
		return "None"
	case ActionUp:
		return "Up"
	case ActionDown:
		return "Down"
	case ActionConfirm:
		return "Confirm"
	case ActionBack:
		return "Back"
	case ActionReshuffle:
		return "Reshuffle"
	case ActionHistory:
		return "History"
	case ActionQuit:
		return "Quit"
	default:
		return "Unknown"
	}
}
