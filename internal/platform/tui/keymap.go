package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/glitch-jump/internal/core"
	"github.com/vovakirdan/glitch-jump/internal/run"
)

// KeyMapper translates Bubble Tea key messages to game actions.
// This centralizes key bindings and makes them testable.
type KeyMapper struct{}

// NewKeyMapper creates a new key mapper with default bindings.
func NewKeyMapper() *KeyMapper {
	return &KeyMapper{}
}

// MapKey translates a key message to a run action.
// Returns the action (may be ActionNone) and whether it's a quit request.
func (km *KeyMapper) MapKey(msg tea.KeyMsg, state run.State) (action core.Action, isQuit bool) {
	key := msg.String()

	switch key {
	case "ctrl+c", "q":
		return core.ActionQuit, true
	}

	switch key {
	case " ", "space", "up", "w", "k":
		return core.ActionJump, false
	case "enter":
		if state == run.StateGameOver {
			return core.ActionRetry, false
		}
		return core.ActionStart, false
	case "p", "esc":
		if state == run.StatePaused {
			return core.ActionResume, false
		}
		return core.ActionPause, false
	case "r":
		return core.ActionRetry, false
	}

	return core.ActionNone, false
}

// MenuAction represents a screen-level action derived from input.
type MenuAction int

const (
	MenuActionNone MenuAction = iota
	MenuActionShop
	MenuActionBack
	MenuActionScreenshot
)

// MapKeyToMenuAction translates a key to a screen action. Only keys that do
// not drive the run are mapped here.
func (km *KeyMapper) MapKeyToMenuAction(msg tea.KeyMsg) MenuAction {
	switch msg.String() {
	case "s":
		return MenuActionShop
	case "m", "b":
		return MenuActionBack
	case "ctrl+s":
		return MenuActionScreenshot
	}
	return MenuActionNone
}
