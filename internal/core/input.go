package core

// Action represents a semantic player action, abstracted from physical key presses.
// This allows the simulation to work with high-level intents rather than raw input.
type Action int

const (
	ActionNone   Action = iota
	ActionJump          // Space, Up - jump (also "start" from the menu)
	ActionStart         // Enter - leave the menu and begin a run
	ActionPause         // P, Escape - pause/unpause
	ActionResume        // explicit resume (hosts that separate the two)
	ActionRetry         // R - new run after game over
	ActionQuit          // Q, Ctrl+C - exit
)

// String returns a human-readable name for the action.
func (a Action) String() string {
	switch a {
	case ActionNone:
		return "None"
	case ActionJump:
		return "Jump"
	case ActionStart:
		return "Start"
	case ActionPause:
		return "Pause"
	case ActionResume:
		return "Resume"
	case ActionRetry:
		return "Retry"
	case ActionQuit:
		return "Quit"
	default:
		return "Unknown"
	}
}
