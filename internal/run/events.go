package run

import "github.com/google/uuid"

// RunStartEvent is published when a run begins ticking.
type RunStartEvent struct {
	RunID uuid.UUID
}

func (RunStartEvent) Name() string { return "run-start" }

// RunEndEvent is published once the run has been settled with the economy.
type RunEndEvent struct {
	Summary Summary
	Outcome Outcome
}

func (RunEndEvent) Name() string { return "run-end" }

// MysteryBoxEvent is published when a run earns a mystery box.
type MysteryBoxEvent struct {
	Total int
}

func (MysteryBoxEvent) Name() string { return "mystery-box" }

// PauseEvent is published on pause and resume.
type PauseEvent struct {
	Paused bool
}

func (PauseEvent) Name() string { return "pause" }
