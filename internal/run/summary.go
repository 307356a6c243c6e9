package run

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/vovakirdan/glitch-jump/internal/sim"
)

// Summary is the frozen result of a finished run.
type Summary struct {
	ID          uuid.UUID
	Profile     string
	Skin        string
	Score       int
	CoinYield   float64
	Coins       int // floor(CoinYield), the only amount ever deposited
	Stars       int
	NearMisses  int
	Frames      int
	Reason      sim.GameOverReason
	BoxesEarned int
	StartedAt   time.Time
	EndedAt     time.Time
}

// Duration returns the wall-clock length of the run.
func (s Summary) Duration() time.Duration {
	return s.EndedAt.Sub(s.StartedAt)
}

// Outcome is what settlement did with a summary.
type Outcome struct {
	Deposited     int
	Balance       int
	HighScore     int
	NewRecord     bool
	CloseToRecord bool
}

// ResultSaver persists finished runs.
type ResultSaver interface {
	SaveRunResult(ctx context.Context, summary Summary, outcome Outcome) error
}
