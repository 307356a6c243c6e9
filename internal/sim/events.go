package sim

// Event is a domain event emitted by the simulation or the run controller.
// Consumers type-switch on the concrete type; Name is the wire name.
type Event interface {
	Name() string
}

// ScoreEvent carries the new score.
type ScoreEvent struct {
	Score int
}

func (ScoreEvent) Name() string { return "score" }

// CoinCollectEvent carries a fractional coin yield added to the run.
type CoinCollectEvent struct {
	Amount float64
}

func (CoinCollectEvent) Name() string { return "coin-collect" }

// PowerUpCollectEvent is emitted when the player picks up a power-up.
type PowerUpCollectEvent struct {
	Kind PowerUpKind
}

func (PowerUpCollectEvent) Name() string { return "powerup-collect" }

// ShieldBreakEvent is emitted when a shield absorbs a collision.
type ShieldBreakEvent struct{}

func (ShieldBreakEvent) Name() string { return "shield-break" }

// NearMissEvent is emitted once per obstacle passed within the threshold.
type NearMissEvent struct {
	Count int
}

func (NearMissEvent) Name() string { return "near-miss" }

// JumpEvent is emitted for every accepted jump.
type JumpEvent struct{}

func (JumpEvent) Name() string { return "jump" }

// GameOverEvent is terminal for the run.
type GameOverEvent struct {
	Reason GameOverReason
	Score  int
}

func (GameOverEvent) Name() string { return "game-over" }
