package sim

import (
	"math"
	"time"

	"github.com/vovakirdan/glitch-jump/internal/chance"
	"github.com/vovakirdan/glitch-jump/internal/config"
)

// Engine advances a World one fixed tick at a time.
// It is not safe for concurrent use; the run controller owns it.
type Engine struct {
	cfg   config.GameConfig
	src   chance.Source
	curve *config.SpeedCurve
	world *World

	events  []Event
	pending []Event
}

// NewEngine creates an engine with a fresh world.
func NewEngine(cfg config.GameConfig, src chance.Source) *Engine {
	e := &Engine{
		src:   src,
		world: NewWorld(),
	}
	e.Reset(cfg)
	return e
}

// Reset discards the world wholesale and starts a new run with cfg.
func (e *Engine) Reset(cfg config.GameConfig) {
	e.cfg = cfg
	e.curve = config.NewSpeedCurve(cfg.Scroll)
	skin := e.world.Player.Skin
	floorY := cfg.World.FloorY()
	e.world.Reset(Player{
		X:    cfg.Player.X,
		Y:    floorY/2 - cfg.Player.Size/2,
		Size: cfg.Player.Size,
		Skin: skin,
	})
	e.world.Run.Speed = cfg.Scroll.BaseSpeed
	e.pending = nil
}

// SetSkin records the equipped cosmetic on the player.
func (e *Engine) SetSkin(id string) {
	e.world.Player.Skin = id
}

// World exposes the entity store.
func (e *Engine) World() *World {
	return e.world
}

// Config returns the tunables of the current run.
func (e *Engine) Config() config.GameConfig {
	return e.cfg
}

// Over reports whether the run has terminated.
func (e *Engine) Over() bool {
	return e.world.Run.Over
}

// Jump overwrites the player's velocity with the jump impulse. It is legal
// at any height. Returns false once the run is over.
func (e *Engine) Jump() bool {
	if e.world.Run.Over {
		return false
	}
	e.world.Player.Velocity = e.cfg.Physics.JumpImpulse
	e.pending = append(e.pending, JumpEvent{})
	return true
}

// TimeScale returns the current time multiplier.
func (e *Engine) TimeScale() float64 {
	if e.world.Run.SlowTimeActive() {
		return e.cfg.PowerUps.SlowTimeFactor
	}
	return 1
}

// SpeedProgress returns the normalized speed factor in [0, 1].
func (e *Engine) SpeedProgress() float64 {
	return e.curve.Progress(e.world.Run.Speed)
}

// Step advances the simulation by one tick of delta and returns the
// events produced. Physics runs first, then spawning, then collision.
// A terminal event stops the tick; every later Step is a no-op until Reset.
func (e *Engine) Step(delta time.Duration) []Event {
	if e.world.Run.Over {
		return nil
	}
	e.events = append(e.events[:0], e.pending...)
	e.pending = e.pending[:0]

	dt := float64(delta) / float64(time.Millisecond)
	ts := e.TimeScale()

	if e.physics(dt, ts) {
		e.spawn(dt, ts)
		if e.collide() {
			e.checkInvariants()
		}
	}

	out := make([]Event, len(e.events))
	copy(out, e.events)
	return out
}

func (e *Engine) emit(ev Event) {
	e.events = append(e.events, ev)
}

func (e *Engine) gameOver(reason GameOverReason) {
	e.world.Run.Over = true
	e.world.Run.Reason = reason
	e.emit(GameOverEvent{Reason: reason, Score: e.world.Run.Score})
}

// checkInvariants clamps impossible state left by a tick and ends the run.
func (e *Engine) checkInvariants() {
	p := &e.world.Player
	r := &e.world.Run
	floorY := e.cfg.World.FloorY()
	broken := false

	if math.IsNaN(p.Y) || math.IsInf(p.Y, 0) || p.Y < 0 || p.Y+p.Size > floorY {
		if math.IsNaN(p.Y) || math.IsInf(p.Y, 0) {
			p.Y = floorY - p.Size
		}
		p.Y = math.Max(0, math.Min(p.Y, floorY-p.Size))
		p.Velocity = 0
		broken = true
	}
	if math.IsNaN(r.Speed) || r.Speed < e.curve.Base() || r.Speed > e.curve.Max() {
		r.Speed = e.curve.Base()
		broken = true
	}
	if broken {
		e.gameOver(GameOverInvariant)
	}
}
