// Package sim implements the fixed-tick Glitch Jump simulation: the entity
// store, physics and scroll, spawning, and collision and scoring.
package sim

import (
	"math"

	"github.com/vovakirdan/glitch-jump/internal/core"
)

// EntityID identifies an obstacle or power-up. IDs increase in spawn order.
type EntityID uint64

// ObstacleKind enumerates the five hazard categories.
type ObstacleKind int

const (
	FloorSpike ObstacleKind = iota
	CeilingSpike
	Block
	Oscillator
	Slalom
)

// ObstacleKinds lists every category in draw order.
var ObstacleKinds = []ObstacleKind{FloorSpike, CeilingSpike, Block, Oscillator, Slalom}

func (k ObstacleKind) String() string {
	switch k {
	case FloorSpike:
		return "floor-spike"
	case CeilingSpike:
		return "ceiling-spike"
	case Block:
		return "block"
	case Oscillator:
		return "oscillator"
	case Slalom:
		return "slalom"
	default:
		return "unknown"
	}
}

// PowerUpKind enumerates collectible bonuses.
type PowerUpKind int

const (
	ScoreBonus PowerUpKind = iota // star
	Shield
	SlowTime
)

func (k PowerUpKind) String() string {
	switch k {
	case ScoreBonus:
		return "star"
	case Shield:
		return "shield"
	case SlowTime:
		return "slow-time"
	default:
		return "unknown"
	}
}

// GameOverReason describes why a run terminated.
type GameOverReason int

const (
	GameOverNone GameOverReason = iota
	GameOverFloor
	GameOverObstacle
	GameOverInvariant
)

func (r GameOverReason) String() string {
	switch r {
	case GameOverFloor:
		return "floor"
	case GameOverObstacle:
		return "obstacle"
	case GameOverInvariant:
		return "invariant"
	default:
		return "none"
	}
}

// Entity is anything stored in the world by ID.
type Entity interface {
	EntityID() EntityID
	Bounds() core.Rect
}

// Player is the controllable square. X is fixed for the whole run.
type Player struct {
	X, Y     float64
	Size     float64
	Velocity float64
	Skin     string
}

// Bounds returns the nominal player box.
func (p Player) Bounds() core.Rect {
	return core.NewRect(p.X, p.Y, p.Size, p.Size)
}

// Hitbox returns the player box shrunk by the fairness margin.
func (p Player) Hitbox(margin float64) core.Rect {
	return p.Bounds().Inset(margin)
}

// Obstacle is a hazard moving left with the world.
// For slalom gates the bounding box spans from the ceiling to the floor and
// the collidable geometry is given by Parts.
type Obstacle struct {
	ID         EntityID
	Kind       ObstacleKind
	X, Y, W, H float64

	// Oscillator
	BaseY  float64
	Travel float64 // peak-to-peak
	Phase  float64

	// Slalom
	GateWidth   float64
	GapTop      float64
	GapHeight   float64
	PillarWidth float64
	CapHeight   float64
	CapOverhang float64

	Scored            bool
	NearMissTriggered bool
}

// EntityID implements Entity.
func (o *Obstacle) EntityID() EntityID { return o.ID }

// Bounds returns the obstacle's bounding box.
func (o *Obstacle) Bounds() core.Rect {
	return core.NewRect(o.X, o.Y, o.W, o.H)
}

// Right returns the trailing edge x coordinate.
func (o *Obstacle) Right() float64 {
	return o.X + o.W
}

// Parts returns the collidable rectangles. Slalom gates are a left pillar
// hanging from the ceiling, a right pillar rising from the floor and a cap
// on top of the right pillar; every other kind is a single box.
func (o *Obstacle) Parts() []core.Rect {
	if o.Kind != Slalom {
		return []core.Rect{o.Bounds()}
	}
	floorY := o.Y + o.H
	rightX := o.X + o.GateWidth - o.PillarWidth
	lowerTop := o.GapTop + o.GapHeight
	return []core.Rect{
		core.NewRect(o.X, o.Y, o.PillarWidth, o.GapTop-o.Y),
		core.NewRect(rightX, lowerTop, o.PillarWidth, floorY-lowerTop),
		core.NewRect(rightX-o.CapOverhang, lowerTop-o.CapHeight, o.PillarWidth+2*o.CapOverhang, o.CapHeight),
	}
}

// oscillate advances the phase and recomputes Y around BaseY.
func (o *Obstacle) oscillate(step float64) {
	o.Phase += step
	o.Y = o.BaseY + math.Sin(o.Phase)*o.Travel/2
}

// PowerUp is a collectible bonus.
type PowerUp struct {
	ID    EntityID
	Kind  PowerUpKind
	X, Y  float64
	Size  float64
	Pulse float64 // cosmetic
}

// EntityID implements Entity.
func (p *PowerUp) EntityID() EntityID { return p.ID }

// Bounds returns the power-up box.
func (p *PowerUp) Bounds() core.Rect {
	return core.NewRect(p.X, p.Y, p.Size, p.Size)
}

// RunState is the per-run singleton. It is never persisted.
type RunState struct {
	Score            int
	CoinYield        float64 // fractional, floored at settlement
	Frames           int
	Speed            float64
	ScrollOffset     float64
	SpawnTimer       float64 // ms
	ShieldMS         float64
	SlowTimeMS       float64
	ClusterRemaining int
	Stars            int
	NearMisses       int
	Over             bool
	Reason           GameOverReason
}

// ShieldActive reports whether a shield is up.
func (r RunState) ShieldActive() bool { return r.ShieldMS > 0 }

// SlowTimeActive reports whether slow-time is running.
func (r RunState) SlowTimeActive() bool { return r.SlowTimeMS > 0 }

// Coins returns the whole coins earned so far.
func (r RunState) Coins() int { return int(math.Floor(r.CoinYield)) }
