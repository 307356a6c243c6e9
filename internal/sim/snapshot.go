package sim

import "github.com/vovakirdan/glitch-jump/internal/core"

// Snapshot is a deep copy of the world for presentation layers.
type Snapshot struct {
	Player    Player
	Run       RunState
	Obstacles []ObstacleView
	PowerUps  []PowerUp
	Width     float64
	Height    float64
	FloorY    float64
	TimeScale float64
}

// ObstacleView is an obstacle with its collidable parts resolved.
type ObstacleView struct {
	Obstacle
	Parts []core.Rect
}

// Snapshot copies the current state. Entities are ordered by spawn.
func (e *Engine) Snapshot() Snapshot {
	w := e.world
	snap := Snapshot{
		Player:    w.Player,
		Run:       w.Run,
		Obstacles: make([]ObstacleView, 0, w.ObstacleCount()),
		PowerUps:  make([]PowerUp, 0, w.PowerUpCount()),
		Width:     e.cfg.World.Width,
		Height:    e.cfg.World.Height,
		FloorY:    e.cfg.World.FloorY(),
		TimeScale: e.TimeScale(),
	}
	w.EachObstacle(func(o *Obstacle) bool {
		snap.Obstacles = append(snap.Obstacles, ObstacleView{Obstacle: *o, Parts: o.Parts()})
		return true
	})
	w.EachPowerUp(func(p *PowerUp) bool {
		snap.PowerUps = append(snap.PowerUps, *p)
		return true
	})
	return snap
}
