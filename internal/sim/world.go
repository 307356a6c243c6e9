package sim

import (
	"maps"
	"slices"
)

// World is the entity store for one run. Obstacles and power-ups live in
// separate typed containers; the player and run state are singletons.
type World struct {
	Player Player
	Run    RunState

	obstacles map[EntityID]*Obstacle
	powerUps  map[EntityID]*PowerUp
	nextID    EntityID
}

// NewWorld creates an empty world.
func NewWorld() *World {
	w := &World{}
	w.Reset(Player{})
	return w
}

// Reset discards every entity and run counter and places a fresh player.
func (w *World) Reset(p Player) {
	w.Player = p
	w.Run = RunState{}
	w.obstacles = make(map[EntityID]*Obstacle)
	w.powerUps = make(map[EntityID]*PowerUp)
	w.nextID = 0
}

func (w *World) allocID() EntityID {
	w.nextID++
	return w.nextID
}

// InsertObstacle stores o under a new ID and returns it.
func (w *World) InsertObstacle(o Obstacle) EntityID {
	o.ID = w.allocID()
	w.obstacles[o.ID] = &o
	return o.ID
}

// InsertPowerUp stores p under a new ID and returns it.
func (w *World) InsertPowerUp(p PowerUp) EntityID {
	p.ID = w.allocID()
	w.powerUps[p.ID] = &p
	return p.ID
}

// Remove deletes the entity with the given ID.
func (w *World) Remove(id EntityID) bool {
	if _, ok := w.obstacles[id]; ok {
		delete(w.obstacles, id)
		return true
	}
	if _, ok := w.powerUps[id]; ok {
		delete(w.powerUps, id)
		return true
	}
	return false
}

// Get returns the entity with the given ID.
func (w *World) Get(id EntityID) (Entity, bool) {
	if o, ok := w.obstacles[id]; ok {
		return o, true
	}
	if p, ok := w.powerUps[id]; ok {
		return p, true
	}
	return nil, false
}

// Obstacle returns the obstacle with the given ID.
func (w *World) Obstacle(id EntityID) (*Obstacle, bool) {
	o, ok := w.obstacles[id]
	return o, ok
}

// PowerUp returns the power-up with the given ID.
func (w *World) PowerUp(id EntityID) (*PowerUp, bool) {
	p, ok := w.powerUps[id]
	return p, ok
}

// ObstacleCount returns the number of live obstacles.
func (w *World) ObstacleCount() int { return len(w.obstacles) }

// PowerUpCount returns the number of live power-ups.
func (w *World) PowerUpCount() int { return len(w.powerUps) }

// EachObstacle calls fn for every obstacle in spawn order. Keys are
// snapshotted first, so fn may remove any entity (including the current
// one) or insert new ones without affecting the iteration. Entities
// removed during the walk are skipped. Returning false stops the walk.
func (w *World) EachObstacle(fn func(*Obstacle) bool) {
	for _, id := range slices.Sorted(maps.Keys(w.obstacles)) {
		o, ok := w.obstacles[id]
		if !ok {
			continue
		}
		if !fn(o) {
			return
		}
	}
}

// EachObstacleOfKind is EachObstacle filtered by kind.
func (w *World) EachObstacleOfKind(kind ObstacleKind, fn func(*Obstacle) bool) {
	w.EachObstacle(func(o *Obstacle) bool {
		if o.Kind != kind {
			return true
		}
		return fn(o)
	})
}

// EachPowerUp calls fn for every power-up in spawn order with the same
// removal-safe semantics as EachObstacle.
func (w *World) EachPowerUp(fn func(*PowerUp) bool) {
	for _, id := range slices.Sorted(maps.Keys(w.powerUps)) {
		p, ok := w.powerUps[id]
		if !ok {
			continue
		}
		if !fn(p) {
			return
		}
	}
}
