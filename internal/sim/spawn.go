package sim

import (
	"math"

	"github.com/vovakirdan/glitch-jump/internal/chance"
	"github.com/vovakirdan/glitch-jump/internal/config"
)

// CategoryWeights returns the obstacle draw table for speed progress f.
// Spikes fade out and mid-air hazards take over as the run speeds up.
func CategoryWeights(cfg config.ObstaclesConfig, f float64) []chance.Weighted[ObstacleKind] {
	return []chance.Weighted[ObstacleKind]{
		{Weight: cfg.FloorSpike.Weight.At(f), Value: FloorSpike},
		{Weight: cfg.CeilingSpike.Weight.At(f), Value: CeilingSpike},
		{Weight: cfg.Block.Weight.At(f), Value: Block},
		{Weight: cfg.Oscillator.Weight.At(f), Value: Oscillator},
		{Weight: cfg.Slalom.Weight.At(f), Value: Slalom},
	}
}

var powerUpKinds = []chance.Weighted[PowerUpKind]{
	{Weight: 1, Value: ScoreBonus},
	{Weight: 1, Value: Shield},
	{Weight: 1, Value: SlowTime},
}

// spawn accumulates the spawn timer and inserts at most one obstacle, plus
// an optional power-up when no cluster is in progress.
func (e *Engine) spawn(dt, ts float64) {
	r := &e.world.Run
	sp := e.cfg.Spawn

	r.SpawnTimer += dt * ts
	f := e.SpeedProgress()
	interval := sp.SpawnInterval(f)
	if r.SpawnTimer < interval {
		return
	}
	r.SpawnTimer = 0

	kind, ok := chance.Pick(e.src, CategoryWeights(e.cfg.Obstacles, f))
	if !ok {
		return
	}
	id := e.world.InsertObstacle(e.buildObstacle(kind, e.cfg.World.Width))

	if r.ClusterRemaining > 0 {
		r.ClusterRemaining--
		if r.ClusterRemaining > 0 {
			r.SpawnTimer = interval - sp.ClusterGapMS
		}
		return
	}

	if chance.Roll(e.src, sp.ClusterChance.At(f)) {
		// This obstacle opens the cluster; the rest follow after the gap
		// by pre-loading the timer.
		r.ClusterRemaining = chance.IntRange(e.src, sp.ClusterMin, sp.ClusterMax) - 1
		r.SpawnTimer = interval - sp.ClusterGapMS
		return
	}

	if chance.Roll(e.src, sp.PowerUpChance) {
		o, _ := e.world.Obstacle(id)
		e.world.InsertPowerUp(e.buildPowerUp(o.Right() + sp.PowerUpOffset))
	}
}

// buildObstacle draws the geometry of one obstacle of the given kind at x.
func (e *Engine) buildObstacle(kind ObstacleKind, x float64) Obstacle {
	oc := e.cfg.Obstacles
	floorY := e.cfg.World.FloorY()
	o := Obstacle{Kind: kind, X: x, W: oc.Width}

	switch kind {
	case FloorSpike:
		o.H = chance.Range(e.src, oc.FloorSpike.Height.Min, oc.FloorSpike.Height.Max)
		o.Y = floorY - o.H
	case CeilingSpike:
		o.H = chance.Range(e.src, oc.CeilingSpike.Height.Min, oc.CeilingSpike.Height.Max)
		o.Y = 0
	case Block:
		o.H = chance.Range(e.src, oc.Block.Height.Min, oc.Block.Height.Max)
		o.Y = e.placeInBand(oc.Block.Band, o.H, floorY)
	case Oscillator:
		o.H = chance.Range(e.src, oc.Oscillator.Height.Min, oc.Oscillator.Height.Max)
		o.Travel = chance.Range(e.src, oc.Oscillator.Travel.Min, oc.Oscillator.Travel.Max)
		o.BaseY = e.placeInBand(oc.Oscillator.Band, o.H, floorY)
		// Keep the whole swing between ceiling and floor.
		half := o.Travel / 2
		o.BaseY = math.Max(half, math.Min(o.BaseY, floorY-o.H-half))
		o.Phase = chance.Range(e.src, 0, 2*math.Pi)
		o.oscillate(0)
	case Slalom:
		sl := oc.Slalom
		o.GateWidth = sl.GateWidth
		o.GapHeight = sl.GapHeight
		o.PillarWidth = oc.Width
		o.CapHeight = sl.CapHeight
		o.CapOverhang = sl.CapOverhang
		o.GapTop = e.placeInBand(sl.Band, sl.GapHeight, floorY)
		o.Y = 0
		o.W = sl.GateWidth + sl.CapOverhang
		o.H = floorY
	}
	return o
}

// placeInBand draws a top coordinate so that an object of height h starts
// inside [band.Min, band.Max] of the floor height and ends above band.Max.
func (e *Engine) placeInBand(band config.Range, h, floorY float64) float64 {
	lo := band.Min * floorY
	hi := band.Max*floorY - h
	return chance.Range(e.src, lo, hi)
}

// buildPowerUp places a power-up of a random kind at a reachable height.
func (e *Engine) buildPowerUp(x float64) PowerUp {
	pc := e.cfg.PowerUps
	kind, _ := chance.Pick(e.src, powerUpKinds)
	floorY := e.cfg.World.FloorY()
	return PowerUp{
		Kind: kind,
		X:    x,
		Y:    chance.Range(e.src, pc.TopMargin, floorY-pc.Size-pc.TopMargin),
		Size: pc.Size,
	}
}
