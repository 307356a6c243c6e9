package sim

import "math"

// physics runs the scroll, timer, gravity and movement stage. It returns
// false when the player hit the floor and the tick must stop.
func (e *Engine) physics(dt, ts float64) bool {
	r := &e.world.Run
	p := &e.world.Player
	phys := e.cfg.Physics

	r.Speed = e.curve.Speed(r.Frames, ts)
	r.Frames++
	r.ScrollOffset += r.Speed * ts

	r.ShieldMS = math.Max(0, r.ShieldMS-dt*ts)
	r.SlowTimeMS = math.Max(0, r.SlowTimeMS-dt*ts)

	p.Velocity = math.Min(p.Velocity+phys.Gravity*ts, phys.MaxFallSpeed*ts)
	lastY := p.Y
	p.Y += p.Velocity

	// A floor hit freezes the player at its last valid position.
	floorY := e.cfg.World.FloorY()
	if p.Y+p.Size > floorY {
		p.Y = lastY
		e.gameOver(GameOverFloor)
		return false
	}
	if p.Y < 0 {
		p.Y = 0
		p.Velocity = phys.CeilingBounce
	}

	e.moveObstacles(ts)
	e.movePowerUps(ts)
	return true
}

func (e *Engine) moveObstacles(ts float64) {
	r := &e.world.Run
	p := e.world.Player
	scoring := e.cfg.Scoring
	shift := r.Speed * ts
	leadingEdge := p.X + p.Size

	e.world.EachObstacle(func(o *Obstacle) bool {
		o.X -= shift
		if o.Kind == Oscillator {
			o.oscillate(e.cfg.Obstacles.Oscillator.PhaseSpeed * ts)
		}
		if !o.Scored && o.Right() < leadingEdge {
			o.Scored = true
			r.Score += scoring.PointsPerObstacle
			coins := float64(scoring.PointsPerObstacle) * scoring.CoinsPerPoint
			r.CoinYield += coins
			e.emit(ScoreEvent{Score: r.Score})
			e.emit(CoinCollectEvent{Amount: coins})
		}
		if o.Right() < -e.cfg.World.DespawnMargin {
			e.world.Remove(o.ID)
		}
		return true
	})
}

func (e *Engine) movePowerUps(ts float64) {
	shift := e.world.Run.Speed * ts
	pulse := e.cfg.PowerUps.PulseSpeed

	e.world.EachPowerUp(func(pu *PowerUp) bool {
		pu.X -= shift
		pu.Pulse += pulse
		if pu.X+pu.Size < 0 {
			e.world.Remove(pu.ID)
		}
		return true
	})
}
