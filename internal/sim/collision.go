package sim

import (
	"math"

	"github.com/vovakirdan/glitch-jump/internal/core"
)

// collide runs obstacle and power-up overlap tests. It returns false when
// the run ended this tick.
func (e *Engine) collide() bool {
	r := &e.world.Run
	hitbox := e.world.Player.Hitbox(e.cfg.Player.HitboxMargin)
	alive := true

	e.world.EachObstacle(func(o *Obstacle) bool {
		if overlaps(hitbox, o) {
			if r.ShieldActive() {
				r.ShieldMS = 0
				e.world.Remove(o.ID)
				e.emit(ShieldBreakEvent{})
				return true
			}
			e.gameOver(GameOverObstacle)
			alive = false
			return false
		}
		e.checkNearMiss(o)
		return true
	})
	if !alive {
		return false
	}

	e.collectPowerUps()
	return true
}

// overlaps tests the hitbox against every collidable part of o.
func overlaps(hitbox core.Rect, o *Obstacle) bool {
	for _, part := range o.Parts() {
		if hitbox.Intersects(part) {
			return true
		}
	}
	return false
}

// NearMissDistance returns the gap between the player's box and the closest
// part of o, measured from the player's center minus half its width.
// Negative values mean the centre is within half a width of the obstacle.
func NearMissDistance(p Player, o *Obstacle) float64 {
	cx, cy := p.Bounds().Center()
	best := math.Inf(1)
	for _, part := range o.Parts() {
		best = math.Min(best, part.DistanceTo(cx, cy))
	}
	return best - p.Size/2
}

// checkNearMiss awards the near-miss bonus at most once per obstacle.
// Plain obstacles are only checked after they have been scored; slalom
// gates are checked on every tick.
func (e *Engine) checkNearMiss(o *Obstacle) {
	if o.NearMissTriggered {
		return
	}
	if o.Kind != Slalom && !o.Scored {
		return
	}
	d := NearMissDistance(e.world.Player, o)
	if d < 0 || d > e.cfg.Scoring.NearMissDistance {
		return
	}

	r := &e.world.Run
	o.NearMissTriggered = true
	r.NearMisses++
	bonus := e.cfg.Scoring.NearMissBonusCoins
	r.CoinYield += bonus
	e.emit(NearMissEvent{Count: r.NearMisses})
	e.emit(CoinCollectEvent{Amount: bonus})
}

// collectPowerUps applies every power-up touching the player's nominal box.
func (e *Engine) collectPowerUps() {
	r := &e.world.Run
	box := e.world.Player.Bounds()
	pc := e.cfg.PowerUps
	sc := e.cfg.Scoring

	e.world.EachPowerUp(func(pu *PowerUp) bool {
		if !box.Touches(pu.Bounds()) {
			return true
		}
		e.world.Remove(pu.ID)
		e.emit(PowerUpCollectEvent{Kind: pu.Kind})

		switch pu.Kind {
		case ScoreBonus:
			r.Stars++
			r.Score += sc.StarPoints
			r.CoinYield += sc.StarCoins
			e.emit(ScoreEvent{Score: r.Score})
			e.emit(CoinCollectEvent{Amount: sc.StarCoins})
		case Shield:
			r.ShieldMS = pc.ShieldDurationMS
		case SlowTime:
			r.SlowTimeMS = pc.SlowTimeDurationMS
		}
		return true
	})
}
