// Package config provides YAML-based tunables loading, validation and
// difficulty presets for the game.
package config

import (
	"errors"
	"fmt"
)

// ErrInvalid is returned (wrapped) when a configuration fails validation.
var ErrInvalid = errors.New("config: invalid configuration")

// GameConfig contains every tunable of the simulation and the economy.
type GameConfig struct {
	World      WorldConfig      `yaml:"world"`
	Player     PlayerConfig     `yaml:"player"`
	Physics    PhysicsConfig    `yaml:"physics"`
	Scroll     ScrollConfig     `yaml:"scroll"`
	Spawn      SpawnConfig      `yaml:"spawn"`
	Obstacles  ObstaclesConfig  `yaml:"obstacles"`
	PowerUps   PowerUpConfig    `yaml:"powerups"`
	Scoring    ScoringConfig    `yaml:"scoring"`
	Economy    EconomyConfig    `yaml:"economy"`
	Run        RunConfig        `yaml:"run"`
	Difficulty DifficultyConfig `yaml:"difficulty"`
}

// WorldConfig defines the playfield in world units (pixels).
type WorldConfig struct {
	Width         float64 `yaml:"width"`
	Height        float64 `yaml:"height"`
	GroundHeight  float64 `yaml:"ground_height"`
	DespawnMargin float64 `yaml:"despawn_margin"` // must exceed the widest obstacle
}

// FloorY returns the y coordinate of the floor surface.
func (w WorldConfig) FloorY() float64 {
	return w.Height - w.GroundHeight
}

// PlayerConfig defines the player's fixed column and hitbox.
type PlayerConfig struct {
	X            float64 `yaml:"x"`
	Size         float64 `yaml:"size"`
	HitboxMargin float64 `yaml:"hitbox_margin"` // fairness inset on every side
}

// PhysicsConfig defines vertical motion.
type PhysicsConfig struct {
	Gravity       float64 `yaml:"gravity"`        // added to velocity per tick
	JumpImpulse   float64 `yaml:"jump_impulse"`   // negative = up
	MaxFallSpeed  float64 `yaml:"max_fall_speed"` // terminal velocity
	CeilingBounce float64 `yaml:"ceiling_bounce"` // velocity after hitting the ceiling
}

// ScrollConfig defines world scroll speed progression.
type ScrollConfig struct {
	BaseSpeed      float64 `yaml:"base_speed"`
	MaxSpeed       float64 `yaml:"max_speed"`
	SpeedIncrement float64 `yaml:"speed_increment"` // per frame
}

// Ramp is a value interpolated by speed progress (0 at base speed, 1 at max speed).
type Ramp struct {
	AtMin float64 `yaml:"at_min"`
	AtMax float64 `yaml:"at_max"`
}

// At returns the ramp value for progress f in [0, 1].
func (r Ramp) At(f float64) float64 {
	return r.AtMin + (r.AtMax-r.AtMin)*f
}

// Range is an inclusive numeric interval.
type Range struct {
	Min float64 `yaml:"min"`
	Max float64 `yaml:"max"`
}

// SpawnConfig defines obstacle and power-up cadence.
type SpawnConfig struct {
	MinIntervalMS float64 `yaml:"min_interval_ms"`
	MaxIntervalMS float64 `yaml:"max_interval_ms"`
	ClusterChance Ramp    `yaml:"cluster_chance"`
	ClusterGapMS  float64 `yaml:"cluster_gap_ms"`
	ClusterMin    int     `yaml:"cluster_min"`
	ClusterMax    int     `yaml:"cluster_max"`
	PowerUpChance float64 `yaml:"powerup_chance"`
	PowerUpOffset float64 `yaml:"powerup_offset"` // horizontal distance behind the spawned obstacle
}

// ObstaclesConfig defines the five obstacle categories.
type ObstaclesConfig struct {
	Width        float64          `yaml:"width"`
	FloorSpike   SpikeConfig      `yaml:"floor_spike"`
	CeilingSpike SpikeConfig      `yaml:"ceiling_spike"`
	Block        BlockConfig      `yaml:"block"`
	Oscillator   OscillatorConfig `yaml:"oscillator"`
	Slalom       SlalomConfig     `yaml:"slalom"`
}

// SpikeConfig defines a floor- or ceiling-anchored spike.
type SpikeConfig struct {
	Weight Ramp  `yaml:"weight"`
	Height Range `yaml:"height"`
}

// BlockConfig defines a static mid-air block. Band is a fraction of the floor height.
type BlockConfig struct {
	Weight Ramp  `yaml:"weight"`
	Height Range `yaml:"height"`
	Band   Range `yaml:"band"`
}

// OscillatorConfig defines a vertically oscillating block.
type OscillatorConfig struct {
	Weight     Ramp    `yaml:"weight"`
	Height     Range   `yaml:"height"`
	Band       Range   `yaml:"band"`
	Travel     Range   `yaml:"travel"`      // full peak-to-peak range
	PhaseSpeed float64 `yaml:"phase_speed"` // radians per tick
}

// SlalomConfig defines the paired-pillar gate.
type SlalomConfig struct {
	Weight      Ramp    `yaml:"weight"`
	GateWidth   float64 `yaml:"gate_width"`
	GapHeight   float64 `yaml:"gap_height"`
	CapHeight   float64 `yaml:"cap_height"`
	CapOverhang float64 `yaml:"cap_overhang"`
	Band        Range   `yaml:"band"`
}

// PowerUpConfig defines collectible bonuses.
type PowerUpConfig struct {
	Size               float64 `yaml:"size"`
	ShieldDurationMS   float64 `yaml:"shield_duration_ms"`
	SlowTimeDurationMS float64 `yaml:"slow_time_duration_ms"`
	SlowTimeFactor     float64 `yaml:"slow_time_factor"`
	PulseSpeed         float64 `yaml:"pulse_speed"`
	TopMargin          float64 `yaml:"top_margin"`
}

// ScoringConfig defines score and coin yields.
type ScoringConfig struct {
	PointsPerObstacle  int     `yaml:"points_per_obstacle"`
	CoinsPerPoint      float64 `yaml:"coins_per_point"`
	StarPoints         int     `yaml:"star_points"`
	StarCoins          float64 `yaml:"star_coins"`
	NearMissDistance   float64 `yaml:"near_miss_distance"`
	NearMissBonusCoins float64 `yaml:"near_miss_bonus_coins"`
	HighscoreThreshold float64 `yaml:"highscore_threshold"` // "so close" band below the record
}

// SkinConfig describes one unlockable cosmetic.
type SkinConfig struct {
	ID    string `yaml:"id"`
	Name  string `yaml:"name"`
	Color string `yaml:"color"`
	Glow  string `yaml:"glow"`
	Cost  int    `yaml:"cost"`
}

// EconomyConfig defines meta-progression.
type EconomyConfig struct {
	MysteryBoxCoins      int          `yaml:"mystery_box_coins"`
	MysteryBoxRefund     int          `yaml:"mystery_box_refund"`
	MysteryBoxSkinChance float64      `yaml:"mystery_box_skin_chance"`
	Skins                []SkinConfig `yaml:"skins"`
}

// RunConfig defines controller timing.
type RunConfig struct {
	SettleMS float64 `yaml:"settle_ms"`
	TickRate int     `yaml:"tick_rate"`
}

// DifficultyConfig selects a preset applied on top of the tunables.
type DifficultyConfig struct {
	Preset string `yaml:"preset"`
}

// Validate checks internal consistency of the tunables.
func (c GameConfig) Validate() error {
	var problems []string
	check := func(ok bool, msg string, args ...any) {
		if !ok {
			problems = append(problems, fmt.Sprintf(msg, args...))
		}
	}

	check(c.World.Width > 0 && c.World.Height > 0, "world size must be positive")
	check(c.World.FloorY() > c.Player.Size, "floor must leave room for the player")
	check(c.Player.Size > 0, "player size must be positive")
	check(c.Player.HitboxMargin >= 0 && c.Player.HitboxMargin*2 < c.Player.Size, "hitbox margin must be in [0, size/2)")
	check(c.Physics.Gravity > 0, "gravity must be positive")
	check(c.Physics.JumpImpulse < 0, "jump impulse must be negative")
	check(c.Physics.MaxFallSpeed > 0, "max fall speed must be positive")
	check(c.Physics.CeilingBounce >= 0, "ceiling bounce must not be negative")
	check(c.Scroll.BaseSpeed > 0 && c.Scroll.MaxSpeed >= c.Scroll.BaseSpeed, "speed range invalid: base %.2f max %.2f", c.Scroll.BaseSpeed, c.Scroll.MaxSpeed)
	check(c.Scroll.SpeedIncrement >= 0, "speed increment must not be negative")
	check(c.Spawn.MinIntervalMS > 0 && c.Spawn.MaxIntervalMS >= c.Spawn.MinIntervalMS, "spawn interval range invalid")
	check(c.Spawn.ClusterMin >= 2 && c.Spawn.ClusterMax >= c.Spawn.ClusterMin, "cluster size range invalid")
	check(c.Spawn.ClusterGapMS > 0, "cluster gap must be positive")
	check(c.Obstacles.Width > 0, "obstacle width must be positive")
	for name, r := range map[string]Range{
		"floor_spike.height":   c.Obstacles.FloorSpike.Height,
		"ceiling_spike.height": c.Obstacles.CeilingSpike.Height,
		"block.height":         c.Obstacles.Block.Height,
		"block.band":           c.Obstacles.Block.Band,
		"oscillator.height":    c.Obstacles.Oscillator.Height,
		"oscillator.band":      c.Obstacles.Oscillator.Band,
		"oscillator.travel":    c.Obstacles.Oscillator.Travel,
		"slalom.band":          c.Obstacles.Slalom.Band,
	} {
		check(r.Min >= 0 && r.Max >= r.Min, "%s range invalid", name)
	}
	check(c.World.DespawnMargin > c.Obstacles.Slalom.GateWidth+c.Obstacles.Slalom.CapOverhang, "despawn margin must exceed the widest obstacle")
	check(c.PowerUps.SlowTimeFactor > 0 && c.PowerUps.SlowTimeFactor <= 1, "slow time factor must be in (0, 1]")
	check(c.PowerUps.Size > 0, "power-up size must be positive")
	check(c.Scoring.NearMissDistance >= 0, "near-miss distance must not be negative")
	check(c.Economy.MysteryBoxCoins > 0, "mystery box threshold must be positive")
	check(c.Economy.MysteryBoxRefund >= 0, "mystery box refund must not be negative")

	hasDefault := false
	seen := make(map[string]bool)
	for _, s := range c.Economy.Skins {
		check(s.ID != "" && !seen[s.ID], "skin ids must be unique and non-empty (%q)", s.ID)
		check(s.Cost >= 0, "skin %q cost must not be negative", s.ID)
		seen[s.ID] = true
		if s.ID == DefaultSkinID {
			hasDefault = true
		}
	}
	check(hasDefault, "skin catalog must contain %q", DefaultSkinID)

	if len(problems) > 0 {
		return fmt.Errorf("%w: %v", ErrInvalid, problems)
	}
	return nil
}

// DefaultSkinID is the cosmetic every player owns.
const DefaultSkinID = "default"

// DifficultyPreset represents a named difficulty level.
type DifficultyPreset string

const (
	DifficultyEasy   DifficultyPreset = "easy"
	DifficultyNormal DifficultyPreset = "normal"
	DifficultyHard   DifficultyPreset = "hard"
	DifficultyFixed  DifficultyPreset = "fixed"
)

// ParsePreset maps a CLI string to a preset. Unknown values yield "".
func ParsePreset(s string) DifficultyPreset {
	switch DifficultyPreset(s) {
	case DifficultyEasy, DifficultyNormal, DifficultyHard, DifficultyFixed:
		return DifficultyPreset(s)
	default:
		return ""
	}
}

// IncrementScaleForPreset returns the speed increment multiplier for a preset.
func IncrementScaleForPreset(preset DifficultyPreset) float64 {
	switch preset {
	case DifficultyEasy:
		return 0.5
	case DifficultyHard:
		return 2.0
	case DifficultyFixed:
		return 0
	default:
		return 1.0
	}
}

// ApplyPreset modifies the config based on a difficulty preset.
// Fixed keeps the scroll speed at base for the whole run.
func ApplyPreset(cfg *GameConfig, preset DifficultyPreset) {
	if preset == "" {
		return
	}
	cfg.Scroll.SpeedIncrement *= IncrementScaleForPreset(preset)
	cfg.Difficulty.Preset = string(preset)
}
