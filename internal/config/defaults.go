package config

import (
	_ "embed"
)

//go:embed defaults/glitchjump.yaml
var defaultYAML []byte

// Default returns the built-in tunables. It mirrors defaults/glitchjump.yaml
// and is used when the embedded YAML cannot be parsed.
func Default() GameConfig {
	return GameConfig{
		World: WorldConfig{
			Width:         400,
			Height:        800,
			GroundHeight:  80,
			DespawnMargin: 200,
		},
		Player: PlayerConfig{
			X:            60,
			Size:         28,
			HitboxMargin: 4,
		},
		Physics: PhysicsConfig{
			Gravity:       0.6,
			JumpImpulse:   -11,
			MaxFallSpeed:  14,
			CeilingBounce: 2,
		},
		Scroll: ScrollConfig{
			BaseSpeed:      4,
			MaxSpeed:       9,
			SpeedIncrement: 0.003,
		},
		Spawn: SpawnConfig{
			MinIntervalMS: 1200,
			MaxIntervalMS: 2200,
			ClusterChance: Ramp{AtMin: 0.05, AtMax: 0.35},
			ClusterGapMS:  350,
			ClusterMin:    2,
			ClusterMax:    3,
			PowerUpChance: 0.15,
			PowerUpOffset: 120,
		},
		Obstacles: ObstaclesConfig{
			Width: 28,
			FloorSpike: SpikeConfig{
				Weight: Ramp{AtMin: 35, AtMax: 15},
				Height: Range{Min: 40, Max: 180},
			},
			CeilingSpike: SpikeConfig{
				Weight: Ramp{AtMin: 30, AtMax: 12},
				Height: Range{Min: 40, Max: 180},
			},
			Block: BlockConfig{
				Weight: Ramp{AtMin: 15, AtMax: 28},
				Height: Range{Min: 40, Max: 100},
				Band:   Range{Min: 0.25, Max: 0.75},
			},
			Oscillator: OscillatorConfig{
				Weight:     Ramp{AtMin: 8, AtMax: 28},
				Height:     Range{Min: 40, Max: 80},
				Band:       Range{Min: 0.3, Max: 0.6},
				Travel:     Range{Min: 60, Max: 140},
				PhaseSpeed: 0.05,
			},
			Slalom: SlalomConfig{
				Weight:      Ramp{AtMin: 12, AtMax: 17},
				GateWidth:   140,
				GapHeight:   140,
				CapHeight:   10,
				CapOverhang: 6,
				Band:        Range{Min: 0.2, Max: 0.7},
			},
		},
		PowerUps: PowerUpConfig{
			Size:               24,
			ShieldDurationMS:   3000,
			SlowTimeDurationMS: 2500,
			SlowTimeFactor:     0.5,
			PulseSpeed:         0.1,
			TopMargin:          40,
		},
		Scoring: ScoringConfig{
			PointsPerObstacle:  1,
			CoinsPerPoint:      0.1,
			StarPoints:         10,
			StarCoins:          10,
			NearMissDistance:   8,
			NearMissBonusCoins: 5,
			HighscoreThreshold: 0.1,
		},
		Economy: EconomyConfig{
			MysteryBoxCoins:      100,
			MysteryBoxRefund:     25,
			MysteryBoxSkinChance: 0.7,
			Skins: []SkinConfig{
				{ID: "default", Name: "Glitch", Color: "#00ff88", Glow: "#00cc66", Cost: 0},
				{ID: "crimson", Name: "Crimson", Color: "#ff3366", Glow: "#cc1144", Cost: 50},
				{ID: "azure", Name: "Azure", Color: "#33ccff", Glow: "#0099cc", Cost: 100},
				{ID: "amber", Name: "Amber", Color: "#ffaa00", Glow: "#cc8800", Cost: 150},
				{ID: "violet", Name: "Violet", Color: "#aa66ff", Glow: "#8844cc", Cost: 200},
				{ID: "shadow", Name: "Shadow", Color: "#2a2a3a", Glow: "#1a1a2e", Cost: 250},
				{ID: "nebula", Name: "Nebula", Color: "#ff66cc", Glow: "#cc3399", Cost: 300},
				{ID: "cyber", Name: "Cyber", Color: "#00ffff", Glow: "#00cccc", Cost: 350},
				{ID: "golden", Name: "Golden", Color: "#ffdd44", Glow: "#ccaa22", Cost: 400},
				{ID: "void", Name: "Void", Color: "#1a0a2e", Glow: "#4400aa", Cost: 500},
			},
		},
		Run: RunConfig{
			SettleMS: 100,
			TickRate: 60,
		},
		Difficulty: DifficultyConfig{
			Preset: string(DifficultyNormal),
		},
	}
}

// DefaultYAML returns the embedded default configuration file.
func DefaultYAML() []byte {
	return defaultYAML
}
