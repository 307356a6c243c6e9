package config

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestDefaultIsValid(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
}

func TestEmbeddedMatchesDefault(t *testing.T) {
	cfg, err := Parse(DefaultYAML())
	if err != nil {
		t.Fatalf("embedded config: %v", err)
	}
	if !reflect.DeepEqual(cfg, Default()) {
		t.Errorf("embedded YAML and Default() diverged:\n%+v\n%+v", cfg, Default())
	}
}

func TestParsePartialOverride(t *testing.T) {
	cfg, err := Parse([]byte("physics:\n  gravity: 0.8\nscroll:\n  max_speed: 12\n"))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if cfg.Physics.Gravity != 0.8 {
		t.Errorf("gravity = %v, expected 0.8", cfg.Physics.Gravity)
	}
	if cfg.Physics.JumpImpulse != -11 {
		t.Errorf("jump impulse should keep its default, got %v", cfg.Physics.JumpImpulse)
	}
	if cfg.Scroll.MaxSpeed != 12 || cfg.Scroll.BaseSpeed != 4 {
		t.Errorf("scroll = %+v", cfg.Scroll)
	}
	if len(cfg.Economy.Skins) != 10 {
		t.Errorf("skins = %d, expected 10", len(cfg.Economy.Skins))
	}
}

func TestParseEmpty(t *testing.T) {
	cfg, err := Parse(nil)
	if err != nil {
		t.Fatalf("Parse(nil): %v", err)
	}
	if !reflect.DeepEqual(cfg, Default()) {
		t.Error("empty input should yield defaults")
	}
}

func TestParseUnknownField(t *testing.T) {
	if _, err := Parse([]byte("physics:\n  gravty: 1\n")); err == nil {
		t.Error("expected error for unknown field")
	}
}

func TestValidateRejects(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*GameConfig)
	}{
		{"zero gravity", func(c *GameConfig) { c.Physics.Gravity = 0 }},
		{"upward gravity", func(c *GameConfig) { c.Physics.Gravity = -1 }},
		{"downward jump", func(c *GameConfig) { c.Physics.JumpImpulse = 5 }},
		{"slow factor above one", func(c *GameConfig) { c.PowerUps.SlowTimeFactor = 1.5 }},
		{"inverted spawn interval", func(c *GameConfig) { c.Spawn.MinIntervalMS = 3000 }},
		{"inverted speed", func(c *GameConfig) { c.Scroll.MaxSpeed = 1 }},
		{"inverted height range", func(c *GameConfig) { c.Obstacles.Block.Height = Range{Min: 90, Max: 10} }},
		{"negative cost", func(c *GameConfig) { c.Economy.Skins[1].Cost = -5 }},
		{"duplicate skin", func(c *GameConfig) { c.Economy.Skins[2].ID = "crimson" }},
		{"missing default skin", func(c *GameConfig) { c.Economy.Skins = c.Economy.Skins[1:] }},
		{"narrow despawn margin", func(c *GameConfig) { c.World.DespawnMargin = 20 }},
		{"zero box threshold", func(c *GameConfig) { c.Economy.MysteryBoxCoins = 0 }},
		{"huge hitbox margin", func(c *GameConfig) { c.Player.HitboxMargin = 14 }},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			tc.mutate(&cfg)
			err := cfg.Validate()
			if !errors.Is(err, ErrInvalid) {
				t.Errorf("Validate() = %v, expected ErrInvalid", err)
			}
		})
	}
}

func TestApplyPreset(t *testing.T) {
	tests := []struct {
		preset   DifficultyPreset
		expected float64
	}{
		{DifficultyEasy, 0.0015},
		{DifficultyNormal, 0.003},
		{DifficultyHard, 0.006},
		{DifficultyFixed, 0},
		{"", 0.003},
	}

	for _, tc := range tests {
		cfg := Default()
		ApplyPreset(&cfg, tc.preset)
		if diff := cfg.Scroll.SpeedIncrement - tc.expected; diff > 1e-12 || diff < -1e-12 {
			t.Errorf("preset %q: increment = %v, expected %v", tc.preset, cfg.Scroll.SpeedIncrement, tc.expected)
		}
	}
}

func TestParsePreset(t *testing.T) {
	if ParsePreset("hard") != DifficultyHard {
		t.Error("hard should parse")
	}
	if ParsePreset("nightmare") != "" {
		t.Error("unknown presets should parse to empty")
	}
}

func TestLoadCustomPath(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "custom.yaml")
	if err := os.WriteFile(path, []byte("scoring:\n  star_points: 25\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Scoring.StarPoints != 25 {
		t.Errorf("star points = %d, expected 25", cfg.Scoring.StarPoints)
	}

	if _, err := Load(filepath.Join(dir, "missing.yaml")); err == nil {
		t.Error("missing custom path should be an error")
	}
}

func TestLoadFileInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("physics:\n  gravity: -3\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadFile(path); !errors.Is(err, ErrInvalid) {
		t.Errorf("LoadFile = %v, expected ErrInvalid", err)
	}
}
