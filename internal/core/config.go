package core

import "time"

// RuntimeConfig contains host-level settings handed to the run controller.
type RuntimeConfig struct {
	ScreenW  int   // Screen width in characters
	ScreenH  int   // Screen height in characters
	TickRate int   // Simulation ticks per second (default 60)
	Seed     int64 // RNG seed for reproducible gameplay, 0 = time based
}

// DefaultConfig returns a RuntimeConfig with sensible defaults.
func DefaultConfig() RuntimeConfig {
	return RuntimeConfig{
		ScreenW:  80,
		ScreenH:  24,
		TickRate: 60,
		Seed:     0, // 0 means use current time
	}
}

// Step returns the fixed simulation step for the tick rate.
// 60 Hz yields the nominal 16ms step the tunables are calibrated for.
func (c RuntimeConfig) Step() time.Duration {
	return FixedStep(c.TickRate)
}

// FixedStep converts a tick rate into a whole-millisecond step.
func FixedStep(tickRate int) time.Duration {
	if tickRate <= 0 {
		tickRate = 60
	}
	ms := 1000 / tickRate
	if ms < 1 {
		ms = 1
	}
	return time.Duration(ms) * time.Millisecond
}

// ClampDelta bounds a host frame delta to the fixed step.
// Non-positive deltas (first frame, clock hiccups) are treated as a full step.
func ClampDelta(delta, step time.Duration) time.Duration {
	if delta <= 0 || delta > step {
		return step
	}
	return delta
}
