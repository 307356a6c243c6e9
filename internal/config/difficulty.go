package config

import "math"

// SpeedCurve computes the scroll speed progression for a run.
type SpeedCurve struct {
	cfg ScrollConfig
}

// NewSpeedCurve creates a speed curve from scroll tunables.
func NewSpeedCurve(cfg ScrollConfig) *SpeedCurve {
	return &SpeedCurve{cfg: cfg}
}

// Speed returns the scroll speed after the given number of frames.
// The result stays within [base, max] and is non-decreasing in frames
// for a constant time scale.
func (s *SpeedCurve) Speed(frames int, timeScale float64) float64 {
	if frames < 0 {
		frames = 0
	}
	speed := s.cfg.BaseSpeed + float64(frames)*s.cfg.SpeedIncrement*timeScale
	return clampF(speed, s.cfg.BaseSpeed, s.cfg.MaxSpeed)
}

// Progress returns the normalized speed factor in [0, 1].
func (s *SpeedCurve) Progress(speed float64) float64 {
	span := s.cfg.MaxSpeed - s.cfg.BaseSpeed
	if span <= 0 {
		return 0
	}
	return clampF((speed-s.cfg.BaseSpeed)/span, 0.0, 1.0)
}

// Base returns the starting scroll speed.
func (s *SpeedCurve) Base() float64 { return s.cfg.BaseSpeed }

// Max returns the terminal scroll speed.
func (s *SpeedCurve) Max() float64 { return s.cfg.MaxSpeed }

// SpawnInterval interpolates the spawn interval from max (slow) to min (fast).
func (c SpawnConfig) SpawnInterval(progress float64) float64 {
	progress = clampF(progress, 0.0, 1.0)
	return c.MaxIntervalMS + (c.MinIntervalMS-c.MaxIntervalMS)*progress
}

// clampF restricts a float64 to [min, max].
func clampF(val, min, max float64) float64 {
	return math.Max(min, math.Min(max, val))
}
