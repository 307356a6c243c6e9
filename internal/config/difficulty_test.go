package config

import (
	"math"
	"testing"
)

func TestSpeedCurveBounds(t *testing.T) {
	curve := NewSpeedCurve(Default().Scroll)

	prev := curve.Speed(0, 1)
	if prev != 4 {
		t.Fatalf("Speed(0) = %v, expected base 4", prev)
	}
	for frame := 1; frame <= 5000; frame++ {
		s := curve.Speed(frame, 1)
		if s < curve.Base() || s > curve.Max() {
			t.Fatalf("frame %d: speed %v outside [%v, %v]", frame, s, curve.Base(), curve.Max())
		}
		if s < prev {
			t.Fatalf("frame %d: speed decreased %v -> %v", frame, prev, s)
		}
		prev = s
	}
	if prev != 9 {
		t.Errorf("speed after 5000 frames = %v, expected max 9", prev)
	}
}

func TestSpeedCurveTimeScale(t *testing.T) {
	curve := NewSpeedCurve(Default().Scroll)

	full := curve.Speed(1000, 1)
	slow := curve.Speed(1000, 0.5)
	if math.Abs(full-7) > 1e-9 {
		t.Errorf("Speed(1000, 1) = %v, expected 7", full)
	}
	if math.Abs(slow-5.5) > 1e-9 {
		t.Errorf("Speed(1000, 0.5) = %v, expected 5.5", slow)
	}
}

func TestSpeedCurveProgress(t *testing.T) {
	curve := NewSpeedCurve(Default().Scroll)

	tests := []struct {
		speed    float64
		expected float64
	}{
		{4, 0},
		{6.5, 0.5},
		{9, 1},
		{2, 0},
		{20, 1},
	}
	for _, tc := range tests {
		if got := curve.Progress(tc.speed); math.Abs(got-tc.expected) > 1e-9 {
			t.Errorf("Progress(%v) = %v, expected %v", tc.speed, got, tc.expected)
		}
	}

	flat := NewSpeedCurve(ScrollConfig{BaseSpeed: 5, MaxSpeed: 5})
	if flat.Progress(5) != 0 {
		t.Error("zero-span curve should report no progress")
	}
}

func TestSpawnInterval(t *testing.T) {
	spawn := Default().Spawn

	tests := []struct {
		progress float64
		expected float64
	}{
		{0, 2200},
		{0.5, 1700},
		{1, 1200},
		{-1, 2200},
		{2, 1200},
	}
	for _, tc := range tests {
		if got := spawn.SpawnInterval(tc.progress); math.Abs(got-tc.expected) > 1e-9 {
			t.Errorf("SpawnInterval(%v) = %v, expected %v", tc.progress, got, tc.expected)
		}
	}
}

func TestRampAt(t *testing.T) {
	r := Ramp{AtMin: 35, AtMax: 15}
	if r.At(0) != 35 || r.At(1) != 15 || r.At(0.5) != 25 {
		t.Errorf("ramp = %v %v %v", r.At(0), r.At(0.5), r.At(1))
	}
}
