// Package audio plays short synthesized cues for game events. Playback is
// fire-and-forget: nothing in the simulation ever waits on it.
package audio

import (
	"fmt"
	"math"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/generators"

	"github.com/vovakirdan/glitch-jump/internal/run"
	"github.com/vovakirdan/glitch-jump/internal/sim"
)

// Cue identifies a sound.
type Cue int

const (
	CueJump Cue = iota
	CueScore
	CueCoin
	CuePowerUp
	CueShieldBreak
	CueNearMiss
	CueCrash
	CueBox
	CueRecord
)

func (c Cue) String() string {
	switch c {
	case CueJump:
		return "jump"
	case CueScore:
		return "score"
	case CueCoin:
		return "coin"
	case CuePowerUp:
		return "powerup"
	case CueShieldBreak:
		return "shield-break"
	case CueNearMiss:
		return "near-miss"
	case CueCrash:
		return "crash"
	case CueBox:
		return "box"
	case CueRecord:
		return "record"
	default:
		return "unknown"
	}
}

// Note is one tone of a cue. A zero frequency is a rest.
type Note struct {
	Freq float64
	Dur  time.Duration
}

type cueSpec struct {
	notes  []Note
	volume float64
}

const ms = time.Millisecond

var cueSpecs = map[Cue]cueSpec{
	CueJump:        {[]Note{{523.25, 40 * ms}, {659.25, 40 * ms}}, 0.4},
	CueScore:       {[]Note{{880, 50 * ms}}, 0.5},
	CueCoin:        {[]Note{{987.77, 50 * ms}, {1318.51, 90 * ms}}, 0.7},
	CuePowerUp:     {[]Note{{523.25, 60 * ms}, {659.25, 60 * ms}, {783.99, 90 * ms}}, 0.5},
	CueShieldBreak: {[]Note{{220, 80 * ms}, {0, 20 * ms}, {164.81, 120 * ms}}, 0.5},
	CueNearMiss:    {[]Note{{1046.5, 30 * ms}, {1396.91, 30 * ms}}, 0.5},
	CueCrash:       {[]Note{{196, 90 * ms}, {146.83, 90 * ms}, {98, 200 * ms}}, 0.6},
	CueBox:         {[]Note{{659.25, 70 * ms}, {783.99, 70 * ms}, {1046.5, 70 * ms}, {1318.51, 140 * ms}}, 0.8},
	CueRecord:      {[]Note{{783.99, 90 * ms}, {1046.5, 90 * ms}, {1567.98, 220 * ms}}, 0.6},
}

// Notes returns the tones of a cue.
func Notes(c Cue) []Note {
	return cueSpecs[c].notes
}

// CueFor maps a bus event to the cue it plays, if any.
func CueFor(ev sim.Event) (Cue, bool) {
	switch e := ev.(type) {
	case sim.JumpEvent:
		return CueJump, true
	case sim.ScoreEvent:
		return CueScore, true
	case sim.CoinCollectEvent:
		return CueCoin, true
	case sim.PowerUpCollectEvent:
		return CuePowerUp, true
	case sim.ShieldBreakEvent:
		return CueShieldBreak, true
	case sim.NearMissEvent:
		return CueNearMiss, true
	case sim.GameOverEvent:
		return CueCrash, true
	case run.MysteryBoxEvent:
		return CueBox, true
	case run.RunEndEvent:
		if e.Outcome.NewRecord {
			return CueRecord, true
		}
	}
	return 0, false
}

// Build synthesizes a cue at the given master volume (0..1).
func Build(c Cue, rate beep.SampleRate, master float64) (beep.Streamer, error) {
	spec, ok := cueSpecs[c]
	if !ok {
		return nil, fmt.Errorf("audio: unknown cue %d", c)
	}

	parts := make([]beep.Streamer, 0, len(spec.notes))
	for _, n := range spec.notes {
		samples := rate.N(n.Dur)
		if n.Freq <= 0 {
			parts = append(parts, beep.Silence(samples))
			continue
		}
		tone, err := generators.SineTone(rate, n.Freq)
		if err != nil {
			return nil, fmt.Errorf("audio: %s: %w", c, err)
		}
		parts = append(parts, beep.Take(samples, tone))
	}

	return newVolume(beep.Seq(parts...), spec.volume*master), nil
}

// newVolume scales a stream linearly. Zero or less is silent.
func newVolume(s beep.Streamer, vol float64) beep.Streamer {
	if vol <= 0 {
		return &effects.Volume{Streamer: s, Base: 2, Volume: 0, Silent: true}
	}
	return &effects.Volume{Streamer: s, Base: 2, Volume: math.Log2(vol), Silent: false}
}
