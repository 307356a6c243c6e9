package audio

import (
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"

	"github.com/vovakirdan/glitch-jump/internal/run"
)

// DefaultSampleRate is used when Options.Rate is zero.
const DefaultSampleRate = beep.SampleRate(44100)

// Output receives finished streams.
type Output interface {
	Play(s beep.Streamer)
}

// speakerOutput mixes cues into the system speaker.
type speakerOutput struct {
	mixer *beep.Mixer
}

// OpenSpeaker initializes the system audio device. It can only be called
// once per process.
func OpenSpeaker(rate beep.SampleRate) (Output, error) {
	if err := speaker.Init(rate, rate.N(100*time.Millisecond)); err != nil {
		return nil, err
	}
	out := &speakerOutput{mixer: &beep.Mixer{}}
	speaker.Play(out.mixer)
	return out, nil
}

func (o *speakerOutput) Play(s beep.Streamer) {
	speaker.Lock()
	o.mixer.Add(s)
	speaker.Unlock()
}

// Options configures a Board.
type Options struct {
	Rate   beep.SampleRate
	Volume float64 // master volume 0..1, default 1
	Output Output
	Logger *log.Logger
}

// Board plays cues for bus events.
type Board struct {
	rate   beep.SampleRate
	out    Output
	logger *log.Logger

	mu     sync.Mutex
	volume float64
	muted  bool

	wg sync.WaitGroup
}

// NewBoard creates a board writing to opts.Output.
func NewBoard(opts Options) *Board {
	if opts.Rate == 0 {
		opts.Rate = DefaultSampleRate
	}
	if opts.Volume == 0 {
		opts.Volume = 1
	}
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}
	return &Board{
		rate:   opts.Rate,
		out:    opts.Output,
		logger: opts.Logger,
		volume: opts.Volume,
	}
}

// SetMuted toggles playback.
func (b *Board) SetMuted(muted bool) {
	b.mu.Lock()
	b.muted = muted
	b.mu.Unlock()
}

// Muted reports whether playback is off.
func (b *Board) Muted() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.muted
}

// Play synthesizes and queues a cue. Errors are logged and dropped.
func (b *Board) Play(c Cue) {
	b.mu.Lock()
	muted, volume := b.muted, b.volume
	b.mu.Unlock()
	if muted || b.out == nil {
		return
	}

	s, err := Build(c, b.rate, volume)
	if err != nil {
		b.logger.Debug("audio: cannot build cue", "cue", c, "error", err)
		return
	}
	b.out.Play(s)
}

// Attach plays cues for every event on sub until it is closed.
func (b *Board) Attach(sub *run.Subscription) {
	b.wg.Add(1)
	go func() {
		defer b.wg.Done()
		for ev := range sub.Events() {
			if c, ok := CueFor(ev); ok {
				b.Play(c)
			}
		}
	}()
}

// Wait blocks until every attached subscription has ended.
func (b *Board) Wait() {
	b.wg.Wait()
}
