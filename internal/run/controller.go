// Package run drives the simulation: it owns the run state machine, the
// fixed-step tick, event dispatch and settlement of finished runs with the
// economy.
package run

import (
	"context"
	"io"
	"math"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/vovakirdan/glitch-jump/internal/chance"
	"github.com/vovakirdan/glitch-jump/internal/config"
	"github.com/vovakirdan/glitch-jump/internal/core"
	"github.com/vovakirdan/glitch-jump/internal/economy"
	"github.com/vovakirdan/glitch-jump/internal/sim"
)

// State is the run lifecycle state.
type State int

const (
	StateMenu State = iota
	StateRunning
	StatePaused
	StateGameOver
)

func (s State) String() string {
	switch s {
	case StateMenu:
		return "menu"
	case StateRunning:
		return "running"
	case StatePaused:
		return "paused"
	case StateGameOver:
		return "game-over"
	default:
		return "unknown"
	}
}

// Options configures a Controller. Only Config is required.
type Options struct {
	Config  config.GameConfig
	Runtime core.RuntimeConfig
	Economy *economy.Store // defaults to an in-memory store
	Saver   ResultSaver    // optional run history
	Ledger  *Ledger        // shared settlement queue; one is created if nil
	Bus     *Bus           // created if nil
	Source  chance.Source  // defaults to chance.New(Runtime.Seed)
	Logger  *log.Logger
	Profile string
	Clock   func() time.Time
}

// Wallet is the cached view of the profile's economy. It is refreshed by
// settlement jobs so the frame loop never waits on storage.
type Wallet struct {
	HighScore int
	Coins     int
	Boxes     int
	Skin      string
}

// Controller owns one player's sequence of runs. Handle and Frame must be
// called from a single goroutine (the host's frame loop).
type Controller struct {
	cfg     config.GameConfig
	engine  *sim.Engine
	store   *economy.Store
	saver   ResultSaver
	ledger  *Ledger
	ownsLed bool
	bus     *Bus
	logger  *log.Logger
	profile string
	now     func() time.Time

	state        State
	step         time.Duration
	settleLeft   time.Duration
	runID        uuid.UUID
	startedAt    time.Time
	boxesGranted int
	last         *Summary

	mu     sync.Mutex
	next   *config.GameConfig
	wallet Wallet
}

// New creates a controller in the menu state.
func New(opts Options) *Controller {
	if opts.Runtime.TickRate == 0 {
		opts.Runtime.TickRate = opts.Config.Run.TickRate
	}
	if opts.Source == nil {
		opts.Source = chance.New(opts.Runtime.Seed)
	}
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}
	if opts.Economy == nil {
		opts.Economy = economy.NewStore(economy.NewMemoryKV(), opts.Config.Economy, opts.Source, opts.Logger)
	}
	if opts.Bus == nil {
		opts.Bus = NewBus()
	}
	if opts.Clock == nil {
		opts.Clock = time.Now
	}
	if opts.Profile == "" {
		opts.Profile = "local"
	}

	c := &Controller{
		cfg:     opts.Config,
		engine:  sim.NewEngine(opts.Config, opts.Source),
		store:   opts.Economy,
		saver:   opts.Saver,
		ledger:  opts.Ledger,
		bus:     opts.Bus,
		logger:  opts.Logger,
		profile: opts.Profile,
		now:     opts.Clock,
		state:   StateMenu,
		step:    opts.Runtime.Step(),
		wallet:  Wallet{Skin: economy.DefaultSkin},
	}
	if c.ledger == nil {
		c.ledger = NewLedger(opts.Logger)
		c.ownsLed = true
	}
	c.RefreshWallet()
	return c
}

// State returns the current lifecycle state.
func (c *Controller) State() State { return c.state }

// Step returns the fixed simulation step.
func (c *Controller) Step() time.Duration { return c.step }

// Profile returns the economy profile this controller settles into.
func (c *Controller) Profile() string { return c.profile }

// Economy returns the economy store.
func (c *Controller) Economy() *economy.Store { return c.store }

// Wallet returns the last loaded economy view. It never touches storage.
func (c *Controller) Wallet() Wallet {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.wallet
}

// RefreshWallet queues a reload of the wallet behind pending settlement.
// Safe to call from any goroutine.
func (c *Controller) RefreshWallet() {
	c.submit(c.loadWallet)
}

func (c *Controller) loadWallet(ctx context.Context) {
	w := Wallet{
		HighScore: c.store.HighScore(ctx),
		Coins:     c.store.Coins(ctx),
		Boxes:     c.store.MysteryBoxes(ctx),
		Skin:      c.store.CurrentSkin(ctx),
	}
	c.mu.Lock()
	c.wallet = w
	c.mu.Unlock()
}

// Config returns the tunables of the current run.
func (c *Controller) Config() config.GameConfig { return c.cfg }

// Bus returns the event bus.
func (c *Controller) Bus() *Bus { return c.bus }

// Subscribe is a shortcut for Bus().Subscribe.
func (c *Controller) Subscribe(buffer int) *Subscription {
	return c.bus.Subscribe(buffer)
}

// Snapshot returns a copy of the world. After game over it shows the
// frozen final state.
func (c *Controller) Snapshot() sim.Snapshot {
	return c.engine.Snapshot()
}

// Settling reports whether the post-start settle delay is still running.
func (c *Controller) Settling() bool {
	return c.state == StateRunning && c.settleLeft > 0
}

// LastSummary returns the summary of the most recent finished run.
func (c *Controller) LastSummary() (Summary, bool) {
	if c.last == nil {
		return Summary{}, false
	}
	return *c.last, true
}

// SetConfig stages cfg for the next start or retry. A running game keeps
// its tunables. Safe to call from any goroutine.
func (c *Controller) SetConfig(cfg config.GameConfig) {
	c.mu.Lock()
	c.next = &cfg
	c.mu.Unlock()
	c.logger.Info("config reloaded, applies to the next run", "profile", c.profile)
}

// Handle applies a player action and reports whether it was accepted.
// Retry is the only way out of game over, so a stray jump cannot restart.
func (c *Controller) Handle(a core.Action) bool {
	switch c.state {
	case StateMenu:
		if a == core.ActionStart || a == core.ActionJump {
			c.start()
			return true
		}
	case StateRunning:
		switch a {
		case core.ActionJump:
			return c.engine.Jump()
		case core.ActionPause:
			c.state = StatePaused
			c.bus.Publish(PauseEvent{Paused: true})
			return true
		}
	case StatePaused:
		if a == core.ActionPause || a == core.ActionResume {
			c.state = StateRunning
			c.bus.Publish(PauseEvent{Paused: false})
			return true
		}
	case StateGameOver:
		if a == core.ActionRetry {
			c.start()
			return true
		}
	}
	return false
}

// ToMenu leaves the results screen. Only valid after game over.
func (c *Controller) ToMenu() bool {
	if c.state != StateGameOver {
		return false
	}
	c.state = StateMenu
	return true
}

// Frame is the host frame callback. The delta is clamped to the fixed
// step; while running and settled it advances exactly one tick and
// publishes the tick's events, which are also returned.
func (c *Controller) Frame(delta time.Duration) []sim.Event {
	if c.state != StateRunning {
		return nil
	}
	delta = core.ClampDelta(delta, c.step)
	if c.settleLeft > 0 {
		c.settleLeft -= delta
		return nil
	}

	events := c.engine.Step(c.step)
	for _, ev := range events {
		c.bus.Publish(ev)
		switch e := ev.(type) {
		case sim.CoinCollectEvent:
			c.accrueBoxes()
		case sim.GameOverEvent:
			c.finish(e)
		}
	}
	return events
}

// Drain waits for pending settlement work.
func (c *Controller) Drain(ctx context.Context) error {
	return c.ledger.Drain(ctx)
}

// Close drains settlement, stops an owned ledger and closes the bus.
func (c *Controller) Close(ctx context.Context) error {
	var err error
	if c.ownsLed {
		err = c.ledger.Close(ctx)
	} else {
		err = c.ledger.Drain(ctx)
	}
	c.bus.Close()
	return err
}

func (c *Controller) start() {
	c.mu.Lock()
	staged := c.next != nil
	if staged {
		c.cfg = *c.next
		c.next = nil
	}
	skin := c.wallet.Skin
	c.mu.Unlock()

	if staged {
		store, eco := c.store, c.cfg.Economy
		c.submit(func(context.Context) { store.SetConfig(eco) })
	}
	c.engine.Reset(c.cfg)
	c.engine.SetSkin(skin)
	c.runID = uuid.New()
	c.startedAt = c.now()
	c.boxesGranted = 0
	c.settleLeft = time.Duration(c.cfg.Run.SettleMS * float64(time.Millisecond))
	c.state = StateRunning

	c.bus.Publish(RunStartEvent{RunID: c.runID})
	c.logger.Debug("run started", "run", c.runID, "profile", c.profile)
}

// accrueBoxes grants one box per full threshold of coins earned this run.
func (c *Controller) accrueBoxes() {
	threshold := c.cfg.Economy.MysteryBoxCoins
	if threshold <= 0 {
		return
	}
	earned := int(math.Floor(c.engine.World().Run.CoinYield / float64(threshold)))
	for ; c.boxesGranted < earned; c.boxesGranted++ {
		store, bus := c.store, c.bus
		c.submit(func(ctx context.Context) {
			total := store.AddMysteryBox(ctx)
			if total == 0 {
				return
			}
			c.mu.Lock()
			c.wallet.Boxes = total
			c.mu.Unlock()
			bus.Publish(MysteryBoxEvent{Total: total})
		})
	}
}

func (c *Controller) finish(ev sim.GameOverEvent) {
	c.state = StateGameOver
	r := c.engine.World().Run
	summary := Summary{
		ID:          c.runID,
		Profile:     c.profile,
		Skin:        c.engine.World().Player.Skin,
		Score:       r.Score,
		CoinYield:   r.CoinYield,
		Coins:       r.Coins(),
		Stars:       r.Stars,
		NearMisses:  r.NearMisses,
		Frames:      r.Frames,
		Reason:      ev.Reason,
		BoxesEarned: c.boxesGranted,
		StartedAt:   c.startedAt,
		EndedAt:     c.now(),
	}
	c.last = &summary

	if ev.Reason == sim.GameOverInvariant {
		c.logger.Error("run: simulation invariant violated, run terminated",
			"run", summary.ID, "frame", summary.Frames, "y", c.engine.World().Player.Y)
	}
	c.logger.Info("run ended",
		"run", summary.ID, "profile", summary.Profile, "score", summary.Score,
		"coins", summary.Coins, "reason", summary.Reason)

	store, saver, bus, logger := c.store, c.saver, c.bus, c.logger
	threshold := c.cfg.Scoring.HighscoreThreshold
	c.submit(func(ctx context.Context) {
		outcome := Settle(ctx, store, summary, threshold)
		if saver != nil {
			if err := saver.SaveRunResult(ctx, summary, outcome); err != nil {
				logger.Warn("run: cannot save run history", "run", summary.ID, "error", err)
			}
		}
		c.loadWallet(ctx)
		bus.Publish(RunEndEvent{Summary: summary, Outcome: outcome})
	})
}

func (c *Controller) submit(job Job) {
	if err := c.ledger.Submit(job); err != nil {
		c.logger.Warn("run: settlement dropped", "error", err)
	}
}

// Settle deposits the floored coin yield and checks the high score.
func Settle(ctx context.Context, store *economy.Store, s Summary, threshold float64) Outcome {
	previous := store.HighScore(ctx)
	balance := store.AddCoins(ctx, s.Coins)
	record := store.SetHighScoreIfGreater(ctx, s.Score)

	high := previous
	if record {
		high = s.Score
	}
	return Outcome{
		Deposited:     s.Coins,
		Balance:       balance,
		HighScore:     high,
		NewRecord:     record,
		CloseToRecord: economy.CloseToRecord(s.Score, previous, threshold),
	}
}
