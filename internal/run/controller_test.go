package run

import (
	"context"
	"math"
	"strconv"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/vovakirdan/glitch-jump/internal/chance"
	"github.com/vovakirdan/glitch-jump/internal/config"
	"github.com/vovakirdan/glitch-jump/internal/core"
	"github.com/vovakirdan/glitch-jump/internal/economy"
	"github.com/vovakirdan/glitch-jump/internal/sim"
)

const frame = 16 * time.Millisecond

// testConfig disables spawning and the settle delay.
func testConfig() config.GameConfig {
	cfg := config.Default()
	cfg.Spawn.MinIntervalMS = 1e9
	cfg.Spawn.MaxIntervalMS = 1e9
	cfg.Run.SettleMS = 0
	return cfg
}

type recordingSaver struct {
	mu        sync.Mutex
	summaries []Summary
	outcomes  []Outcome
}

func (r *recordingSaver) SaveRunResult(_ context.Context, s Summary, o Outcome) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.summaries = append(r.summaries, s)
	r.outcomes = append(r.outcomes, o)
	return nil
}

func newTestController(t *testing.T, cfg config.GameConfig) (*Controller, *economy.Store, *economy.MemoryKV) {
	t.Helper()
	kv := economy.NewMemoryKV()
	store := economy.NewStore(kv, cfg.Economy, chance.New(1), nil)
	c := New(Options{Config: cfg, Economy: store, Source: chance.New(1)})
	t.Cleanup(func() { _ = c.Close(context.Background()) })
	return c, store, kv
}

// runUntilOver ticks without jumping until the player hits the floor.
func runUntilOver(t *testing.T, c *Controller) {
	t.Helper()
	for range 10000 {
		c.Frame(frame)
		if c.State() == StateGameOver {
			return
		}
	}
	t.Fatal("run never ended")
}

func drain(t *testing.T, c *Controller) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := c.Drain(ctx); err != nil {
		t.Fatalf("Drain: %v", err)
	}
}

func waitRunEnd(t *testing.T, sub *Subscription) RunEndEvent {
	t.Helper()
	timeout := time.After(5 * time.Second)
	for {
		select {
		case ev := <-sub.Events():
			if end, ok := ev.(RunEndEvent); ok {
				return end
			}
		case <-timeout:
			t.Fatal("no run-end event")
		}
	}
}

func TestStateMachine(t *testing.T) {
	c, _, _ := newTestController(t, testConfig())

	steps := []struct {
		action   core.Action
		accepted bool
		expected State
	}{
		{core.ActionRetry, false, StateMenu},
		{core.ActionPause, false, StateMenu},
		{core.ActionJump, true, StateRunning},
		{core.ActionStart, false, StateRunning},
		{core.ActionPause, true, StatePaused},
		{core.ActionJump, false, StatePaused},
		{core.ActionRetry, false, StatePaused},
		{core.ActionResume, true, StateRunning},
		{core.ActionPause, true, StatePaused},
		{core.ActionPause, true, StateRunning},
	}
	for i, s := range steps {
		if got := c.Handle(s.action); got != s.accepted {
			t.Errorf("step %d (%v): accepted = %v, expected %v", i, s.action, got, s.accepted)
		}
		if c.State() != s.expected {
			t.Fatalf("step %d (%v): state = %v, expected %v", i, s.action, c.State(), s.expected)
		}
	}

	runUntilOver(t, c)
	for _, a := range []core.Action{core.ActionJump, core.ActionStart, core.ActionPause} {
		if c.Handle(a) {
			t.Errorf("%v should be ignored after game over", a)
		}
		if c.State() != StateGameOver {
			t.Fatalf("%v left game over", a)
		}
	}
	if !c.Handle(core.ActionRetry) || c.State() != StateRunning {
		t.Error("retry should restart the run")
	}
}

func TestStartFromMenu(t *testing.T) {
	c, _, _ := newTestController(t, testConfig())
	if !c.Handle(core.ActionStart) || c.State() != StateRunning {
		t.Error("start should begin a run")
	}
}

func TestPauseFreezesTicks(t *testing.T) {
	c, _, _ := newTestController(t, testConfig())
	c.Handle(core.ActionStart)
	for range 5 {
		c.Frame(frame)
	}
	c.Handle(core.ActionPause)
	before := c.Snapshot()

	for range 20 {
		if ev := c.Frame(frame); ev != nil {
			t.Fatalf("paused frame produced events: %v", ev)
		}
	}
	after := c.Snapshot()
	if before.Run.Frames != after.Run.Frames || before.Player.Y != after.Player.Y {
		t.Error("state changed while paused")
	}

	c.Handle(core.ActionResume)
	c.Frame(frame)
	if c.Snapshot().Run.Frames != before.Run.Frames+1 {
		t.Error("resume should continue from the frozen state")
	}
}

func TestSettleDelay(t *testing.T) {
	cfg := testConfig()
	cfg.Run.SettleMS = 100
	c, _, _ := newTestController(t, cfg)
	c.Handle(core.ActionStart)

	// 100 ms of settle at 16 ms per frame takes 7 frames.
	for i := range 7 {
		if !c.Settling() {
			t.Fatalf("frame %d: settle ended early", i)
		}
		c.Frame(frame)
	}
	if c.Snapshot().Run.Frames != 0 {
		t.Fatal("no tick should run during the settle delay")
	}
	c.Frame(frame)
	if c.Snapshot().Run.Frames != 1 {
		t.Errorf("frames = %d, expected 1 after settling", c.Snapshot().Run.Frames)
	}
}

func TestFrameClampsLongDelta(t *testing.T) {
	cfg := testConfig()
	cfg.Run.SettleMS = 100
	c, _, _ := newTestController(t, cfg)
	c.Handle(core.ActionStart)

	// A 5 second hitch only counts as one step of settle time.
	c.Frame(5 * time.Second)
	if !c.Settling() {
		t.Error("long frame should be clamped to the fixed step")
	}
}

func TestSettlementFloorsCoins(t *testing.T) {
	c, store, _ := newTestController(t, testConfig())
	saver := &recordingSaver{}
	c.saver = saver
	sub := c.Subscribe(64)

	c.Handle(core.ActionStart)
	c.engine.World().Run.CoinYield = 12.7
	c.engine.World().Run.Score = 33
	runUntilOver(t, c)

	end := waitRunEnd(t, sub)
	if end.Summary.Coins != 12 || end.Outcome.Deposited != 12 {
		t.Errorf("deposit = %d/%d, expected floor 12", end.Summary.Coins, end.Outcome.Deposited)
	}
	if got := store.Coins(context.Background()); got != 12 {
		t.Errorf("balance = %d, expected 12", got)
	}
	if end.Summary.Reason != sim.GameOverFloor {
		t.Errorf("reason = %v", end.Summary.Reason)
	}

	drain(t, c)
	saver.mu.Lock()
	defer saver.mu.Unlock()
	if len(saver.summaries) != 1 || saver.summaries[0].Score != 33 {
		t.Errorf("saved runs = %+v", saver.summaries)
	}

	last, ok := c.LastSummary()
	if !ok || last.ID != end.Summary.ID {
		t.Error("last summary should match the settled run")
	}
	if c.Snapshot().Run.Score != 33 {
		t.Error("final state should stay frozen for the results screen")
	}
}

func TestNoMidRunDeposits(t *testing.T) {
	c, store, _ := newTestController(t, testConfig())
	c.Handle(core.ActionStart)

	w := c.engine.World()
	p := w.Player
	w.InsertPowerUp(sim.PowerUp{Kind: sim.ScoreBonus, X: p.X, Y: p.Y, Size: 24})
	c.Frame(frame)
	drain(t, c)

	if w.Run.CoinYield != 10 {
		t.Fatalf("yield = %v, expected 10", w.Run.CoinYield)
	}
	if store.Coins(context.Background()) != 0 {
		t.Error("coins must only be deposited at run end")
	}
}

func TestMysteryBoxThreshold(t *testing.T) {
	tests := []struct {
		name     string
		start    float64
		stars    int
		expected int
	}{
		{"one box at exactly 100", 90, 1, 1},
		{"one box past 100", 95, 1, 1},
		{"no box below 100", 85, 1, 0},
		{"two boxes at 200", 190, 1, 2},
		{"no double grant", 95, 3, 1},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			c, store, _ := newTestController(t, testConfig())
			c.Handle(core.ActionStart)
			w := c.engine.World()
			w.Run.CoinYield = tc.start

			for range tc.stars {
				p := w.Player
				w.InsertPowerUp(sim.PowerUp{Kind: sim.ScoreBonus, X: p.X, Y: p.Y, Size: 24})
				c.Frame(frame)
			}
			drain(t, c)

			if got := store.MysteryBoxes(context.Background()); got != tc.expected {
				t.Errorf("boxes = %d, expected %d (yield %v)", got, tc.expected, w.Run.CoinYield)
			}
		})
	}
}

func TestMysteryBoxOrderIndependent(t *testing.T) {
	// 200 coins earned through many small near-miss-sized deposits.
	c, store, _ := newTestController(t, testConfig())
	c.Handle(core.ActionStart)
	w := c.engine.World()

	for range 20 {
		w.Run.CoinYield += 9.5
		c.accrueBoxes()
	}
	w.Run.CoinYield += 10
	c.accrueBoxes()
	drain(t, c)

	if w.Run.CoinYield != 200 {
		t.Fatalf("yield = %v", w.Run.CoinYield)
	}
	if got := store.MysteryBoxes(context.Background()); got != 2 {
		t.Errorf("boxes = %d, expected 2", got)
	}
}

func TestHighScoreAcrossRuns(t *testing.T) {
	c, store, kv := newTestController(t, testConfig())
	ctx := context.Background()
	_ = kv.Set(ctx, economy.KeyHighScore, strconv.Itoa(120))
	sub := c.Subscribe(256)

	c.Handle(core.ActionStart)
	c.engine.World().Run.Score = 150
	runUntilOver(t, c)
	first := waitRunEnd(t, sub)
	if !first.Outcome.NewRecord || first.Outcome.HighScore != 150 {
		t.Errorf("first outcome = %+v, expected new record 150", first.Outcome)
	}

	c.Handle(core.ActionRetry)
	c.engine.World().Run.Score = 100
	runUntilOver(t, c)
	second := waitRunEnd(t, sub)
	if second.Outcome.NewRecord || second.Outcome.HighScore != 150 {
		t.Errorf("second outcome = %+v, expected no record", second.Outcome)
	}

	c.Handle(core.ActionRetry)
	c.engine.World().Run.Score = 140
	runUntilOver(t, c)
	third := waitRunEnd(t, sub)
	if !third.Outcome.CloseToRecord {
		t.Errorf("140 of 150 should be close to the record: %+v", third.Outcome)
	}

	if store.HighScore(ctx) != 150 {
		t.Errorf("stored high score = %d", store.HighScore(ctx))
	}
}

func TestRetryResetsWorld(t *testing.T) {
	c, _, _ := newTestController(t, testConfig())
	c.Handle(core.ActionStart)
	c.engine.World().InsertObstacle(sim.Obstacle{Kind: sim.Block, X: 300, W: 28, H: 40})
	runUntilOver(t, c)
	firstID, _ := c.LastSummary()

	c.Handle(core.ActionRetry)
	snap := c.Snapshot()
	if len(snap.Obstacles) != 0 || snap.Run.Score != 0 || snap.Run.Over {
		t.Errorf("retry should start from a fresh world: %+v", snap.Run)
	}
	runUntilOver(t, c)
	second, _ := c.LastSummary()
	if second.ID == firstID.ID {
		t.Error("each run needs its own ID")
	}
}

func TestEquippedSkinAppliedAtStart(t *testing.T) {
	c, store, _ := newTestController(t, testConfig())
	ctx := context.Background()
	store.UnlockSkin(ctx, "cyber")
	store.SetCurrentSkin(ctx, "cyber")
	c.RefreshWallet()
	drain(t, c)

	c.Handle(core.ActionStart)
	if c.Snapshot().Player.Skin != "cyber" {
		t.Errorf("skin = %q", c.Snapshot().Player.Skin)
	}
}

func TestConfigAppliesAtNextRun(t *testing.T) {
	c, _, _ := newTestController(t, testConfig())
	c.Handle(core.ActionStart)

	next := testConfig()
	next.Physics.Gravity = 1.2
	c.SetConfig(next)
	if c.Config().Physics.Gravity != 0.6 {
		t.Error("running game must keep its tunables")
	}

	runUntilOver(t, c)
	c.Handle(core.ActionRetry)
	if c.Config().Physics.Gravity != 1.2 {
		t.Errorf("gravity = %v, expected staged 1.2", c.Config().Physics.Gravity)
	}
}

func TestInvariantViolationSettles(t *testing.T) {
	c, _, _ := newTestController(t, testConfig())
	sub := c.Subscribe(64)
	c.Handle(core.ActionStart)
	c.engine.World().Player.Y = math.NaN()

	c.Frame(frame)
	if c.State() != StateGameOver {
		t.Fatalf("state = %v, expected game over", c.State())
	}
	end := waitRunEnd(t, sub)
	if end.Summary.Reason != sim.GameOverInvariant {
		t.Errorf("reason = %v, expected invariant", end.Summary.Reason)
	}
}

func TestEventsReachSubscribers(t *testing.T) {
	c, _, _ := newTestController(t, testConfig())
	sub := c.Subscribe(256)

	c.Handle(core.ActionStart)
	c.Handle(core.ActionJump)
	c.Frame(frame)

	seen := map[string]bool{}
	for len(sub.Events()) > 0 {
		seen[(<-sub.Events()).Name()] = true
	}
	for _, name := range []string{"run-start", "jump"} {
		if !seen[name] {
			t.Errorf("missing %q event, saw %v", name, seen)
		}
	}
}

// gatedKV holds every read until release is closed once gated is set.
type gatedKV struct {
	*economy.MemoryKV
	gated   atomic.Bool
	release chan struct{}
}

func (g *gatedKV) Get(ctx context.Context, key string) (string, bool, error) {
	if g.gated.Load() {
		<-g.release
	}
	return g.MemoryKV.Get(ctx, key)
}

func TestRetryDoesNotWaitOnSettlement(t *testing.T) {
	kv := &gatedKV{MemoryKV: economy.NewMemoryKV(), release: make(chan struct{})}
	cfg := testConfig()
	store := economy.NewStore(kv, cfg.Economy, chance.New(1), nil)
	c := New(Options{Config: cfg, Economy: store, Source: chance.New(1)})
	var once sync.Once
	unblock := func() { once.Do(func() { close(kv.release) }) }
	t.Cleanup(func() {
		unblock()
		_ = c.Close(context.Background())
	})
	drain(t, c)
	sub := c.Subscribe(256)

	c.Handle(core.ActionStart)
	kv.gated.Store(true)
	runUntilOver(t, c)

	// Settlement now holds the store lock while its read is stuck.
	done := make(chan bool, 1)
	go func() { done <- c.Handle(core.ActionRetry) }()
	select {
	case ok := <-done:
		if !ok {
			t.Fatal("retry was refused")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("retry blocked on storage")
	}
	if c.Wallet().Skin != economy.DefaultSkin {
		t.Errorf("wallet skin = %q", c.Wallet().Skin)
	}

	unblock()
	end := waitRunEnd(t, sub)
	if last, _ := c.LastSummary(); end.Summary.ID != last.ID {
		t.Error("the first run should still have been settled")
	}
}

func TestWalletFollowsSettlement(t *testing.T) {
	c, _, kv := newTestController(t, testConfig())
	ctx := context.Background()
	_ = kv.Set(ctx, economy.KeyCoins, "30")
	_ = kv.Set(ctx, economy.KeyHighScore, "80")
	c.RefreshWallet()
	drain(t, c)
	if w := c.Wallet(); w.Coins != 30 || w.HighScore != 80 || w.Skin != economy.DefaultSkin {
		t.Fatalf("wallet after refresh = %+v", w)
	}

	sub := c.Subscribe(256)
	c.Handle(core.ActionStart)
	c.engine.World().Run.Score = 90
	c.engine.World().Run.CoinYield = 12.7
	runUntilOver(t, c)
	end := waitRunEnd(t, sub)

	w := c.Wallet()
	if w.Coins != end.Outcome.Balance || w.Coins != 42 {
		t.Errorf("wallet coins = %d, expected 42 (outcome %+v)", w.Coins, end.Outcome)
	}
	if w.HighScore != 90 {
		t.Errorf("wallet high score = %d, expected 90", w.HighScore)
	}
}

func TestEconomyConfigAppliesAtNextRun(t *testing.T) {
	c, store, kv := newTestController(t, testConfig())
	ctx := context.Background()
	_ = kv.Set(ctx, economy.KeyCoins, "100")
	c.Handle(core.ActionStart)

	next := testConfig()
	next.Economy.Skins = append(next.Economy.Skins,
		config.SkinConfig{ID: "neon", Name: "Neon", Color: "#39ff14", Glow: "#22cc00", Cost: 20})
	c.SetConfig(next)
	drain(t, c)
	if _, ok := store.Catalog().Get("neon"); ok {
		t.Fatal("economy tunables must not change mid-run")
	}

	runUntilOver(t, c)
	c.Handle(core.ActionRetry)
	drain(t, c)
	if _, ok := store.Catalog().Get("neon"); !ok {
		t.Fatal("reloaded catalog should apply at the next run")
	}
	if r := store.PurchaseSkin(ctx, "neon"); !r.OK {
		t.Errorf("PurchaseSkin(neon) = %+v", r)
	}
}
