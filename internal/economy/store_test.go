package economy

import (
	"context"
	"errors"
	"slices"
	"strconv"
	"sync"
	"testing"

	"github.com/vovakirdan/glitch-jump/internal/chance"
	"github.com/vovakirdan/glitch-jump/internal/config"
)

// faultKV fails reads and/or writes on demand.
type faultKV struct {
	*MemoryKV
	failReads  bool
	failWrites bool
}

var errFault = errors.New("disk on fire")

func (f *faultKV) Get(ctx context.Context, key string) (string, bool, error) {
	if f.failReads {
		return "", false, errFault
	}
	return f.MemoryKV.Get(ctx, key)
}

func (f *faultKV) Set(ctx context.Context, key, value string) error {
	if f.failWrites {
		return errFault
	}
	return f.MemoryKV.Set(ctx, key, value)
}

func (f *faultKV) SetMany(ctx context.Context, pairs map[string]string) error {
	if f.failWrites {
		return errFault
	}
	return f.MemoryKV.SetMany(ctx, pairs)
}

func newTestStore(t *testing.T) (*Store, *MemoryKV) {
	t.Helper()
	kv := NewMemoryKV()
	return NewStore(kv, config.Default().Economy, chance.New(1), nil), kv
}

func setCoins(t *testing.T, kv KV, n int) {
	t.Helper()
	if err := kv.Set(context.Background(), KeyCoins, strconv.Itoa(n)); err != nil {
		t.Fatal(err)
	}
}

func TestFreshStoreDefaults(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	if s.HighScore(ctx) != 0 || s.Coins(ctx) != 0 || s.MysteryBoxes(ctx) != 0 {
		t.Error("fresh store should report zeros")
	}
	if got := s.UnlockedSkins(ctx); !slices.Equal(got, []string{DefaultSkin}) {
		t.Errorf("unlocked = %v, expected [default]", got)
	}
	if s.CurrentSkin(ctx) != DefaultSkin {
		t.Errorf("current skin = %q", s.CurrentSkin(ctx))
	}
}

func TestHighScoreRecord(t *testing.T) {
	s, kv := newTestStore(t)
	ctx := context.Background()
	if err := kv.Set(ctx, KeyHighScore, "120"); err != nil {
		t.Fatal(err)
	}

	if !s.SetHighScoreIfGreater(ctx, 150) {
		t.Error("150 over 120 should be a new record")
	}
	if s.HighScore(ctx) != 150 {
		t.Errorf("high score = %d, expected 150", s.HighScore(ctx))
	}
	if s.SetHighScoreIfGreater(ctx, 100) {
		t.Error("100 should not be a new record")
	}
	if s.SetHighScoreIfGreater(ctx, 150) {
		t.Error("matching the record is not a new record")
	}
	if s.HighScore(ctx) != 150 {
		t.Errorf("high score = %d, expected 150", s.HighScore(ctx))
	}
}

func TestCoins(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	if got := s.AddCoins(ctx, 30); got != 30 {
		t.Errorf("AddCoins = %d, expected 30", got)
	}
	if got := s.AddCoins(ctx, 0); got != 30 {
		t.Errorf("AddCoins(0) = %d, expected 30", got)
	}
	if got := s.AddCoins(ctx, -5); got != 30 {
		t.Errorf("AddCoins(-5) = %d, balance must not drop", got)
	}

	if r := s.SpendCoins(ctx, 40); r.OK || r.Total != 30 {
		t.Errorf("overspend = %+v", r)
	}
	if r := s.SpendCoins(ctx, 25); !r.OK || r.Total != 5 {
		t.Errorf("spend = %+v", r)
	}
	if s.Coins(ctx) != 5 {
		t.Errorf("balance = %d, expected 5", s.Coins(ctx))
	}
}

func TestPurchaseSkin(t *testing.T) {
	tests := []struct {
		name       string
		coins      int
		id         string
		owned      bool
		expectOK   bool
		expectLeft int
	}{
		{"insufficient", 40, "crimson", false, false, 40},
		{"exact change plus", 60, "crimson", false, true, 10},
		{"exact cost", 50, "crimson", false, true, 0},
		{"already owned", 500, "crimson", true, false, 500},
		{"unknown skin", 500, "rainbow", false, false, 500},
		{"default skin", 500, DefaultSkin, false, false, 500},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			s, kv := newTestStore(t)
			ctx := context.Background()
			setCoins(t, kv, tc.coins)
			if tc.owned {
				s.UnlockSkin(ctx, tc.id)
			}
			before := s.UnlockedSkins(ctx)

			r := s.PurchaseSkin(ctx, tc.id)
			if r.OK != tc.expectOK || r.Total != tc.expectLeft {
				t.Errorf("PurchaseSkin = %+v, expected {%v %d}", r, tc.expectOK, tc.expectLeft)
			}
			if s.Coins(ctx) != tc.expectLeft {
				t.Errorf("balance = %d, expected %d", s.Coins(ctx), tc.expectLeft)
			}
			after := s.UnlockedSkins(ctx)
			if tc.expectOK {
				if !slices.Contains(after, tc.id) || len(after) != len(before)+1 {
					t.Errorf("unlocked = %v after purchase of %q", after, tc.id)
				}
			} else if !slices.Equal(before, after) {
				t.Errorf("failed purchase changed unlocked set: %v -> %v", before, after)
			}
		})
	}
}

func TestPurchaseWriteFailureIsAtomic(t *testing.T) {
	kv := &faultKV{MemoryKV: NewMemoryKV()}
	s := NewStore(kv, config.Default().Economy, chance.New(1), nil)
	ctx := context.Background()
	setCoins(t, kv, 100)

	kv.failWrites = true
	if r := s.PurchaseSkin(ctx, "crimson"); r.OK {
		t.Error("purchase should fail when the write fails")
	}
	kv.failWrites = false
	if s.Coins(ctx) != 100 || s.IsUnlocked(ctx, "crimson") {
		t.Error("failed purchase must leave coins and skins untouched")
	}
}

func TestCurrentSkin(t *testing.T) {
	s, kv := newTestStore(t)
	ctx := context.Background()

	if s.SetCurrentSkin(ctx, "azure") {
		t.Error("locked skin cannot be equipped")
	}
	if !s.UnlockSkin(ctx, "azure") {
		t.Fatal("unlock should succeed")
	}
	if s.UnlockSkin(ctx, "azure") {
		t.Error("second unlock should report no change")
	}
	if s.UnlockSkin(ctx, "rainbow") {
		t.Error("unknown skins cannot be unlocked")
	}
	if !s.SetCurrentSkin(ctx, "azure") {
		t.Error("unlocked skin should be equippable")
	}
	if s.CurrentSkin(ctx) != "azure" {
		t.Errorf("current = %q", s.CurrentSkin(ctx))
	}

	// A stored skin that is not unlocked falls back to default.
	if err := kv.Set(ctx, KeyCurrentSkin, "void"); err != nil {
		t.Fatal(err)
	}
	if s.CurrentSkin(ctx) != DefaultSkin {
		t.Errorf("current = %q, expected default fallback", s.CurrentSkin(ctx))
	}
}

func TestUnlockedSkinsAlwaysHasDefault(t *testing.T) {
	s, kv := newTestStore(t)
	ctx := context.Background()
	if err := kv.Set(ctx, KeyUnlockedSkins, `["crimson","crimson"]`); err != nil {
		t.Fatal(err)
	}

	got := s.UnlockedSkins(ctx)
	if !slices.Equal(got, []string{DefaultSkin, "crimson"}) {
		t.Errorf("unlocked = %v", got)
	}
}

func TestMysteryBoxes(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	if r := s.OpenMysteryBox(ctx); r.OK {
		t.Error("opening with no boxes should fail")
	}
	s.AddMysteryBox(ctx)
	if got := s.AddMysteryBox(ctx); got != 2 {
		t.Errorf("AddMysteryBox = %d, expected 2", got)
	}
	if r := s.OpenMysteryBox(ctx); !r.OK || r.Total != 1 {
		t.Errorf("OpenMysteryBox = %+v", r)
	}
}

func TestStorageFaultsDegrade(t *testing.T) {
	kv := &faultKV{MemoryKV: NewMemoryKV(), failReads: true, failWrites: true}
	s := NewStore(kv, config.Default().Economy, chance.New(1), nil)
	ctx := context.Background()

	if s.HighScore(ctx) != 0 || s.Coins(ctx) != 0 || s.MysteryBoxes(ctx) != 0 {
		t.Error("failed reads should degrade to zero")
	}
	if s.CurrentSkin(ctx) != DefaultSkin {
		t.Error("failed reads should degrade to the default skin")
	}
	if !slices.Equal(s.UnlockedSkins(ctx), []string{DefaultSkin}) {
		t.Error("failed reads should degrade to the default unlocked set")
	}
	// Mutations refuse rather than report values that were never stored.
	if got := s.AddCoins(ctx, 7); got != 0 {
		t.Errorf("AddCoins under faults = %d, expected 0", got)
	}
	if s.SetHighScoreIfGreater(ctx, 3) {
		t.Error("a record based on an unreadable high score should be refused")
	}
	if r := s.OpenMysteryBox(ctx); r.OK {
		t.Error("no box can be opened when reads fail")
	}
}

func TestReadFaultSkipsWrites(t *testing.T) {
	mem := NewMemoryKV()
	kv := &faultKV{MemoryKV: mem}
	s := NewStore(kv, config.Default().Economy, chance.New(1), nil)
	ctx := context.Background()

	setCoins(t, kv, 500)
	s.SetHighScoreIfGreater(ctx, 900)
	s.AddMysteryBox(ctx)
	s.AddMysteryBox(ctx)
	s.UnlockSkin(ctx, "crimson")
	s.SetCurrentSkin(ctx, "crimson")
	snapshot := func() map[string]string {
		out := map[string]string{}
		for _, key := range []string{KeyCoins, KeyHighScore, KeyMysteryBoxes, KeyUnlockedSkins, KeyCurrentSkin} {
			v, _, _ := mem.Get(ctx, key)
			out[key] = v
		}
		return out
	}
	before := snapshot()

	kv.failReads = true
	mutations := []struct {
		name string
		run  func() bool
	}{
		{"AddCoins", func() bool { return s.AddCoins(ctx, 10) != 0 }},
		{"SpendCoins", func() bool { return s.SpendCoins(ctx, 0).OK }},
		{"SetHighScoreIfGreater", func() bool { return s.SetHighScoreIfGreater(ctx, 1) }},
		{"UnlockSkin", func() bool { return s.UnlockSkin(ctx, "azure") }},
		{"SetCurrentSkin", func() bool { return s.SetCurrentSkin(ctx, DefaultSkin) }},
		{"PurchaseSkin", func() bool { return s.PurchaseSkin(ctx, "amber").OK }},
		{"AddMysteryBox", func() bool { return s.AddMysteryBox(ctx) != 0 }},
		{"OpenMysteryBox", func() bool { return s.OpenMysteryBox(ctx).OK }},
		{"OpenMysteryBoxReward", func() bool { return s.OpenMysteryBoxReward(ctx).Opened }},
	}
	for _, m := range mutations {
		if m.run() {
			t.Errorf("%s succeeded although its read failed", m.name)
		}
	}
	kv.failReads = false

	after := snapshot()
	for key, v := range before {
		if after[key] != v {
			t.Errorf("%s = %q after read faults, expected %q", key, after[key], v)
		}
	}
	if s.Coins(ctx) != 500 || s.HighScore(ctx) != 900 || s.MysteryBoxes(ctx) != 2 {
		t.Errorf("durable state changed: coins=%d high=%d boxes=%d",
			s.Coins(ctx), s.HighScore(ctx), s.MysteryBoxes(ctx))
	}
}

func TestWriteFaultReportsStoredValue(t *testing.T) {
	kv := &faultKV{MemoryKV: NewMemoryKV()}
	s := NewStore(kv, config.Default().Economy, chance.New(1), nil)
	ctx := context.Background()
	setCoins(t, kv, 40)
	s.AddMysteryBox(ctx)

	kv.failWrites = true
	if got := s.AddCoins(ctx, 5); got != 40 {
		t.Errorf("AddCoins with failed write = %d, expected unchanged 40", got)
	}
	if got := s.AddMysteryBox(ctx); got != 1 {
		t.Errorf("AddMysteryBox with failed write = %d, expected unchanged 1", got)
	}
	if s.SetHighScoreIfGreater(ctx, 10) {
		t.Error("an unwritten record should not be reported")
	}
}

func TestSetConfigRebuildsCatalog(t *testing.T) {
	s, kv := newTestStore(t)
	ctx := context.Background()
	setCoins(t, kv, 100)

	cfg := config.Default().Economy
	cfg.Skins = append(cfg.Skins, config.SkinConfig{ID: "neon", Name: "Neon", Color: "#39ff14", Glow: "#22cc00", Cost: 20})
	s.SetConfig(cfg)

	if _, ok := s.Catalog().Get("neon"); !ok {
		t.Fatal("catalog should list skins added by SetConfig")
	}
	if r := s.PurchaseSkin(ctx, "neon"); !r.OK || r.Total != 80 {
		t.Errorf("PurchaseSkin(neon) = %+v, expected {true 80}", r)
	}
	if s.Coins(ctx) != 80 {
		t.Error("SetConfig must not touch persisted state")
	}
}

func TestMalformedValuesDegrade(t *testing.T) {
	s, kv := newTestStore(t)
	ctx := context.Background()
	_ = kv.Set(ctx, KeyCoins, "lots")
	_ = kv.Set(ctx, KeyUnlockedSkins, "{not json")

	if s.Coins(ctx) != 0 {
		t.Error("malformed coins should read as 0")
	}
	if !slices.Equal(s.UnlockedSkins(ctx), []string{DefaultSkin}) {
		t.Error("malformed skin list should read as default only")
	}
}

func TestConcurrentDepositsNoLostUpdate(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	for range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.AddCoins(ctx, 2)
		}()
	}
	wg.Wait()

	if s.Coins(ctx) != 100 {
		t.Errorf("balance = %d, expected 100", s.Coins(ctx))
	}
}
