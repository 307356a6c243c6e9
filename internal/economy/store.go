package economy

import (
	"context"
	"encoding/json"
	"io"
	"slices"
	"strconv"
	"sync"
	"sync/atomic"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/glitch-jump/internal/chance"
	"github.com/vovakirdan/glitch-jump/internal/config"
)

// Result is the outcome of an operation that can be refused.
// Total is the balance (coins or boxes) after the operation.
type Result struct {
	OK    bool
	Total int
}

// Store exposes atomic read-modify-write operations over a KV.
// Storage faults never surface as errors: getters degrade to defaults,
// mutations skip the write when their read failed and failed writes are
// logged. Callers sharing a profile must share one Store.
type Store struct {
	mu      sync.Mutex
	kv      KV
	catalog atomic.Pointer[Catalog]
	cfg     config.EconomyConfig
	src     chance.Source
	logger  *log.Logger
}

// NewStore creates a store. A nil logger discards output.
func NewStore(kv KV, cfg config.EconomyConfig, src chance.Source, logger *log.Logger) *Store {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	s := &Store{
		kv:     kv,
		cfg:    cfg,
		src:    src,
		logger: logger,
	}
	s.catalog.Store(NewCatalog(cfg.Skins))
	return s
}

// Catalog returns the skin catalog. It never waits on storage.
func (s *Store) Catalog() *Catalog {
	return s.catalog.Load()
}

// SetConfig replaces the economy tunables and rebuilds the catalog.
// Persisted state is untouched.
func (s *Store) SetConfig(cfg config.EconomyConfig) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cfg = cfg
	s.catalog.Store(NewCatalog(cfg.Skins))
}

// HighScore returns the best score, or 0 if unknown.
func (s *Store) HighScore(ctx context.Context) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.readInt(ctx, KeyHighScore)
}

// SetHighScoreIfGreater stores score if it beats the record and reports
// whether it did.
func (s *Store) SetHighScoreIfGreater(ctx context.Context, score int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	high, err := s.loadInt(ctx, KeyHighScore)
	if err != nil || score <= high {
		return false
	}
	return s.writeInt(ctx, KeyHighScore, score)
}

// Coins returns the coin balance.
func (s *Store) Coins(ctx context.Context) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.readInt(ctx, KeyCoins)
}

// AddCoins deposits amount and returns the new balance. Non-positive
// amounts leave the balance untouched. When the balance cannot be read
// nothing is deposited and 0 is returned.
func (s *Store) AddCoins(ctx context.Context, amount int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	balance, err := s.loadInt(ctx, KeyCoins)
	if err != nil || amount <= 0 {
		return balance
	}
	if !s.writeInt(ctx, KeyCoins, balance+amount) {
		return balance
	}
	return balance + amount
}

// SpendCoins withdraws amount if the balance covers it.
func (s *Store) SpendCoins(ctx context.Context, amount int) Result {
	s.mu.Lock()
	defer s.mu.Unlock()
	balance, err := s.loadInt(ctx, KeyCoins)
	if err != nil || amount < 0 || amount > balance {
		return Result{OK: false, Total: balance}
	}
	if !s.writeInt(ctx, KeyCoins, balance-amount) {
		return Result{OK: false, Total: balance}
	}
	return Result{OK: true, Total: balance - amount}
}

// UnlockedSkins returns the unlocked set. The default skin is always first.
func (s *Store) UnlockedSkins(ctx context.Context) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.readUnlocked(ctx)
}

// IsUnlocked reports whether id is in the unlocked set.
func (s *Store) IsUnlocked(ctx context.Context, id string) bool {
	return slices.Contains(s.UnlockedSkins(ctx), id)
}

// UnlockSkin adds id to the unlocked set. It reports false for unknown
// skins and for skins that were already unlocked.
func (s *Store) UnlockSkin(ctx context.Context, id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.catalog.Load().Get(id); !ok {
		return false
	}
	unlocked, err := s.loadUnlocked(ctx)
	if err != nil || slices.Contains(unlocked, id) {
		return false
	}
	if err := s.kv.Set(ctx, KeyUnlockedSkins, encodeSkins(append(unlocked, id))); err != nil {
		s.logWriteErr(KeyUnlockedSkins, err)
		return false
	}
	return true
}

// CurrentSkin returns the equipped skin. A stored skin that is not
// unlocked (or unknown) falls back to the default.
func (s *Store) CurrentSkin(ctx context.Context) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	id, ok := s.read(ctx, KeyCurrentSkin)
	if !ok || !slices.Contains(s.readUnlocked(ctx), id) {
		return DefaultSkin
	}
	return id
}

// SetCurrentSkin equips id if it is unlocked.
func (s *Store) SetCurrentSkin(ctx context.Context, id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	unlocked, err := s.loadUnlocked(ctx)
	if err != nil || !slices.Contains(unlocked, id) {
		return false
	}
	if err := s.kv.Set(ctx, KeyCurrentSkin, id); err != nil {
		s.logWriteErr(KeyCurrentSkin, err)
		return false
	}
	return true
}

// PurchaseSkin spends the skin's cost and unlocks it in one write. It fails
// without any mutation for unknown or already unlocked skins and when the
// balance is too low.
func (s *Store) PurchaseSkin(ctx context.Context, id string) Result {
	s.mu.Lock()
	defer s.mu.Unlock()
	balance, err := s.loadInt(ctx, KeyCoins)
	skin, ok := s.catalog.Load().Get(id)
	if err != nil || !ok {
		return Result{OK: false, Total: balance}
	}
	unlocked, err := s.loadUnlocked(ctx)
	if err != nil || slices.Contains(unlocked, id) || skin.Cost > balance {
		return Result{OK: false, Total: balance}
	}

	newBalance := balance - skin.Cost
	err = s.kv.SetMany(ctx, map[string]string{
		KeyCoins:         strconv.Itoa(newBalance),
		KeyUnlockedSkins: encodeSkins(append(unlocked, id)),
	})
	if err != nil {
		s.logWriteErr(KeyUnlockedSkins, err)
		return Result{OK: false, Total: balance}
	}
	return Result{OK: true, Total: newBalance}
}

// MysteryBoxes returns the number of unopened boxes.
func (s *Store) MysteryBoxes(ctx context.Context) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.readInt(ctx, KeyMysteryBoxes)
}

// AddMysteryBox grants one box and returns the new count. When the count
// cannot be read no box is granted and 0 is returned.
func (s *Store) AddMysteryBox(ctx context.Context) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	count, err := s.loadInt(ctx, KeyMysteryBoxes)
	if err != nil || !s.writeInt(ctx, KeyMysteryBoxes, count+1) {
		return count
	}
	return count + 1
}

// OpenMysteryBox consumes one box. It fails if none are available.
func (s *Store) OpenMysteryBox(ctx context.Context) Result {
	s.mu.Lock()
	defer s.mu.Unlock()
	count, err := s.loadInt(ctx, KeyMysteryBoxes)
	if err != nil || count <= 0 {
		return Result{OK: false, Total: count}
	}
	if err := s.kv.Set(ctx, KeyMysteryBoxes, strconv.Itoa(count-1)); err != nil {
		s.logWriteErr(KeyMysteryBoxes, err)
		return Result{OK: false, Total: count}
	}
	return Result{OK: true, Total: count - 1}
}

// load reads key for a read-modify-write. The error is returned so the
// caller can skip a write that would be based on a default.
func (s *Store) load(ctx context.Context, key string) (string, bool, error) {
	v, ok, err := s.kv.Get(ctx, key)
	if err != nil {
		s.logger.Warn("economy: read failed", "key", key, "error", err)
		return "", false, err
	}
	return v, ok, nil
}

func (s *Store) read(ctx context.Context, key string) (string, bool) {
	v, ok, err := s.load(ctx, key)
	if err != nil {
		return "", false
	}
	return v, ok
}

// loadInt parses a counter. Missing and malformed values count as 0.
func (s *Store) loadInt(ctx context.Context, key string) (int, error) {
	v, ok, err := s.load(ctx, key)
	if err != nil || !ok {
		return 0, err
	}
	n, convErr := strconv.Atoi(v)
	if convErr != nil || n < 0 {
		s.logger.Warn("economy: malformed value, using default", "key", key, "value", v)
		return 0, nil
	}
	return n, nil
}

func (s *Store) readInt(ctx context.Context, key string) int {
	n, _ := s.loadInt(ctx, key)
	return n
}

// writeInt stores n and reports whether the write landed.
func (s *Store) writeInt(ctx context.Context, key string, n int) bool {
	if err := s.kv.Set(ctx, key, strconv.Itoa(n)); err != nil {
		s.logWriteErr(key, err)
		return false
	}
	return true
}

// loadUnlocked returns the unlocked set with the default skin first.
func (s *Store) loadUnlocked(ctx context.Context) ([]string, error) {
	unlocked := []string{DefaultSkin}
	v, ok, err := s.load(ctx, KeyUnlockedSkins)
	if err != nil || !ok {
		return unlocked, err
	}
	var stored []string
	if err := json.Unmarshal([]byte(v), &stored); err != nil {
		s.logger.Warn("economy: malformed skin list, using default", "key", KeyUnlockedSkins, "error", err)
		return unlocked, nil
	}
	for _, id := range stored {
		if id != "" && !slices.Contains(unlocked, id) {
			unlocked = append(unlocked, id)
		}
	}
	return unlocked, nil
}

func (s *Store) readUnlocked(ctx context.Context) []string {
	unlocked, _ := s.loadUnlocked(ctx)
	return unlocked
}

func (s *Store) logWriteErr(key string, err error) {
	s.logger.Error("economy: write failed", "key", key, "error", err)
}

func encodeSkins(ids []string) string {
	data, _ := json.Marshal(ids)
	return string(data)
}
