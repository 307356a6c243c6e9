// Package economy implements the durable meta-progression ledger: high
// score, coin balance, unlocked skins, the equipped skin and mystery boxes.
package economy

import (
	"context"
	"maps"
	"sync"
)

// Persisted keys. Values are stored as strings; the unlocked set is a JSON list.
const (
	KeyHighScore     = "@glitch_jump_highscore"
	KeyCoins         = "@glitch_jump_coins"
	KeyUnlockedSkins = "@glitch_jump_unlocked_skins"
	KeyCurrentSkin   = "@glitch_jump_current_skin"
	KeyMysteryBoxes  = "@glitch_jump_mystery_boxes"
)

// KV is the durable key-value store behind the economy.
// Get reports found=false for a missing key. SetMany must apply all pairs
// or none.
type KV interface {
	Get(ctx context.Context, key string) (value string, found bool, err error)
	Set(ctx context.Context, key, value string) error
	SetMany(ctx context.Context, pairs map[string]string) error
}

// MemoryKV is an in-memory KV for tests and ephemeral profiles.
type MemoryKV struct {
	mu   sync.RWMutex
	data map[string]string
}

// NewMemoryKV creates an empty in-memory store.
func NewMemoryKV() *MemoryKV {
	return &MemoryKV{data: make(map[string]string)}
}

// Get implements KV.
func (m *MemoryKV) Get(_ context.Context, key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.data[key]
	return v, ok, nil
}

// Set implements KV.
func (m *MemoryKV) Set(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	return nil
}

// SetMany implements KV.
func (m *MemoryKV) SetMany(_ context.Context, pairs map[string]string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	maps.Copy(m.data, pairs)
	return nil
}

var _ KV = (*MemoryKV)(nil)
