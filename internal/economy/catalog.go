package economy

import (
	"slices"

	"github.com/vovakirdan/glitch-jump/internal/config"
)

// DefaultSkin is owned by every player and cannot be locked.
const DefaultSkin = config.DefaultSkinID

// Skin is an unlockable cosmetic.
type Skin struct {
	ID    string
	Name  string
	Color string // hex, e.g. "#00ff88"
	Glow  string
	Cost  int
}

// Catalog lists skins in display order.
type Catalog struct {
	skins []Skin
	index map[string]int
}

// NewCatalog builds a catalog from config entries.
func NewCatalog(entries []config.SkinConfig) *Catalog {
	c := &Catalog{index: make(map[string]int, len(entries))}
	for _, e := range entries {
		if _, dup := c.index[e.ID]; dup {
			continue
		}
		c.index[e.ID] = len(c.skins)
		c.skins = append(c.skins, Skin{ID: e.ID, Name: e.Name, Color: e.Color, Glow: e.Glow, Cost: e.Cost})
	}
	return c
}

// All returns every skin in display order.
func (c *Catalog) All() []Skin {
	return slices.Clone(c.skins)
}

// Get looks up a skin by ID.
func (c *Catalog) Get(id string) (Skin, bool) {
	i, ok := c.index[id]
	if !ok {
		return Skin{}, false
	}
	return c.skins[i], true
}

// Locked returns the skins missing from unlocked, in display order.
func (c *Catalog) Locked(unlocked []string) []Skin {
	var locked []Skin
	for _, s := range c.skins {
		if s.ID == DefaultSkin || slices.Contains(unlocked, s.ID) {
			continue
		}
		locked = append(locked, s)
	}
	return locked
}

// Len returns the number of skins.
func (c *Catalog) Len() int {
	return len(c.skins)
}
