package tui

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/glitch-jump/internal/storage"
)

func seededStore(t *testing.T) *storage.Store {
	t.Helper()
	store, err := storage.Open(filepath.Join(t.TempDir(), "stats.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	ctx := context.Background()
	for _, r := range []storage.RunRecord{
		{Profile: "alice", Score: 40, Coins: 4},
		{Profile: "alice", Score: 90, Coins: 9, Stars: 1},
		{Profile: "bob", Score: 15, Coins: 1},
	} {
		if _, err := store.SaveRun(ctx, r); err != nil {
			t.Fatalf("SaveRun: %v", err)
		}
	}
	return store
}

func TestStatsModelCyclesProfiles(t *testing.T) {
	m := NewStatsModel(seededStore(t), "alice", 100, 30)

	if m.Profile() != "alice" {
		t.Fatalf("Profile() = %q, want alice", m.Profile())
	}
	if len(m.runs) != 2 || m.runs[0].Score != 90 {
		t.Fatalf("alice runs = %+v", m.runs)
	}
	if m.summary == nil || m.summary.BestScore != 90 {
		t.Errorf("summary = %+v", m.summary)
	}

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyTab})
	m = next.(StatsModel)
	if m.Profile() != "bob" {
		t.Fatalf("after tab Profile() = %q, want bob", m.Profile())
	}
	if len(m.runs) != 1 {
		t.Errorf("bob runs = %d, want 1", len(m.runs))
	}
	if !strings.Contains(m.View(), "RUN HISTORY - bob") {
		t.Error("view should title the selected profile")
	}

	// wraps around
	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyTab})
	m = next.(StatsModel)
	if m.Profile() != "alice" {
		t.Errorf("wrap Profile() = %q, want alice", m.Profile())
	}
}

func TestStatsModelUnknownProfile(t *testing.T) {
	m := NewStatsModel(seededStore(t), "carol", 60, 30)

	if m.Profile() != "carol" {
		t.Fatalf("Profile() = %q, want carol", m.Profile())
	}
	if len(m.runs) != 0 {
		t.Errorf("carol runs = %d, want 0", len(m.runs))
	}
	if !strings.Contains(m.View(), "No runs recorded yet.") {
		t.Error("empty profile should show the placeholder")
	}
}

func TestStatsModelBackQuits(t *testing.T) {
	m := NewStatsModel(nil, "local", 80, 24)

	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if cmd == nil {
		t.Fatal("esc should quit the stats screen")
	}
	if next.(StatsModel).View() != "" {
		t.Error("quitting view should be empty")
	}
}
