package tui

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/glitch-jump/internal/core"
	"github.com/vovakirdan/glitch-jump/internal/run"
	"github.com/vovakirdan/glitch-jump/internal/sim"
)

// bannerFrames is how long a transient message stays on screen.
const bannerFrames = 90

// Model is the Bubble Tea model for one player's session: menu, runs,
// results and the shop.
type Model struct {
	ctrl     *run.Controller
	sub      *run.Subscription
	screen   *core.Screen
	keys     *KeyMapper
	config   core.RuntimeConfig
	lastTick time.Time

	outcome    *run.Outcome // settlement of the last run, nil while pending
	banner     string
	bannerLeft int

	shop     ShopModel
	inShop   bool
	quitting bool
}

// NewModel creates a model driving ctrl.
func NewModel(ctrl *run.Controller, cfg core.RuntimeConfig) Model {
	m := Model{
		ctrl:   ctrl,
		sub:    ctrl.Subscribe(256),
		screen: core.NewScreen(cfg.ScreenW, cfg.ScreenH),
		keys:   NewKeyMapper(),
		config: cfg,
	}
	return m
}

// Init starts the tick loop.
func (m Model) Init() tea.Cmd {
	return tickCmd(m.config.TickRate)
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.inShop {
			return m.updateShop(msg)
		}
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.config.ScreenW = msg.Width
		m.config.ScreenH = msg.Height
		m.screen.Resize(msg.Width, msg.Height)
		if m.inShop {
			return m.updateShop(msg)
		}
		return m, nil

	case TickMsg:
		return m.handleTick(time.Time(msg))
	}

	return m, nil
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	state := m.ctrl.State()

	switch m.keys.MapKeyToMenuAction(msg) {
	case MenuActionShop:
		if state == run.StateMenu || state == run.StateGameOver {
			m.shop = NewShopModel(m.ctrl.Economy(), m.config.ScreenW, m.config.ScreenH)
			m.inShop = true
			return m, nil
		}
	case MenuActionBack:
		if m.ctrl.ToMenu() {
			m.outcome = nil
		}
		return m, nil
	case MenuActionScreenshot:
		m.saveScreenshot()
		return m, nil
	}

	action, isQuit := m.keys.MapKey(msg, state)
	if isQuit {
		m.quitting = true
		return m, tea.Quit
	}
	if action != core.ActionNone && m.ctrl.Handle(action) {
		if action == core.ActionStart || action == core.ActionRetry ||
			(action == core.ActionJump && state == run.StateMenu) {
			m.outcome = nil
		}
	}
	return m, nil
}

func (m Model) updateShop(msg tea.Msg) (tea.Model, tea.Cmd) {
	next, cmd := m.shop.Update(msg)
	m.shop = next.(ShopModel)
	if m.shop.IsQuitting() {
		m.quitting = true
		return m, tea.Quit
	}
	if m.shop.IsGoingBack() {
		m.inShop = false
		m.ctrl.RefreshWallet()
	}
	return m, cmd
}

// handleTick advances the controller by the real elapsed time.
func (m Model) handleTick(now time.Time) (tea.Model, tea.Cmd) {
	var delta time.Duration
	if !m.lastTick.IsZero() {
		delta = now.Sub(m.lastTick)
	}
	m.lastTick = now

	m.ctrl.Frame(delta)
	m.drainEvents()
	if m.bannerLeft > 0 {
		m.bannerLeft--
	}

	return m, tickCmd(m.config.TickRate)
}

// drainEvents consumes everything published since the last tick.
func (m *Model) drainEvents() {
	for {
		select {
		case ev, ok := <-m.sub.Events():
			if !ok {
				return
			}
			m.apply(ev)
		default:
			return
		}
	}
}

func (m *Model) apply(ev sim.Event) {
	switch e := ev.(type) {
	case run.RunEndEvent:
		outcome := e.Outcome
		m.outcome = &outcome
	case run.MysteryBoxEvent:
		m.flash(fmt.Sprintf("MYSTERY BOX! (%d)", e.Total))
	case sim.NearMissEvent:
		m.flash("NEAR MISS!")
	case sim.ShieldBreakEvent:
		m.flash("SHIELD BROKEN")
	case sim.PowerUpCollectEvent:
		switch e.Kind {
		case sim.Shield:
			m.flash("SHIELD")
		case sim.SlowTime:
			m.flash("SLOW TIME")
		}
	}
}

func (m *Model) flash(text string) {
	m.banner = text
	m.bannerLeft = bannerFrames
}

// saveScreenshot saves the current screen to a file.
func (m *Model) saveScreenshot() {
	m.draw()

	dir := filepath.Join(os.Getenv("HOME"), ".glitchjump", "screenshots")
	//nolint:errcheck // Best-effort directory creation
	os.MkdirAll(dir, 0o755)

	filename := fmt.Sprintf("glitchjump_%s.txt", time.Now().Format("20060102_150405"))
	//nolint:errcheck // Best-effort save, game continues regardless
	os.WriteFile(filepath.Join(dir, filename), []byte(m.screen.String()), 0o600)
}

// draw renders the playfield and the overlay for the current state.
func (m *Model) draw() {
	snap := m.ctrl.Snapshot()
	v := NewViewport(m.screen.Width(), m.screen.Height(), snap.Width, snap.Height)
	DrawWorld(m.screen, snap, v)

	switch m.ctrl.State() {
	case run.StateMenu:
		m.drawMenu()
	case run.StateRunning:
		if m.ctrl.Settling() {
			DrawOverlay(m.screen, core.ColorText, "GET READY")
		} else if m.bannerLeft > 0 {
			m.screen.Pen(core.ColorHighlight)
			m.screen.DrawTextCentered(m.screen.Height()/4, m.banner)
		}
		DrawFooter(m.screen, "SPACE jump  P pause  Q quit")
	case run.StatePaused:
		DrawOverlay(m.screen, core.ColorText, "PAUSED", "", "P to resume")
		DrawFooter(m.screen, "P resume  Q quit")
	case run.StateGameOver:
		m.drawResults(snap)
	}
}

func (m *Model) drawMenu() {
	wallet := m.ctrl.Wallet()
	DrawOverlay(m.screen, core.ColorTitle,
		"GLITCH JUMP",
		"",
		fmt.Sprintf("BEST %d", wallet.HighScore),
		fmt.Sprintf("COINS %d", wallet.Coins),
		"",
		"SPACE to start",
	)
	DrawFooter(m.screen, "SPACE start  S shop  Q quit")
}

func (m *Model) drawResults(snap sim.Snapshot) {
	lines := []string{
		"GAME OVER",
		"",
		fmt.Sprintf("SCORE %d", snap.Run.Score),
		fmt.Sprintf("+%d COINS", snap.Run.Coins()),
	}

	switch {
	case m.outcome == nil:
		lines = append(lines, "", "saving...")
	case m.outcome.NewRecord:
		lines = append(lines, "", "NEW RECORD!")
	case m.outcome.CloseToRecord:
		lines = append(lines, "", fmt.Sprintf("SO CLOSE! BEST %d", m.outcome.HighScore))
	default:
		lines = append(lines, "", fmt.Sprintf("BEST %d", m.outcome.HighScore))
	}

	DrawOverlay(m.screen, core.ColorAlert, lines...)
	DrawFooter(m.screen, "R retry  S shop  M menu  Q quit")
}

// View renders the current state to a string for display.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if m.inShop {
		return m.shop.View()
	}

	m.draw()

	skin, _ := m.ctrl.Economy().Catalog().Get(m.ctrl.Snapshot().Player.Skin)
	return RenderScreen(m.screen, SkinStyle(skin.Color))
}

// Run starts the Bubble Tea program for ctrl.
func Run(ctrl *run.Controller, cfg core.RuntimeConfig) error {
	model := NewModel(ctrl, cfg)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(), // Use alternate screen buffer
	)

	_, err := p.Run()
	return err
}
