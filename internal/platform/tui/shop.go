package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/glitch-jump/internal/economy"
)

// ShopKeyMap defines the key bindings for the skin shop.
type ShopKeyMap struct {
	Up     key.Binding
	Down   key.Binding
	Select key.Binding
	Open   key.Binding
	Back   key.Binding
	Quit   key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k ShopKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Select, k.Open, k.Back}
}

// FullHelp returns key bindings for the full help view.
func (k ShopKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Select, k.Open},
		{k.Back, k.Quit},
	}
}

// DefaultShopKeyMap returns default key bindings.
func DefaultShopKeyMap() ShopKeyMap {
	return ShopKeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("up/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("down/j", "down"),
		),
		Select: key.NewBinding(
			key.WithKeys("enter", " "),
			key.WithHelp("enter", "buy/equip"),
		),
		Open: key.NewBinding(
			key.WithKeys("o"),
			key.WithHelp("o", "open box"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc", "b", "s"),
			key.WithHelp("esc", "back"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// ShopModel lists skins and lets the player buy, equip and open mystery boxes.
type ShopModel struct {
	store     *economy.Store
	skins     []economy.Skin
	table     table.Model
	help      help.Model
	keys      ShopKeyMap
	message   string
	width     int
	height    int
	quitting  bool
	goingBack bool
}

// NewShopModel creates a shop over the given economy.
func NewShopModel(store *economy.Store, width, height int) ShopModel {
	h := help.New()
	h.ShowAll = false

	m := ShopModel{
		store:  store,
		skins:  store.Catalog().All(),
		help:   h,
		keys:   DefaultShopKeyMap(),
		width:  width,
		height: height,
	}
	m.table = m.createTable()
	m.refresh()
	return m
}

func (m *ShopModel) createTable() table.Model {
	columns := []table.Column{
		{Title: "Skin", Width: 12},
		{Title: "Cost", Width: 6},
		{Title: "Status", Width: 10},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(max(m.height-10, 5)),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)

	return t
}

// refresh reloads ownership and the equipped skin into the rows.
func (m *ShopModel) refresh() {
	ctx := context.Background()
	current := m.store.CurrentSkin(ctx)

	rows := make([]table.Row, len(m.skins))
	for i, s := range m.skins {
		status := "locked"
		switch {
		case s.ID == current:
			status = "equipped"
		case m.store.IsUnlocked(ctx, s.ID):
			status = "owned"
		}
		rows[i] = table.Row{s.Name, fmt.Sprintf("%d", s.Cost), status}
	}
	m.table.SetRows(rows)
}

// selected returns the skin under the cursor.
func (m ShopModel) selected() (economy.Skin, bool) {
	i := m.table.Cursor()
	if i < 0 || i >= len(m.skins) {
		return economy.Skin{}, false
	}
	return m.skins[i], true
}

// activate buys the selected skin, or equips it if it is already owned.
func (m *ShopModel) activate() {
	ctx := context.Background()
	skin, ok := m.selected()
	if !ok {
		return
	}

	if m.store.IsUnlocked(ctx, skin.ID) {
		if m.store.SetCurrentSkin(ctx, skin.ID) {
			m.message = fmt.Sprintf("Equipped %s", skin.Name)
		} else {
			m.message = "Could not equip skin"
		}
		return
	}

	res := m.store.PurchaseSkin(ctx, skin.ID)
	if res.OK {
		m.message = fmt.Sprintf("Unlocked %s! Press enter to equip", skin.Name)
	} else {
		m.message = fmt.Sprintf("Need %d coins for %s (you have %d)", skin.Cost, skin.Name, res.Total)
	}
}

// openBox opens one mystery box.
func (m *ShopModel) openBox() {
	reward := m.store.OpenMysteryBoxReward(context.Background())
	switch {
	case !reward.Opened:
		m.message = "No mystery boxes. Earn 100 coins in a run to get one"
	case reward.Kind == economy.RewardSkin:
		m.message = fmt.Sprintf("Mystery box: unlocked %s!", reward.Skin.Name)
	default:
		m.message = fmt.Sprintf("Mystery box: +%d coins", reward.Coins)
	}
}

// Init initializes the shop model.
func (m ShopModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the shop.
func (m ShopModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, nil

		case key.Matches(msg, m.keys.Back):
			m.goingBack = true
			return m, nil

		case key.Matches(msg, m.keys.Select):
			m.activate()
			m.refresh()
			return m, nil

		case key.Matches(msg, m.keys.Open):
			m.openBox()
			m.refresh()
			return m, nil
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		cursor := m.table.Cursor()
		m.table = m.createTable()
		m.refresh()
		m.table.SetCursor(cursor)
		m.help.Width = msg.Width
		return m, nil
	}

	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// View renders the shop.
func (m ShopModel) View() string {
	if m.quitting || m.goingBack {
		return ""
	}

	ctx := context.Background()
	var b strings.Builder

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("229"))
	b.WriteString(centerText(titleStyle.Render("SKIN SHOP"), m.width))
	b.WriteString("\n\n")

	wallet := fmt.Sprintf("Coins: %d   Mystery boxes: %d",
		m.store.Coins(ctx), m.store.MysteryBoxes(ctx))
	b.WriteString(centerText(wallet, m.width))
	b.WriteString("\n\n")

	tableStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Padding(0, 1)
	body := m.table.View()
	if skin, ok := m.selected(); ok {
		preview := SkinStyle(skin.Color).Render("@@")
		body = lipgloss.JoinHorizontal(lipgloss.Center, body, "   ", preview)
	}
	b.WriteString(tableStyle.Render(body))
	b.WriteString("\n")

	if m.message != "" {
		msgStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
		b.WriteString(msgStyle.Render(m.message))
		b.WriteString("\n")
	}

	helpStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("241"))
	b.WriteString(helpStyle.Render(m.help.View(m.keys)))

	return b.String()
}

// Message returns the result of the last shop action.
func (m ShopModel) Message() string {
	return m.message
}

// IsGoingBack returns true if user wants to leave the shop.
func (m ShopModel) IsGoingBack() bool {
	return m.goingBack
}

// IsQuitting returns true if user wants to quit entirely.
func (m ShopModel) IsQuitting() bool {
	return m.quitting
}

// centerText pads text so it is centered in width columns.
func centerText(text string, width int) string {
	w := lipgloss.Width(text)
	if w >= width {
		return text
	}
	return strings.Repeat(" ", (width-w)/2) + text
}

// shopProgram wraps ShopModel so it can run as a standalone program.
type shopProgram struct {
	ShopModel
}

func (p shopProgram) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	next, cmd := p.ShopModel.Update(msg)
	p.ShopModel = next.(ShopModel)
	if p.quitting || p.goingBack {
		return p, tea.Quit
	}
	return p, cmd
}

// RunShop runs the shop as its own screen.
func RunShop(store *economy.Store, width, height int) error {
	p := tea.NewProgram(
		shopProgram{NewShopModel(store, width, height)},
		tea.WithAltScreen(),
	)
	_, err := p.Run()
	return err
}
