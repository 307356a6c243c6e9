package tui

import (
	"fmt"
	"math"

	"github.com/vovakirdan/glitch-jump/internal/core"
	"github.com/vovakirdan/glitch-jump/internal/sim"
)

// Rows reserved above and below the playfield.
const (
	hudRows    = 1
	footerRows = 1
)

// Viewport maps world coordinates onto screen cells. Terminal cells are
// about twice as tall as they are wide, so the horizontal scale is double
// the vertical one unless the terminal is too narrow.
type Viewport struct {
	OffsetX int
	OffsetY int
	ScaleX  float64
	ScaleY  float64
	Cols    int
	Rows    int
}

// NewViewport fits a worldW x worldH playfield into a screen.
func NewViewport(screenW, screenH int, worldW, worldH float64) Viewport {
	fieldH := max(screenH-hudRows-footerRows, 1)
	sy := float64(fieldH) / worldH
	sx := 2 * sy
	if worldW*sx > float64(screenW) {
		sx = float64(screenW) / worldW
		sy = sx / 2
	}
	cols := int(math.Round(worldW * sx))
	rows := int(math.Round(worldH * sy))
	return Viewport{
		OffsetX: (screenW - cols) / 2,
		OffsetY: hudRows,
		ScaleX:  sx,
		ScaleY:  sy,
		Cols:    cols,
		Rows:    rows,
	}
}

// CellRect returns the cells covered by r. Anything visible is at least one
// cell in size.
func (v Viewport) CellRect(r core.Rect) (x, y, w, h int) {
	x0 := int(math.Floor(r.X * v.ScaleX))
	y0 := int(math.Floor(r.Y * v.ScaleY))
	x1 := int(math.Ceil(r.Right() * v.ScaleX))
	y1 := int(math.Ceil(r.Bottom() * v.ScaleY))
	return x0 + v.OffsetX, y0 + v.OffsetY, max(x1-x0, 1), max(y1-y0, 1)
}

// CellPoint returns the cell containing a world point.
func (v Viewport) CellPoint(px, py float64) (int, int) {
	return int(math.Floor(px*v.ScaleX)) + v.OffsetX, int(math.Floor(py*v.ScaleY)) + v.OffsetY
}

// clip limits a cell rect to the playfield.
func (v Viewport) clip(x, y, w, h int) (int, int, int, int) {
	left, top := v.OffsetX, v.OffsetY
	right, bottom := v.OffsetX+v.Cols, v.OffsetY+v.Rows
	x0, y0 := max(x, left), max(y, top)
	x1, y1 := min(x+w, right), min(y+h, bottom)
	return x0, y0, x1 - x0, y1 - y0
}

func (v Viewport) fill(s *core.Screen, r core.Rect, c core.Color, ch rune) {
	x, y, w, h := v.clip(v.CellRect(r))
	if w <= 0 || h <= 0 {
		return
	}
	s.Pen(c)
	s.DrawRect(x, y, w, h, ch)
}

type obstacleStyle struct {
	color core.Color
	rune  rune
}

var obstacleStyles = map[sim.ObstacleKind]obstacleStyle{
	sim.FloorSpike:   {core.ColorSpike, '^'},
	sim.CeilingSpike: {core.ColorSpike, 'v'},
	sim.Block:        {core.ColorBlock, '#'},
	sim.Oscillator:   {core.ColorOscillator, '%'},
	sim.Slalom:       {core.ColorGate, '|'},
}

var powerUpStyles = map[sim.PowerUpKind]obstacleStyle{
	sim.ScoreBonus: {core.ColorStar, '*'},
	sim.Shield:     {core.ColorShield, 'O'},
	sim.SlowTime:   {core.ColorSlow, '~'},
}

// DrawWorld renders a snapshot: frame, floor, obstacles, power-ups, the
// player and the HUD line.
func DrawWorld(s *core.Screen, snap sim.Snapshot, v Viewport) {
	s.Clear()

	// Field frame
	s.Pen(core.ColorFrame)
	s.DrawVLine(v.OffsetX-1, v.OffsetY, v.Rows, '|')
	s.DrawVLine(v.OffsetX+v.Cols, v.OffsetY, v.Rows, '|')

	floor := core.NewRect(0, snap.FloorY, snap.Width, snap.Height-snap.FloorY)
	v.fill(s, floor, core.ColorFrame, '=')

	for _, o := range snap.Obstacles {
		st := obstacleStyles[o.Kind]
		for i, part := range o.Parts {
			ch := st.rune
			if o.Kind == sim.Slalom && i == len(o.Parts)-1 {
				ch = '='
			}
			v.fill(s, part, st.color, ch)
		}
	}

	for _, p := range snap.PowerUps {
		st := powerUpStyles[p.Kind]
		x, y := v.CellPoint(p.X+p.Size/2, p.Y+p.Size/2)
		s.Pen(st.color)
		s.Set(x, y, st.rune)
	}

	player := snap.Player.Bounds()
	if snap.Run.ShieldActive() {
		x, y, w, h := v.CellRect(player)
		s.Pen(core.ColorShield)
		s.DrawBox(x-1, y-1, w+2, h+2)
	}
	v.fill(s, player, core.ColorSkin, '@')

	drawHUD(s, snap)
}

func drawHUD(s *core.Screen, snap sim.Snapshot) {
	r := snap.Run
	s.Pen(core.ColorText)
	s.DrawText(1, 0, fmt.Sprintf("SCORE %d", r.Score))

	s.Pen(core.ColorHighlight)
	coins := fmt.Sprintf("COINS %d", r.Coins())
	s.DrawText(s.Width()-len(coins)-1, 0, coins)

	var effects string
	if r.ShieldActive() {
		effects += fmt.Sprintf(" SHIELD %.1fs", r.ShieldMS/1000)
	}
	if r.SlowTimeActive() {
		effects += fmt.Sprintf(" SLOW %.1fs", r.SlowTimeMS/1000)
	}
	if effects != "" {
		s.Pen(core.ColorShield)
		s.DrawTextCentered(0, effects[1:])
	}
}

// DrawOverlay writes centered lines in the middle of the playfield.
func DrawOverlay(s *core.Screen, c core.Color, lines ...string) {
	top := (s.Height() - len(lines)) / 2
	for i, line := range lines {
		if line == "" {
			continue
		}
		s.Pen(c)
		s.DrawTextCentered(top+i, " "+line+" ")
	}
}

// DrawFooter writes a key hint on the bottom row.
func DrawFooter(s *core.Screen, text string) {
	s.Pen(core.ColorFrame)
	s.DrawTextCentered(s.Height()-1, text)
}
