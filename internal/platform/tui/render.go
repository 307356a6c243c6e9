package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/glitch-jump/internal/core"
)

// palette gives every cell role its look.
var palette = map[core.Color]lipgloss.Style{
	core.ColorDefault:    lipgloss.NewStyle(),
	core.ColorFrame:      fg("240"),
	core.ColorText:       fg("15").Bold(true),
	core.ColorHighlight:  fg("220"),
	core.ColorTitle:      fg("48").Bold(true),
	core.ColorAlert:      fg("197").Bold(true),
	core.ColorSpike:      fg("196"),
	core.ColorBlock:      fg("201"),
	core.ColorOscillator: fg("208"),
	core.ColorGate:       fg("39"),
	core.ColorStar:       fg("226").Bold(true),
	core.ColorShield:     fg("51"),
	core.ColorSlow:       fg("141"),
}

func fg(c string) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(c))
}

// SkinStyle returns the style for a skin's hex colour. Skins without a
// colour fall back to the default player green.
func SkinStyle(hex string) lipgloss.Style {
	if hex == "" {
		hex = "#00ff88"
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color(hex)).Bold(true)
}

// RenderScreen converts a Screen buffer to a styled string for display.
// Runs of equal colour share one escape sequence. Cells painted with
// core.ColorSkin use the skin style.
func RenderScreen(s *core.Screen, skin lipgloss.Style) string {
	var sb strings.Builder
	// Pre-allocate with extra space for ANSI codes
	sb.Grow(s.Width()*s.Height()*2 + s.Height())

	for y := range s.Height() {
		if y > 0 {
			sb.WriteRune('\n')
		}

		x := 0
		for x < s.Width() {
			startColor := s.GetCell(x, y).Color

			var run strings.Builder
			for x < s.Width() {
				cell := s.GetCell(x, y)
				if cell.Color != startColor {
					break
				}
				run.WriteRune(cell.Rune)
				x++
			}

			style := skin
			if startColor != core.ColorSkin {
				style = palette[startColor]
			}
			sb.WriteString(style.Render(run.String()))
		}
	}
	return sb.String()
}
