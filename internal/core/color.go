package core

// Color is the role of a screen cell. The renderer decides what each role
// looks like, so the playfield code never deals with terminal palettes.
type Color uint8

const (
	ColorDefault Color = iota
	ColorFrame         // border, floor, footer
	ColorText          // HUD labels and overlay text
	ColorHighlight     // coins, countdowns
	ColorTitle
	ColorAlert // game over
	ColorSpike
	ColorBlock
	ColorOscillator
	ColorGate
	ColorStar
	ColorShield
	ColorSlow
	ColorSkin // resolved by the renderer to the equipped skin's colour
)
