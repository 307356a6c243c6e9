// Package core provides fundamental types and utilities for the game.
// It contains no external dependencies (especially no Bubble Tea) to keep
// simulation logic pure and testable.
package core

import "math"

// Rect represents an axis-aligned bounding box in world units.
type Rect struct {
	X, Y float64 // Top-left corner position
	W, H float64 // Width and height
}

// NewRect creates a new rectangle with the given position and dimensions.
func NewRect(x, y, w, h float64) Rect {
	return Rect{X: x, Y: y, W: w, H: h}
}

// Right returns the x-coordinate of the right edge.
func (r Rect) Right() float64 {
	return r.X + r.W
}

// Bottom returns the y-coordinate of the bottom edge.
func (r Rect) Bottom() float64 {
	return r.Y + r.H
}

// Intersects returns true if this rectangle overlaps with another.
// Touching edges do not count as an overlap.
func (r Rect) Intersects(other Rect) bool {
	// No overlap if one rect is completely to the left, right, above, or below
	if r.X >= other.Right() || other.X >= r.Right() {
		return false
	}
	if r.Y >= other.Bottom() || other.Y >= r.Bottom() {
		return false
	}
	return true
}

// Touches is like Intersects but also accepts shared edges and containment.
// Used for pickups, where grazing the box is enough to collect it.
func (r Rect) Touches(other Rect) bool {
	return r.X <= other.Right() && other.X <= r.Right() &&
		r.Y <= other.Bottom() && other.Y <= r.Bottom()
}

// Contains returns true if the point (x, y) is inside this rectangle.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && x < r.Right() && y >= r.Y && y < r.Bottom()
}

// Center returns the center point of the rectangle.
func (r Rect) Center() (float64, float64) {
	return r.X + r.W/2, r.Y + r.H/2
}

// Inset shrinks the rectangle by m on every side.
// The result never has negative dimensions.
func (r Rect) Inset(m float64) Rect {
	w := math.Max(0, r.W-2*m)
	h := math.Max(0, r.H-2*m)
	return Rect{X: r.X + m, Y: r.Y + m, W: w, H: h}
}

// ClosestPoint returns the point of the rectangle nearest to (px, py).
func (r Rect) ClosestPoint(px, py float64) (float64, float64) {
	return ClampF(px, r.X, r.Right()), ClampF(py, r.Y, r.Bottom())
}

// DistanceTo returns the euclidean distance from (px, py) to the rectangle.
// Points inside the rectangle are at distance zero.
func (r Rect) DistanceTo(px, py float64) float64 {
	cx, cy := r.ClosestPoint(px, py)
	return math.Hypot(px-cx, py-cy)
}

// ClampF restricts a float64 value to be within [min, max].
func ClampF(val, min, max float64) float64 {
	if val < min {
		return min
	}
	if val > max {
		return max
	}
	return val
}

