package core

import (
	"math"
	"testing"
)

func TestRectIntersects(t *testing.T) {
	tests := []struct {
		name     string
		a, b     Rect
		expected bool
	}{
		{
			name:     "overlapping rects",
			a:        NewRect(0, 0, 10, 10),
			b:        NewRect(5, 5, 10, 10),
			expected: true,
		},
		{
			name:     "non-overlapping horizontal",
			a:        NewRect(0, 0, 10, 10),
			b:        NewRect(15, 0, 10, 10),
			expected: false,
		},
		{
			name:     "non-overlapping vertical",
			a:        NewRect(0, 0, 10, 10),
			b:        NewRect(0, 15, 10, 10),
			expected: false,
		},
		{
			name:     "adjacent horizontal (no overlap)",
			a:        NewRect(0, 0, 10, 10),
			b:        NewRect(10, 0, 10, 10),
			expected: false,
		},
		{
			name:     "contained rect",
			a:        NewRect(0, 0, 20, 20),
			b:        NewRect(5, 5, 5, 5),
			expected: true,
		},
		{
			name:     "fractional overlap",
			a:        NewRect(0, 0, 10, 10),
			b:        NewRect(9.5, 9.5, 10, 10),
			expected: true,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			result := tc.a.Intersects(tc.b)
			if result != tc.expected {
				t.Errorf("Intersects() = %v, expected %v", result, tc.expected)
			}
			// Also test symmetry
			resultReverse := tc.b.Intersects(tc.a)
			if resultReverse != tc.expected {
				t.Errorf("Intersects() (reversed) = %v, expected %v", resultReverse, tc.expected)
			}
		})
	}
}

func TestRectTouches(t *testing.T) {
	a := NewRect(0, 0, 10, 10)

	if !a.Touches(NewRect(10, 0, 5, 5)) {
		t.Error("shared edge should count as touching")
	}
	if !a.Touches(NewRect(2, 2, 1, 1)) {
		t.Error("containment should count as touching")
	}
	if a.Touches(NewRect(10.5, 0, 5, 5)) {
		t.Error("separated rects should not touch")
	}
}

func TestRectInset(t *testing.T) {
	r := NewRect(60, 300, 28, 28).Inset(4)
	if r.X != 64 || r.Y != 304 || r.W != 20 || r.H != 20 {
		t.Errorf("Inset(4) = %+v", r)
	}

	tiny := NewRect(0, 0, 4, 4).Inset(3)
	if tiny.W != 0 || tiny.H != 0 {
		t.Errorf("Inset should not produce negative size, got %+v", tiny)
	}
}

func TestRectDistanceTo(t *testing.T) {
	r := NewRect(10, 10, 10, 10)

	tests := []struct {
		name     string
		x, y     float64
		expected float64
	}{
		{"inside", 15, 15, 0},
		{"left", 5, 15, 5},
		{"above", 15, 7, 3},
		{"corner", 7, 6, 5}, // 3-4-5 triangle to (10, 10)
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := r.DistanceTo(tc.x, tc.y)
			if math.Abs(got-tc.expected) > 1e-9 {
				t.Errorf("DistanceTo(%v, %v) = %v, expected %v", tc.x, tc.y, got, tc.expected)
			}
		})
	}
}

func TestRectEdges(t *testing.T) {
	r := NewRect(5, 10, 20, 15)

	if r.Right() != 25 {
		t.Errorf("Right() = %v, expected 25", r.Right())
	}
	if r.Bottom() != 25 {
		t.Errorf("Bottom() = %v, expected 25", r.Bottom())
	}

	cx, cy := r.Center()
	if cx != 15 || cy != 17.5 {
		t.Errorf("Center() = (%v, %v), expected (15, 17.5)", cx, cy)
	}
	if !r.Contains(5, 10) || r.Contains(25, 25) {
		t.Error("Contains should include top-left and exclude bottom-right")
	}
}

