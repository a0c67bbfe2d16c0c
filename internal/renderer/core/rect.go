package core

// Rect is an axis-aligned rectangle in device units (pixels for a graphical
// host, cells for the terminal). Bottom and Right are exclusive.
type Rect struct {
	X, Y          float64
	Width, Height float64
}

// RectFromEdges builds a Rect from its edges.
func RectFromEdges(left, top, right, bottom float64) Rect {
	return Rect{X: left, Y: top, Width: right - left, Height: bottom - top}
}

// Top returns the top edge.
func (r Rect) Top() float64 { return r.Y }

// Bottom returns the bottom edge (exclusive).
func (r Rect) Bottom() float64 { return r.Y + r.Height }

// Left returns the left edge.
func (r Rect) Left() float64 { return r.X }

// Right returns the right edge (exclusive).
func (r Rect) Right() float64 { return r.X + r.Width }

// IsEmpty returns true if the rectangle has no area.
func (r Rect) IsEmpty() bool {
	return r.Width <= 0 || r.Height <= 0
}

// Intersects returns true if two rectangles overlap.
func (r Rect) Intersects(other Rect) bool {
	if r.IsEmpty() || other.IsEmpty() {
		return false
	}
	return r.Left() < other.Right() && r.Right() > other.Left() &&
		r.Top() < other.Bottom() && r.Bottom() > other.Top()
}

// Intersection returns the overlapping region of two rectangles.
func (r Rect) Intersection(other Rect) Rect {
	if !r.Intersects(other) {
		return Rect{}
	}
	return RectFromEdges(
		max(r.Left(), other.Left()),
		max(r.Top(), other.Top()),
		min(r.Right(), other.Right()),
		min(r.Bottom(), other.Bottom()),
	)
}

// Contains returns true if other lies entirely within r.
func (r Rect) Contains(other Rect) bool {
	return other.Left() >= r.Left() && other.Right() <= r.Right() &&
		other.Top() >= r.Top() && other.Bottom() <= r.Bottom()
}

// Translate returns the rectangle shifted by dx, dy.
func (r Rect) Translate(dx, dy float64) Rect {
	r.X += dx
	r.Y += dy
	return r
}
