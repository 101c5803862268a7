package supergrid

// Rect is an axis-aligned bounding rectangle in world coordinates.
// MinX <= MaxX and MinY <= MaxY; a zero extent on an axis is allowed.
type Rect struct {
	MinX, MinY float64
	MaxX, MaxY float64
}

// RectXYWH builds a Rect from a corner position and extents.
func RectXYWH(x, y, w, h float64) Rect {
	return Rect{MinX: x, MinY: y, MaxX: x + w, MaxY: y + h}
}

// Overlaps reports whether two rectangles share interior area.
// Rectangles that only touch along an edge or corner do not overlap.
func (r Rect) Overlaps(o Rect) bool {
	return r.MinX < o.MaxX && r.MaxX > o.MinX &&
		r.MinY < o.MaxY && r.MaxY > o.MinY
}

// Width returns the horizontal extent.
func (r Rect) Width() float64 { return r.MaxX - r.MinX }

// Height returns the vertical extent.
func (r Rect) Height() float64 { return r.MaxY - r.MinY }
