package core

// ScreenRect represents a rectangular region on screen.
type ScreenRect struct {
	Top    int // First row (inclusive)
	Left   int // First column (inclusive)
	Bottom int // Last row (exclusive)
	Right  int // Last column (exclusive)
}

// RectFromSize creates a rectangle from position and size.
func RectFromSize(top, left, height, width int) ScreenRect {
	return ScreenRect{Top: top, Left: left, Bottom: top + height, Right: left + width}
}

// Width returns the width of the rectangle.
func (r ScreenRect) Width() int {
	if r.Right <= r.Left {
		return 0
	}
	return r.Right - r.Left
}

// Height returns the height of the rectangle.
func (r ScreenRect) Height() int {
	if r.Bottom <= r.Top {
		return 0
	}
	return r.Bottom - r.Top
}

// IsEmpty returns true if the rectangle has no area.
func (r ScreenRect) IsEmpty() bool {
	return r.Width() <= 0 || r.Height() <= 0
}

// Contains returns true if (row, col) is within the rectangle.
func (r ScreenRect) Contains(row, col int) bool {
	return row >= r.Top && row < r.Bottom && col >= r.Left && col < r.Right
}

// Inset shrinks the rectangle by the given amounts.
func (r ScreenRect) Inset(top, right, bottom, left int) ScreenRect {
	return ScreenRect{
		Top:    r.Top + top,
		Left:   r.Left + left,
		Bottom: r.Bottom - bottom,
		Right:  r.Right - right,
	}
}

// Intersection returns the overlap of two rectangles.
func (r ScreenRect) Intersection(other ScreenRect) ScreenRect {
	out := ScreenRect{
		Top:    max(r.Top, other.Top),
		Left:   max(r.Left, other.Left),
		Bottom: min(r.Bottom, other.Bottom),
		Right:  min(r.Right, other.Right),
	}
	if out.IsEmpty() {
		return ScreenRect{}
	}
	return out
}

// CenterIn returns a width x height rectangle centred in r, clipped to r.
func (r ScreenRect) CenterIn(width, height int) ScreenRect {
	left := r.Left + (r.Width()-width)/2
	top := r.Top + (r.Height()-height)/2
	return RectFromSize(top, left, height, width).Intersection(r)
}
