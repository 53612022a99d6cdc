package core

import (
	"unicode"

	"github.com/rivo/uniseg"
)

// Cell represents a single terminal cell.
type Cell struct {
	// Rune is the base character to display.
	Rune rune

	// Combining holds combining runes of a grapheme cluster drawn with Rune.
	Combining []rune

	// Width is the display width of this cell.
	Width int

	// Style is the visual style for this cell.
	Style Style
}

// EmptyCell returns an empty cell with default style.
func EmptyCell() Cell {
	return Cell{
		Rune:  ' ',
		Width: 1,
		Style: DefaultStyle(),
	}
}

// NewStyledCell creates a cell with the given rune and style.
func NewStyledCell(r rune, style Style) Cell {
	return Cell{
		Rune:  r,
		Width: RuneWidth(r),
		Style: style,
	}
}

// IsContinuation returns true if this is the trailing half of a wide cell.
func (c Cell) IsContinuation() bool {
	return c.Width == 0 && c.Rune == 0
}

// Equals returns true if two cells are identical.
func (c Cell) Equals(other Cell) bool {
	if c.Rune != other.Rune || c.Width != other.Width || len(c.Combining) != len(other.Combining) {
		return false
	}
	for i := range c.Combining {
		if c.Combining[i] != other.Combining[i] {
			return false
		}
	}
	return c.Style.Equals(other.Style)
}

// ContinuationCell returns a continuation cell for wide characters.
func ContinuationCell() Cell {
	return Cell{Style: DefaultStyle()}
}

// RuneWidth returns the display width of a rune. C0 and C1 control
// characters have no width.
func RuneWidth(r rune) int {
	if unicode.IsControl(r) {
		return 0
	}
	return uniseg.StringWidth(string(r))
}

// StringWidth returns the display width of s.
func StringWidth(s string) int {
	return uniseg.StringWidth(s)
}

// CellsFromString splits s into grapheme clusters, one cell per cluster
// followed by a continuation cell for each extra column it occupies.
func CellsFromString(s string, style Style) []Cell {
	cells := make([]Cell, 0, len(s))
	g := uniseg.NewGraphemes(s)
	for g.Next() {
		runes := g.Runes()
		if unicode.IsControl(runes[0]) {
			continue
		}
		width := g.Width()
		cell := Cell{Rune: runes[0], Width: width, Style: style}
		if len(runes) > 1 {
			cell.Combining = runes[1:]
		}
		cells = append(cells, cell)
		for i := 1; i < width; i++ {
			cells = append(cells, ContinuationCell())
		}
	}
	return cells
}

// StringFromCells converts cells back to a string.
func StringFromCells(cells []Cell) string {
	runes := make([]rune, 0, len(cells))
	for _, c := range cells {
		if c.IsContinuation() {
			continue
		}
		runes = append(runes, c.Rune)
		runes = append(runes, c.Combining...)
	}
	return string(runes)
}

// TailCells returns the trailing cells of CellsFromString(s) that fit in
// width columns. A wide cluster that would straddle the left edge is
// dropped whole.
func TailCells(s string, style Style, width int) []Cell {
	cells := CellsFromString(s, style)
	if width <= 0 {
		return nil
	}
	if len(cells) <= width {
		return cells
	}
	start := len(cells) - width
	for start < len(cells) && cells[start].IsContinuation() {
		start++
	}
	return cells[start:]
}
