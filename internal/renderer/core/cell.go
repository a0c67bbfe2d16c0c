package core

import "github.com/mattn/go-runewidth"

// Cell represents a single terminal cell.
type Cell struct {
	// Rune is the character to display.
	Rune rune

	// Width is the display width of this cell.
	Width int

	// Style is the visual style for this cell.
	Style Style
}

// EmptyCell returns an empty cell with default style.
func EmptyCell() Cell {
	return Cell{Rune: ' ', Width: 1, Style: DefaultStyle()}
}

// NewStyledCell creates a cell with the given rune and style.
func NewStyledCell(r rune, style Style) Cell {
	return Cell{Rune: r, Width: RuneWidth(r), Style: style}
}

// IsContinuation returns true if this is the trailing half of a wide rune.
func (c Cell) IsContinuation() bool {
	return c.Width == 0 && c.Rune == 0
}

// ContinuationCell returns a continuation cell for wide characters.
func ContinuationCell(style Style) Cell {
	return Cell{Style: style}
}

// RuneWidth returns the display width of a rune.
func RuneWidth(r rune) int {
	if r < 32 || r == 0x7F {
		return 0
	}
	return runewidth.RuneWidth(r)
}

// StringFromCells converts cells back to a string.
func StringFromCells(cells []Cell) string {
	runes := make([]rune, 0, len(cells))
	for _, c := range cells {
		if !c.IsContinuation() && c.Rune != 0 {
			runes = append(runes, c.Rune)
		}
	}
	return string(runes)
}
