package gutter

import "math"

// CellStyle describes how to style a gutter cell.
type CellStyle uint8

const (
	StyleNormal CellStyle = iota
	StyleCurrentLine
	StyleDim
)

// Cell is one terminal cell of the gutter.
type Cell struct {
	Rune  rune
	Style CellStyle
}

// RenderLine renders the gutter for a 0-based buffer line on a cell grid.
// exists is false for rows past the end of the buffer, which show "~".
// Numbers are right-aligned in the digit column; the padding cells trail it.
func (g *Gutter) RenderLine(line int, exists bool) []Cell {
	g.mu.RLock()
	defer g.mu.RUnlock()

	width := int(math.Ceil(g.width))
	if width <= 0 {
		return nil
	}
	cells := make([]Cell, width)
	for i := range cells {
		cells[i] = Cell{Rune: ' ', Style: StyleNormal}
	}

	digits := max(width-int(math.Ceil(g.config.Padding)), 0)
	if !exists {
		if digits > 0 {
			for i := 0; i < digits-1; i++ {
				cells[i].Style = StyleDim
			}
			cells[digits-1] = Cell{Rune: '~', Style: StyleDim}
		}
		return cells
	}

	style := StyleDim
	if line == g.caretLine {
		style = StyleCurrentLine
	}
	num := PadLeft(FormatNumber(displayNumber(g.config.Mode, line, g.caretLine)), digits)
	for i, r := range num {
		if i >= digits {
			break
		}
		cells[i] = Cell{Rune: r, Style: style}
	}
	return cells
}

// RenderString renders a gutter line as plain text, for hosts without a
// cell grid.
func (g *Gutter) RenderString(line int, exists bool) string {
	cells := g.RenderLine(line, exists)
	buf := make([]rune, len(cells))
	for i, c := range cells {
		buf[i] = c.Rune
	}
	return string(buf)
}
