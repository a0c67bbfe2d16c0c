package editor

import (
	"math"

	"github.com/dshills/pylight/internal/renderer/core"
	"github.com/dshills/pylight/internal/renderer/gutter"
)

// Frame is one rendered screen: the gutter column followed by the text
// area, row-major.
type Frame struct {
	Width  int
	Height int
	Cells  [][]core.Cell

	// GutterWidth is the number of leading cells in each row taken by
	// line numbers.
	GutterWidth int

	// CaretX and CaretY are the caret's screen cell; CaretVisible is false
	// when the caret line is scrolled out of view.
	CaretX       int
	CaretY       int
	CaretVisible bool

	Overlay gutter.Overlay
}

// Row returns row y as text, with continuation cells skipped.
func (f Frame) Row(y int) string {
	return core.StringFromCells(f.Cells[y])
}

// Frame renders the visible part of the document onto a width by height
// cell grid, resizing the viewport first if needed. Frames are always
// rebuilt from the current state.
func (d *Document) Frame(width, height int) Frame {
	width, height = max(width, 1), max(height, 1)
	if d.view.Width() != float64(width) || d.view.Height() != float64(height) {
		d.Resize(float64(width), float64(height))
	}

	f := Frame{
		Width:   width,
		Height:  height,
		Cells:   make([][]core.Cell, height),
		Overlay: d.overlay,
	}
	base := d.palette.Base()
	for y := range f.Cells {
		row := make([]core.Cell, width)
		for x := range row {
			row[x] = core.Cell{Rune: ' ', Width: 1, Style: base}
		}
		f.Cells[y] = row
	}

	vs := d.view.State()
	lh := vs.LineHeight
	gw := min(d.gutter.CellWidth(), width)
	f.GutterWidth = gw

	lineOf := make([]int, height)
	for y := range lineOf {
		lineOf[y] = -1
	}
	visible := core.Rect{Width: float64(gw), Height: float64(height) * lh}
	for mark := range d.gutter.Paint(visible, vs) {
		y := int(math.Floor(mark.Y / lh))
		if y < 0 || y >= height {
			continue
		}
		lineOf[y] = mark.Number - 1
	}

	currentBg := d.palette.CurrentLineBackground()
	for y, line := range lineOf {
		exists := line >= 0 && line < d.buf.LineCount()
		d.drawGutter(f.Cells[y][:gw], line, exists)
		if !exists {
			continue
		}
		cells := f.Cells[y][gw:]
		if line == d.caret.Line {
			for x := range cells {
				cells[x].Style = cells[x].Style.WithBackground(currentBg)
			}
		}
		d.drawLine(cells, line, line == d.caret.Line)
	}

	if row := int(math.Floor(vs.LineTop(d.caret.Line) / lh)); row >= 0 && row < height {
		x := gw + d.visualColumn(d.caret.Line, d.caret.Column)
		if x < width {
			f.CaretX, f.CaretY, f.CaretVisible = x, row, true
		}
	}
	return f
}

func (d *Document) drawGutter(dst []core.Cell, line int, exists bool) {
	if len(dst) == 0 {
		return
	}
	bg := d.palette.Background
	for i, c := range d.gutter.RenderLine(line, exists) {
		if i >= len(dst) {
			break
		}
		st := core.NewStyle(d.palette.LineNumbers).WithBackground(bg)
		if c.Style == gutter.StyleCurrentLine {
			st = core.NewStyle(d.palette.LineNumbersActive).WithBackground(bg).Bold()
		}
		dst[i] = core.Cell{Rune: c.Rune, Width: 1, Style: st}
	}
}

// drawLine writes line's highlighted text into dst, expanding tabs and
// marking the trailing half of wide runes as continuation cells.
func (d *Document) drawLine(dst []core.Cell, line int, current bool) {
	text := []rune(d.buf.LineText(line))
	styles := d.palette.ResolveLine(d.highlights[line], len(text))
	currentBg := d.palette.CurrentLineBackground()

	x := 0
	for i, r := range text {
		if x >= len(dst) {
			return
		}
		st := styles[i]
		if current {
			st = st.WithBackground(currentBg)
		}
		if r == '\t' {
			next := (x/d.tabWidth + 1) * d.tabWidth
			for ; x < next && x < len(dst); x++ {
				dst[x] = core.Cell{Rune: ' ', Width: 1, Style: st}
			}
			continue
		}
		w := core.RuneWidth(r)
		if w == 0 {
			continue
		}
		if x+w > len(dst) {
			return
		}
		dst[x] = core.Cell{Rune: r, Width: w, Style: st}
		for k := 1; k < w; k++ {
			dst[x+k] = core.ContinuationCell(st)
		}
		x += w
	}
}

// visualColumn converts a codepoint column to a screen column.
func (d *Document) visualColumn(line, col int) int {
	x := 0
	for i, r := range []rune(d.buf.LineText(line)) {
		if i >= col {
			break
		}
		if r == '\t' {
			x = (x/d.tabWidth + 1) * d.tabWidth
			continue
		}
		x += core.RuneWidth(r)
	}
	return x
}
