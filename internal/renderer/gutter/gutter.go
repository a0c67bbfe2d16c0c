// Package gutter computes the line-number sidebar: its width, which numbers
// to paint where, and the current-line overlay.
package gutter

import (
	"iter"
	"math"
	"sync"

	"github.com/dshills/pylight/internal/renderer/core"
	"github.com/dshills/pylight/internal/renderer/viewport"
)

// Config holds gutter configuration.
type Config struct {
	// Padding is added to the digit column width.
	Padding float64

	// DigitAdvance is the width of one digit glyph.
	DigitAdvance float64

	// LineHeight is used when a viewport state carries none.
	LineHeight float64

	// Mode selects absolute or caret-relative numbers for RenderLine.
	Mode LineNumberMode

	// CurrentLine is the caret-line overlay color.
	CurrentLine core.RGBA
}

// DefaultCurrentLine is the translucent caret-line overlay.
var DefaultCurrentLine = core.RGBA{Color: core.MustHex("#283593"), Alpha: 0x40}

// DefaultConfig returns metrics for a pixel host with a 12pt monospace font.
func DefaultConfig() Config {
	return Config{
		Padding:      DefaultPadding,
		DigitAdvance: 8,
		LineHeight:   16,
		CurrentLine:  DefaultCurrentLine,
	}
}

// TerminalConfig returns metrics for a cell grid: one cell per digit, one
// cell of padding, one row per line.
func TerminalConfig() Config {
	return Config{
		Padding:      1,
		DigitAdvance: 1,
		LineHeight:   1,
		CurrentLine:  DefaultCurrentLine,
	}
}

// LineMark is one painted line number. Y is the top of the line in
// viewport coordinates.
type LineMark struct {
	Number  int // 1-based
	Y       float64
	Current bool
}

// UpdateKind says how the gutter should refresh after a viewport change.
type UpdateKind uint8

const (
	// UpdateNone means nothing needs repainting.
	UpdateNone UpdateKind = iota

	// UpdateScroll means shift the painted content by DeltaY.
	UpdateScroll

	// UpdateRepaint means repaint Rect.
	UpdateRepaint
)

// Update is the gutter's response to a viewport change.
type Update struct {
	Kind   UpdateKind
	DeltaY float64
	Rect   core.Rect

	// WidthChanged is set when the change also moved the gutter edge.
	WidthChanged bool
}

// Overlay is a translucent rect painted over text.
type Overlay struct {
	Rect  core.Rect
	Color core.RGBA
}

// Gutter tracks the line-number column for one editor.
type Gutter struct {
	mu sync.RWMutex

	config Config

	lineCount int
	caretLine int
	width     float64

	// viewport is the host's text viewport rect, used to recognise a
	// whole-viewport repaint.
	viewport core.Rect

	onWidthChange func(width float64)
}

// New creates a gutter for an empty document.
func New(config Config) *Gutter {
	if config.LineHeight <= 0 {
		config.LineHeight = 1
	}
	return &Gutter{
		config: config,
		width:  computeWidth(0, config.DigitAdvance, config.Padding),
	}
}

// Config returns the current configuration.
func (g *Gutter) Config() Config {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.config
}

// Width returns the current gutter width.
func (g *Gutter) Width() float64 {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.width
}

// CellWidth returns the width rounded up to whole cells.
func (g *Gutter) CellWidth() int {
	return int(math.Ceil(g.Width()))
}

// LineCount returns the line count the width was computed for.
func (g *Gutter) LineCount() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.lineCount
}

// CaretLine returns the 0-based caret line.
func (g *Gutter) CaretLine() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.caretLine
}

// OnWidthChange registers fn to be called with the new width whenever it
// changes. The host uses it to reserve the viewport's left margin.
func (g *Gutter) OnWidthChange(fn func(width float64)) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.onWidthChange = fn
}

// SetLineCount updates the line count and reports whether the width changed.
// The width only moves when the count crosses a power of ten.
func (g *Gutter) SetLineCount(n int) bool {
	g.mu.Lock()
	g.lineCount = max(n, 0)
	return g.recompute()
}

// SetMetrics updates font metrics and reports whether the width changed.
func (g *Gutter) SetMetrics(digitAdvance, lineHeight float64) bool {
	g.mu.Lock()
	g.config.DigitAdvance = digitAdvance
	if lineHeight > 0 {
		g.config.LineHeight = lineHeight
	}
	return g.recompute()
}

// SetPadding updates the padding and reports whether the width changed.
func (g *Gutter) SetPadding(padding float64) bool {
	g.mu.Lock()
	g.config.Padding = padding
	return g.recompute()
}

// SetMode changes how RenderLine numbers lines.
func (g *Gutter) SetMode(mode LineNumberMode) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.config.Mode = mode
}

// SetViewportRect records the host's text viewport rect.
func (g *Gutter) SetViewportRect(r core.Rect) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.viewport = r
}

// recompute must be called with g.mu held for writing. It releases the lock
// before notifying the width listener.
func (g *Gutter) recompute() bool {
	width := computeWidth(g.lineCount, g.config.DigitAdvance, g.config.Padding)
	changed := width != g.width
	g.width = width
	fn := g.onWidthChange
	g.mu.Unlock()

	if changed && fn != nil {
		fn(width)
	}
	return changed
}

// OnViewportScrolled turns a viewport change into a gutter update. A
// non-zero deltaY shifts the painted numbers. Otherwise only the dirty rect,
// clipped to the gutter column, is repainted. In both cases a dirty rect
// covering the whole viewport also recomputes the width.
func (g *Gutter) OnViewportScrolled(deltaY float64, dirty core.Rect) Update {
	g.mu.Lock()
	changed := false
	if !dirty.IsEmpty() && !g.viewport.IsEmpty() && dirty.Contains(g.viewport) {
		changed = g.recompute()
	} else {
		g.mu.Unlock()
	}

	switch {
	case deltaY != 0:
		return Update{Kind: UpdateScroll, DeltaY: deltaY, WidthChanged: changed}
	case dirty.IsEmpty():
		return Update{Kind: UpdateNone}
	}
	return Update{
		Kind:         UpdateRepaint,
		Rect:         core.Rect{Y: dirty.Y, Width: g.Width(), Height: dirty.Height},
		WidthChanged: changed,
	}
}

// Paint yields a mark for every line whose box intersects visible, in
// ascending order. The sequence is computed afresh on each iteration and
// never yields more than ceil(visible.Height/lineHeight)+1 marks. An empty
// document paints line 1 only.
func (g *Gutter) Paint(visible core.Rect, vs viewport.State) iter.Seq[LineMark] {
	g.mu.RLock()
	caret := g.caretLine
	lh := g.config.LineHeight
	g.mu.RUnlock()

	if vs.LineHeight > 0 {
		lh = vs.LineHeight
	}
	lines := max(vs.TotalLineCount, 1)

	return func(yield func(LineMark) bool) {
		if visible.Height <= 0 {
			return
		}
		top := visible.Top() + vs.ScrollY
		bottom := visible.Bottom() + vs.ScrollY

		first := max(int(math.Floor(top/lh)), 0)
		last := min(int(math.Ceil(bottom/lh))-1, lines-1)
		for line := first; line <= last; line++ {
			mark := LineMark{
				Number:  line + 1,
				Y:       float64(line)*lh - vs.ScrollY,
				Current: line == caret,
			}
			if !yield(mark) {
				return
			}
		}
	}
}

// SetCaretLine moves the caret and reports whether its line changed. The
// host recomputes the current-line overlay only when it did.
func (g *Gutter) SetCaretLine(line int) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if line == g.caretLine {
		return false
	}
	g.caretLine = line
	return true
}

// Overlay returns the current-line overlay for the gutter's caret line.
func (g *Gutter) Overlay(vs viewport.State, viewportWidth float64) Overlay {
	g.mu.RLock()
	caret := g.caretLine
	color := g.config.CurrentLine
	g.mu.RUnlock()

	o := CurrentLineOverlay(caret, vs, viewportWidth)
	o.Color = color
	return o
}

// CurrentLineOverlay returns a full-width rect over caretLine with the
// default overlay color. Its width ignores the length of the line's text.
func CurrentLineOverlay(caretLine int, vs viewport.State, viewportWidth float64) Overlay {
	return Overlay{
		Rect: core.Rect{
			Y:      vs.LineTop(caretLine),
			Width:  viewportWidth,
			Height: vs.LineHeight,
		},
		Color: DefaultCurrentLine,
	}
}
