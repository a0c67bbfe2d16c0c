// Package viewport tracks the visible pixel window onto a document.
//
// Coordinates are in pixels (or cells, for terminal hosts that use a line
// height of 1). Y grows downward and 0 is the top of the viewport.
package viewport

import (
	"fmt"
	"math"
	"sync"

	"github.com/dshills/pylight/internal/renderer/core"
)

// State is a snapshot of what the viewport shows. It is recomputed on every
// call to Viewport.State and never cached.
type State struct {
	FirstVisibleLine int
	LastVisibleLine  int
	LineHeight       float64
	TotalLineCount   int

	// ScrollY is the document y at the top of the viewport.
	ScrollY float64
	Height  float64
}

// LineTop returns the viewport y of line's top edge in this state.
func (s State) LineTop(line int) float64 {
	return float64(line)*s.LineHeight - s.ScrollY
}

// VisibleLines returns the number of visible lines.
func (s State) VisibleLines() int {
	if s.TotalLineCount == 0 {
		return 0
	}
	return s.LastVisibleLine - s.FirstVisibleLine + 1
}

// Viewport is the scrollable window onto a document of lineCount lines.
type Viewport struct {
	mu sync.RWMutex

	scrollY float64

	width  float64
	height float64

	lineHeight float64
	lineCount  int

	// leftMargin is reserved for the gutter.
	leftMargin float64

	// Lines kept between the caret and the top/bottom edge when revealing.
	marginTop    int
	marginBottom int
}

// New creates a viewport. Width, height and line height are clamped to a
// minimum of 1.
func New(width, height, lineHeight float64) *Viewport {
	return &Viewport{
		width:        max(width, 1),
		height:       max(height, 1),
		lineHeight:   max(lineHeight, 1),
		marginTop:    DefaultMargins().Top,
		marginBottom: DefaultMargins().Bottom,
	}
}

// Width returns the viewport width.
func (v *Viewport) Width() float64 {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.width
}

// Height returns the viewport height.
func (v *Viewport) Height() float64 {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.height
}

// LineHeight returns the height of one line.
func (v *Viewport) LineHeight() float64 {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.lineHeight
}

// LineCount returns the document line count.
func (v *Viewport) LineCount() int {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.lineCount
}

// ScrollY returns the scroll offset.
func (v *Viewport) ScrollY() float64 {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.scrollY
}

// LeftMargin returns the width reserved on the left for the gutter.
func (v *Viewport) LeftMargin() float64 {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.leftMargin
}

// Bounds is the whole viewport rect, gutter included.
func (v *Viewport) Bounds() core.Rect {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return core.Rect{Width: v.width, Height: v.height}
}

// TextArea is the viewport rect right of the gutter.
func (v *Viewport) TextArea() core.Rect {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return core.Rect{X: v.leftMargin, Width: max(v.width-v.leftMargin, 0), Height: v.height}
}

// Resize updates the viewport size and re-clamps the scroll offset.
// Width and height are clamped to a minimum of 1.
func (v *Viewport) Resize(width, height float64) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.width = max(width, 1)
	v.height = max(height, 1)
	v.scrollY = v.clampScroll(v.scrollY)
}

// SetLineCount updates the document size. Negative counts are treated as 0.
func (v *Viewport) SetLineCount(n int) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.lineCount = max(n, 0)
	v.scrollY = v.clampScroll(v.scrollY)
}

// SetLineHeight changes the line height, keeping the first visible line in
// place.
func (v *Viewport) SetLineHeight(h float64) {
	v.mu.Lock()
	defer v.mu.Unlock()
	h = max(h, 1)
	first := v.scrollY / v.lineHeight
	v.lineHeight = h
	v.scrollY = v.clampScroll(first * h)
}

// SetLeftMargin reserves px on the left for the gutter.
func (v *Viewport) SetLeftMargin(px float64) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.leftMargin = max(px, 0)
}

// ScrollTo sets the scroll offset, clamped to the document, and returns the
// delta actually applied.
func (v *Viewport) ScrollTo(y float64) float64 {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.scrollTo(y)
}

// ScrollBy scrolls by dy and returns the delta actually applied.
func (v *Viewport) ScrollBy(dy float64) float64 {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.scrollTo(v.scrollY + dy)
}

func (v *Viewport) scrollTo(y float64) float64 {
	next := v.clampScroll(y)
	delta := next - v.scrollY
	v.scrollY = next
	return delta
}

// clampScroll limits y to [0, content height - viewport height].
func (v *Viewport) clampScroll(y float64) float64 {
	content := float64(max(v.lineCount, 1)) * v.lineHeight
	maxY := max(content-v.height, 0)
	return min(max(y, 0), maxY)
}

// State returns a fresh snapshot.
func (v *Viewport) State() State {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.state()
}

func (v *Viewport) state() State {
	s := State{
		LineHeight:     v.lineHeight,
		TotalLineCount: v.lineCount,
		ScrollY:        v.scrollY,
		Height:         v.height,
	}
	if v.lineCount == 0 {
		return s
	}
	last := v.lineCount - 1
	s.FirstVisibleLine = min(int(math.Floor(v.scrollY/v.lineHeight)), last)
	s.LastVisibleLine = min(int(math.Ceil((v.scrollY+v.height)/v.lineHeight))-1, last)
	s.LastVisibleLine = max(s.LastVisibleLine, s.FirstVisibleLine)
	return s
}

// LineTop returns the viewport y of line's top edge. line must be in
// [0, max(1, LineCount)); anything else panics.
func (v *Viewport) LineTop(line int) float64 {
	v.mu.RLock()
	defer v.mu.RUnlock()
	v.checkLine(line)
	return float64(line)*v.lineHeight - v.scrollY
}

// LineAt returns the line under viewport y, clamped to the document.
func (v *Viewport) LineAt(y float64) int {
	v.mu.RLock()
	defer v.mu.RUnlock()
	if v.lineCount == 0 {
		return 0
	}
	line := int(math.Floor((y + v.scrollY) / v.lineHeight))
	return min(max(line, 0), v.lineCount-1)
}

// IsLineVisible reports whether any part of line is inside the viewport.
func (v *Viewport) IsLineVisible(line int) bool {
	v.mu.RLock()
	defer v.mu.RUnlock()
	if v.lineCount == 0 {
		return line == 0
	}
	s := v.state()
	return line >= s.FirstVisibleLine && line <= s.LastVisibleLine
}

func (v *Viewport) checkLine(line int) {
	if line < 0 || line >= max(v.lineCount, 1) {
		panic(fmt.Sprintf("viewport: line %d out of range [0, %d)", line, max(v.lineCount, 1)))
	}
}
