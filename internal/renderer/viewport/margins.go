package viewport

import "math"

// MarginConfig holds scroll margins in lines.
type MarginConfig struct {
	Top    int // Lines to keep above the caret
	Bottom int // Lines to keep below the caret
}

// DefaultMargins returns the editor's default margins.
func DefaultMargins() MarginConfig {
	return MarginConfig{Top: 3, Bottom: 3}
}

// NoMargins returns zero margins (the caret can reach the edge).
func NoMargins() MarginConfig {
	return MarginConfig{}
}

// maxMarginRatio limits margins to 1/3 of the visible lines so there is
// always usable space in the center.
const maxMarginRatio = 3

// SetMargins sets the scroll margins.
func (v *Viewport) SetMargins(config MarginConfig) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.marginTop = max(config.Top, 0)
	v.marginBottom = max(config.Bottom, 0)
}

// EffectiveMargins returns margins adjusted for the viewport height.
func (v *Viewport) EffectiveMargins() MarginConfig {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.effectiveMargins()
}

func (v *Viewport) effectiveMargins() MarginConfig {
	limit := int(v.height/v.lineHeight) / maxMarginRatio
	return MarginConfig{
		Top:    min(v.marginTop, limit),
		Bottom: min(v.marginBottom, limit),
	}
}

// ScrollToReveal scrolls minimally so line sits inside the margins and
// returns the applied delta. It panics if line is out of range.
func (v *Viewport) ScrollToReveal(line int) float64 {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.checkLine(line)

	m := v.effectiveMargins()
	top := float64(line-m.Top) * v.lineHeight
	bottom := float64(line+1+m.Bottom) * v.lineHeight

	switch {
	case top < v.scrollY:
		return v.scrollTo(top)
	case bottom > v.scrollY+v.height:
		return v.scrollTo(bottom - v.height)
	}
	return 0
}

// CenterOn scrolls so line is vertically centered, as far as the document
// allows, and returns the applied delta.
func (v *Viewport) CenterOn(line int) float64 {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.checkLine(line)
	y := (float64(line)+0.5)*v.lineHeight - v.height/2
	return v.scrollTo(math.Round(y))
}

// PageDown scrolls forward by the viewport height less one line.
func (v *Viewport) PageDown() float64 {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.scrollTo(v.scrollY + v.pageSize())
}

// PageUp scrolls back by the viewport height less one line.
func (v *Viewport) PageUp() float64 {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.scrollTo(v.scrollY - v.pageSize())
}

func (v *Viewport) pageSize() float64 {
	return max(v.height-v.lineHeight, v.lineHeight)
}
