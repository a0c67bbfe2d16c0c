package gutter

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/dshills/pylight/internal/renderer/core"
	"github.com/dshills/pylight/internal/renderer/viewport"
)

func TestWidthMonotonicProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		advance := rapid.Float64Range(0.5, 40).Draw(t, "advance")
		a := rapid.IntRange(0, 10_000_000).Draw(t, "a")
		b := rapid.IntRange(a, 10_000_000).Draw(t, "b")

		if ComputeWidth(a, advance) > ComputeWidth(b, advance) {
			t.Fatalf("width decreased from %d to %d lines", a, b)
		}
	})
}

func TestWidthPowerOfTenStep(t *testing.T) {
	for p := 10; p <= 1_000_000; p *= 10 {
		step := ComputeWidth(p, 9) - ComputeWidth(p-1, 9)
		assert.Equal(t, 9.0, step, "crossing %d should add one digit", p)
		assert.Equal(t, ComputeWidth(p, 9), ComputeWidth(p+1, 9))
	}
}

func TestPaintBoundsProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		lines := rapid.IntRange(0, 5000).Draw(t, "lines")
		lineHeight := rapid.Float64Range(1, 40).Draw(t, "lineHeight")
		height := rapid.Float64Range(1, 2000).Draw(t, "height")
		scroll := rapid.Float64Range(0, 200000).Draw(t, "scroll")
		visY := rapid.Float64Range(-50, height).Draw(t, "visY")
		visH := rapid.Float64Range(0, height+50).Draw(t, "visH")

		v := viewport.New(400, height, lineHeight)
		v.SetLineCount(lines)
		v.ScrollTo(scroll)
		vs := v.State()

		g := New(DefaultConfig())
		g.SetLineCount(lines)

		limit := int(math.Ceil(visH/lineHeight)) + 1
		count := 0
		prev := 0
		for m := range g.Paint(core.Rect{Y: visY, Width: 20, Height: visH}, vs) {
			count++
			require.GreaterOrEqual(t, m.Number, 1)
			require.LessOrEqual(t, m.Number, max(lines, 1))
			require.Greater(t, m.Number, prev, "marks must ascend")
			prev = m.Number
		}
		require.LessOrEqual(t, count, limit)
	})
}
