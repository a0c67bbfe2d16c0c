package editor

import (
	"strings"
	"testing"

	"github.com/dshills/pylight/internal/engine/buffer"
	"github.com/dshills/pylight/internal/renderer/core"
	"github.com/dshills/pylight/internal/renderer/highlight"
	"github.com/dshills/pylight/internal/renderer/style"
)

func rowText(f Frame, y int) string {
	return strings.TrimRight(f.Row(y), " ")
}

func TestFrameLayout(t *testing.T) {
	d := newPython(t, "x = 1\nprint(x)")
	f := d.Frame(20, 4)

	if f.Width != 20 || f.Height != 4 || len(f.Cells) != 4 {
		t.Fatalf("frame is %dx%d with %d rows", f.Width, f.Height, len(f.Cells))
	}
	if f.GutterWidth != 2 {
		t.Errorf("GutterWidth = %d, want 2", f.GutterWidth)
	}

	want := []string{"1 x = 1", "2 print(x)", "~", "~"}
	for y, w := range want {
		if got := rowText(f, y); got != w {
			t.Errorf("row %d = %q, want %q", y, got, w)
		}
	}

	if !f.CaretVisible || f.CaretX != 2 || f.CaretY != 0 {
		t.Errorf("caret at %d,%d visible=%v", f.CaretX, f.CaretY, f.CaretVisible)
	}
}

func TestFrameColors(t *testing.T) {
	d := newPython(t, "x = 1\nprint(x)")
	p := style.Dark()
	f := d.Frame(20, 3)

	number := f.Cells[0][2+4]
	if !number.Style.Foreground.Equals(p.Role(highlight.StyleNumber).Foreground) {
		t.Errorf("number drawn in %v", number.Style.Foreground)
	}

	// Caret line carries the overlay background across the text area.
	current := p.CurrentLineBackground()
	for x := 2; x < 20; x++ {
		if !f.Cells[0][x].Style.Background.Equals(current) {
			t.Fatalf("row 0 col %d background = %v", x, f.Cells[0][x].Style.Background)
		}
	}
	if !f.Cells[1][5].Style.Background.Equals(p.Background) {
		t.Errorf("row 1 background = %v", f.Cells[1][5].Style.Background)
	}

	if !f.Cells[0][0].Style.Foreground.Equals(p.LineNumbersActive) {
		t.Errorf("active number color = %v", f.Cells[0][0].Style.Foreground)
	}
	if !f.Cells[1][0].Style.Foreground.Equals(p.LineNumbers) {
		t.Errorf("number color = %v", f.Cells[1][0].Style.Foreground)
	}
}

func TestFrameTabsAndWideRunes(t *testing.T) {
	d := newPython(t, "\tx\n世x")
	f := d.Frame(12, 2)

	if got := rowText(f, 0); got != "1     x" {
		t.Errorf("tab row = %q", got)
	}
	if got := rowText(f, 1); got != "2 世x" {
		t.Errorf("wide row = %q", got)
	}
	if !f.Cells[1][3].IsContinuation() {
		t.Error("second half of wide rune is not a continuation cell")
	}

	d.SetCaret(0, 1)
	if f := d.Frame(12, 2); f.CaretX != 6 {
		t.Errorf("caret after tab at x=%d, want 6", f.CaretX)
	}
}

func TestFrameClipsLongLines(t *testing.T) {
	d := New("a.txt", buffer.NewFromString(strings.Repeat("y", 50)), DefaultOptions())
	f := d.Frame(10, 1)
	if got := f.Row(0); got != "1 yyyyyyyy" {
		t.Errorf("row = %q", got)
	}
}

func TestFrameFollowsScroll(t *testing.T) {
	d := newPython(t, repeatLines("pass", 30))
	d.Frame(10, 5)
	d.Scroll(10)

	f := d.Frame(10, 5)
	if got := rowText(f, 0); got != "11 pass" {
		t.Errorf("first row = %q", got)
	}
	if f.CaretVisible {
		t.Error("caret on line 1 should be scrolled out")
	}
}

func TestFrameTracksPalette(t *testing.T) {
	d := newPython(t, "x")
	d.SetPalette(style.Light())
	f := d.Frame(5, 2)
	if !f.Cells[1][3].Style.Background.Equals(core.MustHex("#FFFFFF")) {
		t.Errorf("light background = %v", f.Cells[1][3].Style.Background)
	}
}
