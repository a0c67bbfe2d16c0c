package editor

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dshills/pylight/internal/engine/buffer"
	"github.com/dshills/pylight/internal/renderer/gutter"
	"github.com/dshills/pylight/internal/renderer/highlight"
)

func newPython(t *testing.T, text string) *Document {
	t.Helper()
	return New("main.py", buffer.NewFromString(text), DefaultOptions())
}

func repeatLines(line string, n int) string {
	lines := make([]string, n)
	for i := range lines {
		lines[i] = line
	}
	return strings.Join(lines, "\n")
}

func sameSpans(a, b []highlight.Span) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// checkHighlights verifies every cached line matches a fresh highlight.
func checkHighlights(t *testing.T, d *Document) {
	t.Helper()
	rs := highlight.ConfigureForPath("main.py")
	for i := 0; i < d.LineCount(); i++ {
		want := highlight.HighlightLine(d.LineText(i), rs)
		if got := d.Highlights(i); !sameSpans(got, want) {
			t.Fatalf("line %d %q: spans %v, want %v", i, d.LineText(i), got, want)
		}
	}
}

func TestOpenPicksLanguage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hello.py")
	if err := os.WriteFile(path, []byte("def main():\n    print(1)\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	d, err := Open(path, DefaultOptions())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if d.Name != "hello.py" {
		t.Errorf("Name = %q", d.Name)
	}
	if d.Language() != "python" {
		t.Errorf("Language = %q, want python", d.Language())
	}
	if d.LineCount() != 3 {
		t.Errorf("LineCount = %d, want 3", d.LineCount())
	}
	spans := d.Highlights(0)
	if len(spans) == 0 || spans[0] != (highlight.Span{Start: 0, Length: 3, Style: highlight.StyleKeyword}) {
		t.Errorf("line 0 spans = %v", spans)
	}
	if d.IsModified() {
		t.Error("freshly opened document is modified")
	}
}

func TestOpenMissing(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "nope.py"), DefaultOptions())
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected ErrNotExist, got %v", err)
	}
}

func TestPlainTextHasNoHighlights(t *testing.T) {
	d := New("notes.txt", buffer.NewFromString("def x = 1"), DefaultOptions())
	if d.Language() != "" {
		t.Errorf("Language = %q, want plain", d.Language())
	}
	if len(d.Highlights(0)) != 0 {
		t.Errorf("plain text highlighted: %v", d.Highlights(0))
	}
}

func TestEditRelexesOnlyTouchedLines(t *testing.T) {
	d := newPython(t, repeatLines("x = 1", 100))
	if d.Relexed() != 0 {
		t.Fatalf("Relexed = %d before any edit", d.Relexed())
	}

	if _, err := d.Insert(50, 0, "# "); err != nil {
		t.Fatal(err)
	}
	if d.Relexed() != 1 {
		t.Errorf("single-line insert relexed %d lines", d.Relexed())
	}
	if d.Highlights(50)[0].Style != highlight.StyleComment {
		t.Errorf("line 50 spans = %v", d.Highlights(50))
	}
	checkHighlights(t, d)

	// Two new lines ahead of the comment shift it down.
	if _, err := d.Insert(10, 0, "a\nb\n"); err != nil {
		t.Fatal(err)
	}
	if d.Relexed() != 4 {
		t.Errorf("Relexed = %d, want 4", d.Relexed())
	}
	if d.LineCount() != 102 {
		t.Errorf("LineCount = %d, want 102", d.LineCount())
	}
	if d.Highlights(52)[0].Style != highlight.StyleComment {
		t.Errorf("comment did not move to line 52: %v", d.Highlights(52))
	}
	checkHighlights(t, d)

	if err := d.Delete(10, 0, 4); err != nil {
		t.Fatal(err)
	}
	if d.Relexed() != 5 {
		t.Errorf("Relexed = %d, want 5", d.Relexed())
	}
	if d.LineCount() != 100 {
		t.Errorf("LineCount = %d, want 100", d.LineCount())
	}
	checkHighlights(t, d)
}

func TestEditJoinAndSplit(t *testing.T) {
	d := newPython(t, "if x:\n    return 'a'\n# done")

	// Join all three lines.
	if err := d.Delete(0, 5, 100); err != nil {
		t.Fatal(err)
	}
	if d.LineCount() != 1 {
		t.Fatalf("LineCount = %d", d.LineCount())
	}
	checkHighlights(t, d)

	if _, err := d.Insert(0, 0, "import os\n\n"); err != nil {
		t.Fatal(err)
	}
	if d.LineCount() != 3 {
		t.Fatalf("LineCount = %d", d.LineCount())
	}
	checkHighlights(t, d)
}

func TestGutterWidthTracksEdits(t *testing.T) {
	d := newPython(t, repeatLines("pass", 9))
	if w := d.Gutter().Width(); w != 2 {
		t.Fatalf("width = %v, want 2", w)
	}
	if m := d.Viewport().LeftMargin(); m != 2 {
		t.Errorf("left margin = %v, want 2", m)
	}

	if _, err := d.Insert(8, 4, "\npass"); err != nil {
		t.Fatal(err)
	}
	if w := d.Gutter().Width(); w != 3 {
		t.Errorf("width at 10 lines = %v, want 3", w)
	}
	if m := d.Viewport().LeftMargin(); m != 3 {
		t.Errorf("left margin = %v, want 3", m)
	}
	if d.Viewport().LineCount() != 10 {
		t.Errorf("viewport lines = %d", d.Viewport().LineCount())
	}
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "win.py")
	if err := os.WriteFile(path, []byte("a = 1\r\nb = 2\r\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	d, err := Open(path, DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}

	if _, err := d.Insert(1, 0, "c = 3\n"); err != nil {
		t.Fatal(err)
	}
	if !d.IsModified() {
		t.Error("edit did not mark the document modified")
	}
	if err := d.Save(); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if d.IsModified() {
		t.Error("document still modified after save")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if want := "a = 1\r\nc = 3\r\nb = 2\r\n"; string(data) != want {
		t.Errorf("saved %q, want %q", data, want)
	}

	entries, _ := os.ReadDir(filepath.Dir(path))
	if len(entries) != 1 {
		t.Errorf("temp file left behind: %d entries", len(entries))
	}
}

func TestSaveScratch(t *testing.T) {
	d := NewScratch(DefaultOptions())
	if d.Name != "Untitled" {
		t.Errorf("Name = %q", d.Name)
	}
	if err := d.Save(); !errors.Is(err, ErrScratch) {
		t.Errorf("expected ErrScratch, got %v", err)
	}
}

func TestSetCaretClamps(t *testing.T) {
	d := newPython(t, "ab\ncdef")

	d.SetCaret(9, 9)
	if got := d.Caret(); got != (buffer.Point{Line: 1, Column: 4}) {
		t.Errorf("caret = %v, want 1:4", got)
	}
	d.SetCaret(-1, -1)
	if got := d.Caret(); got != (buffer.Point{}) {
		t.Errorf("caret = %v, want 0:0", got)
	}
	if d.Gutter().CaretLine() != 0 {
		t.Errorf("gutter caret = %d", d.Gutter().CaretLine())
	}
}

func TestCaretFollowsDeletedLines(t *testing.T) {
	d := newPython(t, "a\nb\nc")
	d.SetCaret(2, 1)
	if err := d.Delete(0, 1, 4); err != nil {
		t.Fatal(err)
	}
	if got := d.Caret(); got.Line != 0 {
		t.Errorf("caret = %v, want line 0", got)
	}
}

func TestInsertAtCaret(t *testing.T) {
	d := newPython(t, "x")
	d.SetCaret(0, 1)
	if err := d.InsertAtCaret(" = 1\ny"); err != nil {
		t.Fatal(err)
	}
	if d.Text() != "x = 1\ny" {
		t.Errorf("text = %q", d.Text())
	}
	if got := d.Caret(); got != (buffer.Point{Line: 1, Column: 1}) {
		t.Errorf("caret = %v, want 1:1", got)
	}
}

func TestSetCaretScrollsIntoView(t *testing.T) {
	d := newPython(t, repeatLines("x = 1", 100))
	d.Frame(20, 10)

	up := d.SetCaret(50, 0)
	if up.Kind != gutter.UpdateScroll || up.DeltaY <= 0 {
		t.Fatalf("update = %+v, want a forward scroll", up)
	}
	if !d.Viewport().IsLineVisible(50) {
		t.Error("caret line not visible")
	}

	f := d.Frame(20, 10)
	if !f.CaretVisible {
		t.Fatal("caret not visible in frame")
	}
	if f.Overlay.Rect.Y != float64(f.CaretY) {
		t.Errorf("overlay y = %v, caret row = %d", f.Overlay.Rect.Y, f.CaretY)
	}
	if f.Overlay.Rect.Width != d.Viewport().TextArea().Width {
		t.Errorf("overlay width = %v", f.Overlay.Rect.Width)
	}

	if up := d.SetCaret(50, 3); up.Kind != gutter.UpdateNone {
		t.Errorf("moving within the line gave %+v", up)
	}
}

func TestScroll(t *testing.T) {
	d := newPython(t, repeatLines("x", 30))
	d.Frame(20, 10)

	if up := d.Scroll(-5); up.Kind != gutter.UpdateNone {
		t.Errorf("scroll above top = %+v", up)
	}
	up := d.Scroll(100)
	if up.Kind != gutter.UpdateScroll || up.DeltaY != 20 {
		t.Errorf("scroll past bottom = %+v, want delta 20", up)
	}
	if d.Viewport().ScrollY() != 20 {
		t.Errorf("ScrollY = %v", d.Viewport().ScrollY())
	}
}

func TestResizeRepaintsGutter(t *testing.T) {
	d := newPython(t, "x")
	up := d.Resize(40, 12)
	if up.Kind != gutter.UpdateRepaint {
		t.Errorf("resize update = %+v", up)
	}
	if up.Rect.Width != d.Gutter().Width() || up.Rect.Height != 12 {
		t.Errorf("repaint rect = %+v", up.Rect)
	}
}

func TestDocumentFindMovesCaret(t *testing.T) {
	d := newPython(t, "x = 1\ny = x\nz = 2")

	m, ok := d.Find("x", buffer.FindOptions{})
	if !ok || m.Line != 1 || m.Column != 4 {
		t.Fatalf("Find = %+v, %v; want 1:4", m, ok)
	}
	if d.Caret() != m.Start() {
		t.Errorf("caret = %v, want %v", d.Caret(), m.Start())
	}
	if d.Gutter().CaretLine() != 1 {
		t.Errorf("gutter caret line = %d", d.Gutter().CaretLine())
	}

	if _, ok := d.Find("x", buffer.FindOptions{}); !ok || d.Caret().Line != 0 {
		t.Errorf("second Find should wrap to line 0, caret %v", d.Caret())
	}
	if _, ok := d.Find("missing", buffer.FindOptions{}); ok || d.Caret().Line != 0 {
		t.Errorf("a failed Find must not move the caret, caret %v", d.Caret())
	}
}

func TestDocumentReplaceAllRelexesChangedLines(t *testing.T) {
	d := newPython(t, "a = 1\nb = 2\nc = 3\nd = 4\ne = 5")

	n, err := d.ReplaceAll("2", "'two'", buffer.FindOptions{})
	if err != nil || n != 1 {
		t.Fatalf("ReplaceAll = %d, %v", n, err)
	}
	if d.Relexed() != 1 {
		t.Errorf("one changed line relexed %d lines", d.Relexed())
	}
	if got := highlight.StyleAt(d.Highlights(1), 4); got != highlight.StyleString {
		t.Errorf("replaced text should be a string, got %v", got)
	}
	if !d.IsModified() {
		t.Error("document should be modified")
	}
	if got := len(d.FindAll("'two'", buffer.FindOptions{})); got != 1 {
		t.Errorf("FindAll found %d", got)
	}
}
