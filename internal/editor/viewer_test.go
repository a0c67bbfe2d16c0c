package editor

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/dshills/pylight/internal/renderer/backend"
	"github.com/dshills/pylight/internal/renderer/style"
)

func runViewer(t *testing.T, d *Document, events ...backend.Event) error {
	t.Helper()
	term, _ := backend.NewSimulation(20, 5)
	t.Cleanup(term.Shutdown)

	v := NewViewer(d, term, nil)
	errc := make(chan error, 1)
	go func() { errc <- v.Run(context.Background()) }()

	for _, ev := range events {
		term.PostEvent(ev)
	}
	select {
	case err := <-errc:
		return err
	case <-time.After(5 * time.Second):
		t.Fatal("viewer did not exit")
		return nil
	}
}

func key(r rune) backend.Event {
	return backend.Event{Type: backend.EventKey, Key: backend.KeyRune, Rune: r}
}

func TestViewerNavigatesAndQuits(t *testing.T) {
	d := newPython(t, repeatLines("x = 1", 10))
	err := runViewer(t, d,
		key('j'), key('j'),
		backend.Event{Type: backend.EventKey, Key: backend.KeyDown},
		key('k'),
		key('q'),
	)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if got := d.Caret().Line; got != 2 {
		t.Errorf("caret line = %d, want 2", got)
	}
}

func TestViewerQuitKeys(t *testing.T) {
	for _, ev := range []backend.Event{
		{Type: backend.EventKey, Key: backend.KeyEscape},
		{Type: backend.EventKey, Key: backend.KeyCtrlC},
		{Type: backend.EventInterrupt},
	} {
		if err := runViewer(t, newPython(t, "x"), ev); err != nil {
			t.Errorf("event %+v: %v", ev, err)
		}
	}
}

func TestViewerDraws(t *testing.T) {
	term, screen := backend.NewSimulation(20, 5)
	defer term.Shutdown()

	d := newPython(t, "def f():\n    pass")
	NewViewer(d, term, nil).Draw()

	cells, w, _ := screen.GetContents()
	row := make([]rune, 0, w)
	for x := 0; x < 10; x++ {
		row = append(row, cells[x].Runes[0])
	}
	if got := string(row); got != "1 def f():" {
		t.Errorf("first row = %q", got)
	}
	if x, y, visible := screen.GetCursor(); !visible || x != 2 || y != 0 {
		t.Errorf("cursor at %d,%d visible=%v", x, y, visible)
	}
}

func TestViewerStopsOnCancel(t *testing.T) {
	term, _ := backend.NewSimulation(20, 5)
	defer term.Shutdown()

	ctx, cancel := context.WithCancel(context.Background())
	errc := make(chan error, 1)
	go func() { errc <- NewViewer(newPython(t, "x"), term, nil).Run(ctx) }()
	cancel()

	select {
	case err := <-errc:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("Run = %v, want context.Canceled", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("viewer ignored cancellation")
	}
}

func press(v *Viewer, events ...backend.Event) {
	for _, ev := range events {
		v.handle(ev)
	}
}

func typed(text string) []backend.Event {
	var evs []backend.Event
	for _, r := range text {
		evs = append(evs, key(r))
	}
	return evs
}

var (
	enter     = backend.Event{Type: backend.EventKey, Key: backend.KeyEnter}
	backspace = backend.Event{Type: backend.EventKey, Key: backend.KeyBackspace}
	escape    = backend.Event{Type: backend.EventKey, Key: backend.KeyEscape}
)

func TestViewerSearch(t *testing.T) {
	term, _ := backend.NewSimulation(30, 5)
	defer term.Shutdown()
	d := newPython(t, "a = 1\nb = 2\nneedle = 3\nc = 4\nneedle()")
	v := NewViewer(d, term, nil)

	press(v, key('/'))
	press(v, typed("need")...)
	press(v, enter)
	if got := d.Caret(); got.Line != 2 || got.Column != 0 {
		t.Fatalf("search moved caret to %v, want 2:0", got)
	}
	if v.Status() != "/need  3:1" {
		t.Errorf("status = %q", v.Status())
	}

	press(v, key('n'))
	if got := d.Caret().Line; got != 4 {
		t.Errorf("n moved caret to line %d, want 4", got)
	}
	press(v, key('N'))
	if got := d.Caret().Line; got != 2 {
		t.Errorf("N moved caret to line %d, want 2", got)
	}
	press(v, key('n'), key('n'))
	if got := d.Caret().Line; got != 2 {
		t.Errorf("search should wrap around, caret on line %d", got)
	}
}

func TestViewerSearchPromptEditing(t *testing.T) {
	term, _ := backend.NewSimulation(30, 5)
	defer term.Shutdown()
	d := newPython(t, "foo\nx = 1\nxy = 2")
	v := NewViewer(d, term, nil)

	press(v, key('/'))
	press(v, typed("xz")...)
	press(v, backspace)
	v.Draw()
	if got := bottomRow(t, term); !strings.HasPrefix(got, "/x ") {
		t.Errorf("prompt row = %q", got)
	}

	// q is text while the prompt is open.
	if v.handle(key('q')) {
		t.Fatal("q in the prompt should not quit")
	}
	press(v, backspace, enter)
	if got := d.Caret().Line; got != 1 {
		t.Errorf("caret line = %d, want 1", got)
	}

	press(v, key('/'))
	press(v, typed("zzz")...)
	if v.handle(escape) {
		t.Fatal("Esc in the prompt should only close it")
	}
	if d.Caret().Line != 1 || v.Status() != "" {
		t.Errorf("cancelled search changed state: caret %v status %q", d.Caret(), v.Status())
	}
}

func TestViewerSearchNotFound(t *testing.T) {
	term, _ := backend.NewSimulation(30, 5)
	defer term.Shutdown()
	d := newPython(t, "x = 1\ny = 2")
	v := NewViewer(d, term, nil)

	press(v, key('j'), key('/'))
	press(v, typed("zz")...)
	press(v, enter)
	if d.Caret().Line != 1 {
		t.Errorf("caret moved to %v", d.Caret())
	}
	v.Draw()
	if got := bottomRow(t, term); !strings.HasPrefix(got, "Pattern not found: zz") {
		t.Errorf("status row = %q", got)
	}

	press(v, key('k'))
	if v.Status() != "" {
		t.Errorf("a key should clear the status, got %q", v.Status())
	}
}

func bottomRow(t *testing.T, term *backend.Terminal) string {
	t.Helper()
	w, h := term.Size()
	var sb strings.Builder
	for x := 0; x < w; x++ {
		sb.WriteRune(term.GetCell(x, h-1).Rune)
	}
	return sb.String()
}

func TestViewerApply(t *testing.T) {
	term, _ := backend.NewSimulation(20, 5)
	defer term.Shutdown()
	d := newPython(t, "x = 1")
	v := NewViewer(d, term, nil)

	errc := make(chan error, 1)
	go func() { errc <- v.Run(context.Background()) }()

	applied := make(chan struct{})
	if !v.Apply(func(doc *Document) {
		doc.SetPalette(style.Dracula())
		close(applied)
	}) {
		t.Fatal("Apply refused while running")
	}
	select {
	case <-applied:
	case <-time.After(5 * time.Second):
		t.Fatal("update never ran")
	}

	term.PostEvent(key('q'))
	select {
	case err := <-errc:
		if err != nil {
			t.Fatalf("Run: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("viewer did not exit")
	}

	if d.Palette().Name != style.ThemeDracula {
		t.Errorf("palette = %q", d.Palette().Name)
	}
	if v.Apply(func(*Document) {}) {
		t.Error("Apply after Run returned should report false")
	}
}
