package editor

import (
	"context"
	"fmt"
	"sync"

	"github.com/dshills/pylight/internal/engine/buffer"
	"github.com/dshills/pylight/internal/log"
	"github.com/dshills/pylight/internal/renderer/backend"
	"github.com/dshills/pylight/internal/renderer/core"
)

// Viewer shows a document on a backend and handles navigation keys. It is
// read-only apart from the caret. '/' opens a search prompt on the bottom
// row; n and N repeat the last search forward and backward.
type Viewer struct {
	doc    *Document
	screen backend.Backend
	logger *log.Logger

	updates  chan func(*Document)
	quit     chan struct{}
	quitOnce sync.Once

	prompting bool
	input     []rune
	query     string
	status    string
}

// NewViewer creates a viewer. The backend must already be initialized.
func NewViewer(doc *Document, screen backend.Backend, logger *log.Logger) *Viewer {
	if logger == nil {
		logger = log.Discard()
	}
	return &Viewer{
		doc:     doc,
		screen:  screen,
		logger:  logger.WithComponent("viewer"),
		updates: make(chan func(*Document), 8),
		quit:    make(chan struct{}),
	}
}

// Apply runs fn on the viewer's goroutine and redraws. It may be called
// from any goroutine, before or during Run, and reports false once the
// viewer has stopped.
func (v *Viewer) Apply(fn func(*Document)) bool {
	select {
	case <-v.quit:
		return false
	default:
	}
	select {
	case v.updates <- fn:
		return true
	case <-v.quit:
		return false
	}
}

// Status returns the message shown on the bottom row, if any.
func (v *Viewer) Status() string {
	return v.status
}

// Run draws the document and processes events until the user quits or ctx
// is cancelled.
func (v *Viewer) Run(ctx context.Context) error {
	events := make(chan backend.Event)
	done := make(chan struct{})
	defer close(done)
	defer v.quitOnce.Do(func() { close(v.quit) })

	go func() {
		for {
			ev := v.screen.PollEvent()
			if ev.Type == backend.EventNone {
				return
			}
			select {
			case events <- ev:
			case <-done:
				return
			}
		}
	}()

	v.Draw()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev := <-events:
			if v.handle(ev) {
				return nil
			}
			v.Draw()
		case fn := <-v.updates:
			fn(v.doc)
			v.Draw()
		}
	}
}

// Draw renders one frame to the backend.
func (v *Viewer) Draw() {
	w, h := v.screen.Size()
	f := v.doc.Frame(w, h)
	for y, row := range f.Cells {
		for x, c := range row {
			v.screen.SetCell(x, y, c)
		}
	}
	switch {
	case v.prompting:
		v.drawBottom(w, h, "/"+string(v.input))
		v.screen.ShowCursor(min(1+len(v.input), w-1), h-1)
	case v.status != "":
		v.drawBottom(w, h, v.status)
		v.screen.HideCursor()
	case f.CaretVisible:
		v.screen.ShowCursor(f.CaretX, f.CaretY)
	default:
		v.screen.HideCursor()
	}
	v.screen.Show()
}

func (v *Viewer) drawBottom(w, h int, text string) {
	if h <= 0 {
		return
	}
	st := v.doc.Palette().Base()
	st.Attributes |= core.AttrReverse
	runes := []rune(text)
	for x := 0; x < w; x++ {
		r := ' '
		if x < len(runes) {
			r = runes[x]
		}
		v.screen.SetCell(x, h-1, core.NewStyledCell(r, st))
	}
}

// handlePrompt edits the search input. Enter searches, Esc cancels.
func (v *Viewer) handlePrompt(ev backend.Event) {
	switch ev.Key {
	case backend.KeyEscape, backend.KeyCtrlC:
		v.prompting = false
	case backend.KeyEnter:
		v.prompting = false
		if len(v.input) > 0 {
			v.query = string(v.input)
		}
		v.search(false)
	case backend.KeyBackspace:
		if len(v.input) == 0 {
			v.prompting = false
			return
		}
		v.input = v.input[:len(v.input)-1]
	case backend.KeyRune:
		v.input = append(v.input, ev.Rune)
	}
}

// search repeats the last query from the caret.
func (v *Viewer) search(backward bool) {
	if v.query == "" {
		v.status = ""
		return
	}
	m, ok := v.doc.Find(v.query, buffer.FindOptions{Backward: backward})
	if !ok {
		v.status = fmt.Sprintf("Pattern not found: %s", v.query)
		return
	}
	v.status = fmt.Sprintf("/%s  %d:%d", v.query, m.Line+1, m.Column+1)
}

// handle applies ev and reports whether the viewer should quit.
func (v *Viewer) handle(ev backend.Event) bool {
	d := v.doc
	if v.prompting && ev.Type == backend.EventKey {
		v.handlePrompt(ev)
		return false
	}
	if ev.Type == backend.EventKey {
		v.status = ""
	}
	switch ev.Type {
	case backend.EventInterrupt:
		return true
	case backend.EventResize:
		d.Resize(float64(ev.Width), float64(ev.Height))
	case backend.EventMouse:
		switch ev.MouseButton {
		case backend.MouseWheelUp:
			d.Scroll(-3 * d.view.LineHeight())
		case backend.MouseWheelDown:
			d.Scroll(3 * d.view.LineHeight())
		case backend.MouseLeft:
			line := d.view.LineAt(float64(ev.MouseY))
			d.SetCaret(line, 0)
		}
	case backend.EventKey:
		switch ev.Key {
		case backend.KeyEscape, backend.KeyCtrlC, backend.KeyCtrlQ:
			return true
		case backend.KeyUp:
			d.MoveCaret(-1, 0)
		case backend.KeyDown:
			d.MoveCaret(1, 0)
		case backend.KeyLeft:
			d.MoveCaret(0, -1)
		case backend.KeyRight:
			d.MoveCaret(0, 1)
		case backend.KeyHome:
			d.SetCaret(0, 0)
		case backend.KeyEnd:
			d.SetCaret(d.LineCount()-1, 0)
		case backend.KeyPageDown:
			d.scrolled(d.view.PageDown())
		case backend.KeyPageUp:
			d.scrolled(d.view.PageUp())
		case backend.KeyRune:
			switch ev.Rune {
			case 'q':
				return true
			case 'j':
				d.MoveCaret(1, 0)
			case 'k':
				d.MoveCaret(-1, 0)
			case 'g':
				d.SetCaret(0, 0)
			case 'G':
				d.SetCaret(d.LineCount()-1, 0)
			case 'z':
				d.scrolled(d.view.CenterOn(d.caret.Line))
			case '/':
				v.prompting = true
				v.input = v.input[:0]
			case 'n':
				v.search(false)
			case 'N':
				v.search(true)
			}
		}
	}
	return false
}
