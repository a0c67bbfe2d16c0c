// Package editor hosts an open document: its buffer, the highlighter, the
// gutter and the viewport, kept in step as the text is edited and scrolled.
//
// A Document is driven from a single goroutine, the UI loop. The gutter and
// viewport it owns are safe to read from others.
package editor

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/dshills/pylight/internal/engine/buffer"
	"github.com/dshills/pylight/internal/log"
	"github.com/dshills/pylight/internal/renderer/core"
	"github.com/dshills/pylight/internal/renderer/gutter"
	"github.com/dshills/pylight/internal/renderer/highlight"
	"github.com/dshills/pylight/internal/renderer/style"
	"github.com/dshills/pylight/internal/renderer/viewport"
)

// Options configures a Document.
type Options struct {
	// Registry selects the rule set by file extension. Defaults to the
	// built-in languages.
	Registry *highlight.Registry

	Palette style.Palette
	Gutter  gutter.Config

	// TabWidth is the number of cells a tab expands to.
	TabWidth int

	// CacheTTL bounds how long unused highlighted lines stay cached.
	CacheTTL time.Duration

	Logger *log.Logger
}

// DefaultOptions returns options for a terminal host.
func DefaultOptions() Options {
	return Options{
		Registry: highlight.DefaultRegistry(),
		Palette:  style.DefaultPalette(),
		Gutter:   gutter.TerminalConfig(),
		TabWidth: 4,
		CacheTTL: 5 * time.Minute,
		Logger:   log.Discard(),
	}
}

func (o *Options) applyDefaults() {
	d := DefaultOptions()
	if o.Registry == nil {
		o.Registry = d.Registry
	}
	if o.Palette.Name == "" {
		o.Palette = d.Palette
	}
	if o.Gutter.LineHeight <= 0 {
		o.Gutter = d.Gutter
	}
	if o.TabWidth <= 0 {
		o.TabWidth = d.TabWidth
	}
	if o.Logger == nil {
		o.Logger = d.Logger
	}
}

// Document is an open file with its editor state.
type Document struct {
	// Path is the absolute file path (empty for scratch buffers).
	Path string

	// Name is the display name (filename or "Untitled").
	Name string

	buf      *buffer.Buffer
	rules    highlight.RuleSet
	provider *highlight.Provider
	gutter   *gutter.Gutter
	view     *viewport.Viewport
	palette  style.Palette
	tabWidth int
	logger   *log.Logger

	// highlights holds the flattened spans of every line, kept in step with
	// the buffer by onEdit.
	highlights [][]highlight.Span

	caret   buffer.Point
	overlay gutter.Overlay

	saved   buffer.RevisionID
	relexed int
}

// New creates a document over buf. path may be empty for a scratch buffer;
// otherwise its extension picks the rule set.
func New(path string, buf *buffer.Buffer, opts Options) *Document {
	opts.applyDefaults()

	name := filepath.Base(path)
	if path == "" {
		name = "Untitled"
	}

	rules := opts.Registry.ConfigureForPath(path)
	d := &Document{
		Path:     path,
		Name:     name,
		buf:      buf,
		rules:    rules,
		provider: highlight.NewProvider(rules, opts.CacheTTL),
		gutter:   gutter.New(opts.Gutter),
		view:     viewport.New(1, 1, opts.Gutter.LineHeight),
		palette:  opts.Palette,
		tabWidth: opts.TabWidth,
		logger:   opts.Logger.WithComponent("editor").WithField("doc", name),
		saved:    buf.Revision(),
	}
	buf.SetTabWidth(opts.TabWidth)
	d.provider.SetLineGetter(buf.LineText)

	d.gutter.OnWidthChange(func(w float64) {
		d.view.SetLeftMargin(w)
		d.logger.Debug("gutter width %.0f", w)
	})
	d.view.SetLeftMargin(d.gutter.Width())
	d.refreshOverlay()

	d.highlights = make([][]highlight.Span, buf.LineCount())
	for i := range d.highlights {
		d.highlights[i] = d.provider.HighlightsForLine(i)
	}
	d.syncLineCount()
	buf.OnEdit(d.onEdit)

	d.logger.Debug("opened with %d lines, language %q", buf.LineCount(), rules.Language())
	return d
}

// Open reads path into a new document.
func Open(path string, opts Options) (*Document, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(abs)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	buf, err := buffer.NewFromReader(f)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return New(abs, buf, opts), nil
}

// NewScratch creates an empty, unnamed document.
func NewScratch(opts Options) *Document {
	return New("", buffer.New(), opts)
}

// Save writes the buffer back to Path, atomically, with its original line
// endings.
func (d *Document) Save() error {
	if d.Path == "" {
		return ErrScratch
	}
	dir := filepath.Dir(d.Path)
	tmp, err := os.CreateTemp(dir, "."+d.Name+".*.tmp")
	if err != nil {
		return fmt.Errorf("save %s: %w", d.Path, err)
	}
	defer os.Remove(tmp.Name())

	if _, err := d.buf.WriteTo(tmp); err != nil {
		tmp.Close()
		return fmt.Errorf("save %s: %w", d.Path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("save %s: %w", d.Path, err)
	}
	if err := os.Rename(tmp.Name(), d.Path); err != nil {
		return fmt.Errorf("save %s: %w", d.Path, err)
	}

	d.saved = d.buf.Revision()
	d.logger.Info("saved")
	return nil
}

// IsModified returns true if the document has unsaved changes.
func (d *Document) IsModified() bool {
	return d.buf.Revision() != d.saved
}

// Language returns the id of the active rule set, or "" for plain text.
func (d *Document) Language() string {
	return d.rules.Language()
}

// LineCount returns the number of lines.
func (d *Document) LineCount() int {
	return d.buf.LineCount()
}

// LineText returns line i. It panics if i is out of range.
func (d *Document) LineText(i int) string {
	return d.buf.LineText(i)
}

// Text returns the full content.
func (d *Document) Text() string {
	return d.buf.Text()
}

// Highlights returns the spans for line i. It panics if i is out of range.
func (d *Document) Highlights(i int) []highlight.Span {
	return d.highlights[i]
}

// Relexed returns how many lines have been re-highlighted since the
// document was opened, not counting the initial pass.
func (d *Document) Relexed() int {
	return d.relexed
}

// TabWidth returns the number of cells a tab expands to.
func (d *Document) TabWidth() int {
	return d.tabWidth
}

// Gutter returns the document's gutter.
func (d *Document) Gutter() *gutter.Gutter {
	return d.gutter
}

// Viewport returns the document's viewport.
func (d *Document) Viewport() *viewport.Viewport {
	return d.view
}

// Palette returns the palette frames are drawn with.
func (d *Document) Palette() style.Palette {
	return d.palette
}

// SetPalette switches the color scheme.
func (d *Document) SetPalette(p style.Palette) {
	d.palette = p
}

// Insert inserts text at line, col.
func (d *Document) Insert(line, col int, text string) (buffer.Point, error) {
	return d.buf.Insert(line, col, text)
}

// Delete removes n codepoints at line, col.
func (d *Document) Delete(line, col, n int) error {
	return d.buf.Delete(line, col, n)
}

// Find moves the caret to the next occurrence of query and reports whether
// there was one. Forward searches start just past the caret so repeated
// calls step through the matches; backward searches start at the caret.
func (d *Document) Find(query string, opts buffer.FindOptions) (buffer.Match, bool) {
	from := d.caret
	if !opts.Backward {
		from.Column++
	}
	m, ok := d.buf.Find(query, from, opts)
	if !ok {
		return buffer.Match{}, false
	}
	d.SetCaret(m.Line, m.Column)
	return m, true
}

// FindAll returns every occurrence of query without moving the caret.
func (d *Document) FindAll(query string, opts buffer.FindOptions) []buffer.Match {
	return d.buf.FindAll(query, opts)
}

// ReplaceAll replaces every occurrence of query and returns the count.
func (d *Document) ReplaceAll(query, with string, opts buffer.FindOptions) (int, error) {
	n, err := d.buf.ReplaceAll(query, with, opts)
	if err != nil {
		return 0, err
	}
	d.logger.Info("replaced %d occurrences of %q", n, query)
	return n, nil
}

// InsertAtCaret inserts text at the caret and moves the caret past it.
func (d *Document) InsertAtCaret(text string) error {
	end, err := d.buf.Insert(d.caret.Line, d.caret.Column, text)
	if err != nil {
		return err
	}
	d.SetCaret(end.Line, end.Column)
	return nil
}

// onEdit re-highlights only the lines an edit touched and shifts the rest.
func (d *Document) onEdit(r buffer.EditRange) {
	replaced := r.Lines() - r.LinesDelta
	from := min(r.StartLine, len(d.highlights))
	to := min(from+replaced, len(d.highlights))

	fresh := make([][]highlight.Span, 0, r.Lines())
	for line := r.StartLine; line <= r.EndLine; line++ {
		fresh = append(fresh, d.provider.HighlightsForLine(line))
	}
	d.relexed += len(fresh)

	next := make([][]highlight.Span, 0, len(d.highlights)+r.LinesDelta)
	next = append(next, d.highlights[:from]...)
	next = append(next, fresh...)
	d.highlights = append(next, d.highlights[to:]...)

	d.syncLineCount()
	d.clampCaret()
}

func (d *Document) syncLineCount() {
	n := d.buf.LineCount()
	d.view.SetLineCount(n)
	d.gutter.SetLineCount(n)
}

// Caret returns the caret position.
func (d *Document) Caret() buffer.Point {
	return d.caret
}

// SetCaret moves the caret, clamped to the buffer, and scrolls it into
// view. It returns the gutter update for any scroll it caused.
func (d *Document) SetCaret(line, col int) gutter.Update {
	line = min(max(line, 0), d.buf.LineCount()-1)
	col = min(max(col, 0), d.buf.LineLen(line))
	d.caret = buffer.Point{Line: line, Column: col}

	if d.gutter.SetCaretLine(line) {
		d.refreshOverlay()
	}
	delta := d.view.ScrollToReveal(line)
	return d.scrolled(delta)
}

func (d *Document) clampCaret() {
	line := min(d.caret.Line, d.buf.LineCount()-1)
	col := min(d.caret.Column, d.buf.LineLen(line))
	d.caret = buffer.Point{Line: line, Column: col}
	if d.gutter.SetCaretLine(line) {
		d.refreshOverlay()
	}
}

// MoveCaret moves the caret by whole lines and columns.
func (d *Document) MoveCaret(dLine, dCol int) gutter.Update {
	return d.SetCaret(d.caret.Line+dLine, d.caret.Column+dCol)
}

// Scroll scrolls by dy and returns the gutter's update for it.
func (d *Document) Scroll(dy float64) gutter.Update {
	return d.scrolled(d.view.ScrollBy(dy))
}

// Resize sets the viewport size. The whole viewport is dirty, so the
// gutter also recomputes its width.
func (d *Document) Resize(width, height float64) gutter.Update {
	d.view.Resize(width, height)
	bounds := d.view.Bounds()
	d.gutter.SetViewportRect(bounds)
	up := d.gutter.OnViewportScrolled(0, bounds)
	d.refreshOverlay()
	return up
}

func (d *Document) refreshOverlay() {
	d.overlay = d.gutter.Overlay(d.view.State(), d.view.TextArea().Width)
}

func (d *Document) scrolled(delta float64) gutter.Update {
	up := d.gutter.OnViewportScrolled(delta, core.Rect{})
	if up.Kind == gutter.UpdateScroll {
		d.refreshOverlay()
	}
	return up
}

// CurrentLineOverlay returns the overlay for the caret line, recomputed
// when the caret line changes or the view scrolls.
func (d *Document) CurrentLineOverlay() gutter.Overlay {
	return d.overlay
}
