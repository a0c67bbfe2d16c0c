package buffer

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"unicode/utf8"
)

// Errors returned by buffer operations.
var (
	ErrLineOutOfRange   = errors.New("line out of range")
	ErrColumnOutOfRange = errors.New("column out of range")
	ErrMultiline        = errors.New("text must not contain a line break")
)

// LineEnding specifies the line ending style.
type LineEnding uint8

const (
	LineEndingLF   LineEnding = iota // Unix: \n
	LineEndingCRLF                   // Windows: \r\n
	LineEndingCR                     // Old Mac: \r
)

// String returns the string representation of the line ending.
func (le LineEnding) String() string {
	switch le {
	case LineEndingCRLF:
		return "\\r\\n"
	case LineEndingCR:
		return "\\r"
	default:
		return "\\n"
	}
}

// Sequence returns the actual line ending characters.
func (le LineEnding) Sequence() string {
	switch le {
	case LineEndingCRLF:
		return "\r\n"
	case LineEndingCR:
		return "\r"
	default:
		return "\n"
	}
}

// Buffer is a line-oriented text buffer. It always holds at least one
// (possibly empty) line. All methods are thread-safe.
type Buffer struct {
	mu sync.RWMutex

	lines      []string
	lineEnding LineEnding
	tabWidth   int
	revision   RevisionID

	listeners []*listener
}

type listener struct {
	fn func(EditRange)
}

// New creates an empty buffer.
func New(opts ...Option) *Buffer {
	b := &Buffer{
		lines:      []string{""},
		lineEnding: LineEndingLF,
		tabWidth:   4,
		revision:   NewRevisionID(),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// NewFromString creates a buffer with initial content. The line ending used
// for writing is detected from s unless an option overrides it.
func NewFromString(s string, opts ...Option) *Buffer {
	b := New(append([]Option{WithDetectedLineEnding(s)}, opts...)...)
	b.lines = splitLines(normalizeLineEndings(s))
	return b
}

// NewFromReader creates a buffer from r.
func NewFromReader(r io.Reader, opts ...Option) (*Buffer, error) {
	// Read everything first so a CRLF split across reads is normalized.
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return NewFromString(string(data), opts...), nil
}

// normalizeLineEndings converts CRLF and CR to LF.
func normalizeLineEndings(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.ReplaceAll(s, "\r", "\n")
}

func splitLines(s string) []string {
	return strings.Split(s, "\n")
}

// Read Operations

// Text returns the full content joined with LF.
func (b *Buffer) Text() string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return strings.Join(b.lines, "\n")
}

// WriteTo writes the content with the buffer's line ending.
func (b *Buffer) WriteTo(w io.Writer) (int64, error) {
	b.mu.RLock()
	text := strings.Join(b.lines, b.lineEnding.Sequence())
	b.mu.RUnlock()

	n, err := io.WriteString(w, text)
	return int64(n), err
}

// LineCount returns the number of lines.
func (b *Buffer) LineCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.lines)
}

// LineText returns line i without its newline. It panics if i is out of
// range.
func (b *Buffer) LineText(i int) string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if i < 0 || i >= len(b.lines) {
		panic(fmt.Sprintf("buffer: line %d out of range [0, %d)", i, len(b.lines)))
	}
	return b.lines[i]
}

// LineLen returns the length of line i in codepoints. It panics if i is out
// of range.
func (b *Buffer) LineLen(i int) int {
	return utf8.RuneCountInString(b.LineText(i))
}

// IsEmpty reports whether the buffer holds a single empty line.
func (b *Buffer) IsEmpty() bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.lines) == 1 && b.lines[0] == ""
}

// LineEnding returns the line ending used by WriteTo.
func (b *Buffer) LineEnding() LineEnding {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.lineEnding
}

// TabWidth returns the tab width.
func (b *Buffer) TabWidth() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.tabWidth
}

// SetTabWidth changes the tab width. Non-positive widths are ignored.
func (b *Buffer) SetTabWidth(width int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if width > 0 {
		b.tabWidth = width
	}
}

// Revision returns the current revision. Every edit creates a new one.
func (b *Buffer) Revision() RevisionID {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.revision
}

// OnEdit registers fn to run after every edit. The returned function
// unregisters it. Listeners run on the editing goroutine after the buffer
// lock is released, so they may read the buffer.
func (b *Buffer) OnEdit(fn func(EditRange)) (unsubscribe func()) {
	l := &listener{fn: fn}
	b.mu.Lock()
	b.listeners = append(b.listeners, l)
	b.mu.Unlock()

	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		for i, other := range b.listeners {
			if other == l {
				b.listeners = append(b.listeners[:i], b.listeners[i+1:]...)
				return
			}
		}
	}
}

// commit finishes an edit made under b.mu and notifies listeners. It
// releases the lock.
func (b *Buffer) commit(r EditRange) {
	b.revision = NewRevisionID()
	listeners := make([]*listener, len(b.listeners))
	copy(listeners, b.listeners)
	b.mu.Unlock()

	for _, l := range listeners {
		l.fn(r)
	}
}

// runeIndex returns the byte offset of codepoint col in s, or -1 if col is
// past the end. col == rune count is the end of the string.
func runeIndex(s string, col int) int {
	if col < 0 {
		return -1
	}
	i := 0
	for byteOff := range s {
		if i == col {
			return byteOff
		}
		i++
	}
	if i == col {
		return len(s)
	}
	return -1
}
