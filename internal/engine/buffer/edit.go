package buffer

import (
	"fmt"
	"unicode/utf8"
)

// Point is a line/column position. Column counts codepoints.
type Point struct {
	Line   int
	Column int
}

// String returns a human-readable representation.
func (p Point) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// Compare returns -1, 0 or 1 as p is before, equal to, or after other.
func (p Point) Compare(other Point) int {
	switch {
	case p.Line < other.Line:
		return -1
	case p.Line > other.Line:
		return 1
	case p.Column < other.Column:
		return -1
	case p.Column > other.Column:
		return 1
	}
	return 0
}

// EditRange describes the lines touched by one edit, in post-edit line
// numbers. StartLine..EndLine (inclusive) must be re-lexed; LinesDelta is
// the change in line count, so lines after EndLine moved by that much.
type EditRange struct {
	StartLine  int
	EndLine    int
	LinesDelta int
}

// Lines returns the number of lines to re-lex.
func (r EditRange) Lines() int {
	return r.EndLine - r.StartLine + 1
}

// InsertLine inserts text as a new line before line i. i == LineCount
// appends. text must not contain newlines; use Insert for that.
func (b *Buffer) InsertLine(i int, text string) error {
	b.mu.Lock()
	if i < 0 || i > len(b.lines) {
		b.mu.Unlock()
		return fmt.Errorf("insert line %d: %w", i, ErrLineOutOfRange)
	}
	parts := splitLines(normalizeLineEndings(text))
	b.lines = splice(b.lines, i, i, parts)
	b.commit(EditRange{StartLine: i, EndLine: i + len(parts) - 1, LinesDelta: len(parts)})
	return nil
}

// AppendLine adds text as the last line.
func (b *Buffer) AppendLine(text string) error {
	return b.InsertLine(b.LineCount(), text)
}

// DeleteLine removes line i. Deleting the only line leaves one empty line.
func (b *Buffer) DeleteLine(i int) error {
	b.mu.Lock()
	if i < 0 || i >= len(b.lines) {
		b.mu.Unlock()
		return fmt.Errorf("delete line %d: %w", i, ErrLineOutOfRange)
	}
	if len(b.lines) == 1 {
		b.lines[0] = ""
		b.commit(EditRange{StartLine: 0, EndLine: 0})
		return nil
	}
	b.lines = splice(b.lines, i, i+1, nil)
	at := min(i, len(b.lines)-1)
	b.commit(EditRange{StartLine: at, EndLine: at, LinesDelta: -1})
	return nil
}

// SetLine replaces the text of line i.
func (b *Buffer) SetLine(i int, text string) error {
	b.mu.Lock()
	if i < 0 || i >= len(b.lines) {
		b.mu.Unlock()
		return fmt.Errorf("set line %d: %w", i, ErrLineOutOfRange)
	}
	parts := splitLines(normalizeLineEndings(text))
	b.lines = splice(b.lines, i, i+1, parts)
	b.commit(EditRange{StartLine: i, EndLine: i + len(parts) - 1, LinesDelta: len(parts) - 1})
	return nil
}

// Insert inserts text at line, col. Newlines in text split the line. It
// returns the position just after the inserted text.
func (b *Buffer) Insert(line, col int, text string) (Point, error) {
	b.mu.Lock()
	if line < 0 || line >= len(b.lines) {
		b.mu.Unlock()
		return Point{}, fmt.Errorf("insert at %d:%d: %w", line, col, ErrLineOutOfRange)
	}
	cur := b.lines[line]
	at := runeIndex(cur, col)
	if at < 0 {
		b.mu.Unlock()
		return Point{}, fmt.Errorf("insert at %d:%d: %w", line, col, ErrColumnOutOfRange)
	}

	parts := splitLines(normalizeLineEndings(text))
	last := len(parts) - 1
	end := Point{Line: line + last, Column: utf8.RuneCountInString(parts[last])}
	if last == 0 {
		end.Column += col
	}
	parts[0] = cur[:at] + parts[0]
	parts[last] += cur[at:]

	b.lines = splice(b.lines, line, line+1, parts)
	b.commit(EditRange{StartLine: line, EndLine: line + last, LinesDelta: last})
	return end, nil
}

// Delete removes n codepoints starting at line, col. A line break counts as
// one codepoint, so deleting across it joins lines. Deletion stops at the end
// of the buffer.
func (b *Buffer) Delete(line, col, n int) error {
	b.mu.Lock()
	if line < 0 || line >= len(b.lines) {
		b.mu.Unlock()
		return fmt.Errorf("delete at %d:%d: %w", line, col, ErrLineOutOfRange)
	}
	start := runeIndex(b.lines[line], col)
	if start < 0 {
		b.mu.Unlock()
		return fmt.Errorf("delete at %d:%d: %w", line, col, ErrColumnOutOfRange)
	}
	if n <= 0 {
		b.mu.Unlock()
		return nil
	}

	endLine, endCol := line, col
	remaining := n
	for remaining > 0 {
		avail := utf8.RuneCountInString(b.lines[endLine]) - endCol
		if remaining <= avail {
			endCol += remaining
			break
		}
		remaining -= avail
		if endLine == len(b.lines)-1 {
			endCol += avail
			break
		}
		// Consume the line break.
		remaining--
		endLine++
		endCol = 0
	}

	tail := b.lines[endLine][runeIndex(b.lines[endLine], endCol):]
	joined := b.lines[line][:start] + tail
	b.lines = splice(b.lines, line, endLine+1, []string{joined})
	b.commit(EditRange{StartLine: line, EndLine: line, LinesDelta: line - endLine})
	return nil
}

// splice replaces lines[from:to] with repl.
func splice(lines []string, from, to int, repl []string) []string {
	out := make([]string, 0, len(lines)-(to-from)+len(repl))
	out = append(out, lines[:from]...)
	out = append(out, repl...)
	return append(out, lines[to:]...)
}
