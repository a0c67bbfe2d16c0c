package buffer

import (
	"fmt"
	"strings"
	"unicode"
)

// FindOptions controls how a query matches. Queries are literal text and
// never span lines.
type FindOptions struct {
	CaseSensitive bool

	// WholeWord rejects matches with a letter, digit or underscore on
	// either side.
	WholeWord bool

	// Backward searches toward the start of the buffer.
	Backward bool
}

// Match is one occurrence of a query. Column and Length count codepoints.
type Match struct {
	Line   int
	Column int
	Length int
}

// Start returns the position of the first matched codepoint.
func (m Match) Start() Point {
	return Point{Line: m.Line, Column: m.Column}
}

// End returns the position just past the match.
func (m Match) End() Point {
	return Point{Line: m.Line, Column: m.Column + m.Length}
}

// Find returns the next occurrence of query from the given position,
// wrapping around the buffer once. Forward searches accept a match that
// starts at from; backward searches need one that starts before it. An
// empty query, or one containing a newline, never matches.
func (b *Buffer) Find(query string, from Point, opts FindOptions) (Match, bool) {
	q := []rune(query)
	if !searchable(query) {
		return Match{}, false
	}

	b.mu.RLock()
	defer b.mu.RUnlock()

	n := len(b.lines)
	start := min(max(from.Line, 0), n-1)
	for k := 0; k <= n; k++ {
		line := (start + k) % n
		if opts.Backward {
			line = ((start-k)%n + n) % n
		}
		cols := lineMatches([]rune(b.lines[line]), q, opts)
		if col, ok := pick(cols, from.Column, k, n, opts.Backward); ok {
			return Match{Line: line, Column: col, Length: len(q)}, true
		}
	}
	return Match{}, false
}

// pick chooses the match column on the k-th line visited. The first visit
// to the start line only looks on one side of col and the wrapped visit
// (k == n) only on the other.
func pick(cols []int, col, k, n int, backward bool) (int, bool) {
	if !backward {
		for _, c := range cols {
			if (k == 0 && c < col) || (k == n && c >= col) {
				continue
			}
			return c, true
		}
		return 0, false
	}
	for i := len(cols) - 1; i >= 0; i-- {
		c := cols[i]
		if (k == 0 && c >= col) || (k == n && c < col) {
			continue
		}
		return c, true
	}
	return 0, false
}

// FindAll returns every non-overlapping occurrence of query in buffer
// order. Backward is ignored.
func (b *Buffer) FindAll(query string, opts FindOptions) []Match {
	if !searchable(query) {
		return nil
	}
	q := []rune(query)

	b.mu.RLock()
	defer b.mu.RUnlock()

	var out []Match
	for i, text := range b.lines {
		for _, col := range lineMatches([]rune(text), q, opts) {
			out = append(out, Match{Line: i, Column: col, Length: len(q)})
		}
	}
	return out
}

// Replace substitutes with for the codepoints m covers, as one edit.
func (b *Buffer) Replace(m Match, with string) error {
	if strings.ContainsAny(with, "\r\n") {
		return fmt.Errorf("replace at %d:%d: %w", m.Line, m.Column, ErrMultiline)
	}

	b.mu.Lock()
	if m.Line < 0 || m.Line >= len(b.lines) {
		b.mu.Unlock()
		return fmt.Errorf("replace at %d:%d: %w", m.Line, m.Column, ErrLineOutOfRange)
	}
	cur := b.lines[m.Line]
	from, to := runeIndex(cur, m.Column), runeIndex(cur, m.Column+m.Length)
	if from < 0 || to < 0 || m.Length < 0 {
		b.mu.Unlock()
		return fmt.Errorf("replace at %d:%d: %w", m.Line, m.Column, ErrColumnOutOfRange)
	}
	b.lines[m.Line] = cur[:from] + with + cur[to:]
	b.commit(EditRange{StartLine: m.Line, EndLine: m.Line})
	return nil
}

// ReplaceAll substitutes with for every occurrence of query and returns how
// many were replaced. All replacements form a single edit spanning the
// first to the last changed line.
func (b *Buffer) ReplaceAll(query, with string, opts FindOptions) (int, error) {
	if strings.ContainsAny(with, "\r\n") {
		return 0, fmt.Errorf("replace all %q: %w", query, ErrMultiline)
	}
	if !searchable(query) {
		return 0, nil
	}
	q, repl := []rune(query), []rune(with)

	b.mu.Lock()
	count, first, last := 0, -1, -1
	for i, text := range b.lines {
		line := []rune(text)
		cols := lineMatches(line, q, opts)
		if len(cols) == 0 {
			continue
		}

		var sb strings.Builder
		prev := 0
		for _, c := range cols {
			sb.WriteString(string(line[prev:c]))
			sb.WriteString(string(repl))
			prev = c + len(q)
		}
		sb.WriteString(string(line[prev:]))
		b.lines[i] = sb.String()

		count += len(cols)
		if first < 0 {
			first = i
		}
		last = i
	}
	if count == 0 {
		b.mu.Unlock()
		return 0, nil
	}
	b.commit(EditRange{StartLine: first, EndLine: last})
	return count, nil
}

func searchable(query string) bool {
	return query != "" && !strings.ContainsAny(query, "\r\n")
}

// lineMatches returns the start columns of the non-overlapping matches of q
// in line, left to right.
func lineMatches(line, q []rune, opts FindOptions) []int {
	var out []int
	for i := 0; i+len(q) <= len(line); {
		if matchAt(line, i, q, opts.CaseSensitive) &&
			(!opts.WholeWord || wordBounded(line, i, i+len(q))) {
			out = append(out, i)
			i += len(q)
			continue
		}
		i++
	}
	return out
}

func matchAt(line []rune, at int, q []rune, caseSensitive bool) bool {
	for j, r := range q {
		if !sameRune(line[at+j], r, caseSensitive) {
			return false
		}
	}
	return true
}

func sameRune(a, b rune, caseSensitive bool) bool {
	if a == b {
		return true
	}
	if caseSensitive {
		return false
	}
	for f := unicode.SimpleFold(a); f != a; f = unicode.SimpleFold(f) {
		if f == b {
			return true
		}
	}
	return false
}

func wordBounded(line []rune, start, end int) bool {
	return (start == 0 || !isWordRune(line[start-1])) &&
		(end == len(line) || !isWordRune(line[end]))
}

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}
