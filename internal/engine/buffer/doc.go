// Package buffer provides the editor's text buffer: an ordered, mutable
// sequence of lines.
//
// Columns are codepoint (rune) offsets within a line, matching the offsets
// the highlighter reports. Line endings are normalized to LF on load and
// restored on write.
//
// Basic usage:
//
//	buf := buffer.NewFromString("def f():\n    pass")
//	buf.OnEdit(func(r buffer.EditRange) {
//	    // re-highlight lines r.StartLine..r.EndLine
//	})
//	buf.Insert(1, 4, "return 1\n    ")
//
// Mutating methods return ErrLineOutOfRange or ErrColumnOutOfRange for bad
// positions. Read accessors such as LineText treat a bad index as a
// programming error and panic.
package buffer
