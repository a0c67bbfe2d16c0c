// Package highlight provides regex rule based syntax highlighting.
//
// A language is described by an ordered RuleSet. Every rule is applied to a
// line in order and a later rule overwrites the style of any codepoint an
// earlier rule already claimed, so the order of a rule table decides
// precedence: keywords, then builtins, then decorators, then strings,
// comments and numbers. Highlighting is strictly per line; constructs that
// span lines (triple-quoted strings, block comments) are not recognized.
package highlight

// StyleID names the semantic role of a span.
type StyleID uint8

// Semantic roles. The palette in the style package maps each to a RenderStyle.
const (
	StyleNone StyleID = iota
	StyleKeyword
	StyleBuiltin
	StyleDecorator
	StyleString
	StyleComment
	StyleNumber
	StylePreprocessor

	styleCount
)

var styleNames = [...]string{
	StyleNone:         "none",
	StyleKeyword:      "keyword",
	StyleBuiltin:      "builtin",
	StyleDecorator:    "decorator",
	StyleString:       "string",
	StyleComment:      "comment",
	StyleNumber:       "number",
	StylePreprocessor: "preprocessor",
}

// String returns the lowercase role name.
func (s StyleID) String() string {
	if int(s) < len(styleNames) {
		return styleNames[s]
	}
	return "unknown"
}

// ParseStyleID converts a role name back to a StyleID.
func ParseStyleID(name string) (StyleID, bool) {
	for i, n := range styleNames {
		if n == name {
			return StyleID(i), true
		}
	}
	return StyleNone, false
}

// Styles returns every role except StyleNone, in declaration order.
func Styles() []StyleID {
	out := make([]StyleID, 0, styleCount-1)
	for s := StyleNone + 1; s < styleCount; s++ {
		out = append(out, s)
	}
	return out
}

// Span is a run of codepoints in one line tagged with a single style.
type Span struct {
	// Start is the offset of the first codepoint.
	Start int
	// Length is the number of codepoints covered.
	Length int
	Style  StyleID
}

// End returns the offset one past the last codepoint.
func (s Span) End() int {
	return s.Start + s.Length
}

// Contains reports whether col lies inside the span.
func (s Span) Contains(col int) bool {
	return col >= s.Start && col < s.End()
}

// StyleAt returns the style covering col, or StyleNone.
// spans must be sorted and non-overlapping, as HighlightLine returns them.
func StyleAt(spans []Span, col int) StyleID {
	for _, sp := range spans {
		if sp.Contains(col) {
			return sp.Style
		}
		if sp.Start > col {
			break
		}
	}
	return StyleNone
}
