package highlight

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

// InvalidRuleError reports a rule pattern that failed to compile.
// It is only ever returned while a RuleSet is being built.
type InvalidRuleError struct {
	Language string
	Pattern  string
	Err      error
}

func (e *InvalidRuleError) Error() string {
	return fmt.Sprintf("highlight: invalid rule for %q: pattern %q: %v", e.Language, e.Pattern, e.Err)
}

func (e *InvalidRuleError) Unwrap() error {
	return e.Err
}

// Rule pairs a compiled pattern with the style its matches receive.
type Rule struct {
	Pattern *regexp.Regexp
	Style   StyleID
}

// RuleDef is the uncompiled form of a Rule.
type RuleDef struct {
	Pattern string
	Style   StyleID
}

// RuleSet is the ordered, immutable rule table for one language.
// The zero value highlights nothing.
type RuleSet struct {
	language   string
	extensions []string
	rules      []Rule
}

// NewRuleSet compiles defs in order. The first pattern that does not compile
// aborts construction with an *InvalidRuleError.
func NewRuleSet(language string, extensions []string, defs []RuleDef) (RuleSet, error) {
	rules := make([]Rule, 0, len(defs))
	for _, d := range defs {
		re, err := regexp.Compile(d.Pattern)
		if err != nil {
			return RuleSet{}, &InvalidRuleError{Language: language, Pattern: d.Pattern, Err: err}
		}
		rules = append(rules, Rule{Pattern: re, Style: d.Style})
	}
	exts := make([]string, len(extensions))
	for i, ext := range extensions {
		exts[i] = normalizeExt(ext)
	}
	return RuleSet{language: language, extensions: exts, rules: rules}, nil
}

// mustRuleSet is NewRuleSet for the built-in tables.
func mustRuleSet(language string, extensions []string, defs []RuleDef) RuleSet {
	rs, err := NewRuleSet(language, extensions, defs)
	if err != nil {
		panic(err)
	}
	return rs
}

// Language returns the language id, or "" for plain text.
func (rs RuleSet) Language() string {
	return rs.language
}

// Extensions returns a copy of the file extensions this set handles.
func (rs RuleSet) Extensions() []string {
	return append([]string(nil), rs.extensions...)
}

// Len returns the number of rules.
func (rs RuleSet) Len() int {
	return len(rs.rules)
}

// Rules returns a copy of the rule table.
func (rs RuleSet) Rules() []Rule {
	return append([]Rule(nil), rs.rules...)
}

// IsPlain reports whether the set highlights nothing.
func (rs RuleSet) IsPlain() bool {
	return len(rs.rules) == 0
}

// Matches runs every rule in order over line and returns each match as a
// span, in application order. Spans from different rules may overlap.
func Matches(line string, rs RuleSet) []Span {
	if line == "" || len(rs.rules) == 0 {
		return nil
	}

	toRune := runeOffsets(line)
	var spans []Span
	for _, rule := range rs.rules {
		for _, m := range rule.Pattern.FindAllStringIndex(line, -1) {
			start, end := toRune(m[0]), toRune(m[1])
			if end <= start {
				continue
			}
			spans = append(spans, Span{Start: start, Length: end - start, Style: rule.Style})
		}
	}
	return spans
}

// HighlightLine returns the styled spans for line. Matches are painted in
// rule order, each overwriting whatever an earlier rule set on the same
// codepoints; the result is sorted, non-overlapping, and merges adjacent runs
// of equal style.
func HighlightLine(line string, rs RuleSet) []Span {
	raw := Matches(line, rs)
	if len(raw) == 0 {
		return nil
	}
	return flatten(raw, utf8.RuneCountInString(line))
}

// flatten paints raw spans over a per-codepoint style array and reads the
// runs back out.
func flatten(raw []Span, n int) []Span {
	cells := make([]StyleID, n)
	for _, sp := range raw {
		end := min(sp.End(), n)
		for i := max(sp.Start, 0); i < end; i++ {
			cells[i] = sp.Style
		}
	}

	var out []Span
	for i := 0; i < n; {
		s := cells[i]
		j := i + 1
		for j < n && cells[j] == s {
			j++
		}
		if s != StyleNone {
			out = append(out, Span{Start: i, Length: j - i, Style: s})
		}
		i = j
	}
	return out
}

// runeOffsets returns a byte offset to codepoint offset converter for line.
func runeOffsets(line string) func(int) int {
	if isASCII(line) {
		return func(b int) int { return b }
	}
	idx := make([]int, len(line)+1)
	for b := range idx {
		idx[b] = -1
	}
	r := 0
	for b := range line {
		idx[b] = r
		r++
	}
	idx[len(line)] = r
	// A byte inside a multi-byte rune maps to that rune.
	for b := 1; b < len(line); b++ {
		if idx[b] < 0 {
			idx[b] = idx[b-1]
		}
	}
	return func(b int) int { return idx[b] }
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= utf8.RuneSelf {
			return false
		}
	}
	return true
}

// wordRule builds one whole-word, case-sensitive rule matching any of words.
func wordRule(style StyleID, words []string) RuleDef {
	quoted := make([]string, len(words))
	for i, w := range words {
		quoted[i] = regexp.QuoteMeta(w)
	}
	return RuleDef{Pattern: `\b(?:` + strings.Join(quoted, "|") + `)\b`, Style: style}
}

func normalizeExt(ext string) string {
	ext = strings.ToLower(ext)
	if ext != "" && ext[0] != '.' {
		ext = "." + ext
	}
	return ext
}
