package highlight

import (
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"sync"
)

// Patterns shared by every built-in language.
const (
	patternDoubleQuoted = `"[^"\\]*(\\.[^"\\]*)*"`
	patternSingleQuoted = `'[^'\\]*(\\.[^'\\]*)*'`
	patternInteger      = `\b\d+\b`
	patternDecorator    = `@\w+`
	patternPreprocessor = `#\w+`
)

// LanguageDef describes a language in terms of word lists and a few
// switches. BuildLanguage turns it into a RuleSet with the standard ordering.
type LanguageDef struct {
	Name       string
	Extensions []string

	// Keywords are matched as whole, case-sensitive words.
	Keywords []string
	// Builtins are standard-library names styled apart from user identifiers.
	Builtins []string

	// Decorators enables the @word rule (Python decorators, Java annotations).
	Decorators bool
	// Preprocessor enables the #word rule (C, C++).
	Preprocessor bool

	// LineComment is the single-line comment leader, e.g. "#" or "//".
	LineComment string

	// Extra rules run after every standard rule and so take precedence.
	Extra []RuleDef
}

// BuildLanguage compiles def. Rules are ordered keywords, builtins,
// decorators or preprocessor, strings, comment, integers, extras.
func BuildLanguage(def LanguageDef) (RuleSet, error) {
	return NewRuleSet(def.Name, def.Extensions, def.ruleDefs())
}

func (def LanguageDef) ruleDefs() []RuleDef {
	var defs []RuleDef
	if len(def.Keywords) > 0 {
		defs = append(defs, wordRule(StyleKeyword, def.Keywords))
	}
	if len(def.Builtins) > 0 {
		defs = append(defs, wordRule(StyleBuiltin, def.Builtins))
	}
	if def.Decorators {
		defs = append(defs, RuleDef{Pattern: patternDecorator, Style: StyleDecorator})
	}
	if def.Preprocessor {
		defs = append(defs, RuleDef{Pattern: patternPreprocessor, Style: StylePreprocessor})
	}
	defs = append(defs,
		RuleDef{Pattern: patternDoubleQuoted, Style: StyleString},
		RuleDef{Pattern: patternSingleQuoted, Style: StyleString},
	)
	if def.LineComment != "" {
		defs = append(defs, RuleDef{Pattern: regexp.QuoteMeta(def.LineComment) + `[^\n]*`, Style: StyleComment})
	}
	defs = append(defs, RuleDef{Pattern: patternInteger, Style: StyleNumber})
	return append(defs, def.Extra...)
}

func mustLanguage(def LanguageDef) RuleSet {
	return mustRuleSet(def.Name, def.Extensions, def.ruleDefs())
}

// PythonLanguage returns the Python definition.
func PythonLanguage() LanguageDef {
	return LanguageDef{
		Name:       "python",
		Extensions: []string{".py", ".pyw"},
		Keywords: []string{
			"and", "as", "assert", "break", "class", "continue", "def",
			"del", "elif", "else", "except", "False", "finally", "for",
			"from", "global", "if", "import", "in", "is", "lambda", "None",
			"nonlocal", "not", "or", "pass", "raise", "return", "True",
			"try", "while", "with", "yield",
		},
		Builtins:    mustBuiltinWords("python-" + PythonBuiltinsVersion),
		Decorators:  true,
		LineComment: "#",
	}
}

// CppLanguage returns the C++ definition.
func CppLanguage() LanguageDef {
	return LanguageDef{
		Name:       "cpp",
		Extensions: []string{".cpp", ".cxx", ".cc", ".hpp", ".h"},
		Keywords: []string{
			"alignas", "alignof", "and", "and_eq", "asm", "auto", "bitand",
			"bitor", "bool", "break", "case", "catch", "char", "char8_t",
			"char16_t", "char32_t", "class", "compl", "concept", "const",
			"consteval", "constexpr", "constinit", "const_cast", "continue",
			"co_await", "co_return", "co_yield", "decltype", "default",
			"delete", "do", "double", "dynamic_cast", "else", "enum",
			"explicit", "export", "extern", "false", "float", "for",
			"friend", "goto", "if", "inline", "int", "long", "mutable",
			"namespace", "new", "noexcept", "not", "not_eq", "nullptr",
			"operator", "or", "or_eq", "private", "protected", "public",
			"register", "reinterpret_cast", "requires", "return", "short",
			"signed", "sizeof", "static", "static_assert", "static_cast",
			"struct", "switch", "template", "this", "thread_local", "throw",
			"true", "try", "typedef", "typeid", "typename", "union",
			"unsigned", "using", "virtual", "void", "volatile", "wchar_t",
			"while", "xor", "xor_eq",
		},
		Preprocessor: true,
		LineComment:  "//",
	}
}

// CLanguage returns the C definition.
func CLanguage() LanguageDef {
	return LanguageDef{
		Name:       "c",
		Extensions: []string{".c"},
		Keywords: []string{
			"auto", "break", "case", "char", "const", "continue", "default",
			"do", "double", "else", "enum", "extern", "float", "for", "goto",
			"if", "inline", "int", "long", "register", "restrict", "return",
			"short", "signed", "sizeof", "static", "struct", "switch",
			"typedef", "union", "unsigned", "void", "volatile", "while",
			"_Alignas", "_Alignof", "_Atomic", "_Bool", "_Complex",
			"_Generic", "_Imaginary", "_Noreturn", "_Static_assert",
			"_Thread_local",
		},
		Preprocessor: true,
		LineComment:  "//",
	}
}

// JavaLanguage returns the Java definition.
func JavaLanguage() LanguageDef {
	return LanguageDef{
		Name:       "java",
		Extensions: []string{".java"},
		Keywords: []string{
			"abstract", "assert", "boolean", "break", "byte", "case", "catch",
			"char", "class", "const", "continue", "default", "do", "double",
			"else", "enum", "extends", "final", "finally", "float", "for",
			"if", "implements", "import", "instanceof", "int", "interface",
			"long", "native", "new", "package", "private", "protected",
			"public", "return", "short", "static", "strictfp", "super",
			"switch", "synchronized", "this", "throw", "throws", "transient",
			"try", "void", "volatile", "while", "true", "false", "null",
		},
		Decorators:  true,
		LineComment: "//",
	}
}

// JavaScriptLanguage returns the JavaScript definition.
func JavaScriptLanguage() LanguageDef {
	return LanguageDef{
		Name:       "javascript",
		Extensions: []string{".js", ".mjs", ".cjs"},
		Keywords: []string{
			"async", "await", "break", "case", "catch", "class", "const",
			"continue", "debugger", "default", "delete", "do", "else",
			"export", "extends", "false", "finally", "for", "function", "if",
			"import", "in", "instanceof", "let", "new", "null", "return",
			"super", "switch", "this", "throw", "true", "try", "typeof",
			"undefined", "var", "void", "while", "with", "yield",
		},
		Builtins: []string{
			"Array", "Boolean", "Date", "Error", "JSON", "Map", "Math",
			"Number", "Object", "Promise", "RegExp", "Set", "String",
			"Symbol", "console", "parseFloat", "parseInt", "require",
		},
		LineComment: "//",
	}
}

// Registry maps language ids and file extensions to rule sets.
type Registry struct {
	mu sync.RWMutex

	byLanguage  map[string]RuleSet
	byExtension map[string]RuleSet
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		byLanguage:  make(map[string]RuleSet),
		byExtension: make(map[string]RuleSet),
	}
}

// DefaultRegistry returns a registry holding the built-in languages.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	for _, rs := range builtinSets() {
		r.Register(rs)
	}
	return r
}

// Register adds or replaces a rule set. Its extensions are claimed too.
func (r *Registry) Register(rs RuleSet) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.byLanguage[strings.ToLower(rs.language)] = rs
	for _, ext := range rs.extensions {
		r.byExtension[ext] = rs
	}
}

// Lookup returns the rule set for a language id.
func (r *Registry) Lookup(language string) (RuleSet, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rs, ok := r.byLanguage[strings.ToLower(language)]
	return rs, ok
}

// LookupExtension returns the rule set for a file extension, with or
// without its leading dot.
func (r *Registry) LookupExtension(ext string) (RuleSet, bool) {
	if ext == "" {
		return RuleSet{}, false
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	rs, ok := r.byExtension[normalizeExt(ext)]
	return rs, ok
}

// Configure returns the rule set for language, or an empty set.
func (r *Registry) Configure(language string) RuleSet {
	rs, _ := r.Lookup(language)
	return rs
}

// ConfigureForPath picks the rule set by the path's extension.
func (r *Registry) ConfigureForPath(path string) RuleSet {
	rs, _ := r.LookupExtension(filepath.Ext(path))
	return rs
}

// Languages returns the registered language ids, sorted.
func (r *Registry) Languages() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	langs := make([]string, 0, len(r.byLanguage))
	for lang := range r.byLanguage {
		langs = append(langs, lang)
	}
	sort.Strings(langs)
	return langs
}

var (
	builtinOnce sync.Once
	builtin     []RuleSet
	builtinReg  *Registry
)

func builtinSets() []RuleSet {
	builtinOnce.Do(func() {
		builtin = []RuleSet{
			mustLanguage(PythonLanguage()),
			mustLanguage(CppLanguage()),
			mustLanguage(CLanguage()),
			mustLanguage(JavaLanguage()),
			mustLanguage(JavaScriptLanguage()),
		}
		builtinReg = NewRegistry()
		for _, rs := range builtin {
			builtinReg.Register(rs)
		}
	})
	return builtin
}

// Configure returns the built-in rule set for languageID. Unknown ids yield
// an empty set, which renders as plain text.
func Configure(languageID string) RuleSet {
	builtinSets()
	return builtinReg.Configure(languageID)
}

// ConfigureForPath returns the built-in rule set for a file path.
func ConfigureForPath(path string) RuleSet {
	builtinSets()
	return builtinReg.ConfigureForPath(path)
}
