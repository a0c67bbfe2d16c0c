package process

import (
	"path/filepath"
	"runtime"
	"strings"
)

// Toolchain knows how to build and run one language. Build is nil for
// interpreted languages.
type Toolchain struct {
	Language   string
	Extensions []string

	// Build returns the compile command for path, or is nil.
	Build func(path string) []string

	// Run returns the command that runs path (or the binary built from it).
	Run func(path string) []string
}

// Compiled reports whether the toolchain has a build step.
func (tc Toolchain) Compiled() bool {
	return tc.Build != nil
}

// Handles reports whether tc accepts path's extension.
func (tc Toolchain) Handles(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range tc.Extensions {
		if strings.ToLower(e) == ext {
			return true
		}
	}
	return false
}

// BinaryPath is the executable a compiled language produces for path: the
// file name without its extension, next to the source, with .exe on Windows.
func BinaryPath(path string) string {
	bin := strings.TrimSuffix(path, filepath.Ext(path))
	if runtime.GOOS == "windows" {
		bin += ".exe"
	}
	return bin
}

// DefaultToolchains returns the built-in languages.
func DefaultToolchains() []Toolchain {
	return []Toolchain{
		{
			Language:   "Python",
			Extensions: []string{".py"},
			Run:        func(path string) []string { return []string{"python", path} },
		},
		{
			Language:   "C++",
			Extensions: []string{".cpp", ".cxx", ".cc"},
			Build: func(path string) []string {
				return []string{"g++", "-std=c++17", "-Wall", path, "-o", BinaryPath(path)}
			},
			Run: func(path string) []string { return []string{BinaryPath(path)} },
		},
		{
			Language:   "C",
			Extensions: []string{".c"},
			Build: func(path string) []string {
				return []string{"gcc", "-Wall", path, "-o", BinaryPath(path)}
			},
			Run: func(path string) []string { return []string{BinaryPath(path)} },
		},
		{
			Language:   "Java",
			Extensions: []string{".java"},
			Build:      func(path string) []string { return []string{"javac", path} },
			Run: func(path string) []string {
				class := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
				return []string{"java", "-cp", filepath.Dir(path), class}
			},
		},
		{
			Language:   "JavaScript",
			Extensions: []string{".js"},
			Run:        func(path string) []string { return []string{"node", path} },
		},
	}
}

// Template turns a command template into a command builder. Arguments may
// use the placeholders {file}, {dir}, {name} and {bin}. An empty template
// yields nil.
func Template(args []string) func(path string) []string {
	if len(args) == 0 {
		return nil
	}
	tmpl := append([]string(nil), args...)
	return func(path string) []string {
		r := strings.NewReplacer(
			"{file}", path,
			"{dir}", filepath.Dir(path),
			"{name}", strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)),
			"{bin}", BinaryPath(path),
		)
		out := make([]string, len(tmpl))
		for i, a := range tmpl {
			out[i] = r.Replace(a)
		}
		return out
	}
}

// Override replaces the commands of the toolchain for language (matched
// case-insensitively), or appends a new one when none matches. Empty
// templates keep the existing command.
func Override(chains []Toolchain, tc Toolchain) []Toolchain {
	out := append([]Toolchain(nil), chains...)
	for i := range out {
		if !strings.EqualFold(out[i].Language, tc.Language) {
			continue
		}
		if tc.Build != nil {
			out[i].Build = tc.Build
		}
		if tc.Run != nil {
			out[i].Run = tc.Run
		}
		if len(tc.Extensions) > 0 {
			out[i].Extensions = tc.Extensions
		}
		return out
	}
	return append(out, tc)
}
