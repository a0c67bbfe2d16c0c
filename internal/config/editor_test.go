package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/pylight/internal/config/loader"
	"github.com/dshills/pylight/internal/integration/process"
	"github.com/dshills/pylight/internal/log"
	"github.com/dshills/pylight/internal/renderer/gutter"
	"github.com/dshills/pylight/internal/renderer/highlight"
)

func writeEditorConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), EditorConfigFile)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func loadFile(t *testing.T, content string) *EditorConfig {
	t.Helper()
	cfg, err := LoadEditorConfigFrom(loader.NewTOMLLoader(writeEditorConfig(t, content)))
	require.NoError(t, err)
	return cfg
}

func TestLoadEditorConfig_Missing(t *testing.T) {
	cfg, err := LoadEditorConfigFrom(loader.NewTOMLLoader(filepath.Join(t.TempDir(), "none.toml")))
	require.NoError(t, err)

	level, err := cfg.LogLevel()
	require.NoError(t, err)
	assert.Equal(t, log.LevelInfo, level)
	assert.Equal(t, "", cfg.LogFile())
	assert.Equal(t, 4, cfg.TabWidth(4))

	g, err := cfg.Gutter(gutter.TerminalConfig())
	require.NoError(t, err)
	assert.Equal(t, gutter.TerminalConfig(), g)
}

func TestLoadEditorConfig_ParseError(t *testing.T) {
	path := writeEditorConfig(t, "[gutter]\npadding = = 1\n")
	_, err := LoadEditorConfig(path)

	var pe *ParseError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, path, pe.Path)
}

func TestLoadEditorConfig_EnvOverrides(t *testing.T) {
	path := writeEditorConfig(t, `
[log]
level = "warn"

[gutter]
padding = 1
lineMode = "absolute"
`)
	t.Setenv("PYLIGHT_LOG_LEVEL", "debug")
	t.Setenv("PYLIGHT_GUTTER_LINE_MODE", "relative")

	cfg, err := LoadEditorConfig(path)
	require.NoError(t, err)
	assert.Equal(t, path, cfg.Path())

	level, err := cfg.LogLevel()
	require.NoError(t, err)
	assert.Equal(t, log.LevelDebug, level)

	g, err := cfg.Gutter(gutter.TerminalConfig())
	require.NoError(t, err)
	assert.Equal(t, 1.0, g.Padding)
	assert.Equal(t, gutter.LineNumberRelative, g.Mode)
}

func TestEditorConfig_Accessors(t *testing.T) {
	cfg := loadFile(t, `
[log]
level = "error"
file = "/tmp/pylight.log"

[editor]
tabWidth = 2
`)
	level, err := cfg.LogLevel()
	require.NoError(t, err)
	assert.Equal(t, log.LevelError, level)
	assert.Equal(t, "/tmp/pylight.log", cfg.LogFile())
	assert.Equal(t, 2, cfg.TabWidth(4))

	_, err = cfg.GetInt("log.level")
	assert.ErrorIs(t, err, ErrTypeMismatch)
	_, err = cfg.GetString("log.missing")
	assert.ErrorIs(t, err, ErrSettingNotFound)
}

func TestEditorConfig_InvalidValues(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"negative padding", "[gutter]\npadding = -1\n"},
		{"bad mode", "[gutter]\nlineMode = \"sideways\"\n"},
		{"padding type", "[gutter]\npadding = \"wide\"\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := loadFile(t, tt.content)
			_, err := cfg.Gutter(gutter.TerminalConfig())
			assert.Error(t, err)
		})
	}

	cfg := loadFile(t, "[log]\nlevel = \"loud\"\n")
	_, err := cfg.LogLevel()
	assert.Error(t, err)
}

func TestEditorConfig_GutterPartial(t *testing.T) {
	base := gutter.TerminalConfig()

	// Absent keys report a wrapped not-found and keep the base value.
	_, err := loadFile(t, "").GetFloat("gutter.padding")
	assert.ErrorIs(t, err, ErrSettingNotFound)
	assert.Contains(t, err.Error(), "gutter.padding")

	cfg, err := loadFile(t, "[gutter]\nlineMode = \"relative\"\n").Gutter(base)
	require.NoError(t, err)
	assert.Equal(t, gutter.LineNumberRelative, cfg.Mode)
	assert.Equal(t, base.Padding, cfg.Padding)

	cfg, err = loadFile(t, "[gutter]\npadding = 3\n").Gutter(base)
	require.NoError(t, err)
	assert.Equal(t, 3.0, cfg.Padding)
	assert.Equal(t, base.Mode, cfg.Mode)

	level, err := loadFile(t, "[editor]\ntabWidth = 8\n").LogLevel()
	require.NoError(t, err)
	assert.Equal(t, log.LevelInfo, level)
}

func TestEditorConfig_Toolchains(t *testing.T) {
	cfg := loadFile(t, `
[[toolchain]]
language = "Python"
run = ["python3", "-u", "{file}"]

[[toolchain]]
language = "go"
extensions = [".go"]
run = ["go", "run", "{file}"]
`)
	chains, err := cfg.Toolchains(process.DefaultToolchains())
	require.NoError(t, err)
	require.Len(t, chains, len(process.DefaultToolchains())+1)

	py := chains[0]
	assert.Equal(t, []string{"python3", "-u", "/src/app.py"}, py.Run("/src/app.py"))
	assert.True(t, py.Handles("x.py"), "extensions kept when not overridden")

	goChain := chains[len(chains)-1]
	assert.Equal(t, "go", goChain.Language)
	assert.True(t, goChain.Handles("main.go"))
	assert.False(t, goChain.Compiled())
	assert.Equal(t, []string{"go", "run", "/src/main.go"}, goChain.Run("/src/main.go"))
}

func TestEditorConfig_ToolchainErrors(t *testing.T) {
	cfg := loadFile(t, "[[toolchain]]\nrun = [\"x\"]\n")
	_, err := cfg.Toolchains(nil)
	assert.ErrorIs(t, err, ErrValidationFailed)

	cfg = loadFile(t, "[[toolchain]]\nlanguage = \"x\"\nrun = [1, 2]\n")
	_, err = cfg.Toolchains(nil)
	assert.ErrorIs(t, err, ErrTypeMismatch)

	cfg = loadFile(t, "toolchain = \"nope\"\n")
	_, err = cfg.Toolchains(nil)
	assert.ErrorIs(t, err, ErrTypeMismatch)
}

func TestEditorConfig_Languages(t *testing.T) {
	cfg := loadFile(t, `
[[language]]
name = "lua"
extensions = [".lua"]
keywords = ["local", "function", "end"]
lineComment = "--"

[[language.rules]]
pattern = '\bTODO\b'
style = "comment"
`)
	reg, err := cfg.Registry()
	require.NoError(t, err)

	rs := reg.ConfigureForPath("init.lua")
	require.Equal(t, "lua", rs.Language())

	spans := highlight.HighlightLine("local x = 1 -- note", rs)
	require.NotEmpty(t, spans)
	assert.Equal(t, highlight.Span{Start: 0, Length: 5, Style: highlight.StyleKeyword}, spans[0])
	assert.Equal(t, highlight.StyleComment, highlight.StyleAt(spans, 14))

	_, ok := reg.Lookup("python")
	assert.True(t, ok, "built-in languages remain registered")
}

func TestEditorConfig_LanguageBadPattern(t *testing.T) {
	cfg := loadFile(t, `
[[language]]
name = "broken"
extensions = [".brk"]

[[language.rules]]
pattern = "(unclosed"
style = "keyword"
`)
	_, err := cfg.Registry()
	var ire *highlight.InvalidRuleError
	require.ErrorAs(t, err, &ire)
	assert.Equal(t, "broken", ire.Language)
	assert.Equal(t, "(unclosed", ire.Pattern)
}

func TestEditorConfig_LanguageBadStyle(t *testing.T) {
	cfg := loadFile(t, `
[[language]]
name = "x"

[[language.rules]]
pattern = "x"
style = "sparkly"
`)
	_, err := cfg.Registry()
	assert.ErrorIs(t, err, ErrValidationFailed)
}
