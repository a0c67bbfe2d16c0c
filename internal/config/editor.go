package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dshills/pylight/internal/config/loader"
	"github.com/dshills/pylight/internal/integration/process"
	"github.com/dshills/pylight/internal/log"
	"github.com/dshills/pylight/internal/renderer/gutter"
	"github.com/dshills/pylight/internal/renderer/highlight"
)

// EditorConfigFile is the editor configuration file name.
const EditorConfigFile = "pylight.toml"

// EditorConfig is the merged editor configuration: the TOML file with
// environment overrides on top.
type EditorConfig struct {
	path string
	data map[string]any
}

// DefaultEditorConfigPath returns pylight.toml under the user config directory.
func DefaultEditorConfigPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("locating config directory: %w", err)
	}
	return filepath.Join(dir, "pylight", EditorConfigFile), nil
}

// LoadEditorConfig reads path and applies PYLIGHT_ environment overrides.
// A missing file yields the defaults.
func LoadEditorConfig(path string) (*EditorConfig, error) {
	return LoadEditorConfigFrom(loader.NewTOMLLoader(path), loader.NewEnvLoader(loader.EnvPrefix))
}

// LoadEditorConfigFrom merges the given loaders in order. Nil loaders are
// skipped.
func LoadEditorConfigFrom(loaders ...loader.Loader) (*EditorConfig, error) {
	c := &EditorConfig{data: make(map[string]any)}
	for _, l := range loaders {
		if l == nil {
			continue
		}
		if tl, ok := l.(*loader.TOMLLoader); ok && c.path == "" {
			c.path = tl.Path()
		}
		data, err := l.Load()
		if err != nil {
			return nil, err
		}
		if data != nil {
			c.data = loader.DeepMerge(c.data, data)
		}
	}
	return c, nil
}

// Path returns the file the configuration was read from, if any.
func (c *EditorConfig) Path() string {
	return c.path
}

// Merged returns the merged configuration map.
func (c *EditorConfig) Merged() map[string]any {
	return c.data
}

// Get returns the raw value at a dot-separated path.
func (c *EditorConfig) Get(path string) (any, bool) {
	return getPath(c.data, path)
}

// GetString returns a string setting.
func (c *EditorConfig) GetString(path string) (string, error) {
	v, ok := c.Get(path)
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrSettingNotFound, path)
	}
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("%w: %s is %s, not string", ErrTypeMismatch, path, typeName(v))
	}
	return s, nil
}

// GetInt returns an integer setting.
func (c *EditorConfig) GetInt(path string) (int, error) {
	v, ok := c.Get(path)
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrSettingNotFound, path)
	}
	switch n := v.(type) {
	case int64:
		return int(n), nil
	case int:
		return n, nil
	case float64:
		if n == float64(int(n)) {
			return int(n), nil
		}
	}
	return 0, fmt.Errorf("%w: %s is %s, not int", ErrTypeMismatch, path, typeName(v))
}

// GetFloat returns a numeric setting.
func (c *EditorConfig) GetFloat(path string) (float64, error) {
	v, ok := c.Get(path)
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrSettingNotFound, path)
	}
	switch n := v.(type) {
	case float64:
		return n, nil
	case int64:
		return float64(n), nil
	case int:
		return float64(n), nil
	}
	return 0, fmt.Errorf("%w: %s is %s, not float64", ErrTypeMismatch, path, typeName(v))
}

// GetStringSlice returns a string array setting.
func (c *EditorConfig) GetStringSlice(path string) ([]string, error) {
	v, ok := c.Get(path)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrSettingNotFound, path)
	}
	return stringSlice(path, v)
}

// LogLevel returns log.level, or info when unset.
func (c *EditorConfig) LogLevel() (log.Level, error) {
	s, err := c.GetString("log.level")
	if errors.Is(err, ErrSettingNotFound) {
		return log.LevelInfo, nil
	}
	if err != nil {
		return log.LevelInfo, err
	}
	return log.ParseLevel(s)
}

// LogFile returns log.file, or "" for stderr.
func (c *EditorConfig) LogFile() string {
	s, _ := c.GetString("log.file")
	return s
}

// TabWidth returns editor.tabWidth, or def when unset or invalid.
func (c *EditorConfig) TabWidth(def int) int {
	n, err := c.GetInt("editor.tabWidth")
	if err != nil || n < 1 {
		return def
	}
	return n
}

// Gutter applies the [gutter] table to base.
func (c *EditorConfig) Gutter(base gutter.Config) (gutter.Config, error) {
	cfg := base
	if p, err := c.GetFloat("gutter.padding"); err == nil {
		if p < 0 {
			return base, &ValidationError{Key: "gutter.padding", Value: p, Message: "must not be negative"}
		}
		cfg.Padding = p
	} else if !errors.Is(err, ErrSettingNotFound) {
		return base, err
	}

	if s, err := c.GetString("gutter.lineMode"); err == nil {
		mode, ok := gutter.ParseLineNumberMode(s)
		if !ok {
			return base, &ValidationError{Key: "gutter.lineMode", Value: s,
				Message: "must be absolute, relative or hybrid"}
		}
		cfg.Mode = mode
	} else if !errors.Is(err, ErrSettingNotFound) {
		return base, err
	}
	return cfg, nil
}

// Toolchains applies the [[toolchain]] tables to base. Each table names a
// language and may give extensions and build or run command templates.
func (c *EditorConfig) Toolchains(base []process.Toolchain) ([]process.Toolchain, error) {
	tables, err := c.tables("toolchain")
	if err != nil {
		return nil, err
	}
	out := base
	for i, t := range tables {
		where := fmt.Sprintf("toolchain[%d]", i)
		lang, _ := t["language"].(string)
		if lang == "" {
			return nil, &ValidationError{Key: where + ".language", Value: t["language"], Message: "required"}
		}
		exts, err := optionalStrings(t, where, "extensions")
		if err != nil {
			return nil, err
		}
		build, err := optionalStrings(t, where, "build")
		if err != nil {
			return nil, err
		}
		run, err := optionalStrings(t, where, "run")
		if err != nil {
			return nil, err
		}
		out = process.Override(out, process.Toolchain{
			Language:   lang,
			Extensions: exts,
			Build:      process.Template(build),
			Run:        process.Template(run),
		})
	}
	return out, nil
}

// Registry returns the built-in languages plus the [[language]] tables.
// A pattern that does not compile is reported as *highlight.InvalidRuleError.
func (c *EditorConfig) Registry() (*highlight.Registry, error) {
	reg := highlight.DefaultRegistry()
	defs, err := c.Languages()
	if err != nil {
		return nil, err
	}
	for _, def := range defs {
		rs, err := highlight.BuildLanguage(def)
		if err != nil {
			return nil, err
		}
		reg.Register(rs)
	}
	return reg, nil
}

// Languages decodes the [[language]] tables.
func (c *EditorConfig) Languages() ([]highlight.LanguageDef, error) {
	tables, err := c.tables("language")
	if err != nil {
		return nil, err
	}
	defs := make([]highlight.LanguageDef, 0, len(tables))
	for i, t := range tables {
		where := fmt.Sprintf("language[%d]", i)
		def := highlight.LanguageDef{}
		def.Name, _ = t["name"].(string)
		if def.Name == "" {
			return nil, &ValidationError{Key: where + ".name", Value: t["name"], Message: "required"}
		}
		if def.Extensions, err = optionalStrings(t, where, "extensions"); err != nil {
			return nil, err
		}
		if def.Keywords, err = optionalStrings(t, where, "keywords"); err != nil {
			return nil, err
		}
		if def.Builtins, err = optionalStrings(t, where, "builtins"); err != nil {
			return nil, err
		}
		def.LineComment, _ = t["lineComment"].(string)
		def.Decorators, _ = t["decorators"].(bool)
		def.Preprocessor, _ = t["preprocessor"].(bool)

		rules, _ := t["rules"].([]any)
		for j, r := range rules {
			rm, ok := r.(map[string]any)
			key := fmt.Sprintf("%s.rules[%d]", where, j)
			if !ok {
				return nil, fmt.Errorf("%w: %s is %s, not table", ErrTypeMismatch, key, typeName(r))
			}
			pattern, _ := rm["pattern"].(string)
			styleName, _ := rm["style"].(string)
			style, ok := highlight.ParseStyleID(styleName)
			if pattern == "" || !ok {
				return nil, &ValidationError{Key: key, Value: rm,
					Message: "needs a pattern and a known style"}
			}
			def.Extra = append(def.Extra, highlight.RuleDef{Pattern: pattern, Style: style})
		}
		defs = append(defs, def)
	}
	return defs, nil
}

// tables returns an array of tables, or nil when key is absent.
func (c *EditorConfig) tables(key string) ([]map[string]any, error) {
	v, ok := c.data[key]
	if !ok {
		return nil, nil
	}
	var items []any
	switch t := v.(type) {
	case []any:
		items = t
	case []map[string]any:
		return t, nil
	default:
		return nil, fmt.Errorf("%w: %s is %s, not array of tables", ErrTypeMismatch, key, typeName(v))
	}
	out := make([]map[string]any, 0, len(items))
	for i, item := range items {
		m, ok := item.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("%w: %s[%d] is %s, not table", ErrTypeMismatch, key, i, typeName(item))
		}
		out = append(out, m)
	}
	return out, nil
}

func optionalStrings(t map[string]any, where, key string) ([]string, error) {
	v, ok := t[key]
	if !ok {
		return nil, nil
	}
	return stringSlice(where+"."+key, v)
}

func stringSlice(path string, v any) ([]string, error) {
	switch s := v.(type) {
	case []string:
		return append([]string(nil), s...), nil
	case []any:
		out := make([]string, 0, len(s))
		for _, item := range s {
			str, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("%w: %s holds %s, not string", ErrTypeMismatch, path, typeName(item))
			}
			out = append(out, str)
		}
		return out, nil
	}
	return nil, fmt.Errorf("%w: %s is %s, not []string", ErrTypeMismatch, path, typeName(v))
}

// getPath retrieves a value from a nested map using a dot-separated path.
func getPath(m map[string]any, path string) (any, bool) {
	parts := splitPath(path)
	if len(parts) == 0 {
		return nil, false
	}

	current := any(m)
	for _, part := range parts {
		cm, ok := current.(map[string]any)
		if !ok {
			return nil, false
		}
		if current, ok = cm[part]; !ok {
			return nil, false
		}
	}
	return current, true
}

// splitPath splits a dot-separated path into its non-empty parts.
func splitPath(path string) []string {
	var parts []string
	for _, p := range strings.Split(path, ".") {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return parts
}

// typeName returns the type name for error messages.
func typeName(v any) string {
	if v == nil {
		return "nil"
	}
	switch v.(type) {
	case string:
		return "string"
	case int, int64:
		return "int"
	case float64:
		return "float64"
	case bool:
		return "bool"
	case []string:
		return "[]string"
	case []any:
		return "[]any"
	case map[string]any:
		return "map"
	default:
		return "unknown"
	}
}
