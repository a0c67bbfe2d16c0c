package loader

import (
	"os"
	"strconv"
	"strings"
)

// EnvPrefix is the prefix of every environment override.
const EnvPrefix = "PYLIGHT_"

// EnvLoader loads configuration from environment variables.
type EnvLoader struct {
	prefix  string            // Environment variable prefix, with trailing underscore
	mapping map[string]string // Env var -> config path
}

// NewEnvLoader creates a loader for variables starting with prefix.
func NewEnvLoader(prefix string) *EnvLoader {
	return &EnvLoader{
		prefix:  prefix,
		mapping: defaultEnvMapping(prefix),
	}
}

// NewEnvLoaderWithMapping creates a loader with custom environment variable mappings.
func NewEnvLoaderWithMapping(prefix string, mapping map[string]string) *EnvLoader {
	return &EnvLoader{
		prefix:  prefix,
		mapping: mapping,
	}
}

// defaultEnvMapping names the variables whose config path does not follow
// from the variable name.
func defaultEnvMapping(prefix string) map[string]string {
	return map[string]string{
		prefix + "LOG_LEVEL": "log.level",
		prefix + "LOG_FILE":  "log.file",
	}
}

// Ignored lists variables that are read directly by the CLI rather than
// merged into the config tree.
var Ignored = map[string]bool{
	EnvPrefix + "CONFIG":   true,
	EnvPrefix + "SETTINGS": true,
}

// Load reads environment variables and returns a configuration map.
// Empty values are kept, not treated as unset.
func (l *EnvLoader) Load() (map[string]any, error) {
	config := make(map[string]any)

	for env, path := range l.mapping {
		if val, ok := os.LookupEnv(env); ok {
			setByPath(config, path, parseValue(val))
		}
	}

	for _, env := range os.Environ() {
		name, value, ok := strings.Cut(env, "=")
		if !ok || !strings.HasPrefix(name, l.prefix) {
			continue
		}
		if _, mapped := l.mapping[name]; mapped || Ignored[name] {
			continue
		}
		setByPath(config, l.envToPath(name), parseValue(value))
	}

	if len(config) == 0 {
		return nil, nil
	}
	return config, nil
}

// AddMapping adds a custom environment variable mapping.
func (l *EnvLoader) AddMapping(envVar, configPath string) {
	if l.mapping == nil {
		l.mapping = make(map[string]string)
	}
	l.mapping[envVar] = configPath
}

// envToPath converts PYLIGHT_GUTTER_LINE_MODE to gutter.lineMode: the first
// word is the section, the rest is the camelCase key.
func (l *EnvLoader) envToPath(env string) string {
	parts := strings.Split(strings.TrimPrefix(env, l.prefix), "_")
	section := strings.ToLower(parts[0])
	if len(parts) == 1 {
		return section
	}

	key := strings.ToLower(parts[1])
	for _, part := range parts[2:] {
		if part != "" {
			key += strings.ToUpper(part[:1]) + strings.ToLower(part[1:])
		}
	}
	return section + "." + key
}

// parseValue converts s to a bool, int or float where it looks like one.
func parseValue(s string) any {
	switch strings.ToLower(s) {
	case "true", "yes", "on":
		return true
	case "false", "no", "off":
		return false
	}
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return i
	}
	if strings.Contains(s, ".") {
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return f
		}
	}
	return s
}

// setByPath sets a value in a nested map using a dot-separated path.
func setByPath(data map[string]any, path string, value any) {
	parts := strings.Split(path, ".")
	current := data
	for _, part := range parts[:len(parts)-1] {
		next, ok := current[part].(map[string]any)
		if !ok {
			next = make(map[string]any)
			current[part] = next
		}
		current = next
	}
	current[parts[len(parts)-1]] = value
}
