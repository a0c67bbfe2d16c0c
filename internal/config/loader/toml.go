package loader

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/pelletier/go-toml/v2"
)

// TOMLLoader loads configuration from TOML files.
type TOMLLoader struct {
	fs   FileSystem
	path string
}

// NewTOMLLoader creates a new TOML loader for the given path.
func NewTOMLLoader(path string) *TOMLLoader {
	return &TOMLLoader{
		fs:   DefaultFS(),
		path: path,
	}
}

// NewTOMLLoaderWithFS creates a TOML loader with a custom file system.
func NewTOMLLoaderWithFS(fs FileSystem, path string) *TOMLLoader {
	return &TOMLLoader{
		fs:   fs,
		path: path,
	}
}

// Path returns the configured path.
func (l *TOMLLoader) Path() string {
	return l.path
}

// Load reads configuration from the configured path.
func (l *TOMLLoader) Load() (map[string]any, error) {
	return l.LoadFrom(l.path)
}

// LoadFrom reads configuration from a specific path. A missing file yields
// nil, nil.
func (l *TOMLLoader) LoadFrom(path string) (map[string]any, error) {
	data, err := l.fs.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading config file %s: %w", path, err)
	}
	return parse(path, data)
}

// LoadFromReader reads configuration from an io.Reader.
func (l *TOMLLoader) LoadFromReader(r io.Reader) (map[string]any, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	return parse("<reader>", data)
}

func parse(source string, data []byte) (map[string]any, error) {
	var config map[string]any
	if err := toml.Unmarshal(data, &config); err != nil {
		pe := &ParseError{Path: source, Message: err.Error(), Err: err}
		var de *toml.DecodeError
		if errors.As(err, &de) {
			pe.Line, pe.Column = de.Position()
		}
		return nil, pe
	}
	return config, nil
}

// ParseError represents an error while parsing a configuration file.
type ParseError struct {
	Path    string
	Line    int
	Column  int
	Message string
	Err     error
}

func (e *ParseError) Error() string {
	if e.Line > 0 && e.Column > 0 {
		return fmt.Sprintf("parse error in %s at line %d, column %d: %s", e.Path, e.Line, e.Column, e.Message)
	}
	if e.Line > 0 {
		return fmt.Sprintf("parse error in %s at line %d: %s", e.Path, e.Line, e.Message)
	}
	return fmt.Sprintf("parse error in %s: %s", e.Path, e.Message)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// DeepMerge recursively merges src into dst.
// Values in src override values in dst.
// Maps are merged recursively; other types are replaced.
func DeepMerge(dst, src map[string]any) map[string]any {
	if dst == nil {
		dst = make(map[string]any)
	}
	for key, srcVal := range src {
		srcMap, srcIsMap := srcVal.(map[string]any)
		dstMap, dstIsMap := dst[key].(map[string]any)
		if srcIsMap && dstIsMap {
			dst[key] = DeepMerge(dstMap, srcMap)
			continue
		}
		dst[key] = srcVal
	}
	return dst
}
