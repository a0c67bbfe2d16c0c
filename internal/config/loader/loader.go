// Package loader reads configuration sources into plain maps: TOML files
// and PYLIGHT_-prefixed environment variables. Maps from several sources are
// combined with DeepMerge before being decoded into typed config.
package loader

import (
	"io/fs"
	"os"
)

// Loader is the interface for configuration loaders.
type Loader interface {
	// Load reads configuration from the source and returns a map.
	// Returns nil, nil if the source doesn't exist (not an error).
	Load() (map[string]any, error)
}

// FileSystem is the file access a loader needs. Tests substitute an
// in-memory implementation.
type FileSystem interface {
	ReadFile(path string) ([]byte, error)
	Stat(path string) (fs.FileInfo, error)
}

// OSFS implements FileSystem using the real OS file system.
type OSFS struct{}

// ReadFile reads the entire file at path.
func (OSFS) ReadFile(path string) ([]byte, error) {
	return os.ReadFile(path)
}

// Stat returns file info for path.
func (OSFS) Stat(path string) (fs.FileInfo, error) {
	return os.Stat(path)
}

// DefaultFS returns the default file system (OS).
func DefaultFS() FileSystem {
	return OSFS{}
}
