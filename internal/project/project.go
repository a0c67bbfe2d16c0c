package project

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// ManifestDir and ManifestFile locate the manifest inside a project root.
const (
	ManifestDir  = ".pylight"
	ManifestFile = "project.yaml"
)

// Standard directories every project gets.
var standardDirs = []string{"src", "tests", "docs"}

// Build configurations.
const (
	BuildDebug   = "debug"
	BuildRelease = "release"
)

// Manifest is the project description stored in .pylight/project.yaml.
type Manifest struct {
	Name        string    `yaml:"name"`
	Kind        Kind      `yaml:"kind"`
	Version     string    `yaml:"version"`
	Created     time.Time `yaml:"created"`
	BuildConfig string    `yaml:"build_config"`
	Run         RunConfig `yaml:"run"`
}

// RunConfig describes how the project's entry point is run.
type RunConfig struct {
	// Main is the entry file relative to the project root.
	Main string            `yaml:"main,omitempty"`
	Args []string          `yaml:"args,omitempty"`
	Env  map[string]string `yaml:"env,omitempty"`
}

// Project is a scaffolded directory with a manifest.
type Project struct {
	Root     string
	Manifest Manifest
}

// ManifestPath returns the manifest location for root.
func ManifestPath(root string) string {
	return filepath.Join(root, ManifestDir, ManifestFile)
}

// Create makes the project directory root/name with the standard
// directories, the starter files of kind and a manifest. It fails with
// ErrExists when the directory is already there.
func Create(root, name string, kind Kind) (*Project, error) {
	name = strings.TrimSpace(name)
	if err := ValidateFolderName(name); err != nil {
		return nil, err
	}
	if int(kind) >= len(kindNames) {
		return nil, fmt.Errorf("%w: %d", ErrUnknownKind, kind)
	}

	dir := filepath.Join(root, name)
	if _, err := os.Lstat(dir); err == nil {
		return nil, NewPathError("create", dir, ErrExists)
	} else if !errors.Is(err, fs.ErrNotExist) {
		return nil, NewPathError("create", dir, err)
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, NewPathError("mkdir", root, err)
	}
	if err := os.Mkdir(dir, 0o755); err != nil {
		if errors.Is(err, fs.ErrExist) {
			return nil, NewPathError("create", dir, ErrExists)
		}
		return nil, NewPathError("mkdir", dir, err)
	}

	for _, sub := range standardDirs {
		if err := os.MkdirAll(filepath.Join(dir, sub), 0o755); err != nil {
			return nil, NewPathError("mkdir", filepath.Join(dir, sub), err)
		}
	}

	sc := kind.scaffold()
	for _, tmpl := range sc.files {
		path := filepath.Join(dir, filepath.FromSlash(tmpl.path))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, NewPathError("mkdir", filepath.Dir(path), err)
		}
		content := strings.ReplaceAll(tmpl.content, "{{name}}", name)
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			return nil, NewPathError("write", path, err)
		}
	}

	p := &Project{
		Root: dir,
		Manifest: Manifest{
			Name:        name,
			Kind:        kind,
			Version:     "0.1.0",
			Created:     time.Now().Truncate(time.Second),
			BuildConfig: BuildDebug,
			Run:         RunConfig{Main: sc.main},
		},
	}
	if err := p.Save(); err != nil {
		return nil, err
	}
	return p, nil
}

// Load reads the manifest of the project at root.
func Load(root string) (*Project, error) {
	path := ManifestPath(root)
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, NewPathError("load", path, ErrNotFound)
	}
	if err != nil {
		return nil, NewPathError("load", path, err)
	}

	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, NewPathError("load", path, err)
	}
	if m.Name == "" {
		m.Name = filepath.Base(root)
	}
	if m.BuildConfig == "" {
		m.BuildConfig = BuildDebug
	}
	return &Project{Root: root, Manifest: m}, nil
}

// Save writes the manifest.
func (p *Project) Save() error {
	path := ManifestPath(p.Root)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return NewPathError("mkdir", filepath.Dir(path), err)
	}
	data, err := yaml.Marshal(&p.Manifest)
	if err != nil {
		return NewPathError("save", path, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return NewPathError("save", path, err)
	}
	return nil
}

// SetBuildConfig switches between debug and release and saves.
func (p *Project) SetBuildConfig(cfg string) error {
	if cfg != BuildDebug && cfg != BuildRelease {
		return fmt.Errorf("build config %q: must be %s or %s", cfg, BuildDebug, BuildRelease)
	}
	p.Manifest.BuildConfig = cfg
	return p.Save()
}

// MainFile returns the absolute entry file, or "" when none is set.
func (p *Project) MainFile() string {
	if p.Manifest.Run.Main == "" {
		return ""
	}
	return filepath.Join(p.Root, filepath.FromSlash(p.Manifest.Run.Main))
}
