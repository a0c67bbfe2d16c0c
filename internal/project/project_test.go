package project

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreate_Kinds(t *testing.T) {
	tests := []struct {
		kind  Kind
		main  string
		files []string
	}{
		{KindPython, "src/main.py", []string{"src/main.py", "requirements.txt", "README.md", ".gitignore"}},
		{KindC, "src/main.c", []string{"src/main.c", "Makefile"}},
		{KindCpp, "src/main.cpp", []string{"src/main.cpp", "CMakeLists.txt"}},
		{KindJava, "src/Main.java", []string{"src/Main.java"}},
		{KindJavaScript, "src/js/main.js", []string{"src/index.html", "src/css/style.css", "src/js/main.js"}},
		{KindEmpty, "", nil},
	}

	for _, tt := range tests {
		t.Run(tt.kind.String(), func(t *testing.T) {
			root := t.TempDir()
			p, err := Create(root, "demo", tt.kind)
			require.NoError(t, err)

			assert.Equal(t, filepath.Join(root, "demo"), p.Root)
			assert.Equal(t, "demo", p.Manifest.Name)
			assert.Equal(t, tt.kind, p.Manifest.Kind)
			assert.Equal(t, BuildDebug, p.Manifest.BuildConfig)
			assert.Equal(t, tt.main, p.Manifest.Run.Main)

			for _, dir := range []string{"src", "tests", "docs"} {
				assert.DirExists(t, filepath.Join(p.Root, dir))
			}
			for _, f := range tt.files {
				assert.FileExists(t, filepath.Join(p.Root, filepath.FromSlash(f)))
			}
			assert.FileExists(t, ManifestPath(p.Root))
			if tt.main != "" {
				assert.FileExists(t, p.MainFile())
			} else {
				assert.Empty(t, p.MainFile())
			}
		})
	}
}

func TestCreate_SubstitutesName(t *testing.T) {
	p, err := Create(t.TempDir(), "rocket", KindCpp)
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(p.Root, "CMakeLists.txt"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "project(rocket)")
	assert.Contains(t, string(data), "add_executable(${PROJECT_NAME} src/main.cpp)")
	assert.NotContains(t, string(data), "{{name}}")
}

func TestCreate_Existing(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(root, "taken"), 0o755))

	_, err := Create(root, "taken", KindPython)
	assert.ErrorIs(t, err, ErrExists)

	var pe *PathError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, filepath.Join(root, "taken"), pe.Path)
}

func TestCreate_InvalidName(t *testing.T) {
	for _, name := range []string{"", "   ", "a/b", "what?", "---"} {
		_, err := Create(t.TempDir(), name, KindEmpty)
		assert.ErrorIs(t, err, ErrInvalidName, "name %q", name)
	}
	_, err := Create(t.TempDir(), "ok", Kind(99))
	assert.ErrorIs(t, err, ErrUnknownKind)
}

func TestLoad_RoundTrip(t *testing.T) {
	created, err := Create(t.TempDir(), "demo", KindJava)
	require.NoError(t, err)

	loaded, err := Load(created.Root)
	require.NoError(t, err)
	assert.Equal(t, created.Manifest.Name, loaded.Manifest.Name)
	assert.Equal(t, KindJava, loaded.Manifest.Kind)
	assert.Equal(t, "0.1.0", loaded.Manifest.Version)
	assert.True(t, created.Manifest.Created.Equal(loaded.Manifest.Created))
	assert.Equal(t, created.MainFile(), loaded.MainFile())

	data, err := os.ReadFile(ManifestPath(created.Root))
	require.NoError(t, err)
	assert.Contains(t, string(data), "kind: java")
}

func TestLoad_Missing(t *testing.T) {
	_, err := Load(t.TempDir())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestLoad_Defaults(t *testing.T) {
	root := filepath.Join(t.TempDir(), "legacy")
	require.NoError(t, os.MkdirAll(filepath.Join(root, ManifestDir), 0o755))
	require.NoError(t, os.WriteFile(ManifestPath(root), []byte("kind: py\nrun:\n  main: app.py\n"), 0o644))

	p, err := Load(root)
	require.NoError(t, err)
	assert.Equal(t, "legacy", p.Manifest.Name)
	assert.Equal(t, KindPython, p.Manifest.Kind)
	assert.Equal(t, BuildDebug, p.Manifest.BuildConfig)
	assert.Equal(t, filepath.Join(root, "app.py"), p.MainFile())
}

func TestLoad_BadManifest(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, ManifestDir), 0o755))
	require.NoError(t, os.WriteFile(ManifestPath(root), []byte("kind: cobol\n"), 0o644))

	_, err := Load(root)
	assert.ErrorIs(t, err, ErrUnknownKind)
}

func TestSetBuildConfig(t *testing.T) {
	p, err := Create(t.TempDir(), "demo", KindC)
	require.NoError(t, err)

	require.NoError(t, p.SetBuildConfig(BuildRelease))
	assert.Error(t, p.SetBuildConfig("fast"))

	loaded, err := Load(p.Root)
	require.NoError(t, err)
	assert.Equal(t, BuildRelease, loaded.Manifest.BuildConfig)
}

func TestParseKind(t *testing.T) {
	tests := map[string]Kind{
		"":           KindEmpty,
		"Python":     KindPython,
		"c":          KindC,
		"C++":        KindCpp,
		"cpp":        KindCpp,
		"java":       KindJava,
		"JS":         KindJavaScript,
		"web":        KindJavaScript,
		" empty ":    KindEmpty,
		"javascript": KindJavaScript,
	}
	for in, want := range tests {
		got, err := ParseKind(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseKind("rust")
	assert.ErrorIs(t, err, ErrUnknownKind)

	for _, k := range Kinds() {
		back, err := ParseKind(k.String())
		require.NoError(t, err)
		assert.Equal(t, k, back)
	}
	assert.True(t, strings.HasPrefix(Kind(42).String(), "Kind("))
}
