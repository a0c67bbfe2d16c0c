package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

func newStore(t *testing.T, content string) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "settings.json")
	if content != "" {
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	s := NewStore(path)
	require.NoError(t, s.Load())
	return s
}

func TestStore_Defaults(t *testing.T) {
	s := newStore(t, "")

	got := s.Settings()
	assert.Equal(t, DefaultFontSize, got.FontSize)
	assert.Equal(t, DefaultTabSize, got.TabSize)
	assert.Equal(t, DefaultTheme, got.Theme)
	assert.Empty(t, got.RecentProjects)
	assert.Empty(t, got.RecentFiles)
}

func TestStore_ReadClamps(t *testing.T) {
	tests := []struct {
		name    string
		content string
		font    int
		tab     int
		theme   string
	}{
		{"in range", `{"font_size": 14, "tab_size": 2, "theme": "Light"}`, 14, 2, "Light"},
		{"too small", `{"font_size": 1, "tab_size": 0}`, MinFontSize, MinTabSize, "Dark"},
		{"too large", `{"font_size": 400, "tab_size": 80}`, MaxFontSize, MaxTabSize, "Dark"},
		{"wrong types", `{"font_size": "big", "tab_size": true, "theme": 3}`, DefaultFontSize, DefaultTabSize, "Dark"},
		{"theme case", `{"theme": "dracula"}`, DefaultFontSize, DefaultTabSize, "Dracula"},
		{"unknown theme", `{"theme": "Solarized"}`, DefaultFontSize, DefaultTabSize, "Dark"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newStore(t, tt.content)
			assert.Equal(t, tt.font, s.FontSize())
			assert.Equal(t, tt.tab, s.TabSize())
			assert.Equal(t, tt.theme, s.Theme())
		})
	}
}

func TestStore_LoadInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")
	require.NoError(t, os.WriteFile(path, []byte("{\n  \"font_size\": 14,\n  oops\n}"), 0o644))

	s := NewStore(path)
	err := s.Load()
	var pe *ParseError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, path, pe.Path)
	assert.Equal(t, 3, pe.Line)

	require.NoError(t, os.WriteFile(path, []byte(`[1, 2]`), 0o644))
	require.ErrorAs(t, s.Load(), &pe)
}

func TestStore_LoadInvalidKeepsCache(t *testing.T) {
	s := newStore(t, `{"font_size": 20}`)
	require.NoError(t, os.WriteFile(s.Path(), []byte("{"), 0o644))

	assert.Error(t, s.Load())
	assert.Equal(t, 20, s.FontSize())
}

func TestStore_Setters(t *testing.T) {
	s := newStore(t, "")

	require.NoError(t, s.SetFontSize(16))
	require.NoError(t, s.SetTabSize(8))
	require.NoError(t, s.SetTheme("LIGHT"))

	assert.Equal(t, 16, s.FontSize())
	assert.Equal(t, 8, s.TabSize())
	assert.Equal(t, "Light", s.Theme())

	var ve *ValidationError
	err := s.SetFontSize(7)
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, KeyFontSize, ve.Key)
	assert.ErrorIs(t, err, ErrValidationFailed)

	assert.ErrorIs(t, s.SetTabSize(9), ErrValidationFailed)
	assert.ErrorIs(t, s.SetTheme("Monokai"), ErrValidationFailed)
	assert.Equal(t, 16, s.FontSize(), "rejected value must not be stored")
}

func TestStore_SetText(t *testing.T) {
	s := newStore(t, "")

	require.NoError(t, s.Set("font_size", " 18 "))
	require.NoError(t, s.Set("theme", "dracula"))
	require.NoError(t, s.Set("wrap", "true"))
	require.NoError(t, s.Set("font_family", "Fira Code"))
	require.NoError(t, s.Set("panels.left", `{"width": 30}`))

	assert.Equal(t, 18, s.FontSize())
	assert.Equal(t, "Dracula", s.Theme())

	raw, err := s.Get("wrap")
	require.NoError(t, err)
	assert.Equal(t, "true", raw)

	raw, err = s.Get("font_family")
	require.NoError(t, err)
	assert.Equal(t, `"Fira Code"`, raw)

	raw, err = s.Get("panels.left.width")
	require.NoError(t, err)
	assert.Equal(t, "30", raw)

	assert.ErrorIs(t, s.Set("tab_size", "wide"), ErrTypeMismatch)
	assert.ErrorIs(t, s.Set("recent_projects", "[]"), ErrReadOnly)
	assert.ErrorIs(t, s.Set("", "x"), ErrInvalidPath)

	_, err = s.Get("missing")
	assert.ErrorIs(t, err, ErrSettingNotFound)
}

func TestStore_SavePreservesUnknownKeys(t *testing.T) {
	s := newStore(t, `{"font_size": 12, "plugins": {"vim": true}, "window": [800, 600]}`)
	require.NoError(t, s.SetTabSize(2))
	require.NoError(t, s.Save())

	data, err := os.ReadFile(s.Path())
	require.NoError(t, err)
	assert.True(t, gjson.GetBytes(data, "plugins.vim").Bool())
	assert.Equal(t, int64(600), gjson.GetBytes(data, "window.1").Int())
	assert.Equal(t, int64(2), gjson.GetBytes(data, "tab_size").Int())
	assert.Contains(t, string(data), "\n    \"font_size\"", "saved with four-space indent")

	reloaded := NewStore(s.Path())
	require.NoError(t, reloaded.Load())
	assert.Equal(t, 2, reloaded.TabSize())
}

func TestStore_SaveIsAtomic(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "pylight")
	s := NewStore(filepath.Join(dir, "settings.json"))
	require.NoError(t, s.Load())
	require.NoError(t, s.SetTheme("Dracula"))
	require.NoError(t, s.Save())

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1, "temporary file left behind")
	assert.Equal(t, "settings.json", entries[0].Name())
}

func TestStore_AddRecentProject(t *testing.T) {
	s := newStore(t, "")
	base := time.Date(2024, 5, 1, 9, 30, 0, 0, time.Local)

	require.NoError(t, s.AddRecentProject("/work/alpha", base))
	require.NoError(t, s.AddRecentProject("/work/beta", base.Add(time.Minute)))
	require.NoError(t, s.AddRecentProject("/work/alpha", base.Add(2*time.Minute)))

	got := s.RecentProjects()
	require.Len(t, got, 2)
	assert.Equal(t, "/work/alpha", got[0].Path)
	assert.Equal(t, "alpha", got[0].Name)
	assert.True(t, got[0].LastOpened.Equal(base.Add(2*time.Minute)))
	assert.Equal(t, "/work/beta", got[1].Path)

	raw, err := s.Get("recent_projects.0.last_opened")
	require.NoError(t, err)
	assert.Equal(t, `"2024-05-01 09:32:00"`, raw)
}

func TestStore_RecentLimit(t *testing.T) {
	s := newStore(t, "")
	now := time.Now()
	for i := 0; i < MaxRecent+5; i++ {
		require.NoError(t, s.AddRecentProject(fmt.Sprintf("/p/%02d", i), now))
	}

	got := s.RecentProjects()
	require.Len(t, got, MaxRecent)
	assert.Equal(t, "/p/14", got[0].Path)
	assert.Equal(t, "/p/05", got[MaxRecent-1].Path)
}

func TestStore_RemoveRecent(t *testing.T) {
	s := newStore(t, "")
	now := time.Now()
	require.NoError(t, s.AddRecentProject("/a", now))
	require.NoError(t, s.AddRecentProject("/b", now))
	require.NoError(t, s.AddRecentFile("/a/main.py", now))

	require.NoError(t, s.RemoveRecentProject("/a"))
	require.NoError(t, s.RemoveRecentProject("/missing"))

	got := s.RecentProjects()
	require.Len(t, got, 1)
	assert.Equal(t, "/b", got[0].Path)
	require.Len(t, s.RecentFiles(), 1, "lists are independent")

	require.NoError(t, s.RemoveRecentFile("/a/main.py"))
	assert.Empty(t, s.RecentFiles())
}

func TestStore_RecentSkipsMalformed(t *testing.T) {
	s := newStore(t, `{"recent_projects": [
		{"name": "ok", "path": "/ok", "last_opened": "2024-01-02 03:04:05"},
		"junk",
		{"name": "nopath"},
		{"path": "/bad-time", "last_opened": "yesterday"}
	]}`)

	got := s.RecentProjects()
	require.Len(t, got, 2)
	assert.Equal(t, "/ok", got[0].Path)
	assert.Equal(t, 2024, got[0].LastOpened.Year())
	assert.Equal(t, "bad-time", got[1].Name)
	assert.True(t, got[1].LastOpened.IsZero())
}

func TestStore_AddRecentEmptyPath(t *testing.T) {
	s := newStore(t, "")
	err := s.AddRecentProject("", time.Now())
	assert.True(t, errors.Is(err, ErrValidationFailed))
}

func TestStore_Watch(t *testing.T) {
	s := newStore(t, `{"font_size": 12}`)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	changed := make(chan Settings, 4)
	require.NoError(t, s.Watch(ctx, func(st Settings) { changed <- st }))

	other := NewStore(s.Path())
	require.NoError(t, other.Load())
	require.NoError(t, other.SetFontSize(30))
	require.NoError(t, other.Save())

	select {
	case st := <-changed:
		assert.Equal(t, 30, st.FontSize)
		assert.Equal(t, 30, s.FontSize())
	case <-time.After(3 * time.Second):
		t.Fatal("settings change not observed")
	}
}
