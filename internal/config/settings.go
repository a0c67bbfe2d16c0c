package config

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/tidwall/gjson"
	"github.com/tidwall/pretty"
	"github.com/tidwall/sjson"

	"github.com/dshills/pylight/internal/config/watcher"
	"github.com/dshills/pylight/internal/log"
)

// Settings keys.
const (
	KeyFontSize       = "font_size"
	KeyTabSize        = "tab_size"
	KeyTheme          = "theme"
	KeyRecentProjects = "recent_projects"
	KeyRecentFiles    = "recent_files"
)

// Setting bounds and defaults.
const (
	MinFontSize     = 8
	MaxFontSize     = 72
	DefaultFontSize = 12

	MinTabSize     = 2
	MaxTabSize     = 8
	DefaultTabSize = 4

	DefaultTheme = "Dark"

	// MaxRecent is the length limit of each recent list.
	MaxRecent = 10

	// TimeFormat is the layout of last_opened timestamps.
	TimeFormat = "2006-01-02 15:04:05"
)

// Themes lists the accepted theme names.
var Themes = []string{"Dark", "Light", "Dracula"}

// Settings is a snapshot of the typed settings.
type Settings struct {
	FontSize       int
	TabSize        int
	Theme          string
	RecentProjects []RecentEntry
	RecentFiles    []RecentEntry
}

// RecentEntry is one item of a recent list.
type RecentEntry struct {
	Name       string
	Path       string
	LastOpened time.Time
}

type recentJSON struct {
	Name       string `json:"name"`
	Path       string `json:"path"`
	LastOpened string `json:"last_opened"`
}

// Store owns the settings document. It keeps the raw JSON in memory so
// that keys it does not interpret survive a save.
type Store struct {
	mu     sync.RWMutex
	path   string
	data   []byte
	logger *log.Logger
}

// StoreOption configures a Store.
type StoreOption func(*Store)

// WithStoreLogger sets the logger used by Watch.
func WithStoreLogger(l *log.Logger) StoreOption {
	return func(s *Store) {
		if l != nil {
			s.logger = l
		}
	}
}

// NewStore creates a store for the settings file at path. The store is
// empty until Load is called.
func NewStore(path string, opts ...StoreOption) *Store {
	s := &Store{
		path:   path,
		data:   []byte("{}"),
		logger: log.Discard(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// DefaultSettingsPath returns settings.json under the user config directory.
func DefaultSettingsPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("locating config directory: %w", err)
	}
	return filepath.Join(dir, "pylight", "settings.json"), nil
}

// Path returns the settings file path.
func (s *Store) Path() string {
	return s.path
}

// Load reads the settings file. A missing file leaves an empty document.
// A malformed file is reported as a *ParseError and the cache is kept.
func (s *Store) Load() error {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		s.mu.Lock()
		s.data = []byte("{}")
		s.mu.Unlock()
		return nil
	}
	if err != nil {
		return fmt.Errorf("reading settings: %w", err)
	}

	if len(bytes.TrimSpace(data)) == 0 {
		data = []byte("{}")
	}
	if err := validateDocument(s.path, data); err != nil {
		return err
	}

	s.mu.Lock()
	s.data = data
	s.mu.Unlock()
	return nil
}

func validateDocument(path string, data []byte) error {
	if gjson.ValidBytes(data) {
		if !gjson.ParseBytes(data).IsObject() {
			return &ParseError{Path: path, Message: "settings must be a JSON object"}
		}
		return nil
	}

	pe := &ParseError{Path: path, Message: "invalid JSON"}
	var v any
	var se *json.SyntaxError
	if err := json.Unmarshal(data, &v); errors.As(err, &se) {
		pe.Message = se.Error()
		pe.Err = se
		pe.Line, pe.Column = position(data, se.Offset)
	}
	return pe
}

// position converts a byte offset into a 1-based line and column.
func position(data []byte, offset int64) (line, col int) {
	if offset > int64(len(data)) {
		offset = int64(len(data))
	}
	before := data[:offset]
	line = bytes.Count(before, []byte("\n")) + 1
	col = int(offset) - bytes.LastIndexByte(before, '\n')
	return line, col
}

// Save writes the document atomically with four-space indentation.
func (s *Store) Save() error {
	s.mu.RLock()
	out := pretty.PrettyOptions(s.data, &pretty.Options{Width: 80, Indent: "    "})
	s.mu.RUnlock()

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating settings directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("saving settings: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(out); err != nil {
		tmp.Close()
		return fmt.Errorf("saving settings: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("saving settings: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("saving settings: %w", err)
	}
	return nil
}

// Raw returns a copy of the JSON document.
func (s *Store) Raw() []byte {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]byte(nil), s.data...)
}

// Settings returns the typed settings with read-side clamping applied.
func (s *Store) Settings() Settings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Settings{
		FontSize:       intSetting(s.data, KeyFontSize, DefaultFontSize, MinFontSize, MaxFontSize),
		TabSize:        intSetting(s.data, KeyTabSize, DefaultTabSize, MinTabSize, MaxTabSize),
		Theme:          themeSetting(s.data),
		RecentProjects: recentList(s.data, KeyRecentProjects),
		RecentFiles:    recentList(s.data, KeyRecentFiles),
	}
}

// FontSize returns the editor font size in points.
func (s *Store) FontSize() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return intSetting(s.data, KeyFontSize, DefaultFontSize, MinFontSize, MaxFontSize)
}

// TabSize returns the tab width in columns.
func (s *Store) TabSize() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return intSetting(s.data, KeyTabSize, DefaultTabSize, MinTabSize, MaxTabSize)
}

// Theme returns the canonical theme name.
func (s *Store) Theme() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return themeSetting(s.data)
}

func intSetting(data []byte, key string, def, lo, hi int) int {
	r := gjson.GetBytes(data, key)
	if r.Type != gjson.Number {
		return def
	}
	return max(lo, min(hi, int(r.Int())))
}

func themeSetting(data []byte) string {
	name, ok := canonicalTheme(gjson.GetBytes(data, KeyTheme).String())
	if !ok {
		return DefaultTheme
	}
	return name
}

func canonicalTheme(name string) (string, bool) {
	for _, t := range Themes {
		if strings.EqualFold(t, name) {
			return t, true
		}
	}
	return "", false
}

// SetFontSize stores a font size within MinFontSize..MaxFontSize.
func (s *Store) SetFontSize(n int) error {
	if n < MinFontSize || n > MaxFontSize {
		return &ValidationError{Key: KeyFontSize, Value: n,
			Message: fmt.Sprintf("must be between %d and %d", MinFontSize, MaxFontSize)}
	}
	return s.set(KeyFontSize, n)
}

// SetTabSize stores a tab width within MinTabSize..MaxTabSize.
func (s *Store) SetTabSize(n int) error {
	if n < MinTabSize || n > MaxTabSize {
		return &ValidationError{Key: KeyTabSize, Value: n,
			Message: fmt.Sprintf("must be between %d and %d", MinTabSize, MaxTabSize)}
	}
	return s.set(KeyTabSize, n)
}

// SetTheme stores one of Themes, matched case-insensitively.
func (s *Store) SetTheme(name string) error {
	canon, ok := canonicalTheme(name)
	if !ok {
		return &ValidationError{Key: KeyTheme, Value: name,
			Message: "must be one of " + strings.Join(Themes, ", ")}
	}
	return s.set(KeyTheme, canon)
}

// Get returns the raw JSON of key.
func (s *Store) Get(key string) (string, error) {
	if key == "" {
		return "", ErrInvalidPath
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	r := gjson.GetBytes(s.data, key)
	if !r.Exists() {
		return "", fmt.Errorf("%w: %s", ErrSettingNotFound, key)
	}
	return r.Raw, nil
}

// Set assigns a value given as text. Known keys go through their typed
// setters. For other keys, value is stored as JSON when it parses as JSON
// and as a string otherwise. Recent lists cannot be set directly.
func (s *Store) Set(key, value string) error {
	switch key {
	case "":
		return ErrInvalidPath
	case KeyFontSize, KeyTabSize:
		n, err := strconv.Atoi(strings.TrimSpace(value))
		if err != nil {
			return fmt.Errorf("%w: %s wants an integer, got %q", ErrTypeMismatch, key, value)
		}
		if key == KeyFontSize {
			return s.SetFontSize(n)
		}
		return s.SetTabSize(n)
	case KeyTheme:
		return s.SetTheme(value)
	case KeyRecentProjects, KeyRecentFiles:
		return fmt.Errorf("%w: %s", ErrReadOnly, key)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	var (
		data []byte
		err  error
	)
	if gjson.Valid(value) {
		data, err = sjson.SetRawBytes(s.data, key, []byte(value))
	} else {
		data, err = sjson.SetBytes(s.data, key, value)
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrInvalidPath, key, err)
	}
	s.data = data
	return nil
}

func (s *Store) set(key string, value any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, err := sjson.SetBytes(s.data, key, value)
	if err != nil {
		return fmt.Errorf("setting %s: %w", key, err)
	}
	s.data = data
	return nil
}

// RecentProjects returns the recent projects, most recent first.
func (s *Store) RecentProjects() []RecentEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return recentList(s.data, KeyRecentProjects)
}

// AddRecentProject moves path to the front of the recent projects, stamped
// with now. The list keeps at most MaxRecent entries, one per path.
func (s *Store) AddRecentProject(path string, now time.Time) error {
	return s.addRecent(KeyRecentProjects, path, now)
}

// RemoveRecentProject drops path from the recent projects.
func (s *Store) RemoveRecentProject(path string) error {
	return s.removeRecent(KeyRecentProjects, path)
}

// RecentFiles returns the recently opened files, most recent first.
func (s *Store) RecentFiles() []RecentEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return recentList(s.data, KeyRecentFiles)
}

// AddRecentFile moves path to the front of the recent files.
func (s *Store) AddRecentFile(path string, now time.Time) error {
	return s.addRecent(KeyRecentFiles, path, now)
}

// RemoveRecentFile drops path from the recent files.
func (s *Store) RemoveRecentFile(path string) error {
	return s.removeRecent(KeyRecentFiles, path)
}

func (s *Store) addRecent(key, path string, now time.Time) error {
	if path == "" {
		return &ValidationError{Key: key, Value: path, Message: "path must not be empty"}
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	entries := []recentJSON{{
		Name:       filepath.Base(path),
		Path:       path,
		LastOpened: now.Format(TimeFormat),
	}}
	for _, e := range rawRecent(s.data, key) {
		if e.Path != path {
			entries = append(entries, e)
		}
	}
	if len(entries) > MaxRecent {
		entries = entries[:MaxRecent]
	}
	return s.setRecentLocked(key, entries)
}

func (s *Store) removeRecent(key, path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries := []recentJSON{}
	for _, e := range rawRecent(s.data, key) {
		if e.Path != path {
			entries = append(entries, e)
		}
	}
	return s.setRecentLocked(key, entries)
}

func (s *Store) setRecentLocked(key string, entries []recentJSON) error {
	data, err := sjson.SetBytes(s.data, key, entries)
	if err != nil {
		return fmt.Errorf("setting %s: %w", key, err)
	}
	s.data = data
	return nil
}

// rawRecent reads a recent list, skipping malformed items.
func rawRecent(data []byte, key string) []recentJSON {
	var out []recentJSON
	gjson.GetBytes(data, key).ForEach(func(_, item gjson.Result) bool {
		path := item.Get("path").String()
		if !item.IsObject() || path == "" {
			return true
		}
		name := item.Get("name").String()
		if name == "" {
			name = filepath.Base(path)
		}
		out = append(out, recentJSON{
			Name:       name,
			Path:       path,
			LastOpened: item.Get("last_opened").String(),
		})
		return true
	})
	return out
}

func recentList(data []byte, key string) []RecentEntry {
	raw := rawRecent(data, key)
	out := make([]RecentEntry, 0, len(raw))
	for _, e := range raw {
		// An unparsable stamp leaves the zero time.
		t, _ := time.ParseInLocation(TimeFormat, e.LastOpened, time.Local)
		out = append(out, RecentEntry{Name: e.Name, Path: e.Path, LastOpened: t})
	}
	return out
}

// Watch reloads the store whenever the settings file changes on disk and
// passes the new snapshot to onChange. It returns once the watch is set
// up; watching stops when ctx is done.
func (s *Store) Watch(ctx context.Context, onChange func(Settings)) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("creating settings directory: %w", err)
	}
	w, err := watcher.New(watcher.Config{Paths: []string{s.path}})
	if err != nil {
		return err
	}
	changes, err := w.Start()
	if err != nil {
		w.Stop()
		return err
	}

	logger := s.logger.WithComponent("settings")
	go func() {
		defer w.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case err := <-w.Errors():
				logger.Warn("watch error: %v", err)
			case <-changes:
				if err := s.Load(); err != nil {
					logger.Warn("reload failed: %v", err)
					continue
				}
				logger.Debug("reloaded %s", s.path)
				if onChange != nil {
					onChange(s.Settings())
				}
			}
		}
	}()
	return nil
}
