package main

import (
	"fmt"

	"github.com/dshills/pylight/internal/config"
	"github.com/dshills/pylight/internal/editor"
	"github.com/dshills/pylight/internal/renderer/gutter"
	"github.com/dshills/pylight/internal/renderer/style"
)

// preferences reads the theme and tab size from the settings store. An
// unreadable store falls back to the defaults with a warning.
func (a *app) preferences() (theme string, tabSize int) {
	store, err := a.settingsStore()
	if err != nil {
		a.logger.Warn("settings unavailable, using defaults: %v", err)
		return config.DefaultTheme, config.DefaultTabSize
	}
	return store.Theme(), store.TabSize()
}

// openDocument opens path with the registry, gutter and tab settings from
// the editor configuration. An empty theme uses the settings theme.
func (a *app) openDocument(path, theme string) (*editor.Document, error) {
	settingsTheme, tabSize := a.preferences()
	if theme == "" {
		theme = settingsTheme
	}

	reg, err := a.cfg.Registry()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", a.cfg.Path(), err)
	}
	gcfg, err := a.cfg.Gutter(gutter.TerminalConfig())
	if err != nil {
		return nil, fmt.Errorf("%s: %w", a.cfg.Path(), err)
	}

	opts := editor.DefaultOptions()
	opts.Registry = reg
	opts.Gutter = gcfg
	opts.Palette = style.PaletteByName(theme)
	opts.TabWidth = a.cfg.TabWidth(tabSize)
	opts.Logger = a.logger

	doc, err := editor.Open(path, opts)
	if err != nil {
		return nil, err
	}
	a.logger.Debug("opened %s as %q, %d lines", path, doc.Language(), doc.LineCount())
	return doc, nil
}
