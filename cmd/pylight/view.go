package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/dshills/pylight/internal/config"
	"github.com/dshills/pylight/internal/editor"
	"github.com/dshills/pylight/internal/renderer/backend"
	"github.com/dshills/pylight/internal/renderer/style"
)

func newViewCmd(a *app) *cobra.Command {
	var (
		theme string
		line  int
	)
	cmd := &cobra.Command{
		Use:   "view FILE",
		Short: "Open a read-only view of a source file",
		Long: `Open a full-screen, read-only view of a source file with syntax
highlighting, line numbers and a highlighted current line.

Keys: arrows or j/k move the caret, PgUp/PgDn page, g/G jump to the top
or bottom, z centers the caret line, / searches, n and N repeat the
search forward and backward, q or Esc quits. The mouse wheel scrolls and a
click moves the caret.

Without --theme the view follows the settings theme, including changes
made while it is open.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := a.openDocument(args[0], theme)
			if err != nil {
				return err
			}
			a.rememberFile(doc.Path)

			screen, err := backend.NewTerminal()
			if err != nil {
				return fmt.Errorf("creating terminal: %w", err)
			}
			if err := screen.Init(); err != nil {
				return fmt.Errorf("initializing terminal: %w", err)
			}
			defer screen.Shutdown()

			w, h := screen.Size()
			doc.Resize(float64(w), float64(h))
			if line > 0 {
				doc.SetCaret(line-1, 0)
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			viewer := editor.NewViewer(doc, screen, a.logger)
			if theme == "" {
				a.followTheme(ctx, viewer)
			}
			err = viewer.Run(ctx)
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		},
	}
	cmd.Flags().StringVarP(&theme, "theme", "t", "", "color theme: "+style.ThemeDark+", "+style.ThemeLight+" or "+style.ThemeDracula+" (default: settings theme)")
	cmd.Flags().IntVarP(&line, "line", "l", 0, "start with the caret on this 1-based line")
	return cmd
}

// followTheme switches the viewer's palette whenever the settings file
// changes its theme. Failures only disable the live update.
func (a *app) followTheme(ctx context.Context, viewer *editor.Viewer) {
	store, err := a.settingsStore()
	if err != nil {
		a.logger.Warn("theme changes will not be followed: %v", err)
		return
	}
	err = store.Watch(ctx, func(s config.Settings) {
		palette := style.PaletteByName(s.Theme)
		viewer.Apply(func(doc *editor.Document) {
			if doc.Palette().Name != palette.Name {
				doc.SetPalette(palette)
			}
		})
	})
	if err != nil {
		a.logger.Warn("theme changes will not be followed: %v", err)
	}
}

// rememberFile records path in the recent files. Failures are logged only.
func (a *app) rememberFile(path string) {
	store, err := a.settingsStore()
	if err != nil {
		a.logger.Warn("recent files not updated: %v", err)
		return
	}
	if err := store.AddRecentFile(path, time.Now()); err != nil {
		a.logger.Warn("recent files not updated: %v", err)
		return
	}
	if err := store.Save(); err != nil {
		a.logger.Warn("recent files not saved: %v", err)
	}
}
