package main

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/dshills/pylight/internal/config"
)

func newSettingsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Show or change user settings",
		Long: `Show or change the user settings: font size, tab size, theme and the
recent project and file lists.`,
	}
	cmd.AddCommand(
		newSettingsShowCmd(a),
		newSettingsSetCmd(a),
		newSettingsRecentCmd(a),
	)
	return cmd
}

func newSettingsShowCmd(a *app) *cobra.Command {
	var raw bool
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the current settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, err := a.settingsStore()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if raw {
				fmt.Fprintln(out, string(store.Raw()))
				return nil
			}
			s := store.Settings()
			fmt.Fprintf(out, "file:      %s\n", store.Path())
			fmt.Fprintf(out, "font_size: %d\n", s.FontSize)
			fmt.Fprintf(out, "tab_size:  %d\n", s.TabSize)
			fmt.Fprintf(out, "theme:     %s\n", s.Theme)
			fmt.Fprintf(out, "recent:    %d projects, %d files\n", len(s.RecentProjects), len(s.RecentFiles))
			return nil
		},
	}
	cmd.Flags().BoolVar(&raw, "raw", false, "print the JSON document as stored")
	return cmd
}

func newSettingsSetCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "set KEY VALUE",
		Short: "Change a setting",
		Long: `Change a setting and save the settings file.

font_size must be between 8 and 72, tab_size between 2 and 8, and theme one
of Dark, Light or Dracula. Other keys are stored as JSON when VALUE parses
as JSON and as a string otherwise.

Examples:
  pylight settings set font_size 14
  pylight settings set theme dracula`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := a.settingsStore()
			if err != nil {
				return err
			}
			if err := store.Set(args[0], args[1]); err != nil {
				return err
			}
			if err := store.Save(); err != nil {
				return err
			}
			a.logger.Info("set %s in %s", args[0], store.Path())
			return nil
		},
	}
}

func newSettingsRecentCmd(a *app) *cobra.Command {
	var (
		files  bool
		add    string
		remove string
	)
	cmd := &cobra.Command{
		Use:   "recent",
		Short: "List or edit recent projects",
		Long: `List recent projects, most recent first. With --files, list recently
opened files instead. --add and --remove edit the list.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, err := a.settingsStore()
			if err != nil {
				return err
			}

			if add != "" || remove != "" {
				if err := editRecent(store, files, add, remove); err != nil {
					return err
				}
				if err := store.Save(); err != nil {
					return err
				}
			}

			entries := store.RecentProjects()
			if files {
				entries = store.RecentFiles()
			}
			printRecent(cmd.OutOrStdout(), entries)
			return nil
		},
	}
	cmd.Flags().BoolVarP(&files, "files", "f", false, "use the recent files list")
	cmd.Flags().StringVar(&add, "add", "", "move PATH to the front of the list")
	cmd.Flags().StringVar(&remove, "remove", "", "drop PATH from the list")
	return cmd
}

func editRecent(store *config.Store, files bool, add, remove string) error {
	if remove != "" {
		drop := store.RemoveRecentProject
		if files {
			drop = store.RemoveRecentFile
		}
		if err := drop(remove); err != nil {
			return err
		}
	}
	if add != "" {
		push := store.AddRecentProject
		if files {
			push = store.AddRecentFile
		}
		if err := push(add, time.Now()); err != nil {
			return err
		}
	}
	return nil
}

func printRecent(w io.Writer, entries []config.RecentEntry) {
	if len(entries) == 0 {
		fmt.Fprintln(w, "no recent entries")
		return
	}
	for _, e := range entries {
		stamp := "-"
		if !e.LastOpened.IsZero() {
			stamp = e.LastOpened.Format(config.TimeFormat)
		}
		fmt.Fprintf(w, "%-19s  %-20s  %s\n", stamp, e.Name, e.Path)
	}
}
