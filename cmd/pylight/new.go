package main

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/dshills/pylight/internal/project"
)

func newNewCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "new",
		Short: "Create a project, file or folder",
	}
	cmd.AddCommand(
		newProjectCmd(a),
		newFileCmd(),
		newFolderCmd(),
	)
	return cmd
}

func newProjectCmd(a *app) *cobra.Command {
	var kind string
	cmd := &cobra.Command{
		Use:   "project ROOT NAME",
		Short: "Scaffold a new project",
		Long: `Create ROOT/NAME with src, tests and docs folders, starter files for the
chosen kind and a .pylight/project.yaml manifest. The project is added to
the recent projects.

Kinds: ` + kindList() + `

Examples:
  pylight new project ~/code hello --kind python
  pylight new project . engine --kind c++`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			k, err := project.ParseKind(kind)
			if err != nil {
				return err
			}
			root, err := filepath.Abs(args[0])
			if err != nil {
				return err
			}
			p, err := project.Create(root, args[1], k)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created %s project %s\n", p.Manifest.Kind, p.Root)
			if entry := p.MainFile(); entry != "" {
				fmt.Fprintf(cmd.OutOrStdout(), "Entry point: %s\n", entry)
			}

			store, err := a.settingsStore()
			if err == nil {
				err = store.AddRecentProject(p.Root, time.Now())
			}
			if err == nil {
				err = store.Save()
			}
			if err != nil {
				a.logger.Warn("recent projects not updated: %v", err)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&kind, "kind", "k", "empty", "project kind: "+kindList())
	return cmd
}

func newFileCmd() *cobra.Command {
	var fileType string
	cmd := &cobra.Command{
		Use:   "file DIR NAME",
		Short: "Create an empty file",
		Long: `Create an empty file in DIR. NAME may include subfolders, which are
created as needed. --type appends the extension of a known file type, or
use --ext for any other.

Types: ` + fileTypeList(),
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ext, _ := cmd.Flags().GetString("ext")
			if fileType != "" {
				known, ok := project.FileTypes[strings.ToLower(fileType)]
				if !ok {
					return fmt.Errorf("unknown file type %q (one of %s)", fileType, fileTypeList())
				}
				ext = known
			}
			path, err := project.NewFile(args[0], args[1], ext)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	}
	cmd.Flags().StringVarP(&fileType, "type", "t", "", "file type: "+fileTypeList())
	cmd.Flags().StringP("ext", "e", "", "custom extension, e.g. .rs")
	return cmd
}

func newFolderCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "folder DIR NAME",
		Short: "Create a folder",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := project.NewFolder(args[0], args[1])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	}
}

func kindList() string {
	names := make([]string, 0, len(project.Kinds()))
	for _, k := range project.Kinds() {
		names = append(names, k.String())
	}
	return strings.Join(names, ", ")
}

func fileTypeList() string {
	names := make([]string, 0, len(project.FileTypes))
	for name := range project.FileTypes {
		names = append(names, name)
	}
	sort.Strings(names)
	return strings.Join(names, ", ")
}
