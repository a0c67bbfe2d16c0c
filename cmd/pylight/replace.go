package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dshills/pylight/internal/engine/buffer"
)

func newReplaceCmd(a *app) *cobra.Command {
	var (
		opts   buffer.FindOptions
		dryRun bool
	)
	cmd := &cobra.Command{
		Use:   "replace FILE FIND REPLACEMENT",
		Short: "Replace every occurrence of a text in a file",
		Long: `Replace every occurrence of FIND in FILE with REPLACEMENT and save the
file. Matching is literal and case-insensitive unless --case is given.
Neither text may contain a line break.

Examples:
  pylight replace main.py count total
  pylight replace --case --word src/Main.java Foo Bar
  pylight replace --dry-run notes.txt TODO DONE`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, query, with := args[0], args[1], args[2]
			doc, err := a.openDocument(path, "")
			if err != nil {
				return err
			}

			if dryRun {
				n := len(doc.FindAll(query, opts))
				fmt.Fprintf(cmd.OutOrStdout(), "Would replace %d occurrences\n", n)
				return nil
			}
			n, err := doc.ReplaceAll(query, with, opts)
			if err != nil {
				return err
			}
			if n > 0 {
				if err := doc.Save(); err != nil {
					return err
				}
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Replaced %d occurrences\n", n)
			return nil
		},
	}
	cmd.Flags().BoolVar(&opts.CaseSensitive, "case", false, "match case")
	cmd.Flags().BoolVarP(&opts.WholeWord, "word", "w", false, "match whole words only")
	cmd.Flags().BoolVarP(&dryRun, "dry-run", "n", false, "count matches without changing the file")
	return cmd
}
