package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Iron-Ham/fsel/internal/resolver"
	"github.com/Iron-Ham/fsel/internal/selection"
)

func newAddCmd(a *app) *cobra.Command {
	var exclude []string
	addCmd := &cobra.Command{
		Use:   "add [patterns...]",
		Short: "Add paths to the selection",
		Long: `Add paths to the selection. Each pattern is expanded like a shell glob,
with ~ expanding to the home directory. When stdin is not a terminal,
every line read from it is added as well.

Paths are stored in canonical absolute form; a path already in the
selection is skipped.`,
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runAdd(cmd, args, exclude, false)
		},
	}
	addCmd.Flags().StringArrayVarP(&exclude, "exclude", "x", nil, "skip candidates matching this glob (repeatable)")
	return addCmd
}

func newReplaceCmd(a *app) *cobra.Command {
	var exclude []string
	replaceCmd := &cobra.Command{
		Use:   "replace [patterns...]",
		Short: "Replace the selection with the given paths",
		Long:  `Empty the selection, then add paths to it exactly like 'fsel add'.`,
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runAdd(cmd, args, exclude, true)
		},
	}
	replaceCmd.Flags().StringArrayVarP(&exclude, "exclude", "x", nil, "skip candidates matching this glob (repeatable)")
	return replaceCmd
}

func (a *app) runAdd(cmd *cobra.Command, patterns, exclude []string, replace bool) error {
	r := resolver.New(
		resolver.WithStdin(cmd.InOrStdin()),
		resolver.WithExclude(exclude),
	)
	candidates, err := r.Candidates(patterns)
	if err != nil {
		return err
	}

	add := a.sel.Add
	if replace {
		add = a.sel.Replace
	}

	res, err := add(cmd.Context(), candidates, selection.AddOptions{Force: a.force})
	if err != nil {
		return err
	}
	if err := r.Err(); err != nil {
		return err
	}

	if !a.quiet {
		fmt.Fprintf(cmd.OutOrStdout(), "%d paths added / %d paths total\n", res.Added, res.Total)
	}
	return nil
}
