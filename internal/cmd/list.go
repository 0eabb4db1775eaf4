package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/Iron-Ham/fsel/internal/present"
	"github.com/Iron-Ham/fsel/internal/selection"
)

type listFlags struct {
	sort  bool
	clear bool
	long  bool
}

func newListCmd(a *app) *cobra.Command {
	var lf listFlags
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "Print the selected paths",
		Long: `Print the selected paths in the order they were added.

With --clear the selection is removed after every path has been printed.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runList(cmd, lf)
		},
	}
	listCmd.Flags().BoolVarP(&lf.sort, "sort", "s", false, "sort paths byte-wise")
	listCmd.Flags().BoolVarP(&lf.clear, "clear", "c", false, "clear the selection after listing")
	listCmd.Flags().BoolVarP(&lf.long, "long", "l", false, "show details like ls -l")
	return listCmd
}

func (a *app) runList(cmd *cobra.Command, lf listFlags) error {
	out := cmd.OutOrStdout()
	now := time.Now()

	opts := selection.ListOptions{Sort: lf.sort, ClearAfter: lf.clear, Force: a.force}
	for path, err := range a.sel.List(opts) {
		if err != nil {
			return err
		}
		if lf.long {
			if _, err := fmt.Fprintln(out, present.StatLine(path, now)); err != nil {
				return err
			}
			continue
		}
		if err := present.Plain(out, path); err != nil {
			return err
		}
	}
	return nil
}
