package cmd

import (
	"github.com/spf13/cobra"

	"github.com/Iron-Ham/fsel/internal/selection"
)

func newClearCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove every path from the selection",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runClear(cmd)
		},
	}
}

func (a *app) runClear(cmd *cobra.Command) error {
	return a.sel.Clear(selection.ClearOptions{Force: a.force})
}
