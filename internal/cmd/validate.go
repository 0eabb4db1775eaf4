package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Iron-Ham/fsel/internal/present"
	"github.com/Iron-Ham/fsel/internal/selection"
)

func newValidateCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Check that every selected path still exists",
		Long: `Check that every selected path still exists. Exits with status 1 when
at least one path is missing.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runValidate(cmd)
		},
	}
}

func (a *app) runValidate(cmd *cobra.Command) error {
	out := cmd.OutOrStdout()
	marks := present.NewMarks(a.colorEnabled(cmd))

	res, err := a.sel.Validate(selection.ValidateOptions{Force: a.force}, func(path string, ok bool) {
		fmt.Fprintln(out, marks.Line(path, ok))
	})
	if err != nil {
		return err
	}

	if !a.quiet {
		fmt.Fprintf(out, "Total: %d valid, %d invalid\n", res.Valid, res.Invalid)
	}
	if !res.OK() {
		return &ExitError{Code: 1}
	}
	return nil
}
