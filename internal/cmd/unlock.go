package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Iron-Ham/fsel/internal/lockfile"
	"github.com/Iron-Ham/fsel/internal/present"
)

const unlockPrompt = `Other instance of "fsel" acquired lock. Release existing lock? [Y/N] `

func newUnlockCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "unlock",
		Short: "Release a lock left by another invocation",
		Long: `Release a lock left by another invocation, usually one that was killed.
You are asked for confirmation unless --force is given.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runUnlock(cmd)
		},
	}
}

func (a *app) runUnlock(cmd *cobra.Command) error {
	out := cmd.OutOrStdout()

	state := a.sel.LockState()
	a.logger.Debug("lock state before unlock", "state", state.String())

	var confirm func() bool
	if !a.force {
		confirm = func() bool {
			if state == lockfile.StateHeldLive {
				fmt.Fprintln(out, "The lock is held by a running fsel process.")
			}
			return present.Confirm(cmd.InOrStdin(), out, unlockPrompt)
		}
	}

	res, err := a.sel.Unlock(confirm)
	if err != nil {
		return err
	}

	switch res {
	case lockfile.UnlockNothingToDo:
		fmt.Fprintln(out, "No lock file found")
	case lockfile.UnlockRemoved:
		fmt.Fprintln(out, "Lock file removed")
	}
	return nil
}
