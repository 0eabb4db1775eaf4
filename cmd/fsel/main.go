package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/Iron-Ham/fsel/internal/cmd"
)

var version = "0.1.0-dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := cmd.Execute(ctx, version)
	stop()

	if err != nil {
		if msg := cmd.ErrorMessage(err); msg != "" {
			fmt.Fprintf(os.Stderr, "Error: %s\n", msg)
		}
		if hint := cmd.ErrorHint(err); hint != "" {
			fmt.Fprintln(os.Stderr, hint)
		}
		os.Exit(cmd.ExitCode(err))
	}
}
