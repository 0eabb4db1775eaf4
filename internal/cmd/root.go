package cmd

import (
	"context"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/term"

	"github.com/Iron-Ham/fsel/internal/config"
	"github.com/Iron-Ham/fsel/internal/errors"
	"github.com/Iron-Ham/fsel/internal/logging"
	"github.com/Iron-Ham/fsel/internal/selection"
)

// app is the per-invocation state shared by every command.
type app struct {
	v       *viper.Viper
	cfg     *config.Config
	logger  *logging.Logger
	sel     *selection.Selection
	cfgFile string
	quiet   bool
	force   bool
}

// NewRootCommand builds the fsel command tree.
func NewRootCommand(version string) *cobra.Command {
	rootCmd, _ := newRoot(version)
	return rootCmd
}

// Execute runs the fsel command tree with ctx and the process arguments.
func Execute(ctx context.Context, version string) error {
	rootCmd, a := newRoot(version)
	return a.execute(ctx, rootCmd)
}

func (a *app) execute(ctx context.Context, rootCmd *cobra.Command) error {
	defer a.teardown()

	err := rootCmd.ExecuteContext(ctx)
	if err != nil {
		a.logFailure(err)
	}
	return err
}

func newRoot(version string) (*cobra.Command, *app) {
	a := &app{v: viper.New()}
	var rf rootFlags

	rootCmd := &cobra.Command{
		Use:   "fsel [-qscfruvl] [paths...]",
		Short: "Build up a persistent selection of file paths",
		Long: `fsel keeps a deduplicated list of absolute paths that survives across
invocations. Add paths from arguments or a pipe, then list, sort,
validate or clear the selection.

Without a subcommand the short flags pick the operation:
  fsel <paths...>          add paths (also reads piped stdin)
  fsel -r <paths...>       replace the selection
  fsel                     list the selection (-s sorted, -l long format)
  fsel -c                  clear the selection
  fsel -u                  release a stale lock
  fsel -v                  check that every selected path still exists`,
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.dispatch(cmd, ResolveKind(rf, len(args)), args, rf)
		},
	}

	// Global flags
	rootCmd.PersistentFlags().BoolVarP(&a.quiet, "quiet", "q", false, "suppress summary output")
	rootCmd.PersistentFlags().BoolVarP(&a.force, "force", "f", false, "remove an existing lock before proceeding")
	rootCmd.PersistentFlags().StringVar(&a.cfgFile, "config", "", "config file (default is $HOME/.config/fsel/config.yaml)")

	// Short flags that select an operation when no subcommand is given
	rootCmd.Flags().BoolVarP(&rf.Sort, "sort", "s", false, "sort listed paths")
	rootCmd.Flags().BoolVarP(&rf.Clear, "clear", "c", false, "clear the selection")
	rootCmd.Flags().BoolVarP(&rf.Replace, "replace", "r", false, "replace the selection with the given paths")
	rootCmd.Flags().BoolVarP(&rf.Unlock, "unlock", "u", false, "release an existing lock")
	rootCmd.Flags().BoolVarP(&rf.Validate, "validate", "v", false, "validate selected paths")
	rootCmd.Flags().BoolVarP(&rf.Long, "long", "l", false, "list in long format")

	rootCmd.AddCommand(
		newAddCmd(a),
		newReplaceCmd(a),
		newListCmd(a),
		newClearCmd(a),
		newUnlockCmd(a),
		newValidateCmd(a),
		newConfigCmd(a),
		newLogsCmd(a),
		newVersionCmd(version),
	)

	return rootCmd, a
}

func (a *app) initConfig() error {
	// Set defaults first so they're available even without a config file
	config.SetDefaults(a.v)

	if a.cfgFile != "" {
		a.v.SetConfigFile(a.cfgFile)
	} else {
		a.v.SetConfigName("config")
		a.v.SetConfigType("yaml")
		a.v.AddConfigPath(config.ConfigDir())
	}

	a.v.AutomaticEnv()
	a.v.SetEnvPrefix("FSEL")
	// Replace dots with underscores for nested keys in env vars
	// e.g., FSEL_SELECTION_STATE_DIR for selection.state_dir
	a.v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := a.v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		// An explicit --config file must exist; the default one is optional
		if a.cfgFile != "" || !errors.As(err, &notFound) {
			return errors.Wrap(err, "read config")
		}
	}
	return nil
}

func (a *app) setup(cmd *cobra.Command) error {
	if err := a.initConfig(); err != nil {
		return err
	}

	cfg, err := config.Load(a.v)
	if err != nil {
		return err
	}
	a.cfg = cfg

	uid := os.Getuid()
	a.logger = logging.NopLogger()
	if cfg.Logging.Enabled {
		logger, err := logging.NewLogger(cfg.LogFile(uid), cfg.Logging.Level, logging.RotationConfig{
			MaxSizeMB:  cfg.Logging.MaxSizeMB,
			MaxBackups: cfg.Logging.MaxBackups,
		})
		if err != nil {
			return errors.Wrapf(err, "open log %s", cfg.LogFile(uid))
		}
		a.logger = logger.WithCommand(cmd.Name())
	}

	a.sel = selection.New(cfg.StatePaths(uid),
		selection.WithLogger(a.logger),
		selection.WithErrorOutput(cmd.ErrOrStderr()),
	)
	return nil
}

// logFailure records the error that ends the invocation. Per-item failures
// are warnings; anything that aborted the command is an error.
func (a *app) logFailure(err error) {
	if a.logger == nil {
		return
	}
	severity := errors.GetSeverity(err)
	args := []any{"error", err.Error(), "severity", severity.String(), "retryable", errors.IsRetryable(err)}
	if severity == errors.SeverityWarning {
		a.logger.Warn("command failed", args...)
		return
	}
	a.logger.Error("command failed", args...)
}

func (a *app) teardown() {
	if a.logger != nil {
		_ = a.logger.Close()
	}
}

// colorEnabled reports whether validation marks should be styled.
func (a *app) colorEnabled(cmd *cobra.Command) bool {
	if !a.cfg.Output.Color {
		return false
	}
	f, ok := cmd.OutOrStdout().(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
