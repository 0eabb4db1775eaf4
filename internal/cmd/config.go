package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/Iron-Ham/fsel/internal/config"
)

func newConfigCmd(a *app) *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "View fsel configuration",
		Long: `View fsel configuration.

Without arguments, displays the effective configuration.`,
		RunE: a.runConfigShow,
	}

	configCmd.AddCommand(
		&cobra.Command{
			Use:   "show",
			Short: "Show the effective configuration",
			RunE:  a.runConfigShow,
		},
		&cobra.Command{
			Use:   "path",
			Short: "Show the config file path",
			RunE:  a.runConfigPath,
		},
		&cobra.Command{
			Use:   "init",
			Short: "Create a default config file",
			Long:  `Create a default config file at ~/.config/fsel/config.yaml with all available options.`,
			RunE:  a.runConfigInit,
		},
	)
	return configCmd
}

func (a *app) runConfigShow(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	// Show where config is being read from
	if used := a.v.ConfigFileUsed(); used != "" && fileExists(used) {
		fmt.Fprintf(out, "# Config file: %s\n", used)
	} else {
		fmt.Fprintln(out, "# Config file: (none - using defaults)")
	}
	fmt.Fprintf(out, "# State files: %s\n", a.cfg.StateDir())
	count, err := a.sel.Count()
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "# Selected paths: %d\n", count)

	enc := yaml.NewEncoder(out)
	enc.SetIndent(2)
	if err := enc.Encode(a.cfg); err != nil {
		return fmt.Errorf("failed to render config: %w", err)
	}
	return enc.Close()
}

func (a *app) runConfigPath(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	configFile := config.ConfigFile()

	if used := a.v.ConfigFileUsed(); used != "" && fileExists(used) {
		fmt.Fprintf(out, "Active config: %s\n", used)
	} else {
		fmt.Fprintf(out, "Default path: %s (not created)\n", configFile)
	}

	fmt.Fprintln(out, "\nSearch paths:")
	fmt.Fprintf(out, "  1. --config flag\n")
	fmt.Fprintf(out, "  2. %s\n", configFile)
	fmt.Fprintln(out, "\nEnvironment variables: FSEL_* (e.g., FSEL_SELECTION_STATE_DIR)")
	return nil
}

const defaultConfigContent = `# fsel configuration

selection:
  # Directory holding the selection state files.
  # Empty means $TMPDIR, falling back to /tmp.
  state_dir: ""
  # State files are named <prefix>_<uid>.tmp, .idx and .lock
  prefix: fsel

output:
  # Color validation marks when writing to a terminal
  color: true

logging:
  # Write structured JSON logs for debugging
  enabled: false
  # Options: debug, info, warn, error
  level: info
  # Empty means <state_dir>/<prefix>_<uid>.log
  file: ""
  # Rotate the log file after this many megabytes
  max_size_mb: 1
  # Number of rotated files to keep
  max_backups: 2
`

func (a *app) runConfigInit(cmd *cobra.Command, args []string) error {
	configDir := config.ConfigDir()
	configFile := config.ConfigFile()

	// Check if config file already exists
	if fileExists(configFile) {
		return fmt.Errorf("config file already exists at %s", configFile)
	}

	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := os.WriteFile(configFile, []byte(defaultConfigContent), 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Created config file at %s\n", configFile)
	return nil
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
