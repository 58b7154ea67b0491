package commands

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/neogenz/pulpe-sub001/internal/buildinfo"
	"github.com/neogenz/pulpe-sub001/internal/config"
	"github.com/neogenz/pulpe-sub001/internal/logging"
)

// globalFlags are the persistent flags shared by every subcommand.
type globalFlags struct {
	configPath string
	logLevel   string
}

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	g := &globalFlags{}

	rootCmd := &cobra.Command{
		Use:     "pulpe",
		Short:   "Edit budget lines and inspect the ledger",
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", buildinfo.Version, buildinfo.Commit, buildinfo.Date),
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&g.configPath, "config", config.FileName, "path to pulpe.yaml")
	rootCmd.PersistentFlags().StringVar(&g.logLevel, "log-level", "", "log level: debug, info, warn or error")

	rootCmd.AddCommand(newInitCommand())
	rootCmd.AddCommand(newLedgerCommand(g))
	rootCmd.AddCommand(newEditCommand(g))
	rootCmd.AddCommand(newImportCommand(g))
	rootCmd.AddCommand(newHistoryCommand())

	return rootCmd
}

// settings loads the configuration, applies PULPE_* overrides and builds the
// logger. A missing default config file is not an error.
func (g *globalFlags) settings(cmd *cobra.Command) (*config.Config, *logging.Logger, error) {
	cfg, err := config.Load(g.configPath)
	switch {
	case err == nil:
	case errors.Is(err, os.ErrNotExist) && !cmd.Flags().Changed("config"):
		cfg = config.Default()
	default:
		return nil, nil, err
	}

	cfg.ApplyEnv(nil)
	if g.logLevel != "" {
		cfg.Logging.Level = g.logLevel
	}
	return cfg, logging.NewConsoleLogger(cfg.Logging.Level, cmd.ErrOrStderr()), nil
}
