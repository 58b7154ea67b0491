package commands

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/neogenz/pulpe-sub001/internal/config"
)

func newInitCommand() *cobra.Command {
	var ownerID string
	var baseURL string
	var force bool

	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Write a default pulpe.yaml",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}

			absDir, err := filepath.Abs(dir)
			if err != nil {
				return fmt.Errorf("resolving path: %w", err)
			}

			return runInit(cmd.OutOrStdout(), absDir, ownerID, baseURL, force)
		},
	}

	cmd.Flags().StringVar(&ownerID, "owner", "", "budget id the edit command targets")
	cmd.Flags().StringVar(&baseURL, "api-url", "", "base URL of the pulpe API (empty: offline)")
	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing pulpe.yaml")

	return cmd
}

func runInit(out io.Writer, dir, ownerID, baseURL string, force bool) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating directory: %w", err)
	}

	path := filepath.Join(dir, config.FileName)
	if _, err := os.Stat(path); err == nil && !force {
		return fmt.Errorf("%s already exists (use --force to overwrite)", path)
	}

	cfg := config.Default()
	cfg.Budget.OwnerID = ownerID
	cfg.API.BaseURL = baseURL
	if err := config.Save(path, cfg); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	// Keep tokens out of version control.
	gitignore := ".env\n"
	if err := os.WriteFile(filepath.Join(dir, ".gitignore"), []byte(gitignore), 0o644); err != nil {
		return fmt.Errorf("writing .gitignore: %w", err)
	}

	fmt.Fprintf(out, "Initialized pulpe workspace at %s\n", dir)
	return nil
}
