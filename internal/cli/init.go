package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"linkcheckmcp.dev/internal/config"
	"linkcheckmcp.dev/internal/dirs"
)

func newInitCmd() *cobra.Command {
	var overwrite bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create a default " + dirs.ConfigFile,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := applyWorkingDir(); err != nil {
				return err
			}
			path, err := handleInit(overwrite)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Successfully created %s\n", path)
			return nil
		},
	}

	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "Replace an existing config file")
	return cmd
}

// handleInit writes the default config into the working directory and returns its absolute path.
func handleInit(overwrite bool) (string, error) {
	absPath, err := filepath.Abs(dirs.ConfigFile)
	if err != nil {
		return "", fmt.Errorf("invalid path: %w", err)
	}

	if _, err := os.Stat(absPath); err == nil && !overwrite {
		return "", fmt.Errorf("%s already exists (use --overwrite to replace)", absPath)
	}

	if err := os.WriteFile(absPath, []byte(config.InitTemplate), 0644); err != nil {
		return "", fmt.Errorf("failed to write config file: %w", err)
	}

	return absPath, nil
}
