package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"linkcheckmcp.dev/internal/config"
	"linkcheckmcp.dev/internal/telemetry"
)

func newCheckCmd(version string) *cobra.Command {
	return &cobra.Command{
		Use:   "check <url>",
		Short: "Check a single URL and print the result",
		Long: "Check a single URL. When an HTTP server started with 'serve' is registered in the\n" +
			"working directory the call goes through it; use --local to always check in-process.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := applyWorkingDir(); err != nil {
				return err
			}

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			stdout, stderr := cmd.OutOrStdout(), cmd.ErrOrStderr()

			if !globalLocal {
				if code, handled := tryRemoteCheck(ctx, stdout, stderr, args[0], version); handled {
					if code != 0 {
						return &exitError{code: code}
					}
					return nil
				}
			}

			code, err := checkLocal(ctx, stdout, stderr, args[0], version)
			if err != nil {
				return err
			}
			if code != 0 {
				return &exitError{code: code}
			}
			return nil
		},
	}
}

// checkLocal runs one check in-process with the configured probe settings.
func checkLocal(ctx context.Context, stdout, stderr io.Writer, rawURL, version string) (int, error) {
	cfg, _, err := config.LoadConfig(globalConfig)
	if err != nil {
		return 1, fmt.Errorf("failed to load config: %w", err)
	}

	shutdown, err := telemetry.Setup(ctx, cfg.Tracing.OTLPEndpoint, version)
	if err != nil {
		return 1, err
	}
	defer shutdown(context.Background()) //nolint:errcheck

	res := newChecker(cfg, version).Check(ctx, rawURL)
	printCheckResult(stdout, stderr, res)

	if res.IsError() {
		return 1, nil
	}
	return 0, nil
}
