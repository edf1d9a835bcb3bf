package cli

import (
	"context"
	"os"

	"github.com/spf13/cobra"
)

func newStdioCmd(version string) *cobra.Command {
	return &cobra.Command{
		Use:   "stdio",
		Short: "Serve MCP over stdio (default)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStdio(cmd.Context(), version)
		},
	}
}

func newServeCmd(version string) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve MCP over Streamable HTTP (with /metrics)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signalContext(cmd.Context())
			defer stop()

			rt, err := bootstrap(ctx, version)
			if err != nil {
				return err
			}
			defer rt.close()

			return rt.server.ServeHTTP(ctx, addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8080", "Address to listen on")
	return cmd
}

// runStdio serves MCP on stdin/stdout until the host closes the channel or a signal arrives.
func runStdio(parent context.Context, version string) error {
	ctx, stop := signalContext(parent)
	defer stop()

	rt, err := bootstrap(ctx, version)
	if err != nil {
		return err
	}
	defer rt.close()

	return rt.server.ServeStdio(ctx, os.Stdin, os.Stdout)
}
