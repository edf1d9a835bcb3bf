package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"linkcheckmcp.dev/internal/config"
	"linkcheckmcp.dev/internal/linkcheck"
	"linkcheckmcp.dev/internal/logs"
	"linkcheckmcp.dev/internal/metrics"
	"linkcheckmcp.dev/internal/server"
	"linkcheckmcp.dev/internal/telemetry"
)

// Persistent flag values shared by all subcommands.
var (
	globalConfig     string
	globalWorkingDir string
	globalLocal      bool
)

// exitError carries a process exit code out of a RunE without printing an error.
type exitError struct {
	code int
}

func (e *exitError) Error() string {
	return fmt.Sprintf("exit status %d", e.code)
}

// Execute runs the command tree and returns the process exit code.
func Execute(version string) int {
	cmd := newRootCmd(version)
	if err := cmd.Execute(); err != nil {
		var ee *exitError
		if errors.As(err, &ee) {
			return ee.code
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

func newRootCmd(version string) *cobra.Command {
	root := &cobra.Command{
		Use:   "link-checker",
		Short: "MCP server exposing a check_link tool",
		Long: "link-checker serves a single MCP tool, check_link, which reports whether a URL is reachable.\n" +
			"Without a subcommand it serves MCP over stdio for a tool-calling host.",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStdio(cmd.Context(), version)
		},
	}

	root.PersistentFlags().StringVar(&globalConfig, "config", "", "Path to config file")
	root.PersistentFlags().StringVar(&globalWorkingDir, "working-dir", "", "Directory to run in (config, state and logs are resolved from here)")
	root.PersistentFlags().BoolVar(&globalLocal, "local", false, "Never route through a running HTTP server")

	root.AddCommand(
		newStdioCmd(version),
		newServeCmd(version),
		newCheckCmd(version),
		newInitCmd(),
		newVersionCmd(version),
	)

	return root
}

// applyWorkingDir changes into --working-dir when set.
func applyWorkingDir() error {
	if globalWorkingDir == "" {
		return nil
	}
	if err := os.Chdir(globalWorkingDir); err != nil {
		return fmt.Errorf("failed to change to working directory %s: %w", globalWorkingDir, err)
	}
	return nil
}

// app holds everything a serving process needs.
type app struct {
	cfg             *config.Config
	logger          *zap.Logger
	server          *server.Server
	shutdownTracing telemetry.ShutdownFunc
}

// close flushes tracing and the logger.
func (r *app) close() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := r.shutdownTracing(ctx); err != nil {
		r.logger.Warn("tracing shutdown failed", zap.Error(err))
	}
	_ = r.logger.Sync()
}

// bootstrap loads config and wires the logger, tracing, metrics, checker and MCP server.
func bootstrap(ctx context.Context, version string) (*app, error) {
	if err := applyWorkingDir(); err != nil {
		return nil, err
	}
	if err := logs.Setup(); err != nil {
		return nil, fmt.Errorf("failed to setup logs: %w", err)
	}

	cfg, loaded, err := config.LoadConfig(globalConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logFile := cfg.Log.File
	if logFile == "" {
		logFile = logs.DefaultLogPath()
	}
	logger, err := logs.New(logs.Options{Level: cfg.Log.Level, File: logFile})
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}
	if !loaded {
		logger.Debug("no config file found, using defaults")
	}

	shutdown, err := telemetry.Setup(ctx, cfg.Tracing.OTLPEndpoint, version)
	if err != nil {
		return nil, err
	}

	srv := server.NewServer(server.Options{
		Checker: newChecker(cfg, version),
		Metrics: metrics.NewBundle(),
		Logger:  logger,
		Version: version,
	})

	return &app{cfg: cfg, logger: logger, server: srv, shutdownTracing: shutdown}, nil
}

// newChecker builds a Checker from the probe section of cfg.
func newChecker(cfg *config.Config, version string) *linkcheck.Checker {
	userAgent := cfg.Probe.UserAgent
	if userAgent == "" {
		userAgent = "link-checker/" + version
	}
	return linkcheck.NewChecker(linkcheck.Options{
		Timeout:            cfg.Probe.TimeoutDuration(),
		UserAgent:          userAgent,
		GetFallback:        cfg.Probe.GetFallback,
		InsecureSkipVerify: cfg.Probe.InsecureSkipVerify,
	})
}

// signalContext returns a context cancelled on SIGINT/SIGTERM.
func signalContext(parent context.Context) (context.Context, context.CancelFunc) {
	if parent == nil {
		parent = context.Background()
	}
	return signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
}
