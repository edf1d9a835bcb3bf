package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"linkcheckmcp.dev/internal/linkcheck"
	"linkcheckmcp.dev/internal/metrics"
	"linkcheckmcp.dev/internal/process"
)

// Name is the MCP server name reported to hosts.
const Name = "link-checker"

// ReadyMessage is the single diagnostic line emitted once the channel is bound.
const ReadyMessage = "Link Checker MCP server is running..."

const shutdownTimeout = 10 * time.Second

// Server wraps the MCP server with the link checker
type Server struct {
	mcpServer *server.MCPServer
	checker   *linkcheck.Checker
	metrics   *metrics.Bundle
	logger    *zap.Logger
	version   string
}

// Options holds the collaborators of a Server. Metrics and Logger are optional.
type Options struct {
	Checker *linkcheck.Checker
	Metrics *metrics.Bundle
	Logger  *zap.Logger
	Version string
}

// NewServer creates a new MCP server exposing the check_link tool
func NewServer(opts Options) *Server {
	mcpServer := server.NewMCPServer(
		Name,
		opts.Version,
		server.WithToolCapabilities(false),
		server.WithRecovery(),
	)

	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	checker := opts.Checker
	if checker == nil {
		checker = linkcheck.NewChecker(linkcheck.Options{})
	}

	s := &Server{
		mcpServer: mcpServer,
		checker:   checker,
		metrics:   opts.Metrics,
		logger:    logger,
		version:   opts.Version,
	}
	if s.metrics != nil {
		s.metrics.Collector.SetBuildInfo(opts.Version)
	}

	s.registerTools()

	return s
}

// ServeStdio serves MCP over the given stdio streams until ctx is done or in is closed.
func (s *Server) ServeStdio(ctx context.Context, in io.Reader, out io.Writer) error {
	stdio := server.NewStdioServer(s.mcpServer)
	stdio.SetErrorLogger(zap.NewStdLog(s.logger.Named("stdio")))

	s.logger.Info(ReadyMessage)
	err := stdio.Listen(ctx, in, out)
	if err != nil && !errors.Is(err, context.Canceled) && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

// Handler returns the HTTP handler for Streamable HTTP mode: MCP at /mcp and,
// when metrics are enabled, the Prometheus endpoint at /metrics.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/mcp", server.NewStreamableHTTPServer(s.mcpServer))
	if s.metrics != nil {
		mux.Handle("/metrics", s.metrics.Handler())
	}
	return mux
}

// ServeHTTP starts the MCP server as a standalone HTTP server using the
// StreamableHTTP transport and shuts it down gracefully when ctx is done.
// It writes a server registry file on start and removes it on shutdown.
func (s *Server) ServeHTTP(ctx context.Context, addr string) error {
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	normalizedAddr := normalizeAddr(addr)
	if err := process.WriteServerFile(process.ServerFileData{Addr: normalizedAddr}); err != nil {
		s.logger.Warn("failed to write server registry", zap.Error(err))
	}
	defer process.DeleteServerFile("")

	errCh := make(chan error, 1)
	go func() {
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	s.logger.Info(ReadyMessage, zap.String("addr", normalizedAddr))

	select {
	case <-ctx.Done():
		s.logger.Info("shutting down HTTP server")
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	return nil
}

// normalizeAddr expands a bare port like ":8080" to "http://localhost:8080".
func normalizeAddr(addr string) string {
	if strings.HasPrefix(addr, ":") {
		return "http://localhost" + addr
	}
	if !strings.HasPrefix(addr, "http://") && !strings.HasPrefix(addr, "https://") {
		return "http://" + addr
	}
	return addr
}

// GetMCPServer returns the underlying MCP server
func (s *Server) GetMCPServer() *server.MCPServer {
	return s.mcpServer
}
