package cli

import (
	"context"
	"fmt"
	"io"

	mcpclient "github.com/mark3labs/mcp-go/client"
	"github.com/mark3labs/mcp-go/mcp"

	"linkcheckmcp.dev/internal/process"
	"linkcheckmcp.dev/internal/server"
)

// newMCPClient creates, starts, and initializes an MCP HTTP client against endpoint.
// The returned cleanup function should be deferred by the caller.
func newMCPClient(ctx context.Context, endpoint, version string) (*mcpclient.Client, func(), error) {
	c, err := mcpclient.NewStreamableHttpClient(endpoint)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create MCP client: %w", err)
	}

	if err := c.Start(ctx); err != nil {
		return nil, nil, fmt.Errorf("failed to start MCP client: %w", err)
	}

	if _, err = c.Initialize(ctx, mcp.InitializeRequest{
		Params: mcp.InitializeParams{
			ProtocolVersion: mcp.LATEST_PROTOCOL_VERSION,
			ClientInfo: mcp.Implementation{
				Name:    "link-checker-cli",
				Version: version,
			},
		},
	}); err != nil {
		c.Close()
		return nil, nil, fmt.Errorf("failed to initialize MCP client: %w", err)
	}

	return c, func() { c.Close() }, nil
}

// tryRemoteCheck routes a check through a running HTTP server when the
// registry file names one. handled=false means the caller should check locally.
func tryRemoteCheck(ctx context.Context, stdout, stderr io.Writer, rawURL, version string) (code int, handled bool) {
	data, err := process.ReadServerFile("")
	if err != nil {
		return 0, false
	}

	c, cleanup, err := newMCPClient(ctx, data.Endpoint(), version)
	if err != nil {
		fmt.Fprintf(stderr, "%s server registered at %s is not reachable (%v); checking locally\n",
			color(colorYellow, "Warning:"), data.Addr, err)
		return 0, false
	}
	defer cleanup()

	return callCheckLink(ctx, c, stdout, stderr, rawURL), true
}

// callCheckLink calls check_link and prints the text content. The exit code is
// 1 when the server flags the result as an error.
func callCheckLink(ctx context.Context, c *mcpclient.Client, stdout, stderr io.Writer, rawURL string) int {
	result, err := c.CallTool(ctx, mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Name:      server.CheckLinkTool,
			Arguments: map[string]any{"url": rawURL},
		},
	})
	if err != nil {
		fmt.Fprintf(stderr, "Error calling %s: %v\n", server.CheckLinkTool, err)
		return 1
	}

	for _, content := range result.Content {
		if tc, ok := mcp.AsTextContent(content); ok {
			fmt.Fprintln(stdout, tc.Text)
		}
	}
	if result.IsError {
		return 1
	}
	return 0
}
