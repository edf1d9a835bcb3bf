package server

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"go.uber.org/zap"

	"linkcheckmcp.dev/internal/linkcheck"
)

// CheckLinkTool is the name of the only tool this server exposes.
const CheckLinkTool = "check_link"

const checkLinkDescription = "Checks if a URL returns a valid response. Accepts a URL and makes an HTTP request to verify it works."

// checkLinkTool describes check_link and its input schema.
func checkLinkTool() mcp.Tool {
	return mcp.Tool{
		Name:        CheckLinkTool,
		Description: checkLinkDescription,
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"url": map[string]interface{}{
					"type":        "string",
					"format":      "uri",
					"description": "The URL to check",
				},
			},
			Required: []string{"url"},
		},
	}
}

// registerTools registers check_link on the MCP server
func (s *Server) registerTools() {
	s.mcpServer.AddTool(checkLinkTool(), s.handleCheckLink)
}

// handleCheckLink runs one check. Every outcome, including bad input, is
// returned as a tool result; the error return is always nil.
func (s *Server) handleCheckLink(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	rawURL, err := req.RequireString("url")
	if err != nil {
		res := linkcheck.Result{Kind: linkcheck.KindInvalidInput, Message: err.Error()}
		s.observe(res)
		return mcp.NewToolResultError(res.Text()), nil
	}

	res := s.checker.Check(ctx, rawURL)
	s.observe(res)

	if res.IsError() {
		return mcp.NewToolResultError(res.Text()), nil
	}
	return mcp.NewToolResultText(res.Text()), nil
}

// observe records metrics and a debug line for a finished check.
func (s *Server) observe(res linkcheck.Result) {
	if s.metrics != nil {
		s.metrics.Collector.Observe(res)
	}
	s.logger.Debug("check_link",
		zap.String("check_id", res.CheckID),
		zap.String("url", res.URL),
		zap.String("outcome", string(res.Kind)),
		zap.String("method", res.Method),
		zap.Int("status", res.StatusCode),
		zap.String("message", res.Message),
		zap.Duration("duration", res.Duration),
	)
}
