// Package process tracks a running HTTP-mode server so the CLI can reach it.
package process

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"linkcheckmcp.dev/internal/dirs"
)

// ServerRegistryFile is the path (relative to the working directory) where the
// HTTP server writes its address when it starts.
const ServerRegistryFile = dirs.StateDir + "/server.json"

// ServerFileData is persisted to disk when the HTTP server starts.
type ServerFileData struct {
	Addr      string    `json:"addr"`
	PID       int       `json:"pid"`
	StartedAt time.Time `json:"started_at"`
}

// Endpoint returns the MCP endpoint for the registered address. mcp-go's
// StreamableHTTPServer is mounted at /mcp.
func (d ServerFileData) Endpoint() string {
	addr := strings.TrimRight(d.Addr, "/")
	if !strings.HasSuffix(addr, "/mcp") {
		return addr + "/mcp"
	}
	return addr
}

func serverFilePath(workingDir string) string {
	if workingDir == "" {
		return ServerRegistryFile
	}
	return filepath.Join(workingDir, ServerRegistryFile)
}

// WriteServerFile writes the server registry to disk in the current working
// directory. PID and StartedAt are filled in when zero.
func WriteServerFile(data ServerFileData) error {
	if data.PID == 0 {
		data.PID = os.Getpid()
	}
	if data.StartedAt.IsZero() {
		data.StartedAt = time.Now().UTC()
	}

	dir := filepath.Dir(ServerRegistryFile)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	b, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to marshal server file: %w", err)
	}
	return os.WriteFile(ServerRegistryFile, b, 0644)
}

// ReadServerFile reads the server registry. workingDir="" uses the current working directory.
func ReadServerFile(workingDir string) (*ServerFileData, error) {
	b, err := os.ReadFile(serverFilePath(workingDir))
	if err != nil {
		return nil, err
	}
	var data ServerFileData
	if err := json.Unmarshal(b, &data); err != nil {
		return nil, fmt.Errorf("failed to parse server file: %w", err)
	}
	if data.Addr == "" {
		return nil, fmt.Errorf("server file has no address")
	}
	return &data, nil
}

// DeleteServerFile removes the server registry. workingDir="" uses the current working directory.
func DeleteServerFile(workingDir string) {
	_ = os.Remove(serverFilePath(workingDir))
}
