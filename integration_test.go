// Package main integration tests exercise the full binary end-to-end:
// stdio serving, one-shot checks, the server registry file lifecycle,
// CLI auto-detection of a running HTTP server, and graceful shutdown cleanup.
//
// These tests require "go test -run Integration -v" and take a few seconds
// because they spawn real OS processes.
package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"syscall"
	"testing"
	"time"
)

// testBinaryPath holds the path to the compiled link-checker binary, built once by
// TestMain and shared across all integration tests.
var testBinaryPath string

// TestMain builds the binary once for the entire test run, then executes tests.
func TestMain(m *testing.M) {
	tmp, err := os.MkdirTemp("", "link-checker-integration-*")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create temp dir: %v\n", err)
		os.Exit(1)
	}

	testBinaryPath = filepath.Join(tmp, "link-checker")
	out, err := exec.Command("go", "build", "-o", testBinaryPath, ".").CombinedOutput()
	if err != nil {
		fmt.Fprintf(os.Stderr, "go build: %v\n%s\n", err, out)
		os.RemoveAll(tmp)
		os.Exit(1)
	}

	code := m.Run()
	os.RemoveAll(tmp)
	os.Exit(code)
}

func buildBinary(t *testing.T) string {
	t.Helper()
	if testBinaryPath == "" {
		t.Fatal("testBinaryPath not set, TestMain did not run")
	}
	return testBinaryPath
}

// freePort returns an available TCP port.
func freePort(t *testing.T) int {
	t.Helper()
	l, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("freePort: %v", err)
	}
	port := l.Addr().(*net.TCPAddr).Port
	l.Close()
	return port
}

// newTarget starts an HTTP server to be checked: 200 on /, 404 on /missing.
func newTarget(t *testing.T) *httptest.Server {
	t.Helper()
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/missing" {
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(ts.Close)
	return ts
}

// serverJSON is the shape of ._link_checker_state/server.json.
type serverJSON struct {
	Addr string `json:"addr"`
	PID  int    `json:"pid"`
}

func registryPath(dir string) string {
	return filepath.Join(dir, "._link_checker_state", "server.json")
}

// readServerJSON parses the registry file from the given dir.
func readServerJSON(t *testing.T, dir string) serverJSON {
	t.Helper()
	b, err := os.ReadFile(registryPath(dir))
	if err != nil {
		t.Fatalf("read server.json: %v", err)
	}
	var d serverJSON
	if err := json.Unmarshal(b, &d); err != nil {
		t.Fatalf("parse server.json: %v", err)
	}
	return d
}

// startServer launches the binary in serve mode and waits until the registry
// file appears (or the deadline).
func startServer(t *testing.T, bin, dir string, port int) *os.Process {
	t.Helper()
	cmd := exec.Command(bin, "serve", "--addr", fmt.Sprintf(":%d", port))
	cmd.Dir = dir
	if err := cmd.Start(); err != nil {
		t.Fatalf("start server: %v", err)
	}
	t.Cleanup(func() { cmd.Process.Kill() }) //nolint:errcheck

	deadline := time.Now().Add(10 * time.Second)
	for time.Now().Before(deadline) {
		if _, err := os.Stat(registryPath(dir)); err == nil {
			return cmd.Process
		}
		time.Sleep(100 * time.Millisecond)
	}
	t.Fatalf("server.json never appeared in %s", dir)
	return nil
}

// runCLI executes the binary with the given working dir and args.
// It returns stdout, stderr and the exit code.
func runCLI(t *testing.T, bin, dir string, args ...string) (string, string, int) {
	t.Helper()
	cmd := exec.Command(bin, args...)
	cmd.Dir = dir
	var stdout, stderr strings.Builder
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	err := cmd.Run()
	code := 0
	if err != nil {
		if ee, ok := err.(*exec.ExitError); ok {
			code = ee.ExitCode()
		} else {
			t.Fatalf("exec %v: %v", args, err)
		}
	}
	return stdout.String(), stderr.String(), code
}

func TestIntegrationVersion(t *testing.T) {
	bin := buildBinary(t)
	out, _, code := runCLI(t, bin, t.TempDir(), "version")
	if code != 0 || strings.TrimSpace(out) != "dev" {
		t.Errorf("version exit=%d output=%q", code, out)
	}
}

func TestIntegrationCheckLocal(t *testing.T) {
	bin := buildBinary(t)
	dir := t.TempDir()
	target := newTarget(t)

	out, _, code := runCLI(t, bin, dir, "check", "--local", target.URL)
	if code != 0 || strings.TrimSpace(out) != "The link is valid! Status: 200 (OK)" {
		t.Errorf("success: exit=%d output=%q", code, out)
	}

	out, _, code = runCLI(t, bin, dir, "check", "--local", target.URL+"/missing")
	if code != 0 || strings.TrimSpace(out) != "The link returned an error. Status: 404 (Not Found)" {
		t.Errorf("404: exit=%d output=%q", code, out)
	}

	out, _, code = runCLI(t, bin, dir, "check", "--local", "not a url")
	if code != 1 || !strings.HasPrefix(out, "Invalid URL: ") {
		t.Errorf("invalid: exit=%d output=%q", code, out)
	}
}

// TestIntegrationStdio drives the default stdio mode the way a tool-calling host does.
func TestIntegrationStdio(t *testing.T) {
	bin := buildBinary(t)
	target := newTarget(t)

	cmd := exec.Command(bin)
	cmd.Dir = t.TempDir()
	stdin, err := cmd.StdinPipe()
	if err != nil {
		t.Fatal(err)
	}
	stdoutPipe, err := cmd.StdoutPipe()
	if err != nil {
		t.Fatal(err)
	}
	var stderr strings.Builder
	cmd.Stderr = &stderr
	if err := cmd.Start(); err != nil {
		t.Fatalf("start: %v", err)
	}
	t.Cleanup(func() { cmd.Process.Kill() }) //nolint:errcheck

	stdout := bufio.NewReader(stdoutPipe)
	send := func(msg string) map[string]any {
		t.Helper()
		if _, err := io.WriteString(stdin, msg+"\n"); err != nil {
			t.Fatalf("write: %v", err)
		}
		line, err := stdout.ReadBytes('\n')
		if err != nil {
			t.Fatalf("read: %v", err)
		}
		var resp map[string]any
		if err := json.Unmarshal(line, &resp); err != nil {
			t.Fatalf("stdout carried a non JSON-RPC line %q: %v", line, err)
		}
		return resp
	}

	send(`{"jsonrpc":"2.0","id":1,"method":"initialize","params":{"protocolVersion":"2025-03-26","capabilities":{},"clientInfo":{"name":"it","version":"0"}}}`)
	resp := send(fmt.Sprintf(`{"jsonrpc":"2.0","id":2,"method":"tools/call","params":{"name":"check_link","arguments":{"url":%q}}}`, target.URL+"/missing"))

	result, ok := resp["result"].(map[string]any)
	if !ok {
		t.Fatalf("tools/call response has no result: %v", resp)
	}
	if isErr, _ := result["isError"].(bool); isErr {
		t.Error("HTTP error status must not set isError")
	}
	content, _ := result["content"].([]any)
	if len(content) != 1 {
		t.Fatalf("content blocks = %d, want 1", len(content))
	}
	block, _ := content[0].(map[string]any)
	if block["text"] != "The link returned an error. Status: 404 (Not Found)" {
		t.Errorf("text = %v", block["text"])
	}

	stdin.Close()
	if err := cmd.Wait(); err != nil {
		t.Errorf("stdio server exited with %v; stderr=%q", err, stderr.String())
	}
	if n := strings.Count(stderr.String(), "Link Checker MCP server is running..."); n != 1 {
		t.Errorf("readiness line printed %d times, want 1; stderr=%q", n, stderr.String())
	}
}

// TestIntegrationServerRegistryWrittenOnStart verifies that starting the HTTP
// server creates the registry file with the correct address and a valid PID.
func TestIntegrationServerRegistryWrittenOnStart(t *testing.T) {
	bin := buildBinary(t)
	dir := t.TempDir()

	port := freePort(t)
	proc := startServer(t, bin, dir, port)
	defer proc.Kill() //nolint:errcheck

	d := readServerJSON(t, dir)
	wantAddr := fmt.Sprintf("http://localhost:%d", port)
	if d.Addr != wantAddr {
		t.Errorf("server.json addr = %q, want %q", d.Addr, wantAddr)
	}
	if d.PID != proc.Pid {
		t.Errorf("server.json PID = %d, want %d", d.PID, proc.Pid)
	}
}

// TestIntegrationGracefulShutdownCleansRegistry verifies that SIGTERM removes the registry file.
func TestIntegrationGracefulShutdownCleansRegistry(t *testing.T) {
	bin := buildBinary(t)
	dir := t.TempDir()

	proc := startServer(t, bin, dir, freePort(t))
	if err := proc.Signal(syscall.SIGTERM); err != nil {
		t.Fatalf("SIGTERM: %v", err)
	}

	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if _, err := os.Stat(registryPath(dir)); os.IsNotExist(err) {
			return
		}
		time.Sleep(100 * time.Millisecond)
	}
	t.Error("server.json still exists after graceful SIGTERM")
}

// TestIntegrationCheckViaServer verifies that check routes through a running
// server and that the server's metrics endpoint counts the call.
func TestIntegrationCheckViaServer(t *testing.T) {
	bin := buildBinary(t)
	dir := t.TempDir()
	target := newTarget(t)

	port := freePort(t)
	proc := startServer(t, bin, dir, port)
	defer proc.Kill() //nolint:errcheck

	out, stderr, code := runCLI(t, bin, dir, "check", target.URL)
	if code != 0 || strings.TrimSpace(out) != "The link is valid! Status: 200 (OK)" {
		t.Fatalf("check exit=%d output=%q stderr=%q", code, out, stderr)
	}

	resp, err := http.Get(fmt.Sprintf("http://127.0.0.1:%d/metrics", port))
	if err != nil {
		t.Fatalf("GET /metrics: %v", err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	if !strings.Contains(string(body), `linkcheck_checks_total{outcome="success"} 1`) {
		t.Errorf("metrics did not record the remote check:\n%s", body)
	}
}

// TestIntegrationWorkingDirFlag verifies that --working-dir targets a project
// directory other than the current working directory.
func TestIntegrationWorkingDirFlag(t *testing.T) {
	bin := buildBinary(t)
	projectDir := t.TempDir()
	target := newTarget(t)

	cmd := exec.Command(bin, "serve", "--addr", fmt.Sprintf(":%d", freePort(t)), "--working-dir", projectDir)
	cmd.Dir = t.TempDir()
	if err := cmd.Start(); err != nil {
		t.Fatalf("start server: %v", err)
	}
	defer cmd.Process.Kill() //nolint:errcheck

	deadline := time.Now().Add(10 * time.Second)
	for time.Now().Before(deadline) {
		if _, err := os.Stat(registryPath(projectDir)); err == nil {
			break
		}
		time.Sleep(100 * time.Millisecond)
	}
	if _, err := os.Stat(registryPath(projectDir)); err != nil {
		t.Fatalf("server.json not found in projectDir after timeout: %v", err)
	}

	out, _, code := runCLI(t, bin, t.TempDir(), "--working-dir", projectDir, "check", target.URL)
	if code != 0 || !strings.HasPrefix(out, "The link is valid!") {
		t.Errorf("check --working-dir exit=%d output=%q", code, out)
	}
}
