package cli

import (
	"fmt"
	"io"
	"os"
	"time"

	"linkcheckmcp.dev/internal/linkcheck"
)

// ANSI color codes
const (
	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorBold   = "\033[1m"
	colorDim    = "\033[2m"
)

// isTerminal returns true if the given file is a terminal.
func isTerminal(f *os.File) bool {
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return info.Mode()&os.ModeCharDevice != 0
}

// color wraps text in ANSI color if stderr is a terminal.
func color(code, text string) string {
	if !isTerminal(os.Stderr) {
		return text
	}
	return code + text + colorReset
}

// printCheckResult prints a check result with human-friendly formatting.
// The message goes to stdout (pipeable), metadata goes to stderr.
func printCheckResult(stdout, stderr io.Writer, r linkcheck.Result) {
	fmt.Fprintln(stdout, r.Text())

	var tag string
	switch r.Kind {
	case linkcheck.KindSuccess:
		tag = color(colorGreen+colorBold, "[OK]")
	case linkcheck.KindHTTPError:
		tag = color(colorYellow+colorBold, fmt.Sprintf("[HTTP %d]", r.StatusCode))
	case linkcheck.KindInvalidInput:
		tag = color(colorRed+colorBold, "[INVALID]")
	default:
		tag = color(colorRed+colorBold, "[FAIL]")
	}

	if r.Kind == linkcheck.KindInvalidInput {
		fmt.Fprintln(stderr, tag)
		return
	}
	fmt.Fprintf(stderr, "%s  %s %s\n", tag, r.Method, color(colorDim, formatDuration(r.Duration)))
}

// formatDuration formats a duration for human display.
func formatDuration(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	if d < time.Minute {
		return fmt.Sprintf("%.1fs", d.Seconds())
	}
	return fmt.Sprintf("%dm%ds", int(d.Minutes()), int(d.Seconds())%60)
}
