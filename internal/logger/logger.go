// Package logger prints chunkforge's diagnostics to stderr. Warnings
// always print; debug, info, stage, and section output appears only
// when verbose mode is enabled via the --verbose flag.
package logger

import (
	"fmt"
	"io"
	"os"
	"sync"
)

// console serialises writes and holds the verbosity switch.
type console struct {
	mu      sync.RWMutex
	out     io.Writer
	verbose bool
}

var std = &console{out: os.Stderr}

func (c *console) emit(always bool, line string) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if always || c.verbose {
		fmt.Fprintln(c.out, line)
	}
}

// SetVerbose enables or disables verbose output.
func SetVerbose(v bool) {
	std.mu.Lock()
	defer std.mu.Unlock()
	std.verbose = v
}

// IsVerbose reports whether verbose output is enabled.
func IsVerbose() bool {
	std.mu.RLock()
	defer std.mu.RUnlock()
	return std.verbose
}

// SetOutput redirects diagnostics away from os.Stderr. Tests use it to
// capture output.
func SetOutput(w io.Writer) {
	std.mu.Lock()
	defer std.mu.Unlock()
	std.out = w
}

// Debug prints a low-level diagnostic in verbose mode.
func Debug(format string, args ...any) {
	std.emit(false, "debug: "+fmt.Sprintf(format, args...))
}

// Info prints a progress message in verbose mode.
func Info(format string, args ...any) {
	std.emit(false, "info: "+fmt.Sprintf(format, args...))
}

// Warn prints a warning. Warnings surface regardless of verbosity
// because they describe conditions the user should act on.
func Warn(format string, args ...any) {
	std.emit(true, "warning: "+fmt.Sprintf(format, args...))
}

// Section prints a header grouping the messages that follow, in
// verbose mode.
func Section(name string) {
	std.emit(false, "\n== "+name+" ==")
}

// Stage reports a document entering a pipeline stage, in verbose mode.
func Stage(doc, stage string) {
	std.emit(false, fmt.Sprintf("  %s: %s", doc, stage))
}
