// Package logger prints diagnostic lines to stderr when verbose mode is on.
// The CLI enables it with --verbose to show each Newton update and the
// storage operations behind a run.
package logger

import (
	"fmt"
	"io"
	"os"
	"sync"
)

var (
	mu      sync.RWMutex
	verbose bool
	output  io.Writer = os.Stderr
)

func SetVerbose(v bool) {
	mu.Lock()
	defer mu.Unlock()
	verbose = v
}

func IsVerbose() bool {
	mu.RLock()
	defer mu.RUnlock()
	return verbose
}

// SetOutput replaces the destination writer. Defaults to os.Stderr.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	output = w
}

func logf(level, format string, args ...any) {
	mu.RLock()
	defer mu.RUnlock()
	if verbose {
		fmt.Fprintf(output, "["+level+"] "+format+"\n", args...)
	}
}

func Debug(format string, args ...any) { logf("DEBUG", format, args...) }
func Info(format string, args ...any)  { logf("INFO", format, args...) }
func Warn(format string, args ...any)  { logf("WARN", format, args...) }

// Step logs one Newton update x -> next at debug level.
func Step(index int, x, fx, dfx, next float64) {
	logf("DEBUG", "step %d: x=%.15g f(x)=%.6e f'(x)=%.6e -> %.15g", index, x, fx, dfx, next)
}

// Section prints a header line separating phases of a command.
func Section(name string) {
	mu.RLock()
	defer mu.RUnlock()
	if verbose {
		fmt.Fprintf(output, "\n=== %s ===\n", name)
	}
}
