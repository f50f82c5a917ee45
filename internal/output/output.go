// Package output provides styled terminal output for the aegis CLI.
//
// All commands use this package so generation runs look consistent.
// Styling goes through lipgloss but callers never touch styles directly.
package output

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/charmbracelet/lipgloss"
)

var (
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("green")).Bold(true)
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("red")).Bold(true)
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("yellow"))
	infoStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("cyan"))
	stepStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))

	mu          sync.Mutex
	out         io.Writer = os.Stdout
	verboseMode bool
)

// SetVerbose enables or disables verbose output.
// The CLI calls this when the --verbose flag is set.
func SetVerbose(v bool) {
	mu.Lock()
	defer mu.Unlock()
	verboseMode = v
}

// SetWriter redirects output, primarily for tests.
// Passing nil restores os.Stdout.
func SetWriter(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	if w == nil {
		w = os.Stdout
	}
	out = w
}

// Success prints a green completion message.
//
// Example:
//
//	output.Success("Generated project: myapp")
func Success(msg string) {
	write(successStyle.Render("✓ " + msg))
}

// Error prints a red failure message.
func Error(msg string) {
	write(errorStyle.Render("✗ " + msg))
}

// Warn prints a yellow warning message.
// Use this for non-fatal problems, like a formatter that failed.
func Warn(msg string) {
	write(warnStyle.Render("! " + msg))
}

// Info prints a cyan status message.
func Info(msg string) {
	write(infoStyle.Render("→ " + msg))
}

// Step prints an indented gray sub-item.
//
// Example:
//
//	output.Step("cd myapp")
func Step(msg string) {
	write(stepStyle.Render("  " + msg))
}

// Verbose prints a gray debug message only when verbose mode is on.
func Verbose(msg string) {
	mu.Lock()
	enabled := verboseMode
	mu.Unlock()
	if enabled {
		write(stepStyle.Render("· " + msg))
	}
}

func write(line string) {
	mu.Lock()
	defer mu.Unlock()
	fmt.Fprintln(out, line)
}
