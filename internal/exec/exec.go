// Package exec runs external commands, used for the optional
// post-generation formatter. Formatting is cosmetic: a failure here is
// reported but never rolls back the generated tree.
package exec

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	osexec "os/exec"
	"strings"

	"golang.org/x/term"
)

// Executor runs external commands with prefixed, streamed output.
type Executor struct {
	stdout io.Writer
	stderr io.Writer
	dir    string
	env    []string

	// Replaceable for tests.
	commandFunc func(ctx context.Context, name string, args ...string) *osexec.Cmd
}

// Options configures command execution.
type Options struct {
	Stdout io.Writer
	Stderr io.Writer
	Dir    string   // working directory
	Env    []string // additional environment variables
}

// New creates an executor with sensible defaults.
func New(opts *Options) *Executor {
	if opts == nil {
		opts = &Options{}
	}
	if opts.Stdout == nil {
		opts.Stdout = os.Stdout
	}
	if opts.Stderr == nil {
		opts.Stderr = os.Stderr
	}

	return &Executor{
		stdout:      opts.Stdout,
		stderr:      opts.Stderr,
		dir:         opts.Dir,
		env:         opts.Env,
		commandFunc: osexec.CommandContext,
	}
}

// Run executes a command and waits for it to finish.
func (e *Executor) Run(ctx context.Context, name string, args ...string) error {
	cmd := e.commandFunc(ctx, name, args...)
	cmd.Dir = e.dir
	if len(e.env) > 0 {
		cmd.Env = append(os.Environ(), e.env...)
	}
	cmd.Stdout = e.stdout
	cmd.Stderr = e.stderr

	if err := cmd.Run(); err != nil {
		if isCommandNotFound(err) {
			return fmt.Errorf("command %q not found, install it and retry: %w", name, err)
		}
		return fmt.Errorf("%s failed: %w", name, err)
	}
	return nil
}

// RunWithSpinner executes a command behind a spinner when stdout is a
// terminal; otherwise it falls back to a plain Run.
func (e *Executor) RunWithSpinner(ctx context.Context, message, name string, args ...string) error {
	if !isTerminal() {
		return e.Run(ctx, name, args...)
	}
	return runSpinner(message, func() error {
		return e.Run(ctx, name, args...)
	})
}

func isTerminal() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

func isCommandNotFound(err error) bool {
	if err == nil {
		return false
	}
	return errors.Is(err, osexec.ErrNotFound) ||
		strings.Contains(err.Error(), "executable file not found")
}
