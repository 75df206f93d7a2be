// Package shell runs external commands and captures their outcome.
//
// The harness treats every external tool (type checker, linter,
// bundler, schema validator, client generator) the same way: exit
// code 0 is success, anything else is a failure whose captured output
// becomes the error message. Runner is an interface so tests can
// substitute a fake instead of spawning real processes.
package shell

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// Result is the captured outcome of one command invocation.
type Result struct {
	// ExitCode is the command's exit status.
	ExitCode int

	// Stdout holds everything the command wrote to standard output.
	Stdout string

	// Stderr holds everything the command wrote to standard error.
	Stderr string
}

// Output returns stderr when non-empty, otherwise stdout. This is the
// most useful text to surface when a command fails.
func (r Result) Output() string {
	if strings.TrimSpace(r.Stderr) != "" {
		return r.Stderr
	}
	return r.Stdout
}

// Runner executes a command and reports its outcome. A non-zero exit
// code is NOT an error from Run; callers decide what exit codes mean.
// The error return is reserved for failures to run the command at all
// (binary not found, context cancelled before completion).
type Runner interface {
	Run(ctx context.Context, name string, args ...string) (Result, error)
}

type runner struct {
	dir string
}

// Option is a functional option for configuring a Runner.
type Option func(*runner)

// WithDir sets the working directory for executed commands.
func WithDir(dir string) Option {
	return func(r *runner) {
		r.dir = dir
	}
}

// NewRunner creates a Runner backed by os/exec.
func NewRunner(opts ...Option) Runner {
	r := &runner{}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *runner) Run(ctx context.Context, name string, args ...string) (Result, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = r.dir

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	result := Result{
		Stdout: stdout.String(),
		Stderr: stderr.String(),
	}

	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			result.ExitCode = exitErr.ExitCode()
			return result, nil
		}
		return result, fmt.Errorf("shell: %s: %w", name, err)
	}

	return result, nil
}

// Split breaks a command line into the command name and its
// arguments. Splitting is on whitespace only; shell quoting is not
// supported, which is fine for the fixed tool invocations the
// harness issues.
func Split(cmdline string) (name string, args []string) {
	fields := strings.Fields(cmdline)
	if len(fields) == 0 {
		return "", nil
	}
	return fields[0], fields[1:]
}
