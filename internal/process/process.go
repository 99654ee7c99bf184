// Package process runs the external commands the colour lookup depends on.
package process

import (
	"context"
	"errors"
	"os/exec"
)

// Runner defines an interface for running external processes.
// This abstraction allows for dependency injection and easier testing.
type Runner interface {
	// Run executes name with args and returns its stdout and stderr.
	Run(ctx context.Context, name string, args ...string) (stdout, stderr []byte, err error)
}

// ExecRunner implements Runner using os/exec.
type ExecRunner struct{}

// NewExecRunner creates a new os/exec backed runner.
func NewExecRunner() *ExecRunner {
	return &ExecRunner{}
}

// Run executes a real external process.
func (r *ExecRunner) Run(ctx context.Context, name string, args ...string) ([]byte, []byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)

	stdout, err := cmd.Output()
	if err != nil {
		// Output() carries stderr in the error if it's an ExitError
		exitErr := &exec.ExitError{}
		if errors.As(err, &exitErr) {
			return stdout, exitErr.Stderr, err
		}
		return stdout, nil, err
	}

	return stdout, nil, nil
}
