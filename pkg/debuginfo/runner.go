package debuginfo

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// Runner spawns a process and returns its standard output.
type Runner interface {
	Run(ctx context.Context, path string, args ...string) ([]byte, error)
}

// RunError describes a process that could not be started or exited
// unsuccessfully.
type RunError struct {
	Path     string
	Args     []string
	Stderr   []byte
	ExitCode int
	Err      error
}

func (e *RunError) Error() string {
	msg := fmt.Sprintf("run %s %s: %v", e.Path, strings.Join(e.Args, " "), e.Err)
	if stderr := strings.TrimSpace(string(e.Stderr)); stderr != "" {
		msg += ": " + stderr
	}
	return msg
}

func (e *RunError) Unwrap() error {
	return e.Err
}

// Started reports whether the process got as far as running.
func (e *RunError) Started() bool {
	var exitErr *exec.ExitError
	return errors.As(e.Err, &exitErr)
}

// ExecRunner runs processes with os/exec. Cancelling the context kills the
// child.
type ExecRunner struct{}

func (ExecRunner) Run(ctx context.Context, path string, args ...string) ([]byte, error) {
	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, path, args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		runErr := &RunError{
			Path:   path,
			Args:   args,
			Stderr: stderr.Bytes(),
			Err:    err,
		}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			runErr.ExitCode = exitErr.ExitCode()
		}
		return stdout.Bytes(), runErr
	}
	return stdout.Bytes(), nil
}
