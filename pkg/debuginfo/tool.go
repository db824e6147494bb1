package debuginfo

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os/exec"
	"path/filepath"
)

// tool is the part shared by every reader: an executable invoked through a
// Runner, health-checked with --version.
type tool struct {
	name    string
	path    string
	pathErr error
	runner  Runner
}

func (t *tool) Name() string {
	return t.name
}

func (t *tool) Path() string {
	return t.path
}

func (t *tool) IsHealthy(ctx context.Context) bool {
	if t.pathErr != nil {
		return false
	}
	_, err := t.runner.Run(ctx, t.path, "--version")
	return err == nil
}

func (t *tool) run(ctx context.Context, args ...string) ([]byte, error) {
	if t.pathErr != nil {
		return nil, fmt.Errorf("%s: %w: %w", t.name, ErrUnavailable, t.pathErr)
	}
	out, err := t.runner.Run(ctx, t.path, args...)
	if err == nil {
		return out, nil
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return nil, ctxErr
	}
	if notStarted(err) {
		return nil, fmt.Errorf("%s: %w: %w", t.name, ErrUnavailable, err)
	}
	return nil, fmt.Errorf("%s: %w: %w", t.name, ErrToolFailed, err)
}

func notStarted(err error) bool {
	var runErr *RunError
	if errors.As(err, &runErr) && runErr.Started() {
		return false
	}
	return errors.Is(err, exec.ErrNotFound) ||
		errors.Is(err, fs.ErrNotExist) ||
		errors.Is(err, fs.ErrPermission) ||
		errors.As(err, &runErr)
}

var toolchainSubpaths = map[string]string{
	"linux":   filepath.Join("linux", "bin"),
	"darwin":  filepath.Join("macos", "bin"),
	"windows": filepath.Join("win32", "usr", "bin"),
}

// ToolchainPath returns the location of executable exe inside a vendor
// toolchain installed at root, for the host platform goos.
func ToolchainPath(root, goos, exe string) (string, error) {
	if root == "" {
		return "", errors.New("toolchain root not configured")
	}
	sub, ok := toolchainSubpaths[goos]
	if !ok {
		return "", fmt.Errorf("unsupported toolchain host platform %q", goos)
	}
	if goos == "windows" {
		exe += ".exe"
	}
	return filepath.Join(root, sub, exe), nil
}
