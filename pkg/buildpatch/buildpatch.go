// Package buildpatch enables debug metadata in VEXcode project makefiles so
// that crash addresses can be mapped back to source lines.
package buildpatch

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
)

const (
	// BuildFile is the makefile generated by VEXcode at the project root.
	BuildFile = "makefile"
	// Marker is the line above which the patch is inserted.
	Marker = "# include build rules"

	sentinel = "# crashsym: enable debug metadata"
)

var (
	ErrAlreadyPatched = errors.New("debug metadata already enabled")
	ErrMarkerNotFound = errors.New("build file has no insertion marker")
)

var patch = strings.Join([]string{
	sentinel,
	"CFLAGS += -g",
	"CXX_FLAGS += -g",
	"",
}, "\n")

// Patch inserts compiler flags enabling debug metadata before the marker
// line. Patching already patched contents fails with ErrAlreadyPatched.
func Patch(contents string) (string, error) {
	if strings.Contains(contents, sentinel) {
		return "", ErrAlreadyPatched
	}
	idx := markerIndex(contents)
	if idx < 0 {
		return "", ErrMarkerNotFound
	}
	newline := "\n"
	if strings.Contains(contents, "\r\n") {
		newline = "\r\n"
	}
	return contents[:idx] + strings.ReplaceAll(patch, "\n", newline) + contents[idx:], nil
}

// markerIndex returns the offset of the marker when it starts a line.
func markerIndex(contents string) int {
	off := 0
	for {
		i := strings.Index(contents[off:], Marker)
		if i < 0 {
			return -1
		}
		i += off
		if i == 0 || contents[i-1] == '\n' {
			return i
		}
		off = i + len(Marker)
	}
}

// IsPatched reports whether contents already carry the patch.
func IsPatched(contents string) bool {
	return strings.Contains(contents, sentinel)
}

// CanEnableDebug reports whether applying the patch could give a
// location-less result a source line on the next build.
func CanEnableDebug(fs afero.Fs, projectRoot string) bool {
	data, err := afero.ReadFile(fs, filepath.Join(projectRoot, BuildFile))
	if err != nil {
		return false
	}
	contents := string(data)
	return !IsPatched(contents) && markerIndex(contents) >= 0
}

// Apply patches the project's build file in place.
func Apply(fs afero.Fs, projectRoot string) error {
	path := filepath.Join(projectRoot, BuildFile)
	fi, err := fs.Stat(path)
	if err != nil {
		return fmt.Errorf("stat build file: %w", err)
	}
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return fmt.Errorf("read build file: %w", err)
	}
	patched, err := Patch(string(data))
	if err != nil {
		return fmt.Errorf("patch %s: %w", path, err)
	}
	if err := afero.WriteFile(fs, path, []byte(patched), fi.Mode().Perm()); err != nil {
		return fmt.Errorf("write build file: %w", err)
	}
	return nil
}
