package codeobject

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"path/filepath"
)

// ErrNotApplicable is returned by a Locator when the project does not
// follow the build convention the locator understands.
var ErrNotApplicable = errors.New("locator not applicable to project")

// CodeObject identifies one candidate compiled artifact, in practice a path.
type CodeObject string

func (o CodeObject) String() string {
	return string(o)
}

// Base returns the file name of the code object.
func (o CodeObject) Base() string {
	return filepath.Base(string(o))
}

// Locator finds candidate code objects for a project. Candidates are
// returned most-preferred first.
type Locator interface {
	Name() string
	Locate(ctx context.Context, projectRoot string) ([]CodeObject, error)
}

type notApplicableError struct {
	locator string
	reason  string
}

func (e notApplicableError) Error() string {
	return fmt.Sprintf("%s: %s: %s", e.locator, ErrNotApplicable, e.reason)
}

func (e notApplicableError) Unwrap() error {
	return ErrNotApplicable
}

// IsNotApplicable reports whether err means the locator does not apply.
func IsNotApplicable(err error) bool {
	return errors.Is(err, ErrNotApplicable)
}

type Config struct {
	ProsMarker string `yaml:"pros_marker"`
	ProsBinDir string `yaml:"pros_bin_dir"`
	VexcodeDir string `yaml:"vexcode_build_dir"`
	CMakeDir   string `yaml:"cmake_build_dir"`
}

func (cfg *Config) RegisterFlags(f *flag.FlagSet) {
	cfg.RegisterFlagsWithPrefix("locator.", f)
}

func (cfg *Config) RegisterFlagsWithPrefix(prefix string, f *flag.FlagSet) {
	f.StringVar(&cfg.ProsMarker, prefix+"pros-marker", "project.pros", "File whose presence marks a PROS project.")
	f.StringVar(&cfg.ProsBinDir, prefix+"pros-bin-dir", "bin", "Directory of PROS build outputs, relative to the project root.")
	f.StringVar(&cfg.VexcodeDir, prefix+"vexcode-build-dir", "build", "Directory of VEXcode build outputs, relative to the project root.")
	f.StringVar(&cfg.CMakeDir, prefix+"cmake-build-dir", "cmake-build", "Directory of CMake build outputs, relative to the project root.")
}

func (cfg *Config) Validate() error {
	for name, dir := range map[string]string{
		"pros-bin-dir":      cfg.ProsBinDir,
		"vexcode-build-dir": cfg.VexcodeDir,
		"cmake-build-dir":   cfg.CMakeDir,
	} {
		if dir == "" {
			return fmt.Errorf("invalid %s: must not be empty", name)
		}
		if filepath.IsAbs(dir) {
			return fmt.Errorf("invalid %s %q: must be relative to the project root", name, dir)
		}
	}
	if cfg.ProsMarker == "" {
		return fmt.Errorf("invalid pros-marker: must not be empty")
	}
	return nil
}
