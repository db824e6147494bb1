package codeobject

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/afero"
)

// FixedPathLocator probes a fixed list of paths relative to the project
// root. The list order is the preference order; only existing entries are
// kept.
type FixedPathLocator struct {
	name   string
	fs     afero.Fs
	marker string
	paths  []string
}

func NewFixedPathLocator(name string, fs afero.Fs, marker string, paths ...string) *FixedPathLocator {
	return &FixedPathLocator{
		name:   name,
		fs:     fs,
		marker: marker,
		paths:  paths,
	}
}

// NewProsLocator returns the locator for PROS projects. The monolith
// artifact outranks the hot/cold split packages.
func NewProsLocator(fs afero.Fs, cfg Config) *FixedPathLocator {
	return NewFixedPathLocator("pros", fs, cfg.ProsMarker,
		filepath.Join(cfg.ProsBinDir, "monolith.elf"),
		filepath.Join(cfg.ProsBinDir, "hot.package.elf"),
		filepath.Join(cfg.ProsBinDir, "cold.package.elf"),
	)
}

func (l *FixedPathLocator) Name() string {
	return l.name
}

func (l *FixedPathLocator) Locate(ctx context.Context, projectRoot string) ([]CodeObject, error) {
	if l.marker != "" {
		ok, err := afero.Exists(l.fs, filepath.Join(projectRoot, l.marker))
		if err != nil {
			return nil, fmt.Errorf("stat marker %s: %w", l.marker, err)
		}
		if !ok {
			return nil, notApplicableError{locator: l.name, reason: "missing " + l.marker}
		}
	}

	var found []CodeObject
	for _, rel := range l.paths {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		p := filepath.Join(projectRoot, rel)
		fi, err := l.fs.Stat(p)
		switch {
		case errors.Is(err, os.ErrNotExist):
			continue
		case err != nil:
			return nil, fmt.Errorf("stat code object %s: %w", rel, err)
		case fi.IsDir():
			continue
		}
		found = append(found, CodeObject(p))
	}
	return found, nil
}
