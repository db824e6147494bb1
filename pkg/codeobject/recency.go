package codeobject

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/spf13/afero"
)

// Convention describes where one build system leaves its artifacts.
type Convention struct {
	Name    string
	Dir     string
	Pattern string
}

// RecencyLocator collects matching files across all conventions and orders
// them by modification time, most recently built first.
type RecencyLocator struct {
	fs          afero.Fs
	conventions []Convention
	now         func() time.Time
}

func NewRecencyLocator(fs afero.Fs, conventions ...Convention) *RecencyLocator {
	return &RecencyLocator{
		fs:          fs,
		conventions: conventions,
		now:         time.Now,
	}
}

// DefaultConventions lists the VEXcode, PROS and CMake output layouts.
func DefaultConventions(cfg Config) []Convention {
	return []Convention{
		{Name: "vexcode", Dir: cfg.VexcodeDir, Pattern: "*.elf"},
		{Name: "pros", Dir: cfg.ProsBinDir, Pattern: "*.elf"},
		{Name: "cmake", Dir: cfg.CMakeDir, Pattern: "*.elf"},
	}
}

func (l *RecencyLocator) Name() string {
	return "recency"
}

type candidate struct {
	path  string
	mtime time.Time
}

func (l *RecencyLocator) Locate(ctx context.Context, projectRoot string) ([]CodeObject, error) {
	var (
		applicable bool
		candidates []candidate
		seen       = make(map[string]struct{})
	)
	for _, c := range l.conventions {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		dir := filepath.Join(projectRoot, c.Dir)
		isDir, err := afero.IsDir(l.fs, dir)
		switch {
		case errors.Is(err, os.ErrNotExist):
			continue
		case err != nil:
			return nil, fmt.Errorf("stat %s output directory: %w", c.Name, err)
		case !isDir:
			continue
		}
		applicable = true

		matches, err := afero.Glob(l.fs, filepath.Join(dir, c.Pattern))
		if err != nil {
			return nil, fmt.Errorf("list %s outputs: %w", c.Name, err)
		}
		for _, m := range matches {
			if _, ok := seen[m]; ok {
				continue
			}
			fi, err := l.fs.Stat(m)
			switch {
			case errors.Is(err, os.ErrNotExist):
				// Removed since the directory was listed.
				continue
			case err != nil:
				return nil, fmt.Errorf("stat %s output: %w", c.Name, err)
			case !fi.Mode().IsRegular():
				continue
			}
			seen[m] = struct{}{}
			candidates = append(candidates, candidate{path: m, mtime: fi.ModTime()})
		}
	}
	if !applicable {
		return nil, notApplicableError{locator: l.Name(), reason: "no known build output directory"}
	}

	// Sorting by age ascending puts the newest build first.
	now := l.now()
	sort.SliceStable(candidates, func(i, j int) bool {
		ai, aj := now.Sub(candidates[i].mtime), now.Sub(candidates[j].mtime)
		if ai != aj {
			return ai < aj
		}
		return candidates[i].path < candidates[j].path
	})

	objects := make([]CodeObject, len(candidates))
	for i, c := range candidates {
		objects[i] = CodeObject(c.path)
	}
	return objects, nil
}

// Default returns the locators in their default priority order.
func Default(fs afero.Fs, cfg Config) []Locator {
	return []Locator{
		NewProsLocator(fs, cfg),
		NewRecencyLocator(fs, DefaultConventions(cfg)...),
	}
}
