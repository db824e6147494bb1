package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-kit/log/level"
	"github.com/spf13/afero"

	"github.com/robotsym/crashsym/pkg/buildpatch"
)

func enableDebug(ctx context.Context, fs afero.Fs, params *projectParams) error {
	root, err := params.root()
	if err != nil {
		return err
	}

	err = buildpatch.Apply(fs, root)
	switch {
	case errors.Is(err, buildpatch.ErrAlreadyPatched):
		level.Info(logger).Log("msg", "debug metadata already enabled", "project", root)
		return nil
	case err != nil:
		return err
	}

	fmt.Fprintf(output(ctx), "%s %s; rebuild the project to pick it up\n", green("enabled debug metadata in"), buildpatch.BuildFile)
	return nil
}
