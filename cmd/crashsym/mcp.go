package main

import (
	"context"
	"errors"
	stdlog "log"
	"os"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/mark3labs/mcp-go/server"
	"github.com/prometheus/common/version"
	"github.com/spf13/afero"

	"github.com/robotsym/crashsym/pkg/mcpserver"
	"github.com/robotsym/crashsym/pkg/symbolizer"
)

// serveMCP answers tool calls on stdin and stdout until ctx is done. Logs
// stay on stderr so they never interleave with protocol messages.
func serveMCP(ctx context.Context, fs afero.Fs, s *symbolizer.Symbolizer) error {
	logger := log.With(logger, "component", "mcp")
	srv := server.NewStdioServer(mcpserver.New(mcpserver.NewHandler(logger, fs, s), version.Version))
	srv.SetErrorLogger(stdlog.New(log.NewStdlibAdapter(level.Error(logger)), "", 0))

	level.Info(logger).Log("msg", "serving tools over stdio", "readers", len(s.Readers()))
	err := srv.Listen(ctx, os.Stdin, os.Stdout)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
