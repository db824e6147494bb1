package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/briandowns/spinner"
	"github.com/go-kit/log/level"
	"github.com/mattn/go-isatty"
	"github.com/mitchellh/go-wordwrap"
	"github.com/spf13/afero"
	"gopkg.in/alecthomas/kingpin.v2"

	"github.com/robotsym/crashsym/pkg/buildpatch"
	"github.com/robotsym/crashsym/pkg/crashlog"
	"github.com/robotsym/crashsym/pkg/symbolizer"
)

type commander interface {
	Flag(name, help string) *kingpin.FlagClause
	Arg(name, help string) *kingpin.ArgClause
}

type projectParams struct {
	Project string
}

func addProjectParams(cmd commander) *projectParams {
	params := new(projectParams)
	cmd.Flag("project", "Root directory of the robot project.").Short('p').Default(".").StringVar(&params.Project)
	return params
}

func (p *projectParams) root() (string, error) {
	root, err := filepath.Abs(p.Project)
	if err != nil {
		return "", fmt.Errorf("resolve project path: %w", err)
	}
	return root, nil
}

type resolveParams struct {
	*projectParams
	Addresses []string
}

func addResolveParams(cmd commander) *resolveParams {
	params := &resolveParams{projectParams: addProjectParams(cmd)}
	cmd.Arg("address", "Crash address in hex, with or without 0x prefix.").Required().StringsVar(&params.Addresses)
	return params
}

type scanParams struct {
	*projectParams
	File string
}

func addScanParams(cmd commander) *scanParams {
	params := &scanParams{projectParams: addProjectParams(cmd)}
	cmd.Arg("file", "Crash log to scan, - reads standard input.").Required().StringVar(&params.File)
	return params
}

func resolve(ctx context.Context, fs afero.Fs, s *symbolizer.Symbolizer, params *resolveParams) error {
	root, err := params.root()
	if err != nil {
		return err
	}

	results := make([]resolution, 0, len(params.Addresses))
	for _, in := range params.Addresses {
		addr, err := crashlog.ParseUserAddress(in)
		if err != nil {
			results = append(results, resolution{Input: in, Error: err.Error()})
			continue
		}
		r, err := resolveOne(ctx, s, root, addr)
		if err != nil {
			return err
		}
		r.Input = in
		results = append(results, r)
	}
	return report(ctx, fs, root, results)
}

func scan(ctx context.Context, fs afero.Fs, s *symbolizer.Symbolizer, params *scanParams) error {
	root, err := params.root()
	if err != nil {
		return err
	}

	var text []byte
	if params.File == "-" {
		text, err = io.ReadAll(os.Stdin)
	} else {
		text, err = afero.ReadFile(fs, params.File)
	}
	if err != nil {
		return fmt.Errorf("read crash log: %w", err)
	}

	addrs := crashlog.Scan(string(text))
	if len(addrs) == 0 {
		return fmt.Errorf("no user program addresses found in %s", params.File)
	}
	level.Debug(logger).Log("msg", "found addresses in crash log", "count", len(addrs))

	stop := startProgress(len(addrs))
	results := make([]resolution, 0, len(addrs))
	for _, addr := range addrs {
		r, err := resolveOne(ctx, s, root, addr)
		if err != nil {
			stop()
			return err
		}
		results = append(results, r)
	}
	stop()
	return report(ctx, fs, root, results)
}

// startProgress shows a spinner on an interactive stderr while n addresses
// are resolved. The returned func removes it.
func startProgress(n int) func() {
	if n < 2 || cfg.output != outputText || !isTerminal(os.Stderr) {
		return func() {}
	}
	sp := spinner.New(spinner.CharSets[14], 100*time.Millisecond, spinner.WithWriter(os.Stderr))
	sp.Suffix = fmt.Sprintf(" resolving %d addresses", n)
	sp.Start()
	return sp.Stop
}

func isTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// resolveOne returns an error only when resolving has to stop altogether.
// Failures specific to the address are recorded in the resolution.
func resolveOne(ctx context.Context, s *symbolizer.Symbolizer, root string, addr uint64) (resolution, error) {
	r := resolution{Address: hexAddr(addr)}
	sym, err := s.Resolve(ctx, root, addr)
	switch {
	case err == nil:
		r.Symbol = sym
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return r, err
	case errors.Is(err, symbolizer.ErrNoCandidates), errors.Is(err, symbolizer.ErrNoReader):
		// Every other address would fail the same way.
		return r, err
	default:
		r.Error = err.Error()
	}
	return r, nil
}

const enableDebugHint = "hint: the project is built without line information. Run 'crashsym enable-debug' and rebuild it to see source lines."

func report(ctx context.Context, fs afero.Fs, root string, results []resolution) error {
	w := output(ctx)
	var failed, withoutLines int
	for _, r := range results {
		if err := printResolution(w, cfg.output, root, r); err != nil {
			return err
		}
		switch {
		case r.Error != "":
			failed++
		case !r.Symbol.HasLocation():
			withoutLines++
		}
	}

	if withoutLines > 0 && buildpatch.CanEnableDebug(fs, root) {
		if cfg.output == outputJSON {
			level.Info(logger).Log("msg", "code objects carry no line information, run enable-debug and rebuild the project", "project", root)
		} else {
			fmt.Fprintln(consoleOutput, yellow(wordwrap.WrapString(enableDebugHint, 80)))
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d: %w", failed, len(results), errReported)
	}
	return nil
}
