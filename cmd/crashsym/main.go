package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/version"
	"github.com/spf13/afero"
	"gopkg.in/alecthomas/kingpin.v2"

	"github.com/robotsym/crashsym/pkg/debuginfo"
	"github.com/robotsym/crashsym/pkg/symbolizer"
)

var cfg struct {
	verbose       bool
	configFile    string
	expandEnv     bool
	toolchainRoot string
	output        string
}

var (
	consoleOutput io.Writer = os.Stderr
	logger                  = log.NewLogfmtLogger(consoleOutput)
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	ctx = withOutput(ctx, os.Stdout)

	app := kingpin.New(filepath.Base(os.Args[0]), "Resolves crash addresses of VEX V5 user programs to source locations.").UsageWriter(os.Stdout)
	app.Version(version.Print("crashsym"))
	app.HelpFlag.Short('h')
	app.Flag("verbose", "Enable verbose logging.").Short('v').Default("0").BoolVar(&cfg.verbose)
	app.Flag("config.file", "YAML file to load the configuration from.").StringVar(&cfg.configFile)
	app.Flag("config.expand-env", "Expand ${VAR} references in the configuration file from the environment.").Default("false").BoolVar(&cfg.expandEnv)
	app.Flag("toolchain-root", "Installation root of the vendor ARM toolchain. Overrides the configuration file and $PROS_TOOLCHAIN.").StringVar(&cfg.toolchainRoot)
	app.Flag("output", "Output format.").Default(outputText).EnumVar(&cfg.output, outputText, outputJSON)

	resolveCmd := app.Command("resolve", "Resolve crash addresses reported by the brain.")
	resolveParams := addResolveParams(resolveCmd)

	scanCmd := app.Command("scan", "Resolve every user program address found in a crash log.")
	scanParams := addScanParams(scanCmd)

	locateCmd := app.Command("locate", "List the code objects each locator finds for a project.")
	locateParams := addProjectParams(locateCmd)

	readersCmd := app.Command("readers", "Check which debug-info readers can be used.")

	enableDebugCmd := app.Command("enable-debug", "Patch the project build so that code objects carry line information.")
	enableDebugParams := addProjectParams(enableDebugCmd)

	mcpCmd := app.Command("mcp", "Serve the resolve and enable-debug tools to editors over the Model Context Protocol on stdio.")

	// parse command line arguments
	parsedCmd := kingpin.MustParse(app.Parse(os.Args[1:]))

	// enable verbose logging if requested
	if !cfg.verbose {
		logger = level.NewFilter(logger, level.AllowInfo())
	}

	fs := afero.NewOsFs()
	reg := prometheus.NewRegistry()
	if cfg.verbose {
		defer logMetrics(reg)
	}

	// enable-debug only touches the project, no readers are needed.
	if parsedCmd == enableDebugCmd.FullCommand() {
		os.Exit(checkError(enableDebug(ctx, fs, enableDebugParams)))
	}

	symCfg, err := loadConfig(fs, configSource{
		path:          cfg.configFile,
		expandEnv:     cfg.expandEnv,
		toolchainRoot: cfg.toolchainRoot,
	})
	if err != nil {
		os.Exit(checkError(err))
	}
	s, err := symbolizer.NewDefault(logger, symCfg, reg, symbolizer.Dependencies{
		Fs:     fs,
		Runner: debuginfo.ExecRunner{},
		GOOS:   runtime.GOOS,
	})
	if err != nil {
		os.Exit(checkError(err))
	}

	switch parsedCmd {
	case resolveCmd.FullCommand():
		err = resolve(ctx, fs, s, resolveParams)
	case scanCmd.FullCommand():
		err = scan(ctx, fs, s, scanParams)
	case locateCmd.FullCommand():
		err = locate(ctx, fs, s, locateParams)
	case readersCmd.FullCommand():
		err = readers(ctx, s)
	case mcpCmd.FullCommand():
		err = serveMCP(ctx, fs, s)
	default:
		level.Error(logger).Log("msg", "unknown command", "cmd", parsedCmd)
		err = fmt.Errorf("unknown command %q", parsedCmd)
	}
	if code := checkError(err); code != 0 {
		if cfg.verbose {
			logMetrics(reg)
		}
		os.Exit(code)
	}
}

// errReported is returned after per-address failures were printed.
var errReported = errors.New("not every address could be resolved")

func checkError(err error) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, context.Canceled):
		fmt.Fprintln(os.Stderr, "interrupted")
	default:
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
	}
	return 1
}

type contextKey uint8

const (
	contextKeyOutput contextKey = iota
)

func withOutput(ctx context.Context, w io.Writer) context.Context {
	return context.WithValue(ctx, contextKeyOutput, w)
}

func output(ctx context.Context) io.Writer {
	if w, ok := ctx.Value(contextKeyOutput).(io.Writer); ok {
		return w
	}
	return os.Stdout
}
