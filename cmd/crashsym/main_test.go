package main

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"

	"github.com/robotsym/crashsym/pkg/buildpatch"
	"github.com/robotsym/crashsym/pkg/codeobject"
	"github.com/robotsym/crashsym/pkg/debuginfo"
)

func init() {
	color.NoColor = true
}

func TestLoadConfig(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/etc/crashsym.yaml", []byte(`
readers:
  toolchain_root: /opt/pros-toolchain
  order: llvm,binutils
locators:
  pros_bin_dir: out
cache_ttl: 30s
`), 0o644))
	require.NoError(t, afero.WriteFile(fs, "/etc/typo.yaml", []byte("cache_sise: 10\n"), 0o644))
	require.NoError(t, afero.WriteFile(fs, "/etc/empty.yaml", nil, 0o644))
	require.NoError(t, afero.WriteFile(fs, "/etc/env.yaml", []byte("readers:\n  toolchain_root: ${CRASHSYM_TEST_TOOLCHAIN}/pros\n"), 0o644))

	t.Run("file", func(t *testing.T) {
		c, err := loadConfig(fs, configSource{path: "/etc/crashsym.yaml"})
		require.NoError(t, err)
		require.Equal(t, "/opt/pros-toolchain", c.Readers.ToolchainRoot)
		require.Equal(t, []string{debuginfo.ReaderLLVM, debuginfo.ReaderBinutils}, []string(c.Readers.Order))
		require.Equal(t, "out", c.Locators.ProsBinDir)
		require.Equal(t, "project.pros", c.Locators.ProsMarker)
		require.Equal(t, 30*time.Second, c.CacheTTL)
		require.Equal(t, 0, c.CacheSize)
	})

	t.Run("toolchain root flag wins", func(t *testing.T) {
		c, err := loadConfig(fs, configSource{path: "/etc/crashsym.yaml", toolchainRoot: "/home/robot/toolchain"})
		require.NoError(t, err)
		require.Equal(t, "/home/robot/toolchain", c.Readers.ToolchainRoot)
	})

	t.Run("empty file keeps defaults", func(t *testing.T) {
		c, err := loadConfig(fs, configSource{path: "/etc/empty.yaml"})
		require.NoError(t, err)
		require.Equal(t, []string{debuginfo.ReaderToolchain, debuginfo.ReaderLLVM, debuginfo.ReaderBinutils}, []string(c.Readers.Order))
	})

	t.Run("expand env", func(t *testing.T) {
		t.Setenv("CRASHSYM_TEST_TOOLCHAIN", "/opt")
		c, err := loadConfig(fs, configSource{path: "/etc/env.yaml", expandEnv: true})
		require.NoError(t, err)
		require.Equal(t, "/opt/pros", c.Readers.ToolchainRoot)

		c, err = loadConfig(fs, configSource{path: "/etc/env.yaml"})
		require.NoError(t, err)
		require.Equal(t, "${CRASHSYM_TEST_TOOLCHAIN}/pros", c.Readers.ToolchainRoot)
	})

	t.Run("unknown field", func(t *testing.T) {
		_, err := loadConfig(fs, configSource{path: "/etc/typo.yaml"})
		require.Error(t, err)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := loadConfig(fs, configSource{path: "/etc/missing.yaml"})
		require.Error(t, err)
	})
}

func TestPrintResolution(t *testing.T) {
	root := filepath.FromSlash("/robot")
	obj := codeobject.CodeObject(filepath.Join(root, "bin", "hot.package.elf"))

	tests := []struct {
		name   string
		format string
		in     resolution
		want   string
	}{
		{
			name:   "location",
			format: outputText,
			in: resolution{Address: "0x03801234", Symbol: &debuginfo.Symbol{
				Name:       "opcontrol()",
				Location:   &debuginfo.Location{File: "src/main.cpp", Line: 11, Column: 4},
				CodeObject: obj,
			}},
			want: "0x03801234 opcontrol() at src/main.cpp:12:5 (" + filepath.Join("bin", "hot.package.elf") + ")\n",
		},
		{
			name:   "symbol only",
			format: outputText,
			in:     resolution{Address: "0x03801234", Symbol: &debuginfo.Symbol{Name: "vexTasksRun", CodeObject: obj}},
			want:   "0x03801234 vexTasksRun (no line information) (" + filepath.Join("bin", "hot.package.elf") + ")\n",
		},
		{
			name:   "error",
			format: outputText,
			in:     resolution{Input: "0x100", Error: "address below user program space"},
			want:   "0x100 address below user program space\n",
		},
		{
			name:   "json",
			format: outputJSON,
			in: resolution{Address: "0x03801234", Symbol: &debuginfo.Symbol{
				Name:       "main",
				Location:   &debuginfo.Location{File: "main.c", Line: 0, Column: debuginfo.UnknownColumn},
				CodeObject: "/robot/bin/monolith.elf",
			}},
			want: `{"address":"0x03801234","symbol":{"name":"main","location":{"file":"main.c","line":0,"column":-1},"code_object":"/robot/bin/monolith.elf"}}` + "\n",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, printResolution(&buf, tt.format, root, tt.in))
			require.Equal(t, tt.want, buf.String())
		})
	}
}

func TestRelative(t *testing.T) {
	root := filepath.FromSlash("/robot")
	require.Equal(t, filepath.Join("bin", "monolith.elf"), relative(root, codeobject.CodeObject(filepath.Join(root, "bin", "monolith.elf"))))
	other := codeobject.CodeObject(filepath.FromSlash("/other/monolith.elf"))
	require.Equal(t, other.String(), relative(root, other))
}

const vexcodeMakefile = `# VEXcode makefile 2019_03_26_01

# show compiler output
VERBOSE = 0

# include toolchain options
include vex/mkenv.mk

# location of the project source cpp and c files
SRC_C  = $(wildcard *.cpp)

# include build rules
include vex/mkrules.mk
`

func TestReport(t *testing.T) {
	origOutput, origConsole := cfg.output, consoleOutput
	t.Cleanup(func() { cfg.output, consoleOutput = origOutput, origConsole })
	cfg.output = outputText

	root := filepath.FromSlash("/robot")
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, filepath.Join(root, buildpatch.BuildFile), []byte(vexcodeMakefile), 0o644))

	symbolOnly := resolution{Address: "0x03801234", Symbol: &debuginfo.Symbol{Name: "vexTasksRun"}}
	failed := resolution{Address: "0x03805678", Error: "address could not be resolved to a line"}

	t.Run("hint when debug metadata can be enabled", func(t *testing.T) {
		var out, console bytes.Buffer
		consoleOutput = &console
		err := report(withOutput(context.Background(), &out), fs, root, []resolution{symbolOnly})
		require.NoError(t, err)
		require.Contains(t, console.String(), "enable-debug")
	})

	t.Run("no hint once patched", func(t *testing.T) {
		patched := afero.NewMemMapFs()
		require.NoError(t, afero.WriteFile(patched, filepath.Join(root, buildpatch.BuildFile), []byte(vexcodeMakefile), 0o644))
		require.NoError(t, buildpatch.Apply(patched, root))

		var out, console bytes.Buffer
		consoleOutput = &console
		require.NoError(t, report(withOutput(context.Background(), &out), patched, root, []resolution{symbolOnly}))
		require.Empty(t, console.String())
	})

	t.Run("failures", func(t *testing.T) {
		var out, console bytes.Buffer
		consoleOutput = &console
		err := report(withOutput(context.Background(), &out), fs, root, []resolution{symbolOnly, failed})
		require.ErrorIs(t, err, errReported)
		require.True(t, strings.HasPrefix(err.Error(), "1 of 2"))
		require.Equal(t, 2, strings.Count(out.String(), "\n"))
	})
}
