package debuginfo

import (
	"context"
	"errors"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/grafana/dskit/flagext"
	"github.com/stretchr/testify/require"

	"github.com/robotsym/crashsym/pkg/codeobject"
)

type call struct {
	path string
	args []string
}

type fakeRunner struct {
	out   []byte
	err   error
	calls []call
}

func (f *fakeRunner) Run(_ context.Context, path string, args ...string) ([]byte, error) {
	f.calls = append(f.calls, call{path: path, args: args})
	return f.out, f.err
}

func TestParseAddr2Line(t *testing.T) {
	tests := []struct {
		name    string
		out     string
		want    *Symbol
		wantErr error
	}{
		{
			name: "file and line",
			out:  "foo\n/src/x.c:42\n",
			want: &Symbol{Name: "foo", Location: &Location{File: "/src/x.c", Line: 41, Column: UnknownColumn}},
		},
		{
			name: "unknown location",
			out:  "foo\n??\n",
			want: &Symbol{Name: "foo"},
		},
		{
			name: "unknown file and line",
			out:  "foo\n??:0\n",
			want: &Symbol{Name: "foo"},
		},
		{
			name: "unknown line",
			out:  "foo\n/src/x.c:?\n",
			want: &Symbol{Name: "foo"},
		},
		{
			name: "discriminator suffix",
			out:  "vexSystemLinkAddrGet\n/src/link.c:7 (discriminator 2)\n",
			want: &Symbol{Name: "vexSystemLinkAddrGet", Location: &Location{File: "/src/link.c", Line: 6, Column: UnknownColumn}},
		},
		{
			name: "windows path and crlf",
			out:  "opcontrol()\r\nC:\\robot\\src\\main.cpp:88\r\n",
			want: &Symbol{Name: "opcontrol()", Location: &Location{File: "C:\\robot\\src\\main.cpp", Line: 87, Column: UnknownColumn}},
		},
		{
			name:    "single line",
			out:     "foo\n",
			wantErr: ErrParse,
		},
		{
			name:    "empty",
			out:     "",
			wantErr: ErrParse,
		},
		{
			name:    "unknown function",
			out:     "??\n??:0\n",
			wantErr: ErrNoSymbolData,
		},
		{
			name:    "malformed line",
			out:     "foo\n/src/x.c:abc\n",
			wantErr: ErrParse,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseAddr2Line([]byte(tt.out))
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestParseLLVMSymbolizer(t *testing.T) {
	tests := []struct {
		name    string
		out     string
		want    *Symbol
		wantErr error
	}{
		{
			name: "file line and column",
			out:  `[{"Symbol":[{"FunctionName":"foo","FileName":"/src/x.c","Line":10,"Column":3}]}]`,
			want: &Symbol{Name: "foo", Location: &Location{File: "/src/x.c", Line: 9, Column: 2}},
		},
		{
			name: "unknown column",
			out:  `[{"Address":"0x3800100","ModuleName":"bin/monolith.elf","Symbol":[{"FunctionName":"foo","FileName":"/src/x.c","Line":10,"Column":0}]}]`,
			want: &Symbol{Name: "foo", Location: &Location{File: "/src/x.c", Line: 9, Column: UnknownColumn}},
		},
		{
			name: "no file name",
			out:  `[{"Symbol":[{"FunctionName":"vexDeviceGetByIndex","Line":0,"Column":0}]}]`,
			want: &Symbol{Name: "vexDeviceGetByIndex"},
		},
		{
			name: "file without line",
			out:  `[{"Symbol":[{"FunctionName":"outlined","FileName":"/src/x.c","Line":0,"Column":0}]}]`,
			want: &Symbol{Name: "outlined"},
		},
		{
			name: "single object",
			out:  `{"Symbol":[{"FunctionName":"foo","FileName":"/src/x.c","Line":1,"Column":1}]}`,
			want: &Symbol{Name: "foo", Location: &Location{File: "/src/x.c", Line: 0, Column: 0}},
		},
		{
			name: "mangled name",
			out:  `[{"Symbol":[{"FunctionName":"_Z10opcontrolv"}]}]`,
			want: &Symbol{Name: "opcontrol()"},
		},
		{
			name:    "empty symbol array",
			out:     `[{"Symbol":[]}]`,
			wantErr: ErrNoSymbolData,
		},
		{
			name:    "missing symbol array",
			out:     `[{"Address":"0x3800100"}]`,
			wantErr: ErrNoSymbolData,
		},
		{
			name:    "empty array",
			out:     `[]`,
			wantErr: ErrNoEntry,
		},
		{
			name:    "no output",
			out:     "",
			wantErr: ErrNoEntry,
		},
		{
			name:    "tool error",
			out:     `[{"Address":"0x3800100","Error":{"Message":"No such file or directory"}}]`,
			wantErr: ErrNoEntry,
		},
		{
			name:    "empty function name",
			out:     `[{"Symbol":[{"FunctionName":"","FileName":"/src/x.c","Line":10}]}]`,
			wantErr: ErrSymbolNotFound,
		},
		{
			name:    "invalid json",
			out:     `[{"Symbol":`,
			wantErr: ErrParse,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseLLVMSymbolizer([]byte(tt.out))
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestTextReaderInvocation(t *testing.T) {
	runner := &fakeRunner{out: []byte("foo\n/src/x.c:42\n")}
	r := NewTextReader("GNU addr2line", "addr2line", runner)

	sym, err := r.Resolve(context.Background(), 0x3800abc, "/proj/bin/monolith.elf")
	require.NoError(t, err)
	require.Equal(t, codeobject.CodeObject("/proj/bin/monolith.elf"), sym.CodeObject)
	require.Equal(t, "foo", sym.Name)
	require.Equal(t, []call{{
		path: "addr2line",
		args: []string{"-f", "-C", "-e", "/proj/bin/monolith.elf", "--", "0x3800abc"},
	}}, runner.calls)
}

func TestJSONReaderInvocation(t *testing.T) {
	runner := &fakeRunner{out: []byte(`[{"Symbol":[{"FunctionName":"foo","FileName":"/src/x.c","Line":10,"Column":3}]}]`)}
	r := NewJSONReader("llvm-symbolizer", "/usr/bin/llvm-symbolizer", runner)

	sym, err := r.Resolve(context.Background(), 0x7800010, "/proj/build/app.elf")
	require.NoError(t, err)
	require.Equal(t, &Symbol{
		Name:       "foo",
		Location:   &Location{File: "/src/x.c", Line: 9, Column: 2},
		CodeObject: "/proj/build/app.elf",
	}, sym)
	require.Equal(t, []call{{
		path: "/usr/bin/llvm-symbolizer",
		args: []string{"--output-style=JSON", "-e", "/proj/build/app.elf", "0x7800010"},
	}}, runner.calls)
}

func TestReaderErrors(t *testing.T) {
	t.Run("executable not found", func(t *testing.T) {
		runner := &fakeRunner{err: &exec.Error{Name: "addr2line", Err: exec.ErrNotFound}}
		r := NewTextReader("GNU addr2line", "addr2line", runner)
		require.False(t, r.IsHealthy(context.Background()))
		_, err := r.Resolve(context.Background(), 0x3800000, "/a.elf")
		require.ErrorIs(t, err, ErrUnavailable)
	})

	t.Run("tool exits with error", func(t *testing.T) {
		runner := &fakeRunner{err: errors.New("exit status 1")}
		r := NewJSONReader("llvm-symbolizer", "llvm-symbolizer", runner)
		require.False(t, r.IsHealthy(context.Background()))
		_, err := r.Resolve(context.Background(), 0x3800000, "/a.elf")
		require.ErrorIs(t, err, ErrToolFailed)
	})

	t.Run("canceled", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		runner := &fakeRunner{err: errors.New("signal: killed")}
		r := NewTextReader("GNU addr2line", "addr2line", runner)
		_, err := r.Resolve(ctx, 0x3800000, "/a.elf")
		require.ErrorIs(t, err, context.Canceled)
	})

	t.Run("healthy", func(t *testing.T) {
		runner := &fakeRunner{out: []byte("GNU addr2line (GNU Binutils) 2.42\n")}
		r := NewTextReader("GNU addr2line", "addr2line", runner)
		require.True(t, r.IsHealthy(context.Background()))
		require.Equal(t, []string{"--version"}, runner.calls[0].args)
	})
}

func TestToolchainPath(t *testing.T) {
	tests := []struct {
		goos    string
		want    string
		wantErr bool
	}{
		{goos: "linux", want: filepath.Join("/opt/pros", "linux", "bin", "arm-none-eabi-addr2line")},
		{goos: "darwin", want: filepath.Join("/opt/pros", "macos", "bin", "arm-none-eabi-addr2line")},
		{goos: "windows", want: filepath.Join("/opt/pros", "win32", "usr", "bin", "arm-none-eabi-addr2line.exe")},
		{goos: "plan9", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.goos, func(t *testing.T) {
			got, err := ToolchainPath("/opt/pros", tt.goos, "arm-none-eabi-addr2line")
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}

	_, err := ToolchainPath("", "linux", "arm-none-eabi-addr2line")
	require.Error(t, err)
}

func TestToolchainReaderUnsupportedPlatform(t *testing.T) {
	runner := &fakeRunner{}
	r := NewToolchainReader("PROS toolchain addr2line", "/opt/pros", "plan9", "arm-none-eabi-addr2line", runner)
	require.False(t, r.IsHealthy(context.Background()))
	_, err := r.Resolve(context.Background(), 0x3800000, "/a.elf")
	require.ErrorIs(t, err, ErrUnavailable)
	require.Empty(t, runner.calls)
}

func TestDefaultReaders(t *testing.T) {
	var cfg Config
	flagext.DefaultValues(&cfg)
	require.NoError(t, cfg.Validate())

	runner := &fakeRunner{}
	cfg.ToolchainRoot = ""
	readers := Default(cfg, "linux", runner)
	require.Len(t, readers, 3)
	require.Equal(t, "PROS toolchain addr2line", readers[0].Name())
	require.Equal(t, "llvm-symbolizer", readers[1].Name())
	require.Equal(t, "GNU addr2line", readers[2].Name())
	// Without a toolchain root the vendor reader stays listed but never runs.
	require.False(t, readers[0].IsHealthy(context.Background()))
	_, err := readers[0].Resolve(context.Background(), 0x3800000, "/a.elf")
	require.ErrorIs(t, err, ErrUnavailable)
	require.Empty(t, runner.calls)

	cfg.ToolchainRoot = "/opt/pros"
	cfg.Order = []string{ReaderBinutils, ReaderToolchain}
	readers = Default(cfg, "linux", ExecRunner{})
	require.Len(t, readers, 2)
	require.Equal(t, "GNU addr2line", readers[0].Name())
	require.Equal(t, "PROS toolchain addr2line", readers[1].Name())

	cfg.Order = []string{ReaderLLVM, ReaderLLVM}
	require.Error(t, cfg.Validate())
	cfg.Order = []string{"gdb"}
	require.Error(t, cfg.Validate())
	cfg.Order = nil
	require.Error(t, cfg.Validate())
}
