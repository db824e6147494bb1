package debuginfo

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/robotsym/crashsym/pkg/codeobject"
)

// TextReader drives addr2line-compatible tools, which print the function
// name and a path:line pair on two lines.
type TextReader struct {
	tool
}

func NewTextReader(name, path string, runner Runner) *TextReader {
	return &TextReader{tool: tool{name: name, path: path, runner: runner}}
}

// NewToolchainReader returns a TextReader bound to the addr2line shipped
// with a vendor toolchain installed at root.
func NewToolchainReader(name, root, goos, exe string, runner Runner) *TextReader {
	path, err := ToolchainPath(root, goos, exe)
	return &TextReader{tool: tool{name: name, path: path, pathErr: err, runner: runner}}
}

func (r *TextReader) Resolve(ctx context.Context, address uint64, obj codeobject.CodeObject) (*Symbol, error) {
	out, err := r.run(ctx, "-f", "-C", "-e", obj.String(), "--", formatAddress(address))
	if err != nil {
		return nil, err
	}
	sym, err := parseAddr2Line(out)
	if err != nil {
		return nil, fmt.Errorf("%s: %s: %w", r.name, obj.Base(), err)
	}
	sym.CodeObject = obj
	return sym, nil
}

func parseAddr2Line(out []byte) (*Symbol, error) {
	lines := strings.Split(strings.TrimRight(string(out), "\r\n"), "\n")
	if len(lines) < 2 {
		return nil, fmt.Errorf("%w: expected 2 lines, got %d", ErrParse, len(lines))
	}
	name := strings.TrimSpace(lines[0])
	if name == "" || name == "??" {
		return nil, ErrNoSymbolData
	}
	sym := &Symbol{Name: name}

	loc := strings.TrimSpace(lines[1])
	if i := strings.Index(loc, " (discriminator"); i >= 0 {
		loc = loc[:i]
	}
	if loc == "??" {
		return sym, nil
	}
	sep := strings.LastIndexByte(loc, ':')
	if sep <= 0 {
		return nil, fmt.Errorf("%w: malformed location %q", ErrParse, loc)
	}
	file, lineStr := loc[:sep], loc[sep+1:]
	if file == "??" || lineStr == "?" {
		return sym, nil
	}
	line, err := strconv.Atoi(lineStr)
	if err != nil || line < 0 {
		return nil, fmt.Errorf("%w: malformed line number %q", ErrParse, lineStr)
	}
	if line == 0 {
		return sym, nil
	}
	sym.Location = &Location{
		File:   file,
		Line:   line - 1,
		Column: UnknownColumn,
	}
	return sym, nil
}
