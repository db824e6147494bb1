package debuginfo

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/ianlancetaylor/demangle"
	jsoniter "github.com/json-iterator/go"

	"github.com/robotsym/crashsym/pkg/codeobject"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// JSONReader drives llvm-symbolizer with JSON output, which also reports
// columns.
type JSONReader struct {
	tool
}

func NewJSONReader(name, path string, runner Runner) *JSONReader {
	return &JSONReader{tool: tool{name: name, path: path, runner: runner}}
}

type llvmEntry struct {
	Address    string       `json:"Address"`
	ModuleName string       `json:"ModuleName"`
	Symbol     []llvmSymbol `json:"Symbol"`
	Error      *struct {
		Message string `json:"Message"`
	} `json:"Error"`
}

type llvmSymbol struct {
	FunctionName string `json:"FunctionName"`
	FileName     string `json:"FileName"`
	Line         int    `json:"Line"`
	Column       int    `json:"Column"`
}

func (r *JSONReader) Resolve(ctx context.Context, address uint64, obj codeobject.CodeObject) (*Symbol, error) {
	out, err := r.run(ctx, "--output-style=JSON", "-e", obj.String(), formatAddress(address))
	if err != nil {
		return nil, err
	}
	sym, err := parseLLVMSymbolizer(out)
	if err != nil {
		return nil, fmt.Errorf("%s: %s: %w", r.name, obj.Base(), err)
	}
	sym.CodeObject = obj
	return sym, nil
}

func parseLLVMSymbolizer(out []byte) (*Symbol, error) {
	out = bytes.TrimSpace(out)
	var entries []llvmEntry
	switch {
	case len(out) == 0:
		return nil, ErrNoEntry
	case out[0] == '{':
		// Some versions print one object per address instead of an array.
		var e llvmEntry
		if err := json.Unmarshal(out, &e); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrParse, err)
		}
		entries = append(entries, e)
	default:
		if err := json.Unmarshal(out, &entries); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrParse, err)
		}
	}

	if len(entries) == 0 {
		return nil, ErrNoEntry
	}
	entry := entries[0]
	if entry.Error != nil {
		return nil, fmt.Errorf("%w: %s", ErrNoEntry, entry.Error.Message)
	}
	if len(entry.Symbol) == 0 {
		return nil, ErrNoSymbolData
	}
	s := entry.Symbol[0]
	if s.FunctionName == "" || s.FunctionName == "??" {
		return nil, ErrSymbolNotFound
	}

	sym := &Symbol{Name: demangleName(s.FunctionName)}
	// Line 0 means the compiler emitted no line for the address.
	if s.FileName == "" || s.FileName == "??" || s.Line <= 0 {
		return sym, nil
	}
	sym.Location = &Location{
		File:   s.FileName,
		Line:   s.Line - 1,
		Column: UnknownColumn,
	}
	if s.Column > 0 {
		sym.Location.Column = s.Column - 1
	}
	return sym, nil
}

func demangleName(name string) string {
	if !strings.HasPrefix(name, "_Z") {
		return name
	}
	return demangle.Filter(name)
}
