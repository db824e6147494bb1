package debuginfo

import (
	"context"
	"errors"
	"fmt"

	"github.com/robotsym/crashsym/pkg/codeobject"
)

var (
	// ErrUnavailable means the tool could not be started at all.
	ErrUnavailable = errors.New("reader unavailable")
	// ErrToolFailed means the tool started but exited unsuccessfully.
	ErrToolFailed = errors.New("reader tool failed")
	// ErrParse means the tool output could not be understood.
	ErrParse = errors.New("cannot parse reader output")
	// ErrNoEntry means the tool produced no entry for the address.
	ErrNoEntry = errors.New("no entry for address")
	// ErrNoSymbolData means the entry carries no symbol information.
	ErrNoSymbolData = errors.New("no symbol data")
	// ErrSymbolNotFound means the symbol entry is present but unnamed.
	ErrSymbolNotFound = errors.New("symbol does not exist")
)

// UnknownColumn marks a Location whose column is not known.
const UnknownColumn = -1

// Location is a source position. Line and Column are 0-based.
type Location struct {
	File   string `json:"file"`
	Line   int    `json:"line"`
	Column int    `json:"column"`
}

func (l Location) String() string {
	if l.Column == UnknownColumn {
		return fmt.Sprintf("%s:%d", l.File, l.Line+1)
	}
	return fmt.Sprintf("%s:%d:%d", l.File, l.Line+1, l.Column+1)
}

// Symbol is the outcome of symbolizing one address against one code
// object. A nil Location means the symbol is known but has no line
// mapping, e.g. because debug metadata was stripped.
type Symbol struct {
	Name       string                `json:"name"`
	Location   *Location             `json:"location,omitempty"`
	CodeObject codeobject.CodeObject `json:"code_object"`
}

func (s *Symbol) HasLocation() bool {
	return s != nil && s.Location != nil
}

// Reader symbolizes addresses by invoking one external debug-info tool.
type Reader interface {
	// Name is the display name offered to users, e.g. when asking them to
	// install a missing tool.
	Name() string
	// IsHealthy reports whether the tool can be invoked. It never fails.
	IsHealthy(ctx context.Context) bool
	Resolve(ctx context.Context, address uint64, obj codeobject.CodeObject) (*Symbol, error)
}

func formatAddress(address uint64) string {
	return fmt.Sprintf("0x%x", address)
}
