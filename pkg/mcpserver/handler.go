package mcpserver

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	jsoniter "github.com/json-iterator/go"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/spf13/afero"

	"github.com/robotsym/crashsym/pkg/buildpatch"
	"github.com/robotsym/crashsym/pkg/crashlog"
	"github.com/robotsym/crashsym/pkg/debuginfo"
	"github.com/robotsym/crashsym/pkg/symbolizer"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Handler turns tool calls into symbolizer requests. Failures the caller can
// act on are reported as tool errors; only cancellation fails the call.
type Handler struct {
	logger     log.Logger
	fs         afero.Fs
	symbolizer *symbolizer.Symbolizer
}

func NewHandler(logger log.Logger, fs afero.Fs, s *symbolizer.Symbolizer) *Handler {
	return &Handler{
		logger:     logger,
		fs:         fs,
		symbolizer: s,
	}
}

type Resolution struct {
	Address string            `json:"address"`
	Symbol  *debuginfo.Symbol `json:"symbol,omitempty"`
	Error   string            `json:"error,omitempty"`
	// CanEnableDebug is set when the symbol has no line information and
	// the project build can be patched to produce it.
	CanEnableDebug bool `json:"can_enable_debug,omitempty"`
}

func (h *Handler) ResolveAddress(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	root, errResult := projectRoot(req)
	if errResult != nil {
		return errResult, nil
	}
	in, err := req.RequireString("address")
	if err != nil {
		return mcp.NewToolResultError("address is required"), nil
	}
	addr, err := crashlog.ParseUserAddress(in)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	r, err := h.resolve(ctx, root, addr)
	if err != nil {
		if isCanceled(err) {
			return nil, err
		}
		return mcp.NewToolResultError(err.Error()), nil
	}
	if r.Error != "" {
		return mcp.NewToolResultError(r.Error), nil
	}
	return textResult(r)
}

func (h *Handler) ScanCrashLog(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	root, errResult := projectRoot(req)
	if errResult != nil {
		return errResult, nil
	}
	text, err := req.RequireString("crash_log")
	if err != nil {
		return mcp.NewToolResultError("crash_log is required"), nil
	}

	addrs := crashlog.Scan(text)
	if len(addrs) == 0 {
		return mcp.NewToolResultError("no user program addresses found in the crash log"), nil
	}
	level.Debug(h.logger).Log("msg", "found addresses in crash log", "count", len(addrs), "project", root)

	results := make([]Resolution, 0, len(addrs))
	for _, addr := range addrs {
		r, err := h.resolve(ctx, root, addr)
		if err != nil {
			if isCanceled(err) {
				return nil, err
			}
			return mcp.NewToolResultError(err.Error()), nil
		}
		results = append(results, r)
	}
	return textResult(results)
}

func (h *Handler) EnableDebug(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	root, errResult := projectRoot(req)
	if errResult != nil {
		return errResult, nil
	}

	err := buildpatch.Apply(h.fs, root)
	switch {
	case errors.Is(err, buildpatch.ErrAlreadyPatched):
		return mcp.NewToolResultText("debug metadata is already enabled in " + buildpatch.BuildFile), nil
	case err != nil:
		return mcp.NewToolResultError(err.Error()), nil
	}
	level.Info(h.logger).Log("msg", "enabled debug metadata", "project", root)
	return mcp.NewToolResultText(fmt.Sprintf("enabled debug metadata in %s; rebuild the project to pick it up", buildpatch.BuildFile)), nil
}

// resolve returns an error only when no address of the project can be
// resolved. Other failures are recorded in the Resolution.
func (h *Handler) resolve(ctx context.Context, root string, addr uint64) (Resolution, error) {
	r := Resolution{Address: fmt.Sprintf("0x%08x", addr)}
	sym, err := h.symbolizer.Resolve(ctx, root, addr)
	switch {
	case err == nil:
		r.Symbol = sym
		r.CanEnableDebug = !sym.HasLocation() && buildpatch.CanEnableDebug(h.fs, root)
	case isCanceled(err),
		errors.Is(err, symbolizer.ErrNoCandidates),
		errors.Is(err, symbolizer.ErrNoReader):
		return r, err
	default:
		r.Error = err.Error()
	}
	return r, nil
}

func projectRoot(req mcp.CallToolRequest) (string, *mcp.CallToolResult) {
	raw, err := req.RequireString("project_path")
	if err != nil {
		return "", mcp.NewToolResultError("project_path is required")
	}
	root, err := filepath.Abs(raw)
	if err != nil {
		return "", mcp.NewToolResultError(fmt.Sprintf("invalid project_path: %v", err))
	}
	return root, nil
}

func textResult(v interface{}) (*mcp.CallToolResult, error) {
	s, err := json.MarshalToString(v)
	if err != nil {
		return nil, err
	}
	return mcp.NewToolResultText(s), nil
}

func isCanceled(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
