// Package mcpserver exposes crash symbolization to editors over the Model
// Context Protocol.
package mcpserver

import (
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

const (
	ToolResolveAddress = "resolve_crash_address"
	ToolScanCrashLog   = "scan_crash_log"
	ToolEnableDebug    = "enable_debug_metadata"
)

// New registers the symbolization tools backed by h.
func New(h *Handler, version string) *server.MCPServer {
	if version == "" {
		version = "dev"
	}
	s := server.NewMCPServer(
		"crashsym",
		version,
		server.WithToolCapabilities(false),
	)

	s.AddTool(mcp.NewTool(ToolResolveAddress,
		mcp.WithDescription("Resolve a crash address reported by a VEX V5 brain to the function and source line of the user program."),
		mcp.WithString("project_path",
			mcp.Required(),
			mcp.Description("Root directory of the robot project."),
		),
		mcp.WithString("address",
			mcp.Required(),
			mcp.Description("Crash address in hex, with or without 0x prefix, e.g. 0x03801234."),
		),
	), h.ResolveAddress)

	s.AddTool(mcp.NewTool(ToolScanCrashLog,
		mcp.WithDescription("Find every user program address in a crash log or terminal dump and resolve each of them."),
		mcp.WithString("project_path",
			mcp.Required(),
			mcp.Description("Root directory of the robot project."),
		),
		mcp.WithString("crash_log",
			mcp.Required(),
			mcp.Description("Text of the crash log."),
		),
	), h.ScanCrashLog)

	s.AddTool(mcp.NewTool(ToolEnableDebug,
		mcp.WithDescription("Patch a VEXcode project makefile so that rebuilt code objects carry line information."),
		mcp.WithString("project_path",
			mcp.Required(),
			mcp.Description("Root directory of the robot project."),
		),
	), h.EnableDebug)

	return s
}
