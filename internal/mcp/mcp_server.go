// Package mcp provides the Model Context Protocol (MCP) server implementation.
package mcp

import (
	"context"

	"github.com/huangsam/deeptime/internal/contract"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// viewportArgs are the optional arguments shared by the viewport-based tools.
func viewportArgs() []mcp.ToolOption {
	return []mcp.ToolOption{
		mcp.WithString("start", mcp.Description("Left edge of the viewport (e.g. '13.8 billion years ago', '1000 BC', '1969-07-20'). Defaults to the server config.")),
		mcp.WithString("end", mcp.Description("Right edge of the viewport. Defaults to the server config.")),
		mcp.WithString("reference", mcp.Description("The 'now' instant distances are measured from. Defaults to the server config.")),
		mcp.WithNumber("width", mcp.Description("Viewport width in pixels.")),
	}
}

// NewMCPServer initializes and configures the DeepTime MCP server without starting it.
// This is exposed for unit testing.
func NewMCPServer(baseCfg *contract.Config, store contract.EventStore) *server.MCPServer {
	s := server.NewMCPServer(
		"DeepTime Timeline Server",
		"1.0.0",
		server.WithLogging(),
	)

	h := &toolHandler{
		baseCfg: baseCfg,
		store:   store,
	}

	// --- 1. Tool: convert_time ---
	s.AddTool(mcp.NewTool("convert_time",
		mcp.WithDescription("Parse a time string and describe it: precision, year, minutes since epoch, ISO form, relative phrase and log distance."),
		mcp.WithString("input", mcp.Description("Time to parse: a year, an era year, ISO-8601, 'now' or 'N units ago'."), mcp.Required()),
		mcp.WithString("reference", mcp.Description("The 'now' instant the relative phrase is measured from.")),
	), h.handleConvertTime)

	// --- 2. Tool: time_at_pixel ---
	s.AddTool(mcp.NewTool("time_at_pixel",
		append([]mcp.ToolOption{
			mcp.WithDescription("Return the time under a pixel of a logarithmic timeline viewport."),
			mcp.WithNumber("pixel", mcp.Description("Horizontal pixel, 0 is the left edge."), mcp.Required()),
		}, viewportArgs()...)...,
	), h.handleTimeAtPixel)

	// --- 3. Tool: pixel_position ---
	s.AddTool(mcp.NewTool("pixel_position",
		append([]mcp.ToolOption{
			mcp.WithDescription("Return the pixel a time maps to on a logarithmic timeline viewport."),
			mcp.WithString("time", mcp.Description("Time to place."), mcp.Required()),
		}, viewportArgs()...)...,
	), h.handlePixelPosition)

	// --- 4. Tool: generate_ticks ---
	s.AddTool(mcp.NewTool("generate_ticks",
		append([]mcp.ToolOption{
			mcp.WithDescription("Generate labelled axis ticks for a logarithmic timeline viewport."),
			mcp.WithNumber("max_ticks", mcp.Description("Upper bound on the number of ticks.")),
		}, viewportArgs()...)...,
	), h.handleGenerateTicks)

	// --- 5. Tool: visible_events ---
	s.AddTool(mcp.NewTool("visible_events",
		append([]mcp.ToolOption{
			mcp.WithDescription("Place and declutter the events visible in a timeline viewport."),
			mcp.WithString("categories", mcp.Description("Comma-separated categories; an event matches if it has any of them.")),
			mcp.WithNumber("min_significance", mcp.Description("Minimum event significance from 1 to 10.")),
		}, viewportArgs()...)...,
	), h.handleVisibleEvents)

	return s
}

// StartMCPServer starts the DeepTime MCP server on stdio.
func StartMCPServer(_ context.Context, baseCfg *contract.Config, store contract.EventStore) error {
	s := NewMCPServer(baseCfg, store)
	return server.ServeStdio(s)
}
