// Copyright (c) 2024 Neomantra Corp

package barmcp

import (
	"github.com/mark3labs/mcp-go/mcp"
	mcp_server "github.com/mark3labs/mcp-go/server"
)

// RegisterTools registers barmcp's tools with mcpServer.
func (s *Server) RegisterTools(mcpServer *mcp_server.MCPServer) {
	mcpServer.AddTool(
		mcp.NewTool("latest_bar",
			mcp.WithDescription("Returns the most recently finalized OHLCV bar for the running aggregator, or an error if none has finalized yet."),
			mcp.WithReadOnlyHintAnnotation(true),
			mcp.WithDestructiveHintAnnotation(false),
			mcp.WithIdempotentHintAnnotation(true),
		),
		s.latestBarHandler,
	)

	mcpServer.AddTool(
		mcp.NewTool("builder_stats",
			mcp.WithDescription("Returns the in-progress bar builder's running update count, cumulative volume, and the timestamp of its most recently accepted update."),
			mcp.WithReadOnlyHintAnnotation(true),
			mcp.WithDestructiveHintAnnotation(false),
			mcp.WithIdempotentHintAnnotation(true),
		),
		s.builderStatsHandler,
	)
}
