// Copyright (c) 2024 Neomantra Corp

package barmcp

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/segmentio/encoding/json"
)

func (s *Server) latestBarHandler(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	barType, open, high, low, close, volume, tsEvent, tsInit, ok := s.State.LatestBar()
	if !ok {
		return mcp.NewToolResultError("no bar has finalized yet"), nil
	}

	jbytes, err := json.Marshal(map[string]any{
		"bar_type": barType,
		"open":     open,
		"high":     high,
		"low":      low,
		"close":    close,
		"volume":   volume,
		"ts_event": tsEvent,
		"ts_init":  tsInit,
	})
	if err != nil {
		return mcp.NewToolResultErrorf("failed to marshal result: %s", err), nil
	}

	s.Logger.Info("latest_bar", "bar_type", barType, "ts_event", tsEvent)
	return mcp.NewToolResultText(string(jbytes)), nil
}

func (s *Server) builderStatsHandler(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	count, volume, tsLast := s.State.BuilderStats()

	jbytes, err := json.Marshal(map[string]any{
		"count":   count,
		"volume":  volume,
		"ts_last": tsLast,
	})
	if err != nil {
		return mcp.NewToolResultErrorf("failed to marshal result: %s", err), nil
	}

	s.Logger.Info("builder_stats", "count", count, "volume", volume)
	return mcp.NewToolResultText(string(jbytes)), nil
}
