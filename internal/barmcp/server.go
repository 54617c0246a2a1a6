// Copyright (c) 2024 Neomantra Corp

// Package barmcp exposes a running bar aggregator's state to an LLM client
// over the Model Context Protocol: the latest finalized bar and the
// in-progress builder's running stats.
package barmcp

import "log/slog"

// StateProvider is the thread-safe snapshot interface barmcp.Server reads
// from; a barsink-style handler in the caller's process updates it as bars
// finalize.
type StateProvider interface {
	// LatestBar returns the most recently finalized bar's fields, or ok=false
	// if none has finalized yet.
	LatestBar() (barType string, open, high, low, close, volume string, tsEvent, tsInit int64, ok bool)

	// BuilderStats returns the in-progress builder's running count, volume,
	// and the timestamp of its most recent accepted update.
	BuilderStats() (count int, volume string, tsLast int64)
}

// Server holds state for barmcp tool handlers.
type Server struct {
	State  StateProvider
	Logger *slog.Logger
}

// NewServer constructs a Server. A nil logger defaults to slog.Default().
func NewServer(state StateProvider, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{State: state, Logger: logger}
}
