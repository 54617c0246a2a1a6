// Copyright (c) 2024 Neomantra Corp

// Package barsink provides barcore.BarHandler implementations: structured
// logging, retrying webhook delivery, and in-memory Arrow columnar
// accumulation. NewLogSink returns a barcore.BarHandler closure directly;
// WebhookSink and ArrowSink expose one through their Handler method.
package barsink

import (
	"log/slog"

	"github.com/neomantra/barcore"
)

// NewLogSink returns a barcore.BarHandler that logs each finalized bar as a
// structured slog record at Info level. A nil logger defaults to
// slog.Default().
func NewLogSink(logger *slog.Logger) barcore.BarHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return func(bar barcore.Bar) {
		logger.Info("bar finalized",
			"bar_type", bar.BarType.String(),
			"open", bar.Open.String(),
			"high", bar.High.String(),
			"low", bar.Low.String(),
			"close", bar.Close.String(),
			"volume", bar.Volume.String(),
			"ts_event", bar.TsEvent,
			"ts_init", bar.TsInit,
		)
	}
}
