// Copyright (c) 2024 Neomantra Corp
//
// barcore-mcp is a Model Context Protocol server exposing a running bar
// aggregator's latest bar and builder stats to an LLM client, driven by
// replaying a tick file in the background.
//
package main

import (
	"fmt"
	"log/slog"
	"os"
	"sync"

	mcp_server "github.com/mark3labs/mcp-go/server"
	"github.com/spf13/pflag"

	"github.com/neomantra/barcore"
	"github.com/neomantra/barcore/internal/barmcp"
	"github.com/neomantra/barcore/internal/replay"
)

const (
	serverVersion = "0.1.0"

	serverInstructions = `barcore-mcp exposes a live OHLCV bar aggregator. Use latest_bar to see the most recently finalized bar; use builder_stats to see the in-progress bar's running count and volume before it finalizes.`
)

// memState is a minimal, thread-safe barmcp.StateProvider fed by an
// aggregator's handler and Update calls.
type memState struct {
	mu sync.Mutex

	hasBar                                  bool
	barType                                 string
	open, high, low, close, volume          string
	tsEvent, tsInit                         int64

	count      int
	curVolume  string
	tsLast     int64
}

func (s *memState) onBar(bar barcore.Bar) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.hasBar = true
	s.barType = bar.BarType.String()
	s.open, s.high, s.low, s.close, s.volume = bar.Open.String(), bar.High.String(), bar.Low.String(), bar.Close.String(), bar.Volume.String()
	s.tsEvent, s.tsInit = bar.TsEvent, bar.TsInit
}

func (s *memState) onStats(count int, volume barcore.Quantity, tsLast int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.count, s.curVolume, s.tsLast = count, volume.String(), tsLast
}

func (s *memState) LatestBar() (barType string, open, high, low, close, volume string, tsEvent, tsInit int64, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.barType, s.open, s.high, s.low, s.close, s.volume, s.tsEvent, s.tsInit, s.hasBar
}

func (s *memState) BuilderStats() (count int, volume string, tsLast int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.count, s.curVolume, s.tsLast
}

func main() {
	var (
		file       string
		kindStr    string
		step       int64
		precision  uint8
		instrument string
		useSSE     bool
		sseHostPort string
		verbose    bool
		showHelp   bool
	)

	pflag.StringVarP(&file, "file", "f", "", "Tick file to replay in the background (required)")
	pflag.StringVarP(&kindStr, "kind", "k", "tick", "Aggregation kind: tick, volume, value")
	pflag.Int64VarP(&step, "step", "s", 10, "Aggregation step")
	pflag.Uint8VarP(&precision, "precision", "p", 2, "Decimal precision of replayed prices/sizes")
	pflag.StringVarP(&instrument, "instrument", "i", "REPLAY", "Instrument symbol")
	pflag.BoolVarP(&useSSE, "sse", "", false, "Use SSE transport (default is STDIO)")
	pflag.StringVarP(&sseHostPort, "port", "P", ":8890", "host:port for SSE transport")
	pflag.BoolVarP(&verbose, "verbose", "v", false, "Verbose logging")
	pflag.BoolVarP(&showHelp, "help", "h", false, "Show help")
	pflag.Parse()

	if showHelp || file == "" {
		fmt.Fprintf(os.Stdout, "usage: %s -f <tick-file> [opts]\n\n", os.Args[0])
		pflag.PrintDefaults()
		os.Exit(0)
	}

	logLevel := slog.LevelInfo
	if verbose {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel}))

	if err := run(file, kindStr, step, precision, instrument, useSSE, sseHostPort, logger); err != nil {
		logger.Error("run loop error", "error", err)
		os.Exit(1)
	}
}

func run(file, kindStr string, step int64, precision uint8, instrument string, useSSE bool, sseHostPort string, logger *slog.Logger) error {
	kind, err := parseKind(kindStr)
	if err != nil {
		return err
	}

	inst := barcore.NewSimpleInstrument(barcore.InstrumentID(instrument), precision)
	barType := barcore.BarType{
		InstrumentID: inst.ID(),
		Spec: barcore.BarSpecification{
			Step: step, Kind: kind, PriceSelector: barcore.PriceSelector_Last,
		},
		Source: barcore.AggregationSource_Internal,
	}

	state := &memState{}

	var aggregator barcore.BarAggregator
	switch kind {
	case barcore.AggregationKind_Tick:
		aggregator, err = barcore.NewTickAggregator(inst, barType, state.onBar, false)
	case barcore.AggregationKind_Volume:
		aggregator, err = barcore.NewVolumeAggregator(inst, barType, state.onBar, false)
	case barcore.AggregationKind_Value:
		aggregator, err = barcore.NewValueAggregator(inst, barType, state.onBar, false)
	default:
		err = fmt.Errorf("kind %s is not supported by barcore-mcp's file-replay driver", kind)
	}
	if err != nil {
		return err
	}

	go feed(file, precision, logger, aggregator, state)

	mcpServer := mcp_server.NewMCPServer("barcore-mcp", serverVersion,
		mcp_server.WithRecovery(),
		mcp_server.WithInstructions(serverInstructions),
	)

	srv := barmcp.NewServer(state, logger)
	srv.RegisterTools(mcpServer)

	if useSSE {
		sseServer := mcp_server.NewSSEServer(mcpServer)
		logger.Info("barcore-mcp SSE server started", "hostPort", sseHostPort)
		if err := sseServer.Start(sseHostPort); err != nil {
			return fmt.Errorf("SSE server error: %w", err)
		}
	} else {
		logger.Info("barcore-mcp STDIO server started")
		if err := mcp_server.ServeStdio(mcpServer); err != nil {
			return fmt.Errorf("STDIO server error: %w", err)
		}
	}
	return nil
}

func feed(file string, precision uint8, logger *slog.Logger, aggregator barcore.BarAggregator, state *memState) {
	reader, err := replay.Open(file, precision, logger)
	if err != nil {
		logger.Error("open replay file", "error", err)
		return
	}
	defer reader.Close()

	var rec replay.Record
	for reader.Next(&rec) {
		switch rec.Kind {
		case replay.RecordKind_Quote:
			aggregator.HandleQuote(rec.Quote)
		case replay.RecordKind_Trade:
			aggregator.HandleTrade(rec.Trade)
		}
		state.onStats(aggregator.Stats())
	}
}

func parseKind(s string) (barcore.AggregationKind, error) {
	switch s {
	case "tick":
		return barcore.AggregationKind_Tick, nil
	case "volume":
		return barcore.AggregationKind_Volume, nil
	case "value":
		return barcore.AggregationKind_Value, nil
	default:
		return 0, fmt.Errorf("unknown aggregation kind %q", s)
	}
}
