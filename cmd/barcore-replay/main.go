// Copyright (c) 2024 Neomantra Corp
//
// barcore-replay replays a newline-delimited JSON tick file through a
// barcore aggregator and logs each finalized bar.
//
package main

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/neomantra/ymdflag"
	"github.com/spf13/cobra"

	"github.com/neomantra/barcore"
	"github.com/neomantra/barcore/barsink"
	"github.com/neomantra/barcore/internal/replay"
)

///////////////////////////////////////////////////////////////////////////////

var (
	verbose    bool
	logJSON    bool
	kindStr    string
	unitStr    string
	step       int64
	precision  uint8
	instrument string
	webhookURL string
	since      time.Time
	until      time.Time

	logger *slog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "barcore-replay <file>",
	Short: "Replay a tick file through a barcore aggregator",
	Args:  cobra.ExactArgs(1),
	RunE:  runReplay,
}

func main() {
	rootCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Verbose logging")
	rootCmd.Flags().BoolVarP(&logJSON, "log-json", "j", false, "Log in JSON instead of plaintext")
	rootCmd.Flags().StringVarP(&kindStr, "kind", "k", "tick", "Aggregation kind: tick, volume, value (time is rejected: it needs a live clock)")
	rootCmd.Flags().StringVarP(&unitStr, "unit", "u", "minute", "Time unit (time kind only): second, minute, hour, day")
	rootCmd.Flags().Int64VarP(&step, "step", "s", 1, "Aggregation step")
	rootCmd.Flags().Uint8VarP(&precision, "precision", "p", 2, "Decimal precision of replayed prices/sizes")
	rootCmd.Flags().StringVarP(&instrument, "instrument", "i", "REPLAY", "Instrument symbol")
	rootCmd.Flags().StringVarP(&webhookURL, "webhook", "w", "", "Optional webhook URL to also post finalized bars to")
	rootCmd.Flags().Var(ymdflag.NewYMDFlag(&since), "since", "Only replay records at or after this YYYYMMDD date")
	rootCmd.Flags().Var(ymdflag.NewYMDFlag(&until), "until", "Only replay records before this YYYYMMDD date")

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %s\n", err.Error())
		os.Exit(1)
	}
}

func runReplay(cmd *cobra.Command, args []string) error {
	logLevel := slog.LevelInfo
	if verbose {
		logLevel = slog.LevelDebug
	}
	if logJSON {
		logger = slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel}))
	} else {
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel}))
	}

	kind, err := parseAggregationKind(kindStr)
	if err != nil {
		return err
	}
	unit, err := parseBarTimeUnit(unitStr)
	if err != nil {
		return err
	}

	inst := barcore.NewSimpleInstrument(barcore.InstrumentID(instrument), precision)
	barType := barcore.BarType{
		InstrumentID: inst.ID(),
		Spec: barcore.BarSpecification{
			Step:          step,
			Kind:          kind,
			Unit:          unit,
			PriceSelector: barcore.PriceSelector_Last,
		},
		Source: barcore.AggregationSource_Internal,
	}

	handlers := []barcore.BarHandler{barsink.NewLogSink(logger)}
	if webhookURL != "" {
		handlers = append(handlers, barsink.NewWebhookSink(webhookURL, 3, logger).Handler())
	}
	fanout := func(bar barcore.Bar) {
		for _, h := range handlers {
			h(bar)
		}
	}

	aggregator, err := newAggregator(inst, barType, fanout, kind)
	if err != nil {
		return fmt.Errorf("construct aggregator: %w", err)
	}

	reader, err := replay.Open(args[0], precision, logger)
	if err != nil {
		return err
	}
	defer reader.Close()

	var count, dropped uint64
	var rec replay.Record
	for reader.Next(&rec) {
		if !inWindow(rec) {
			dropped++
			continue
		}
		switch rec.Kind {
		case replay.RecordKind_Quote:
			aggregator.HandleQuote(rec.Quote)
		case replay.RecordKind_Trade:
			aggregator.HandleTrade(rec.Trade)
		}
		count++
	}
	if err := reader.Err(); err != nil {
		return fmt.Errorf("replay %s: %w", args[0], err)
	}

	logger.Info("replay complete",
		"file", args[0],
		"records", humanize.Comma(int64(count)),
		"dropped_out_of_window", humanize.Comma(int64(dropped)),
	)
	return nil
}

func inWindow(rec replay.Record) bool {
	var tsEvent int64
	switch rec.Kind {
	case replay.RecordKind_Quote:
		tsEvent = rec.Quote.TsEvent
	case replay.RecordKind_Trade:
		tsEvent = rec.Trade.TsEvent
	}
	t := time.Unix(0, tsEvent).UTC()
	if !since.IsZero() && t.Before(since) {
		return false
	}
	if !until.IsZero() && !t.Before(until) {
		return false
	}
	return true
}

func newAggregator(inst barcore.Instrument, barType barcore.BarType, handler barcore.BarHandler, kind barcore.AggregationKind) (barcore.BarAggregator, error) {
	switch kind {
	case barcore.AggregationKind_Tick:
		return barcore.NewTickAggregator(inst, barType, handler, false)
	case barcore.AggregationKind_Volume:
		return barcore.NewVolumeAggregator(inst, barType, handler, false)
	case barcore.AggregationKind_Value:
		return barcore.NewValueAggregator(inst, barType, handler, false)
	default:
		return nil, fmt.Errorf("kind %s requires a live clock and is not supported by barcore-replay", kind)
	}
}

func parseAggregationKind(s string) (barcore.AggregationKind, error) {
	switch s {
	case "tick":
		return barcore.AggregationKind_Tick, nil
	case "volume":
		return barcore.AggregationKind_Volume, nil
	case "value":
		return barcore.AggregationKind_Value, nil
	case "time":
		return barcore.AggregationKind_Time, nil
	default:
		return 0, fmt.Errorf("unknown aggregation kind %q", s)
	}
}

func parseBarTimeUnit(s string) (barcore.BarTimeUnit, error) {
	switch s {
	case "second":
		return barcore.BarTimeUnit_Second, nil
	case "minute":
		return barcore.BarTimeUnit_Minute, nil
	case "hour":
		return barcore.BarTimeUnit_Hour, nil
	case "day":
		return barcore.BarTimeUnit_Day, nil
	default:
		return 0, fmt.Errorf("unknown time unit %q", s)
	}
}
