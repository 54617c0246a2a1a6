// Copyright (c) 2024 Neomantra Corp
//
// barcore-tui is a live terminal dashboard for a single bar stream, driven
// by replaying a newline-delimited JSON tick file through a barcore
// aggregator.
//
package main

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/pflag"

	"github.com/neomantra/barcore"
	"github.com/neomantra/barcore/internal/bartui"
	"github.com/neomantra/barcore/internal/replay"
)

func main() {
	var (
		file       string
		kindStr    string
		unitStr    string
		step       int64
		precision  uint8
		instrument string
		speed      time.Duration
		showHelp   bool
	)

	pflag.StringVarP(&file, "file", "f", "", "Tick file to replay (required)")
	pflag.StringVarP(&kindStr, "kind", "k", "tick", "Aggregation kind: tick, volume, value")
	pflag.StringVarP(&unitStr, "unit", "u", "minute", "Time unit, unused outside of time kind")
	pflag.Int64VarP(&step, "step", "s", 10, "Aggregation step")
	pflag.Uint8VarP(&precision, "precision", "p", 2, "Decimal precision of replayed prices/sizes")
	pflag.StringVarP(&instrument, "instrument", "i", "REPLAY", "Instrument symbol, shown in the dashboard header")
	pflag.DurationVarP(&speed, "pace", "d", 0, "Delay between records, for watching the dashboard update live (0 = as fast as possible)")
	pflag.BoolVarP(&showHelp, "help", "h", false, "Show help")
	pflag.Parse()

	if showHelp || file == "" {
		fmt.Fprintf(os.Stdout, "usage: %s -f <tick-file> [opts]\n\n", os.Args[0])
		pflag.PrintDefaults()
		os.Exit(0)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))

	kind, err := parseKind(kindStr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %s\n", err)
		os.Exit(1)
	}
	unit, err := parseUnit(unitStr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %s\n", err)
		os.Exit(1)
	}

	inst := barcore.NewSimpleInstrument(barcore.InstrumentID(instrument), precision)
	barType := barcore.BarType{
		InstrumentID: inst.ID(),
		Spec: barcore.BarSpecification{
			Step: step, Kind: kind, Unit: unit, PriceSelector: barcore.PriceSelector_Last,
		},
		Source: barcore.AggregationSource_Internal,
	}

	model := bartui.NewModel(barType.String())
	program := tea.NewProgram(model, tea.WithAltScreen())

	handler := func(bar barcore.Bar) { program.Send(bartui.BarMsg{Bar: bar}) }

	var aggregator barcore.BarAggregator
	switch kind {
	case barcore.AggregationKind_Tick:
		aggregator, err = barcore.NewTickAggregator(inst, barType, handler, false)
	case barcore.AggregationKind_Volume:
		aggregator, err = barcore.NewVolumeAggregator(inst, barType, handler, false)
	case barcore.AggregationKind_Value:
		aggregator, err = barcore.NewValueAggregator(inst, barType, handler, false)
	default:
		err = fmt.Errorf("kind %s is not supported by barcore-tui's file-replay driver", kind)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %s\n", err)
		os.Exit(1)
	}

	go feed(file, precision, logger, aggregator, program, speed)

	if _, err := program.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %s\n", err)
		os.Exit(1)
	}
}

func feed(file string, precision uint8, logger *slog.Logger, aggregator barcore.BarAggregator, program *tea.Program, speed time.Duration) {
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
		count, volume, tsLast := aggregator.Stats()
		program.Send(bartui.StatsMsg{Count: count, Volume: volume, LastUpdate: tsLast})
		if speed > 0 {
			time.Sleep(speed)
		}
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

func parseUnit(s string) (barcore.BarTimeUnit, error) {
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
