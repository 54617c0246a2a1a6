// Copyright (c) 2024 Neomantra Corp

// Package replay reads newline-delimited JSON tick files — optionally
// zstd- or gzip-compressed — into barcore QuoteTick/TradeTick values, for
// feeding a BarAggregator outside of a live feed.
package replay

import (
	"bufio"
	"compress/gzip"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/klauspost/compress/zstd"
	"github.com/relvacode/iso8601"
	"github.com/valyala/fastjson"

	"github.com/neomantra/barcore"
)

// RecordKind discriminates a replay record's JSON shape.
type RecordKind string

const (
	RecordKind_Quote RecordKind = "quote"
	RecordKind_Trade RecordKind = "trade"
)

// Record is a single decoded line from a replay file: exactly one of Quote
// or Trade is populated, per Kind.
type Record struct {
	Kind  RecordKind
	Quote barcore.QuoteTick
	Trade barcore.TradeTick
}

// Reader scans a replay file record by record. Not safe for concurrent use.
type Reader struct {
	scanner   *bufio.Scanner
	closer    io.Closer
	precision uint8
	logger    *slog.Logger
	parser    fastjson.Parser
}

// Open opens filename for replay. A trailing ".zst"/".zstd" decompresses
// with zstd; ".gz" decompresses with the stdlib gzip package. precision is
// applied to every decoded Price/Quantity. A nil logger defaults to
// slog.Default().
func Open(filename string, precision uint8, logger *slog.Logger) (*Reader, error) {
	if logger == nil {
		logger = slog.Default()
	}

	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", filename, err)
	}

	var reader io.Reader = file
	var closer io.Closer = file

	switch {
	case strings.HasSuffix(filename, ".zst"), strings.HasSuffix(filename, ".zstd"):
		zr, err := zstd.NewReader(file)
		if err != nil {
			file.Close()
			return nil, fmt.Errorf("zstd reader for %s: %w", filename, err)
		}
		reader = zr
		closer = readCloserFunc{Reader: io.NopCloser(file), close: func() error { zr.Close(); return file.Close() }}
	case strings.HasSuffix(filename, ".gz"):
		gz, err := gzip.NewReader(file)
		if err != nil {
			file.Close()
			return nil, fmt.Errorf("gzip reader for %s: %w", filename, err)
		}
		reader = gz
		closer = readCloserFunc{Reader: io.NopCloser(file), close: func() error { gz.Close(); return file.Close() }}
	}

	return &Reader{
		scanner:   bufio.NewScanner(reader),
		closer:    closer,
		precision: precision,
		logger:    logger,
	}, nil
}

type readCloserFunc struct {
	io.Reader
	close func() error
}

func (r readCloserFunc) Close() error { return r.close() }

// Close releases the underlying file (and decompressor, if any).
func (r *Reader) Close() error {
	return r.closer.Close()
}

// Next decodes the next valid line into rec, skipping blank or malformed
// lines. Returns false at EOF or on a scanner error; the caller should check
// Err() to distinguish the two.
func (r *Reader) Next(rec *Record) bool {
	for r.scanner.Scan() {
		line := r.scanner.Bytes()
		if len(strings.TrimSpace(string(line))) == 0 {
			continue
		}

		val, err := r.parser.ParseBytes(line)
		if err != nil {
			r.logger.Warn("replay: skipping malformed line", "error", err)
			continue
		}

		kind := RecordKind(val.GetStringBytes("type"))
		tsEvent, err := r.parseTsEvent(val)
		if err != nil {
			r.logger.Warn("replay: skipping line with bad timestamp", "error", err)
			continue
		}

		switch kind {
		case RecordKind_Quote:
			bid, err1 := barcore.NewPrice(val.GetFloat64("bid"), r.precision)
			ask, err2 := barcore.NewPrice(val.GetFloat64("ask"), r.precision)
			bidSize, err3 := barcore.NewQuantity(val.GetFloat64("bid_size"), r.precision)
			askSize, err4 := barcore.NewQuantity(val.GetFloat64("ask_size"), r.precision)
			if err := firstErr(err1, err2, err3, err4); err != nil {
				r.logger.Warn("replay: skipping invalid quote", "error", err)
				continue
			}
			*rec = Record{Kind: RecordKind_Quote, Quote: barcore.QuoteTick{
				Bid: bid, Ask: ask, BidSize: bidSize, AskSize: askSize, TsEvent: tsEvent,
			}}
			return true
		case RecordKind_Trade:
			price, err1 := barcore.NewPrice(val.GetFloat64("price"), r.precision)
			size, err2 := barcore.NewQuantity(val.GetFloat64("size"), r.precision)
			if err := firstErr(err1, err2); err != nil {
				r.logger.Warn("replay: skipping invalid trade", "error", err)
				continue
			}
			*rec = Record{Kind: RecordKind_Trade, Trade: barcore.TradeTick{
				Price: price, Size: size, TsEvent: tsEvent,
			}}
			return true
		default:
			r.logger.Warn("replay: skipping line with unknown type", "type", string(kind))
			continue
		}
	}
	return false
}

// Err returns the scanner's terminal error, if Next returned false because
// of one rather than a clean EOF.
func (r *Reader) Err() error {
	return r.scanner.Err()
}

func (r *Reader) parseTsEvent(val *fastjson.Value) (int64, error) {
	if tsEvent := val.Get("ts_event"); tsEvent != nil {
		if n, err := tsEvent.Int64(); err == nil {
			return n, nil
		}
	}
	ts := string(val.GetStringBytes("ts_event"))
	t, err := iso8601.ParseString(ts)
	if err != nil {
		return 0, fmt.Errorf("parse ts_event %q: %w", ts, err)
	}
	return t.UnixNano(), nil
}

func firstErr(errs ...error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}
