// Copyright (c) 2024 Neomantra Corp

package barsink

import (
	"sync"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"

	"github.com/neomantra/barcore"
)

// ArrowSchema is the column layout ArrowSink accumulates finalized bars into:
// one row per bar, float64 OHLCV columns and int64 timestamp columns.
var ArrowSchema = arrow.NewSchema([]arrow.Field{
	{Name: "bar_type", Type: arrow.BinaryTypes.String},
	{Name: "open", Type: arrow.PrimitiveTypes.Float64},
	{Name: "high", Type: arrow.PrimitiveTypes.Float64},
	{Name: "low", Type: arrow.PrimitiveTypes.Float64},
	{Name: "close", Type: arrow.PrimitiveTypes.Float64},
	{Name: "volume", Type: arrow.PrimitiveTypes.Float64},
	{Name: "ts_event", Type: arrow.PrimitiveTypes.Int64},
	{Name: "ts_init", Type: arrow.PrimitiveTypes.Int64},
}, nil)

// ArrowSink accumulates finalized bars into an in-memory Arrow
// RecordBuilder, for batch export to downstream analytics tooling. It holds
// no file or database writer — Flush hands the caller an arrow.Record and
// resets the builder for the next batch.
type ArrowSink struct {
	mu      sync.Mutex
	mem     memory.Allocator
	builder *array.RecordBuilder
}

// NewArrowSink constructs an ArrowSink backed by the default Go allocator.
func NewArrowSink() *ArrowSink {
	mem := memory.NewGoAllocator()
	return &ArrowSink{
		mem:     mem,
		builder: array.NewRecordBuilder(mem, ArrowSchema),
	}
}

// Handler returns the barcore.BarHandler closure wired to this sink.
func (s *ArrowSink) Handler() barcore.BarHandler {
	return func(bar barcore.Bar) {
		s.mu.Lock()
		defer s.mu.Unlock()

		s.builder.Field(0).(*array.StringBuilder).Append(bar.BarType.String())
		s.builder.Field(1).(*array.Float64Builder).Append(bar.Open.AsFloat64())
		s.builder.Field(2).(*array.Float64Builder).Append(bar.High.AsFloat64())
		s.builder.Field(3).(*array.Float64Builder).Append(bar.Low.AsFloat64())
		s.builder.Field(4).(*array.Float64Builder).Append(bar.Close.AsFloat64())
		s.builder.Field(5).(*array.Float64Builder).Append(bar.Volume.AsFloat64())
		s.builder.Field(6).(*array.Int64Builder).Append(bar.TsEvent)
		s.builder.Field(7).(*array.Int64Builder).Append(bar.TsInit)
	}
}

// Flush snapshots the accumulated rows as an arrow.Record and resets the
// builder for the next batch. The caller owns the returned record and must
// call Release on it.
func (s *ArrowSink) Flush() arrow.Record {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.builder.NewRecord()
}

// Len returns the number of rows accumulated since the last Flush.
func (s *ArrowSink) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.builder.Field(0).Len()
}

// Release frees the underlying RecordBuilder's resources.
func (s *ArrowSink) Release() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.builder.Release()
}
