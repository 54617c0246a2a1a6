// Copyright (c) 2024 Neomantra Corp

package barcore

// BarBuilder accumulates OHLCV state across updates for a single BarType,
// producing finalized Bars on build/build_now and resetting its
// accumulating fields after each one.
//
// A BarBuilder is not safe for concurrent use; callers must serialize all
// calls the same way the owning aggregator serializes update/build calls.
type BarBuilder struct {
	barType       BarType
	sizePrecision uint8

	initialized bool
	partialSet  bool
	count       int
	tsLast      int64

	open  *Price
	high  *Price
	low   *Price
	close *Price

	volume Quantity

	lastClose *Price
}

// NewBarBuilder constructs a BarBuilder bound to instrument and barType.
// Fails if instrument.ID() != barType.InstrumentID, or if
// barType.Source != AggregationSource_Internal, or if barType.Spec.Step is
// not positive.
func NewBarBuilder(instrument Instrument, barType BarType) (*BarBuilder, error) {
	if instrument.ID() != barType.InstrumentID {
		return nil, ErrInstrumentMismatch
	}
	if err := barType.validate(); err != nil {
		return nil, err
	}
	return &BarBuilder{
		barType:       barType,
		sizePrecision: instrument.SizePrecision(),
		volume:        ZeroQuantity(instrument.SizePrecision()),
	}, nil
}

// BarType returns the BarType this builder accumulates.
func (b *BarBuilder) BarType() BarType { return b.barType }

// Initialized reports whether the builder has ever received an open price,
// whether via Update or SetPartial.
func (b *BarBuilder) Initialized() bool { return b.initialized }

// Count returns the number of updates that have advanced ts_last since the
// last build/build_now.
func (b *BarBuilder) Count() int { return b.count }

// TsLast returns the timestamp of the most recently accepted update.
func (b *BarBuilder) TsLast() int64 { return b.tsLast }

// Volume returns the builder's current accumulated volume.
func (b *BarBuilder) Volume() Quantity { return b.volume }

// SetPartial seeds the in-progress bar from a previously computed partial
// Bar. Idempotent: only the first call takes effect.
func (b *BarBuilder) SetPartial(partial Bar) {
	if b.partialSet {
		return
	}

	open := partial.Open
	b.open = &open

	if b.high == nil || partial.High.Raw > b.high.Raw {
		high := partial.High
		b.high = &high
	}
	if b.low == nil || partial.Low.Raw < b.low.Raw {
		low := partial.Low
		b.low = &low
	}
	if b.close == nil {
		close := partial.Close
		b.close = &close
	}

	b.volume = partial.Volume

	if b.tsLast == 0 {
		b.tsLast = partial.TsInit
	}

	b.partialSet = true
	b.initialized = true
}

// Update applies a single (price, size) observation at ts_event. Updates
// with ts_event < ts_last are silently dropped (late-update policy).
func (b *BarBuilder) Update(price Price, size Quantity, tsEvent int64) {
	if tsEvent < b.tsLast {
		return
	}

	if b.open == nil {
		open := price
		high := price
		low := price
		b.open, b.high, b.low = &open, &high, &low
		b.initialized = true
	} else {
		if price.Raw > b.high.Raw {
			high := price
			b.high = &high
		}
		if price.Raw < b.low.Raw {
			low := price
			b.low = &low
		}
	}

	close := price
	b.close = &close
	b.volume = b.volume.Add(size)
	b.count++
	b.tsLast = tsEvent
}

// reset clears the accumulating O/H/L/volume/count fields. ts_last and
// last_close survive, per the build contract.
func (b *BarBuilder) reset() {
	b.open, b.high, b.low, b.close = nil, nil, nil, nil
	b.volume = ZeroQuantity(b.sizePrecision)
	b.count = 0
}

// BuildNow is shorthand for Build(ts_last, ts_last).
func (b *BarBuilder) BuildNow() Bar {
	return b.Build(b.tsLast, b.tsLast)
}

// Build emits the accumulated Bar at (ts_event, ts_init) and resets the
// builder for the next bar.
//
// If no update has set an open and there is no prior close to fall back on,
// Build panics: calling Build before any data has arrived is a programmer
// error.
func (b *BarBuilder) Build(tsEvent, tsInit int64) Bar {
	if b.open == nil {
		if b.lastClose == nil {
			panic(ErrBuildWithNoData)
		}
		open, high, low, close := *b.lastClose, *b.lastClose, *b.lastClose, *b.lastClose
		b.open, b.high, b.low, b.close = &open, &high, &low, &close
	}

	bar, err := NewBar(b.barType, *b.open, *b.high, *b.low, *b.close, b.volume, tsEvent, tsInit)
	if err != nil {
		panic(err)
	}

	closeVal := *b.close
	b.lastClose = &closeVal
	b.reset()
	return bar
}
