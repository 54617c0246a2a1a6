// Copyright (c) 2024 Neomantra Corp

package barcore

// VolumeAggregator finalizes a bar whenever cumulative size reaches the
// configured step, splitting oversized updates exactly across as many bars
// as needed.
type VolumeAggregator struct {
	core *AggregatorCore
}

// NewVolumeAggregator constructs a VolumeAggregator.
func NewVolumeAggregator(instrument Instrument, barType BarType, handler BarHandler, awaitPartial bool) (*VolumeAggregator, error) {
	core, err := NewAggregatorCore(instrument, barType, handler, awaitPartial)
	if err != nil {
		return nil, err
	}
	return &VolumeAggregator{core: core}, nil
}

func (a *VolumeAggregator) BarType() BarType { return a.core.BarType() }

// Stats forwards to the underlying AggregatorCore.
func (a *VolumeAggregator) Stats() (count int, volume Quantity, tsLast int64) { return a.core.Stats() }

func (a *VolumeAggregator) SetPartial(partial Bar) { a.core.SetPartial(partial) }

// Update splits price/size across as many bars as needed to exhaust size in
// the raw integer domain, exactly. The split's completion slice is applied
// to the builder before each emission, never the full residual, so that
// every emitted bar's volume equals the step exactly.
func (a *VolumeAggregator) Update(price Price, size Quantity, tsEvent int64) {
	if tsEvent < a.core.Builder().TsLast() {
		return // late update: dropped, as the builder would drop it
	}
	rawSizeUpdate := size.Raw
	rawStep := int64(float64(a.core.BarType().Spec.Step) * FixedScalar)

	for rawSizeUpdate > 0 {
		if a.core.Builder().Volume().Raw+rawSizeUpdate < rawStep {
			remaining, err := QuantityFromRaw(rawSizeUpdate, size.Precision)
			if err != nil {
				panic(err)
			}
			a.core.applyUpdate(price, remaining, tsEvent)
			break
		}

		rawSizeDiff := rawStep - a.core.Builder().Volume().Raw
		slice, err := QuantityFromRaw(rawSizeDiff, size.Precision)
		if err != nil {
			panic(err)
		}
		a.core.applyUpdate(price, slice, tsEvent)

		a.core.buildNowAndSend()
		rawSizeUpdate -= rawSizeDiff
	}
}

func (a *VolumeAggregator) HandleQuote(quote QuoteTick) {
	price, size := reduceQuote(a.core.BarType().Spec.PriceSelector, quote)
	a.Update(price, size, quote.TsEvent)
}

func (a *VolumeAggregator) HandleTrade(trade TradeTick) {
	a.Update(trade.Price, trade.Size, trade.TsEvent)
}
