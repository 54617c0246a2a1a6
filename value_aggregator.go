// Copyright (c) 2024 Neomantra Corp

package barcore

// ValueAggregator finalizes a bar whenever cumulative notional value
// (price * size) reaches the configured step. Unlike VolumeAggregator, the
// split is computed in the float domain: notional value has no single
// natural raw-integer unit shared between price and size, so the splitting
// arithmetic tracks cum_value as a plain float64.
type ValueAggregator struct {
	core     *AggregatorCore
	cumValue float64
}

// NewValueAggregator constructs a ValueAggregator.
func NewValueAggregator(instrument Instrument, barType BarType, handler BarHandler, awaitPartial bool) (*ValueAggregator, error) {
	core, err := NewAggregatorCore(instrument, barType, handler, awaitPartial)
	if err != nil {
		return nil, err
	}
	return &ValueAggregator{core: core}, nil
}

func (a *ValueAggregator) BarType() BarType { return a.core.BarType() }

// Stats forwards to the underlying AggregatorCore.
func (a *ValueAggregator) Stats() (count int, volume Quantity, tsLast int64) { return a.core.Stats() }

func (a *ValueAggregator) SetPartial(partial Bar) { a.core.SetPartial(partial) }

// CumulativeValue returns the notional value accumulated toward the current
// bar's step, reset to zero after every emission.
func (a *ValueAggregator) CumulativeValue() float64 { return a.cumValue }

// Update splits price/size proportionally across as many bars as needed so
// that cum_value never exceeds step. size_diff is the portion of size whose
// notional value exactly completes the bar; the remainder carries into the
// next bar at the same price.
func (a *ValueAggregator) Update(price Price, size Quantity, tsEvent int64) {
	if tsEvent < a.core.Builder().TsLast() {
		return // late update: dropped, as the builder would drop it
	}
	sizeUpdate := size.AsFloat64()
	step := float64(a.core.BarType().Spec.Step)

	for sizeUpdate > 0 {
		value := price.AsFloat64() * sizeUpdate

		if a.cumValue+value < step {
			remaining, err := NewQuantity(sizeUpdate, size.Precision)
			if err != nil {
				panic(err)
			}
			a.core.applyUpdate(price, remaining, tsEvent)
			a.cumValue += value
			break
		}

		valueDiff := step - a.cumValue
		sizeDiff := valueDiff / price.AsFloat64()

		slice, err := NewQuantity(sizeDiff, size.Precision)
		if err != nil {
			panic(err)
		}
		a.core.applyUpdate(price, slice, tsEvent)

		a.core.buildNowAndSend()
		a.cumValue = 0
		sizeUpdate -= sizeDiff
	}
}

func (a *ValueAggregator) HandleQuote(quote QuoteTick) {
	price, size := reduceQuote(a.core.BarType().Spec.PriceSelector, quote)
	a.Update(price, size, quote.TsEvent)
}

func (a *ValueAggregator) HandleTrade(trade TradeTick) {
	a.Update(trade.Price, trade.Size, trade.TsEvent)
}
