// Copyright (c) 2024 Neomantra Corp

package barcore

// TickAggregator finalizes a bar whenever the tick count reaches the
// configured step.
type TickAggregator struct {
	core *AggregatorCore
}

// NewTickAggregator constructs a TickAggregator.
func NewTickAggregator(instrument Instrument, barType BarType, handler BarHandler, awaitPartial bool) (*TickAggregator, error) {
	core, err := NewAggregatorCore(instrument, barType, handler, awaitPartial)
	if err != nil {
		return nil, err
	}
	return &TickAggregator{core: core}, nil
}

func (a *TickAggregator) BarType() BarType { return a.core.BarType() }

// Stats forwards to the underlying AggregatorCore.
func (a *TickAggregator) Stats() (count int, volume Quantity, tsLast int64) { return a.core.Stats() }

func (a *TickAggregator) SetPartial(partial Bar) { a.core.SetPartial(partial) }

// Update applies price/size at ts_event, finalizing a bar if the step
// threshold is reached.
func (a *TickAggregator) Update(price Price, size Quantity, tsEvent int64) {
	a.core.applyUpdate(price, size, tsEvent)

	if int64(a.core.Builder().Count()) >= a.core.BarType().Spec.Step {
		a.core.buildNowAndSend()
	}
}

func (a *TickAggregator) HandleQuote(quote QuoteTick) {
	price, size := reduceQuote(a.core.BarType().Spec.PriceSelector, quote)
	a.Update(price, size, quote.TsEvent)
}

func (a *TickAggregator) HandleTrade(trade TradeTick) {
	a.Update(trade.Price, trade.Size, trade.TsEvent)
}
