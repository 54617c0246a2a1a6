// Copyright (c) 2024 Neomantra Corp

package barcore

// QuoteTick is a bid/ask market update, reduced to a single (price, size)
// observation via a BarSpecification's PriceSelector before reaching a
// builder.
type QuoteTick struct {
	Bid     Price
	Ask     Price
	BidSize Quantity
	AskSize Quantity
	TsEvent int64
}

// TradeTick is an executed-trade market update, used directly.
type TradeTick struct {
	Price   Price
	Size    Quantity
	TsEvent int64
}

// reduceQuote reduces a QuoteTick to (price, size) per selector: Bid and Ask
// select the corresponding side directly, while Mid and Last (which has no
// meaning on a quote) both fall back to the bid/ask midpoint.
func reduceQuote(selector PriceSelector, q QuoteTick) (Price, Quantity) {
	switch selector {
	case PriceSelector_Bid:
		return q.Bid, q.BidSize
	case PriceSelector_Ask:
		return q.Ask, q.AskSize
	default: // Mid, and Last (which has no meaning on a quote; fall back to Mid)
		mid := Price{Raw: (q.Bid.Raw + q.Ask.Raw) / 2, Precision: q.Bid.Precision}
		midSize := Quantity{Raw: (q.BidSize.Raw + q.AskSize.Raw) / 2, Precision: q.BidSize.Precision}
		return mid, midSize
	}
}

///////////////////////////////////////////////////////////////////////////////

// BarAggregator is the capability set every concrete aggregator variant
// implements: a BarType, the raw update entry point, and the quote/trade
// adapters that reduce to it.
type BarAggregator interface {
	BarType() BarType
	Update(price Price, size Quantity, tsEvent int64)
	HandleQuote(quote QuoteTick)
	HandleTrade(trade TradeTick)
	Stats() (count int, volume Quantity, tsLast int64)
}

///////////////////////////////////////////////////////////////////////////////

// BarHandler is the single-argument invocable every aggregator emits
// finalized Bars to. It is invoked synchronously and must not re-enter the
// aggregator that produced it.
type BarHandler func(Bar)

// AggregatorCore is the shared delegate every concrete aggregator embeds: a
// BarBuilder plus the output handler. AwaitPartial is reserved for callers
// that want to suppress emission until SetPartial has been applied; the
// core emission paths do not consult it (see the Open Questions decision in
// SPEC_FULL.md).
type AggregatorCore struct {
	barType      BarType
	builder      *BarBuilder
	handler      BarHandler
	AwaitPartial bool
}

// NewAggregatorCore constructs an AggregatorCore bound to instrument and
// barType, sending finalized bars to handler.
func NewAggregatorCore(instrument Instrument, barType BarType, handler BarHandler, awaitPartial bool) (*AggregatorCore, error) {
	builder, err := NewBarBuilder(instrument, barType)
	if err != nil {
		return nil, err
	}
	return &AggregatorCore{
		barType:      barType,
		builder:      builder,
		handler:      handler,
		AwaitPartial: awaitPartial,
	}, nil
}

// BarType returns the bound BarType.
func (c *AggregatorCore) BarType() BarType { return c.barType }

// Builder exposes the underlying BarBuilder for concrete aggregators that
// need to inspect count/volume/ts_last to decide when to finalize.
func (c *AggregatorCore) Builder() *BarBuilder { return c.builder }

// Stats returns the in-progress builder's running update count, cumulative
// volume, and the timestamp of its most recently accepted update.
func (c *AggregatorCore) Stats() (count int, volume Quantity, tsLast int64) {
	return c.builder.Count(), c.builder.Volume(), c.builder.TsLast()
}

// SetPartial forwards to the underlying BarBuilder.
func (c *AggregatorCore) SetPartial(partial Bar) {
	c.builder.SetPartial(partial)
}

// applyUpdate forwards a single observation to the builder without
// finalizing.
func (c *AggregatorCore) applyUpdate(price Price, size Quantity, tsEvent int64) {
	c.builder.Update(price, size, tsEvent)
}

// buildNowAndSend finalizes the builder at ts_last and invokes the handler.
func (c *AggregatorCore) buildNowAndSend() {
	c.handler(c.builder.BuildNow())
}

// buildAndSend finalizes the builder at (ts_event, ts_init) and invokes the
// handler.
func (c *AggregatorCore) buildAndSend(tsEvent, tsInit int64) {
	c.handler(c.builder.Build(tsEvent, tsInit))
}
