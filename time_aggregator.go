// Copyright (c) 2024 Neomantra Corp

package barcore

// TimeAggregator finalizes a bar on every aggregation-interval boundary,
// driven by a registered Clock timer rather than by update volume. Its
// update path emits only in the deferred "build on next tick" case below,
// because a boundary that fires before any update has arrived cannot yet
// produce a bar.
//
// Calling Update before Start is undefined by this type's contract: nothing
// defends against it, but build_on_next_tick can only be set from the timer
// callback registered by Start, so the path is unreachable until Start has
// run.
type TimeAggregator struct {
	core *AggregatorCore
	clock Clock

	buildWithNoUpdates bool
	timestampOnClose   bool
	isLeftOpen         bool
	buildOnNextTick    bool

	storedOpenNs  int64
	storedCloseNs int64
	nextCloseNs   int64

	timerName  string
	intervalNs int64
}

// NewTimeAggregator constructs a TimeAggregator. Fails for the same reasons
// as NewAggregatorCore, or if barType.Spec.Kind is not AggregationKind_Time.
//
// The aggregator is never left-open: isLeftOpen is always false, so ts_event
// always resolves to stored_open_ns and timestampOnClose does not change the
// emitted bars.
func NewTimeAggregator(
	instrument Instrument,
	barType BarType,
	handler BarHandler,
	awaitPartial bool,
	clock Clock,
	buildWithNoUpdates bool,
	timestampOnClose bool,
) (*TimeAggregator, error) {
	if barType.Spec.Kind != AggregationKind_Time {
		return nil, ErrNotTimeAggregation
	}
	core, err := NewAggregatorCore(instrument, barType, handler, awaitPartial)
	if err != nil {
		return nil, err
	}
	return &TimeAggregator{
		core:               core,
		clock:              clock,
		buildWithNoUpdates: buildWithNoUpdates,
		timestampOnClose:   timestampOnClose,
		isLeftOpen:         false,
		timerName:          barType.String(),
		intervalNs:         barType.Spec.IntervalNs(),
	}, nil
}

func (a *TimeAggregator) BarType() BarType { return a.core.BarType() }

// Stats forwards to the underlying AggregatorCore.
func (a *TimeAggregator) Stats() (count int, volume Quantity, tsLast int64) { return a.core.Stats() }

func (a *TimeAggregator) SetPartial(partial Bar) { a.core.SetPartial(partial) }

// Start aligns to the first interval boundary at or after the clock's
// current time, and registers a periodic timer firing every interval_ns
// starting there.
func (a *TimeAggregator) Start() error {
	now := a.clock.UtcNowNs()
	startTimeNs := alignTimeBarStart(now, a.core.BarType().Spec)
	return a.clock.SetTimerNs(a.timerName, a.intervalNs, startTimeNs, nil, a.buildBar)
}

// Stop cancels the timer by name. No final flush is performed.
func (a *TimeAggregator) Stop() {
	a.clock.CancelTimer(a.timerName)
}

// buildBar is the registered timer callback.
func (a *TimeAggregator) buildBar(event TimeEvent) {
	if !a.core.Builder().Initialized() {
		a.buildOnNextTick = true
		a.storedCloseNs = a.nextCloseNs
		return
	}

	if !a.buildWithNoUpdates && a.core.Builder().Count() == 0 {
		return
	}

	tsInit := event.TsEvent
	tsEvent := a.resolveTsEvent(event.TsEvent)

	a.core.buildAndSend(tsEvent, tsInit)
	a.storedOpenNs = event.TsEvent
	a.nextCloseNs = a.clock.NextTimeNs(a.timerName)
}

// resolveTsEvent implements the ts_event policy matrix for the timer path:
// is_left_open=false always uses stored_open_ns; is_left_open=true with
// timestamp_on_close=false also uses stored_open_ns; is_left_open=true with
// timestamp_on_close=true uses the timer event's own ts_event.
func (a *TimeAggregator) resolveTsEvent(eventTsEvent int64) int64 {
	if a.isLeftOpen && a.timestampOnClose {
		return eventTsEvent
	}
	return a.storedOpenNs
}

// Update applies price/size to the builder, then — if a boundary fired
// before any data had arrived — emits the deferred bar immediately using the
// tick's own timestamp as ts_init and the policy matrix's deferred-path
// timestamp (stored_close_ns substitutes for the timer event's ts_event in
// the left-open/timestamp-on-close case) as ts_event.
func (a *TimeAggregator) Update(price Price, size Quantity, tsEvent int64) {
	a.core.applyUpdate(price, size, tsEvent)

	if a.buildOnNextTick {
		tsInit := tsEvent
		var deferredTsEvent int64
		if a.isLeftOpen && a.timestampOnClose {
			deferredTsEvent = a.storedCloseNs
		} else {
			deferredTsEvent = a.storedOpenNs
		}

		a.core.buildAndSend(deferredTsEvent, tsInit)
		a.buildOnNextTick = false
		a.storedCloseNs = 0
	}
}

func (a *TimeAggregator) HandleQuote(quote QuoteTick) {
	price, size := reduceQuote(a.core.BarType().Spec.PriceSelector, quote)
	a.Update(price, size, quote.TsEvent)
}

func (a *TimeAggregator) HandleTrade(trade TradeTick) {
	a.Update(trade.Price, trade.Size, trade.TsEvent)
}
