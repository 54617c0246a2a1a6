// Copyright (c) 2024 Neomantra Corp

package barcore_test

import (
	"github.com/neomantra/barcore"
	"github.com/neomantra/barcore/barclock"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func secondBarType(instrumentID barcore.InstrumentID, step int64) barcore.BarType {
	return barcore.BarType{
		InstrumentID: instrumentID,
		Spec: barcore.BarSpecification{
			Step:          step,
			Kind:          barcore.AggregationKind_Time,
			Unit:          barcore.BarTimeUnit_Second,
			PriceSelector: barcore.PriceSelector_Last,
		},
		Source: barcore.AggregationSource_Internal,
	}
}

var _ = Describe("TimeAggregator", func() {
	instrument := barcore.NewSimpleInstrument("AAPL.XNAS", 0)
	barType := secondBarType(instrument.ID(), 1) // 1-second bars

	It("aligns its first boundary to the next interval at or after now", func() {
		clock := barclock.NewManualClock(1_500_000_000) // 1.5s past epoch
		agg, err := barcore.NewTimeAggregator(instrument, barType, func(barcore.Bar) {}, false, clock, false, false)
		Expect(err).To(BeNil())
		Expect(agg.Start()).To(BeNil())

		Expect(clock.NextTimeNs(barType.String())).To(Equal(int64(2_000_000_000)))
	})

	It("skips a boundary with no updates when build_with_no_updates is false", func() {
		var bars []barcore.Bar
		clock := barclock.NewManualClock(1)
		agg, err := barcore.NewTimeAggregator(instrument, barType, func(b barcore.Bar) { bars = append(bars, b) }, false, clock, false, false)
		Expect(err).To(BeNil())
		Expect(agg.Start()).To(BeNil())

		agg.Update(mustPrice(1.0, 8), mustQuantity(1.0, 0), 10)
		clock.AdvanceTo(1_000_000_000) // first boundary, one update arrived: emits
		Expect(bars).To(HaveLen(1))

		clock.AdvanceTo(2_000_000_000) // second boundary, no updates since: skipped
		Expect(bars).To(HaveLen(1))
	})

	It("emits an empty bar seeded from the previous close when build_with_no_updates is true", func() {
		var bars []barcore.Bar
		clock := barclock.NewManualClock(1)
		agg, err := barcore.NewTimeAggregator(instrument, barType, func(b barcore.Bar) { bars = append(bars, b) }, false, clock, true, false)
		Expect(err).To(BeNil())
		Expect(agg.Start()).To(BeNil())

		agg.Update(mustPrice(1.0, 8), mustQuantity(1.0, 0), 10)
		clock.AdvanceTo(1_000_000_000)
		Expect(bars).To(HaveLen(1))

		clock.AdvanceTo(2_000_000_000) // no updates, but build_with_no_updates=true
		Expect(bars).To(HaveLen(2))
		Expect(bars[1].Open).To(Equal(bars[0].Close))
		Expect(bars[1].Close).To(Equal(bars[0].Close))
	})

	It("defers emission when a boundary fires before any update has arrived", func() {
		var bars []barcore.Bar
		clock := barclock.NewManualClock(1)
		agg, err := barcore.NewTimeAggregator(instrument, barType, func(b barcore.Bar) { bars = append(bars, b) }, false, clock, false, false)
		Expect(err).To(BeNil())
		Expect(agg.Start()).To(BeNil())

		clock.AdvanceTo(1_000_000_000) // boundary fires, builder never initialized: deferred
		Expect(bars).To(BeEmpty())

		agg.Update(mustPrice(1.00001, 8), mustQuantity(3.0, 0), 1_500_000_000)

		Expect(bars).To(HaveLen(1))
		Expect(bars[0].Open).To(Equal(mustPrice(1.00001, 8)))
		Expect(bars[0].TsInit).To(Equal(int64(1_500_000_000)))
	})

	It("resolves ts_event as stored_open_ns under the default (not left-open) policy", func() {
		var bars []barcore.Bar
		clock := barclock.NewManualClock(1)
		agg, err := barcore.NewTimeAggregator(instrument, barType, func(b barcore.Bar) { bars = append(bars, b) }, false, clock, false, false)
		Expect(err).To(BeNil())
		Expect(agg.Start()).To(BeNil())

		agg.Update(mustPrice(1.0, 8), mustQuantity(1.0, 0), 10)
		clock.AdvanceTo(1_000_000_000)
		Expect(bars).To(HaveLen(1))
		Expect(bars[0].TsEvent).To(Equal(int64(0))) // stored_open_ns not yet seeded before the first bar

		agg.Update(mustPrice(1.1, 8), mustQuantity(1.0, 0), 1_100_000_000)
		clock.AdvanceTo(2_000_000_000)
		Expect(bars).To(HaveLen(2))
		Expect(bars[1].TsEvent).To(Equal(int64(1_000_000_000))) // seeded from the prior boundary's event
	})

	It("stops the timer so no further bars are built", func() {
		var bars []barcore.Bar
		clock := barclock.NewManualClock(1)
		agg, err := barcore.NewTimeAggregator(instrument, barType, func(b barcore.Bar) { bars = append(bars, b) }, false, clock, true, false)
		Expect(err).To(BeNil())
		Expect(agg.Start()).To(BeNil())

		agg.Stop()
		clock.AdvanceTo(5_000_000_000)
		Expect(bars).To(BeEmpty())
	})

	It("rejects a non-Time aggregation kind", func() {
		clock := barclock.NewManualClock(1)
		tick := tickBarType(instrument.ID(), 3)
		_, err := barcore.NewTimeAggregator(instrument, tick, func(barcore.Bar) {}, false, clock, false, false)
		Expect(err).To(MatchError(barcore.ErrNotTimeAggregation))
	})
})
