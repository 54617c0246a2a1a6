// Copyright (c) 2024 Neomantra Corp

package barcore_test

import (
	"github.com/neomantra/barcore"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func valueBarType(instrumentID barcore.InstrumentID, step int64) barcore.BarType {
	bt := tickBarType(instrumentID, step)
	bt.Spec.Kind = barcore.AggregationKind_Value
	return bt
}

var _ = Describe("ValueAggregator", func() {
	instrument := barcore.NewSimpleInstrument("AAPL.XNAS", 0)

	It("accumulates cumulative value below the step without emitting", func() {
		barType := valueBarType(instrument.ID(), 100)
		agg, err := barcore.NewValueAggregator(instrument, barType, func(barcore.Bar) { Fail("should not emit") }, false)
		Expect(err).To(BeNil())

		agg.Update(mustPrice(10.0, 2), mustQuantity(5.0, 0), 0) // value = 50 < 100

		Expect(agg.CumulativeValue()).To(BeNumerically("~", 50.0, 1e-9))
	})

	It("emits a bar once notional value reaches the step, splitting proportionally", func() {
		var bars []barcore.Bar
		barType := valueBarType(instrument.ID(), 100)
		agg, err := barcore.NewValueAggregator(instrument, barType, func(b barcore.Bar) { bars = append(bars, b) }, false)
		Expect(err).To(BeNil())

		agg.Update(mustPrice(10.0, 2), mustQuantity(15.0, 0), 0) // value = 150, step = 100

		Expect(bars).To(HaveLen(1))
		Expect(bars[0].Volume.AsFloat64()).To(BeNumerically("~", 10.0, 1e-6)) // size_diff = 100/10
		// the remaining 5 units (50 notional) roll into cum_value for the next bar
		Expect(agg.CumulativeValue()).To(BeNumerically("~", 50.0, 1e-6))
	})

	It("carries the split remainder into cum_value for the next bar", func() {
		barType := valueBarType(instrument.ID(), 100)
		agg, err := barcore.NewValueAggregator(instrument, barType, func(barcore.Bar) {}, false)
		Expect(err).To(BeNil())

		agg.Update(mustPrice(10.0, 2), mustQuantity(15.0, 0), 0) // 150 notional: one bar, 50 remainder

		Expect(agg.CumulativeValue()).To(BeNumerically("~", 50.0, 1e-6))
	})

	It("splits a single pathological update (step=1) into many bars and terminates", func() {
		var bars []barcore.Bar
		barType := valueBarType(instrument.ID(), 1)
		agg, err := barcore.NewValueAggregator(instrument, barType, func(b barcore.Bar) { bars = append(bars, b) }, false)
		Expect(err).To(BeNil())

		agg.Update(mustPrice(1.0, 8), mustQuantity(10.0, 0), 0) // 10 notional @ step 1 => 10 bars

		Expect(bars).To(HaveLen(10))
		for _, b := range bars {
			Expect(b.TsEvent).To(Equal(int64(0)))
		}
	})

	It("reduces a quote via the Mid price_selector", func() {
		var bars []barcore.Bar
		barType := valueBarType(instrument.ID(), 1000)
		barType.Spec.PriceSelector = barcore.PriceSelector_Mid
		agg, err := barcore.NewValueAggregator(instrument, barType, func(b barcore.Bar) { bars = append(bars, b) }, false)
		Expect(err).To(BeNil())

		agg.HandleQuote(barcore.QuoteTick{
			Bid: mustPrice(10.0, 2), Ask: mustPrice(10.02, 2),
			BidSize: mustQuantity(4.0, 0), AskSize: mustQuantity(6.0, 0),
			TsEvent: 3,
		})

		Expect(bars).To(BeEmpty())
		Expect(agg.CumulativeValue()).To(BeNumerically(">", 0))
	})
})
