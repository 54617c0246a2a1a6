// Copyright (c) 2024 Neomantra Corp

package barcore_test

import (
	"github.com/neomantra/barcore"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("TickAggregator", func() {
	instrument := barcore.NewSimpleInstrument("AAPL.XNAS", 0)
	barType := tickBarType(instrument.ID(), 3)

	It("does not emit below the step threshold", func() {
		var bars []barcore.Bar
		agg, err := barcore.NewTickAggregator(instrument, barType, func(b barcore.Bar) { bars = append(bars, b) }, false)
		Expect(err).To(BeNil())

		agg.Update(mustPrice(1.00001, 8), mustQuantity(1.0, 0), 0)
		agg.Update(mustPrice(1.00002, 8), mustQuantity(1.0, 0), 0)

		Expect(bars).To(BeEmpty())
	})

	It("emits a bar the moment the step threshold is reached", func() {
		var bars []barcore.Bar
		agg, err := barcore.NewTickAggregator(instrument, barType, func(b barcore.Bar) { bars = append(bars, b) }, false)
		Expect(err).To(BeNil())

		agg.Update(mustPrice(1.00001, 8), mustQuantity(1.0, 0), 0)
		agg.Update(mustPrice(1.00002, 8), mustQuantity(1.0, 0), 0)
		agg.Update(mustPrice(1.00000, 8), mustQuantity(1.0, 0), 0)

		Expect(bars).To(HaveLen(1))
		Expect(bars[0].Open).To(Equal(mustPrice(1.00001, 8)))
		Expect(bars[0].High).To(Equal(mustPrice(1.00002, 8)))
		Expect(bars[0].Low).To(Equal(mustPrice(1.00000, 8)))
		Expect(bars[0].Close).To(Equal(mustPrice(1.00000, 8)))
		Expect(bars[0].Volume).To(Equal(mustQuantity(3.0, 0)))
	})

	It("emits floor(accepted updates / step) bars over an arbitrary stream", func() {
		var bars []barcore.Bar
		agg, err := barcore.NewTickAggregator(instrument, barType, func(b barcore.Bar) { bars = append(bars, b) }, false)
		Expect(err).To(BeNil())

		const updateCount = 10 // step=3 => floor(10/3) == 3 bars, one update left over
		for i := 0; i < updateCount; i++ {
			agg.Update(mustPrice(1.0+float64(i)*0.00001, 8), mustQuantity(1.0, 0), int64(i))
		}

		Expect(bars).To(HaveLen(updateCount / 3))
	})

	It("reduces a quote via the Bid price_selector", func() {
		var bars []barcore.Bar
		bidBarType := tickBarType(instrument.ID(), 1)
		bidBarType.Spec.PriceSelector = barcore.PriceSelector_Bid
		agg, err := barcore.NewTickAggregator(instrument, bidBarType, func(b barcore.Bar) { bars = append(bars, b) }, false)
		Expect(err).To(BeNil())

		agg.HandleQuote(barcore.QuoteTick{
			Bid: mustPrice(1.00001, 8), Ask: mustPrice(1.00003, 8),
			BidSize: mustQuantity(2.0, 0), AskSize: mustQuantity(4.0, 0),
			TsEvent: 0,
		})

		Expect(bars).To(HaveLen(1))
		Expect(bars[0].Open).To(Equal(mustPrice(1.00001, 8)))
		Expect(bars[0].Volume).To(Equal(mustQuantity(2.0, 0)))
	})

	It("applies a trade tick's own price and size directly", func() {
		var bars []barcore.Bar
		oneStep := tickBarType(instrument.ID(), 1)
		agg, err := barcore.NewTickAggregator(instrument, oneStep, func(b barcore.Bar) { bars = append(bars, b) }, false)
		Expect(err).To(BeNil())

		agg.HandleTrade(barcore.TradeTick{Price: mustPrice(1.23456, 8), Size: mustQuantity(9.0, 0), TsEvent: 5})

		Expect(bars).To(HaveLen(1))
		Expect(bars[0].Close).To(Equal(mustPrice(1.23456, 8)))
		Expect(bars[0].Volume).To(Equal(mustQuantity(9.0, 0)))
	})
})
