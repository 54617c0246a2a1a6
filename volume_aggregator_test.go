// Copyright (c) 2024 Neomantra Corp

package barcore_test

import (
	"github.com/neomantra/barcore"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func volumeBarType(instrumentID barcore.InstrumentID, step int64) barcore.BarType {
	bt := tickBarType(instrumentID, step)
	bt.Spec.Kind = barcore.AggregationKind_Volume
	return bt
}

var _ = Describe("VolumeAggregator", func() {
	instrument := barcore.NewSimpleInstrument("AAPL.XNAS", 0)

	It("does not emit until cumulative size reaches the step", func() {
		var bars []barcore.Bar
		barType := volumeBarType(instrument.ID(), 10)
		agg, err := barcore.NewVolumeAggregator(instrument, barType, func(b barcore.Bar) { bars = append(bars, b) }, false)
		Expect(err).To(BeNil())

		agg.Update(mustPrice(1.0, 8), mustQuantity(4.0, 0), 0)
		Expect(bars).To(BeEmpty())
	})

	It("splits an oversized update exactly across bars, per spec scenario 6", func() {
		var bars []barcore.Bar
		barType := volumeBarType(instrument.ID(), 10)
		agg, err := barcore.NewVolumeAggregator(instrument, barType, func(b barcore.Bar) { bars = append(bars, b) }, false)
		Expect(err).To(BeNil())

		price := mustPrice(1.5, 8)
		agg.Update(price, mustQuantity(25.0, 0), 0)

		Expect(bars).To(HaveLen(2))
		Expect(bars[0].Volume).To(Equal(mustQuantity(10.0, 0)))
		Expect(bars[1].Volume).To(Equal(mustQuantity(10.0, 0)))
		Expect(bars[0].Open).To(Equal(price))
		Expect(bars[1].Close).To(Equal(price))
	})

	It("conserves volume exactly: emitted bars account for every full step", func() {
		barType := volumeBarType(instrument.ID(), 10)
		var sumBarVolume int64
		agg, err := barcore.NewVolumeAggregator(instrument, barType, func(b barcore.Bar) {
			sumBarVolume += b.Volume.Raw
		}, false)
		Expect(err).To(BeNil())

		sizes := []float64{3, 7, 25, 1, 14}
		var totalRaw int64
		for i, size := range sizes {
			agg.Update(mustPrice(1.0+float64(i)*0.0001, 8), mustQuantity(size, 0), int64(i))
			totalRaw += mustQuantity(size, 0).Raw
		}

		stepRaw := mustQuantity(10.0, 0).Raw
		expectedResidual := totalRaw % stepRaw
		Expect(sumBarVolume).To(Equal(totalRaw - expectedResidual))
	})

	It("shares ts_event and price across all bars emitted from one oversized update", func() {
		var bars []barcore.Bar
		barType := volumeBarType(instrument.ID(), 5)
		agg, err := barcore.NewVolumeAggregator(instrument, barType, func(b barcore.Bar) { bars = append(bars, b) }, false)
		Expect(err).To(BeNil())

		agg.Update(mustPrice(2.0, 8), mustQuantity(17.0, 0), 42)

		Expect(bars).To(HaveLen(3))
		for _, b := range bars {
			Expect(b.TsEvent).To(Equal(int64(42)))
			Expect(b.Volume).To(Equal(mustQuantity(5.0, 0)))
		}
	})

	It("reduces a quote via the Ask price_selector", func() {
		var bars []barcore.Bar
		barType := volumeBarType(instrument.ID(), 3)
		barType.Spec.PriceSelector = barcore.PriceSelector_Ask
		agg, err := barcore.NewVolumeAggregator(instrument, barType, func(b barcore.Bar) { bars = append(bars, b) }, false)
		Expect(err).To(BeNil())

		agg.HandleQuote(barcore.QuoteTick{
			Bid: mustPrice(1.0, 8), Ask: mustPrice(1.01, 8),
			BidSize: mustQuantity(2.0, 0), AskSize: mustQuantity(3.0, 0),
			TsEvent: 7,
		})

		Expect(bars).To(HaveLen(1))
		Expect(bars[0].Open).To(Equal(mustPrice(1.01, 8)))
	})
})
