// Copyright (c) 2024 Neomantra Corp

package barsink_test

import (
	"github.com/neomantra/barcore"
	"github.com/neomantra/barcore/barsink"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("ArrowSink", func() {
	barType := barcore.BarType{
		InstrumentID: "AAPL.XNAS",
		Spec: barcore.BarSpecification{
			Step: 3, Kind: barcore.AggregationKind_Tick, PriceSelector: barcore.PriceSelector_Last,
		},
		Source: barcore.AggregationSource_Internal,
	}

	It("accumulates rows and resets on Flush", func() {
		sink := barsink.NewArrowSink()
		defer sink.Release()
		handler := sink.Handler()

		price, _ := barcore.NewPrice(1.0, 8)
		qty, _ := barcore.NewQuantity(1.0, 0)
		bar, err := barcore.NewBar(barType, price, price, price, price, qty, 0, 0)
		Expect(err).To(BeNil())

		handler(bar)
		handler(bar)
		Expect(sink.Len()).To(Equal(2))

		record := sink.Flush()
		defer record.Release()

		Expect(record.NumRows()).To(Equal(int64(2)))
		Expect(record.NumCols()).To(Equal(int64(8)))
		Expect(sink.Len()).To(Equal(0))
	})
})
