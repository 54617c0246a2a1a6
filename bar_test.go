// Copyright (c) 2024 Neomantra Corp

package barcore_test

import (
	"github.com/neomantra/barcore"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Bar", func() {
	instrument := barcore.NewSimpleInstrument("AAPL.XNAS", 0)
	barType := tickBarType(instrument.ID(), 3)

	It("constructs a valid OHLC bar", func() {
		bar, err := barcore.NewBar(barType,
			mustPrice(1.0, 8), mustPrice(1.2, 8), mustPrice(0.9, 8), mustPrice(1.1, 8),
			mustQuantity(5.0, 0), 100, 200)
		Expect(err).To(BeNil())
		Expect(bar.Low.LessThan(bar.Open) || bar.Low.Equal(bar.Open)).To(BeTrue())
		Expect(bar.High.GreaterThan(bar.Close) || bar.High.Equal(bar.Close)).To(BeTrue())
	})

	It("rejects ts_event > ts_init", func() {
		_, err := barcore.NewBar(barType,
			mustPrice(1.0, 8), mustPrice(1.2, 8), mustPrice(0.9, 8), mustPrice(1.1, 8),
			mustQuantity(5.0, 0), 200, 100)
		Expect(err).ToNot(BeNil())
	})

	It("rejects low above open or close", func() {
		_, err := barcore.NewBar(barType,
			mustPrice(1.0, 8), mustPrice(1.2, 8), mustPrice(1.05, 8), mustPrice(1.1, 8),
			mustQuantity(5.0, 0), 100, 200)
		Expect(err).To(MatchError(barcore.ErrInvalidBar))
	})

	It("rejects high below open or close", func() {
		_, err := barcore.NewBar(barType,
			mustPrice(1.0, 8), mustPrice(0.95, 8), mustPrice(0.9, 8), mustPrice(1.1, 8),
			mustQuantity(5.0, 0), 100, 200)
		Expect(err).To(MatchError(barcore.ErrInvalidBar))
	})
})
