// Copyright (c) 2024 Neomantra Corp

package barsink_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"

	"github.com/neomantra/barcore"
	"github.com/neomantra/barcore/barsink"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("WebhookSink", func() {
	barType := barcore.BarType{
		InstrumentID: "AAPL.XNAS",
		Spec: barcore.BarSpecification{
			Step: 3, Kind: barcore.AggregationKind_Tick, PriceSelector: barcore.PriceSelector_Last,
		},
		Source: barcore.AggregationSource_Internal,
	}

	It("posts each finalized bar as JSON to the configured URL", func() {
		var received barsink.WebhookBar
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			Expect(r.Method).To(Equal(http.MethodPost))
			Expect(r.Header.Get("Content-Type")).To(Equal("application/json"))
			Expect(json.NewDecoder(r.Body).Decode(&received)).To(Succeed())
			w.WriteHeader(http.StatusOK)
		}))
		defer server.Close()

		sink := barsink.NewWebhookSink(server.URL, 0, nil)
		price, _ := barcore.NewPrice(1.0, 8)
		qty, _ := barcore.NewQuantity(3.0, 0)
		bar, err := barcore.NewBar(barType, price, price, price, price, qty, 0, 0)
		Expect(err).To(BeNil())

		sink.Handler()(bar)

		Expect(received.BarType).To(Equal(barType.String()))
		Expect(received.Volume).To(Equal(qty.String()))
	})

	It("does not panic when the endpoint returns an error status", func() {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer server.Close()

		sink := barsink.NewWebhookSink(server.URL, 0, nil)
		price, _ := barcore.NewPrice(1.0, 8)
		qty, _ := barcore.NewQuantity(1.0, 0)
		bar, err := barcore.NewBar(barType, price, price, price, price, qty, 0, 0)
		Expect(err).To(BeNil())

		Expect(func() { sink.Handler()(bar) }).ToNot(Panic())
	})
})
