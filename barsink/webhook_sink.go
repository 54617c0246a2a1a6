// Copyright (c) 2024 Neomantra Corp

package barsink

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/segmentio/encoding/json"

	"github.com/neomantra/barcore"
)

// WebhookBar is the JSON wire shape posted to a WebhookSink's URL.
type WebhookBar struct {
	BarType string  `json:"bar_type"`
	Open    string  `json:"open"`
	High    string  `json:"high"`
	Low     string  `json:"low"`
	Close   string  `json:"close"`
	Volume  string  `json:"volume"`
	TsEvent int64   `json:"ts_event"`
	TsInit  int64   `json:"ts_init"`
}

// WebhookSink posts each finalized bar as a JSON document to a configured
// URL, retrying transient failures with exponential backoff.
type WebhookSink struct {
	client *retryablehttp.Client
	url    string
	logger *slog.Logger
}

// NewWebhookSink constructs a WebhookSink posting to url. A nil logger
// defaults to slog.Default(); retryMax bounds the number of retry attempts
// go-retryablehttp will make per bar.
func NewWebhookSink(url string, retryMax int, logger *slog.Logger) *WebhookSink {
	if logger == nil {
		logger = slog.Default()
	}
	client := retryablehttp.NewClient()
	client.RetryMax = retryMax
	client.Logger = nil // silenced; we log ourselves at the call site below
	return &WebhookSink{client: client, url: url, logger: logger}
}

// Handler returns the barcore.BarHandler closure wired to this sink. Delivery
// failures (including exhausted retries) are logged, never returned — the
// Handler capability (spec §6) has no error channel back to the aggregator.
func (s *WebhookSink) Handler() barcore.BarHandler {
	return func(bar barcore.Bar) {
		if err := s.deliver(bar); err != nil {
			s.logger.Error("webhook delivery failed", "bar_type", bar.BarType.String(), "url", s.url, "error", err)
		}
	}
}

func (s *WebhookSink) deliver(bar barcore.Bar) error {
	payload := WebhookBar{
		BarType: bar.BarType.String(),
		Open:    bar.Open.String(),
		High:    bar.High.String(),
		Low:     bar.Low.String(),
		Close:   bar.Close.String(),
		Volume:  bar.Volume.String(),
		TsEvent: bar.TsEvent,
		TsInit:  bar.TsInit,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal bar: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodPost, s.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("post bar: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("webhook returned status %d", resp.StatusCode)
	}
	return nil
}
