// Copyright (c) 2024 Neomantra Corp

package barcore

// Bar is a finalized OHLCV summary over a boundary-delimited window of
// updates.
type Bar struct {
	BarType  BarType
	Open     Price
	High     Price
	Low      Price
	Close    Price
	Volume   Quantity
	TsEvent  int64 // nanoseconds since the UNIX epoch
	TsInit   int64 // nanoseconds since the UNIX epoch
}

// NewBar constructs a Bar, returning an invariant-violation error if
// ts_event > ts_init, or ErrInvalidBar if the OHLC invariant
// (low <= open,close <= high) does not hold.
func NewBar(barType BarType, open, high, low, close Price, volume Quantity, tsEvent, tsInit int64) (Bar, error) {
	if tsEvent > tsInit {
		return Bar{}, invariantError("ts_event <= ts_init", tsEvent, tsInit)
	}
	if low.Raw > open.Raw || low.Raw > close.Raw || low.Raw > high.Raw {
		return Bar{}, ErrInvalidBar
	}
	if high.Raw < open.Raw || high.Raw < close.Raw {
		return Bar{}, ErrInvalidBar
	}
	return Bar{
		BarType: barType,
		Open:    open,
		High:    high,
		Low:     low,
		Close:   close,
		Volume:  volume,
		TsEvent: tsEvent,
		TsInit:  tsInit,
	}, nil
}
