// Copyright (c) 2024 Neomantra Corp

package barcore

import "fmt"

var (
	ErrInstrumentMismatch           = fmt.Errorf("instrument.id does not match bar_type.instrument_id")
	ErrAggregationSourceNotInternal = fmt.Errorf("bar_type.aggregation_source must be Internal")
	ErrInvalidStep                  = fmt.Errorf("bar specification step must be positive")
	ErrInvalidBar                   = fmt.Errorf("bar violates OHLC invariants")
	ErrTimerRegistration            = fmt.Errorf("clock rejected timer registration")
	ErrNotTimeAggregation           = fmt.Errorf("bar_type aggregation kind is not Time")
	ErrBuildWithNoData              = fmt.Errorf("build called with neither updates nor a prior close: programmer error")
)

func invariantError(field string, got, want any) error {
	return fmt.Errorf("invariant violation: %s got %v, want %v", field, got, want)
}
