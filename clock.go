// Copyright (c) 2024 Neomantra Corp

package barcore

// TimeEvent is delivered by a Clock to a registered timer's callback when
// the timer fires.
type TimeEvent struct {
	Name    string
	TsEvent int64
}

// TimerCallback is invoked synchronously by a Clock when a named timer
// fires. Implementations must not block.
type TimerCallback func(TimeEvent)

// Clock is the capability TimeAggregator is parameterized over: a source of
// wall-clock time plus named, periodic timer registration. barclock.RealClock
// and barclock.ManualClock are the two concrete implementations; barcore
// itself stays clock-implementation-agnostic.
type Clock interface {
	// UtcNowNs returns the current wall-clock time in Unix nanoseconds.
	UtcNowNs() int64

	// SetTimerNs registers a periodic timer under name, firing every
	// intervalNs starting at startTimeNs, optionally stopping at
	// stopTimeNs (nil means unbounded). callback is invoked on each fire.
	// Returns ErrTimerRegistration if name is already registered.
	SetTimerNs(name string, intervalNs int64, startTimeNs int64, stopTimeNs *int64, callback TimerCallback) error

	// CancelTimer cancels the named timer. A no-op if the name is unknown.
	CancelTimer(name string)

	// NextTimeNs returns the next scheduled fire time, in Unix nanoseconds,
	// for the named timer.
	NextTimeNs(name string) int64
}

// alignTimeBarStart computes the first aggregation-interval boundary at or
// after nowNs, for a Time-kind BarSpecification. Boundaries are aligned to
// the Unix epoch at the interval's own granularity (e.g. every 5 minutes
// aligns to :00/:05/:10/...), matching the original's day/hour/minute/second
// calendar alignment for every interval that evenly divides its unit.
func alignTimeBarStart(nowNs int64, spec BarSpecification) int64 {
	intervalNs := spec.IntervalNs()
	if intervalNs <= 0 {
		return nowNs
	}
	remainder := nowNs % intervalNs
	if remainder == 0 {
		return nowNs
	}
	return nowNs - remainder + intervalNs
}
